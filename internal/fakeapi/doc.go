// Package fakeapi serves a deterministic in-memory Rescue API. It backs the
// fixture command for local development and the end-to-end tests, and can
// inject latency and failures per route.
package fakeapi
