// Package app provides the orchestration layer for kennel.
//
// # Overview
//
// This package wires together configuration, logging, the Rescue API client,
// the organization directory, the listing controller and the UI. It is the
// composition root where all dependencies are initialized and connected.
//
// # Components
//
//   - app.go: Run (the browser) and the per-route session wiring
//   - list.go: List, the headless variant that prints a table
//   - directory.go: organization metadata and the startup retry
//   - poller.go: background refresh of the directory with failure backoff
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Read kennel config
//	       ├─────> rescue.NewClient()     Create HTTP client
//	       ├─────> loadOrganizations()    Allow-list for deep links (retried)
//	       ├─────> StartPoller()          Refresh organizations
//	       ├─────> newSession()           History, location writers, controller
//	       ├─────> controller.Mount()     Hydrate the start location
//	       └─────> ui.Run()               Start TUI (blocks)
//
//	Navigation:
//	┌─────────────────────────────────────────┐
//	│ history.Back() / Push()                 │
//	│  └─> controller.HandleLocation()        │
//	│      └─> fetch goroutines               │
//	│          └─> store.Update()             │
//	│              └─> UI reads Snapshot()    │
//	└─────────────────────────────────────────┘
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file invalid
//   - Log file cannot be opened
//   - Start location cannot be parsed
//
// Recoverable errors (logged, browsing continues):
//   - Organizations unavailable at startup; the organization filter then
//     falls back to "any"
//   - Periodic organization refresh failures
//   - Listing fetch failures, which the UI shows with a retry hint
//
// # Usage Example
//
//	if err := app.Run(ctx, app.Options{Location: "/dogs/puppies?size=Small"}); err != nil {
//		log.Fatalf("kennel failed: %v", err)
//	}
package app
