// Package listing keeps the dog listing in step with filters, the location
// and the Rescue API.
//
// The package is split in two. Machine is a pure transition function: it
// takes the current State and one Event and returns the next State with the
// Commands to perform. It owns every rule about the listing:
//
//   - each list request carries a token and a result is applied only when
//     its token is still current, so a slow response for old filters can
//     never overwrite newer data
//   - cancellation is silent; no error is shown for a superseded request
//   - load-more checks and sets its in-flight phase in one step, so
//     overlapping requests produce a single fetch
//   - a deep link to page N fetches pages 1..N together and shows them as
//     one batch in page order
//   - appended pages never introduce an id that is already listed
//
// Controller is the shell around Machine. It serializes Step calls under a
// mutex, runs fetches in goroutines that report back as events, cancels the
// previous list fetch whenever a new one starts, and publishes every state
// to a state.Store for the UI.
package listing
