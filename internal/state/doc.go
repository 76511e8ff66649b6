// Package state provides thread-safe sharing of listing snapshots between
// the listing controller and its readers.
//
// # Overview
//
// The controller publishes a Snapshot after every state transition. The UI
// reads Snapshot() on its own tick, so rendering never blocks on network
// I/O.
//
//	Producer (listing.Controller):     Consumer (UI):
//	┌──────────────────────┐          ┌──────────────────┐
//	│ Machine.Step()       │          │                  │
//	│      ↓               │          │                  │
//	│ store.Update(snap)   │─────────→│ store.Snapshot() │
//	│                      │ (RWMutex)│      ↓           │
//	│                      │          │   render         │
//	└──────────────────────┘          └──────────────────┘
//
// # Copy Semantics
//
// Update and Snapshot both copy the item slice, region slice and counts, so
// a reader can never observe or cause a torn list.
//
// # Failure Tracking
//
// ConsecutiveFailures is derived by the store: a snapshot carrying a new
// error message counts as a failure, a settled snapshot without one resets
// the counter. IsOffline turns true after two failures in a row and drives
// the header's offline badge.
//
// # Testing Considerations
//
// The zero Store is ready to use:
//
//	store := &state.Store{}
package state
