// Package ui provides the terminal browser for kennel.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. It never talks to the Rescue API itself:
// user intent goes to the listing controller through the Listing interface,
// and the rendered data comes from state.Store snapshots polled on a tick.
// History and scroll position flow through the location package.
//
// # Package Structure
//
//   - app.go: Model, Update loop, key handling and the Run function
//   - view.go: header, command bar and pane layout
//   - list.go: dog rows, list footer and the detail viewport
//   - filterpane.go: filter field options and their counts
//   - keys.go, help.go: key bindings and the help overlay
//   - theme.go, style_helpers.go: palettes and background-aware rendering
//
// # Event Flow
//
//  1. Run() starts the program with the initial Model
//  2. tickMsg fetches a snapshot from state.Store
//  3. The first settled snapshot with items restores the saved scroll offset
//  4. Moving the selection records the offset and, near the end of the list,
//     asks for the next page
//  5. Filter changes, reset, retry and history moves are forwarded to the
//     controller or the history, never applied locally
//
// # Key Bindings
//
//   - j/k, g/G, ctrl+d/ctrl+u: Move through the list
//   - Tab: Switch between the list and the filter pane
//   - h/l: Cycle the focused filter's value
//   - /: Edit the search filter
//   - m: Load the next page
//   - x: Reset filters to the route defaults
//   - r: Retry the last failed load
//   - [ and ]: History back and forward
//   - T: Cycle theme
//   - q or Ctrl+C: Exit
package ui
