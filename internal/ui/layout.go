package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the width below which the side pane is hidden.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the width from which rows show the organization.
	LayoutWideWidth = 140
)

const (
	// DefaultUIInterval is how often the model re-reads the store.
	DefaultUIInterval = 150 * time.Millisecond

	// loadMoreThreshold is how close to the last row the selection must be
	// before the next page is requested.
	loadMoreThreshold = 2
)
