package state

import (
	"slices"
	"sync"
	"time"

	"github.com/five82/kennel/internal/filters"
	"github.com/five82/kennel/internal/rescue"
)

// Snapshot represents the latest listing data available to the UI.
type Snapshot struct {
	Filters       filters.State
	ActiveFilters int
	Items         []rescue.Dog
	Page          int
	HasMore       bool
	Loading       bool
	LoadingMore   bool
	Error         string
	Counts        *rescue.FilterCounts
	Regions       []string
	LastUpdated   time.Time
	// ConsecutiveFailures counts fetch failures since the last success.
	ConsecutiveFailures int
}

// IsOffline returns true when the API has failed several times in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Busy reports whether any list fetch is in flight.
func (s Snapshot) Busy() bool {
	return s.Loading || s.LoadingMore
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	version  uint64
}

// Update replaces the stored snapshot. Failure bookkeeping is derived here:
// a snapshot carrying a new error increments ConsecutiveFailures, one
// without an error resets it once loading has finished.
func (s *Store) Update(next Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	failures := s.snapshot.ConsecutiveFailures
	switch {
	case next.Error != "" && next.Error != s.snapshot.Error:
		failures++
	case next.Error == "" && !next.Busy():
		failures = 0
	}

	next.Items = cloneItems(next.Items)
	next.Regions = slices.Clone(next.Regions)
	next.LastUpdated = time.Now()
	next.ConsecutiveFailures = failures
	s.snapshot = next
	s.version++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Items = cloneItems(s.snapshot.Items)
	snap.Regions = slices.Clone(s.snapshot.Regions)
	if s.snapshot.Counts != nil {
		counts := *s.snapshot.Counts
		snap.Counts = &counts
	}
	return snap
}

// Version increases with every Update; readers use it to skip re-rendering.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func cloneItems(items []rescue.Dog) []rescue.Dog {
	if len(items) == 0 {
		return nil
	}
	dup := make([]rescue.Dog, len(items))
	copy(dup, items)
	return dup
}
