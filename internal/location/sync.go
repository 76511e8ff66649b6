package location

import (
	"strconv"
	"sync"
	"time"

	"github.com/romdo/go-debounce"

	"github.com/five82/kennel/internal/filters"
)

// DefaultURLDebounce coalesces rapid filter edits into one history entry.
const DefaultURLDebounce = 500 * time.Millisecond

// Synchronizer writes filter state back into the History.
type Synchronizer struct {
	history   History
	defaults  filters.State
	debounced func()
	stop      func()

	// writeMu orders history writes, so a page replacement never lands
	// between a flush taking its pending write and pushing it.
	writeMu sync.Mutex
	mu      sync.Mutex
	pending *pendingWrite
}

type pendingWrite struct {
	filters        filters.State
	page           int
	preserveScroll bool
}

// NewSynchronizer builds a Synchronizer for a route with the given defaults.
// A non-positive delay uses DefaultURLDebounce.
func NewSynchronizer(history History, defaults filters.State, delay time.Duration) *Synchronizer {
	if delay <= 0 {
		delay = DefaultURLDebounce
	}
	s := &Synchronizer{history: history, defaults: defaults}
	s.debounced, s.stop = debounce.New(delay, s.flush)
	return s
}

// Update schedules a location write for f. Calls within the debounce window
// replace each other; only the last one is written.
func (s *Synchronizer) Update(f filters.State, page int, preserveScroll bool) {
	s.mu.Lock()
	s.pending = &pendingWrite{filters: f, page: page, preserveScroll: preserveScroll}
	s.mu.Unlock()
	s.debounced()
}

// UpdateNow discards any scheduled write and writes f immediately.
func (s *Synchronizer) UpdateNow(f filters.State, page int, preserveScroll bool) {
	s.Cancel()
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.write(pendingWrite{filters: f, page: page, preserveScroll: preserveScroll})
}

// Cancel discards a scheduled write. A timer that already fired but has not
// yet taken the pending write finds nothing to do.
func (s *Synchronizer) Cancel() {
	s.stop()
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

// Pending reports whether a write is scheduled.
func (s *Synchronizer) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// ReplacePage rewrites the page parameter of the current entry in place. It
// does not notify subscribers, so loading more never triggers a refetch.
// When a write is still scheduled the current entry is about to be
// superseded, so the scheduled write takes the page instead.
func (s *Synchronizer) ReplacePage(page int) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	if s.pending != nil {
		s.pending.page = page
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	value := ""
	if page > 1 {
		value = strconv.Itoa(page)
	}
	cur := s.history.Current()
	next := cur.WithParam(filters.PageParam, value)
	if !next.Equal(cur) {
		s.history.ReplaceState(next)
	}
}

// Flush writes a scheduled location immediately instead of waiting for the
// debounce window.
func (s *Synchronizer) Flush() {
	s.stop()
	s.flush()
}

func (s *Synchronizer) flush() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	w := s.pending
	s.pending = nil
	s.mu.Unlock()
	if w == nil {
		return
	}
	s.write(*w)
}

func (s *Synchronizer) write(w pendingWrite) {
	cur := s.history.Current()
	scroll := 0
	if w.preserveScroll {
		scroll = filters.ParseScroll(cur.Query)
	}
	s.history.Push(Location{
		Path:  cur.Path,
		Query: filters.Encode(w.filters, s.defaults, w.page, scroll),
	})
}
