package location

import (
	"strconv"
	"sync"
	"time"

	"github.com/romdo/go-debounce"

	"github.com/five82/kennel/internal/filters"
)

// DefaultScrollDebounce limits how often scroll offsets are recorded.
const DefaultScrollDebounce = 300 * time.Millisecond

// Scroller is anything that can be scrolled to a vertical offset.
type Scroller interface {
	ScrollTo(offset int)
}

// ScrollTracker records the list's scroll offset in the current history
// entry and restores it once after mount.
type ScrollTracker struct {
	history   History
	debounced func()
	stop      func()

	mu        sync.Mutex
	offset    int
	restoring bool
	restored  bool
}

// NewScrollTracker builds a tracker. A non-positive delay uses
// DefaultScrollDebounce.
func NewScrollTracker(history History, delay time.Duration) *ScrollTracker {
	if delay <= 0 {
		delay = DefaultScrollDebounce
	}
	t := &ScrollTracker{history: history}
	t.debounced, t.stop = debounce.New(delay, t.save)
	return t
}

// Observe records a scroll event. Events raised while a restoration is in
// progress are ignored.
func (t *ScrollTracker) Observe(offset int) {
	t.mu.Lock()
	if t.restoring {
		t.mu.Unlock()
		return
	}
	t.offset = max(offset, 0)
	t.mu.Unlock()
	t.debounced()
}

// Restore scrolls target to the offset stored in the current entry. It acts
// at most once per tracker and reports whether it scrolled.
func (t *ScrollTracker) Restore(target Scroller) bool {
	t.mu.Lock()
	if t.restored {
		t.mu.Unlock()
		return false
	}
	t.restored = true
	offset := filters.ParseScroll(t.history.Current().Query)
	if offset == 0 {
		t.mu.Unlock()
		return false
	}
	t.restoring = true
	t.offset = offset
	t.mu.Unlock()

	target.ScrollTo(offset)

	t.mu.Lock()
	t.restoring = false
	t.mu.Unlock()
	return true
}

// Offset returns the last recorded offset.
func (t *ScrollTracker) Offset() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.offset
}

// Close drops any pending save.
func (t *ScrollTracker) Close() {
	t.stop()
}

func (t *ScrollTracker) save() {
	t.mu.Lock()
	offset := t.offset
	t.mu.Unlock()

	value := ""
	if offset > 0 {
		value = strconv.Itoa(offset)
	}
	cur := t.history.Current()
	next := cur.WithParam(filters.ScrollParam, value)
	if !next.Equal(cur) {
		t.history.ReplaceState(next)
	}
}
