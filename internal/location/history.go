package location

import "sync"

// History is the navigation stack the listing lives in.
//
// Push records a client-side navigation and notifies subscribers, the same
// way a router update re-runs location-dependent effects. ReplaceState
// rewrites the current entry silently, which is what page and scroll
// bookkeeping use so they never trigger a refetch.
type History interface {
	Current() Location
	Push(loc Location)
	ReplaceState(loc Location)
	Subscribe(fn func(Location)) (unsubscribe func())
}

// Memory is an in-process History with back/forward support. It is safe for
// concurrent use; subscribers run synchronously outside the lock.
type Memory struct {
	mu      sync.Mutex
	entries []Location
	index   int
	subs    map[int]func(Location)
	nextSub int
}

var _ History = (*Memory)(nil)

// NewMemory starts a history at initial.
func NewMemory(initial Location) *Memory {
	return &Memory{
		entries: []Location{initial.Clone()},
		subs:    make(map[int]func(Location)),
	}
}

// Current returns a copy of the active entry.
func (m *Memory) Current() Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.index].Clone()
}

// Push appends loc after the current entry, dropping forward entries. Pushing
// a location equal to the current one is a no-op.
func (m *Memory) Push(loc Location) {
	m.mu.Lock()
	if m.entries[m.index].Equal(loc) {
		m.mu.Unlock()
		return
	}
	m.entries = append(m.entries[:m.index+1], loc.Clone())
	m.index = len(m.entries) - 1
	subs := m.subscribers()
	m.mu.Unlock()
	notify(subs, loc)
}

// ReplaceState overwrites the current entry without notifying subscribers.
func (m *Memory) ReplaceState(loc Location) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[m.index] = loc.Clone()
}

// Back moves one entry back and notifies subscribers. It reports false at
// the start of history.
func (m *Memory) Back() bool {
	return m.move(-1)
}

// Forward moves one entry forward and notifies subscribers.
func (m *Memory) Forward() bool {
	return m.move(1)
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Subscribe registers fn for navigation notifications.
func (m *Memory) Subscribe(fn func(Location)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Memory) move(delta int) bool {
	m.mu.Lock()
	next := m.index + delta
	if next < 0 || next >= len(m.entries) {
		m.mu.Unlock()
		return false
	}
	m.index = next
	loc := m.entries[next].Clone()
	subs := m.subscribers()
	m.mu.Unlock()
	notify(subs, loc)
	return true
}

func (m *Memory) subscribers() []func(Location) {
	subs := make([]func(Location), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(Location), loc Location) {
	for _, fn := range subs {
		fn(loc.Clone())
	}
}
