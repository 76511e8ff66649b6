package location

import (
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/five82/kennel/internal/filters"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testDelay = 20 * time.Millisecond

type recorder struct {
	mu   sync.Mutex
	seen []Location
}

func (r *recorder) record(loc Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, loc)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

func mustParse(t *testing.T, raw string) Location {
	t.Helper()
	loc, err := Parse(raw)
	require.NoError(t, err)
	return loc
}

func TestParse_DefaultsAndString(t *testing.T) {
	loc := mustParse(t, "")
	assert.Equal(t, "/dogs", loc.String())

	loc = mustParse(t, "/dogs/puppies?sex=Male&page=2")
	assert.Equal(t, "/dogs/puppies", loc.Path)
	assert.Equal(t, "/dogs/puppies?page=2&sex=Male", loc.String())

	loc = mustParse(t, "?size=Small")
	assert.Equal(t, "/dogs?size=Small", loc.String())
}

func TestMemory_PushNotifiesReplaceStateDoesNot(t *testing.T) {
	h := NewMemory(mustParse(t, "/dogs"))
	var rec recorder
	unsubscribe := h.Subscribe(rec.record)

	h.Push(mustParse(t, "/dogs?size=Small"))
	h.Push(mustParse(t, "/dogs?size=Small"))
	assert.Equal(t, 1, rec.count(), "pushing the current location is a no-op")

	h.ReplaceState(mustParse(t, "/dogs?size=Small&page=2"))
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, "/dogs?page=2&size=Small", h.Current().String())
	assert.Equal(t, 2, h.Len())

	require.True(t, h.Back())
	assert.Equal(t, 2, rec.count())
	assert.Equal(t, "/dogs", h.Current().String())
	assert.False(t, h.Back())

	require.True(t, h.Forward())
	assert.Equal(t, "/dogs?page=2&size=Small", h.Current().String())

	unsubscribe()
	h.Push(mustParse(t, "/dogs"))
	assert.Equal(t, 3, rec.count())
}

func TestMemory_PushDropsForwardEntries(t *testing.T) {
	h := NewMemory(mustParse(t, "/dogs"))
	h.Push(mustParse(t, "/dogs?sex=Male"))
	h.Push(mustParse(t, "/dogs?sex=Female"))
	require.True(t, h.Back())
	h.Push(mustParse(t, "/dogs?size=Tiny"))
	assert.Equal(t, 3, h.Len())
	assert.False(t, h.Forward())
}

func TestSynchronizer_CoalescesRapidUpdates(t *testing.T) {
	h := NewMemory(mustParse(t, "/dogs"))
	var rec recorder
	h.Subscribe(rec.record)

	s := NewSynchronizer(h, filters.Any(), testDelay)
	defer s.Cancel()

	state := filters.Any()
	for _, text := range []string{"l", "lu", "lun", "luna"} {
		state = state.With(filters.Search, text)
		s.Update(state, 1, false)
	}

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return rec.count() > 1 }, 3*testDelay, 5*time.Millisecond)
	assert.Equal(t, "/dogs?search=luna", h.Current().String())
	assert.False(t, s.Pending())
}

func TestSynchronizer_CancelDiscardsPendingWrite(t *testing.T) {
	h := NewMemory(mustParse(t, "/dogs"))
	var rec recorder
	h.Subscribe(rec.record)

	s := NewSynchronizer(h, filters.Any(), testDelay)
	s.Update(filters.Any().With(filters.Size, "Small"), 1, false)
	require.True(t, s.Pending())
	s.Cancel()

	assert.Never(t, func() bool { return rec.count() > 0 }, 3*testDelay, 5*time.Millisecond)
	assert.Equal(t, "/dogs", h.Current().String())

	// the synchronizer keeps working after a cancel
	s.Update(filters.Any().With(filters.Size, "Large"), 1, false)
	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "/dogs?size=Large", h.Current().String())
	s.Cancel()
}

func TestSynchronizer_FlushWritesPendingImmediately(t *testing.T) {
	h := NewMemory(mustParse(t, "/dogs"))
	s := NewSynchronizer(h, filters.Any(), time.Hour)
	defer s.Cancel()

	s.Update(filters.Any().With(filters.Sex, "Female"), 2, false)
	s.Flush()

	assert.Equal(t, "/dogs?page=2&sex=Female", h.Current().String())
	assert.False(t, s.Pending())

	s.Flush()
	assert.Equal(t, 2, h.Len())
}

func TestSynchronizer_PageAndScrollHandling(t *testing.T) {
	h := NewMemory(mustParse(t, "/dogs/puppies?scroll=120"))
	s := NewSynchronizer(h, filters.RouteFor("/dogs/puppies").Defaults, testDelay)
	defer s.Cancel()

	puppies := filters.RouteFor("/dogs/puppies").Defaults.With(filters.Sex, "Female")
	s.UpdateNow(puppies, 3, true)
	assert.Equal(t, url.Values{"sex": {"Female"}, "page": {"3"}, "scroll": {"120"}}, h.Current().Query)
	assert.Equal(t, "/dogs/puppies", h.Current().Path)

	s.UpdateNow(puppies, 1, false)
	assert.Equal(t, url.Values{"sex": {"Female"}}, h.Current().Query)
}

func TestSynchronizer_ReplacePageIsSilent(t *testing.T) {
	h := NewMemory(mustParse(t, "/dogs?size=Small"))
	var rec recorder
	h.Subscribe(rec.record)
	s := NewSynchronizer(h, filters.Any(), testDelay)
	defer s.Cancel()

	s.ReplacePage(2)
	assert.Equal(t, "/dogs?page=2&size=Small", h.Current().String())
	s.ReplacePage(1)
	assert.Equal(t, "/dogs?size=Small", h.Current().String())
	assert.Equal(t, 0, rec.count())
	assert.Equal(t, 1, h.Len())
}

func TestSynchronizer_ReplacePageWhileWritePendingCarriesPage(t *testing.T) {
	h := NewMemory(mustParse(t, "/dogs"))
	var rec recorder
	h.Subscribe(rec.record)
	s := NewSynchronizer(h, filters.Any(), testDelay)
	defer s.Cancel()

	s.Update(filters.Any().With(filters.Size, "Small"), 1, false)
	s.ReplacePage(2)
	assert.Equal(t, "/dogs", h.Current().String(), "the entry being replaced by the pending write is left alone")

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return rec.count() > 1 }, 3*testDelay, 5*time.Millisecond)
	assert.Equal(t, "/dogs?page=2&size=Small", h.Current().String())
	assert.Equal(t, 2, h.Len())

	require.True(t, h.Back())
	assert.Equal(t, "/dogs", h.Current().String())
}

type fakeScroller struct {
	tracker *ScrollTracker
	got     []int
}

func (f *fakeScroller) ScrollTo(offset int) {
	f.got = append(f.got, offset)
	// a real view reports the programmatic scroll back as a scroll event
	f.tracker.Observe(offset + 1)
}

func TestScrollTracker_SavesDebouncedOffsets(t *testing.T) {
	h := NewMemory(mustParse(t, "/dogs?size=Small"))
	var rec recorder
	h.Subscribe(rec.record)
	tr := NewScrollTracker(h, testDelay)
	defer tr.Close()

	for _, off := range []int{10, 20, 35} {
		tr.Observe(off)
	}
	require.Eventually(t, func() bool {
		return h.Current().Query.Get(filters.ScrollParam) == "35"
	}, time.Second, 5*time.Millisecond)

	tr.Observe(0)
	require.Eventually(t, func() bool {
		return !h.Current().Query.Has(filters.ScrollParam)
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, rec.count(), "scroll bookkeeping never notifies subscribers")
}

func TestScrollTracker_RestoresOnceWithoutFeedback(t *testing.T) {
	h := NewMemory(mustParse(t, "/dogs?scroll=240"))
	tr := NewScrollTracker(h, testDelay)
	defer tr.Close()

	target := &fakeScroller{tracker: tr}
	require.True(t, tr.Restore(target))
	assert.Equal(t, []int{240}, target.got)
	assert.Equal(t, 240, tr.Offset())
	assert.False(t, tr.Restore(target))
	assert.Len(t, target.got, 1)

	time.Sleep(3 * testDelay)
	assert.Equal(t, "240", h.Current().Query.Get(filters.ScrollParam))
}

func TestScrollTracker_NoAnchorNoRestore(t *testing.T) {
	h := NewMemory(mustParse(t, "/dogs?scroll=abc"))
	tr := NewScrollTracker(h, testDelay)
	defer tr.Close()
	target := &fakeScroller{tracker: tr}
	assert.False(t, tr.Restore(target))
	assert.Empty(t, target.got)
}
