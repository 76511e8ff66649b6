package ui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/kennel/internal/filters"
	"github.com/five82/kennel/internal/location"
	"github.com/five82/kennel/internal/rescue"
	"github.com/five82/kennel/internal/state"
)

type fakeListing struct {
	calls []string
}

func (f *fakeListing) SetFilter(field filters.Field, value string) {
	f.calls = append(f.calls, "filter:"+field.Key()+"="+value)
}
func (f *fakeListing) Reset()    { f.calls = append(f.calls, "reset") }
func (f *fakeListing) LoadMore() { f.calls = append(f.calls, "more") }
func (f *fakeListing) Retry()    { f.calls = append(f.calls, "retry") }

func (f *fakeListing) count(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

type fakeScroll struct {
	observed []int
	restore  int
	restored int
}

func (f *fakeScroll) Observe(offset int) { f.observed = append(f.observed, offset) }

func (f *fakeScroll) Restore(target location.Scroller) bool {
	if f.restored > 0 || f.restore == 0 {
		f.restored++
		return false
	}
	f.restored++
	target.ScrollTo(f.restore)
	return true
}

type fakeHistory struct {
	backs, forwards int
}

func (f *fakeHistory) Current() location.Location {
	loc, _ := location.Parse("/dogs?size=Small")
	return loc
}
func (f *fakeHistory) Back() bool    { f.backs++; return true }
func (f *fakeHistory) Forward() bool { f.forwards++; return false }

func testDogs(n int) []rescue.Dog {
	out := make([]rescue.Dog, n)
	for i := range out {
		out[i] = rescue.Dog{ID: int64(i + 1), Name: "Dog", AgeCategory: "Adult", Breed: "Mixed"}
	}
	return out
}

func newTestModel(t *testing.T, opts Options, snap state.Snapshot) Model {
	t.Helper()
	if opts.PrefsPath == "" {
		opts.PrefsPath = filepath.Join(t.TempDir(), "prefs.toml")
	}
	if opts.Route.Path == "" {
		opts.Route = filters.RouteFor("/dogs")
	}
	m := New(opts)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return update(t, m, snapshotMsg(snap))
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoadMoreKey(t *testing.T) {
	listing := &fakeListing{}
	m := newTestModel(t, Options{Listing: listing}, state.Snapshot{Items: testDogs(20), HasMore: true, Page: 1})

	update(t, m, runes("m"))
	if got := listing.count("more"); got != 1 {
		t.Fatalf("LoadMore calls = %d, want 1", got)
	}
}

func TestSelectionNearEndRequestsNextPage(t *testing.T) {
	cases := []struct {
		name string
		snap state.Snapshot
		want int
	}{
		{"more available", state.Snapshot{Items: testDogs(20), HasMore: true}, 1},
		{"already loading", state.Snapshot{Items: testDogs(20), HasMore: true, LoadingMore: true}, 0},
		{"last page", state.Snapshot{Items: testDogs(20)}, 0},
		{"failed page waits for retry", state.Snapshot{Items: testDogs(20), HasMore: true, Error: "Failed to load more dogs"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			listing := &fakeListing{}
			m := newTestModel(t, Options{Listing: listing}, tc.snap)
			m = update(t, m, runes("G"))
			if got := listing.count("more"); got != tc.want {
				t.Fatalf("LoadMore calls = %d, want %d", got, tc.want)
			}
			if m.selected != 19 {
				t.Fatalf("selected = %d, want 19", m.selected)
			}
		})
	}
}

func TestFilterPaneCyclesValues(t *testing.T) {
	listing := &fakeListing{}
	m := newTestModel(t, Options{Listing: listing}, state.Snapshot{Filters: filters.Any(), Items: testDogs(5)})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, runes("j")) // Search -> Size
	m = update(t, m, runes("l"))
	m = update(t, m, runes("h"))

	want := []string{"filter:sizeFilter=Tiny", "filter:sizeFilter=Extra Large"}
	if strings.Join(listing.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", listing.calls, want)
	}
}

func TestSearchInputUpdatesFilterPerKeystroke(t *testing.T) {
	listing := &fakeListing{}
	m := newTestModel(t, Options{Listing: listing}, state.Snapshot{Filters: filters.Any()})

	m = update(t, m, runes("/"))
	if !m.searching {
		t.Fatal("expected search input to open")
	}
	m = update(t, m, runes("r"))
	m = update(t, m, runes("q"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	want := []string{"filter:searchQuery=r", "filter:searchQuery=rq"}
	if strings.Join(listing.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", listing.calls, want)
	}
	if m.searching {
		t.Fatal("enter should close the search input")
	}
}

func TestResetRetryAndHistoryKeys(t *testing.T) {
	listing := &fakeListing{}
	history := &fakeHistory{}
	m := newTestModel(t, Options{Listing: listing, History: history}, state.Snapshot{Items: testDogs(30), HasMore: true})
	m = update(t, m, runes("j"))
	m = update(t, m, runes("j"))

	m = update(t, m, runes("x"))
	if m.selected != 0 {
		t.Fatalf("selected = %d after reset, want 0", m.selected)
	}
	update(t, m, runes("r"))
	update(t, m, runes("["))
	update(t, m, runes("]"))

	if listing.count("reset") != 1 || listing.count("retry") != 1 {
		t.Fatalf("calls = %v", listing.calls)
	}
	if history.backs != 1 || history.forwards != 1 {
		t.Fatalf("history backs=%d forwards=%d, want 1/1", history.backs, history.forwards)
	}
}

func TestScrollRestoreAndObserve(t *testing.T) {
	scroll := &fakeScroll{restore: 7}
	listing := &fakeListing{}
	m := newTestModel(t, Options{Listing: listing, Scroll: scroll}, state.Snapshot{Items: testDogs(100), HasMore: true})

	if m.offset != 7 || m.selected != 7 {
		t.Fatalf("offset/selected = %d/%d after restore, want 7/7", m.offset, m.selected)
	}
	if len(scroll.observed) != 0 {
		t.Fatalf("restore must not record offsets, got %v", scroll.observed)
	}

	m = update(t, m, runes("G"))
	if len(scroll.observed) != 1 || scroll.observed[0] != m.offset {
		t.Fatalf("observed = %v, want [%d]", scroll.observed, m.offset)
	}

	update(t, m, snapshotMsg(state.Snapshot{Items: testDogs(100)}))
	if scroll.restored != 2 {
		t.Fatalf("Restore calls = %d, want 2", scroll.restored)
	}
}

func TestRestoreWaitsForLoadedItems(t *testing.T) {
	scroll := &fakeScroll{restore: 3}
	m := newTestModel(t, Options{Listing: &fakeListing{}, Scroll: scroll}, state.Snapshot{Loading: true})
	if scroll.restored != 0 {
		t.Fatalf("Restore called %d times while loading", scroll.restored)
	}
	m = update(t, m, snapshotMsg(state.Snapshot{Items: testDogs(10)}))
	if m.selected != 3 {
		t.Fatalf("selected = %d, want 3", m.selected)
	}
}

func TestViewShowsErrorAndEmptyStates(t *testing.T) {
	m := newTestModel(t, Options{Listing: &fakeListing{}}, state.Snapshot{Error: "Failed to load dogs"})
	if view := m.View(); !strings.Contains(view, "Failed to load dogs") {
		t.Fatalf("view missing error message")
	}

	m = update(t, m, snapshotMsg(state.Snapshot{}))
	if view := m.View(); !strings.Contains(view, "No dogs match these filters") {
		t.Fatalf("view missing empty state")
	}
}

func TestQuitAndHelp(t *testing.T) {
	m := newTestModel(t, Options{Listing: &fakeListing{}}, state.Snapshot{})
	m = update(t, m, runes("?"))
	if !m.showHelp {
		t.Fatal("expected help overlay")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help overlay not rendered")
	}
	m = update(t, m, runes("j"))
	if m.showHelp {
		t.Fatal("any key should close help")
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
}

func TestTickFetchesOnlyChangedSnapshots(t *testing.T) {
	store := &state.Store{}
	m := newTestModel(t, Options{Listing: &fakeListing{}, Store: store}, state.Snapshot{})

	store.Update(state.Snapshot{Items: testDogs(3)})
	m = update(t, m, tickMsg{})
	if m.version != store.Version() {
		t.Fatalf("version = %d, want %d", m.version, store.Version())
	}

	before := m.version
	m = update(t, m, tickMsg{})
	if m.version != before {
		t.Fatal("unchanged store must not be fetched again")
	}
}
