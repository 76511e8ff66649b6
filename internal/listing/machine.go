package listing

import (
	"context"
	"errors"

	"github.com/five82/kennel/internal/filters"
	"github.com/five82/kennel/internal/rescue"
)

const (
	// DefaultPageSize is the number of dogs requested per page.
	DefaultPageSize = 20
	// MaxHydratePages caps how many pages a deep link may request at once.
	MaxHydratePages = 50

	msgLoadFailed     = "Failed to load dogs"
	msgLoadMoreFailed = "Failed to load more dogs"
)

// Phase is the controller's position in its state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoadingMore
	PhaseHydrating
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoadingMore:
		return "loading-more"
	case PhaseHydrating:
		return "hydrating"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

type operation int

const (
	opNone operation = iota
	opReplace
	opAppend
	opHydrate
)

func (o operation) String() string {
	switch o {
	case opReplace:
		return "replace"
	case opAppend:
		return "append"
	case opHydrate:
		return "hydrate"
	default:
		return "none"
	}
}

// State is the listing owned by the controller.
type State struct {
	Filters filters.State
	Items   []rescue.Dog
	// Page is the highest page loaded; zero before the first load.
	Page    int
	HasMore bool
	Phase   Phase
	Err     string
	Counts  *rescue.FilterCounts
	Regions []string

	token       uint64
	countsToken uint64
	pending     operation
	pendingPage int
	failed      operation
	failedPage  int
}

// Loading reports a replace or hydration fetch in flight.
func (s State) Loading() bool {
	return s.Phase == PhaseLoading || s.Phase == PhaseHydrating
}

// LoadingMore reports an append fetch in flight.
func (s State) LoadingMore() bool {
	return s.Phase == PhaseLoadingMore
}

// Busy reports any list fetch in flight.
func (s State) Busy() bool {
	return s.Loading() || s.LoadingMore()
}

// Mutating reports that an append-class operation owns the list. Location
// changes are ignored while it does.
func (s State) Mutating() bool {
	return s.Phase == PhaseLoadingMore || s.Phase == PhaseHydrating
}

// Token returns the token of the authoritative list request.
func (s State) Token() uint64 {
	return s.token
}

// Event drives the machine.
type Event interface{ event() }

type (
	// Mounted starts the listing at the page a location asks for.
	Mounted struct {
		Filters filters.State
		Page    int
	}
	// FiltersChanged replaces the listing with page one of new filters.
	FiltersChanged struct{ Filters filters.State }
	// FiltersReset is FiltersChanged that also discards pending location writes.
	FiltersReset struct{ Filters filters.State }
	// LoadMoreRequested appends the next page.
	LoadMoreRequested struct{}
	// PageHydrationRequested loads pages 1..Page and shows them together.
	PageHydrationRequested struct {
		Filters filters.State
		Page    int
	}
	// LocationChanged reports a navigation observed by the location watcher.
	LocationChanged struct {
		Filters filters.State
		Page    int
	}
	// RetryRequested re-issues the operation that failed last.
	RetryRequested struct{}

	// PageLoaded delivers one page.
	PageLoaded struct {
		Token uint64
		Page  int
		Items []rescue.Dog
	}
	// PagesLoaded delivers a hydrated batch in page order.
	PagesLoaded struct {
		Token uint64
		Pages [][]rescue.Dog
	}
	// FetchFailed reports a list fetch error, including cancellation.
	FetchFailed struct {
		Token uint64
		Err   error
	}
	// CountsLoaded delivers filter option counts.
	CountsLoaded struct {
		Token  uint64
		Counts rescue.FilterCounts
	}
	// RegionsLoaded delivers the regions of one country.
	RegionsLoaded struct {
		Country string
		Regions []string
	}
)

func (Mounted) event()                {}
func (FiltersChanged) event()         {}
func (FiltersReset) event()           {}
func (LoadMoreRequested) event()      {}
func (PageHydrationRequested) event() {}
func (LocationChanged) event()        {}
func (RetryRequested) event()         {}
func (PageLoaded) event()             {}
func (PagesLoaded) event()            {}
func (FetchFailed) event()            {}
func (CountsLoaded) event()           {}
func (RegionsLoaded) event()          {}

// Command is an effect the controller performs for the machine.
type Command interface{ command() }

type (
	// FetchPage requests a single page. Starting it cancels any list fetch
	// still in flight.
	FetchPage struct {
		Token   uint64
		Filters filters.State
		Page    int
		Append  bool
	}
	// FetchPages requests pages 1..Through in parallel under one cancellation.
	FetchPages struct {
		Token   uint64
		Filters filters.State
		Through int
	}
	// FetchCounts requests option counts, cancelling the previous request.
	FetchCounts struct {
		Token   uint64
		Filters filters.State
	}
	// FetchRegions requests the region list for Country.
	FetchRegions struct{ Country string }
	// SyncURL writes filters into the location, debounced unless Immediate.
	SyncURL struct {
		Filters        filters.State
		Page           int
		PreserveScroll bool
		Immediate      bool
	}
	// CancelURLSync drops a pending debounced location write.
	CancelURLSync struct{}
	// ReplacePage rewrites the page parameter in place.
	ReplacePage struct{ Page int }
	// ReportError forwards a failure to logging.
	ReportError struct {
		Op  string
		Err error
	}
	// ReportDuplicates flags ids a fetch returned twice.
	ReportDuplicates struct{ IDs []int64 }
)

func (FetchPage) command()        {}
func (FetchPages) command()       {}
func (FetchCounts) command()      {}
func (FetchRegions) command()     {}
func (SyncURL) command()          {}
func (CancelURLSync) command()    {}
func (ReplacePage) command()      {}
func (ReportError) command()      {}
func (ReportDuplicates) command() {}

// Machine is the pure transition function of the listing.
type Machine struct {
	PageSize int
}

func (m Machine) pageSize() int {
	if m.PageSize <= 0 {
		return DefaultPageSize
	}
	return m.PageSize
}

// Step applies ev to s and returns the next state with the commands that
// must run. It never performs I/O.
func (m Machine) Step(s State, ev Event) (State, []Command) {
	switch ev := ev.(type) {
	case Mounted:
		return m.load(s, ev.Filters, ev.Page)

	case FiltersChanged:
		if ev.Filters == s.Filters && s.Page > 0 && s.Phase != PhaseFailed {
			return s, nil
		}
		next, cmds := m.replace(s, ev.Filters)
		return next, append(cmds, SyncURL{Filters: ev.Filters, Page: 1})

	case FiltersReset:
		next, cmds := m.replace(s, ev.Filters)
		cmds = append([]Command{CancelURLSync{}}, cmds...)
		return next, append(cmds, SyncURL{Filters: ev.Filters, Page: 1, Immediate: true})

	case LoadMoreRequested:
		return m.loadMore(s)

	case PageHydrationRequested:
		return m.load(s, ev.Filters, ev.Page)

	case LocationChanged:
		if s.Mutating() {
			return s, nil
		}
		if ev.Filters == s.Filters && ev.Page == s.Page {
			return s, nil
		}
		return m.load(s, ev.Filters, ev.Page)

	case RetryRequested:
		if s.Phase != PhaseFailed {
			return s, nil
		}
		switch s.failed {
		case opAppend:
			return m.loadMore(s)
		case opHydrate:
			return m.load(s, s.Filters, s.failedPage)
		default:
			return m.replace(s, s.Filters)
		}

	case PageLoaded:
		return m.pageLoaded(s, ev)

	case PagesLoaded:
		return m.pagesLoaded(s, ev)

	case FetchFailed:
		if ev.Token != s.token || !s.Busy() || errors.Is(ev.Err, context.Canceled) {
			return s, nil
		}
		op := s.pending
		s.failed, s.failedPage = op, s.pendingPage
		s.pending, s.pendingPage = opNone, 0
		s.Phase = PhaseFailed
		s.Err = msgLoadFailed
		if op == opAppend {
			s.Err = msgLoadMoreFailed
		}
		return s, []Command{ReportError{Op: op.String(), Err: ev.Err}}

	case CountsLoaded:
		if ev.Token != s.countsToken {
			return s, nil
		}
		counts := ev.Counts
		s.Counts = &counts
		return s, nil

	case RegionsLoaded:
		if ev.Country != s.Filters.AvailableCountry {
			return s, nil
		}
		s.Regions = ev.Regions
		return s, nil
	}
	return s, nil
}

// load fetches page one, or hydrates pages 1..page for deep links.
func (m Machine) load(s State, f filters.State, page int) (State, []Command) {
	if page <= 1 {
		return m.replace(s, f)
	}
	page = min(page, MaxHydratePages)
	prev := s
	s = m.restart(s, f)
	s.Phase = PhaseHydrating
	s.pending, s.pendingPage = opHydrate, page
	cmds := []Command{FetchPages{Token: s.token, Filters: f, Through: page}}
	s, side := m.sideFetches(prev, s)
	return s, append(cmds, side...)
}

func (m Machine) replace(s State, f filters.State) (State, []Command) {
	prev := s
	s = m.restart(s, f)
	s.Phase = PhaseLoading
	s.pending, s.pendingPage = opReplace, 1
	cmds := []Command{FetchPage{Token: s.token, Filters: f, Page: 1}}
	s, side := m.sideFetches(prev, s)
	return s, append(cmds, side...)
}

// restart invalidates every in-flight list fetch and clears the list.
func (m Machine) restart(s State, f filters.State) State {
	s.token++
	s.Filters = f
	s.Items = nil
	s.Page = 1
	s.HasMore = false
	s.Err = ""
	s.failed, s.failedPage = opNone, 0
	return s
}

func (m Machine) sideFetches(prev, s State) (State, []Command) {
	s.countsToken++
	cmds := []Command{FetchCounts{Token: s.countsToken, Filters: s.Filters}}
	switch {
	case !s.Filters.IsSet(filters.AvailableCountry):
		s.Regions = nil
	case s.Filters.AvailableCountry != prev.Filters.AvailableCountry || s.Regions == nil:
		s.Regions = nil
		cmds = append(cmds, FetchRegions{Country: s.Filters.AvailableCountry})
	}
	return s, cmds
}

// loadMore is a no-op while any fetch is running or when the last page was
// short. The phase change happens in the same step as the check, so a second
// request arriving before the fetch resolves sees PhaseLoadingMore.
func (m Machine) loadMore(s State) (State, []Command) {
	if s.Busy() || !s.HasMore {
		return s, nil
	}
	next := s.Page + 1
	s.token++
	s.Phase = PhaseLoadingMore
	s.Err = ""
	s.pending, s.pendingPage = opAppend, next
	return s, []Command{FetchPage{Token: s.token, Filters: s.Filters, Page: next, Append: true}}
}

func (m Machine) pageLoaded(s State, ev PageLoaded) (State, []Command) {
	if ev.Token != s.token || !s.Busy() {
		return s, nil
	}
	var cmds []Command
	var dups []int64
	switch s.pending {
	case opAppend:
		s.Items, dups = appendUnique(s.Items, ev.Items)
		s.Page = ev.Page
		cmds = append(cmds, ReplacePage{Page: ev.Page})
	case opReplace:
		s.Items, dups = appendUnique(nil, ev.Items)
		s.Page = 1
	default:
		return s, nil
	}
	s.HasMore = len(ev.Items) == m.pageSize()
	s.settle()
	if len(dups) > 0 {
		cmds = append(cmds, ReportDuplicates{IDs: dups})
	}
	return s, cmds
}

func (m Machine) pagesLoaded(s State, ev PagesLoaded) (State, []Command) {
	if ev.Token != s.token || s.pending != opHydrate {
		return s, nil
	}
	var items []rescue.Dog
	var dups []int64
	for _, page := range ev.Pages {
		var d []int64
		items, d = appendUnique(items, page)
		dups = append(dups, d...)
	}
	s.Items = items
	s.Page = len(ev.Pages)
	s.HasMore = len(ev.Pages) > 0 && len(ev.Pages[len(ev.Pages)-1]) == m.pageSize()
	s.settle()
	if len(dups) > 0 {
		return s, []Command{ReportDuplicates{IDs: dups}}
	}
	return s, nil
}

func (s *State) settle() {
	s.Phase = PhaseIdle
	s.Err = ""
	s.pending, s.pendingPage = opNone, 0
}

// appendUnique returns a new slice holding existing followed by the incoming
// dogs whose ids are not yet present, plus the ids it skipped.
func appendUnique(existing, incoming []rescue.Dog) ([]rescue.Dog, []int64) {
	merged := make([]rescue.Dog, 0, len(existing)+len(incoming))
	seen := make(map[int64]struct{}, cap(merged))
	for _, d := range existing {
		seen[d.ID] = struct{}{}
		merged = append(merged, d)
	}
	var dups []int64
	for _, d := range incoming {
		if _, ok := seen[d.ID]; ok {
			dups = append(dups, d.ID)
			continue
		}
		seen[d.ID] = struct{}{}
		merged = append(merged, d)
	}
	return merged, dups
}
