package listing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/five82/kennel/internal/filters"
	"github.com/five82/kennel/internal/location"
	"github.com/five82/kennel/internal/rescue"
	"github.com/five82/kennel/internal/state"
)

// maxParallelPages bounds concurrent requests during hydration.
const maxParallelPages = 6

// URLSyncer writes listing state back to the location.
type URLSyncer interface {
	Update(f filters.State, page int, preserveScroll bool)
	UpdateNow(f filters.State, page int, preserveScroll bool)
	Cancel()
	ReplacePage(page int)
}

// Options configures a Controller.
type Options struct {
	Fetcher rescue.DogFetcher
	// URL is optional; headless listings run without one.
	URL   URLSyncer
	Store *state.Store
	// Defaults are the route defaults filters reset to.
	Defaults filters.State
	// OrgIDs returns the organization allow-list used when deriving filters
	// from a location.
	OrgIDs   func() []string
	PageSize int
	Logger   *log.Logger
	// OnDuplicate is called when a fetch returns ids already listed.
	OnDuplicate func(ids []int64)
}

// Controller runs the listing machine. Events are applied one at a time
// under a mutex; fetches run in their own goroutines and report back as
// events.
type Controller struct {
	machine     Machine
	fetcher     rescue.DogFetcher
	url         URLSyncer
	store       *state.Store
	defaults    filters.State
	orgIDs      func() []string
	logger      *log.Logger
	onDuplicate func([]int64)
	params      filters.Memo

	ctx  context.Context
	stop context.CancelFunc

	mu           sync.Mutex
	state        State
	cancelList   context.CancelFunc
	cancelCounts context.CancelFunc
	closed       bool
	// active counts fetch goroutines; idle is closed whenever it is zero.
	active int
	idle   chan struct{}
}

// New creates a controller. Nothing is fetched until Mount.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ctx, stop := context.WithCancel(context.Background())
	idle := make(chan struct{})
	close(idle)
	return &Controller{
		machine:     Machine{PageSize: opts.PageSize},
		fetcher:     opts.Fetcher,
		url:         opts.URL,
		store:       opts.Store,
		defaults:    opts.Defaults,
		orgIDs:      opts.OrgIDs,
		logger:      logger,
		onDuplicate: opts.OnDuplicate,
		ctx:         ctx,
		stop:        stop,
		state:       State{Filters: opts.Defaults},
		idle:        idle,
	}
}

// Mount loads the listing a location describes, hydrating every page up to
// its page parameter.
func (c *Controller) Mount(loc location.Location) {
	f, page := c.derive(loc)
	c.dispatch(Mounted{Filters: f, Page: page})
}

// HandleLocation reacts to a navigation. It refetches only when the
// location's filters or page differ from what is shown.
func (c *Controller) HandleLocation(loc location.Location) {
	f, page := c.derive(loc)
	c.dispatch(LocationChanged{Filters: f, Page: page})
}

// SetFilters replaces the whole filter set.
func (c *Controller) SetFilters(f filters.State) {
	c.dispatch(FiltersChanged{Filters: f})
}

// SetFilter changes one field of the current filters.
func (c *Controller) SetFilter(field filters.Field, value string) {
	c.dispatchWith(func(s State) Event {
		return FiltersChanged{Filters: s.Filters.With(field, value)}
	})
}

// Reset restores route defaults and writes the clean location immediately.
func (c *Controller) Reset() {
	c.dispatch(FiltersReset{Filters: c.defaults})
}

// LoadMore appends the next page unless a fetch is running or the last
// page was short.
func (c *Controller) LoadMore() {
	c.dispatch(LoadMoreRequested{})
}

// Retry re-issues the last failed operation.
func (c *Controller) Retry() {
	c.dispatch(RetryRequested{})
}

// State returns a copy of the machine state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Items = slices.Clone(s.Items)
	s.Regions = slices.Clone(s.Regions)
	return s
}

// Wait blocks until no fetch is in flight or ctx is done. A fetch that
// finishes by dispatching another one keeps the controller busy, so Wait
// returns only once the chain settles.
func (c *Controller) Wait(ctx context.Context) error {
	for {
		c.mu.Lock()
		idle, busy := c.idle, c.active > 0
		c.mu.Unlock()
		if !busy {
			return nil
		}
		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels all fetches and waits for their goroutines. Events arriving
// afterwards are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.stop()
	_ = c.Wait(context.Background())
}

func (c *Controller) derive(loc location.Location) (filters.State, int) {
	var orgs []string
	if c.orgIDs != nil {
		orgs = c.orgIDs()
	}
	return filters.Derive(loc.Query, c.defaults, orgs), filters.ParsePage(loc.Query)
}

func (c *Controller) dispatch(ev Event) {
	c.dispatchWith(func(State) Event { return ev })
}

// dispatchWith steps the machine with the event build returns for the
// current state. Fetches start under the lock so cancellation of the
// previous fetch is ordered with the step. Location writes run after
// unlocking because history subscribers call back into HandleLocation.
func (c *Controller) dispatchWith(build func(State) Event) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	next, cmds := c.machine.Step(c.state, build(c.state))
	c.state = next
	var after []Command
	for _, cmd := range cmds {
		if !c.startLocked(cmd) {
			after = append(after, cmd)
		}
	}
	c.publishLocked()
	c.mu.Unlock()

	for _, cmd := range after {
		c.run(cmd)
	}
}

// startLocked launches fetch commands and reports whether cmd was one.
func (c *Controller) startLocked(cmd Command) bool {
	switch cmd := cmd.(type) {
	case FetchPage:
		c.spawnList(cmd.Token, func(ctx context.Context) Event { return c.fetchPage(ctx, cmd) })
	case FetchPages:
		c.spawnList(cmd.Token, func(ctx context.Context) Event { return c.fetchPages(ctx, cmd) })
	case FetchCounts:
		if c.cancelCounts != nil {
			c.cancelCounts()
		}
		ctx, cancel := context.WithCancel(c.ctx)
		c.cancelCounts = cancel
		c.spawn(cancel, func() Event { return c.fetchCounts(ctx, cmd) })
	case FetchRegions:
		c.spawn(func() {}, func() Event { return c.fetchRegions(c.ctx, cmd) })
	default:
		return false
	}
	return true
}

func (c *Controller) spawnList(token uint64, fetch func(context.Context) Event) {
	if c.cancelList != nil {
		c.cancelList()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelList = cancel
	c.enterLocked()
	go func() {
		defer c.exit()
		defer cancel()
		var ev Event
		defer func() {
			// The loading flag must clear even when the fetch panics.
			if r := recover(); r != nil {
				ev = FetchFailed{Token: token, Err: fmt.Errorf("fetch panicked: %v", r)}
			}
			c.dispatch(ev)
		}()
		ev = fetch(ctx)
	}()
}

func (c *Controller) spawn(cancel context.CancelFunc, fetch func() Event) {
	c.enterLocked()
	go func() {
		defer c.exit()
		defer cancel()
		if ev := fetch(); ev != nil {
			c.dispatch(ev)
		}
	}()
}

// enterLocked records a fetch goroutine about to start. c.mu must be held.
func (c *Controller) enterLocked() {
	if c.active == 0 {
		c.idle = make(chan struct{})
	}
	c.active++
}

func (c *Controller) exit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active--
	if c.active == 0 {
		close(c.idle)
	}
}

func (c *Controller) query(f filters.State, page int) rescue.ListQuery {
	size := c.machine.pageSize()
	return rescue.ListQuery{
		Limit:  size,
		Offset: (page - 1) * size,
		Params: c.params.Params(f),
	}
}

func (c *Controller) fetchPage(ctx context.Context, cmd FetchPage) Event {
	items, err := c.fetcher.ListDogs(ctx, c.query(cmd.Filters, cmd.Page))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.logger.Debug("list fetch cancelled", "page", cmd.Page, "append", cmd.Append)
		}
		return FetchFailed{Token: cmd.Token, Err: err}
	}
	return PageLoaded{Token: cmd.Token, Page: cmd.Page, Items: items}
}

// fetchPages loads pages 1..Through in parallel. The first failure cancels
// the rest and fails the batch.
func (c *Controller) fetchPages(ctx context.Context, cmd FetchPages) Event {
	pages := make([][]rescue.Dog, cmd.Through)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelPages)
	for i := range cmd.Through {
		q := c.query(cmd.Filters, i+1)
		g.Go(func() error {
			items, err := c.fetcher.ListDogs(gctx, q)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			pages[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			c.logger.Debug("hydration cancelled", "pages", cmd.Through)
		}
		return FetchFailed{Token: cmd.Token, Err: err}
	}
	return PagesLoaded{Token: cmd.Token, Pages: pages}
}

func (c *Controller) fetchCounts(ctx context.Context, cmd FetchCounts) Event {
	counts, err := c.fetcher.FetchCounts(ctx, c.params.Params(cmd.Filters))
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.Warn("filter counts unavailable", "error", err)
		}
		return nil
	}
	return CountsLoaded{Token: cmd.Token, Counts: counts}
}

func (c *Controller) fetchRegions(ctx context.Context, cmd FetchRegions) Event {
	regions, err := c.fetcher.FetchRegions(ctx, cmd.Country)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.Warn("regions unavailable", "country", cmd.Country, "error", err)
		}
		return nil
	}
	return RegionsLoaded{Country: cmd.Country, Regions: regions}
}

func (c *Controller) run(cmd Command) {
	switch cmd := cmd.(type) {
	case SyncURL:
		if c.url == nil {
			return
		}
		if cmd.Immediate {
			c.url.UpdateNow(cmd.Filters, cmd.Page, cmd.PreserveScroll)
		} else {
			c.url.Update(cmd.Filters, cmd.Page, cmd.PreserveScroll)
		}
	case CancelURLSync:
		if c.url != nil {
			c.url.Cancel()
		}
	case ReplacePage:
		if c.url != nil {
			c.url.ReplacePage(cmd.Page)
		}
	case ReportError:
		c.logger.Error("listing fetch failed", "op", cmd.Op, "error", cmd.Err)
	case ReportDuplicates:
		c.logger.Warn("duplicate dogs dropped", "ids", cmd.IDs)
		if c.onDuplicate != nil {
			c.onDuplicate(cmd.IDs)
		}
	}
}

func (c *Controller) publishLocked() {
	if c.store == nil {
		return
	}
	s := c.state
	c.store.Update(state.Snapshot{
		Filters:       s.Filters,
		ActiveFilters: s.Filters.ActiveCount(c.defaults),
		Items:         s.Items,
		Page:          s.Page,
		HasMore:       s.HasMore,
		Loading:       s.Loading(),
		LoadingMore:   s.LoadingMore(),
		Error:         s.Err,
		Counts:        s.Counts,
		Regions:       s.Regions,
	})
}
