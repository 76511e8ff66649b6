package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/kennel/internal/filters"
	"github.com/five82/kennel/internal/location"
	"github.com/five82/kennel/internal/prefs"
	"github.com/five82/kennel/internal/rescue"
	"github.com/five82/kennel/internal/state"
)

// Listing is the part of the listing controller the browser drives.
type Listing interface {
	SetFilter(field filters.Field, value string)
	Reset()
	LoadMore()
	Retry()
}

// Navigator moves through location history.
type Navigator interface {
	Current() location.Location
	Back() bool
	Forward() bool
}

// ScrollRecorder keeps the list offset in the location.
type ScrollRecorder interface {
	Observe(offset int)
	Restore(target location.Scroller) bool
}

type pane int

const (
	paneList pane = iota
	paneFilters
)

// Options configures the UI.
type Options struct {
	Context       context.Context
	Listing       Listing
	Store         *state.Store
	History       Navigator
	Scroll        ScrollRecorder
	Route         filters.Route
	Organizations func() []rescue.Organization
	RefreshEvery  time.Duration
	ThemeName     string
	PrefsPath     string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx           context.Context
	listing       Listing
	store         *state.Store
	history       Navigator
	scroll        ScrollRecorder
	route         filters.Route
	organizations func() []rescue.Organization
	prefsPath     string
	refreshEvery  time.Duration
	keys          keyMap

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	focus    pane
	showHelp bool

	// Data state
	snapshot state.Snapshot
	version  uint64

	// List state
	selected int
	offset   int

	// Filter pane state
	fieldCursor int
	search      textinput.Model
	searching   bool

	detail viewport.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	refresh := opts.RefreshEvery
	if refresh <= 0 {
		refresh = DefaultUIInterval
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "name or breed"
	search.CharLimit = 80

	return Model{
		ctx:           ctx,
		listing:       opts.Listing,
		store:         opts.Store,
		history:       opts.History,
		scroll:        opts.Scroll,
		route:         opts.Route,
		organizations: opts.Organizations,
		prefsPath:     prefsPath,
		refreshEvery:  refresh,
		keys:          DefaultKeyMap(),
		theme:         GetTheme(opts.ThemeName),
		search:        search,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.refreshEvery)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detail = viewport.New(m.sideWidth(), m.detailHeight())
		}
		m.ready = true
		m.detail.Width = m.sideWidth()
		m.detail.Height = m.detailHeight()
		m.clampSelection()
		m.updateDetail()
		return m, nil

	case tickMsg:
		var cmds []tea.Cmd
		if m.store != nil {
			if v := m.store.Version(); v != m.version {
				m.version = v
				cmds = append(cmds, fetchSnapshotCmd(m.store))
			}
		}
		cmds = append(cmds, tickCmd(m.refreshEvery))
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderHeader() + "\n" + m.renderCommandBar() + "\n" + m.renderContent()
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.clampSelection()
	if m.scroll != nil && !snap.Busy() && len(snap.Items) > 0 {
		m.scroll.Restore(listScroller{m: m})
	}
	m.updateDetail()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.saveTheme()
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		if m.focus == paneList {
			m.focus = paneFilters
		} else {
			m.focus = paneList
		}
		return m, nil
	case key.Matches(msg, m.keys.Search):
		return m.openSearch()
	case key.Matches(msg, m.keys.LoadMore):
		m.listing.LoadMore()
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		m.listing.Reset()
		m.resetPosition()
		return m, nil
	case key.Matches(msg, m.keys.Retry):
		m.listing.Retry()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.history != nil && m.history.Back() {
			m.resetPosition()
		}
		return m, nil
	case key.Matches(msg, m.keys.Forward):
		if m.history != nil && m.history.Forward() {
			m.resetPosition()
		}
		return m, nil
	}

	if m.focus == paneFilters {
		return m.handleFilterKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.snapshot.Items)
	if n == 0 {
		return m, nil
	}
	before := m.offset
	rows := m.visibleRows()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.selected--
	case key.Matches(msg, m.keys.Down):
		m.selected++
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = n - 1
	case key.Matches(msg, m.keys.PageDown):
		m.selected += rows
	case key.Matches(msg, m.keys.PageUp):
		m.selected -= rows
	default:
		return m, nil
	}
	m.clampSelection()
	if m.offset != before && m.scroll != nil {
		m.scroll.Observe(m.offset)
	}
	m.maybeLoadMore()
	m.updateDetail()
	return m, nil
}

// maybeLoadMore requests the next page once the selection nears the end of
// the list. A failed page waits for an explicit retry.
func (m *Model) maybeLoadMore() {
	snap := m.snapshot
	if !snap.HasMore || snap.Busy() || snap.Error != "" {
		return
	}
	if m.selected >= len(snap.Items)-1-loadMoreThreshold {
		m.listing.LoadMore()
	}
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := filters.Fields
	switch {
	case key.Matches(msg, m.keys.Up):
		m.fieldCursor = (m.fieldCursor + len(fields) - 1) % len(fields)
	case key.Matches(msg, m.keys.Down):
		m.fieldCursor = (m.fieldCursor + 1) % len(fields)
	case key.Matches(msg, m.keys.NextValue), key.Matches(msg, m.keys.PrevValue), key.Matches(msg, m.keys.Confirm):
		field := fields[m.fieldCursor]
		if field == filters.Search {
			return m.openSearch()
		}
		if key.Matches(msg, m.keys.Confirm) {
			return m, nil
		}
		values := optionValues(m.fieldOptions(field))
		if key.Matches(msg, m.keys.PrevValue) {
			values = reversed(values)
		}
		m.listing.SetFilter(field, filters.Cycle(values, m.snapshot.Filters.Get(field)))
		m.resetPosition()
	}
	return m, nil
}

func (m Model) openSearch() (tea.Model, tea.Cmd) {
	m.searching = true
	m.search.SetValue(m.snapshot.Filters.Search)
	m.search.CursorEnd()
	return m, m.search.Focus()
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Confirm) || key.Matches(msg, m.keys.Cancel) {
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if value := m.search.Value(); value != before {
		m.listing.SetFilter(filters.Search, value)
		m.resetPosition()
	}
	return m, cmd
}

func (m *Model) resetPosition() {
	m.selected = 0
	m.offset = 0
}

// clampSelection keeps the selection inside the list and the selected row
// inside the visible window.
func (m *Model) clampSelection() {
	n := len(m.snapshot.Items)
	if n == 0 {
		m.selected, m.offset = 0, 0
		return
	}
	m.selected = min(max(m.selected, 0), n-1)
	rows := m.visibleRows()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+rows {
		m.offset = m.selected - rows + 1
	}
	m.offset = min(max(m.offset, 0), max(n-rows, 0))
}

func (m Model) saveTheme() {
	name := m.theme.Name
	_ = prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Theme = name })
}

// listScroller lets the scroll tracker position the list.
type listScroller struct {
	m *Model
}

func (s listScroller) ScrollTo(offset int) {
	s.m.selected = offset
	s.m.offset = offset
	s.m.clampSelection()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
