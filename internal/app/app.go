package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/kennel/internal/config"
	"github.com/five82/kennel/internal/filters"
	"github.com/five82/kennel/internal/listing"
	"github.com/five82/kennel/internal/location"
	"github.com/five82/kennel/internal/logging"
	"github.com/five82/kennel/internal/prefs"
	"github.com/five82/kennel/internal/rescue"
	"github.com/five82/kennel/internal/state"
	"github.com/five82/kennel/internal/ui"
)

const startupRetryBase = time.Second

// Options configure the kennel application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/kennel/prefs.toml
	// Location overrides the start location, e.g. "/dogs/puppies?size=Small".
	Location string
	LogLevel string // overrides the configured level when set
}

// Run boots the kennel browser until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON, Output: logFile})
	if err != nil {
		return err
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := rescue.NewClient(cfg.APIURL, rescue.WithTimeout(cfg.RequestTimeout), rescue.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("init rescue client: %w", err)
	}

	start, err := startLocation(opts.Location, userPrefs.LastLocation, cfg.StartPath)
	if err != nil {
		return err
	}

	dir := &Directory{}
	primeDirectory(ctx, dir, client, logger)

	pollCtx, stopPoller := context.WithCancel(ctx)
	pollerDone := StartPoller(pollCtx, dir, client, cfg.MetadataRefresh, logger)
	defer func() {
		stopPoller()
		<-pollerDone
	}()

	s := newSession(cfg, start, dir, client, logger)
	defer s.close()
	s.controller.Mount(start)
	logger.Info("kennel started", "api", client.BaseURL(), "location", start.String())

	uiErr := ui.Run(ui.Options{
		Context:       ctx,
		Listing:       s.controller,
		Store:         s.store,
		History:       s.history,
		Scroll:        s.scroll,
		Route:         s.route,
		Organizations: dir.Organizations,
		ThemeName:     userPrefs.Theme,
		PrefsPath:     opts.PrefsPath,
	})

	s.sync.Flush()
	if err := saveLastLocation(opts.PrefsPath, s.history.Current()); err != nil {
		logger.Warn("save last location", "error", err)
	}
	return uiErr
}

// session is one listing route wired to its history, location writers and
// controller.
type session struct {
	route       filters.Route
	history     *location.Memory
	sync        *location.Synchronizer
	scroll      *location.ScrollTracker
	store       *state.Store
	controller  *listing.Controller
	unsubscribe func()
}

func newSession(cfg config.Config, start location.Location, dir *Directory, fetcher rescue.DogFetcher, logger *log.Logger) *session {
	route := filters.RouteFor(start.Path)
	history := location.NewMemory(start)
	syncer := location.NewSynchronizer(history, route.Defaults, cfg.URLDebounce)
	store := &state.Store{}
	controller := listing.New(listing.Options{
		Fetcher:  fetcher,
		URL:      syncer,
		Store:    store,
		Defaults: route.Defaults,
		OrgIDs:   dir.IDs,
		PageSize: cfg.PageSize,
		Logger:   logger.WithPrefix("listing"),
	})
	return &session{
		route:       route,
		history:     history,
		sync:        syncer,
		scroll:      location.NewScrollTracker(history, cfg.ScrollDebounce),
		store:       store,
		controller:  controller,
		unsubscribe: history.Subscribe(controller.HandleLocation),
	}
}

func (s *session) close() {
	s.unsubscribe()
	s.sync.Cancel()
	s.scroll.Close()
	s.controller.Close()
}

func loadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.LogLevel = level
		if err := cfg.Validate(); err != nil {
			return config.Config{}, fmt.Errorf("log level: %w", err)
		}
	}
	return cfg, nil
}

// primeDirectory loads organizations before the first derivation so a deep
// link's organization survives the allow-list check.
func primeDirectory(ctx context.Context, dir *Directory, fetcher rescue.OrganizationFetcher, logger *log.Logger) {
	orgs, err := loadOrganizations(ctx, fetcher, startupRetryBase, logger)
	if err != nil {
		logger.Warn("organizations unavailable, organization filter disabled", "error", err)
		return
	}
	dir.Set(orgs)
	logger.Debug("organizations loaded", "count", len(orgs))
}

// startLocation picks the first non-blank of the explicit location, the
// remembered one and the configured start path.
func startLocation(candidates ...string) (location.Location, error) {
	for _, raw := range candidates {
		if strings.TrimSpace(raw) != "" {
			return location.Parse(raw)
		}
	}
	return location.Parse("")
}

func saveLastLocation(path string, loc location.Location) error {
	return prefs.Remember(path, loc.String())
}

// discardLogger is used by headless commands that were not given a logger.
func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
