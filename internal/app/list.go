package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"

	"github.com/five82/kennel/internal/filters"
	"github.com/five82/kennel/internal/listing"
	"github.com/five82/kennel/internal/location"
	"github.com/five82/kennel/internal/logging"
	"github.com/five82/kennel/internal/rescue"
)

// ListOptions configure a headless listing.
type ListOptions struct {
	ConfigPath string
	Location   string
	LogLevel   string
	// Pages beyond the location's own page to load. Zero loads only what
	// the location describes.
	More int
	// Logs receives log output; nil discards it.
	Logs io.Writer
}

// List loads a location the way the browser would, including deep-link
// hydration, and writes the dogs as a table to w.
func List(ctx context.Context, opts ListOptions, w io.Writer) error {
	cfg, err := loadConfig(Options{ConfigPath: opts.ConfigPath, LogLevel: opts.LogLevel})
	if err != nil {
		return err
	}
	logger := discardLogger()
	if opts.Logs != nil {
		logger, err = logging.New(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON, Output: opts.Logs})
		if err != nil {
			return err
		}
	}

	client, err := rescue.NewClient(cfg.APIURL, rescue.WithTimeout(cfg.RequestTimeout), rescue.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("init rescue client: %w", err)
	}
	start, err := startLocation(opts.Location, cfg.StartPath)
	if err != nil {
		return err
	}

	dir := &Directory{}
	primeDirectory(ctx, dir, client, logger)

	result, err := collect(ctx, client, dir, start, cfg.PageSize, opts.More, logger)
	if err != nil {
		return err
	}
	return writeTable(w, result, dir)
}

// collect runs a controller without a location writer: mount, then load
// more pages one at a time.
func collect(ctx context.Context, fetcher rescue.DogFetcher, dir *Directory, start location.Location, pageSize, more int, logger *log.Logger) (listing.State, error) {
	ctrl := listing.New(listing.Options{
		Fetcher:  fetcher,
		Defaults: filters.RouteFor(start.Path).Defaults,
		OrgIDs:   dir.IDs,
		PageSize: pageSize,
		Logger:   logger,
	})
	defer ctrl.Close()

	ctrl.Mount(start)
	if err := ctrl.Wait(ctx); err != nil {
		return listing.State{}, err
	}
	for range more {
		if !ctrl.State().HasMore {
			break
		}
		ctrl.LoadMore()
		if err := ctrl.Wait(ctx); err != nil {
			return listing.State{}, err
		}
	}
	st := ctrl.State()
	if st.Err != "" {
		return st, errors.New(st.Err)
	}
	return st, nil
}

func writeTable(w io.Writer, st listing.State, dir *Directory) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("ID", "NAME", "BREED", "AGE", "SIZE", "SEX", "ORGANIZATION")

	for _, dog := range st.Items {
		org := dog.OrganizationName()
		if org == "" {
			org = dir.Name(strconv.FormatInt(dog.OrganizationID, 10))
		}
		t.Row(strconv.FormatInt(dog.ID, 10), dog.Name, dog.Breed, dog.AgeCategory, dog.Size, dog.Sex, org)
	}

	more := ""
	if st.HasMore {
		more = ", more available"
	}
	_, err := fmt.Fprintf(w, "%s\n%d dogs, %d pages%s\n", t.Render(), len(st.Items), st.Page, more)
	return err
}
