package app

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sethvargo/go-retry"

	"github.com/five82/kennel/internal/rescue"
)

const startupRetries = 3

// Directory holds the organization metadata shared by the browser and the
// filter derivation. It is safe for concurrent use.
type Directory struct {
	mu     sync.RWMutex
	orgs   []rescue.Organization
	loaded time.Time
}

// Set replaces the known organizations.
func (d *Directory) Set(orgs []rescue.Organization) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.orgs = slices.Clone(orgs)
	d.loaded = time.Now()
}

// Organizations returns a copy of the known organizations.
func (d *Directory) Organizations() []rescue.Organization {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.orgs)
}

// IDs returns the organization allow-list in location form.
func (d *Directory) IDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]string, 0, len(d.orgs))
	for _, org := range d.orgs {
		ids = append(ids, org.IDString())
	}
	return ids
}

// Name returns the name of the organization with the given id.
func (d *Directory) Name(id string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, org := range d.orgs {
		if org.IDString() == id {
			return org.Name
		}
	}
	return ""
}

// LoadedAt reports when organizations were last set.
func (d *Directory) LoadedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// loadOrganizations fetches organizations with exponential backoff. Client
// errors are not retried.
func loadOrganizations(ctx context.Context, fetcher rescue.OrganizationFetcher, base time.Duration, logger *log.Logger) ([]rescue.Organization, error) {
	backoff := retry.WithMaxRetries(startupRetries, retry.WithCappedDuration(maxBackoff, retry.NewExponential(base)))
	var orgs []rescue.Organization
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		got, err := fetcher.FetchOrganizations(ctx)
		if err != nil {
			var apiErr *rescue.APIError
			if errors.As(err, &apiErr) && apiErr.Status >= http.StatusBadRequest && apiErr.Status < http.StatusInternalServerError {
				return err
			}
			logger.Debug("organizations fetch failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		orgs = got
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orgs, nil
}
