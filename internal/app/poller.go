package app

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/kennel/internal/rescue"
)

const (
	defaultRefreshInterval = 10 * time.Minute
	failureRetryBase       = 2 * time.Second
	maxBackoff             = 30 * time.Second
)

// StartPoller launches a background goroutine that refreshes the organization
// directory. Failures retry sooner, backing off exponentially. The returned
// channel closes when the goroutine exits.
func StartPoller(ctx context.Context, dir *Directory, fetcher rescue.OrganizationFetcher, interval time.Duration, logger *log.Logger) <-chan struct{} {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		timer := time.NewTimer(interval)
		defer timer.Stop()

		failures := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			next := interval
			orgs, err := fetcher.FetchOrganizations(ctx)
			switch {
			case ctx.Err() != nil:
				return
			case err != nil:
				failures++
				next = min(calculateBackoff(failures, failureRetryBase), interval)
				logger.Warn("organization refresh failed", "failures", failures, "retry_in", next, "error", err)
			default:
				if failures > 0 {
					logger.Info("organization refresh recovered", "after_failures", failures)
				}
				failures = 0
				dir.Set(orgs)
			}
			timer.Reset(next)
		}
	}()
	return done
}

// calculateBackoff doubles base once per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	d := base
	for i := 0; i < failures && d < maxBackoff; i++ {
		d *= 2
	}
	return min(d, maxBackoff)
}
