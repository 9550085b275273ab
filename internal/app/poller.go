package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/cookhub/internal/cookhub"
	"github.com/five82/cookhub/internal/state"
)

const (
	defaultHealthInterval = 30 * time.Second
	maxBackoff            = 5 * time.Minute
)

// healthChecker is the part of the API client the poller needs.
type healthChecker interface {
	Health(ctx context.Context) (*cookhub.HealthResponse, error)
}

// StartHealthPoller launches a background goroutine that records API health
// in store. Consecutive failures stretch the interval up to maxBackoff. It
// returns immediately.
func StartHealthPoller(ctx context.Context, store *state.Store, client healthChecker, interval time.Duration, log *slog.Logger) {
	if interval <= 0 {
		interval = defaultHealthInterval
	}
	if log == nil {
		log = slog.Default()
	}
	go func() {
		for {
			failures := refresh(ctx, store, client, log)
			timer := time.NewTimer(calculateBackoff(failures, interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// refresh runs one health check and returns the consecutive failure count.
func refresh(ctx context.Context, store *state.Store, client healthChecker, log *slog.Logger) int {
	health, err := client.Health(ctx)
	if err != nil && ctx.Err() != nil {
		return store.Snapshot().ConsecutiveFailures
	}
	store.Update(health, err)
	snap := store.Snapshot()
	if err != nil {
		log.Warn("health check failed", "failures", snap.ConsecutiveFailures, "error", err)
		return snap.ConsecutiveFailures
	}
	log.Debug("health check ok", "service", health.Service, "version", health.Version)
	return 0
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
