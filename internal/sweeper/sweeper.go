// Package sweeper removes listings past the retention age.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/vilarso/cropservicebot/core/logger"
	"github.com/vilarso/cropservicebot/internal/listing"
	"github.com/vilarso/cropservicebot/internal/store"
)

// DefaultInterval is how often the sweep runs.
const DefaultInterval = time.Hour

// Sweeper periodically deletes listings older than the retention age.
type Sweeper struct {
	listings store.ListingStore
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time
}

// New builds a sweeper. Non-positive interval or maxAge fall back to the
// defaults (hourly sweep, 7 day retention).
func New(listings store.ListingStore, interval, maxAge time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxAge <= 0 {
		maxAge = listing.RetentionAge
	}
	return &Sweeper{
		listings: listings,
		interval: interval,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Run sweeps immediately, then on every tick until ctx is canceled.
// Intended to run in its own goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	logger.Sweep.Info("retention sweep started",
		slog.String("event", "sweep.start"),
		slog.Duration("interval", s.interval),
		slog.Duration("max_age", s.maxAge),
	)

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Sweep.Info("retention sweep stopped", slog.String("event", "sweep.stop"))
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	removed, err := s.SweepOnce(ctx)
	if err != nil {
		logger.Sweep.Error("retention sweep failed",
			slog.String("event", "sweep.run"),
			slog.String("err", err.Error()),
		)
		return
	}
	if removed > 0 {
		logger.Sweep.Info("expired listings removed",
			slog.String("event", "sweep.run"),
			slog.Int64("count", removed),
		)
	} else if logger.ShouldSampleDebug() {
		logger.Sweep.Debug("nothing to sweep", slog.String("event", "sweep.run"))
	}
}

// SweepOnce deletes everything past the retention age and returns the count.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-s.maxAge)
	return s.listings.DeleteOlderThan(ctx, cutoff)
}
