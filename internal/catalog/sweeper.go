package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/movietracker/internal/domain"
)

const (
	DefaultRetention     = 7 * 24 * time.Hour
	DefaultSweepInterval = time.Hour

	sweepTimeout = time.Minute
)

// Sweeper deletes cached records older than the retention period
type Sweeper struct {
	store     domain.CacheStore
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

func NewSweeper(store domain.CacheStore, retention, interval time.Duration, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		store:     store,
		retention: retention,
		interval:  interval,
		now:       time.Now,
		logger:    logger,
	}
}

// RunOnce performs one sweep and returns the number of records removed
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.retention)
	n, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("swept cache", "removed", n, "cutoff", cutoff)
	}
	return n, nil
}

// Start sweeps immediately and then on every interval until ctx is done
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info("sweeper started", "interval", s.interval, "retention", s.retention)

	s.run(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *Sweeper) run(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	if _, err := s.RunOnce(runCtx); err != nil {
		s.logger.Error("sweep failed", "error", err)
	}
}
