package jobs

import (
	"context"
	"log/slog"
	"time"
)

// CheckPurger deletes history rows older than a cutoff.
type CheckPurger interface {
	DeleteChecksBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Retention periodically prunes the check log.
type Retention struct {
	db       CheckPurger
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewRetention creates a retention job keeping maxAge of history.
func NewRetention(database CheckPurger, interval, maxAge time.Duration) *Retention {
	return &Retention{
		db:       database,
		interval: interval,
		maxAge:   maxAge,
		now:      time.Now,
		logger:   slog.Default().With("component", "retention"),
	}
}

// Start begins the background purge loop and blocks until ctx is done.
func (r *Retention) Start(ctx context.Context) {
	r.logger.Info("retention job started", "interval", r.interval, "max_age", r.maxAge)

	// Run immediately on start
	r.purge(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("retention job stopped")
			return
		case <-ticker.C:
			r.purge(ctx)
		}
	}
}

func (r *Retention) purge(ctx context.Context) {
	cutoff := r.now().Add(-r.maxAge)
	n, err := r.db.DeleteChecksBefore(ctx, cutoff)
	if err != nil {
		r.logger.Error("purge failed", "error", err)
		return
	}
	if n > 0 {
		r.logger.Info("purged old checks", "count", n, "cutoff", cutoff)
	}
}
