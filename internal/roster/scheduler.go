package roster

// scheduler.go provides background scheduling for periodic roster syncs.
//
// The scheduler is designed to be long-running and context-aware for
// graceful shutdown. It logs progress and errors but does not fail the
// application if individual sync runs fail.

import (
	"context"
	"errors"
	"time"
)

// DefaultSyncInterval is how often the scheduler syncs when no interval
// is configured.
const DefaultSyncInterval = 15 * time.Minute

// SchedulerConfig holds configuration for the sync scheduler.
type SchedulerConfig struct {
	Interval   time.Duration // How often to run (default: 15m)
	RunOnStart bool          // Run a sync immediately before the first tick
}

// StartScheduler runs periodic syncs until the context is cancelled.
// With RunOnStart it syncs immediately, then every Interval. Individual
// run failures are logged, never fatal.
func (s *Service) StartScheduler(ctx context.Context, cfg SchedulerConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSyncInterval
	}

	s.log.Info("sync scheduler started",
		"interval", cfg.Interval.String(),
		"run_on_start", cfg.RunOnStart,
	)

	if cfg.RunOnStart {
		s.runScheduledSync(ctx)
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("sync scheduler stopped")
			return
		case <-ticker.C:
			s.runScheduledSync(ctx)
		}
	}
}

// runScheduledSync performs one sync cycle. A manually triggered sync
// already in flight covers the tick, so ErrSyncRunning only logs at
// debug level.
func (s *Service) runScheduledSync(ctx context.Context) {
	if _, err := s.Sync(ctx); err != nil {
		if errors.Is(err, ErrSyncRunning) {
			s.log.Debug("scheduled sync skipped, another sync in flight")
			return
		}
		s.log.Error("scheduled sync failed", "error", err)
	}
}
