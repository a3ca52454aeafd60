package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"filetrail/internal/changestore"
	"filetrail/internal/config"
)

// RetentionScheduler periodically applies the retention policy to the change
// store. It is the only caller of the prune primitives; the history core
// never prunes on its own.
type RetentionScheduler struct {
	store  *changestore.ChangeStore
	cfg    config.RetentionConfig
	logger zerolog.Logger
}

// NewRetentionScheduler creates a retention scheduler bound to a store.
func NewRetentionScheduler(store *changestore.ChangeStore, cfg config.RetentionConfig, logger zerolog.Logger) *RetentionScheduler {
	return &RetentionScheduler{
		store:  store,
		cfg:    cfg,
		logger: logger.With().Str("component", "RetentionScheduler").Logger(),
	}
}

// Start runs prune cycles on the configured interval until ctx is cancelled.
// The first cycle runs immediately.
func (rs *RetentionScheduler) Start(ctx context.Context) {
	interval := time.Duration(rs.cfg.IntervalMinutes) * time.Minute
	if interval <= 0 {
		rs.logger.Warn().Msg("Invalid retention interval, scheduler not started")
		return
	}

	rs.logger.Info().
		Dur("interval", interval).
		Int("max_age_days", rs.cfg.MaxAgeDays).
		Int("max_records", rs.cfg.MaxRecords).
		Msg("Retention scheduler started")

	rs.RunOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			rs.logger.Info().Msg("Retention scheduler stopped")
			return
		case <-ticker.C:
			rs.RunOnce()
		}
	}
}

// RunOnce applies the age and size policies once. A zero policy value
// disables that policy. Failures are logged, not retried; the next cycle
// tries again.
func (rs *RetentionScheduler) RunOnce() {
	if rs.cfg.MaxAgeDays > 0 {
		if pruned, err := rs.store.PruneByAge(rs.cfg.MaxAgeDays); err != nil {
			rs.logger.Error().Err(err).Msg("Failed to prune records by age")
		} else if pruned > 0 {
			rs.logger.Info().Int64("pruned", pruned).Msg("Retention pruned records by age")
		}
	}

	if rs.cfg.MaxRecords > 0 {
		if pruned, err := rs.store.PruneBySize(rs.cfg.MaxRecords); err != nil {
			rs.logger.Error().Err(err).Msg("Failed to prune records by size")
		} else if pruned > 0 {
			rs.logger.Info().Int64("pruned", pruned).Msg("Retention pruned records by size")
		}
	}
}
