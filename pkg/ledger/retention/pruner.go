package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Deleter is the part of ledger.Store the pruner needs.
type Deleter interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to keep records.
	// 0 means keep records forever.
	RetentionDays int

	// PruneSchedule is a cron expression for scheduled pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string
}

// Pruner deletes ledger records older than the retention period.
type Pruner struct {
	store  Deleter
	config Config
	logger *slog.Logger
	now    func() time.Time
}

// NewPruner creates a pruner over store.
func NewPruner(store Deleter, config Config) *Pruner {
	return &Pruner{
		store:  store,
		config: config,
		logger: slog.Default().With("component", "ledger.retention"),
		now:    time.Now,
	}
}

// Prune deletes records older than RetentionDays and returns how many were
// removed.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)
	deleted, err := p.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune records before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	if deleted > 0 {
		p.logger.Info("ledger pruning completed",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
			"cutoff", cutoff,
		)
	} else {
		p.logger.Debug("no ledger records pruned", "retention_days", p.config.RetentionDays)
	}

	return deleted, nil
}
