package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LedgerPruneJobName is the scheduler name of the webhook ledger prune job
const LedgerPruneJobName = "webhook_ledger_prune"

// Pruner deletes expired ledger entries and reports how many it removed
type Pruner interface {
	Prune(ctx context.Context) (int64, error)
}

// RegisterLedgerPruner schedules pruner to run on schedule
func RegisterLedgerPruner(s *Scheduler, pruner Pruner, schedule string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	return s.Register(LedgerPruneJobName, schedule, 5*time.Minute, func(ctx context.Context) error {
		removed, err := pruner.Prune(ctx)
		if err != nil {
			return err
		}
		logger.Info("Pruned webhook event ledger", zap.Int64("removed", removed))
		return nil
	})
}
