// internal/app/system/workers/jobs.go
package workers

import (
	"context"
	"time"

	"github.com/dalemusser/ksef/internal/app/store/audit"
	"go.uber.org/zap"
)

// AuditPruneJob deletes audit events older than retention, hourly.
func AuditPruneJob(store *audit.Store, logger *zap.Logger, retention time.Duration) Job {
	return Job{
		Name:     "audit-prune",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			n, err := store.DeleteBefore(ctx, time.Now().UTC().Add(-retention))
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("pruned audit events",
					zap.Int64("count", n),
					zap.Duration("retention", retention))
			}
			return nil
		},
	}
}
