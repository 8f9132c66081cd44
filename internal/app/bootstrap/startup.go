// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/ksef/internal/app/resources"
	"github.com/dalemusser/ksef/internal/app/store/audit"
	categorystore "github.com/dalemusser/ksef/internal/app/store/categories"
	"github.com/dalemusser/ksef/internal/app/system/timeouts"
	"github.com/dalemusser/ksef/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs after the schema is in place and before the handler is
// built: timeout overrides, the shared layout templates, and the starter
// category catalog.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("database timeouts overridden from environment", zap.Int("count", n))
	}
	resources.LoadSharedTemplates()

	if appCfg.SeedCategories {
		if err := seedCategories(ctx, deps.MongoDatabase, logger); err != nil {
			return err
		}
	}

	if jobs := backgroundJobs(appCfg, deps, logger); len(jobs) > 0 {
		jobRunner = workers.NewRunner(logger, jobs...)
		jobRunner.Start()
	}
	return nil
}

// jobRunner is started in Startup and stopped in Shutdown.
var jobRunner *workers.Runner

func backgroundJobs(appCfg AppConfig, deps DBDeps, logger *zap.Logger) []workers.Job {
	var jobs []workers.Job
	if appCfg.AuditRetentionDays > 0 {
		retention := time.Duration(appCfg.AuditRetentionDays) * 24 * time.Hour
		jobs = append(jobs, workers.AuditPruneJob(audit.New(deps.MongoDatabase), logger, retention))
	}
	return jobs
}

func seedCategories(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	sctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	n, err := categorystore.New(db).EnsureDefaults(sctx, categorystore.Defaults)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if n > 0 {
		logger.Info("seeded service categories", zap.Int("inserted", n))
	}
	return nil
}
