package main

import (
	"context"
	"time"

	"github.com/farxc/oilst_consolidator/internal/consolidation/load"
	"github.com/farxc/oilst_consolidator/internal/consolidation/types"
	"github.com/farxc/oilst_consolidator/internal/db"
	"github.com/farxc/oilst_consolidator/internal/logger"
	"github.com/farxc/oilst_consolidator/internal/store"
)

const publishTimeout = 2 * time.Minute

// publishContext outlives an interrupt of the batch so that the interrupted
// run still gets recorded, bounded by publishTimeout.
func publishContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
}

// publish stores the outcome of the batch. A failed batch is still recorded,
// so the run history shows why no tables were published.
func publish(ctx context.Context, cfg dbConfig, result *types.RunResult, runErr error, info load.RunInfo, appLogger *logger.Logger) error {
	const component = "Publisher"

	database, err := db.New(cfg.addr, cfg.maxOpenConns, cfg.maxIdleConns, cfg.maxIdleTime)
	if err != nil {
		appLogger.Error(component, "Database connection failed: error=%v", err)
		return err
	}
	defer database.Close()
	appLogger.Info(component, "Database connection pool established")

	if err := db.EnsureSchema(ctx, database); err != nil {
		appLogger.Error(component, "Schema setup failed: error=%v", err)
		return err
	}

	storage := store.NewStorage(database)

	if runErr != nil {
		_, err := load.RecordFailure(ctx, info, runErr, storage, appLogger)
		return err
	}

	run, err := load.PublishRun(ctx, result, info, storage, appLogger)
	if err != nil {
		return err
	}
	appLogger.Info(component, "Results published: runId=%s", run.ID)
	return nil
}
