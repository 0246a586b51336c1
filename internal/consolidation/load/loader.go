package load

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/farxc/oilst_consolidator/internal/consolidation/types"
	"github.com/farxc/oilst_consolidator/internal/logger"
	"github.com/farxc/oilst_consolidator/internal/store"
	"github.com/google/uuid"
	sqlxtypes "github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// RunInfo describes how a run was started.
type RunInfo struct {
	Trigger string
	FanOut  string
	Sources types.SourcePaths
}

func (i RunInfo) newRun() *store.Run {
	return &store.Run{
		Status:       store.StatusInProgress,
		TriggerType:  i.Trigger,
		FanOutPolicy: i.FanOut,
		SourceFiles:  pq.StringArray{i.Sources.Orders, i.Sources.Customers, i.Sources.Geolocation},
	}
}

// PublishRun stores the consolidated table and its reports under a new run.
// The run is marked as failed when any insert fails.
func PublishRun(ctx context.Context, result *types.RunResult, info RunInfo, storage *store.Storage, appLogger *logger.Logger) (*store.Run, error) {
	const component = "Loader"

	run := info.newRun()
	if err := storage.Runs.InsertRun(ctx, run); err != nil {
		appLogger.Error(component, "Failed to insert run: error=%v", err)
		return nil, err
	}
	appLogger.Info(component, "Publishing run: id=%s rows=%d", run.ID, result.Table.Len())

	if err := publishTables(ctx, run.ID, result, storage); err != nil {
		appLogger.Error(component, "Failed to publish run: id=%s error=%v", run.ID, err)
		finish(ctx, run, store.StatusFailure, err, storage, appLogger)
		return run, err
	}

	run.OutputFiles = pq.StringArray(result.OutputFiles)
	run.RowCount = result.Table.Len()
	run.DistinctOrders = result.Table.DistinctOrders()
	run.Quality = jsonText(result.Quality)
	if result.Sales != nil {
		run.SalesDistribution = jsonText(result.Sales)
	}

	if err := finish(ctx, run, store.StatusSuccess, nil, storage, appLogger); err != nil {
		return run, err
	}
	appLogger.Info(component, "Run published: id=%s rows=%d basketRows=%d quarterlyRows=%d", run.ID, run.RowCount, len(result.BasketSize), len(result.Quarterly))
	return run, nil
}

// RecordFailure stores a run that failed before anything could be published.
func RecordFailure(ctx context.Context, info RunInfo, runErr error, storage *store.Storage, appLogger *logger.Logger) (*store.Run, error) {
	const component = "Loader"

	run := info.newRun()
	if err := storage.Runs.InsertRun(ctx, run); err != nil {
		appLogger.Error(component, "Failed to insert failed run: error=%v", err)
		return nil, err
	}
	return run, finish(ctx, run, store.StatusFailure, runErr, storage, appLogger)
}

// publishTables writes the table and both reports in one transaction, so a
// failed run keeps no rows.
func publishTables(ctx context.Context, runID uuid.UUID, result *types.RunResult, storage *store.Storage) error {
	return storage.Transactions.InTx(ctx, func(tx *store.Storage) error {
		inserted, err := tx.Orders.InsertOrders(ctx, ToConsolidatedOrders(runID, result.Table))
		if err != nil {
			return fmt.Errorf("failed to insert consolidated orders: %w", err)
		}
		if int(inserted) != result.Table.Len() {
			return fmt.Errorf("inserted %d consolidated orders, expected %d", inserted, result.Table.Len())
		}

		if err := tx.Reports.InsertBasketSizeCounts(ctx, ToBasketSizeCounts(runID, result.BasketSize)); err != nil {
			return fmt.Errorf("failed to insert basket size counts: %w", err)
		}
		if err := tx.Reports.InsertQuarterlySales(ctx, ToQuarterlySales(runID, result.Quarterly)); err != nil {
			return fmt.Errorf("failed to insert quarterly sales: %w", err)
		}
		return nil
	})
}

func finish(ctx context.Context, run *store.Run, status string, runErr error, storage *store.Storage, appLogger *logger.Logger) error {
	const component = "Loader"

	now := time.Now()
	run.Status = status
	run.FinishedAt = &now
	if runErr != nil {
		msg := runErr.Error()
		run.ErrorMessage = &msg
	}

	if err := storage.Runs.FinishRun(ctx, run); err != nil {
		appLogger.Error(component, "Failed to update run status: id=%s status=%s error=%v", run.ID, status, err)
		return err
	}
	return nil
}

func jsonText(v any) sqlxtypes.NullJSONText {
	b, err := json.Marshal(v)
	if err != nil {
		return sqlxtypes.NullJSONText{}
	}
	return sqlxtypes.NullJSONText{JSONText: sqlxtypes.JSONText(b), Valid: true}
}
