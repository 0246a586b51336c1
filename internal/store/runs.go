package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type RunStore struct {
	db *sqlx.DB
}

const (
	TriggerTypeManual    = "manual"
	TriggerTypeScheduled = "scheduled"
)

const (
	StatusInProgress = "in_progress"
	StatusSuccess    = "success"
	StatusFailure    = "failure"
)

const runColumns = `id, status, trigger_type, fan_out_policy, source_files, output_files, row_count,
	distinct_orders, quality, sales_distribution, error_message, started_at, finished_at`

// InsertRun records a run as in progress. A nil ID is replaced by a fresh one.
func (rs *RunStore) InsertRun(ctx context.Context, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.Status == "" {
		run.Status = StatusInProgress
	}

	query := `INSERT INTO consolidation_runs (
		id,
		status,
		trigger_type,
		fan_out_policy,
		source_files
	) VALUES (
		:id,
		:status,
		:trigger_type,
		:fan_out_policy,
		:source_files
	) RETURNING started_at`

	rows, err := rs.db.NamedQueryContext(ctx, query, run)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&run.StartedAt); err != nil {
			return err
		}
	}
	return rows.Err()
}

// FinishRun stores the outcome of a run.
func (rs *RunStore) FinishRun(ctx context.Context, run *Run) error {
	query := `UPDATE consolidation_runs SET
		status = :status,
		output_files = :output_files,
		row_count = :row_count,
		distinct_orders = :distinct_orders,
		quality = :quality,
		sales_distribution = :sales_distribution,
		error_message = :error_message,
		finished_at = :finished_at
	WHERE id = :id`

	result, err := rs.db.NamedExecContext(ctx, query, run)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", run.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (rs *RunStore) GetLatest(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM consolidation_runs ORDER BY started_at DESC LIMIT $1`

	runs := []Run{}
	if err := rs.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query latest runs: %w", err)
	}
	return runs, nil
}

func (rs *RunStore) GetByID(ctx context.Context, id uuid.UUID) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM consolidation_runs WHERE id = $1`

	var run Run
	if err := rs.db.GetContext(ctx, &run, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query run %s: %w", id, err)
	}
	return &run, nil
}
