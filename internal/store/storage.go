package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("resource not found")

// batchSize keeps multi-row inserts well below the postgres limit of 65535
// bind parameters per statement.
const batchSize = 1000

type Storage struct {
	Runs interface {
		InsertRun(ctx context.Context, run *Run) error
		FinishRun(ctx context.Context, run *Run) error
		GetLatest(ctx context.Context, limit int) ([]Run, error)
		GetByID(ctx context.Context, id uuid.UUID) (*Run, error)
	}

	Orders interface {
		InsertOrders(ctx context.Context, orders []ConsolidatedOrder) (int64, error)
		CountByRun(ctx context.Context, runID uuid.UUID) (int, error)
	}

	Reports interface {
		InsertBasketSizeCounts(ctx context.Context, rows []BasketSizeCount) error
		InsertQuarterlySales(ctx context.Context, rows []QuarterlySales) error
		GetBasketSizeCounts(ctx context.Context, runID uuid.UUID) ([]BasketSizeCount, error)
		GetQuarterlySales(ctx context.Context, runID uuid.UUID, year int) ([]QuarterlySales, error)
	}

	// Transactions runs fn with Orders and Reports bound to one transaction,
	// committed only when fn returns nil. Runs stay outside of it so that a
	// failed publish can still be recorded.
	Transactions interface {
		InTx(ctx context.Context, fn func(tx *Storage) error) error
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	s := &Storage{
		Runs:    &RunStore{db: db},
		Orders:  &OrderStore{db: db},
		Reports: &ReportStore{db: db},
	}
	s.Transactions = &TxRunner{db: db, parent: s}
	return s
}

type TxRunner struct {
	db     *sqlx.DB
	parent *Storage
}

func (t *TxRunner) InTx(ctx context.Context, fn func(tx *Storage) error) error {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	scoped := &Storage{
		Runs:    t.parent.Runs,
		Orders:  &OrderStore{db: tx},
		Reports: &ReportStore{db: tx},
	}
	scoped.Transactions = joinedTx{storage: scoped}

	if err := fn(scoped); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// joinedTx lets code that asks for a transaction run inside the open one.
type joinedTx struct {
	storage *Storage
}

func (j joinedTx) InTx(_ context.Context, fn func(tx *Storage) error) error {
	return fn(j.storage)
}

// namedInsert builds an INSERT statement with one named parameter per column.
func namedInsert(table string, columns []string) string {
	params := make([]string, len(columns))
	for i, c := range columns {
		params[i] = ":" + c
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(params, ", "))
}

// insertBatches runs a multi-row named insert per batch. On a plain
// connection the batches share a transaction of their own; inside an open
// transaction they join it.
func insertBatches[T any](ctx context.Context, db sqlx.ExtContext, query string, rows []T) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	conn, ok := db.(*sqlx.DB)
	if !ok {
		return execBatches(ctx, db, query, rows)
	}

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	inserted, err := execBatches(ctx, tx, query, rows)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inserted, nil
}

func execBatches[T any](ctx context.Context, e sqlx.ExtContext, query string, rows []T) (int64, error) {
	var inserted int64
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		result, err := sqlx.NamedExecContext(ctx, e, query, rows[start:end])
		if err != nil {
			return 0, fmt.Errorf("failed to insert rows %d-%d: %w", start, end, err)
		}
		n, _ := result.RowsAffected()
		inserted += n
	}
	return inserted, nil
}
