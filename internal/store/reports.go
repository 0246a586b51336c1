package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ReportStore struct {
	db sqlx.ExtContext
}

func (rs *ReportStore) InsertBasketSizeCounts(ctx context.Context, rows []BasketSizeCount) error {
	query := namedInsert("basket_size_counts", []string{"run_id", "basket_size", "delay_status", "order_count"})
	_, err := insertBatches(ctx, rs.db, query, rows)
	return err
}

func (rs *ReportStore) InsertQuarterlySales(ctx context.Context, rows []QuarterlySales) error {
	query := namedInsert("quarterly_sales", []string{"run_id", "year", "quarter", "delay_status", "total_sales", "proportion"})
	_, err := insertBatches(ctx, rs.db, query, rows)
	return err
}

func (rs *ReportStore) GetBasketSizeCounts(ctx context.Context, runID uuid.UUID) ([]BasketSizeCount, error) {
	query := `
	SELECT run_id, basket_size, delay_status, order_count
	FROM basket_size_counts
	WHERE run_id = $1
	ORDER BY basket_size, delay_status`

	rows := []BasketSizeCount{}
	if err := sqlx.SelectContext(ctx, rs.db, &rows, query, runID); err != nil {
		return nil, fmt.Errorf("failed to query basket size counts: %w", err)
	}
	return rows, nil
}

// GetQuarterlySales returns the proportions of a run. A zero year returns
// every year.
func (rs *ReportStore) GetQuarterlySales(ctx context.Context, runID uuid.UUID, year int) ([]QuarterlySales, error) {
	query := `
	SELECT run_id, year, quarter, delay_status, total_sales, proportion
	FROM quarterly_sales
	WHERE run_id = $1 AND ($2 = 0 OR year = $2)
	ORDER BY year, quarter, delay_status`

	rows := []QuarterlySales{}
	if err := sqlx.SelectContext(ctx, rs.db, &rows, query, runID, year); err != nil {
		return nil, fmt.Errorf("failed to query quarterly sales: %w", err)
	}
	return rows, nil
}
