package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type OrderStore struct {
	db sqlx.ExtContext
}

var consolidatedOrderColumns = []string{
	"run_id",
	"row_number",
	"order_id",
	"customer_id",
	"order_status",
	"order_purchase_timestamp",
	"order_approved_at",
	"order_delivered_carrier_date",
	"order_delivered_customer_date",
	"order_estimated_delivery_date",
	"distance_distribution_center",
	"customer_unique_id",
	"customer_zip_code_prefix",
	"customer_city",
	"customer_state",
	"geolocation_zip_code_prefix",
	"geolocation_lat",
	"geolocation_lng",
	"geolocation_city",
	"geolocation_state",
	"abbreviation",
	"state_name",
	"total_products",
	"total_sales",
	"year",
	"month",
	"quarter",
	"year_month",
	"delta_days",
	"delay_status",
}

// InsertOrders stores consolidated rows in batches within a single
// transaction, so a run never ends up with part of its table. Called through
// Storage.Transactions it joins the caller's transaction.
func (s *OrderStore) InsertOrders(ctx context.Context, orders []ConsolidatedOrder) (int64, error) {
	query := namedInsert("consolidated_orders", consolidatedOrderColumns)
	return insertBatches(ctx, s.db, query, orders)
}

func (s *OrderStore) CountByRun(ctx context.Context, runID uuid.UUID) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, s.db, &count, `SELECT COUNT(*) FROM consolidated_orders WHERE run_id = $1`, runID); err != nil {
		return 0, fmt.Errorf("failed to count orders of run %s: %w", runID, err)
	}
	return count, nil
}
