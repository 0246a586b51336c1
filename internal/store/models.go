package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Run represents the 'consolidation_runs' table.
type Run struct {
	ID                uuid.UUID          `db:"id" json:"id"`
	Status            string             `db:"status" json:"status"`
	TriggerType       string             `db:"trigger_type" json:"trigger_type"`
	FanOutPolicy      string             `db:"fan_out_policy" json:"fan_out_policy"`
	SourceFiles       pq.StringArray     `db:"source_files" json:"source_files"`
	OutputFiles       pq.StringArray     `db:"output_files" json:"output_files"`
	RowCount          int                `db:"row_count" json:"row_count"`
	DistinctOrders    int                `db:"distinct_orders" json:"distinct_orders"`
	Quality           types.NullJSONText `db:"quality" json:"quality,omitempty"`
	SalesDistribution types.NullJSONText `db:"sales_distribution" json:"sales_distribution,omitempty"`
	ErrorMessage      *string            `db:"error_message" json:"error_message,omitempty"`
	StartedAt         time.Time          `db:"started_at" json:"started_at"`
	FinishedAt        *time.Time         `db:"finished_at" json:"finished_at,omitempty"`
}

// ConsolidatedOrder represents the 'consolidated_orders' table. RowNumber
// keeps the artifact order, since fanned-out orders share an order id.
type ConsolidatedOrder struct {
	RunID                      uuid.UUID           `db:"run_id"`
	RowNumber                  int                 `db:"row_number"`
	OrderID                    string              `db:"order_id"`
	CustomerID                 string              `db:"customer_id"`
	OrderStatus                string              `db:"order_status"`
	PurchaseTimestamp          sql.NullTime        `db:"order_purchase_timestamp"`
	ApprovedAt                 sql.NullTime        `db:"order_approved_at"`
	DeliveredCarrierDate       sql.NullTime        `db:"order_delivered_carrier_date"`
	DeliveredCustomerDate      sql.NullTime        `db:"order_delivered_customer_date"`
	EstimatedDeliveryDate      sql.NullTime        `db:"order_estimated_delivery_date"`
	DistanceDistributionCenter sql.NullFloat64     `db:"distance_distribution_center"`
	CustomerUniqueID           string              `db:"customer_unique_id"`
	CustomerZipCodePrefix      string              `db:"customer_zip_code_prefix"`
	CustomerCity               string              `db:"customer_city"`
	CustomerState              string              `db:"customer_state"`
	GeolocationZipCodePrefix   string              `db:"geolocation_zip_code_prefix"`
	GeolocationLat             sql.NullFloat64     `db:"geolocation_lat"`
	GeolocationLng             sql.NullFloat64     `db:"geolocation_lng"`
	GeolocationCity            string              `db:"geolocation_city"`
	GeolocationState           string              `db:"geolocation_state"`
	Abbreviation               string              `db:"abbreviation"`
	StateName                  string              `db:"state_name"`
	TotalProducts              sql.NullInt64       `db:"total_products"`
	TotalSales                 decimal.NullDecimal `db:"total_sales"`
	Year                       sql.NullInt64       `db:"year"`
	Month                      sql.NullInt64       `db:"month"`
	Quarter                    sql.NullInt64       `db:"quarter"`
	YearMonth                  string              `db:"year_month"`
	DeltaDays                  sql.NullInt64       `db:"delta_days"`
	DelayStatus                string              `db:"delay_status"`
}

// BasketSizeCount represents the 'basket_size_counts' table.
type BasketSizeCount struct {
	RunID       uuid.UUID `db:"run_id" json:"-"`
	BasketSize  int64     `db:"basket_size" json:"basket_size"`
	DelayStatus string    `db:"delay_status" json:"delay_status"`
	OrderCount  int       `db:"order_count" json:"order_count"`
}

// QuarterlySales represents the 'quarterly_sales' table. A nil Proportion
// marks a quarter whose total sales were zero.
type QuarterlySales struct {
	RunID       uuid.UUID       `db:"run_id" json:"-"`
	Year        int64           `db:"year" json:"year"`
	Quarter     int64           `db:"quarter" json:"quarter"`
	DelayStatus string          `db:"delay_status" json:"delay_status"`
	TotalSales  decimal.Decimal `db:"total_sales" json:"total_sales"`
	Proportion  *float64        `db:"proportion" json:"proportion"`
}
