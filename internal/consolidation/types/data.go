package types

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type SourceType int

const (
	SourceOrders SourceType = iota
	SourceCustomers
	SourceGeolocation
	SourceConsolidated
)

var SourceTypeNames = map[SourceType]string{
	SourceOrders:       "orders",
	SourceCustomers:    "customers",
	SourceGeolocation:  "geolocation",
	SourceConsolidated: "consolidated",
}

func (s SourceType) String() string {
	return SourceTypeNames[s]
}

const (
	OrderID                    = "order_id"
	CustomerID                 = "customer_id"
	OrderStatus                = "order_status"
	OrderPurchaseTimestamp     = "order_purchase_timestamp"
	OrderApprovedAt            = "order_approved_at"
	OrderDeliveredCarrierDate  = "order_delivered_carrier_date"
	OrderDeliveredCustomerDate = "order_delivered_customer_date"
	OrderEstimatedDeliveryDate = "order_estimated_delivery_date"
	ItemPrice                  = "item_price"
	ItemCount                  = "item_count"
	DistanceDistributionCenter = "distance_distribution_center"

	CustomerUniqueID      = "customer_unique_id"
	CustomerZipCodePrefix = "customer_zip_code_prefix"
	CustomerCity          = "customer_city"
	CustomerState         = "customer_state"

	GeolocationZipCodePrefix = "geolocation_zip_code_prefix"
	GeolocationLat           = "geolocation_lat"
	GeolocationLng           = "geolocation_lng"
	GeolocationCity          = "geolocation_city"
	GeolocationState         = "geolocation_state"
	Abbreviation             = "abbreviation"
	StateName                = "state_name"

	TotalProducts = "total_products"
	TotalSales    = "total_sales"
	Year          = "year"
	Month         = "month"
	Quarter       = "quarter"
	YearMonth     = "year_month"
	DeltaDays     = "delta_days"
	DelayStatus   = "delay_status"
)

// ColumnsForSource lists the columns every source must carry.
var ColumnsForSource = map[SourceType][]string{
	SourceOrders: {
		OrderID,
		CustomerID,
		OrderStatus,
		OrderPurchaseTimestamp,
		OrderApprovedAt,
		OrderDeliveredCarrierDate,
		OrderDeliveredCustomerDate,
		OrderEstimatedDeliveryDate,
		ItemPrice,
		ItemCount,
		DistanceDistributionCenter,
	},
	SourceCustomers: {
		CustomerID,
		CustomerUniqueID,
		CustomerZipCodePrefix,
		CustomerCity,
		CustomerState,
	},
	SourceGeolocation: {
		GeolocationZipCodePrefix,
		GeolocationLat,
		GeolocationLng,
		GeolocationCity,
		GeolocationState,
		Abbreviation,
		StateName,
	},
	SourceConsolidated: ConsolidatedColumns,
}

// ConsolidatedColumns is the fixed column order of the consolidated artifact.
var ConsolidatedColumns = []string{
	OrderID,
	CustomerID,
	OrderStatus,
	OrderPurchaseTimestamp,
	OrderApprovedAt,
	OrderDeliveredCarrierDate,
	OrderDeliveredCustomerDate,
	OrderEstimatedDeliveryDate,
	DistanceDistributionCenter,
	CustomerUniqueID,
	CustomerZipCodePrefix,
	CustomerCity,
	CustomerState,
	GeolocationZipCodePrefix,
	GeolocationLat,
	GeolocationLng,
	GeolocationCity,
	GeolocationState,
	Abbreviation,
	StateName,
	TotalProducts,
	TotalSales,
	Year,
	Month,
	Quarter,
	YearMonth,
	DeltaDays,
	DelayStatus,
}

// TimestampColumns are the order columns parsed into timestamps.
var TimestampColumns = []string{
	OrderPurchaseTimestamp,
	OrderApprovedAt,
	OrderDeliveredCarrierDate,
	OrderDeliveredCustomerDate,
	OrderEstimatedDeliveryDate,
}

type DelayStatusType string

const (
	NoDelay    DelayStatusType = "no_delay"
	ShortDelay DelayStatusType = "short_delay"
	LongDelay  DelayStatusType = "long_delay"
)

var DelayStatuses = []DelayStatusType{NoDelay, ShortDelay, LongDelay}

func (d DelayStatusType) Valid() bool {
	switch d {
	case NoDelay, ShortDelay, LongDelay:
		return true
	}
	return false
}

type Order struct {
	OrderID                    string
	CustomerID                 string
	OrderStatus                string
	PurchaseTimestamp          sql.NullTime
	ApprovedAt                 sql.NullTime
	DeliveredCarrierDate       sql.NullTime
	DeliveredCustomerDate      sql.NullTime
	EstimatedDeliveryDate      sql.NullTime
	ItemPrice                  decimal.NullDecimal
	ItemCount                  sql.NullInt64
	DistanceDistributionCenter sql.NullFloat64
}

type Customer struct {
	CustomerID            string
	CustomerUniqueID      string
	CustomerZipCodePrefix string
	CustomerCity          string
	CustomerState         string
}

type Geolocation struct {
	ZipCodePrefix string
	Lat           sql.NullFloat64
	Lng           sql.NullFloat64
	City          string
	State         string
	Abbreviation  string
	StateName     string
}

// ConsolidatedRecord is one row of the consolidated table. Empty strings stand
// for missing text values.
type ConsolidatedRecord struct {
	Order

	CustomerUniqueID      string
	CustomerZipCodePrefix string
	CustomerCity          string
	CustomerState         string

	GeolocationZipCodePrefix string
	GeolocationLat           sql.NullFloat64
	GeolocationLng           sql.NullFloat64
	GeolocationCity          string
	GeolocationState         string
	Abbreviation             string
	StateName                string

	TotalProducts sql.NullInt64
	TotalSales    decimal.NullDecimal
	Year          sql.NullInt64
	Month         sql.NullInt64
	Quarter       sql.NullInt64
	YearMonth     string
	DeltaDays     sql.NullInt64
	DelayStatus   DelayStatusType
}

type ConsolidatedTable struct {
	Records []ConsolidatedRecord
}

func (t ConsolidatedTable) Len() int {
	return len(t.Records)
}

// DistinctOrders counts distinct order ids.
func (t ConsolidatedTable) DistinctOrders() int {
	seen := make(map[string]struct{}, len(t.Records))
	for _, r := range t.Records {
		seen[r.OrderID] = struct{}{}
	}
	return len(seen)
}

type AggregateRow struct {
	BasketSize  int64
	DelayStatus DelayStatusType
	OrderCount  int
}

type ProportionRow struct {
	Year        int64
	Quarter     int64
	DelayStatus DelayStatusType
	TotalSales  decimal.Decimal
	Proportion  sql.NullFloat64
}

type HistogramBin struct {
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	Frequency float64 `json:"frequency"`
}

type SalesDistribution struct {
	Count           int            `json:"count"`
	Mean            float64        `json:"mean"`
	StdDev          float64        `json:"std"`
	K               float64        `json:"k"`
	LowerBound      float64        `json:"lower_bound"`
	UpperBound      float64        `json:"upper_bound"`
	ObservedShare   float64        `json:"observed_share"`
	GuaranteedShare float64        `json:"guaranteed_share"`
	Histogram       []HistogramBin `json:"histogram"`
}

type SourcePaths struct {
	Orders      string
	Customers   string
	Geolocation string
}

func (p SourcePaths) PathFor(s SourceType) string {
	switch s {
	case SourceOrders:
		return p.Orders
	case SourceCustomers:
		return p.Customers
	case SourceGeolocation:
		return p.Geolocation
	default:
		return ""
	}
}

type Sources struct {
	Orders      []Order
	Customers   []Customer
	Geolocation []Geolocation
}

type RunResult struct {
	StartedAt   time.Time
	FinishedAt  time.Time
	Table       ConsolidatedTable
	BasketSize  []AggregateRow
	Quarterly   []ProportionRow
	Sales       *SalesDistribution
	Quality     *DataQualitySummary
	OutputFiles []string
}
