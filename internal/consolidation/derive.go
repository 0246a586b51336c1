package consolidation

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/farxc/oilst_consolidator/internal/consolidation/types"
	"github.com/shopspring/decimal"
)

const day = int64(24 * time.Hour)

// CalendarFields buckets the purchase timestamp. A missing timestamp gives
// null fields and an empty label.
func CalendarFields(purchase sql.NullTime) (year, month, quarter sql.NullInt64, yearMonth string) {
	if !purchase.Valid {
		return
	}
	t := purchase.Time
	m := int64(t.Month())
	year = sql.NullInt64{Int64: int64(t.Year()), Valid: true}
	month = sql.NullInt64{Int64: m, Valid: true}
	quarter = sql.NullInt64{Int64: (m + 2) / 3, Valid: true}
	yearMonth = fmt.Sprintf("%04d-%02d", t.Year(), m)
	return
}

// TotalSales is price times count, null when either side is null.
func TotalSales(price decimal.NullDecimal, count sql.NullInt64) decimal.NullDecimal {
	if !price.Valid || !count.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: price.Decimal.Mul(decimal.NewFromInt(count.Int64)), Valid: true}
}

// DeltaDays returns whole days between the actual and the estimated delivery,
// floored toward negative infinity: 23 hours late is 0, one hour early is -1.
func DeltaDays(delivered, estimated sql.NullTime) sql.NullInt64 {
	if !delivered.Valid || !estimated.Valid {
		return sql.NullInt64{}
	}
	d := int64(delivered.Time.Sub(estimated.Time))
	days := d / day
	if d%day != 0 && d < 0 {
		days--
	}
	return sql.NullInt64{Int64: days, Valid: true}
}

// Classify maps a day delta to its delay status.
func Classify(deltaDays sql.NullInt64) types.DelayStatusType {
	switch {
	case !deltaDays.Valid || deltaDays.Int64 <= 0:
		return types.NoDelay
	case deltaDays.Int64 <= 3:
		return types.ShortDelay
	default:
		return types.LongDelay
	}
}

// Derive returns a new table with the KPI, calendar and delay fields filled.
func Derive(table types.ConsolidatedTable) types.ConsolidatedTable {
	records := make([]types.ConsolidatedRecord, len(table.Records))
	for i, r := range table.Records {
		r.TotalProducts = r.ItemCount
		r.TotalSales = TotalSales(r.ItemPrice, r.ItemCount)
		r.Year, r.Month, r.Quarter, r.YearMonth = CalendarFields(r.PurchaseTimestamp)
		r.DeltaDays = DeltaDays(r.DeliveredCustomerDate, r.EstimatedDeliveryDate)
		r.DelayStatus = Classify(r.DeltaDays)
		records[i] = r
	}
	return types.ConsolidatedTable{Records: records}
}
