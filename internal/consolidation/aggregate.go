package consolidation

import (
	"sort"

	"github.com/farxc/oilst_consolidator/internal/consolidation/types"
	"github.com/shopspring/decimal"
)

// ProportionOptions restricts the quarterly proportions to an inclusive year
// window. Zero bounds are open.
type ProportionOptions struct {
	FromYear int64
	ToYear   int64
}

func (o ProportionOptions) includes(year int64) bool {
	if o.FromYear != 0 && year < o.FromYear {
		return false
	}
	if o.ToYear != 0 && year > o.ToYear {
		return false
	}
	return true
}

type basketKey struct {
	basketSize  int64
	delayStatus types.DelayStatusType
}

// CountByBasketSize counts distinct orders per (basket size, delay status).
// Rows without a basket size are skipped and counted in the returned summary.
func CountByBasketSize(table types.ConsolidatedTable) ([]types.AggregateRow, *types.DataQualitySummary) {
	quality := types.NewDataQualitySummary()
	groups := make(map[basketKey]map[string]struct{})

	for _, r := range table.Records {
		if !r.TotalProducts.Valid {
			quality.SkippedBasketRows++
			continue
		}
		key := basketKey{basketSize: r.TotalProducts.Int64, delayStatus: r.DelayStatus}
		orders, ok := groups[key]
		if !ok {
			orders = make(map[string]struct{})
			groups[key] = orders
		}
		orders[r.OrderID] = struct{}{}
	}

	rows := make([]types.AggregateRow, 0, len(groups))
	for key, orders := range groups {
		rows = append(rows, types.AggregateRow{
			BasketSize:  key.basketSize,
			DelayStatus: key.delayStatus,
			OrderCount:  len(orders),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].BasketSize != rows[j].BasketSize {
			return rows[i].BasketSize < rows[j].BasketSize
		}
		return rows[i].DelayStatus < rows[j].DelayStatus
	})
	return rows, quality
}

type quarterKey struct {
	year    int64
	quarter int64
}

type salesKey struct {
	quarterKey
	delayStatus types.DelayStatusType
}

// SalesProportionByQuarter sums total sales per (year, quarter, delay status)
// and divides each sum by its quarter total. Missing sales count as zero. A
// quarter whose total is zero leaves its proportions null.
func SalesProportionByQuarter(table types.ConsolidatedTable, opts ProportionOptions) ([]types.ProportionRow, *types.DataQualitySummary) {
	quality := types.NewDataQualitySummary()
	sums := make(map[salesKey]decimal.Decimal)
	totals := make(map[quarterKey]decimal.Decimal)

	for _, r := range table.Records {
		if !r.Year.Valid || !r.Quarter.Valid {
			quality.SkippedQuarterlyRows++
			continue
		}
		if !opts.includes(r.Year.Int64) {
			quality.RowsOutsideYearWindow++
			continue
		}

		sales := decimal.Zero
		if r.TotalSales.Valid {
			sales = r.TotalSales.Decimal
		}
		qk := quarterKey{year: r.Year.Int64, quarter: r.Quarter.Int64}
		sk := salesKey{quarterKey: qk, delayStatus: r.DelayStatus}
		sums[sk] = sums[sk].Add(sales)
		totals[qk] = totals[qk].Add(sales)
	}

	zeroQuarters := make(map[quarterKey]struct{})
	rows := make([]types.ProportionRow, 0, len(sums))
	for key, sum := range sums {
		row := types.ProportionRow{
			Year:        key.year,
			Quarter:     key.quarter,
			DelayStatus: key.delayStatus,
			TotalSales:  sum,
		}
		proportion, err := divide(sum, totals[key.quarterKey], key.quarterKey)
		if err != nil {
			zeroQuarters[key.quarterKey] = struct{}{}
		} else {
			row.Proportion.Float64 = proportion
			row.Proportion.Valid = true
		}
		rows = append(rows, row)
	}
	quality.ZeroTotalQuarters = len(zeroQuarters)

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		if rows[i].Quarter != rows[j].Quarter {
			return rows[i].Quarter < rows[j].Quarter
		}
		return rows[i].DelayStatus < rows[j].DelayStatus
	})
	return rows, quality
}

func divide(sum, total decimal.Decimal, key quarterKey) (float64, error) {
	if total.IsZero() {
		return 0, &types.AggregationDivisionError{Year: key.year, Quarter: key.quarter}
	}
	return sum.Div(total).InexactFloat64(), nil
}
