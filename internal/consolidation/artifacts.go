package consolidation

import (
	"fmt"
	"strconv"

	"github.com/farxc/oilst_consolidator/internal/consolidation/converter"
	"github.com/farxc/oilst_consolidator/internal/consolidation/files"
	"github.com/farxc/oilst_consolidator/internal/consolidation/types"
	"github.com/farxc/oilst_consolidator/internal/consolidation/utils"
	"github.com/go-gota/gota/dataframe"
)

const (
	ConsolidatedFile      = "oilst_processed.csv"
	BasketSizeFile        = "count_orders_basket_size_by_delay_status.csv"
	QuarterlySalesFile    = "prop_sales_delay_status_by_quarter.csv"
	SalesDistributionFile = "sales_distribution.csv"
	SalesHistogramFile    = "sales_histogram.csv"
)

var (
	basketSizeColumns   = []string{"basket_size", types.DelayStatus, "order_count"}
	quarterlyColumns    = []string{types.Year, types.Quarter, types.DelayStatus, types.TotalSales, "proportion"}
	distributionColumns = []string{"metric", "value"}
	histogramColumns    = []string{"bin_lower", "bin_upper", "frequency"}
)

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ConsolidatedFrame renders the table in the fixed consolidated column order.
func ConsolidatedFrame(table types.ConsolidatedTable) dataframe.DataFrame {
	rows := make([][]string, len(table.Records))
	for i, r := range table.Records {
		rows[i] = []string{
			r.OrderID,
			r.CustomerID,
			r.OrderStatus,
			utils.FormatTimestamp(r.PurchaseTimestamp),
			utils.FormatTimestamp(r.ApprovedAt),
			utils.FormatTimestamp(r.DeliveredCarrierDate),
			utils.FormatTimestamp(r.DeliveredCustomerDate),
			utils.FormatTimestamp(r.EstimatedDeliveryDate),
			utils.FormatFloat(r.DistanceDistributionCenter),
			r.CustomerUniqueID,
			r.CustomerZipCodePrefix,
			r.CustomerCity,
			r.CustomerState,
			r.GeolocationZipCodePrefix,
			utils.FormatFloat(r.GeolocationLat),
			utils.FormatFloat(r.GeolocationLng),
			r.GeolocationCity,
			r.GeolocationState,
			r.Abbreviation,
			r.StateName,
			utils.FormatInt(r.TotalProducts),
			utils.FormatDecimal(r.TotalSales),
			utils.FormatInt(r.Year),
			utils.FormatInt(r.Month),
			utils.FormatInt(r.Quarter),
			r.YearMonth,
			utils.FormatInt(r.DeltaDays),
			string(r.DelayStatus),
		}
	}
	return files.NewStringFrame(types.ConsolidatedColumns, rows)
}

func BasketSizeFrame(rows []types.AggregateRow) dataframe.DataFrame {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			strconv.FormatInt(r.BasketSize, 10),
			string(r.DelayStatus),
			strconv.Itoa(r.OrderCount),
		}
	}
	return files.NewStringFrame(basketSizeColumns, records)
}

func QuarterlySalesFrame(rows []types.ProportionRow) dataframe.DataFrame {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			strconv.FormatInt(r.Year, 10),
			strconv.FormatInt(r.Quarter, 10),
			string(r.DelayStatus),
			r.TotalSales.String(),
			utils.FormatFloat(r.Proportion),
		}
	}
	return files.NewStringFrame(quarterlyColumns, records)
}

func SalesDistributionFrame(d types.SalesDistribution) dataframe.DataFrame {
	records := [][]string{
		{"count", strconv.Itoa(d.Count)},
		{"mean", formatFloat(d.Mean)},
		{"std", formatFloat(d.StdDev)},
		{"k", formatFloat(d.K)},
		{"lower_bound", formatFloat(d.LowerBound)},
		{"upper_bound", formatFloat(d.UpperBound)},
		{"observed_share", formatFloat(d.ObservedShare)},
		{"guaranteed_share", formatFloat(d.GuaranteedShare)},
	}
	return files.NewStringFrame(distributionColumns, records)
}

func SalesHistogramFrame(bins []types.HistogramBin) dataframe.DataFrame {
	records := make([][]string, len(bins))
	for i, b := range bins {
		records[i] = []string{formatFloat(b.Lower), formatFloat(b.Upper), formatFloat(b.Frequency)}
	}
	return files.NewStringFrame(histogramColumns, records)
}

// ReadConsolidated loads a consolidated artifact back into typed records.
// Only item_price is lost on the way; its product is kept in total_sales.
func ReadConsolidated(path, encoding string) (types.ConsolidatedTable, *types.DataQualitySummary, error) {
	df, err := files.OpenFileAndDecode(path, types.SourceConsolidated, encoding)
	if err != nil {
		return types.ConsolidatedTable{}, nil, err
	}
	if err := files.ValidateColumns(df, types.SourceConsolidated); err != nil {
		return types.ConsolidatedTable{}, nil, fmt.Errorf("failed to read consolidated table: %w", err)
	}

	quality := types.NewDataQualitySummary()
	return types.ConsolidatedTable{Records: converter.DfToConsolidated(df, quality)}, quality, nil
}
