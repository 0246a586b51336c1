package converter

import (
	"github.com/farxc/oilst_consolidator/internal/consolidation/types"
	"github.com/farxc/oilst_consolidator/internal/consolidation/utils"
	"github.com/go-gota/gota/dataframe"
)

// DfToConsolidated converts a previously written consolidated table back into
// typed records.
func DfToConsolidated(df dataframe.DataFrame, quality *types.DataQualitySummary) []types.ConsolidatedRecord {
	cols := utils.ColumnValues(&df, types.ConsolidatedColumns)
	records := make([]types.ConsolidatedRecord, cols.Nrow())

	for i := range records {
		r := types.ConsolidatedRecord{
			Order: rowToOrder(cols, i, quality),

			CustomerUniqueID:      cols.GetStr(types.CustomerUniqueID, i),
			CustomerZipCodePrefix: cols.GetStr(types.CustomerZipCodePrefix, i),
			CustomerCity:          cols.GetStr(types.CustomerCity, i),
			CustomerState:         cols.GetStr(types.CustomerState, i),

			GeolocationZipCodePrefix: cols.GetStr(types.GeolocationZipCodePrefix, i),
			GeolocationLat:           parseFloat(cols, types.GeolocationLat, i, quality),
			GeolocationLng:           parseFloat(cols, types.GeolocationLng, i, quality),
			GeolocationCity:          cols.GetStr(types.GeolocationCity, i),
			GeolocationState:         cols.GetStr(types.GeolocationState, i),
			Abbreviation:             cols.GetStr(types.Abbreviation, i),
			StateName:                cols.GetStr(types.StateName, i),

			YearMonth:   cols.GetStr(types.YearMonth, i),
			DelayStatus: types.DelayStatusType(cols.GetStr(types.DelayStatus, i)),
		}

		r.TotalProducts = parseCount(cols, types.TotalProducts, i, quality)
		// item_price is not part of the artifact; the count survives as total_products.
		r.ItemCount = r.TotalProducts
		r.Year = parseCount(cols, types.Year, i, quality)
		r.Month = parseCount(cols, types.Month, i, quality)
		r.Quarter = parseCount(cols, types.Quarter, i, quality)
		r.DeltaDays = parseInt(cols, types.DeltaDays, i, quality)

		sales, err := utils.ParseDecimal(cols.GetStr(types.TotalSales, i))
		if err != nil {
			quality.AddInvalidNumber(types.TotalSales)
		}
		r.TotalSales = sales

		records[i] = r
	}
	return records
}
