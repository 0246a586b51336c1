package converter

import (
	"github.com/farxc/oilst_consolidator/internal/consolidation/types"
	"github.com/farxc/oilst_consolidator/internal/consolidation/utils"
	"github.com/go-gota/gota/dataframe"
)

// DfToOrders converts every row of the orders dataframe. Unparseable
// timestamps and numbers become nulls and are counted in quality.
func DfToOrders(df dataframe.DataFrame, quality *types.DataQualitySummary) []types.Order {
	cols := utils.ColumnValues(&df, types.ColumnsForSource[types.SourceOrders])
	orders := make([]types.Order, cols.Nrow())
	for i := range orders {
		orders[i] = rowToOrder(cols, i, quality)
	}
	return orders
}

func DfToCustomers(df dataframe.DataFrame) []types.Customer {
	cols := utils.ColumnValues(&df, types.ColumnsForSource[types.SourceCustomers])
	customers := make([]types.Customer, cols.Nrow())
	for i := range customers {
		customers[i] = types.Customer{
			CustomerID:            cols.GetStr(types.CustomerID, i),
			CustomerUniqueID:      cols.GetStr(types.CustomerUniqueID, i),
			CustomerZipCodePrefix: cols.GetStr(types.CustomerZipCodePrefix, i),
			CustomerCity:          cols.GetStr(types.CustomerCity, i),
			CustomerState:         cols.GetStr(types.CustomerState, i),
		}
	}
	return customers
}

func DfToGeolocation(df dataframe.DataFrame, quality *types.DataQualitySummary) []types.Geolocation {
	cols := utils.ColumnValues(&df, types.ColumnsForSource[types.SourceGeolocation])
	geo := make([]types.Geolocation, cols.Nrow())
	for i := range geo {
		geo[i] = types.Geolocation{
			ZipCodePrefix: cols.GetStr(types.GeolocationZipCodePrefix, i),
			Lat:           parseFloat(cols, types.GeolocationLat, i, quality),
			Lng:           parseFloat(cols, types.GeolocationLng, i, quality),
			City:          cols.GetStr(types.GeolocationCity, i),
			State:         cols.GetStr(types.GeolocationState, i),
			Abbreviation:  cols.GetStr(types.Abbreviation, i),
			StateName:     cols.GetStr(types.StateName, i),
		}
	}
	return geo
}

func rowToOrder(cols utils.ColumnSet, rowIdx int, quality *types.DataQualitySummary) types.Order {
	order := types.Order{
		OrderID:     cols.GetStr(types.OrderID, rowIdx),
		CustomerID:  cols.GetStr(types.CustomerID, rowIdx),
		OrderStatus: cols.GetStr(types.OrderStatus, rowIdx),

		PurchaseTimestamp:     parseTimestamp(cols, types.OrderPurchaseTimestamp, rowIdx, quality),
		ApprovedAt:            parseTimestamp(cols, types.OrderApprovedAt, rowIdx, quality),
		DeliveredCarrierDate:  parseTimestamp(cols, types.OrderDeliveredCarrierDate, rowIdx, quality),
		DeliveredCustomerDate: parseTimestamp(cols, types.OrderDeliveredCustomerDate, rowIdx, quality),
		EstimatedDeliveryDate: parseTimestamp(cols, types.OrderEstimatedDeliveryDate, rowIdx, quality),

		DistanceDistributionCenter: parseFloat(cols, types.DistanceDistributionCenter, rowIdx, quality),
	}

	price, err := utils.ParseDecimal(cols.GetStr(types.ItemPrice, rowIdx))
	if err != nil {
		quality.AddInvalidNumber(types.ItemPrice)
	}
	order.ItemPrice = price

	count, err := utils.ParseCount(cols.GetStr(types.ItemCount, rowIdx))
	if err != nil {
		quality.AddInvalidNumber(types.ItemCount)
	}
	order.ItemCount = count

	return order
}
