package load

import (
	"github.com/farxc/oilst_consolidator/internal/consolidation/types"
	"github.com/farxc/oilst_consolidator/internal/store"
	"github.com/google/uuid"
)

func ToConsolidatedOrders(runID uuid.UUID, table types.ConsolidatedTable) []store.ConsolidatedOrder {
	rows := make([]store.ConsolidatedOrder, len(table.Records))
	for i, r := range table.Records {
		rows[i] = store.ConsolidatedOrder{
			RunID:                      runID,
			RowNumber:                  i,
			OrderID:                    r.OrderID,
			CustomerID:                 r.CustomerID,
			OrderStatus:                r.OrderStatus,
			PurchaseTimestamp:          r.PurchaseTimestamp,
			ApprovedAt:                 r.ApprovedAt,
			DeliveredCarrierDate:       r.DeliveredCarrierDate,
			DeliveredCustomerDate:      r.DeliveredCustomerDate,
			EstimatedDeliveryDate:      r.EstimatedDeliveryDate,
			DistanceDistributionCenter: r.DistanceDistributionCenter,
			CustomerUniqueID:           r.CustomerUniqueID,
			CustomerZipCodePrefix:      r.CustomerZipCodePrefix,
			CustomerCity:               r.CustomerCity,
			CustomerState:              r.CustomerState,
			GeolocationZipCodePrefix:   r.GeolocationZipCodePrefix,
			GeolocationLat:             r.GeolocationLat,
			GeolocationLng:             r.GeolocationLng,
			GeolocationCity:            r.GeolocationCity,
			GeolocationState:           r.GeolocationState,
			Abbreviation:               r.Abbreviation,
			StateName:                  r.StateName,
			TotalProducts:              r.TotalProducts,
			TotalSales:                 r.TotalSales,
			Year:                       r.Year,
			Month:                      r.Month,
			Quarter:                    r.Quarter,
			YearMonth:                  r.YearMonth,
			DeltaDays:                  r.DeltaDays,
			DelayStatus:                string(r.DelayStatus),
		}
	}
	return rows
}

func ToBasketSizeCounts(runID uuid.UUID, rows []types.AggregateRow) []store.BasketSizeCount {
	out := make([]store.BasketSizeCount, len(rows))
	for i, r := range rows {
		out[i] = store.BasketSizeCount{
			RunID:       runID,
			BasketSize:  r.BasketSize,
			DelayStatus: string(r.DelayStatus),
			OrderCount:  r.OrderCount,
		}
	}
	return out
}

func ToQuarterlySales(runID uuid.UUID, rows []types.ProportionRow) []store.QuarterlySales {
	out := make([]store.QuarterlySales, len(rows))
	for i, r := range rows {
		q := store.QuarterlySales{
			RunID:       runID,
			Year:        r.Year,
			Quarter:     r.Quarter,
			DelayStatus: string(r.DelayStatus),
			TotalSales:  r.TotalSales,
		}
		if r.Proportion.Valid {
			p := r.Proportion.Float64
			q.Proportion = &p
		}
		out[i] = q
	}
	return out
}
