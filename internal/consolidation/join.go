package consolidation

import (
	"fmt"

	"github.com/farxc/oilst_consolidator/internal/consolidation/types"
	"github.com/farxc/oilst_consolidator/internal/consolidation/utils"
)

type FanOutPolicy string

const (
	// FanOutAccept keeps one row per matching geolocation row. Several
	// geolocation rows share a postal-code prefix, so an order can appear
	// more than once; the extra rows are counted in the quality summary.
	FanOutAccept FanOutPolicy = "accept"
	// FanOutFirstMatch keeps only the first geolocation row of each prefix,
	// giving exactly one row per order.
	FanOutFirstMatch FanOutPolicy = "first"
)

const DefaultZipPrefixWidth = 5

type JoinOptions struct {
	FanOut         FanOutPolicy
	ZipPrefixWidth int
}

func ParseFanOutPolicy(s string) (FanOutPolicy, error) {
	switch FanOutPolicy(s) {
	case "", FanOutAccept:
		return FanOutAccept, nil
	case FanOutFirstMatch:
		return FanOutFirstMatch, nil
	}
	return "", fmt.Errorf("unknown fan-out policy %q (want %s or %s)", s, FanOutAccept, FanOutFirstMatch)
}

// Consolidate left-joins orders to customers on customer id, then to
// geolocation on the canonical postal-code prefix. Every order survives at
// least once and output rows follow input order. Derived fields are left
// empty; see Derive.
func Consolidate(orders []types.Order, customers []types.Customer, geolocation []types.Geolocation, opts JoinOptions) (types.ConsolidatedTable, *types.DataQualitySummary, error) {
	quality := types.NewDataQualitySummary()
	width := opts.ZipPrefixWidth
	if width <= 0 {
		width = DefaultZipPrefixWidth
	}

	customerIdx := make(map[string]int, len(customers))
	customerZips := make([]string, len(customers))
	for i, c := range customers {
		zip, ok := utils.NormalizeZipPrefix(c.CustomerZipCodePrefix, width)
		if !ok {
			return types.ConsolidatedTable{}, nil, &types.JoinKeyTypeError{Source: types.SourceCustomers, Column: types.CustomerZipCodePrefix, Value: c.CustomerZipCodePrefix, Row: i}
		}
		customerZips[i] = zip

		if _, exists := customerIdx[c.CustomerID]; exists {
			quality.DuplicateCustomers++
			continue
		}
		customerIdx[c.CustomerID] = i
	}

	geoIdx := make(map[string][]int, len(geolocation))
	for i, g := range geolocation {
		zip, ok := utils.NormalizeZipPrefix(g.ZipCodePrefix, width)
		if !ok {
			return types.ConsolidatedTable{}, nil, &types.JoinKeyTypeError{Source: types.SourceGeolocation, Column: types.GeolocationZipCodePrefix, Value: g.ZipCodePrefix, Row: i}
		}
		if zip == "" {
			continue
		}
		if opts.FanOut == FanOutFirstMatch && len(geoIdx[zip]) > 0 {
			continue
		}
		geoIdx[zip] = append(geoIdx[zip], i)
	}

	records := make([]types.ConsolidatedRecord, 0, len(orders))
	for _, o := range orders {
		base := types.ConsolidatedRecord{Order: o}

		ci, ok := customerIdx[o.CustomerID]
		if !ok || o.CustomerID == "" {
			quality.UnmatchedCustomers++
			quality.UnmatchedGeolocation++
			records = append(records, base)
			continue
		}

		c := customers[ci]
		zip := customerZips[ci]
		base.CustomerUniqueID = c.CustomerUniqueID
		base.CustomerZipCodePrefix = zip
		base.CustomerCity = c.CustomerCity
		base.CustomerState = c.CustomerState

		matches := geoIdx[zip]
		if zip == "" || len(matches) == 0 {
			quality.UnmatchedGeolocation++
			records = append(records, base)
			continue
		}

		quality.FanOutRows += len(matches) - 1
		for _, gi := range matches {
			g := geolocation[gi]
			row := base
			row.GeolocationZipCodePrefix = zip
			row.GeolocationLat = g.Lat
			row.GeolocationLng = g.Lng
			row.GeolocationCity = g.City
			row.GeolocationState = g.State
			row.Abbreviation = g.Abbreviation
			row.StateName = g.StateName
			records = append(records, row)
		}
	}

	return types.ConsolidatedTable{Records: records}, quality, nil
}
