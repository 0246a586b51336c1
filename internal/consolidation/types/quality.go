package types

import (
	"fmt"
	"sort"
)

// DataQualitySummary collects record-level problems that were recovered
// without aborting the run.
type DataQualitySummary struct {
	DateParseFailures     map[string]int `json:"date_parse_failures"`
	InvalidNumbers        map[string]int `json:"invalid_numbers"`
	DuplicateCustomers    int            `json:"duplicate_customers"`
	UnmatchedCustomers    int            `json:"unmatched_customers"`
	UnmatchedGeolocation  int            `json:"unmatched_geolocation"`
	FanOutRows            int            `json:"fan_out_rows"`
	ZeroTotalQuarters     int            `json:"zero_total_quarters"`
	SkippedBasketRows     int            `json:"skipped_basket_rows"`
	SkippedQuarterlyRows  int            `json:"skipped_quarterly_rows"`
	RowsOutsideYearWindow int            `json:"rows_outside_year_window"`
}

func NewDataQualitySummary() *DataQualitySummary {
	return &DataQualitySummary{
		DateParseFailures: map[string]int{},
		InvalidNumbers:    map[string]int{},
	}
}

func (s *DataQualitySummary) AddDateParseFailure(column string) {
	s.DateParseFailures[column]++
}

func (s *DataQualitySummary) AddInvalidNumber(column string) {
	s.InvalidNumbers[column]++
}

// Merge adds the counters of other into s.
func (s *DataQualitySummary) Merge(other *DataQualitySummary) {
	if other == nil {
		return
	}
	for k, v := range other.DateParseFailures {
		s.DateParseFailures[k] += v
	}
	for k, v := range other.InvalidNumbers {
		s.InvalidNumbers[k] += v
	}
	s.DuplicateCustomers += other.DuplicateCustomers
	s.UnmatchedCustomers += other.UnmatchedCustomers
	s.UnmatchedGeolocation += other.UnmatchedGeolocation
	s.FanOutRows += other.FanOutRows
	s.ZeroTotalQuarters += other.ZeroTotalQuarters
	s.SkippedBasketRows += other.SkippedBasketRows
	s.SkippedQuarterlyRows += other.SkippedQuarterlyRows
	s.RowsOutsideYearWindow += other.RowsOutsideYearWindow
}

func (s *DataQualitySummary) TotalDateParseFailures() int {
	total := 0
	for _, v := range s.DateParseFailures {
		total += v
	}
	return total
}

// Messages renders one human readable line per non-zero counter, in a stable order.
func (s *DataQualitySummary) Messages() []string {
	var msgs []string

	for _, col := range sortedKeys(s.DateParseFailures) {
		msgs = append(msgs, fmt.Sprintf("%d records had unparseable dates in column %s", s.DateParseFailures[col], col))
	}
	for _, col := range sortedKeys(s.InvalidNumbers) {
		msgs = append(msgs, fmt.Sprintf("%d records had invalid numbers in column %s", s.InvalidNumbers[col], col))
	}

	counters := []struct {
		n      int
		format string
	}{
		{s.DuplicateCustomers, "%d duplicate customer ids ignored (first occurrence kept)"},
		{s.UnmatchedCustomers, "%d orders had no matching customer"},
		{s.UnmatchedGeolocation, "%d rows had no matching geolocation"},
		{s.FanOutRows, "%d extra rows produced by geolocation fan-out"},
		{s.ZeroTotalQuarters, "%d quarters had zero total sales (proportion left empty)"},
		{s.SkippedBasketRows, "%d rows skipped in basket-size counts (missing total_products)"},
		{s.SkippedQuarterlyRows, "%d rows skipped in quarterly proportions (missing purchase date)"},
		{s.RowsOutsideYearWindow, "%d rows outside the quarterly year window"},
	}
	for _, c := range counters {
		if c.n > 0 {
			msgs = append(msgs, fmt.Sprintf(c.format, c.n))
		}
	}
	return msgs
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
