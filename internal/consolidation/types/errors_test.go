package types

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorsNameTheirSource(t *testing.T) {
	notFound := fmt.Errorf("loading: %w", &SourceNotFoundError{Source: SourceCustomers, Path: "in/customers.csv", Err: fs.ErrNotExist})

	var target *SourceNotFoundError
	require.True(t, errors.As(notFound, &target))
	assert.Equal(t, SourceCustomers, target.Source)
	assert.True(t, errors.Is(notFound, fs.ErrNotExist))
	assert.Contains(t, notFound.Error(), "customers")

	schema := &SchemaMismatchError{Source: SourceOrders, Column: ItemPrice, Missing: []string{ItemPrice, ItemCount}}
	assert.Contains(t, schema.Error(), "item_price")
	assert.Contains(t, schema.Error(), "orders")

	key := &JoinKeyTypeError{Source: SourceGeolocation, Column: GeolocationZipCodePrefix, Value: "ab12", Row: 3}
	assert.Contains(t, key.Error(), "geolocation_zip_code_prefix")
	assert.Contains(t, key.Error(), "ab12")
}

func TestDataQualityMessages(t *testing.T) {
	s := NewDataQualitySummary()
	s.AddDateParseFailure(OrderApprovedAt)
	s.AddDateParseFailure(OrderApprovedAt)
	s.AddInvalidNumber(ItemCount)
	s.FanOutRows = 3

	other := NewDataQualitySummary()
	other.AddDateParseFailure(OrderPurchaseTimestamp)
	s.Merge(other)

	assert.Equal(t, 3, s.TotalDateParseFailures())
	assert.Equal(t, []string{
		"2 records had unparseable dates in column order_approved_at",
		"1 records had unparseable dates in column order_purchase_timestamp",
		"1 records had invalid numbers in column item_count",
		"3 extra rows produced by geolocation fan-out",
	}, s.Messages())
}

func TestDelayStatusValid(t *testing.T) {
	for _, s := range DelayStatuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, DelayStatusType("late").Valid())
}
