package consolidation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/farxc/oilst_consolidator/internal/consolidation/types"
	"github.com/farxc/oilst_consolidator/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = logger.New(logger.LevelError, "console")

const ordersCSV = `order_id,customer_id,order_status,order_purchase_timestamp,order_approved_at,order_delivered_carrier_date,order_delivered_customer_date,order_estimated_delivery_date,item_price,item_count,distance_distribution_center
o1,c1,delivered,2017-02-10 10:00:00,2017-02-10 11:00:00,2017-02-11 09:00:00,2017-02-14 10:00:00,2017-02-15 00:00:00,100.00,1,12.5
o2,c2,delivered,2017-03-05 08:00:00,2017-03-05 09:00:00,2017-03-06 09:00:00,2017-03-20 10:00:00,2017-03-16 00:00:00,150.00,2,30
o3,c3,shipped,2017-05-01 09:00:00,not a date,,,2017-05-20 00:00:00,50.00,3,
`

const customersCSV = `customer_id,customer_unique_id,customer_zip_code_prefix,customer_city,customer_state
c1,u1,01037,sao paulo,SP
c2,u2,2050,sao paulo,SP
c3,u3,99999,manaus,AM
`

const geolocationCSV = `geolocation_zip_code_prefix,geolocation_lat,geolocation_lng,geolocation_city,geolocation_state,abbreviation,state_name
1037,-23.54,-46.63,sao paulo,SP,SP,Sao Paulo
02050,-23.55,-46.64,sao paulo,SP,SP,Sao Paulo
02050,-23.56,-46.65,são paulo,SP,SP,Sao Paulo
`

func writeSources(t *testing.T) types.SourcePaths {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	return types.SourcePaths{
		Orders:      write("orders.csv", ordersCSV),
		Customers:   write("customers.csv", customersCSV),
		Geolocation: write("geolocation.csv", geolocationCSV),
	}
}

func testConfig(t *testing.T, sources types.SourcePaths) PipelineConfig {
	return PipelineConfig{
		Sources:      sources,
		OutputDir:    filepath.Join(t.TempDir(), "output"),
		Join:         JoinOptions{FanOut: FanOutFirstMatch},
		Distribution: DefaultDistributionOptions(),
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestPipelineRun(t *testing.T) {
	cfg := testConfig(t, writeSources(t))

	result, err := NewPipeline(cfg, testLogger).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Table.Len())
	assert.Len(t, result.OutputFiles, 5)
	assert.Equal(t, 1, result.Quality.DateParseFailures[types.OrderApprovedAt])
	assert.Equal(t, 1, result.Quality.UnmatchedGeolocation)

	statuses := []types.DelayStatusType{}
	for _, r := range result.Table.Records {
		statuses = append(statuses, r.DelayStatus)
	}
	assert.Equal(t, []types.DelayStatusType{types.NoDelay, types.LongDelay, types.NoDelay}, statuses)

	assert.Equal(t, strings.Join([]string{
		"basket_size,delay_status,order_count",
		"1,no_delay,1",
		"2,long_delay,1",
		"3,no_delay,1",
		"",
	}, "\n"), readFile(t, filepath.Join(cfg.OutputDir, BasketSizeFile)))

	assert.Equal(t, strings.Join([]string{
		"year,quarter,delay_status,total_sales,proportion",
		"2017,1,long_delay,300,0.75",
		"2017,1,no_delay,100,0.25",
		"2017,2,no_delay,150,1",
		"",
	}, "\n"), readFile(t, filepath.Join(cfg.OutputDir, QuarterlySalesFile)))

	require.NotNil(t, result.Sales)
	assert.Equal(t, 2, result.Sales.Count)
	assert.InDelta(t, 200.0, result.Sales.Mean, 1e-9)

	distribution := readFile(t, filepath.Join(cfg.OutputDir, SalesDistributionFile))
	assert.True(t, strings.HasPrefix(distribution, "metric,value\ncount,2\nmean,200\n"))
}

func TestPipelineRunIsIdempotent(t *testing.T) {
	cfg := testConfig(t, writeSources(t))
	p := NewPipeline(cfg, testLogger)

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	first := map[string]string{}
	for _, name := range []string{ConsolidatedFile, BasketSizeFile, QuarterlySalesFile, SalesDistributionFile, SalesHistogramFile} {
		first[name] = readFile(t, filepath.Join(cfg.OutputDir, name))
	}

	_, err = p.Run(context.Background())
	require.NoError(t, err)
	for name, content := range first {
		assert.Equal(t, content, readFile(t, filepath.Join(cfg.OutputDir, name)), name)
	}
}

func TestConsolidatedRoundTrip(t *testing.T) {
	cfg := testConfig(t, writeSources(t))

	result, err := NewPipeline(cfg, testLogger).Run(context.Background())
	require.NoError(t, err)

	table, quality, err := ReadConsolidated(filepath.Join(cfg.OutputDir, ConsolidatedFile), "")
	require.NoError(t, err)
	assert.Zero(t, quality.TotalDateParseFailures())
	require.Equal(t, result.Table.Len(), table.Len())

	for i, want := range result.Table.Records {
		got := table.Records[i]
		assert.Equal(t, want.OrderID, got.OrderID)
		assert.Equal(t, want.CustomerZipCodePrefix, got.CustomerZipCodePrefix)
		assert.Equal(t, want.GeolocationZipCodePrefix, got.GeolocationZipCodePrefix)
		assert.Equal(t, want.PurchaseTimestamp, got.PurchaseTimestamp)
		assert.Equal(t, want.DeliveredCustomerDate, got.DeliveredCustomerDate)
		assert.Equal(t, want.GeolocationLat, got.GeolocationLat)
		assert.Equal(t, want.TotalProducts, got.TotalProducts)
		assert.Equal(t, want.TotalSales.Valid, got.TotalSales.Valid)
		assert.True(t, want.TotalSales.Decimal.Equal(got.TotalSales.Decimal))
		assert.Equal(t, want.Year, got.Year)
		assert.Equal(t, want.Quarter, got.Quarter)
		assert.Equal(t, want.YearMonth, got.YearMonth)
		assert.Equal(t, want.DeltaDays, got.DeltaDays)
		assert.Equal(t, want.DelayStatus, got.DelayStatus)
	}
	assert.Equal(t, "01037", table.Records[0].CustomerZipCodePrefix)
}

func TestPipelineMissingSourceWritesNothing(t *testing.T) {
	sources := writeSources(t)
	sources.Customers = filepath.Join(t.TempDir(), "absent.csv")
	cfg := testConfig(t, sources)

	_, err := NewPipeline(cfg, testLogger).Run(context.Background())
	require.Error(t, err)

	var notFound *types.SourceNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, types.SourceCustomers, notFound.Source)

	_, statErr := os.Stat(cfg.OutputDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPipelineSchemaMismatch(t *testing.T) {
	sources := writeSources(t)
	broken := strings.Replace(customersCSV, "customer_zip_code_prefix", "zip", 1)
	require.NoError(t, os.WriteFile(sources.Customers, []byte(broken), 0o644))

	_, err := NewPipeline(testConfig(t, sources), testLogger).Run(context.Background())

	var mismatch *types.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, types.SourceCustomers, mismatch.Source)
	assert.Equal(t, types.CustomerZipCodePrefix, mismatch.Column)
}

func TestPipelineRespectsCancelledContext(t *testing.T) {
	cfg := testConfig(t, writeSources(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(cfg, testLogger).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipelineRemovesDistributionWhenSelectionEmpty(t *testing.T) {
	cfg := testConfig(t, writeSources(t))

	first, err := NewPipeline(cfg, testLogger).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, first.OutputFiles, 5)

	cfg.Distribution.OrderStatus = "canceled"
	second, err := NewPipeline(cfg, testLogger).Run(context.Background())
	require.NoError(t, err)

	assert.Nil(t, second.Sales)
	assert.Len(t, second.OutputFiles, 3)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, SalesDistributionFile))
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, SalesHistogramFile))

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestPipelineHeaderOnlyOrders(t *testing.T) {
	sources := writeSources(t)
	header := ordersCSV[:strings.IndexByte(ordersCSV, '\n')+1]
	require.NoError(t, os.WriteFile(sources.Orders, []byte(header), 0o644))
	cfg := testConfig(t, sources)

	result, err := NewPipeline(cfg, testLogger).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Table.Len())
	assert.Empty(t, result.BasketSize)
	assert.Empty(t, result.Quarterly)
	assert.Nil(t, result.Sales)
	assert.Len(t, result.OutputFiles, 3)

	assert.Equal(t, "basket_size,delay_status,order_count\n", readFile(t, filepath.Join(cfg.OutputDir, BasketSizeFile)))
	assert.Equal(t, "year,quarter,delay_status,total_sales,proportion\n", readFile(t, filepath.Join(cfg.OutputDir, QuarterlySalesFile)))

	table, _, err := ReadConsolidated(filepath.Join(cfg.OutputDir, ConsolidatedFile), "")
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}
