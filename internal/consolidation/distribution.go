package consolidation

import (
	"math"
	"sort"

	"github.com/farxc/oilst_consolidator/internal/consolidation/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultOrderStatus   = "delivered"
	DefaultChebyshevK    = 3.0
	DefaultHistogramBins = 50
)

// DistributionOptions selects the rows described by DescribeSales. An empty
// OrderStatus or DelayStatus matches every row.
type DistributionOptions struct {
	OrderStatus string
	DelayStatus types.DelayStatusType
	K           float64
	Bins        int
}

func DefaultDistributionOptions() DistributionOptions {
	return DistributionOptions{
		OrderStatus: DefaultOrderStatus,
		K:           DefaultChebyshevK,
		Bins:        DefaultHistogramBins,
	}
}

// SalesSample returns the non-null total sales of the selected rows, sorted.
func SalesSample(table types.ConsolidatedTable, opts DistributionOptions) []float64 {
	sample := make([]float64, 0, len(table.Records))
	for _, r := range table.Records {
		if opts.OrderStatus != "" && r.OrderStatus != opts.OrderStatus {
			continue
		}
		if opts.DelayStatus != "" && r.DelayStatus != opts.DelayStatus {
			continue
		}
		if !r.TotalSales.Valid {
			continue
		}
		sample = append(sample, r.TotalSales.Decimal.InexactFloat64())
	}
	sort.Float64s(sample)
	return sample
}

// DescribeSales computes the mean and sample standard deviation of total
// sales, the mean ± k·sd bounds with the lower bound clamped at zero, the
// share of observations inside them and an equal-width histogram.
func DescribeSales(table types.ConsolidatedTable, opts DistributionOptions) (types.SalesDistribution, error) {
	if opts.K <= 0 {
		opts.K = DefaultChebyshevK
	}
	if opts.Bins <= 0 {
		opts.Bins = DefaultHistogramBins
	}

	sample := SalesSample(table, opts)
	if len(sample) == 0 {
		return types.SalesDistribution{}, types.ErrNoObservations
	}

	mean, std := stat.MeanStdDev(sample, nil)
	if len(sample) < 2 {
		std = 0
	}

	lower := math.Max(0, mean-opts.K*std)
	upper := mean + opts.K*std

	inside := 0
	for _, v := range sample {
		if v >= lower && v <= upper {
			inside++
		}
	}

	guaranteed := 0.0
	if opts.K > 1 {
		guaranteed = 1 - 1/(opts.K*opts.K)
	}

	return types.SalesDistribution{
		Count:           len(sample),
		Mean:            mean,
		StdDev:          std,
		K:               opts.K,
		LowerBound:      lower,
		UpperBound:      upper,
		ObservedShare:   float64(inside) / float64(len(sample)),
		GuaranteedShare: guaranteed,
		Histogram:       histogram(sample, opts.Bins),
	}, nil
}

// histogram bins a sorted, non-empty sample into equal-width bins spanning
// its range. The last bin is closed on the right. A sample with a single
// distinct value is centred in a range of width one.
func histogram(sample []float64, bins int) []types.HistogramBin {
	lo, hi := sample[0], sample[len(sample)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sample, nil)

	out := make([]types.HistogramBin, bins)
	for i := range out {
		out[i] = types.HistogramBin{Lower: edges[i], Upper: edges[i+1], Frequency: counts[i]}
	}
	return out
}
