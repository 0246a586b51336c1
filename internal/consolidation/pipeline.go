package consolidation

import (
	"context"
	"errors"
	"time"

	"github.com/farxc/oilst_consolidator/internal/consolidation/files"
	"github.com/farxc/oilst_consolidator/internal/consolidation/types"
	"github.com/farxc/oilst_consolidator/internal/logger"
)

type PipelineConfig struct {
	Sources      types.SourcePaths
	OutputDir    string
	Load         LoadOptions
	Join         JoinOptions
	Proportion   ProportionOptions
	Distribution DistributionOptions
}

// Pipeline runs load, join, derive, aggregate and write as one batch.
type Pipeline struct {
	cfg       PipelineConfig
	appLogger *logger.Logger
}

func NewPipeline(cfg PipelineConfig, appLogger *logger.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, appLogger: appLogger}
}

// Run executes the batch. Structural errors abort before any artifact is
// written. Record level problems end up in the result's quality summary.
func (p *Pipeline) Run(ctx context.Context) (*types.RunResult, error) {
	const component = "Pipeline"
	result := &types.RunResult{StartedAt: time.Now()}

	sources, quality, err := LoadSources(p.cfg.Sources, p.cfg.Load, p.appLogger)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	joined, joinQuality, err := Consolidate(sources.Orders, sources.Customers, sources.Geolocation, p.cfg.Join)
	if err != nil {
		p.appLogger.Error(component, "Join failed: error=%v", err)
		return nil, err
	}
	quality.Merge(joinQuality)

	table := Derive(joined)
	p.appLogger.Info(component, "Consolidated table built: rows=%d distinctOrders=%d fanOut=%s", table.Len(), table.DistinctOrders(), p.cfg.Join.FanOut)

	basket, basketQuality := CountByBasketSize(table)
	quality.Merge(basketQuality)

	quarterly, quarterlyQuality := SalesProportionByQuarter(table, p.cfg.Proportion)
	quality.Merge(quarterlyQuality)

	artifacts := []files.Artifact{
		{Name: ConsolidatedFile, Frame: ConsolidatedFrame(table)},
		{Name: BasketSizeFile, Frame: BasketSizeFrame(basket)},
		{Name: QuarterlySalesFile, Frame: QuarterlySalesFrame(quarterly)},
	}

	var stale []string
	sales, err := DescribeSales(table, p.cfg.Distribution)
	switch {
	case errors.Is(err, types.ErrNoObservations):
		p.appLogger.Warn(component, "Sales distribution skipped: orderStatus=%q delayStatus=%q reason=%v", p.cfg.Distribution.OrderStatus, p.cfg.Distribution.DelayStatus, err)
		stale = []string{SalesDistributionFile, SalesHistogramFile}
	case err != nil:
		return nil, err
	default:
		result.Sales = &sales
		artifacts = append(artifacts,
			files.Artifact{Name: SalesDistributionFile, Frame: SalesDistributionFrame(sales)},
			files.Artifact{Name: SalesHistogramFile, Frame: SalesHistogramFrame(sales.Histogram)},
		)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	written, err := files.WriteArtifacts(p.cfg.OutputDir, artifacts, stale, p.appLogger)
	if err != nil {
		p.appLogger.Error(component, "Writing artifacts failed: dir=%s error=%v", p.cfg.OutputDir, err)
		return nil, err
	}

	for _, msg := range quality.Messages() {
		p.appLogger.Warn(component, "%s", msg)
	}

	result.Table = table
	result.BasketSize = basket
	result.Quarterly = quarterly
	result.Quality = quality
	result.OutputFiles = written
	result.FinishedAt = time.Now()

	p.appLogger.Info(component, "Run completed: rows=%d basketRows=%d quarterlyRows=%d files=%d duration=%s",
		table.Len(), len(basket), len(quarterly), len(written), result.FinishedAt.Sub(result.StartedAt))
	return result, nil
}
