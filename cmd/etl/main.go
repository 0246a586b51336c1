package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/farxc/oilst_consolidator/internal/consolidation"
	"github.com/farxc/oilst_consolidator/internal/consolidation/load"
	"github.com/farxc/oilst_consolidator/internal/env"
	"github.com/farxc/oilst_consolidator/internal/logger"
)

func main() {
	const component = "Main"

	bootstrapLogger := logger.New(logger.LevelInfo, "console")
	if err := env.Load(); err != nil {
		bootstrapLogger.Fatal(component, "Failed to load .env file: error=%v", err)
	}

	cfg, err := parseConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		bootstrapLogger.Fatal(component, "Invalid configuration: error=%v", err)
	}

	appLogger := logger.New(logger.ParseLevel(cfg.logLevel), cfg.logFormat)
	defer appLogger.Sync()

	monitor := NewMonitor()
	monitor.Start(400*time.Millisecond, appLogger)

	fanOut := cfg.pipeline.Join.FanOut
	startingTime := time.Now()
	appLogger.Info(component, "Application started: orders=%s customers=%s geolocation=%s out=%s fanOut=%s publish=%t logLevel=%s",
		cfg.pipeline.Sources.Orders, cfg.pipeline.Sources.Customers, cfg.pipeline.Sources.Geolocation, cfg.pipeline.OutputDir, fanOut, cfg.publish, cfg.logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, runErr := consolidation.NewPipeline(cfg.pipeline, appLogger).Run(ctx)
	if runErr != nil {
		appLogger.Error(component, "Consolidation failed: error=%v", runErr)
	}

	if cfg.publish {
		info := load.RunInfo{Trigger: cfg.trigger, FanOut: string(fanOut), Sources: cfg.pipeline.Sources}
		pubCtx, cancel := publishContext(ctx)
		err := publish(pubCtx, cfg.db, result, runErr, info, appLogger)
		cancel()
		if err != nil {
			appLogger.Error(component, "Publishing failed: error=%v", err)
			if runErr == nil {
				runErr = err
			}
		}
	}

	stats := monitor.Stop()
	if runErr != nil {
		appLogger.Fatal(component, "Application failed: duration=%.2f seconds peakMemoryMB=%d", time.Since(startingTime).Seconds(), stats.PeakMemoryMB)
	}

	appLogger.Info(component, "Application completed successfully: duration=%.2f seconds peakMemoryMB=%d peakGoroutines=%d",
		time.Since(startingTime).Seconds(), stats.PeakMemoryMB, stats.PeakGoroutines)
}
