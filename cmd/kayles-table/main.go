package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/thyrook/grundy/internal/config"
	"github.com/thyrook/grundy/internal/evaluator"
	"github.com/thyrook/grundy/internal/game"
	"github.com/thyrook/grundy/internal/logging"
	"github.com/thyrook/grundy/internal/monitor"
	"github.com/thyrook/grundy/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply if missing)")
	maxPins := flag.Int("n", 104, "largest row size to tabulate")
	dbPath := flag.String("db", "", "result ledger path (default from config)")
	exportPath := flag.String("export", "", "write the recorded table as JSON to this file")
	flag.Parse()

	cfg := config.LoadOrDefault(*configPath)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if *dbPath == "" {
		*dbPath = cfg.Storage.DBPath
	}

	logger := logging.MustSetup(cfg.Logging.Level, cfg.Logging.Path)
	defer logger.Sync()

	if *maxPins < 0 || *maxPins > cfg.Solver.MaxHeapSize {
		fmt.Fprintf(os.Stderr, "row size out of range: %d\n", *maxPins)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create data directory: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.NewResultStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open result store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// One shared evaluator: each row reuses everything the smaller rows
	// already resolved.
	eval := evaluator.NewWithLogger[game.Kayles](logger)

	interval := time.Duration(cfg.Solver.ProgressIntervalMs) * time.Millisecond
	reporter := monitor.NewReporter(eval, interval, logger)
	if err := reporter.Start(); err != nil {
		logger.Warn("progress reporter failed to start", zap.Error(err))
	}

	start := time.Now()
	for pins := 0; pins <= *maxPins; pins++ {
		rowStart := time.Now()
		nimber, ok := eval.Nimber(game.NewKayles(pins))
		if !ok {
			logger.Error("evaluation cancelled", zap.Int("pins", pins))
			break
		}

		fmt.Printf("kayles(%3d) = %d\n", pins, nimber)

		result := storage.Result{
			Game:      fmt.Sprintf("kayles/%d", pins),
			Nimber:    nimber,
			CacheSize: eval.CacheSize(),
			ElapsedMs: float64(time.Since(rowStart).Microseconds()) / 1000.0,
		}
		if err := store.Put(result); err != nil {
			logger.Error("failed to record result",
				zap.Int("pins", pins),
				zap.Error(err))
		}
	}

	reporter.Stop()
	logger.Info("table complete",
		zap.Int("rows", *maxPins+1),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("cached_positions", eval.CacheSize()))

	if *exportPath != "" {
		f, err := os.Create(*exportPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create export file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		if err := store.ExportJSON(f); err != nil {
			fmt.Fprintf(os.Stderr, "failed to export results: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("exported table to %s\n", *exportPath)
	}
}
