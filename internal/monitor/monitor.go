package monitor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/thyrook/grundy/internal/evaluator"
)

// StatsSource is the read-only view of an evaluator cache the reporter
// samples. The evaluator serves these without blocking its worker.
type StatsSource interface {
	Stats() evaluator.Stats
}

// Reporter periodically samples a running evaluation and logs its cache
// census so long computations stay observable.
type Reporter struct {
	source   StatsSource
	interval time.Duration
	logger   *zap.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning atomic.Bool
}

// NewReporter creates a reporter sampling source every interval.
func NewReporter(source StatsSource, interval time.Duration, logger *zap.Logger) *Reporter {
	return &Reporter{
		source:   source,
		interval: interval,
		logger:   logger,
	}
}

// Start begins sampling in the background
func (r *Reporter) Start() error {
	if r.isRunning.Load() {
		return fmt.Errorf("reporter already running")
	}

	r.isRunning.Store(true)
	r.ctx, r.cancel = context.WithCancel(context.Background())

	r.wg.Add(1)
	go r.reportLoop()

	return nil
}

// Stop halts sampling and emits one final census
func (r *Reporter) Stop() {
	if !r.isRunning.Load() {
		return
	}

	r.isRunning.Store(false)
	r.cancel()
	r.wg.Wait()

	r.report("evaluation finished")
}

// reportLoop samples the cache until stopped
func (r *Reporter) reportLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.report("evaluation progress")
		}
	}
}

func (r *Reporter) report(msg string) {
	stats := r.source.Stats()
	r.logger.Info(msg,
		zap.Int("stubs", stats.Stubs),
		zap.Int("processing", stats.Processing),
		zap.Int("done", stats.Done),
		zap.Int("total", stats.Total()),
	)
}
