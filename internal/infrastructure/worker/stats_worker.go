package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

// StatsSource computes pipeline stats
type StatsSource interface {
	Stats(ctx context.Context) (*entity.PipelineStats, error)
}

// StageGauge publishes per-stage counts
type StageGauge interface {
	SetStageCounts(counts map[workflow.Stage]int)
}

// StatsWorker periodically recomputes pipeline stats and publishes the
// per-stage counts so gauges stay current between dashboard requests
type StatsWorker struct {
	interval time.Duration
	source   StatsSource
	gauge    StageGauge
	logger   *zap.Logger

	mu        sync.RWMutex
	cancel    context.CancelFunc
	done      chan struct{}
	isRunning bool
	last      *entity.PipelineStats
	lastErr   error
	runs      int
}

// NewStatsWorker creates the worker
func NewStatsWorker(interval time.Duration, source StatsSource, gauge StageGauge, logger *zap.Logger) *StatsWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &StatsWorker{
		interval: interval,
		source:   source,
		gauge:    gauge,
		logger:   logger,
	}
}

// Name returns the worker name for identification
func (w *StatsWorker) Name() string {
	return "StatsWorker"
}

// Start refreshes once and then on every tick
func (w *StatsWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return fmt.Errorf("stats worker already running")
	}
	var runCtx context.Context
	runCtx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	w.isRunning = true
	w.mu.Unlock()

	w.logger.Info("StatsWorker started", zap.Duration("interval", w.interval))
	go w.loop(runCtx)
	return nil
}

// Stop cancels the loop and waits for it to exit
func (w *StatsWorker) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	cancel()
	<-done

	w.logger.Info("StatsWorker stopped", zap.Int("runs", w.Runs()))
	return nil
}

// Last returns the most recent stats and refresh error
func (w *StatsWorker) Last() (*entity.PipelineStats, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.last, w.lastErr
}

// Runs returns how many refreshes completed
func (w *StatsWorker) Runs() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.runs
}

func (w *StatsWorker) loop(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *StatsWorker) refresh(ctx context.Context) {
	stats, err := w.source.Stats(ctx)

	w.mu.Lock()
	w.runs++
	w.lastErr = err
	if err == nil {
		w.last = stats
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("Failed to refresh pipeline stats", zap.Error(err))
		return
	}
	if w.gauge != nil {
		w.gauge.SetStageCounts(stats.ByStage)
	}
}
