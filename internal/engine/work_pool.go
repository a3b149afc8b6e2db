package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alphathia/hk-strategy-mvp-sub001/internal/infrastructure"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/model"
)

// WorkerPool fans evaluation out across independent instruments. Within one
// series the indicator recurrences are strictly sequential, so the unit of
// work is a whole series, never a slice of one.
type WorkerPool struct {
	jobQueue    chan model.PriceSeries
	workerCount int
	runner      *Runner
	logger      *zap.Logger
	emit        func([]model.Signal)
	wg          sync.WaitGroup
}

func NewWorkerPool(workerCount int, bufferSize int, runner *Runner, emit func([]model.Signal), logger *zap.Logger) *WorkerPool {
	return &WorkerPool{
		jobQueue:    make(chan model.PriceSeries, bufferSize),
		workerCount: workerCount,
		runner:      runner,
		emit:        emit,
		logger:      logger,
	}
}

func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	p.logger.Info("started evaluation pool", zap.Int("workers", p.workerCount))
}

// Submit queues one normalized series for evaluation. Drops with a warning
// when the queue is full rather than blocking the producer.
func (p *WorkerPool) Submit(series model.PriceSeries) {
	select {
	case p.jobQueue <- series:
	default:
		p.logger.Warn("evaluation queue full, dropping series",
			zap.String("symbol", series.Symbol))
	}
}

// Close stops accepting work and waits for in-flight evaluations.
func (p *WorkerPool) Close() {
	close(p.jobQueue)
	p.wg.Wait()
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case series, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.process(id, series)
		}
	}
}

func (p *WorkerPool) process(workerID int, series model.PriceSeries) {
	start := time.Now()
	signals, err := p.runner.EvaluateLatest(series)
	infrastructure.EvalLatency.WithLabelValues(series.Symbol).Observe(time.Since(start).Seconds())
	if err != nil {
		p.logger.Error("evaluation failed",
			zap.Int("worker_id", workerID),
			zap.String("symbol", series.Symbol),
			zap.Error(err),
		)
		return
	}
	if len(signals) == 0 {
		return
	}
	p.logger.Debug("worker classified series",
		zap.Int("worker_id", workerID),
		zap.String("symbol", series.Symbol),
		zap.Int("signals", len(signals)),
	)
	if p.emit != nil {
		p.emit(signals)
	}
}
