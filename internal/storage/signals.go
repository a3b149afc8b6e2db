package storage

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"github.com/alphathia/hk-strategy-mvp-sub001/internal/infrastructure"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/model"
)

// BulkWriter is the slice of pgxpool.Pool the bulk writers need.
type BulkWriter interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// SignalSaver batches classified signals and flushes them to Postgres by
// interval or batch size, whichever comes first. The backlog is bounded:
// when the database stays down, the oldest signals are dropped with a
// warning rather than growing the queue forever.
type SignalSaver struct {
	db         BulkWriter
	logger     *zap.Logger
	interval   time.Duration
	maxBatch   int
	maxPending int

	mu      sync.Mutex
	pending []model.Signal
	done    chan struct{}
}

func NewSignalSaver(db BulkWriter, logger *zap.Logger, interval time.Duration, maxBatch int) *SignalSaver {
	s := &SignalSaver{
		db:         db,
		logger:     logger,
		interval:   interval,
		maxBatch:   maxBatch,
		maxPending: 10 * maxBatch,
		done:       make(chan struct{}),
	}
	go s.flushLoop()
	return s
}

// Add queues one signal for persistence.
func (s *SignalSaver) Add(sig model.Signal) {
	s.mu.Lock()
	s.pending = append(s.pending, sig)
	full := len(s.pending) >= s.maxBatch
	s.mu.Unlock()

	if full {
		s.Flush(context.Background())
	}
}

func (s *SignalSaver) flushLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.Flush(context.Background())
		}
	}
}

// Flush writes the pending batch. A failed batch is logged and requeued
// ahead of newer signals, up to the backlog cap.
func (s *SignalSaver) Flush(ctx context.Context) {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	if err := SaveSignals(ctx, s.db, batch); err != nil {
		s.logger.Error("failed to flush signal batch", zap.Int("count", len(batch)), zap.Error(err))
		s.mu.Lock()
		s.pending = append(batch, s.pending...)
		if over := len(s.pending) - s.maxPending; over > 0 {
			s.pending = append([]model.Signal(nil), s.pending[over:]...)
			infrastructure.SignalsDropped.Add(float64(over))
			s.logger.Warn("signal backlog full, dropping oldest", zap.Int("dropped", over))
		}
		s.mu.Unlock()
	}
}

// Close flushes once more and stops the background loop.
func (s *SignalSaver) Close() {
	close(s.done)
	s.Flush(context.Background())
}

// SaveSignals bulk-writes classified signals. The schema stores the 5-char
// code alongside the expanded columns so the dashboard can query by side or
// category without decoding.
func SaveSignals(ctx context.Context, db BulkWriter, signals []model.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	rows := make([][]interface{}, len(signals))
	for i, sig := range signals {
		rows[i] = []interface{}{
			sig.Symbol, sig.Timestamp, sig.Code(), sig.StrategyBase,
			string(sig.Side), sig.Category, sig.Magnitude,
		}
	}

	_, err := db.CopyFrom(ctx,
		pgx.Identifier{"signals"},
		[]string{"symbol", "trade_date", "signal_type", "strategy_base", "side", "category", "magnitude"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return err
	}
	infrastructure.DBInsertRate.WithLabelValues("signals").Add(float64(len(signals)))
	return nil
}

// SaveIndicators bulk-writes an evaluation run's indicator values. Warm-up
// cells are skipped: "undefined" is the absence of a row, mirroring how
// signals are stored.
func SaveIndicators(ctx context.Context, db BulkWriter, values []model.IndicatorValue) error {
	rows := make([][]interface{}, 0, len(values))
	for _, v := range values {
		if !v.Defined {
			continue
		}
		rows = append(rows, []interface{}{v.Symbol, v.Timestamp, v.Name, v.Value})
	}
	if len(rows) == 0 {
		return nil
	}

	_, err := db.CopyFrom(ctx,
		pgx.Identifier{"indicator_values"},
		[]string{"symbol", "trade_date", "indicator", "value"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return err
	}
	infrastructure.DBInsertRate.WithLabelValues("indicator_values").Add(float64(len(rows)))
	return nil
}

// LoadSignals reads recent persisted signals for one symbol.
func LoadSignals(ctx context.Context, pool *pgxpool.Pool, symbol string, limit int) ([]model.Signal, error) {
	rows, err := pool.Query(ctx, `
		SELECT symbol, trade_date, strategy_base, side, category, magnitude
		FROM signals
		WHERE symbol = $1
		ORDER BY trade_date DESC
		LIMIT $2`,
		symbol, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Signal
	for rows.Next() {
		var sig model.Signal
		var side string
		if err := rows.Scan(&sig.Symbol, &sig.Timestamp, &sig.StrategyBase, &side, &sig.Category, &sig.Magnitude); err != nil {
			return nil, err
		}
		sig.Side = model.Side(side)
		out = append(out, sig)
	}
	return out, rows.Err()
}
