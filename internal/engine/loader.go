package engine

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/alphathia/hk-strategy-mvp-sub001/internal/model"
)

// DataLoader reads historical prices from the persistence collaborator and
// materializes them for the pure engine; nothing downstream of it touches
// the database.
type DataLoader struct {
	pool *pgxpool.Pool
}

func NewDataLoader(pool *pgxpool.Pool) *DataLoader {
	return &DataLoader{pool: pool}
}

func (l *DataLoader) LoadPoints(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT trade_date, symbol, open, high, low, close, volume
		FROM price_history
		WHERE symbol = $1 AND trade_date >= $2 AND trade_date <= $3
		ORDER BY trade_date ASC`,
		symbol, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPoints(rows)
}

// LoadRecent returns the trailing n points for a symbol in ascending order.
func (l *DataLoader) LoadRecent(ctx context.Context, symbol string, n int) ([]model.PricePoint, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT trade_date, symbol, open, high, low, close, volume
		FROM (
			SELECT trade_date, symbol, open, high, low, close, volume
			FROM price_history
			WHERE symbol = $1
			ORDER BY trade_date DESC
			LIMIT $2
		) t ORDER BY trade_date ASC`,
		symbol, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPoints(rows)
}

func scanPoints(rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}) ([]model.PricePoint, error) {
	var points []model.PricePoint
	for rows.Next() {
		var p model.PricePoint
		if err := rows.Scan(&p.Timestamp, &p.Symbol, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
