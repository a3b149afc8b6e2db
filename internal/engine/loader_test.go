package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// fakeRows replays canned result rows in column order
// (trade_date, symbol, open, high, low, close, volume).
type fakeRows struct {
	data [][]interface{}
	pos  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...interface{}) error {
	row := r.data[r.pos-1]
	for i, d := range dest {
		switch p := d.(type) {
		case *time.Time:
			*p = row[i].(time.Time)
		case *string:
			*p = row[i].(string)
		case *decimal.Decimal:
			*p = row[i].(decimal.Decimal)
		case *int64:
			*p = row[i].(int64)
		default:
			return fmt.Errorf("unexpected scan target %T", d)
		}
	}
	return nil
}

func (r *fakeRows) Err() error { return r.err }

func TestScanPoints(t *testing.T) {
	day1 := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	rows := &fakeRows{data: [][]interface{}{
		{day1, "0005.HK", decimal.NewFromFloat(39.0), decimal.NewFromFloat(39.8),
			decimal.NewFromFloat(38.7), decimal.NewFromFloat(39.5), int64(1_200_000)},
		{day2, "0005.HK", decimal.NewFromFloat(39.5), decimal.NewFromFloat(40.1),
			decimal.NewFromFloat(39.2), decimal.NewFromFloat(40.0), int64(900_000)},
	}}

	points, err := scanPoints(rows)
	assert.NoError(t, err)
	assert.Len(t, points, 2)

	assert.Equal(t, "0005.HK", points[0].Symbol)
	assert.True(t, points[0].Timestamp.Equal(day1))
	assert.True(t, points[0].Close.Equal(decimal.NewFromFloat(39.5)))
	assert.Equal(t, int64(1_200_000), points[0].Volume)
	assert.True(t, points[1].Timestamp.Equal(day2))
}

func TestScanPoints_PropagatesRowError(t *testing.T) {
	rows := &fakeRows{err: fmt.Errorf("connection reset")}
	_, err := scanPoints(rows)
	assert.Error(t, err)
}
