package series

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/alphathia/hk-strategy-mvp-sub001/internal/model"
)

func point(day int, close float64, volume int64) model.PricePoint {
	c := decimal.NewFromFloat(close)
	return model.PricePoint{
		Symbol:    "0005.HK",
		Open:      c,
		High:      c.Mul(decimal.NewFromFloat(1.01)),
		Low:       c.Mul(decimal.NewFromFloat(0.99)),
		Close:     c,
		Volume:    volume,
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
	}
}

func TestNormalize_Valid(t *testing.T) {
	n := NewNormalizer(3, 7)
	points := []model.PricePoint{point(0, 60, 1000), point(1, 61, 1100), point(2, 60.5, 900)}

	got, err := n.Normalize("0005.HK", points)
	assert.NoError(t, err)
	assert.Equal(t, "0005.HK", got.Symbol)
	assert.Equal(t, 3, got.Len())
}

func TestNormalize_TooShort(t *testing.T) {
	n := NewNormalizer(3, 7)
	_, err := n.Normalize("0005.HK", []model.PricePoint{point(0, 60, 1000)})
	assert.ErrorIs(t, err, ErrInvalidSeries)
}

func TestNormalize_OutOfOrderIsRejectedNotSorted(t *testing.T) {
	n := NewNormalizer(2, 7)
	points := []model.PricePoint{point(1, 61, 1000), point(0, 60, 1000)}

	_, err := n.Normalize("0005.HK", points)
	assert.ErrorIs(t, err, ErrInvalidSeries)
}

func TestNormalize_DuplicateTimestamp(t *testing.T) {
	n := NewNormalizer(2, 7)
	points := []model.PricePoint{point(0, 60, 1000), point(0, 61, 1000)}

	_, err := n.Normalize("0005.HK", points)
	assert.ErrorIs(t, err, ErrInvalidSeries)
}

func TestNormalize_NonPositivePrice(t *testing.T) {
	n := NewNormalizer(2, 7)
	bad := point(1, 61, 1000)
	bad.Low = decimal.Zero

	_, err := n.Normalize("0005.HK", []model.PricePoint{point(0, 60, 1000), bad})
	assert.ErrorIs(t, err, ErrInvalidSeries)
}

func TestNormalize_NegativeVolume(t *testing.T) {
	n := NewNormalizer(2, 7)
	bad := point(1, 61, -5)

	_, err := n.Normalize("0005.HK", []model.PricePoint{point(0, 60, 1000), bad})
	assert.ErrorIs(t, err, ErrInvalidSeries)
}

func TestNormalize_GapTooLarge(t *testing.T) {
	n := NewNormalizer(2, 7)
	points := []model.PricePoint{point(0, 60, 1000), point(30, 61, 1000)}

	_, err := n.Normalize("0005.HK", points)
	assert.ErrorIs(t, err, ErrInvalidSeries)
}

func TestNormalize_WeekendGapTolerated(t *testing.T) {
	n := NewNormalizer(2, 7)
	// Friday to Monday is a normal trading gap, well inside the bound.
	points := []model.PricePoint{point(4, 60, 1000), point(7, 61, 1000)}

	_, err := n.Normalize("0005.HK", points)
	assert.NoError(t, err)
}
