package series

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alphathia/hk-strategy-mvp-sub001/internal/model"
)

// ErrInvalidSeries marks malformed or insufficient input data. The caller
// must fix the upstream feed; retrying inside the engine cannot help.
var ErrInvalidSeries = errors.New("invalid price series")

// Normalizer validates a raw ordered list of PricePoints before indicator
// computation. It never interpolates: gaps inside the allowed bound are
// kept as-is and warm-up windows simply start later.
type Normalizer struct {
	minPoints  int
	maxGapDays int
}

// NewNormalizer builds a validator requiring at least minPoints records and
// tolerating at most maxGapDays calendar days between consecutive sessions.
func NewNormalizer(minPoints, maxGapDays int) *Normalizer {
	return &Normalizer{
		minPoints:  minPoints,
		maxGapDays: maxGapDays,
	}
}

// Normalize checks ordering, price sanity, minimum length and session gaps,
// and returns the validated series. The input slice is not modified;
// out-of-order input is rejected, never silently re-sorted.
func (n *Normalizer) Normalize(symbol string, points []model.PricePoint) (model.PriceSeries, error) {
	if len(points) < n.minPoints {
		return model.PriceSeries{}, fmt.Errorf("%w: %s has %d points, need at least %d",
			ErrInvalidSeries, symbol, len(points), n.minPoints)
	}

	var prev time.Time
	for i, p := range points {
		if i > 0 && !p.Timestamp.After(prev) {
			return model.PriceSeries{}, fmt.Errorf("%w: %s timestamp at index %d (%s) not after previous (%s)",
				ErrInvalidSeries, symbol, i, p.Timestamp.Format("2006-01-02"), prev.Format("2006-01-02"))
		}
		if i > 0 && n.maxGapDays > 0 {
			gap := p.Timestamp.Sub(prev)
			if gap > time.Duration(n.maxGapDays)*24*time.Hour {
				return model.PriceSeries{}, fmt.Errorf("%w: %s gap of %.0f days before index %d exceeds %d",
					ErrInvalidSeries, symbol, gap.Hours()/24, i, n.maxGapDays)
			}
		}
		if err := checkPrices(p); err != nil {
			return model.PriceSeries{}, fmt.Errorf("%w: %s index %d: %v", ErrInvalidSeries, symbol, i, err)
		}
		prev = p.Timestamp
	}

	return model.PriceSeries{Symbol: symbol, Points: points}, nil
}

func checkPrices(p model.PricePoint) error {
	for _, c := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"open", p.Open},
		{"high", p.High},
		{"low", p.Low},
		{"close", p.Close},
	} {
		if c.value.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("non-positive %s price %s", c.name, c.value)
		}
	}
	if p.Volume < 0 {
		return fmt.Errorf("negative volume %d", p.Volume)
	}
	return nil
}
