package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMA_WarmupBoundary(t *testing.T) {
	values := []float64{10, 11, 12, 13, 14}

	for w := 1; w <= len(values); w++ {
		out := SMA(values, w)
		for i := 0; i < w-1; i++ {
			assert.False(t, Defined(out[i]), "w=%d idx=%d should be undefined", w, i)
		}
		for i := w - 1; i < len(values); i++ {
			assert.True(t, Defined(out[i]), "w=%d idx=%d should be defined", w, i)
			assert.False(t, math.IsInf(out[i], 0))
		}
	}

	out := SMA(values, 2)
	assert.InDelta(t, 10.5, out[1], 1e-9)
	assert.InDelta(t, 13.5, out[4], 1e-9)
}

func TestSMA_ExactMinimumLength(t *testing.T) {
	// A series exactly as long as the window defines a value only at its
	// final point.
	values := []float64{10, 11, 12, 13, 14}
	out := SMA(values, 5)

	for i := 0; i < 4; i++ {
		assert.False(t, Defined(out[i]))
	}
	assert.InDelta(t, 12, out[4], 1e-9)
}

func TestEMA_SeedEqualsSMA(t *testing.T) {
	values := []float64{2, 4, 6, 8, 10}
	w := 3

	ema := EMA(values, w)
	sma := SMA(values, w)

	assert.False(t, Defined(ema[0]))
	assert.False(t, Defined(ema[1]))
	// The recurrence is seeded with the SMA of the first w values, exactly.
	assert.Equal(t, sma[w-1], ema[w-1])

	// alpha = 2/(3+1) = 0.5
	assert.InDelta(t, 0.5*8+0.5*4, ema[3], 1e-9)
	assert.InDelta(t, 0.5*10+0.5*6, ema[4], 1e-9)
}

func TestEMA_TracksCloseWithLargeWindow(t *testing.T) {
	// As the window grows (alpha shrinks), the EMA reacts less: the gap to
	// the latest close is wider for the slower EMA after a jump.
	values := make([]float64, 40)
	for i := range values {
		values[i] = 100
	}
	values[39] = 110

	fast := EMA(values, 5)
	slow := EMA(values, 30)

	gapFast := math.Abs(fast[39] - 110)
	gapSlow := math.Abs(slow[39] - 110)
	assert.Less(t, gapFast, gapSlow)
}

func TestRollingMean_PropagatesUndefined(t *testing.T) {
	values := []float64{math.NaN(), math.NaN(), 3, 5, 7}
	out := RollingMean(values, 2)

	assert.False(t, Defined(out[1]))
	assert.False(t, Defined(out[2])) // window still contains a NaN
	assert.InDelta(t, 4, out[3], 1e-9)
	assert.InDelta(t, 6, out[4], 1e-9)
}

func TestSet_UnavailableVsUndefined(t *testing.T) {
	set := NewSet(3)
	assert.NoError(t, set.Add("sma_20", []float64{math.NaN(), 2, 3}))

	// Present column, warm-up cell: no error, NaN value.
	v, err := set.At("sma_20", 0)
	assert.NoError(t, err)
	assert.False(t, Defined(v))

	// Missing column: structural failure.
	_, err = set.At("obv", 0)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = set.Column("obv")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSet_AddRejectsMisalignedColumn(t *testing.T) {
	set := NewSet(3)
	assert.Error(t, set.Add("close", []float64{1, 2}))
}
