package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRSI_Bounds(t *testing.T) {
	closes := []float64{10, 11, 10.5, 11.2, 10.8, 11.5, 11.1, 12, 11.7, 12.3}
	out := RSI(closes, 3)

	for i := 0; i < 3; i++ {
		assert.False(t, Defined(out[i]))
	}
	for i := 3; i < len(closes); i++ {
		assert.True(t, Defined(out[i]))
		assert.GreaterOrEqual(t, out[i], 0.0)
		assert.LessOrEqual(t, out[i], 100.0)
	}
}

func TestRSI_Wilder(t *testing.T) {
	closes := []float64{10, 11, 12, 11, 12}
	out := RSI(closes, 3)

	// Seed over the first three changes: gains (1+1)/3, losses 1/3.
	assert.InDelta(t, 66.6667, out[3], 1e-3)
	// One more up day through Wilder smoothing:
	// avgGain = (2/3*2 + 1)/3, avgLoss = (1/3*2)/3.
	assert.InDelta(t, 77.7778, out[4], 1e-3)
}

func TestRSI_EdgeSemantics(t *testing.T) {
	rising := []float64{1, 2, 3, 4, 5, 6}
	out := RSI(rising, 3)
	// Zero average loss pins RSI at exactly 100.
	assert.Equal(t, 100.0, out[5])

	falling := []float64{6, 5, 4, 3, 2, 1}
	out = RSI(falling, 3)
	// Zero average gain with non-zero losses pins RSI at exactly 0.
	assert.Equal(t, 0.0, out[5])
}

func TestMACD_WarmupAndIdentity(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.7
	}
	fast, slow, signalW := 3, 5, 3
	macd, signal, hist := MACD(closes, fast, slow, signalW)

	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	for i := 0; i < slow-1; i++ {
		assert.False(t, Defined(macd[i]))
	}
	for i := slow - 1; i < len(closes); i++ {
		assert.InDelta(t, emaFast[i]-emaSlow[i], macd[i], 1e-9)
	}

	seedIdx := slow - 1 + signalW - 1
	for i := 0; i < seedIdx; i++ {
		assert.False(t, Defined(signal[i]), "signal idx=%d", i)
		assert.False(t, Defined(hist[i]), "hist idx=%d", i)
	}
	// Signal seeds with the SMA of the first signalW MACD values.
	assert.InDelta(t, (macd[4]+macd[5]+macd[6])/3, signal[seedIdx], 1e-9)
	for i := seedIdx; i < len(closes); i++ {
		assert.InDelta(t, macd[i]-signal[i], hist[i], 1e-9)
	}
}

func TestBollinger_Ordering(t *testing.T) {
	closes := []float64{100, 102, 98, 103, 99, 101, 104, 97, 100, 102}
	upper, middle, lower := Bollinger(closes, 5, 2.0)

	for i := 0; i < 4; i++ {
		assert.False(t, Defined(middle[i]))
	}
	for i := 4; i < len(closes); i++ {
		assert.GreaterOrEqual(t, upper[i], middle[i])
		assert.GreaterOrEqual(t, middle[i], lower[i])
	}
}

func TestBollinger_FlatWindowCollapses(t *testing.T) {
	closes := []float64{50, 50, 50, 50, 50}
	upper, middle, lower := Bollinger(closes, 5, 2.0)

	// Zero standard deviation is the only case where the bands touch.
	assert.Equal(t, middle[4], upper[4])
	assert.Equal(t, middle[4], lower[4])
}

func TestStochastic_Percentages(t *testing.T) {
	highs := []float64{10, 12, 14}
	lows := []float64{6, 8, 10}
	closes := []float64{8, 10, 12}

	k, d := Stochastic(highs, lows, closes, 3, 1)

	assert.False(t, Defined(k[0]))
	assert.False(t, Defined(k[1]))
	assert.InDelta(t, 100*(12-6)/8.0, k[2], 1e-9)
	assert.InDelta(t, k[2], d[2], 1e-9)
}

func TestStochastic_FlatWindowIsUndefined(t *testing.T) {
	flat := []float64{5, 5, 5, 5}
	k, d := Stochastic(flat, flat, flat, 3, 2)

	// A zero range must yield undefined, never a division by zero.
	for i := range k {
		assert.False(t, Defined(k[i]))
		assert.False(t, Defined(d[i]))
	}
}
