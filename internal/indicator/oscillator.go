package indicator

import "math"

// RSI computes Wilder's relative strength index over window w.
// The first defined value sits at index w: it needs w price changes, each of
// which needs the point before it. Exact edge semantics: RSI is 100 when the
// smoothed average loss is zero, 0 when the smoothed average gain is zero
// while losses are non-zero.
func RSI(closes []float64, w int) []float64 {
	out := undefinedSlice(len(closes))
	if w <= 0 || len(closes) < w+1 {
		return out
	}

	var gain, loss float64
	for i := 1; i <= w; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	avgGain := gain / float64(w)
	avgLoss := loss / float64(w)
	out[w] = rsiValue(avgGain, avgLoss)

	for i := w + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		var g, l float64
		if d > 0 {
			g = d
		} else {
			l = -d
		}
		avgGain = (avgGain*float64(w-1) + g) / float64(w)
		avgLoss = (avgLoss*float64(w-1) + l) / float64(w)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	if avgGain == 0 {
		return 0
	}
	return 100 - 100/(1+avgGain/avgLoss)
}

// MACD returns the MACD line (fast EMA minus slow EMA), its signal line
// (an EMA of the MACD line) and the histogram (MACD minus signal).
// The signal EMA is seeded with the SMA of the first signalW defined MACD
// values, mirroring the close-price EMA seeding.
func MACD(closes []float64, fast, slow, signalW int) (macd, signal, hist []float64) {
	n := len(closes)
	macd = undefinedSlice(n)
	signal = undefinedSlice(n)
	hist = undefinedSlice(n)

	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)
	for i := 0; i < n; i++ {
		if Defined(emaFast[i]) && Defined(emaSlow[i]) {
			macd[i] = emaFast[i] - emaSlow[i]
		}
	}

	// First index at which the MACD line is defined.
	start := -1
	for i := 0; i < n; i++ {
		if Defined(macd[i]) {
			start = i
			break
		}
	}
	if start < 0 || signalW <= 0 || n-start < signalW {
		return macd, signal, hist
	}

	seedIdx := start + signalW - 1
	var seed float64
	for i := start; i <= seedIdx; i++ {
		seed += macd[i]
	}
	signal[seedIdx] = seed / float64(signalW)

	alpha := 2.0 / (float64(signalW) + 1.0)
	for i := seedIdx + 1; i < n; i++ {
		signal[i] = alpha*macd[i] + (1-alpha)*signal[i-1]
	}

	for i := seedIdx; i < n; i++ {
		hist[i] = macd[i] - signal[i]
	}
	return macd, signal, hist
}

// Bollinger computes the band triple over window w with k population
// standard deviations around the SMA midline.
func Bollinger(closes []float64, w int, k float64) (upper, middle, lower []float64) {
	n := len(closes)
	middle = SMA(closes, w)
	upper = undefinedSlice(n)
	lower = undefinedSlice(n)

	for i := w - 1; i < n; i++ {
		sd := stddev(closes, i, w)
		upper[i] = middle[i] + k*sd
		lower[i] = middle[i] - k*sd
	}
	return upper, middle, lower
}

// Stochastic computes %K over window w and %D as a smoothed moving average
// of %K. A flat window (highest high equals lowest low) yields NaN for that
// cell instead of dividing by zero.
func Stochastic(highs, lows, closes []float64, w, smooth int) (k, d []float64) {
	n := len(closes)
	k = undefinedSlice(n)

	for i := w - 1; i < n; i++ {
		hh := math.Inf(-1)
		ll := math.Inf(1)
		for j := i - w + 1; j <= i; j++ {
			if highs[j] > hh {
				hh = highs[j]
			}
			if lows[j] < ll {
				ll = lows[j]
			}
		}
		if hh == ll {
			continue
		}
		k[i] = 100 * (closes[i] - ll) / (hh - ll)
	}

	d = RollingMean(k, smooth)
	return k, d
}
