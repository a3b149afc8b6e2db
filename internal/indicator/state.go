package indicator

import "fmt"

// Resume state for streaming callers. The EMA and RSI recurrences depend on
// the full series prefix, so an incremental update must carry the last
// recurrence value forward instead of recomputing history on every new bar.

// EMAState holds the recurrence state of one EMA after some prefix.
type EMAState struct {
	Window int
	Last   float64
}

// NewEMAState seeds streaming state from a series prefix. The prefix must be
// at least Window long so the SMA seed exists.
func NewEMAState(values []float64, w int) (*EMAState, error) {
	col := EMA(values, w)
	if len(col) == 0 || !Defined(col[len(col)-1]) {
		return nil, fmt.Errorf("ema(%d): prefix of %d values too short to seed", w, len(values))
	}
	return &EMAState{Window: w, Last: col[len(col)-1]}, nil
}

// Update advances the recurrence by one close and returns the new EMA.
func (s *EMAState) Update(close float64) float64 {
	alpha := 2.0 / (float64(s.Window) + 1.0)
	s.Last = alpha*close + (1-alpha)*s.Last
	return s.Last
}

// RSIState holds Wilder's smoothed averages plus the previous close.
type RSIState struct {
	Window    int
	AvgGain   float64
	AvgLoss   float64
	PrevClose float64
}

// NewRSIState seeds streaming state from a series prefix of at least
// Window+1 closes.
func NewRSIState(closes []float64, w int) (*RSIState, error) {
	if w <= 0 || len(closes) < w+1 {
		return nil, fmt.Errorf("rsi(%d): prefix of %d values too short to seed", w, len(closes))
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
	st := &RSIState{
		Window:    w,
		AvgGain:   gain / float64(w),
		AvgLoss:   loss / float64(w),
		PrevClose: closes[w],
	}
	// Replay the rest of the prefix through the smoothing recurrence.
	for i := w + 1; i < len(closes); i++ {
		st.Update(closes[i])
	}
	return st, nil
}

// Update advances Wilder's smoothing by one close and returns the new RSI.
func (s *RSIState) Update(close float64) float64 {
	d := close - s.PrevClose
	var g, l float64
	if d > 0 {
		g = d
	} else {
		l = -d
	}
	w := float64(s.Window)
	s.AvgGain = (s.AvgGain*(w-1) + g) / w
	s.AvgLoss = (s.AvgLoss*(w-1) + l) / w
	s.PrevClose = close
	return rsiValue(s.AvgGain, s.AvgLoss)
}
