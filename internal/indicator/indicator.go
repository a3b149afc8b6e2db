// Package indicator implements the pure numeric layer: every function maps a
// price column to an output column of the same length, with NaN marking the
// positions still inside the indicator's warm-up window. Nothing here touches
// storage or holds cross-call state.
package indicator

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnavailable marks an indicator column that cannot be computed at all
// for the instrument, as opposed to NaN which means "not enough history yet".
var ErrUnavailable = errors.New("indicator unavailable")

// Undefined is the in-band marker for warm-up positions.
func Undefined() float64 { return math.NaN() }

// Defined reports whether a value is outside the warm-up window.
func Defined(v float64) bool { return !math.IsNaN(v) }

// Set is the computed column group for one instrument. Looking up a name
// that was never computed is a structural failure (ErrUnavailable), distinct
// from reading a NaN warm-up cell.
type Set struct {
	columns map[string][]float64
	length  int
}

func NewSet(length int) *Set {
	return &Set{
		columns: make(map[string][]float64),
		length:  length,
	}
}

func (s *Set) Len() int { return s.length }

// Add registers a computed column. The column must be aligned with the
// source series.
func (s *Set) Add(name string, values []float64) error {
	if len(values) != s.length {
		return fmt.Errorf("column %s has %d values, series has %d", name, len(values), s.length)
	}
	s.columns[name] = values
	return nil
}

// Names returns the registered column names in sorted order, so iteration
// over a Set is reproducible.
func (s *Set) Names() []string {
	out := make([]string, 0, len(s.columns))
	for name := range s.columns {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Has reports whether a column was computed.
func (s *Set) Has(name string) bool {
	_, ok := s.columns[name]
	return ok
}

// At returns the value of a column at index i. A missing column yields
// ErrUnavailable; a present column may still hold NaN inside its warm-up.
func (s *Set) At(name string, i int) (float64, error) {
	col, ok := s.columns[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnavailable, name)
	}
	if i < 0 || i >= len(col) {
		return 0, fmt.Errorf("%w: %s index %d out of range", ErrUnavailable, name, i)
	}
	return col[i], nil
}

// Column returns a whole computed column.
func (s *Set) Column(name string) ([]float64, error) {
	col, ok := s.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, name)
	}
	return col, nil
}

// SMA computes the simple moving average over window w. Output is NaN for
// the first w-1 positions.
func SMA(values []float64, w int) []float64 {
	out := undefinedSlice(len(values))
	if w <= 0 || len(values) < w {
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= w {
			sum -= values[i-w]
		}
		if i >= w-1 {
			out[i] = sum / float64(w)
		}
	}
	return out
}

// EMA computes the exponential moving average with alpha = 2/(w+1), seeded
// with the SMA of the first w values. The same recurrence serves every
// window size.
func EMA(values []float64, w int) []float64 {
	out := undefinedSlice(len(values))
	if w <= 0 || len(values) < w {
		return out
	}
	alpha := 2.0 / (float64(w) + 1.0)

	var seed float64
	for _, v := range values[:w] {
		seed += v
	}
	out[w-1] = seed / float64(w)

	for i := w; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RollingMean averages the previous w cells of an already-aligned column.
// Any NaN inside the window propagates, so the output only becomes defined
// once the source column has w consecutive defined values.
func RollingMean(values []float64, w int) []float64 {
	out := undefinedSlice(len(values))
	if w <= 0 || len(values) < w {
		return out
	}
	for i := w - 1; i < len(values); i++ {
		var sum float64
		defined := true
		for j := i - w + 1; j <= i; j++ {
			if !Defined(values[j]) {
				defined = false
				break
			}
			sum += values[j]
		}
		if defined {
			out[i] = sum / float64(w)
		}
	}
	return out
}

// stddev is the population standard deviation of one window ending at i.
func stddev(values []float64, i, w int) float64 {
	var sum float64
	for j := i - w + 1; j <= i; j++ {
		sum += values[j]
	}
	mean := sum / float64(w)

	var sq float64
	for j := i - w + 1; j <= i; j++ {
		d := values[j] - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(w))
}

func undefinedSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
