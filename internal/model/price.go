package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint 代表一个交易日的行情记录
type PricePoint struct {
	Symbol    string          `json:"symbol" db:"symbol"`
	Open      decimal.Decimal `json:"o" db:"open"`
	High      decimal.Decimal `json:"h" db:"high"`
	Low       decimal.Decimal `json:"l" db:"low"`
	Close     decimal.Decimal `json:"c" db:"close"`
	Volume    int64           `json:"v" db:"volume"`
	Timestamp time.Time       `json:"t" db:"trade_date"`
}

// PriceSeries is an ordered, validated sequence of PricePoints for one
// instrument. Ordering by timestamp is established at normalization and
// never re-sorted afterwards.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

func (s PriceSeries) Len() int { return len(s.Points) }

// Closes extracts the close column as float64 for indicator arithmetic.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close.InexactFloat64()
	}
	return out
}

// Highs extracts the high column.
func (s PriceSeries) Highs() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.High.InexactFloat64()
	}
	return out
}

// Lows extracts the low column.
func (s PriceSeries) Lows() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Low.InexactFloat64()
	}
	return out
}

// Volumes extracts the volume column.
func (s PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = float64(p.Volume)
	}
	return out
}

// IndicatorValue 单个指标在某个交易日的取值
// Defined is false while the indicator is still inside its warm-up window.
type IndicatorValue struct {
	Symbol    string    `json:"symbol" db:"symbol"`
	Timestamp time.Time `json:"t" db:"trade_date"`
	Name      string    `json:"name" db:"indicator"`
	Value     float64   `json:"value" db:"value"`
	Defined   bool      `json:"defined" db:"defined"`
}
