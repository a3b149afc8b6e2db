package model

import (
	"fmt"
	"regexp"
	"time"
)

// Side of a trading signal.
type Side string

const (
	SideBuy     Side = "Buy"
	SideSell    Side = "Sell"
	SideNeutral Side = "Neutral"
)

// Letter returns the single-character side prefix used in signal codes.
func (s Side) Letter() string {
	switch s {
	case SideBuy:
		return "B"
	case SideSell:
		return "S"
	default:
		return "H"
	}
}

// Valid reports whether the side is a member of the allowed set.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell || s == SideNeutral
}

// Strategy category taxonomy.
const (
	CategoryBreakout      = "breakout"
	CategoryMeanReversion = "mean-reversion"
	CategoryTrend         = "trend"
	CategoryLevel         = "level"
	CategoryDivergence    = "divergence"
)

// ValidCategory reports whether the category is a member of the allowed set.
func ValidCategory(c string) bool {
	switch c {
	case CategoryBreakout, CategoryMeanReversion, CategoryTrend, CategoryLevel, CategoryDivergence:
		return true
	}
	return false
}

// CodePattern is the wire format of the 5-character signal code:
// side letter, three trailing letters of the strategy base, magnitude digit.
var CodePattern = regexp.MustCompile(`^[BSH][A-Z]{3}[1-9]$`)

// Signal 一次分类运行产出的交易信号
// Category is denormalized from the catalog at classification time so the
// persistence collaborator can index on it without a join.
type Signal struct {
	Symbol       string    `json:"symbol" db:"symbol"`
	Timestamp    time.Time `json:"t" db:"trade_date"`
	StrategyBase string    `json:"strategy_base" db:"strategy_base"`
	Side         Side      `json:"side" db:"side"`
	Magnitude    int       `json:"magnitude" db:"magnitude"`
	Category     string    `json:"category" db:"category"`
}

// Code renders the 5-character signal code. The strategy base's leading
// letter doubles as the side letter, so the code is side letter plus the
// base's last three letters plus the magnitude digit.
func (s Signal) Code() string {
	return fmt.Sprintf("%s%s%d", s.Side.Letter(), s.StrategyBase[1:], s.Magnitude)
}
