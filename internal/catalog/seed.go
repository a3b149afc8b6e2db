package catalog

import (
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/indicator"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/model"
)

// SeedVersion identifies the reference catalog shipped with the engine.
const SeedVersion = "v2"

// LoadSeed loads the reference catalog. Entries here are published: edits
// require a version bump, not in-place changes.
func LoadSeed() (*Catalog, error) {
	return Load(SeedVersion, seedDefinitions())
}

func seedDefinitions() []StrategyDefinition {
	return []StrategyDefinition{
		{
			Base:     "BBRK",
			Name:     "Buy Breakout",
			Side:     model.SideBuy,
			Category: model.CategoryBreakout,
			Required: []string{indicator.ColClose, indicator.ColBBUpper, indicator.ColVolume, indicator.ColVolumeAvg},
			Optional: []string{indicator.ColRSI14},
			Defaults: map[string]float64{
				"breakout_factor": 1.002,
				"volume_factor":   1.2,
				"magnitude_step":  0.004,
			},
			Ranges: map[string][2]float64{
				"breakout_factor": {1.0, 1.05},
				"volume_factor":   {1.0, 5.0},
				"magnitude_step":  {0.001, 0.05},
			},
			Conditions: []Condition{
				{Left: Operand{Indicator: indicator.ColClose}, Op: OpGT, Right: Operand{Indicator: indicator.ColBBUpper, Factor: "breakout_factor"}},
				{Left: Operand{Indicator: indicator.ColVolume}, Op: OpGE, Right: Operand{Indicator: indicator.ColVolumeAvg, Factor: "volume_factor"}},
			},
			Magnitude: MagnitudeRule{
				Driver:   Operand{Indicator: indicator.ColClose},
				Ref:      Operand{Indicator: indicator.ColBBUpper},
				Relative: true,
				Step:     "magnitude_step",
			},
		},
		{
			Base:     "SBRK",
			Name:     "Sell Breakout",
			Side:     model.SideSell,
			Category: model.CategoryBreakout,
			Required: []string{indicator.ColClose, indicator.ColBBLower, indicator.ColVolume, indicator.ColVolumeAvg},
			Optional: []string{indicator.ColRSI14},
			Defaults: map[string]float64{
				"breakout_factor": 0.998,
				"volume_factor":   1.2,
				"magnitude_step":  0.004,
			},
			Ranges: map[string][2]float64{
				"breakout_factor": {0.95, 1.0},
				"volume_factor":   {1.0, 5.0},
				"magnitude_step":  {0.001, 0.05},
			},
			Conditions: []Condition{
				{Left: Operand{Indicator: indicator.ColClose}, Op: OpLT, Right: Operand{Indicator: indicator.ColBBLower, Factor: "breakout_factor"}},
				{Left: Operand{Indicator: indicator.ColVolume}, Op: OpGE, Right: Operand{Indicator: indicator.ColVolumeAvg, Factor: "volume_factor"}},
			},
			Magnitude: MagnitudeRule{
				Driver:   Operand{Indicator: indicator.ColClose},
				Ref:      Operand{Indicator: indicator.ColBBLower},
				Below:    true,
				Relative: true,
				Step:     "magnitude_step",
			},
		},
		{
			Base:     "BMAC",
			Name:     "Buy MACD Crossover",
			Side:     model.SideBuy,
			Category: model.CategoryTrend,
			Required: []string{indicator.ColMACD, indicator.ColMACDSignal, indicator.ColMACDHist},
			Defaults: map[string]float64{
				"magnitude_step": 0.05,
			},
			Ranges: map[string][2]float64{
				"magnitude_step": {0.01, 1.0},
			},
			Conditions: []Condition{
				{Left: Operand{Indicator: indicator.ColMACD}, Op: OpCrossAbove, Right: Operand{Indicator: indicator.ColMACDSignal}},
			},
			Magnitude: MagnitudeRule{
				Driver: Operand{Indicator: indicator.ColMACDHist},
				Step:   "magnitude_step",
			},
		},
		{
			Base:     "SMAC",
			Name:     "Sell MACD Crossover",
			Side:     model.SideSell,
			Category: model.CategoryTrend,
			Required: []string{indicator.ColMACD, indicator.ColMACDSignal, indicator.ColMACDHist},
			Defaults: map[string]float64{
				"magnitude_step": 0.05,
			},
			Ranges: map[string][2]float64{
				"magnitude_step": {0.01, 1.0},
			},
			Conditions: []Condition{
				{Left: Operand{Indicator: indicator.ColMACD}, Op: OpCrossBelow, Right: Operand{Indicator: indicator.ColMACDSignal}},
			},
			Magnitude: MagnitudeRule{
				Driver: Operand{Indicator: indicator.ColMACDHist},
				Below:  true,
				Step:   "magnitude_step",
			},
		},
		{
			Base:     "BRSI",
			Name:     "Buy RSI Oversold",
			Side:     model.SideBuy,
			Category: model.CategoryMeanReversion,
			Required: []string{indicator.ColRSI14},
			Defaults: map[string]float64{
				"oversold":       30,
				"magnitude_step": 3,
			},
			Ranges: map[string][2]float64{
				"oversold":       {10, 40},
				"magnitude_step": {1, 10},
			},
			Conditions: []Condition{
				{Left: Operand{Indicator: indicator.ColRSI14}, Op: OpLT, Right: Operand{Param: "oversold"}},
			},
			Magnitude: MagnitudeRule{
				Driver: Operand{Indicator: indicator.ColRSI14},
				Ref:    Operand{Param: "oversold"},
				Below:  true,
				Step:   "magnitude_step",
			},
		},
		{
			Base:     "SRSI",
			Name:     "Sell RSI Overbought",
			Side:     model.SideSell,
			Category: model.CategoryMeanReversion,
			Required: []string{indicator.ColRSI14},
			Defaults: map[string]float64{
				"overbought":     70,
				"magnitude_step": 3,
			},
			Ranges: map[string][2]float64{
				"overbought":     {60, 90},
				"magnitude_step": {1, 10},
			},
			Conditions: []Condition{
				{Left: Operand{Indicator: indicator.ColRSI14}, Op: OpGT, Right: Operand{Param: "overbought"}},
			},
			Magnitude: MagnitudeRule{
				Driver: Operand{Indicator: indicator.ColRSI14},
				Ref:    Operand{Param: "overbought"},
				Step:   "magnitude_step",
			},
		},
		{
			Base:     "BSTO",
			Name:     "Buy Stochastic Reversal",
			Side:     model.SideBuy,
			Category: model.CategoryMeanReversion,
			Required: []string{indicator.ColStochK, indicator.ColStochD},
			Defaults: map[string]float64{
				"floor":          20,
				"magnitude_step": 2.5,
			},
			Ranges: map[string][2]float64{
				"floor":          {5, 30},
				"magnitude_step": {0.5, 10},
			},
			Conditions: []Condition{
				{Left: Operand{Indicator: indicator.ColStochK}, Op: OpLT, Right: Operand{Param: "floor"}},
				{Left: Operand{Indicator: indicator.ColStochK}, Op: OpGT, Right: Operand{Indicator: indicator.ColStochD}},
			},
			Magnitude: MagnitudeRule{
				Driver: Operand{Indicator: indicator.ColStochK},
				Ref:    Operand{Param: "floor"},
				Below:  true,
				Step:   "magnitude_step",
			},
		},
		{
			Base:     "SSTO",
			Name:     "Sell Stochastic Reversal",
			Side:     model.SideSell,
			Category: model.CategoryMeanReversion,
			Required: []string{indicator.ColStochK, indicator.ColStochD},
			Defaults: map[string]float64{
				"ceiling":        80,
				"magnitude_step": 2.5,
			},
			Ranges: map[string][2]float64{
				"ceiling":        {70, 95},
				"magnitude_step": {0.5, 10},
			},
			Conditions: []Condition{
				{Left: Operand{Indicator: indicator.ColStochK}, Op: OpGT, Right: Operand{Param: "ceiling"}},
				{Left: Operand{Indicator: indicator.ColStochK}, Op: OpLT, Right: Operand{Indicator: indicator.ColStochD}},
			},
			Magnitude: MagnitudeRule{
				Driver: Operand{Indicator: indicator.ColStochK},
				Ref:    Operand{Param: "ceiling"},
				Step:   "magnitude_step",
			},
		},
		{
			Base:     "BLVL",
			Name:     "Buy Level Reclaim",
			Side:     model.SideBuy,
			Category: model.CategoryLevel,
			Required: []string{indicator.ColClose, indicator.ColSMA20},
			Defaults: map[string]float64{
				"magnitude_step": 0.005,
			},
			Ranges: map[string][2]float64{
				"magnitude_step": {0.001, 0.05},
			},
			Conditions: []Condition{
				{Left: Operand{Indicator: indicator.ColClose}, Op: OpCrossAbove, Right: Operand{Indicator: indicator.ColSMA20}},
			},
			Magnitude: MagnitudeRule{
				Driver:   Operand{Indicator: indicator.ColClose},
				Ref:      Operand{Indicator: indicator.ColSMA20},
				Relative: true,
				Step:     "magnitude_step",
			},
		},
		{
			Base:     "SLVL",
			Name:     "Sell Level Break",
			Side:     model.SideSell,
			Category: model.CategoryLevel,
			Required: []string{indicator.ColClose, indicator.ColSMA20},
			Defaults: map[string]float64{
				"magnitude_step": 0.005,
			},
			Ranges: map[string][2]float64{
				"magnitude_step": {0.001, 0.05},
			},
			Conditions: []Condition{
				{Left: Operand{Indicator: indicator.ColClose}, Op: OpCrossBelow, Right: Operand{Indicator: indicator.ColSMA20}},
			},
			Magnitude: MagnitudeRule{
				Driver:   Operand{Indicator: indicator.ColClose},
				Ref:      Operand{Indicator: indicator.ColSMA20},
				Below:    true,
				Relative: true,
				Step:     "magnitude_step",
			},
		},
	}
}
