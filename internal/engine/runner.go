package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/alphathia/hk-strategy-mvp-sub001/internal/catalog"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/classifier"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/indicator"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/model"
)

// Windows are the indicator parameters used for one evaluation run.
type Windows struct {
	SMA         int
	EMAShort    int
	MACDFast    int
	MACDSlow    int
	MACDSignal  int
	RSI         int
	Bollinger   int
	BollingerK  float64
	Stochastic  int
	StochSmooth int
	VolumeAvg   int
}

// DefaultWindows mirrors the catalog's column naming (sma_20, rsi_14, ...).
func DefaultWindows() Windows {
	return Windows{
		SMA:         20,
		EMAShort:    5,
		MACDFast:    12,
		MACDSlow:    26,
		MACDSignal:  9,
		RSI:         14,
		Bollinger:   20,
		BollingerK:  2.0,
		Stochastic:  14,
		StochSmooth: 3,
		VolumeAvg:   20,
	}
}

// MinPoints is the series length at which every configured indicator has at
// least one defined value. The slowest warm-up is the MACD signal line.
func (w Windows) MinPoints() int {
	min := w.MACDSlow + w.MACDSignal - 1
	for _, c := range []int{w.SMA, w.RSI + 1, w.Bollinger, w.Stochastic + w.StochSmooth - 1, w.VolumeAvg} {
		if c > min {
			min = c
		}
	}
	return min
}

// Result is one evaluation run's output, handed to the persistence
// collaborator. The engine itself keeps no history.
type Result struct {
	Signals    []model.Signal
	Indicators []model.IndicatorValue
}

// Runner computes indicator columns for a normalized series and classifies
// them against the catalog. It is pure: no I/O, no cross-call state, so
// independent instruments can be evaluated concurrently.
type Runner struct {
	windows    Windows
	classifier *classifier.Classifier
	logger     *zap.Logger
}

func NewRunner(cat *catalog.Catalog, windows Windows, logger *zap.Logger) *Runner {
	return &Runner{
		windows:    windows,
		classifier: classifier.New(cat, logger),
		logger:     logger,
	}
}

// Compute derives every indicator column for the series.
func (r *Runner) Compute(series model.PriceSeries) (*indicator.Set, error) {
	closes := series.Closes()
	highs := series.Highs()
	lows := series.Lows()
	volumes := series.Volumes()
	w := r.windows

	set := indicator.NewSet(series.Len())
	macd, signal, hist := indicator.MACD(closes, w.MACDFast, w.MACDSlow, w.MACDSignal)
	bbUpper, bbMiddle, bbLower := indicator.Bollinger(closes, w.Bollinger, w.BollingerK)
	stochK, stochD := indicator.Stochastic(highs, lows, closes, w.Stochastic, w.StochSmooth)

	columns := []struct {
		name   string
		values []float64
	}{
		{indicator.ColClose, closes},
		{indicator.ColVolume, volumes},
		{indicator.ColVolumeAvg, indicator.SMA(volumes, w.VolumeAvg)},
		{indicator.ColSMA20, indicator.SMA(closes, w.SMA)},
		{indicator.ColEMA5, indicator.EMA(closes, w.EMAShort)},
		{indicator.ColEMA12, indicator.EMA(closes, w.MACDFast)},
		{indicator.ColEMA26, indicator.EMA(closes, w.MACDSlow)},
		{indicator.ColRSI14, indicator.RSI(closes, w.RSI)},
		{indicator.ColMACD, macd},
		{indicator.ColMACDSignal, signal},
		{indicator.ColMACDHist, hist},
		{indicator.ColBBUpper, bbUpper},
		{indicator.ColBBMiddle, bbMiddle},
		{indicator.ColBBLower, bbLower},
		{indicator.ColStochK, stochK},
		{indicator.ColStochD, stochD},
	}
	for _, col := range columns {
		if err := set.Add(col.name, col.values); err != nil {
			return nil, fmt.Errorf("compute %s: %w", series.Symbol, err)
		}
	}
	return set, nil
}

// EvaluateAll classifies every index of the series (backfill mode) and
// collects the full indicator value set alongside the signals.
func (r *Runner) EvaluateAll(series model.PriceSeries) (Result, error) {
	set, err := r.Compute(series)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for i, p := range series.Points {
		res.Signals = append(res.Signals, r.classifier.ClassifyIndex(series.Symbol, p.Timestamp, set, i)...)
		for _, name := range set.Names() {
			v, _ := set.At(name, i)
			defined := indicator.Defined(v)
			if !defined {
				// NaN does not survive JSON or numeric DB columns.
				v = 0
			}
			res.Indicators = append(res.Indicators, model.IndicatorValue{
				Symbol:    series.Symbol,
				Timestamp: p.Timestamp,
				Name:      name,
				Value:     v,
				Defined:   defined,
			})
		}
	}
	return res, nil
}

// EvaluateLatest classifies only the final index (live mode).
func (r *Runner) EvaluateLatest(series model.PriceSeries) ([]model.Signal, error) {
	if series.Len() == 0 {
		return nil, nil
	}
	set, err := r.Compute(series)
	if err != nil {
		return nil, err
	}
	last := series.Len() - 1
	return r.classifier.ClassifyIndex(series.Symbol, series.Points[last].Timestamp, set, last), nil
}
