package app

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/alphathia/hk-strategy-mvp-sub001/internal/engine"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/infrastructure"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/model"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/storage"
)

// SplitSymbols parses the configured symbol list, dropping empties.
func SplitSymbols(s string) []string {
	var out []string
	for _, sym := range strings.Split(s, ",") {
		sym = strings.TrimSpace(sym)
		if sym != "" {
			out = append(out, strings.ToUpper(sym))
		}
	}
	return out
}

// startScanWorker starts the evaluation pool and schedules the post-close
// scan over the configured universe.
func (a *App) startScanWorker(ctx context.Context) error {
	pool := engine.NewWorkerPool(runtime.NumCPU(), 64, a.Runner, a.emitSignals, a.Logger)
	pool.Start(ctx)

	a.Cron = cron.New(cron.WithSeconds())
	_, err := a.Cron.AddFunc(a.Config.ScanCron, func() {
		a.scanAll(ctx, pool)
	})
	if err != nil {
		return fmt.Errorf("bad scan schedule %q: %w", a.Config.ScanCron, err)
	}
	a.Cron.Start()
	a.Logger.Info("scan worker scheduled",
		zap.String("cron", a.Config.ScanCron),
		zap.String("symbols", a.Config.Symbols),
	)
	return nil
}

// scanAll loads, validates and submits every configured symbol. A symbol
// whose history fails validation is logged and skipped; the rest of the
// universe still runs.
func (a *App) scanAll(ctx context.Context, pool *engine.WorkerPool) {
	infrastructure.ScanRuns.Inc()

	for _, symbol := range SplitSymbols(a.Config.Symbols) {
		points, err := a.Loader.LoadRecent(ctx, symbol, a.Config.HistoryBars)
		if err != nil {
			a.Logger.Error("failed to load history", zap.String("symbol", symbol), zap.Error(err))
			continue
		}

		normalized, err := a.Normalizer.Normalize(symbol, points)
		if err != nil {
			a.Logger.Warn("series rejected", zap.String("symbol", symbol), zap.Error(err))
			continue
		}

		pool.Submit(normalized)
		a.cacheSnapshot(ctx, normalized)
	}
}

// cacheSnapshot persists the newest bar's indicator values and refreshes
// the dashboard's latest-indicator cache for one symbol. Older bars are the
// backfill endpoint's job.
func (a *App) cacheSnapshot(ctx context.Context, s model.PriceSeries) {
	res, err := a.Runner.EvaluateAll(s)
	if err != nil {
		a.Logger.Warn("failed to compute snapshot", zap.String("symbol", s.Symbol), zap.Error(err))
		return
	}

	last := s.Points[s.Len()-1].Timestamp
	var latest []model.IndicatorValue
	for _, v := range res.Indicators {
		if v.Timestamp.Equal(last) {
			latest = append(latest, v)
		}
	}

	// Delete first so a re-run of the same trading day replaces the rows
	// instead of tripping the primary key.
	if _, err := a.DB.Exec(ctx,
		`DELETE FROM indicator_values WHERE symbol = $1 AND trade_date = $2`,
		s.Symbol, last); err != nil {
		a.Logger.Error("failed to clear indicator rows", zap.String("symbol", s.Symbol), zap.Error(err))
	} else if err := storage.SaveIndicators(ctx, a.DB, latest); err != nil {
		a.Logger.Error("failed to persist indicators", zap.String("symbol", s.Symbol), zap.Error(err))
	}

	if err := a.Cache.PutLatest(ctx, s.Symbol, latest); err != nil {
		a.Logger.Warn("failed to cache snapshot", zap.String("symbol", s.Symbol), zap.Error(err))
	}
}

// emitSignals hands classified signals to the persistence and push
// collaborators.
func (a *App) emitSignals(signals []model.Signal) {
	for _, sig := range signals {
		a.Saver.Add(sig)
		infrastructure.SignalsEmitted.WithLabelValues(sig.StrategyBase, string(sig.Side)).Inc()

		subject := fmt.Sprintf("signals.classified.%s", sig.Symbol)
		data, err := json.Marshal(struct {
			model.Signal
			Code string `json:"code"`
		}{sig, sig.Code()})
		if err != nil {
			a.Logger.Error("failed to marshal signal", zap.Error(err))
			continue
		}
		if _, err := a.JS.Publish(subject, data); err != nil {
			a.Logger.Error("failed to publish signal", zap.Error(err))
		}
	}
}
