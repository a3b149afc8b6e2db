package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"github.com/alphathia/hk-strategy-mvp-sub001/internal/catalog"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/engine"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/legacy"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/model"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/series"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/storage"
)

// PointLoader supplies stored history for backfill runs.
type PointLoader interface {
	LoadPoints(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error)
}

// SnapshotReader serves the cached latest-indicator view.
type SnapshotReader interface {
	GetLatest(ctx context.Context, symbol string) (map[string]float64, error)
}

type Handler struct {
	db         *pgxpool.Pool
	logger     *zap.Logger
	catalog    *catalog.Catalog
	runner     *engine.Runner
	normalizer *series.Normalizer
	loader     PointLoader
	cache      SnapshotReader
}

func NewHandler(db *pgxpool.Pool, cat *catalog.Catalog, runner *engine.Runner, normalizer *series.Normalizer, loader PointLoader, cache SnapshotReader, logger *zap.Logger) *Handler {
	return &Handler{
		db:         db,
		logger:     logger,
		catalog:    cat,
		runner:     runner,
		normalizer: normalizer,
		loader:     loader,
		cache:      cache,
	}
}

// Classify runs ad-hoc classification over a caller-supplied series. The
// dashboard uses it for what-if analysis on data it has not persisted yet.
func (h *Handler) Classify(c *gin.Context) {
	var req struct {
		Symbol string             `json:"symbol" binding:"required"`
		Points []model.PricePoint `json:"points" binding:"required"`
		All    bool               `json:"all"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	normalized, err := h.normalizer.Normalize(req.Symbol, req.Points)
	if err != nil {
		if errors.Is(err, series.ErrInvalidSeries) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if req.All {
		res, err := h.runner.EvaluateAll(normalized)
		if err != nil {
			h.logger.Error("evaluation failed", zap.String("symbol", req.Symbol), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"signals": withCodes(res.Signals), "indicators": res.Indicators})
		return
	}

	signals, err := h.runner.EvaluateLatest(normalized)
	if err != nil {
		h.logger.Error("evaluation failed", zap.String("symbol", req.Symbol), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"signals": withCodes(signals)})
}

// GetSignals returns recent persisted signals for one symbol.
func (h *Handler) GetSignals(c *gin.Context) {
	symbol := c.Param("symbol")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}

	signals, err := storage.LoadSignals(c.Request.Context(), h.db, symbol, limit)
	if err != nil {
		h.logger.Error("failed to query signals", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, withCodes(signals))
}

// GetIndicators serves the cached latest-indicator snapshot for one symbol.
func (h *Handler) GetIndicators(c *gin.Context) {
	symbol := c.Param("symbol")

	snap, err := h.cache.GetLatest(c.Request.Context(), symbol)
	if err != nil {
		h.logger.Error("failed to read snapshot", zap.String("symbol", symbol), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot for symbol"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "indicators": snap})
}

// Backfill re-evaluates a stored date range and persists the full run,
// signals and indicator values both. Existing rows in the range are
// replaced, so re-running a backfill is idempotent.
func (h *Handler) Backfill(c *gin.Context) {
	symbol := c.Param("symbol")
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil || end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD and not before start"})
		return
	}

	ctx := c.Request.Context()
	points, err := h.loader.LoadPoints(ctx, symbol, start, end)
	if err != nil {
		h.logger.Error("failed to load history", zap.String("symbol", symbol), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	normalized, err := h.normalizer.Normalize(symbol, points)
	if err != nil {
		if errors.Is(err, series.ErrInvalidSeries) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	res, err := h.runner.EvaluateAll(normalized)
	if err != nil {
		h.logger.Error("evaluation failed", zap.String("symbol", symbol), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed"})
		return
	}

	if err := h.replaceRange(ctx, symbol, start, end, res); err != nil {
		h.logger.Error("failed to persist backfill", zap.String("symbol", symbol), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":     symbol,
		"signals":    len(res.Signals),
		"indicators": len(res.Indicators),
	})
}

func (h *Handler) replaceRange(ctx context.Context, symbol string, start, end time.Time, res engine.Result) error {
	if _, err := h.db.Exec(ctx,
		`DELETE FROM indicator_values WHERE symbol = $1 AND trade_date BETWEEN $2 AND $3`,
		symbol, start, end); err != nil {
		return err
	}
	if _, err := h.db.Exec(ctx,
		`DELETE FROM signals WHERE symbol = $1 AND trade_date BETWEEN $2 AND $3`,
		symbol, start, end); err != nil {
		return err
	}
	if err := storage.SaveIndicators(ctx, h.db, res.Indicators); err != nil {
		return err
	}
	return storage.SaveSignals(ctx, h.db, res.Signals)
}

// GetCatalog exposes the loaded strategy definitions.
func (h *Handler) GetCatalog(c *gin.Context) {
	type entry struct {
		Base     string   `json:"strategy_base"`
		Name     string   `json:"name"`
		Side     string   `json:"side"`
		Category string   `json:"category"`
		Required []string `json:"required_indicators"`
		Optional []string `json:"optional_indicators,omitempty"`
	}

	defs := h.catalog.All()
	out := make([]entry, 0, len(defs))
	for _, def := range defs {
		out = append(out, entry{
			Base:     def.Base,
			Name:     def.Name,
			Side:     string(def.Side),
			Category: def.Category,
			Required: def.Required,
			Optional: def.Optional,
		})
	}
	c.JSON(http.StatusOK, gin.H{"version": h.catalog.Version(), "strategies": out})
}

// TranslateLegacy maps a historical batch of retired one-letter codes to the
// structured encoding. Unmappable records come back quarantined, never
// dropped.
func (h *Handler) TranslateLegacy(c *gin.Context) {
	var req struct {
		Records []legacy.Record `json:"records" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := legacy.TranslateBatch(req.Records)

	quarantined := make(map[string]string, len(res.Quarantined))
	for id, err := range res.Quarantined {
		quarantined[id] = err.Error()
	}

	status := http.StatusOK
	if len(quarantined) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, gin.H{
		"table_version": legacy.TableVersion,
		"translated":    res.Translated,
		"quarantined":   quarantined,
	})
}

type codedSignal struct {
	model.Signal
	Code string `json:"code"`
}

func withCodes(signals []model.Signal) []codedSignal {
	out := make([]codedSignal, len(signals))
	for i, s := range signals {
		out[i] = codedSignal{Signal: s, Code: s.Code()}
	}
	return out
}
