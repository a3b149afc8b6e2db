package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvalLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "signal_eval_latency_seconds",
		Help: "Latency of one symbol's indicator evaluation and classification",
	}, []string{"symbol"})

	SignalsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signals_emitted_total",
		Help: "Total number of classified signals emitted",
	}, []string{"strategy_base", "side"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ws_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	SignalsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signals_dropped_total",
		Help: "Signals dropped because the persistence backlog was full",
	})

	DBInsertRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "db_insert_total",
		Help: "Total number of records inserted into DB",
	}, []string{"table"})

	CatalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "strategy_catalog_size",
		Help: "Number of strategy definitions in the loaded catalog",
	})

	ScanRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scan_runs_total",
		Help: "Total number of scheduled classification scans",
	})
)
