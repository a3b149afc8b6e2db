package infrastructure

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Logger *zap.Logger
)

// Init builds the process logger. An unknown level falls back to info so a
// bad LOG_LEVEL never blocks startup.
func Init(level string) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, _ := cfg.Build()

	Logger = logger.Named("signal-engine")
	Logger.Info("infrastructure initialized", zap.String("level", lvl.String()))
}
