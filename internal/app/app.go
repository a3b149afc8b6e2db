package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/alphathia/hk-strategy-mvp-sub001/api"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/catalog"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/config"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/engine"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/infrastructure"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/push"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/series"
	"github.com/alphathia/hk-strategy-mvp-sub001/internal/storage"
)

// App defines the application structure and its dependencies
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	DB         *pgxpool.Pool
	NC         *nats.Conn
	JS         nats.JetStreamContext
	Redis      *redis.Client
	Catalog    *catalog.Catalog
	Runner     *engine.Runner
	Normalizer *series.Normalizer
	Loader     *engine.DataLoader
	Saver      *storage.SignalSaver
	Cache      *storage.SnapshotCache
	Gateway    *push.Gateway
	Cron       *cron.Cron
	HTTPServer *http.Server
}

// NewApp creates a new application instance
func NewApp() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	infrastructure.Init(cfg.LogLevel)
	logger := infrastructure.Logger

	return &App{
		Config: &cfg,
		Logger: logger,
	}, nil
}

// Init initializes all application components
func (a *App) Init(ctx context.Context) error {
	// 1. Strategy catalog. A partially valid catalog must never be served,
	// so a load failure aborts startup.
	if a.Config.CatalogVersion != catalog.SeedVersion {
		return fmt.Errorf("unknown catalog version %q, this build ships %q",
			a.Config.CatalogVersion, catalog.SeedVersion)
	}
	cat, err := catalog.LoadSeed()
	if err != nil {
		return fmt.Errorf("failed to load strategy catalog: %w", err)
	}
	a.Catalog = cat
	infrastructure.CatalogSize.Set(float64(cat.Size()))

	windows := engine.DefaultWindows()
	a.Runner = engine.NewRunner(cat, windows, a.Logger)
	a.Normalizer = series.NewNormalizer(windows.MinPoints(), a.Config.MaxGapDays)

	// 2. Database
	dbPool, err := pgxpool.Connect(ctx, a.Config.DB_DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.DB = dbPool
	a.Loader = engine.NewDataLoader(dbPool)

	if err := a.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// 3. NATS
	nc, js, err := infrastructure.InitNATS(a.Config.NatsURL, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	a.NC = nc
	a.JS = js

	// 4. Redis snapshot cache
	a.Redis = redis.NewClient(&redis.Options{Addr: a.Config.RedisAddr})
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.Cache = storage.NewSnapshotCache(a.Redis, 24*time.Hour)

	// 5. Services
	a.Gateway = push.NewGateway(js, a.Logger)

	return nil
}

// Run starts the application services and the HTTP server
func (a *App) Run(ctx context.Context) error {
	a.Saver = storage.NewSignalSaver(a.DB, a.Logger, 1*time.Second, 500)

	if err := a.startScanWorker(ctx); err != nil {
		return fmt.Errorf("failed to start scan worker: %w", err)
	}

	a.HTTPServer = &http.Server{
		Addr:    ":" + a.Config.Port,
		Handler: a.setupRouter(),
	}

	go func() {
		a.Logger.Info("starting http server", zap.String("port", a.Config.Port))
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	return a.waitForShutdown()
}

// waitForShutdown handles graceful shutdown signals
func (a *App) waitForShutdown() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	a.Logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if a.Cron != nil {
		a.Cron.Stop()
	}
	a.Saver.Close()
	a.NC.Close()
	a.Redis.Close()
	a.DB.Close()

	return nil
}

// initDatabase runs the database initialization script
func (a *App) initDatabase(ctx context.Context) error {
	sqlFile := "scripts/init.sql"
	content, err := os.ReadFile(sqlFile)
	if err != nil {
		return fmt.Errorf("failed to read init script: %w", err)
	}

	_, err = a.DB.Exec(ctx, string(content))
	if err != nil {
		return fmt.Errorf("failed to execute init script: %w", err)
	}

	a.Logger.Info("database initialized successfully")
	return nil
}

// setupRouter configures the Gin router and its routes
func (a *App) setupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	apiHandler := api.NewHandler(a.DB, a.Catalog, a.Runner, a.Normalizer, a.Loader, a.Cache, a.Logger)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/classify", apiHandler.Classify)
		v1.GET("/signals/:symbol", apiHandler.GetSignals)
		v1.GET("/indicators/:symbol", apiHandler.GetIndicators)
		v1.POST("/backfill/:symbol", apiHandler.Backfill)
		v1.GET("/catalog", apiHandler.GetCatalog)
		v1.POST("/legacy/translate", apiHandler.TranslateLegacy)
	}

	r.GET("/ws", func(c *gin.Context) {
		a.Gateway.ServeHTTP(c.Writer, c.Request)
	})

	return r
}
