package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/catalog-widget/internal/cart"
	"github.com/utafrali/catalog-widget/internal/catalog"
	"github.com/utafrali/catalog-widget/internal/config"
	"github.com/utafrali/catalog-widget/internal/controller"
	"github.com/utafrali/catalog-widget/internal/domain"
	"github.com/utafrali/catalog-widget/internal/event"
	handler "github.com/utafrali/catalog-widget/internal/handler/http"
	"github.com/utafrali/catalog-widget/internal/metrics"
	"github.com/utafrali/catalog-widget/internal/repository"
	"github.com/utafrali/catalog-widget/internal/repository/memory"
	redisrepo "github.com/utafrali/catalog-widget/internal/repository/redis"
	"github.com/utafrali/catalog-widget/pkg/database"
	"github.com/utafrali/catalog-widget/pkg/health"
	"github.com/utafrali/catalog-widget/pkg/httpclient"
	pkgkafka "github.com/utafrali/catalog-widget/pkg/kafka"
	"github.com/utafrali/catalog-widget/pkg/middleware"
	"github.com/utafrali/catalog-widget/pkg/tracing"
)

const (
	serviceName          = "catalog-widget"
	slowCommandThreshold = 50 * time.Millisecond
)

// App wires together all dependencies and runs the widget host.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	source         catalog.Source
	widget         *handler.WidgetHandler
	handler        http.Handler
	tracerShutdown tracing.ShutdownFunc
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	repo, rdb, err := newStateStore(ctx, cfg, reg, logger)
	if err != nil {
		_ = tracerShutdown(context.Background())
		return nil, err
	}

	// Build the dependency graph.
	store := cart.NewStore(repo, cfg.Namespace, logger, m)
	snapshot := handler.NewSnapshot()

	notifiers := controller.Notifiers{snapshot}
	var producer *pkgkafka.Producer
	if cfg.KafkaEnabled() {
		kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		kafkaCfg.Async = true
		producer = pkgkafka.NewProducer(kafkaCfg, logger)
		notifiers = append(notifiers, event.NewNoticeSink(producer, cfg.NoticeTopic, cfg.Namespace, logger))
		logger.Info("kafka notice sink enabled", slog.Any("brokers", cfg.KafkaBrokers))
	}

	ctrl := controller.New(store, snapshot, notifiers, logger, m, controller.Options{
		Limits: domain.Limits{
			ProductsPerPage: cfg.ProductsPerPage,
			PreviewLimit:    cfg.PreviewLimit,
			SuggestionLimit: cfg.SuggestionLimit,
		},
		RemoveTransition: cfg.RemoveTransition(),
	})
	widget := handler.NewWidgetHandler(ctrl, snapshot, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("catalog", widget.CheckCatalog)
	if rdb != nil {
		healthHandler.RegisterCritical("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", producer.Ping)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(widget, healthHandler, logger, handler.RouterConfig{
		Namespace: cfg.Namespace,
		CORS:      corsCfg,
		Gatherer:  prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		source:         newCatalogSource(cfg, logger),
		widget:         widget,
		handler:        router,
		tracerShutdown: tracerShutdown,
		httpServer:     httpServer,
	}, nil
}

// newStateStore builds the cart backing store selected by CART_STORE. The
// Redis client is returned so the caller can health-check and close it; it is
// nil for the memory store.
func newStateStore(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, logger *slog.Logger) (repository.StateStore, *redis.Client, error) {
	if cfg.CartStore == config.CartStoreMemory {
		logger.Warn("using in-memory cart store, cart will not survive a restart")
		return memory.NewStateStore(), nil, nil
	}

	redisCfg := database.DefaultRedisConfig()
	redisCfg.Addr = cfg.RedisAddr
	redisCfg.Password = cfg.RedisPass
	redisCfg.DB = cfg.RedisDB

	rdb, err := database.NewRedisClient(ctx, redisCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	database.SetSlowCommandLogging(slowCommandThreshold, logger)
	if err := database.RegisterPoolMetrics(reg, rdb, serviceName); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("register redis pool metrics: %w", err)
	}

	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)
	return redisrepo.NewStateStore(rdb, cfg.CartTTLDuration()), rdb, nil
}

// newCatalogSource picks the feed: CATALOG_URL, then CATALOG_FILE, then the
// embedded sample.
func newCatalogSource(cfg *config.Config, logger *slog.Logger) catalog.Source {
	switch {
	case cfg.CatalogURL != "":
		client := httpclient.NewCircuitBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("catalog-feed"),
			logger,
		)
		return catalog.NewHTTPSource(cfg.CatalogURL, client)
	case cfg.CatalogFile != "":
		return catalog.NewFileSource(cfg.CatalogFile)
	default:
		return catalog.SampleSource()
	}
}

// Handler returns the HTTP handler serving the widget host.
func (a *App) Handler() http.Handler {
	return a.handler
}

// LoadCatalog runs the widget's startup step against the configured source.
// A failed load leaves the widget serving an empty catalog; readiness keeps
// reporting it.
func (a *App) LoadCatalog(ctx context.Context) error {
	a.logger.Info("loading catalog", slog.String("source", a.source.Name()))
	if err := a.widget.Load(ctx, a.source); err != nil {
		a.logger.Error("catalog load failed",
			slog.String("source", a.source.Name()),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// Run starts the HTTP server and the catalog load, and blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go func() {
		_ = a.LoadCatalog(ctx)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
