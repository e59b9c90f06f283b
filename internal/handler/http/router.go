package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/catalog-widget/pkg/health"
	"github.com/utafrali/catalog-widget/pkg/middleware"
)

// serviceName labels HTTP metrics and spans.
const serviceName = "catalog-widget"

// RouterConfig holds the host-level settings of the router.
type RouterConfig struct {
	Namespace      string
	CORS           middleware.CORSConfig
	RequestTimeout time.Duration
	// Gatherer serves /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// NewRouter creates a chi router with all widget host routes registered.
func NewRouter(
	widget *WidgetHandler,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger, cfg.Namespace))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Widget endpoints
	r.Route("/api/v1/widget", func(r chi.Router) {
		r.Use(requireJSON)
		r.Use(middleware.NoStore)

		r.Get("/view", widget.GetView)
		r.Post("/events", widget.PostEvent)
		r.Get("/cart", widget.GetCart)
		r.Get("/categories", widget.ListCategories)
		r.Get("/products/{id}", widget.GetProduct)
	})

	return r
}
