package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "widget"

// Metrics holds the widget's domain collectors.
type Metrics struct {
	CartMutations *prometheus.CounterVec
	CartItems     prometheus.Gauge
	CatalogLoads  *prometheus.CounterVec
	CatalogSize   prometheus.Gauge
	FilterResults prometheus.Histogram
	EventsHandled *prometheus.CounterVec
	NoticesRaised *prometheus.CounterVec
	StorageErrors *prometheus.CounterVec
}

// New registers the widget collectors with reg. Pass prometheus.NewRegistry()
// in tests to keep them isolated.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CartMutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Cart mutations by operation.",
		}, []string{"op"}),
		CartItems: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cart_items",
			Help:      "Total quantity currently in the cart.",
		}),
		CatalogLoads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Catalog loads by result.",
		}, []string{"result"}),
		CatalogSize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_products",
			Help:      "Number of products in the loaded catalog.",
		}),
		FilterResults: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_result_size",
			Help:      "Number of products left after filtering.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64, 128},
		}),
		EventsHandled: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_handled_total",
			Help:      "UI events dispatched to the controller by type.",
		}, []string{"type"}),
		NoticesRaised: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notices_total",
			Help:      "User-visible notices by severity.",
		}, []string{"severity"}),
		StorageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Cart storage failures by operation.",
		}, []string{"op"}),
	}
}
