package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	RowsLoaded   prometheus.Counter
	RowsDropped  prometheus.Counter
	DatasetLoads *prometheus.CounterVec // labels: outcome={success,error}
	DatasetCache *prometheus.CounterVec // labels: result={hit,miss}
	DatasetRows  prometheus.Gauge

	// Render metrics.
	RenderDuration *prometheus.HistogramVec // labels: view={page,points,hexagons,minutes,top_streets,raw}
	RenderErrors   prometheus.Counter

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge

	// Export metrics.
	RecordsExported prometheus.Counter
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsLoaded,
		m.RowsDropped,
		m.DatasetLoads,
		m.DatasetCache,
		m.DatasetRows,
		m.RenderDuration,
		m.RenderErrors,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
		m.RecordsExported,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nyc_collisions",
			Name:      "rows_loaded_total",
			Help:      "Total collision rows kept after coordinate cleaning.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nyc_collisions",
			Name:      "rows_dropped_total",
			Help:      "Total collision rows discarded for missing latitude or longitude.",
		}),
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nyc_collisions",
			Name:      "dataset_loads_total",
			Help:      "Dataset file reads by outcome.",
		}, []string{"outcome"}),
		DatasetCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nyc_collisions",
			Name:      "dataset_cache_total",
			Help:      "Dataset cache lookups by result.",
		}, []string{"result"}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nyc_collisions",
			Name:      "dataset_rows",
			Help:      "Rows in the most recently loaded dataset.",
		}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nyc_collisions",
			Name:      "render_duration_seconds",
			Help:      "Duration of one render of the dashboard views.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"view"}),
		RenderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nyc_collisions",
			Name:      "render_errors_total",
			Help:      "Total renders that failed to load the dataset.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nyc_collisions",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nyc_collisions",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nyc_collisions",
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nyc_collisions",
			Name:      "geocode_enabled",
			Help:      "1 when midpoint place labeling is enabled, 0 otherwise.",
		}),
		RecordsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nyc_collisions",
			Name:      "records_exported_total",
			Help:      "Total collision records published to Kafka.",
		}),
	}
}
