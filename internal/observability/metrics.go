package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "temperature_heatmap"

// Metrics holds the Prometheus counters, histograms, and gauges for the heatmap service.
type Metrics struct {
	// Loader metrics.
	RecordsLoaded   prometheus.Counter
	MalformedFields *prometheus.CounterVec // labels: column={max_temperature,min_temperature}
	RowsDropped     prometheus.Counter

	// Snapshot pipeline metrics.
	SnapshotBuilds        *prometheus.CounterVec // labels: outcome={success,error,unchanged}
	SnapshotBuildDuration prometheus.Histogram
	SnapshotMonths        *prometheus.GaugeVec // labels: level
	RefresherRunning      prometheus.Gauge

	// Rendering metrics.
	Renders        *prometheus.CounterVec   // labels: level, mode
	RenderDuration *prometheus.HistogramVec // labels: level
	RenderCache    *prometheus.CounterVec   // labels: result={hit,miss}
	ModeToggles    *prometheus.CounterVec   // labels: level, outcome={changed,noop,invalid}

	// Publisher metrics.
	AggregatesPublished prometheus.Counter
	PublishErrors       prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsLoaded,
		m.MalformedFields,
		m.RowsDropped,
		m.SnapshotBuilds,
		m.SnapshotBuildDuration,
		m.SnapshotMonths,
		m.RefresherRunning,
		m.Renders,
		m.RenderDuration,
		m.RenderCache,
		m.ModeToggles,
		m.AggregatesPublished,
		m.PublishErrors,
	)
	return m
}

// NewUnregisteredMetrics creates Metrics that are never exported. One-shot
// commands use it to drive the same components as the service.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_loaded_total",
			Help:      "Total CSV rows accepted as records.",
		}),
		MalformedFields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_fields_total",
			Help:      "Temperature fields that were empty or unparsable, by column.",
		}, []string{"column"}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "CSV rows dropped because the date could not be parsed.",
		}),
		SnapshotBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_builds_total",
			Help:      "Snapshot build attempts by outcome.",
		}, []string{"outcome"}),
		SnapshotBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_build_duration_seconds",
			Help:      "Duration of a complete load-aggregate-scale cycle.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		SnapshotMonths: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_months",
			Help:      "Month cells in the current snapshot, by level.",
		}, []string{"level"}),
		RefresherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "refresher_running",
			Help:      "1 when the source refresher is active, 0 otherwise.",
		}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Heatmap renders by level and display mode.",
		}, []string{"level", "mode"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time to build and encode one heatmap.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"level"}),
		RenderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_cache_total",
			Help:      "Render cache lookups by result.",
		}, []string{"result"}),
		ModeToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mode_toggles_total",
			Help:      "Display mode selections by level and outcome.",
		}, []string{"level", "outcome"}),
		AggregatesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregates_published_total",
			Help:      "Month aggregates written to the aggregate topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed attempts to publish a snapshot's aggregates.",
		}),
	}
}
