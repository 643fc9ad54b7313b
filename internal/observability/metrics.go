package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "zone_service"

// Metrics holds the Prometheus counters and histograms for correlation and schedule analysis.
type Metrics struct {
	// labels: algorithm, outcome={matched,unmatched,skipped}
	Correlations *prometheus.CounterVec
	// labels: algorithm
	CorrelationDuration *prometheus.HistogramVec
	IndexBuildDuration  *prometheus.HistogramVec

	SchedulesEmitted prometheus.Counter
	// labels: reason={insufficient,low_confidence,invalid}
	SchedulesDropped *prometheus.CounterVec

	// labels: outcome={success,failed,retried,invalid}
	JobsProcessed *prometheus.CounterVec
	JobsReclaimed prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return newMetrics(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	reg := prometheus.NewRegistry()
	return newMetrics(reg, reg)
}

func newMetrics(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		Correlations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "correlations_total",
			Help:      "Address correlations by algorithm and outcome.",
		}, []string{"algorithm", "outcome"}),
		CorrelationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "correlation_duration_seconds",
			Help:      "Duration of a correlation batch, index build included.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"algorithm"}),
		IndexBuildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_build_duration_seconds",
			Help:      "Duration of building a spatial index over the zone collection.",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 1},
		}, []string{"algorithm"}),
		SchedulesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedules_emitted_total",
			Help:      "Cleaning schedules produced by analysis runs.",
		}),
		SchedulesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedules_dropped_total",
			Help:      "Addresses without a schedule and events rejected as invalid, by reason.",
		}, []string{"reason"}),
		JobsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "correlation_jobs_total",
			Help:      "Correlation jobs consumed from the request stream, by outcome.",
		}, []string{"outcome"}),
		JobsReclaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "correlation_jobs_reclaimed_total",
			Help:      "Pending request stream messages claimed for another delivery.",
		}),
		gatherer: gatherer,
	}

	reg.MustRegister(
		m.Correlations,
		m.CorrelationDuration,
		m.IndexBuildDuration,
		m.SchedulesEmitted,
		m.SchedulesDropped,
		m.JobsProcessed,
		m.JobsReclaimed,
	)

	return m
}

// Handler exposes the registry this Metrics was registered with.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
