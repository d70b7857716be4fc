package catalog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/prabhakarm7/sn-graph-sub002/metric"
)

// Metrics holds Prometheus metrics for the catalog manager.
type Metrics struct {
	loadsTotal     *prometheus.CounterVec
	loadDuration   prometheus.Histogram
	loadErrors     prometheus.Counter
	mutationsTotal *prometheus.CounterVec
}

// NewMetrics registers catalog metrics. Returns nil if registry is nil.
func NewMetrics(registry *metric.Registry) *Metrics {
	if registry == nil {
		return nil
	}

	m := &Metrics{
		loadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metric.Namespace,
			Subsystem: "catalog",
			Name:      "loads_total",
			Help:      "Catalog loads by origin (cache, source)",
		}, []string{"origin"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metric.Namespace,
			Subsystem: "catalog",
			Name:      "load_duration_seconds",
			Help:      "Catalog source fetch latency",
			Buckets:   prometheus.DefBuckets,
		}),
		loadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metric.Namespace,
			Subsystem: "catalog",
			Name:      "load_errors_total",
			Help:      "Catalog loads that failed outright",
		}),
		mutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metric.Namespace,
			Subsystem: "catalog",
			Name:      "mutations_total",
			Help:      "Administrative mutations by operation and outcome",
		}, []string{"operation", "outcome"}),
	}

	registry.MustRegister("catalog", "loads_total", m.loadsTotal)
	registry.MustRegister("catalog", "load_duration_seconds", m.loadDuration)
	registry.MustRegister("catalog", "load_errors_total", m.loadErrors)
	registry.MustRegister("catalog", "mutations_total", m.mutationsTotal)

	return m
}

// RecordLoad records a catalog load by origin.
func (m *Metrics) RecordLoad(origin string, duration time.Duration) {
	m.loadsTotal.WithLabelValues(origin).Inc()
	if origin == "source" {
		m.loadDuration.Observe(duration.Seconds())
	}
}

// RecordLoadError records a failed load.
func (m *Metrics) RecordLoadError() {
	m.loadErrors.Inc()
}

// RecordMutation records an administrative mutation outcome.
func (m *Metrics) RecordMutation(operation string, ok bool) {
	outcome := "error"
	if ok {
		outcome = "success"
	}
	m.mutationsTotal.WithLabelValues(operation, outcome).Inc()
}
