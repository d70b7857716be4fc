package snapshot

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/prabhakarm7/sn-graph-sub002/metric"
)

// Metrics holds Prometheus metrics for the snapshot store.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
	snapshotNodes   prometheus.Histogram
	errorsTotal     *prometheus.CounterVec
}

// NewMetrics registers snapshot store metrics. Returns nil if registry is nil.
func NewMetrics(registry *metric.Registry) *Metrics {
	if registry == nil {
		return nil
	}

	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metric.Namespace,
			Subsystem: "snapshot",
			Name:      "requests_total",
			Help:      "Snapshot requests by cache result (hit, miss, multi)",
		}, []string{"result"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metric.Namespace,
			Subsystem: "snapshot",
			Name:      "request_duration_seconds",
			Help:      "Snapshot request latency",
			Buckets:   prometheus.DefBuckets,
		}),
		snapshotNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metric.Namespace,
			Subsystem: "snapshot",
			Name:      "nodes",
			Help:      "Node count per returned snapshot",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
		}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metric.Namespace,
			Subsystem: "snapshot",
			Name:      "errors_total",
			Help:      "Snapshot store errors by operation",
		}, []string{"operation"}),
	}

	registry.MustRegister("snapshot", "requests_total", m.requestsTotal)
	registry.MustRegister("snapshot", "request_duration_seconds", m.requestDuration)
	registry.MustRegister("snapshot", "nodes", m.snapshotNodes)
	registry.MustRegister("snapshot", "errors_total", m.errorsTotal)

	return m
}

// RecordRequest records one snapshot request.
func (m *Metrics) RecordRequest(result string, duration time.Duration, nodes int) {
	m.requestsTotal.WithLabelValues(result).Inc()
	m.requestDuration.Observe(duration.Seconds())
	m.snapshotNodes.Observe(float64(nodes))
}

// RecordError records a store failure.
func (m *Metrics) RecordError(operation string) {
	m.errorsTotal.WithLabelValues(operation).Inc()
}
