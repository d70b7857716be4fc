package filter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/prabhakarm7/sn-graph-sub002/metric"
)

// Metrics holds Prometheus metrics for the filter engine.
type Metrics struct {
	applyTotal    prometheus.Counter
	applyDuration prometheus.Histogram
	reductionPct  prometheus.Histogram
}

// NewMetrics registers filter engine metrics. Returns nil if registry is nil.
func NewMetrics(registry *metric.Registry) *Metrics {
	if registry == nil {
		return nil
	}

	m := &Metrics{
		applyTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metric.Namespace,
			Subsystem: "filter",
			Name:      "apply_total",
			Help:      "Total filter pipeline runs",
		}),
		applyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metric.Namespace,
			Subsystem: "filter",
			Name:      "apply_duration_seconds",
			Help:      "Filter pipeline latency",
			Buckets:   prometheus.DefBuckets,
		}),
		reductionPct: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metric.Namespace,
			Subsystem: "filter",
			Name:      "node_reduction_ratio",
			Help:      "Share of nodes removed by the pipeline (0 = none, 1 = all)",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}

	registry.MustRegister("filter", "apply_total", m.applyTotal)
	registry.MustRegister("filter", "apply_duration_seconds", m.applyDuration)
	registry.MustRegister("filter", "node_reduction_ratio", m.reductionPct)

	return m
}

// RecordApply records one pipeline run.
func (m *Metrics) RecordApply(duration time.Duration, nodesIn, nodesOut int) {
	m.applyTotal.Inc()
	m.applyDuration.Observe(duration.Seconds())
	if nodesIn > 0 {
		m.reductionPct.Observe(float64(nodesIn-nodesOut) / float64(nodesIn))
	}
}
