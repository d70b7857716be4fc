package executor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/prabhakarm7/sn-graph-sub002/catalog"
	"github.com/prabhakarm7/sn-graph-sub002/metric"
)

// execMetrics holds Prometheus metrics for query execution. Nil-safe: a nil
// receiver records nothing.
type execMetrics struct {
	executions *prometheus.CounterVec
	failures   *prometheus.CounterVec
	duration   prometheus.Histogram
	modeSwitch prometheus.Counter
}

func newExecMetrics(registry *metric.Registry) *execMetrics {
	if registry == nil {
		return nil
	}

	m := &execMetrics{
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metric.Namespace,
			Subsystem: "executor",
			Name:      "executions_total",
			Help:      "Completed query executions by mode",
		}, []string{"mode"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metric.Namespace,
			Subsystem: "executor",
			Name:      "failures_total",
			Help:      "Failed query executions by stage",
		}, []string{"stage"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metric.Namespace,
			Subsystem: "executor",
			Name:      "execution_duration_seconds",
			Help:      "End-to-end execution latency",
			Buckets:   prometheus.DefBuckets,
		}),
		modeSwitch: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metric.Namespace,
			Subsystem: "executor",
			Name:      "mode_switch_failures_total",
			Help:      "Best-effort mode switches that failed",
		}),
	}

	registry.MustRegister("executor", "executions_total", m.executions)
	registry.MustRegister("executor", "failures_total", m.failures)
	registry.MustRegister("executor", "execution_duration_seconds", m.duration)
	registry.MustRegister("executor", "mode_switch_failures_total", m.modeSwitch)

	return m
}

func (m *execMetrics) recordExecution(mode catalog.Mode, duration time.Duration) {
	if m == nil {
		return
	}
	m.executions.WithLabelValues(string(mode)).Inc()
	m.duration.Observe(duration.Seconds())
}

func (m *execMetrics) recordFailure(stage string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(stage).Inc()
}

func (m *execMetrics) recordModeSwitchFailure() {
	if m == nil {
		return
	}
	m.modeSwitch.Inc()
}
