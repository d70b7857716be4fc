package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/prabhakarm7/sn-graph-sub002/metric"
)

// apiMetrics holds Prometheus metrics for the HTTP surface. Nil-safe: a nil
// receiver records nothing.
type apiMetrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
}

func newAPIMetrics(registry *metric.Registry) *apiMetrics {
	if registry == nil {
		return nil
	}

	m := &apiMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metric.Namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "HTTP requests by method and status",
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metric.Namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	registry.MustRegister("api", "requests_total", m.requests)
	registry.MustRegister("api", "request_duration_seconds", m.duration)

	return m
}

func (m *apiMetrics) recordRequest(method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.duration.Observe(duration.Seconds())
}
