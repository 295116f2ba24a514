package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics records outbound API request outcomes.
type RequestMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewRequestMetrics registers the request metrics on the provided registerer.
// A nil registerer yields a no-op collector.
func NewRequestMetrics(reg prometheus.Registerer) *RequestMetrics {
	if reg == nil {
		return &RequestMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_request_duration_seconds",
		Help:    "Duration of outbound API requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "api_requests_total",
		Help: "Outbound API requests by status code.",
	}, []string{"method", "endpoint", "status"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "api_request_failures_total",
		Help: "Outbound API requests that never reached the server.",
	}, []string{"method", "endpoint"})
	reg.MustRegister(duration, requests, failures)
	return &RequestMetrics{
		duration: duration,
		requests: requests,
		failures: failures,
	}
}

// ObserveDuration records the duration of one request.
func (m *RequestMetrics) ObserveDuration(method, endpoint string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(method), normalizeLabel(endpoint)).Observe(duration.Seconds())
}

// IncRequest counts a completed request with its response status.
func (m *RequestMetrics) IncRequest(method, endpoint string, status int) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.WithLabelValues(normalizeLabel(method), normalizeLabel(endpoint), strconv.Itoa(status)).Inc()
}

// IncFailure counts a request that failed at the transport level.
func (m *RequestMetrics) IncFailure(method, endpoint string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(method), normalizeLabel(endpoint)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
