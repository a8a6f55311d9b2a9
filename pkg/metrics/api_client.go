package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// APIClientMetrics records calls made to the remote Kermes REST API.
type APIClientMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewAPIClientMetrics registers the outbound API metrics on the provided registerer.
func NewAPIClientMetrics(reg prometheus.Registerer) *APIClientMetrics {
	if reg == nil {
		return &APIClientMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kermes_api_request_duration_seconds",
		Help:    "Duration of requests to the Kermes REST API in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource", "method"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kermes_api_requests_total",
		Help: "Requests sent to the Kermes REST API by response status.",
	}, []string{"resource", "method", "status"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kermes_api_requests_rejected_total",
		Help: "Requests aborted before sending, by reason.",
	}, []string{"reason"})
	reg.MustRegister(duration, requests, rejected)
	return &APIClientMetrics{
		duration: duration,
		requests: requests,
		rejected: rejected,
	}
}

// Observe records one completed round trip. status 0 means transport failure.
func (m *APIClientMetrics) Observe(resource, method string, status int, elapsed time.Duration) {
	if m == nil || m.duration == nil || m.requests == nil {
		return
	}
	resource = normalizeLabel(resource)
	method = normalizeLabel(method)
	m.duration.WithLabelValues(resource, method).Observe(elapsed.Seconds())
	m.requests.WithLabelValues(resource, method, statusLabel(status)).Inc()
}

// IncRejected counts a request that never left the panel (missing token, rate limiter).
func (m *APIClientMetrics) IncRejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

func statusLabel(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status)
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
