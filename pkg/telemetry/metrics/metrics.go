// Package metrics exposes the bridge's Prometheus instrumentation.
//
// Metrics:
//   - iflow_bridge_requests_total: request count by endpoint, model, status
//   - iflow_bridge_request_duration_seconds: request duration histogram
//   - iflow_bridge_streams_active: in-flight streaming responses
//   - iflow_bridge_pacing_*: gauges mirroring the session manager's stats
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "iflow"
	subsystem = "bridge"
)

// RequestMetrics tracks inbound request handling.
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	streamsActive   prometheus.Gauge
	pacingWait      prometheus.Histogram
}

// NewRequestMetrics creates and registers the request metrics.
func NewRequestMetrics(registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total number of bridge requests processed",
			},
			[]string{"endpoint", "model", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of bridge requests in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"endpoint"},
		),
		streamsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "streams_active",
				Help:      "Number of in-flight streaming responses",
			},
		),
		pacingWait: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pacing_wait_seconds",
				Help:      "Pacing delay slept before dispatching to the backend",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 90},
			},
		),
	}

	registry.MustRegister(rm.requestsTotal, rm.requestDuration, rm.streamsActive, rm.pacingWait)
	return rm
}

// ObserveRequest records one completed request.
func (rm *RequestMetrics) ObserveRequest(endpoint, model, status string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(endpoint, model, status).Inc()
	rm.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// StreamStarted marks a streaming response as in flight.
func (rm *RequestMetrics) StreamStarted() {
	rm.streamsActive.Inc()
}

// StreamFinished marks a streaming response as done.
func (rm *RequestMetrics) StreamFinished() {
	rm.streamsActive.Dec()
}

// ObservePacingWait records one slept pacing delay.
func (rm *RequestMetrics) ObservePacingWait(delay time.Duration) {
	rm.pacingWait.Observe(delay.Seconds())
}

// Handler returns the scrape endpoint handler for the registry.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
