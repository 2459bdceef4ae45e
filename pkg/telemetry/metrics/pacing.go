package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/a88883284/iflow-sdk-bridge/pkg/session"
)

// PacingCollector exposes the session manager's stats as metrics. It
// reads a fresh snapshot on every scrape instead of maintaining
// counters of its own, so the scrape and the stats endpoint always
// agree.
type PacingCollector struct {
	stats func() session.Stats

	totalRequests      *prometheus.Desc
	requestsLastMinute *prometheus.Desc
	sessionsCreated    *prometheus.Desc
	sessionAge         *prometheus.Desc
}

// NewPacingCollector creates and registers the collector. The stats
// function is called once per scrape.
func NewPacingCollector(registry *prometheus.Registry, stats func() session.Stats) *PacingCollector {
	c := &PacingCollector{
		stats: stats,
		totalRequests: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "pacing_requests_total"),
			"Total dispatches recorded by the session manager", nil, nil,
		),
		requestsLastMinute: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "pacing_requests_last_minute"),
			"Dispatches in the trailing pacing window", nil, nil,
		),
		sessionsCreated: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "pacing_sessions_created_total"),
			"Backend sessions created since startup", nil, nil,
		),
		sessionAge: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "pacing_session_age_seconds"),
			"Age of the live backend session, 0 when disconnected", nil, nil,
		),
	}
	registry.MustRegister(c)
	return c
}

// Describe implements prometheus.Collector.
func (c *PacingCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalRequests
	ch <- c.requestsLastMinute
	ch <- c.sessionsCreated
	ch <- c.sessionAge
}

// Collect implements prometheus.Collector.
func (c *PacingCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.totalRequests, prometheus.CounterValue, float64(s.TotalRequests))
	ch <- prometheus.MustNewConstMetric(c.requestsLastMinute, prometheus.GaugeValue, float64(s.RequestsLastMinute))
	ch <- prometheus.MustNewConstMetric(c.sessionsCreated, prometheus.CounterValue, float64(s.SessionsCreated))
	ch <- prometheus.MustNewConstMetric(c.sessionAge, prometheus.GaugeValue, float64(s.SessionAgeSeconds))
}
