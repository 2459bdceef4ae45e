package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/a88883284/iflow-sdk-bridge/pkg/session"
)

func TestObserveRequest(t *testing.T) {
	registry := prometheus.NewRegistry()
	rm := NewRequestMetrics(registry)

	rm.ObserveRequest("chat_completions", "iflow-chat", "success", 2*time.Second)
	rm.ObserveRequest("chat_completions", "iflow-chat", "success", time.Second)
	rm.ObserveRequest("messages", "iflow-chat", "error", time.Second)

	got := testutil.ToFloat64(rm.requestsTotal.WithLabelValues("chat_completions", "iflow-chat", "success"))
	if got != 2 {
		t.Errorf("requests_total = %v, want 2", got)
	}
	got = testutil.ToFloat64(rm.requestsTotal.WithLabelValues("messages", "iflow-chat", "error"))
	if got != 1 {
		t.Errorf("requests_total(error) = %v, want 1", got)
	}
}

func TestStreamGauge(t *testing.T) {
	registry := prometheus.NewRegistry()
	rm := NewRequestMetrics(registry)

	rm.StreamStarted()
	rm.StreamStarted()
	rm.StreamFinished()

	if got := testutil.ToFloat64(rm.streamsActive); got != 1 {
		t.Errorf("streams_active = %v, want 1", got)
	}
}

func TestObservePacingWait(t *testing.T) {
	registry := prometheus.NewRegistry()
	rm := NewRequestMetrics(registry)

	rm.ObservePacingWait(1500 * time.Millisecond)
	rm.ObservePacingWait(45 * time.Second)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "iflow_bridge_pacing_wait_seconds" {
			if count := mf.GetMetric()[0].GetHistogram().GetSampleCount(); count != 2 {
				t.Errorf("sample count = %d, want 2", count)
			}
			return
		}
	}
	t.Error("pacing_wait_seconds not gathered")
}

func TestPacingCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewPacingCollector(registry, func() session.Stats {
		return session.Stats{
			TotalRequests:      7,
			RequestsLastMinute: 3,
			SessionsCreated:    2,
			SessionAgeSeconds:  41,
		}
	})

	expected := strings.NewReader(`
# HELP iflow_bridge_pacing_requests_total Total dispatches recorded by the session manager
# TYPE iflow_bridge_pacing_requests_total counter
iflow_bridge_pacing_requests_total 7
# HELP iflow_bridge_pacing_requests_last_minute Dispatches in the trailing pacing window
# TYPE iflow_bridge_pacing_requests_last_minute gauge
iflow_bridge_pacing_requests_last_minute 3
# HELP iflow_bridge_pacing_sessions_created_total Backend sessions created since startup
# TYPE iflow_bridge_pacing_sessions_created_total counter
iflow_bridge_pacing_sessions_created_total 2
# HELP iflow_bridge_pacing_session_age_seconds Age of the live backend session, 0 when disconnected
# TYPE iflow_bridge_pacing_session_age_seconds gauge
iflow_bridge_pacing_session_age_seconds 41
`)
	if err := testutil.GatherAndCompare(registry, expected,
		"iflow_bridge_pacing_requests_total",
		"iflow_bridge_pacing_requests_last_minute",
		"iflow_bridge_pacing_sessions_created_total",
		"iflow_bridge_pacing_session_age_seconds",
	); err != nil {
		t.Errorf("GatherAndCompare: %v", err)
	}
}
