package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/a88883284/iflow-sdk-bridge/pkg/config"
	"github.com/a88883284/iflow-sdk-bridge/pkg/logstore"
	"github.com/a88883284/iflow-sdk-bridge/pkg/session"
)

type stubService struct {
	text string
}

func (s *stubService) Chat(ctx context.Context, req session.Request) (string, error) {
	return s.text, nil
}

func (s *stubService) ChatStream(ctx context.Context, req session.Request) (<-chan session.Chunk, error) {
	out := make(chan session.Chunk)
	close(out)
	return out, nil
}

func (s *stubService) ResolveModel(name string) string { return name }
func (s *stubService) Stats() session.Stats            { return session.Stats{} }
func (s *stubService) Connected() bool                 { return false }

func testServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	if mutate != nil {
		mutate(cfg)
	}
	return NewServer(cfg, Dependencies{
		Service:  &stubService{text: "ok"},
		Logger:   slog.New(slog.DiscardHandler),
		Registry: prometheus.NewRegistry(),
		Logs:     logstore.New(10),
		Catalog:  cfg.Models.Catalog,
	})
}

func TestRoutes(t *testing.T) {
	handler := testServer(t, nil).Handler()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"chat completions", http.MethodPost, "/v1/chat/completions",
			`{"model":"m","messages":[{"role":"user","content":"hi"}]}`, http.StatusOK},
		{"messages", http.MethodPost, "/v1/messages",
			`{"model":"m","max_tokens":10,"messages":[{"role":"user","content":"hi"}]}`, http.StatusOK},
		{"models", http.MethodGet, "/v1/models", "", http.StatusOK},
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"stats", http.MethodGet, "/stats", "", http.StatusOK},
		{"logs", http.MethodGet, "/logs", "", http.StatusOK},
		{"wrong method", http.MethodGet, "/v1/chat/completions", "", http.StatusMethodNotAllowed},
		{"unknown path", http.MethodGet, "/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body *strings.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			} else {
				body = strings.NewReader("")
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, body))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestLogsRouteAbsentWithoutStore(t *testing.T) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	handler := NewServer(cfg, Dependencies{
		Service: &stubService{text: "ok"},
		Logger:  slog.New(slog.DiscardHandler),
	}).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logs", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("logs status without store = %d, want 404", rec.Code)
	}
}

func TestRequestIDHeaderAssigned(t *testing.T) {
	handler := testServer(t, nil).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected generated request ID header")
	}
}

func TestMetricsRoute(t *testing.T) {
	enabled := testServer(t, func(cfg *config.Config) {
		cfg.Telemetry.Metrics.Enabled = true
	}).Handler()

	rec := httptest.NewRecorder()
	enabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("enabled metrics status = %d", rec.Code)
	}

	disabled := testServer(t, func(cfg *config.Config) {
		cfg.Telemetry.Metrics.Enabled = false
	}).Handler()

	rec = httptest.NewRecorder()
	disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("disabled metrics status = %d, want 404", rec.Code)
	}
}

func TestStartAndShutdown(t *testing.T) {
	srv := testServer(t, func(cfg *config.Config) {
		cfg.Server.ListenAddress = "127.0.0.1:0"
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Start returned %v after cancel", err)
	}
	if srv.IsRunning() {
		t.Error("server still reports running after shutdown")
	}
}
