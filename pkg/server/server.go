// Package server provides the HTTP gateway server for the bridge.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/a88883284/iflow-sdk-bridge/pkg/config"
	"github.com/a88883284/iflow-sdk-bridge/pkg/gateway/handlers"
	"github.com/a88883284/iflow-sdk-bridge/pkg/gateway/middleware"
	"github.com/a88883284/iflow-sdk-bridge/pkg/logstore"
	"github.com/a88883284/iflow-sdk-bridge/pkg/telemetry/metrics"
)

// Dependencies carries the wired components the server routes to.
type Dependencies struct {
	// Service handles chat exchanges against the backend session.
	Service handlers.ChatService
	// Logger receives request and lifecycle logs.
	Logger *slog.Logger
	// Metrics records per-request observations. May be nil.
	Metrics *metrics.RequestMetrics
	// Registry is exposed on the metrics endpoint when enabled. May be nil.
	Registry *prometheus.Registry
	// Logs is the in-memory request log ring. May be nil, in which
	// case the logs endpoint is not registered.
	Logs *logstore.Store
	// Catalog is the model list served on /v1/models.
	Catalog []string
}

// Server is the HTTP gateway server.
type Server struct {
	config       *config.Config
	deps         Dependencies
	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a gateway server from validated configuration.
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	return &Server{
		config: cfg,
		deps:   deps,
	}
}

// Start starts the HTTP server and blocks until the context is
// cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.config.Server.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("starting gateway server",
			"address", s.config.Server.ListenAddress,
			"metrics_enabled", s.config.Telemetry.Metrics.Enabled,
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.deps.Logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server within the configured
// shutdown timeout. Safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.deps.Logger.Info("initiating graceful shutdown",
			"timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.deps.Logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.deps.Logger.Info("gateway server stopped")
	})

	return shutdownErr
}

// Handler returns the configured route table wrapped in the
// middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	chatHandler := handlers.NewChatHandler(
		s.deps.Service, s.deps.Logger, s.deps.Metrics, s.deps.Logs,
		s.config.Server.MaxBodyBytes)
	messagesHandler := handlers.NewMessagesHandler(
		s.deps.Service, s.deps.Logger, s.deps.Metrics, s.deps.Logs,
		s.config.Server.MaxBodyBytes)

	mux.Handle("POST /v1/chat/completions", chatHandler)
	mux.Handle("POST /v1/messages", messagesHandler)
	mux.Handle("GET /v1/models", handlers.NewModelsHandler(s.deps.Catalog))
	mux.Handle("GET /health", handlers.NewHealthHandler(s.deps.Service))
	mux.Handle("GET /stats", handlers.NewStatsHandler(s.deps.Service))
	if s.deps.Logs != nil {
		mux.Handle("GET /logs", handlers.NewLogsHandler(s.deps.Logs))
	}

	if s.config.Telemetry.Metrics.Enabled && s.deps.Registry != nil {
		mux.Handle("GET "+s.config.Telemetry.Metrics.Path, metrics.Handler(s.deps.Registry))
	}

	var handler http.Handler = mux
	handler = middleware.CORS(s.config.Server.CORS)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Logging(s.deps.Logger)(handler)
	handler = middleware.Recovery(s.deps.Logger)(handler)

	return handler
}

// IsRunning reports whether the server is currently serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
