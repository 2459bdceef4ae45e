// Package server provides the HTTP gateway server for the bridge.
//
// This package ties together the gateway components (handlers, middleware,
// telemetry) and provides server lifecycle management including start and
// graceful shutdown.
//
// # Routes
//
// The server exposes the following HTTP endpoints:
//
//   - POST /v1/chat/completions - OpenAI-compatible chat (streaming and non-streaming)
//   - POST /v1/messages - Anthropic-compatible messages (streaming and non-streaming)
//   - GET /v1/models - Model catalog
//   - GET /health - Liveness probe
//   - GET /stats - Pacing and session statistics
//   - GET /logs - Recent request log entries
//   - GET /metrics - Prometheus exposition (when enabled)
//
// # Middleware Chain
//
// Requests pass through the following middleware (innermost to outermost):
//  1. CORS: Adds Cross-Origin Resource Sharing headers
//  2. RequestID: Generates a unique request ID for tracing
//  3. Logging: Logs request/response details
//  4. Recovery: Recovers from panics and returns a 500 error
//
// # Graceful Shutdown
//
// Start blocks until its context is cancelled, then drains in-flight
// requests up to the configured shutdown timeout:
//
//	srv := server.NewServer(cfg, deps)
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// All server operations are thread-safe and can be called concurrently from
// multiple goroutines.
package server
