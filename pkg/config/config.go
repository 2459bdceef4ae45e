package config

import "time"

// Config is the root configuration for the bridge. It covers the HTTP
// server, the backend CLI, pacing, model naming, output filtering, the
// request-log ring, and telemetry.
type Config struct {
	// Server contains HTTP server configuration.
	Server ServerConfig `yaml:"server"`

	// Backend configures the conversational CLI subprocess.
	Backend BackendConfig `yaml:"backend"`

	// Pacing contains every dispatch-pacing and rotation threshold.
	Pacing PacingConfig `yaml:"pacing"`

	// Models configures the alias table and the advertised catalog.
	Models ModelsConfig `yaml:"models"`

	// Sanitize configures the assistant-output filter.
	Sanitize SanitizeConfig `yaml:"sanitize"`

	// Logs configures the in-memory request-log ring.
	Logs LogsConfig `yaml:"logs"`

	// Telemetry contains logging, metrics, and tracing settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "0.0.0.0:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds response writes. Streaming responses can run
	// long, so the default is generous.
	// Default: 10m
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle bound.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes caps inbound request bodies.
	// Default: 10485760 (10MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains Cross-Origin Resource Sharing configuration.
type CORSConfig struct {
	// Enabled turns CORS handling on.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins lists permitted origins. "*" allows any.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// BackendConfig configures the conversational CLI subprocess.
type BackendConfig struct {
	// Command is the executable to spawn.
	// Default: "iflow"
	Command string `yaml:"command"`

	// Args are passed to the executable.
	Args []string `yaml:"args"`

	// DefaultModel is selected when a request names no model.
	DefaultModel string `yaml:"default_model"`

	// ResponseTimeout bounds the wait for one backend response. Zero
	// disables the bound.
	// Default: 5m
	ResponseTimeout time.Duration `yaml:"response_timeout"`
}

// PacingConfig contains dispatch-pacing and session-rotation thresholds.
type PacingConfig struct {
	// Window is the trailing window the per-minute ceiling is measured
	// over.
	// Default: 60s
	Window time.Duration `yaml:"window"`

	// MaxPerMinute caps dispatches per trailing window. Zero disables
	// the ceiling.
	// Default: 25
	MaxPerMinute int `yaml:"max_per_minute"`

	// MinSpacing and MaxSpacing bound the random minimum gap between
	// consecutive dispatches.
	// Defaults: 300ms, 1500ms
	MinSpacing time.Duration `yaml:"min_spacing"`
	MaxSpacing time.Duration `yaml:"max_spacing"`

	// ExtraDelayMin and ExtraDelayMax bound the jitter added to
	// ceiling-forced waits.
	// Defaults: 1s, 5s
	ExtraDelayMin time.Duration `yaml:"extra_delay_min"`
	ExtraDelayMax time.Duration `yaml:"extra_delay_max"`

	// RotateAfterRequests retires a session after this many calls.
	// Default: 50
	RotateAfterRequests int `yaml:"rotate_after_requests"`

	// RotateAfterAge retires a session older than this.
	// Default: 30m
	RotateAfterAge time.Duration `yaml:"rotate_after_age"`

	// CooldownMin and CooldownMax bound the pause between a rotation
	// teardown and the reconnect.
	// Defaults: 2s, 5s
	CooldownMin time.Duration `yaml:"cooldown_min"`
	CooldownMax time.Duration `yaml:"cooldown_max"`
}

// ModelsConfig configures model naming.
type ModelsConfig struct {
	// Aliases maps caller-facing model names to backend models.
	// Unlisted names pass through unchanged.
	Aliases map[string]string `yaml:"aliases"`

	// Catalog lists the model identifiers advertised by the
	// models-list endpoint.
	Catalog []string `yaml:"catalog"`
}

// SanitizeConfig configures the assistant-output filter.
type SanitizeConfig struct {
	// Enabled turns output filtering on.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Rules are applied in order. Empty falls back to the filter's
	// built-in rules.
	Rules []SanitizeRule `yaml:"rules"`
}

// SanitizeRule is one pattern/replacement pair.
type SanitizeRule struct {
	// Pattern is a regular expression matched against assistant text.
	Pattern string `yaml:"pattern"`

	// Replacement substitutes for each match. Empty removes the match.
	Replacement string `yaml:"replacement"`
}

// LogsConfig configures the in-memory request-log ring.
type LogsConfig struct {
	// Capacity is how many entries the ring retains.
	// Default: 100
	Capacity int `yaml:"capacity"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	// Logging contains structured-logging settings.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains structured-logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// Silent suppresses the session manager's informational lines
	// (pacing delays, rotations, stats snapshots).
	// Default: false
	Silent bool `yaml:"silent"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes the metrics endpoint.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled installs the tracer provider with a stdout exporter.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// SampleRate is the fraction of requests traced, in [0, 1].
	// Default: 1.0
	SampleRate float64 `yaml:"sample_rate"`
}
