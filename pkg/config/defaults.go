package config

import "time"

// Default values applied to unset fields.
const (
	DefaultListenAddress   = "0.0.0.0:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 10 * time.Minute
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxBodyBytes    = 10 * 1024 * 1024

	DefaultBackendCommand  = "iflow"
	DefaultResponseTimeout = 5 * time.Minute

	DefaultPacingWindow        = time.Minute
	DefaultMaxPerMinute        = 25
	DefaultMinSpacing          = 300 * time.Millisecond
	DefaultMaxSpacing          = 1500 * time.Millisecond
	DefaultExtraDelayMin       = time.Second
	DefaultExtraDelayMax       = 5 * time.Second
	DefaultRotateAfterRequests = 50
	DefaultRotateAfterAge      = 30 * time.Minute
	DefaultCooldownMin         = 2 * time.Second
	DefaultCooldownMax         = 5 * time.Second

	DefaultLogCapacity = 100

	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultMetricsPath = "/metrics"
)

// DefaultCatalog is the advertised model list when the file names none.
var DefaultCatalog = []string{
	"iflow-chat",
	"gpt-4o",
	"gpt-4o-mini",
	"claude-sonnet-4-20250514",
}

// DefaultAliases maps common caller-facing names onto the backend's
// single conversational model.
var DefaultAliases = map[string]string{
	"gpt-4o":                   "iflow-chat",
	"gpt-4o-mini":              "iflow-chat",
	"claude-sonnet-4-20250514": "iflow-chat",
}

// ApplyDefaults fills unset fields with default values. It mutates cfg
// in place and never overrides an explicitly set value.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Server.CORS.AllowedOrigins == nil {
		cfg.Server.CORS.Enabled = true
		cfg.Server.CORS.AllowedOrigins = []string{"*"}
	}

	if cfg.Backend.Command == "" {
		cfg.Backend.Command = DefaultBackendCommand
	}
	if cfg.Backend.ResponseTimeout == 0 {
		cfg.Backend.ResponseTimeout = DefaultResponseTimeout
	}

	applyPacingDefaults(&cfg.Pacing)

	if cfg.Models.Aliases == nil {
		cfg.Models.Aliases = DefaultAliases
	}
	if cfg.Models.Catalog == nil {
		cfg.Models.Catalog = DefaultCatalog
	}

	if cfg.Sanitize.Rules == nil {
		cfg.Sanitize.Enabled = true
	}

	if cfg.Logs.Capacity == 0 {
		cfg.Logs.Capacity = DefaultLogCapacity
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Enabled = true
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Tracing.SampleRate == 0 {
		cfg.Telemetry.Tracing.SampleRate = 1.0
	}
}

func applyPacingDefaults(p *PacingConfig) {
	if p.Window == 0 {
		p.Window = DefaultPacingWindow
	}
	if p.MaxPerMinute == 0 {
		p.MaxPerMinute = DefaultMaxPerMinute
	}
	if p.MinSpacing == 0 {
		p.MinSpacing = DefaultMinSpacing
	}
	if p.MaxSpacing == 0 {
		p.MaxSpacing = DefaultMaxSpacing
	}
	if p.ExtraDelayMin == 0 {
		p.ExtraDelayMin = DefaultExtraDelayMin
	}
	if p.ExtraDelayMax == 0 {
		p.ExtraDelayMax = DefaultExtraDelayMax
	}
	if p.RotateAfterRequests == 0 {
		p.RotateAfterRequests = DefaultRotateAfterRequests
	}
	if p.RotateAfterAge == 0 {
		p.RotateAfterAge = DefaultRotateAfterAge
	}
	if p.CooldownMin == 0 {
		p.CooldownMin = DefaultCooldownMin
	}
	if p.CooldownMax == 0 {
		p.CooldownMax = DefaultCooldownMax
	}
}
