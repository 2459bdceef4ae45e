package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file, applies defaults, and
// validates the result. Environment variables are not consulted; use
// LoadWithEnvOverrides for that.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWithEnvOverrides loads configuration from a YAML file and applies
// IFLOW_BRIDGE_* environment overrides on top. When the file does not
// exist the defaults alone are used, so the bridge runs with no
// configuration file at all.
//
// The sequence is: file, defaults, environment, validation.
func LoadWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg = &Config{}
		ApplyDefaults(cfg)
	} else {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies IFLOW_BRIDGE_* environment variables. They
// always take precedence over file values.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("IFLOW_BRIDGE_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("IFLOW_BRIDGE_PORT"); val != "" {
		if _, err := strconv.Atoi(val); err == nil {
			host, _, err := net.SplitHostPort(cfg.Server.ListenAddress)
			if err != nil || host == "" {
				host = "0.0.0.0"
			}
			cfg.Server.ListenAddress = net.JoinHostPort(host, val)
		}
	}
	if val := os.Getenv("IFLOW_BRIDGE_SILENT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Logging.Silent = b
		}
	}
	if val := os.Getenv("IFLOW_BRIDGE_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("IFLOW_BRIDGE_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("IFLOW_BRIDGE_BACKEND_COMMAND"); val != "" {
		cfg.Backend.Command = val
	}
	if val := os.Getenv("IFLOW_BRIDGE_DEFAULT_MODEL"); val != "" {
		cfg.Backend.DefaultModel = val
	}
	if val := os.Getenv("IFLOW_BRIDGE_RESPONSE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Backend.ResponseTimeout = d
		}
	}
	if val := os.Getenv("IFLOW_BRIDGE_MAX_PER_MINUTE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Pacing.MaxPerMinute = i
		}
	}
	if val := os.Getenv("IFLOW_BRIDGE_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("IFLOW_BRIDGE_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
}
