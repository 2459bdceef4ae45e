package config

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

// FieldError is a validation error for one configuration field.
type FieldError struct {
	// Field is the dotted path to the field (e.g. "pacing.min_spacing").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every field error found in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate checks the entire configuration and returns a
// ValidationError when any rule fails. All errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateBackend(&cfg.Backend)...)
	errs = append(errs, validatePacing(&cfg.Pacing)...)
	errs = append(errs, validateSanitize(&cfg.Sanitize)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if cfg.Logs.Capacity < 0 {
		errs = append(errs, FieldError{"logs.capacity", "must not be negative"})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{"server.listen_address", "must not be empty"})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{"server.listen_address", fmt.Sprintf("invalid host:port: %v", err)})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{"server.max_body_bytes", "must not be negative"})
	}
	return errs
}

func validateBackend(cfg *BackendConfig) []FieldError {
	var errs []FieldError

	if cfg.Command == "" {
		errs = append(errs, FieldError{"backend.command", "must not be empty"})
	}
	if cfg.ResponseTimeout < 0 {
		errs = append(errs, FieldError{"backend.response_timeout", "must not be negative"})
	}
	return errs
}

func validatePacing(cfg *PacingConfig) []FieldError {
	var errs []FieldError

	if cfg.Window <= 0 {
		errs = append(errs, FieldError{"pacing.window", "must be positive"})
	}
	if cfg.MaxPerMinute < 0 {
		errs = append(errs, FieldError{"pacing.max_per_minute", "must not be negative"})
	}
	if cfg.MinSpacing < 0 || cfg.MaxSpacing < 0 {
		errs = append(errs, FieldError{"pacing.min_spacing", "spacing bounds must not be negative"})
	}
	if cfg.MaxSpacing < cfg.MinSpacing {
		errs = append(errs, FieldError{"pacing.max_spacing", "must not be less than min_spacing"})
	}
	if cfg.ExtraDelayMax < cfg.ExtraDelayMin {
		errs = append(errs, FieldError{"pacing.extra_delay_max", "must not be less than extra_delay_min"})
	}
	if cfg.RotateAfterRequests < 0 {
		errs = append(errs, FieldError{"pacing.rotate_after_requests", "must not be negative"})
	}
	if cfg.RotateAfterAge < 0 {
		errs = append(errs, FieldError{"pacing.rotate_after_age", "must not be negative"})
	}
	if cfg.CooldownMax < cfg.CooldownMin {
		errs = append(errs, FieldError{"pacing.cooldown_max", "must not be less than cooldown_min"})
	}
	return errs
}

func validateSanitize(cfg *SanitizeConfig) []FieldError {
	var errs []FieldError

	for i, rule := range cfg.Rules {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("sanitize.rules[%d].pattern", i),
				Message: fmt.Sprintf("invalid regular expression: %v", err),
			})
		}
	}
	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{"telemetry.logging.level", "must be one of debug, info, warn, error"})
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{"telemetry.logging.format", "must be json or text"})
	}
	if cfg.Tracing.SampleRate < 0 || cfg.Tracing.SampleRate > 1 {
		errs = append(errs, FieldError{"telemetry.tracing.sample_rate", "must be within [0, 1]"})
	}
	return errs
}
