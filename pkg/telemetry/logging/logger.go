// Package logging sets up the process's structured loggers.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/a88883284/iflow-sdk-bridge/pkg/config"
)

// Setup holds the process loggers and their adjustable levels.
type Setup struct {
	// Logger is the primary logger for handlers and startup code.
	Logger *slog.Logger

	// Session is the logger handed to the session manager. In silent
	// mode its floor is warn, which suppresses the manager's
	// informational pacing and rotation lines.
	Session *slog.Logger

	level        *slog.LevelVar
	sessionLevel *slog.LevelVar
	silent       bool
}

// New builds the loggers from configuration. A nil writer defaults to
// stdout.
func New(cfg config.LoggingConfig, w io.Writer) (*Setup, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stdout
	}

	s := &Setup{
		level:        new(slog.LevelVar),
		sessionLevel: new(slog.LevelVar),
		silent:       cfg.Silent,
	}
	s.level.Set(level)
	s.sessionLevel.Set(sessionFloor(level, cfg.Silent))

	s.Logger = slog.New(newHandler(cfg.Format, w, s.level))
	s.Session = slog.New(newHandler(cfg.Format, w, s.sessionLevel))
	return s, nil
}

// SetLevel adjusts both loggers at runtime. Used by configuration
// reloads.
func (s *Setup) SetLevel(name string) error {
	level, err := parseLevel(name)
	if err != nil {
		return err
	}
	s.level.Set(level)
	s.sessionLevel.Set(sessionFloor(level, s.silent))
	return nil
}

func newHandler(format string, w io.Writer, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// sessionFloor raises the session logger to warn in silent mode without
// ever lowering it below the primary level.
func sessionFloor(level slog.Level, silent bool) slog.Level {
	if silent && level < slog.LevelWarn {
		return slog.LevelWarn
	}
	return level
}

func parseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}
