package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/a88883284/iflow-sdk-bridge/pkg/backend"
	"github.com/a88883284/iflow-sdk-bridge/pkg/cli"
	"github.com/a88883284/iflow-sdk-bridge/pkg/config"
	"github.com/a88883284/iflow-sdk-bridge/pkg/logstore"
	"github.com/a88883284/iflow-sdk-bridge/pkg/sanitize"
	"github.com/a88883284/iflow-sdk-bridge/pkg/server"
	"github.com/a88883284/iflow-sdk-bridge/pkg/session"
	"github.com/a88883284/iflow-sdk-bridge/pkg/telemetry/logging"
	"github.com/a88883284/iflow-sdk-bridge/pkg/telemetry/metrics"
	"github.com/a88883284/iflow-sdk-bridge/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	silent        bool
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway server",
	Long: `Start the gateway server with the specified configuration.

The server listens on the configured address and bridges OpenAI- and
Anthropic-compatible chat requests onto the backend CLI session,
pacing every request under the backend's rate ceiling.

Examples:
  # Start with default config
  iflow-bridge run

  # Start with custom config
  iflow-bridge run --config /etc/iflow-bridge/config.yaml

  # Override listen address
  iflow-bridge run --listen 0.0.0.0:8080

  # Suppress pacing and rotation log lines
  iflow-bridge run --silent

  # Validate config without starting the server
  iflow-bridge run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.silent, "silent", false, "suppress pacing and rotation log lines")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.Get()

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if runFlags.silent {
		cfg.Telemetry.Logging.Silent = true
	}

	logSetup, err := logging.New(cfg.Telemetry.Logging, nil)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger := logSetup.Logger

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("iflow-bridge v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	tracer, err := tracing.New(cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("initializing tracing: %w", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	requestMetrics := metrics.NewRequestMetrics(registry)

	manager, err := buildManager(cfg, logSetup, requestMetrics)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	metrics.NewPacingCollector(registry, manager.Stats)

	reporter := session.NewStatsReporter(manager.Stats, "", logSetup.Session)
	if err := reporter.Start(); err != nil {
		return cli.NewCommandError("run", err)
	}
	defer reporter.Stop()

	logs := logstore.New(cfg.Logs.Capacity)

	srv := server.NewServer(cfg, server.Dependencies{
		Service:  manager,
		Logger:   logger,
		Metrics:  requestMetrics,
		Registry: registry,
		Logs:     logs,
		Catalog:  cfg.Models.Catalog,
	})

	ctx := cli.SetupSignalHandler()

	// Hot-reload log level and alias table on config file changes.
	watcher := config.NewWatcher(cfgFile, logger)
	go func() {
		err := watcher.Watch(ctx, func(next *config.Config) {
			if err := config.Replace(next); err != nil {
				logger.Warn("config replace failed", "error", err)
				return
			}
			if err := logSetup.SetLevel(next.Telemetry.Logging.Level); err != nil {
				logger.Warn("log level update failed", "error", err)
			}
			manager.SetAliases(next.Models.Aliases)
		})
		if err != nil {
			logger.Warn("config watcher stopped", "error", err)
		}
	}()

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	err = srv.Start(ctx)

	if derr := manager.Disconnect(); derr != nil {
		logger.Warn("backend disconnect failed", "error", derr)
	}
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}

// buildManager wires the backend client, pacing policy, and output
// filter into a session manager.
func buildManager(cfg *config.Config, logSetup *logging.Setup, rm *metrics.RequestMetrics) (*session.Manager, error) {
	client := backend.NewCLIClient(backend.CLIConfig{
		Command:      cfg.Backend.Command,
		Args:         cfg.Backend.Args,
		DefaultModel: cfg.Backend.DefaultModel,
	}, logSetup.Logger)

	ledger := session.NewLedger(cfg.Pacing.Window)
	policy := session.NewPolicy(session.PacingConfig{
		MaxPerMinute:        cfg.Pacing.MaxPerMinute,
		MinSpacing:          cfg.Pacing.MinSpacing,
		MaxSpacing:          cfg.Pacing.MaxSpacing,
		ExtraDelayMin:       cfg.Pacing.ExtraDelayMin,
		ExtraDelayMax:       cfg.Pacing.ExtraDelayMax,
		RotateAfterRequests: cfg.Pacing.RotateAfterRequests,
		RotateAfterAge:      cfg.Pacing.RotateAfterAge,
		CooldownMin:         cfg.Pacing.CooldownMin,
		CooldownMax:         cfg.Pacing.CooldownMax,
	}, nil)

	var sanitizeFn func(string) string
	if cfg.Sanitize.Enabled {
		rules := make([]sanitize.Rule, 0, len(cfg.Sanitize.Rules))
		for _, r := range cfg.Sanitize.Rules {
			rules = append(rules, sanitize.Rule{Pattern: r.Pattern, Replacement: r.Replacement})
		}
		if len(rules) == 0 {
			rules = sanitize.DefaultRules()
		}
		filter, err := sanitize.New(rules)
		if err != nil {
			return nil, fmt.Errorf("compiling sanitize rules: %w", err)
		}
		sanitizeFn = filter.Apply
	}

	return session.NewManager(client, policy, ledger, session.Config{
		DefaultModel:    cfg.Backend.DefaultModel,
		Aliases:         cfg.Models.Aliases,
		ResponseTimeout: cfg.Backend.ResponseTimeout,
		Sanitize:        sanitizeFn,
		ObserveWait:     rm.ObservePacingWait,
		Logger:          logSetup.Session,
	}), nil
}
