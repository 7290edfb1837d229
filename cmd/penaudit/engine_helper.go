package main

import (
	"context"
	"fmt"
	"os"

	"penaudit/internal/config"
	"penaudit/internal/detect"
	"penaudit/internal/logging"
	"penaudit/internal/scan"
	"penaudit/internal/state"
)

// loadConfig reads the project configuration, falling back to defaults when
// the project has never been initialized.
func loadConfig() *config.Config {
	cfg, err := config.Load(projectFlag)
	if err != nil {
		logging.NewLogger(logging.Config{Format: logging.HumanFormat, Level: logging.WarnLevel}).
			Warn("Failed to load config, using defaults", map[string]interface{}{
				"error": err.Error(),
			})
		cfg = config.DefaultConfig()
		cfg.ProjectDir = projectFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger builds the command logger. JSON output forces JSON logs so the
// two streams stay machine-readable together.
func newLogger(cfg *config.Config, outputFormat string) *logging.Logger {
	format := logging.Format(cfg.Logging.Format)
	if outputFormat == "json" {
		format = logging.JSONFormat
	}
	level := logging.LogLevel(cfg.Logging.Level)
	if verboseFlag {
		level = logging.DebugLevel
	}
	return logging.NewLogger(logging.Config{Format: format, Level: level})
}

// newStore opens the configured state backend.
func newStore(cfg *config.Config, logger *logging.Logger) (state.Store, error) {
	switch cfg.Store.Backend {
	case "sqlite":
		return state.OpenSQLite(cfg.ProjectDir, logger)
	default:
		return state.NewFileStore(cfg.ProjectDir, logger), nil
	}
}

// newEngine wires the configured detector pipeline to the state store.
func newEngine(cfg *config.Config, logger *logging.Logger) (*scan.Engine, state.Store, error) {
	kw, err := config.LoadKeywords(cfg.ProjectDir, cfg.Scan.KeywordsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load keyword overlay: %w", err)
	}

	detectors := detect.DefaultDetectors(kw)
	if len(cfg.Scan.Detectors) > 0 {
		detectors = detect.Select(detectors, cfg.Scan.Detectors)
	}
	pipeline := detect.NewPipeline(detectors, logger, cfg.Scan.Parallel)

	store, err := newStore(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open state store: %w", err)
	}
	return scan.NewEngine(store, pipeline, logger), store, nil
}

// mustGetEngine builds the engine or exits. The caller closes the returned
// store.
func mustGetEngine(cfg *config.Config, logger *logging.Logger) (*scan.Engine, state.Store) {
	engine, store, err := newEngine(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return engine, store
}

// newContext creates a new context for command execution.
func newContext() context.Context {
	return context.Background()
}
