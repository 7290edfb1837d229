// Package config loads pen-audit configuration from .pen-audit/config.json,
// with environment overrides under the PEN_AUDIT_ prefix.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"penaudit/internal/state"
)

// Config is the complete pen-audit configuration.
type Config struct {
	Version    int    `json:"version" mapstructure:"version"`
	ProjectDir string `json:"projectDir" mapstructure:"projectDir"`

	Scan    ScanConfig    `json:"scan" mapstructure:"scan"`
	Store   StoreConfig   `json:"store" mapstructure:"store"`
	Match   MatchConfig   `json:"match" mapstructure:"match"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ScanConfig controls the detector pipeline.
type ScanConfig struct {
	// Detectors restricts the pipeline to the named detectors; empty runs
	// all of them.
	Detectors []string `json:"detectors" mapstructure:"detectors"`
	// Parallel fans detectors out across goroutines.
	Parallel bool `json:"parallel" mapstructure:"parallel"`
	// KeywordsFile is a TOML overlay extending the built-in pattern tables,
	// relative to the project directory.
	KeywordsFile string `json:"keywordsFile" mapstructure:"keywordsFile"`
}

// StoreConfig selects the state backend.
type StoreConfig struct {
	// Backend is "json" or "sqlite".
	Backend string `json:"backend" mapstructure:"backend"`
}

// MatchConfig controls codebase matching.
type MatchConfig struct {
	// AppDir is the app subdirectory within the codebase ("apps/web" in a
	// monorepo). The framework "app" directory is resolved beneath it.
	AppDir string `json:"appDir" mapstructure:"appDir"`
	// RoutesFile is an optional route manifest consulted before directory
	// discovery.
	RoutesFile string `json:"routesFile" mapstructure:"routesFile"`
}

// LoggingConfig mirrors the logging package's configuration.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version:    1,
		ProjectDir: ".",
		Scan: ScanConfig{
			Detectors:    []string{},
			Parallel:     true,
			KeywordsFile: filepath.Join(state.StateDir, "keywords.toml"),
		},
		Store: StoreConfig{
			Backend: "json",
		},
		Match: MatchConfig{
			AppDir:     "",
			RoutesFile: "routes.json",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load reads .pen-audit/config.json from the project directory. A missing
// file yields the defaults; PEN_AUDIT_* environment variables override both.
func Load(projectDir string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("projectDir", projectDir)
	v.SetDefault("scan.parallel", defaults.Scan.Parallel)
	v.SetDefault("scan.keywordsFile", defaults.Scan.KeywordsFile)
	v.SetDefault("store.backend", defaults.Store.Backend)
	v.SetDefault("match.appDir", defaults.Match.AppDir)
	v.SetDefault("match.routesFile", defaults.Match.RoutesFile)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetEnvPrefix("PEN_AUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectDir, state.StateDir))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.ProjectDir == "" {
		cfg.ProjectDir = projectDir
	}
	return &cfg, nil
}

// Save writes the configuration to .pen-audit/config.json.
func (c *Config) Save(projectDir string) error {
	dir := filepath.Join(projectDir, state.StateDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), append(data, '\n'), 0644)
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	switch c.Store.Backend {
	case "json", "sqlite":
	default:
		return &ConfigError{Field: "store.backend", Message: "must be \"json\" or \"sqlite\""}
	}
	switch c.Logging.Format {
	case "", "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be \"human\" or \"json\""}
	}
	return nil
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
