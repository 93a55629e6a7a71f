package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads path (a system.yaml-shaped file), expands environment
// variables, applies defaults for anything left unset, and validates the
// result. A missing .env file in the working directory is silently ignored — it is a
// convenience for local dev, not a requirement.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("no config file found, using defaults", "path", path)
			return cfg, validate(cfg)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	data = ExpandEnv(data)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills in zero-valued fields left unset by a partial YAML
// file, the same merge-over-defaults pattern the teacher applies to its
// queue and retention configs.
func applyDefaults(cfg *Config) {
	defaults := DefaultOrchestratorConfig()
	if cfg.Orchestrator.MaxTasksPerTurn == 0 {
		cfg.Orchestrator.MaxTasksPerTurn = defaults.MaxTasksPerTurn
	}
	if cfg.Orchestrator.DefaultMaxRetries == 0 {
		cfg.Orchestrator.DefaultMaxRetries = defaults.DefaultMaxRetries
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
}
