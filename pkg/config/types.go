// Package config loads and validates system.yaml plus the process
// environment into a ready-to-use Config, the same two-source (YAML +
// env-expansion) shape the teacher uses for tarsy.yaml
// (pkg/config/loader.go), scaled down to this system's smaller surface.
package config

import "time"

// DatabaseConfig holds connection parameters for the durable store. An
// empty Host means "run with the in-memory store" — the reference CLI's
// offline mode.
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxConns        int32         `yaml:"max_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
}

// LLMConfig selects and configures the language-model provider.
type LLMConfig struct {
	ProviderURL string `yaml:"provider_url"` // empty => EchoProvider
	AuthEnv     string `yaml:"auth_env"`     // env var holding the bearer token
	Model       string `yaml:"model"`
	MaxTokens   int    `yaml:"max_tokens"`
}

// OrchestratorConfig tunes the per-turn dispatch loop.
type OrchestratorConfig struct {
	MaxTasksPerTurn int `yaml:"max_tasks_per_turn"`
	DefaultMaxRetries int `yaml:"default_max_retries"`
}

// HTTPConfig configures the optional gin status/health surface.
type HTTPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Config is the fully resolved, validated configuration for a single
// process.
type Config struct {
	Database     DatabaseConfig     `yaml:"database"`
	LLM          LLMConfig          `yaml:"llm"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`
	HTTP         HTTPConfig         `yaml:"http"`
	LogLevel     string             `yaml:"log_level"`
}

// DefaultOrchestratorConfig returns the spec-mandated defaults.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		MaxTasksPerTurn:   10,
		DefaultMaxRetries: 1,
	}
}

// DefaultConfig returns a Config usable with zero external setup: no
// database (falls back to memstore), echo LLM provider, HTTP surface
// disabled.
func DefaultConfig() *Config {
	return &Config{
		Orchestrator: DefaultOrchestratorConfig(),
		HTTP:         HTTPConfig{Enabled: false, Addr: ":8080"},
		LogLevel:     "info",
	}
}
