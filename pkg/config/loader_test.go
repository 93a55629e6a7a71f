package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludwigkubler/cognitive-os/pkg/config"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Orchestrator.MaxTasksPerTurn)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_ParsesAndExpandsEnv(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	dir := t.TempDir()
	path := filepath.Join(dir, "system.yaml")
	contents := `
database:
  host: localhost
  port: 5432
  user: cognitiveos
  password: ${TEST_DB_PASSWORD}
  database: cognitiveos
orchestrator:
  max_tasks_per_turn: 5
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, 5, cfg.Orchestrator.MaxTasksPerTurn)
	assert.Equal(t, 1, cfg.Orchestrator.DefaultMaxRetries, "unset fields fall back to defaults")
}

func TestValidator_RejectsNonPositiveMaxTasksPerTurn(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Orchestrator.MaxTasksPerTurn = 0
	err := config.NewValidator(cfg).ValidateAll()
	require.Error(t, err)
}

func TestValidator_AllowsEmptyDatabaseHostAsMemstoreMode(t *testing.T) {
	cfg := config.DefaultConfig()
	err := config.NewValidator(cfg).ValidateAll()
	require.NoError(t, err)
}

func TestValidator_RejectsEnabledHTTPWithoutAddr(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.HTTP.Enabled = true
	cfg.HTTP.Addr = ""
	err := config.NewValidator(cfg).ValidateAll()
	require.Error(t, err)
}
