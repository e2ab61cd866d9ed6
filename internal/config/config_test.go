package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "local", cfg.Scheduler.Mode)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.Timeout)
	assert.Equal(t, 8, cfg.Scheduler.Workers)
	assert.Equal(t, ":50051", cfg.Scheduler.Listen)
	assert.Equal(t, 1000, cfg.Simulator.WaitCeiling)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Zero(t, cfg.Planner.Horizon)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
scheduler:
  mode: grpc
  address: solver:9000
  timeout: 5s
  workers: 2
planner:
  horizon: 700
  include_research: true
simulator:
  wait_ceiling: 250
catalogue:
  path: rich.yaml
logging:
  level: debug
  format: json
metrics:
  textfile: /tmp/planner.prom
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "grpc", cfg.Scheduler.Mode)
	assert.Equal(t, "solver:9000", cfg.Scheduler.Address)
	assert.Equal(t, 5*time.Second, cfg.Scheduler.Timeout)
	assert.Equal(t, 2, cfg.Scheduler.Workers)
	assert.Equal(t, 700, cfg.Planner.Horizon)
	assert.True(t, cfg.Planner.IncludeResearch)
	assert.Equal(t, 250, cfg.Simulator.WaitCeiling)
	assert.Equal(t, "rich.yaml", cfg.Catalogue.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, "/tmp/planner.prom", cfg.Metrics.Textfile)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "simulator:\n  wait_ceiling: 250\n")
	t.Setenv("PLANNER_SIMULATOR_WAIT_CEILING", "40")
	t.Setenv("PLANNER_SCHEDULER_TIMEOUT", "90s")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Simulator.WaitCeiling)
	assert.Equal(t, 90*time.Second, cfg.Scheduler.Timeout)
}

func TestLoadConfig_EnvWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PLANNER_PLANNER_HORIZON", "614")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 614, cfg.Planner.Horizon)
	assert.Equal(t, "local", cfg.Scheduler.Mode)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown mode", "scheduler:\n  mode: quantum\n"},
		{"too many workers", "scheduler:\n  workers: 65\n"},
		{"negative horizon", "planner:\n  horizon: -1\n"},
		{"bad level", "logging:\n  level: verbose\n"},
		{"bad format", "logging:\n  format: xml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "tick", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, 42.0, entry["tick"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	newLogger(LoggingConfig{Level: "debug", Format: "text"}, &buf).Debug("waiting", "action", "BuildMill")
	assert.Contains(t, buf.String(), "action=BuildMill")
}
