package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://api.zoominfo.com", cfg.ZoomInfo.BaseURL)
	assert.Equal(t, 30, cfg.ZoomInfo.TimeoutSecs)
	assert.Equal(t, 90, cfg.Clay.TimeoutSecs)
	assert.Equal(t, 3, cfg.Clay.PollIntervalSecs)
	assert.Equal(t, 31, cfg.Clay.MaxPolls)
	assert.Equal(t, 100, cfg.Clay.GatewayCeilingSecs)
	assert.False(t, cfg.OpenAI.Enabled)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 8000, cfg.OpenAI.MaxChars)
	assert.Equal(t, 150, cfg.OpenAI.MaxTokens)
	assert.InDelta(t, 3.0, cfg.Extract.FontWeight, 0.001)
	assert.InDelta(t, 200.0, cfg.Extract.HeaderBonus, 0.001)
	assert.Equal(t, 20, cfg.Extract.AncestorScan)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/leadfinder
zoominfo:
  username: alice@example.com
  password: hunter2
clay:
  webhook_url: https://example.app.n8n.cloud/webhook/abc
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/leadfinder", cfg.Store.DatabaseURL)
	assert.Equal(t, "alice@example.com", cfg.ZoomInfo.Username)
	assert.Equal(t, "https://example.app.n8n.cloud/webhook/abc", cfg.Clay.WebhookURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset keys.
	assert.Equal(t, 90, cfg.Clay.TimeoutSecs)
}

func TestValidatePollWindow(t *testing.T) {
	cfg := &Config{Clay: ClayConfig{
		TimeoutSecs:        90,
		PollIntervalSecs:   5,
		MaxPolls:           31,
		GatewayCeilingSecs: 100,
	}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll window")
}

func TestValidateTimeoutCeiling(t *testing.T) {
	cfg := &Config{Clay: ClayConfig{
		TimeoutSecs:        120,
		PollIntervalSecs:   3,
		MaxPolls:           31,
		GatewayCeilingSecs: 100,
	}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway ceiling")
}
