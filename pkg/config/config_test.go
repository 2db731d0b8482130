package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "wss://pumpportal.fun/api/data", cfg.PumpPortal.WebSocketURL)
	assert.Equal(t, 300*time.Second, cfg.Pipeline.DedupWindow)
	assert.Equal(t, 70.0, cfg.Scoring.Thresholds.Primary)
	assert.Equal(t, 85.0, cfg.Scoring.Thresholds.Secondary)
	assert.Equal(t, 95.0, cfg.Scoring.Thresholds.Urgent)
	assert.Equal(t, 30, cfg.Pipeline.MintMinLen)
	assert.Equal(t, 50, cfg.Pipeline.MintMaxLen)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
pipeline:
  workers: 8
  dedup_window: 10m
scoring:
  social_required: true
  thresholds:
    primary: 60
    secondary: 80
    urgent: 90
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.Equal(t, 10*time.Minute, cfg.Pipeline.DedupWindow)
	assert.True(t, cfg.Scoring.SocialRequired)
	assert.Equal(t, 60.0, cfg.Scoring.Thresholds.Primary)

	// untouched sections keep defaults
	assert.Equal(t, 6379, cfg.Redis.Port)
}

func TestLoadWithEnv_EnvWins(t *testing.T) {
	t.Setenv("PUMP_WS_URL", "wss://example.test/feed")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.test/T0/B0/x")

	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "wss://example.test/feed", cfg.PumpPortal.WebSocketURL)
	assert.Equal(t, "redis.internal", cfg.Redis.Host)
	assert.Equal(t, "https://hooks.slack.test/T0/B0/x", cfg.Alerts.Slack.WebhookURL)
}

func TestValidate_RejectsBadThresholds(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	cfg.Scoring.Thresholds.Primary = 90
	cfg.Scoring.Thresholds.Secondary = 80
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsBadMintBounds(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	cfg.Pipeline.MintMinLen = 50
	cfg.Pipeline.MintMaxLen = 30
	assert.Error(t, cfg.Validate())
}
