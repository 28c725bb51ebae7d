package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
remote:
  base_url: "http://dashboard.internal"
cache:
  redis:
    address: "localhost:6379"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.ListenAddress)
	assert.Equal(t, 30000, cfg.Remote.Timeout)
	assert.Equal(t, 300000, cfg.Cache.TTL)
	assert.Equal(t, 3, cfg.Fetcher.BatchSize)
	assert.Equal(t, 300, cfg.Fetcher.BatchDelay)
	assert.Equal(t, "2025-10-01", cfg.Revenue.TierDate)
	assert.Equal(t, 10, cfg.Revenue.TierThreshold)
	assert.Equal(t, 200, cfg.Revenue.BaseSalaryRate)
	assert.Equal(t, 300, cfg.Revenue.TierSalaryRate)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_ExplicitValuesWin(t *testing.T) {
	path := writeConfigFile(t, `
remote:
  base_url: "http://dashboard.internal"
  timeout: 5000
cache:
  redis:
    address: "localhost:6379"
  ttl: 60000
fetcher:
  batch_size: 5
  batch_delay: 100
revenue:
  tier_date: "2026-01-01"
  tier_requires_date_gate: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Remote.Timeout)
	assert.Equal(t, 60000, cfg.Cache.TTL)
	assert.Equal(t, 5, cfg.Fetcher.BatchSize)
	assert.Equal(t, 100, cfg.Fetcher.BatchDelay)
	assert.Equal(t, "2026-01-01", cfg.Revenue.TierDate)
	assert.True(t, cfg.Revenue.TierRequiresDateGate)
}

func TestLoadFromFile_SecretFromEnvironment(t *testing.T) {
	t.Setenv("REMOTE_SESSION_TOKEN", "env-token")

	path := writeConfigFile(t, `
remote:
  base_url: "http://dashboard.internal"
cache:
  redis:
    address: "localhost:6379"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Remote.SessionToken)
}

func TestLoadFromFile_RequiresRemoteBaseURL(t *testing.T) {
	path := writeConfigFile(t, `
cache:
  redis:
    address: "localhost:6379"
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote.base_url")
}

func TestLoadFromFile_RejectsBadTierDate(t *testing.T) {
	path := writeConfigFile(t, `
remote:
  base_url: "http://dashboard.internal"
cache:
  redis:
    address: "localhost:6379"
revenue:
  tier_date: "October 1st"
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tier_date")
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, "300ms", GetDuration(300).String())
	assert.Equal(t, "5m0s", GetDuration(300000).String())
}
