package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTempConfig writes a config file into a temp dir and returns its path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
upstream:
  endpoint: http://hive-api.local:9100
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "http://hive-api.local:9100", cfg.Upstream.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, 30*time.Second, cfg.Polling.Interval)
	assert.Equal(t, 100, cfg.Polling.EventsLimit)
	assert.Equal(t, 1*time.Hour, cfg.Weight.RobberyWindow)
	assert.Equal(t, 24*time.Hour, cfg.Weight.DailyWindow)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 3, cfg.HTTP.Retry.MaxRetries)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, `
upstream:
  endpoint: http://hive-api.local:9100
  token: secret
  timeout: 5s
polling:
  interval: 10s
  events_limit: 25
logging:
  level: debug
  format: console
`))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Upstream.Token)
	assert.Equal(t, 5*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Polling.Interval)
	assert.Equal(t, 25, cfg.Polling.EventsLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeTempConfig(t, "upstream: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := Load(writeTempConfig(t, `
upstream:
  endpoint: not-a-url
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream.endpoint")
}
