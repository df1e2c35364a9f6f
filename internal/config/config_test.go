package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	c, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "memory", c.Cache.Kind)
	assert.Equal(t, "smartbin", c.Storage.Mongo.Database)
	assert.Equal(t, "1h", c.DualWrite.PendingTTL)
	assert.Equal(t, 1, c.DualWrite.IDRetries)
	assert.Equal(t, 120, c.RateLimit.Max)
	assert.Equal(t, time.Hour, c.PendingTTL())
}

func TestLoadReadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  addr: ":9090"
  cors_allowed_origins: ["https://panel.example.com"]
cache:
  kind: redis
  redis:
    addr: "localhost:6379"
dualwrite:
  pending_ttl: "30m"
  id_retries: 3
rate_limit:
  enabled: true
  max: 10
  window: "10s"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", c.Server.Addr)
	assert.Equal(t, []string{"https://panel.example.com"}, c.Server.CORSAllowedOrigins)
	assert.Equal(t, "redis", c.Cache.Kind)
	assert.Equal(t, "30m", c.DualWrite.PendingTTL)
	assert.Equal(t, 3, c.DualWrite.IDRetries)
	assert.True(t, c.RateLimit.Enabled)
	assert.Equal(t, 10, c.RateLimit.Max)
	assert.Equal(t, 30*time.Minute, c.PendingTTL())
}

func TestEnvOverridesWin(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("DUALWRITE_ID_RETRIES", "5")
	t.Setenv("RATE_LIMIT_ENABLED", "true")

	c, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":7070", c.Server.Addr)
	assert.Equal(t, 5, c.DualWrite.IDRetries)
	assert.True(t, c.RateLimit.Enabled)
}

func TestInvalidDurationFails(t *testing.T) {
	t.Setenv("DUALWRITE_PENDING_TTL", "una-hora")

	_, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
