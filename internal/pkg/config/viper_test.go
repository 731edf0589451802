package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shandysiswandi/estatenotify/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  name: estatenotify
  server:
    cors: "http://localhost:3000, https://estate.example.com,,"
modules:
  identity:
    otp_ttl_seconds: 300
    delivery_timeout_ms: 1500
    sweep_interval_minutes: 2
    enabled: true
labels: "team:growth,tier: gold"
secret: "aGVsbG8="
ratio: 0.25
`

func TestNewViperFromBytes(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte(sample))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cfg.Close() })

	assert.True(t, cfg.Has("app.name"))
	assert.False(t, cfg.Has("app.missing"))
	assert.Equal(t, "estatenotify", cfg.GetString("app.name"))
	assert.True(t, cfg.GetBool("modules.identity.enabled"))
	assert.Equal(t, 300, cfg.GetInt("modules.identity.otp_ttl_seconds"))
	assert.Equal(t, int64(300), cfg.GetInt64("modules.identity.otp_ttl_seconds"))
	assert.Equal(t, 5*time.Minute, cfg.GetSecond("modules.identity.otp_ttl_seconds"))
	assert.Equal(t, 1500*time.Millisecond, cfg.GetMillisecond("modules.identity.delivery_timeout_ms"))
	assert.Equal(t, 2*time.Minute, cfg.GetMinute("modules.identity.sweep_interval_minutes"))
	assert.Equal(t, []string{"http://localhost:3000", "https://estate.example.com"}, cfg.GetArray("app.server.cors"))
	assert.Equal(t, map[string]string{"team": "growth", "tier": "gold"}, cfg.GetMap("labels"))
	assert.Equal(t, []byte("hello"), cfg.GetBinary("secret"))
	assert.InDelta(t, 0.25, cfg.GetFloat64("ratio"), 0.0001)
	assert.Empty(t, cfg.GetArray("app.missing"))
}

func TestNewViperFromBytes_MissingType(t *testing.T) {
	_, err := config.NewViperFromBytes(" ", []byte(sample))
	assert.Error(t, err)
}

func TestNewViperFromBytes_EnvOverride(t *testing.T) {
	t.Setenv("APP_NAME", "from-env")

	cfg, err := config.NewViperFromBytes("yaml", []byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.GetString("app.name"))
}

func TestNewViper_File(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(sample), 0o600))

	cfg, err := config.NewViper(file)
	require.NoError(t, err)

	assert.Equal(t, "estatenotify", cfg.GetString("app.name"))
}

func TestNewViper_MissingFile(t *testing.T) {
	_, err := config.NewViper(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
