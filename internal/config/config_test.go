package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  port: 8080
jwt:
  secret: s3cret
store:
  driver: MEMORY
catalog:
  max_page_size: 50
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 50, cfg.Catalog.MaxPageSize)
	assert.Equal(t, 12, cfg.Catalog.DefaultPageSize)
	assert.Equal(t, 30*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "disk", cfg.Uploads.Driver)
	assert.Equal(t, "clips.events", cfg.Kafka.Topic)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: from-file\n")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "30")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, 30*time.Second, cfg.RateWindow)
}

func TestIsDevelopment(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.IsDevelopment())

	t.Setenv("APP_ENV", "production")
	cfg, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.App.Port)
}

func TestValidate(t *testing.T) {
	path := writeConfig(t, `
store:
  driver: postgres
uploads:
  driver: s3
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
	assert.Contains(t, err.Error(), "store.driver")
	assert.Contains(t, err.Error(), "aws.bucket")
}
