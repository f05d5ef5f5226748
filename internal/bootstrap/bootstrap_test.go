package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  name: clips-service
  env: test
store:
  driver: memory
jwt:
  secret: bootstrap-test
uploads:
  driver: disk
  dir: ` + filepath.Join(dir, "uploads") + `
rate_limit:
  enabled: true
  requests: 100
  window_seconds: 60
log:
  level: error
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

func TestInit_MemoryStore(t *testing.T) {
	a, cleanup, err := Init(context.Background(), writeConfig(t))
	require.NoError(t, err)
	defer cleanup(context.Background())

	assert.Nil(t, a.Mongo)
	assert.Nil(t, a.Redis)
	require.NoError(t, a.Seeder.Run(context.Background()))

	resp, err := a.App.Test(httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = a.App.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestInit_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: sqlite\n"), 0o600))
	t.Setenv("JWT_SECRET", "x")

	_, _, err := Init(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite")
}
