package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-crm-dashboard/pkg/crm"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8050", cfg.Server.Addr)
	assert.Equal(t, "/", cfg.Server.BasePath)
	assert.Equal(t, crm.SourceMock, cfg.Data.Source)
	assert.Equal(t, 5*time.Minute, cfg.Charts.CacheTTL)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
  base_path: /crm
data:
  source: http
  http:
    base_url: https://crm.example.com/api
charts:
  cache_ttl: 30s
log:
  format: console
`), 0o600))
	t.Setenv("CRMBOARD_DATA_HTTP_API_KEY", "secret")
	t.Setenv("CRMBOARD_SERVER_ADDR", ":9100")

	t.Setenv("CRMBOARD_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, "/crm", cfg.Server.BasePath)
	assert.Equal(t, 30*time.Second, cfg.Charts.CacheTTL)
	assert.Equal(t, "console", cfg.Log.Format)

	provider := cfg.Provider()
	assert.Equal(t, crm.SourceHTTP, provider.Source)
	assert.Equal(t, "https://crm.example.com/api", provider.HTTP.BaseURL)
	assert.Equal(t, "secret", provider.HTTP.APIKey)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Chdir(t.TempDir())
	t.Setenv("CRMBOARD_DATA_SOURCE", "ftp")
	_, err = Load("")
	assert.ErrorIs(t, err, crm.ErrUnknownSource)
}
