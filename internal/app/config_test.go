package app

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
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(body), 0644))
	return file
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, realpath, err := LoadConfig(writeConfig(t, "server:\n  http-port: \":8080\"\n"))
	require.NoError(t, err)

	assert.Equal(t, realpath, cfg.File)
	assert.Equal(t, ":8080", cfg.Server.HttpPort)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 300, cfg.Sync.MaxItemsLimit)
	assert.Equal(t, 150, cfg.Sync.DefaultItemsLimit)

	svc := cfg.GetServiceConfig()
	assert.Equal(t, int64(10*1024*1024), svc.Sync.ContentSizeTransferLimit)

	assert.Equal(t, 365*24*time.Hour, cfg.GetTokenExpiry())
	assert.Equal(t, 25*time.Second, cfg.GetPingInterval())
	assert.Equal(t, 40*time.Second, cfg.GetPingWait())
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, _, err := LoadConfig(writeConfig(t, `
sync:
  content-size-transfer-limit: 512KB
  max-items-limit: 50
security:
  token-expiry: 7d
app:
  worker-pool-max-workers: 4
  write-queue-timeout: 5s
`))
	require.NoError(t, err)

	assert.Equal(t, int64(512*1024), cfg.GetServiceConfig().Sync.ContentSizeTransferLimit)
	assert.Equal(t, 50, cfg.GetServiceConfig().Sync.MaxItemsLimit)
	assert.Equal(t, 7*24*time.Hour, cfg.GetTokenExpiry())
	assert.Equal(t, 4, cfg.GetWorkerPoolConfig().MaxWorkers)
	assert.Equal(t, 5*time.Second, cfg.GetWriteQueueConfig().WriteTimeout)
}

func TestLoadConfig_ExplicitFalseKept(t *testing.T) {
	cfg, _, err := LoadConfig(writeConfig(t, "database:\n  auto-migrate: false\nlog:\n  production: false\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.Log.Production)
	assert.Equal(t, "sqlite", cfg.Database.Type)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, _, err = LoadConfig(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestConfigSave(t *testing.T) {
	cfg, _, err := LoadConfig(writeConfig(t, "log:\n  level: info\n"))
	require.NoError(t, err)

	cfg.Log.Level = "debug"
	cfg.Sync.MaxItemsLimit = 42
	require.NoError(t, cfg.Save())

	reloaded, _, err := LoadConfig(cfg.File)
	require.NoError(t, err)
	assert.Equal(t, "debug", reloaded.Log.Level)
	assert.Equal(t, 42, reloaded.Sync.MaxItemsLimit)
}
