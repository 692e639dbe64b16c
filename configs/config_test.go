package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Address())
	assert.Equal(t, ".taskproc.storage", cfg.Storage.Filename)
	assert.NotEmpty(t, cfg.Storage.Dir)
	assert.Equal(t, 10*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  host: 0.0.0.0\n  port: 9999\ndatabase:\n  query_timeout: 3s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9999", cfg.Server.Address())
	assert.Equal(t, 3*time.Second, cfg.Database.QueryTimeout)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TASKPROC_SERVER_PORT", "9090")
	t.Setenv("TASKPROC_LOG_LEVEL", "debug")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidateRejectsBadPort(t *testing.T) {
	err := validateConfig(&Config{
		Server:  ServerConfig{Host: "127.0.0.1", Port: 0},
		Storage: StorageConfig{Dir: ".", Filename: "x"},
	})
	assert.Error(t, err)
}

func TestStoragePath(t *testing.T) {
	s := StorageConfig{Dir: "/var/lib/taskproc", Filename: ".taskproc.storage"}
	assert.Equal(t, "/var/lib/taskproc/.taskproc.storage", s.Path())
}
