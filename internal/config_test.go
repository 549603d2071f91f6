package internal

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "simpledb", cfg.AppName)
	assert.Equal(t, 4096, cfg.Storage.PageSize)
	assert.Equal(t, 50, cfg.BufferPool.Capacity)
	assert.Equal(t, "clock", cfg.BufferPool.Replacer)
	assert.Equal(t, 2*time.Second, cfg.BufferPool.LockTimeout)
	assert.False(t, cfg.Debug.DeadlockDetection)
	assert.Empty(t, cfg.CatalogPath())
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simpledb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  workdir: /var/lib/simpledb
  page_size: 1024
  catalog_file: catalog.txt
buffer_pool:
  replacer: lru
  lock_timeout: 500ms
log:
  level: debug
  format: json
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Storage.PageSize)
	assert.Equal(t, 50, cfg.BufferPool.Capacity)
	assert.Equal(t, "lru", cfg.BufferPool.Replacer)
	assert.Equal(t, 500*time.Millisecond, cfg.BufferPool.LockTimeout)
	assert.Equal(t, filepath.Join("/var/lib/simpledb", "catalog.txt"), cfg.CatalogPath())

	lvl, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	var buf bytes.Buffer
	cfg.NewLogger(&buf).Debug("hello", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("SIMPLEDB_BUFFER_POOL_CAPACITY", "7")
	t.Setenv("SIMPLEDB_STORAGE_CATALOG_FILE", "/abs/catalog.txt")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.BufferPool.Capacity)
	assert.Equal(t, "/abs/catalog.txt", cfg.CatalogPath())
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	t.Setenv("SIMPLEDB_LOG_LEVEL", "loud")
	_, err = LoadConfig("")
	require.Error(t, err)

	t.Setenv("SIMPLEDB_LOG_LEVEL", "info")
	t.Setenv("SIMPLEDB_STORAGE_PAGE_SIZE", "0")
	_, err = LoadConfig("")
	require.Error(t, err)
}
