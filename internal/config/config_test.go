package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, format.DefaultLayout(), cfg.Layout.Format())
	require.False(t, cfg.CompatSentinelRead)
	require.Equal(t, 1, cfg.Workers)
	require.Equal(t, 256, cfg.PointerCacheSize)
	require.Equal(t, 32, cfg.MaxTextBytes)
	require.Equal(t, "warn", cfg.Logs.Level)
	require.Empty(t, cfg.Logs.File)
	require.Equal(t, 10, cfg.Logs.MaxSizeMB)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
compat_sentinel_read: true
workers: 4
charset: cp437
layout:
  data_size: 16384
logs:
  file: /tmp/heapctl.log
  compress: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.CompatSentinelRead)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, "cp437", cfg.Charset)
	require.Equal(t, 16384, cfg.Layout.DataSize)
	require.Equal(t, 6144, cfg.Layout.RegionSize)
	require.Equal(t, "/tmp/heapctl.log", cfg.Logs.File)
	require.False(t, cfg.Logs.Compress)
}

func TestLoadSearchPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "heapkit.yaml"), []byte("workers: 3\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Workers)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HEAPKIT_WORKERS", "8")
	t.Setenv("HEAPKIT_LAYOUT_DATA_SIZE", "16384")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Workers)
	require.Equal(t, 16384, cfg.Layout.DataSize)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layout:\n  region_size: 6145\n"), 0o644))
	_, err = Load(path)
	require.ErrorIs(t, err, format.ErrInvalidLayout)

	path = filepath.Join(t.TempDir(), "neg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: -1\n"), 0o644))
	_, err = Load(path)
	require.ErrorContains(t, err, "workers")
}
