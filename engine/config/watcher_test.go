package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vortex.toml")
	require.NoError(t, os.WriteFile(path, []byte("[application]\nname = \"before\"\n"), 0o644))

	watcher, err := NewWatcher(path)
	require.NoError(t, err)
	defer watcher.Close()

	reloaded := make(chan *Config, 1)
	watcher.RegisterCallback(func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, watcher.Start())

	require.NoError(t, os.WriteFile(path, []byte("[application]\nname = \"after\"\n"), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "after", cfg.Application.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload callback within 5s")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vortex.toml")
	require.NoError(t, os.WriteFile(path, []byte("[application]\nname = \"x\"\n"), 0o644))

	watcher, err := NewWatcher(path)
	require.NoError(t, err)
	defer watcher.Close()

	reloaded := make(chan struct{}, 1)
	watcher.RegisterCallback(func(cfg *Config) {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})
	require.NoError(t, watcher.Start())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("noise"), 0o644))

	select {
	case <-reloaded:
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestUnregisterCallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vortex.toml")
	require.NoError(t, os.WriteFile(path, []byte("[application]\nname = \"x\"\n"), 0o644))

	watcher, err := NewWatcher(path)
	require.NoError(t, err)
	defer watcher.Close()

	fired := false
	handle := watcher.RegisterCallback(func(cfg *Config) { fired = true })
	watcher.UnregisterCallback(handle)

	// Reload directly; the removed callback must not run.
	watcher.reload()
	assert.False(t, fired)
}

func TestStartAfterCloseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vortex.toml")
	watcher, err := NewWatcher(path)
	require.NoError(t, err)
	require.NoError(t, watcher.Close())

	assert.Error(t, watcher.Start())
}
