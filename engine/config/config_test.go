package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/vortex/engine/core"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vortex.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "vulkan", cfg.Renderer.Backend)
	assert.Equal(t, uint32(1280), cfg.Application.StartWidth)
	assert.Equal(t, uint32(720), cfg.Application.StartHeight)
	assert.True(t, cfg.Renderer.VSync)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
[application]
name = "Test App"
start_width = 640
start_height = 480

[renderer]
backend = "stub"
vsync = false

[logging]
level = "warn"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Test App", cfg.Application.Name)
	assert.Equal(t, uint32(640), cfg.Application.StartWidth)
	assert.Equal(t, "stub", cfg.Renderer.Backend)
	assert.False(t, cfg.Renderer.VSync)
	assert.Equal(t, core.WarnLevel, cfg.LogLevel())
}

func TestLoadKeepsDefaultsForOmittedKeys(t *testing.T) {
	path := writeConfigFile(t, `
[application]
name = "Partial"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Partial", cfg.Application.Name)
	assert.Equal(t, "vulkan", cfg.Renderer.Backend)
	assert.Equal(t, uint32(1280), cfg.Application.StartWidth)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfigFile(t, "not toml = = =")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLogLevelFallback(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "verbose"
	assert.Equal(t, core.InfoLevel, cfg.LogLevel())
}
