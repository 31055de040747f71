package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/vortex/engine/core"
)

type ApplicationConfig struct {
	Name        string `toml:"name"`
	StartPosX   uint32 `toml:"start_pos_x"`
	StartPosY   uint32 `toml:"start_pos_y"`
	StartWidth  uint32 `toml:"start_width"`
	StartHeight uint32 `toml:"start_height"`
}

type RendererConfig struct {
	Backend    string `toml:"backend"`
	VSync      bool   `toml:"vsync"`
	Validation bool   `toml:"validation"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type Config struct {
	Application ApplicationConfig `toml:"application"`
	Renderer    RendererConfig    `toml:"renderer"`
	Logging     LoggingConfig     `toml:"logging"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Application: ApplicationConfig{
			Name:        "Vortex Application",
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
		},
		Renderer: RendererConfig{
			Backend:    "vulkan",
			VSync:      true,
			Validation: false,
		},
		Logging: LoggingConfig{
			Level: "debug",
		},
	}
}

// Load reads and parses a TOML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogLevel translates the configured level name into a core log level.
// Unknown names fall back to info.
func (c *Config) LogLevel() core.Level {
	switch c.Logging.Level {
	case "debug":
		return core.DebugLevel
	case "info":
		return core.InfoLevel
	case "warn":
		return core.WarnLevel
	case "error":
		return core.ErrorLevel
	default:
		core.LogWarn("unknown log level '%s', defaulting to info", c.Logging.Level)
		return core.InfoLevel
	}
}
