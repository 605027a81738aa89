package app

import (
	"go.uber.org/zap"

	"ozymandias/internal/config"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home       string         // knowledge-base directory, e.g. $HOME/.ozymandias
	ConfigPath string         // optional; defaults to <Home>/config.yaml
	Settings   *config.Config // optional; loaded from ConfigPath when nil
	Logger     *zap.Logger    // optional; defaults to a no-op logger
}

// configPath returns the config file location.
func (c Config) configPath() string {
	if c.ConfigPath != "" {
		return c.ConfigPath
	}
	return config.Path(c.Home)
}

// LoadSettings returns c.Settings, or loads and validates the config file.
func (c Config) LoadSettings() (*config.Config, error) {
	settings := c.Settings
	if settings == nil {
		var err error
		if settings, err = config.Load(c.configPath()); err != nil {
			return nil, err
		}
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
