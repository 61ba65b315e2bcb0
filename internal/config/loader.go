package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix prefixes every environment variable the client reads.
	EnvPrefix = "LATINTUTOR_"
	// UserConfigDir is the directory for the user config file.
	UserConfigDir = ".config/latintutor"
	// UserConfigFile is the name of the user config file.
	UserConfigFile = "config.yaml"
)

// Loader handles configuration loading with layered precedence.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load builds the configuration in order of increasing precedence:
// 1. Defaults
// 2. YAML file (path, or ~/.config/latintutor/config.yaml when empty)
// 3. LATINTUTOR_* environment variables
//
// An explicit path that does not exist is an error; a missing user config
// file is not.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = UserConfigPath()
	}
	if path != "" {
		err := loadFile(path, cfg)
		switch {
		case err == nil:
			l.logger.Debug("loaded config file", slog.String("path", path))
		case errors.Is(err, os.ErrNotExist) && !explicit:
			l.logger.Debug("no user config file", slog.String("path", path))
		default:
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadFile decodes YAML onto cfg; keys absent from the file keep their
// current values.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// UserConfigPath returns ~/.config/latintutor/config.yaml, or "" when the
// home directory is unknown.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}
