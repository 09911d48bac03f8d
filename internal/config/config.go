// Package config persists the user's preferences between runs.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"deadlockoptimizer/internal/cfgfile"
	"deadlockoptimizer/internal/settings"
)

const configFileName = "config.yaml"

// Config is the content of config.yaml.
type Config struct {
	TemplatesDir string        `yaml:"templates_dir"`
	LogLevel     string        `yaml:"log_level"`
	Profile      string        `yaml:"profile,omitempty"`
	Last         settings.Form `yaml:"last"`
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		TemplatesDir: "configs",
		LogLevel:     "info",
		Last: settings.Form{
			ResolutionWidth:  "1920",
			ResolutionHeight: "1080",
			RefreshRate:      "144",
			DesiredFPS:       "141",
			DisplayMode:      "Fullscreen",
			TextureQuality:   "Balanced",
		},
	}
}

// Dir returns ~/.deadlock-optimizer.
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("USERPROFILE")
	}
	return filepath.Join(homeDir, ".deadlock-optimizer")
}

// DefaultPath returns the location of config.yaml.
func DefaultPath() string {
	return filepath.Join(Dir(), configFileName)
}

// Load reads path on top of the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = Default().TemplatesDir
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := cfgfile.WriteAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Remember stores the submitted form so the next run starts from it.
func (c *Config) Remember(f settings.Form) {
	c.Last = f
}
