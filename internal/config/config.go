// Package config loads schedbot settings from an optional YAML file and
// the process environment.
package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings. Zero values fall back to defaults, so
// a partial YAML file only overrides what it names.
type Config struct {
	// Model is the OpenAI chat model. OPENAI_MODEL overrides it.
	Model string `yaml:"model"`
	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// Slots overrides the seed availability calendar: date (YYYY-MM-DD)
	// to times (HH:MM). Empty means the built-in defaults.
	Slots map[string][]string `yaml:"slots"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model:    "gpt-4",
		LogLevel: "info",
	}
}

// Load reads a YAML config file and fills unset fields from Default. An
// empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if cfg.Model == "" {
		cfg.Model = Default().Model
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = Default().LogLevel
	}
	return cfg, nil
}

// SetupLogger configures the global logrus logger from the config.
func (c *Config) SetupLogger() error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	return nil
}
