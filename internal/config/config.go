// Package config loads the taskdock project configuration: which task
// definition files to register and how chatty the logs should be.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all taskdock configuration.
type Config struct {
	// TaskFiles are absolute paths to YAML task definition files; each
	// becomes one path-scoped source in the inventory.
	TaskFiles []string `yaml:"task_files"`

	// Logging controls the categorized debug logs.
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig mirrors logging.Options in serializable form.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the config file at path. A missing file yields Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the inventory cannot act on.
func (c *Config) Validate() error {
	for _, p := range c.TaskFiles {
		if !filepath.IsAbs(p) {
			return fmt.Errorf("task file path must be absolute: %s", p)
		}
	}
	return nil
}
