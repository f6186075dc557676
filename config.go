// config.go: optional interpreter configuration file
//
// The CLI looks for anubhav.yml next to the script (or takes an
// explicit --config path). Everything is optional; a missing file
// means defaults.
package anubhav

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the anubhav.yml schema.
type Config struct {
	// MaxCallDepth bounds user-function recursion. Zero keeps the
	// default.
	MaxCallDepth int `yaml:"max_call_depth"`
	// RandomSeed, when set, makes RANDOM, SHUFFLE and SAMPLE
	// deterministic.
	RandomSeed *int64 `yaml:"random_seed"`
}

// LoadConfig reads and parses a config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.MaxCallDepth < 0 {
		return nil, fmt.Errorf("config %s: max_call_depth must not be negative", path)
	}
	return &cfg, nil
}

// LoadConfigIfPresent is LoadConfig, but a missing file yields an
// empty config.
func LoadConfigIfPresent(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return &Config{}, nil
	}
	return LoadConfig(path)
}

// Options translates the config into interpreter options.
func (c *Config) Options() []Option {
	var opts []Option
	if c.MaxCallDepth > 0 {
		opts = append(opts, WithMaxCallDepth(c.MaxCallDepth))
	}
	if c.RandomSeed != nil {
		opts = append(opts, WithRandomSeed(*c.RandomSeed))
	}
	return opts
}
