// Package config provides YAML-config-plus-environment-overrides
// configuration for the parsing engine: a ServerConfig/LoggingConfig
// ambient section, an IgnoreConfig for the CLI's directory walk, and a
// GrammarsConfig for grammar-version configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the parsing engine.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Ignore   IgnoreConfig   `yaml:"ignore_patterns"`
	Grammars GrammarsConfig `yaml:"grammars"`
}

// ServerConfig identifies this build.
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// LoggingConfig holds the logging settings read from the config file. No
// code in this module consults them.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Prefix  string `yaml:"prefix"`
}

// IgnoreConfig lists glob patterns excluded from a directory walk.
type IgnoreConfig struct {
	Patterns []string `yaml:"patterns"`
}

// GrammarsConfig is read under the "grammars" YAML key: a global default
// version and a per-language override map.
type GrammarsConfig struct {
	DefaultVersion string            `yaml:"default_version"`
	Versions       map[string]string `yaml:"versions"`
}

// Load loads configuration from a file (if one can be found) layered over
// defaults, then applies environment overrides.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if path := configPath(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:    "megabrain-parsekit",
			Version: "0.1.0",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Prefix:  "parsekit: ",
		},
		Ignore: IgnoreConfig{
			Patterns: []string{
				"target/**",
				"build/**",
				"dist/**",
				"out/**",
				"node_modules/**",
				".pnp/**",
				"**/*.min.js",
				"**/*.bundle.js",
				".git/**",
				".idea/**",
				".vscode/**",
				"*.iml",
			},
		},
		Grammars: GrammarsConfig{
			Versions: map[string]string{},
		},
	}
}

func configPath() string {
	if path := os.Getenv("MEGABRAIN_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat("parsekit.yaml"); err == nil {
		return "parsekit.yaml"
	}
	home, err := os.UserHomeDir()
	if err == nil {
		path := filepath.Join(home, ".megabrain", "parsekit.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MEGABRAIN_GRAMMAR_DEFAULT_VERSION"); v != "" {
		cfg.Grammars.DefaultVersion = v
	}
}
