// Package config loads dbviz configuration from file, environment, and flags,
// with precedence flag > env > file > defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default values for configuration fields.
const (
	DefaultMigrationsDir = "./migrations"
	DefaultDialect       = "postgres"
	DefaultFormat        = "text"
)

// Format names accepted for schema output.
const (
	FormatText    = "text"
	FormatMermaid = "mermaid"
)

// Config holds the application configuration.
type Config struct {
	MigrationsDir string
	Dialect       string
	Format        string
	Output        string
	Verbose       bool
}

// yamlConfig is the raw YAML file representation.
type yamlConfig struct {
	MigrationsDir string `yaml:"migrations_dir"`
	Dialect       string `yaml:"dialect"`
	Format        string `yaml:"format"`
	Output        string `yaml:"output"`
}

// New returns a Config populated with default values.
func New() *Config {
	return &Config{
		MigrationsDir: DefaultMigrationsDir,
		Dialect:       DefaultDialect,
		Format:        DefaultFormat,
	}
}

// Load reads a YAML configuration file and returns a Config.
// If allowMissing is true and the file does not exist, defaults are returned.
func Load(path string, allowMissing bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return New(), nil
		}

		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg := New()

	if raw.MigrationsDir != "" {
		cfg.MigrationsDir = raw.MigrationsDir
	}

	if raw.Dialect != "" {
		cfg.Dialect = raw.Dialect
	}

	if raw.Format != "" {
		cfg.Format = raw.Format
	}

	if raw.Output != "" {
		cfg.Output = raw.Output
	}

	return cfg, nil
}

// ValidFormat reports whether a format name is one of the supported outputs.
func ValidFormat(format string) bool {
	return format == FormatText || format == FormatMermaid
}

// MergeEnv overrides config fields from DBVIZ_* environment variables.
func MergeEnv(cfg *Config) {
	if v := os.Getenv("DBVIZ_MIGRATIONS_DIR"); v != "" {
		cfg.MigrationsDir = v
	}

	if v := os.Getenv("DBVIZ_DIALECT"); v != "" {
		cfg.Dialect = v
	}

	if v := os.Getenv("DBVIZ_FORMAT"); v != "" {
		cfg.Format = v
	}

	if v := os.Getenv("DBVIZ_OUTPUT"); v != "" {
		cfg.Output = v
	}
}
