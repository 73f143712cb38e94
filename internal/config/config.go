// Package config handles loading, validating, and defaulting crashgate
// configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/quartzmill/crashgate/internal/event"
)

// Defaults for configuration fields.
const (
	DefaultThreshold   = "error"
	DefaultLogFormat   = "json"
	DefaultJournalPath = "crashgate.db"
)

// Config is the top-level crashgate configuration.
type Config struct {
	Version     int               `yaml:"version"`
	DSN         string            `yaml:"dsn"` // empty = disabled (emissions become no-ops)
	Threshold   string            `yaml:"threshold"`
	Tags        map[string]string `yaml:"tags"`
	Strict      bool              `yaml:"strict"` // surface capture failures at warn level
	Environment string            `yaml:"environment"`
	Release     string            `yaml:"release"`
	Logging     Logging           `yaml:"logging"`
	Journal     Journal           `yaml:"journal"`
}

// Logging configures the structured log observer.
type Logging struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // json, text
}

// Journal configures the local SQLite event journal.
type Journal struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Defaults returns a configuration with every default applied.
func Defaults() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// Load reads, parses, defaults, and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path from caller
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.ApplyDefaults()

	// Resolve a relative journal path against the config file directory.
	if cfg.Journal.Path != "" && !filepath.IsAbs(cfg.Journal.Path) {
		cfg.Journal.Path = filepath.Join(filepath.Dir(path), cfg.Journal.Path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Threshold == "" {
		c.Threshold = DefaultThreshold
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		c.Journal.Path = DefaultJournalPath
	}
}

// Validate checks the configuration for errors. The threshold name is
// validated here, once, so a bad name fails before any event flows.
func (c *Config) Validate() error {
	if _, err := event.ParseSeverity(c.Threshold); err != nil {
		return fmt.Errorf("threshold: %w", err)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	for k := range c.Tags {
		if k == "" {
			return fmt.Errorf("tags: empty tag key")
		}
	}
	return nil
}

// ThresholdSeverity returns the parsed threshold. Call after Validate.
func (c *Config) ThresholdSeverity() (event.Severity, error) {
	return event.ParseSeverity(c.Threshold)
}
