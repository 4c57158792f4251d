// Package config provides configuration loading for relidx.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config represents the complete relidx configuration.
type Config struct {
	// DocsDir is the output root containing the release-note files.
	// Relative paths resolve against the binary's own directory.
	DocsDir string `yaml:"docs_dir"`

	// TemplatesDir holds the index-page templates.
	TemplatesDir string `yaml:"templates_dir"`

	// Ignore lists doublestar globs for directory entries the indexer
	// skips before version extraction. Empty means every entry must
	// carry a well-formed version.
	Ignore []string `yaml:"ignore"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Watch configures the optional re-render-on-change mode.
	Watch WatchConfig `yaml:"watch"`
}

// WatchConfig configures filesystem watching.
type WatchConfig struct {
	// Enabled controls whether the process stays up re-rendering on
	// changes instead of exiting after one pass.
	Enabled bool `yaml:"enabled"`

	// DebounceDelay is how long to wait for more changes before
	// starting a render pass.
	DebounceDelay string `yaml:"debounce_delay"`
}

// GetDebounceDelay returns the debounce delay as a duration.
func (c *WatchConfig) GetDebounceDelay() time.Duration {
	if c.DebounceDelay == "" {
		return 500 * time.Millisecond
	}
	d, err := time.ParseDuration(c.DebounceDelay)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// DefaultConfig returns a Config reproducing the conventional layout:
// templates next to the binary, docs two levels up.
func DefaultConfig() *Config {
	return &Config{
		DocsDir:      "../../docs",
		TemplatesDir: "templates",
		Ignore:       nil,
		LogLevel:     "info",
		Watch: WatchConfig{
			Enabled:       false,
			DebounceDelay: "500ms",
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.DocsDir == "" {
		return fmt.Errorf("docs_dir is required")
	}
	if c.TemplatesDir == "" {
		return fmt.Errorf("templates_dir is required")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}
	for _, pattern := range c.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid ignore pattern: %q", pattern)
		}
	}
	if c.Watch.DebounceDelay != "" {
		if _, err := time.ParseDuration(c.Watch.DebounceDelay); err != nil {
			return fmt.Errorf("invalid watch.debounce_delay: %w", err)
		}
	}
	return nil
}

// SlogLevel maps the configured log level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Merge overlays non-zero fields of other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.DocsDir != "" {
		c.DocsDir = other.DocsDir
	}
	if other.TemplatesDir != "" {
		c.TemplatesDir = other.TemplatesDir
	}
	if other.Ignore != nil {
		c.Ignore = other.Ignore
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.Watch.Enabled {
		c.Watch.Enabled = true
	}
	if other.Watch.DebounceDelay != "" {
		c.Watch.DebounceDelay = other.Watch.DebounceDelay
	}
}

// LoadFromFile reads a Config from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &config, nil
}
