// Package config provides unified configuration loading for worldbox.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/worldbox/worldbox/internal/query"
	"github.com/worldbox/worldbox/internal/recurrence"
)

// Config contains all worldbox configuration settings.
type Config struct {
	// Search contains settings for fuzzy directory and calendar lookups.
	Search SearchConfig `json:"search" yaml:"search"`

	// Recurrence contains settings for repeat-rule expansion.
	Recurrence RecurrenceConfig `json:"recurrence" yaml:"recurrence"`

	// Archive contains settings for the run archive.
	Archive ArchiveConfig `json:"archive" yaml:"archive"`

	// Logging contains settings for operational and trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SearchConfig tunes approximate string matching.
type SearchConfig struct {
	// FuzzyThreshold is the minimum similarity score (0-100) for a fuzzy
	// match to count.
	FuzzyThreshold int `json:"fuzzy_threshold" yaml:"fuzzy_threshold"`

	// FuzzyLimit caps the number of fuzzy matches returned per lookup.
	FuzzyLimit int `json:"fuzzy_limit" yaml:"fuzzy_limit"`
}

// RecurrenceConfig tunes repeat-rule expansion.
type RecurrenceConfig struct {
	// MaxOccurrences caps the expansion of repeat rules that have no end
	// condition.
	MaxOccurrences int `json:"max_occurrences" yaml:"max_occurrences"`
}

// ArchiveConfig configures run archiving.
type ArchiveConfig struct {
	// Path is the sqlite database holding archived runs.
	Path string `json:"path" yaml:"path"`
}

// LoggingConfig configures worldbox's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables execution tracing to .worldbox/traces.jsonl.
	// "trace" additionally includes full program and output content.
	Level string `json:"level" yaml:"level"`

	// Dir is the directory trace files are written to.
	Dir string `json:"dir" yaml:"dir"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			FuzzyThreshold: query.DefaultFuzzyThreshold,
			FuzzyLimit:     query.DefaultFuzzyLimit,
		},
		Recurrence: RecurrenceConfig{
			MaxOccurrences: recurrence.DefaultMaxOccurrences,
		},
		Archive: ArchiveConfig{
			Path: filepath.Join(".worldbox", "runs.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   ".worldbox",
		},
	}
}

// Load loads configuration from the default locations and environment
// variables. The file worldbox.yaml in the working directory is used when
// present; WORLDBOX_CONFIG overrides the location.
func Load() (*Config, error) {
	path := "worldbox.yaml"
	if env := os.Getenv("WORLDBOX_CONFIG"); env != "" {
		path = env
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		config := Default()
		applyEnvOverrides(config)
		return config, nil
	}
	config, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(config)
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Search.FuzzyThreshold < 0 || c.Search.FuzzyThreshold > 100 {
		return fmt.Errorf("search.fuzzy_threshold must be between 0 and 100, got %d", c.Search.FuzzyThreshold)
	}
	if c.Search.FuzzyLimit < 1 {
		return fmt.Errorf("search.fuzzy_limit must be positive, got %d", c.Search.FuzzyLimit)
	}
	if c.Recurrence.MaxOccurrences < 1 {
		return fmt.Errorf("recurrence.max_occurrences must be positive, got %d", c.Recurrence.MaxOccurrences)
	}
	return nil
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("WORLDBOX_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("WORLDBOX_ARCHIVE_PATH"); v != "" {
		config.Archive.Path = v
	}
	if v := os.Getenv("WORLDBOX_MAX_OCCURRENCES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.Recurrence.MaxOccurrences = n
		}
	}
}
