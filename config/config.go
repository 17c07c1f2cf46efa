// Package config provides configuration loading and management for standardslib.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/standardslib/source"
)

// Config represents the complete standardslib configuration
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Output  OutputConfig  `yaml:"output"`
	Build   BuildConfig   `yaml:"build"`
	Library LibraryConfig `yaml:"library"`
	Log     LogConfig     `yaml:"log"`
}

// SourceConfig locates the vendor dataset checkout
type SourceConfig struct {
	// Dir is the dataset root holding data/ and the vintage directories
	Dir string `yaml:"dir"`
	// Vintages lists the vintages to build, newest first
	Vintages []source.Vintage `yaml:"vintages"`
}

// OutputConfig configures where the canonical stores are written
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// BuildConfig toggles the optional build passes
type BuildConfig struct {
	// PruneSchedules drops schedules no program type references
	PruneSchedules bool `yaml:"prune_schedules"`
	// Validate runs the cross-reference checks before writing
	Validate bool `yaml:"validate"`
}

// LibraryConfig configures the resolution layer
type LibraryConfig struct {
	// Metrics enables the lookup and hydration counters
	Metrics bool `yaml:"metrics"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Dir:      "openstudio-standards/lib/openstudio-standards/standards",
			Vintages: source.DefaultVintages(),
		},
		Output: OutputConfig{
			Dir: "data",
		},
		Build: BuildConfig{
			PruneSchedules: false,
			Validate:       true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Source.Dir == "" {
		return fmt.Errorf("source.dir is required")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if len(c.Source.Vintages) == 0 {
		return fmt.Errorf("source.vintages must not be empty")
	}
	seen := make(map[string]bool, len(c.Source.Vintages))
	for i, v := range c.Source.Vintages {
		if v.Name == "" || v.Dir == "" {
			return fmt.Errorf("source.vintages[%d] needs a name and a dir", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("source.vintages: duplicate vintage %s", v.Name)
		}
		seen[v.Name] = true
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel converts a log level name to a slog.Level
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// SelectVintages returns the configured vintages whose names are listed.
// No names selects every vintage.
func (c *Config) SelectVintages(names ...string) ([]source.Vintage, error) {
	if len(names) == 0 {
		return c.Source.Vintages, nil
	}
	byName := make(map[string]source.Vintage, len(c.Source.Vintages))
	for _, v := range c.Source.Vintages {
		byName[v.Name] = v
	}
	out := make([]source.Vintage, 0, len(names))
	for _, n := range names {
		v, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("unknown vintage: %s", n)
		}
		out = append(out, v)
	}
	return out, nil
}

// LoadFromFile loads configuration from a YAML file over the defaults
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := config.Overlay(path); err != nil {
		return nil, err
	}
	return config, nil
}

// Overlay applies a YAML file on top of c. Keys absent from the file keep
// their current values; a present sequence replaces the current one.
func (c *Config) Overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
