// Package config provides configuration loading and management for
// visitparse.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete visitparse configuration
type Config struct {
	Data        DataConfig         `yaml:"data"`
	Report      ReportConfig       `yaml:"report"`
	Store       StoreConfig        `yaml:"store"`
	Watch       WatchConfig        `yaml:"watch"`
	Instruments []InstrumentConfig `yaml:"instruments"`
}

// DataConfig configures where visit files are found
type DataConfig struct {
	// Dir is the directory scanned for visit files
	Dir string `yaml:"dir"`
	// Pattern is the doublestar glob matched against file paths under Dir
	Pattern string `yaml:"pattern"`
}

// ReportConfig configures report generation
type ReportConfig struct {
	// Dir is where overview reports are written (default: <data.dir>/out)
	Dir string `yaml:"dir"`
	// Instrument is the overview profile used for batch reports
	Instrument string `yaml:"instrument"`
}

// StoreConfig configures the visit store
type StoreConfig struct {
	// Path is the SQLite database file path
	Path string `yaml:"path"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	// DebounceDelay is how long to wait for more changes before re-parsing
	DebounceDelay time.Duration `yaml:"debounce_delay"`
	// MetricsAddr is the listen address for the Prometheus metrics
	// endpoint (empty = metrics disabled)
	MetricsAddr string `yaml:"metrics_addr"`
}

// InstrumentConfig declares an additional instrument overview profile
type InstrumentConfig struct {
	// Name is the instrument identifier, matched case-insensitively
	Name string `yaml:"name"`
	// ScriptPrefixes are the recognized script name prefixes
	ScriptPrefixes []string `yaml:"script_prefixes"`
	// Columns are the statement fields reported after the gsa code
	Columns []string `yaml:"columns"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir:     ".",
			Pattern: "**/*.vst",
		},
		Report: ReportConfig{
			Dir:        "", // <data.dir>/out
			Instrument: "niriss",
		},
		Store: StoreConfig{
			Path: ".visitparse/visits.db",
		},
		Watch: WatchConfig{
			DebounceDelay: 500 * time.Millisecond,
			MetricsAddr:   "",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	if c.Data.Pattern == "" {
		return fmt.Errorf("data.pattern is required")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Watch.DebounceDelay < 0 {
		return fmt.Errorf("watch.debounce_delay must not be negative")
	}
	for i, inst := range c.Instruments {
		if inst.Name == "" {
			return fmt.Errorf("instruments[%d].name is required", i)
		}
		if len(inst.ScriptPrefixes) == 0 {
			return fmt.Errorf("instruments[%d].script_prefixes is required", i)
		}
		for _, p := range inst.ScriptPrefixes {
			if len(p) != 3 {
				return fmt.Errorf("instruments[%d]: script prefix %q must be three characters", i, p)
			}
		}
	}
	return nil
}

// ReportDir returns the effective report output directory
func (c *Config) ReportDir() string {
	if c.Report.Dir != "" {
		return c.Report.Dir
	}
	return filepath.Join(c.Data.Dir, "out")
}

// Merge overlays non-zero values from other onto c
func (c *Config) Merge(other *Config) {
	if other.Data.Dir != "" {
		c.Data.Dir = other.Data.Dir
	}
	if other.Data.Pattern != "" {
		c.Data.Pattern = other.Data.Pattern
	}
	if other.Report.Dir != "" {
		c.Report.Dir = other.Report.Dir
	}
	if other.Report.Instrument != "" {
		c.Report.Instrument = other.Report.Instrument
	}
	if other.Store.Path != "" {
		c.Store.Path = other.Store.Path
	}
	if other.Watch.DebounceDelay != 0 {
		c.Watch.DebounceDelay = other.Watch.DebounceDelay
	}
	if other.Watch.MetricsAddr != "" {
		c.Watch.MetricsAddr = other.Watch.MetricsAddr
	}
	if len(other.Instruments) > 0 {
		c.Instruments = append(c.Instruments, other.Instruments...)
	}
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
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
