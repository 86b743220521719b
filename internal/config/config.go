// =============================================================================
// rackport - Configuration Module
// =============================================================================
//
// This module loads the settings file read at process start. It holds two
// groups of settings:
//   1. Porting: the flat mapping strings and cable column layout
//   2. Log: where and how verbosely the run is logged
//
// FILE FORMATS:
//   The format is chosen by file extension:
//   - .yaml / .yml : gopkg.in/yaml.v3
//   - .toml        : github.com/BurntSushi/toml
//
// The mapping strings themselves are parsed by the tables package; this
// package only checks the values that cannot be checked later (column
// indices, discriminator cell).
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config is the root of the settings file.
type Config struct {
	Porting Porting `yaml:"porting" toml:"porting"`
	Log     Log     `yaml:"log" toml:"log"`
}

// Porting holds the mapping tables and cable layout.
//
// Every table is a flat string: entries separated by ',' and fields inside
// an entry separated by '|'.
type Porting struct {
	// Definition6U lists "sourceCell|destCell" copy instructions for 6U sheets.
	Definition6U string `yaml:"definition_6u" toml:"definition_6u"`

	// Definition14U lists "sourceCell|destCell" copy instructions for 14U sheets.
	Definition14U string `yaml:"definition_14u" toml:"definition_14u"`

	// WordToType maps discriminator text to a type id: "6U|6,14U|14".
	WordToType string `yaml:"word_to_type" toml:"word_to_type"`

	// DiscriminatorCell is the source cell holding the discriminator text.
	DiscriminatorCell string `yaml:"discriminator_cell" toml:"discriminator_cell"`

	// FormatSheetName maps a type id to its template sheet: "6|6U,14|14U".
	FormatSheetName string `yaml:"format_sheet_name" toml:"format_sheet_name"`

	// CableRackNamePrefix filters cable rows by rack name.
	CableRackNamePrefix string `yaml:"cable_rack_name_prefix" toml:"cable_rack_name_prefix"`

	// Cable column indices, 1-based (A=1).
	CableRackNameColumn     int `yaml:"cable_rack_name_column" toml:"cable_rack_name_column"`
	CableDeviceNameColumn   int `yaml:"cable_device_name_column" toml:"cable_device_name_column"`
	CableDeviceNumberColumn int `yaml:"cable_device_number_column" toml:"cable_device_number_column"`
	CableHostNameColumn     int `yaml:"cable_host_name_column" toml:"cable_host_name_column"`

	// CableSpecialDevice is "rack|deviceNameAndNumber|host". It is always
	// added to the cable index and overrides a scanned row with the same key.
	CableSpecialDevice string `yaml:"cable_special_device" toml:"cable_special_device"`

	// Target6UDeviceToHost lists "deviceCell|hostCell" overlay pairs for 6U.
	Target6UDeviceToHost string `yaml:"target_6u_device_to_host" toml:"target_6u_device_to_host"`

	// Target14UDeviceToHost lists "deviceCell|hostCell" overlay pairs for 14U.
	Target14UDeviceToHost string `yaml:"target_14u_device_to_host" toml:"target_14u_device_to_host"`

	// ReplaceWord lists the literal substrings stripped from copied text.
	ReplaceWord string `yaml:"replace_word" toml:"replace_word"`
}

// Log controls the console and rolling file output.
type Log struct {
	// Level is one of trace, debug, info, warn, error.
	// Default: "trace"
	Level string `yaml:"level" toml:"level"`

	// Dir is where the daily log files are written.
	// Default: "logs"
	Dir string `yaml:"dir" toml:"dir"`

	// MaxSizeKB rotates the current file once it grows past this size.
	// Default: 1024
	MaxSizeKB int `yaml:"max_size_kb" toml:"max_size_kb"`

	// MaxBackups is the number of rotated files kept. 0 keeps all.
	MaxBackups int `yaml:"max_backups" toml:"max_backups"`

	// Timezone is the IANA zone used for log timestamps.
	// Default: "Asia/Tokyo"
	Timezone string `yaml:"timezone" toml:"timezone"`

	// Console also writes log lines to stderr.
	// Default: true
	Console *bool `yaml:"console" toml:"console"`
}

// ConsoleEnabled reports whether console output is on.
func (l Log) ConsoleEnabled() bool {
	return l.Console == nil || *l.Console
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load reads the settings file at path.
//
// RETURNS:
//   - The parsed configuration with defaults applied.
//   - An error if the file cannot be read, parsed or fails validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset log option.
// Porting values have no defaults: an operator must state them.
func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "trace"
	}
	if cfg.Log.Dir == "" {
		cfg.Log.Dir = "logs"
	}
	if cfg.Log.MaxSizeKB == 0 {
		cfg.Log.MaxSizeKB = 1024
	}
	if cfg.Log.Timezone == "" {
		cfg.Log.Timezone = "Asia/Tokyo"
	}
}

// validate checks the values the table parser does not see.
func validate(cfg *Config) error {
	p := cfg.Porting

	if strings.TrimSpace(p.DiscriminatorCell) == "" {
		return fmt.Errorf("porting.discriminator_cell is required")
	}

	columns := []struct {
		key   string
		value int
	}{
		{"porting.cable_rack_name_column", p.CableRackNameColumn},
		{"porting.cable_device_name_column", p.CableDeviceNameColumn},
		{"porting.cable_device_number_column", p.CableDeviceNumberColumn},
		{"porting.cable_host_name_column", p.CableHostNameColumn},
	}
	for _, c := range columns {
		if c.value < 1 {
			return fmt.Errorf("%s must be a 1-based column index, got %d", c.key, c.value)
		}
	}

	if cfg.Log.MaxSizeKB < 0 {
		return fmt.Errorf("log.max_size_kb must not be negative")
	}
	if cfg.Log.MaxBackups < 0 {
		return fmt.Errorf("log.max_backups must not be negative")
	}

	return nil
}
