// Package config loads optional on-disk defaults for a vmdatamash run.
// CLI flags always take precedence; a config file only fills in values the
// user didn't pass explicitly.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// FileDefaults mirrors the subset of TextOptions a config file may set.
// Field names are lowercased, unprefixed YAML keys, matching the style of
// every other VictoriaMetrics component's optional YAML config.
type FileDefaults struct {
	FieldDelimiter  string `yaml:"field_delimiter"`
	OutputDelimiter string `yaml:"output_delimiter"`
	Filler          string `yaml:"filler"`
	Round           *int   `yaml:"round"`
	NumFormat       string `yaml:"format"`
	CaseInsensitive bool   `yaml:"ignore_case"`
	NoStrict        bool   `yaml:"no_strict"`
	HeaderIn        bool   `yaml:"header_in"`
	HeaderOut       bool   `yaml:"header_out"`
	MetricsAddr     string `yaml:"metrics_addr"`
	LogLevel        string `yaml:"log_level"`
}

// Load reads and parses a YAML defaults file. A missing path is not an
// error - an unset -config flag simply means "no file defaults".
func Load(path string) (*FileDefaults, error) {
	if path == "" {
		return &FileDefaults{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}
	var fd FileDefaults
	if err := yaml.Unmarshal(data, &fd); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return &fd, nil
}
