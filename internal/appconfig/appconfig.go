// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mwiater/codon/profiler"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultLogFile is used when the config does not name a log file.
	defaultLogFile = "codon.log"
	// defaultExportFormat is used when an export path is set without a format.
	defaultExportFormat = "json"
)

// Config represents the top-level application configuration.
type Config struct {
	ShowOutput        bool           `json:"showOutput" mapstructure:"showOutput"`
	TareRuns          bool           `json:"tareRuns" mapstructure:"tareRuns"`
	FormatMemoryUsage bool           `json:"formatMemoryUsage" mapstructure:"formatMemoryUsage"`
	Iterations        int            `json:"iterations,omitempty" mapstructure:"iterations" validate:"gte=0"`
	Suites            []string       `json:"suites,omitempty" mapstructure:"suites" validate:"dive,required"`
	Format            string         `json:"format,omitempty" mapstructure:"format" validate:"omitempty,oneof=plain text html"`
	ExportPath        string         `json:"export,omitempty" mapstructure:"export"`
	ExportFormat      string         `json:"exportFormat,omitempty" mapstructure:"exportFormat" validate:"omitempty,oneof=json yaml"`
	MetricsFile       string         `json:"metricsFile,omitempty" mapstructure:"metricsFile"`
	LogFile           string         `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug             bool           `json:"debug" mapstructure:"debug"`
	Options           map[string]any `json:"options,omitempty" mapstructure:"options"`
	ConfigPath        string         `json:"-" mapstructure:"-"`
}

// Defaults returns the configuration used when no file or flag overrides a value.
func Defaults() Config {
	opts := profiler.DefaultOptions()
	return Config{
		ShowOutput:        opts.ShowOutput,
		TareRuns:          opts.TareRuns,
		FormatMemoryUsage: opts.FormatMemoryUsage,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ProfilerOptions maps the top-level switches onto profiler options. Options is
// merged separately with Profiler.Merge.
func (c Config) ProfilerOptions() profiler.Options {
	opts := profiler.Options{
		ShowOutput:        c.ShowOutput,
		TareRuns:          c.TareRuns,
		FormatMemoryUsage: c.FormatMemoryUsage,
	}
	return opts
}

// ReportFormat returns the parsed report format.
func (c Config) ReportFormat() (profiler.Format, error) {
	return profiler.ParseFormat(c.Format)
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// ExportFormatOrDefault returns the export format, falling back to JSON.
func (c Config) ExportFormatOrDefault() string {
	if f := strings.TrimSpace(c.ExportFormat); f != "" {
		return strings.ToLower(f)
	}
	return defaultExportFormat
}

// ValidateFile reads a JSON config file and checks it against the document schema.
// Files in other formats are left to the decoder.
func ValidateFile(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file %q: %w", path, err)
	}
	return ValidateDocument(data)
}
