// Package config provides viper-based configuration for bfcheck.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Sumatoshi-tech/bfcheck/pkg/units"
)

// Sentinel validation errors.
var (
	ErrInvalidThreshold = errors.New("benchmark threshold must be positive")
	ErrInvalidSize      = errors.New("invalid max file size")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidFormat    = errors.New("invalid output format")
)

// Output formats.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var knownFormats = []string{"", FormatText, FormatTable, FormatJSON, FormatYAML}

// Config is the top-level configuration struct.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	// Source is the config file that was read, empty when none was found.
	Source string `mapstructure:"-"`

	BFile         BFileConfig         `mapstructure:"bfile"`
	Benchmark     BenchmarkConfig     `mapstructure:"benchmark"`
	Output        OutputConfig        `mapstructure:"output"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// BFileConfig holds b-file validation rules.
type BFileConfig struct {
	MaxFileSize   string `mapstructure:"max_file_size"`
	RequireHeader bool   `mapstructure:"require_header"`
}

// BenchmarkConfig holds benchmark comparison settings.
type BenchmarkConfig struct {
	Threshold float64 `mapstructure:"threshold"`
}

// OutputConfig holds report rendering settings.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// ObservabilityConfig holds metrics file and OpenTelemetry export settings.
type ObservabilityConfig struct {
	MetricsFile  string `mapstructure:"metrics_file"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string `mapstructure:"otlp_headers"`
	Environment  string `mapstructure:"environment"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
}

func (c *Config) describeSource() string {
	if c.Source == "" {
		return "(defaults and environment)"
	}

	return c.Source
}

// MaxFileSizeBytes parses BFile.MaxFileSize. Zero means unlimited.
func (c *Config) MaxFileSizeBytes() (uint64, error) {
	size, err := units.ParseSize(c.BFile.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}

	return size, nil
}

// LogLevel parses Logging.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(c.Logging.Level))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return level, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Benchmark.Threshold <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, c.Benchmark.Threshold)
	}

	_, sizeErr := c.MaxFileSizeBytes()
	if sizeErr != nil {
		return sizeErr
	}

	_, levelErr := c.LogLevel()
	if levelErr != nil {
		return levelErr
	}

	if !slices.Contains(knownFormats, c.Output.Format) {
		return fmt.Errorf("%w %q", ErrInvalidFormat, c.Output.Format)
	}

	return nil
}
