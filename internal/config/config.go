// Package config provides YAML and environment based configuration for binomci.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Sumatoshi-tech/binomci/pkg/proportion"
	"github.com/Sumatoshi-tech/binomci/pkg/zscore"
)

// Sentinel validation errors.
var (
	ErrInvalidMethod      = errors.New("invalid estimate method")
	ErrInvalidZScore      = errors.New("z-score must be non-negative")
	ErrInvalidConfidence  = errors.New("confidence must be in (0, 1)")
	ErrInvalidFormat      = errors.New("invalid output format")
	ErrInvalidPrecision   = errors.New("output precision out of range")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidSampleRatio = errors.New("telemetry sample ratio must be in [0, 1]")
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// maxPrecision bounds the number of decimals printed for a float64.
const maxPrecision = 17

// Config is the top-level configuration struct for binomci.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Estimate  EstimateConfig  `mapstructure:"estimate"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// EstimateConfig holds defaults applied when a request leaves them unset.
type EstimateConfig struct {
	Method string `mapstructure:"method"`
	// ZScore takes precedence over Confidence when positive.
	ZScore     float64 `mapstructure:"z_score"`
	Confidence float64 `mapstructure:"confidence"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	Format    string `mapstructure:"format"`
	Precision int    `mapstructure:"precision"`
	Color     bool   `mapstructure:"color"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	Environment  string  `mapstructure:"environment"`
	MetricsAddr  string  `mapstructure:"metrics_addr"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
}

// Validate checks every section and returns the first violation.
func (c *Config) Validate() error {
	_, err := proportion.ParseMethod(c.Estimate.Method)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, c.Estimate.Method)
	}

	if c.Estimate.ZScore < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidZScore, c.Estimate.ZScore)
	}

	if c.Estimate.ZScore == 0 && !(c.Estimate.Confidence > 0 && c.Estimate.Confidence < 1) {
		return fmt.Errorf("%w: %v", ErrInvalidConfidence, c.Estimate.Confidence)
	}

	switch c.Output.Format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Output.Format)
	}

	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		return fmt.Errorf("%w: %d", ErrInvalidPrecision, c.Output.Precision)
	}

	_, err = c.Logging.SlogLevel()
	if err != nil {
		return err
	}

	switch c.Logging.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	return nil
}

// ParsedMethod returns the parsed default method.
func (e EstimateConfig) ParsedMethod() (proportion.Method, error) {
	return proportion.ParseMethod(e.Method)
}

// ResolveZ returns the configured z-score, deriving it from Confidence when
// ZScore is unset.
func (e EstimateConfig) ResolveZ() (float64, error) {
	if e.ZScore > 0 {
		return e.ZScore, nil
	}

	return zscore.ForConfidence(e.Confidence)
}

// SlogLevel parses the configured level name.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level)))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}

	return level, nil
}
