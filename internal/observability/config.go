// Package observability wires tracing, metrics, and structured logs for
// binomci. Without an OTLP endpoint or a Prometheus reader, tracing and
// metrics run on no-op providers.
package observability

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid observability config")

// AppMode is the surface an estimate was requested through.
type AppMode string

const (
	// ModeCLI is a one-shot estimate, zscore, or methods command.
	ModeCLI AppMode = "cli"
	// ModeMCP is the long-running MCP stdio server.
	ModeMCP AppMode = "mcp"
)

const (
	defaultServiceName        = "binomci"
	defaultMethod             = "wilson"
	defaultZ                  = 1.96
	defaultShutdownTimeoutSec = 5
)

// Config describes how a binomci process reports the intervals it computes.
type Config struct {
	// ServiceName, ServiceVersion, Environment and Mode identify the process
	// on the OTel resource and on every log record.
	ServiceName    string
	ServiceVersion string
	Environment    string
	Mode           AppMode

	// DefaultMethod and DefaultZ are the estimator defaults the process
	// started with. They are recorded on the OTel resource.
	DefaultMethod string
	DefaultZ      float64

	// OTLPEndpoint is the gRPC collector address. Empty disables OTLP export.
	OTLPEndpoint string
	OTLPHeaders  map[string]string
	OTLPInsecure bool

	// Prometheus adds a scrape reader, served by Providers.MetricsHandler.
	Prometheus bool

	// DebugTrace samples every estimate. Otherwise SampleRatio applies, and
	// zero keeps the SDK default.
	DebugTrace  bool
	SampleRatio float64

	LogLevel slog.Level
	LogJSON  bool

	// ShutdownTimeoutSec bounds the final flush. Zero uses the default.
	ShutdownTimeoutSec int
}

// DefaultConfig returns the configuration of a CLI run with no exporters.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		DefaultMethod:      defaultMethod,
		DefaultZ:           defaultZ,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

// Validate reports an unknown mode, a sample ratio outside [0, 1], a negative
// or non-finite default z, or a negative shutdown timeout.
func (c Config) Validate() error {
	switch {
	case c.Mode != "" && c.Mode != ModeCLI && c.Mode != ModeMCP:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	case !(c.SampleRatio >= 0 && c.SampleRatio <= 1):
		return fmt.Errorf("%w: sample ratio %v is out of range 0..=1", ErrInvalidConfig, c.SampleRatio)
	case !(c.DefaultZ >= 0) || math.IsInf(c.DefaultZ, 1):
		return fmt.Errorf("%w: default z %v must be finite and non-negative", ErrInvalidConfig, c.DefaultZ)
	case c.ShutdownTimeoutSec < 0:
		return fmt.Errorf("%w: shutdown timeout %ds is negative", ErrInvalidConfig, c.ShutdownTimeoutSec)
	default:
		return nil
	}
}
