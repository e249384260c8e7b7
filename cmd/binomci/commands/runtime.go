package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/binomci/internal/config"
	"github.com/Sumatoshi-tech/binomci/internal/estimate"
	"github.com/Sumatoshi-tech/binomci/internal/observability"
	"github.com/Sumatoshi-tech/binomci/internal/render"
	"github.com/Sumatoshi-tech/binomci/pkg/version"
)

// Standard OTel environment variables, honored when the config leaves telemetry unset.
const (
	envOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOTLPHeaders  = "OTEL_EXPORTER_OTLP_HEADERS"
	envOTLPInsecure = "OTEL_EXPORTER_OTLP_INSECURE"
)

const (
	cliOpPrefix = "cli."
	spanPrefix  = "binomci."
)

// runtime is everything a command needs after config and telemetry are set up.
type runtime struct {
	cfg       *config.Config
	providers observability.Providers
	red       *observability.REDMetrics
	estimator *estimate.Service
	output    render.Options
}

type runtimeOptions struct {
	mode       observability.AppMode
	prometheus bool
	debug      bool
}

// loadConfig reads the config file and environment, then applies the output flags.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	applyOutputFlags(cfg, opts)

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func newRuntime(cmd *cobra.Command, opts *rootOptions, ropts runtimeOptions) (*runtime, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	return newRuntimeFrom(cmd, cfg, ropts)
}

func newRuntimeFrom(cmd *cobra.Command, cfg *config.Config, ropts runtimeOptions) (*runtime, error) {
	obsCfg, err := observabilityConfig(cfg, ropts)
	if err != nil {
		return nil, err
	}

	providers, err := observability.InitWithWriter(obsCfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	red, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return nil, shutdownAfter(providers, err)
	}

	metrics, err := observability.NewEstimateMetrics(providers.Meter)
	if err != nil {
		return nil, shutdownAfter(providers, err)
	}

	defaults, err := estimate.DefaultsFrom(cfg.Estimate)
	if err != nil {
		return nil, shutdownAfter(providers, err)
	}

	estimator := estimate.NewService(estimate.Deps{
		Logger:  providers.Logger,
		Tracer:  providers.Tracer,
		RED:     red,
		Metrics: metrics,
	}, defaults)

	return &runtime{
		cfg:       cfg,
		providers: providers,
		red:       red,
		estimator: estimator,
		output:    render.OptionsFrom(cfg.Output),
	}, nil
}

// close flushes telemetry. Failures are logged, not returned.
func (rt *runtime) close() {
	err := rt.providers.Shutdown(context.Background())
	if err != nil {
		rt.providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}

// run executes fn as one traced and measured CLI operation.
func (rt *runtime) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	op = cliOpPrefix + op

	ctx, span := rt.providers.Tracer.Start(ctx, spanPrefix+op)
	defer span.End()

	done := rt.red.TrackInflight(ctx, op)
	err := fn(ctx)

	done()

	status := observability.StatusOK
	if err != nil {
		status = observability.StatusError

		span.RecordError(err)
	}

	rt.red.RecordRequest(ctx, op, status, time.Since(start))

	return err
}

func shutdownAfter(providers observability.Providers, cause error) error {
	_ = providers.Shutdown(context.Background())

	return cause
}

func applyOutputFlags(cfg *config.Config, opts *rootOptions) {
	if opts.format != "" {
		cfg.Output.Format = opts.format
	}

	if opts.precision >= 0 {
		cfg.Output.Precision = opts.precision
	}

	if opts.noColor {
		cfg.Output.Color = false
	}
}

func observabilityConfig(cfg *config.Config, ropts runtimeOptions) (observability.Config, error) {
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return observability.Config{}, err
	}

	defaults, err := estimate.DefaultsFrom(cfg.Estimate)
	if err != nil {
		return observability.Config{}, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.DefaultMethod = defaults.Method.String()
	obsCfg.DefaultZ = defaults.Z
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.Mode = ropts.mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.Prometheus = ropts.prometheus
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.Format == config.LogFormatJSON || ropts.mode == observability.ModeMCP

	if obsCfg.OTLPEndpoint == "" {
		obsCfg.OTLPEndpoint = os.Getenv(envOTLPEndpoint)
		obsCfg.OTLPInsecure = obsCfg.OTLPInsecure || os.Getenv(envOTLPInsecure) == "true"
	}

	if obsCfg.OTLPHeaders == nil {
		obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv(envOTLPHeaders))
	}

	if ropts.debug {
		obsCfg.LogLevel = slog.LevelDebug
		obsCfg.DebugTrace = true
	}

	return obsCfg, nil
}
