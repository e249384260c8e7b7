// Package estimate turns loosely typed requests into binomial proportion
// confidence intervals. It is shared by the CLI and the MCP server.
package estimate

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/binomci/internal/config"
	"github.com/Sumatoshi-tech/binomci/internal/observability"
	"github.com/Sumatoshi-tech/binomci/pkg/proportion"
	"github.com/Sumatoshi-tech/binomci/pkg/zscore"
)

const (
	opEstimate   = "estimate"
	spanEstimate = "binomci.estimate"

	// maxCount is the first float64 that does not fit in a uint64.
	maxCount float64 = 1 << 64
)

// Defaults fill in the parts of a Request the caller left out.
type Defaults struct {
	Method proportion.Method
	Z      float64
}

// Deps holds the optional observability dependencies of a Service.
type Deps struct {
	Logger  *slog.Logger
	Tracer  trace.Tracer
	RED     *observability.REDMetrics
	Metrics *observability.EstimateMetrics
}

// Service computes intervals for requests.
type Service struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	red      *observability.REDMetrics
	metrics  *observability.EstimateMetrics
	defaults Defaults
}

// NewService creates a Service. Nil dependencies are replaced with no-ops.
func NewService(deps Deps, defaults Defaults) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tracer := deps.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	return &Service{
		logger:   logger,
		tracer:   tracer,
		red:      deps.RED,
		metrics:  deps.Metrics,
		defaults: defaults,
	}
}

// Estimate computes the interval described by req.
func (s *Service) Estimate(ctx context.Context, req Request) (Result, error) {
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, spanEstimate)
	defer span.End()

	if s.red != nil {
		done := s.red.TrackInflight(ctx, opEstimate)
		defer done()
	}

	res, err := s.estimate(req)

	status := observability.StatusOK
	if err != nil {
		status = observability.StatusError
	}

	if s.red != nil {
		s.red.RecordRequest(ctx, opEstimate, status, time.Since(start))
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "estimate.failed", "error", err)

		return Result{}, err
	}

	span.SetAttributes(
		attribute.String("estimate.method", res.Method),
		attribute.String("estimate.kind", res.Kind),
		attribute.Float64("estimate.z", float64(res.Z)),
	)

	if s.metrics != nil {
		s.metrics.RecordInterval(ctx, res.Method, float64(res.Lower), float64(res.Upper))
	}

	ctx = observability.WithEstimate(ctx, res.Method, float64(res.Z))

	s.logger.DebugContext(ctx, "estimate.done",
		"size", float64(res.Size),
		"p_hat", float64(res.PHat),
		"lower", float64(res.Lower),
		"upper", float64(res.Upper),
	)

	return res, nil
}

func (s *Service) estimate(req Request) (Result, error) {
	method, err := s.resolveMethod(req.Method)
	if err != nil {
		return Result{}, err
	}

	z, confidence, err := s.resolveZ(req)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Method:     method.String(),
		Z:          Float(z),
		Confidence: Float(confidence),
		Size:       Float(req.Size),
	}

	switch {
	case req.Successes != nil && req.Proportion != nil:
		return Result{}, ErrAmbiguousProportion
	case req.Successes != nil:
		size, successes, err := counts(req.Size, *req.Successes)
		if err != nil {
			return Result{}, err
		}

		sample, err := proportion.FromNSuccesses[uint64, float64](size, successes)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}

		res.Successes = &successes

		return fill(res, method, sample, z)
	case req.Proportion != nil:
		sample, err := proportion.FromPHat(req.Size, *req.Proportion)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}

		return fill(res, method, sample, z)
	default:
		return Result{}, ErrMissingProportion
	}
}

func (s *Service) resolveMethod(name string) (proportion.Method, error) {
	if name == "" {
		return s.defaults.Method, nil
	}

	method, err := proportion.ParseMethod(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return method, nil
}

// resolveZ returns the z-score and the two-sided confidence level it stands for.
func (s *Service) resolveZ(req Request) (z, confidence float64, err error) {
	switch {
	case req.Z != nil && req.Confidence != nil:
		return 0, 0, fmt.Errorf("%w: z and confidence are mutually exclusive", ErrInvalidRequest)
	case req.Z != nil:
		z = *req.Z
		if !(z >= 0) || math.IsInf(z, 0) {
			return 0, 0, fmt.Errorf("%w: z %v must be a finite non-negative number", ErrInvalidRequest, z)
		}

		return z, zscore.Confidence(z), nil
	case req.Confidence != nil:
		z, err = zscore.ForConfidence(*req.Confidence)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}

		return z, *req.Confidence, nil
	default:
		return s.defaults.Z, zscore.Confidence(s.defaults.Z), nil
	}
}

// counts converts whole-number size and successes to unsigned counts.
func counts(size, successes float64) (n, k uint64, err error) {
	for _, v := range []struct {
		name  string
		value float64
	}{{"size", size}, {"successes", successes}} {
		if !(v.value >= 0) || v.value >= maxCount || v.value != math.Trunc(v.value) {
			return 0, 0, fmt.Errorf("%w: %s %v must be a whole non-negative number", ErrInvalidRequest, v.name, v.value)
		}
	}

	return uint64(size), uint64(successes), nil
}

func fill[N proportion.Count](
	res Result, method proportion.Method, sample proportion.Sample[N, float64], z float64,
) (Result, error) {
	iv, err := proportion.Estimate(method, sample, z)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	lower, upper := iv.Bounds()

	res.Kind = sample.Proportion().Kind().String()
	res.PHat = Float(sample.PHat())
	res.Lower = Float(lower)
	res.Upper = Float(upper)
	res.Mean = Float(iv.Mean())
	res.Margin = Float(iv.Margin())

	return res, nil
}

// DefaultsFrom derives service defaults from the estimate configuration section.
func DefaultsFrom(cfg config.EstimateConfig) (Defaults, error) {
	method, err := cfg.ParsedMethod()
	if err != nil {
		return Defaults{}, err
	}

	z, err := cfg.ResolveZ()
	if err != nil {
		return Defaults{}, err
	}

	return Defaults{Method: method, Z: z}, nil
}
