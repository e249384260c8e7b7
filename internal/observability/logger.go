package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID        = "trace_id"
	attrSpanID         = "span_id"
	attrService        = "service"
	attrVersion        = "version"
	attrEnv            = "env"
	attrMode           = "mode"
	attrEstimateMethod = "estimate.method"
	attrZ              = "estimate.z"
)

type estimateKey struct{}

type estimateScope struct {
	method string
	z      float64
}

// WithEstimate returns a context whose log records carry the interval method
// and z-score of the estimate being computed.
func WithEstimate(ctx context.Context, method string, z float64) context.Context {
	return context.WithValue(ctx, estimateKey{}, estimateScope{method: method, z: z})
}

// TracingHandler is an [slog.Handler] that stamps each record with the
// process identity, the active trace and span IDs, and the estimate scope
// set by WithEstimate. Identity attributes stay top level under groups.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner with the identity described by cfg.
func NewTracingHandler(inner slog.Handler, cfg Config) *TracingHandler {
	attrs := []slog.Attr{
		slog.String(attrService, cfg.ServiceName),
		slog.String(attrMode, string(cfg.Mode)),
	}

	if cfg.ServiceVersion != "" {
		attrs = append(attrs, slog.String(attrVersion, cfg.ServiceVersion))
	}

	if cfg.Environment != "" {
		attrs = append(attrs, slog.String(attrEnv, cfg.Environment))
	}

	return &TracingHandler{inner: inner.WithAttrs(attrs)}
}

// Enabled delegates to the inner handler.
func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

// Handle adds the trace and estimate attributes found on ctx.
func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	if scope, ok := ctx.Value(estimateKey{}).(estimateScope); ok {
		record.AddAttrs(slog.String(attrEstimateMethod, scope.method), slog.Float64(attrZ, scope.z))
	}

	err := th.inner.Handle(ctx, record)
	if err != nil {
		return fmt.Errorf("tracing handler: %w", err)
	}

	return nil
}

// WithAttrs implements [slog.Handler].
func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: th.inner.WithAttrs(attrs)}
}

// WithGroup implements [slog.Handler].
func (th *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: th.inner.WithGroup(name)}
}

// NewLogger returns a text or JSON logger writing to w at cfg.LogLevel.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var inner slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.LogJSON {
		inner = slog.NewJSONHandler(w, opts)
	}

	return slog.New(NewTracingHandler(inner, cfg))
}
