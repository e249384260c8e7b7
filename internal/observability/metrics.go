package observability

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRequestsTotal    = "binomci.requests.total"
	metricRequestDuration  = "binomci.request.duration.seconds"
	metricErrorsTotal      = "binomci.errors.total"
	metricInflightRequests = "binomci.inflight.requests"

	metricEstimatesTotal    = "binomci.estimates.total"
	metricIntervalWidth     = "binomci.estimate.interval.width"
	metricNonFiniteEstimate = "binomci.estimates.nonfinite.total"

	attrOp     = "op"
	attrStatus = "status"
	attrMethod = "method"

	// StatusOK marks a request that completed without error.
	StatusOK = "ok"
	// StatusError marks a failed request.
	StatusError = "error"
)

// durationBucketBoundaries covers 10µs to 1s; a single estimate is pure arithmetic.
var durationBucketBoundaries = []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

// widthBucketBoundaries spans interval widths on the unit proportion scale.
var widthBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.2, 0.3, 0.5, 0.75, 1}

// REDMetrics holds the OTel instruments for Rate, Error, Duration metrics.
type REDMetrics struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorsTotal      metric.Int64Counter
	inflightRequests metric.Int64UpDownCounter
}

// NewREDMetrics creates RED metric instruments from the given meter.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	reqTotal, err := mt.Int64Counter(metricRequestsTotal,
		metric.WithDescription("Total number of requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestsTotal, err)
	}

	reqDuration, err := mt.Float64Histogram(metricRequestDuration,
		metric.WithDescription("Request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestDuration, err)
	}

	errTotal, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Total number of errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricInflightRequests,
		metric.WithDescription("Number of in-flight requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightRequests, err)
	}

	return &REDMetrics{
		requestsTotal:    reqTotal,
		requestDuration:  reqDuration,
		errorsTotal:      errTotal,
		inflightRequests: inflight,
	}, nil
}

// RecordRequest records a completed request with its operation, status, and duration.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requestsTotal.Add(ctx, 1, attrs)
	rm.requestDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrOp, op),
		))
	}
}

// TrackInflight increments the in-flight gauge and returns a function to decrement it.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightRequests.Add(ctx, 1, attrs)

	return func() {
		rm.inflightRequests.Add(ctx, -1, attrs)
	}
}

// EstimateMetrics records what the estimators produce, per method.
type EstimateMetrics struct {
	estimatesTotal metric.Int64Counter
	intervalWidth  metric.Float64Histogram
	nonFinite      metric.Int64Counter
}

// NewEstimateMetrics creates the estimate instruments from the given meter.
func NewEstimateMetrics(mt metric.Meter) (*EstimateMetrics, error) {
	total, err := mt.Int64Counter(metricEstimatesTotal,
		metric.WithDescription("Total number of computed intervals"),
		metric.WithUnit("{interval}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricEstimatesTotal, err)
	}

	width, err := mt.Float64Histogram(metricIntervalWidth,
		metric.WithDescription("Width of computed intervals (upper minus lower)"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(widthBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricIntervalWidth, err)
	}

	nonFinite, err := mt.Int64Counter(metricNonFiniteEstimate,
		metric.WithDescription("Intervals with a NaN or infinite bound"),
		metric.WithUnit("{interval}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricNonFiniteEstimate, err)
	}

	return &EstimateMetrics{
		estimatesTotal: total,
		intervalWidth:  width,
		nonFinite:      nonFinite,
	}, nil
}

// RecordInterval records one computed interval. Non-finite intervals are
// counted separately and kept out of the width histogram.
func (em *EstimateMetrics) RecordInterval(ctx context.Context, method string, lower, upper float64) {
	attrs := metric.WithAttributes(attribute.String(attrMethod, method))

	em.estimatesTotal.Add(ctx, 1, attrs)

	width := upper - lower
	if math.IsNaN(width) || math.IsInf(width, 0) {
		em.nonFinite.Add(ctx, 1, attrs)

		return
	}

	em.intervalWidth.Record(ctx, width, attrs)
}
