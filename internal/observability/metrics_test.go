package observability_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/binomci/internal/observability"
)

func setupTestMeter(t *testing.T) (*observability.REDMetrics, *observability.EstimateMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := mp.Meter("test")

	red, err := observability.NewREDMetrics(meter)
	require.NoError(t, err)

	est, err := observability.NewEstimateMetrics(meter)
	require.NoError(t, err)

	return red, est, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumValue(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestREDMetrics_RecordRequest(t *testing.T) {
	t.Parallel()
	red, _, reader := setupTestMeter(t)
	ctx := context.Background()

	red.RecordRequest(ctx, "cli.estimate", observability.StatusOK, time.Millisecond)

	rm := collectMetrics(t, reader)

	reqTotal := findMetric(rm, "binomci.requests.total")
	require.NotNil(t, reqTotal, "binomci.requests.total metric not found")
	assert.Equal(t, int64(1), sumValue(t, reqTotal))

	reqDuration := findMetric(rm, "binomci.request.duration.seconds")
	require.NotNil(t, reqDuration, "binomci.request.duration.seconds metric not found")

	assert.Nil(t, findMetric(rm, "binomci.errors.total"))
}

func TestREDMetrics_RecordRequestError(t *testing.T) {
	t.Parallel()
	red, _, reader := setupTestMeter(t)
	ctx := context.Background()

	red.RecordRequest(ctx, "mcp.binomial_interval", observability.StatusError, time.Millisecond)

	rm := collectMetrics(t, reader)

	errTotal := findMetric(rm, "binomci.errors.total")
	require.NotNil(t, errTotal, "binomci.errors.total metric not found")
	assert.Equal(t, int64(1), sumValue(t, errTotal))
}

func TestREDMetrics_TrackInflight(t *testing.T) {
	t.Parallel()
	red, _, reader := setupTestMeter(t)
	ctx := context.Background()

	done := red.TrackInflight(ctx, "cli.estimate")

	rm := collectMetrics(t, reader)
	inflight := findMetric(rm, "binomci.inflight.requests")
	require.NotNil(t, inflight)
	assert.Equal(t, int64(1), sumValue(t, inflight))

	done()

	rm = collectMetrics(t, reader)
	assert.Equal(t, int64(0), sumValue(t, findMetric(rm, "binomci.inflight.requests")))
}

func TestEstimateMetrics_RecordInterval(t *testing.T) {
	t.Parallel()
	_, est, reader := setupTestMeter(t)
	ctx := context.Background()

	est.RecordInterval(ctx, "wilson", 0.2, 0.6)
	est.RecordInterval(ctx, "wald", math.NaN(), math.NaN())

	rm := collectMetrics(t, reader)

	total := findMetric(rm, "binomci.estimates.total")
	require.NotNil(t, total)
	assert.Equal(t, int64(2), sumValue(t, total))

	nonFinite := findMetric(rm, "binomci.estimates.nonfinite.total")
	require.NotNil(t, nonFinite)
	assert.Equal(t, int64(1), sumValue(t, nonFinite))

	width := findMetric(rm, "binomci.estimate.interval.width")
	require.NotNil(t, width)

	hist, ok := width.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.InDelta(t, 0.4, hist.DataPoints[0].Sum, 1e-12)
}
