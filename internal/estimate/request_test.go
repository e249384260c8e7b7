package estimate_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/binomci/internal/estimate"
)

func TestDecodeRequest_Valid(t *testing.T) {
	t.Parallel()

	req, err := estimate.DecodeRequest(strings.NewReader(
		`{"size": 20, "successes": 8, "method": "wald", "confidence": 0.9}`,
	))
	require.NoError(t, err)

	assert.InDelta(t, 20.0, req.Size, 0)
	require.NotNil(t, req.Successes)
	assert.InDelta(t, 8.0, *req.Successes, 0)
	assert.Nil(t, req.Proportion)
	assert.Equal(t, "wald", req.Method)
	require.NotNil(t, req.Confidence)
	assert.InDelta(t, 0.9, *req.Confidence, 0)
	assert.Nil(t, req.Z)
}

func TestDecodeRequest_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		mention string
	}{
		{name: "missing_size", input: `{"successes": 1}`, mention: "size"},
		{name: "negative_size", input: `{"size": -1, "successes": 0}`, mention: "size"},
		{name: "proportion_above_one", input: `{"size": 10, "proportion": 1.2}`, mention: "proportion"},
		{name: "unknown_field", input: `{"size": 10, "successes": 1, "alpha": 0.05}`, mention: "alpha"},
		{name: "wrong_type", input: `{"size": "ten", "successes": 1}`, mention: "size"},
		{name: "confidence_one", input: `{"size": 10, "successes": 1, "confidence": 1}`, mention: "confidence"},
		{name: "not_an_object", input: `[1, 2]`, mention: "object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := estimate.DecodeRequest(strings.NewReader(tt.input))
			require.ErrorIs(t, err, estimate.ErrInvalidRequest)
			assert.Contains(t, err.Error(), tt.mention)
		})
	}
}

func TestDecodeRequest_MalformedJSON(t *testing.T) {
	t.Parallel()

	_, err := estimate.DecodeRequest(strings.NewReader(`{"size": `))
	require.ErrorIs(t, err, estimate.ErrInvalidRequest)
}

func TestResult_JSONNonFinite(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(estimate.Result{
		Method: "wald",
		Z:      1.5,
		Lower:  estimate.Float(math.NaN()),
		Upper:  estimate.Float(math.Inf(1)),
		Mean:   0.25,
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Nil(t, decoded["lower"])
	assert.Nil(t, decoded["upper"])
	assert.InDelta(t, 0.25, decoded["mean"], 0)
	assert.InDelta(t, 1.5, decoded["z"], 0)
	assert.NotContains(t, decoded, "successes")
}

func TestZScore(t *testing.T) {
	t.Parallel()

	res, err := estimate.ZScore(0.95)
	require.NoError(t, err)
	assert.InDelta(t, 1.959963984540054, float64(res.Z), 1e-9)
	assert.InDelta(t, 0.95, float64(res.Confidence), 0)

	_, err = estimate.ZScore(0)
	require.ErrorIs(t, err, estimate.ErrInvalidRequest)
}
