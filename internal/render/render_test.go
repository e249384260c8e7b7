package render_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/binomci/internal/config"
	"github.com/Sumatoshi-tech/binomci/internal/estimate"
	"github.com/Sumatoshi-tech/binomci/internal/render"
	"github.com/Sumatoshi-tech/binomci/pkg/proportion"
)

const testPrecision = 6

func sampleResult() estimate.Result {
	successes := uint64(350)

	return estimate.Result{
		Method:     "wilson",
		Z:          1.96,
		Confidence: 0.95,
		Size:       2000,
		Kind:       "n_successes",
		Successes:  &successes,
		PHat:       0.175,
		Lower:      0.1589,
		Upper:      0.1924,
		Mean:       0.17565,
		Margin:     0.01675,
	}
}

func opts(format string) render.Options {
	return render.Options{Format: format, Precision: testPrecision}
}

func TestResult_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.Result(&buf, sampleResult(), opts(config.FormatTable)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Binomial proportion interval\n"), out)
	assert.Contains(t, out, "wilson")
	assert.Contains(t, out, "2,000")
	assert.Contains(t, out, "350")
	assert.Contains(t, out, "0.158900")
	assert.Contains(t, out, "0.192400")
	assert.Contains(t, out, "95.0000%")
}

func TestResult_TableLargeSuccesses(t *testing.T) {
	t.Parallel()

	successes := uint64(10_000_000_000_000_000_000)

	res := sampleResult()
	res.Size = 1e19
	res.Successes = &successes

	var buf bytes.Buffer
	require.NoError(t, render.Result(&buf, res, opts(config.FormatTable)))

	out := buf.String()
	assert.Contains(t, out, "10,000,000,000,000,000,000")
	assert.NotContains(t, out, "-8,446,744,073,709,551,616")
}

func TestResult_TableWithoutSuccesses(t *testing.T) {
	t.Parallel()

	res := sampleResult()
	res.Successes = nil
	res.Size = 12.5

	var buf bytes.Buffer
	require.NoError(t, render.Result(&buf, res, render.Options{Precision: 2}))

	out := buf.String()
	assert.NotContains(t, out, "Successes")
	assert.Contains(t, out, "12.5")
	assert.Contains(t, out, "0.16")
}

func TestResult_JSON(t *testing.T) {
	t.Parallel()

	res := sampleResult()
	res.Upper = estimate.Float(math.NaN())

	var buf bytes.Buffer
	require.NoError(t, render.Result(&buf, res, opts(config.FormatJSON)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "wilson", decoded["method"])
	assert.InDelta(t, 0.1589, decoded["lower"], 0)
	assert.Nil(t, decoded["upper"])
	assert.InDelta(t, 350.0, decoded["successes"], 0)
}

func TestResult_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.Result(&buf, sampleResult(), opts(config.FormatYAML)))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "wilson", decoded["method"])
	assert.Equal(t, "n_successes", decoded["kind"])
	assert.InDelta(t, 0.1924, decoded["upper"], 0)
}

func TestResult_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := render.Result(&bytes.Buffer{}, sampleResult(), opts("xml"))
	require.ErrorIs(t, err, render.ErrUnknownFormat)
}

func TestZScore_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.ZScore(&buf, estimate.ZScoreResult{Confidence: 0.99, Z: 2.5758293035489004}, opts("")))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Two-sided z-score\n"), out)
	assert.Contains(t, out, "99.0000%")
	assert.Contains(t, out, "2.575829")
}

func TestMethods(t *testing.T) {
	t.Parallel()

	var table bytes.Buffer
	require.NoError(t, render.Methods(&table, proportion.Methods(), opts(config.FormatTable)))

	assert.True(t, strings.HasPrefix(table.String(), "Interval methods\n"), table.String())

	for _, m := range proportion.Methods() {
		assert.Contains(t, table.String(), m.String())
	}

	var js bytes.Buffer
	require.NoError(t, render.Methods(&js, proportion.Methods(), opts(config.FormatJSON)))

	var infos []render.MethodInfo
	require.NoError(t, json.Unmarshal(js.Bytes(), &infos))
	require.Len(t, infos, len(proportion.Methods()))
	assert.Equal(t, "wald", infos[0].Name)
	assert.NotEmpty(t, infos[0].Description)
}

func TestOptionsFrom(t *testing.T) {
	t.Parallel()

	got := render.OptionsFrom(config.OutputConfig{Format: config.FormatYAML, Precision: 3, Color: true})
	assert.Equal(t, render.Options{Format: config.FormatYAML, Precision: 3, Color: true}, got)
}
