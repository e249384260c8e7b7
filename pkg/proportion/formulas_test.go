package proportion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSuccesses(t *testing.T, size, successes uint32) Sample[uint32, float64] {
	t.Helper()

	sample, err := FromNSuccesses[uint32, float64](size, successes)
	require.NoError(t, err)

	return sample
}

func mustPHat(t *testing.T, size uint32, pHat float64) Sample[uint32, float64] {
	t.Helper()

	sample, err := FromPHat(size, pHat)
	require.NoError(t, err)

	return sample
}

// TestWilsonScore_Bounds verifies the Wilson interval for 8 of 20.
func TestWilsonScore_Bounds(t *testing.T) {
	t.Parallel()

	iv := WilsonScore(mustSuccesses(t, testSize20, testSuccesses8), 1.960)

	assert.InDelta(t, 0.2188039674141927, iv.Lower(), testDelta)
	assert.InDelta(t, 0.613422057684794, iv.Upper(), testDelta)
}

// TestWilsonScore_MeanMargin verifies the Wilson interval for 10 of 20.
func TestWilsonScore_MeanMargin(t *testing.T) {
	t.Parallel()

	iv := WilsonScore(mustSuccesses(t, testSize20, testSuccesses10), testZ196)

	assert.InDelta(t, 0.5, iv.Mean(), testDelta)
	assert.InDelta(t, 0.20070508557018008, iv.Margin(), testDelta)
}

// TestWilsonScore_LargerSample verifies the Wilson bounds for 35 of 200.
func TestWilsonScore_LargerSample(t *testing.T) {
	t.Parallel()

	iv := WilsonScore(mustSuccesses(t, 200, 35), testZ196)

	assert.InDelta(t, 0.12860441174608936, iv.Lower(), testDelta)
	assert.InDelta(t, 0.23364549210081922, iv.Upper(), testDelta)
}

// TestWilsonScoreWithCC_Bounds verifies the corrected interval for p-hat 0.4 of 20.
func TestWilsonScoreWithCC_Bounds(t *testing.T) {
	t.Parallel()

	iv := WilsonScoreWithCC(mustPHat(t, testSize20, testPHat04), 1.960)

	assert.InDelta(t, 0.19976843301470645, iv.Lower(), testDelta)
	assert.InDelta(t, 0.6358867106798909, iv.Upper(), testDelta)
}

// TestWilsonScoreWithCC_Clamped verifies the corrected p-hat is clamped at the boundaries.
func TestWilsonScoreWithCC_Clamped(t *testing.T) {
	t.Parallel()

	none := WilsonScoreWithCC(mustSuccesses(t, 10, 0), testZ196)
	assert.InDelta(t, 0, none.Lower(), testDelta)
	assert.InDelta(t, 0.34454400708127325, none.Upper(), testDelta)

	all := WilsonScoreWithCC(mustSuccesses(t, 10, 10), testZ196)
	assert.InDelta(t, 0.6554559929187267, all.Lower(), testDelta)
	assert.InDelta(t, 1, all.Upper(), testDelta)
}

// TestWilsonScoreWithCC_WiderThanPlain verifies the correction only widens the interval.
func TestWilsonScoreWithCC_WiderThanPlain(t *testing.T) {
	t.Parallel()

	sample := mustPHat(t, testSize20, testPHat04)
	plain := WilsonScore(sample, testZ196)
	corrected := WilsonScoreWithCC(sample, testZ196)

	assert.Less(t, corrected.Lower(), plain.Lower())
	assert.Greater(t, corrected.Upper(), plain.Upper())
}

// TestWald verifies the normal approximation interval.
func TestWald(t *testing.T) {
	t.Parallel()

	iv := Wald(mustPHat(t, testSize20, testPHat04), testZ196)
	assert.InDelta(t, testPHat04, iv.Mean(), testDelta)
	assert.InDelta(t, 0.2147072425420251, iv.Margin(), testDelta)

	half := Wald(mustSuccesses(t, 100, 50), testZ196)
	assert.InDelta(t, 0.5, half.Mean(), testDelta)
	assert.InDelta(t, 0.098, half.Margin(), testDelta)
}

// TestWald_ZeroZ verifies a zero z-score collapses the interval onto p-hat.
func TestWald_ZeroZ(t *testing.T) {
	t.Parallel()

	sample := mustSuccesses(t, testSize20, testSuccesses8)
	iv := Wald(sample, 0)

	assert.Zero(t, iv.Margin())
	assert.InDelta(t, sample.PHat(), iv.Mean(), testDelta)
}

// TestAgrestiCoull verifies the adjusted Wald interval.
func TestAgrestiCoull(t *testing.T) {
	t.Parallel()

	sample := mustSuccesses(t, testSize20, testSuccesses8)
	iv := AgrestiCoull(sample, testZ196)

	assert.InDelta(t, 0.41611301254949334, iv.Mean(), testDelta)
	assert.InDelta(t, 0.19786018898284943, iv.Margin(), testDelta)
	assert.InDelta(t, WilsonScore(sample, testZ196).Mean(), iv.Mean(), testDelta)

	// p̃ equals the textbook (k + z²/2) / (n + z²).
	zSquared := testZ196 * testZ196
	assert.InDelta(t, (testSuccesses8+zSquared/2)/(testSize20+zSquared), iv.Mean(), testDelta)
}

// TestAgrestiCoull_ZeroSuccesses verifies the interval may extend below zero.
func TestAgrestiCoull_ZeroSuccesses(t *testing.T) {
	t.Parallel()

	iv := AgrestiCoull(mustSuccesses(t, 10, 0), testZ196)

	assert.InDelta(t, 0.13877008438330826, iv.Mean(), testDelta)
	assert.InDelta(t, 0.1821253518194425, iv.Margin(), testDelta)
	assert.Negative(t, iv.Lower())
}

// TestFormulas_EmptySample verifies non-finite results are propagated, not reported as errors.
func TestFormulas_EmptySample(t *testing.T) {
	t.Parallel()

	sample := mustSuccesses(t, 0, 0)

	for _, method := range Methods() {
		iv, err := Estimate(method, sample, testZ196)
		require.NoError(t, err)

		lower, upper := iv.Bounds()
		assert.True(t, math.IsNaN(lower) || math.IsInf(lower, 0), "%s lower", method)
		assert.True(t, math.IsNaN(upper) || math.IsInf(upper, 0), "%s upper", method)
	}
}

// TestFormulas_Float32 verifies the formulas work in single precision.
func TestFormulas_Float32(t *testing.T) {
	t.Parallel()

	sample, err := FromNSuccesses[uint16, float32](testSize20, testSuccesses10)
	require.NoError(t, err)

	iv := WilsonScore(sample, float32(testZ196))
	assert.InDelta(t, 0.5, float64(iv.Mean()), 1e-6)
	assert.InDelta(t, 0.20070508557018008, float64(iv.Margin()), 1e-6)
}
