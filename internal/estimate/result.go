package estimate

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Sumatoshi-tech/binomci/pkg/zscore"
)

// Float is a float64 whose JSON form is null when it is NaN or infinite.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}

	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// Finite reports whether f is neither NaN nor infinite.
func (f Float) Finite() bool {
	v := float64(f)

	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Result is one computed interval together with the inputs that produced it.
type Result struct {
	Method     string  `json:"method"              yaml:"method"`
	Z          Float   `json:"z"                   yaml:"z"`
	Confidence Float   `json:"confidence"          yaml:"confidence"`
	Size       Float   `json:"size"                yaml:"size"`
	Kind       string  `json:"kind"                yaml:"kind"`
	Successes  *uint64 `json:"successes,omitempty" yaml:"successes,omitempty"`
	PHat       Float   `json:"p_hat"               yaml:"p_hat"`
	Lower      Float   `json:"lower"               yaml:"lower"`
	Upper      Float   `json:"upper"               yaml:"upper"`
	Mean       Float   `json:"mean"                yaml:"mean"`
	Margin     Float   `json:"margin"              yaml:"margin"`
}

// ZScoreResult pairs a two-sided confidence level with its z-score.
type ZScoreResult struct {
	Confidence Float `json:"confidence" yaml:"confidence"`
	Z          Float `json:"z"          yaml:"z"`
}

// ZScore returns the z-score for a two-sided confidence level in (0, 1).
func ZScore(confidence float64) (ZScoreResult, error) {
	z, err := zscore.ForConfidence(confidence)
	if err != nil {
		return ZScoreResult{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return ZScoreResult{Confidence: Float(confidence), Z: Float(z)}, nil
}
