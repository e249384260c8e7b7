// Package zscore converts confidence levels into the two-sided standard
// normal multipliers used by the interval estimators.
package zscore

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidConfidence is returned when a confidence level is not in (0, 1).
var ErrInvalidConfidence = errors.New("confidence level must be in (0, 1)")

// Common confidence levels.
const (
	Confidence90 = 0.90
	Confidence95 = 0.95
	Confidence99 = 0.99
)

// ForConfidence returns z such that P(-z <= Z <= z) = level for a standard
// normal Z. ForConfidence(0.95) is approximately 1.959964.
func ForConfidence(level float64) (float64, error) {
	if !(level > 0 && level < 1) {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidConfidence, level)
	}

	return distuv.UnitNormal.Quantile(1 - (1-level)/2), nil
}

// Confidence is the inverse of ForConfidence: the two-sided coverage of z.
// Negative z is treated as its absolute value.
func Confidence(z float64) float64 {
	if z < 0 {
		z = -z
	}

	return 2*distuv.UnitNormal.CDF(z) - 1
}
