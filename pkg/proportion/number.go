package proportion

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Count is the trial-count type of a Sample. Integer types cover observed
// trial counts; float types cover derived sizes such as the Agresti-Coull
// adjusted sample size.
type Count interface {
	constraints.Integer | constraints.Float
}

// Real is the real-number type intervals are computed in.
type Real interface {
	constraints.Float
}

func sqrt[F Real](x F) F {
	return F(math.Sqrt(float64(x)))
}
