// Package proportion computes confidence intervals for a binomial proportion.
//
// A Sample pairs a trial count with the observed outcome, supplied either as a
// number of successes or as a precomputed proportion. The interval functions
// (Wald, WilsonScore, WilsonScoreWithCC, AgrestiCoull) are pure: they never
// fail on a constructed Sample and never mutate it, so a Sample may be shared
// freely between goroutines.
//
// Degenerate inputs are left to IEEE-754 semantics. A success-count sample of
// size zero yields a NaN p-hat and the formulas propagate it. So does the zero
// Sample value, whose proportion is unset.
package proportion

import (
	"fmt"
	"math"
)

// Kind identifies which variant a Proportion holds.
type Kind uint8

// Proportion variants.
const (
	// KindNSuccesses is a success count out of the sample size.
	KindNSuccesses Kind = iota + 1
	// KindPHat is a directly observed proportion in [0, 1].
	KindPHat
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindNSuccesses:
		return "n_successes"
	case KindPHat:
		return "p_hat"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Proportion describes the observed outcome of a sample. Exactly one of the
// variants is set; use NSuccesses or PHat to build one.
type Proportion[N Count, F Real] struct {
	successes N
	pHat      F
	kind      Kind
}

// NSuccesses builds a Proportion from a success count.
func NSuccesses[N Count, F Real](successes N) Proportion[N, F] {
	return Proportion[N, F]{kind: KindNSuccesses, successes: successes}
}

// PHat builds a Proportion from an observed proportion. The value is checked
// when the Proportion is attached to a Sample.
func PHat[N Count, F Real](value F) Proportion[N, F] {
	return Proportion[N, F]{kind: KindPHat, pHat: value}
}

// Kind reports which variant is set.
func (p Proportion[N, F]) Kind() Kind {
	return p.kind
}

// Successes returns the success count and whether the variant is KindNSuccesses.
func (p Proportion[N, F]) Successes() (N, bool) {
	return p.successes, p.kind == KindNSuccesses
}

// Value returns the proportion and whether the variant is KindPHat.
func (p Proportion[N, F]) Value() (F, bool) {
	return p.pHat, p.kind == KindPHat
}

// resolve returns the point estimate for a sample of the given size. An unset
// proportion resolves to NaN.
func (p Proportion[N, F]) resolve(size N) F {
	switch p.kind {
	case KindNSuccesses:
		return F(p.successes) / F(size)
	case KindPHat:
		return p.pHat
	default:
		return F(math.NaN())
	}
}
