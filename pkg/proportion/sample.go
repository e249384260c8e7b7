package proportion

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a sample parameter lies outside its valid range.
var ErrOutOfRange = errors.New("out of range")

// Sample is a validated trial count paired with its observed Proportion.
// The zero value is not a valid Sample; build one with NewSample,
// FromNSuccesses or FromPHat.
type Sample[N Count, F Real] struct {
	proportion Proportion[N, F]
	size       N
}

// NewSample validates size and proportion and returns the resulting Sample.
func NewSample[N Count, F Real](size N, proportion Proportion[N, F]) (Sample[N, F], error) {
	var zero N

	// Negated comparisons also reject NaN sizes.
	if !(size >= zero) {
		return Sample[N, F]{}, fmt.Errorf("%w: size %v must be non-negative", ErrOutOfRange, size)
	}

	switch proportion.kind {
	case KindNSuccesses:
		if !(proportion.successes >= zero && proportion.successes <= size) {
			return Sample[N, F]{}, fmt.Errorf("%w: number of successes %v is out of range 0..=%v",
				ErrOutOfRange, proportion.successes, size)
		}
	case KindPHat:
		if !(proportion.pHat >= 0 && proportion.pHat <= 1) {
			return Sample[N, F]{}, fmt.Errorf("%w: proportion %v is out of range 0..=1", ErrOutOfRange, proportion.pHat)
		}
	default:
		return Sample[N, F]{}, fmt.Errorf("%w: proportion kind %v is not set", ErrOutOfRange, proportion.kind)
	}

	return Sample[N, F]{size: size, proportion: proportion}, nil
}

// FromNSuccesses builds a Sample of size trials with the given number of successes.
func FromNSuccesses[N Count, F Real](size, successes N) (Sample[N, F], error) {
	return NewSample(size, NSuccesses[N, F](successes))
}

// FromPHat builds a Sample of size trials with an observed proportion in [0, 1].
func FromPHat[N Count, F Real](size N, value F) (Sample[N, F], error) {
	return NewSample(size, PHat[N](value))
}

// Size returns the number of trials.
func (s Sample[N, F]) Size() N {
	return s.size
}

// PHat returns the point estimate of the proportion.
func (s Sample[N, F]) PHat() F {
	return s.proportion.resolve(s.size)
}

// Proportion returns the outcome the sample was built from.
func (s Sample[N, F]) Proportion() Proportion[N, F] {
	return s.proportion
}

// WithPHat returns the same sample expressed as an observed proportion.
func (s Sample[N, F]) WithPHat() Sample[N, F] {
	return Sample[N, F]{size: s.size, proportion: PHat[N](s.PHat())}
}

// sizeReal converts the trial count into the interval's real type.
func (s Sample[N, F]) sizeReal() F {
	return F(s.size)
}
