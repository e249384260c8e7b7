package proportion

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMethod is returned when a method name does not match any estimator.
var ErrUnknownMethod = errors.New("unknown interval method")

// Method selects one of the interval estimators.
type Method uint8

// Interval methods.
const (
	// MethodWald is the normal approximation interval.
	MethodWald Method = iota + 1
	// MethodWilson is the Wilson score interval.
	MethodWilson
	// MethodWilsonCC is the Wilson score interval with continuity correction.
	MethodWilsonCC
	// MethodAgrestiCoull is the Agresti-Coull interval.
	MethodAgrestiCoull
)

var methodNames = map[Method]string{
	MethodWald:         "wald",
	MethodWilson:       "wilson",
	MethodWilsonCC:     "wilson-cc",
	MethodAgrestiCoull: "agresti-coull",
}

var methodDescriptions = map[Method]string{
	MethodWald:         "Normal approximation; simplest, poor coverage for small n or p̂ near 0 or 1",
	MethodWilson:       "Wilson score; good coverage near the boundaries and for small n",
	MethodWilsonCC:     "Wilson score with continuity correction; conservative, accounts for discreteness",
	MethodAgrestiCoull: "Agresti-Coull; Wald shape over the Wilson-adjusted sample",
}

// Methods returns every method in declaration order.
func Methods() []Method {
	return []Method{MethodWald, MethodWilson, MethodWilsonCC, MethodAgrestiCoull}
}

// ParseMethod resolves a method by name, case-insensitively. Underscores are
// accepted in place of dashes.
func ParseMethod(name string) (Method, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")

	for method, methodName := range methodNames {
		if methodName == normalized {
			return method, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// String returns the method name accepted by ParseMethod.
func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}

	return fmt.Sprintf("Method(%d)", uint8(m))
}

// Description returns a one-line summary of the method.
func (m Method) Description() string {
	return methodDescriptions[m]
}

// Estimate computes the interval for sample with the given method.
func Estimate[N Count, F Real](method Method, sample Sample[N, F], z F) (Interval[F], error) {
	switch method {
	case MethodWald:
		return Wald(sample, z), nil
	case MethodWilson:
		return WilsonScore(sample, z), nil
	case MethodWilsonCC:
		return WilsonScoreWithCC(sample, z), nil
	case MethodAgrestiCoull:
		return AgrestiCoull(sample, z), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, method)
	}
}
