package proportion

import "fmt"

// Interval is a numeric range that can be read in either center/margin or
// lower/upper form.
//
// Implementations are not comparable: applying == to two Interval values
// panics at run time. Use Equal, which never reports equality, or Compare.
type Interval[F Real] interface {
	// Mean returns the midpoint of the interval.
	Mean() F
	// Margin returns the half-width of the interval.
	Margin() F
	// Lower returns the lower bound.
	Lower() F
	// Upper returns the upper bound.
	Upper() F
	// Bounds returns the lower and upper bounds.
	Bounds() (F, F)
	// Contains reports whether lower <= point <= upper.
	Contains(point F) bool
	// Equal always reports false.
	Equal(other any) bool
	// Compare orders the interval against other.
	Compare(other Interval[F]) Ordering
	// ComparePoint orders the interval against a single value.
	ComparePoint(point F) Ordering
}

// Ordering is the result of comparing two intervals, or an interval and a
// point. Intervals are only partially ordered: any overlap is Incomparable.
type Ordering int8

// Ordering values.
const (
	// Incomparable means the ranges overlap or touch.
	Incomparable Ordering = iota
	// Less means the left range lies strictly below the right one.
	Less
	// Greater means the left range lies strictly above the right one.
	Greater
)

// String returns the ordering name.
func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Greater:
		return "greater"
	case Incomparable:
		return "incomparable"
	default:
		return fmt.Sprintf("Ordering(%d)", int8(o))
	}
}

var (
	_ Interval[float64] = CenterMargin[float64]{}
	_ Interval[float64] = LowerUpper[float64]{}
)

// noCompare makes the interval structs non-comparable, so == does not compile.
type noCompare [0]func()

// Compare orders a against b. a is Less when its upper bound is below b's
// lower bound and Greater when its lower bound is above b's upper bound.
func Compare[F Real](a, b Interval[F]) Ordering {
	return compareBounds(a.Lower(), a.Upper(), b.Lower(), b.Upper())
}

// ComparePoint orders an interval against a single value with the same rule
// as Compare, treating point as the degenerate range [point, point].
func ComparePoint[F Real](a Interval[F], point F) Ordering {
	return compareBounds(a.Lower(), a.Upper(), point, point)
}

func compareBounds[F Real](lower, upper, otherLower, otherUpper F) Ordering {
	switch {
	case upper < otherLower:
		return Less
	case lower > otherUpper:
		return Greater
	default:
		return Incomparable
	}
}

const two = 2

// CenterMargin is an interval stored as its mean and margin.
type CenterMargin[F Real] struct {
	_      noCompare
	mean   F
	margin F
}

// NewCenterMargin returns the interval mean ± margin. The sign of margin is not checked.
func NewCenterMargin[F Real](mean, margin F) CenterMargin[F] {
	return CenterMargin[F]{mean: mean, margin: margin}
}

// Mean returns the interval's mean.
func (c CenterMargin[F]) Mean() F { return c.mean }

// Margin returns the interval's margin.
func (c CenterMargin[F]) Margin() F { return c.margin }

// Lower returns mean - margin.
func (c CenterMargin[F]) Lower() F { return c.mean - c.margin }

// Upper returns mean + margin.
func (c CenterMargin[F]) Upper() F { return c.mean + c.margin }

// Bounds returns (Lower, Upper).
func (c CenterMargin[F]) Bounds() (F, F) { return c.Lower(), c.Upper() }

// Contains reports whether point lies in the closed interval.
func (c CenterMargin[F]) Contains(point F) bool {
	return point >= c.Lower() && point <= c.Upper()
}

// LowerUpper converts the interval to bound form.
func (c CenterMargin[F]) LowerUpper() LowerUpper[F] {
	return NewLowerUpper(c.Lower(), c.Upper())
}

// Add shifts the mean by shift. The margin is unchanged.
func (c CenterMargin[F]) Add(shift F) CenterMargin[F] {
	return NewCenterMargin(c.mean+shift, c.margin)
}

// Scale multiplies mean and margin by factor. A negative factor yields a
// negative margin.
func (c CenterMargin[F]) Scale(factor F) CenterMargin[F] {
	return NewCenterMargin(c.mean*factor, c.margin*factor)
}

// Equal always reports false: an interval is a range, not a value, and is
// never equal to another interval or to a point.
func (c CenterMargin[F]) Equal(_ any) bool { return false }

// Compare orders c against other. See Compare.
func (c CenterMargin[F]) Compare(other Interval[F]) Ordering { return Compare[F](c, other) }

// ComparePoint orders c against point. See ComparePoint.
func (c CenterMargin[F]) ComparePoint(point F) Ordering { return ComparePoint[F](c, point) }

func (c CenterMargin[F]) String() string {
	return fmt.Sprintf("%v ± %v", c.mean, c.margin)
}

// LowerUpper is an interval stored as its bounds.
type LowerUpper[F Real] struct {
	_     noCompare
	lower F
	upper F
}

// NewLowerUpper returns the interval [lower, upper]. Ordering of the bounds is not checked.
func NewLowerUpper[F Real](lower, upper F) LowerUpper[F] {
	return LowerUpper[F]{lower: lower, upper: upper}
}

// Mean returns (lower + upper) / 2.
func (l LowerUpper[F]) Mean() F { return (l.lower + l.upper) / two }

// Margin returns (upper - lower) / 2.
func (l LowerUpper[F]) Margin() F { return (l.upper - l.lower) / two }

// Lower returns the lower bound.
func (l LowerUpper[F]) Lower() F { return l.lower }

// Upper returns the upper bound.
func (l LowerUpper[F]) Upper() F { return l.upper }

// Bounds returns (Lower, Upper).
func (l LowerUpper[F]) Bounds() (F, F) { return l.lower, l.upper }

// Contains reports whether point lies in the closed interval.
func (l LowerUpper[F]) Contains(point F) bool {
	return point >= l.lower && point <= l.upper
}

// CenterMargin converts the interval to center/margin form.
func (l LowerUpper[F]) CenterMargin() CenterMargin[F] {
	return NewCenterMargin(l.Mean(), l.Margin())
}

// Add shifts both bounds by shift.
func (l LowerUpper[F]) Add(shift F) LowerUpper[F] {
	return NewLowerUpper(l.lower+shift, l.upper+shift)
}

// Scale multiplies both bounds by factor. A negative factor leaves lower > upper.
func (l LowerUpper[F]) Scale(factor F) LowerUpper[F] {
	return NewLowerUpper(l.lower*factor, l.upper*factor)
}

// Equal always reports false. See CenterMargin.Equal.
func (l LowerUpper[F]) Equal(_ any) bool { return false }

// Compare orders l against other. See Compare.
func (l LowerUpper[F]) Compare(other Interval[F]) Ordering { return Compare[F](l, other) }

// ComparePoint orders l against point. See ComparePoint.
func (l LowerUpper[F]) ComparePoint(point F) Ordering { return ComparePoint[F](l, point) }

func (l LowerUpper[F]) String() string {
	return fmt.Sprintf("[%v, %v]", l.lower, l.upper)
}
