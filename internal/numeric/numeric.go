// Package numeric centralizes the epsilon-based float comparisons, ported
// from original_source/src/math/math_utils.rs's float_eq/float_lt/float_le
// family onto the single epsilon spec.md §9 settles on. The simplex package
// takes its Epsilon from here (and the solver takes it from simplex); the
// transformer and linearizer do not use this package.
package numeric

// Epsilon is the tolerance shared by every stage that compares floats for
// equality or near-zero-ness.
const Epsilon = 1e-5

// FloatEq reports whether a and b are equal within Epsilon.
func FloatEq(a, b float64) bool {
	d := a - b
	return d > -Epsilon && d < Epsilon
}

// FloatLt reports whether a is strictly less than b, beyond Epsilon.
func FloatLt(a, b float64) bool { return b-a > Epsilon }

// FloatLe reports whether a is less than or equal to b within Epsilon.
func FloatLe(a, b float64) bool { return a-b <= Epsilon }

// FloatGt reports whether a is strictly greater than b, beyond Epsilon.
func FloatGt(a, b float64) bool { return a-b > Epsilon }

// FloatGe reports whether a is greater than or equal to b within Epsilon.
func FloatGe(a, b float64) bool { return b-a <= Epsilon }

// IsZero reports whether v is within Epsilon of zero.
func IsZero(v float64) bool { return v > -Epsilon && v < Epsilon }
