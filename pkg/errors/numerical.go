package errors

import (
	"math"
)

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CheckScalar returns an error when value is NaN or infinite.
func CheckScalar(operation string, value float64) error {
	if !IsFinite(value) {
		return Newf("regress: numerical instability detected in %s: %g", operation, value)
	}
	return nil
}

// CheckVector returns an error when any element is NaN or infinite.
func CheckVector(operation string, values []float64) error {
	for _, v := range values {
		if !IsFinite(v) {
			return Newf("regress: numerical instability detected in %s: %g", operation, v)
		}
	}
	return nil
}

// ClampValue clips a value to the range [min, max].
func ClampValue(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
