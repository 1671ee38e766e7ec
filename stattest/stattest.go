// Package stattest provides the significance-test primitives shared by
// the regression estimators: Student-t tail probabilities and critical
// values, and the Fisher-Snedecor F survival function used for the
// overall model F-test.
//
// All functions delegate to gonum's distuv, which evaluates both
// distributions through the regularized incomplete beta function and
// stays accurate for extreme statistics (|t| beyond 30, F in the
// millions) and degrees of freedom from 1 up to large n.
//
// Degrees of freedom must be at least 1; distuv panics otherwise.
// Callers gate on residual degrees of freedom before calling.
package stattest

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// PValueFloor is the smallest tail probability reported to callers. A
// computed p-value below the floor (or a non-finite one) is clamped so
// extreme significance stays distinguishable from numerical failure.
const PValueFloor = 1e-10

func studentT(df int) distuv.StudentsT {
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
}

// TCDF returns P(T <= t) for a Student-t variable with df degrees of
// freedom.
func TCDF(t float64, df int) float64 {
	return studentT(df).CDF(t)
}

// TSurvival returns the upper tail P(T > t).
func TSurvival(t float64, df int) float64 {
	return studentT(df).Survival(t)
}

// TwoSidedP returns the two-sided p-value 2*P(T > |t|) for a
// coefficient t-statistic on df degrees of freedom.
func TwoSidedP(t float64, df int) float64 {
	return 2 * studentT(df).Survival(math.Abs(t))
}

// TCritical returns the critical value t such that a two-sided interval
// at the given confidence level spans [-t, t]; for confidence 0.95 this
// is the 97.5th percentile of the t-distribution.
func TCritical(confidence float64, df int) float64 {
	return studentT(df).Quantile((1 + confidence) / 2)
}

// FCDF returns P(F <= f) for a Fisher-Snedecor variable with (d1, d2)
// degrees of freedom.
func FCDF(f float64, d1, d2 int) float64 {
	return distuv.F{D1: float64(d1), D2: float64(d2)}.CDF(f)
}

// FSurvival returns the upper tail P(F > f), the significance of the
// overall regression F-test.
func FSurvival(f float64, d1, d2 int) float64 {
	return distuv.F{D1: float64(d1), D2: float64(d2)}.Survival(f)
}

// ClampP clamps a tail probability to [PValueFloor, 1]. NaN, infinities
// and underflowed values all map to the floor. The second return value
// reports whether clamping occurred.
func ClampP(p float64) (float64, bool) {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < PValueFloor {
		return PValueFloor, true
	}
	if p > 1 {
		return 1, true
	}
	return p, false
}
