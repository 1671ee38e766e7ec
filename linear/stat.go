package linear

// Stat is a statistic that is only defined when the sample leaves
// enough degrees of freedom to estimate it. The zero value is
// undefined. Using an explicit optional instead of NaN keeps a missing
// statistic from being silently treated as zero.
type Stat struct {
	value   float64
	defined bool
}

// DefinedStat wraps a computed statistic value.
func DefinedStat(v float64) Stat {
	return Stat{value: v, defined: true}
}

// Value returns the statistic and whether it is defined.
func (s Stat) Value() (float64, bool) {
	return s.value, s.defined
}

// IsDefined reports whether the statistic was computable.
func (s Stat) IsDefined() bool {
	return s.defined
}

// DiagnosticKind identifies a non-fatal condition detected during Fit.
type DiagnosticKind string

const (
	// DiagCollinearity marks a predictor pair whose correlation exceeds
	// the collinearity threshold.
	DiagCollinearity DiagnosticKind = "collinearity"
	// DiagSingularDesign marks a singular normal-equation matrix solved
	// through the pseudo-inverse.
	DiagSingularDesign DiagnosticKind = "singular_design"
	// DiagZeroVariance marks a predictor or response with zero sample
	// variance.
	DiagZeroVariance DiagnosticKind = "zero_variance"
	// DiagPValueClamped marks an F-significance that was non-finite or
	// underflowed and was clamped to the reporting floor.
	DiagPValueClamped DiagnosticKind = "p_value_clamped"
)

// Diagnostic records a non-fatal condition observed while fitting. The
// fitted model carries the full list so hosts can render or log it;
// each diagnostic is also emitted through the pkg/errors warning sink.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
	// Features lists the involved column labels, when applicable.
	Features []string
	// Value carries the associated number (a correlation, a raw
	// p-value), when applicable.
	Value float64
}
