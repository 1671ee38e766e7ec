package linear

import (
	"fmt"

	"github.com/sheetstats/regress/pkg/errors"
)

// Fixed interpretation thresholds: coefficients are called significant
// below 0.05, fit quality bands are R² > 0.7 (high) and > 0.5 (medium).
const (
	significanceLevel  = 0.05
	highFitThreshold   = 0.7
	mediumFitThreshold = 0.5
)

// warnDiagnostic appends d to the diagnostic list and emits the paired
// warning through the library warning sink.
func warnDiagnostic(diags []Diagnostic, d Diagnostic, w error) []Diagnostic {
	errors.Warn(w)
	return append(diags, d)
}

// significanceSentence renders the significance clause for one
// coefficient p-value, or an explicit cannot-assess clause when the
// sample left no degrees of freedom for inference.
func significanceSentence(p Stat) string {
	v, ok := p.Value()
	if !ok {
		return "Statistical significance cannot be assessed."
	}
	word := "not statistically significant"
	if v < significanceLevel {
		word = "statistically significant"
	}
	return fmt.Sprintf("It is %s (p-value = %.6f).", word, v)
}

// fitBand maps R² to the fixed quality wording.
func fitBand(rSquared float64) string {
	switch {
	case rSquared > highFitThreshold:
		return "high"
	case rSquared > mediumFitThreshold:
		return "medium"
	default:
		return "low"
	}
}

func rSquaredSentence(rSquared float64) string {
	return fmt.Sprintf(
		"The value %.6f indicates that %.2f%% of the variation in Y is explained by the model. This suggests a %s quality of fit.",
		rSquared, rSquared*100, fitBand(rSquared))
}

func adjustedRSquaredSentence(adjusted Stat) string {
	v, ok := adjusted.Value()
	if !ok {
		return "The adjusted R-squared cannot be computed for this sample size."
	}
	return fmt.Sprintf(
		"The value %.6f accounts for the number of predictors in the model and is the more reliable quality estimate for multiple regression.", v)
}

func fStatisticSentence(f, sig Stat) string {
	fv, fOK := f.Value()
	sv, sOK := sig.Value()
	if !fOK || !sOK {
		return "The overall F-test cannot be computed for this sample size."
	}
	verb := "does not confirm"
	if sv < significanceLevel {
		verb = "confirms"
	}
	return fmt.Sprintf(
		"The F-statistic is %.6f with a p-value of %.6g, which %s the statistical significance of the model as a whole.",
		fv, sv, verb)
}
