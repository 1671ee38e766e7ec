package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sheetstats/regress/core/model"
	"github.com/sheetstats/regress/pkg/errors"
	"github.com/sheetstats/regress/stattest"
)

// SimpleRegression fits the closed-form univariate ordinary-least-
// squares model Y = slope*X + intercept and computes the full
// Excel-style inference table: ANOVA decomposition, coefficient
// standard errors, t-statistics, two-sided p-values and confidence
// intervals.
//
// A fit replaces the stored model wholesale. All accessors are
// read-only views over the most recent fit and return NotFittedError
// before the first one. A single instance must not be fitted from
// multiple goroutines; independent instances are safe to use
// concurrently.
type SimpleRegression struct {
	model.BaseEstimator

	confidenceLevel float64

	slope        float64
	intercept    float64
	observations int

	multipleR        float64
	rSquared         float64
	adjustedRSquared Stat
	standardError    Stat

	sst float64
	sse float64
	ssr float64

	fStatistic    Stat
	fSignificance Stat

	slopeStdErr      Stat
	interceptStdErr  Stat
	slopeT           Stat
	interceptT       Stat
	slopeP           Stat
	interceptP       Stat
	slopeLower95     Stat
	slopeUpper95     Stat
	interceptLower95 Stat
	interceptUpper95 Stat

	predictions []float64
	residuals   []float64
	diagnostics []Diagnostic
}

var _ model.Model = (*SimpleRegression)(nil)

// NewSimpleRegression creates a simple regression estimator. The
// confidence level for coefficient intervals defaults to 0.95.
func NewSimpleRegression(opts ...SimpleOption) *SimpleRegression {
	sr := &SimpleRegression{confidenceLevel: defaultConfidenceLevel}
	for _, opt := range opts {
		opt(sr)
	}
	return sr
}

// Fit estimates slope and intercept from a single predictor column.
// X must be n×1 (a *mat.VecDense works) and y n×1 with matching rows.
//
// A predictor with zero variance is not an error: the slope becomes
// non-finite through IEEE division, a zero_variance diagnostic is
// recorded and the inferential statistics stay undefined.
func (sr *SimpleRegression) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "SimpleRegression.Fit")

	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("SimpleRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if c != 1 {
		return errors.NewValueError("SimpleRegression.Fit", "X must be a single column")
	}
	if cy != 1 {
		return errors.NewValueError("SimpleRegression.Fit", "y must be a column vector")
	}
	if ry != r {
		return errors.NewDimensionError("SimpleRegression.Fit", r, ry, 0)
	}

	n := r
	x := make([]float64, n)
	yv := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = X.At(i, 0)
		yv[i] = y.At(i, 0)
	}

	var meanX, meanY float64
	for i := 0; i < n; i++ {
		meanX += x[i]
		meanY += yv[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	// slope = Sxy / Sxx, intercept = mean(y) - slope*mean(x)
	var sxx, sxy float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		sxx += dx * dx
		sxy += dx * (yv[i] - meanY)
	}

	var diags []Diagnostic
	if sxx == 0 {
		diags = warnDiagnostic(diags, Diagnostic{
			Kind:     DiagZeroVariance,
			Message:  "predictor X has zero variance; slope is non-finite",
			Features: []string{"X"},
		}, errors.NewZeroVarianceWarning("predictor X"))
	}

	slope := sxy / sxx
	intercept := meanY - slope*meanX

	predictions := make([]float64, n)
	residuals := make([]float64, n)
	for i := 0; i < n; i++ {
		predictions[i] = intercept + slope*x[i]
		residuals[i] = yv[i] - predictions[i]
	}

	var sst, sse float64
	for i := 0; i < n; i++ {
		dy := yv[i] - meanY
		sst += dy * dy
		sse += residuals[i] * residuals[i]
	}
	ssr := sst - sse

	if sst == 0 {
		diags = warnDiagnostic(diags, Diagnostic{
			Kind:     DiagZeroVariance,
			Message:  "response Y has zero variance; R-squared is undefined",
			Features: []string{"Y"},
		}, errors.NewZeroVarianceWarning("response Y"))
	}

	// Not clamped: misspecified or degenerate inputs may push this
	// outside [0, 1], which the caller should see.
	rSquared := 1 - sse/sst
	multipleR := math.Sqrt(rSquared)

	var (
		adjustedRSquared, standardError            Stat
		fStatistic, fSignificance                  Stat
		slopeStdErr, interceptStdErr               Stat
		slopeT, interceptT, slopeP, interceptP     Stat
		slopeLo, slopeHi, interceptLo, interceptHi Stat
	)

	// Inference needs positive residual degrees of freedom and real
	// variation on both axes; otherwise the fields stay undefined.
	if n > 2 && sxx > 0 && sst > 0 {
		dfResidual := n - 2

		adjustedRSquared = DefinedStat(1 - (1-rSquared)*float64(n-1)/float64(dfResidual))

		se := math.Sqrt(sse / float64(dfResidual))
		standardError = DefinedStat(se)

		msRegression := ssr / 1
		msResidual := sse / float64(dfResidual)
		f := msRegression / msResidual
		fStatistic = DefinedStat(f)

		rawSig := stattest.FSurvival(f, 1, dfResidual)
		sig, clamped := stattest.ClampP(rawSig)
		if clamped {
			diags = warnDiagnostic(diags, Diagnostic{
				Kind:    DiagPValueClamped,
				Message: fmt.Sprintf("F significance clamped to %g", stattest.PValueFloor),
				Value:   rawSig,
			}, errors.NewClampedPValueWarning("F", rawSig, stattest.PValueFloor))
		}
		fSignificance = DefinedStat(sig)

		// Classical simple-regression coefficient standard errors.
		seSlope := se / math.Sqrt(sxx)
		seIntercept := se * math.Sqrt(1/float64(n)+meanX*meanX/sxx)
		slopeStdErr = DefinedStat(seSlope)
		interceptStdErr = DefinedStat(seIntercept)

		tSlope := slope / seSlope
		tIntercept := intercept / seIntercept
		slopeT = DefinedStat(tSlope)
		interceptT = DefinedStat(tIntercept)

		slopeP = DefinedStat(stattest.TwoSidedP(tSlope, dfResidual))
		interceptP = DefinedStat(stattest.TwoSidedP(tIntercept, dfResidual))

		tCrit := stattest.TCritical(sr.confidenceLevel, dfResidual)
		slopeLo = DefinedStat(slope - tCrit*seSlope)
		slopeHi = DefinedStat(slope + tCrit*seSlope)
		interceptLo = DefinedStat(intercept - tCrit*seIntercept)
		interceptHi = DefinedStat(intercept + tCrit*seIntercept)
	}

	sr.slope = slope
	sr.intercept = intercept
	sr.observations = n
	sr.multipleR = multipleR
	sr.rSquared = rSquared
	sr.adjustedRSquared = adjustedRSquared
	sr.standardError = standardError
	sr.sst = sst
	sr.sse = sse
	sr.ssr = ssr
	sr.fStatistic = fStatistic
	sr.fSignificance = fSignificance
	sr.slopeStdErr = slopeStdErr
	sr.interceptStdErr = interceptStdErr
	sr.slopeT = slopeT
	sr.interceptT = interceptT
	sr.slopeP = slopeP
	sr.interceptP = interceptP
	sr.slopeLower95 = slopeLo
	sr.slopeUpper95 = slopeHi
	sr.interceptLower95 = interceptLo
	sr.interceptUpper95 = interceptHi
	sr.predictions = predictions
	sr.residuals = residuals
	sr.diagnostics = diags

	sr.SetFitted()
	return nil
}

// Predict applies intercept + slope*x to each row of the n×1 matrix X.
func (sr *SimpleRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !sr.IsFitted() {
		return nil, errors.NewNotFittedError("SimpleRegression", "Predict")
	}

	r, c := X.Dims()
	if c != 1 {
		return nil, errors.NewValueError("SimpleRegression.Predict", "X must be a single column")
	}

	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, sr.intercept+sr.slope*X.At(i, 0))
	}
	return out, nil
}

// Slope returns the fitted slope coefficient.
func (sr *SimpleRegression) Slope() (float64, error) {
	if !sr.IsFitted() {
		return 0, errors.NewNotFittedError("SimpleRegression", "Slope")
	}
	return sr.slope, nil
}

// Intercept returns the fitted intercept.
func (sr *SimpleRegression) Intercept() (float64, error) {
	if !sr.IsFitted() {
		return 0, errors.NewNotFittedError("SimpleRegression", "Intercept")
	}
	return sr.intercept, nil
}

// RSquared returns the coefficient of determination.
func (sr *SimpleRegression) RSquared() (float64, error) {
	if !sr.IsFitted() {
		return 0, errors.NewNotFittedError("SimpleRegression", "RSquared")
	}
	return sr.rSquared, nil
}

// Predictions returns a copy of the fitted values for the training set.
func (sr *SimpleRegression) Predictions() ([]float64, error) {
	if !sr.IsFitted() {
		return nil, errors.NewNotFittedError("SimpleRegression", "Predictions")
	}
	return append([]float64(nil), sr.predictions...), nil
}

// Residuals returns a copy of observed minus predicted responses.
func (sr *SimpleRegression) Residuals() ([]float64, error) {
	if !sr.IsFitted() {
		return nil, errors.NewNotFittedError("SimpleRegression", "Residuals")
	}
	return append([]float64(nil), sr.residuals...), nil
}

// Diagnostics returns the non-fatal conditions recorded by the last fit.
func (sr *SimpleRegression) Diagnostics() ([]Diagnostic, error) {
	if !sr.IsFitted() {
		return nil, errors.NewNotFittedError("SimpleRegression", "Diagnostics")
	}
	return append([]Diagnostic(nil), sr.diagnostics...), nil
}

// EquationString renders the fitted equation to six decimal places,
// for example "Y = 2.000000 * X + 0.000000".
func (sr *SimpleRegression) EquationString() (string, error) {
	if !sr.IsFitted() {
		return "", errors.NewNotFittedError("SimpleRegression", "EquationString")
	}
	sign := "+"
	interceptAbs := sr.intercept
	if sr.intercept < 0 {
		sign = "-"
		interceptAbs = -sr.intercept
	}
	return fmt.Sprintf("Y = %.6f * X %s %.6f", sr.slope, sign, interceptAbs), nil
}

// Summary builds the Excel-style report for the fitted model.
func (sr *SimpleRegression) Summary() (*Summary, error) {
	if !sr.IsFitted() {
		return nil, errors.NewNotFittedError("SimpleRegression", "Summary")
	}

	n := sr.observations
	dfResidual := n - 2

	residualMS := Stat{}
	if dfResidual > 0 {
		residualMS = DefinedStat(sr.sse / float64(dfResidual))
	}

	return &Summary{
		RegressionStatistics: RegressionStatistics{
			MultipleR:        sr.multipleR,
			RSquared:         sr.rSquared,
			AdjustedRSquared: sr.adjustedRSquared,
			StandardError:    sr.standardError,
			Observations:     n,
		},
		ANOVA: ANOVA{
			Regression: ANOVARow{
				DF:            1,
				SS:            sr.ssr,
				MS:            DefinedStat(sr.ssr),
				F:             sr.fStatistic,
				FSignificance: sr.fSignificance,
			},
			Residual: ANOVARow{
				DF: dfResidual,
				SS: sr.sse,
				MS: residualMS,
			},
			Total: ANOVARow{
				DF: n - 1,
				SS: sr.sst,
			},
		},
		Coefficients: []CoefficientRow{
			{
				Name:          "Intercept",
				Coefficient:   sr.intercept,
				StandardError: sr.interceptStdErr,
				TStat:         sr.interceptT,
				PValue:        sr.interceptP,
				Lower95:       sr.interceptLower95,
				Upper95:       sr.interceptUpper95,
			},
			{
				Name:          "X",
				Coefficient:   sr.slope,
				StandardError: sr.slopeStdErr,
				TStat:         sr.slopeT,
				PValue:        sr.slopeP,
				Lower95:       sr.slopeLower95,
				Upper95:       sr.slopeUpper95,
			},
		},
	}, nil
}

// Interpretation builds the natural-language reading of the fit.
func (sr *SimpleRegression) Interpretation() (*Interpretation, error) {
	if !sr.IsFitted() {
		return nil, errors.NewNotFittedError("SimpleRegression", "Interpretation")
	}

	eq, _ := sr.EquationString()

	interceptText := fmt.Sprintf(
		"The value %.6f is the expected value of Y when X equals 0. %s",
		sr.intercept, significanceSentence(sr.interceptP))
	slopeText := fmt.Sprintf(
		"The value %.6f indicates that when X increases by 1 unit, Y changes by %.6f units on average. %s",
		sr.slope, sr.slope, significanceSentence(sr.slopeP))

	return &Interpretation{
		Equation: eq,
		Coefficients: []CoefficientInterpretation{
			{Name: "Intercept", Text: interceptText},
			{Name: "X", Text: slopeText},
		},
		ModelQuality: ModelQuality{
			RSquared:   rSquaredSentence(sr.rSquared),
			FStatistic: fStatisticSentence(sr.fStatistic, sr.fSignificance),
		},
		Conclusion: sr.conclusion(),
	}, nil
}

func (sr *SimpleRegression) conclusion() string {
	direction := "positive"
	if sr.slope < 0 {
		direction = "negative"
	}
	strength := "weak"
	switch {
	case sr.rSquared > highFitThreshold:
		strength = "strong"
	case sr.rSquared > mediumFitThreshold:
		strength = "moderate"
	}

	usability := "cannot reliably"
	if sr.rSquared > mediumFitThreshold {
		usability = "can"
	}

	return fmt.Sprintf(
		"Based on this model there is a %s %s linear relationship between X and Y. The model %s be used to predict Y from X.",
		strength, direction, usability)
}
