package linear

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sheetstats/regress/core/model"
	"github.com/sheetstats/regress/core/parallel"
	"github.com/sheetstats/regress/pkg/errors"
	"github.com/sheetstats/regress/stattest"
)

// MultipleRegression fits ordinary least squares over k predictors via
// the normal equations on the intercept-augmented design. A singular
// X'X is expected input (undetected collinearity, duplicated columns)
// and is solved through the Moore-Penrose pseudo-inverse instead of
// failing; the fallback is recorded as a diagnostic.
//
// Fit replaces the stored model wholesale. The same concurrency rules
// as SimpleRegression apply: instances are independent, but one
// instance must not be fitted from multiple goroutines.
type MultipleRegression struct {
	model.BaseEstimator

	collinearityThreshold float64
	confidenceLevel       float64

	coefficients []float64
	intercept    float64
	featureNames []string
	nFeatures    int
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

	coefStdErrs []Stat
	coefTs      []Stat
	coefPs      []Stat
	coefLower95 []Stat
	coefUpper95 []Stat

	interceptStdErr  Stat
	interceptT       Stat
	interceptP       Stat
	interceptLower95 Stat
	interceptUpper95 Stat

	predictions []float64
	residuals   []float64
	diagnostics []Diagnostic
}

// Fit takes optional feature names, so only the prediction half of the
// model interface is satisfied.
var _ model.Predictor = (*MultipleRegression)(nil)

// NewMultipleRegression creates a multiple regression estimator with
// the default 0.95 collinearity threshold and 0.95 confidence level.
func NewMultipleRegression(opts ...Option) *MultipleRegression {
	mr := &MultipleRegression{
		collinearityThreshold: defaultCollinearityThreshold,
		confidenceLevel:       defaultConfidenceLevel,
	}
	for _, opt := range opts {
		opt(mr)
	}
	return mr
}

// Sequential assembly is cheaper below this row count.
const parallelThreshold = 1000

// Fit estimates the coefficients from an n×k predictor matrix and an
// n×1 response. Feature names are optional; when given their count
// must equal the number of predictor columns, otherwise default labels
// "Variable X 1"… are generated.
func (mr *MultipleRegression) Fit(X, y mat.Matrix, featureNames ...string) (err error) {
	defer errors.Recover(&err, "MultipleRegression.Fit")

	n, k := X.Dims()
	ry, cy := y.Dims()

	if n == 0 || k == 0 {
		return errors.NewModelError("MultipleRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if cy != 1 {
		return errors.NewValueError("MultipleRegression.Fit", "y must be a column vector")
	}
	if ry != n {
		return errors.NewDimensionError("MultipleRegression.Fit", n, ry, 0)
	}

	names := featureNames
	if len(names) == 0 {
		names = make([]string, k)
		for i := range names {
			names[i] = fmt.Sprintf("Variable X %d", i+1)
		}
	} else if len(names) != k {
		return errors.NewFeatureNamesError("MultipleRegression.Fit", k, len(names))
	}
	names = append([]string(nil), names...)

	var diags []Diagnostic

	// Pairwise Pearson correlation scan; advisory only.
	if k > 1 {
		cols := make([][]float64, k)
		for j := 0; j < k; j++ {
			cols[j] = mat.Col(nil, j, X)
		}
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				r := stat.Correlation(cols[i], cols[j], nil)
				if math.Abs(r) > mr.collinearityThreshold {
					diags = warnDiagnostic(diags, Diagnostic{
						Kind:     DiagCollinearity,
						Message:  fmt.Sprintf("high correlation between %s and %s: %.4f", names[i], names[j], r),
						Features: []string{names[i], names[j]},
						Value:    r,
					}, errors.NewCollinearityWarning(names[i], names[j], r))
				}
			}
		}
	}

	// Augmented design [1, X] for the intercept term.
	XAug := mat.NewDense(n, k+1, nil)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			XAug.Set(i, 0, 1.0)
			for j := 0; j < k; j++ {
				XAug.Set(i, j+1, X.At(i, j))
			}
		}
	})

	// Normal equations: beta = (X'X)^(-1) X'y, with the pseudo-inverse
	// taking over when X'X is singular.
	var XT mat.Dense
	XT.CloneFrom(XAug.T())

	var XTX mat.Dense
	XTX.Mul(&XT, XAug)

	var XTXInv mat.Dense
	if invErr := XTXInv.Inverse(&XTX); invErr != nil {
		pinv, pinvErr := pseudoInverse(&XTX)
		if pinvErr != nil {
			return errors.NewModelError("MultipleRegression.Fit", "pseudo-inverse failed", pinvErr)
		}
		XTXInv.CloneFrom(pinv)
		diags = warnDiagnostic(diags, Diagnostic{
			Kind:    DiagSingularDesign,
			Message: "X'X is singular; coefficients solved via the pseudo-inverse",
		}, errors.NewSingularMatrixWarning("MultipleRegression.Fit"))
	}

	yVec := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var XTy mat.VecDense
	XTy.MulVec(&XT, yVec)

	beta := mat.NewVecDense(k+1, nil)
	beta.MulVec(&XTXInv, &XTy)

	intercept := beta.AtVec(0)
	coefficients := make([]float64, k)
	for j := 0; j < k; j++ {
		coefficients[j] = beta.AtVec(j + 1)
	}

	// Same arithmetic as Predict, so fit-time predictions reproduce
	// exactly on the training matrix.
	predictions := make([]float64, n)
	residuals := make([]float64, n)
	for i := 0; i < n; i++ {
		pred := intercept
		for j := 0; j < k; j++ {
			pred += X.At(i, j) * coefficients[j]
		}
		predictions[i] = pred
		residuals[i] = y.At(i, 0) - pred
	}

	var meanY float64
	for i := 0; i < n; i++ {
		meanY += y.At(i, 0)
	}
	meanY /= float64(n)

	var sst, sse float64
	for i := 0; i < n; i++ {
		dy := y.At(i, 0) - meanY
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

	rSquared := 1 - sse/sst
	multipleR := math.Sqrt(rSquared)

	var (
		adjustedRSquared, standardError Stat
		fStatistic, fSignificance       Stat
		interceptStdErr, interceptT     Stat
		interceptP                      Stat
		interceptLo, interceptHi        Stat
	)
	coefStdErrs := make([]Stat, k)
	coefTs := make([]Stat, k)
	coefPs := make([]Stat, k)
	coefLo := make([]Stat, k)
	coefHi := make([]Stat, k)

	// Inference needs n > k+1 and a response with real variation;
	// otherwise the point estimates stand alone.
	if n > k+1 && sst > 0 {
		dfRegression := k
		dfResidual := n - k - 1

		adjustedRSquared = DefinedStat(1 - (1-rSquared)*float64(n-1)/float64(dfResidual))
		standardError = DefinedStat(math.Sqrt(sse / float64(dfResidual)))

		msRegression := ssr / float64(dfRegression)
		msResidual := sse / float64(dfResidual)
		f := msRegression / msResidual
		fStatistic = DefinedStat(f)

		rawSig := stattest.FSurvival(f, dfRegression, dfResidual)
		sig, clamped := stattest.ClampP(rawSig)
		if clamped {
			diags = warnDiagnostic(diags, Diagnostic{
				Kind:    DiagPValueClamped,
				Message: fmt.Sprintf("F significance clamped to %g", stattest.PValueFloor),
				Value:   rawSig,
			}, errors.NewClampedPValueWarning("F", rawSig, stattest.PValueFloor))
		}
		fSignificance = DefinedStat(sig)

		// Coefficient variances are the diagonal of (X'X)^(-1) * MSE.
		mse := sse / float64(dfResidual)
		tCrit := stattest.TCritical(mr.confidenceLevel, dfResidual)

		inference := func(coef, variance float64) (se, t, p, lo, hi Stat) {
			seV := math.Sqrt(variance)
			tV := coef / seV
			se = DefinedStat(seV)
			t = DefinedStat(tV)
			p = DefinedStat(stattest.TwoSidedP(tV, dfResidual))
			lo = DefinedStat(coef - tCrit*seV)
			hi = DefinedStat(coef + tCrit*seV)
			return
		}

		interceptStdErr, interceptT, interceptP, interceptLo, interceptHi =
			inference(intercept, XTXInv.At(0, 0)*mse)
		for j := 0; j < k; j++ {
			coefStdErrs[j], coefTs[j], coefPs[j], coefLo[j], coefHi[j] =
				inference(coefficients[j], XTXInv.At(j+1, j+1)*mse)
		}
	}

	mr.coefficients = coefficients
	mr.intercept = intercept
	mr.featureNames = names
	mr.nFeatures = k
	mr.observations = n
	mr.multipleR = multipleR
	mr.rSquared = rSquared
	mr.adjustedRSquared = adjustedRSquared
	mr.standardError = standardError
	mr.sst = sst
	mr.sse = sse
	mr.ssr = ssr
	mr.fStatistic = fStatistic
	mr.fSignificance = fSignificance
	mr.coefStdErrs = coefStdErrs
	mr.coefTs = coefTs
	mr.coefPs = coefPs
	mr.coefLower95 = coefLo
	mr.coefUpper95 = coefHi
	mr.interceptStdErr = interceptStdErr
	mr.interceptT = interceptT
	mr.interceptP = interceptP
	mr.interceptLower95 = interceptLo
	mr.interceptUpper95 = interceptHi
	mr.predictions = predictions
	mr.residuals = residuals
	mr.diagnostics = diags

	mr.SetFitted()
	return nil
}

// pseudoInverse computes the Moore-Penrose pseudo-inverse via SVD,
// zeroing singular values below a scale-relative tolerance.
func pseudoInverse(a *mat.Dense) (*mat.Dense, error) {
	r, c := a.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, errors.New("SVD factorization failed")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	maxDim := r
	if c > maxDim {
		maxDim = c
	}
	var maxVal float64
	for _, s := range values {
		if s > maxVal {
			maxVal = s
		}
	}
	tol := float64(maxDim) * maxVal * epsFloat64

	// pinv = V * S^+ * U^T
	sInv := mat.NewDense(len(values), len(values), nil)
	for i, s := range values {
		if s > tol {
			sInv.Set(i, i, 1/s)
		}
	}

	var tmp, pinv mat.Dense
	tmp.Mul(&v, sInv)
	pinv.Mul(&tmp, u.T())
	return &pinv, nil
}

const epsFloat64 = 2.220446049250313e-16

// Predict applies intercept + X*coefficients to each row of the n×k
// matrix X.
func (mr *MultipleRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !mr.IsFitted() {
		return nil, errors.NewNotFittedError("MultipleRegression", "Predict")
	}

	r, c := X.Dims()
	if c != mr.nFeatures {
		return nil, errors.NewDimensionError("MultipleRegression.Predict", mr.nFeatures, c, 1)
	}

	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := mr.intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * mr.coefficients[j]
		}
		out.Set(i, 0, pred)
	}
	return out, nil
}

// Coefficients returns a copy of the fitted predictor coefficients,
// positionally aligned with FeatureNames.
func (mr *MultipleRegression) Coefficients() ([]float64, error) {
	if !mr.IsFitted() {
		return nil, errors.NewNotFittedError("MultipleRegression", "Coefficients")
	}
	return append([]float64(nil), mr.coefficients...), nil
}

// Intercept returns the fitted intercept.
func (mr *MultipleRegression) Intercept() (float64, error) {
	if !mr.IsFitted() {
		return 0, errors.NewNotFittedError("MultipleRegression", "Intercept")
	}
	return mr.intercept, nil
}

// FeatureNames returns a copy of the predictor labels used by the fit.
func (mr *MultipleRegression) FeatureNames() ([]string, error) {
	if !mr.IsFitted() {
		return nil, errors.NewNotFittedError("MultipleRegression", "FeatureNames")
	}
	return append([]string(nil), mr.featureNames...), nil
}

// RSquared returns the coefficient of determination.
func (mr *MultipleRegression) RSquared() (float64, error) {
	if !mr.IsFitted() {
		return 0, errors.NewNotFittedError("MultipleRegression", "RSquared")
	}
	return mr.rSquared, nil
}

// Predictions returns a copy of the fitted values for the training set.
func (mr *MultipleRegression) Predictions() ([]float64, error) {
	if !mr.IsFitted() {
		return nil, errors.NewNotFittedError("MultipleRegression", "Predictions")
	}
	return append([]float64(nil), mr.predictions...), nil
}

// Residuals returns a copy of observed minus predicted responses.
func (mr *MultipleRegression) Residuals() ([]float64, error) {
	if !mr.IsFitted() {
		return nil, errors.NewNotFittedError("MultipleRegression", "Residuals")
	}
	return append([]float64(nil), mr.residuals...), nil
}

// Diagnostics returns the non-fatal conditions recorded by the last fit.
func (mr *MultipleRegression) Diagnostics() ([]Diagnostic, error) {
	if !mr.IsFitted() {
		return nil, errors.NewNotFittedError("MultipleRegression", "Diagnostics")
	}
	return append([]Diagnostic(nil), mr.diagnostics...), nil
}

// EquationString renders the fitted equation to six decimal places, for
// example "Y = 1.000000 + 2.000000 * Variable X 1 - 0.500000 * Variable X 2".
func (mr *MultipleRegression) EquationString() (string, error) {
	if !mr.IsFitted() {
		return "", errors.NewNotFittedError("MultipleRegression", "EquationString")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Y = %.6f", mr.intercept)
	for j, coef := range mr.coefficients {
		sign := "+"
		if coef < 0 {
			sign = "-"
			coef = -coef
		}
		fmt.Fprintf(&b, " %s %.6f * %s", sign, coef, mr.featureNames[j])
	}
	return b.String(), nil
}

// Summary builds the Excel-style report for the fitted model.
func (mr *MultipleRegression) Summary() (*Summary, error) {
	if !mr.IsFitted() {
		return nil, errors.NewNotFittedError("MultipleRegression", "Summary")
	}

	n := mr.observations
	k := mr.nFeatures
	dfResidual := n - k - 1

	residualMS := Stat{}
	if dfResidual > 0 {
		residualMS = DefinedStat(mr.sse / float64(dfResidual))
	}

	rows := make([]CoefficientRow, 0, k+1)
	rows = append(rows, CoefficientRow{
		Name:          "Intercept",
		Coefficient:   mr.intercept,
		StandardError: mr.interceptStdErr,
		TStat:         mr.interceptT,
		PValue:        mr.interceptP,
		Lower95:       mr.interceptLower95,
		Upper95:       mr.interceptUpper95,
	})
	for j := 0; j < k; j++ {
		rows = append(rows, CoefficientRow{
			Name:          mr.featureNames[j],
			Coefficient:   mr.coefficients[j],
			StandardError: mr.coefStdErrs[j],
			TStat:         mr.coefTs[j],
			PValue:        mr.coefPs[j],
			Lower95:       mr.coefLower95[j],
			Upper95:       mr.coefUpper95[j],
		})
	}

	return &Summary{
		RegressionStatistics: RegressionStatistics{
			MultipleR:        mr.multipleR,
			RSquared:         mr.rSquared,
			AdjustedRSquared: mr.adjustedRSquared,
			StandardError:    mr.standardError,
			Observations:     n,
		},
		ANOVA: ANOVA{
			Regression: ANOVARow{
				DF:            k,
				SS:            mr.ssr,
				MS:            DefinedStat(mr.ssr / float64(k)),
				F:             mr.fStatistic,
				FSignificance: mr.fSignificance,
			},
			Residual: ANOVARow{
				DF: dfResidual,
				SS: mr.sse,
				MS: residualMS,
			},
			Total: ANOVARow{
				DF: n - 1,
				SS: mr.sst,
			},
		},
		Coefficients: rows,
	}, nil
}

// Interpretation builds the natural-language reading of the fit,
// including the per-predictor significance narrative and the aggregate
// list of individually significant predictors.
func (mr *MultipleRegression) Interpretation() (*Interpretation, error) {
	if !mr.IsFitted() {
		return nil, errors.NewNotFittedError("MultipleRegression", "Interpretation")
	}

	eq, _ := mr.EquationString()

	coefs := make([]CoefficientInterpretation, 0, mr.nFeatures+1)
	coefs = append(coefs, CoefficientInterpretation{
		Name: "Intercept",
		Text: fmt.Sprintf(
			"The value %.6f is the expected value of Y when all predictors equal 0. %s",
			mr.intercept, significanceSentence(mr.interceptP)),
	})
	for j, name := range mr.featureNames {
		coefs = append(coefs, CoefficientInterpretation{
			Name: name,
			Text: fmt.Sprintf(
				"The coefficient %.6f indicates that when %s increases by 1 unit, holding the other predictors fixed, Y changes by %.6f units on average. %s",
				mr.coefficients[j], name, mr.coefficients[j], significanceSentence(mr.coefPs[j])),
		})
	}

	return &Interpretation{
		Equation:     eq,
		Coefficients: coefs,
		ModelQuality: ModelQuality{
			RSquared:         rSquaredSentence(mr.rSquared),
			AdjustedRSquared: adjustedRSquaredSentence(mr.adjustedRSquared),
			FStatistic:       fStatisticSentence(mr.fStatistic, mr.fSignificance),
		},
		Conclusion: mr.conclusion(),
	}, nil
}

func (mr *MultipleRegression) conclusion() string {
	quality := "weakly"
	switch {
	case mr.rSquared > highFitThreshold:
		quality = "well"
	case mr.rSquared > mediumFitThreshold:
		quality = "moderately"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on this model, the model %s explains the variation in the dependent variable. ", quality)

	var significant []string
	haveInference := false
	for j, p := range mr.coefPs {
		if v, ok := p.Value(); ok {
			haveInference = true
			if v < significanceLevel {
				significant = append(significant, mr.featureNames[j])
			}
		}
	}
	if haveInference {
		if len(significant) > 0 {
			fmt.Fprintf(&b, "The most significant predictors are: %s. ", strings.Join(significant, ", "))
		} else {
			b.WriteString("No predictor is statistically significant, which may indicate problems with the model. ")
		}
	}

	usability := "cannot reliably"
	if mr.rSquared > mediumFitThreshold {
		usability = "can"
	}
	fmt.Fprintf(&b, "The model %s be used to predict Y from the predictors.", usability)

	return b.String()
}
