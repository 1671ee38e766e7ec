package linear

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/sheetstats/regress/pkg/errors"
	"github.com/sheetstats/regress/stattest"
)

func silenceWarnings(t *testing.T) {
	t.Helper()
	errors.SetWarningHandler(func(error) {})
	t.Cleanup(func() { errors.SetWarningHandler(nil) })
}

func TestSimpleRegression_PerfectLine(t *testing.T) {
	silenceWarnings(t)

	// y = 2x exactly
	X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := mat.NewDense(5, 1, []float64{2, 4, 6, 8, 10})

	sr := NewSimpleRegression()
	if err := sr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	slope, _ := sr.Slope()
	intercept, _ := sr.Intercept()
	if math.Abs(slope-2) > 1e-9 {
		t.Errorf("Expected slope 2, got %v", slope)
	}
	if math.Abs(intercept) > 1e-9 {
		t.Errorf("Expected intercept 0, got %v", intercept)
	}

	r2, _ := sr.RSquared()
	if math.Abs(r2-1) > 1e-12 {
		t.Errorf("Expected R²=1, got %v", r2)
	}

	// SSE is exactly 0, so the F significance underflows and must be
	// clamped to the reporting floor, never reported as 0/NaN/Inf.
	summary, err := sr.Summary()
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	sig, ok := summary.ANOVA.Regression.FSignificance.Value()
	if !ok {
		t.Fatal("Expected F significance to be defined for n=5")
	}
	if sig != stattest.PValueFloor {
		t.Errorf("Expected F significance clamped to %g, got %g", stattest.PValueFloor, sig)
	}

	diags, _ := sr.Diagnostics()
	if !hasDiagnostic(diags, DiagPValueClamped) {
		t.Error("Expected a p_value_clamped diagnostic")
	}
}

func TestSimpleRegression_RecoversKnownLine(t *testing.T) {
	silenceWarnings(t)

	// y = 3x + 1 with zero noise
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{4, 7, 10})

	sr := NewSimpleRegression()
	if err := sr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	slope, _ := sr.Slope()
	intercept, _ := sr.Intercept()
	if math.Abs(slope-3) > 1e-9 {
		t.Errorf("Expected slope 3, got %v", slope)
	}
	if math.Abs(intercept-1) > 1e-9 {
		t.Errorf("Expected intercept 1, got %v", intercept)
	}
}

func TestSimpleRegression_SumOfSquaresIdentity(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewDense(6, 1, []float64{2, 4, 5, 4, 5, 7})

	sr := NewSimpleRegression()
	if err := sr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	summary, err := sr.Summary()
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	sst := summary.ANOVA.Total.SS
	sse := summary.ANOVA.Residual.SS
	ssr := summary.ANOVA.Regression.SS
	if math.Abs(ssr+sse-sst) > 1e-6*sst {
		t.Errorf("SSR+SSE != SST: %v + %v != %v", ssr, sse, sst)
	}

	r2 := summary.RegressionStatistics.RSquared
	if r2 < 0 || r2 > 1 {
		t.Errorf("Expected R² in [0,1], got %v", r2)
	}

	// Inferential fields are all defined for n=6.
	for _, row := range summary.Coefficients {
		if !row.StandardError.IsDefined() || !row.TStat.IsDefined() || !row.PValue.IsDefined() {
			t.Errorf("Expected inference defined for %s", row.Name)
		}
		lo, _ := row.Lower95.Value()
		hi, _ := row.Upper95.Value()
		if lo >= hi {
			t.Errorf("Expected Lower95 < Upper95 for %s, got [%v, %v]", row.Name, lo, hi)
		}
		if p, _ := row.PValue.Value(); p < 0 || p > 1 {
			t.Errorf("p-value out of range for %s: %v", row.Name, p)
		}
	}
}

func TestSimpleRegression_PredictMatchesFitPredictions(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1.5, 2.5, 4, 8})
	y := mat.NewDense(4, 1, []float64{3, 5.5, 7, 16})

	sr := NewSimpleRegression()
	if err := sr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	preds, _ := sr.Predictions()
	out, err := sr.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if out.At(i, 0) != preds[i] {
			t.Errorf("Predict(%d)=%v differs from fit-time prediction %v", i, out.At(i, 0), preds[i])
		}
	}

	residuals, _ := sr.Residuals()
	for i := 0; i < 4; i++ {
		if got := y.At(i, 0) - preds[i]; residuals[i] != got {
			t.Errorf("residual[%d]=%v, want %v", i, residuals[i], got)
		}
	}
}

func TestSimpleRegression_TwoPointsNoInference(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{1, 2})
	y := mat.NewDense(2, 1, []float64{3, 5})

	sr := NewSimpleRegression()
	if err := sr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	slope, _ := sr.Slope()
	intercept, _ := sr.Intercept()
	if math.Abs(slope-2) > 1e-9 || math.Abs(intercept-1) > 1e-9 {
		t.Errorf("Expected exact line through two points, got slope=%v intercept=%v", slope, intercept)
	}

	summary, _ := sr.Summary()
	stats := summary.RegressionStatistics
	if stats.AdjustedRSquared.IsDefined() || stats.StandardError.IsDefined() {
		t.Error("Expected adjusted R² and standard error undefined for n=2")
	}
	if summary.ANOVA.Regression.F.IsDefined() || summary.ANOVA.Regression.FSignificance.IsDefined() {
		t.Error("Expected F statistics undefined for n=2")
	}
	for _, row := range summary.Coefficients {
		if row.StandardError.IsDefined() || row.PValue.IsDefined() || row.Lower95.IsDefined() {
			t.Errorf("Expected inference undefined for %s at n=2", row.Name)
		}
	}
}

func TestSimpleRegression_ZeroVariancePredictor(t *testing.T) {
	silenceWarnings(t)

	// All X identical: the slope denominator is zero and the result is
	// non-finite, but Fit must not fail.
	X := mat.NewDense(3, 1, []float64{1, 1, 1})
	y := mat.NewDense(3, 1, []float64{1, 2, 3})

	sr := NewSimpleRegression()
	if err := sr.Fit(X, y); err != nil {
		t.Fatalf("Expected zero-variance fit to succeed, got %v", err)
	}

	slope, _ := sr.Slope()
	if !math.IsNaN(slope) && !math.IsInf(slope, 0) {
		t.Errorf("Expected non-finite slope for zero-variance X, got %v", slope)
	}

	diags, _ := sr.Diagnostics()
	if !hasDiagnostic(diags, DiagZeroVariance) {
		t.Error("Expected a zero_variance diagnostic")
	}

	summary, _ := sr.Summary()
	if summary.ANOVA.Regression.FSignificance.IsDefined() {
		t.Error("Expected F significance undefined for zero-variance X")
	}
}

func TestSimpleRegression_DimensionMismatch(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(2, 1, []float64{1, 2})

	sr := NewSimpleRegression()
	err := sr.Fit(X, y)
	if err == nil {
		t.Fatal("Expected an error for mismatched rows")
	}
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("Expected DimensionError, got %T: %v", err, err)
	}
	if sr.IsFitted() {
		t.Error("Estimator must not be marked fitted after a failed Fit")
	}
}

func TestSimpleRegression_NotFitted(t *testing.T) {
	sr := NewSimpleRegression()

	if _, err := sr.Predict(mat.NewDense(1, 1, []float64{1})); err == nil {
		t.Error("Expected Predict to fail before Fit")
	}
	if _, err := sr.Summary(); err == nil {
		t.Error("Expected Summary to fail before Fit")
	}
	if _, err := sr.Interpretation(); err == nil {
		t.Error("Expected Interpretation to fail before Fit")
	}
	_, err := sr.EquationString()
	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Errorf("Expected NotFittedError, got %T: %v", err, err)
	}
}

func TestSimpleRegression_EquationString(t *testing.T) {
	silenceWarnings(t)

	cases := []struct {
		name string
		x, y []float64
		want string
	}{
		{"positive intercept", []float64{1, 2, 3}, []float64{3, 5, 7}, "Y = 2.000000 * X + 1.000000"},
		{"negative intercept", []float64{1, 2, 3}, []float64{-1, 1, 3}, "Y = 2.000000 * X - 3.000000"},
		{"zero intercept", []float64{1, 2, 3}, []float64{2, 4, 6}, "Y = 2.000000 * X + 0.000000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sr := NewSimpleRegression()
			if err := sr.Fit(mat.NewVecDense(3, tc.x), mat.NewVecDense(3, tc.y)); err != nil {
				t.Fatalf("Failed to fit: %v", err)
			}
			got, err := sr.EquationString()
			if err != nil {
				t.Fatalf("EquationString failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestSimpleRegression_SummaryANOVADegreesOfFreedom(t *testing.T) {
	X := mat.NewDense(10, 1, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	y := mat.NewDense(10, 1, []float64{1.2, 1.9, 3.1, 4.2, 4.8, 6.3, 6.9, 8.1, 9.2, 9.8})

	sr := NewSimpleRegression()
	if err := sr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	summary, _ := sr.Summary()
	if summary.ANOVA.Regression.DF != 1 {
		t.Errorf("Expected regression df=1, got %d", summary.ANOVA.Regression.DF)
	}
	if summary.ANOVA.Residual.DF != 8 {
		t.Errorf("Expected residual df=8, got %d", summary.ANOVA.Residual.DF)
	}
	if summary.ANOVA.Total.DF != 9 {
		t.Errorf("Expected total df=9, got %d", summary.ANOVA.Total.DF)
	}
	if summary.RegressionStatistics.Observations != 10 {
		t.Errorf("Expected 10 observations, got %d", summary.RegressionStatistics.Observations)
	}

	if len(summary.Coefficients) != 2 {
		t.Fatalf("Expected 2 coefficient rows, got %d", len(summary.Coefficients))
	}
	if summary.Coefficients[0].Name != "Intercept" || summary.Coefficients[1].Name != "X" {
		t.Errorf("Unexpected coefficient row names: %q, %q",
			summary.Coefficients[0].Name, summary.Coefficients[1].Name)
	}
}

func TestSimpleRegression_Interpretation(t *testing.T) {
	silenceWarnings(t)

	// Strong positive relationship.
	X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := mat.NewDense(5, 1, []float64{2.1, 3.9, 6.2, 7.8, 10.1})

	sr := NewSimpleRegression()
	if err := sr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	interp, err := sr.Interpretation()
	if err != nil {
		t.Fatalf("Interpretation failed: %v", err)
	}

	eq, _ := sr.EquationString()
	if interp.Equation != eq {
		t.Errorf("Interpretation equation %q differs from EquationString %q", interp.Equation, eq)
	}
	if len(interp.Coefficients) != 2 {
		t.Fatalf("Expected 2 coefficient interpretations, got %d", len(interp.Coefficients))
	}
	if !strings.Contains(interp.Coefficients[1].Text, "statistically significant") {
		t.Errorf("Expected slope marked significant, got %q", interp.Coefficients[1].Text)
	}
	if !strings.Contains(interp.ModelQuality.RSquared, "high") {
		t.Errorf("Expected high fit band, got %q", interp.ModelQuality.RSquared)
	}
	if !strings.Contains(interp.Conclusion, "strong positive") {
		t.Errorf("Expected strong positive relationship, got %q", interp.Conclusion)
	}
}

func TestSimpleRegression_RefitReplacesModel(t *testing.T) {
	silenceWarnings(t)

	sr := NewSimpleRegression()

	// First fit against a zero-variance predictor leaves diagnostics
	// behind; a clean refit must replace the model wholesale.
	if err := sr.Fit(mat.NewVecDense(3, []float64{1, 1, 1}), mat.NewVecDense(3, []float64{1, 2, 3})); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}
	if err := sr.Fit(mat.NewVecDense(4, []float64{1, 2, 3, 4}), mat.NewVecDense(4, []float64{3.1, 5.9, 9.2, 11.8})); err != nil {
		t.Fatalf("Failed to refit: %v", err)
	}

	slope, _ := sr.Slope()
	if math.Abs(slope-3) > 0.2 {
		t.Errorf("Expected refit slope near 3, got %v", slope)
	}
	diags, _ := sr.Diagnostics()
	if hasDiagnostic(diags, DiagZeroVariance) {
		t.Errorf("Expected zero-variance diagnostic cleared by refit, got %v", diags)
	}
}

func hasDiagnostic(diags []Diagnostic, kind DiagnosticKind) bool {
	for _, d := range diags {
		if d.Kind == kind {
			return true
		}
	}
	return false
}
