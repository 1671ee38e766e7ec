// Package regress provides spreadsheet-style ordinary-least-squares
// regression for Go, replicating the output conventions of the
// spreadsheet "Data Analysis: Regression" tool: coefficient tables,
// ANOVA decomposition, confidence intervals and significance tests.
//
// The estimators live in the linear package:
//
//	X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
//	y := mat.NewDense(5, 1, []float64{2, 4, 6, 8, 10})
//
//	model := linear.NewSimpleRegression()
//	if err := model.Fit(X, y); err != nil {
//	    log.Fatal(err)
//	}
//
//	eq, _ := model.EquationString() // "Y = 2.000000 * X + 0.000000"
//	summary, _ := model.Summary()   // regression statistics, ANOVA, coefficients
//
// Shared significance-test primitives (Student-t, Fisher-Snedecor F)
// are in the stattest package, and regression metrics (MSE, RMSE, MAE,
// R²) in the metrics package.
//
// Ill-conditioned input is expected, not fatal: singular designs fall
// back to the pseudo-inverse, small samples leave the inferential
// statistics explicitly undefined, and underflowed F significances are
// clamped to a reporting floor. Every such condition is recorded as a
// structured diagnostic on the fitted model and emitted through the
// pkg/errors warning sink, which hosts can route to zerolog or slog.
package regress
