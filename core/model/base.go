package model

import "gonum.org/v1/gonum/mat"

// Fitter is a model that can be trained on a design matrix and a
// response vector.
type Fitter interface {
	Fit(X, y mat.Matrix) error
}

// Predictor is a fitted model that can predict responses for new rows.
type Predictor interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Model combines training and prediction.
type Model interface {
	Fitter
	Predictor
}

// EstimatorState represents the training state of an estimator.
type EstimatorState int

const (
	// NotFitted means Fit has not completed successfully yet.
	NotFitted EstimatorState = iota
	// Fitted means the estimator holds a complete fitted model.
	Fitted
)

// BaseEstimator is the common base embedded by every estimator.
// It tracks whether a fit has completed so that read accessors can
// reject use-before-fit.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the estimator has been fitted.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the estimator as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the estimator to the not-fitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
