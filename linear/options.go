package linear

const (
	defaultConfidenceLevel       = 0.95
	defaultCollinearityThreshold = 0.95
)

// SimpleOption configures a SimpleRegression estimator.
type SimpleOption func(*SimpleRegression)

// WithSimpleConfidenceLevel sets the confidence level used for
// coefficient intervals. The default 0.95 reproduces the spreadsheet
// "Lower 95% / Upper 95%" columns.
func WithSimpleConfidenceLevel(level float64) SimpleOption {
	return func(sr *SimpleRegression) {
		sr.confidenceLevel = level
	}
}

// Option configures a MultipleRegression estimator.
type Option func(*MultipleRegression)

// WithCollinearityThreshold sets the absolute pairwise Pearson
// correlation above which a collinearity diagnostic is emitted.
func WithCollinearityThreshold(threshold float64) Option {
	return func(mr *MultipleRegression) {
		mr.collinearityThreshold = threshold
	}
}

// WithConfidenceLevel sets the confidence level used for coefficient
// intervals.
func WithConfidenceLevel(level float64) Option {
	return func(mr *MultipleRegression) {
		mr.confidenceLevel = level
	}
}
