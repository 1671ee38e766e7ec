// Package errors provides the error and warning system for the regress
// library. Structural input errors (dimension mismatches, use before
// fit) are surfaced as typed errors with stack traces attached via
// cockroachdb/errors. Numerical edge cases (collinearity, singular
// designs, underflowed p-values) are reported as non-fatal warnings
// through a pluggable handler, because ill-conditioned spreadsheet data
// is expected input rather than a failure.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// Default handler logs to the standard logger.
		log.Printf("regress-warning: %v\n", w)
	}
	// zerolog sink, wired lazily to avoid an import cycle with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the library-wide warning handler. Pass a
// no-op function to silence warnings entirely.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog-backed warning sink. When set it
// takes precedence over the plain handler.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a non-fatal warning through the configured sink.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types emitted during fitting
//
// ===========================================================================

// CollinearityWarning reports a pair of predictor columns whose Pearson
// correlation exceeds the configured threshold. Advisory only; the fit
// proceeds.
type CollinearityWarning struct {
	FeatureA    string
	FeatureB    string
	Correlation float64
}

func (w *CollinearityWarning) Error() string {
	return fmt.Sprintf("high correlation between %s and %s: %.4f", w.FeatureA, w.FeatureB, w.Correlation)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *CollinearityWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("feature_a", w.FeatureA).
		Str("feature_b", w.FeatureB).
		Float64("correlation", w.Correlation).
		Str("type", "CollinearityWarning")
}

// NewCollinearityWarning creates a new CollinearityWarning.
func NewCollinearityWarning(a, b string, correlation float64) *CollinearityWarning {
	return &CollinearityWarning{FeatureA: a, FeatureB: b, Correlation: correlation}
}

// SingularMatrixWarning reports that the normal-equation matrix was
// singular and the Moore-Penrose pseudo-inverse was used instead.
// Coefficients may be ill-determined but the fit succeeds.
type SingularMatrixWarning struct {
	Op string
}

func (w *SingularMatrixWarning) Error() string {
	return fmt.Sprintf("%s: X'X is singular; falling back to the pseudo-inverse", w.Op)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *SingularMatrixWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Str("type", "SingularMatrixWarning")
}

// NewSingularMatrixWarning creates a new SingularMatrixWarning.
func NewSingularMatrixWarning(op string) *SingularMatrixWarning {
	return &SingularMatrixWarning{Op: op}
}

// ZeroVarianceWarning reports a column (or the response) with zero
// sample variance. Downstream statistics that divide by that variance
// become non-finite.
type ZeroVarianceWarning struct {
	Column string
}

func (w *ZeroVarianceWarning) Error() string {
	return fmt.Sprintf("%s has zero variance; dependent statistics are non-finite", w.Column)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *ZeroVarianceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("column", w.Column).
		Str("type", "ZeroVarianceWarning")
}

// NewZeroVarianceWarning creates a new ZeroVarianceWarning.
func NewZeroVarianceWarning(column string) *ZeroVarianceWarning {
	return &ZeroVarianceWarning{Column: column}
}

// ClampedPValueWarning reports that a computed tail probability was
// non-finite or below the reporting floor and was clamped. A clamped
// value signals extreme significance, not numerical failure.
type ClampedPValueWarning struct {
	Statistic string
	Raw       float64
	Floor     float64
}

func (w *ClampedPValueWarning) Error() string {
	return fmt.Sprintf("p-value for %s clamped to %g (raw value %g)", w.Statistic, w.Floor, w.Raw)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *ClampedPValueWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("statistic", w.Statistic).
		Float64("raw", w.Raw).
		Float64("floor", w.Floor).
		Str("type", "ClampedPValueWarning")
}

// NewClampedPValueWarning creates a new ClampedPValueWarning.
func NewClampedPValueWarning(statistic string, raw, floor float64) *ClampedPValueWarning {
	return &ClampedPValueWarning{Statistic: statistic, Raw: raw, Floor: floor}
}

// ===========================================================================
//
//	Structural error types
//
// ===========================================================================

// NotFittedError is returned when Predict or a summary accessor is
// called before a successful Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("regress: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError is returned when input dimensions do not match.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("regress: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// FeatureNamesError is returned when the supplied feature-name count
// does not match the number of predictor columns.
type FeatureNamesError struct {
	Op       string
	Expected int
	Got      int
}

func (e *FeatureNamesError) Error() string {
	return fmt.Sprintf("regress: %s: feature name count must match the number of predictors. Expected %d, got %d", e.Op, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *FeatureNamesError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "FeatureNamesError")
}

// NewFeatureNamesError creates a FeatureNamesError with a stack trace attached.
func NewFeatureNamesError(op string, expected, got int) error {
	err := &FeatureNamesError{Op: op, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// ValueError is returned when an argument value is malformed, for
// example a response that is not a column vector.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("regress: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError is a general estimator error.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("regress: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("regress: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace attached.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in the chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in the chain assignable to target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack attaches a stack trace to an error.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an empty observation set is supplied.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix marks a singular normal-equation matrix.
	ErrSingularMatrix = New("singular matrix")
)
