// Package errors provides typed errors for machine learning operations.
//
// The package defines a small set of error types shared by every estimator
// and transformer in the SciTree library:
//
//   - ValueError: an argument value is invalid for the operation
//   - DimensionError: matrix/vector shapes do not line up
//   - NotFittedError: a model was used before Fit
//   - ModelError: an operation failed, wrapping an underlying cause
//
// All types support Go 1.13+ error wrapping (errors.Is / errors.As) and are
// created through constructors so call sites stay uniform:
//
//	if r == 0 {
//	    return errors.NewModelError("Tree.Fit", "empty data", errors.ErrEmptyData)
//	}
//
// Stack traces are attached via github.com/cockroachdb/errors so failures
// deep inside numeric code remain diagnosable.
package errors

import (
	"fmt"

	crdberrors "github.com/cockroachdb/errors"
)

// Sentinel errors used as the root cause of ModelError chains.
var (
	// ErrEmptyData indicates an empty input matrix or vector.
	ErrEmptyData = crdberrors.New("empty data")

	// ErrSingularMatrix indicates a matrix inversion failed.
	ErrSingularMatrix = crdberrors.New("singular matrix")

	// ErrNotImplemented indicates a requested variant is not available.
	ErrNotImplemented = crdberrors.New("not implemented")

	// ErrMissingNotSupported indicates a criterion cannot handle
	// missing feature values.
	ErrMissingNotSupported = crdberrors.New("missing values not supported")
)

// ValueError indicates an argument value that is invalid for the operation.
type ValueError struct {
	Op      string // operation that rejected the value, e.g. "StandardScaler.Fit"
	Message string // human-readable description
}

// NewValueError creates a ValueError for the given operation.
func NewValueError(op, message string) *ValueError {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// DimensionError indicates mismatched dimensions between inputs.
type DimensionError struct {
	Op        string // operation that detected the mismatch
	Expected  int    // expected size
	Got       int    // actual size
	Dimension int    // which dimension mismatched (0 = rows, 1 = columns)
}

// NewDimensionError creates a DimensionError for the given operation.
func NewDimensionError(op string, expected, got, dimension int) *DimensionError {
	return &DimensionError{Op: op, Expected: expected, Got: got, Dimension: dimension}
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: dimension mismatch on axis %d: expected %d, got %d",
		e.Op, e.Dimension, e.Expected, e.Got)
}

// NotFittedError indicates a model was used before training.
type NotFittedError struct {
	ModelName string // model type, e.g. "DecisionTreeClassifier"
	Method    string // method that required a fitted model, e.g. "Predict"
}

// NewNotFittedError creates a NotFittedError.
func NewNotFittedError(modelName, method string) *NotFittedError {
	return &NotFittedError{ModelName: modelName, Method: method}
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: model must be fitted before calling %s", e.ModelName, e.Method)
}

// ModelError wraps an underlying failure with operation context.
type ModelError struct {
	Op      string // operation that failed
	Message string // what went wrong
	Err     error  // underlying cause, may be a sentinel
}

// NewModelError creates a ModelError wrapping err.
func NewModelError(op, message string, err error) *ModelError {
	return &ModelError{Op: op, Message: message, Err: err}
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause for errors.Is / errors.As traversal.
func (e *ModelError) Unwrap() error {
	return e.Err
}

// Recover converts a panic inside op into a returned error. Use as
//
//	func (m *Model) Fit(X, y mat.Matrix) (err error) {
//	    defer errors.Recover(&err, "Model.Fit")
//	    ...
//
// so gonum panics (shape mismatches and the like) surface as errors
// instead of crashing the caller.
func Recover(err *error, op string) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok {
			*err = crdberrors.Wrapf(e, "%s: panic recovered", op)
			return
		}
		*err = crdberrors.Newf("%s: panic recovered: %v", op, r)
	}
}

// Wrap adds operation context to err, preserving the chain. Returns nil
// when err is nil.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return crdberrors.Wrap(err, op)
}
