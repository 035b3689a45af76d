package arrayobj

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ArrayError is the type of every error returned by this package. All errors
// can be compared to the Err* values with [errors.Is], even after extra context
// has been added with WithMessage or Wrap.
type ArrayError interface {
	error
	WithMessage(message string) ArrayError
	Wrap(err error) ArrayError
}

type baseArrayError string

const rootError = baseArrayError("")

// ErrVectorLengthMismatch is returned when the real and imaginary parts of a
// complex array have different lengths.
var ErrVectorLengthMismatch = rootError.WithMessage("real and imaginary parts must have the same length")

// ErrNumberOfElementsMismatch is returned when the number of elements given
// doesn't match the product of the shape.
var ErrNumberOfElementsMismatch = rootError.WithMessage("number of elements doesn't match the shape")

// ErrTooLargeDimension is returned when an array would have more than
// [MaxDimensions] dimensions.
var ErrTooLargeDimension = rootError.WithMessage("too many dimensions")

// ErrWrongDataType is returned when the requested native type or shape doesn't
// agree with the array's data type or dimension.
var ErrWrongDataType = rootError.WithMessage("wrong data type")

// ErrLossyConversion is returned when converting would lose precision and the
// caller didn't allow it with [AllowLossyFloat].
var ErrLossyConversion = rootError.WithMessage("lossy conversion of floating-point numbers is disabled")

// ErrConcatShapeMismatch is returned when arrays to concatenate don't all have
// the same shape, data type and size.
var ErrConcatShapeMismatch = rootError.WithMessage("only arrays of the same shape, type and size can be concatenated")

// ErrUnableToDecode is returned when packed data is broken or isn't an array.
var ErrUnableToDecode = rootError.WithMessage("data is either broken or not a packed array")

// ErrIncompatibleConversion is returned when a stored integer doesn't fit in
// the requested native type.
var ErrIncompatibleConversion = rootError.WithMessage("integer type is incompatible with the data")

// ErrExternal wraps errors coming from outside this package, such as an I/O
// error while reading a packed array.
var ErrExternal = rootError.WithMessage("external error")

// ErrInvariantViolation indicates a bug in this package rather than bad input:
// an internal consistency check failed.
var ErrInvariantViolation = rootError.WithMessage("internal invariant violated")

func (e baseArrayError) Error() string {
	return string(e)
}

func (e baseArrayError) WithMessage(message string) ArrayError {
	return customArrayError{
		message:       message,
		originalError: e,
	}
}

func (e baseArrayError) Wrap(err error) ArrayError {
	return customArrayError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customArrayError struct {
	message       string
	originalError error
}

// Error returns the sentinel's message followed by any added context.
func (e customArrayError) Error() string {
	return e.message
}

func (e customArrayError) WithMessage(message string) ArrayError {
	return customArrayError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customArrayError) Wrap(err error) ArrayError {
	return customArrayError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customArrayError) Unwrap() error {
	return e.originalError
}
