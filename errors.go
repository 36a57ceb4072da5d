package heightfield

import (
	"errors"

	"github.com/gogpu/heightfield/internal/image"
)

// Errors returned by heightfield. All of them can be matched with errors.Is;
// codec failures additionally wrap the underlying codec error.
var (
	// ErrInvalidArgument is returned for invalid configuration, such as a
	// channel range outside [0,3] or a non-positive spatial scale.
	ErrInvalidArgument = errors.New("heightfield: invalid argument")

	// ErrDimensionMismatch is returned when a companion image does not
	// match the dimensions of the input.
	ErrDimensionMismatch = errors.New("heightfield: dimension mismatch")

	// ErrDecode is returned when an input image is missing channels or corrupt.
	ErrDecode = image.ErrDecode

	// ErrIO is returned when a file cannot be read or written.
	ErrIO = image.ErrIO

	// ErrUnsupportedFormat is returned for unknown container formats.
	ErrUnsupportedFormat = image.ErrUnsupportedFormat

	// ErrUnsupportedEncoding is returned for pixel encodings outside the
	// supported set.
	ErrUnsupportedEncoding = image.ErrUnsupportedEncoding

	// ErrOutOfRange is returned for exact pixel access outside the buffer.
	ErrOutOfRange = image.ErrOutOfRange

	// ErrInvalidBuffer is returned when sampling or accessing a buffer
	// without a backing store.
	ErrInvalidBuffer = image.ErrInvalidBuffer

	// ErrInvalidDimensions is returned for non-positive width or height.
	ErrInvalidDimensions = image.ErrInvalidDimensions
)
