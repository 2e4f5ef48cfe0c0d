package charset

import (
	"errors"
	"fmt"
)

// Errors returned by conversion operations.
var (
	// ErrUnsupportedCharset indicates a charset name that is not recognised.
	ErrUnsupportedCharset = errors.New("unsupported charset")

	// ErrInvalidEncoding indicates input that is invalid in the source
	// charset, or a character the target charset cannot represent.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrNotOpen indicates Feed or Close on a converter that was never opened.
	ErrNotOpen = errors.New("converter not open")

	// ErrAlreadyOpen indicates a second Open on the same converter.
	ErrAlreadyOpen = errors.New("converter already open")

	// ErrClosed indicates use of a converter after Close.
	ErrClosed = errors.New("converter closed")
)

// Reasons attached to a ConversionError.
var (
	errInvalidUTF8    = errors.New("invalid UTF-8 sequence")
	errTruncatedInput = errors.New("incomplete sequence at end of input")
	errBufferTooSmall = errors.New("output buffer too small for one character")
)

// ConversionError reports where a conversion failed.
// It matches ErrInvalidEncoding with errors.Is.
type ConversionError struct {
	// Offset is the number of source bytes consumed before the failure.
	Offset int64
	// From and To are the canonical charset names of the session.
	From, To string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting %s to %s at byte %d: %v", e.From, e.To, e.Offset, e.Err)
}

// Unwrap returns both the invalid-encoding kind and the cause.
func (e *ConversionError) Unwrap() []error {
	return []error{ErrInvalidEncoding, e.Err}
}
