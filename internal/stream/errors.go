package stream

import "errors"

// Errors returned by stream operations.
var (
	// ErrClosed indicates use of a stream after Close.
	ErrClosed = errors.New("stream closed")

	// ErrUnknownNewline indicates a newline name that cannot be parsed.
	ErrUnknownNewline = errors.New("unknown newline type")
)
