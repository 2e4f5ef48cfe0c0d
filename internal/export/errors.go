package export

import "errors"

// Errors returned by export operations.
var (
	// ErrIsDirectory indicates a file operation was given a directory.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrSamePath indicates a watch whose source and destination coincide.
	ErrSamePath = errors.New("source and destination are the same file")
)
