package dataset

import "errors"

var (
	// ErrDataSource indicates that a backing store (caption table or
	// feature archive) is missing or corrupt. Fatal, never retried.
	ErrDataSource = errors.New("dataset: data source")

	// ErrOutOfRange indicates an example access outside [0, Len()).
	ErrOutOfRange = errors.New("dataset: index out of range")
)
