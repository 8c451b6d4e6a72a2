package app

import "errors"

// Application errors.
var (
	// ErrNoDocuments indicates the input contained no edit documents.
	ErrNoDocuments = errors.New("no edit documents in input")

	// ErrInvalidPath indicates a patch referenced a path that is empty,
	// absolute, or escapes the workspace root.
	ErrInvalidPath = errors.New("invalid document path")
)
