package patch

import (
	"errors"
	"fmt"

	"github.com/dshills/fuzzypatch/internal/engine/buffer"
)

// Errors returned while parsing and resolving patches. Resolution
// failures carry richer context via NoMatchError and AmbiguousMatchError,
// which unwrap to the matching sentinel.
var (
	ErrNoEditsTag      = errors.New("no edits tag")
	ErrNoPathAttribute = errors.New("no path attribute on edits tag")
	ErrNoPathValue     = errors.New("no value for path attribute")
	ErrMalformedTag    = errors.New("malformed tag")
	ErrMissingNewText  = errors.New("no new_text tag following old_text")
	ErrUnresolvedPath  = errors.New("no buffer for path")
	ErrNoMatch         = errors.New("failed to match old_text")
	ErrAmbiguousMatch  = errors.New("old_text is not unique enough")
)

// PatchError wraps any failure from Apply together with the patch text
// that produced it.
type PatchError struct {
	Input string
	Err   error
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("failed to apply edits: %v\n\npatch:\n%s", e.Err, e.Input)
}

func (e *PatchError) Unwrap() error { return e.Err }

// Candidate describes one location a query matched.
type Candidate struct {
	Span  buffer.Range // Matched byte range in the snapshot
	Start buffer.Point // Line/column of the span start
	Text  string       // The matched text
}

// AmbiguousMatchError reports a query that matched two locations with
// equal cost, so neither can be chosen safely.
type AmbiguousMatchError struct {
	Query  string
	First  Candidate
	Second Candidate
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("old_text is not unique enough:\n%s\nfound at %s and %s",
		e.Query, e.First.Start, e.Second.Start)
}

func (e *AmbiguousMatchError) Unwrap() error { return ErrAmbiguousMatch }

// NoMatchError reports a query that no searched range accepted. Closest
// holds the most similar region found, when one exists, to aid debugging
// patches written against an older version of the file.
type NoMatchError struct {
	Query    string
	Searched string
	Closest  string
}

func (e *NoMatchError) Error() string {
	msg := fmt.Sprintf("failed to match old_text:\n%s", e.Query)
	if e.Closest != "" {
		msg += fmt.Sprintf("\nclosest match:\n%s", e.Closest)
	}
	return msg
}

func (e *NoMatchError) Unwrap() error { return ErrNoMatch }
