// Package errs defines the error taxonomy the core surfaces to callers:
// StoreIO, StoreFormat, RepoBoundary, and DiffProducer. The adjustment
// engine itself cannot fail given well-formed inputs, so it has no entry
// here: AdjustConflict is a classification (annotation.Result), not an
// error.
package errs

import (
	"errors"
	"fmt"
)

// Kind tags which part of the taxonomy an error belongs to.
type Kind int

const (
	// StoreIO is a persistence read/write failure.
	StoreIO Kind = iota
	// StoreFormat is a malformed persisted record.
	StoreFormat
	// RepoBoundary means the tool was invoked outside a repository, or
	// against a bare one.
	RepoBoundary
	// DiffProducer means the external diff operation failed; the session
	// anchor must not be advanced.
	DiffProducer
)

func (k Kind) String() string {
	switch k {
	case StoreIO:
		return "store-io"
	case StoreFormat:
		return "store-format"
	case RepoBoundary:
		return "repo-boundary"
	case DiffProducer:
		return "diff-producer"
	default:
		return "unknown"
	}
}

// Error is a taxonomy-tagged, wrapped error with enough context to locate
// the problem in a single-line diagnostic.
type Error struct {
	Kind    Kind
	Context string
	Err     error
}

func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap tags err with kind and a location hint.
func Wrap(kind Kind, context string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Context: context, Err: err}
}

// WrapIfUntagged tags err with kind unless it (or something it wraps) is
// already a tagged *Error, in which case that existing tag is preserved
// as-is. Callers use this at a boundary that only knows one likely kind
// for an error it didn't itself produce, without overwriting a more
// specific kind assigned closer to the failure.
func WrapIfUntagged(kind Kind, context string, err error) error {
	if err == nil {
		return nil
	}
	var tagged *Error
	if errors.As(err, &tagged) {
		return err
	}
	return Wrap(kind, context, err)
}
