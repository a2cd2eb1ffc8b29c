// Package annotation defines the core data model: a reviewer's note
// anchored to a line range, per-file review status, and the tagged
// outcome of adjusting an annotation against a diff.
package annotation

import (
	"time"

	"github.com/google/uuid"
)

// Annotation is a user-authored note anchored to an inclusive, 1-based
// line range in a repository-relative file.
type Annotation struct {
	// ID is a stable identity, unique per annotation and never reused.
	ID uuid.UUID `json:"id"`
	// FilePath is repository-relative and forward-slash separated.
	FilePath string `json:"file_path"`
	// StartLine and EndLine form an inclusive range, 1 <= StartLine <= EndLine.
	StartLine uint32 `json:"start_line"`
	EndLine   uint32 `json:"end_line"`
	// Text is the free-form note body.
	Text string `json:"text"`
	// CreatedAt and UpdatedAt are UTC, monotonic per record.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates an Annotation with a fresh identity and timestamps set to now.
func New(filePath string, startLine, endLine uint32, text string) Annotation {
	now := time.Now().UTC()
	return Annotation{
		ID:        uuid.New(),
		FilePath:  filePath,
		StartLine: startLine,
		EndLine:   endLine,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ContainsLine reports whether line falls within the annotation's range.
func (a Annotation) ContainsLine(line uint32) bool {
	return line >= a.StartLine && line <= a.EndLine
}

// Overlaps reports whether [start, end] shares any line with the annotation.
func (a Annotation) Overlaps(start, end uint32) bool {
	return a.StartLine <= end && start <= a.EndLine
}

// FileStatus is the review state of a single file.
type FileStatus string

// Valid FileStatus values. The zero value of FileStatus is the empty
// string, not Unreviewed; the store reports Unreviewed for unknown paths.
const (
	Unreviewed FileStatus = "unreviewed"
	Annotated  FileStatus = "annotated"
	Clean      FileStatus = "clean"
)

// FileReviewState maps a file path to its review status.
type FileReviewState struct {
	FilePath string     `json:"file_path"`
	Status   FileStatus `json:"status"`
}

// Result is the tagged outcome of adjusting one annotation against a diff.
// Exactly one of the Is* predicates is true for any value produced by the
// adjustment engine.
type Result struct {
	kind resultKind

	// Shifted fields, valid when Kind() == KindShifted.
	OldStart, OldEnd, NewStart, NewEnd uint32

	// Conflict field, valid when Kind() == KindConflict. Holds the 1-based
	// old line numbers, in ascending order, that a deletion removed from
	// inside the annotation's original range.
	DeletedLines []uint32
}

type resultKind int

const (
	// KindUnchanged means the annotation's range is still valid as-is.
	KindUnchanged resultKind = iota
	// KindShifted means the range moved but kept its length.
	KindShifted
	// KindConflict means part, but not all, of the range was deleted.
	KindConflict
	// KindDeleted means every line of the range vanished.
	KindDeleted
)

// Kind returns which variant this Result holds.
func (r Result) Kind() resultKind { return r.kind }

// Unchanged constructs the no-op result.
func Unchanged() Result { return Result{kind: KindUnchanged} }

// Deleted constructs the fully-removed result.
func Deleted() Result { return Result{kind: KindDeleted} }

// Shifted constructs a range-preserving shift result.
func Shifted(oldStart, oldEnd, newStart, newEnd uint32) Result {
	return Result{kind: KindShifted, OldStart: oldStart, OldEnd: oldEnd, NewStart: newStart, NewEnd: newEnd}
}

// Conflict constructs a partial-deletion result.
func Conflict(deletedLines []uint32) Result {
	return Result{kind: KindConflict, DeletedLines: deletedLines}
}

// IsUnchanged, IsShifted, IsConflict, IsDeleted are convenience predicates
// over Kind(), matching the exhaustive match pattern the engine relies on.
func (r Result) IsUnchanged() bool { return r.kind == KindUnchanged }
func (r Result) IsShifted() bool   { return r.kind == KindShifted }
func (r Result) IsConflict() bool  { return r.kind == KindConflict }
func (r Result) IsDeleted() bool   { return r.kind == KindDeleted }

func (k resultKind) String() string {
	switch k {
	case KindUnchanged:
		return "unchanged"
	case KindShifted:
		return "shifted"
	case KindConflict:
		return "conflict"
	case KindDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

func (r Result) String() string {
	switch r.kind {
	case KindShifted:
		return "shifted"
	case KindConflict:
		return "conflict"
	case KindDeleted:
		return "deleted"
	default:
		return "unchanged"
	}
}
