// Package diffmodel is the boundary contract between the adjustment
// engine and whatever produces a repository snapshot diff. The engine
// only ever sees the types in this package, never a VCS library.
package diffmodel

// DiffLineType tags a line inside a Hunk.
type DiffLineType int

const (
	// Context is a line present, unchanged, on both sides of the hunk.
	Context DiffLineType = iota
	// Addition is a line present only on the new side.
	Addition
	// Deletion is a line present only on the old side.
	Deletion
)

// DiffLine is one line inside a Hunk, carrying whichever of OldLineno or
// NewLineno applies to its origin. Context lines carry both.
type DiffLine struct {
	Origin DiffLineType
	// OldLineno is set for Context and Deletion lines.
	OldLineno uint32
	HasOld    bool
	// NewLineno is set for Context and Addition lines.
	NewLineno uint32
	HasNew    bool
}

// Hunk is a classical unified-diff hunk.
type Hunk struct {
	OldStart uint32
	OldLines uint32
	NewStart uint32
	NewLines uint32
	Lines    []DiffLine
}

// OldEnd returns the inclusive last old-side line the hunk covers, or
// OldStart itself when the old side is empty (a pure insertion).
func (h Hunk) OldEnd() uint32 {
	if h.OldLines == 0 {
		return h.OldStart
	}
	return h.OldStart + h.OldLines - 1
}

// NetOffset is the number of lines the hunk adds (negative if it removes
// more than it adds).
func (h Hunk) NetOffset() int64 {
	return int64(h.NewLines) - int64(h.OldLines)
}

// DeletedOldLines returns the old-side line numbers of every Deletion line
// in the hunk, in hunk order.
func (h Hunk) DeletedOldLines() []uint32 {
	var out []uint32
	for _, line := range h.Lines {
		if line.Origin == Deletion && line.HasOld {
			out = append(out, line.OldLineno)
		}
	}
	return out
}

// FileDiffStatus classifies how a file changed between two snapshots.
type FileDiffStatus int

const (
	Added FileDiffStatus = iota
	DeletedFile
	Modified
	Renamed
)

func (s FileDiffStatus) String() string {
	switch s {
	case Added:
		return "added"
	case DeletedFile:
		return "deleted"
	case Modified:
		return "modified"
	case Renamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// FileDiff describes one changed path between two snapshots. OldPath is
// absent for Added, NewPath is absent for DeletedFile, both are present
// and distinct for Renamed, both present and equal for Modified.
type FileDiff struct {
	OldPath string
	HasOld  bool
	NewPath string
	HasNew  bool
	Status  FileDiffStatus
	// Hunks are sorted by OldStart ascending and do not overlap.
	Hunks []Hunk
}

// MatchesPath reports whether this diff concerns the given path, either as
// its old or new name.
func (d FileDiff) MatchesPath(path string) bool {
	return (d.HasOld && d.OldPath == path) || (d.HasNew && d.NewPath == path)
}
