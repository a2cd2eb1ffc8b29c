// Package adjust implements the annotation adjustment engine: given an
// annotation and the FileDiff that touches its file, compute a
// deterministic AdjustResult, and apply a batch of such results back onto
// a slice of annotations. The engine is pure over its inputs: it never
// touches storage or a VCS.
package adjust

import (
	"time"

	"github.com/google/uuid"

	"github.com/revmark/revmark/internal/annotation"
	"github.com/revmark/revmark/internal/diffmodel"
)

// Pair couples an annotation (as it was before adjustment) with the
// result computed for it.
type Pair struct {
	Annotation annotation.Annotation
	Result     annotation.Result
}

// findDiff returns the FileDiff whose old or new path equals path, if any.
func findDiff(diffs []diffmodel.FileDiff, path string) (diffmodel.FileDiff, bool) {
	for _, d := range diffs {
		if d.MatchesPath(path) {
			return d, true
		}
	}
	return diffmodel.FileDiff{}, false
}

// One computes the AdjustResult for a single annotation against whichever
// diff in diffs touches its (post-rename) file path. An annotation with no
// matching diff is Unchanged.
func One(a annotation.Annotation, diffs []diffmodel.FileDiff) annotation.Result {
	diff, ok := findDiff(diffs, a.FilePath)
	if !ok {
		return annotation.Unchanged()
	}
	return oneAgainstDiff(a, diff)
}

func oneAgainstDiff(a annotation.Annotation, diff diffmodel.FileDiff) annotation.Result {
	switch diff.Status {
	case diffmodel.DeletedFile:
		return annotation.Deleted()
	case diffmodel.Added:
		// An annotation surviving on a path that is newly Added is a
		// logical anomaly the engine tolerates rather than rejects.
		return annotation.Unchanged()
	}

	start, end := a.StartLine, a.EndLine

	var offset int64
	var deletedInRange []uint32

	for _, hunk := range diff.Hunks {
		hunkOldEnd := hunk.OldEnd()

		switch {
		case hunkOldEnd < start:
			offset += hunk.NetOffset()

		case hunk.OldStart > end:
			// Sorted, non-overlapping hunks: no later hunk can matter.
			return classify(start, end, offset, deletedInRange)

		default:
			for _, deletedLine := range hunk.DeletedOldLines() {
				if deletedLine >= start && deletedLine <= end {
					deletedInRange = append(deletedInRange, deletedLine)
				}
			}

			// pre_offset: net change from edits whose old coordinate lies
			// strictly before the annotation's start. An addition's
			// position in the old coordinate space is reconstructed from
			// its new line number minus everything already known to
			// precede the annotation.
			var preOffset int64
			for _, line := range hunk.Lines {
				switch line.Origin {
				case diffmodel.Deletion:
					if line.HasOld && line.OldLineno < start {
						preOffset--
					}
				case diffmodel.Addition:
					if line.HasNew {
						effectiveOld := int64(line.NewLineno) - offset - preOffset
						if effectiveOld < int64(start) {
							preOffset++
						}
					}
				}
			}
			offset += preOffset
		}
	}

	return classify(start, end, offset, deletedInRange)
}

func classify(start, end uint32, offset int64, deletedInRange []uint32) annotation.Result {
	totalLines := uint32(int64(end) - int64(start) + 1)

	if uint32(len(deletedInRange)) == totalLines {
		return annotation.Deleted()
	}
	if len(deletedInRange) > 0 {
		return annotation.Conflict(deletedInRange)
	}

	newStartSigned := int64(start) + offset
	newEndSigned := int64(end) + offset
	if newStartSigned < 1 || newEndSigned < 1 {
		// The anchor vanished: nothing sensible to point at anymore.
		return annotation.Deleted()
	}

	newStart, newEnd := uint32(newStartSigned), uint32(newEndSigned)
	if newStart == start && newEnd == end {
		return annotation.Unchanged()
	}
	return annotation.Shifted(start, end, newStart, newEnd)
}

// All computes the AdjustResult for every annotation against diffs,
// pairing each with its original (pre-adjustment) value.
func All(annotations []annotation.Annotation, diffs []diffmodel.FileDiff) []Pair {
	results := make([]Pair, 0, len(annotations))
	for _, a := range annotations {
		results = append(results, Pair{Annotation: a, Result: One(a, diffs)})
	}
	return results
}

// Apply mutates annotations in place according to results: Shifted
// rewrites the range and bumps UpdatedAt, Deleted removes the record,
// Conflict leaves the record untouched for the user to resolve, and
// Unchanged is a no-op. Applying the same results a second time leaves
// every range as the first pass set it, since a Shifted result carries
// absolute NewStart/NewEnd values (UpdatedAt is bumped again).
func Apply(annotations []annotation.Annotation, results []Pair) []annotation.Annotation {
	deleted := make(map[uuid.UUID]bool, len(results))
	shifted := make(map[uuid.UUID]annotation.Result, len(results))
	for _, pair := range results {
		switch pair.Result.Kind() {
		case annotation.KindShifted:
			shifted[pair.Annotation.ID] = pair.Result
		case annotation.KindDeleted:
			deleted[pair.Annotation.ID] = true
		}
	}

	out := make([]annotation.Annotation, 0, len(annotations))
	for _, a := range annotations {
		if deleted[a.ID] {
			continue
		}
		if r, ok := shifted[a.ID]; ok {
			a.StartLine = r.NewStart
			a.EndLine = r.NewEnd
			a.UpdatedAt = time.Now().UTC()
		}
		out = append(out, a)
	}
	return out
}
