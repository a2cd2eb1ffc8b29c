package adjust

import (
	"time"

	"github.com/revmark/revmark/internal/annotation"
	"github.com/revmark/revmark/internal/diffmodel"
)

// RenamePair is one old-path -> new-path rewrite actually applied.
type RenamePair struct {
	Old string
	New string
}

// ApplyRenames rewrites FilePath on every annotation that matches a
// Renamed diff's OldPath, bumping UpdatedAt. It must run before One/All so
// that subsequent lookups by the new path succeed. It returns the list of
// (old, new) pairs actually applied: a pair appears iff at least one
// annotation had that old path.
func ApplyRenames(annotations []annotation.Annotation, diffs []diffmodel.FileDiff) []RenamePair {
	var renames []RenamePair

	for _, diff := range diffs {
		if diff.Status != diffmodel.Renamed || !diff.HasOld || !diff.HasNew || diff.OldPath == diff.NewPath {
			continue
		}

		applied := false
		for i := range annotations {
			if annotations[i].FilePath == diff.OldPath {
				annotations[i].FilePath = diff.NewPath
				annotations[i].UpdatedAt = time.Now().UTC()
				applied = true
			}
		}
		if applied {
			renames = append(renames, RenamePair{Old: diff.OldPath, New: diff.NewPath})
		}
	}

	return renames
}
