package diffmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHunkOldEnd(t *testing.T) {
	assert.EqualValues(t, 12, Hunk{OldStart: 10, OldLines: 3}.OldEnd())
	assert.EqualValues(t, 10, Hunk{OldStart: 10, OldLines: 0}.OldEnd())
}

func TestHunkNetOffset(t *testing.T) {
	assert.EqualValues(t, 2, Hunk{OldLines: 1, NewLines: 3}.NetOffset())
	assert.EqualValues(t, -2, Hunk{OldLines: 3, NewLines: 1}.NetOffset())
}

func TestHunkDeletedOldLines(t *testing.T) {
	h := Hunk{Lines: []DiffLine{
		{Origin: Context, OldLineno: 1, HasOld: true},
		{Origin: Deletion, OldLineno: 2, HasOld: true},
		{Origin: Addition, NewLineno: 2, HasNew: true},
		{Origin: Deletion, OldLineno: 3, HasOld: true},
	}}
	assert.Equal(t, []uint32{2, 3}, h.DeletedOldLines())
}

func TestFileDiffMatchesPath(t *testing.T) {
	renamed := FileDiff{OldPath: "old.go", HasOld: true, NewPath: "new.go", HasNew: true, Status: Renamed}
	assert.True(t, renamed.MatchesPath("old.go"))
	assert.True(t, renamed.MatchesPath("new.go"))
	assert.False(t, renamed.MatchesPath("other.go"))

	added := FileDiff{NewPath: "new.go", HasNew: true, Status: Added}
	assert.False(t, added.MatchesPath("old.go"))
	assert.True(t, added.MatchesPath("new.go"))
}

func TestFileDiffStatusString(t *testing.T) {
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "deleted", DeletedFile.String())
	assert.Equal(t, "modified", Modified.String())
	assert.Equal(t, "renamed", Renamed.String())
}
