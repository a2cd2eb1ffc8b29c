package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/revmark/revmark/internal/adjust"
	"github.com/revmark/revmark/internal/annotation"
)

func TestSurvivingRangePrefixSurvives(t *testing.T) {
	got := survivingRange(10, 15, []uint32{13, 14, 15})
	assert.Equal(t, []uint32{10, 12}, got)
}

func TestSurvivingRangeSuffixSurvives(t *testing.T) {
	got := survivingRange(10, 15, []uint32{10, 11, 12})
	assert.Equal(t, []uint32{13, 15}, got)
}

func TestSurvivingRangeNothingSurvives(t *testing.T) {
	got := survivingRange(10, 12, []uint32{10, 11, 12})
	assert.Nil(t, got)
}

func TestShrinkConflictsTurnsConflictIntoShifted(t *testing.T) {
	a := annotation.New("f.go", 10, 15, "note")
	results := []adjust.Pair{
		{Annotation: a, Result: annotation.Conflict([]uint32{13, 14, 15})},
	}
	out := shrinkConflicts(results)
	assert.True(t, out[0].Result.IsShifted())
	assert.EqualValues(t, 10, out[0].Result.NewStart)
	assert.EqualValues(t, 12, out[0].Result.NewEnd)
}

func TestShrinkConflictsTurnsFullWipeoutIntoDeleted(t *testing.T) {
	a := annotation.New("f.go", 10, 12, "note")
	results := []adjust.Pair{
		{Annotation: a, Result: annotation.Conflict([]uint32{10, 11, 12})},
	}
	out := shrinkConflicts(results)
	assert.True(t, out[0].Result.IsDeleted())
}

func TestReconcileSummaryStringUpToDate(t *testing.T) {
	s := reconcileSummary{upToDate: true}
	assert.Equal(t, "Already up to date.", s.String())
}

func TestReconcileSummaryStringReportsCounts(t *testing.T) {
	s := reconcileSummary{
		renames:   []adjust.RenamePair{{Old: "a.go", New: "b.go"}},
		shifted:   2,
		deletedN:  1,
		conflicts: []annotation.Annotation{annotation.New("f.go", 1, 1, "x")},
	}
	out := s.String()
	assert.Contains(t, out, "Renamed: a.go -> b.go")
	assert.Contains(t, out, "Adjusted: 2 shifted, 1 deleted, 1 conflicts")
}
