package main

import (
	"context"
	"fmt"

	"github.com/revmark/revmark/internal/adjust"
	"github.com/revmark/revmark/internal/annotation"
	"github.com/revmark/revmark/internal/errs"
	"github.com/revmark/revmark/internal/fileenum"
	"github.com/revmark/revmark/internal/session"
	"github.com/revmark/revmark/internal/toolconfig"
	"github.com/revmark/revmark/internal/vcsdiff"
)

// reconcileSummary reports the outcome of one reconciliation pass as
// "N shifted, N deleted, N conflicts" counts.
type reconcileSummary struct {
	upToDate  bool
	renames   []adjust.RenamePair
	shifted   int
	deletedN  int
	conflicts []annotation.Annotation
}

func (s reconcileSummary) String() string {
	if s.upToDate {
		return "Already up to date."
	}
	out := ""
	for _, r := range s.renames {
		out += fmt.Sprintf("Renamed: %s -> %s\n", r.Old, r.New)
	}
	out += fmt.Sprintf("Adjusted: %d shifted, %d deleted, %d conflicts", s.shifted, s.deletedN, len(s.conflicts))
	return out
}

// reconcile runs the startup reconciliation flow: load annotations and the
// session anchor, diff anchor->current if they differ, apply renames then
// adjustments, persist, then advance the anchor. The anchor is only
// advanced after annotations are durably saved, so a crash between the two
// leaves the next run to safely repeat the same (idempotent) adjustment.
func reconcile(path string, autoResolve bool) (reconcileSummary, error) {
	layout, err := resolveLayout(path)
	if err != nil {
		return reconcileSummary{}, err
	}

	cfg, err := toolconfig.Load(layout.root)
	if err != nil {
		return reconcileSummary{}, err
	}
	bridge, err := vcsdiff.Open(layout.root, cfg.HunkContext, fileenum.Policy{ExtraExtensions: cfg.ExtraBinaryExtensions})
	if err != nil {
		return reconcileSummary{}, err
	}

	sess, err := session.Load(layout.sessionPath)
	if err != nil {
		return reconcileSummary{}, err
	}

	head, err := bridge.HeadCommit()
	if err != nil {
		return reconcileSummary{}, err
	}

	if !sess.HasAnchor() {
		sess.LastAdjustCommit = head
		if err := sess.Save(layout.sessionPath); err != nil {
			return reconcileSummary{}, err
		}
		return reconcileSummary{upToDate: true}, nil
	}

	if sess.LastAdjustCommit == head {
		return reconcileSummary{upToDate: true}, nil
	}

	diffs, err := bridge.Diff(context.Background(), sess.LastAdjustCommit, head)
	if err != nil {
		// The anchor is deliberately not advanced: annotations remain
		// unchanged and the next run retries against the same pair.
		return reconcileSummary{}, err
	}

	annotations, err := layout.store.LoadAnnotations()
	if err != nil {
		return reconcileSummary{}, errs.WrapIfUntagged(errs.StoreIO, "load annotations", err)
	}

	renames := adjust.ApplyRenames(annotations, diffs)
	results := adjust.All(annotations, diffs)

	summary := reconcileSummary{renames: renames}
	for _, pair := range results {
		switch pair.Result.Kind() {
		case annotation.KindShifted:
			summary.shifted++
		case annotation.KindDeleted:
			summary.deletedN++
		case annotation.KindConflict:
			summary.conflicts = append(summary.conflicts, pair.Annotation)
		}
	}

	if autoResolve {
		results = shrinkConflicts(results)
	}

	annotations = adjust.Apply(annotations, results)
	if err := layout.store.SaveAnnotations(annotations); err != nil {
		return reconcileSummary{}, errs.WrapIfUntagged(errs.StoreIO, "save annotations", err)
	}

	sess.LastAdjustCommit = head
	if err := sess.Save(layout.sessionPath); err != nil {
		return reconcileSummary{}, err
	}

	return summary, nil
}

// shrinkConflicts is a CLI-only convenience for --auto-resolve: it turns a
// Conflict into a Shifted result covering the surviving lines, so Apply
// rewrites the range instead of leaving it untouched. The adjustment
// engine itself never auto-shrinks a range; resolution is deferred to the
// user unless this flag is passed.
func shrinkConflicts(results []adjust.Pair) []adjust.Pair {
	out := make([]adjust.Pair, len(results))
	for i, pair := range results {
		if pair.Result.Kind() != annotation.KindConflict {
			out[i] = pair
			continue
		}
		survivors := survivingRange(pair.Annotation.StartLine, pair.Annotation.EndLine, pair.Result.DeletedLines)
		if survivors == nil {
			out[i] = adjust.Pair{Annotation: pair.Annotation, Result: annotation.Deleted()}
			continue
		}
		out[i] = adjust.Pair{
			Annotation: pair.Annotation,
			Result:     annotation.Shifted(pair.Annotation.StartLine, pair.Annotation.EndLine, survivors[0], survivors[1]),
		}
	}
	return out
}

// survivingRange returns the span from the first to the last line of
// [start, end] that is not in deletedLines, or nil if every line was
// deleted. Only deleted lines at either end are trimmed; deleted lines
// between two surviving lines stay inside the returned span.
func survivingRange(start, end uint32, deletedLines []uint32) []uint32 {
	deleted := make(map[uint32]bool, len(deletedLines))
	for _, l := range deletedLines {
		deleted[l] = true
	}

	survivingStart := start
	for survivingStart <= end && deleted[survivingStart] {
		survivingStart++
	}
	survivingEnd := end
	for survivingEnd >= start && deleted[survivingEnd] {
		survivingEnd--
	}
	if survivingStart > survivingEnd {
		return nil
	}
	return []uint32{survivingStart, survivingEnd}
}
