// Package vcsdiff is the concrete DiffProducer and file enumerator the CLI
// wires into the adjustment engine. It is the only internal package that
// imports a VCS library (cmd/revmark also uses go-git, for repository
// discovery). internal/adjust and internal/store never do, which keeps
// the engine testable against hand-built diffmodel values alone.
package vcsdiff

import (
	"context"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	gitdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/revmark/revmark/internal/diffmodel"
	"github.com/revmark/revmark/internal/errs"
	"github.com/revmark/revmark/internal/fileenum"
	"github.com/revmark/revmark/internal/toolconfig"
)

// Bridge implements the engine's DiffProducer contract and the file
// enumerator contract on top of a real git repository.
type Bridge struct {
	repo        *git.Repository
	root        string
	hunkContext int
	binary      fileenum.Policy
}

// Open opens the git repository at root. hunkContext <= 0 falls back to
// toolconfig.DefaultHunkContext.
func Open(root string, hunkContext int, binary fileenum.Policy) (*Bridge, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, errs.Wrap(errs.RepoBoundary, root, err)
	}
	if hunkContext <= 0 {
		hunkContext = toolconfig.DefaultHunkContext
	}
	return &Bridge{repo: repo, root: root, hunkContext: hunkContext, binary: binary}, nil
}

// HeadCommit returns the current HEAD commit hash as an opaque snapshot id.
func (b *Bridge) HeadCommit() (string, error) {
	head, err := b.repo.Head()
	if err != nil {
		return "", errs.Wrap(errs.RepoBoundary, "HEAD", err)
	}
	return head.Hash().String(), nil
}

func (b *Bridge) resolveCommit(rev string) (*object.Commit, error) {
	hash, err := b.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, errs.Wrap(errs.DiffProducer, rev, err)
	}
	commit, err := b.repo.CommitObject(*hash)
	if err != nil {
		return nil, errs.Wrap(errs.DiffProducer, rev, err)
	}
	return commit, nil
}

// Diff implements the engine's DiffProducer contract: file diffs covering
// exactly the paths that changed between from and to, hunks sorted, and
// renames detected (by pairing delete/insert halves that carry identical
// blob content, the way an exact git rename is recognized).
func (b *Bridge) Diff(ctx context.Context, from, to string) ([]diffmodel.FileDiff, error) {
	fromCommit, err := b.resolveCommit(from)
	if err != nil {
		return nil, err
	}
	toCommit, err := b.resolveCommit(to)
	if err != nil {
		return nil, err
	}

	patch, err := fromCommit.Patch(toCommit)
	if err != nil {
		return nil, errs.Wrap(errs.DiffProducer, from+".."+to, err)
	}

	return b.convertPatch(patch), nil
}

// ListTrackedFiles implements fileenum.Enumerator by walking the tree of
// the HEAD commit and excluding binaries per b.binary.
func (b *Bridge) ListTrackedFiles(ctx context.Context, root string) ([]string, error) {
	head, err := b.repo.Head()
	if err != nil {
		return nil, errs.Wrap(errs.RepoBoundary, "HEAD", err)
	}
	commit, err := b.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, errs.Wrap(errs.DiffProducer, "HEAD", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, errs.Wrap(errs.DiffProducer, "HEAD tree", err)
	}

	var files []string
	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()
	for {
		name, entry, err := walker.Next()
		if err != nil {
			break
		}
		if entry.Mode.IsFile() {
			fullPath := root + "/" + name
			if !b.binary.IsBinary(fullPath) {
				files = append(files, name)
			}
		}
	}

	fileenum.SortPaths(files)
	return files, nil
}

type fileHalf struct {
	path string
	hash plumbing.Hash
	fp   gitdiff.FilePatch
}

func (b *Bridge) convertPatch(patch *object.Patch) []diffmodel.FileDiff {
	var modified []diffmodel.FileDiff
	var adds, dels []fileHalf

	for _, fp := range patch.FilePatches() {
		from, to := fp.Files()
		switch {
		case from == nil && to != nil:
			adds = append(adds, fileHalf{path: to.Path(), hash: to.Hash(), fp: fp})
		case from != nil && to == nil:
			dels = append(dels, fileHalf{path: from.Path(), hash: from.Hash(), fp: fp})
		case from != nil && to != nil:
			modified = append(modified, diffmodel.FileDiff{
				OldPath: from.Path(), HasOld: true,
				NewPath: to.Path(), HasNew: true,
				Status: diffmodel.Modified,
				Hunks:  hunksFromChunks(fp.Chunks(), b.hunkContext),
			})
		}
	}

	used := make([]bool, len(dels))
	var diffs []diffmodel.FileDiff

	for _, add := range adds {
		pairedIdx := -1
		for i, del := range dels {
			if !used[i] && del.hash == add.hash {
				pairedIdx = i
				break
			}
		}
		if pairedIdx == -1 {
			diffs = append(diffs, diffmodel.FileDiff{
				NewPath: add.path, HasNew: true,
				Status: diffmodel.Added,
				Hunks:  hunksFromChunks(add.fp.Chunks(), b.hunkContext),
			})
			continue
		}
		used[pairedIdx] = true
		del := dels[pairedIdx]
		diffs = append(diffs, diffmodel.FileDiff{
			OldPath: del.path, HasOld: true,
			NewPath: add.path, HasNew: true,
			Status: diffmodel.Renamed,
			Hunks:  hunksFromChunks(add.fp.Chunks(), b.hunkContext),
		})
	}

	for i, del := range dels {
		if used[i] {
			continue
		}
		diffs = append(diffs, diffmodel.FileDiff{
			OldPath: del.path, HasOld: true,
			Status: diffmodel.DeletedFile,
		})
	}

	diffs = append(diffs, modified...)
	sort.Slice(diffs, func(i, j int) bool {
		return diffPath(diffs[i]) < diffPath(diffs[j])
	})
	return diffs
}

func diffPath(d diffmodel.FileDiff) string {
	if d.HasOld {
		return d.OldPath
	}
	return d.NewPath
}

// flatLine is one content line with its conceptual old/new positions,
// carried regardless of whether that side actually has a counterpart
// (an addition still has a well-defined "insert before this old line"
// position, and symmetrically for a deletion).
type flatLine struct {
	origin diffmodel.DiffLineType
	oldPos uint32
	newPos uint32
}

func flattenChunks(chunks []gitdiff.Chunk) []flatLine {
	var lines []flatLine
	oldLine, newLine := uint32(1), uint32(1)

	for _, chunk := range chunks {
		content := strings.TrimSuffix(chunk.Content(), "\n")
		if content == "" {
			continue
		}
		parts := strings.Split(content, "\n")

		switch chunk.Type() {
		case gitdiff.Equal:
			for range parts {
				lines = append(lines, flatLine{diffmodel.Context, oldLine, newLine})
				oldLine++
				newLine++
			}
		case gitdiff.Delete:
			for range parts {
				lines = append(lines, flatLine{diffmodel.Deletion, oldLine, newLine})
				oldLine++
			}
		case gitdiff.Add:
			for range parts {
				lines = append(lines, flatLine{diffmodel.Addition, oldLine, newLine})
				newLine++
			}
		}
	}

	return lines
}

// hunksFromChunks groups go-git's flat equal/add/delete chunk stream into
// unified-diff hunks with a context-line window, the shape the
// adjustment engine expects. go-git's Patch API exposes content chunks,
// not pre-grouped hunks, so this reconstructs them.
func hunksFromChunks(chunks []gitdiff.Chunk, context int) []diffmodel.Hunk {
	lines := flattenChunks(chunks)
	if len(lines) == 0 {
		return nil
	}

	var changedIdx []int
	for i, l := range lines {
		if l.origin != diffmodel.Context {
			changedIdx = append(changedIdx, i)
		}
	}
	if len(changedIdx) == 0 {
		return nil
	}

	type window struct{ lo, hi int }
	var windows []window
	lo, hi := changedIdx[0], changedIdx[0]
	for _, idx := range changedIdx[1:] {
		if idx-hi <= 2*context {
			hi = idx
			continue
		}
		windows = append(windows, window{lo, hi})
		lo, hi = idx, idx
	}
	windows = append(windows, window{lo, hi})

	hunks := make([]diffmodel.Hunk, 0, len(windows))
	for _, w := range windows {
		start := w.lo - context
		if start < 0 {
			start = 0
		}
		end := w.hi + context
		if end > len(lines)-1 {
			end = len(lines) - 1
		}
		segment := lines[start : end+1]

		hunk := diffmodel.Hunk{OldStart: segment[0].oldPos, NewStart: segment[0].newPos}
		for _, l := range segment {
			dl := diffmodel.DiffLine{Origin: l.origin}
			switch l.origin {
			case diffmodel.Context:
				dl.OldLineno, dl.HasOld = l.oldPos, true
				dl.NewLineno, dl.HasNew = l.newPos, true
				hunk.OldLines++
				hunk.NewLines++
			case diffmodel.Deletion:
				dl.OldLineno, dl.HasOld = l.oldPos, true
				hunk.OldLines++
			case diffmodel.Addition:
				dl.NewLineno, dl.HasNew = l.newPos, true
				hunk.NewLines++
			}
			hunk.Lines = append(hunk.Lines, dl)
		}
		hunks = append(hunks, hunk)
	}

	return hunks
}
