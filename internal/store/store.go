// Package store provides durable, crash-safe persistence for annotations
// and per-file review status. Two JSONL files live in a tool-private
// directory colocated with the repository root.
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/revmark/revmark/internal/annotation"
	"github.com/revmark/revmark/internal/errs"
)

// Store manages annotation and file-status persistence under a
// tool-private directory (conventionally ".revmark" at the repo root).
type Store struct {
	// Dir is the tool-private directory holding annotations.jsonl and
	// file_status.jsonl.
	Dir string
}

// New constructs a Store rooted at dir.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) annotationsPath() string {
	return filepath.Join(s.Dir, "annotations.jsonl")
}

func (s *Store) fileStatusPath() string {
	return filepath.Join(s.Dir, "file_status.jsonl")
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return errors.Wrapf(err, "create store dir %s", s.Dir)
	}
	return nil
}

// --- Annotations ---

// LoadAnnotations returns every persisted annotation in insertion order.
// A missing file yields an empty slice; a malformed line fails the whole
// load with the offending line number.
func (s *Store) LoadAnnotations() ([]annotation.Annotation, error) {
	return loadJSONL[annotation.Annotation](s.annotationsPath())
}

// AppendAnnotation appends a single annotation and fsyncs before returning,
// so a crash immediately after leaves at most an unparseable trailing line
// that subsequent reads reject rather than silently truncate.
func (s *Store) AppendAnnotation(a annotation.Annotation) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	return appendJSONL(s.annotationsPath(), a)
}

// SaveAnnotations rewrites the annotations file atomically: write to a
// sibling ".tmp" file, then rename over the original. The rename is the
// commit point.
func (s *Store) SaveAnnotations(list []annotation.Annotation) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	return atomicWriteJSONL(s.annotationsPath(), list)
}

// UpdateAnnotation load-modifies-rewrites the record matching updated.ID.
// It is a no-op if no record with that ID exists.
func (s *Store) UpdateAnnotation(updated annotation.Annotation) error {
	all, err := s.LoadAnnotations()
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID == updated.ID {
			all[i] = updated
			break
		}
	}
	return s.SaveAnnotations(all)
}

// DeleteAnnotation removes the record with the given ID, if present.
func (s *Store) DeleteAnnotation(id uuid.UUID) error {
	all, err := s.LoadAnnotations()
	if err != nil {
		return err
	}
	filtered := all[:0:0]
	for _, a := range all {
		if a.ID != id {
			filtered = append(filtered, a)
		}
	}
	return s.SaveAnnotations(filtered)
}

// AnnotationsForFile returns every annotation anchored to path, via a
// linear scan.
func (s *Store) AnnotationsForFile(path string) ([]annotation.Annotation, error) {
	all, err := s.LoadAnnotations()
	if err != nil {
		return nil, err
	}
	var out []annotation.Annotation
	for _, a := range all {
		if a.FilePath == path {
			out = append(out, a)
		}
	}
	return out, nil
}

// --- File status ---

// LoadFileStatuses returns every persisted per-file review state.
func (s *Store) LoadFileStatuses() ([]annotation.FileReviewState, error) {
	return loadJSONL[annotation.FileReviewState](s.fileStatusPath())
}

// SaveFileStatuses rewrites the file-status file atomically.
func (s *Store) SaveFileStatuses(list []annotation.FileReviewState) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	return atomicWriteJSONL(s.fileStatusPath(), list)
}

// SetFileStatus upserts the status for path.
func (s *Store) SetFileStatus(path string, status annotation.FileStatus) error {
	all, err := s.LoadFileStatuses()
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].FilePath == path {
			all[i].Status = status
			return s.SaveFileStatuses(all)
		}
	}
	all = append(all, annotation.FileReviewState{FilePath: path, Status: status})
	return s.SaveFileStatuses(all)
}

// GetFileStatus returns the status for path, defaulting to Unreviewed.
func (s *Store) GetFileStatus(path string) (annotation.FileStatus, error) {
	all, err := s.LoadFileStatuses()
	if err != nil {
		return "", err
	}
	for _, st := range all {
		if st.FilePath == path {
			return st.Status, nil
		}
	}
	return annotation.Unreviewed, nil
}

// --- jsonl helpers ---

func loadJSONL[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	var items []T
	scanner := bufio.NewScanner(file)
	// Records can legitimately contain long free-form text; grow the
	// buffer well past bufio's 64KiB default.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var item T
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			return nil, errs.Wrap(errs.StoreFormat, fmt.Sprintf("%s line %d", path, lineNo), err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return items, nil
}

func appendJSONL[T any](path string, item T) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	data, err := json.Marshal(item)
	if err != nil {
		return errors.Wrap(err, "marshal record")
	}
	data = append(data, '\n')
	if _, err := file.Write(data); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	// Best-effort durability: the record must survive a crash immediately
	// after this call returns.
	return file.Sync()
}

func atomicWriteJSONL[T any](path string, items []T) error {
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "create %s", tmp)
	}
	writer := bufio.NewWriter(file)
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			file.Close()
			os.Remove(tmp)
			return errors.Wrap(err, "marshal record")
		}
		if _, err := writer.Write(data); err != nil {
			file.Close()
			os.Remove(tmp)
			return errors.Wrapf(err, "write %s", tmp)
		}
		if err := writer.WriteByte('\n'); err != nil {
			file.Close()
			os.Remove(tmp)
			return errors.Wrapf(err, "write %s", tmp)
		}
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "flush %s", tmp)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "sync %s", tmp)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "close %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "rename %s to %s", tmp, path)
	}
	return nil
}
