// Package fileenum defines the pluggable contract for listing non-binary
// tracked files at a snapshot, plus the binary-detection policy shared by
// every concrete implementation.
package fileenum

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Enumerator lists repository-relative, forward-slash, sorted-ascending
// paths of tracked files at a snapshot, excluding binaries.
type Enumerator interface {
	ListTrackedFiles(ctx context.Context, root string) ([]string, error)
}

// defaultBinaryExtensions is the extension blacklist consulted before
// falling back to a content sniff.
var defaultBinaryExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "bmp": true, "ico": true, "svg": true,
	"pdf": true, "zip": true, "tar": true, "gz": true, "bz2": true, "xz": true, "7z": true,
	"exe": true, "dll": true, "so": true, "dylib": true, "o": true, "a": true,
	"wasm": true, "class": true, "pyc": true, "pyo": true,
	"ttf": true, "otf": true, "woff": true, "woff2": true, "eot": true,
	"mp3": true, "mp4": true, "wav": true, "avi": true, "mkv": true, "mov": true,
	"db": true, "sqlite": true, "sqlite3": true,
}

// BinarySniffBytes is the prefix length inspected for a NUL byte when the
// extension blacklist doesn't decide the question.
const BinarySniffBytes = 8192

// Policy decides whether a path should be treated as binary and therefore
// excluded from enumeration. ExtraExtensions augments the built-in
// blacklist (see internal/toolconfig).
type Policy struct {
	ExtraExtensions []string
}

// IsBinary reports whether fullPath should be excluded: first by
// extension, then by sniffing for a NUL byte in the first BinarySniffBytes
// bytes of its content.
func (p Policy) IsBinary(fullPath string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fullPath), "."))
	if ext != "" {
		if defaultBinaryExtensions[ext] {
			return true
		}
		for _, extra := range p.ExtraExtensions {
			if strings.ToLower(strings.TrimPrefix(extra, ".")) == ext {
				return true
			}
		}
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return false
	}
	checkLen := len(data)
	if checkLen > BinarySniffBytes {
		checkLen = BinarySniffBytes
	}
	for _, b := range data[:checkLen] {
		if b == 0 {
			return true
		}
	}
	return false
}

// SortPaths sorts paths ascending in place, the ordering every Enumerator
// implementation must produce.
func SortPaths(paths []string) {
	sort.Strings(paths)
}
