package fileenum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBinaryByExtension(t *testing.T) {
	p := Policy{}
	assert.True(t, p.IsBinary("logo.PNG"))
	assert.True(t, p.IsBinary("archive.tar.gz"))
	assert.False(t, p.IsBinary("main.go"))
}

func TestIsBinaryByExtraExtension(t *testing.T) {
	p := Policy{ExtraExtensions: []string{".proprietary"}}
	dir := t.TempDir()
	path := filepath.Join(dir, "data.proprietary")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	assert.True(t, p.IsBinary(path))
}

func TestIsBinaryByContentSniff(t *testing.T) {
	p := Policy{}
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello\x00world"), 0o644))
	assert.True(t, p.IsBinary(path))
}

func TestIsBinaryTextFileIsNotBinary(t *testing.T) {
	p := Policy{}
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just some plain text"), 0o644))
	assert.False(t, p.IsBinary(path))
}

func TestIsBinaryMissingFileIsNotBinary(t *testing.T) {
	p := Policy{}
	assert.False(t, p.IsBinary(filepath.Join(t.TempDir(), "nope.txt")))
}

func TestSortPaths(t *testing.T) {
	paths := []string{"b.go", "a.go", "c.go"}
	SortPaths(paths)
	assert.Equal(t, []string{"a.go", "b.go", "c.go"}, paths)
}
