package toolconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithNoFilesReturnsDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	repoRoot := t.TempDir()

	cfg, err := Load(repoRoot)
	require.NoError(t, err)
	assert.Equal(t, DefaultHunkContext, cfg.HunkContext)
	assert.Empty(t, cfg.ExtraBinaryExtensions)
}

func TestLoadMergesUserThenProject(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	repoRoot := t.TempDir()

	writeConfig(t, filepath.Join(home, ".revmark", "config.yaml"), "extra_binary_extensions: [\"psd\"]\nhunk_context: 5\n")
	writeConfig(t, filepath.Join(repoRoot, ".revmark", "config.yaml"), "extra_binary_extensions: [\"ai\"]\n")

	cfg, err := Load(repoRoot)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.HunkContext)
	assert.Equal(t, []string{"psd", "ai"}, cfg.ExtraBinaryExtensions)
}

func TestProjectHunkContextOverridesUser(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	repoRoot := t.TempDir()

	writeConfig(t, filepath.Join(home, ".revmark", "config.yaml"), "hunk_context: 5\n")
	writeConfig(t, filepath.Join(repoRoot, ".revmark", "config.yaml"), "hunk_context: 8\n")

	cfg, err := Load(repoRoot)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.HunkContext)
}

func TestLoadRejectsMalformedConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	repoRoot := t.TempDir()

	writeConfig(t, filepath.Join(repoRoot, ".revmark", "config.yaml"), "hunk_context: [this is not an int\n")

	_, err := Load(repoRoot)
	assert.Error(t, err)
}

func writeConfig(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}
