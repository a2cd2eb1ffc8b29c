// Package toolconfig loads reviewer-tunable settings layered the way the
// teacher's Claude-settings loader layers user/project/local JSON: missing
// files are ignored, a malformed file is an error, a later source's
// positive hunk_context overrides an earlier one, and extra_binary_extensions
// lists from all sources are concatenated in source order.
package toolconfig

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds reviewer-tunable settings for the file enumerator and the
// VCS bridge's hunk reconstruction.
type Config struct {
	// ExtraBinaryExtensions augments the built-in binary extension
	// blacklist used by internal/fileenum.
	ExtraBinaryExtensions []string `yaml:"extra_binary_extensions"`
	// HunkContext is the number of unchanged context lines the VCS bridge
	// keeps around a run of changes when grouping lines into hunks.
	HunkContext int `yaml:"hunk_context"`
}

// DefaultHunkContext matches the context width unified diff tooling uses
// by convention.
const DefaultHunkContext = 3

type source struct {
	name string
	path string
}

// sources resolves the user- and project-level config file locations for
// repoRoot, user config first so project config can override it.
func sources(repoRoot string) ([]source, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "resolve home dir")
	}
	return []source{
		{name: "user", path: filepath.Join(home, ".revmark", "config.yaml")},
		{name: "project", path: filepath.Join(repoRoot, ".revmark", "config.yaml")},
	}, nil
}

// Load merges user and project config layers for repoRoot. A missing file
// is ignored; a present-but-malformed file fails the load.
func Load(repoRoot string) (Config, error) {
	cfg := Config{HunkContext: DefaultHunkContext}

	srcs, err := sources(repoRoot)
	if err != nil {
		return cfg, err
	}

	for _, s := range srcs {
		raw, err := os.ReadFile(s.path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return cfg, errors.Wrapf(err, "read %s config %s", s.name, s.path)
		}
		var layer Config
		if err := yaml.Unmarshal(raw, &layer); err != nil {
			return cfg, errors.Wrapf(err, "parse %s config %s", s.name, s.path)
		}
		cfg = merge(cfg, layer)
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	merged := base
	if len(overlay.ExtraBinaryExtensions) > 0 {
		merged.ExtraBinaryExtensions = append(append([]string{}, base.ExtraBinaryExtensions...), overlay.ExtraBinaryExtensions...)
	}
	if overlay.HunkContext > 0 {
		merged.HunkContext = overlay.HunkContext
	}
	return merged
}
