// Package session persists the reviewer's transient cursor state and the
// snapshot anchor the adjustment engine reconciles against.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Session records the reviewer's cursor position and the snapshot id
// against which persisted annotations are currently positionally valid.
// Only LastAdjustCommit is material to the core; the rest is transient
// viewport state owned by the (out-of-scope) interactive UI.
type Session struct {
	CurrentFile      string `json:"current_file,omitempty"`
	CurrentLine      uint32 `json:"current_line"`
	CurrentCol       uint32 `json:"current_col"`
	ScrollOffset     uint32 `json:"scroll_offset"`
	LastAdjustCommit string `json:"last_adjust_commit,omitempty"`
}

// Load reads a session from path, returning the zero Session if the file
// does not exist.
func Load(path string) (Session, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, nil
		}
		return Session{}, errors.Wrapf(err, "read session %s", path)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, errors.Wrapf(err, "parse session %s", path)
	}
	return s, nil
}

// Save pretty-prints the session to path for diffability.
func (s Session) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create session dir for %s", path)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal session")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write session %s", path)
	}
	return nil
}

// HasAnchor reports whether an adjustment anchor has been recorded yet.
func (s Session) HasAnchor() bool { return s.LastAdjustCommit != "" }
