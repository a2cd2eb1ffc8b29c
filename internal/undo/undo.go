// Package undo implements the in-memory, invertible edit ledger for
// interactive annotation mutations. Adjustments performed by the
// adjustment engine are reconciliations, not user edits, and are never
// pushed here.
package undo

import "github.com/revmark/revmark/internal/annotation"

// ActionKind tags which mutation an Action records.
type ActionKind int

const (
	Create ActionKind = iota
	Delete
	Update
)

// Action is one invertible user edit.
type Action struct {
	Kind ActionKind
	// Annotation is valid for Create and Delete.
	Annotation annotation.Annotation
	// Old and New are valid for Update.
	Old annotation.Annotation
	New annotation.Annotation
}

// Invert returns the action that undoes a. Create(a) inverts to Delete(a);
// Update{old,new} inverts to Update{old=new,new=old}.
func (a Action) Invert() Action {
	switch a.Kind {
	case Create:
		return Action{Kind: Delete, Annotation: a.Annotation}
	case Delete:
		return Action{Kind: Create, Annotation: a.Annotation}
	case Update:
		return Action{Kind: Update, Old: a.New, New: a.Old}
	default:
		return a
	}
}

// Stack holds the undo and redo histories for one interactive session.
// It is in-memory only and is never persisted.
type Stack struct {
	undo []Action
	redo []Action
}

// Push records a new user action and clears the redo history.
func (s *Stack) Push(a Action) {
	s.undo = append(s.undo, a)
	s.redo = nil
}

// Undo pops the most recent action, pushes it onto the redo stack, and
// returns its inverse for the caller to apply. The second return value is
// false when there was nothing to undo.
func (s *Stack) Undo() (Action, bool) {
	if len(s.undo) == 0 {
		return Action{}, false
	}
	last := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, last)
	return last.Invert(), true
}

// Redo is symmetric to Undo.
func (s *Stack) Redo() (Action, bool) {
	if len(s.redo) == 0 {
		return Action{}, false
	}
	last := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, last)
	return last.Invert(), true
}

// CanUndo reports whether Undo would return an action.
func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether Redo would return an action.
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }
