// Package undo implements the grouped undo/redo log (spec component C3).
// It never touches the buffer directly; internal/document supplies a
// Target that applies textbuf.Action values forward or backward and
// reports the cursor, so the log stays a pure record of actions plus
// cursor-before/cursor-after bookkeeping.
package undo

import (
	"errors"

	"github.com/virus-editor/virus/internal/textbuf"
)

// Errors returned by Log operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// maxGroups bounds the undo stack; oldest groups are evicted first.
const maxGroups = 1000

// Target is the document-side hook the log applies actions against.
type Target interface {
	Apply(textbuf.Action)
	SetCursor(textbuf.Position)
}

// Group is one atomic undo unit: a run of Actions plus the cursor before
// and after the whole group, so undo/redo can restore cursor position
// exactly as vim does.
type Group struct {
	Actions      []textbuf.Action
	CursorBefore textbuf.Position
	CursorAfter  textbuf.Position
}

// IsEmpty reports whether the group recorded no actions. Empty groups are
// never pushed onto the log.
func (g *Group) IsEmpty() bool { return len(g.Actions) == 0 }

// Log is two stacks (undo, redo) plus an optional currently-open group.
type Log struct {
	undo []Group
	redo []Group

	current    *Group
	hasCurrent bool
}

// NewLog creates an empty undo log.
func NewLog() *Log { return &Log{} }

// StartGroup opens a new group at the given cursor position. If a
// non-empty group is already open, it is pushed first (defensive: callers
// are expected to End a group before starting another).
func (l *Log) StartGroup(cursorBefore textbuf.Position) {
	if l.hasCurrent && !l.current.IsEmpty() {
		l.pushGroup(*l.current)
	}
	l.current = &Group{CursorBefore: cursorBefore}
	l.hasCurrent = true
}

// AddAction appends an action to the currently open group, opening one
// with a zero-value cursor-before if none is open yet.
func (l *Log) AddAction(a textbuf.Action) {
	if !l.hasCurrent {
		l.current = &Group{}
		l.hasCurrent = true
	}
	l.current.Actions = append(l.current.Actions, a)
}

// EndGroup closes the currently open group, recording cursorAfter, and
// pushes it onto the undo stack if it recorded any actions.
func (l *Log) EndGroup(cursorAfter textbuf.Position) {
	if !l.hasCurrent {
		return
	}
	l.current.CursorAfter = cursorAfter
	if !l.current.IsEmpty() {
		l.pushGroup(*l.current)
	}
	l.current = nil
	l.hasCurrent = false
}

func (l *Log) pushGroup(g Group) {
	l.undo = append(l.undo, g)
	l.redo = nil
	if len(l.undo) > maxGroups {
		excess := len(l.undo) - maxGroups
		l.undo = l.undo[excess:]
	}
}

// CanUndo reports whether there is a group to undo.
func (l *Log) CanUndo() bool { return len(l.undo) > 0 }

// CanRedo reports whether there is a group to redo.
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// Undo finalizes any open group, pops the top undo group, applies each
// action's reverse in reverse order, restores cursor-before, and pushes
// the group onto the redo stack.
func (l *Log) Undo(target Target) error {
	if l.hasCurrent && !l.current.IsEmpty() {
		l.pushGroup(*l.current)
		l.current = nil
		l.hasCurrent = false
	}
	if len(l.undo) == 0 {
		return ErrNothingToUndo
	}
	g := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]

	for i := len(g.Actions) - 1; i >= 0; i-- {
		target.Apply(g.Actions[i].Reverse())
	}
	target.SetCursor(g.CursorBefore)

	l.redo = append(l.redo, g)
	return nil
}

// Redo pops the top redo group, applies its actions forward, restores
// cursor-after, and pushes it back onto the undo stack.
func (l *Log) Redo(target Target) error {
	if len(l.redo) == 0 {
		return ErrNothingToRedo
	}
	g := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]

	for _, a := range g.Actions {
		target.Apply(a)
	}
	target.SetCursor(g.CursorAfter)

	l.undo = append(l.undo, g)
	return nil
}

// UndoCount returns the number of groups available to undo.
func (l *Log) UndoCount() int { return len(l.undo) }

// RedoCount returns the number of groups available to redo.
func (l *Log) RedoCount() int { return len(l.redo) }
