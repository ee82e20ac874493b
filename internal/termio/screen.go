// Package termio is the terminal host: it owns the tcell screen, decodes
// raw terminal events into key.Events for internal/editor, and renders
// the editor's exposed state back to the terminal. It is the only
// package that imports tcell.
package termio

import (
	"github.com/gdamore/tcell/v2"

	"github.com/virus-editor/virus/internal/key"
)

// Screen wraps a tcell.Screen. Unlike the teacher's Backend abstraction,
// it carries no mutex: the editor's event loop is single-threaded and
// cooperative (spec §5), so there is never a second goroutine calling
// into Screen concurrently.
type Screen struct {
	s tcell.Screen
}

// NewScreen creates and initializes a terminal screen.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.EnablePaste()
	s.SetStyle(tcell.StyleDefault)
	return &Screen{s: s}, nil
}

// Close shuts the terminal screen down and restores the prior terminal
// state. Safe to call once Init has succeeded.
func (sc *Screen) Close() { sc.s.Fini() }

// Size returns the current terminal dimensions in columns, rows.
func (sc *Screen) Size() (int, int) { return sc.s.Size() }

// PollKey blocks for the next event and returns a decoded key event, true
// on a key press, or the zero Event, false for any other event (resize,
// mouse, paste, focus) — the caller should re-poll in that case after
// handling resize via Size.
func (sc *Screen) PollKey() (key.Event, bool) {
	switch ev := sc.s.PollEvent().(type) {
	case *tcell.EventKey:
		return decodeKey(ev), true
	default:
		return key.Event{}, false
	}
}

// Beep sounds the terminal bell, best-effort.
func (sc *Screen) Beep() { _ = sc.s.Beep() }
