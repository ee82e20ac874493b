// Package editor is the facade that wires the mode state machine, the
// buffer manager, and the shared register/mark/search singletons into one
// coordinating object. Handle processes one decoded key event at a time
// and retargets the mode machine when the active buffer changes; the
// cooperative event loop itself (spec §5) is termio.Run.
package editor

import (
	"errors"

	"github.com/virus-editor/virus/internal/buffers"
	"github.com/virus-editor/virus/internal/ex"
	"github.com/virus-editor/virus/internal/key"
	"github.com/virus-editor/virus/internal/marks"
	"github.com/virus-editor/virus/internal/modes"
	"github.com/virus-editor/virus/internal/registers"
	"github.com/virus-editor/virus/internal/search"
)

// ErrQuit signals that the user asked to exit (`:q`, `:q!`, `:wq`, `:x`,
// or ZZ/ZQ in the future) and the host loop should stop.
var ErrQuit = errors.New("quit requested")

// Editor owns every editor-scoped singleton: the buffer list, the shared
// registers/marks/search state, the ex command executor, and the mode
// machine for whichever buffer is currently active. Unlike the teacher's
// Application, it holds no mutex and runs no goroutines of its own — the
// host (internal/termio, or a test) drives it one key event at a time.
type Editor struct {
	Buffers *buffers.Manager
	Regs    *registers.Store
	Marks   *marks.Manager
	Search  *search.State
	Ex      *ex.Executor
	View    *ex.ViewOptions

	Machine *modes.Machine

	quitRequested bool
}

// New creates an Editor with a single empty, unnamed buffer.
func New() *Editor {
	return NewWithFiles(nil)
}

// NewWithFiles creates an Editor, opening each path in order and making
// the first one active. A nil or empty slice behaves like New.
func NewWithFiles(paths []string) *Editor {
	regs := registers.NewStore()
	mrks := marks.NewManager()
	srch := search.NewState()
	bufs := buffers.NewWithFiles(mrks, paths)
	view := &ex.ViewOptions{ShowLineNumbers: true}
	executor := ex.New(bufs, mrks, srch, view)

	e := &Editor{
		Buffers: bufs,
		Regs:    regs,
		Marks:   mrks,
		Search:  srch,
		Ex:      executor,
		View:    view,
	}
	e.Machine = modes.New(bufs.Current(), regs, mrks, srch)
	e.Machine.ExecuteCommand = e.executeCommand
	return e
}

// executeCommand adapts ex.Executor.Execute to the Machine's narrower
// ExecuteCommand hook: it runs the command, retargets the Machine onto
// whatever buffer is now current (an ex command may have switched,
// closed, or opened one), and remembers a pending quit so Handle can
// report it back to the host loop without widening the hook's signature.
func (e *Editor) executeCommand(line string) string {
	status, quit := e.Ex.Execute(line)
	e.retarget()
	if quit {
		e.quitRequested = true
	}
	return status
}

// retarget points the Machine at whatever buffer is now current, for
// instance after `:bn`, `:e other.txt`, or `:bd`.
func (e *Editor) retarget() {
	if e.Machine.Doc != e.Buffers.Current() {
		e.Machine.Doc = e.Buffers.Current()
	}
}

// Handle decodes one key event against the active buffer's mode machine
// and reports ErrQuit once an ex command has asked to exit.
func (e *Editor) Handle(ev key.Event) error {
	e.quitRequested = false
	e.Machine.Handle(ev)
	if e.quitRequested {
		return ErrQuit
	}
	return nil
}

// Status returns the current status-line text (error, ex command result,
// or mode indicator) for the renderer.
func (e *Editor) Status() string { return e.Machine.Status() }
