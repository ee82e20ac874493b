package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/virus-editor/virus/internal/key"
)

func typeLine(e *Editor, s string) {
	for _, r := range s {
		e.Handle(key.NewRuneEvent(r, key.ModNone))
	}
}

func runCommand(e *Editor, cmd string) error {
	e.Handle(key.NewRuneEvent(':', key.ModNone))
	typeLine(e, cmd)
	return e.Handle(key.NewSpecialEvent(key.KeyEnter, key.ModNone))
}

func TestNewStartsWithOneEmptyBuffer(t *testing.T) {
	e := New()
	if e.Buffers.Count() != 1 {
		t.Fatalf("expected 1 buffer, got %d", e.Buffers.Count())
	}
	if e.Machine.Doc != e.Buffers.Current() {
		t.Fatal("machine should target the current buffer")
	}
}

func TestQuitSignalsErrQuit(t *testing.T) {
	e := New()
	if err := runCommand(e, "q"); err != ErrQuit {
		t.Fatalf("expected ErrQuit, got %v", err)
	}
}

func TestDirtyQuitRefusesThenForces(t *testing.T) {
	e := New()
	e.Handle(key.NewRuneEvent('i', key.ModNone))
	typeLine(e, "x")
	e.Handle(key.NewSpecialEvent(key.KeyEscape, key.ModNone))

	if err := runCommand(e, "q"); err == ErrQuit {
		t.Fatal("expected q on a dirty buffer to refuse")
	}
	if err := runCommand(e, "q!"); err != ErrQuit {
		t.Fatalf("expected q! to force quit, got %v", err)
	}
}

func TestExCommandSwitchesActiveBufferAndRetargetsMachine(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(a, []byte("aaa"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("bbb"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := NewWithFiles([]string{a, b})
	if got := e.Machine.Doc.Text(); got != "aaa" {
		t.Fatalf("expected first file active, got %q", got)
	}

	if err := runCommand(e, "bn"); err != nil {
		t.Fatalf("bn returned %v", err)
	}
	if got := e.Machine.Doc.Text(); got != "bbb" {
		t.Fatalf("expected machine retargeted to second buffer, got %q", got)
	}
}

func TestWqSavesAndQuits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	e := NewWithFiles([]string{path})
	e.Handle(key.NewRuneEvent('i', key.ModNone))
	typeLine(e, "hi")
	e.Handle(key.NewSpecialEvent(key.KeyEscape, key.ModNone))

	if err := runCommand(e, "wq"); err != ErrQuit {
		t.Fatalf("expected ErrQuit, got %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "hi" {
		t.Fatalf("got %q", content)
	}
}
