package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/virus-editor/virus/internal/buffers"
	"github.com/virus-editor/virus/internal/ex"
	"github.com/virus-editor/virus/internal/marks"
	"github.com/virus-editor/virus/internal/modes"
	"github.com/virus-editor/virus/internal/registers"
	"github.com/virus-editor/virus/internal/search"
)

func newHarness() (*buffers.Manager, *ex.ViewOptions, *modes.Machine) {
	mrks := marks.NewManager()
	bufs := buffers.New(mrks)
	view := &ex.ViewOptions{}
	m := modes.New(bufs.Current(), registers.NewStore(), mrks, search.NewState())
	return bufs, view, m
}

func TestLoadFromMissingFileIsNotAnError(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil Settings for a missing file")
	}
}

func TestLoadFromParsesEditorTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "virus.toml")
	body := "[editor]\ntabstop = 4\nexpandtab = true\nnumber = true\nfileformat = \"dos\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Editor.TabStop != 4 || !s.Editor.ExpandTab || !s.Editor.Number {
		t.Fatalf("got %+v", s.Editor)
	}
}

func TestLoadFromRejectsMalformedToml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "virus.toml")
	if err := os.WriteFile(path, []byte("not valid [ toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestApplyPushesSettingsOntoBufferAndView(t *testing.T) {
	bufs, view, m := newHarness()
	s := &Settings{Editor: EditorSettings{
		TabStop: 3, ExpandTab: true, Number: true, List: true,
		ScrollLines: 15, HalfPageLines: 7,
	}}
	s.Apply(bufs, view, m)

	if bufs.Current().TabWidth() != 3 {
		t.Fatalf("got tab width %d", bufs.Current().TabWidth())
	}
	if !bufs.Current().ExpandTab() {
		t.Fatal("expected expandtab enabled")
	}
	if !view.ShowLineNumbers || !view.ShowWhitespace {
		t.Fatalf("got view %+v", view)
	}
	if m.PageSize != 15 || m.HalfPage != 7 {
		t.Fatalf("got PageSize=%d HalfPage=%d", m.PageSize, m.HalfPage)
	}
}

func TestLoadVirusrcExecutesEachLineSkippingCommentsAndBlanks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".virusrc")
	body := "\" a comment\n\nset nu\nset et\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	mrks := marks.NewManager()
	bufs := buffers.New(mrks)
	view := &ex.ViewOptions{}
	executor := ex.New(bufs, mrks, search.NewState(), view)

	statuses := LoadVirusrc(path, executor)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 executed lines, got %d: %v", len(statuses), statuses)
	}
	if !view.ShowLineNumbers {
		t.Fatal("expected set nu to have run")
	}
	if !bufs.Current().ExpandTab() {
		t.Fatal("expected set et to have run")
	}
}

func TestLoadVirusrcMissingFileIsNotAnError(t *testing.T) {
	mrks := marks.NewManager()
	bufs := buffers.New(mrks)
	executor := ex.New(bufs, mrks, search.NewState(), &ex.ViewOptions{})
	if got := LoadVirusrc(filepath.Join(t.TempDir(), "nope"), executor); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "virus.toml")
	if err := os.WriteFile(path, []byte("[editor]\ntabstop = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Settings, 1)
	w, err := NewWatcher(path, func(s *Settings) { reloaded <- s })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[editor]\ntabstop = 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case s := <-reloaded:
		if s.Editor.TabStop != 6 {
			t.Fatalf("got %+v", s.Editor)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
