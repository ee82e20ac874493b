package termio

import (
	"testing"

	"github.com/virus-editor/virus/internal/editor"
	"github.com/virus-editor/virus/internal/key"
)

func TestRuneWidthWideAndNarrow(t *testing.T) {
	if runeWidth('a') != 1 {
		t.Fatal("expected ascii width 1")
	}
	if runeWidth('あ') != 2 {
		t.Fatal("expected fullwidth kana width 2")
	}
	if runeWidth('́') != 0 {
		t.Fatal("expected combining mark width 0")
	}
}

func TestDisplayGlyphWhitespace(t *testing.T) {
	glyph, w := displayGlyph('\t', true)
	if glyph != "^I" || w != 2 {
		t.Fatalf("got %q, %d", glyph, w)
	}
	glyph, w = displayGlyph('\t', false)
	if glyph != " " || w != 1 {
		t.Fatalf("got %q, %d", glyph, w)
	}
	glyph, w = displayGlyph(' ', true)
	if glyph != "·" || w != 1 {
		t.Fatalf("got %q, %d", glyph, w)
	}
}

func TestColumnOfAccountsForTabs(t *testing.T) {
	line := "a\tb"
	if got := columnOf(line, 2, false); got != 2 {
		t.Fatalf("got %d", got)
	}
}

func TestPendingIndicatorEmptyWhenIdle(t *testing.T) {
	ed := editor.New()
	if got := pendingIndicator(ed.Machine); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestPendingIndicatorShowsOperatorAndCount(t *testing.T) {
	ed := editor.New()
	ed.Handle(key.NewRuneEvent('2', key.ModNone))
	ed.Handle(key.NewRuneEvent('d', key.ModNone))
	if got := pendingIndicator(ed.Machine); got != "2d" {
		t.Fatalf("got %q", got)
	}
}

func TestScrollToKeepsCursorInWindow(t *testing.T) {
	r := NewRenderer()
	r.scrollTo(0, 10)
	if r.top != 0 {
		t.Fatalf("got top %d", r.top)
	}
	r.scrollTo(15, 10)
	if r.top != 6 {
		t.Fatalf("expected top 6, got %d", r.top)
	}
	r.scrollTo(2, 10)
	if r.top != 2 {
		t.Fatalf("expected scroll up to 2, got %d", r.top)
	}
}

func TestStatusTextShowsModeAndPosition(t *testing.T) {
	r := NewRenderer()
	ed := editor.New()
	text := r.statusText(ed)
	if text == "" {
		t.Fatal("expected non-empty status text")
	}
}

func TestStatusTextDuringCommandModeShowsCommandLine(t *testing.T) {
	r := NewRenderer()
	ed := editor.New()
	ed.Handle(key.NewRuneEvent(':', key.ModNone))
	ed.Handle(key.NewRuneEvent('q', key.ModNone))
	if got := r.statusText(ed); got != ":q" {
		t.Fatalf("got %q", got)
	}
}
