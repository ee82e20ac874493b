package search

import (
	"testing"

	"github.com/virus-editor/virus/internal/document"
	"github.com/virus-editor/virus/internal/textbuf"
)

func TestSetPatternClearsOnEmpty(t *testing.T) {
	s := NewState()
	if err := s.SetPattern("foo", Forward); err != nil {
		t.Fatalf("SetPattern failed: %v", err)
	}
	if err := s.SetPattern("", Forward); err != nil {
		t.Fatalf("clearing pattern failed: %v", err)
	}
	if s.Pattern != "" {
		t.Errorf("expected pattern cleared, got %q", s.Pattern)
	}
}

func TestSetPatternRejectsInvalidRegex(t *testing.T) {
	s := NewState()
	if err := s.SetPattern("(unclosed", Forward); err == nil {
		t.Error("expected error for invalid regex")
	}
}

func TestScanFindsAllMatches(t *testing.T) {
	doc := document.FromString("foo bar\nbaz foo")
	s := NewState()
	s.SetPattern("foo", Forward)
	if err := s.Scan(doc); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(s.Matches()) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(s.Matches()))
	}
	if s.Matches()[0].Line != 0 || s.Matches()[1].Line != 1 {
		t.Errorf("unexpected match lines: %+v", s.Matches())
	}
}

func TestFindNextWrapsAroundDocument(t *testing.T) {
	doc := document.FromString("alpha\nbeta\nalpha")
	s := NewState()
	s.SetPattern("alpha", Forward)
	s.Scan(doc)

	// cursor at (2,0) — the last match — next should wrap to line 0.
	m, ok := s.FindNext(2, 0)
	if !ok {
		t.Fatal("expected a wrapped match")
	}
	if m.Line != 0 {
		t.Errorf("expected wrap to line 0, got %d", m.Line)
	}
}

func TestFindNextNoWrapWhenDisabled(t *testing.T) {
	doc := document.FromString("alpha\nbeta\nalpha")
	s := NewState()
	s.Wrap = false
	s.SetPattern("alpha", Forward)
	s.Scan(doc)

	if _, ok := s.FindNext(2, 0); ok {
		t.Error("expected no match when wrap is disabled and none remain forward")
	}
}

func TestFindPrevIsMirrorOfFindNext(t *testing.T) {
	doc := document.FromString("alpha\nbeta\nalpha")
	s := NewState()
	s.SetPattern("alpha", Forward)
	s.Scan(doc)

	m, ok := s.FindPrev(0, 0)
	if !ok || m.Line != 2 {
		t.Fatalf("expected backward wrap to line 2, got %+v ok=%v", m, ok)
	}
}

func TestWordUnderCursorExtractsIdentifier(t *testing.T) {
	doc := document.FromString("the quick_brown fox")
	word, ok := WordUnderCursor(doc, textbuf.Position{Line: 0, Column: 6})
	if !ok || word != "quick_brown" {
		t.Fatalf("word = %q, ok = %v", word, ok)
	}
}

func TestWordUnderCursorNoneOnPunctuation(t *testing.T) {
	doc := document.FromString("...")
	_, ok := WordUnderCursor(doc, textbuf.Position{Line: 0, Column: 0})
	if ok {
		t.Error("expected no word under cursor on punctuation-only line")
	}
}

func TestSubstituteLineFirstOccurrenceOnly(t *testing.T) {
	newLine, count, err := SubstituteLine("hello world", "world", "vim", false, true)
	if err != nil {
		t.Fatalf("SubstituteLine failed: %v", err)
	}
	if newLine != "hello vim" || count != 1 {
		t.Fatalf("got %q, %d", newLine, count)
	}
}

func TestSubstituteLineGlobal(t *testing.T) {
	newLine, count, err := SubstituteLine("foo foo foo", "foo", "bar", true, true)
	if err != nil {
		t.Fatalf("SubstituteLine failed: %v", err)
	}
	if newLine != "bar bar bar" || count != 3 {
		t.Fatalf("got %q, %d", newLine, count)
	}
}

func TestSubstituteLineCaseInsensitiveWhenNotCaseSensitive(t *testing.T) {
	newLine, count, err := SubstituteLine("Hello WORLD", "world", "vim", false, false)
	if err != nil {
		t.Fatalf("SubstituteLine failed: %v", err)
	}
	if newLine != "Hello vim" || count != 1 {
		t.Fatalf("got %q, %d", newLine, count)
	}
}

func TestSubstituteRangeAcrossLines(t *testing.T) {
	doc := document.FromString("foo one\nfoo two\nbar three")
	count, err := SubstituteRange(doc, 0, 1, "foo", "baz", false, true)
	if err != nil {
		t.Fatalf("SubstituteRange failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if doc.Buffer().Text() != "baz one\nbaz two\nbar three" {
		t.Fatalf("got %q", doc.Buffer().Text())
	}
	if !doc.Dirty() {
		t.Error("expected dirty after a successful substitute")
	}
}

func TestSubstituteRangeNoMatchesLeavesUnchanged(t *testing.T) {
	doc := document.FromString("alpha\nbeta")
	count, err := SubstituteRange(doc, 0, 1, "zzz", "y", true, true)
	if err != nil {
		t.Fatalf("SubstituteRange failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
	if doc.Dirty() {
		t.Error("no-op substitute should not mark the document dirty")
	}
}
