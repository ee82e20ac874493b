package document

import (
	"testing"

	"github.com/virus-editor/virus/internal/textbuf"
)

func TestNewDocumentIsEmptyAndClean(t *testing.T) {
	d := New()
	if d.Dirty() {
		t.Error("new document should not be dirty")
	}
	if d.Buffer().LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", d.Buffer().LineCount())
	}
}

func TestFromStringDetectsCRLF(t *testing.T) {
	d := FromString("one\r\ntwo\r\n")
	if d.LineEnding() != textbuf.LineEndingCRLF {
		t.Errorf("expected CRLF, got %v", d.LineEnding())
	}
	if d.Buffer().Line(0) != "one" || d.Buffer().Line(1) != "two" {
		t.Errorf("unexpected lines: %q / %q", d.Buffer().Line(0), d.Buffer().Line(1))
	}
}

func TestInsertCharAdvancesCursorAndMarksDirty(t *testing.T) {
	d := FromString("ac")
	d.SetCursorRaw(textbuf.Position{Line: 0, Column: 1})
	d.InsertChar('b')

	if d.Buffer().Line(0) != "abc" {
		t.Fatalf("got %q", d.Buffer().Line(0))
	}
	if d.Cursor().Column != 2 {
		t.Fatalf("cursor column = %d, want 2", d.Cursor().Column)
	}
	if !d.Dirty() {
		t.Error("expected dirty after insert")
	}
}

func TestInsertNewlineSplitsAtCursor(t *testing.T) {
	d := FromString("hello world")
	d.SetCursorRaw(textbuf.Position{Line: 0, Column: 5})
	d.InsertNewline()

	if d.Buffer().LineCount() != 2 {
		t.Fatalf("expected 2 lines, got %d", d.Buffer().LineCount())
	}
	if d.Buffer().Line(0) != "hello" || d.Buffer().Line(1) != " world" {
		t.Fatalf("unexpected split: %q / %q", d.Buffer().Line(0), d.Buffer().Line(1))
	}
	if d.Cursor() != (textbuf.Position{Line: 1, Column: 0}) {
		t.Fatalf("cursor = %v, want (1,0)", d.Cursor())
	}
}

func TestInsertTabOrSpacesExpandsToNextStop(t *testing.T) {
	d := FromString("ab")
	d.SetExpandTab(true)
	d.SetCursorRaw(textbuf.Position{Line: 0, Column: 2})
	d.InsertTabOrSpaces(4)

	if d.Buffer().Line(0) != "ab  " {
		t.Fatalf("got %q", d.Buffer().Line(0))
	}
}

func TestInsertTabOrSpacesInsertsLiteralTabWhenNotExpanding(t *testing.T) {
	d := FromString("ab")
	d.SetCursorRaw(textbuf.Position{Line: 0, Column: 2})
	d.InsertTabOrSpaces(4)

	if d.Buffer().Line(0) != "ab\t" {
		t.Fatalf("got %q", d.Buffer().Line(0))
	}
}

func TestDeleteCharRangeWithinLine(t *testing.T) {
	d := FromString("the quick brown fox")
	deleted := d.DeleteCharRange(
		textbuf.Position{Line: 0, Column: 0},
		textbuf.Position{Line: 0, Column: 4},
	)
	if deleted != "the " {
		t.Fatalf("deleted text = %q, want %q", deleted, "the ")
	}
	if d.Buffer().Line(0) != "quick brown fox" {
		t.Fatalf("got %q", d.Buffer().Line(0))
	}
}

func TestDeleteCharRangeAcrossLines(t *testing.T) {
	d := FromString("hello\nworld\nagain")
	deleted := d.DeleteCharRange(
		textbuf.Position{Line: 0, Column: 3},
		textbuf.Position{Line: 2, Column: 2},
	)
	if deleted != "lo\nworld\nag" {
		t.Fatalf("deleted = %q", deleted)
	}
	if d.Buffer().Text() != "helain" {
		t.Fatalf("got %q", d.Buffer().Text())
	}
}

func TestDeleteLinesRemovesWholeLines(t *testing.T) {
	d := FromString("a\nb\nc\nd")
	removed := d.DeleteLines(1, 2)
	if removed != "b\nc" {
		t.Fatalf("removed = %q", removed)
	}
	if d.Buffer().Text() != "a\nd" {
		t.Fatalf("got %q", d.Buffer().Text())
	}
	if d.Cursor().Line != 1 {
		t.Fatalf("cursor line = %d, want 1", d.Cursor().Line)
	}
}

func TestInsertTextAtMultiline(t *testing.T) {
	d := FromString("ad")
	end := d.InsertTextAt(textbuf.Position{Line: 0, Column: 1}, "b\nc")
	if d.Buffer().Text() != "ab\ncd" {
		t.Fatalf("got %q", d.Buffer().Text())
	}
	if end != (textbuf.Position{Line: 1, Column: 1}) {
		t.Fatalf("end = %v", end)
	}
}

func TestInsertLinesAtBeforeLine(t *testing.T) {
	d := FromString("a\nd")
	d.InsertLinesAt(1, []string{"b", "c"})
	if d.Buffer().Text() != "a\nb\nc\nd" {
		t.Fatalf("got %q", d.Buffer().Text())
	}
}

func TestToggleCaseChar(t *testing.T) {
	d := FromString("aB")
	d.ToggleCaseChar()
	if d.Buffer().Line(0) != "AB" {
		t.Fatalf("got %q", d.Buffer().Line(0))
	}
	d.ToggleCaseChar()
	if d.Buffer().Line(0) != "Ab" {
		t.Fatalf("got %q", d.Buffer().Line(0))
	}
}

func TestSetLineCase(t *testing.T) {
	d := FromString("Hello")
	d.SetLineCase(0, true)
	if d.Buffer().Line(0) != "HELLO" {
		t.Fatalf("got %q", d.Buffer().Line(0))
	}
	d.SetLineCase(0, false)
	if d.Buffer().Line(0) != "hello" {
		t.Fatalf("got %q", d.Buffer().Line(0))
	}
}

func TestJoinWithCurrentCollapsesWhitespace(t *testing.T) {
	d := FromString("hello   \n   world")
	d.SetCursorRaw(textbuf.Position{Line: 0, Column: 0})
	d.JoinWithCurrent()

	if d.Buffer().Text() != "hello world" {
		t.Fatalf("got %q", d.Buffer().Text())
	}
	if d.Cursor().Column != len("hello") {
		t.Fatalf("cursor column = %d, want %d", d.Cursor().Column, len("hello"))
	}
}

func TestMatchingBracketForwardAndBackward(t *testing.T) {
	d := FromString("a(b(c)d)e")

	pos, ok := d.MatchingBracket(textbuf.Position{Line: 0, Column: 1})
	if !ok || pos.Column != 7 {
		t.Fatalf("forward match from '(' at 1: pos=%v ok=%v, want col 7", pos, ok)
	}

	pos, ok = d.MatchingBracket(textbuf.Position{Line: 0, Column: 7})
	if !ok || pos.Column != 1 {
		t.Fatalf("backward match from ')' at 7: pos=%v ok=%v, want col 1", pos, ok)
	}
}

func TestMatchingBracketNoneUnderCursor(t *testing.T) {
	d := FromString("abc")
	_, ok := d.MatchingBracket(textbuf.Position{Line: 0, Column: 1})
	if ok {
		t.Error("expected no match when cursor is not on a bracket")
	}
}

func TestUndoRedoThroughDocument(t *testing.T) {
	d := FromString("hello")
	d.UndoLog().StartGroup(d.Cursor())
	d.SetCursorRaw(textbuf.Position{Line: 0, Column: 5})
	d.InsertChar('!')
	d.UndoLog().EndGroup(d.Cursor())

	if d.Buffer().Line(0) != "hello!" {
		t.Fatalf("got %q", d.Buffer().Line(0))
	}

	if err := d.UndoLog().Undo(d); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if d.Buffer().Line(0) != "hello" {
		t.Fatalf("after undo: got %q", d.Buffer().Line(0))
	}

	if err := d.UndoLog().Redo(d); err != nil {
		t.Fatalf("redo failed: %v", err)
	}
	if d.Buffer().Line(0) != "hello!" {
		t.Fatalf("after redo: got %q", d.Buffer().Line(0))
	}
}

func TestLocalMarkRoundTrip(t *testing.T) {
	d := New()
	pos := textbuf.Position{Line: 5, Column: 3}
	if err := d.SetLocalMark('a', pos); err != nil {
		t.Fatalf("SetLocalMark failed: %v", err)
	}
	got, err := d.LocalMark('a')
	if err != nil {
		t.Fatalf("LocalMark failed: %v", err)
	}
	if got != pos {
		t.Fatalf("got %v, want %v", got, pos)
	}
}

func TestLocalMarkInvalidLetter(t *testing.T) {
	d := New()
	if err := d.SetLocalMark('A', textbuf.Position{}); err != ErrInvalidMarkLetter {
		t.Fatalf("expected ErrInvalidMarkLetter, got %v", err)
	}
}

func TestClampCursorNormalModeClampsToLastChar(t *testing.T) {
	d := FromString("abc")
	d.SetCursorRaw(textbuf.Position{Line: 0, Column: 3})
	d.ClampCursor(false)
	if d.Cursor().Column != 2 {
		t.Fatalf("column = %d, want 2", d.Cursor().Column)
	}
}

func TestClampCursorInsertModeAllowsPastEnd(t *testing.T) {
	d := FromString("abc")
	d.SetCursorRaw(textbuf.Position{Line: 0, Column: 3})
	d.ClampCursor(true)
	if d.Cursor().Column != 3 {
		t.Fatalf("column = %d, want 3", d.Cursor().Column)
	}
}
