package textbuf

import "testing"

func TestNewBufferIsSingleEmptyLine(t *testing.T) {
	b := New()
	if b.LineCount() != 1 {
		t.Fatalf("expected 1 line, got %d", b.LineCount())
	}
	if b.Line(0) != "" {
		t.Fatalf("expected empty line, got %q", b.Line(0))
	}
}

func TestFromStringMultiline(t *testing.T) {
	b := FromString("the quick brown fox jumps\nsecond line")
	if b.LineCount() != 2 {
		t.Fatalf("expected 2 lines, got %d", b.LineCount())
	}
	if b.Line(0) != "the quick brown fox jumps" {
		t.Fatalf("unexpected line 0: %q", b.Line(0))
	}
}

func TestInsertAndDeleteText(t *testing.T) {
	b := FromString("hello world")
	act, ok := b.InsertText(0, 5, ",")
	if !ok {
		t.Fatal("insert failed")
	}
	if b.Line(0) != "hello, world" {
		t.Fatalf("got %q", b.Line(0))
	}

	rev := act.Reverse()
	b.Apply(rev)
	if b.Line(0) != "hello world" {
		t.Fatalf("reverse failed, got %q", b.Line(0))
	}
}

func TestDeleteTextClampsToLineLength(t *testing.T) {
	b := FromString("abc")
	act, ok := b.DeleteText(0, 1, 100)
	if !ok {
		t.Fatal("delete failed")
	}
	if b.Line(0) != "a" {
		t.Fatalf("got %q", b.Line(0))
	}
	if act.Text != "bc" {
		t.Fatalf("expected deleted text 'bc', got %q", act.Text)
	}
}

func TestDeleteLineNeverEmptiesBuffer(t *testing.T) {
	b := FromString("only line")
	_, ok := b.DeleteLine(0)
	if !ok {
		t.Fatal("delete failed")
	}
	if b.LineCount() != 1 {
		t.Fatalf("expected invariant: 1 line remains, got %d", b.LineCount())
	}
	if b.Line(0) != "" {
		t.Fatalf("expected empty line, got %q", b.Line(0))
	}
}

func TestSplitAndJoinAreInverses(t *testing.T) {
	b := FromString("hello world")
	act, ok := b.SplitLine(0, 5, " world")
	if !ok {
		t.Fatal("split failed")
	}
	if b.LineCount() != 2 || b.Line(0) != "hello" || b.Line(1) != " world" {
		t.Fatalf("unexpected split result: %q / %q", b.Line(0), b.Line(1))
	}

	b.Apply(act.Reverse())
	if b.LineCount() != 1 || b.Line(0) != "hello world" {
		t.Fatalf("join-as-reverse-of-split failed: %d lines, %q", b.LineCount(), b.Line(0))
	}
}

func TestJoinLinesWithSeparator(t *testing.T) {
	b := FromString("hello\nworld")
	act, ok := b.JoinLines(0, " ")
	if !ok {
		t.Fatal("join failed")
	}
	if b.LineCount() != 1 || b.Line(0) != "hello world" {
		t.Fatalf("got %d lines, %q", b.LineCount(), b.Line(0))
	}

	b.Apply(act.Reverse())
	if b.LineCount() != 2 || b.Line(0) != "hello" || b.Line(1) != "world" {
		t.Fatalf("split-as-reverse-of-join failed: %q / %q", b.Line(0), b.Line(1))
	}
}

func TestJoinLastLineIsNoOp(t *testing.T) {
	b := FromString("only")
	if _, ok := b.JoinLines(0, " "); ok {
		t.Fatal("expected join of last line to fail")
	}
}

func TestInsertTextRejectsNewline(t *testing.T) {
	b := FromString("abc")
	if _, ok := b.InsertText(0, 1, "x\ny"); ok {
		t.Fatal("expected insertion containing newline to be rejected")
	}
}

func TestMultibyteCodepointLength(t *testing.T) {
	b := FromString("héllo")
	if b.LineLength(0) != 5 {
		t.Fatalf("expected 5 codepoints, got %d", b.LineLength(0))
	}
}
