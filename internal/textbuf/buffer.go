// Package textbuf implements the editor's primitive, line-indexed text
// storage (spec component C1). A Buffer is an ordered sequence of lines,
// each a sequence of codepoints; it is always non-empty. Buffer never
// touches a cursor, a file path, or the undo log — those live one layer up
// in internal/document. Per the editor's single-threaded cooperative event
// loop (one keystroke fully processed before the next is read), Buffer
// carries no internal locking; that matches the teacher codebase's own
// engine.Buffer only where its rope is accessed from a single goroutine,
// and drops the rope's concurrency guards that existed there to support
// background LSP/plugin access this editor doesn't have.
package textbuf

import (
	"errors"
	"strings"
)

// Errors returned by buffer operations.
var (
	ErrLineOutOfRange = errors.New("line index out of range")
	ErrTextHasNewline = errors.New("inserted text must not contain a newline")
)

// Buffer is a mutable, line-indexed sequence of text.
type Buffer struct {
	lines [][]rune
}

// New creates an empty buffer (a single empty line).
func New() *Buffer {
	return &Buffer{lines: [][]rune{{}}}
}

// FromString creates a buffer from already-normalized text (callers split
// on "\n"; internal/document normalizes \r\n and \r before calling this).
func FromString(s string) *Buffer {
	if s == "" {
		return New()
	}
	parts := strings.Split(s, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return &Buffer{lines: lines}
}

// Text joins all lines with "\n". Callers apply the Document's configured
// line-ending sequence on save.
func (b *Buffer) Text() string {
	parts := make([]string, len(b.lines))
	for i, l := range b.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

// LineCount returns the number of lines. Always >= 1.
func (b *Buffer) LineCount() int { return len(b.lines) }

// Line returns the text of the given line, or "" if out of range.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return string(b.lines[i])
}

// LineLength returns the codepoint length of the given line.
func (b *Buffer) LineLength(i int) int {
	if i < 0 || i >= len(b.lines) {
		return 0
	}
	return len(b.lines[i])
}

// validLine reports whether i addresses an existing line.
func (b *Buffer) validLine(i int) bool { return i >= 0 && i < len(b.lines) }

// InsertText splices s into line at col, clamping col to the line. s must
// not contain "\n". Returns the Action describing the edit, or false if
// line is out of range, s contains a newline, or s is empty.
func (b *Buffer) InsertText(line, col int, s string) (Action, bool) {
	if !b.validLine(line) || strings.ContainsRune(s, '\n') {
		return Action{}, false
	}
	runes := b.lines[line]
	if col < 0 || col > len(runes) {
		col = clamp(col, 0, len(runes))
	}
	ins := []rune(s)
	if len(ins) == 0 {
		return Action{}, false
	}
	merged := make([]rune, 0, len(runes)+len(ins))
	merged = append(merged, runes[:col]...)
	merged = append(merged, ins...)
	merged = append(merged, runes[col:]...)
	b.lines[line] = merged

	return Action{Kind: ActionInsertText, Line: line, Column: col, Text: s}, true
}

// DeleteText removes up to n characters starting at col on line. The
// deletion clamps to the line's length. Returns the Action and false if
// nothing was deleted.
func (b *Buffer) DeleteText(line, col, n int) (Action, bool) {
	if !b.validLine(line) || n <= 0 {
		return Action{}, false
	}
	runes := b.lines[line]
	col = clamp(col, 0, len(runes))
	end := clamp(col+n, 0, len(runes))
	if end <= col {
		return Action{}, false
	}
	removed := string(runes[col:end])
	merged := make([]rune, 0, len(runes)-(end-col))
	merged = append(merged, runes[:col]...)
	merged = append(merged, runes[end:]...)
	b.lines[line] = merged

	return Action{Kind: ActionDeleteText, Line: line, Column: col, Text: removed}, true
}

// InsertLine inserts text as a new line before index. index == LineCount()
// appends. Returns false only on a negative index.
func (b *Buffer) InsertLine(index int, text string) (Action, bool) {
	if index < 0 {
		return Action{}, false
	}
	if index > len(b.lines) {
		index = len(b.lines)
	}
	newLine := []rune(text)
	b.lines = append(b.lines, nil)
	copy(b.lines[index+1:], b.lines[index:])
	b.lines[index] = newLine

	return Action{Kind: ActionInsertLine, Line: index, Text: text}, true
}

// DeleteLine removes the line at index. If that would leave zero lines,
// a single empty line is kept in its place (buffer invariant). Returns
// the removed text and false if index is invalid.
func (b *Buffer) DeleteLine(index int) (Action, bool) {
	if !b.validLine(index) {
		return Action{}, false
	}
	removed := string(b.lines[index])
	if len(b.lines) == 1 {
		b.lines[0] = []rune{}
	} else {
		b.lines = append(b.lines[:index], b.lines[index+1:]...)
	}
	return Action{Kind: ActionDeleteLine, Line: index, Text: removed}, true
}

// SplitLine truncates line at col and inserts a new line immediately after
// holding movedText (normally the text that was at and after col).
func (b *Buffer) SplitLine(line, col int, movedText string) (Action, bool) {
	if !b.validLine(line) {
		return Action{}, false
	}
	runes := b.lines[line]
	col = clamp(col, 0, len(runes))
	kept := append([]rune{}, runes[:col]...)
	b.lines[line] = kept

	newLine := []rune(movedText)
	b.lines = append(b.lines, nil)
	copy(b.lines[line+2:], b.lines[line+1:])
	b.lines[line+1] = newLine

	return Action{Kind: ActionSplitLine, Line: line, Column: col, Text: movedText}, true
}

// JoinLines replaces line and the line after it with line's text + sep +
// the next line's text, removing the next line. Fails (no-op) if line is
// the last line.
func (b *Buffer) JoinLines(line int, sep string) (Action, bool) {
	if !b.validLine(line) || line >= len(b.lines)-1 {
		return Action{}, false
	}
	splitCol := len(b.lines[line])
	secondText := string(b.lines[line+1])

	merged := make([]rune, 0, splitCol+len(sep)+len(b.lines[line+1]))
	merged = append(merged, b.lines[line]...)
	merged = append(merged, []rune(sep)...)
	merged = append(merged, b.lines[line+1]...)
	b.lines[line] = merged
	b.lines = append(b.lines[:line+1], b.lines[line+2:]...)

	return Action{Kind: ActionJoinLines, Line: line, Column: splitCol, Text: secondText, Separator: sep}, true
}

// Apply performs the forward effect of an Action (used by redo). It never
// fails on actions produced by this buffer: the caller guarantees the
// action was generated against an equivalent buffer state.
func (b *Buffer) Apply(a Action) {
	switch a.Kind {
	case ActionInsertText:
		b.InsertText(a.Line, a.Column, a.Text)
	case ActionDeleteText:
		b.DeleteText(a.Line, a.Column, len([]rune(a.Text)))
	case ActionInsertLine:
		b.InsertLine(a.Line, a.Text)
	case ActionDeleteLine:
		b.DeleteLine(a.Line)
	case ActionSplitLine:
		b.SplitLine(a.Line, a.Column, a.Text)
	case ActionJoinLines:
		b.JoinLines(a.Line, a.Separator)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
