package document

import (
	"strings"

	"github.com/virus-editor/virus/internal/textbuf"
	"github.com/virus-editor/virus/internal/undo"
)

// Default per-document settings.
const (
	DefaultTabWidth = 8
)

// Document owns one Text Buffer plus the cursor, file metadata, local
// marks, and the undo log bound to that buffer. It is the mutation surface
// motions and operators call; it knows nothing about registers, modes, or
// sibling documents.
type Document struct {
	buf    *textbuf.Buffer
	cursor textbuf.Position

	path       string
	dirty      bool
	lineEnding textbuf.LineEnding
	expandTab  bool
	tabWidth   int

	localMarks map[byte]textbuf.Position

	undo *undo.Log

	// lastChange is the cursor position recorded by record on each
	// mutating operation.
	lastChange textbuf.Position
}

// Option configures a Document at construction.
type Option func(*Document)

// WithPath sets the file path the document was opened from or will save to.
func WithPath(path string) Option {
	return func(d *Document) { d.path = path }
}

// WithExpandTab sets whether inserting a tab yields spaces.
func WithExpandTab(expand bool) Option {
	return func(d *Document) { d.expandTab = expand }
}

// WithTabWidth sets the tab stop width (1-16 per the ex `set tabstop` range).
func WithTabWidth(width int) Option {
	return func(d *Document) {
		if width > 0 {
			d.tabWidth = width
		}
	}
}

// WithLineEnding overrides the detected/default line-ending kind.
func WithLineEnding(le textbuf.LineEnding) Option {
	return func(d *Document) { d.lineEnding = le }
}

// New creates an empty, unnamed Document.
func New(opts ...Option) *Document {
	return newDocument(textbuf.New(), textbuf.LineEndingLF, opts...)
}

// FromString creates a Document from file content already read into
// memory, auto-detecting the line-ending kind from the first terminator.
func FromString(content string, opts ...Option) *Document {
	le := textbuf.DetectLineEnding(content)
	normalized := strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(content)
	return newDocument(textbuf.FromString(normalized), le, opts...)
}

func newDocument(buf *textbuf.Buffer, le textbuf.LineEnding, opts ...Option) *Document {
	d := &Document{
		buf:        buf,
		lineEnding: le,
		tabWidth:   DefaultTabWidth,
		localMarks: make(map[byte]textbuf.Position),
		undo:       undo.NewLog(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Buffer exposes the underlying Text Buffer for read-only consumers
// (renderer, search, motions).
func (d *Document) Buffer() *textbuf.Buffer { return d.buf }

// Cursor returns the current cursor position.
func (d *Document) Cursor() textbuf.Position { return d.cursor }

// SetCursorRaw sets the cursor without clamping. Used by motions, marks,
// and jumps, which are responsible for producing valid positions, and by
// undo/redo restoring a recorded cursor.
func (d *Document) SetCursorRaw(p textbuf.Position) { d.cursor = p }

// ClampCursor centralizes cursor clamping (design note: one routine called
// after every mutation). allowPastEnd is true in insert mode (column may
// equal line length) and false in normal mode (column clamps to
// line_length-1 for non-empty lines).
func (d *Document) ClampCursor(allowPastEnd bool) {
	if d.cursor.Line < 0 {
		d.cursor.Line = 0
	}
	if d.cursor.Line >= d.buf.LineCount() {
		d.cursor.Line = d.buf.LineCount() - 1
	}
	maxCol := d.buf.LineLength(d.cursor.Line)
	if !allowPastEnd && maxCol > 0 {
		maxCol--
	}
	if d.cursor.Column < 0 {
		d.cursor.Column = 0
	}
	if d.cursor.Column > maxCol {
		d.cursor.Column = maxCol
	}
}

// Path returns the file path, or "" for an unnamed buffer.
func (d *Document) Path() string { return d.path }

// SetPath sets the file path (used by :w <path> / :saveas semantics).
func (d *Document) SetPath(path string) { d.path = path }

// Dirty reports whether the buffer has unsaved changes.
func (d *Document) Dirty() bool { return d.dirty }

// LineEnding returns the line-ending kind used on save.
func (d *Document) LineEnding() textbuf.LineEnding { return d.lineEnding }

// SetLineEnding sets the line-ending kind (`:set ff=unix|dos|mac`).
func (d *Document) SetLineEnding(le textbuf.LineEnding) { d.lineEnding = le }

// ExpandTab reports whether tab insertion yields spaces.
func (d *Document) ExpandTab() bool { return d.expandTab }

// SetExpandTab sets the expand-tab flag.
func (d *Document) SetExpandTab(v bool) { d.expandTab = v }

// TabWidth returns the configured tab stop width.
func (d *Document) TabWidth() int { return d.tabWidth }

// SetTabWidth sets the tab stop width (`:set tabstop=<n>`, 1-16).
func (d *Document) SetTabWidth(width int) { d.tabWidth = width }

// UndoLog exposes the bound undo log so the mode machine can start/end
// groups around a sequence of mutations.
func (d *Document) UndoLog() *undo.Log { return d.undo }

// LastChange returns the position of the most recent mutation, used as
// the '.' special mark.
func (d *Document) LastChange() textbuf.Position { return d.lastChange }

// LocalMark returns the position stored for a lowercase mark letter.
func (d *Document) LocalMark(letter byte) (textbuf.Position, error) {
	if letter < 'a' || letter > 'z' {
		return textbuf.Position{}, ErrInvalidMarkLetter
	}
	pos, ok := d.localMarks[letter]
	if !ok {
		return textbuf.Position{}, ErrNoSuchMark
	}
	return pos, nil
}

// SetLocalMark records a lowercase mark at the given position.
func (d *Document) SetLocalMark(letter byte, pos textbuf.Position) error {
	if letter < 'a' || letter > 'z' {
		return ErrInvalidMarkLetter
	}
	d.localMarks[letter] = pos
	return nil
}

// ClearLocalMarks drops all local marks, matching the spec's "closing a
// buffer drops its local marks" rule. internal/buffers calls this when a
// Document is closed.
func (d *Document) ClearLocalMarks() { d.localMarks = make(map[byte]textbuf.Position) }

// LocalMarks returns the document's lowercase marks, keyed by letter, for
// internal/ex's `:marks` listing. Callers must not mutate the result.
func (d *Document) LocalMarks() map[byte]textbuf.Position { return d.localMarks }

// --- undo.Target ---

// Apply replays the forward effect of an action against the buffer. It
// satisfies undo.Target so the bound Log can apply and reverse actions
// without the undo package importing textbuf's mutation surface directly.
func (d *Document) Apply(a textbuf.Action) { d.buf.Apply(a) }

// SetCursor satisfies undo.Target: restores the recorded cursor after an
// undo or redo.
func (d *Document) SetCursor(p textbuf.Position) { d.cursor = p }

// --- mutation primitives ---

func (d *Document) record(a textbuf.Action) {
	d.undo.AddAction(a)
	d.dirty = true
	d.lastChange = d.cursor
}

// InsertChar inserts a single character at the cursor and advances the
// cursor past it.
func (d *Document) InsertChar(c rune) {
	act, ok := d.buf.InsertText(d.cursor.Line, d.cursor.Column, string(c))
	if !ok {
		return
	}
	d.record(act)
	d.cursor.Column++
}

// InsertNewline splits the current line at the cursor and moves the
// cursor to the start of the new line (the Enter key in insert mode).
func (d *Document) InsertNewline() {
	line := d.buf.Line(d.cursor.Line)
	runes := []rune(line)
	moved := ""
	if d.cursor.Column < len(runes) {
		moved = string(runes[d.cursor.Column:])
	}
	act, ok := d.buf.SplitLine(d.cursor.Line, d.cursor.Column, moved)
	if !ok {
		return
	}
	d.record(act)
	d.cursor.Line++
	d.cursor.Column = 0
}

// InsertTabOrSpaces inserts a tab character, or if expand-tab is set,
// enough spaces to reach the next tab stop of the given width.
func (d *Document) InsertTabOrSpaces(width int) {
	if width <= 0 {
		width = d.tabWidth
	}
	if !d.expandTab {
		d.InsertChar('\t')
		return
	}
	n := width - (d.cursor.Column % width)
	act, ok := d.buf.InsertText(d.cursor.Line, d.cursor.Column, strings.Repeat(" ", n))
	if !ok {
		return
	}
	d.record(act)
	d.cursor.Column += n
}

// DeleteCharRange removes the character-wise span [start, end) in document
// order, which may cross lines, and returns the deleted text (with "\n"
// joining any crossed line boundaries). Used by operators for
// character-wise motions (d$, dw, dl, ...).
func (d *Document) DeleteCharRange(start, end textbuf.Position) string {
	start, end = textbuf.MinMax(start, end)
	if start == end {
		return ""
	}
	if start.Line == end.Line {
		act, ok := d.buf.DeleteText(start.Line, start.Column, end.Column-start.Column)
		if !ok {
			return ""
		}
		d.record(act)
		d.cursor = start
		return act.Text
	}

	var deleted strings.Builder

	firstLineTail, ok := d.buf.DeleteText(start.Line, start.Column, d.buf.LineLength(start.Line)-start.Column)
	if ok {
		d.record(firstLineTail)
		deleted.WriteString(firstLineTail.Text)
	}
	deleted.WriteString("\n")

	for l := start.Line + 1; l < end.Line; l++ {
		act, ok := d.buf.DeleteLine(start.Line + 1)
		if !ok {
			continue
		}
		d.record(act)
		deleted.WriteString(act.Text)
		deleted.WriteString("\n")
	}

	if start.Line+1 < d.buf.LineCount() {
		lastTail, ok := d.buf.DeleteText(start.Line+1, 0, end.Column)
		if ok {
			d.record(lastTail)
			deleted.WriteString(lastTail.Text)
		}
		joinAct, ok := d.buf.JoinLines(start.Line, "")
		if ok {
			d.record(joinAct)
		}
	}

	d.cursor = start
	return deleted.String()
}

// DeleteLines removes the inclusive line range [startLine, endLine] and
// returns the removed lines, newline-joined, for register storage with
// kind=Line. Always leaves at least one (possibly empty) line.
func (d *Document) DeleteLines(startLine, endLine int) string {
	if startLine > endLine {
		startLine, endLine = endLine, startLine
	}
	var removed []string
	for l := startLine; l <= endLine; l++ {
		act, ok := d.buf.DeleteLine(startLine)
		if !ok {
			break
		}
		removed = append(removed, act.Text)
		d.record(act)
	}
	d.cursor.Line = startLine
	if d.cursor.Line >= d.buf.LineCount() {
		d.cursor.Line = d.buf.LineCount() - 1
	}
	d.cursor.Column = 0
	return strings.Join(removed, "\n")
}

// InsertTextAt inserts possibly-multiline text at pos (register paste of
// Character kind). Returns the cursor position immediately after the
// inserted text.
func (d *Document) InsertTextAt(pos textbuf.Position, text string) textbuf.Position {
	parts := strings.Split(text, "\n")
	line, col := pos.Line, pos.Column
	for i, part := range parts {
		if i == 0 {
			act, ok := d.buf.InsertText(line, col, part)
			if ok {
				d.record(act)
				col += len([]rune(part))
			}
			continue
		}
		tail := ""
		if col < d.buf.LineLength(line) {
			tail = string([]rune(d.buf.Line(line))[col:])
		}
		act, ok := d.buf.SplitLine(line, col, tail)
		if ok {
			d.record(act)
		}
		line++
		col = 0
		if part != "" {
			act, ok := d.buf.InsertText(line, 0, part)
			if ok {
				d.record(act)
				col = len([]rune(part))
			}
		}
	}
	return textbuf.Position{Line: line, Column: col}
}

// InsertLinesAt inserts lines (register paste of Line kind) before
// beforeLine. Returns the line index of the first inserted line.
func (d *Document) InsertLinesAt(beforeLine int, lines []string) int {
	for i, text := range lines {
		act, ok := d.buf.InsertLine(beforeLine+i, text)
		if ok {
			d.record(act)
		}
	}
	return beforeLine
}

// ToggleCaseChar flips the case of the character under the cursor (`~`)
// and advances the cursor, matching vim.
func (d *Document) ToggleCaseChar() {
	line := []rune(d.buf.Line(d.cursor.Line))
	if d.cursor.Column >= len(line) {
		return
	}
	c := line[d.cursor.Column]
	var toggled rune
	switch {
	case 'a' <= c && c <= 'z':
		toggled = c - ('a' - 'A')
	case 'A' <= c && c <= 'Z':
		toggled = c + ('a' - 'A')
	default:
		toggled = c
	}
	if toggled == c {
		d.cursor.Column++
		return
	}
	del, ok := d.buf.DeleteText(d.cursor.Line, d.cursor.Column, 1)
	if !ok {
		return
	}
	d.record(del)
	ins, ok := d.buf.InsertText(d.cursor.Line, d.cursor.Column, string(toggled))
	if ok {
		d.record(ins)
	}
	d.cursor.Column++
}

// SetLineCase lowercases or uppercases an entire line in place.
func (d *Document) SetLineCase(line int, upper bool) {
	text := d.buf.Line(line)
	var changed string
	if upper {
		changed = strings.ToUpper(text)
	} else {
		changed = strings.ToLower(text)
	}
	if changed == text {
		return
	}
	del, ok := d.buf.DeleteText(line, 0, len([]rune(text)))
	if !ok {
		return
	}
	d.record(del)
	ins, ok := d.buf.InsertText(line, 0, changed)
	if ok {
		d.record(ins)
	}
}

// ToggleLineCase swaps the case of every letter on a line in place, for
// the `~` operator's linewise form (visual-line `~`).
func (d *Document) ToggleLineCase(line int) {
	text := d.buf.Line(line)
	toggled := strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z':
			return r - ('a' - 'A')
		case 'A' <= r && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return r
		}
	}, text)
	if toggled == text {
		return
	}
	del, ok := d.buf.DeleteText(line, 0, len([]rune(text)))
	if !ok {
		return
	}
	d.record(del)
	ins, ok := d.buf.InsertText(line, 0, toggled)
	if ok {
		d.record(ins)
	}
}

// InsertTabOrSpacesAtLineStart inserts one indent level (width spaces, or
// a literal tab when expand-tab is off) at column 0 of line, for the `>`
// (shift-right) operator.
func (d *Document) InsertTabOrSpacesAtLineStart(line, width int) {
	if width <= 0 {
		width = d.tabWidth
	}
	indent := "\t"
	if d.expandTab {
		indent = strings.Repeat(" ", width)
	}
	act, ok := d.buf.InsertText(line, 0, indent)
	if !ok {
		return
	}
	d.record(act)
}

// UnindentLine removes up to width columns of leading whitespace from
// line, for the `<` (shift-left) operator. A literal leading tab counts
// as a full indent level and is removed whole.
func (d *Document) UnindentLine(line, width int) {
	if width <= 0 {
		width = d.tabWidth
	}
	runes := []rune(d.buf.Line(line))
	n := 0
	for n < len(runes) && n < width && (runes[n] == ' ' || runes[n] == '\t') {
		if runes[n] == '\t' {
			n++
			break
		}
		n++
	}
	if n == 0 {
		return
	}
	act, ok := d.buf.DeleteText(line, 0, n)
	if !ok {
		return
	}
	d.record(act)
}

// JoinWithCurrent joins the current line with the next using a single
// space separator, collapsing the upper line's trailing whitespace and
// the lower line's leading whitespace, matching vim's `J`.
func (d *Document) JoinWithCurrent() {
	line := d.cursor.Line
	if line >= d.buf.LineCount()-1 {
		return
	}
	upper := strings.TrimRight(d.buf.Line(line), " \t")
	lower := strings.TrimLeft(d.buf.Line(line+1), " \t")

	sep := " "
	if upper == "" || lower == "" {
		sep = ""
	}

	trimmed, ok := d.buf.DeleteText(line, len([]rune(upper)), d.buf.LineLength(line)-len([]rune(upper)))
	if ok && trimmed.Text != "" {
		d.record(trimmed)
	}
	trimmedLower, ok := d.buf.DeleteText(line+1, 0, d.buf.LineLength(line+1)-len([]rune(lower)))
	if ok && trimmedLower.Text != "" {
		d.record(trimmedLower)
	}

	act, ok := d.buf.JoinLines(line, sep)
	if !ok {
		return
	}
	d.record(act)
	d.cursor.Line = line
	d.cursor.Column = len([]rune(upper))
}

var bracketPairs = map[rune]rune{
	'(': ')', '[': ']', '{': '}',
	')': '(', ']': '[', '}': '{',
}

var openBrackets = map[rune]bool{'(': true, '[': true, '{': true}

// MatchingBracket finds the bracket matching the one under the cursor
// (the `%` motion), scanning forward or backward with nesting-depth
// tracking. Returns ok=false if the cursor is not on a bracket or no
// match exists.
func (d *Document) MatchingBracket(pos textbuf.Position) (textbuf.Position, bool) {
	line := []rune(d.buf.Line(pos.Line))
	if pos.Column >= len(line) {
		return textbuf.Position{}, false
	}
	c := line[pos.Column]
	partner, known := bracketPairs[c]
	if !known {
		return textbuf.Position{}, false
	}

	forward := openBrackets[c]
	depth := 1
	l, col := pos.Line, pos.Column

	for {
		if forward {
			col++
			if col >= len([]rune(d.buf.Line(l))) {
				l++
				col = 0
				if l >= d.buf.LineCount() {
					return textbuf.Position{}, false
				}
			}
		} else {
			col--
			if col < 0 {
				l--
				if l < 0 {
					return textbuf.Position{}, false
				}
				col = d.buf.LineLength(l) - 1
				if col < 0 {
					continue
				}
			}
		}
		cur := []rune(d.buf.Line(l))
		if col >= len(cur) {
			continue
		}
		switch cur[col] {
		case c:
			depth++
		case partner:
			depth--
			if depth == 0 {
				return textbuf.Position{Line: l, Column: col}, true
			}
		}
	}
}

// Text returns the full buffer content joined with this Document's
// configured line-ending sequence.
func (d *Document) Text() string {
	if d.lineEnding == textbuf.LineEndingLF {
		return d.buf.Text()
	}
	return strings.ReplaceAll(d.buf.Text(), "\n", d.lineEnding.Sequence())
}

// ReplaceLineText replaces a line's entire content with newText as a
// delete-then-insert pair, both recorded in the undo log. Used by
// internal/search for :s/:%s, which computes the replacement text itself
// and only needs Document to apply it with undo/dirty tracking.
func (d *Document) ReplaceLineText(line int, newText string) {
	oldLen := d.buf.LineLength(line)
	if oldLen > 0 {
		del, ok := d.buf.DeleteText(line, 0, oldLen)
		if ok {
			d.record(del)
		}
	}
	if newText != "" {
		ins, ok := d.buf.InsertText(line, 0, newText)
		if ok {
			d.record(ins)
		}
	}
}

// MarkSaved clears the dirty flag after a successful save.
func (d *Document) MarkSaved() { d.dirty = false }
