package modes

import (
	"github.com/virus-editor/virus/internal/key"
	"github.com/virus-editor/virus/internal/motions"
	"github.com/virus-editor/virus/internal/textbuf"
)

// handleInsert mutates the Document directly for every printable
// character, Enter, Tab, Backspace, and the arrow keys, all within the
// Undo group opened when Insert mode was entered. Esc closes that group,
// sets `'^`, and returns to Normal (spec §4.9).
func (m *Machine) handleInsert(ev key.Event) {
	switch {
	case ev.IsEscape():
		m.leaveInsert()
	case ev.IsEnter():
		m.Doc.InsertNewline()
	case ev.Key == key.KeyTab:
		m.Doc.InsertTabOrSpaces(m.Doc.TabWidth())
	case ev.IsBackspace():
		m.insertBackspace()
	case ev.Key == key.KeyLeft:
		m.Doc.SetCursorRaw(motions.Left(m.Doc.Cursor()))
	case ev.Key == key.KeyRight:
		m.Doc.SetCursorRaw(motions.Right(m.Doc, m.Doc.Cursor(), true))
	case ev.Key == key.KeyUp:
		m.Doc.SetCursorRaw(motions.Up(m.Doc, m.Doc.Cursor()))
	case ev.Key == key.KeyDown:
		m.Doc.SetCursorRaw(motions.Down(m.Doc, m.Doc.Cursor()))
	case ev.IsChar():
		m.Doc.InsertChar(ev.Rune)
	}
}

// insertBackspace deletes the character before the cursor, splicing
// across the line break at column 0 (vim's default backspace=start
// behavior) rather than J's whitespace-trimming join.
func (m *Machine) insertBackspace() {
	cursor := m.Doc.Cursor()
	if cursor.Column > 0 {
		start := textbuf.Position{Line: cursor.Line, Column: cursor.Column - 1}
		m.Doc.DeleteCharRange(start, cursor)
		return
	}
	if cursor.Line == 0 {
		return
	}
	start := textbuf.Position{Line: cursor.Line - 1, Column: m.lineLength(cursor.Line - 1)}
	m.Doc.DeleteCharRange(start, cursor)
}
