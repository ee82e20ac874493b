package modes

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/virus-editor/virus/internal/document"
	"github.com/virus-editor/virus/internal/key"
	"github.com/virus-editor/virus/internal/marks"
	"github.com/virus-editor/virus/internal/motions"
	"github.com/virus-editor/virus/internal/operators"
	"github.com/virus-editor/virus/internal/registers"
	"github.com/virus-editor/virus/internal/search"
	"github.com/virus-editor/virus/internal/textbuf"
	"github.com/virus-editor/virus/internal/vimparser"
)

// defaultPageSize and defaultHalfPage are the Ctrl-F/B and Ctrl-D/U step
// sizes New starts with; PageSize and HalfPage keep them unless changed
// by the caller (virus.toml's scroll settings), independent of Viewport.
const (
	defaultPageSize = 20
	defaultHalfPage = 10
)

// Machine is the mode state machine (spec component C9): it owns no
// storage of its own beyond pending-command scratch state and a
// line-editing buffer, and decodes key.Events against a single Document
// (Doc, which the owner repoints when the active buffer changes) plus the
// shared register/mark/search singletons.
//
// ExecuteCommand, when set, is called on Enter in Command mode with the
// accumulated command line (colon omitted) and should return a status
// message; it is left nil until the editor facade wires in the Ex
// executor (C11), so this package builds and tests standalone.
type Machine struct {
	Doc    *document.Document
	Regs   *registers.Store
	Marks  *marks.Manager
	Search *search.State

	Viewport Viewport
	PageSize int
	HalfPage int

	ExecuteCommand func(line string) string

	mode     Mode
	pending  vimparser.PendingState
	lastFind motions.LastFind

	pendingG     bool
	markLinewise bool

	sel Selection

	cmdline []rune

	status string
}

// New creates a Machine in Normal mode over doc, sharing regs/mrks/srch
// with the rest of the editor (they outlive any single buffer).
func New(doc *document.Document, regs *registers.Store, mrks *marks.Manager, srch *search.State) *Machine {
	return &Machine{
		Doc:      doc,
		Regs:     regs,
		Marks:    mrks,
		Search:   srch,
		PageSize: defaultPageSize,
		HalfPage: defaultHalfPage,
	}
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode { return m.mode }

// Status returns the status message produced by the most recent Handle
// call (empty if that keystroke produced none).
func (m *Machine) Status() string { return m.status }

// Pending returns the current pending-command state, for the renderer's
// pending-command indicator (e.g. `"3d`).
func (m *Machine) Pending() vimparser.PendingState { return m.pending }

// CommandLine returns the in-progress Command/Search mode buffer,
// including the leading `:`, `/`, or `?`.
func (m *Machine) CommandLine() string {
	if m.mode != CommandMode && m.mode != SearchMode && m.mode != SearchBackwardMode {
		return ""
	}
	prefix := ":"
	switch m.mode {
	case SearchMode:
		prefix = "/"
	case SearchBackwardMode:
		prefix = "?"
	}
	return prefix + string(m.cmdline)
}

// Selection returns the active visual-mode selection and whether one is
// active.
func (m *Machine) Selection() (Selection, bool) {
	return m.sel, m.mode.IsVisual()
}

// Handle decodes one key event against the current mode.
func (m *Machine) Handle(ev key.Event) {
	m.status = ""
	switch {
	case m.mode == InsertMode:
		m.handleInsert(ev)
	case m.mode == CommandMode || m.mode == SearchMode || m.mode == SearchBackwardMode:
		m.handleLineEdit(ev)
	case m.mode.IsVisual():
		m.handleVisual(ev)
	default:
		m.handleNormal(ev)
	}
}

func (m *Machine) setStatus(format string, args ...any) {
	if len(args) == 0 {
		m.status = format
		return
	}
	m.status = fmt.Sprintf(format, args...)
}

// --- shared helpers used by normal and visual mode ---

func (m *Machine) effectiveCount() int {
	if m.pending.Operator.Set {
		return vimparser.Combine(m.pending.Operator.Count, m.pending.Count.Get())
	}
	return m.pending.Count.Get()
}

// applyMotion resolves target as the result of a motion: if an operator
// is pending, it executes the operator over [cursor, target); otherwise
// it simply moves the cursor there.
func (m *Machine) applyMotion(target textbuf.Position, kind motions.Kind) {
	if m.pending.Operator.Set {
		m.runOperator(m.pending.Operator.Op, operators.Resolve(m.Doc, m.Doc.Cursor(), target, kind))
		m.pending.Reset()
		return
	}
	m.Doc.SetCursorRaw(target)
	m.Doc.ClampCursor(false)
	m.pending.Count.Reset()
}

// runOperator executes op over rng, wrapping it in an Undo group, and
// handles the Change operator's transition into Insert mode within that
// same group (closed on the following Esc).
func (m *Machine) runOperator(op operators.Kind, rng operators.Range) {
	before := m.Doc.Cursor()
	reg := m.pending.Register
	m.Doc.UndoLog().StartGroup(before)
	text, enterInsert := operators.Execute(m.Doc, m.Regs, op, rng, reg)
	if enterInsert {
		m.mode = InsertMode
	} else {
		m.Doc.UndoLog().EndGroup(m.Doc.Cursor())
	}
	if op == operators.Yank {
		m.setStatus("%s", operators.YankFeedback(text, reg))
	} else {
		m.Marks.SetLastChange(m.Doc.Cursor(), m.Doc.Path())
	}
}

func (m *Machine) enterInsert() {
	m.Doc.UndoLog().StartGroup(m.Doc.Cursor())
	m.mode = InsertMode
}

func (m *Machine) leaveInsert() {
	m.Doc.UndoLog().EndGroup(m.Doc.Cursor())
	m.Marks.SetLastInsert(m.Doc.Cursor(), m.Doc.Path())
	pos := m.Doc.Cursor()
	if pos.Column > 0 {
		pos.Column--
		m.Doc.SetCursorRaw(pos)
	}
	m.mode = NormalMode
}

func (m *Machine) lineLength(line int) int {
	return len([]rune(m.Doc.Buffer().Line(line)))
}

func (m *Machine) setMark(r rune) {
	b := byte(r)
	switch {
	case b >= 'a' && b <= 'z':
		m.Doc.SetLocalMark(b, m.Doc.Cursor())
	case b >= 'A' && b <= 'Z':
		m.Marks.SetGlobal(b, m.Doc.Cursor(), m.Doc.Path())
	default:
		m.setStatus("invalid mark letter")
	}
}

func (m *Machine) gotoMark(r rune) {
	b := byte(r)
	var pos textbuf.Position
	var ok bool
	if b >= 'a' && b <= 'z' {
		p, err := m.Doc.LocalMark(b)
		pos, ok = p, err == nil
	} else {
		mk, err := m.Marks.Global(b)
		pos, ok = mk.Position, err == nil
	}
	if !ok {
		m.setStatus("mark not set")
		return
	}
	m.Marks.PushJump(m.Doc.Cursor(), m.Doc.Path())
	if !m.markLinewise {
		m.applyMotion(pos, motions.Exclusive)
		return
	}
	m.applyMotion(motions.FirstNonBlank(m.Doc, textbuf.Position{Line: pos.Line}), motions.Linewise)
}

func (m *Machine) replaceChar(r rune) {
	count := m.pending.Count.Get()
	cursor := m.Doc.Cursor()
	if cursor.Column+count > m.lineLength(cursor.Line) {
		m.setStatus("not enough characters to replace")
		return
	}
	end := textbuf.Position{Line: cursor.Line, Column: cursor.Column + count}
	m.Doc.UndoLog().StartGroup(cursor)
	m.Doc.DeleteCharRange(cursor, end)
	m.Doc.InsertTextAt(cursor, strings.Repeat(string(r), count))
	m.Doc.SetCursorRaw(textbuf.Position{Line: cursor.Line, Column: cursor.Column + count - 1})
	m.Doc.UndoLog().EndGroup(m.Doc.Cursor())
}

func (m *Machine) doFind(awaiting vimparser.AwaitingChar, r rune) {
	forward := awaiting == vimparser.AwaitFindFwd || awaiting == vimparser.AwaitFindBeforeFwd
	before := awaiting == vimparser.AwaitFindBeforeFwd || awaiting == vimparser.AwaitFindBeforeBwd
	target, ok := motions.FindChar(m.Doc, m.Doc.Cursor(), r, forward, before)
	if !ok {
		m.setStatus("%c not found on this line", r)
		return
	}
	m.lastFind.Record(r, forward, before)
	kind := motions.Exclusive
	if forward {
		kind = motions.Inclusive
	}
	m.applyMotion(target, kind)
}

func (m *Machine) undo() {
	if err := m.Doc.UndoLog().Undo(m.Doc); err != nil {
		m.setStatus("already at oldest change")
	}
}

func (m *Machine) redo() {
	if err := m.Doc.UndoLog().Redo(m.Doc); err != nil {
		m.setStatus("already at newest change")
	}
}

func (m *Machine) jumpBackward() {
	if entry, ok := m.Marks.JumpBackward(); ok {
		m.Doc.SetCursorRaw(entry.Position)
		m.Doc.ClampCursor(false)
	} else {
		m.setStatus("at start of jump list")
	}
}

func (m *Machine) jumpForward() {
	if entry, ok := m.Marks.JumpForward(); ok {
		m.Doc.SetCursorRaw(entry.Position)
		m.Doc.ClampCursor(false)
	} else {
		m.setStatus("at end of jump list")
	}
}

func (m *Machine) searchRepeat(forward bool) {
	cur := m.Doc.Cursor()
	var match search.Match
	var ok bool
	if forward {
		match, ok = m.Search.FindNext(cur.Line, cur.Column)
	} else {
		match, ok = m.Search.FindPrev(cur.Line, cur.Column)
	}
	if !ok {
		m.setStatus("pattern not found")
		return
	}
	m.Marks.PushJump(cur, m.Doc.Path())
	m.applyMotion(textbuf.Position{Line: match.Line, Column: match.StartCol}, motions.Exclusive)
}

func (m *Machine) searchWordUnderCursor(forward bool) {
	word, ok := search.WordUnderCursor(m.Doc, m.Doc.Cursor())
	if !ok {
		m.setStatus("no word under cursor")
		return
	}
	dir := search.Forward
	if !forward {
		dir = search.Backward
	}
	if err := m.Search.SetPattern(regexp.QuoteMeta(word), dir); err != nil {
		m.setStatus("%s", err.Error())
		return
	}
	if err := m.Search.Scan(m.Doc); err != nil {
		m.setStatus("%s", err.Error())
		return
	}
	m.searchRepeat(forward)
}

func (m *Machine) screenPosition(r rune) textbuf.Position {
	cur := m.Doc.Cursor()
	if m.Viewport.Height <= 0 {
		return textbuf.Position{Line: cur.Line}
	}
	top := m.Viewport.FirstLine
	bottom := top + m.Viewport.Height - 1
	if bottom >= m.Doc.Buffer().LineCount() {
		bottom = m.Doc.Buffer().LineCount() - 1
	}
	var line int
	switch r {
	case 'H':
		line = top
	case 'L':
		line = bottom
	default:
		line = (top + bottom) / 2
	}
	return motions.FirstNonBlank(m.Doc, textbuf.Position{Line: line})
}

func (m *Machine) pasteAfter()  { m.paste(true) }
func (m *Machine) pasteBefore() { m.paste(false) }

func (m *Machine) paste(after bool) {
	reg := m.pending.Register
	content := m.Regs.Fetch(reg)
	if content.Empty() {
		m.setStatus("register is empty")
		return
	}
	cursor := m.Doc.Cursor()
	m.Doc.UndoLog().StartGroup(cursor)
	switch content.Kind {
	case registers.Line:
		lines := strings.Split(content.Text, "\n")
		at := cursor.Line
		if after {
			at++
		}
		m.Doc.InsertLinesAt(at, lines)
		m.Doc.SetCursorRaw(motions.FirstNonBlank(m.Doc, textbuf.Position{Line: at}))
	case registers.Block:
		m.pasteBlock(cursor, content.Text, after)
	default:
		at := cursor
		if after && m.lineLength(cursor.Line) > 0 {
			at.Column++
		}
		m.Doc.InsertTextAt(at, content.Text)
		m.Doc.SetCursorRaw(at)
	}
	m.Doc.UndoLog().EndGroup(m.Doc.Cursor())
	m.Marks.SetLastChange(m.Doc.Cursor(), m.Doc.Path())
}

// pasteBlock inserts a rectangular register, one line per row, at the
// same column on cursor.Line and the rows below it, growing the buffer
// if the block extends past the last line. Rows shorter than col get the
// text appended at their own end, matching InsertTextAt's column clamp.
func (m *Machine) pasteBlock(cursor textbuf.Position, text string, after bool) {
	rows := strings.Split(text, "\n")
	col := cursor.Column
	if after && m.lineLength(cursor.Line) > 0 {
		col++
	}
	for i, row := range rows {
		line := cursor.Line + i
		if line >= m.Doc.Buffer().LineCount() {
			m.Doc.InsertLinesAt(m.Doc.Buffer().LineCount(), []string{""})
		}
		m.Doc.InsertTextAt(textbuf.Position{Line: line, Column: col}, row)
	}
	m.Doc.SetCursorRaw(textbuf.Position{Line: cursor.Line, Column: col})
}

func (m *Machine) yankLines(count int) {
	cursor := m.Doc.Cursor()
	endLine := cursor.Line + count - 1
	if last := m.Doc.Buffer().LineCount() - 1; endLine > last {
		endLine = last
	}
	rng := operators.Resolve(m.Doc, cursor, textbuf.Position{Line: endLine}, motions.Linewise)
	reg := m.pending.Register
	text, _ := operators.Execute(m.Doc, m.Regs, operators.Yank, rng, reg)
	m.setStatus("%s", operators.YankFeedback(text, reg))
}

func (m *Machine) joinLines() {
	count := m.pending.Count.Get()
	if count < 2 {
		count = 2
	}
	cursor := m.Doc.Cursor()
	m.Doc.UndoLog().StartGroup(cursor)
	for i := 0; i < count-1; i++ {
		m.Doc.JoinWithCurrent()
	}
	m.Doc.UndoLog().EndGroup(m.Doc.Cursor())
}
