package modes

import (
	"github.com/virus-editor/virus/internal/key"
	"github.com/virus-editor/virus/internal/motions"
	"github.com/virus-editor/virus/internal/operators"
	"github.com/virus-editor/virus/internal/textbuf"
	"github.com/virus-editor/virus/internal/vimparser"
)

// handleNormal implements the spec's normal-mode decoding algorithm
// (§4.9 steps 1-7), in order: awaiting-char consumption, digit
// accumulation, register prefix, Ctrl-combos, operator keys, a handful
// of motions that need count/char handling of their own (G, %, f/F/t/T,
// ;/,, H/M/L, page scroll), the generic counted-simple-motion table, and
// finally standalone commands (i/a/o/.../p/u/v/:/...).
func (m *Machine) handleNormal(ev key.Event) {
	if ev.IsEscape() {
		m.pending.Reset()
		m.pendingG = false
		return
	}

	if m.pending.Awaiting != vimparser.AwaitNone {
		m.consumeAwaiting(ev)
		return
	}

	if m.pending.AwaitingRegister {
		m.consumeRegisterName(ev)
		return
	}

	if m.pendingG {
		m.pendingG = false
		if ev.IsRune() && ev.Rune == 'g' {
			m.gotoFirstLine()
		}
		return
	}

	if ev.CtrlRune('v') {
		m.enterVisual(VisualBlockMode)
		return
	}
	if ev.CtrlRune('r') {
		m.redo()
		m.pending.Count.Reset()
		return
	}
	if ev.CtrlRune('o') {
		m.jumpBackward()
		m.pending.Count.Reset()
		return
	}
	if ev.CtrlRune('i') {
		m.jumpForward()
		m.pending.Count.Reset()
		return
	}
	if ev.CtrlRune('u') {
		m.applyMotion(motions.ScrollHalfPage(m.Doc, m.Doc.Cursor(), m.HalfPage, false), motions.Linewise)
		return
	}
	if ev.CtrlRune('d') {
		m.applyMotion(motions.ScrollHalfPage(m.Doc, m.Doc.Cursor(), m.HalfPage, true), motions.Linewise)
		return
	}
	if ev.CtrlRune('b') {
		m.applyMotion(motions.ScrollPage(m.Doc, m.Doc.Cursor(), m.PageSize, false), motions.Linewise)
		return
	}
	if ev.CtrlRune('f') {
		m.applyMotion(motions.ScrollPage(m.Doc, m.Doc.Cursor(), m.PageSize, true), motions.Linewise)
		return
	}

	if !ev.IsRune() {
		switch ev.Key {
		case key.KeyPageUp:
			m.applyMotion(motions.ScrollPage(m.Doc, m.Doc.Cursor(), m.PageSize, false), motions.Linewise)
			return
		case key.KeyPageDown:
			m.applyMotion(motions.ScrollPage(m.Doc, m.Doc.Cursor(), m.PageSize, true), motions.Linewise)
			return
		}
	}

	if ev.IsRune() && ev.Rune == '"' {
		m.pending.AwaitingRegister = true
		return
	}

	if ev.IsRune() && m.pending.Count.AccumulateDigit(ev.Rune) {
		return
	}

	if ev.IsRune() {
		switch ev.Rune {
		case 'd':
			m.handleOperatorKey(operators.Delete)
			return
		case 'c':
			m.handleOperatorKey(operators.Change)
			return
		case 'y':
			m.handleOperatorKey(operators.Yank)
			return
		case '>':
			m.handleOperatorKey(operators.IndentRight)
			return
		case '<':
			m.handleOperatorKey(operators.IndentLeft)
			return
		}

		switch ev.Rune {
		case 'g':
			m.pendingG = true
			return
		case 'G':
			m.gotoLastLineOrCount()
			return
		case '%':
			m.gotoMatchingBracket()
			return
		case 'f':
			m.pending.Awaiting = vimparser.AwaitFindFwd
			return
		case 'F':
			m.pending.Awaiting = vimparser.AwaitFindBwd
			return
		case 't':
			m.pending.Awaiting = vimparser.AwaitFindBeforeFwd
			return
		case 'T':
			m.pending.Awaiting = vimparser.AwaitFindBeforeBwd
			return
		case ';':
			if target, ok := m.lastFind.Repeat(m.Doc, m.Doc.Cursor()); ok {
				m.applyMotion(target, motions.Inclusive)
			}
			return
		case ',':
			if target, ok := m.lastFind.Reverse(m.Doc, m.Doc.Cursor()); ok {
				m.applyMotion(target, motions.Inclusive)
			}
			return
		case 'H', 'M', 'L':
			m.applyMotion(m.screenPosition(ev.Rune), motions.Linewise)
			return
		case 'm':
			m.pending.Awaiting = vimparser.AwaitSetMark
			return
		case '`':
			m.markLinewise = false
			m.pending.Awaiting = vimparser.AwaitMark
			return
		case '\'':
			m.markLinewise = true
			m.pending.Awaiting = vimparser.AwaitMark
			return
		case 'r':
			m.pending.Awaiting = vimparser.AwaitReplaceChar
			return
		}
	}

	if step, ok := m.simpleMotion(ev); ok {
		count := m.effectiveCount()
		target := motions.Count(count, m.Doc.Cursor(), step.fn)
		m.applyMotion(target, step.kind)
		return
	}

	m.handleCommandKey(ev)
}

type motionStep struct {
	fn   func(textbuf.Position) textbuf.Position
	kind motions.Kind
}

// simpleMotion covers the motions that compose naturally with repeated
// application via motions.Count: single steps that can be taken n times
// in a row, each starting from the previous result.
func (m *Machine) simpleMotion(ev key.Event) (motionStep, bool) {
	operatorPending := m.pending.Operator.Set

	if !ev.IsRune() {
		switch ev.Key {
		case key.KeyLeft:
			return motionStep{motions.Left, motions.Exclusive}, true
		case key.KeyRight:
			return motionStep{func(p textbuf.Position) textbuf.Position { return motions.Right(m.Doc, p, operatorPending) }, motions.Exclusive}, true
		case key.KeyUp:
			return motionStep{func(p textbuf.Position) textbuf.Position { return motions.Up(m.Doc, p) }, motions.Linewise}, true
		case key.KeyDown:
			return motionStep{func(p textbuf.Position) textbuf.Position { return motions.Down(m.Doc, p) }, motions.Linewise}, true
		}
		return motionStep{}, false
	}

	switch ev.Rune {
	case 'h':
		return motionStep{motions.Left, motions.Exclusive}, true
	case 'l':
		return motionStep{func(p textbuf.Position) textbuf.Position { return motions.Right(m.Doc, p, operatorPending) }, motions.Exclusive}, true
	case 'j':
		return motionStep{func(p textbuf.Position) textbuf.Position { return motions.Down(m.Doc, p) }, motions.Linewise}, true
	case 'k':
		return motionStep{func(p textbuf.Position) textbuf.Position { return motions.Up(m.Doc, p) }, motions.Linewise}, true
	case 'w':
		if m.changingOntoWord() {
			return motionStep{func(p textbuf.Position) textbuf.Position { return motions.WordEnd(m.Doc, p, false) }, motions.Inclusive}, true
		}
		return motionStep{func(p textbuf.Position) textbuf.Position { return motions.WordForward(m.Doc, p, false) }, motions.Exclusive}, true
	case 'W':
		if m.changingOntoWord() {
			return motionStep{func(p textbuf.Position) textbuf.Position { return motions.WordEnd(m.Doc, p, true) }, motions.Inclusive}, true
		}
		return motionStep{func(p textbuf.Position) textbuf.Position { return motions.WordForward(m.Doc, p, true) }, motions.Exclusive}, true
	case 'b':
		return motionStep{func(p textbuf.Position) textbuf.Position { return motions.WordBackward(m.Doc, p, false) }, motions.Exclusive}, true
	case 'B':
		return motionStep{func(p textbuf.Position) textbuf.Position { return motions.WordBackward(m.Doc, p, true) }, motions.Exclusive}, true
	case 'e':
		return motionStep{func(p textbuf.Position) textbuf.Position { return motions.WordEnd(m.Doc, p, false) }, motions.Inclusive}, true
	case 'E':
		return motionStep{func(p textbuf.Position) textbuf.Position { return motions.WordEnd(m.Doc, p, true) }, motions.Inclusive}, true
	case '0':
		return motionStep{motions.LineStart, motions.Exclusive}, true
	case '^':
		return motionStep{func(p textbuf.Position) textbuf.Position { return motions.FirstNonBlank(m.Doc, p) }, motions.Exclusive}, true
	case '$':
		return motionStep{func(p textbuf.Position) textbuf.Position { return motions.LineEnd(m.Doc, p) }, motions.Inclusive}, true
	case '{':
		return motionStep{func(p textbuf.Position) textbuf.Position { return motions.ParagraphBackward(m.Doc, p) }, motions.Exclusive}, true
	case '}':
		return motionStep{func(p textbuf.Position) textbuf.Position { return motions.ParagraphForward(m.Doc, p) }, motions.Exclusive}, true
	case '(':
		return motionStep{func(p textbuf.Position) textbuf.Position { return motions.SentenceBackward(m.Doc, p) }, motions.Exclusive}, true
	case ')':
		return motionStep{func(p textbuf.Position) textbuf.Position { return motions.SentenceForward(m.Doc, p) }, motions.Exclusive}, true
	}
	return motionStep{}, false
}

// changingOntoWord reports whether a pending c operator should treat the
// upcoming w/W motion like e/E instead: real vim's cw/cW stop at the end of
// the current word rather than swallowing the trailing whitespace, as long
// as the cursor starts on a non-blank character.
func (m *Machine) changingOntoWord() bool {
	if !m.pending.Operator.Set || m.pending.Operator.Op != operators.Change {
		return false
	}
	cur := m.Doc.Cursor()
	line := []rune(m.Doc.Buffer().Line(cur.Line))
	return cur.Column < len(line) && line[cur.Column] != ' ' && line[cur.Column] != '\t'
}

func (m *Machine) gotoFirstLine() {
	if m.pending.Count.Active {
		m.applyMotion(motions.GotoLine(m.Doc, m.pending.Count.Value), motions.Linewise)
		return
	}
	m.applyMotion(motions.DocumentStart(), motions.Linewise)
}

func (m *Machine) gotoLastLineOrCount() {
	if m.pending.Count.Active {
		m.applyMotion(motions.GotoLine(m.Doc, m.pending.Count.Value), motions.Linewise)
		return
	}
	m.applyMotion(motions.DocumentEnd(m.Doc), motions.Linewise)
}

func (m *Machine) gotoMatchingBracket() {
	target, ok := motions.MatchPair(m.Doc, m.Doc.Cursor())
	if !ok {
		m.setStatus("no matching bracket")
		m.pending.Reset()
		return
	}
	m.applyMotion(target, motions.Inclusive)
}

// handleOperatorKey sets pending_operator, or — if the same operator is
// already pending — resolves the doubled linewise form (dd/cc/yy/>>/<<).
func (m *Machine) handleOperatorKey(op operators.Kind) {
	if m.pending.Operator.Set && m.pending.Operator.Op == op {
		count := vimparser.Combine(m.pending.Operator.Count, m.pending.Count.Get())
		cursor := m.Doc.Cursor()
		endLine := cursor.Line + count - 1
		if last := m.Doc.Buffer().LineCount() - 1; endLine > last {
			endLine = last
		}
		rng := operators.Resolve(m.Doc, cursor, textbuf.Position{Line: endLine}, motions.Linewise)
		m.runOperator(op, rng)
		m.pending.Reset()
		return
	}
	m.pending.Operator = vimparser.PendingOperator{Set: true, Op: op, Count: m.pending.Count.Get()}
	m.pending.Count.Reset()
}

func (m *Machine) consumeRegisterName(ev key.Event) {
	m.pending.AwaitingRegister = false
	if ev.IsRune() {
		m.pending.Register = byte(ev.Rune)
	}
}

func (m *Machine) consumeAwaiting(ev key.Event) {
	awaiting := m.pending.Awaiting
	m.pending.Awaiting = vimparser.AwaitNone
	if !ev.IsRune() {
		m.pending.Count.Reset()
		return
	}
	r := ev.Rune
	switch awaiting {
	case vimparser.AwaitSetMark:
		m.setMark(r)
	case vimparser.AwaitMark:
		m.gotoMark(r)
	case vimparser.AwaitReplaceChar:
		m.replaceChar(r)
	case vimparser.AwaitFindFwd, vimparser.AwaitFindBwd, vimparser.AwaitFindBeforeFwd, vimparser.AwaitFindBeforeBwd:
		m.doFind(awaiting, r)
	}
	m.pending.Count.Reset()
}

// handleCommandKey dispatches the standalone (non-motion, non-operator)
// normal-mode commands: mode transitions, paste/undo/join, and the
// search-repeat family.
func (m *Machine) handleCommandKey(ev key.Event) {
	if !ev.IsRune() {
		return
	}
	count := m.pending.Count.Get()

	switch ev.Rune {
	case 'i':
		m.enterInsert()
	case 'a':
		m.Doc.SetCursorRaw(motions.Right(m.Doc, m.Doc.Cursor(), true))
		m.enterInsert()
	case 'I':
		m.Doc.SetCursorRaw(motions.FirstNonBlank(m.Doc, m.Doc.Cursor()))
		m.enterInsert()
	case 'A':
		pos := m.Doc.Cursor()
		pos.Column = m.lineLength(pos.Line)
		m.Doc.SetCursorRaw(pos)
		m.enterInsert()
	case 'o':
		pos := m.Doc.Cursor()
		pos.Column = m.lineLength(pos.Line)
		m.Doc.SetCursorRaw(pos)
		m.Doc.UndoLog().StartGroup(pos)
		m.Doc.InsertNewline()
		m.mode = InsertMode
	case 'O':
		pos := m.Doc.Cursor()
		pos.Column = 0
		m.Doc.SetCursorRaw(pos)
		m.Doc.UndoLog().StartGroup(pos)
		m.Doc.InsertNewline()
		// InsertNewline left the original text on the line below and a
		// blank line at pos.Line; park the cursor back on the blank one.
		m.Doc.SetCursorRaw(pos)
		m.mode = InsertMode
	case 'x':
		target := motions.Count(count, m.Doc.Cursor(), func(p textbuf.Position) textbuf.Position { return motions.Right(m.Doc, p, true) })
		m.runOperator(operators.Delete, operators.Resolve(m.Doc, m.Doc.Cursor(), target, motions.Exclusive))
	case 'X':
		cursor := m.Doc.Cursor()
		start := cursor
		for i := 0; i < count && start.Column > 0; i++ {
			start.Column--
		}
		if start != cursor {
			m.runOperator(operators.Delete, operators.Range{Start: start, End: cursor})
		}
	case 'D':
		m.runOperator(operators.Delete, operators.Resolve(m.Doc, m.Doc.Cursor(), motions.LineEnd(m.Doc, m.Doc.Cursor()), motions.Inclusive))
	case 'C':
		m.runOperator(operators.Change, operators.Resolve(m.Doc, m.Doc.Cursor(), motions.LineEnd(m.Doc, m.Doc.Cursor()), motions.Inclusive))
	case 's':
		target := motions.Count(count, m.Doc.Cursor(), func(p textbuf.Position) textbuf.Position { return motions.Right(m.Doc, p, true) })
		m.runOperator(operators.Change, operators.Resolve(m.Doc, m.Doc.Cursor(), target, motions.Exclusive))
	case 'S':
		cursor := m.Doc.Cursor()
		endLine := cursor.Line + count - 1
		if last := m.Doc.Buffer().LineCount() - 1; endLine > last {
			endLine = last
		}
		m.runOperator(operators.Change, operators.Resolve(m.Doc, cursor, textbuf.Position{Line: endLine}, motions.Linewise))
	case 'Y':
		m.yankLines(count)
	case 'p':
		m.pasteAfter()
	case 'P':
		m.pasteBefore()
	case 'J':
		m.joinLines()
	case 'u':
		m.undo()
	case 'v':
		m.enterVisual(VisualCharMode)
	case 'V':
		m.enterVisual(VisualLineMode)
	case ':':
		m.enterLineEdit(CommandMode)
	case '/':
		m.enterLineEdit(SearchMode)
	case '?':
		m.enterLineEdit(SearchBackwardMode)
	case 'n':
		m.searchRepeat(true)
	case 'N':
		m.searchRepeat(false)
	case '*':
		m.searchWordUnderCursor(true)
	case '#':
		m.searchWordUnderCursor(false)
	case '~':
		m.toggleCaseUnderCursor(count)
	}

	m.pending.Reset()
}

func (m *Machine) toggleCaseUnderCursor(count int) {
	cursor := m.Doc.Cursor()
	target := motions.Count(count, cursor, func(p textbuf.Position) textbuf.Position { return motions.Right(m.Doc, p, true) })
	rng := operators.Resolve(m.Doc, cursor, target, motions.Exclusive)
	m.Doc.UndoLog().StartGroup(cursor)
	operators.Execute(m.Doc, m.Regs, operators.ToggleCase, rng, 0)
	m.Doc.UndoLog().EndGroup(m.Doc.Cursor())
	m.Doc.SetCursorRaw(target)
	m.Doc.ClampCursor(false)
}
