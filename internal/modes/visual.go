package modes

import (
	"github.com/virus-editor/virus/internal/key"
	"github.com/virus-editor/virus/internal/motions"
	"github.com/virus-editor/virus/internal/operators"
	"github.com/virus-editor/virus/internal/textbuf"
	"github.com/virus-editor/virus/internal/vimparser"
)

// enterVisual starts a visual-mode selection anchored at the cursor.
func (m *Machine) enterVisual(mode Mode) {
	kind := SelectChar
	switch mode {
	case VisualLineMode:
		kind = SelectLine
	case VisualBlockMode:
		kind = SelectBlock
	}
	m.sel = Selection{Anchor: m.Doc.Cursor(), Kind: kind}
	m.mode = mode
	m.pending.Reset()
}

// handleVisual moves the cursor end of the selection for motion keys and
// runs an operator over the whole selection for d/y/c/>/</~, per spec
// §4.9's visual-mode paragraph. Pressing the same visual-mode key again
// exits back to Normal, matching vim.
func (m *Machine) handleVisual(ev key.Event) {
	if ev.IsEscape() {
		m.mode = NormalMode
		m.pending.Reset()
		return
	}

	if m.pending.Awaiting != vimparser.AwaitNone {
		m.consumeAwaiting(ev)
		return
	}

	if ev.CtrlRune('v') {
		m.toggleVisual(VisualBlockMode, SelectBlock)
		return
	}
	if ev.IsRune() {
		switch ev.Rune {
		case 'v':
			m.toggleVisual(VisualCharMode, SelectChar)
			return
		case 'V':
			m.toggleVisual(VisualLineMode, SelectLine)
			return
		case 'o':
			cur := m.Doc.Cursor()
			m.Doc.SetCursorRaw(m.sel.Anchor)
			m.sel.Anchor = cur
			return
		}
	}

	if ev.IsRune() && m.pending.Count.AccumulateDigit(ev.Rune) {
		return
	}

	if ev.IsRune() {
		switch ev.Rune {
		case 'd':
			m.executeVisualOp(operators.Delete)
			return
		case 'c':
			m.executeVisualOp(operators.Change)
			return
		case 'y':
			m.executeVisualOp(operators.Yank)
			return
		case '>':
			m.executeVisualOp(operators.IndentRight)
			return
		case '<':
			m.executeVisualOp(operators.IndentLeft)
			return
		case '~':
			m.executeVisualOp(operators.ToggleCase)
			return
		case 'G':
			if m.pending.Count.Active {
				m.Doc.SetCursorRaw(motions.GotoLine(m.Doc, m.pending.Count.Value))
			} else {
				m.Doc.SetCursorRaw(motions.DocumentEnd(m.Doc))
			}
			m.pending.Count.Reset()
			return
		case '%':
			if target, ok := motions.MatchPair(m.Doc, m.Doc.Cursor()); ok {
				m.Doc.SetCursorRaw(target)
			}
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
				m.Doc.SetCursorRaw(target)
			}
			return
		case ',':
			if target, ok := m.lastFind.Reverse(m.Doc, m.Doc.Cursor()); ok {
				m.Doc.SetCursorRaw(target)
			}
			return
		case 'H', 'M', 'L':
			m.Doc.SetCursorRaw(m.screenPosition(ev.Rune))
			return
		}
	}

	if step, ok := m.simpleMotion(ev); ok {
		count := m.pending.Count.Get()
		target := motions.Count(count, m.Doc.Cursor(), step.fn)
		m.Doc.SetCursorRaw(target)
		m.Doc.ClampCursor(false)
		m.pending.Count.Reset()
		return
	}
}

func (m *Machine) toggleVisual(mode Mode, kind SelectionKind) {
	if m.mode == mode {
		m.mode = NormalMode
		m.pending.Reset()
		return
	}
	m.mode = mode
	m.sel.Kind = kind
}

// visualRange turns the anchor/cursor pair into an operator Range, one
// column past the cursor for character/block selections (visual mode's
// cursor sits ON the last selected character, unlike a motion target).
// Block selections additionally collapse the anchor/cursor columns (not
// just the lines) into the [left,right) span applied to every row.
func (m *Machine) visualRange() operators.Range {
	cur := m.Doc.Cursor()
	start, end := textbuf.MinMax(m.sel.Anchor, cur)
	switch m.sel.Kind {
	case SelectLine:
		return operators.Range{Start: start, End: end, Linewise: true}
	case SelectBlock:
		left, right := m.sel.Anchor.Column, cur.Column
		if left > right {
			left, right = right, left
		}
		return operators.Range{
			Start: textbuf.Position{Line: start.Line, Column: left},
			End:   textbuf.Position{Line: end.Line, Column: right + 1},
			Block: true,
		}
	default:
		end.Column++
		return operators.Range{Start: start, End: end}
	}
}

func (m *Machine) executeVisualOp(op operators.Kind) {
	rng := m.visualRange()
	wasChange := op == operators.Change
	m.runOperator(op, rng)
	if !wasChange {
		m.mode = NormalMode
	}
	m.pending.Reset()
}
