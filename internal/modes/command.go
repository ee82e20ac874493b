package modes

import (
	"github.com/virus-editor/virus/internal/key"
	"github.com/virus-editor/virus/internal/search"
)

// enterLineEdit switches to Command or one of the Search modes with an
// empty accumulator.
func (m *Machine) enterLineEdit(mode Mode) {
	m.mode = mode
	m.cmdline = m.cmdline[:0]
}

// handleLineEdit implements Command and Search modes' shared input
// discipline (spec §4.9): accumulate until Enter (submit), Esc (cancel),
// or Backspace (pop, cancelling entirely once the line is empty).
func (m *Machine) handleLineEdit(ev key.Event) {
	switch {
	case ev.IsEscape():
		m.cmdline = nil
		m.mode = NormalMode
	case ev.IsEnter():
		m.submitLineEdit()
	case ev.IsBackspace():
		if len(m.cmdline) == 0 {
			m.mode = NormalMode
			return
		}
		m.cmdline = m.cmdline[:len(m.cmdline)-1]
	case ev.IsChar():
		m.cmdline = append(m.cmdline, ev.Rune)
	}
}

func (m *Machine) submitLineEdit() {
	line := string(m.cmdline)
	mode := m.mode
	m.cmdline = nil
	m.mode = NormalMode

	switch mode {
	case CommandMode:
		if m.ExecuteCommand != nil {
			m.setStatus("%s", m.ExecuteCommand(line))
		}
	case SearchMode, SearchBackwardMode:
		dir := search.Forward
		if mode == SearchBackwardMode {
			dir = search.Backward
		}
		if err := m.Search.SetPattern(line, dir); err != nil {
			m.setStatus("%s", err.Error())
			return
		}
		if err := m.Search.Scan(m.Doc); err != nil {
			m.setStatus("%s", err.Error())
			return
		}
		m.Marks.PushJump(m.Doc.Cursor(), m.Doc.Path())
		m.searchRepeat(true)
	}
}
