package termio

import (
	"github.com/gdamore/tcell/v2"

	"github.com/virus-editor/virus/internal/key"
)

// decodeKey converts a tcell key event into the key.Event contract the
// mode machine consumes. Most Ctrl-letter keys tcell reports as distinct
// tcell.Key values (KeyCtrlA, KeyCtrlU, ...) fold down to key.KeyRune
// plus key.ModCtrl, since the mode machine only ever asks for "is this
// Ctrl held with rune X" (key.Event.CtrlRune), not a per-letter key
// identity. decodeSpecial is tried first because tcell numerically
// aliases a few named keys onto the Ctrl-letter range (KeyBackspace ==
// KeyCtrlH, KeyTab == KeyCtrlI, KeyEnter == KeyCtrlM); checking
// ctrlRune first would misreport Backspace as Ctrl-H.
func decodeKey(ev *tcell.EventKey) key.Event {
	mods := decodeMod(ev.Modifiers())
	if ev.Key() == tcell.KeyRune {
		return key.NewRuneEvent(ev.Rune(), mods)
	}
	if special := decodeSpecial(ev.Key()); special != key.KeyNone {
		return key.NewSpecialEvent(special, mods)
	}
	if r, ok := ctrlRune(ev.Key()); ok {
		return key.NewRuneEvent(r, mods.With(key.ModCtrl))
	}
	return key.NewSpecialEvent(key.KeyNone, mods)
}

func decodeMod(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}

func decodeSpecial(k tcell.Key) key.Key {
	switch k {
	case tcell.KeyEscape:
		return key.KeyEscape
	case tcell.KeyEnter:
		return key.KeyEnter
	case tcell.KeyTab:
		return key.KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.KeyBackspace
	case tcell.KeyDelete:
		return key.KeyDelete
	case tcell.KeyHome:
		return key.KeyHome
	case tcell.KeyEnd:
		return key.KeyEnd
	case tcell.KeyPgUp:
		return key.KeyPageUp
	case tcell.KeyPgDn:
		return key.KeyPageDown
	case tcell.KeyUp:
		return key.KeyUp
	case tcell.KeyDown:
		return key.KeyDown
	case tcell.KeyLeft:
		return key.KeyLeft
	case tcell.KeyRight:
		return key.KeyRight
	default:
		return key.KeyNone
	}
}

// ctrlRune reports the lowercase letter behind a tcell Ctrl-letter key
// constant, e.g. tcell.KeyCtrlU -> 'u'.
func ctrlRune(k tcell.Key) (rune, bool) {
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return rune('a' + int(k-tcell.KeyCtrlA)), true
	}
	return 0, false
}
