package key

import "unicode"

// Event is a single decoded key press: a Key identity, the rune for
// KeyRune events, and any held modifiers.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a non-character key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune reports whether this is a character key event.
func (e Event) IsRune() bool { return e.Key == KeyRune && e.Rune != 0 }

// IsChar reports whether this is a printable character.
func (e Event) IsChar() bool { return e.IsRune() && unicode.IsPrint(e.Rune) }

// IsEscape reports whether this is an unmodified Escape.
func (e Event) IsEscape() bool { return e.Key == KeyEscape && e.Modifiers == ModNone }

// IsEnter reports whether this is an unmodified Enter.
func (e Event) IsEnter() bool { return e.Key == KeyEnter && e.Modifiers == ModNone }

// IsBackspace reports whether this is an unmodified Backspace.
func (e Event) IsBackspace() bool { return e.Key == KeyBackspace && e.Modifiers == ModNone }

// CtrlRune reports whether this is Ctrl held with the given lowercase
// letter, e.g. CtrlRune('u') matches Ctrl-U regardless of the terminal's
// case convention for control-chord runes.
func (e Event) CtrlRune(r rune) bool {
	return e.Modifiers.HasCtrl() && e.IsRune() && unicode.ToLower(e.Rune) == r
}
