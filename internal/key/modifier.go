package key

import "strings"

// Modifier is a bitmask of held modifier keys.
type Modifier uint8

const (
	ModNone Modifier = 0

	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

func (m Modifier) Has(mod Modifier) bool   { return m&mod != 0 }
func (m Modifier) HasShift() bool          { return m.Has(ModShift) }
func (m Modifier) HasCtrl() bool           { return m.Has(ModCtrl) }
func (m Modifier) HasAlt() bool            { return m.Has(ModAlt) }
func (m Modifier) HasMeta() bool           { return m.Has(ModMeta) }
func (m Modifier) With(mod Modifier) Modifier    { return m | mod }
func (m Modifier) Without(mod Modifier) Modifier { return m &^ mod }
func (m Modifier) IsEmpty() bool           { return m == ModNone }

// String renders a debug form like "Ctrl+Alt".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	var parts []string
	if m.HasCtrl() {
		parts = append(parts, "Ctrl")
	}
	if m.HasAlt() {
		parts = append(parts, "Alt")
	}
	if m.HasShift() {
		parts = append(parts, "Shift")
	}
	if m.HasMeta() {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}
