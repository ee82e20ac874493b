// Package modes implements the spec's mode state machine (component C9):
// Normal, Insert, Command, Search/SearchBackward, and the three visual
// modes, each driven by the same Machine decoding key.Events per the
// spec's normal-mode decoding algorithm and transition rules.
package modes

import "github.com/virus-editor/virus/internal/textbuf"

// Mode names one of the eight editor modes.
type Mode uint8

const (
	NormalMode Mode = iota
	InsertMode
	CommandMode
	SearchMode
	SearchBackwardMode
	VisualCharMode
	VisualLineMode
	VisualBlockMode
)

// String renders the mode name, e.g. "Insert"; the status line shows it
// upper-cased as "-- INSERT --".
func (m Mode) String() string {
	switch m {
	case NormalMode:
		return "Normal"
	case InsertMode:
		return "Insert"
	case CommandMode:
		return "Command"
	case SearchMode:
		return "Search"
	case SearchBackwardMode:
		return "Search (backward)"
	case VisualCharMode:
		return "Visual"
	case VisualLineMode:
		return "Visual Line"
	case VisualBlockMode:
		return "Visual Block"
	default:
		return "Unknown"
	}
}

// IsVisual reports whether m is one of the three visual modes.
func (m Mode) IsVisual() bool {
	return m == VisualCharMode || m == VisualLineMode || m == VisualBlockMode
}

// CursorStyle is the terminal cursor glyph a renderer should draw for the
// current mode.
type CursorStyle uint8

const (
	CursorBlock CursorStyle = iota
	CursorBar
	CursorUnderline
)

// CursorStyleFor maps a mode to its conventional cursor shape.
func CursorStyleFor(m Mode) CursorStyle {
	switch m {
	case InsertMode:
		return CursorBar
	case CommandMode, SearchMode, SearchBackwardMode:
		return CursorUnderline
	default:
		return CursorBlock
	}
}

// SelectionKind distinguishes the three visual-mode selection shapes.
type SelectionKind uint8

const (
	SelectChar SelectionKind = iota
	SelectLine
	SelectBlock
)

// Selection is the anchor-to-cursor span of an active visual mode. Cursor
// is tracked by the Document itself; Selection only remembers where the
// selection started.
type Selection struct {
	Anchor textbuf.Position
	Kind   SelectionKind
}

// Viewport is the renderer-owned window the H/M/L motions need; a
// zero-value Viewport (Height 0) makes H/M/L saturate at the cursor's
// current line rather than guessing.
type Viewport struct {
	FirstLine int
	Height    int
}
