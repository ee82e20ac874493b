package termio

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/text/width"

	"github.com/virus-editor/virus/internal/buffers"
	"github.com/virus-editor/virus/internal/editor"
	"github.com/virus-editor/virus/internal/modes"
	"github.com/virus-editor/virus/internal/operators"
)

// Renderer draws an *editor.Editor onto a Screen. It keeps the one piece
// of state a stateless Draw call can't derive on its own: which buffer
// line is scrolled to the top of the window, so repeated small cursor
// moves don't jump the viewport around.
type Renderer struct {
	top int
}

// NewRenderer creates a Renderer with the viewport scrolled to the top
// of the buffer.
func NewRenderer() *Renderer { return &Renderer{} }

const statusRows = 1 // one line reserved at the bottom for mode/status/commandline.

// Draw renders one frame: the buffer text with its gutter, and the
// status line (mode indicator, pending-command echo, or an in-progress
// command/search line). It also reports the scrolled viewport back to
// the mode machine, so H/M/L see the window the user is actually looking
// at; the Ctrl-F/B/D/U step sizes do not depend on it.
func (r *Renderer) Draw(sc *Screen, ed *editor.Editor) {
	w, h := sc.Size()
	textRows := h - statusRows
	if textRows < 1 {
		textRows = 1
	}

	doc := ed.Machine.Doc
	buf := doc.Buffer()
	cursor := doc.Cursor()

	r.scrollTo(cursor.Line, textRows)
	ed.Machine.Viewport = modes.Viewport{FirstLine: r.top, Height: textRows}

	gutterWidth := 0
	if ed.View.ShowLineNumbers {
		gutterWidth = len(fmt.Sprintf("%d", buf.LineCount())) + 1
	}

	sc.s.Clear()
	cursorCol := gutterWidth
	for row := 0; row < textRows; row++ {
		line := r.top + row
		if line >= buf.LineCount() {
			continue
		}
		if gutterWidth > 0 {
			drawGutter(sc.s, row, gutterWidth, line+1)
		}
		drawLine(sc.s, row, gutterWidth, buf.Line(line), ed.View.ShowWhitespace)
		if line == cursor.Line {
			cursorCol = gutterWidth + columnOf(buf.Line(line), cursor.Column, ed.View.ShowWhitespace)
		}
	}

	r.drawStatusLine(sc.s, w, h-1, ed)
	r.positionCursor(sc.s, cursorCol, cursor.Line-r.top, ed.Machine.Mode())
	sc.s.Show()
}

// scrollTo adjusts the remembered top line so line stays within the
// visible window, matching vim's own scrolloff-free default behavior.
func (r *Renderer) scrollTo(line, height int) {
	if line < r.top {
		r.top = line
	}
	if line >= r.top+height {
		r.top = line - height + 1
	}
	if r.top < 0 {
		r.top = 0
	}
}

func drawGutter(s tcell.Screen, row, gutterWidth, number int) {
	text := fmt.Sprintf("%*d ", gutterWidth-1, number)
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for i, rn := range text {
		s.SetContent(i, row, rn, nil, style)
	}
}

// drawLine renders one buffer line starting at column startCol, expanding
// tabs to single spaces (` ` glyph, or `^I` when whitespace is visible)
// and accounting for double-width runes so later columns on the same row
// don't overlap. Returns the screen column just past the last cell drawn.
func drawLine(s tcell.Screen, row, startCol int, line string, showWhitespace bool) int {
	col := startCol
	for _, r := range line {
		glyph, w := displayGlyph(r, showWhitespace)
		for i, g := range glyph {
			if i == 0 {
				s.SetContent(col, row, g, nil, tcell.StyleDefault)
			} else {
				s.SetContent(col+i, row, g, nil, tcell.StyleDefault)
			}
		}
		col += w
	}
	return col
}

// displayGlyph returns what to draw for r and how many columns it takes.
func displayGlyph(r rune, showWhitespace bool) (string, int) {
	switch {
	case r == '\t' && showWhitespace:
		return "^I", 2
	case r == '\t':
		return " ", 1
	case showWhitespace && r == ' ':
		return "·", 1
	default:
		return string(r), runeWidth(r)
	}
}

// runeWidth classifies a rune's terminal display width: East Asian
// wide/fullwidth runes are two columns, combining marks are zero, and
// everything else is one.
func runeWidth(r rune) int {
	if unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// columnOf returns the on-screen column offset (from the start of the
// text area) of rune index col within line, accounting for tabs and
// wide runes the same way drawLine does.
func columnOf(line string, col int, showWhitespace bool) int {
	screenCol := 0
	i := 0
	for _, r := range line {
		if i == col {
			break
		}
		_, w := displayGlyph(r, showWhitespace)
		screenCol += w
		i++
	}
	return screenCol
}

// drawStatusLine fills the bottom row with statusText. The line-editing
// modes (Command/Search) render it as plain text, matching vim's own
// command line; every other mode draws it reverse-video, like a ruler.
func (r *Renderer) drawStatusLine(s tcell.Screen, w, row int, ed *editor.Editor) {
	text := r.statusText(ed)
	style := tcell.StyleDefault
	switch ed.Machine.Mode() {
	case modes.CommandMode, modes.SearchMode, modes.SearchBackwardMode:
	default:
		style = style.Reverse(true)
	}
	for i := 0; i < w; i++ {
		ch := ' '
		if i < len(text) {
			ch = rune(text[i])
		}
		s.SetContent(i, row, ch, nil, style)
	}
}

// statusText builds the one-line status string: an in-progress command
// or search line takes over the whole row; otherwise it's the mode name,
// the buffer's display name and dirty marker, the cursor position, and
// any pending-command echo or status message from the last keystroke.
func (r *Renderer) statusText(ed *editor.Editor) string {
	m := ed.Machine
	if line := m.CommandLine(); line != "" {
		return line
	}

	doc := m.Doc
	name := buffers.DisplayName(doc)
	dirty := ""
	if doc.Dirty() {
		dirty = " [+]"
	}
	cursor := doc.Cursor()
	pos := fmt.Sprintf("%d,%d", cursor.Line+1, cursor.Column+1)

	parts := []string{fmt.Sprintf("-- %s --", strings.ToUpper(m.Mode().String())), name + dirty, pos}
	if pending := pendingIndicator(m); pending != "" {
		parts = append(parts, pending)
	}
	if status := ed.Status(); status != "" {
		parts = append(parts, status)
	}
	return strings.Join(parts, "  ")
}

// pendingIndicator renders the accumulated but not-yet-applied count,
// register, and operator as a short echo, e.g. `"a3d`.
func pendingIndicator(m *modes.Machine) string {
	p := m.Pending()
	if !p.HasPending() {
		return ""
	}
	var b strings.Builder
	if p.Register != 0 {
		b.WriteByte('"')
		b.WriteByte(p.Register)
	}
	if p.Operator.Set {
		if p.Operator.Count > 0 {
			fmt.Fprintf(&b, "%d", p.Operator.Count)
		}
		b.WriteString(operatorGlyph(p.Operator.Op))
	}
	if p.Count.Active {
		fmt.Fprintf(&b, "%d", p.Count.Get())
	}
	return b.String()
}

func operatorGlyph(op operators.Kind) string {
	switch op {
	case operators.Delete:
		return "d"
	case operators.Change:
		return "c"
	case operators.Yank:
		return "y"
	case operators.IndentRight:
		return ">"
	case operators.IndentLeft:
		return "<"
	case operators.ToggleCase:
		return "~"
	default:
		return ""
	}
}

// positionCursor places the terminal cursor and sets its glyph to match
// the conventional shape for the active mode.
func (r *Renderer) positionCursor(s tcell.Screen, col, row int, mode modes.Mode) {
	switch modes.CursorStyleFor(mode) {
	case modes.CursorBar:
		s.SetCursorStyle(tcell.CursorStyleSteadyBar)
	case modes.CursorUnderline:
		s.SetCursorStyle(tcell.CursorStyleSteadyUnderline)
	default:
		s.SetCursorStyle(tcell.CursorStyleSteadyBlock)
	}
	s.ShowCursor(col, row)
}
