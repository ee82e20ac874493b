// Package operators implements the spec's d/c/y/>/</~ operator family
// (component C8): given a resolved range (from a motion or a visual
// selection), it deletes, copies, re-indents, or case-toggles the range
// against a Document and its register Store.
package operators

import (
	"fmt"
	"strings"

	"github.com/virus-editor/virus/internal/document"
	"github.com/virus-editor/virus/internal/motions"
	"github.com/virus-editor/virus/internal/registers"
	"github.com/virus-editor/virus/internal/textbuf"
)

// Kind identifies which operator is executing.
type Kind uint8

const (
	Delete Kind = iota
	Change
	Yank
	IndentRight
	IndentLeft
	ToggleCase
)

// Range is a resolved operator target: [Start, End) in reading order, or
// whole lines Start.Line..End.Line when Linewise is set. When Block is
// set, Start.Line..End.Line is the row span and Start.Column/End.Column
// is the [left,right) column span applied to every one of those rows,
// independent of where each line actually ends.
type Range struct {
	Start, End textbuf.Position
	Linewise   bool
	Block      bool
}

// Resolve turns a motion's landing position into an operator Range,
// applying vim's motion.Kind conventions: Exclusive ranges end exactly at
// target, Inclusive ranges extend one character past it, Linewise ranges
// snap to whole lines regardless of column. cursor and target may arrive
// in either order; Resolve always normalizes to reading order.
func Resolve(doc *document.Document, cursor, target textbuf.Position, kind motions.Kind) Range {
	if kind == motions.Linewise {
		min, max := textbuf.MinMax(cursor, target)
		return Range{
			Start:    textbuf.Position{Line: min.Line, Column: 0},
			End:      textbuf.Position{Line: max.Line, Column: 0},
			Linewise: true,
		}
	}

	min, max := textbuf.MinMax(cursor, target)
	if kind == motions.Inclusive {
		length := doc.Buffer().LineLength(max.Line)
		if max.Column < length {
			max.Column++
		} else if max.Line < doc.Buffer().LineCount()-1 {
			max = textbuf.Position{Line: max.Line + 1, Column: 0}
		}
	}
	return Range{Start: min, End: max}
}

// isSmall reports whether a delete qualifies for vim's "-" small-delete
// register: a single-line, character-wise span (as opposed to a
// multi-line or whole-line delete, which rotates the numbered registers).
func isSmall(r Range) bool {
	return !r.Linewise && r.Start.Line == r.End.Line
}

// Execute runs op over rng against doc, writing to regs per the register
// name (0 = no explicit register, use the default/rotation rules).
// It returns the deleted/yanked text and whether the caller should now
// enter Insert mode (true only for Change).
func Execute(doc *document.Document, regs *registers.Store, op Kind, rng Range, registerName byte) (text string, enterInsert bool) {
	switch op {
	case Yank:
		if rng.Block {
			text = extractBlockText(doc, rng)
			regs.SetYank(registerName, registers.Content{Text: text, Kind: registers.Block})
			return text, false
		}
		text = extractText(doc, rng)
		kind := registers.Character
		if rng.Linewise {
			kind = registers.Line
		}
		regs.SetYank(registerName, registers.Content{Text: text, Kind: kind})
		return text, false

	case Delete, Change:
		if rng.Block {
			text = deleteBlockRange(doc, rng)
			regs.SetDelete(registerName, registers.Content{Text: text, Kind: registers.Block}, isSmall(rng))
			return text, op == Change
		}
		text = deleteRange(doc, rng)
		kind := registers.Character
		if rng.Linewise {
			kind = registers.Line
		}
		regs.SetDelete(registerName, registers.Content{Text: text, Kind: kind}, isSmall(rng))
		return text, op == Change

	case IndentRight:
		indentLines(doc, rng, true)
		return "", false

	case IndentLeft:
		indentLines(doc, rng, false)
		return "", false

	case ToggleCase:
		toggleCaseRange(doc, rng)
		return "", false
	}
	return "", false
}

func extractText(doc *document.Document, rng Range) string {
	buf := doc.Buffer()
	if rng.Linewise {
		var lines []string
		for line := rng.Start.Line; line <= rng.End.Line; line++ {
			lines = append(lines, buf.Line(line))
		}
		return strings.Join(lines, "\n")
	}
	if rng.Start.Line == rng.End.Line {
		line := []rune(buf.Line(rng.Start.Line))
		start, end := clampRuneRange(line, rng.Start.Column, rng.End.Column)
		return string(line[start:end])
	}
	var b strings.Builder
	first := []rune(buf.Line(rng.Start.Line))
	if rng.Start.Column < len(first) {
		b.WriteString(string(first[rng.Start.Column:]))
	}
	for line := rng.Start.Line + 1; line < rng.End.Line; line++ {
		b.WriteByte('\n')
		b.WriteString(buf.Line(line))
	}
	b.WriteByte('\n')
	last := []rune(buf.Line(rng.End.Line))
	_, end := clampRuneRange(last, 0, rng.End.Column)
	b.WriteString(string(last[:end]))
	return b.String()
}

// extractBlockText reads rng's [left,right) column span out of every row
// in its line span, clamping short rows to their own length, and joins
// the per-row segments with "\n" for registers.Block storage.
func extractBlockText(doc *document.Document, rng Range) string {
	buf := doc.Buffer()
	lines := make([]string, 0, rng.End.Line-rng.Start.Line+1)
	for line := rng.Start.Line; line <= rng.End.Line; line++ {
		runes := []rune(buf.Line(line))
		start, end := clampRuneRange(runes, rng.Start.Column, rng.End.Column)
		lines = append(lines, string(runes[start:end]))
	}
	return strings.Join(lines, "\n")
}

// deleteBlockRange removes rng's [left,right) column span from every row
// in its line span and returns the removed segments, newline-joined.
func deleteBlockRange(doc *document.Document, rng Range) string {
	lines := make([]string, 0, rng.End.Line-rng.Start.Line+1)
	for line := rng.Start.Line; line <= rng.End.Line; line++ {
		length := doc.Buffer().LineLength(line)
		start, end := clampCols(length, rng.Start.Column, rng.End.Column)
		lines = append(lines, doc.DeleteCharRange(
			textbuf.Position{Line: line, Column: start},
			textbuf.Position{Line: line, Column: end},
		))
	}
	return strings.Join(lines, "\n")
}

func clampCols(length, start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if start > length {
		start = length
	}
	if end < start {
		end = start
	}
	if end > length {
		end = length
	}
	return start, end
}

func clampRuneRange(line []rune, start, end int) (int, int) {
	return clampCols(len(line), start, end)
}

func deleteRange(doc *document.Document, rng Range) string {
	if rng.Linewise {
		return doc.DeleteLines(rng.Start.Line, rng.End.Line)
	}
	return doc.DeleteCharRange(rng.Start, rng.End)
}

func indentLines(doc *document.Document, rng Range, right bool) {
	const shiftWidth = 4
	endLine := rng.End.Line
	if !rng.Linewise && rng.End.Column == 0 && endLine > rng.Start.Line {
		endLine--
	}
	for line := rng.Start.Line; line <= endLine; line++ {
		if right {
			doc.InsertTabOrSpacesAtLineStart(line, shiftWidth)
		} else {
			doc.UnindentLine(line, shiftWidth)
		}
	}
}

// YankFeedback renders the status-line message for a completed yank, in
// the form "N lines yanked" / "N words yanked" / "Text yanked", optionally
// suffixed "to register X" when an explicit register was named.
func YankFeedback(text string, registerName byte) string {
	lineCount := strings.Count(text, "\n") + 1
	wordCount := len(strings.Fields(text))

	var base string
	switch {
	case lineCount > 1:
		base = fmt.Sprintf("%d lines yanked", lineCount)
	case wordCount > 1:
		base = fmt.Sprintf("%d words yanked", wordCount)
	default:
		base = "Text yanked"
	}
	if registerName != 0 {
		return fmt.Sprintf("%s to register %c", base, registerName)
	}
	return base
}

func toggleCaseRange(doc *document.Document, rng Range) {
	if rng.Linewise {
		for line := rng.Start.Line; line <= rng.End.Line; line++ {
			doc.ToggleLineCase(line)
		}
		return
	}
	pos := rng.Start
	for pos.Before(rng.End) {
		doc.SetCursorRaw(pos)
		doc.ToggleCaseChar()
		next := pos
		next.Column++
		length := doc.Buffer().LineLength(pos.Line)
		if next.Column >= length && pos.Line < rng.End.Line {
			next = textbuf.Position{Line: pos.Line + 1, Column: 0}
		}
		pos = next
	}
}
