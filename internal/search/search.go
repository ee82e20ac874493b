// Package search implements the regex search engine and :s/:%s substitute
// primitives (spec component C6): pattern compilation, whole-document
// match enumeration, cursor-relative seeking with wrap, and line/range
// substitution.
package search

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/virus-editor/virus/internal/document"
	"github.com/virus-editor/virus/internal/textbuf"
)

// Direction is the search direction.
type Direction uint8

const (
	Forward Direction = iota
	Backward
)

// Match is one match location, columns in codepoints (not bytes) so
// positions compose directly with textbuf.Position.
type Match struct {
	Line     int
	StartCol int
	EndCol   int
	Text     string
}

// State holds the compiled pattern, its enumerated matches across the
// document it was last scanned against, and search options. Per the
// single-threaded event loop, it carries no locking.
type State struct {
	Pattern       string
	Direction     Direction
	CaseSensitive bool // default false, matching vim's default ignorecase
	Wrap          bool // default true, matching vim's default wrapscan

	matches      []Match
	currentMatch int
	hasCurrent   bool
}

// NewState creates search state with vim's defaults: case-insensitive,
// wrap-around enabled.
func NewState() *State {
	return &State{Wrap: true}
}

// SetPattern compiles pattern for direction. An empty pattern clears all
// search state (matches the Rust original's set_pattern behavior).
func (s *State) SetPattern(pattern string, dir Direction) error {
	s.Direction = dir
	if pattern == "" {
		s.Pattern = ""
		s.matches = nil
		s.hasCurrent = false
		return nil
	}

	expr := pattern
	if !s.CaseSensitive {
		expr = "(?i)" + expr
	}
	if _, err := regexp.Compile(expr); err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	s.Pattern = pattern
	return nil
}

func (s *State) compiled() (*regexp.Regexp, error) {
	if s.Pattern == "" {
		return nil, nil
	}
	expr := s.Pattern
	if !s.CaseSensitive {
		expr = "(?i)" + expr
	}
	return regexp.Compile(expr)
}

// Scan enumerates every match in doc, in document order, replacing any
// prior match list.
func (s *State) Scan(doc *document.Document) error {
	s.matches = nil
	s.hasCurrent = false

	re, err := s.compiled()
	if err != nil {
		return err
	}
	if re == nil {
		return nil
	}

	buf := doc.Buffer()
	for line := 0; line < buf.LineCount(); line++ {
		text := buf.Line(line)
		for _, loc := range re.FindAllStringIndex(text, -1) {
			s.matches = append(s.matches, Match{
				Line:     line,
				StartCol: utf8.RuneCountInString(text[:loc[0]]),
				EndCol:   utf8.RuneCountInString(text[:loc[1]]),
				Text:     text[loc[0]:loc[1]],
			})
		}
	}
	return nil
}

// Matches returns the current match list (read-only view for the renderer's
// search-highlight ranges).
func (s *State) Matches() []Match { return s.matches }

// FindNext returns the first match strictly after (fromLine, fromCol) in
// Direction order, wrapping to the first-or-last match if Wrap is set and
// nothing was found past the cursor.
func (s *State) FindNext(fromLine, fromCol int) (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}

	var idx int
	found := false
	switch s.Direction {
	case Forward:
		for i, m := range s.matches {
			if m.Line > fromLine || (m.Line == fromLine && m.StartCol > fromCol) {
				idx, found = i, true
				break
			}
		}
	case Backward:
		for i := len(s.matches) - 1; i >= 0; i-- {
			m := s.matches[i]
			if m.Line < fromLine || (m.Line == fromLine && m.StartCol < fromCol) {
				idx, found = i, true
				break
			}
		}
	}

	if found {
		s.currentMatch, s.hasCurrent = idx, true
		return s.matches[idx], true
	}
	if !s.Wrap {
		return Match{}, false
	}
	switch s.Direction {
	case Forward:
		idx = 0
	case Backward:
		idx = len(s.matches) - 1
	}
	s.currentMatch, s.hasCurrent = idx, true
	return s.matches[idx], true
}

// FindPrev is FindNext's mirror: searches in the direction opposite to
// Direction, used by the `N` (reverse-repeat) key.
func (s *State) FindPrev(fromLine, fromCol int) (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}

	var idx int
	found := false
	switch s.Direction {
	case Forward:
		for i := len(s.matches) - 1; i >= 0; i-- {
			m := s.matches[i]
			if m.Line < fromLine || (m.Line == fromLine && m.StartCol < fromCol) {
				idx, found = i, true
				break
			}
		}
	case Backward:
		for i, m := range s.matches {
			if m.Line > fromLine || (m.Line == fromLine && m.StartCol > fromCol) {
				idx, found = i, true
				break
			}
		}
	}

	if found {
		s.currentMatch, s.hasCurrent = idx, true
		return s.matches[idx], true
	}
	if !s.Wrap {
		return Match{}, false
	}
	switch s.Direction {
	case Forward:
		idx = len(s.matches) - 1
	case Backward:
		idx = 0
	}
	s.currentMatch, s.hasCurrent = idx, true
	return s.matches[idx], true
}

// CurrentMatchIndex returns the 1-based index of the most recent match
// found by FindNext/FindPrev, for the "match N of M" status message.
func (s *State) CurrentMatchIndex() (int, bool) {
	if !s.hasCurrent {
		return 0, false
	}
	return s.currentMatch + 1, true
}

// WordUnderCursor extracts the alphanumeric-plus-underscore run containing
// (or starting at) the cursor column, for `*`/`#`.
func WordUnderCursor(doc *document.Document, pos textbuf.Position) (string, bool) {
	line := []rune(doc.Buffer().Line(pos.Line))
	if len(line) == 0 {
		return "", false
	}
	isWordChar := func(r rune) bool {
		return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
	}

	col := pos.Column
	if col >= len(line) {
		col = len(line) - 1
	}
	if !isWordChar(line[col]) {
		for col < len(line) && !isWordChar(line[col]) {
			col++
		}
		if col >= len(line) {
			return "", false
		}
	}

	start := col
	for start > 0 && isWordChar(line[start-1]) {
		start--
	}
	end := col
	for end < len(line) && isWordChar(line[end]) {
		end++
	}
	return string(line[start:end]), true
}

// SubstituteLine applies pattern -> replacement to a single line, honoring
// the `g` (all occurrences) and case-sensitivity flags, and returns the
// new line plus the number of replacements made.
func SubstituteLine(line, pattern, replacement string, global, caseSensitive bool) (string, int, error) {
	expr := pattern
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return line, 0, fmt.Errorf("invalid regex: %w", err)
	}

	if global {
		count := len(re.FindAllStringIndex(line, -1))
		if count == 0 {
			return line, 0, nil
		}
		return re.ReplaceAllString(line, replacement), count, nil
	}

	loc := re.FindStringIndex(line)
	if loc == nil {
		return line, 0, nil
	}
	newLine := line[:loc[0]] + re.ReplaceAllString(line[loc[0]:loc[1]], replacement) + line[loc[1]:]
	return newLine, 1, nil
}

// SubstituteRange applies pattern -> replacement across lines
// [startLine, endLine] (inclusive) of doc. Per open question (c): the
// range always behaves like /g across the whole span of lines, but each
// individual line still only replaces its first match unless the caller's
// `global` flag requests all occurrences per line.
func SubstituteRange(doc *document.Document, startLine, endLine int, pattern, replacement string, global, caseSensitive bool) (int, error) {
	buf := doc.Buffer()
	if endLine >= buf.LineCount() {
		endLine = buf.LineCount() - 1
	}
	total := 0
	for line := startLine; line <= endLine; line++ {
		text := buf.Line(line)
		newText, count, err := SubstituteLine(text, pattern, replacement, global, caseSensitive)
		if err != nil {
			return total, err
		}
		if count == 0 {
			continue
		}
		doc.ReplaceLineText(line, newText)
		total += count
	}
	return total, nil
}
