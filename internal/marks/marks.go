// Package marks implements global marks and the jump ring (spec component
// C5). Local (lowercase) marks are Document-scoped and live in
// internal/document instead; Manager only tracks what's shared across
// buffers: global marks (A-Z), the special marks ('', '., '^), and the
// bounded jump list.
package marks

import (
	"errors"

	"github.com/virus-editor/virus/internal/textbuf"
)

// Errors returned by Manager operations.
var (
	ErrInvalidMarkLetter = errors.New("invalid global mark letter")
	ErrNoSuchMark        = errors.New("mark not set")
)

// maxJumpEntries bounds the jump ring; oldest entries are evicted first.
const maxJumpEntries = 100

// Mark is a saved position, optionally tied to a file (global marks carry
// a path; special marks do not).
type Mark struct {
	Position textbuf.Position
	File     string
}

// JumpEntry is one ring entry in the jump list.
type JumpEntry struct {
	Position textbuf.Position
	File     string
}

// MarkEntry is one row for the `:marks` listing, combining a letter with
// its position — used by internal/ex to format the command's output.
type MarkEntry struct {
	Letter byte
	Mark   Mark
}

// Manager owns global marks, the special marks, and the jump ring. Per
// the single-threaded event loop, it carries no locking.
type Manager struct {
	global map[byte]Mark

	jumpList []JumpEntry
	jumpPos  int

	lastJump   *Mark // '' - last jump position
	lastChange *Mark // '. - last change position
	lastInsert *Mark // '^ - last insert position
}

// NewManager creates an empty mark manager.
func NewManager() *Manager {
	return &Manager{global: make(map[byte]Mark)}
}

// SetGlobal records a global mark (A-Z) at pos in file.
func (m *Manager) SetGlobal(letter byte, pos textbuf.Position, file string) error {
	if letter < 'A' || letter > 'Z' {
		return ErrInvalidMarkLetter
	}
	m.global[letter] = Mark{Position: pos, File: file}
	return nil
}

// Global returns the mark for a global letter (A-Z) or one of the special
// marks ('\'', '.', '^').
func (m *Manager) Global(letter byte) (Mark, error) {
	switch {
	case letter >= 'A' && letter <= 'Z':
		mk, ok := m.global[letter]
		if !ok {
			return Mark{}, ErrNoSuchMark
		}
		return mk, nil
	case letter == '\'':
		return derefMark(m.lastJump)
	case letter == '.':
		return derefMark(m.lastChange)
	case letter == '^':
		return derefMark(m.lastInsert)
	default:
		return Mark{}, ErrInvalidMarkLetter
	}
}

func derefMark(m *Mark) (Mark, error) {
	if m == nil {
		return Mark{}, ErrNoSuchMark
	}
	return *m, nil
}

// SetLastJump updates the '' special mark.
func (m *Manager) SetLastJump(pos textbuf.Position, file string) {
	m.lastJump = &Mark{Position: pos, File: file}
}

// SetLastChange updates the '. special mark.
func (m *Manager) SetLastChange(pos textbuf.Position, file string) {
	m.lastChange = &Mark{Position: pos, File: file}
}

// SetLastInsert updates the '^ special mark.
func (m *Manager) SetLastInsert(pos textbuf.Position, file string) {
	m.lastInsert = &Mark{Position: pos, File: file}
}

// PushJump adds a position to the jump ring. Pushing from the middle of
// the ring truncates forward history first; pushing the same position as
// the current tail is a no-op (vim never records a jump to where you
// already are).
func (m *Manager) PushJump(pos textbuf.Position, file string) {
	if m.jumpPos < len(m.jumpList) {
		m.jumpList = m.jumpList[:m.jumpPos]
	}
	if len(m.jumpList) > 0 {
		last := m.jumpList[len(m.jumpList)-1]
		if last.Position == pos && last.File == file {
			return
		}
	}
	m.jumpList = append(m.jumpList, JumpEntry{Position: pos, File: file})

	if len(m.jumpList) > maxJumpEntries {
		m.jumpList = m.jumpList[1:]
		return
	}
	m.jumpPos = len(m.jumpList)
}

// JumpBackward moves the jump index back one step and returns the entry
// there (Ctrl-O). Returns ok=false at the oldest entry.
func (m *Manager) JumpBackward() (JumpEntry, bool) {
	if m.jumpPos <= 0 {
		return JumpEntry{}, false
	}
	m.jumpPos--
	return m.jumpList[m.jumpPos], true
}

// JumpForward returns the entry at the current jump index and then
// advances it (Ctrl-I). Returns ok=false past the newest entry.
func (m *Manager) JumpForward() (JumpEntry, bool) {
	if m.jumpPos >= len(m.jumpList) {
		return JumpEntry{}, false
	}
	entry := m.jumpList[m.jumpPos]
	m.jumpPos++
	return entry, true
}

// JumpList returns the current jump ring and index, for the `:jumps`
// listing command.
func (m *Manager) JumpList() ([]JumpEntry, int) {
	return m.jumpList, m.jumpPos
}

// List returns local marks from the active Document merged with global
// and special marks, sorted by letter, for the `:marks` command.
func (m *Manager) List(localMarks map[byte]textbuf.Position) []MarkEntry {
	var entries []MarkEntry
	for letter, pos := range localMarks {
		entries = append(entries, MarkEntry{Letter: letter, Mark: Mark{Position: pos}})
	}
	for letter, mk := range m.global {
		entries = append(entries, MarkEntry{Letter: letter, Mark: mk})
	}
	if m.lastJump != nil {
		entries = append(entries, MarkEntry{Letter: '\'', Mark: *m.lastJump})
	}
	if m.lastChange != nil {
		entries = append(entries, MarkEntry{Letter: '.', Mark: *m.lastChange})
	}
	if m.lastInsert != nil {
		entries = append(entries, MarkEntry{Letter: '^', Mark: *m.lastInsert})
	}

	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j-1].Letter > entries[j].Letter; j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
	return entries
}

// CleanupClosedBuffer drops global marks and jump entries that point at
// closedFile, and clears the special marks (they are always
// buffer-specific, matching vim's behavior on :bd).
func (m *Manager) CleanupClosedBuffer(closedFile string) {
	if closedFile != "" {
		for letter, mk := range m.global {
			if mk.File == closedFile {
				delete(m.global, letter)
			}
		}
		kept := m.jumpList[:0]
		for _, entry := range m.jumpList {
			if entry.File != closedFile {
				kept = append(kept, entry)
			}
		}
		m.jumpList = kept
		if m.jumpPos > len(m.jumpList) {
			m.jumpPos = len(m.jumpList)
		}
	}

	m.lastJump = nil
	m.lastChange = nil
	m.lastInsert = nil
}
