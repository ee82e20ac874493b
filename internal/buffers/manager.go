// Package buffers implements the buffer manager (component C10): an
// ordered collection of open documents with a single active index,
// mutated only by the single-threaded event loop (no locking, per the
// editor's concurrency model).
package buffers

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/virus-editor/virus/internal/document"
	"github.com/virus-editor/virus/internal/marks"
)

// ErrLastBuffer indicates an attempt to close the only remaining buffer.
var ErrLastBuffer = errors.New("cannot close last buffer")

// ErrUnsavedChanges indicates a close was refused because the buffer has
// unsaved edits and was not forced.
var ErrUnsavedChanges = errors.New("buffer has unsaved changes")

// FileError wraps a failed open/save with the path and operation that
// failed.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string { return e.Op + " " + e.Path + ": " + e.Err.Error() }
func (e *FileError) Unwrap() error { return e.Err }

// Manager holds the ordered list of open Documents and the 0-based index
// of the current one, per spec: "non-empty; current index in range".
type Manager struct {
	docs    []*document.Document
	current int
	marks   *marks.Manager

	// ids assigns each buffer a stable identity for the lifetime of the
	// process, independent of its position in docs (which shifts on
	// Close). A renderer can diff two ID slices to tell whether the
	// buffer list changed without deep-comparing Documents.
	ids map[*document.Document]string
}

// New returns a Manager seeded with a single empty, unnamed buffer.
func New(mrks *marks.Manager) *Manager {
	m := &Manager{marks: mrks, ids: make(map[*document.Document]string)}
	m.docs = []*document.Document{document.New()}
	m.assignID(m.docs[0])
	return m
}

// assignID gives doc a fresh stable identity if it doesn't already have one.
func (m *Manager) assignID(doc *document.Document) {
	if m.ids == nil {
		m.ids = make(map[*document.Document]string)
	}
	if _, ok := m.ids[doc]; !ok {
		m.ids[doc] = uuid.NewString()
	}
}

// ID returns doc's stable identity, assigning one if it somehow lacks it.
func (m *Manager) ID(doc *document.Document) string {
	m.assignID(doc)
	return m.ids[doc]
}

// NewWithFiles seeds a Manager by opening each path in order, switching to
// the first one. A path that doesn't exist on disk yet becomes a new,
// unsaved buffer with that path set (per spec's open contract), rather
// than an error. With no paths, it behaves like New.
func NewWithFiles(mrks *marks.Manager, paths []string) *Manager {
	if len(paths) == 0 {
		return New(mrks)
	}
	m := &Manager{marks: mrks, ids: make(map[*document.Document]string)}
	for _, p := range paths {
		doc, err := loadOrCreate(p)
		if err != nil {
			doc = document.New(document.WithPath(p))
		}
		m.assignID(doc)
		m.docs = append(m.docs, doc)
	}
	return m
}

func loadOrCreate(path string) (*document.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return document.FromString(string(content), document.WithPath(path)), nil
}

// Current returns the active Document.
func (m *Manager) Current() *document.Document { return m.docs[m.current] }

// CurrentIndex returns the 0-based index of the active buffer.
func (m *Manager) CurrentIndex() int { return m.current }

// Count returns the number of open buffers.
func (m *Manager) Count() int { return len(m.docs) }

// All returns the open buffers in order; callers must not mutate the slice.
func (m *Manager) All() []*document.Document { return m.docs }

// DisplayName returns the buffer's file name, or "[No Name]" for a
// scratch buffer, matching the status-line convention the Ex executor
// reports for `:ls`/`:e`/`:w`.
func DisplayName(doc *document.Document) string {
	if doc.Path() == "" {
		return "[No Name]"
	}
	return filepath.Base(doc.Path())
}

// Open switches to path if already open, otherwise loads it (or creates a
// new unsaved buffer at that path if it doesn't exist yet), appends it,
// and switches to it. Returns a status string matching the pattern the
// Ex executor surfaces for :e.
func (m *Manager) Open(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for i, doc := range m.docs {
		if samePath(doc.Path(), abs) {
			m.current = i
			return "\"" + path + "\" opened", nil
		}
	}
	doc, err := loadOrCreate(abs)
	if err != nil {
		doc = document.New(document.WithPath(abs))
		m.assignID(doc)
		m.docs = append(m.docs, doc)
		m.current = len(m.docs) - 1
		return "\"" + path + "\" [New File]", nil
	}
	m.assignID(doc)
	m.docs = append(m.docs, doc)
	m.current = len(m.docs) - 1
	return "\"" + path + "\" opened", nil
}

// NewBuffer appends a fresh, empty, unnamed buffer and switches to it,
// for bare `:e` with no filename.
func (m *Manager) NewBuffer() {
	doc := document.New()
	m.assignID(doc)
	m.docs = append(m.docs, doc)
	m.current = len(m.docs) - 1
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

// Save writes the current buffer's text to its path (or to path, if
// given, rebinding the buffer to it) and clears the dirty flag.
func (m *Manager) Save(path string) error {
	doc := m.Current()
	target := doc.Path()
	if path != "" {
		target = path
	}
	if target == "" {
		return &FileError{Op: "save", Path: "", Err: errors.New("no file name")}
	}
	if err := os.WriteFile(target, []byte(doc.Text()), 0o644); err != nil {
		return &FileError{Op: "save", Path: target, Err: err}
	}
	doc.SetPath(target)
	doc.MarkSaved()
	return nil
}

// Close removes the current buffer. It refuses when the buffer is dirty
// unless force is set, and always refuses to close the last buffer, per
// spec §4.10. On success it invokes Mark Manager cleanup for the closed
// file and lands the current index on a valid neighbor.
func (m *Manager) Close(force bool) error {
	if len(m.docs) == 1 {
		return ErrLastBuffer
	}
	doc := m.Current()
	if doc.Dirty() && !force {
		return ErrUnsavedChanges
	}
	closedPath := doc.Path()
	doc.ClearLocalMarks()
	delete(m.ids, doc)
	m.docs = append(m.docs[:m.current], m.docs[m.current+1:]...)
	if m.current >= len(m.docs) {
		m.current = len(m.docs) - 1
	}
	if m.marks != nil {
		m.marks.CleanupClosedBuffer(closedPath)
	}
	return nil
}

// Next rotates to the next buffer, cyclically.
func (m *Manager) Next() {
	if len(m.docs) > 1 {
		m.current = (m.current + 1) % len(m.docs)
	}
}

// Prev rotates to the previous buffer, cyclically.
func (m *Manager) Prev() {
	if len(m.docs) > 1 {
		m.current = (m.current - 1 + len(m.docs)) % len(m.docs)
	}
}

// Switch moves to buffer n, 1-based as the user types it in `:b<n>`.
func (m *Manager) Switch(n int) error {
	if n < 1 || n > len(m.docs) {
		return errors.New("buffer does not exist")
	}
	m.current = n - 1
	return nil
}

// List renders the `:ls` buffer listing as a single line with one " | "
// separated entry per buffer, "%" marking the active one and "+" marking
// unsaved changes.
func (m *Manager) List() string {
	var b strings.Builder
	for i, doc := range m.docs {
		indicator := " "
		if i == m.current {
			indicator = "%"
		}
		modified := ""
		if doc.Dirty() {
			modified = "+"
		}
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(indicator)
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(": \"")
		b.WriteString(DisplayName(doc))
		b.WriteString("\" ")
		b.WriteString(modified)
	}
	return b.String()
}
