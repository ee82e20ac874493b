// Package ex implements the ex command executor (component C11): the
// colon-command language entered from Command mode (spec §4.11). It
// parses a trimmed command line and mutates the Buffer Manager, the
// active Document, the Mark Manager, and view-level settings, returning
// a status string for the status line.
package ex

import (
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/virus-editor/virus/internal/buffers"
	"github.com/virus-editor/virus/internal/marks"
	"github.com/virus-editor/virus/internal/search"
	"github.com/virus-editor/virus/internal/textbuf"
)

func readFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	return string(content), err
}

// ViewOptions holds the renderer-facing settings `:set` toggles. The
// eventual terminal backend reads these; internal/ex only flips them.
type ViewOptions struct {
	ShowLineNumbers bool
	ShowWhitespace  bool
}

// Executor owns the editor-scoped singletons an ex command can touch.
type Executor struct {
	Buffers *buffers.Manager
	Marks   *marks.Manager
	Search  *search.State
	View    *ViewOptions
}

// New returns an Executor wired to the given singletons.
func New(bufs *buffers.Manager, mrks *marks.Manager, srch *search.State, view *ViewOptions) *Executor {
	return &Executor{Buffers: bufs, Marks: mrks, Search: srch, View: view}
}

// Execute runs one command line (without its leading ':') and reports a
// status string plus whether the editor should quit. Unknown commands
// report "Unknown command: <text>" without aborting, per spec §4.11.
func (e *Executor) Execute(line string) (status string, quit bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}

	if status, quit, ok := e.execFile(trimmed); ok {
		return status, quit
	}
	if status, ok := e.execBuffer(trimmed); ok {
		return status, false
	}
	if status, ok := e.execSet(trimmed); ok {
		return status, false
	}
	if status, ok := e.execSubstitute(trimmed); ok {
		return status, false
	}
	if status, ok := e.execMarks(trimmed); ok {
		return status, false
	}
	if status, ok := e.execRead(trimmed); ok {
		return status, false
	}
	if status, ok := e.execLineJump(trimmed); ok {
		return status, false
	}
	if trimmed == "help" || trimmed == "h" {
		return "no help text is available", false
	}

	return "Unknown command: " + trimmed, false
}

func (e *Executor) execFile(trimmed string) (status string, quit bool, ok bool) {
	doc := e.Buffers.Current()
	switch {
	case trimmed == "q":
		if doc.Dirty() {
			return "No write since last change (add ! to override)", false, true
		}
		return "", true, true
	case trimmed == "q!":
		return "", true, true
	case trimmed == "w":
		if err := e.Buffers.Save(""); err != nil {
			return err.Error(), false, true
		}
		return "\"" + buffers.DisplayName(doc) + "\" written", false, true
	case strings.HasPrefix(trimmed, "w "):
		path := strings.TrimSpace(trimmed[2:])
		if err := e.Buffers.Save(path); err != nil {
			return err.Error(), false, true
		}
		return "\"" + path + "\" written", false, true
	case trimmed == "wq" || trimmed == "x":
		if err := e.Buffers.Save(""); err != nil {
			return err.Error(), false, true
		}
		return "\"" + buffers.DisplayName(doc) + "\" written", true, true
	case trimmed == "e" || strings.HasPrefix(trimmed, "e "):
		path := strings.TrimSpace(trimmed[1:])
		if path == "" {
			e.Buffers.NewBuffer()
			return "new buffer", false, true
		}
		status, err := e.Buffers.Open(path)
		if err != nil {
			return err.Error(), false, true
		}
		return status, false, true
	}
	return "", false, false
}

var bufNumRe = regexp.MustCompile(`^b(\d+)$`)

func (e *Executor) execBuffer(trimmed string) (string, bool) {
	switch trimmed {
	case "ls":
		return e.Buffers.List(), true
	case "bn":
		e.Buffers.Next()
		return "\"" + buffers.DisplayName(e.Buffers.Current()) + "\"", true
	case "bp":
		e.Buffers.Prev()
		return "\"" + buffers.DisplayName(e.Buffers.Current()) + "\"", true
	case "bd":
		if err := e.Buffers.Close(false); err != nil {
			return err.Error(), true
		}
		return "buffer deleted", true
	case "bd!":
		if err := e.Buffers.Close(true); err != nil {
			return err.Error(), true
		}
		return "buffer deleted", true
	}
	if m := bufNumRe.FindStringSubmatch(trimmed); m != nil {
		n, _ := strconv.Atoi(m[1])
		if err := e.Buffers.Switch(n); err != nil {
			return err.Error(), true
		}
		return "\"" + buffers.DisplayName(e.Buffers.Current()) + "\"", true
	}
	return "", false
}

func (e *Executor) execSet(trimmed string) (string, bool) {
	if !strings.HasPrefix(trimmed, "set ") {
		return "", false
	}
	arg := trimmed[len("set "):]
	doc := e.Buffers.Current()
	switch arg {
	case "nu", "number":
		e.View.ShowLineNumbers = true
		return "line numbers enabled", true
	case "nonu", "nonumber":
		e.View.ShowLineNumbers = false
		return "line numbers disabled", true
	case "list":
		e.View.ShowWhitespace = true
		return "whitespace shown", true
	case "nolist":
		e.View.ShowWhitespace = false
		return "whitespace hidden", true
	case "et", "expandtab":
		doc.SetExpandTab(true)
		return "tab key inserts spaces", true
	case "noet", "noexpandtab":
		doc.SetExpandTab(false)
		return "tab key inserts tabs", true
	case "ff=unix":
		doc.SetLineEnding(textbuf.LineEndingLF)
		return "line endings set to unix", true
	case "ff=dos":
		doc.SetLineEnding(textbuf.LineEndingCRLF)
		return "line endings set to dos", true
	case "ff=mac":
		doc.SetLineEnding(textbuf.LineEndingCR)
		return "line endings set to mac", true
	}
	if strings.HasPrefix(arg, "tabstop=") {
		n, err := strconv.Atoi(arg[len("tabstop="):])
		if err != nil || n < 1 || n > 16 {
			return "tab width must be between 1 and 16", true
		}
		doc.SetTabWidth(n)
		return "tab width set to " + strconv.Itoa(n), true
	}
	return "", false
}

func (e *Executor) execSubstitute(trimmed string) (string, bool) {
	whole := strings.HasPrefix(trimmed, "%s/")
	if !whole && !strings.HasPrefix(trimmed, "s/") {
		return "", false
	}
	body := trimmed[strings.Index(trimmed, "s/")+2:]
	parts := strings.Split(body, "/")
	if len(parts) < 2 {
		return "", false
	}
	pattern, replacement := parts[0], parts[1]
	flags := ""
	if len(parts) > 2 {
		flags = parts[2]
	}
	global := strings.Contains(flags, "g")
	caseSensitive := !strings.Contains(flags, "i")

	doc := e.Buffers.Current()
	var count int
	var err error
	if whole {
		count, err = search.SubstituteRange(doc, 0, doc.Buffer().LineCount()-1, pattern, replacement, global, caseSensitive)
	} else {
		line := doc.Cursor().Line
		count, err = search.SubstituteRange(doc, line, line, pattern, replacement, global, caseSensitive)
	}
	if err != nil {
		return "substitution error: " + err.Error(), true
	}
	if count == 0 {
		return "pattern not found", true
	}
	if count == 1 {
		return "1 substitution made", true
	}
	return strconv.Itoa(count) + " substitutions made", true
}

func (e *Executor) execMarks(trimmed string) (string, bool) {
	switch trimmed {
	case "marks":
		entries := e.Marks.List(e.Buffers.Current().LocalMarks())
		if len(entries) == 0 {
			return "no marks set", true
		}
		var b strings.Builder
		b.WriteString("marks: ")
		for i, entry := range entries {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteByte(entry.Letter)
			b.WriteString(" line ")
			b.WriteString(strconv.Itoa(entry.Mark.Position.Line + 1))
			b.WriteString(", col ")
			b.WriteString(strconv.Itoa(entry.Mark.Position.Column + 1))
		}
		return b.String(), true
	case "jumps":
		list, pos := e.Marks.JumpList()
		if len(list) == 0 {
			return "jump list empty", true
		}
		var b strings.Builder
		for i, entry := range list {
			marker := " "
			if i == pos {
				marker = ">"
			}
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(marker)
			b.WriteString(" line ")
			b.WriteString(strconv.Itoa(entry.Position.Line + 1))
		}
		return b.String(), true
	}
	return "", false
}

func (e *Executor) execRead(trimmed string) (string, bool) {
	if strings.HasPrefix(trimmed, "r !") {
		shellCmd := trimmed[len("r !"):]
		out, err := exec.Command("sh", "-c", shellCmd).Output()
		if err != nil {
			return "command failed: " + err.Error(), true
		}
		if len(out) == 0 {
			return "command executed (no output)", true
		}
		doc := e.Buffers.Current()
		doc.InsertTextAt(doc.Cursor(), string(out))
		return "command output inserted", true
	}
	if strings.HasPrefix(trimmed, "r ") {
		return e.insertFile(strings.TrimSpace(trimmed[2:]), e.Buffers.Current().Cursor().Line+1)
	}
	if idx := strings.Index(trimmed, "r "); idx > 0 {
		if n, err := strconv.Atoi(trimmed[:idx]); err == nil {
			return e.insertFile(strings.TrimSpace(trimmed[idx+2:]), n)
		}
	}
	return "", false
}

func (e *Executor) insertFile(path string, atLine int) (string, bool) {
	content, err := readFile(path)
	if err != nil {
		return "error reading file \"" + path + "\": " + err.Error(), true
	}
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	doc := e.Buffers.Current()
	if atLine < 0 {
		atLine = 0
	}
	if atLine > doc.Buffer().LineCount() {
		atLine = doc.Buffer().LineCount()
	}
	doc.InsertLinesAt(atLine, lines)
	return "\"" + path + "\" " + strconv.Itoa(len(lines)) + " lines inserted", true
}

func (e *Executor) execLineJump(trimmed string) (string, bool) {
	n, err := strconv.Atoi(trimmed)
	if err != nil || n <= 0 {
		return "", false
	}
	doc := e.Buffers.Current()
	target := n - 1
	if last := doc.Buffer().LineCount() - 1; target > last {
		target = last
	}
	doc.SetCursorRaw(textbuf.Position{Line: target})
	doc.ClampCursor(false)
	return "jumped to line " + strconv.Itoa(n), true
}
