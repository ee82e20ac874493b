// Package config implements the two configuration surfaces described in
// the editor's configuration section: a structured virus.toml settings
// file and a .virusrc startup script of ex commands, plus a watcher that
// re-applies virus.toml when it changes on disk.
package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/virus-editor/virus/internal/buffers"
	"github.com/virus-editor/virus/internal/ex"
	"github.com/virus-editor/virus/internal/modes"
	"github.com/virus-editor/virus/internal/textbuf"
)

// EditorSettings is the `[editor]` table of virus.toml. tabstop,
// expandtab, number, list and fileformat also have ex `:set` equivalents;
// wrapscan, scroll_lines and half_page_lines do not.
type EditorSettings struct {
	TabStop       int    `toml:"tabstop"`
	ExpandTab     bool   `toml:"expandtab"`
	Number        bool   `toml:"number"`
	List          bool   `toml:"list"`
	FileFormat    string `toml:"fileformat"`
	WrapScan      bool   `toml:"wrapscan"`
	ScrollLines   int    `toml:"scroll_lines"`
	HalfPageLines int    `toml:"half_page_lines"`
}

// Settings is the root of virus.toml.
type Settings struct {
	Editor EditorSettings `toml:"editor"`
}

// ParseError wraps a virus.toml parse failure with the file it came from.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return "parse error in " + e.Path + ": " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// SearchPaths returns the virus.toml lookup order: the working directory
// first, then $HOME/.config/virus/virus.toml.
func SearchPaths() []string {
	paths := []string{"virus.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "virus", "virus.toml"))
	}
	return paths
}

// Load finds and parses the first virus.toml along SearchPaths, returning
// its path alongside the parsed Settings. If none exists, it returns a
// zero Settings, an empty path, and a nil error.
func Load() (*Settings, string, error) {
	for _, p := range SearchPaths() {
		s, err := LoadFrom(p)
		if err != nil {
			return nil, "", err
		}
		if s != nil {
			return s, p, nil
		}
	}
	return &Settings{}, "", nil
}

// LoadFrom parses a single virus.toml path. A missing file is not an
// error: it returns (nil, nil).
func LoadFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &s, nil
}

// Apply pushes parsed settings onto the active buffer, the view options
// `:set` also controls, and the mode machine's scroll-step fields. A zero
// ScrollLines/HalfPageLines/TabStop is left alone (the file need not
// mention every field); the three boolean toggles (expandtab, number,
// list) are always applied since
// TOML always decodes an explicit true/false for a present field and
// false for an absent one, matching `:set noet`/`:set nonu`'s own default.
func (s *Settings) Apply(bufs *buffers.Manager, view *ex.ViewOptions, machine *modes.Machine) {
	e := s.Editor
	doc := bufs.Current()
	if e.TabStop > 0 {
		doc.SetTabWidth(e.TabStop)
	}
	doc.SetExpandTab(e.ExpandTab)
	view.ShowLineNumbers = e.Number
	view.ShowWhitespace = e.List

	switch e.FileFormat {
	case "dos":
		doc.SetLineEnding(textbuf.LineEndingCRLF)
	case "mac":
		doc.SetLineEnding(textbuf.LineEndingCR)
	case "unix":
		doc.SetLineEnding(textbuf.LineEndingLF)
	}

	if e.ScrollLines > 0 {
		machine.PageSize = e.ScrollLines
	}
	if e.HalfPageLines > 0 {
		machine.HalfPage = e.HalfPageLines
	}
}

// LoadVirusrc runs each non-blank, non-comment line of path (colon
// omitted) through executor.Execute in order. A missing file is not an
// error. Lines starting with `"` are comments, matching vim's own vimrc
// convention. Returns the status string from each executed line, for the
// caller to fold into a startup log if it wants.
func LoadVirusrc(path string, executor *ex.Executor) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var statuses []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "\"") {
			continue
		}
		status, _ := executor.Execute(line)
		if status != "" {
			statuses = append(statuses, status)
		}
	}
	return statuses
}
