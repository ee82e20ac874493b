package termio

import (
	"errors"

	"github.com/virus-editor/virus/internal/editor"
)

// Run drives the cooperative event loop described in the editor's
// single-threaded execution model: poll one terminal event, decode it,
// hand it to ed.Handle, redraw, repeat. It returns nil when ed.Handle
// reports editor.ErrQuit, or any other error ed.Handle returns.
func Run(sc *Screen, ed *editor.Editor) error {
	r := NewRenderer()
	r.Draw(sc, ed)
	for {
		ev, isKey := sc.PollKey()
		if !isKey {
			r.Draw(sc, ed)
			continue
		}
		if err := ed.Handle(ev); err != nil {
			if errors.Is(err, editor.ErrQuit) {
				return nil
			}
			return err
		}
		r.Draw(sc, ed)
	}
}
