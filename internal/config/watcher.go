package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads virus.toml when it changes on disk and hands the fresh
// Settings to a callback. It watches the file's parent directory rather
// than the file itself, since editors and package managers commonly
// replace a config file via rename-over-original, an event fsnotify
// reports against the directory, not a file descriptor that no longer
// points at anything.
type Watcher struct {
	fsw  *fsnotify.Watcher
	path string
}

// NewWatcher starts watching path's directory for changes. onReload is
// called with the freshly parsed Settings whenever path is written or
// recreated; parse errors and events for unrelated files in the same
// directory are silently ignored.
func NewWatcher(path string, onReload func(*Settings)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{fsw: fsw, path: abs}
	go w.run(onReload)
	return w, nil
}

func (w *Watcher) run(onReload func(*Settings)) {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev, onReload)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event, onReload func(*Settings)) {
	abs, err := filepath.Abs(ev.Name)
	if err != nil || abs != w.path {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	s, err := LoadFrom(w.path)
	if err != nil || s == nil {
		return
	}
	onReload(s)
}

// Close stops the watcher.
func (w *Watcher) Close() error { return w.fsw.Close() }
