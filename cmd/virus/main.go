// Package main is the entry point for the virus editor.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/virus-editor/virus/internal/config"
	"github.com/virus-editor/virus/internal/editor"
	"github.com/virus-editor/virus/internal/termio"
)

func main() {
	os.Exit(run())
}

func run() int {
	logPath := flag.String("log", "", "write diagnostics to this file instead of discarding them")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "virus - a modal terminal text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: virus [options] [file]...\n\n")
		fmt.Fprintf(os.Stderr, "No file arguments opens a single empty unnamed buffer.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger, closeLog := openLog(*logPath)
	defer closeLog()

	ed := editor.NewWithFiles(flag.Args())

	settings, path, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "virus: %v\n", err)
		return 1
	}
	settings.Apply(ed.Buffers, ed.View, ed.Machine)

	for _, status := range config.LoadVirusrc(".virusrc", ed.Ex) {
		logger.Printf("virusrc: %s", status)
	}

	var watcher *config.Watcher
	if path != "" {
		watcher, err = config.NewWatcher(path, func(s *config.Settings) {
			s.Apply(ed.Buffers, ed.View, ed.Machine)
		})
		if err != nil {
			logger.Printf("config watch disabled: %v", err)
		}
	}
	if watcher != nil {
		defer watcher.Close()
	}

	return runTerminal(ed, logger)
}

// runTerminal owns the recover() boundary: the editor never panics on
// user input (spec §7's invariant-violation case aside), so any panic
// reaching here is a programmer error, logged and converted into a
// fatal, nonzero exit rather than a crash dump on the user's terminal.
func runTerminal(ed *editor.Editor, logger *log.Logger) (code int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Printf("panic: %v", r)
			fmt.Fprintf(os.Stderr, "virus: internal error, exiting\n")
			code = 1
		}
	}()

	sc, err := termio.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "virus: failed to start terminal: %v\n", err)
		return 1
	}
	defer sc.Close()

	if err := termio.Run(sc, ed); err != nil {
		sc.Close()
		fmt.Fprintf(os.Stderr, "virus: %v\n", err)
		return 1
	}
	return 0
}

// openLog opens path for diagnostics, or discards everything when path
// is empty, per the editor's logging contract: the core surfaces
// user-facing conditions via the status line, never stdout/stderr, and
// a debug log is opt-in.
func openLog(path string) (*log.Logger, func()) {
	if path == "" {
		return log.New(io.Discard, "", 0), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "virus: cannot open log file %q: %v\n", path, err)
		return log.New(io.Discard, "", 0), func() {}
	}
	return log.New(f, "", log.LstdFlags), func() { f.Close() }
}
