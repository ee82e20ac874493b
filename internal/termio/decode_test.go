package termio

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/virus-editor/virus/internal/key"
)

func TestDecodeKeyRune(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
	got := decodeKey(ev)
	if !got.IsRune() || got.Rune != 'x' {
		t.Fatalf("got %+v", got)
	}
}

func TestDecodeKeyBackspaceNotMisreadAsCtrlH(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyBackspace, 0, tcell.ModNone)
	got := decodeKey(ev)
	if !got.IsBackspace() {
		t.Fatalf("expected Backspace, got %+v", got)
	}
}

func TestDecodeKeyTabAndEnterNotMisreadAsCtrl(t *testing.T) {
	if got := decodeKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)); got.Key != key.KeyTab {
		t.Fatalf("expected Tab, got %+v", got)
	}
	if got := decodeKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)); !got.IsEnter() {
		t.Fatalf("expected Enter, got %+v", got)
	}
}

func TestDecodeKeyCtrlLetterFoldsToRunePlusCtrl(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyCtrlU, 0, tcell.ModCtrl)
	got := decodeKey(ev)
	if !got.CtrlRune('u') {
		t.Fatalf("expected Ctrl-U, got %+v", got)
	}
}

func TestDecodeKeyEscape(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)
	if got := decodeKey(ev); !got.IsEscape() {
		t.Fatalf("expected Escape, got %+v", got)
	}
}

func TestDecodeModCombinesBits(t *testing.T) {
	mods := decodeMod(tcell.ModCtrl | tcell.ModShift)
	if !mods.HasCtrl() || !mods.HasShift() || mods.HasAlt() {
		t.Fatalf("got %v", mods)
	}
}
