package vimparser

import "github.com/virus-editor/virus/internal/operators"

// AwaitingChar names the single-character continuations normal mode can
// be waiting on, per the spec's per-state pending field of the same
// name: a backtick/quote mark reference, the four find-character
// variants, `r`'s replacement character, and `m`'s mark letter.
type AwaitingChar uint8

const (
	AwaitNone AwaitingChar = iota
	AwaitMark
	AwaitFindFwd
	AwaitFindBwd
	AwaitFindBeforeFwd
	AwaitFindBeforeBwd
	AwaitReplaceChar
	AwaitSetMark
)

// PendingOperator is the operator half of a not-yet-resolved `{op}{motion}`
// command: which operator, and the count that was accumulated before it
// was pressed (combined with the motion's own count via Combine).
type PendingOperator struct {
	Set   bool
	Op    operators.Kind
	Count int
}

// PendingState is normal mode's per-keystroke scratch state: the fields
// named in the spec's mode-state-machine section, gathered in one place
// so Esc can clear all of them atomically.
type PendingState struct {
	Count            CountState
	Operator         PendingOperator
	Register         byte // 0 = none pending
	AwaitingRegister bool // true right after `"`, expecting a register name
	Awaiting         AwaitingChar
}

// Reset clears all pending state, as Esc does in every mode (spec §4.9
// step 7).
func (p *PendingState) Reset() { *p = PendingState{} }

// HasPending reports whether any accumulation is in progress, used by the
// status line's pending-command indicator (e.g. `"3d`).
func (p *PendingState) HasPending() bool {
	return p.Count.Active || p.Operator.Set || p.Register != 0 || p.AwaitingRegister || p.Awaiting != AwaitNone
}
