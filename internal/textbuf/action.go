package textbuf

// ActionKind tags the variant of an Action.
type ActionKind uint8

const (
	ActionInsertText ActionKind = iota
	ActionDeleteText
	ActionInsertLine
	ActionDeleteLine
	ActionSplitLine
	ActionJoinLines
)

// Action is a tagged record of one primitive edit performed by Buffer.
// Every Action knows its own reverse by construction (Reverse), so the
// undo log never has to special-case a variant: it just swaps tag and
// replays the opposite primitive.
type Action struct {
	Kind ActionKind

	Line   int    // line index the action applies to
	Column int    // column, for character-level actions
	Text   string // payload: inserted/deleted text, or moved/joined text

	// Separator is only meaningful for ActionJoinLines: the text that was
	// spliced between the two joined lines (so Reverse can re-split there).
	Separator string
}

// Reverse returns the Action that undoes this one.
func (a Action) Reverse() Action {
	switch a.Kind {
	case ActionInsertText:
		return Action{Kind: ActionDeleteText, Line: a.Line, Column: a.Column, Text: a.Text}
	case ActionDeleteText:
		return Action{Kind: ActionInsertText, Line: a.Line, Column: a.Column, Text: a.Text}
	case ActionInsertLine:
		return Action{Kind: ActionDeleteLine, Line: a.Line, Text: a.Text}
	case ActionDeleteLine:
		return Action{Kind: ActionInsertLine, Line: a.Line, Text: a.Text}
	case ActionSplitLine:
		return Action{Kind: ActionJoinLines, Line: a.Line, Column: a.Column, Text: a.Text, Separator: ""}
	case ActionJoinLines:
		return Action{Kind: ActionSplitLine, Line: a.Line, Column: a.Column, Text: a.Text}
	default:
		return a
	}
}
