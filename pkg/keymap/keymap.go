// Package keymap maps key events to editor commands.
//
// Resolve is a pure table from (event, recognizer state, caret context) to a
// Command. Dispatch resolves an event against a live session and runs it.
package keymap

import (
	"unicode/utf8"

	"github.com/open-cli-collective/lore-cli/pkg/doc"
	"github.com/open-cli-collective/lore-cli/pkg/recognize"
)

// Named keys. Printable keys use their character as the key name.
const (
	KeyEnter     = "Enter"
	KeyBackspace = "Backspace"
	KeyEscape    = "Escape"
	KeyUp        = "ArrowUp"
	KeyDown      = "ArrowDown"
	KeyLeft      = "ArrowLeft"
	KeyRight     = "ArrowRight"
	KeySpace     = " "
)

// KeyEvent is a single key press.
type KeyEvent struct {
	Key   string
	Shift bool
	// Mod is the platform command modifier (Cmd on macOS, Ctrl elsewhere).
	Mod bool
	Alt bool
}

// Action identifies what a command does.
type Action int

const (
	ActionNone Action = iota
	ActionInsertText
	ActionCommit
	ActionSplitBlock
	ActionNext
	ActionUnwrapList
	ActionResetBlock
	ActionDeleteRegion
	ActionResetDeleteRegion
	ActionDeleteBackward
	ActionCompleteWord
	ActionSetBlockType
	ActionToggleMark
	ActionUndo
	ActionRedo
	ActionCandidateUp
	ActionCandidateDown
	ActionMoveLeft
	ActionMoveRight
	ActionBlur
)

var actionNames = map[Action]string{
	ActionNone:              "none",
	ActionInsertText:        "insert-text",
	ActionCommit:            "commit",
	ActionSplitBlock:        "split-block",
	ActionNext:              "next",
	ActionUnwrapList:        "unwrap-list",
	ActionResetBlock:        "reset-block",
	ActionDeleteRegion:      "delete-region",
	ActionResetDeleteRegion: "reset-delete-region",
	ActionDeleteBackward:    "delete-backward",
	ActionCompleteWord:      "complete-word",
	ActionSetBlockType:      "set-block-type",
	ActionToggleMark:        "toggle-mark",
	ActionUndo:              "undo",
	ActionRedo:              "redo",
	ActionCandidateUp:       "candidate-up",
	ActionCandidateDown:     "candidate-down",
	ActionMoveLeft:          "move-left",
	ActionMoveRight:         "move-right",
	ActionBlur:              "blur",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Command is a resolved key binding.
type Command struct {
	Action    Action
	Text      string
	BlockType doc.BlockType
	Mark      doc.Mark
}

// Context describes the caret when the key was pressed.
type Context struct {
	BlockType    doc.BlockType
	InList       bool
	AtBlockStart bool
	Collapsed    bool
	// Empty is set when the document is a single block with no content.
	Empty bool
}

var modBlockTypes = map[string]doc.BlockType{
	"1": doc.Heading1,
	"2": doc.Heading2,
	"3": doc.Heading3,
	"p": doc.Callout,
	"q": doc.Quote,
}

var modMarks = map[string]doc.Mark{
	"b": doc.Bold,
	"i": doc.Italic,
}

// Resolve returns the command bound to ev.
func Resolve(ev KeyEvent, state recognize.State, ctx Context) Command {
	if ev.Mod {
		return resolveMod(ev)
	}
	switch ev.Key {
	case KeyEnter:
		switch {
		case ev.Shift:
			return Command{Action: ActionNext}
		case state == recognize.Matched:
			return Command{Action: ActionCommit}
		case ctx.InList && ctx.AtBlockStart && ctx.Collapsed:
			return Command{Action: ActionNone}
		}
		return Command{Action: ActionSplitBlock}
	case KeyBackspace:
		if ctx.Collapsed && ctx.AtBlockStart {
			switch {
			case ctx.Empty && (ctx.InList || ctx.BlockType != doc.Paragraph):
				return Command{Action: ActionResetDeleteRegion}
			case ctx.InList:
				return Command{Action: ActionUnwrapList}
			case ctx.BlockType != doc.Paragraph:
				return Command{Action: ActionResetBlock}
			case ctx.Empty:
				return Command{Action: ActionDeleteRegion}
			}
		}
		return Command{Action: ActionDeleteBackward}
	case KeySpace:
		return Command{Action: ActionCompleteWord}
	case KeyUp:
		if state == recognize.Matched {
			return Command{Action: ActionCandidateUp}
		}
		return Command{Action: ActionNone}
	case KeyDown:
		if state == recognize.Matched {
			return Command{Action: ActionCandidateDown}
		}
		return Command{Action: ActionNone}
	case KeyLeft:
		return Command{Action: ActionMoveLeft}
	case KeyRight:
		return Command{Action: ActionMoveRight}
	case KeyEscape:
		return Command{Action: ActionBlur}
	}
	if printable(ev.Key) && !ev.Alt {
		return Command{Action: ActionInsertText, Text: ev.Key}
	}
	return Command{Action: ActionNone}
}

func resolveMod(ev KeyEvent) Command {
	if t, ok := modBlockTypes[ev.Key]; ok && !ev.Shift {
		return Command{Action: ActionSetBlockType, BlockType: t}
	}
	if m, ok := modMarks[ev.Key]; ok && !ev.Shift {
		return Command{Action: ActionToggleMark, Mark: m}
	}
	switch ev.Key {
	case "z", "Z":
		if ev.Shift {
			return Command{Action: ActionRedo}
		}
		return Command{Action: ActionUndo}
	case "y":
		return Command{Action: ActionRedo}
	}
	return Command{Action: ActionNone}
}

func printable(key string) bool {
	if utf8.RuneCountInString(key) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(key)
	return r >= ' ' && r != 0x7f
}
