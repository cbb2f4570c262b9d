package keymap

import (
	"github.com/open-cli-collective/lore-cli/pkg/editor"
)

// ContextOf captures the caret context of s.
func ContextOf(s *editor.Session) Context {
	d := s.Document()
	sel := s.Selection()
	ctx := Context{
		Collapsed:    sel.Collapsed(),
		AtBlockStart: d.AtBlockStart(sel.Focus),
		Empty:        d.IsEmpty(),
	}
	if b, p, ok := d.BlockAt(sel.Focus.Path); ok {
		ctx.BlockType = b.Type
		_, ctx.InList = d.ListOf(p)
	}
	return ctx
}

// Dispatch resolves ev against s and runs the command. It returns the
// command that ran.
func Dispatch(s *editor.Session, ev KeyEvent) Command {
	cmd := Resolve(ev, s.Engine().State(), ContextOf(s))
	Run(s, cmd)
	return cmd
}

// Run executes cmd on s.
func Run(s *editor.Session, cmd Command) {
	switch cmd.Action {
	case ActionInsertText:
		s.InsertText(cmd.Text)
	case ActionCommit:
		s.Commit()
	case ActionSplitBlock:
		s.SplitBlock()
	case ActionNext:
		s.Next()
	case ActionUnwrapList:
		s.UnwrapList()
	case ActionResetBlock:
		s.ResetBlock()
	case ActionDeleteRegion:
		s.DeleteRegion()
	case ActionResetDeleteRegion:
		s.ResetBlock()
		s.DeleteRegion()
	case ActionDeleteBackward:
		s.DeleteBackward()
	case ActionCompleteWord:
		m, ok := s.CompleteWord()
		// Block shortcuts swallow the space.
		if !ok || m.Entity != nil {
			s.InsertText(" ")
		}
	case ActionSetBlockType:
		s.SetBlockType(cmd.BlockType, editor.BlockProps{})
	case ActionToggleMark:
		s.ToggleMark(cmd.Mark)
	case ActionUndo:
		s.Undo()
	case ActionRedo:
		s.Redo()
	case ActionCandidateUp:
		s.Engine().Move(-1)
	case ActionCandidateDown:
		s.Engine().Move(1)
	case ActionMoveLeft:
		s.MoveBy(-1, editor.UnitCharacter)
	case ActionMoveRight:
		s.MoveBy(1, editor.UnitCharacter)
	case ActionBlur:
		s.Blur()
	}
}
