package editor

import (
	"go.uber.org/zap"

	"github.com/open-cli-collective/lore-cli/pkg/doc"
)

// BlockProps are optional properties applied by SetBlockType.
type BlockProps struct {
	// Color is the callout colour. Empty keeps the current one.
	Color string
}

// touched returns the ordinals of the first and last text blocks the
// selection reaches.
func (s *Session) touched() (first, last int) {
	anchor, focus := s.locations()
	first, last = anchor.Block, focus.Block
	if first > last {
		first, last = last, first
	}
	return first, last
}

// eachTouched calls fn with the path and block of every touched text block.
// Paths are looked up afresh for every ordinal.
func (s *Session) eachTouched(first, last int, fn func(p doc.Path, b *doc.Block) bool) {
	for ord := first; ord <= last; ord++ {
		blocks := s.doc.TextBlocks()
		if ord >= len(blocks) {
			return
		}
		b, _ := s.doc.Block(blocks[ord])
		if !fn(blocks[ord], b) {
			return
		}
	}
}

// BlockActive reports whether every block touched by the selection has type
// t. For list types it checks the list holding each block.
func (s *Session) BlockActive(t doc.BlockType) bool {
	first, last := s.touched()
	active := true
	s.eachTouched(first, last, func(p doc.Path, b *doc.Block) bool {
		if t.IsList() {
			list, ok := s.doc.ListOf(p)
			active = ok && list.Type == t
		} else {
			active = b.Type == t
		}
		return active
	})
	return active
}

// SetBlockType toggles the touched blocks between t and paragraph. List
// types toggle the list wrapper instead.
func (s *Session) SetBlockType(t doc.BlockType, props BlockProps) {
	if t.IsList() {
		s.ToggleList(t)
		return
	}
	if !t.Valid() || t == doc.ListItem {
		s.logger.Debug("block type ignored", zap.String("type", string(t)))
		return
	}
	target := t
	if s.BlockActive(t) && props.Color == "" {
		target = doc.Paragraph
	}
	first, last := s.touched()
	anchor, focus := s.locations()
	s.checkpoint(opOther)
	s.unwrap(first, last)
	s.eachTouched(first, last, func(p doc.Path, _ *doc.Block) bool {
		np := doc.Props{Type: &target}
		if target == doc.Callout && props.Color != "" {
			np.Color = &props.Color
		}
		if err := s.doc.SetNodeProps(p, np); err != nil {
			s.logger.Warn("set block type failed", zap.Error(err))
		}
		return true
	})
	s.relocate(anchor, focus)
	s.changed()
}

// ToggleList wraps the touched blocks in a list of type t, or unwraps them
// when they already are. Blocks in a list of another type switch to t.
func (s *Session) ToggleList(t doc.BlockType) {
	if !t.IsList() {
		return
	}
	if s.BlockActive(t) {
		s.UnwrapList()
		return
	}
	s.WrapList(t)
}

// WrapList puts the touched blocks into one list of type t. Any lists they
// are already in are unwrapped first.
func (s *Session) WrapList(t doc.BlockType) {
	if !t.IsList() {
		return
	}
	s.checkpoint(opOther)
	s.wrapList(t)
	s.changed()
}

func (s *Session) wrapList(t doc.BlockType) {
	first, last := s.touched()
	anchor, focus := s.locations()
	s.unwrap(first, last)
	blocks := s.doc.TextBlocks()
	from, to := blocks[first][0], blocks[last][0]
	if err := s.doc.WrapList(from, to-from+1, t); err != nil {
		s.logger.Warn("wrap list failed", zap.Error(err))
	}
	s.relocate(anchor, focus)
}

// UnwrapList lifts the touched list items out of their lists as paragraphs.
func (s *Session) UnwrapList() {
	first, last := s.touched()
	inList := false
	s.eachTouched(first, last, func(p doc.Path, _ *doc.Block) bool {
		_, inList = s.doc.ListOf(p)
		return !inList
	})
	if !inList {
		return
	}
	anchor, focus := s.locations()
	s.checkpoint(opOther)
	s.unwrap(first, last)
	s.relocate(anchor, focus)
	s.changed()
}

// unwrap lifts every list item between the ordinals out of its list. Text
// block ordinals are unchanged by unwrapping.
func (s *Session) unwrap(first, last int) {
	s.eachTouched(first, last, func(p doc.Path, _ *doc.Block) bool {
		if _, ok := s.doc.ListOf(p); ok {
			if _, err := s.doc.UnwrapListItem(p); err != nil {
				s.logger.Warn("unwrap list item failed", zap.Error(err))
			}
		}
		return true
	})
}

// ResetBlock turns the block at the caret into a plain paragraph, lifting it
// out of a list if needed.
func (s *Session) ResetBlock() {
	b, p, ok := s.doc.BlockAt(s.sel.Focus.Path)
	if !ok {
		return
	}
	if _, inList := s.doc.ListOf(p); inList {
		s.UnwrapList()
		return
	}
	if b.Type == doc.Paragraph {
		return
	}
	anchor, focus := s.locations()
	s.checkpoint(opOther)
	para := doc.Paragraph
	if err := s.doc.SetNodeProps(p, doc.Props{Type: &para}); err != nil {
		s.logger.Warn("reset block failed", zap.Error(err))
		return
	}
	s.relocate(anchor, focus)
	s.changed()
}
