package editor

import (
	"strings"

	"go.uber.org/zap"

	"github.com/open-cli-collective/lore-cli/pkg/doc"
)

// InsertText types text at the selection, replacing any selected content.
// Newlines split the block.
func (s *Session) InsertText(text string) {
	if text == "" {
		return
	}
	s.checkpoint(opTyping)
	if !s.sel.Collapsed() {
		s.deleteSelection()
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			if !s.split() {
				break
			}
		}
		if line != "" {
			s.insertRun(line)
		}
	}
	s.changed()
}

// insertRun inserts one line at the caret, honouring pending marks.
func (s *Session) insertRun(line string) {
	caret := s.sel.Focus
	t, ok := s.doc.Text(caret.Path)
	if !ok {
		s.logger.Warn("insert at stale caret", zap.Any("caret", caret))
		return
	}
	var (
		p   doc.Point
		err error
	)
	if s.hasPending && !s.pending.Equal(t.Marks) {
		p, err = s.doc.InsertInlineAt(caret, &doc.Text{Text: line, Marks: s.pending.Clone()})
	} else {
		p, err = s.doc.InsertTextAt(caret, line)
	}
	if err != nil {
		s.logger.Warn("insert text failed", zap.Error(err))
		return
	}
	s.sel = doc.Caret(p)
	s.clearPending()
}

// InsertInline places an entity at the selection, replacing any selected
// content, and moves the caret after it.
func (s *Session) InsertInline(e doc.Entity) error {
	s.checkpoint(opOther)
	if !s.sel.Collapsed() {
		s.deleteSelection()
	}
	p, err := s.doc.InsertInlineAt(s.sel.Focus, e)
	if err != nil {
		return err
	}
	s.sel = doc.Caret(p)
	s.clearPending()
	s.changed()
	return nil
}

// DeleteBackward deletes the selection, or the unit before the caret. At the
// start of a block it joins the block onto the previous one.
func (s *Session) DeleteBackward() {
	if !s.sel.Collapsed() {
		s.checkpoint(opDeleting)
		s.deleteSelection()
		s.changed()
		return
	}
	loc, ok := s.doc.Locate(s.sel.Focus)
	if !ok {
		s.SelectRange(s.sel)
		return
	}
	blocks := s.doc.TextBlocks()
	if loc.Offset == 0 {
		if loc.Block == 0 {
			return
		}
		prevPath := blocks[loc.Block-1]
		prev, _ := s.doc.Block(prevPath)
		w := blockWidth(prev)
		s.checkpoint(opDeleting)
		if err := s.doc.MergeBlocks(prevPath, blocks[loc.Block]); err != nil {
			s.logger.Warn("merge blocks failed", zap.Error(err))
			return
		}
		s.sel = doc.Caret(s.doc.Resolve(doc.Location{Block: loc.Block - 1, Offset: w}, doc.Backward))
		s.changed()
		return
	}
	b, _ := s.doc.Block(blocks[loc.Block])
	u, ok := unitBefore(blockUnits(b), loc.Offset)
	if !ok {
		return
	}
	start := s.doc.Resolve(doc.Location{Block: loc.Block, Offset: u.off}, doc.Forward)
	s.checkpoint(opDeleting)
	p, err := s.doc.DeleteRange(start, s.sel.Focus)
	if err != nil {
		s.logger.Warn("delete failed", zap.Error(err))
		return
	}
	s.sel = doc.Caret(p)
	s.changed()
}

// DeleteRange removes the content of r and leaves the caret where it was.
func (s *Session) DeleteRange(r doc.Range) {
	s.SelectRange(r)
	if s.sel.Collapsed() {
		return
	}
	s.checkpoint(opOther)
	s.deleteSelection()
	s.changed()
}

// SplitBlock deletes the selection and splits the block at the caret.
func (s *Session) SplitBlock() {
	s.checkpoint(opOther)
	if !s.sel.Collapsed() {
		s.deleteSelection()
	}
	s.split()
	s.changed()
}

func (s *Session) split() bool {
	p, err := s.doc.SplitBlock(s.sel.Focus)
	if err != nil {
		s.logger.Warn("split block failed", zap.Error(err))
		return false
	}
	s.sel = doc.Caret(p)
	s.clearPending()
	return true
}

func (s *Session) deleteSelection() {
	start, end := s.sel.Edges()
	p, err := s.doc.DeleteRange(start, end)
	if err != nil {
		s.logger.Warn("delete selection failed", zap.Error(err))
		p = s.doc.NormalizePoint(start)
	}
	s.sel = doc.Caret(p)
}

// marksAt returns the marks the caret would type with.
func (s *Session) marksAt() doc.Marks {
	if s.hasPending {
		return s.pending
	}
	if t, ok := s.doc.Text(s.sel.Focus.Path); ok {
		return t.Marks
	}
	return nil
}

// MarkActive reports whether m applies to the whole selection, or to the
// next typed text when the selection is collapsed.
func (s *Session) MarkActive(m doc.Mark) bool {
	if s.sel.Collapsed() {
		return s.marksAt().Has(m)
	}
	start, end := s.sel.Edges()
	return s.doc.MarkActive(start, end, m)
}

// ToggleMark removes m from the selection when every selected run carries
// it and adds it otherwise. On a collapsed selection it toggles the marks
// the next typed text will carry.
func (s *Session) ToggleMark(m doc.Mark) {
	if !m.Valid() {
		s.logger.Debug("unknown mark ignored", zap.String("mark", string(m)))
		return
	}
	if s.sel.Collapsed() {
		cur := s.marksAt()
		s.pending = cur.With(m, !cur.Has(m))
		s.hasPending = true
		return
	}
	start, end := s.sel.Edges()
	on := !s.doc.MarkActive(start, end, m)
	anchor, focus := s.locations()
	s.checkpoint(opOther)
	if err := s.doc.SetMarks(start, end, m, on); err != nil {
		s.logger.Warn("set marks failed", zap.Error(err))
		return
	}
	s.relocate(anchor, focus)
	s.changed()
}
