package editor

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/open-cli-collective/lore-cli/pkg/doc"
	"github.com/open-cli-collective/lore-cli/pkg/recognize"
)

// Activate performs the click action of the entity at p. It reports whether
// p held an entity with an action.
func (s *Session) Activate(p doc.Path) bool {
	n, ok := s.doc.Node(p)
	if !ok {
		return false
	}
	switch e := n.(type) {
	case *doc.Link:
		return s.open(e.URL())
	case *doc.Image:
		return s.open(e.Src)
	case *doc.Roller:
		if s.hooks.OnRoll == nil {
			return false
		}
		s.hooks.OnRoll(e.Expression)
		return true
	case *doc.PageLink:
		if s.hooks.OnNavigatePage == nil {
			return false
		}
		s.hooks.OnNavigatePage(e.PageID)
		return true
	case *doc.RecordLink:
		if s.hooks.OnOpenRecord == nil {
			return false
		}
		s.hooks.OnOpenRecord(e.RecordID, e.TableID)
		return true
	case *doc.Checkbox:
		return s.ToggleCheckbox(p) == nil
	}
	return false
}

func (s *Session) open(url string) bool {
	if s.hooks.OnOpenURL == nil || url == "" {
		return false
	}
	if err := s.hooks.OnOpenURL(url); err != nil {
		s.logger.Warn("open url failed", zap.String("url", url), zap.Error(err))
		return false
	}
	return true
}

// ToggleCheckbox flips the checkbox at p.
func (s *Session) ToggleCheckbox(p doc.Path) error {
	n, ok := s.doc.Node(p)
	if !ok {
		return fmt.Errorf("%w: %v", doc.ErrInvalidPath, p)
	}
	cb, ok := n.(*doc.Checkbox)
	if !ok {
		return fmt.Errorf("%w: %s is not a checkbox", doc.ErrInvalidNode, n.Kind())
	}
	checked := !cb.Checked
	s.checkpoint(opOther)
	if err := s.doc.SetNodeProps(p, doc.Props{Checked: &checked}); err != nil {
		return err
	}
	s.changed()
	return nil
}

// EditFormula replaces the expression of the formula at p. Blank text
// restores the placeholder.
func (s *Session) EditFormula(p doc.Path, text string) error {
	n, ok := s.doc.Node(p)
	if !ok {
		return fmt.Errorf("%w: %v", doc.ErrInvalidPath, p)
	}
	if _, ok := n.(*doc.Formula); !ok {
		return fmt.Errorf("%w: %s is not a formula", doc.ErrInvalidNode, n.Kind())
	}
	if strings.TrimSpace(text) == "" {
		text = doc.FormulaPlaceholder
	}
	s.checkpoint(opOther)
	if err := s.doc.SetNodeProps(p, doc.Props{Expression: &text}); err != nil {
		return err
	}
	s.changed()
	return nil
}

// CompleteWord runs the word recognizers on the word before the caret and
// applies the match: entities replace the word, block shortcuts remove it
// and wrap the block in a list.
func (s *Session) CompleteWord() (recognize.WordMatch, bool) {
	if !s.sel.Collapsed() {
		return recognize.WordMatch{}, false
	}
	m, r, ok := s.engine.CompleteWord(s.doc, s.sel.Focus)
	if !ok {
		return recognize.WordMatch{}, false
	}
	s.checkpoint(opOther)
	start, end := r.Edges()
	p, err := s.doc.DeleteRange(start, end)
	if err != nil {
		s.logger.Warn("complete word failed", zap.Error(err))
		return recognize.WordMatch{}, false
	}
	s.sel = doc.Caret(p)
	s.clearPending()
	if m.Entity == nil {
		s.wrapList(m.BlockType)
		s.changed()
		return m, true
	}
	s.typeRaw(m.Prefix)
	if p, err = s.doc.InsertInlineAt(s.sel.Focus, m.Entity); err != nil {
		s.logger.Warn("complete word failed", zap.Error(err))
		return recognize.WordMatch{}, false
	}
	s.sel = doc.Caret(p)
	s.typeRaw(m.Suffix)
	s.logger.Debug("word completed", zap.String("family", string(m.Family)))
	s.changed()
	return m, true
}

// typeRaw inserts plain text at the caret without touching history.
func (s *Session) typeRaw(text string) {
	if text == "" {
		return
	}
	p, err := s.doc.InsertTextAt(s.sel.Focus, text)
	if err != nil {
		s.logger.Warn("insert text failed", zap.Error(err))
		return
	}
	s.sel = doc.Caret(p)
}
