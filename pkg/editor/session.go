// Package editor implements editing operations over a document. A Session
// owns one document, its selection and the recognizer state for it. Sessions
// share nothing, so several may be open at once.
package editor

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/open-cli-collective/lore-cli/pkg/doc"
	"github.com/open-cli-collective/lore-cli/pkg/recognize"
)

// Hooks are the callbacks a session makes to its host. Nil hooks are skipped.
type Hooks struct {
	// OnNext is called for Shift+Enter: move focus to the next region.
	OnNext func()
	// OnDeleteRegion is called when Backspace is pressed in an empty document.
	OnDeleteRegion func()
	// OnOpenURL opens a link or image in the host's browser.
	OnOpenURL func(url string) error
	// OnRoll sends a roller expression to the roll bar.
	OnRoll func(expression string)
	// OnNavigatePage is called when a page link is activated.
	OnNavigatePage func(pageID string)
	// OnOpenRecord is called when a record link is activated.
	OnOpenRecord func(recordID, tableID string)
	// OnChange is called after every mutation of the document.
	OnChange func(d *doc.Document)
}

type opKind int

const (
	opNone opKind = iota
	opTyping
	opDeleting
	opOther
)

// Session is an editing session over one document.
type Session struct {
	id     string
	doc    *doc.Document
	sel    doc.Range
	hooks  Hooks
	logger *zap.Logger

	registry *recognize.Registry
	engine   *recognize.Engine

	// pending marks apply to the next text typed at a collapsed caret.
	pending    doc.Marks
	hasPending bool

	historyDepth int
	lastOp       opKind
}

// Option configures a Session.
type Option func(*Session)

// WithRegistry sets the recognizers used by the session.
func WithRegistry(r *recognize.Registry) Option {
	return func(s *Session) {
		s.registry = r
	}
}

// WithHooks sets the host callbacks.
func WithHooks(h Hooks) Option {
	return func(s *Session) {
		s.hooks = h
	}
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHistory enables undo/redo with the given depth.
func WithHistory(depth int) Option {
	return func(s *Session) {
		if depth <= 0 {
			depth = doc.DefaultHistoryDepth
		}
		s.historyDepth = depth
	}
}

// WithID sets the session identifier. A random one is used otherwise.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// New opens a session on d with the caret at the start. A nil d opens an
// empty document.
func New(d *doc.Document, opts ...Option) *Session {
	if d == nil {
		d = doc.New()
	}
	s := &Session{
		id:     uuid.NewString(),
		doc:    d,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = recognize.DefaultRegistry(nil, nil)
	}
	s.logger = s.logger.With(zap.String("session", s.id))
	s.engine = recognize.NewEngine(s.registry, recognize.WithLogger(s.logger))
	if s.historyDepth > 0 && !d.HasHistory() {
		d.EnableHistory(s.historyDepth)
	}
	s.sel = doc.Caret(d.Start())
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Document returns the document being edited.
func (s *Session) Document() *doc.Document { return s.doc }

// Selection returns the current selection.
func (s *Session) Selection() doc.Range { return s.sel }

// Engine returns the recognizer engine of this session.
func (s *Session) Engine() *recognize.Engine { return s.engine }

// PendingMarks returns the marks that the next typed text will carry, and
// whether they differ from the marks at the caret.
func (s *Session) PendingMarks() (doc.Marks, bool) {
	return s.pending, s.hasPending
}

// SelectRange moves the selection. Points that no longer address a text
// position are moved to the nearest one.
func (s *Session) SelectRange(r doc.Range) {
	a := s.doc.NormalizePoint(r.Anchor)
	f := s.doc.NormalizePoint(r.Focus)
	if !a.Equal(r.Anchor) || !f.Equal(r.Focus) {
		s.logger.Debug("stale selection normalized",
			zap.Any("anchor", r.Anchor), zap.Any("focus", r.Focus))
	}
	s.setSelection(doc.Range{Anchor: a, Focus: f})
}

// Edge names one end of the selection.
type Edge int

const (
	EdgeStart Edge = iota
	EdgeEnd
	EdgeAnchor
	EdgeFocus
)

// Collapse collapses the selection onto one of its edges.
func (s *Session) Collapse(edge Edge) {
	start, end := s.sel.Edges()
	switch edge {
	case EdgeStart:
		s.setSelection(doc.Caret(start))
	case EdgeEnd:
		s.setSelection(doc.Caret(end))
	case EdgeAnchor:
		s.setSelection(doc.Caret(s.sel.Anchor))
	case EdgeFocus:
		s.setSelection(doc.Caret(s.sel.Focus))
	}
}

// Blur drops recognizer state, e.g. when the editor loses focus.
func (s *Session) Blur() {
	s.engine.Blur()
}

// Commit inserts the highlighted popup candidate.
func (s *Session) Commit() bool {
	return s.engine.Commit(s)
}

// Next asks the host to move to the next region.
func (s *Session) Next() {
	if s.hooks.OnNext != nil {
		s.hooks.OnNext()
	}
}

// DeleteRegion asks the host to delete the region holding this document.
func (s *Session) DeleteRegion() {
	if s.hooks.OnDeleteRegion != nil {
		s.hooks.OnDeleteRegion()
	}
}

// Undo restores the state before the last change. It is a no-op when the
// document has no history.
func (s *Session) Undo() bool {
	r, ok := s.doc.Undo(s.sel)
	if !ok {
		return false
	}
	s.restore(r)
	return true
}

// Redo reapplies the last undone change.
func (s *Session) Redo() bool {
	r, ok := s.doc.Redo(s.sel)
	if !ok {
		return false
	}
	s.restore(r)
	return true
}

func (s *Session) restore(r doc.Range) {
	s.lastOp = opNone
	s.sel = doc.Range{Anchor: s.doc.NormalizePoint(r.Anchor), Focus: s.doc.NormalizePoint(r.Focus)}
	s.clearPending()
	s.changed()
}

func (s *Session) setSelection(r doc.Range) {
	s.sel = r
	s.lastOp = opNone
	s.clearPending()
	s.rescan()
}

func (s *Session) clearPending() {
	s.pending = nil
	s.hasPending = false
}

// checkpoint records undo state before a mutation. Consecutive edits of the
// same kind share one checkpoint.
func (s *Session) checkpoint(kind opKind) {
	if kind != opOther && kind == s.lastOp {
		return
	}
	s.doc.Checkpoint(s.sel)
	s.lastOp = kind
}

// changed notifies the host and rescans for triggers.
func (s *Session) changed() {
	if s.hooks.OnChange != nil {
		s.hooks.OnChange(s.doc)
	}
	s.rescan()
}

func (s *Session) rescan() {
	s.engine.Scan(s.doc, s.sel)
}

// locations returns the selection as locations, so it can be restored after
// structural edits.
func (s *Session) locations() (anchor, focus doc.Location) {
	anchor, _ = s.doc.Locate(s.sel.Anchor)
	focus, _ = s.doc.Locate(s.sel.Focus)
	return anchor, focus
}

// relocate restores a selection saved by locations. The earlier edge leans
// forward and the later edge backward so a marked span stays selected.
func (s *Session) relocate(anchor, focus doc.Location) {
	aAff, fAff := doc.Forward, doc.Backward
	if before(focus, anchor) {
		aAff, fAff = doc.Backward, doc.Forward
	}
	if anchor == focus {
		aAff, fAff = doc.Backward, doc.Backward
	}
	s.sel = doc.Range{
		Anchor: s.doc.Resolve(anchor, aAff),
		Focus:  s.doc.Resolve(focus, fAff),
	}
}

func before(a, b doc.Location) bool {
	return a.Block < b.Block || (a.Block == b.Block && a.Offset < b.Offset)
}
