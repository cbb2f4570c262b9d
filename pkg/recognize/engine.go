package recognize

import (
	"go.uber.org/zap"

	"github.com/open-cli-collective/lore-cli/pkg/doc"
)

// State is the recognizer state.
type State int

const (
	Idle State = iota
	Scanning
	Matched
	Committed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Matched:
		return "matched"
	case Committed:
		return "committed"
	default:
		return "unknown"
	}
}

// Engine tracks the popup state for one editing session.
type Engine struct {
	registry *Registry
	logger   *zap.Logger

	state      State
	popup      *PopupRecognizer
	term       string
	candidates []Candidate
	index      int
	trigger    doc.Range
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine returns an idle engine over registry.
func NewEngine(registry *Registry, opts ...EngineOption) *Engine {
	e := &Engine{registry: registry, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's registry.
func (e *Engine) Registry() *Registry { return e.registry }

// State returns the current state.
func (e *Engine) State() State { return e.state }

// Family returns the family of the active popup, or "".
func (e *Engine) Family() Family {
	if e.popup == nil {
		return ""
	}
	return e.popup.Family
}

// Term returns the typed search term of the active popup.
func (e *Engine) Term() string { return e.term }

// Candidates returns the ranked options while Matched.
func (e *Engine) Candidates() []Candidate { return e.candidates }

// Index returns the highlighted candidate.
func (e *Engine) Index() int { return e.index }

// Trigger returns the range of the text that opened the popup.
func (e *Engine) Trigger() doc.Range { return e.trigger }

// Scan re-examines the text before the cursor. It only ever reads the
// trailing word, at most MaxWindow bytes.
func (e *Engine) Scan(d *doc.Document, sel doc.Range) State {
	if !sel.Collapsed() {
		e.reset()
		return e.state
	}
	word, start, ok := d.TrailingWord(sel.Focus, MaxWindow)
	if !ok || word == "" {
		e.reset()
		return e.state
	}
	for _, p := range e.registry.popups {
		term, ok := p.match(word)
		if !ok {
			continue
		}
		e.state = Scanning
		e.popup = p
		e.term = term
		e.candidates = p.rank(term, p.Search(term))
		if len(e.candidates) == 0 {
			e.reset()
			return e.state
		}
		e.index = 0
		e.trigger = doc.Range{Anchor: start, Focus: sel.Focus}
		e.state = Matched
		return e.state
	}
	e.reset()
	return e.state
}

// Move shifts the highlighted candidate by delta, clamped to the list.
func (e *Engine) Move(delta int) {
	if e.state != Matched {
		return
	}
	e.index += delta
	if e.index < 0 {
		e.index = 0
	}
	if e.index > len(e.candidates)-1 {
		e.index = len(e.candidates) - 1
	}
}

// Select highlights candidate i.
func (e *Engine) Select(i int) {
	if e.state == Matched && i >= 0 && i < len(e.candidates) {
		e.index = i
	}
}

// Commit replaces the trigger text with the highlighted candidate.
func (e *Engine) Commit(s Splicer) bool {
	if e.state != Matched {
		return false
	}
	c := e.candidates[e.index]
	family, term, trigger := e.popup.Family, e.term, e.trigger
	s.SelectRange(trigger)
	if err := s.InsertInline(c.Entity); err != nil {
		e.logger.Warn("recognizer commit failed", zap.String("family", string(family)), zap.Error(err))
		e.reset()
		return false
	}
	e.logger.Debug("recognizer commit",
		zap.String("family", string(family)),
		zap.String("term", term),
		zap.String("key", c.Key))
	e.reset()
	e.state = Committed
	return true
}

// Blur returns the engine to Idle.
func (e *Engine) Blur() {
	e.reset()
}

// CompleteWord recognizes the word ending at caret. The returned range
// covers the word.
func (e *Engine) CompleteWord(d *doc.Document, caret doc.Point) (WordMatch, doc.Range, bool) {
	word, start, ok := d.TrailingWord(caret, MaxWindow)
	if !ok || word == "" {
		return WordMatch{}, doc.Range{}, false
	}
	ctx := WordContext{AtBlockStart: d.AtBlockStart(start)}
	if b, _, ok := d.BlockAt(caret.Path); ok {
		ctx.BlockType = b.Type
	}
	m, ok := e.registry.CompleteWord(word, ctx)
	if !ok {
		return WordMatch{}, doc.Range{}, false
	}
	return m, doc.Range{Anchor: start, Focus: caret}, true
}

func (e *Engine) reset() {
	e.state = Idle
	e.popup = nil
	e.term = ""
	e.candidates = nil
	e.index = 0
	e.trigger = doc.Range{}
}
