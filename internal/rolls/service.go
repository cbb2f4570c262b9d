package rolls

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/open-cli-collective/lore-cli/pkg/dice"
)

// DefaultRoll is rolled when the roll bar is submitted empty.
const DefaultRoll = "1d20"

// ErrNoSuchRoll is returned when re-rolling an index outside the history.
var ErrNoSuchRoll = errors.New("no such roll")

// Sink persists records as they are rolled.
type Sink interface {
	AppendRoll(ctx context.Context, rec dice.Record) error
}

// Service rolls expressions and records them in a History.
type Service struct {
	roller      *dice.Roller
	history     *History
	sink        Sink
	defaultRoll string
	logger      *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithSink persists every roll to sink.
func WithSink(sink Sink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithDefaultRoll overrides the expression rolled for empty input.
func WithDefaultRoll(expr string) Option {
	return func(s *Service) {
		if strings.TrimSpace(expr) != "" {
			s.defaultRoll = expr
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService returns a service rolling with roller into history.
func NewService(roller *dice.Roller, history *History, opts ...Option) *Service {
	if history == nil {
		history = NewHistory()
	}
	s := &Service{
		roller:      roller,
		history:     history,
		defaultRoll: DefaultRoll,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// History returns the service history.
func (s *Service) History() *History { return s.history }

// Roll rolls text and appends the record. Invalid terms are skipped; when
// nothing in text rolls dice the default roll is used instead.
func (s *Service) Roll(ctx context.Context, text string) (dice.Record, error) {
	if strings.TrimSpace(text) == "" {
		text = s.defaultRoll
	}
	rec, errs, ok := s.roller.RollText(text)
	for _, err := range errs {
		s.logger.Debug("skipped dice term", zap.String("text", text), zap.Error(err))
	}
	if !ok {
		s.logger.Warn("nothing to roll, using default", zap.String("text", text), zap.String("default", s.defaultRoll))
		rec, _, ok = s.roller.RollText(s.defaultRoll)
		if !ok {
			return dice.Record{}, fmt.Errorf("%w: %q", dice.ErrInvalidDiceTerm, s.defaultRoll)
		}
	}
	if err := s.record(ctx, rec); err != nil {
		return dice.Record{}, err
	}
	return rec, nil
}

// Reroll rolls the text of the i-th newest record again as a new record.
func (s *Service) Reroll(ctx context.Context, i int) (dice.Record, error) {
	r := NewRecall(s.history)
	text, ok := "", i >= 0
	for n := 0; ok && n <= i; n++ {
		text, ok = r.Up()
	}
	if !ok {
		return dice.Record{}, fmt.Errorf("%w: %d", ErrNoSuchRoll, i)
	}
	return s.Roll(ctx, text)
}

func (s *Service) record(ctx context.Context, rec dice.Record) error {
	if s.sink != nil {
		if err := s.sink.AppendRoll(ctx, rec); err != nil {
			return fmt.Errorf("save roll: %w", err)
		}
	}
	s.history.Append(rec)
	return nil
}
