// Package dice parses and rolls dice notation such as "2d6+1d4-3" or "1d20a".
package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxCount bounds the number of dice in one term.
	MaxCount = 100
	// MaxSides bounds the number of sides of a die.
	MaxSides = 1000
	// MaxDice bounds the number of dice across an expression.
	MaxDice = 500
)

// ErrInvalidDiceTerm indicates a term that is not valid dice notation.
var ErrInvalidDiceTerm = errors.New("invalid dice term")

// Mode selects advantage or disadvantage for a dice term.
type Mode int

const (
	ModeNone Mode = iota
	ModeAdvantage
	ModeDisadvantage
)

func (m Mode) String() string {
	switch m {
	case ModeAdvantage:
		return "a"
	case ModeDisadvantage:
		return "d"
	default:
		return ""
	}
}

// Term is one signed piece of an expression: either dice or a flat shift.
type Term struct {
	Text  string
	Count int
	Sides int
	Mode  Mode
	// Shift is the signed value of a pure shift term; zero for dice terms.
	Shift int
}

// IsDice reports whether the term rolls dice.
func (t Term) IsDice() bool {
	return t.Sides > 0
}

// Expression is a parsed dice expression.
type Expression struct {
	Text  string
	Terms []Term
}

// DiceCount returns the number of dice the expression rolls.
func (e Expression) DiceCount() int {
	n := 0
	for _, t := range e.Terms {
		n += t.Count
	}
	return n
}

// HasDice reports whether at least one term rolls dice.
func (e Expression) HasDice() bool {
	for _, t := range e.Terms {
		if t.IsDice() {
			return true
		}
	}
	return false
}

// Parse parses s strictly: every term must be valid and at least one term
// must roll dice. A false result is a plain no-match.
func Parse(s string) (Expression, bool) {
	e, errs := ParseLenient(s)
	if len(errs) > 0 || !e.HasDice() {
		return Expression{}, false
	}
	return e, true
}

// ParseLenient parses s, skipping invalid terms. The returned errors wrap
// ErrInvalidDiceTerm, one per skipped term.
func ParseLenient(s string) (Expression, []error) {
	text := strings.Join(strings.Fields(s), "")
	e := Expression{Text: text}
	var errs []error
	dice := 0
	for _, raw := range splitTerms(text) {
		t, err := parseTerm(raw)
		if err == nil && dice+t.Count > MaxDice {
			err = fmt.Errorf("%w: %q exceeds %d dice", ErrInvalidDiceTerm, raw, MaxDice)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		dice += t.Count
		e.Terms = append(e.Terms, t)
	}
	return e, errs
}

// splitTerms splits before every '+' or '-' that is not the first character.
func splitTerms(s string) []string {
	var terms []string
	start := 0
	for i := 1; i < len(s); i++ {
		if s[i] == '+' || s[i] == '-' {
			terms = append(terms, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		terms = append(terms, s[start:])
	}
	return terms
}

// parseTerm parses "[+-][count]d<sides>[a|d]" or "[+-]<int>".
func parseTerm(raw string) (Term, error) {
	invalid := func(reason string) (Term, error) {
		return Term{}, fmt.Errorf("%w: %q %s", ErrInvalidDiceTerm, raw, reason)
	}
	body := raw
	sign := 1
	signed := false
	if body != "" && (body[0] == '+' || body[0] == '-') {
		signed = true
		if body[0] == '-' {
			sign = -1
		}
		body = body[1:]
	}
	if body == "" {
		return invalid("is empty")
	}

	d := strings.IndexAny(body, "dD")
	if d < 0 {
		if !signed {
			return invalid("needs a sign to be a shift")
		}
		n, ok := digits(body)
		if !ok {
			return invalid("is not a number")
		}
		return Term{Text: raw, Shift: sign * n}, nil
	}

	count := 1
	if d > 0 {
		n, ok := digits(body[:d])
		if !ok {
			return invalid("has a bad count")
		}
		count = n
	}
	rest := body[d+1:]
	mode := ModeNone
	if strings.HasSuffix(rest, "a") {
		mode, rest = ModeAdvantage, rest[:len(rest)-1]
	} else if strings.HasSuffix(rest, "d") {
		mode, rest = ModeDisadvantage, rest[:len(rest)-1]
	}
	sides, ok := digits(rest)
	if !ok {
		return invalid("has bad sides")
	}
	switch {
	case count <= 0:
		return invalid("rolls no dice")
	case sides <= 0:
		return invalid("has no sides")
	case count > MaxCount:
		return invalid(fmt.Sprintf("rolls more than %d dice", MaxCount))
	case sides > MaxSides:
		return invalid(fmt.Sprintf("has more than %d sides", MaxSides))
	}
	return Term{Text: raw, Count: count, Sides: sides, Mode: mode}, nil
}

// digits parses a non-empty run of ASCII digits.
func digits(s string) (int, bool) {
	if s == "" || len(s) > 9 {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// Unwrap strips one pair of surrounding parentheses, returning the inner
// text and whether each side was present.
func Unwrap(s string) (inner string, open, close bool) {
	inner = s
	if strings.HasPrefix(inner, "(") {
		inner, open = inner[1:], true
	}
	if strings.HasSuffix(inner, ")") {
		inner, close = inner[:len(inner)-1], true
	}
	return inner, open, close
}
