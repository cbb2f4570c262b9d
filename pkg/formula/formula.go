// Package formula evaluates the small expression language used by formula
// entities. It never executes host code: expressions are parsed with a fixed
// grammar and evaluated over numbers, strings and named values.
package formula

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	// ErrSyntax indicates the expression does not parse.
	ErrSyntax = errors.New("syntax error")
	// ErrUnknownName indicates an identifier the resolver does not know.
	ErrUnknownName = errors.New("unknown name")
	// ErrUnknownFunction indicates a call to an unsupported function.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrType indicates an operator applied to the wrong kind of value.
	ErrType = errors.New("type mismatch")
	// ErrDivisionByZero indicates division or modulo by zero.
	ErrDivisionByZero = errors.New("division by zero")
)

// Value is a formula result: a number or a string.
type Value struct {
	Num      float64
	Str      string
	IsString bool
}

// Number returns a numeric value.
func Number(f float64) Value { return Value{Num: f} }

// String returns a string value.
func String(s string) Value { return Value{Str: s, IsString: true} }

// Text formats the value for display. Whole numbers print without decimals.
func (v Value) Text() string {
	if v.IsString {
		return v.Str
	}
	if v.Num == math.Trunc(v.Num) && math.Abs(v.Num) < 1e15 {
		return strconv.FormatInt(int64(v.Num), 10)
	}
	return strconv.FormatFloat(v.Num, 'g', -1, 64)
}

// Resolver supplies values for identifiers.
type Resolver interface {
	Resolve(name string) (Value, bool)
}

// Vars is a map-backed Resolver.
type Vars map[string]Value

// Resolve implements Resolver.
func (v Vars) Resolve(name string) (Value, bool) {
	val, ok := v[name]
	return val, ok
}

//nolint:govet // participle grammar tags are not standard struct tags
type expression struct {
	Left  *term     `@@`
	Right []*opTerm `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type opTerm struct {
	Op   string `@("+" | "-")`
	Term *term  `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type term struct {
	Left  *unary     `@@`
	Right []*opUnary `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type opUnary struct {
	Op    string `@("*" | "/" | "%")`
	Unary *unary `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type unary struct {
	Neg     bool     `@"-"?`
	Primary *primary `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type primary struct {
	Number *float64    `  @Number`
	String *string     `| @String`
	Call   *call       `| @@`
	Ident  *string     `| @Ident`
	Sub    *expression `| "(" @@ ")"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type call struct {
	Name string        `@Ident "("`
	Args []*expression `( @@ ( "," @@ )* )? ")"`
}

var formulaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.]*`},
	{Name: "Punct", Pattern: `[-+*/%(),]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var formulaParser = participle.MustBuild[expression](
	participle.Lexer(formulaLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// Evaluator evaluates formula text against a Resolver.
type Evaluator struct {
	Resolver Resolver
}

// Evaluate parses and evaluates text.
func (e *Evaluator) Evaluate(text string) (Value, error) {
	parsed, err := formulaParser.ParseString("", text)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return e.expression(parsed)
}

// Display returns the value text, or "Invalid formula: <text>" on error.
func (e *Evaluator) Display(text string) string {
	v, err := e.Evaluate(text)
	if err != nil {
		return "Invalid formula: " + text
	}
	return v.Text()
}

// Evaluate evaluates text with no named values.
func Evaluate(text string) (Value, error) {
	return (&Evaluator{}).Evaluate(text)
}

func (e *Evaluator) expression(x *expression) (Value, error) {
	acc, err := e.term(x.Left)
	if err != nil {
		return Value{}, err
	}
	for _, r := range x.Right {
		rhs, err := e.term(r.Term)
		if err != nil {
			return Value{}, err
		}
		switch {
		case r.Op == "+" && (acc.IsString || rhs.IsString):
			acc = String(acc.Text() + rhs.Text())
		case acc.IsString || rhs.IsString:
			return Value{}, fmt.Errorf("%w: %s on string", ErrType, r.Op)
		case r.Op == "+":
			acc = Number(acc.Num + rhs.Num)
		default:
			acc = Number(acc.Num - rhs.Num)
		}
	}
	return acc, nil
}

func (e *Evaluator) term(x *term) (Value, error) {
	acc, err := e.unary(x.Left)
	if err != nil {
		return Value{}, err
	}
	for _, r := range x.Right {
		rhs, err := e.unary(r.Unary)
		if err != nil {
			return Value{}, err
		}
		if acc.IsString || rhs.IsString {
			return Value{}, fmt.Errorf("%w: %s on string", ErrType, r.Op)
		}
		switch r.Op {
		case "*":
			acc = Number(acc.Num * rhs.Num)
		case "/":
			if rhs.Num == 0 {
				return Value{}, ErrDivisionByZero
			}
			acc = Number(acc.Num / rhs.Num)
		case "%":
			if rhs.Num == 0 {
				return Value{}, ErrDivisionByZero
			}
			acc = Number(math.Mod(acc.Num, rhs.Num))
		}
	}
	return acc, nil
}

func (e *Evaluator) unary(x *unary) (Value, error) {
	v, err := e.primary(x.Primary)
	if err != nil || !x.Neg {
		return v, err
	}
	if v.IsString {
		return Value{}, fmt.Errorf("%w: negated string", ErrType)
	}
	return Number(-v.Num), nil
}

func (e *Evaluator) primary(x *primary) (Value, error) {
	switch {
	case x.Number != nil:
		return Number(*x.Number), nil
	case x.String != nil:
		return String(*x.String), nil
	case x.Call != nil:
		return e.call(x.Call)
	case x.Ident != nil:
		if e.Resolver != nil {
			if v, ok := e.Resolver.Resolve(*x.Ident); ok {
				return v, nil
			}
		}
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownName, *x.Ident)
	case x.Sub != nil:
		return e.expression(x.Sub)
	}
	return Value{}, ErrSyntax
}
