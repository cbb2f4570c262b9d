package formula

import (
	"fmt"
	"math"
)

type function struct {
	minArgs int
	maxArgs int // -1 for variadic
	apply   func(args []float64) float64
}

// functions is the registry of callable functions, keyed by name.
var functions = map[string]function{
	"abs":   {1, 1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"floor": {1, 1, func(a []float64) float64 { return math.Floor(a[0]) }},
	"ceil":  {1, 1, func(a []float64) float64 { return math.Ceil(a[0]) }},
	"round": {1, 1, func(a []float64) float64 { return math.Round(a[0]) }},
	"min": {1, -1, func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Min(m, v)
		}
		return m
	}},
	"max": {1, -1, func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Max(m, v)
		}
		return m
	}},
	"sum": {0, -1, func(a []float64) float64 {
		s := 0.0
		for _, v := range a {
			s += v
		}
		return s
	}},
	// mod computes the ability modifier of a d20 score.
	"mod": {1, 1, func(a []float64) float64 { return math.Floor((a[0] - 10) / 2) }},
}

// Functions lists the supported function names.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	return names
}

func (e *Evaluator) call(c *call) (Value, error) {
	fn, ok := functions[c.Name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownFunction, c.Name)
	}
	if len(c.Args) < fn.minArgs || (fn.maxArgs >= 0 && len(c.Args) > fn.maxArgs) {
		return Value{}, fmt.Errorf("%w: %s takes %d arguments", ErrType, c.Name, fn.minArgs)
	}
	args := make([]float64, 0, len(c.Args))
	for _, a := range c.Args {
		v, err := e.expression(a)
		if err != nil {
			return Value{}, err
		}
		if v.IsString {
			return Value{}, fmt.Errorf("%w: %s expects numbers", ErrType, c.Name)
		}
		args = append(args, v.Num)
	}
	return Number(fn.apply(args)), nil
}
