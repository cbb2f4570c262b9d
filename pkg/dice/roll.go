package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// Die is one kept die value.
type Die struct {
	Value int `json:"value"`
	Sides int `json:"sides"`
}

// Record is the immutable outcome of rolling an expression.
type Record struct {
	RollText string `json:"rollText"`
	Results  []Die  `json:"results"`
	Shift    int    `json:"shift"`
	Sum      int    `json:"sum"`
	// AltResults parallels Results with the discarded die of an advantage
	// or disadvantage roll, or 0. It is nil when no such term was rolled.
	AltResults []int `json:"altResults,omitempty"`
}

// Source yields uniform ints in [0, n).
type Source interface {
	Intn(n int) int
}

// Roller rolls expressions against a Source. It is safe for concurrent use.
type Roller struct {
	mu  sync.Mutex
	src Source
}

// NewRoller returns a roller drawing from src.
func NewRoller(src Source) *Roller {
	return &Roller{src: src}
}

// NewSeededRoller returns a roller backed by math/rand with the given seed.
func NewSeededRoller(seed int64) *Roller {
	return NewRoller(rand.New(rand.NewSource(seed)))
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Roll evaluates e. Dice terms add their kept values regardless of sign;
// shift terms accumulate into Shift.
func (r *Roller) Roll(e Expression) Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := Record{RollText: e.Text}
	hasMode := false
	var alts []int
	for _, t := range e.Terms {
		if !t.IsDice() {
			rec.Shift += t.Shift
			continue
		}
		for i := 0; i < t.Count; i++ {
			value, alt := r.rollDie(t.Sides), 0
			switch t.Mode {
			case ModeAdvantage:
				hasMode = true
				value, alt = maxMin(value, r.rollDie(t.Sides))
			case ModeDisadvantage:
				hasMode = true
				alt, value = maxMin(value, r.rollDie(t.Sides))
			}
			rec.Results = append(rec.Results, Die{Value: value, Sides: t.Sides})
			alts = append(alts, alt)
			rec.Sum += value
		}
	}
	rec.Sum += rec.Shift
	if hasMode {
		rec.AltResults = alts
	}
	return rec
}

// RollText parses s leniently and rolls the valid terms. It reports false
// when no term rolls dice.
func (r *Roller) RollText(s string) (Record, []error, bool) {
	e, errs := ParseLenient(s)
	if !e.HasDice() {
		return Record{}, errs, false
	}
	return r.Roll(e), errs, true
}

func (r *Roller) rollDie(sides int) int {
	return r.src.Intn(sides) + 1
}

func maxMin(a, b int) (int, int) {
	if a >= b {
		return a, b
	}
	return b, a
}
