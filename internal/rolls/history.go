// Package rolls keeps the roll bar state: the append-only roll history, the
// roll service that feeds it, and the Up/Down recall cursor.
package rolls

import (
	"sync"

	"github.com/open-cli-collective/lore-cli/pkg/dice"
)

// History is an append-only list of roll records, newest first. It is safe
// for concurrent use; records are never mutated once appended.
type History struct {
	mu      sync.RWMutex
	records []dice.Record // oldest first
}

// NewHistory returns a history seeded with records given newest first.
func NewHistory(records ...dice.Record) *History {
	h := &History{}
	for i := len(records) - 1; i >= 0; i-- {
		h.records = append(h.records, clone(records[i]))
	}
	return h
}

// Append adds rec as the newest record.
func (h *History) Append(rec dice.Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, clone(rec))
}

// Len returns the number of records.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// At returns the i-th newest record.
func (h *History) At(i int) (dice.Record, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if i < 0 || i >= len(h.records) {
		return dice.Record{}, false
	}
	return clone(h.records[len(h.records)-1-i]), true
}

// Snapshot returns a copy of all records, newest first.
func (h *History) Snapshot() []dice.Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]dice.Record, len(h.records))
	for i, rec := range h.records {
		out[len(h.records)-1-i] = clone(rec)
	}
	return out
}

func clone(rec dice.Record) dice.Record {
	if rec.Results != nil {
		rec.Results = append([]dice.Die(nil), rec.Results...)
	}
	if rec.AltResults != nil {
		rec.AltResults = append([]int(nil), rec.AltResults...)
	}
	return rec
}
