package rolls

// Recall walks previous roll texts with the Up and Down keys of the roll bar.
// Index -1 means the bar shows fresh input.
type Recall struct {
	history *History
	index   int
}

// NewRecall returns a recall cursor over h.
func NewRecall(h *History) *Recall {
	return &Recall{history: h, index: -1}
}

// Index returns the recalled record index, or -1.
func (r *Recall) Index() int { return r.index }

// Up moves to the next older roll and returns its text. It reports false
// when there is nothing older.
func (r *Recall) Up() (string, bool) {
	if r.index >= r.history.Len()-1 {
		return "", false
	}
	rec, ok := r.history.At(r.index + 1)
	if !ok {
		return "", false
	}
	r.index++
	return rec.RollText, true
}

// Down moves to the next newer roll and returns its text. Moving past the
// newest roll clears the input.
func (r *Recall) Down() string {
	if r.index > 0 {
		if rec, ok := r.history.At(r.index - 1); ok {
			r.index--
			return rec.RollText
		}
	}
	r.index = -1
	return ""
}

// Reset returns the cursor to fresh input, as after a submit.
func (r *Recall) Reset() { r.index = -1 }
