package doc

// DefaultHistoryDepth bounds the undo stack when no depth is configured.
const DefaultHistoryDepth = 100

type snapshot struct {
	root Block
	sel  Range
}

// History keeps bounded undo and redo stacks of document snapshots.
type History struct {
	depth int
	undo  []snapshot
	redo  []snapshot
}

// EnableHistory turns on undo/redo with at most depth snapshots.
func (d *Document) EnableHistory(depth int) {
	if depth <= 0 {
		depth = DefaultHistoryDepth
	}
	d.history = &History{depth: depth}
}

// HasHistory reports whether undo/redo is enabled.
func (d *Document) HasHistory() bool {
	return d.history != nil
}

// CanUndo reports whether an undo step is available.
func (d *Document) CanUndo() bool {
	return d.history != nil && len(d.history.undo) > 0
}

// CanRedo reports whether a redo step is available.
func (d *Document) CanRedo() bool {
	return d.history != nil && len(d.history.redo) > 0
}

// Checkpoint records the current state before a mutation. It clears redo.
func (d *Document) Checkpoint(sel Range) {
	h := d.history
	if h == nil {
		return
	}
	h.undo = append(h.undo, d.snapshot(sel))
	if len(h.undo) > h.depth {
		h.undo = h.undo[len(h.undo)-h.depth:]
	}
	h.redo = nil
}

// Undo restores the last checkpoint and returns its selection. cur is the
// selection to restore on a later redo.
func (d *Document) Undo(cur Range) (Range, bool) {
	h := d.history
	if h == nil || len(h.undo) == 0 {
		return cur, false
	}
	s := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, d.snapshot(cur))
	d.root = s.root
	return s.sel, true
}

// Redo reapplies the last undone change.
func (d *Document) Redo(cur Range) (Range, bool) {
	h := d.history
	if h == nil || len(h.redo) == 0 {
		return cur, false
	}
	s := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, d.snapshot(cur))
	d.root = s.root
	return s.sel, true
}

func (d *Document) snapshot(sel Range) snapshot {
	return snapshot{
		root: *d.root.clone().(*Block),
		sel: Range{
			Anchor: Point{Path: sel.Anchor.Path.Clone(), Offset: sel.Anchor.Offset},
			Focus:  Point{Path: sel.Focus.Path.Clone(), Offset: sel.Focus.Offset},
		},
	}
}
