package doc

import "unicode/utf8"

// Path addresses a node by child indices from the document root.
type Path []int

// Clone returns an independent copy of p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	c := make(Path, len(p))
	copy(c, p)
	return c
}

// Parent returns the path of p's parent.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1].Clone()
}

// Last returns the final index of p.
func (p Path) Last() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

// Child returns the path of the i-th child of p.
func (p Path) Child(i int) Path {
	c := make(Path, len(p)+1)
	copy(c, p)
	c[len(p)] = i
	return c
}

// Sibling returns p with its final index shifted by delta.
func (p Path) Sibling(delta int) Path {
	c := p.Clone()
	if len(c) > 0 {
		c[len(c)-1] += delta
	}
	return c
}

// Equal reports whether both paths address the same node.
func (p Path) Equal(q Path) bool {
	return ComparePaths(p, q) == 0 && len(p) == len(q)
}

// ComparePaths orders paths in document order. An ancestor sorts before its
// descendants.
func ComparePaths(p, q Path) int {
	for i := 0; i < len(p) && i < len(q); i++ {
		switch {
		case p[i] < q[i]:
			return -1
		case p[i] > q[i]:
			return 1
		}
	}
	switch {
	case len(p) < len(q):
		return -1
	case len(p) > len(q):
		return 1
	}
	return 0
}

// Point is a cursor position: a text run path and a byte offset within it.
type Point struct {
	Path   Path
	Offset int
}

// Compare orders two points in document order.
func (p Point) Compare(q Point) int {
	if c := ComparePaths(p.Path, q.Path); c != 0 {
		return c
	}
	switch {
	case p.Offset < q.Offset:
		return -1
	case p.Offset > q.Offset:
		return 1
	}
	return 0
}

// Equal reports whether p and q are the same position.
func (p Point) Equal(q Point) bool {
	return p.Compare(q) == 0
}

// Range is a selection. It is collapsed when anchor equals focus.
type Range struct {
	Anchor Point
	Focus  Point
}

// Caret returns a collapsed range at p.
func Caret(p Point) Range {
	return Range{Anchor: p, Focus: Point{Path: p.Path.Clone(), Offset: p.Offset}}
}

// Collapsed reports whether r selects nothing.
func (r Range) Collapsed() bool {
	return r.Anchor.Equal(r.Focus)
}

// Edges returns the range endpoints in document order.
func (r Range) Edges() (start, end Point) {
	if r.Anchor.Compare(r.Focus) <= 0 {
		return r.Anchor, r.Focus
	}
	return r.Focus, r.Anchor
}

// Location is a position expressed against text blocks rather than node
// paths. Block is the ordinal of the text block in document order and Offset
// counts text bytes plus one per entity. Locations survive structural
// changes that only regroup runs.
type Location struct {
	Block  int
	Offset int
}

// Affinity picks a run when a location sits on the seam between two runs.
type Affinity int

const (
	Backward Affinity = iota
	Forward
)

// floorRune moves i back to the nearest rune boundary in s.
func floorRune(s string, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
