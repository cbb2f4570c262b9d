package doc

import (
	"unicode"
	"unicode/utf8"
)

// EntityRef is an entity together with its path.
type EntityRef struct {
	Path   Path
	Entity Entity
}

// Entities lists every entity in document order.
func (d *Document) Entities() []EntityRef {
	var refs []EntityRef
	for _, bp := range d.TextBlocks() {
		b, _ := d.Block(bp)
		for i, n := range b.Children {
			if e, ok := n.(Entity); ok {
				refs = append(refs, EntityRef{Path: bp.Child(i), Entity: e})
			}
		}
	}
	return refs
}

// TrailingWord returns the non-whitespace text immediately before p together
// with the point where it starts. Scanning stops at whitespace, an entity or
// the block start. It reads at most max bytes and reports false when the
// word would be longer.
func (d *Document) TrailingWord(p Point, max int) (string, Point, bool) {
	t, ok := d.Text(p.Path)
	if !ok || p.Offset < 0 || p.Offset > len(t.Text) {
		return "", p, false
	}
	b, _ := d.Block(p.Path.Parent())
	idx := p.Path.Last()
	s := t.Text[:p.Offset]
	start := Point{Path: p.Path.Clone(), Offset: p.Offset}
	word := ""
	read := 0
	for {
		i := len(s)
		for i > 0 {
			r, size := utf8.DecodeLastRuneInString(s[:i])
			if unicode.IsSpace(r) {
				return s[i:] + word, Point{Path: start.Path, Offset: i}, true
			}
			read += size
			if read > max {
				return "", p, false
			}
			i -= size
		}
		word = s + word
		start = Point{Path: start.Path, Offset: 0}
		if idx == 0 {
			return word, start, true
		}
		prev, isText := b.Children[idx-1].(*Text)
		if !isText {
			return word, start, true
		}
		idx--
		s = prev.Text
		start = Point{Path: p.Path.Sibling(idx - p.Path.Last())}
		start.Offset = len(s)
	}
}

// BlockAt returns the text block holding the run at p and its path.
func (d *Document) BlockAt(p Path) (*Block, Path, bool) {
	if len(p) == 0 {
		return nil, nil, false
	}
	bp := p.Parent()
	b, ok := d.Block(bp)
	if !ok || b.Type.IsList() {
		return nil, nil, false
	}
	return b, bp, true
}

// AtBlockStart reports whether p sits before every unit of its block.
func (d *Document) AtBlockStart(p Point) bool {
	loc, ok := d.Locate(p)
	return ok && loc.Offset == 0
}
