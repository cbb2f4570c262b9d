// edit.go implements range-level edits composed from the tree primitives.
// They work in Location space so callers can remap selections afterwards.
package doc

import "fmt"

// InsertInlineAt splits the run at p and places n there. It returns the
// position just after n.
func (d *Document) InsertInlineAt(p Point, n Node) (Point, error) {
	if n == nil || !IsInline(n) {
		return p, fmt.Errorf("%w: not inline", ErrInvalidNode)
	}
	loc, ok := d.Locate(p)
	if !ok {
		return p, fmt.Errorf("%w: %v", ErrInvalidPath, p.Path)
	}
	b, _, _ := d.BlockAt(p.Path)
	left, right := cutInline(b.Children, p.Path.Last(), floorRune(b.Children[p.Path.Last()].(*Text).Text, p.Offset))
	children := append(left, n)
	b.Children = append(children, right...)
	normalizeInline(b)
	aff := Forward
	if _, isText := n.(*Text); isText {
		aff = Backward
	}
	return d.Resolve(Location{Block: loc.Block, Offset: loc.Offset + width(n)}, aff), nil
}

// InsertTextAt inserts s into the run at p and returns the position after it.
func (d *Document) InsertTextAt(p Point, s string) (Point, error) {
	t, ok := d.Text(p.Path)
	if !ok || p.Offset < 0 || p.Offset > len(t.Text) {
		return p, fmt.Errorf("%w: %v", ErrInvalidPath, p.Path)
	}
	off := floorRune(t.Text, p.Offset)
	t.Text = t.Text[:off] + s + t.Text[off:]
	return Point{Path: p.Path.Clone(), Offset: off + len(s)}, nil
}

// DeleteRange removes everything between start and end, joining the blocks
// at either edge. It returns the collapsed position where the range was.
func (d *Document) DeleteRange(start, end Point) (Point, error) {
	if start.Compare(end) > 0 {
		start, end = end, start
	}
	sLoc, ok := d.Locate(start)
	if !ok {
		return start, fmt.Errorf("%w: %v", ErrInvalidPath, start.Path)
	}
	eLoc, ok := d.Locate(end)
	if !ok {
		return start, fmt.Errorf("%w: %v", ErrInvalidPath, end.Path)
	}
	if sLoc == eLoc {
		return start, nil
	}
	blocks := d.TextBlocks()
	sb, _ := d.Block(blocks[sLoc.Block])
	eb, _ := d.Block(blocks[eLoc.Block])
	left, _ := cutInline(sb.Children, start.Path.Last(), start.Offset)
	_, right := cutInline(eb.Children, end.Path.Last(), end.Offset)
	sb.Children = append(left, right...)
	normalizeInline(sb)
	for i := eLoc.Block; i > sLoc.Block; i-- {
		if err := d.Remove(blocks[i]); err != nil {
			return start, err
		}
	}
	return d.Resolve(sLoc, Backward), nil
}

// eachRun calls fn for every text run overlapping [from, to) in Location
// space, passing the overlap in run-local byte offsets.
func (d *Document) eachRun(from, to Location, fn func(b *Block, i int, lo, hi int)) {
	blocks := d.TextBlocks()
	for ord := from.Block; ord <= to.Block && ord < len(blocks); ord++ {
		b, _ := d.Block(blocks[ord])
		lo, hi := 0, blockWidth(b)
		if ord == from.Block {
			lo = from.Offset
		}
		if ord == to.Block {
			hi = to.Offset
		}
		pos := 0
		for i := 0; i < len(b.Children); i++ {
			w := width(b.Children[i])
			if _, ok := b.Children[i].(*Text); ok && w > 0 {
				s, e := max(lo, pos), min(hi, pos+w)
				if s < e {
					fn(b, i, s-pos, e-pos)
				}
			}
			pos += w
		}
	}
}

// MarkActive reports whether every run overlapping the range carries m.
// A range overlapping no text is never active.
func (d *Document) MarkActive(start, end Point, m Mark) bool {
	from, to, ok := d.span(start, end)
	if !ok {
		return false
	}
	seen, all := false, true
	d.eachRun(from, to, func(b *Block, i int, _, _ int) {
		seen = true
		if !b.Children[i].(*Text).Marks.Has(m) {
			all = false
		}
	})
	return seen && all
}

// SetMarks sets or clears m on the text between start and end, splitting
// runs at the edges.
func (d *Document) SetMarks(start, end Point, m Mark, on bool) error {
	if !m.Valid() {
		return fmt.Errorf("%w: unknown mark %q", ErrInvalidProps, m)
	}
	from, to, ok := d.span(start, end)
	if !ok {
		return fmt.Errorf("%w: %v", ErrInvalidPath, start.Path)
	}
	type cut struct {
		b      *Block
		i      int
		lo, hi int
	}
	var cuts []cut
	d.eachRun(from, to, func(b *Block, i int, lo, hi int) {
		cuts = append(cuts, cut{b, i, lo, hi})
	})
	// Replace from the back so earlier indices stay valid.
	for k := len(cuts) - 1; k >= 0; k-- {
		c := cuts[k]
		run := c.b.Children[c.i].(*Text)
		pieces := make([]Node, 0, 3)
		if c.lo > 0 {
			pieces = append(pieces, &Text{Text: run.Text[:c.lo], Marks: run.Marks.Clone()})
		}
		pieces = append(pieces, &Text{Text: run.Text[c.lo:c.hi], Marks: run.Marks.With(m, on)})
		if c.hi < len(run.Text) {
			pieces = append(pieces, &Text{Text: run.Text[c.hi:], Marks: run.Marks.Clone()})
		}
		children := make([]Node, 0, len(c.b.Children)+2)
		children = append(children, c.b.Children[:c.i]...)
		children = append(children, pieces...)
		c.b.Children = append(children, c.b.Children[c.i+1:]...)
	}
	for ord := from.Block; ord <= to.Block; ord++ {
		if b, ok := d.Block(d.TextBlocks()[ord]); ok {
			normalizeInline(b)
		}
	}
	return nil
}

// span returns the ordered Locations of two points.
func (d *Document) span(start, end Point) (Location, Location, bool) {
	from, ok := d.Locate(start)
	if !ok {
		return Location{}, Location{}, false
	}
	to, ok := d.Locate(end)
	if !ok {
		return Location{}, Location{}, false
	}
	if to.Block < from.Block || (to.Block == from.Block && to.Offset < from.Offset) {
		from, to = to, from
	}
	return from, to, true
}

// ListOf returns the list holding the text block at p, if any.
func (d *Document) ListOf(p Path) (*Block, bool) {
	if len(p) != 2 {
		return nil, false
	}
	b, ok := d.Block(p[:1])
	if !ok || !b.Type.IsList() {
		return nil, false
	}
	return b, true
}

// UnwrapListItem lifts the list item at p out of its list as a paragraph,
// splitting the list around it. It returns the item's new path.
func (d *Document) UnwrapListItem(p Path) (Path, error) {
	list, ok := d.ListOf(p)
	if !ok || p[1] < 0 || p[1] >= len(list.Children) {
		return p, fmt.Errorf("%w: %v is not a list item", ErrInvalidPath, p)
	}
	i, j := p[0], p[1]
	item := list.Children[j].(*Block)
	item.Type = Paragraph

	var replacement []Node
	if j > 0 {
		replacement = append(replacement, &Block{Type: list.Type, Children: append([]Node{}, list.Children[:j]...)})
	}
	replacement = append(replacement, item)
	if j+1 < len(list.Children) {
		replacement = append(replacement, &Block{Type: list.Type, Children: append([]Node{}, list.Children[j+1:]...)})
	}
	root := make([]Node, 0, len(d.root.Children)+2)
	root = append(root, d.root.Children[:i]...)
	root = append(root, replacement...)
	d.root.Children = append(root, d.root.Children[i+1:]...)
	if j > 0 {
		return Path{i + 1}, nil
	}
	return Path{i}, nil
}

// WrapList wraps count consecutive top-level text blocks starting at first
// into a new list of type t.
func (d *Document) WrapList(first, count int, t BlockType) error {
	if !t.IsList() {
		return fmt.Errorf("%w: %s is not a list type", ErrInvalidProps, t)
	}
	if first < 0 || count <= 0 || first+count > len(d.root.Children) {
		return fmt.Errorf("%w: blocks %d..%d", ErrInvalidPath, first, first+count)
	}
	for _, n := range d.root.Children[first : first+count] {
		if n.(*Block).Type.IsList() {
			return fmt.Errorf("%w: nested list", ErrInvalidNode)
		}
	}
	list := &Block{Type: t}
	for _, n := range d.root.Children[first : first+count] {
		b := n.(*Block)
		b.Type = ListItem
		b.Color = ""
		list.Children = append(list.Children, b)
	}
	root := make([]Node, 0, len(d.root.Children)-count+1)
	root = append(root, d.root.Children[:first]...)
	root = append(root, list)
	d.root.Children = append(root, d.root.Children[first+count:]...)
	return nil
}
