// document.go implements the tree mutation contract. Every exported mutation
// leaves the document satisfying its structural invariants:
//   - at least one block
//   - list blocks hold only list-item blocks and are never empty
//   - text blocks hold inline nodes, start and end with a text run,
//     and never place two entities side by side
package doc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath is returned when a path does not address a node.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidNode is returned when a node cannot live at the given path.
	ErrInvalidNode = errors.New("invalid node for position")
	// ErrInvalidProps is returned when no property applies to the target node.
	ErrInvalidProps = errors.New("invalid properties")
)

// Document is a rich-text tree of blocks.
type Document struct {
	root    Block
	history *History
}

// New returns the minimal document: one empty paragraph.
func New() *Document {
	return &Document{root: Block{Children: []Node{NewParagraph()}}}
}

// FromBlocks builds a document from top-level blocks, normalizing them.
func FromBlocks(blocks ...*Block) *Document {
	d := &Document{}
	for _, b := range blocks {
		if b != nil {
			d.root.Children = append(d.root.Children, b)
		}
	}
	d.normalizeRoot()
	return d
}

// Blocks returns the top-level blocks. Callers must not mutate them directly.
func (d *Document) Blocks() []*Block {
	blocks := make([]*Block, 0, len(d.root.Children))
	for _, n := range d.root.Children {
		blocks = append(blocks, n.(*Block))
	}
	return blocks
}

// Clone returns a deep copy without history.
func (d *Document) Clone() *Document {
	return &Document{root: *d.root.clone().(*Block)}
}

// Node returns the node at p.
func (d *Document) Node(p Path) (Node, bool) {
	if len(p) == 0 {
		return nil, false
	}
	var cur Node = &d.root
	for _, idx := range p {
		b, ok := cur.(*Block)
		if !ok || idx < 0 || idx >= len(b.Children) {
			return nil, false
		}
		cur = b.Children[idx]
	}
	return cur, true
}

// Block returns the block at p.
func (d *Document) Block(p Path) (*Block, bool) {
	n, ok := d.Node(p)
	if !ok {
		return nil, false
	}
	b, ok := n.(*Block)
	return b, ok
}

// Text returns the text run at p.
func (d *Document) Text(p Path) (*Text, bool) {
	n, ok := d.Node(p)
	if !ok {
		return nil, false
	}
	t, ok := n.(*Text)
	return t, ok
}

// parent returns the block holding p and p's index within it.
func (d *Document) parent(p Path) (*Block, int, bool) {
	if len(p) == 0 {
		return nil, 0, false
	}
	if len(p) == 1 {
		return &d.root, p[0], true
	}
	b, ok := d.Block(p.Parent())
	if !ok {
		return nil, 0, false
	}
	return b, p.Last(), true
}

// isRoot reports whether b is the document root.
func (d *Document) isRoot(b *Block) bool {
	return b == &d.root
}

// Insert places n at p, shifting later siblings.
func (d *Document) Insert(p Path, n Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrInvalidNode)
	}
	parent, idx, ok := d.parent(p)
	if !ok || idx < 0 || idx > len(parent.Children) {
		return fmt.Errorf("%w: %v", ErrInvalidPath, p)
	}
	switch {
	case d.isRoot(parent) || parent.Type.IsList():
		b, ok := n.(*Block)
		if !ok {
			return fmt.Errorf("%w: %s inside a block list", ErrInvalidNode, n.Kind())
		}
		if parent.Type.IsList() && b.Type.IsList() {
			return fmt.Errorf("%w: nested list", ErrInvalidNode)
		}
		if b.Type.IsList() && len(b.Children) == 0 {
			return fmt.Errorf("%w: empty list", ErrInvalidNode)
		}
		if parent.Type.IsList() {
			b.Type = ListItem
		}
		normalizeBlock(b)
	default:
		if !IsInline(n) {
			return fmt.Errorf("%w: block inside text block", ErrInvalidNode)
		}
	}
	parent.Children = insertAt(parent.Children, idx, n)
	if !d.isRoot(parent) && !parent.Type.IsList() {
		normalizeInline(parent)
	}
	return nil
}

// Remove deletes the node at p. Emptied text blocks keep one empty run,
// emptied lists are removed and an emptied document gets a fresh paragraph.
func (d *Document) Remove(p Path) error {
	parent, idx, ok := d.parent(p)
	if !ok || idx < 0 || idx >= len(parent.Children) {
		return fmt.Errorf("%w: %v", ErrInvalidPath, p)
	}
	parent.Children = removeAt(parent.Children, idx)
	switch {
	case d.isRoot(parent):
		d.normalizeRoot()
	case parent.Type.IsList():
		if len(parent.Children) == 0 {
			return d.Remove(p.Parent())
		}
	default:
		normalizeInline(parent)
	}
	return nil
}

// Props is a partial property update. Nil fields are left unchanged.
type Props struct {
	Type       *BlockType
	Color      *string
	Marks      Marks
	Checked    *bool
	Expression *string
}

// SetNodeProps applies the fields of props that make sense for the node at p.
func (d *Document) SetNodeProps(p Path, props Props) error {
	n, ok := d.Node(p)
	if !ok {
		return fmt.Errorf("%w: %v", ErrInvalidPath, p)
	}
	applied := false
	switch n := n.(type) {
	case *Block:
		if props.Type != nil {
			t := *props.Type
			if !t.Valid() || t.IsList() != n.Type.IsList() {
				return fmt.Errorf("%w: cannot change %s to %s", ErrInvalidProps, n.Type, t)
			}
			if parent, _, _ := d.parent(p); parent.Type.IsList() && t != ListItem {
				return fmt.Errorf("%w: list children must be list items", ErrInvalidProps)
			}
			n.Type = t
			if t != Callout {
				n.Color = ""
			}
			applied = true
		}
		if props.Color != nil && n.Type == Callout {
			if !validColor(*props.Color) {
				return fmt.Errorf("%w: unknown colour %q", ErrInvalidProps, *props.Color)
			}
			n.Color = *props.Color
			applied = true
		}
	case *Text:
		if len(props.Marks) > 0 {
			for m := range props.Marks {
				if !m.Valid() {
					return fmt.Errorf("%w: unknown mark %q", ErrInvalidProps, m)
				}
			}
			for m, on := range props.Marks {
				n.Marks = n.Marks.With(m, on)
			}
			applied = true
		}
	case *Checkbox:
		if props.Checked != nil {
			n.Checked = *props.Checked
			applied = true
		}
	case *Formula:
		if props.Expression != nil {
			n.Expression = *props.Expression
			applied = true
		}
	case *Roller:
		if props.Expression != nil {
			n.Expression = *props.Expression
			applied = true
		}
	}
	if !applied {
		return fmt.Errorf("%w for %s", ErrInvalidProps, n.Kind())
	}
	return nil
}

// SplitBlock splits the text block containing pt at pt. The new block follows
// the original, shares its type and colour, and the returned point is its start.
func (d *Document) SplitBlock(pt Point) (Point, error) {
	t, ok := d.Text(pt.Path)
	if !ok {
		return pt, fmt.Errorf("%w: %v", ErrInvalidPath, pt.Path)
	}
	if pt.Offset < 0 || pt.Offset > len(t.Text) {
		return pt, fmt.Errorf("%w: offset %d", ErrInvalidPath, pt.Offset)
	}
	blockPath := pt.Path.Parent()
	b, _ := d.Block(blockPath)
	left, right := cutInline(b.Children, pt.Path.Last(), floorRune(t.Text, pt.Offset))
	b.Children = left
	normalizeInline(b)
	nb := &Block{Type: b.Type, Color: b.Color, Children: right}
	normalizeInline(nb)
	parent, idx, _ := d.parent(blockPath)
	parent.Children = insertAt(parent.Children, idx+1, nb)
	next := blockPath.Sibling(1)
	return Point{Path: next.Child(0)}, nil
}

// MergeBlocks appends the inline content of the text block at b onto the text
// block at a and removes b.
func (d *Document) MergeBlocks(a, b Path) error {
	ba, ok := d.Block(a)
	if !ok || ba.Type.IsList() {
		return fmt.Errorf("%w: %v", ErrInvalidPath, a)
	}
	bb, ok := d.Block(b)
	if !ok || bb.Type.IsList() {
		return fmt.Errorf("%w: %v", ErrInvalidPath, b)
	}
	if ba == bb {
		return fmt.Errorf("%w: cannot merge a block into itself", ErrInvalidPath)
	}
	ba.Children = append(ba.Children, bb.Children...)
	normalizeInline(ba)
	bb.Children = nil
	return d.Remove(b)
}

// TextBlocks returns the paths of every text block in document order.
func (d *Document) TextBlocks() []Path {
	var paths []Path
	for i, n := range d.root.Children {
		b := n.(*Block)
		if b.Type.IsList() {
			for j := range b.Children {
				paths = append(paths, Path{i, j})
			}
			continue
		}
		paths = append(paths, Path{i})
	}
	return paths
}

// Start returns the first cursor position of the document.
func (d *Document) Start() Point {
	return Point{Path: d.TextBlocks()[0].Child(0)}
}

// End returns the last cursor position of the document.
func (d *Document) End() Point {
	blocks := d.TextBlocks()
	last := blocks[len(blocks)-1]
	b, _ := d.Block(last)
	i := len(b.Children) - 1
	return Point{Path: last.Child(i), Offset: len(b.Children[i].(*Text).Text)}
}

// IsEmpty reports whether the document is a single block with no content.
func (d *Document) IsEmpty() bool {
	blocks := d.TextBlocks()
	if len(blocks) != 1 {
		return false
	}
	b, _ := d.Block(blocks[0])
	return blockWidth(b) == 0
}

// Locate converts a point into a location.
func (d *Document) Locate(p Point) (Location, bool) {
	t, ok := d.Text(p.Path)
	if !ok || p.Offset < 0 || p.Offset > len(t.Text) {
		return Location{}, false
	}
	blockPath := p.Path.Parent()
	for i, bp := range d.TextBlocks() {
		if !bp.Equal(blockPath) {
			continue
		}
		b, _ := d.Block(bp)
		off := 0
		for _, child := range b.Children[:p.Path.Last()] {
			off += width(child)
		}
		return Location{Block: i, Offset: off + p.Offset}, true
	}
	return Location{}, false
}

// Resolve converts a location back into a point, clamping it into the
// document. aff decides which run wins when the offset sits between two runs.
func (d *Document) Resolve(loc Location, aff Affinity) Point {
	blocks := d.TextBlocks()
	if loc.Block < 0 {
		return d.Start()
	}
	if loc.Block >= len(blocks) {
		return d.End()
	}
	bp := blocks[loc.Block]
	b, _ := d.Block(bp)
	off := loc.Offset
	if off < 0 {
		off = 0
	}
	pos := 0
	for i, child := range b.Children {
		t, ok := child.(*Text)
		if !ok {
			pos++
			continue
		}
		end := pos + len(t.Text)
		if off < end || (off == end && (aff == Backward || !nextIsText(b.Children, i))) {
			if off < pos {
				off = pos
			}
			return Point{Path: bp.Child(i), Offset: floorRune(t.Text, off-pos)}
		}
		pos = end
	}
	last := len(b.Children) - 1
	return Point{Path: bp.Child(last), Offset: len(b.Children[last].(*Text).Text)}
}

func nextIsText(children []Node, i int) bool {
	if i+1 >= len(children) {
		return false
	}
	_, ok := children[i+1].(*Text)
	return ok
}

// NormalizePoint returns p when it addresses a valid text position, and
// otherwise the nearest valid position.
func (d *Document) NormalizePoint(p Point) Point {
	if t, ok := d.Text(p.Path); ok {
		off := p.Offset
		if off < 0 {
			off = 0
		}
		return Point{Path: p.Path.Clone(), Offset: floorRune(t.Text, off)}
	}
	cur := &d.root
	var path Path
	past := false
walk:
	for _, idx := range p.Path {
		if idx >= len(cur.Children) {
			idx = len(cur.Children) - 1
			past = true
		}
		if idx < 0 {
			idx = 0
		}
		path = append(path, idx)
		switch c := cur.Children[idx].(type) {
		case *Block:
			cur = c
			if past {
				break walk
			}
			continue
		case *Text:
			off := 0
			if past {
				off = len(c.Text)
			}
			return Point{Path: path, Offset: floorRune(c.Text, off)}
		default:
			if idx+1 < len(cur.Children) {
				return Point{Path: path.Sibling(1)}
			}
			prev := cur.Children[idx-1].(*Text)
			return Point{Path: path.Sibling(-1), Offset: len(prev.Text)}
		}
	}
	return d.edgeOf(path, cur, past)
}

// edgeOf returns the first (or last, when end is set) position inside b.
func (d *Document) edgeOf(path Path, b *Block, end bool) Point {
	for b.Type.IsList() || d.isRoot(b) {
		i := 0
		if end {
			i = len(b.Children) - 1
		}
		path = path.Child(i)
		b = b.Children[i].(*Block)
	}
	if !end {
		return Point{Path: path.Child(0)}
	}
	i := len(b.Children) - 1
	return Point{Path: path.Child(i), Offset: len(b.Children[i].(*Text).Text)}
}

// normalizeRoot enforces the top-level invariants.
func (d *Document) normalizeRoot() {
	kept := d.root.Children[:0]
	for _, n := range d.root.Children {
		b, ok := n.(*Block)
		if !ok {
			continue
		}
		normalizeBlock(b)
		if b.Type.IsList() && len(b.Children) == 0 {
			continue
		}
		kept = append(kept, b)
	}
	d.root.Children = kept
	if len(d.root.Children) == 0 {
		d.root.Children = []Node{NewParagraph()}
	}
}

// normalizeBlock enforces the invariants of b and its descendants.
func normalizeBlock(b *Block) {
	if !b.Type.Valid() {
		b.Type = Paragraph
	}
	if b.Type != Callout {
		b.Color = ""
	} else if b.Color != "" && !validColor(b.Color) {
		b.Color = CalloutColors[0]
	}
	if !b.Type.IsList() {
		normalizeInline(b)
		return
	}
	items := b.Children[:0]
	for _, n := range b.Children {
		item, ok := n.(*Block)
		if !ok || item.Type.IsList() {
			continue
		}
		item.Type = ListItem
		item.Color = ""
		normalizeInline(item)
		items = append(items, item)
	}
	b.Children = items
}

// normalizeInline enforces the inline invariants of a text block. Adjacent
// runs with equal marks merge and an empty run beside another run is dropped.
func normalizeInline(b *Block) {
	out := make([]Node, 0, len(b.Children)+2)
	for _, n := range b.Children {
		if n == nil || !IsInline(n) {
			continue
		}
		t, isText := n.(*Text)
		if isText {
			t.Marks = t.Marks.Clone()
		}
		if len(out) == 0 {
			if !isText {
				out = append(out, &Text{})
			}
			out = append(out, n)
			continue
		}
		prev, prevText := out[len(out)-1].(*Text)
		switch {
		case isText && prevText:
			switch {
			case prev.Marks.Equal(t.Marks):
				out[len(out)-1] = &Text{Text: prev.Text + t.Text, Marks: prev.Marks.Clone()}
			case t.Text == "":
			case prev.Text == "":
				out[len(out)-1] = t
			default:
				out = append(out, t)
			}
		case !isText && !prevText:
			out = append(out, &Text{}, n)
		default:
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		out = append(out, &Text{})
	}
	if _, ok := out[len(out)-1].(*Text); !ok {
		out = append(out, &Text{})
	}
	b.Children = out
}

// cutInline splits inline children at the run idx and byte offset off. Both
// halves begin and end with a text run.
func cutInline(children []Node, idx, off int) (left, right []Node) {
	run := children[idx].(*Text)
	left = make([]Node, 0, idx+1)
	for _, n := range children[:idx] {
		left = append(left, n)
	}
	left = append(left, &Text{Text: run.Text[:off], Marks: run.Marks.Clone()})
	right = make([]Node, 0, len(children)-idx)
	right = append(right, &Text{Text: run.Text[off:], Marks: run.Marks.Clone()})
	right = append(right, children[idx+1:]...)
	return left, right
}

func blockWidth(b *Block) int {
	w := 0
	for _, n := range b.Children {
		w += width(n)
	}
	return w
}

func insertAt(nodes []Node, i int, n Node) []Node {
	nodes = append(nodes, nil)
	copy(nodes[i+1:], nodes[i:])
	nodes[i] = n
	return nodes
}

func removeAt(nodes []Node, i int) []Node {
	out := make([]Node, 0, len(nodes)-1)
	out = append(out, nodes[:i]...)
	return append(out, nodes[i+1:]...)
}
