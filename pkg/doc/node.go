// node.go defines the closed set of node variants that make up a document tree.
package doc

// Kind identifies a node variant.
type Kind int

const (
	KindBlock Kind = iota
	KindText
	KindPageLink
	KindRecordLink
	KindRoller
	KindFormula
	KindCheckbox
	KindImage
	KindLink
)

// String returns the portable type name for entity and text kinds.
func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindText:
		return "text"
	case KindPageLink:
		return "page-link"
	case KindRecordLink:
		return "record-link"
	case KindRoller:
		return "roller"
	case KindFormula:
		return "formula"
	case KindCheckbox:
		return "checkbox"
	case KindImage:
		return "image"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// Capability describes how a node kind behaves in the tree.
type Capability struct {
	Inline bool // part of the inline text flow
	Void   bool // owns no editable text; atomic for the cursor
}

// capabilities is consulted by selection movement, deletion and rendering.
// Adding a node kind = adding one entry here.
var capabilities = map[Kind]Capability{
	KindBlock:      {},
	KindText:       {Inline: true},
	KindPageLink:   {Inline: true, Void: true},
	KindRecordLink: {Inline: true, Void: true},
	KindRoller:     {Inline: true, Void: true},
	KindFormula:    {Inline: true, Void: true},
	KindCheckbox:   {Inline: true, Void: true},
	KindImage:      {Inline: true, Void: true},
	KindLink:       {Inline: true, Void: true},
}

// Capabilities returns the capability entry for a node.
func Capabilities(n Node) Capability {
	return capabilities[n.Kind()]
}

// IsVoid reports whether n can never contain the cursor.
func IsVoid(n Node) bool {
	return Capabilities(n).Void
}

// IsInline reports whether n flows with text rather than stacking as a block.
func IsInline(n Node) bool {
	return Capabilities(n).Inline
}

// IsContainer reports whether n is a block whose children are blocks.
func IsContainer(n Node) bool {
	b, ok := n.(*Block)
	return ok && b.Type.IsList()
}

// Node is any element of the tree. The set of implementations is closed.
type Node interface {
	Kind() Kind
	clone() Node
	node()
}

// Entity is an inline void node.
type Entity interface {
	Node
	entity()
}

// BlockType is the structural role of a block.
type BlockType string

const (
	Paragraph   BlockType = "paragraph"
	Heading1    BlockType = "heading-1"
	Heading2    BlockType = "heading-2"
	Heading3    BlockType = "heading-3"
	ListItem    BlockType = "list-item"
	OrderedList BlockType = "ordered-list"
	BulletList  BlockType = "list"
	Quote       BlockType = "quote"
	Callout     BlockType = "callout"
	Default     BlockType = "default"
)

var blockTypes = map[BlockType]bool{
	Paragraph:   true,
	Heading1:    true,
	Heading2:    true,
	Heading3:    true,
	ListItem:    true,
	OrderedList: true,
	BulletList:  true,
	Quote:       true,
	Callout:     true,
	Default:     true,
}

// Valid reports whether t is a known block type.
func (t BlockType) Valid() bool {
	return blockTypes[t]
}

// IsList reports whether t is a list wrapper.
func (t BlockType) IsList() bool {
	return t == BulletList || t == OrderedList
}

// CalloutColors are the accepted callout colours; the first is the default.
var CalloutColors = []string{"gray", "blue", "red", "orange", "green", "yellow"}

func validColor(c string) bool {
	for _, known := range CalloutColors {
		if c == known {
			return true
		}
	}
	return false
}

// Block is a structural node. A list block holds list-item blocks; every
// other block holds inline content (text runs and entities).
type Block struct {
	Type     BlockType
	Color    string // callout only
	Children []Node
}

func (b *Block) Kind() Kind { return KindBlock }
func (b *Block) node()      {}

func (b *Block) clone() Node {
	c := &Block{Type: b.Type, Color: b.Color, Children: make([]Node, len(b.Children))}
	for i, child := range b.Children {
		c.Children[i] = child.clone()
	}
	return c
}

// NewBlock returns a text block of type t holding children, or one empty run.
func NewBlock(t BlockType, children ...Node) *Block {
	if len(children) == 0 {
		children = []Node{&Text{}}
	}
	return &Block{Type: t, Children: children}
}

// NewParagraph returns a paragraph holding children, or one empty run.
func NewParagraph(children ...Node) *Block {
	return NewBlock(Paragraph, children...)
}

// Mark is a boolean formatting attribute on a text run.
type Mark string

const (
	Bold   Mark = "bold"
	Italic Mark = "italic"
	Strike Mark = "strike"
	Code   Mark = "code"
)

var knownMarks = map[Mark]bool{Bold: true, Italic: true, Strike: true, Code: true}

// Valid reports whether m is a known mark name.
func (m Mark) Valid() bool {
	return knownMarks[m]
}

// Marks maps mark names to their state. Only true entries are stored.
type Marks map[Mark]bool

// Has reports whether m is set.
func (ms Marks) Has(m Mark) bool {
	return ms[m]
}

// Equal reports whether both sets hold the same active marks.
func (ms Marks) Equal(other Marks) bool {
	count := 0
	for m, on := range ms {
		if !on {
			continue
		}
		if !other[m] {
			return false
		}
		count++
	}
	for _, on := range other {
		if on {
			count--
		}
	}
	return count == 0
}

// Clone copies the active marks.
func (ms Marks) Clone() Marks {
	if len(ms) == 0 {
		return nil
	}
	c := make(Marks, len(ms))
	for m, on := range ms {
		if on {
			c[m] = true
		}
	}
	if len(c) == 0 {
		return nil
	}
	return c
}

// With returns a copy with m set to on.
func (ms Marks) With(m Mark, on bool) Marks {
	c := ms.Clone()
	if on {
		if c == nil {
			c = Marks{}
		}
		c[m] = true
	} else {
		delete(c, m)
	}
	if len(c) == 0 {
		return nil
	}
	return c
}

// Text is an editable run of characters sharing one set of marks.
type Text struct {
	Text  string
	Marks Marks
}

func (t *Text) Kind() Kind  { return KindText }
func (t *Text) node()       {}
func (t *Text) clone() Node { return &Text{Text: t.Text, Marks: t.Marks.Clone()} }

// PageLink references another page.
type PageLink struct {
	PageID string
	Name   string
}

func (e *PageLink) Kind() Kind  { return KindPageLink }
func (e *PageLink) node()       {}
func (e *PageLink) entity()     {}
func (e *PageLink) clone() Node { c := *e; return &c }

// RecordLink references a table record.
type RecordLink struct {
	RecordID string
	TableID  string
	Name     string
}

func (e *RecordLink) Kind() Kind  { return KindRecordLink }
func (e *RecordLink) node()       {}
func (e *RecordLink) entity()     {}
func (e *RecordLink) clone() Node { c := *e; return &c }

// Roller is a clickable dice expression.
type Roller struct {
	Expression string
}

func (e *Roller) Kind() Kind  { return KindRoller }
func (e *Roller) node()       {}
func (e *Roller) entity()     {}
func (e *Roller) clone() Node { c := *e; return &c }

// FormulaPlaceholder seeds newly created formulas.
const FormulaPlaceholder = `"Set a formula..."`

// Formula stores an expression evaluated for display by a collaborator.
type Formula struct {
	Expression string
	FormulaID  string
}

func (e *Formula) Kind() Kind  { return KindFormula }
func (e *Formula) node()       {}
func (e *Formula) entity()     {}
func (e *Formula) clone() Node { c := *e; return &c }

// Checkbox is a toggleable inline box.
type Checkbox struct {
	Checked bool
}

func (e *Checkbox) Kind() Kind  { return KindCheckbox }
func (e *Checkbox) node()       {}
func (e *Checkbox) entity()     {}
func (e *Checkbox) clone() Node { c := *e; return &c }

// Image is an inline picture.
type Image struct {
	Src string
}

func (e *Image) Kind() Kind  { return KindImage }
func (e *Image) node()       {}
func (e *Image) entity()     {}
func (e *Image) clone() Node { c := *e; return &c }

// Link is an external link. Href falls back to DisplayText.
type Link struct {
	DisplayText string
	Href        string
}

func (e *Link) Kind() Kind  { return KindLink }
func (e *Link) node()       {}
func (e *Link) entity()     {}
func (e *Link) clone() Node { c := *e; return &c }

// URL returns the link target.
func (e *Link) URL() string {
	if e.Href != "" {
		return e.Href
	}
	return e.DisplayText
}

// width is the number of block-local offset units a node occupies.
func width(n Node) int {
	switch n := n.(type) {
	case *Text:
		return len(n.Text)
	case *Block:
		return 0
	default:
		return 1
	}
}
