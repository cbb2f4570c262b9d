package doc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PortableVersion is written into every serialized document.
const PortableVersion = 1

// ErrMalformedDocument is wrapped by every deserialization failure.
var ErrMalformedDocument = errors.New("malformed document")

// MalformedError lists what was coerced while reading a document.
type MalformedError struct {
	Problems []string
}

func (e *MalformedError) Error() string {
	return "malformed document: " + strings.Join(e.Problems, "; ")
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformedDocument
}

// PortableDocument is the JSON-friendly form of a document.
type PortableDocument struct {
	Type    string          `json:"type"`
	Version int             `json:"version"`
	Content []*PortableNode `json:"content"`
}

// PortableNode is one node of a portable document.
type PortableNode struct {
	Type    string                 `json:"type"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
	Content []*PortableNode        `json:"content,omitempty"`
	Text    string                 `json:"text,omitempty"`
	Marks   map[string]interface{} `json:"marks,omitempty"`
}

// Serialize converts the document into its portable form.
func (d *Document) Serialize() *PortableDocument {
	pd := &PortableDocument{Type: "doc", Version: PortableVersion}
	for _, n := range d.root.Children {
		pd.Content = append(pd.Content, toPortable(n))
	}
	return pd
}

// MarshalJSON encodes the portable form.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Serialize())
}

// Unmarshal decodes JSON into a document. Unparseable input yields the
// minimal document and an error wrapping ErrMalformedDocument.
func Unmarshal(data []byte) (*Document, error) {
	var pd PortableDocument
	if err := json.Unmarshal(data, &pd); err != nil {
		return New(), fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return Deserialize(&pd)
}

func toPortable(n Node) *PortableNode {
	switch n := n.(type) {
	case *Block:
		pn := &PortableNode{Type: string(n.Type)}
		if n.Color != "" {
			pn.Attrs = map[string]interface{}{"color": n.Color}
		}
		for _, child := range n.Children {
			pn.Content = append(pn.Content, toPortable(child))
		}
		return pn
	case *Text:
		pn := &PortableNode{Type: "text", Text: n.Text}
		for m, on := range n.Marks {
			if on {
				if pn.Marks == nil {
					pn.Marks = map[string]interface{}{}
				}
				pn.Marks[string(m)] = true
			}
		}
		return pn
	case *PageLink:
		return entityNode(n, map[string]interface{}{"pageId": n.PageID, "name": n.Name})
	case *RecordLink:
		return entityNode(n, map[string]interface{}{"recordId": n.RecordID, "tableId": n.TableID, "name": n.Name})
	case *Roller:
		return entityNode(n, map[string]interface{}{"expression": n.Expression})
	case *Formula:
		return entityNode(n, map[string]interface{}{"expressionText": n.Expression, "formulaId": n.FormulaID})
	case *Checkbox:
		return entityNode(n, map[string]interface{}{"checked": n.Checked})
	case *Image:
		return entityNode(n, map[string]interface{}{"src": n.Src})
	case *Link:
		attrs := map[string]interface{}{"displayText": n.DisplayText}
		if n.Href != "" {
			attrs["href"] = n.Href
		}
		return entityNode(n, attrs)
	}
	return nil
}

func entityNode(n Node, attrs map[string]interface{}) *PortableNode {
	for k, v := range attrs {
		if s, ok := v.(string); ok && s == "" {
			delete(attrs, k)
		}
	}
	return &PortableNode{Type: n.Kind().String(), Attrs: attrs}
}

// Deserialize rebuilds a document from its portable form. On any problem it
// still returns the nearest valid document alongside an error wrapping
// ErrMalformedDocument.
func Deserialize(pd *PortableDocument) (*Document, error) {
	c := &coercer{}
	d := &Document{}
	if pd == nil {
		c.addProblem("nil document")
		return New(), c.err()
	}
	if pd.Type != "" && pd.Type != "doc" {
		c.addProblem("root type %q", pd.Type)
	}

	var loose []Node
	flush := func() {
		if len(loose) > 0 {
			d.root.Children = append(d.root.Children, NewParagraph(loose...))
			loose = nil
		}
	}
	for _, pn := range pd.Content {
		if pn == nil {
			c.addProblem("nil node")
			continue
		}
		if pn.Type == "text" {
			c.addProblem("text outside a block")
			loose = append(loose, c.text(pn))
			continue
		}
		if _, isEntity := c.entity(pn, false); isEntity {
			c.addProblem("orphaned %s at top level", pn.Type)
			continue
		}
		flush()
		if b := c.block(pn, false); b != nil {
			d.root.Children = append(d.root.Children, b)
		}
	}
	flush()
	d.groupListItems()
	d.normalizeRoot()
	if len(pd.Content) == 0 {
		c.addProblem("no blocks")
	}
	return d, c.err()
}

// groupListItems wraps runs of top-level list items in a bullet list.
func (d *Document) groupListItems() {
	var out []Node
	var list *Block
	for _, n := range d.root.Children {
		b := n.(*Block)
		if b.Type != ListItem {
			list = nil
			out = append(out, b)
			continue
		}
		if list == nil {
			list = &Block{Type: BulletList}
			out = append(out, list)
		}
		list.Children = append(list.Children, b)
	}
	d.root.Children = out
}

// coercer accumulates problems found while deserializing.
type coercer struct {
	problems []string
}

func (c *coercer) addProblem(format string, args ...interface{}) {
	c.problems = append(c.problems, fmt.Sprintf(format, args...))
}

func (c *coercer) err() error {
	if len(c.problems) == 0 {
		return nil
	}
	return &MalformedError{Problems: c.problems}
}

// block coerces a block node. Nested lists inside a list are flattened.
func (c *coercer) block(pn *PortableNode, inList bool) *Block {
	t := BlockType(pn.Type)
	if !t.Valid() {
		c.addProblem("unknown block type %q", pn.Type)
		t = Paragraph
	}
	b := &Block{Type: t}
	if color, ok := pn.Attrs["color"].(string); ok && t == Callout {
		if validColor(color) {
			b.Color = color
		} else {
			c.addProblem("unknown callout colour %q", color)
		}
	}
	if t.IsList() {
		if inList {
			c.addProblem("nested list")
		}
		for _, child := range pn.Content {
			b.Children = append(b.Children, c.listItems(child)...)
		}
		if len(b.Children) == 0 {
			c.addProblem("empty %s dropped", t)
			return nil
		}
		return b
	}
	if len(pn.Text) > 0 {
		c.addProblem("text on %s block", t)
	}
	b.Children = c.inline(pn.Content)
	return b
}

// listItems coerces one child of a list into zero or more list items.
func (c *coercer) listItems(pn *PortableNode) []Node {
	if pn == nil {
		c.addProblem("nil node")
		return nil
	}
	if BlockType(pn.Type).IsList() {
		c.addProblem("nested list flattened")
		var items []Node
		for _, child := range pn.Content {
			items = append(items, c.listItems(child)...)
		}
		return items
	}
	if pn.Type == "text" {
		c.addProblem("text directly inside a list")
		return []Node{NewBlock(ListItem, c.text(pn))}
	}
	if e, ok := c.entity(pn, true); ok {
		c.addProblem("%s directly inside a list", pn.Type)
		if e == nil {
			return nil
		}
		return []Node{NewBlock(ListItem, e)}
	}
	b := c.block(pn, true)
	if b == nil {
		return nil
	}
	if b.Type != ListItem {
		c.addProblem("%s inside a list", b.Type)
		b.Type = ListItem
		b.Color = ""
	}
	return []Node{b}
}

// inline coerces the content of a text block. Blocks found inline are
// flattened into their inline content.
func (c *coercer) inline(content []*PortableNode) []Node {
	var out []Node
	for _, pn := range content {
		if pn == nil {
			c.addProblem("nil node")
			continue
		}
		if pn.Type == "text" {
			out = append(out, c.text(pn))
			continue
		}
		if e, ok := c.entity(pn, true); ok {
			if e != nil {
				out = append(out, e)
			}
			continue
		}
		c.addProblem("%s nested in a text block", pn.Type)
		out = append(out, c.inline(pn.Content)...)
	}
	return out
}

func (c *coercer) text(pn *PortableNode) *Text {
	t := &Text{Text: pn.Text}
	if len(pn.Content) > 0 {
		c.addProblem("children on a text run dropped")
	}
	for name, v := range pn.Marks {
		m := Mark(name)
		on, isBool := v.(bool)
		switch {
		case !m.Valid():
			c.addProblem("unknown mark %q", name)
		case !isBool:
			c.addProblem("mark %q is not boolean", name)
		case on:
			t.Marks = t.Marks.With(m, true)
		}
	}
	return t
}

// entity coerces an entity node. The second result reports whether pn names
// an entity kind at all; the entity is nil when its required attributes are
// missing. When record is false no problems are recorded.
func (c *coercer) entity(pn *PortableNode, record bool) (Entity, bool) {
	str := func(key string) string {
		s, _ := pn.Attrs[key].(string)
		return s
	}
	var e Entity
	switch pn.Type {
	case KindPageLink.String():
		if id := str("pageId"); id != "" {
			e = &PageLink{PageID: id, Name: str("name")}
		}
	case KindRecordLink.String():
		if id := str("recordId"); id != "" {
			e = &RecordLink{RecordID: id, TableID: str("tableId"), Name: str("name")}
		}
	case KindRoller.String():
		if expr := str("expression"); expr != "" {
			e = &Roller{Expression: expr}
		}
	case KindFormula.String():
		e = &Formula{Expression: str("expressionText"), FormulaID: str("formulaId")}
	case KindCheckbox.String():
		checked, _ := pn.Attrs["checked"].(bool)
		e = &Checkbox{Checked: checked}
	case KindImage.String():
		if src := str("src"); src != "" {
			e = &Image{Src: src}
		}
	case KindLink.String():
		if text := str("displayText"); text != "" {
			e = &Link{DisplayText: text, Href: str("href")}
		}
	default:
		return nil, false
	}
	if record {
		if e == nil {
			c.addProblem("incomplete %s dropped", pn.Type)
		}
		if len(pn.Content) > 0 {
			c.addProblem("children of void %s dropped", pn.Type)
		}
	}
	return e, true
}
