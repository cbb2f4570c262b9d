package doc

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// markdownParser is a goldmark parser configured for document import.
var markdownParser = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
	),
)

var imageExt = regexp.MustCompile(`(?i)\.(jpeg|jpg|gif|png)(\?|$)`)

// FromMarkdown converts markdown into a document. Links become link entities,
// images image entities and task list boxes checkboxes.
func FromMarkdown(markdown []byte) *Document {
	if len(strings.TrimSpace(string(markdown))) == 0 {
		return New()
	}
	root := markdownParser.Parser().Parse(text.NewReader(markdown))
	c := &mdConverter{source: markdown}
	return FromBlocks(c.convertChildren(root)...)
}

// FromHTML converts pasted HTML into a document via markdown.
func FromHTML(html string) (*Document, error) {
	if strings.TrimSpace(html) == "" {
		return New(), nil
	}
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return New(), err
	}
	return FromMarkdown([]byte(strings.TrimSpace(markdown))), nil
}

// mdConverter holds state during AST conversion.
type mdConverter struct {
	source []byte
}

func (c *mdConverter) convertChildren(n ast.Node) []*Block {
	var blocks []*Block
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		blocks = append(blocks, c.convertNode(child)...)
	}
	return blocks
}

func (c *mdConverter) convertNode(n ast.Node) []*Block {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return c.textBlock(Paragraph, node)
	case *ast.Heading:
		t := Heading3
		switch node.Level {
		case 1:
			t = Heading1
		case 2:
			t = Heading2
		}
		return c.textBlock(t, node)
	case *ast.List:
		return c.convertList(node)
	case *ast.Blockquote:
		var out []*Block
		for _, b := range c.convertChildren(node) {
			if !b.Type.IsList() {
				b.Type = Quote
			}
			out = append(out, b)
		}
		return out
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return []*Block{NewParagraph(&Text{Text: c.lines(node), Marks: Marks{Code: true}})}
	case *extast.Table:
		return c.convertTable(node)
	default:
		return nil
	}
}

func (c *mdConverter) textBlock(t BlockType, n ast.Node) []*Block {
	content := c.convertInlineChildren(n)
	if len(content) == 0 && t == Paragraph {
		return nil
	}
	return []*Block{NewBlock(t, content...)}
}

// convertList flattens nested lists into the outer list; the document has a
// single list level.
func (c *mdConverter) convertList(n *ast.List) []*Block {
	list := &Block{Type: BulletList}
	if n.IsOrdered() {
		list.Type = OrderedList
	}
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if sub, ok := child.(*ast.List); ok {
				for _, b := range c.convertList(sub) {
					list.Children = append(list.Children, b.Children...)
				}
				continue
			}
			for _, b := range c.convertNode(child) {
				if b.Type.IsList() {
					list.Children = append(list.Children, b.Children...)
					continue
				}
				b.Type = ListItem
				list.Children = append(list.Children, b)
			}
		}
	}
	if len(list.Children) == 0 {
		return nil
	}
	return []*Block{list}
}

// convertTable renders each row as a paragraph of cells separated by " | ".
func (c *mdConverter) convertTable(n *extast.Table) []*Block {
	var out []*Block
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var content []Node
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			if len(content) > 0 {
				content = append(content, &Text{Text: " | "})
			}
			content = append(content, c.convertInlineChildren(cell)...)
		}
		if _, header := row.(*extast.TableHeader); header {
			for _, n := range content {
				if t, ok := n.(*Text); ok {
					t.Marks = t.Marks.With(Bold, true)
				}
			}
		}
		out = append(out, NewParagraph(content...))
	}
	return out
}

func (c *mdConverter) lines(n ast.Node) string {
	var code strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(c.source))
	}
	return strings.TrimSuffix(code.String(), "\n")
}

func (c *mdConverter) convertInlineChildren(n ast.Node) []Node {
	var nodes []Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		nodes = append(nodes, c.convertInlineNode(child, nil)...)
	}
	return nodes
}

func (c *mdConverter) convertInlineNode(n ast.Node, marks Marks) []Node {
	switch node := n.(type) {
	case *ast.Text:
		s := string(node.Segment.Value(c.source))
		if node.SoftLineBreak() || node.HardLineBreak() {
			s += " "
		}
		if s == "" {
			return nil
		}
		return []Node{&Text{Text: s, Marks: marks.Clone()}}
	case *ast.String:
		if len(node.Value) == 0 {
			return nil
		}
		return []Node{&Text{Text: string(node.Value), Marks: marks.Clone()}}
	case *ast.Emphasis:
		m := Italic
		if node.Level == 2 {
			m = Bold
		}
		return c.convertMarked(node, marks.With(m, true))
	case *extast.Strikethrough:
		return c.convertMarked(node, marks.With(Strike, true))
	case *ast.CodeSpan:
		var b strings.Builder
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				b.Write(t.Segment.Value(c.source))
			}
		}
		return []Node{&Text{Text: b.String(), Marks: marks.With(Code, true)}}
	case *ast.Link:
		href := string(node.Destination)
		label := c.plain(node)
		if label == "" {
			label = href
		}
		if imageExt.MatchString(href) && label == href {
			return []Node{&Image{Src: href}}
		}
		if label == href {
			href = ""
		}
		return []Node{&Link{DisplayText: label, Href: href}}
	case *ast.AutoLink:
		url := string(node.URL(c.source))
		if imageExt.MatchString(url) {
			return []Node{&Image{Src: url}}
		}
		return []Node{&Link{DisplayText: url}}
	case *ast.Image:
		return []Node{&Image{Src: string(node.Destination)}}
	case *extast.TaskCheckBox:
		return []Node{&Checkbox{Checked: node.IsChecked}}
	case *ast.RawHTML:
		return nil
	default:
		return c.convertMarked(n, marks)
	}
}

func (c *mdConverter) convertMarked(n ast.Node, marks Marks) []Node {
	var nodes []Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		nodes = append(nodes, c.convertInlineNode(child, marks)...)
	}
	return nodes
}

// plain returns the text content of n without formatting.
func (c *mdConverter) plain(n ast.Node) string {
	var b strings.Builder
	for _, child := range c.convertMarked(n, nil) {
		if t, ok := child.(*Text); ok {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}
