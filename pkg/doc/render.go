// render.go provides functions to render documents as markdown and plain text.
package doc

import (
	"fmt"
	"strings"
)

// RenderOptions customises entity rendering.
type RenderOptions struct {
	// Formula renders a formula's display value. Defaults to the expression.
	Formula func(f *Formula) string
}

// ToMarkdown renders the document as markdown.
func (d *Document) ToMarkdown(opts RenderOptions) string {
	var sb strings.Builder
	for i, b := range d.Blocks() {
		if i > 0 {
			sb.WriteString("\n")
		}
		if b.Type.IsList() {
			for j, child := range b.Children {
				item := child.(*Block)
				if b.Type == OrderedList {
					fmt.Fprintf(&sb, "%d. ", j+1)
				} else {
					sb.WriteString("- ")
				}
				sb.WriteString(renderInline(item.Children, opts))
				sb.WriteString("\n")
			}
			continue
		}
		sb.WriteString(blockPrefix(b))
		sb.WriteString(renderInline(b.Children, opts))
		sb.WriteString("\n")
	}
	return sb.String()
}

// PlainText returns the text content of a block with entities rendered as
// their labels.
func PlainText(b *Block) string {
	var sb strings.Builder
	for _, n := range b.Children {
		switch n := n.(type) {
		case *Text:
			sb.WriteString(n.Text)
		case *Block:
			sb.WriteString(PlainText(n))
		default:
			sb.WriteString(EntityLabel(n.(Entity)))
		}
	}
	return sb.String()
}

// EntityLabel returns the short human label of an entity.
func EntityLabel(e Entity) string {
	switch e := e.(type) {
	case *PageLink:
		return "#" + nonEmpty(e.Name, e.PageID)
	case *RecordLink:
		return "@" + nonEmpty(e.Name, e.RecordID)
	case *Roller:
		return e.Expression
	case *Formula:
		return "$(" + e.Expression + ")"
	case *Checkbox:
		if e.Checked {
			return "[x]"
		}
		return "[ ]"
	case *Image:
		return e.Src
	case *Link:
		return e.DisplayText
	}
	return ""
}

func blockPrefix(b *Block) string {
	switch b.Type {
	case Heading1:
		return "# "
	case Heading2:
		return "## "
	case Heading3:
		return "### "
	case Quote:
		return "> "
	case Callout:
		return "> [!" + strings.ToUpper(nonEmpty(b.Color, CalloutColors[0])) + "] "
	case ListItem:
		return "- "
	}
	return ""
}

func renderInline(children []Node, opts RenderOptions) string {
	var sb strings.Builder
	for _, n := range children {
		switch n := n.(type) {
		case *Text:
			sb.WriteString(renderRun(n))
		case *PageLink:
			fmt.Fprintf(&sb, "[%s](lore://page/%s)", nonEmpty(n.Name, n.PageID), n.PageID)
		case *RecordLink:
			fmt.Fprintf(&sb, "[%s](lore://record/%s)", nonEmpty(n.Name, n.RecordID), n.RecordID)
		case *Roller:
			fmt.Fprintf(&sb, "`%s`", n.Expression)
		case *Formula:
			if opts.Formula != nil {
				sb.WriteString(opts.Formula(n))
			} else {
				fmt.Fprintf(&sb, "`$(%s)`", n.Expression)
			}
		case *Checkbox:
			sb.WriteString(EntityLabel(n))
		case *Image:
			fmt.Fprintf(&sb, "![](%s)", n.Src)
		case *Link:
			if n.Href == "" || n.Href == n.DisplayText {
				fmt.Fprintf(&sb, "<%s>", n.DisplayText)
			} else {
				fmt.Fprintf(&sb, "[%s](%s)", n.DisplayText, n.Href)
			}
		}
	}
	return sb.String()
}

// renderRun wraps a text run in its mark delimiters.
func renderRun(t *Text) string {
	if t.Text == "" {
		return ""
	}
	s := t.Text
	if t.Marks.Has(Code) {
		s = "`" + s + "`"
	}
	if t.Marks.Has(Strike) {
		s = "~~" + s + "~~"
	}
	if t.Marks.Has(Italic) {
		s = "_" + s + "_"
	}
	if t.Marks.Has(Bold) {
		s = "**" + s + "**"
	}
	return s
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
