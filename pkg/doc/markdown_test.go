package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, d *Document)
	}{
		{
			name:  "empty",
			input: "  \n",
			check: func(t *testing.T, d *Document) { assert.True(t, d.IsEmpty()) },
		},
		{
			name:  "headings",
			input: "# One\n\n## Two\n\n#### Four",
			check: func(t *testing.T, d *Document) {
				blocks := d.Blocks()
				require.Len(t, blocks, 3)
				assert.Equal(t, Heading1, blocks[0].Type)
				assert.Equal(t, Heading2, blocks[1].Type)
				assert.Equal(t, Heading3, blocks[2].Type)
			},
		},
		{
			name:  "marks",
			input: "**bold** _it_ ~~gone~~ `code`",
			check: func(t *testing.T, d *Document) {
				runs := d.Blocks()[0].Children
				assert.True(t, runs[0].(*Text).Marks.Has(Bold))
				assert.True(t, runs[2].(*Text).Marks.Has(Italic))
				assert.True(t, runs[4].(*Text).Marks.Has(Strike))
				assert.True(t, runs[6].(*Text).Marks.Has(Code))
			},
		},
		{
			name:  "ordered list",
			input: "1. one\n2. two\n   - nested",
			check: func(t *testing.T, d *Document) {
				b := d.Blocks()[0]
				assert.Equal(t, OrderedList, b.Type)
				assert.Len(t, b.Children, 3)
			},
		},
		{
			name:  "task list",
			input: "- [x] done\n- [ ] open",
			check: func(t *testing.T, d *Document) {
				refs := d.Entities()
				require.Len(t, refs, 2)
				assert.True(t, refs[0].Entity.(*Checkbox).Checked)
				assert.False(t, refs[1].Entity.(*Checkbox).Checked)
			},
		},
		{
			name:  "links and images",
			input: "see [docs](https://example.com) and <https://x.test/map.png> ![](https://x.test/b.gif)",
			check: func(t *testing.T, d *Document) {
				refs := d.Entities()
				require.Len(t, refs, 3)
				assert.Equal(t, &Link{DisplayText: "docs", Href: "https://example.com"}, refs[0].Entity)
				assert.Equal(t, &Image{Src: "https://x.test/map.png"}, refs[1].Entity)
				assert.Equal(t, &Image{Src: "https://x.test/b.gif"}, refs[2].Entity)
			},
		},
		{
			name:  "blockquote",
			input: "> quoted",
			check: func(t *testing.T, d *Document) {
				assert.Equal(t, Quote, d.Blocks()[0].Type)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := FromMarkdown([]byte(tt.input))
			checkInvariants(t, d)
			tt.check(t, d)
		})
	}
}

func TestFromHTML(t *testing.T) {
	d, err := FromHTML("<h2>Loot</h2><ul><li><strong>sword</strong></li><li>shield</li></ul>")
	require.NoError(t, err)
	checkInvariants(t, d)
	blocks := d.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, Heading2, blocks[0].Type)
	assert.Equal(t, BulletList, blocks[1].Type)
	assert.Len(t, blocks[1].Children, 2)

	empty, err := FromHTML("   ")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}

func TestToMarkdown(t *testing.T) {
	d := FromBlocks(
		NewBlock(Heading2, &Text{Text: "Loot"}),
		NewParagraph(&Text{Text: "gold", Marks: Marks{Bold: true}}, &Roller{Expression: "3d6"}, &Text{}),
		&Block{Type: OrderedList, Children: []Node{
			NewBlock(ListItem, &Text{Text: "a"}),
			NewBlock(ListItem, &Formula{Expression: "2*3"}),
		}},
		&Block{Type: Callout, Children: []Node{&Text{Text: "note"}}},
	)
	got := d.ToMarkdown(RenderOptions{Formula: func(f *Formula) string { return "6" }})
	assert.Equal(t, "## Loot\n\n**gold**`3d6`\n\n1. a\n2. 6\n\n> [!GRAY] note\n", got)
}
