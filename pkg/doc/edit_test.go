package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertInlineAt(t *testing.T) {
	d := FromBlocks(NewParagraph(&Text{Text: "abcd"}))
	p, err := d.InsertInlineAt(Point{Path: Path{0, 0}, Offset: 2}, &Roller{Expression: "1d6"})
	require.NoError(t, err)
	checkInvariants(t, d)
	b := d.Blocks()[0]
	require.Len(t, b.Children, 3)
	assert.Equal(t, &Roller{Expression: "1d6"}, b.Children[1])
	assert.Equal(t, Point{Path: Path{0, 2}, Offset: 0}, p)

	p, err = d.InsertInlineAt(p, &Text{Text: "X", Marks: Marks{Italic: true}})
	require.NoError(t, err)
	checkInvariants(t, d)
	assert.Equal(t, Point{Path: Path{0, 2}, Offset: 1}, p)

	_, err = d.InsertInlineAt(p, NewParagraph())
	assert.ErrorIs(t, err, ErrInvalidNode)
	_, err = d.InsertInlineAt(Point{Path: Path{0, 1}}, &Checkbox{})
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestInsertTextAt(t *testing.T) {
	d := FromBlocks(NewParagraph(&Text{Text: "ac"}))
	p, err := d.InsertTextAt(Point{Path: Path{0, 0}, Offset: 1}, "b")
	require.NoError(t, err)
	assert.Equal(t, "abc", PlainText(d.Blocks()[0]))
	assert.Equal(t, 2, p.Offset)

	_, err = d.InsertTextAt(Point{Path: Path{0, 0}, Offset: 9}, "x")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestDeleteRangeAcrossLists(t *testing.T) {
	d := FromBlocks(
		NewParagraph(&Text{Text: "intro"}),
		&Block{Type: BulletList, Children: []Node{
			NewBlock(ListItem, &Text{Text: "one"}),
			NewBlock(ListItem, &Text{Text: "two"}),
		}},
		NewParagraph(&Text{Text: "outro"}),
	)
	p, err := d.DeleteRange(Point{Path: Path{0, 0}, Offset: 2}, Point{Path: Path{1, 1, 0}, Offset: 1})
	require.NoError(t, err)
	checkInvariants(t, d)
	blocks := d.Blocks()
	require.Len(t, blocks, 2, "the emptied list is gone")
	assert.Equal(t, "inwo", PlainText(blocks[0]))
	assert.Equal(t, Point{Path: Path{0, 0}, Offset: 2}, p)
}

func TestDeleteRangeReversedAndEmpty(t *testing.T) {
	d := FromBlocks(NewParagraph(&Text{Text: "a"}, &Link{DisplayText: "https://x.test"}, &Text{Text: "b"}))
	p, err := d.DeleteRange(Point{Path: Path{0, 2}, Offset: 1}, Point{Path: Path{0, 0}, Offset: 0})
	require.NoError(t, err)
	assert.True(t, d.IsEmpty())
	assert.Equal(t, d.Start(), p)

	p, err = d.DeleteRange(p, p)
	require.NoError(t, err)
	assert.Equal(t, d.Start(), p)
}

func TestSetMarksAndMarkActive(t *testing.T) {
	d := FromBlocks(
		NewParagraph(&Text{Text: "alpha"}),
		NewParagraph(&Text{Text: "beta"}, &Checkbox{}, &Text{Text: "gamma"}),
	)
	start := Point{Path: Path{0, 0}, Offset: 2}
	end := Point{Path: Path{1, 2}, Offset: 2}
	assert.False(t, d.MarkActive(start, end, Bold))

	require.NoError(t, d.SetMarks(start, end, Bold, true))
	checkInvariants(t, d)
	first := d.Blocks()[0]
	require.Len(t, first.Children, 2)
	assert.Equal(t, &Text{Text: "pha", Marks: Marks{Bold: true}}, first.Children[1])
	second := d.Blocks()[1]
	require.Len(t, second.Children, 4)
	assert.Equal(t, &Text{Text: "beta", Marks: Marks{Bold: true}}, second.Children[0])
	assert.Equal(t, &Text{Text: "ga", Marks: Marks{Bold: true}}, second.Children[2])
	assert.Equal(t, &Text{Text: "mma"}, second.Children[3])

	s, _ := d.Locate(start)
	e, _ := d.Locate(end)
	start, end = d.Resolve(s, Forward), d.Resolve(e, Backward)
	assert.True(t, d.MarkActive(start, end, Bold))

	require.NoError(t, d.SetMarks(start, end, Bold, false))
	checkInvariants(t, d)
	assert.Equal(t, []Node{&Text{Text: "alpha"}}, d.Blocks()[0].Children)
	assert.Len(t, d.Blocks()[1].Children, 3)

	assert.ErrorIs(t, d.SetMarks(start, end, Mark("underline"), true), ErrInvalidProps)
}

func TestMarkActiveOverEntitiesOnly(t *testing.T) {
	d := FromBlocks(NewParagraph(&Checkbox{}))
	assert.False(t, d.MarkActive(d.Start(), d.End(), Bold))
}

func TestUnwrapListItem(t *testing.T) {
	tests := []struct {
		name  string
		item  int
		types []BlockType
		path  Path
	}{
		{"first", 0, []BlockType{Paragraph, OrderedList}, Path{0}},
		{"middle", 1, []BlockType{OrderedList, Paragraph, OrderedList}, Path{1}},
		{"last", 2, []BlockType{OrderedList, Paragraph}, Path{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := FromBlocks(&Block{Type: OrderedList, Children: []Node{
				NewBlock(ListItem, &Text{Text: "a"}),
				NewBlock(ListItem, &Text{Text: "b"}),
				NewBlock(ListItem, &Text{Text: "c"}),
			}})
			p, err := d.UnwrapListItem(Path{0, tt.item})
			require.NoError(t, err)
			checkInvariants(t, d)
			assert.Equal(t, tt.path, p)
			var got []BlockType
			for _, b := range d.Blocks() {
				got = append(got, b.Type)
			}
			assert.Equal(t, tt.types, got)
		})
	}

	d := FromBlocks(NewParagraph())
	_, err := d.UnwrapListItem(Path{0})
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestUnwrapOnlyItemRemovesList(t *testing.T) {
	d := FromBlocks(&Block{Type: BulletList, Children: []Node{NewBlock(ListItem, &Text{Text: "a"})}})
	_, err := d.UnwrapListItem(Path{0, 0})
	require.NoError(t, err)
	blocks := d.Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, Paragraph, blocks[0].Type)
}

func TestWrapList(t *testing.T) {
	d := FromBlocks(
		NewBlock(Heading1, &Text{Text: "h"}),
		&Block{Type: Callout, Color: "red", Children: []Node{&Text{Text: "c"}}},
		NewParagraph(&Text{Text: "p"}),
	)
	require.NoError(t, d.WrapList(0, 2, BulletList))
	checkInvariants(t, d)
	blocks := d.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, BulletList, blocks[0].Type)
	assert.Len(t, blocks[0].Children, 2)
	assert.Equal(t, "", blocks[0].Children[1].(*Block).Color)

	assert.ErrorIs(t, d.WrapList(0, 2, BulletList), ErrInvalidNode)
	assert.ErrorIs(t, d.WrapList(0, 1, Quote), ErrInvalidProps)
	assert.ErrorIs(t, d.WrapList(1, 5, BulletList), ErrInvalidPath)
	assert.Equal(t, BulletList, d.Blocks()[0].Type, "failed wrap leaves the tree alone")
}
