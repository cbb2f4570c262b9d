package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/lore-cli/pkg/doc"
	"github.com/open-cli-collective/lore-cli/pkg/editor"
	"github.com/open-cli-collective/lore-cli/pkg/recognize"
)

func TestResolve(t *testing.T) {
	para := Context{BlockType: doc.Paragraph, Collapsed: true}
	atStart := Context{BlockType: doc.Paragraph, Collapsed: true, AtBlockStart: true}
	listStart := Context{BlockType: doc.ListItem, InList: true, Collapsed: true, AtBlockStart: true}
	headingStart := Context{BlockType: doc.Heading2, Collapsed: true, AtBlockStart: true}
	empty := Context{BlockType: doc.Paragraph, Collapsed: true, AtBlockStart: true, Empty: true}
	emptyHeading := Context{BlockType: doc.Heading1, Collapsed: true, AtBlockStart: true, Empty: true}
	emptyList := Context{BlockType: doc.ListItem, InList: true, Collapsed: true, AtBlockStart: true, Empty: true}

	tests := []struct {
		name  string
		ev    KeyEvent
		state recognize.State
		ctx   Context
		want  Command
	}{
		{"enter splits", KeyEvent{Key: KeyEnter}, recognize.Idle, para, Command{Action: ActionSplitBlock}},
		{"enter commits when matched", KeyEvent{Key: KeyEnter}, recognize.Matched, para, Command{Action: ActionCommit}},
		{"enter at list item start stays", KeyEvent{Key: KeyEnter}, recognize.Idle, listStart, Command{Action: ActionNone}},
		{"shift enter", KeyEvent{Key: KeyEnter, Shift: true}, recognize.Matched, para, Command{Action: ActionNext}},
		{"backspace mid block", KeyEvent{Key: KeyBackspace}, recognize.Idle, para, Command{Action: ActionDeleteBackward}},
		{"backspace list start", KeyEvent{Key: KeyBackspace}, recognize.Idle, listStart, Command{Action: ActionUnwrapList}},
		{"backspace heading start", KeyEvent{Key: KeyBackspace}, recognize.Idle, headingStart, Command{Action: ActionResetBlock}},
		{"backspace empty doc", KeyEvent{Key: KeyBackspace}, recognize.Idle, empty, Command{Action: ActionDeleteRegion}},
		{"backspace empty heading", KeyEvent{Key: KeyBackspace}, recognize.Idle, emptyHeading, Command{Action: ActionResetDeleteRegion}},
		{"backspace empty list", KeyEvent{Key: KeyBackspace}, recognize.Idle, emptyList, Command{Action: ActionResetDeleteRegion}},
		{"backspace paragraph start", KeyEvent{Key: KeyBackspace}, recognize.Idle, atStart, Command{Action: ActionDeleteBackward}},
		{"space", KeyEvent{Key: KeySpace}, recognize.Idle, para, Command{Action: ActionCompleteWord}},
		{"up matched", KeyEvent{Key: KeyUp}, recognize.Matched, para, Command{Action: ActionCandidateUp}},
		{"down matched", KeyEvent{Key: KeyDown}, recognize.Matched, para, Command{Action: ActionCandidateDown}},
		{"down idle", KeyEvent{Key: KeyDown}, recognize.Idle, para, Command{Action: ActionNone}},
		{"left", KeyEvent{Key: KeyLeft}, recognize.Idle, para, Command{Action: ActionMoveLeft}},
		{"right", KeyEvent{Key: KeyRight}, recognize.Idle, para, Command{Action: ActionMoveRight}},
		{"escape", KeyEvent{Key: KeyEscape}, recognize.Matched, para, Command{Action: ActionBlur}},
		{"printable", KeyEvent{Key: "é"}, recognize.Idle, para, Command{Action: ActionInsertText, Text: "é"}},
		{"unknown named key", KeyEvent{Key: "F5"}, recognize.Idle, para, Command{Action: ActionNone}},
		{"mod 1", KeyEvent{Key: "1", Mod: true}, recognize.Idle, para, Command{Action: ActionSetBlockType, BlockType: doc.Heading1}},
		{"mod 2", KeyEvent{Key: "2", Mod: true}, recognize.Idle, para, Command{Action: ActionSetBlockType, BlockType: doc.Heading2}},
		{"mod 3", KeyEvent{Key: "3", Mod: true}, recognize.Idle, para, Command{Action: ActionSetBlockType, BlockType: doc.Heading3}},
		{"mod p", KeyEvent{Key: "p", Mod: true}, recognize.Idle, para, Command{Action: ActionSetBlockType, BlockType: doc.Callout}},
		{"mod q", KeyEvent{Key: "q", Mod: true}, recognize.Idle, para, Command{Action: ActionSetBlockType, BlockType: doc.Quote}},
		{"mod b", KeyEvent{Key: "b", Mod: true}, recognize.Idle, para, Command{Action: ActionToggleMark, Mark: doc.Bold}},
		{"mod i", KeyEvent{Key: "i", Mod: true}, recognize.Idle, para, Command{Action: ActionToggleMark, Mark: doc.Italic}},
		{"mod z", KeyEvent{Key: "z", Mod: true}, recognize.Idle, para, Command{Action: ActionUndo}},
		{"mod shift z", KeyEvent{Key: "z", Mod: true, Shift: true}, recognize.Idle, para, Command{Action: ActionRedo}},
		{"mod y", KeyEvent{Key: "y", Mod: true}, recognize.Idle, para, Command{Action: ActionRedo}},
		{"mod unbound", KeyEvent{Key: "k", Mod: true}, recognize.Idle, para, Command{Action: ActionNone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.ev, tt.state, tt.ctx))
		})
	}
}

type pages struct{}

func (pages) LookupByPrefix(string) []recognize.PageRef {
	return []recognize.PageRef{{ID: "p1", Name: "Tavern"}, {ID: "p2", Name: "Tower"}}
}

func (pages) ResolvePath(string) []string { return nil }
func (pages) PageName(string) string      { return "" }

func typeText(s *editor.Session, text string) {
	for _, r := range text {
		Dispatch(s, KeyEvent{Key: string(r)})
	}
}

func TestDispatchTypingAndAutolink(t *testing.T) {
	s := editor.New(nil)
	typeText(s, "roll 2d6 now")
	b := s.Document().Blocks()[0]
	require.Len(t, b.Children, 3)
	assert.Equal(t, &doc.Text{Text: "roll "}, b.Children[0])
	assert.Equal(t, &doc.Roller{Expression: "2d6"}, b.Children[1])
	assert.Equal(t, &doc.Text{Text: " now"}, b.Children[2])
}

func TestDispatchListShortcut(t *testing.T) {
	s := editor.New(nil)
	typeText(s, "* loot")
	blocks := s.Document().Blocks()
	require.Len(t, blocks, 1)
	require.Equal(t, doc.BulletList, blocks[0].Type)
	assert.Equal(t, "loot", doc.PlainText(blocks[0].Children[0].(*doc.Block)))

	Dispatch(s, KeyEvent{Key: KeyEnter})
	blocks = s.Document().Blocks()
	require.Len(t, blocks[0].Children, 2)

	// Enter on an empty item at its start keeps the caret in place.
	Dispatch(s, KeyEvent{Key: KeyEnter})
	require.Len(t, s.Document().Blocks()[0].Children, 2)

	// Backspace at the start of a list item lifts it out of the list.
	Dispatch(s, KeyEvent{Key: KeyBackspace})
	blocks = s.Document().Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, doc.BulletList, blocks[0].Type)
	assert.Equal(t, doc.Paragraph, blocks[1].Type)
}

func TestDispatchPopup(t *testing.T) {
	s := editor.New(nil, editor.WithRegistry(recognize.DefaultRegistry(pages{}, nil)))
	typeText(s, "go #t")
	require.Equal(t, recognize.Matched, s.Engine().State())
	require.Len(t, s.Engine().Candidates(), 2)

	Dispatch(s, KeyEvent{Key: KeyDown})
	assert.Equal(t, 1, s.Engine().Index())
	Dispatch(s, KeyEvent{Key: KeyDown})
	assert.Equal(t, 1, s.Engine().Index())
	Dispatch(s, KeyEvent{Key: KeyUp})
	assert.Equal(t, 0, s.Engine().Index())

	want := s.Engine().Candidates()[0].Entity
	Dispatch(s, KeyEvent{Key: KeyEnter})
	b := s.Document().Blocks()
	require.Len(t, b, 1, "commit does not split the block")
	assert.Equal(t, want, b[0].Children[1])
}

func TestDispatchEscapeBlursPopup(t *testing.T) {
	s := editor.New(nil, editor.WithRegistry(recognize.DefaultRegistry(pages{}, nil)))
	typeText(s, "#t")
	require.Equal(t, recognize.Matched, s.Engine().State())
	Dispatch(s, KeyEvent{Key: KeyEscape})
	assert.Equal(t, recognize.Idle, s.Engine().State())

	Dispatch(s, KeyEvent{Key: KeyEnter})
	assert.Len(t, s.Document().Blocks(), 2, "enter splits once the popup is closed")
}

func TestDispatchBackspaceHooks(t *testing.T) {
	deleted := 0
	next := 0
	s := editor.New(nil, editor.WithHooks(editor.Hooks{
		OnDeleteRegion: func() { deleted++ },
		OnNext:         func() { next++ },
	}))
	Dispatch(s, KeyEvent{Key: KeyBackspace})
	assert.Equal(t, 1, deleted)

	Dispatch(s, KeyEvent{Key: KeyEnter, Shift: true})
	assert.Equal(t, 1, next)

	Dispatch(s, KeyEvent{Key: "1", Mod: true})
	require.Equal(t, doc.Heading1, s.Document().Blocks()[0].Type)
	Dispatch(s, KeyEvent{Key: KeyBackspace})
	assert.Equal(t, doc.Paragraph, s.Document().Blocks()[0].Type)
	assert.Equal(t, 2, deleted, "one backspace resets the empty heading and deletes the region")

	typeText(s, "x")
	Dispatch(s, KeyEvent{Key: "2", Mod: true})
	Dispatch(s, KeyEvent{Key: KeyLeft})
	Dispatch(s, KeyEvent{Key: KeyBackspace})
	assert.Equal(t, doc.Paragraph, s.Document().Blocks()[0].Type, "a heading with text only resets")
	assert.Equal(t, 2, deleted)
}

func TestDispatchUndoRedo(t *testing.T) {
	s := editor.New(nil, editor.WithHistory(0))
	typeText(s, "abc")
	Dispatch(s, KeyEvent{Key: "z", Mod: true})
	assert.True(t, s.Document().IsEmpty())
	Dispatch(s, KeyEvent{Key: "z", Mod: true, Shift: true})
	assert.Equal(t, "abc", doc.PlainText(s.Document().Blocks()[0]))
}

func TestDispatchBoldTyping(t *testing.T) {
	s := editor.New(nil)
	typeText(s, "a")
	Dispatch(s, KeyEvent{Key: "b", Mod: true})
	typeText(s, "b")
	b := s.Document().Blocks()[0]
	require.Len(t, b.Children, 2)
	assert.Equal(t, &doc.Text{Text: "b", Marks: doc.Marks{doc.Bold: true}}, b.Children[1])
}
