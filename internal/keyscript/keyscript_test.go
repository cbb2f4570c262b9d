package keyscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/lore-cli/pkg/doc"
	"github.com/open-cli-collective/lore-cli/pkg/editor"
	"github.com/open-cli-collective/lore-cli/pkg/keymap"
)

func keys(s ...string) []keymap.KeyEvent {
	var out []keymap.KeyEvent
	for _, k := range s {
		out = append(out, keymap.KeyEvent{Key: k})
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []keymap.KeyEvent
	}{
		{"literal text", "hé!", keys("h", "é", "!")},
		{"named keys", "<Enter><backspace><Esc><Up><Down><Left><Right>", keys(
			keymap.KeyEnter, keymap.KeyBackspace, keymap.KeyEscape,
			keymap.KeyUp, keymap.KeyDown, keymap.KeyLeft, keymap.KeyRight,
		)},
		{"shift enter", "<Shift-Enter>", []keymap.KeyEvent{{Key: keymap.KeyEnter, Shift: true}}},
		{"mod shortcut", "<Mod-b>", []keymap.KeyEvent{{Key: "b", Mod: true}}},
		{"mod shift", "<Mod-Shift-Z>", []keymap.KeyEvent{{Key: "z", Mod: true, Shift: true}}},
		{"mod digit", "<Ctrl-1>", []keymap.KeyEvent{{Key: "1", Mod: true}}},
		{"mod gt", "<Mod->>", []keymap.KeyEvent{{Key: ">", Mod: true}}},
		{"escaped lt", "a<lt>b", keys("a", "<", "b")},
		{"stray lt", "a < b", keys("a", " ", "<", " ", "b")},
		{"stray lt before tag", "1<2<Enter>", append(keys("1", "<", "2"), keymap.KeyEvent{Key: keymap.KeyEnter})},
		{"newline presses enter", "a\r\nb", append(append(keys("a"), keymap.KeyEvent{Key: keymap.KeyEnter}), keys("b")...)},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.script)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		errMsg string
	}{
		{"unknown name", "ok<Home>", "position 2"},
		{"bare character tag", "<x>", "<x>"},
		{"unknown modifier", "<Hyper-x>", "modifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.script)
			require.ErrorIs(t, err, ErrUnknownKey)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestReplayThroughKeymap(t *testing.T) {
	events, err := Parse("* <Mod-b>gold<Mod-b> coins<Enter>roll 2d6 ")
	require.NoError(t, err)

	s := editor.New(nil)
	for _, ev := range events {
		keymap.Dispatch(s, ev)
	}
	md := s.Document().ToMarkdown(doc.RenderOptions{})
	assert.Contains(t, md, "- **gold** coins")
	assert.Contains(t, md, "2d6")
}
