package page

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil/cmdutiltest"
	"github.com/open-cli-collective/lore-cli/internal/keyscript"
	"github.com/open-cli-collective/lore-cli/pkg/doc"
)

func TestRunEdit_ListShortcut(t *testing.T) {
	deps, out := cmdutiltest.New(t)
	ctx := context.Background()
	page := seedPage(t, deps, "Packing", nil)

	require.NoError(t, runEdit(ctx, page.ID, &editOptions{keys: "* rope<Enter>lantern"}, deps))
	assert.Contains(t, out.String(), "Updated page: Packing")

	d, err := deps.Store.Load(ctx, page.ID)
	require.NoError(t, err)
	blocks := d.Blocks()
	require.Len(t, blocks, 1)
	require.Equal(t, doc.BulletList, blocks[0].Type)
	require.Len(t, blocks[0].Children, 2)
	assert.Equal(t, "rope", doc.PlainText(blocks[0].Children[0].(*doc.Block)))
	assert.Equal(t, "lantern", doc.PlainText(blocks[0].Children[1].(*doc.Block)))
}

func TestRunEdit_AppendsAtEnd(t *testing.T) {
	deps, _ := cmdutiltest.New(t)
	ctx := context.Background()
	page := seedPage(t, deps, "Notes", doc.FromBlocks(doc.NewParagraph(&doc.Text{Text: "first"})))

	require.NoError(t, runEdit(ctx, page.ID, &editOptions{keys: "<Enter>second"}, deps))

	d, err := deps.Store.Load(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, d.Blocks(), 2)
	assert.Equal(t, "first", doc.PlainText(d.Blocks()[0]))
	assert.Equal(t, "second", doc.PlainText(d.Blocks()[1]))
}

func TestRunEdit_PageReference(t *testing.T) {
	deps, _ := cmdutiltest.New(t)
	ctx := context.Background()
	tavern := seedPage(t, deps, "Tavern", nil)
	page := seedPage(t, deps, "Session", nil)

	require.NoError(t, runEdit(ctx, page.ID, &editOptions{keys: "meet at #tav<Enter>"}, deps))

	d, err := deps.Store.Load(ctx, page.ID)
	require.NoError(t, err)
	refs := d.Entities()
	require.Len(t, refs, 1)
	assert.Equal(t, &doc.PageLink{PageID: tavern.ID, Name: "Tavern"}, refs[0].Entity)
	assert.Len(t, d.Blocks(), 1, "committing the popup does not split the block")
}

func TestRunEdit_KeysFileAndShow(t *testing.T) {
	deps, out := cmdutiltest.New(t)
	ctx := context.Background()
	page := seedPage(t, deps, "Notes", nil)

	path := filepath.Join(t.TempDir(), "notes.keys")
	require.NoError(t, os.WriteFile(path, []byte("<Mod-1>Loot\nroll 2d6 "), 0600))

	require.NoError(t, runEdit(ctx, page.ID, &editOptions{keysFile: path, show: true}, deps))
	output := out.String()
	assert.Contains(t, output, "# Loot")
	assert.Contains(t, output, "roll `2d6`")
}

func TestRunEdit_Errors(t *testing.T) {
	tests := []struct {
		name   string
		pageID string
		opts   *editOptions
		target error
		errMsg string
	}{
		{"no script", "", &editOptions{}, nil, "a key script is required"},
		{"bad tag", "", &editOptions{keys: "<Home>"}, keyscript.ErrUnknownKey, "invalid key script"},
		{"missing file", "", &editOptions{keysFile: "/nonexistent/keys"}, nil, "failed to read key script"},
		{"missing page", "missing", &editOptions{keys: "x"}, nil, "failed to get page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, _ := cmdutiltest.New(t)
			err := runEdit(context.Background(), tt.pageID, tt.opts, deps)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}
