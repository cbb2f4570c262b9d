package page

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil/cmdutiltest"
	"github.com/open-cli-collective/lore-cli/internal/store"
)

func TestRunCreate(t *testing.T) {
	deps, out := cmdutiltest.New(t)
	ctx := context.Background()

	err := runCreate(ctx, &createOptions{name: "World"}, deps)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Created page: World")

	pages, err := deps.Store.ListPages(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "World", pages[0].Name)
}

func TestRunCreate_WithParent(t *testing.T) {
	deps, out := cmdutiltest.New(t)
	ctx := context.Background()
	parent, err := deps.Store.CreatePage(ctx, "World", "")
	require.NoError(t, err)

	deps.WithOutput("json", true)
	require.NoError(t, runCreate(ctx, &createOptions{name: "City", parent: parent.ID}, deps))

	var page store.Page
	require.NoError(t, json.Unmarshal(out.Bytes(), &page))
	assert.Equal(t, "City", page.Name)
	assert.Equal(t, parent.ID, page.ParentID)
}

func TestRunCreate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		opts   *createOptions
		errMsg string
	}{
		{"empty name", &createOptions{name: "  "}, "page name is required"},
		{"missing parent", &createOptions{name: "City", parent: "nope"}, "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, _ := cmdutiltest.New(t)
			err := runCreate(context.Background(), tt.opts, deps)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
