package page

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/cmd/completion"
	"github.com/open-cli-collective/lore-cli/internal/view"
)

type listOptions struct {
	parent string
}

// NewCmdList creates the page list command.
func NewCmdList() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List pages",
		Long:    `List pages with their ancestor path.`,
		Example: `  # List all pages
  lore page list

  # List the children of a page
  lore page list --parent 6f1c...

  # Output as JSON
  lore page list -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, done, err := cmdutil.Setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runList(cmd.Context(), opts, deps)
		},
	}

	cmd.Flags().StringVarP(&opts.parent, "parent", "p", "", "Only list children of this page")
	_ = cmd.RegisterFlagCompletionFunc("parent", completion.PageFlag)

	return cmd
}

func runList(ctx context.Context, opts *listOptions, deps *cmdutil.Deps) error {
	pages, err := deps.Store.ListPages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}

	renderer := deps.Renderer()
	dir := deps.Store.Pages()

	headers := []string{"ID", "NAME", "PATH"}
	var rows [][]string
	for _, page := range pages {
		if opts.parent != "" && page.ParentID != opts.parent {
			continue
		}
		rows = append(rows, []string{
			page.ID,
			view.Truncate(page.Name, 60),
			strings.Join(dir.PathNames(page.ID), "/"),
		})
	}

	if len(rows) == 0 && deps.Format() != view.FormatJSON {
		renderer.RenderText("No pages found.")
		return nil
	}
	renderer.RenderTable(headers, rows)
	return nil
}
