package page

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/cmd/completion"
	"github.com/open-cli-collective/lore-cli/internal/view"
)

type copyOptions struct {
	name     string
	parent   string
	toplevel bool
}

// NewCmdCopy creates the page copy command.
func NewCmdCopy() *cobra.Command {
	opts := &copyOptions{}

	cmd := &cobra.Command{
		Use:   "copy <page-id>",
		Short: "Copy a page",
		Long:  `Create a copy of a page and its content with a new name.`,
		Example: `  # Copy a page next to the original
  lore page copy 6f1c... --name "Session 4"

  # Copy under another parent
  lore page copy 6f1c... --name "Cellar" --parent 9a2b...`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.PageIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, done, err := cmdutil.Setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runCopy(cmd.Context(), args[0], opts, deps)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Name for the copied page (required)")
	cmd.Flags().StringVarP(&opts.parent, "parent", "p", "", "Parent page ID (default: same parent)")
	_ = cmd.RegisterFlagCompletionFunc("parent", completion.PageFlag)
	cmd.Flags().BoolVar(&opts.toplevel, "top-level", false, "Place the copy at the top level")
	cmd.MarkFlagsMutuallyExclusive("parent", "top-level")

	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runCopy(ctx context.Context, pageID string, opts *copyOptions, deps *cmdutil.Deps) error {
	source, err := deps.Store.GetPage(ctx, pageID)
	if err != nil {
		return fmt.Errorf("failed to get source page: %w", err)
	}
	d, err := deps.Store.Load(ctx, source.ID)
	if err != nil {
		return fmt.Errorf("failed to load source page: %w", err)
	}

	parent := opts.parent
	if parent == "" && !opts.toplevel {
		parent = source.ParentID
	}
	page, err := deps.Store.CreatePage(ctx, opts.name, parent)
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	if err := deps.Store.Save(ctx, page.ID, d.Clone()); err != nil {
		return fmt.Errorf("failed to save page: %w", err)
	}

	renderer := deps.Renderer()
	if deps.Format() == view.FormatJSON {
		return renderer.RenderJSON(page)
	}
	renderer.Success(fmt.Sprintf("Copied %s to %s (ID: %s)", source.Name, page.Name, page.ID))
	return nil
}
