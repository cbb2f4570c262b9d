package page

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/cmd/completion"
	"github.com/open-cli-collective/lore-cli/internal/view"
)

type createOptions struct {
	name   string
	parent string
}

// NewCmdCreate creates the page create command.
func NewCmdCreate() *cobra.Command {
	opts := &createOptions{}

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new page",
		Long:  `Create an empty page, optionally nested under a parent page.`,
		Example: `  # Create a top-level page
  lore page create "The Gilded Tankard"

  # Create a child page
  lore page create "Cellar" --parent 6f1c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.name = args[0]
			deps, done, err := cmdutil.Setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runCreate(cmd.Context(), opts, deps)
		},
	}

	cmd.Flags().StringVarP(&opts.parent, "parent", "p", "", "Parent page ID")
	_ = cmd.RegisterFlagCompletionFunc("parent", completion.PageFlag)

	return cmd
}

func runCreate(ctx context.Context, opts *createOptions, deps *cmdutil.Deps) error {
	page, err := deps.Store.CreatePage(ctx, opts.name, opts.parent)
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}

	renderer := deps.Renderer()
	if deps.Format() == view.FormatJSON {
		return renderer.RenderJSON(page)
	}
	renderer.Success(fmt.Sprintf("Created page: %s (ID: %s)", page.Name, page.ID))
	return nil
}
