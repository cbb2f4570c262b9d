package page

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/cmd/completion"
	"github.com/open-cli-collective/lore-cli/internal/view"
)

type deleteOptions struct {
	force bool
	stdin io.Reader // injectable for testing
}

// NewCmdDelete creates the page delete command.
func NewCmdDelete() *cobra.Command {
	opts := &deleteOptions{}

	cmd := &cobra.Command{
		Use:   "delete <page-id>",
		Short: "Delete a page",
		Long:  `Delete a page and its content. Child pages move to the top level.`,
		Example: `  # Delete a page
  lore page delete 6f1c...

  # Delete without confirmation
  lore page delete 6f1c... --force`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.PageIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.stdin = os.Stdin
			deps, done, err := cmdutil.Setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runDelete(cmd.Context(), args[0], opts, deps)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func runDelete(ctx context.Context, pageID string, opts *deleteOptions, deps *cmdutil.Deps) error {
	page, err := deps.Store.GetPage(ctx, pageID)
	if err != nil {
		return fmt.Errorf("failed to get page: %w", err)
	}

	if !opts.force {
		fmt.Fprintf(deps.Out, "About to delete page: %s (ID: %s)\n", page.Name, page.ID)
		fmt.Fprint(deps.Out, "Are you sure? [y/N]: ")

		scanner := bufio.NewScanner(opts.stdin)
		var confirm string
		if scanner.Scan() {
			confirm = scanner.Text()
		}

		if confirm != "y" && confirm != "Y" {
			fmt.Fprintln(deps.Out, "Deletion cancelled.")
			return nil
		}
	}

	if err := deps.Store.DeletePage(ctx, page.ID); err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}

	renderer := deps.Renderer()
	if deps.Format() == view.FormatJSON {
		return renderer.RenderJSON(map[string]string{
			"status":  "deleted",
			"page_id": page.ID,
			"name":    page.Name,
		})
	}
	renderer.Success(fmt.Sprintf("Deleted page: %s (ID: %s)", page.Name, page.ID))
	return nil
}
