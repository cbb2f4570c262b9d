package page

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/cmd/completion"
	"github.com/open-cli-collective/lore-cli/pkg/doc"
	"github.com/open-cli-collective/lore-cli/pkg/formula"
)

// NewCmdOpen creates the page open command.
func NewCmdOpen() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <page-id> <n>",
		Short: "Activate an entity on a page",
		Long: `Activate the n-th entity of a page, as clicking it would.

Links and images open with the configured opener, dice rollers roll,
checkboxes toggle, page and record references are shown, and formulas
print their value. Use 'lore page view <page-id> --entities' to number them.`,
		Example: `  # Roll the first dice roller on a page
  lore page open 6f1c... 1`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completion.PageIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid entity number %q", args[1])
			}
			deps, done, err := cmdutil.Setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runOpen(cmd.Context(), args[0], n, deps)
		},
	}

	return cmd
}

func runOpen(ctx context.Context, pageID string, n int, deps *cmdutil.Deps) error {
	page, err := deps.Store.GetPage(ctx, pageID)
	if err != nil {
		return fmt.Errorf("failed to get page: %w", err)
	}
	d, err := deps.Store.Load(ctx, page.ID)
	if err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}

	refs := d.Entities()
	if n < 1 || n > len(refs) {
		return fmt.Errorf("entity %d not found: page has %d entities", n, len(refs))
	}
	ref := refs[n-1]

	renderer := deps.Renderer()
	if f, ok := ref.Entity.(*doc.Formula); ok {
		renderer.RenderKeyValue(f.Expression, (&formula.Evaluator{}).Display(f.Expression))
		return nil
	}

	s := newSession(ctx, deps, page, d, renderer)
	if !s.Activate(ref.Path) {
		return fmt.Errorf("nothing to do for %s", doc.EntityLabel(ref.Entity))
	}

	node, _ := s.Document().Node(ref.Path)
	if cb, ok := node.(*doc.Checkbox); ok {
		if err := deps.Store.Save(ctx, page.ID, s.Document()); err != nil {
			return fmt.Errorf("failed to save page: %w", err)
		}
		state := "unchecked"
		if cb.Checked {
			state = "checked"
		}
		renderer.Success(fmt.Sprintf("Checkbox %d %s", n, state))
	}
	return nil
}
