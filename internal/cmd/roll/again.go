package roll

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
)

// NewCmdAgain creates the roll again command.
func NewCmdAgain() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "again [n]",
		Short: "Roll an earlier expression again",
		Long: `Roll the n-th newest history entry again as a new roll. The newest
roll is 0, which is also the default.`,
		Example: `  # Repeat the last roll
  lore roll again

  # Repeat the roll before it
  lore roll again 1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 0
			if len(args) == 1 {
				var err error
				if n, err = strconv.Atoi(args[0]); err != nil {
					return fmt.Errorf("invalid history index %q", args[0])
				}
			}
			deps, done, err := cmdutil.Setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runAgain(cmd.Context(), n, deps)
		},
	}

	return cmd
}

func runAgain(ctx context.Context, n int, deps *cmdutil.Deps) error {
	svc, err := deps.Rolls(ctx)
	if err != nil {
		return fmt.Errorf("failed to load roll history: %w", err)
	}
	rec, err := svc.Reroll(ctx, n)
	if err != nil {
		return fmt.Errorf("failed to roll again: %w", err)
	}
	return deps.Renderer().RenderRoll(rec)
}
