// Package roll provides dice rolling commands.
package roll

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
)

// NewCmdRoll creates the roll command.
func NewCmdRoll() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roll [expression]",
		Short: "Roll dice",
		Long: `Roll a dice expression such as 2d6+3, 1d20a (advantage) or 1d20d
(disadvantage). Terms that cannot be rolled are skipped; when nothing can
be rolled the configured default roll is used.

Every roll is kept in the roll history.`,
		Example: `  # Roll two six-sided dice plus three
  lore roll 2d6+3

  # Roll the default (1d20)
  lore roll

  # Show the roll history and roll the newest entry again
  lore roll history
  lore roll again 0`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, done, err := cmdutil.Setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runRoll(cmd.Context(), strings.Join(args, " "), deps)
		},
	}

	cmd.AddCommand(NewCmdHistory())
	cmd.AddCommand(NewCmdAgain())

	return cmd
}

func runRoll(ctx context.Context, expression string, deps *cmdutil.Deps) error {
	svc, err := deps.Rolls(ctx)
	if err != nil {
		return fmt.Errorf("failed to load roll history: %w", err)
	}
	rec, err := svc.Roll(ctx, expression)
	if err != nil {
		return fmt.Errorf("failed to roll: %w", err)
	}
	return deps.Renderer().RenderRoll(rec)
}
