package roll

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/view"
)

type historyOptions struct {
	limit int
}

// NewCmdHistory creates the roll history command.
func NewCmdHistory() *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the roll history, newest first",
		Long: `Show previous rolls, newest first. The number in front of each roll
is the index accepted by 'lore roll again'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, done, err := cmdutil.Setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runHistory(cmd.Context(), opts, deps)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "l", 20, "Maximum number of rolls to show (0 for the whole history)")

	return cmd
}

func runHistory(ctx context.Context, opts *historyOptions, deps *cmdutil.Deps) error {
	if opts.limit < 0 {
		return fmt.Errorf("invalid limit: %d (must be >= 0)", opts.limit)
	}
	svc, err := deps.Rolls(ctx)
	if err != nil {
		return fmt.Errorf("failed to load roll history: %w", err)
	}

	records := svc.History().Snapshot()
	renderer := deps.Renderer()
	if len(records) == 0 && deps.Format() != view.FormatJSON {
		renderer.RenderText("No rolls yet.")
		return nil
	}
	if opts.limit > 0 && len(records) > opts.limit {
		records = records[:opts.limit]
	}
	return renderer.RenderRolls(records)
}
