package record

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/cmd/completion"
	"github.com/open-cli-collective/lore-cli/internal/view"
)

// NewCmdAdd creates the record add command.
func NewCmdAdd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <table> <name>",
		Short: "Add a record to a table",
		Example: `  # Add an NPC
  lore record add npcs "Mira the Smith"`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completion.RecordTables,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, done, err := cmdutil.Setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runAdd(cmd.Context(), args[0], args[1], deps)
		},
	}

	return cmd
}

func runAdd(ctx context.Context, table, name string, deps *cmdutil.Deps) error {
	rec, err := deps.Store.AddRecord(ctx, table, name)
	if err != nil {
		return fmt.Errorf("failed to add record: %w", err)
	}

	renderer := deps.Renderer()
	if deps.Format() == view.FormatJSON {
		return renderer.RenderJSON(rec)
	}
	renderer.Success(fmt.Sprintf("Added record: %s to %s (ID: %s)", rec.Name, rec.TableID, rec.ID))
	return nil
}
