package record

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/cmd/completion"
	"github.com/open-cli-collective/lore-cli/internal/store"
	"github.com/open-cli-collective/lore-cli/internal/view"
)

type listOptions struct {
	table string
}

// NewCmdList creates the record list command.
func NewCmdList() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List records",
		Example: `  # List every record
  lore record list

  # List one table
  lore record list --table npcs -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, done, err := cmdutil.Setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runList(cmd.Context(), opts, deps)
		},
	}

	cmd.Flags().StringVarP(&opts.table, "table", "t", "", "Only list records in this table")
	_ = cmd.RegisterFlagCompletionFunc("table", completion.TableFlag)

	return cmd
}

func runList(ctx context.Context, opts *listOptions, deps *cmdutil.Deps) error {
	records, err := deps.Store.ListRecords(ctx, opts.table)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	renderer := deps.Renderer()
	if deps.Format() == view.FormatJSON {
		if records == nil {
			records = []store.Record{}
		}
		return renderer.RenderJSON(records)
	}

	if len(records) == 0 {
		renderer.RenderText("No records found.")
		return nil
	}

	headers := []string{"TABLE", "NAME", "ID"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.TableID, r.Name, r.ID})
	}
	renderer.RenderTable(headers, rows)
	return nil
}
