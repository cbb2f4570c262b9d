package page

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/cmd/completion"
	"github.com/open-cli-collective/lore-cli/internal/store"
	"github.com/open-cli-collective/lore-cli/internal/view"
	"github.com/open-cli-collective/lore-cli/pkg/doc"
)

type viewOptions struct {
	json     bool
	entities bool
}

// NewCmdView creates the page view command.
func NewCmdView() *cobra.Command {
	opts := &viewOptions{}

	cmd := &cobra.Command{
		Use:   "view <page-id>",
		Short: "View a page",
		Long:  `View a page rendered as markdown, or as its stored document JSON.`,
		Example: `  # View a page
  lore page view 6f1c...

  # Show the stored document
  lore page view 6f1c... --json

  # Number the entities for 'lore page open'
  lore page view 6f1c... --entities`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.PageIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, done, err := cmdutil.Setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runView(cmd.Context(), args[0], opts, deps)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the stored document JSON")
	cmd.Flags().BoolVar(&opts.entities, "entities", false, "List the page's entities")

	return cmd
}

type pageDocument struct {
	store.Page
	Document *doc.Document `json:"document"`
}

func runView(ctx context.Context, pageID string, opts *viewOptions, deps *cmdutil.Deps) error {
	page, err := deps.Store.GetPage(ctx, pageID)
	if err != nil {
		return fmt.Errorf("failed to get page: %w", err)
	}
	d, err := deps.Store.Load(ctx, page.ID)
	if err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}

	renderer := deps.Renderer()
	if opts.json || deps.Format() == view.FormatJSON {
		return renderer.RenderJSON(pageDocument{Page: page, Document: d})
	}

	if opts.entities {
		rows := entityRows(d)
		if len(rows) == 0 {
			renderer.RenderText("No entities.")
			return nil
		}
		renderer.RenderTable([]string{"#", "KIND", "LABEL"}, rows)
		return nil
	}

	if deps.Format() == view.FormatTable {
		renderer.RenderKeyValue("Name", page.Name)
		renderer.RenderKeyValue("ID", page.ID)
		renderer.RenderText("")
	}
	renderer.RenderText(d.ToMarkdown(renderOptions()))
	return nil
}

func entityRows(d *doc.Document) [][]string {
	var rows [][]string
	for i, ref := range d.Entities() {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			ref.Entity.Kind().String(),
			view.Truncate(doc.EntityLabel(ref.Entity), 60),
		})
	}
	return rows
}
