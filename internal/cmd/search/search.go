// Package search provides the search command for finding pages and records.
package search

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/cmd/completion"
	"github.com/open-cli-collective/lore-cli/internal/view"
)

// Result kinds.
const (
	KindPage   = "page"
	KindRecord = "record"
)

type searchOptions struct {
	query string
	kind  string // page, record or empty for both
	table string // restrict records to one table
	limit int
}

// Result is a single ranked search hit.
type Result struct {
	Kind     string `json:"kind"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Distance int    `json:"distance"`
}

// NewCmdSearch creates the search command.
func NewCmdSearch() *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search pages and records",
		Long: `Fuzzy search page and record names.

A name matches when it contains the characters of the term in order,
ignoring case, so "gtk" finds "Gilded Tankard". Closer matches are
listed first.`,
		Example: `  # Search everything
  lore search tavern

  # Only records in one table
  lore search mira --type record --table npcs

  # Output as JSON for scripting
  lore search tower -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.query = args[0]
			deps, done, err := cmdutil.Setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runSearch(cmd.Context(), opts, deps)
		},
	}

	cmd.Flags().StringVarP(&opts.kind, "type", "t", "", "Result type: page, record")
	cmd.Flags().StringVar(&opts.table, "table", "", "Only search records in this table")
	_ = cmd.RegisterFlagCompletionFunc("table", completion.TableFlag)
	cmd.Flags().IntVarP(&opts.limit, "limit", "l", 25, "Maximum number of results")

	return cmd
}

func runSearch(ctx context.Context, opts *searchOptions, deps *cmdutil.Deps) error {
	if opts.kind != "" && opts.kind != KindPage && opts.kind != KindRecord {
		return fmt.Errorf("invalid type %q: must be one of %s, %s", opts.kind, KindPage, KindRecord)
	}
	if strings.TrimSpace(opts.query) == "" {
		return fmt.Errorf("search requires a term")
	}
	if opts.limit < 0 {
		return fmt.Errorf("invalid limit: %d (must be >= 0)", opts.limit)
	}

	renderer := deps.Renderer()
	results, err := search(ctx, deps, opts)
	if err != nil {
		return err
	}
	total := len(results)
	if opts.limit > 0 && total > opts.limit {
		results = results[:opts.limit]
	}

	if deps.Format() == view.FormatJSON {
		if results == nil {
			results = []Result{}
		}
		return renderer.RenderJSON(results)
	}
	if len(results) == 0 {
		renderer.RenderText("No results found.")
		return nil
	}

	headers := []string{"TYPE", "NAME", "LOCATION", "ID"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Kind, view.Truncate(r.Name, 50), view.Truncate(r.Location, 40), r.ID})
	}
	renderer.RenderTable(headers, rows)

	if total > len(results) {
		fmt.Fprintf(os.Stderr, "\n(showing %d of %d results, use --limit to see more)\n", len(results), total)
	}
	return nil
}

// search ranks pages and records whose names fuzzily contain the query.
// Results are ordered by edit distance, then type, then name.
func search(ctx context.Context, deps *cmdutil.Deps, opts *searchOptions) ([]Result, error) {
	var results []Result

	if opts.kind != KindRecord {
		pages, err := deps.Store.ListPages(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list pages: %w", err)
		}
		names := make([]string, len(pages))
		for i, p := range pages {
			names[i] = p.Name
		}
		dir := deps.Store.Pages()
		for _, rank := range fuzzy.RankFindFold(opts.query, names) {
			p := pages[rank.OriginalIndex]
			results = append(results, Result{
				Kind:     KindPage,
				ID:       p.ID,
				Name:     p.Name,
				Location: strings.Join(dir.PathNames(p.ID), "/"),
				Distance: rank.Distance,
			})
		}
	}

	if opts.kind != KindPage {
		records, err := deps.Store.ListRecords(ctx, opts.table)
		if err != nil {
			return nil, fmt.Errorf("failed to list records: %w", err)
		}
		names := make([]string, len(records))
		for i, r := range records {
			names[i] = r.Name
		}
		for _, rank := range fuzzy.RankFindFold(opts.query, names) {
			r := records[rank.OriginalIndex]
			results = append(results, Result{
				Kind:     KindRecord,
				ID:       r.ID,
				Name:     r.Name,
				Location: r.TableID,
				Distance: rank.Distance,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	return results, nil
}
