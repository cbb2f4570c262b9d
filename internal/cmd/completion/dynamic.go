package completion

import (
	"context"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/store"
)

// PageIDs completes the first argument with page IDs, described by name.
func PageIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	deps, done, err := cmdutil.Setup(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer done()
	return pageCandidates(cmd.Context(), deps.Store, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// RecordTables completes the first argument with existing record tables.
func RecordTables(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	deps, done, err := cmdutil.Setup(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer done()
	return tableCandidates(cmd.Context(), deps.Store, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// TableFlag completes a --table flag with existing record tables.
func TableFlag(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return RecordTables(cmd, nil, toComplete)
}

func pageCandidates(ctx context.Context, st *store.Store, prefix string) []string {
	pages, err := st.ListPages(ctx)
	if err != nil {
		return nil
	}
	var out []string
	for _, p := range pages {
		if strings.HasPrefix(p.ID, prefix) {
			out = append(out, p.ID+"\t"+p.Name)
		}
	}
	return out
}

func tableCandidates(ctx context.Context, st *store.Store, prefix string) []string {
	records, err := st.ListRecords(ctx, "")
	if err != nil {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, r := range records {
		if seen[r.TableID] || !strings.HasPrefix(r.TableID, prefix) {
			continue
		}
		seen[r.TableID] = true
		out = append(out, r.TableID)
	}
	sort.Strings(out)
	return out
}

// PageFlag completes a page-valued flag such as --parent.
func PageFlag(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return PageIDs(cmd, nil, toComplete)
}
