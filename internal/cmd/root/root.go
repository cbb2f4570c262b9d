// Package root provides the root command for the lore CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/completion"
	"github.com/open-cli-collective/lore-cli/internal/cmd/configcmd"
	initcmd "github.com/open-cli-collective/lore-cli/internal/cmd/init"
	"github.com/open-cli-collective/lore-cli/internal/cmd/page"
	"github.com/open-cli-collective/lore-cli/internal/cmd/record"
	"github.com/open-cli-collective/lore-cli/internal/cmd/roll"
	"github.com/open-cli-collective/lore-cli/internal/cmd/search"
	"github.com/open-cli-collective/lore-cli/internal/version"
)

// NewCmdRoot creates the root command for lore.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lore",
		Short: "A command-line notebook for tabletop campaigns",
		Long: `lore keeps campaign notes as rich pages with live entities: dice
rollers, page and record references, checkboxes, links and formulas.

Pages are edited by replaying key scripts through the same keymap an
interactive editor uses, so "2d6" typed into a page becomes a roller and
"#tav" offers a link to the Tavern page.

Get started by running: lore init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/lore/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	// Set version template
	cmd.SetVersionTemplate(version.String() + "\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(page.NewCmdPage())
	cmd.AddCommand(record.NewCmdRecord())
	cmd.AddCommand(roll.NewCmdRoll())
	cmd.AddCommand(search.NewCmdSearch())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
