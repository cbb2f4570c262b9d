// Package page provides page-related commands.
package page

import (
	"github.com/spf13/cobra"
)

// NewCmdPage creates the page command.
func NewCmdPage() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "page",
		Aliases: []string{"pages"},
		Short:   "Manage note pages",
		Long:    `Commands for creating, viewing, editing, importing, and listing note pages.`,
	}

	cmd.AddCommand(NewCmdList())
	cmd.AddCommand(NewCmdView())
	cmd.AddCommand(NewCmdCreate())
	cmd.AddCommand(NewCmdEdit())
	cmd.AddCommand(NewCmdImport())
	cmd.AddCommand(NewCmdOpen())
	cmd.AddCommand(NewCmdCopy())
	cmd.AddCommand(NewCmdDelete())

	return cmd
}
