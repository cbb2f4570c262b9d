// Package record provides record table commands.
package record

import (
	"github.com/spf13/cobra"
)

// NewCmdRecord creates the record command.
func NewCmdRecord() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "record",
		Aliases: []string{"records"},
		Short:   "Manage campaign records",
		Long: `Commands for managing records such as NPCs, items and locations.

Records live in named tables and can be referenced from pages with '@'.`,
	}

	cmd.AddCommand(NewCmdAdd())
	cmd.AddCommand(NewCmdList())

	return cmd
}
