// Package configcmd provides config management commands.
package configcmd

import (
	"github.com/spf13/cobra"
)

// envVars lists the environment variables lore reads, in display order.
var envVars = []string{
	"LORE_DB_PATH",
	"LORE_LOG_FILE",
	"LORE_LOG_LEVEL",
	"LORE_DEFAULT_ROLL",
	"LORE_HISTORY_DEPTH",
	"LORE_OUTPUT_FORMAT",
	"LORE_OPENER",
}

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage lore configuration",
		Long:  `Commands for viewing, testing, and clearing lore configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdTest())
	cmd.AddCommand(NewCmdClear())

	return cmd
}
