package configcmd

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/config"
	"github.com/open-cli-collective/lore-cli/internal/store"
)

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check the configuration and campaign database",
		Long:  `Validate the current configuration and check that lore can open the campaign database.`,
		Example: `  # Test configuration
  lore config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			cfg, err := config.LoadWithEnv(cmdutil.ConfigPath(cmd))
			if err != nil {
				return fmt.Errorf("failed to load config: %w (run 'lore init' to configure)", err)
			}
			return runTest(cmd.Context(), cfg, noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runTest(ctx context.Context, cfg *config.Config, noColor bool, out io.Writer) error {
	if noColor {
		color.NoColor = true
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	if err := cfg.Validate(); err != nil {
		_, _ = red.Fprintln(out, "✗ Invalid configuration:", err)
		fmt.Fprintln(out, "\nCheck your settings with: lore config show")
		fmt.Fprintln(out, "Reconfigure with: lore init")
		return fmt.Errorf("invalid config: %w", err)
	}
	_, _ = green.Fprintln(out, "✓ Configuration valid")

	fmt.Fprintf(out, "Opening %s...\n", cfg.DBPath)
	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		_, _ = red.Fprintln(out, "✗ Database unavailable:", err)
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = st.Close() }()

	pages, err := st.ListPages(ctx)
	if err != nil {
		return err
	}
	records, err := st.ListRecords(ctx, "")
	if err != nil {
		return err
	}
	rolls, err := st.RecentRolls(ctx, 0)
	if err != nil {
		return err
	}

	_, _ = green.Fprintln(out, "✓ Database ready")
	fmt.Fprintf(out, "\n%d pages, %d records, %d rolls\n", len(pages), len(records), len(rolls))

	return nil
}
