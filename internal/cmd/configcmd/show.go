package configcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current lore configuration and where each value comes from.`,
		Example: `  # Show current config
  lore config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(cmdutil.ConfigPath(cmd), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runShow(configPath string, noColor bool, out io.Writer) error {
	if noColor {
		color.NoColor = true
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue, envVar string) {
		_, _ = bold.Fprintf(out, "%-15s", label+":")
		if value == "" {
			_, _ = dim.Fprintln(out, "-")
			return
		}
		fmt.Fprint(out, value)

		source := "default"
		switch {
		case os.Getenv(envVar) != "" && os.Getenv(envVar) == value:
			source = envVar
		case fileErr == nil && fileValue == value:
			source = "config"
		}
		_, _ = dim.Fprintf(out, "  (source: %s)\n", source)
	}

	depth := func(n int) string {
		if n == 0 {
			return ""
		}
		return strconv.Itoa(n)
	}

	printField("Database", cfg.DBPath, fileCfg.DBPath, "LORE_DB_PATH")
	printField("Log file", cfg.LogFile, fileCfg.LogFile, "LORE_LOG_FILE")
	printField("Log level", cfg.LogLevel, fileCfg.LogLevel, "LORE_LOG_LEVEL")
	printField("Default roll", cfg.DefaultRoll, fileCfg.DefaultRoll, "LORE_DEFAULT_ROLL")
	printField("History depth", depth(cfg.HistoryDepth), depth(fileCfg.HistoryDepth), "LORE_HISTORY_DEPTH")
	printField("Output", cfg.OutputFormat, fileCfg.OutputFormat, "LORE_OUTPUT_FORMAT")
	printField("Opener", cfg.Opener, fileCfg.Opener, "LORE_OPENER")

	fmt.Fprintln(out)
	_, _ = dim.Fprintf(out, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(out, "(file not found)")
	}

	return nil
}
