// Package init provides the init command for lore.
package init

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/config"
	"github.com/open-cli-collective/lore-cli/internal/store"
	"github.com/open-cli-collective/lore-cli/pkg/dice"
)

type initOptions struct {
	dbPath   string
	noPrompt bool
	force    bool
	noVerify bool
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize lore configuration",
		Long: `Initialize lore with a campaign database and editor preferences.

This command will guide you through choosing where your campaign notes are
stored, where logs go, and the dice roll used when nothing else can be
rolled. The configuration will be saved to ~/.config/lore/config.yml.`,
		Example: `  # Interactive setup
  lore init

  # Use a specific database without prompting
  lore init --db ~/campaigns/ravenloft.db --no-prompt`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.Context(), cmdutil.ConfigPath(cmd), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.dbPath, "db", "", "Campaign database path")
	cmd.Flags().BoolVar(&opts.noPrompt, "no-prompt", false, "Accept defaults without prompting")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing configuration")
	cmd.Flags().BoolVar(&opts.noVerify, "no-verify", false, "Skip opening the database")

	return cmd
}

func runInit(ctx context.Context, configPath string, opts *initOptions, out io.Writer) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !opts.force {
		if opts.noPrompt {
			return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", configPath)
		}
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(out, "Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{DBPath: opts.dbPath}
	cfg.ApplyDefaults()

	if !opts.noPrompt {
		if err := prompt(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Verify the database unless skipped
	if !opts.noVerify {
		fmt.Fprint(out, "Preparing campaign database... ")
		if err := verifyStore(ctx, cfg.DBPath); err != nil {
			fmt.Fprintln(out, "failed!")
			return fmt.Errorf("database verification failed: %w", err)
		}
		fmt.Fprintln(out, "done!")
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nConfiguration saved to %s\n", configPath)
	fmt.Fprintln(out, "\nYou're all set! Try running:")
	fmt.Fprintln(out, "  lore page create \"My Campaign\"")
	fmt.Fprintln(out, "  lore roll 2d6+3")

	return nil
}

func prompt(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Campaign database").
				Description("Where pages, records and rolls are stored").
				Value(&cfg.DBPath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("database path is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Default roll").
				Description("Rolled when an expression has no dice").
				Placeholder(config.DefaultRoll).
				Value(&cfg.DefaultRoll).
				Validate(validateRoll),

			huh.NewInput().
				Title("Link opener (optional)").
				Description("Command used to open links, e.g. xdg-open").
				Value(&cfg.Opener),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&cfg.LogLevel),

			huh.NewInput().
				Title("Log file (optional)").
				Description("Rotated JSON log; leave empty to log to the terminal only").
				Value(&cfg.LogFile),
		),
	)

	return form.Run()
}

func validateRoll(s string) error {
	if s == "" {
		return nil
	}
	if _, ok := dice.Parse(s); !ok {
		return fmt.Errorf("%q is not valid dice notation", s)
	}
	return nil
}

func verifyStore(ctx context.Context, path string) error {
	st, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	return st.Close()
}
