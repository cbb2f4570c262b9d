// Package cmdutil wires configuration, storage, logging and output for the
// lore commands.
package cmdutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/open-cli-collective/lore-cli/internal/config"
	"github.com/open-cli-collective/lore-cli/internal/logging"
	"github.com/open-cli-collective/lore-cli/internal/rolls"
	"github.com/open-cli-collective/lore-cli/internal/store"
	"github.com/open-cli-collective/lore-cli/internal/view"
	"github.com/open-cli-collective/lore-cli/pkg/dice"
)

// Deps are the dependencies a command runs against.
type Deps struct {
	Config *config.Config
	Store  *store.Store
	Logger *zap.Logger
	Out    io.Writer
	// Roller rolls dice. Nil means a roller seeded from crypto/rand.
	Roller *dice.Roller
	// Open opens a URL. Nil means the configured or platform opener.
	Open func(url string) error

	output  string
	noColor bool
}

// ConfigPath returns the --config flag value or the default path.
func ConfigPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return config.DefaultConfigPath()
}

// LoadConfig loads and validates the configuration for cmd.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadWithEnv(ConfigPath(cmd))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w (run 'lore init' to configure)", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'lore init' to configure)", err)
	}
	return cfg, nil
}

// Setup loads configuration, starts logging and opens the store. The returned
// close function releases them.
func Setup(cmd *cobra.Command) (*Deps, func(), error) {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	output, _ := cmd.Flags().GetString("output")
	if !cmd.Flags().Changed("output") && cfg.OutputFormat != "" {
		output = cfg.OutputFormat
	}
	if err := view.ValidateFormat(output); err != nil {
		return nil, nil, err
	}
	noColor, _ := cmd.Flags().GetBool("no-color")

	logger, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel, Console: os.Stderr})
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cmd.Context(), cfg.DBPath, store.WithLogger(logger))
	if err != nil {
		_ = logger.Sync()
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	d := &Deps{
		Config:  cfg,
		Store:   st,
		Logger:  logger,
		Out:     cmd.OutOrStdout(),
		output:  output,
		noColor: noColor,
	}
	closeFn := func() {
		if err := st.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
		_ = logger.Sync()
	}
	return d, closeFn, nil
}

// WithOutput sets the output format and colour preference.
func (d *Deps) WithOutput(output string, noColor bool) *Deps {
	d.output = output
	d.noColor = noColor
	return d
}

// Renderer returns a renderer writing to d.Out.
func (d *Deps) Renderer() *view.Renderer {
	output := d.output
	if output == "" {
		output = string(view.FormatTable)
	}
	r := view.NewRenderer(view.Format(output), d.noColor)
	r.SetWriter(d.Out)
	return r
}

// Format returns the selected output format.
func (d *Deps) Format() view.Format {
	if d.output == "" {
		return view.FormatTable
	}
	return view.Format(d.output)
}

// Log returns d.Logger or a no-op logger.
func (d *Deps) Log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Rolls returns a roll service whose history is seeded from the stored roll
// log and which persists new rolls.
func (d *Deps) Rolls(ctx context.Context) (*rolls.Service, error) {
	roller := d.Roller
	if roller == nil {
		seed, err := dice.NewSeed()
		if err != nil {
			return nil, err
		}
		roller = dice.NewSeededRoller(seed)
	}
	depth, defaultRoll := config.DefaultHistoryDepth, config.DefaultRoll
	if d.Config != nil {
		if d.Config.HistoryDepth > 0 {
			depth = d.Config.HistoryDepth
		}
		if d.Config.DefaultRoll != "" {
			defaultRoll = d.Config.DefaultRoll
		}
	}
	recent, err := d.Store.RecentRolls(ctx, depth)
	if err != nil {
		return nil, err
	}
	return rolls.NewService(roller, rolls.NewHistory(recent...),
		rolls.WithSink(d.Store),
		rolls.WithDefaultRoll(defaultRoll),
		rolls.WithLogger(d.Log()),
	), nil
}

// Opener returns the function used to open URLs.
func (d *Deps) Opener() func(url string) error {
	if d.Open != nil {
		return d.Open
	}
	var configured string
	if d.Config != nil {
		configured = d.Config.Opener
	}
	return func(url string) error {
		return OpenURL(configured, url)
	}
}

// OpenURL opens url with the opener command, or the platform default when
// opener is empty.
func OpenURL(opener, url string) error {
	var cmd *exec.Cmd
	if fields := strings.Fields(opener); len(fields) > 0 {
		cmd = exec.Command(fields[0], append(fields[1:], url)...)
	} else {
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "linux":
			cmd = exec.Command("xdg-open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			return fmt.Errorf("unsupported platform")
		}
	}
	return cmd.Start()
}
