// Package completion provides shell completion generation commands and
// dynamic completions for page IDs and record tables.
package completion

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type shell struct {
	name    string
	install string
	gen     func(root *cobra.Command, w io.Writer) error
}

var shells = []shell{
	{
		name: "bash",
		install: `  # Load in current session
  source <(lore completion bash)

  # Install permanently (Linux)
  lore completion bash | sudo tee /etc/bash_completion.d/lore > /dev/null

  # Install permanently (macOS with Homebrew)
  lore completion bash > $(brew --prefix)/etc/bash_completion.d/lore`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	},
	{
		name: "zsh",
		install: `  # Enable completion if not already (add to ~/.zshrc)
  autoload -U compinit; compinit

  # Load in current session
  source <(lore completion zsh)

  # Install permanently
  lore completion zsh > "${fpath[1]}/_lore"`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	},
	{
		name: "fish",
		install: `  # Load in current session
  lore completion fish | source

  # Install permanently
  lore completion fish > ~/.config/fish/completions/lore.fish`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	},
	{
		name: "powershell",
		install: `  # Load in current session
  lore completion powershell | Out-String | Invoke-Expression

  # Install permanently
  lore completion powershell >> $PROFILE`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
	},
}

// NewCmdCompletion creates the completion command.
func NewCmdCompletion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for lore.

These scripts enable tab-completion for commands, flags, and arguments,
including page IDs and record tables from your campaign database.
See each sub-command's help for installation instructions.`,
	}

	for _, sh := range shells {
		cmd.AddCommand(newShellCmd(sh))
	}

	return cmd
}

func newShellCmd(sh shell) *cobra.Command {
	return &cobra.Command{
		Use:                   sh.name,
		Short:                 fmt.Sprintf("Generate %s completion script", sh.name),
		Long:                  fmt.Sprintf("Generate %s completion script for lore.", sh.name),
		Example:               sh.install,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sh.gen(cmd.Root(), cmd.OutOrStdout())
		},
	}
}
