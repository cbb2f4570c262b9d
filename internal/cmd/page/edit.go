package page

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/cmd/completion"
	"github.com/open-cli-collective/lore-cli/internal/keyscript"
	"github.com/open-cli-collective/lore-cli/internal/view"
	"github.com/open-cli-collective/lore-cli/pkg/doc"
	"github.com/open-cli-collective/lore-cli/pkg/keymap"
)

type editOptions struct {
	keys     string
	keysFile string
	show     bool
}

// NewCmdEdit creates the page edit command.
func NewCmdEdit() *cobra.Command {
	opts := &editOptions{}

	cmd := &cobra.Command{
		Use:   "edit <page-id>",
		Short: "Edit a page by replaying keys",
		Long: `Edit a page by replaying a key script through the editor, then save it.

The caret starts at the end of the page. Scripts are literal text mixed with
tags such as <Enter>, <Shift-Enter>, <Backspace>, <Up>, <Down>, <Left>,
<Right>, <Esc>, <Mod-b> and <Mod-Shift-z>. Use <lt> for a literal '<'.`,
		Example: `  # Append a bullet list
  lore page edit 6f1c... --keys '<Enter>* rope<Enter>lantern'

  # Reference a page through the '#' popup
  lore page edit 6f1c... --keys ' see #tav<Enter>'

  # Replay a script file
  lore page edit 6f1c... --keys-file session.keys --show`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.PageIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, done, err := cmdutil.Setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runEdit(cmd.Context(), args[0], opts, deps)
		},
	}

	cmd.Flags().StringVarP(&opts.keys, "keys", "k", "", "Key script to replay")
	cmd.Flags().StringVarP(&opts.keysFile, "keys-file", "f", "", "Read the key script from a file")
	cmd.Flags().BoolVar(&opts.show, "show", false, "Print the page after editing")
	cmd.MarkFlagsMutuallyExclusive("keys", "keys-file")

	return cmd
}

func runEdit(ctx context.Context, pageID string, opts *editOptions, deps *cmdutil.Deps) error {
	script := opts.keys
	if opts.keysFile != "" {
		data, err := os.ReadFile(opts.keysFile)
		if err != nil {
			return fmt.Errorf("failed to read key script: %w", err)
		}
		script = string(data)
	}
	if script == "" {
		return errors.New("a key script is required: use --keys or --keys-file")
	}
	events, err := keyscript.Parse(script)
	if err != nil {
		return fmt.Errorf("invalid key script: %w", err)
	}

	page, err := deps.Store.GetPage(ctx, pageID)
	if err != nil {
		return fmt.Errorf("failed to get page: %w", err)
	}
	d, err := deps.Store.Load(ctx, page.ID)
	if err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}

	renderer := deps.Renderer()
	s := newSession(ctx, deps, page, d, renderer)
	s.SelectRange(doc.Caret(s.Document().End()))
	for _, ev := range events {
		cmd := keymap.Dispatch(s, ev)
		deps.Log().Debug("key", zap.String("key", ev.Key), zap.Stringer("action", cmd.Action))
	}

	if err := deps.Store.Save(ctx, page.ID, s.Document()); err != nil {
		return fmt.Errorf("failed to save page: %w", err)
	}

	if deps.Format() == view.FormatJSON {
		return renderer.RenderJSON(pageDocument{Page: page, Document: s.Document()})
	}
	renderer.Success(fmt.Sprintf("Updated page: %s (%d keys)", page.Name, len(events)))
	if opts.show {
		renderer.RenderText(s.Document().ToMarkdown(renderOptions()))
	}
	return nil
}
