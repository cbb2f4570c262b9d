package page

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/cmd/completion"
	"github.com/open-cli-collective/lore-cli/internal/view"
	"github.com/open-cli-collective/lore-cli/pkg/doc"
)

type importOptions struct {
	name   string
	file   string
	parent string
	html   bool
}

// NewCmdImport creates the page import command.
func NewCmdImport() *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import <name>",
		Short: "Create a page from a markdown or HTML file",
		Long: `Create a page from a markdown or HTML file.

Files ending in .html or .htm are converted from HTML; everything else is
read as markdown. Use "-" to read from stdin.`,
		Example: `  # Import session notes
  lore page import "Session 3" --file notes.md

  # Import an HTML export under a parent page
  lore page import "Bestiary" --file export.html --parent 6f1c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.name = args[0]
			deps, done, err := cmdutil.Setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runImport(cmd.Context(), opts, deps)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "File to import (required)")
	cmd.Flags().StringVarP(&opts.parent, "parent", "p", "", "Parent page ID")
	_ = cmd.RegisterFlagCompletionFunc("parent", completion.PageFlag)
	cmd.Flags().BoolVar(&opts.html, "html", false, "Treat the input as HTML regardless of extension")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runImport(ctx context.Context, opts *importOptions, deps *cmdutil.Deps) error {
	var data []byte
	var err error
	if opts.file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(opts.file)
	}
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	d, err := convert(opts, data)
	if err != nil {
		return err
	}

	page, err := deps.Store.CreatePage(ctx, opts.name, opts.parent)
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	if err := deps.Store.Save(ctx, page.ID, d); err != nil {
		return fmt.Errorf("failed to save page: %w", err)
	}

	renderer := deps.Renderer()
	if deps.Format() == view.FormatJSON {
		return renderer.RenderJSON(pageDocument{Page: page, Document: d})
	}
	renderer.Success(fmt.Sprintf("Imported page: %s (ID: %s, %d blocks)", page.Name, page.ID, len(d.Blocks())))
	return nil
}

func convert(opts *importOptions, data []byte) (*doc.Document, error) {
	ext := strings.ToLower(filepath.Ext(opts.file))
	if opts.html || ext == ".html" || ext == ".htm" {
		d, err := doc.FromHTML(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to convert HTML: %w", err)
		}
		return d, nil
	}
	return doc.FromMarkdown(data), nil
}
