package page

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/store"
	"github.com/open-cli-collective/lore-cli/internal/view"
	"github.com/open-cli-collective/lore-cli/pkg/doc"
	"github.com/open-cli-collective/lore-cli/pkg/editor"
	"github.com/open-cli-collective/lore-cli/pkg/formula"
	"github.com/open-cli-collective/lore-cli/pkg/recognize"
)

// renderOptions displays formulas by evaluating them.
func renderOptions() doc.RenderOptions {
	eval := &formula.Evaluator{}
	return doc.RenderOptions{
		Formula: func(f *doc.Formula) string {
			return eval.Display(f.Expression)
		},
	}
}

// newSession opens an editing session over d with the store directories
// wired into the recognizers and the entity hooks reporting to renderer.
func newSession(ctx context.Context, deps *cmdutil.Deps, page store.Page, d *doc.Document, renderer *view.Renderer) *editor.Session {
	logger := deps.Log().With(zap.String("page", page.ID))
	hooks := editor.Hooks{
		OnOpenURL: deps.Opener(),
		OnRoll: func(expression string) {
			svc, err := deps.Rolls(ctx)
			if err != nil {
				renderer.Error(fmt.Sprintf("roll failed: %v", err))
				return
			}
			rec, err := svc.Roll(ctx, expression)
			if err != nil {
				renderer.Error(fmt.Sprintf("roll failed: %v", err))
				return
			}
			_ = renderer.RenderRoll(rec)
		},
		OnNavigatePage: func(pageID string) {
			target, err := deps.Store.GetPage(ctx, pageID)
			if err != nil {
				renderer.Error(fmt.Sprintf("page %s: %v", pageID, err))
				return
			}
			renderer.RenderKeyValue("Page", fmt.Sprintf("%s (ID: %s)", target.Name, target.ID))
		},
		OnOpenRecord: func(recordID, tableID string) {
			renderer.RenderKeyValue("Record", fmt.Sprintf("%s in %s", recordID, tableID))
		},
		OnDeleteRegion: func() {
			logger.Info("delete region requested on an empty page")
		},
	}
	return editor.New(d,
		editor.WithRegistry(recognize.DefaultRegistry(deps.Store.Pages(), deps.Store.Records())),
		editor.WithHooks(hooks),
		editor.WithLogger(logger),
		editor.WithHistory(0),
	)
}
