// Package cmdutiltest builds command dependencies backed by a temporary
// store for command tests.
package cmdutiltest

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/lore-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/lore-cli/internal/config"
	"github.com/open-cli-collective/lore-cli/internal/store"
	"github.com/open-cli-collective/lore-cli/pkg/dice"
)

// MaxFace always rolls the highest face of a die.
type MaxFace struct{}

// Intn implements dice.Source.
func (MaxFace) Intn(n int) int { return n - 1 }

// New returns deps over a fresh store, writing plain uncoloured table output
// to the returned buffer. Dice always roll their highest face.
func New(t testing.TB) (*cmdutil.Deps, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "lore.db")}
	cfg.ApplyDefaults()

	st, err := store.Open(context.Background(), cfg.DBPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	var out bytes.Buffer
	d := &cmdutil.Deps{
		Config: cfg,
		Store:  st,
		Out:    &out,
		Roller: dice.NewRoller(MaxFace{}),
		Open: func(string) error {
			return nil
		},
	}
	return d.WithOutput("table", true), &out
}
