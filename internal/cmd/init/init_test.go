package init

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/lore-cli/internal/config"
)

func TestRunInit_NoPrompt(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "lore", "config.yml")
	dbPath := filepath.Join(dir, "data", "campaign.db")

	var out bytes.Buffer
	err := runInit(context.Background(), configPath, &initOptions{dbPath: dbPath, noPrompt: true}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Preparing campaign database... done!")
	assert.Contains(t, out.String(), "Configuration saved to "+configPath)

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, dbPath, cfg.DBPath)
	assert.Equal(t, config.DefaultRoll, cfg.DefaultRoll)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "the database is created")
}

func TestRunInit_NoVerify(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	dbPath := filepath.Join(dir, "campaign.db")

	var out bytes.Buffer
	err := runInit(context.Background(), configPath, &initOptions{dbPath: dbPath, noPrompt: true, noVerify: true}, &out)
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "Preparing")

	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))
}

func TestRunInit_ExistingConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	require.NoError(t, (&config.Config{DBPath: "old.db"}).Save(configPath))

	opts := &initOptions{dbPath: filepath.Join(dir, "new.db"), noPrompt: true, noVerify: true}
	err := runInit(context.Background(), configPath, opts, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use --force")

	opts.force = true
	require.NoError(t, runInit(context.Background(), configPath, opts, &bytes.Buffer{}))
	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, opts.dbPath, cfg.DBPath)
}

func TestValidateRoll(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"1d20", false},
		{"2d6+3", false},
		{"hello", true},
		{"3", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := validateRoll(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigFilePermissions(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yml")

	cfg := config.Config{DBPath: "lore.db"}
	require.NoError(t, cfg.Save(configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "config file should have 0600 permissions")
}

func TestNewCmdInit_Flags(t *testing.T) {
	cmd := NewCmdInit()

	assert.Equal(t, "init", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for name, def := range map[string]string{
		"db":        "",
		"no-prompt": "false",
		"force":     "false",
		"no-verify": "false",
	} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, def, flag.DefValue, name)
	}
}
