package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		DBPath:       "/tmp/lore.db",
		LogLevel:     "info",
		DefaultRoll:  "1d20",
		HistoryDepth: 100,
		OutputFormat: "table",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			modify: func(*Config) {},
		},
		{
			name:    "missing db path",
			modify:  func(c *Config) { c.DBPath = "" },
			wantErr: true,
			errMsg:  "db_path is required",
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.LogLevel = "chatty" },
			wantErr: true,
			errMsg:  "log_level must be one of: debug, info, warn, error",
		},
		{
			name:    "unknown output format",
			modify:  func(c *Config) { c.OutputFormat = "xml" },
			wantErr: true,
			errMsg:  "output_format must be one of",
		},
		{
			name:    "negative history depth",
			modify:  func(c *Config) { c.HistoryDepth = -1 },
			wantErr: true,
			errMsg:  "history_depth must be between",
		},
		{
			name:    "default roll is not dice",
			modify:  func(c *Config) { c.DefaultRoll = "2d0" },
			wantErr: true,
			errMsg:  "default_roll",
		},
		{
			name:   "optional fields may be empty",
			modify: func(c *Config) { c.LogLevel, c.OutputFormat, c.DefaultRoll = "", "", "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	cfg := &Config{LogLevel: "debug"}
	cfg.ApplyDefaults()

	assert.Equal(t, filepath.Join("/data", "lore", "lore.db"), cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultRoll, cfg.DefaultRoll)
	assert.Equal(t, DefaultHistoryDepth, cfg.HistoryDepth)
	assert.Equal(t, DefaultOutputFormat, cfg.OutputFormat)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Run("loads all env vars", func(t *testing.T) {
		t.Setenv("LORE_DB_PATH", "/env/lore.db")
		t.Setenv("LORE_LOG_LEVEL", "debug")
		t.Setenv("LORE_DEFAULT_ROLL", "1d6")
		t.Setenv("LORE_HISTORY_DEPTH", "25")
		t.Setenv("LORE_OPENER", "open")

		cfg := &Config{}
		require.NoError(t, cfg.LoadFromEnv())

		assert.Equal(t, "/env/lore.db", cfg.DBPath)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "1d6", cfg.DefaultRoll)
		assert.Equal(t, 25, cfg.HistoryDepth)
		assert.Equal(t, "open", cfg.Opener)
	})

	t.Run("env vars override existing values", func(t *testing.T) {
		t.Setenv("LORE_DB_PATH", "/override.db")
		t.Setenv("LORE_LOG_LEVEL", "")

		cfg := &Config{DBPath: "/original.db", LogLevel: "info"}
		require.NoError(t, cfg.LoadFromEnv())

		assert.Equal(t, "/override.db", cfg.DBPath)
		// Empty env var doesn't override
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("malformed number", func(t *testing.T) {
		t.Setenv("LORE_HISTORY_DEPTH", "lots")
		cfg := &Config{}
		err := cfg.LoadFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse env")
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LORE_OPENER=dotenv-open\n"), 0600))

	t.Setenv("LORE_OPENER", "")
	require.NoError(t, os.Unsetenv("LORE_OPENER"))
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "dotenv-open", os.Getenv("LORE_OPENER"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestLoadDotEnvKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LORE_OPENER=dotenv-open\n"), 0600))

	t.Setenv("LORE_OPENER", "shell-open")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "shell-open", os.Getenv("LORE_OPENER"))
}

func TestDefaultConfigPath(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		assert.Equal(t, filepath.Join("/xdg", "lore", "config.yml"), DefaultConfigPath())
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		path := DefaultConfigPath()

		home, err := os.UserHomeDir()
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(path, home))
		assert.Contains(t, path, "lore")
		assert.Equal(t, ".yml", filepath.Ext(path))
	})
}

func TestConfig_Save_and_Load(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yml")

	original := validConfig()
	original.LogFile = "/tmp/lore.log"
	original.Opener = "xdg-open"

	require.NoError(t, original.Save(configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, original, *loaded)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yml")
	require.Error(t, err)
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("LORE_DB_PATH", "")
	t.Setenv("LORE_LOG_LEVEL", "error")

	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, filepath.Join("/data", "lore", "lore.db"), cfg.DBPath)

	bad := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("db_path: [unclosed"), 0600))
	_, err = LoadWithEnv(bad)
	assert.ErrorContains(t, err, "failed to parse config file")
}
