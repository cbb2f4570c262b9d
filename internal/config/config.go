// Package config provides configuration management for lore.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/lore-cli/pkg/dice"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultLogLevel     = "warn"
	DefaultRoll         = "1d20"
	DefaultHistoryDepth = 100
	DefaultOutputFormat = "table"
)

// Config holds the lore configuration.
type Config struct {
	DBPath       string `yaml:"db_path" env:"LORE_DB_PATH" validate:"required"`
	LogFile      string `yaml:"log_file,omitempty" env:"LORE_LOG_FILE"`
	LogLevel     string `yaml:"log_level,omitempty" env:"LORE_LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	DefaultRoll  string `yaml:"default_roll,omitempty" env:"LORE_DEFAULT_ROLL"`
	HistoryDepth int    `yaml:"history_depth,omitempty" env:"LORE_HISTORY_DEPTH" validate:"gte=0,lte=10000"`
	OutputFormat string `yaml:"output_format,omitempty" env:"LORE_OUTPUT_FORMAT" validate:"omitempty,oneof=table json plain"`
	// Opener is the command used to open links and images, e.g. "xdg-open".
	Opener string `yaml:"opener,omitempty" env:"LORE_OPENER"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that all required fields are present and valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return err
	}
	if c.DefaultRoll != "" {
		if _, ok := dice.Parse(c.DefaultRoll); !ok {
			return fmt.Errorf("default_roll %q is not valid dice notation", c.DefaultRoll)
		}
	}
	return nil
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte", "lte":
		return fmt.Errorf("%s must be between 0 and 10000", fe.Field())
	}
	return fmt.Errorf("%s is invalid", fe.Field())
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.DBPath == "" {
		c.DBPath = DefaultDBPath()
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.DefaultRoll == "" {
		c.DefaultRoll = DefaultRoll
	}
	if c.HistoryDepth == 0 {
		c.HistoryDepth = DefaultHistoryDepth
	}
	if c.OutputFormat == "" {
		c.OutputFormat = DefaultOutputFormat
	}
}

// LoadFromEnv overrides fields with LORE_* environment variables. Unset or
// empty variables leave the current value alone.
func (c *Config) LoadFromEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDotEnv loads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "lore", "config.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".lore", "config.yml")
	}

	return filepath.Join(home, ".config", "lore", "config.yml")
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "lore", "lore.db")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".lore", "lore.db")
	}

	return filepath.Join(home, ".local", "share", "lore", "lore.db")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file, then .env in the working
// directory, then LORE_* environment variables, and finally fills defaults.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}
