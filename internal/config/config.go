// Package config assembles the run configuration from defaults, an optional
// YAML file, an optional .env file and the environment. Command-line flags
// are applied on top by the commands package.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	"github.com/up2ynab/up2ynab/internal/model"
)

// ErrInvalid marks configuration the user has to fix.
var ErrInvalid = errors.New("invalid configuration")

const (
	DefaultDays        = 14
	DefaultAccountName = "Up Spending"
	DefaultTimeout     = 30 * time.Second
	DefaultPageSize    = 100
	DefaultMaxPages    = 500
	DefaultUpURL       = "https://api.up.com.au/api/v1"
	DefaultYNABURL     = "https://api.ynab.com/v1"

	// EnvFile is read from the working directory when present.
	EnvFile = ".env"
)

// Config is the full run configuration. Tokens are kept in memory only.
type Config struct {
	Up    UpConfig   `yaml:"up"`
	YNAB  YNABConfig `yaml:"ynab"`
	Sync  SyncConfig `yaml:"sync"`
	HTTP  HTTPConfig `yaml:"http"`
	Debug bool       `yaml:"debug" env:"UP2YNAB_DEBUG,overwrite"`
}

// UpConfig addresses the bank API.
type UpConfig struct {
	Token   string `yaml:"token" env:"UP_API_TOKEN,overwrite"`
	BaseURL string `yaml:"base_url" env:"UP_API_URL,overwrite"`
}

// YNABConfig addresses the budget API and names the target account.
type YNABConfig struct {
	Token       string `yaml:"token" env:"YNAB_API_TOKEN,overwrite"`
	BaseURL     string `yaml:"base_url" env:"YNAB_API_URL,overwrite"`
	AccountName string `yaml:"account_name" env:"YNAB_ACCOUNT_NAME,overwrite"`
}

// SyncConfig controls what a sync run imports.
type SyncConfig struct {
	Days        int    `yaml:"days" env:"UP2YNAB_DAYS,overwrite"`
	ForeignFlag string `yaml:"foreign_flag" env:"UP2YNAB_FOREIGN_FLAG,overwrite"`
}

// HTTPConfig bounds every outbound request.
type HTTPConfig struct {
	Timeout  time.Duration `yaml:"timeout" env:"UP2YNAB_TIMEOUT,overwrite"`
	PageSize int           `yaml:"page_size" env:"UP2YNAB_PAGE_SIZE,overwrite"`
	MaxPages int           `yaml:"max_pages" env:"UP2YNAB_MAX_PAGES,overwrite"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Up:   UpConfig{BaseURL: DefaultUpURL},
		YNAB: YNABConfig{BaseURL: DefaultYNABURL, AccountName: DefaultAccountName},
		Sync: SyncConfig{Days: DefaultDays},
		HTTP: HTTPConfig{
			Timeout:  DefaultTimeout,
			PageSize: DefaultPageSize,
			MaxPages: DefaultMaxPages,
		},
	}
}

// Options selects the sources Load reads.
type Options struct {
	// ConfigFile must exist when set. When empty, DefaultPath is used if present.
	ConfigFile string
	// EnvFile must exist when set. When empty, ./.env is used if present.
	EnvFile string
	// Lookuper replaces the process environment, mainly for tests.
	Lookuper envconfig.Lookuper
}

// Load layers defaults, the YAML file, the .env file and the environment, in
// that order of increasing precedence. Variables already set in the
// environment win over the same key in the .env file.
func Load(ctx context.Context, opts Options) (*Config, error) {
	cfg := Default()

	path, required := opts.ConfigFile, true
	if path == "" {
		path, required = DefaultPath(), false
	}
	if path != "" {
		if err := readYAML(path, required, cfg); err != nil {
			return nil, err
		}
	}

	env := opts.Lookuper
	if env == nil {
		env = envconfig.OsLookuper()
	}
	dotenv, err := readDotenv(opts.EnvFile)
	if err != nil {
		return nil, err
	}
	if len(dotenv) > 0 {
		env = envconfig.MultiLookuper(env, envconfig.MapLookuper(dotenv))
	}
	if err := envconfig.ProcessWith(ctx, cfg, env); err != nil {
		return nil, fmt.Errorf("%w: reading environment: %w", ErrInvalid, err)
	}
	return cfg, nil
}

// DefaultPath is $XDG_CONFIG_HOME/up2ynab/config.yaml, or the platform
// equivalent. It returns "" when no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "up2ynab", "config.yaml")
}

func readYAML(path string, required bool, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: reading config: %w", ErrInvalid, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: parsing config %s: %w", ErrInvalid, path, err)
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	required := path != ""
	if !required {
		path = EnvFile
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading env file: %w", ErrInvalid, err)
	}
	return vals, nil
}

// Save writes cfg as YAML. Tokens are omitted.
func Save(path string, cfg *Config) error {
	out := *cfg
	out.Up.Token, out.YNAB.Token = "", ""
	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ForeignFlag returns the parsed flag colour.
func (c *Config) ForeignFlag() (model.FlagColor, error) {
	return model.ParseFlagColor(c.Sync.ForeignFlag)
}

// Validate reports the first setting a run cannot proceed with.
func (c *Config) Validate() error {
	switch {
	case c.Sync.Days < 1:
		return fmt.Errorf("%w: days must be at least 1, got %d", ErrInvalid, c.Sync.Days)
	case c.YNAB.AccountName == "":
		return fmt.Errorf("%w: YNAB account name is empty", ErrInvalid)
	case c.HTTP.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalid, c.HTTP.Timeout)
	case c.HTTP.PageSize < 1:
		return fmt.Errorf("%w: page size must be at least 1, got %d", ErrInvalid, c.HTTP.PageSize)
	case c.HTTP.MaxPages < 1:
		return fmt.Errorf("%w: max pages must be at least 1, got %d", ErrInvalid, c.HTTP.MaxPages)
	}
	if _, err := c.ForeignFlag(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
