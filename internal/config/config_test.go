package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/up2ynab/up2ynab/internal/model"
)

func noEnv() envconfig.Lookuper {
	return envconfig.MapLookuper(map[string]string{})
}

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 14, cfg.Sync.Days)
	assert.Equal(t, "Up Spending", cfg.YNAB.AccountName)
	assert.Empty(t, cfg.Sync.ForeignFlag)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 100, cfg.HTTP.PageSize)
	assert.Equal(t, 500, cfg.HTTP.MaxPages)
	assert.Equal(t, "https://api.up.com.au/api/v1", cfg.Up.BaseURL)
	assert.Equal(t, "https://api.ynab.com/v1", cfg.YNAB.BaseURL)
	assert.Empty(t, cfg.Up.Token)
	assert.Empty(t, cfg.YNAB.Token)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoSources(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(context.Background(), Options{Lookuper: noEnv()})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
ynab:
  account_name: Everyday
sync:
  days: 30
  foreign_flag: blue
http:
  timeout: 5s
`)

	cfg, err := Load(context.Background(), Options{ConfigFile: path, Lookuper: noEnv()})
	require.NoError(t, err)

	assert.Equal(t, "Everyday", cfg.YNAB.AccountName)
	assert.Equal(t, 30, cfg.Sync.Days)
	assert.Equal(t, "blue", cfg.Sync.ForeignFlag)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, DefaultMaxPages, cfg.HTTP.MaxPages, "unset keys keep their defaults")
	assert.Equal(t, DefaultUpURL, cfg.Up.BaseURL)
}

func TestLoad_DefaultPathUsedWhenPresent(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "up2ynab"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "up2ynab", "config.yaml"), []byte("sync:\n  days: 3\n"), 0o600))

	cfg, err := Load(context.Background(), Options{Lookuper: noEnv()})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Sync.Days)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "sync:\n  days: 30\nynab:\n  account_name: Everyday\n")
	env := envconfig.MapLookuper(map[string]string{
		"UP_API_TOKEN":         "up:yeah:abc",
		"YNAB_API_TOKEN":       "ynab-abc",
		"UP2YNAB_DAYS":         "7",
		"UP2YNAB_FOREIGN_FLAG": "purple",
		"UP2YNAB_TIMEOUT":      "10s",
		"UP2YNAB_MAX_PAGES":    "9",
		"UP2YNAB_DEBUG":        "true",
		"UP_API_URL":           "http://localhost:1/api/v1",
	})

	cfg, err := Load(context.Background(), Options{ConfigFile: path, Lookuper: env})
	require.NoError(t, err)

	assert.Equal(t, "up:yeah:abc", cfg.Up.Token)
	assert.Equal(t, "ynab-abc", cfg.YNAB.Token)
	assert.Equal(t, 7, cfg.Sync.Days)
	assert.Equal(t, "purple", cfg.Sync.ForeignFlag)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 9, cfg.HTTP.MaxPages)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "http://localhost:1/api/v1", cfg.Up.BaseURL)
	assert.Equal(t, "Everyday", cfg.YNAB.AccountName, "YAML value kept when env is unset")
}

func TestLoad_EnvFile(t *testing.T) {
	envFile := writeFile(t, "test.env", "UP_API_TOKEN=from-file\nYNAB_API_TOKEN=ynab-from-file\n")
	env := envconfig.MapLookuper(map[string]string{"UP_API_TOKEN": "from-env"})

	cfg, err := Load(context.Background(), Options{EnvFile: envFile, Lookuper: env})
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Up.Token, "process environment wins over the env file")
	assert.Equal(t, "ynab-from-file", cfg.YNAB.Token)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing explicit config file", func(t *testing.T) {
		_, err := Load(context.Background(), Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml"), Lookuper: noEnv()})
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("missing explicit env file", func(t *testing.T) {
		_, err := Load(context.Background(), Options{EnvFile: filepath.Join(t.TempDir(), "nope.env"), Lookuper: noEnv()})
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeFile(t, "config.yaml", "sync: [\n")
		_, err := Load(context.Background(), Options{ConfigFile: path, Lookuper: noEnv()})
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("malformed env value", func(t *testing.T) {
		env := envconfig.MapLookuper(map[string]string{"UP2YNAB_DAYS": "fortnight"})
		path := writeFile(t, "config.yaml", "")
		_, err := Load(context.Background(), Options{ConfigFile: path, Lookuper: env})
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"zero days", func(c *Config) { c.Sync.Days = 0 }, "days must be at least 1"},
		{"empty account", func(c *Config) { c.YNAB.AccountName = "" }, "account name is empty"},
		{"zero timeout", func(c *Config) { c.HTTP.Timeout = 0 }, "timeout must be positive"},
		{"zero page size", func(c *Config) { c.HTTP.PageSize = 0 }, "page size"},
		{"zero max pages", func(c *Config) { c.HTTP.MaxPages = 0 }, "max pages"},
		{"unknown flag", func(c *Config) { c.Sync.ForeignFlag = "pink" }, `invalid flag color "pink"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestForeignFlag(t *testing.T) {
	cfg := Default()
	flag, err := cfg.ForeignFlag()
	require.NoError(t, err)
	assert.Equal(t, model.FlagNone, flag)

	cfg.Sync.ForeignFlag = "green"
	flag, err = cfg.ForeignFlag()
	require.NoError(t, err)
	assert.Equal(t, model.FlagGreen, flag)
}

func TestSave(t *testing.T) {
	cfg := Default()
	cfg.Up.Token = "up:yeah:secret"
	cfg.YNAB.Token = "ynab-secret"
	cfg.Sync.Days = 21

	path := filepath.Join(t.TempDir(), "up2ynab", "config.yaml")
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)
	assert.Contains(t, contents, "days: 21")
	assert.Contains(t, contents, "account_name: Up Spending")
	assert.NotContains(t, contents, "secret")
	assert.Equal(t, "up:yeah:secret", cfg.Up.Token, "caller's config is not modified")

	got, err := Load(context.Background(), Options{ConfigFile: path, Lookuper: noEnv()})
	require.NoError(t, err)
	assert.Equal(t, 21, got.Sync.Days)
	assert.Equal(t, DefaultTimeout, got.HTTP.Timeout)
}
