package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/up2ynab/up2ynab/internal/buildinfo"
	"github.com/up2ynab/up2ynab/internal/config"
	"github.com/up2ynab/up2ynab/internal/logger"
	"github.com/up2ynab/up2ynab/internal/outcome"
	"github.com/up2ynab/up2ynab/internal/up"
	"github.com/up2ynab/up2ynab/internal/ynab"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	upToken    string
	ynabToken  string
	configFile string
	envFile    string
	debug      bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "up2ynab",
		Short:   "Import your Up transactions into YNAB",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.upToken, "up-api-token", "", "personal access token for the Up API (default $UP_API_TOKEN)")
	pf.StringVar(&opts.ynabToken, "ynab-api-token", "", "personal access token for the YNAB API (default $YNAB_API_TOKEN)")
	pf.StringVar(&opts.configFile, "config", "", "config file (default "+config.DefaultPath()+" if present)")
	pf.StringVar(&opts.envFile, "env-file", "", "file of KEY=value settings (default ./.env if present)")
	pf.BoolVar(&opts.debug, "debug", false, "log every request and stage to stderr")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", config.ErrInvalid, err)
	})

	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newSyncCommand(opts))
	rootCmd.AddCommand(newInitCommand(opts))

	return rootCmd
}

// Execute runs the CLI with args and returns the process exit code. Any
// error is classified once and reported on stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	o := outcome.Classify(cmd.ExecuteContext(ctx))
	if o.Err != nil {
		newPrinter(stderr).outcome(o)
	}
	return o.ExitCode()
}

// load resolves the configuration for cmd: config sources first, then any
// flag given explicitly on the command line.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	return o.loadFrom(cmd, o.configFile)
}

func (o *rootOptions) loadFrom(cmd *cobra.Command, configFile string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cmd.Context(), config.Options{
		ConfigFile: configFile,
		EnvFile:    o.envFile,
	})
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	flags := cmd.Flags()
	if flags.Changed("up-api-token") {
		cfg.Up.Token = o.upToken
	}
	if flags.Changed("ynab-api-token") {
		cfg.YNAB.Token = o.ynabToken
	}
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}

	log := logger.New(cmd.ErrOrStderr(), cfg.Debug)
	log.Debug().
		Str("up_url", cfg.Up.BaseURL).
		Str("ynab_url", cfg.YNAB.BaseURL).
		Bool("up_token", cfg.Up.Token != "").
		Bool("ynab_token", cfg.YNAB.Token != "").
		Msg("configuration loaded")
	return cfg, log, nil
}

func newUpClient(cfg *config.Config, log zerolog.Logger) (*up.Client, error) {
	return up.NewClient(up.Config{
		BaseURL:  cfg.Up.BaseURL,
		Token:    cfg.Up.Token,
		Timeout:  cfg.HTTP.Timeout,
		PageSize: cfg.HTTP.PageSize,
		MaxPages: cfg.HTTP.MaxPages,
		Logger:   log,
	})
}

func newYNABClient(cfg *config.Config, log zerolog.Logger) (*ynab.Client, error) {
	return ynab.NewClient(ynab.Config{
		BaseURL: cfg.YNAB.BaseURL,
		Token:   cfg.YNAB.Token,
		Timeout: cfg.HTTP.Timeout,
		Logger:  log,
	})
}
