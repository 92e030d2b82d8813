package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/up2ynab/up2ynab/internal/config"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the current settings",
		Long: `Write a config file with the current settings.

The file is written to --config, or the default config path. API tokens are
never written; keep them in the environment or a .env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, opts, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

func runInit(cmd *cobra.Command, opts *rootOptions, force bool) error {
	path := opts.configFile
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return fmt.Errorf("%w: no config directory found, pass --config", config.ErrInvalid)
	}

	source := ""
	switch _, err := os.Stat(path); {
	case err == nil && !force:
		return fmt.Errorf("%w: %s already exists, pass --force to overwrite", config.ErrInvalid, path)
	case err == nil:
		source = path
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("checking config file: %w", err)
	}

	cfg, _, err := opts.loadFrom(cmd, source)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote config to %s\n", path)
	return nil
}
