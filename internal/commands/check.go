package commands

import (
	"github.com/spf13/cobra"

	"github.com/up2ynab/up2ynab/internal/tokencheck"
)

const checkLong = `Check that your API tokens are configured correctly.

To get your Up API token, visit https://api.up.com.au/getting_started
To get your YNAB API token, visit https://app.ynab.com/settings/developer

Tokens are read from the UP_API_TOKEN and YNAB_API_TOKEN environment variables,
a .env file, or the --up-api-token and --ynab-api-token flags given before the
subcommand:

  up2ynab --up-api-token xxxx --ynab-api-token xxxx check

Never make your API tokens publicly available.`

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that your API tokens are configured correctly",
		Long:  checkLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	}
}

func runCheck(cmd *cobra.Command, opts *rootOptions) error {
	cfg, log, err := opts.load(cmd)
	if err != nil {
		return err
	}

	probes := []tokencheck.Probe{{API: "Up"}, {API: "YNAB"}}
	if cfg.Up.Token != "" {
		c, err := newUpClient(cfg, log)
		if err != nil {
			return err
		}
		probes[0].Ping = c.Ping
	}
	if cfg.YNAB.Token != "" {
		c, err := newYNABClient(cfg, log)
		if err != nil {
			return err
		}
		probes[1].Ping = c.Ping
	}

	out := newPrinter(cmd.OutOrStdout())
	out.section("Checking your API tokens")
	rep := tokencheck.Verify(cmd.Context(), probes)
	for _, c := range rep.Checks {
		switch {
		case c.Err != nil:
			out.warning("Your "+c.API+" API token could not be checked.", c.Err.Error())
		case c.Status == tokencheck.Valid:
			out.success("Your " + c.API + " API token is working.")
		case c.Status == tokencheck.Invalid:
			out.failure("Your " + c.API + " API token returned an authentication error.")
		default:
			out.failure("No " + c.API + " API token was provided.")
		}
	}
	out.endSection()

	if err := rep.Err(); err != nil {
		return err
	}
	out.success("Both API tokens authenticated successfully - you're good to go!")
	return nil
}
