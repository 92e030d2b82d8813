package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/up2ynab/up2ynab/internal/config"
	"github.com/up2ynab/up2ynab/internal/export"
	"github.com/up2ynab/up2ynab/internal/model"
	"github.com/up2ynab/up2ynab/internal/syncer"
)

const syncLong = `Import your Up transactions into YNAB.

Transactions from the last --days days of your Up transactional account are
sent to the named YNAB account. YNAB skips any transaction it has already
imported, so running the command again over the same window is safe.

UP_API_TOKEN, YNAB_API_TOKEN, YNAB_ACCOUNT_NAME, UP2YNAB_DAYS and
UP2YNAB_FOREIGN_FLAG can be used instead of the corresponding flags.`

type syncOptions struct {
	days        int
	accountName string
	foreignFlag string
	dryRun      bool
	export      string
}

func newSyncCommand(opts *rootOptions) *cobra.Command {
	var so syncOptions

	cmd := &cobra.Command{
		Use:     "sync",
		Aliases: []string{"transactions"},
		Short:   "Import your Up transactions into YNAB",
		Long:    syncLong,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, opts, so)
		},
	}

	cmd.Flags().IntVarP(&so.days, "days", "d", config.DefaultDays, "number of days before today (inclusive) to import")
	cmd.Flags().StringVar(&so.accountName, "ynab-account-name", config.DefaultAccountName, "name of your Up account in YNAB")
	cmd.Flags().StringVar(&so.foreignFlag, "foreign-flag", "", fmt.Sprintf("flag foreign-currency transactions with this colour %v", model.FlagColors))
	cmd.Flags().BoolVar(&so.dryRun, "dry-run", false, "show what would be imported without uploading")
	cmd.Flags().StringVar(&so.export, "export", "", "also write the prepared transactions to this CSV file")

	return cmd
}

func runSync(cmd *cobra.Command, opts *rootOptions, so syncOptions) error {
	cfg, log, err := opts.load(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("days") {
		cfg.Sync.Days = so.days
	}
	if flags.Changed("ynab-account-name") {
		cfg.YNAB.AccountName = so.accountName
	}
	if flags.Changed("foreign-flag") {
		cfg.Sync.ForeignFlag = so.foreignFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	flag, err := cfg.ForeignFlag()
	if err != nil {
		return err
	}

	src, err := newUpClient(cfg, log)
	if err != nil {
		return err
	}
	dst, err := newYNABClient(cfg, log)
	if err != nil {
		return err
	}

	params := syncer.Params{
		Since:       syncer.SinceDaysAgo(time.Now(), cfg.Sync.Days),
		AccountName: cfg.YNAB.AccountName,
		ForeignFlag: flag,
		DryRun:      so.dryRun,
	}

	out := newPrinter(cmd.OutOrStdout())
	rep := &syncReporter{printer: out, dryRun: so.dryRun}
	out.section(fmt.Sprintf("Checking the last %d days of transactions", cfg.Sync.Days))
	res, runErr := syncer.New(src, dst, log).Run(cmd.Context(), params, rep)
	out.endSection()

	if so.export != "" && rep.batch != nil {
		if err := writeExport(so.export, rep.batch); err != nil {
			return errors.Join(runErr, err)
		}
		out.success(fmt.Sprintf("Wrote %d transactions to %s.", len(rep.batch), so.export))
	}
	if runErr != nil {
		return runErr
	}

	out.success(res.Summary())
	return nil
}

func writeExport(path string, txns []model.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := export.WriteTransactions(f, txns); err != nil {
		f.Close()
		return fmt.Errorf("writing export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	return nil
}
