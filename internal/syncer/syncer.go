// Package syncer runs the Up to YNAB import: resolve both accounts, fetch,
// normalize, upload and report what was new.
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/up2ynab/up2ynab/internal/id"
	"github.com/up2ynab/up2ynab/internal/importer"
	"github.com/up2ynab/up2ynab/internal/model"
	"github.com/up2ynab/up2ynab/internal/up"
)

// Source is the bank side of the sync.
type Source interface {
	TransactionalAccount(ctx context.Context) (string, error)
	Transactions(ctx context.Context, accountID string, since time.Time) ([]up.Transaction, error)
}

// Destination is the budget side of the sync.
type Destination interface {
	AccountByName(ctx context.Context, name string) (string, error)
	CreateTransactions(ctx context.Context, accountID string, txns []model.Transaction, flag model.FlagColor) ([]string, error)
}

// Params holds the inputs of one run.
type Params struct {
	Since       time.Time
	AccountName string
	ForeignFlag model.FlagColor
	DryRun      bool
}

// Syncer sequences one run. It holds no state between runs.
type Syncer struct {
	source Source
	dest   Destination
	logger zerolog.Logger
}

// New creates a Syncer.
func New(source Source, dest Destination, logger zerolog.Logger) *Syncer {
	return &Syncer{source: source, dest: dest, logger: logger}
}

// Run executes every stage in order. The first failing stage aborts the run
// and is returned as a *StageError; no partial result is reported. Because
// uploads are keyed by import ID, a rerun after any failure is safe.
func (s *Syncer) Run(ctx context.Context, p Params, rep Reporter) (Result, error) {
	if rep == nil {
		rep = NopReporter{}
	}
	start := time.Now()
	res := Result{DryRun: p.DryRun}

	var (
		sourceAccount string
		fetched       []up.Transaction
		batch         []model.Transaction
		destAccount   string
	)

	steps := []struct {
		stage Stage
		run   func() (string, error)
	}{
		{StageResolveSourceAccount, func() (string, error) {
			var err error
			sourceAccount, err = s.source.TransactionalAccount(ctx)
			return "Found the Up transactional account.", err
		}},
		{StageFetchSourceTransactions, func() (string, error) {
			var err error
			fetched, err = s.source.Transactions(ctx, sourceAccount, p.Since)
			res.Fetched = len(fetched)
			return fmt.Sprintf("Fetched %s from Up.", countNoun(len(fetched), "transaction")), err
		}},
		{StageNormalize, func() (string, error) {
			var err error
			batch, err = importer.NormalizeAll(fetched)
			if err == nil {
				rep.Planned(batch)
			}
			return fmt.Sprintf("Prepared %s for YNAB.", countNoun(len(batch), "transaction")), err
		}},
		{StageResolveDestinationAccount, func() (string, error) {
			var err error
			destAccount, err = s.dest.AccountByName(ctx, p.AccountName)
			return fmt.Sprintf("Found YNAB account %q.", p.AccountName), err
		}},
		{StageUploadTransactions, func() (string, error) {
			switch {
			case p.DryRun:
				return "Skipped upload (dry run).", nil
			case len(batch) == 0:
				return "Nothing to upload.", nil
			}
			dups, err := s.dest.CreateTransactions(ctx, destAccount, batch, p.ForeignFlag)
			if err != nil {
				return "", err
			}
			var unknown []string
			res.Duplicates, unknown = countSent(batch, dups)
			for _, d := range unknown {
				s.logger.Debug().Str("import_id", d).Bool("ours", id.IsOwn(d)).
					Msg("ignoring duplicate import ID that was not sent")
			}
			return fmt.Sprintf("Uploaded %s, %s already in YNAB.",
				countNoun(len(batch), "transaction"), comma(res.Duplicates)), nil
		}},
		{StageReportResult, func() (string, error) {
			res.Elapsed = time.Since(start)
			return res.Summary(), nil
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return Result{}, &StageError{Stage: step.stage, Err: err}
		}
		rep.StageStarted(step.stage)
		s.logger.Debug().Stringer("stage", step.stage).Msg("stage started")

		detail, err := step.run()
		if err != nil {
			s.logger.Debug().Stringer("stage", step.stage).Err(err).Msg("stage failed")
			return Result{}, &StageError{Stage: step.stage, Err: err}
		}
		rep.StageFinished(step.stage, detail)
	}

	s.logger.Info().
		Int("fetched", res.Fetched).
		Int("duplicates", res.Duplicates).
		Int("new", res.New()).
		Dur("elapsed", res.Elapsed).
		Bool("dry_run", res.DryRun).
		Msg("sync completed")
	return res, nil
}

// countSent counts the distinct duplicate IDs that were part of batch and
// returns the ones that were not.
func countSent(batch []model.Transaction, dups []string) (int, []string) {
	sent := make(map[string]bool, len(batch))
	for _, tx := range batch {
		sent[tx.ImportID] = true
	}
	n := 0
	var unknown []string
	for _, d := range dups {
		switch counted, ok := sent[d]; {
		case ok && !counted:
		case ok:
			n++
			sent[d] = false
		default:
			unknown = append(unknown, d)
		}
	}
	return n, unknown
}

// SinceDaysAgo returns local midnight days days before now's date.
func SinceDaysAgo(now time.Time, days int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-days, 0, 0, 0, 0, now.Location())
}
