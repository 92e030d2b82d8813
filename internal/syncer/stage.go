package syncer

import (
	"fmt"

	"github.com/up2ynab/up2ynab/internal/model"
)

// Stage is one step of a run. Stages execute in declaration order.
type Stage int

const (
	StageResolveSourceAccount Stage = iota
	StageFetchSourceTransactions
	StageNormalize
	StageResolveDestinationAccount
	StageUploadTransactions
	StageReportResult
)

var stageNames = [...]string{
	StageResolveSourceAccount:      "resolve Up account",
	StageFetchSourceTransactions:   "fetch Up transactions",
	StageNormalize:                 "normalize transactions",
	StageResolveDestinationAccount: "resolve YNAB account",
	StageUploadTransactions:        "upload transactions",
	StageReportResult:              "report result",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// StageError wraps the error that aborted a run with the stage it came from.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Reporter receives progress as a run advances.
type Reporter interface {
	StageStarted(s Stage)
	StageFinished(s Stage, detail string)
	// Planned receives the normalized batch, before the destination is touched.
	Planned(txns []model.Transaction)
}

// NopReporter discards progress.
type NopReporter struct{}

func (NopReporter) StageStarted(Stage)          {}
func (NopReporter) StageFinished(Stage, string) {}
func (NopReporter) Planned([]model.Transaction) {}
