package syncer

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Result summarises one run.
type Result struct {
	Fetched    int
	Duplicates int
	Elapsed    time.Duration
	DryRun     bool
}

// New is the number of transactions the budget did not already hold.
func (r Result) New() int {
	return r.Fetched - r.Duplicates
}

// Summary renders the result as a one-line status message.
func (r Result) Summary() string {
	secs := fmt.Sprintf("%.2f seconds", r.Elapsed.Seconds())
	if r.DryRun {
		return fmt.Sprintf("Dry run: %s would be sent to YNAB in %s.", countNoun(r.Fetched, "transaction"), secs)
	}
	msg := fmt.Sprintf("%s imported", countNoun(r.New(), "new transaction"))
	if r.Duplicates > 0 {
		msg += fmt.Sprintf(" (%s skipped)", countNoun(r.Duplicates, "duplicate"))
	}
	return msg + " in " + secs + "."
}

func countNoun(n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return comma(n) + " " + noun
}

func comma(n int) string {
	return humanize.Comma(int64(n))
}
