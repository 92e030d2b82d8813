package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/up2ynab/up2ynab/internal/model"
	"github.com/up2ynab/up2ynab/internal/outcome"
	"github.com/up2ynab/up2ynab/internal/syncer"
)

// printer writes human-readable progress.
type printer struct {
	w      io.Writer
	indent string
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) section(title string) {
	fmt.Fprintf(p.w, "%s» %s\n", p.indent, title)
	p.indent = "    "
}

func (p *printer) endSection() {
	fmt.Fprintln(p.w)
	p.indent = ""
}

func (p *printer) success(msg string, more ...string) { p.line("✓", msg, more) }
func (p *printer) failure(msg string, more ...string) { p.line("✗", msg, more) }
func (p *printer) warning(msg string, more ...string) { p.line("!", msg, more) }

// line prints a marked message with continuation lines hung under its text.
func (p *printer) line(mark, msg string, more []string) {
	fmt.Fprintf(p.w, "%s%s %s\n", p.indent, mark, msg)
	for _, m := range more {
		if m != "" {
			fmt.Fprintf(p.w, "%s  %s\n", p.indent, m)
		}
	}
}

func (p *printer) outcome(o outcome.Outcome) {
	p.indent = ""
	p.failure(o.Headline, o.Advice, "error: "+o.Err.Error())
}

// syncReporter prints stage progress for a sync run and keeps the
// normalized batch for export.
type syncReporter struct {
	*printer
	dryRun bool
	batch  []model.Transaction
}

func (r *syncReporter) StageStarted(syncer.Stage) {}

func (r *syncReporter) StageFinished(stage syncer.Stage, detail string) {
	// The result summary is printed once the section is closed.
	if stage == syncer.StageReportResult {
		return
	}
	r.success(detail)
}

func (r *syncReporter) Planned(txns []model.Transaction) {
	r.batch = txns
	if r.dryRun {
		r.table(txns)
	}
}

func (p *printer) table(txns []model.Transaction) {
	if len(txns) == 0 {
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%sDATE\tAMOUNT\tFX\tPAYEE\tIMPORT ID\n", p.indent)
	for _, tx := range txns {
		foreign := " "
		if tx.IsForeign {
			foreign = "*"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\t%s\n",
			p.indent, tx.Date, tx.Amount.Decimal().StringFixed(2), foreign, payee(tx.PayeeName), tx.ImportID)
	}
	tw.Flush()
}

func payee(name string) string {
	name = strings.ReplaceAll(name, "\t", " ")
	if r := []rune(name); len(r) > 40 {
		return string(r[:39]) + "…"
	}
	return name
}
