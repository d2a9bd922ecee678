package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/aristath/tiker/internal/modules/reports"
)

// reportCmd generates the full report set, or shows the latest report for
// one ticker.
type reportCmd struct {
	days int
	show string
	raw  bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "Generate portfolio reports, or show the latest one." }
func (*reportCmd) Usage() string {
	return `report [-days N]
report -show <ticker> [-raw]
  Without -show, analyze every portfolio ticker and write the Markdown and
  HTML report set. With -show, render the latest generated report for a
  ticker in the terminal.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 0, "calendar days of history (default from config)")
	f.StringVar(&c.show, "show", "", "render the latest report for this ticker instead of generating")
	f.BoolVar(&c.raw, "raw", false, "print plain Markdown instead of styled output")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	defer a.close()

	if c.show != "" {
		return c.showLatest(a)
	}

	result, err := a.analysis.RunPortfolio(ctx, c.days)
	if err != nil {
		return fail(err)
	}

	for _, entry := range result.Reports {
		fmt.Printf("%-8s %s\n", entry.Ticker, entry.Path)
	}
	if result.Summary != nil {
		fmt.Printf("%-8s %s\n", "SUMMARY", result.Summary.Path)
	}
	for ticker, reason := range result.Skipped {
		fmt.Fprintf(os.Stderr, "skipped %s: %s\n", ticker, reason)
	}
	return subcommands.ExitSuccess
}

func (c *reportCmd) showLatest(a *app) subcommands.ExitStatus {
	kind := reports.KindExpert
	if c.show == reports.PortfolioTicker {
		kind = reports.KindSummary
	}

	entry, err := a.manifest.Latest(c.show, kind)
	if err != nil {
		return fail(err)
	}
	if entry == nil {
		fmt.Fprintf(os.Stderr, "no report generated for %s yet; run `tiker report` first\n", c.show)
		return subcommands.ExitFailure
	}

	content, err := os.ReadFile(entry.Path)
	if err != nil {
		return fail(err)
	}
	if err := printMarkdown(string(content), c.raw); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
