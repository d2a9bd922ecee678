package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// scoresCmd prints the latest recorded score for every portfolio ticker.
type scoresCmd struct {
	raw bool
}

func (*scoresCmd) Name() string     { return "scores" }
func (*scoresCmd) Synopsis() string { return "Show the latest expert scores for the portfolio." }
func (*scoresCmd) Usage() string {
	return `scores [-raw]
  Print the most recently recorded score set for each ticker.
`
}

func (c *scoresCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "print plain Markdown instead of styled output")
}

func (c *scoresCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	defer a.close()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Latest Scores\n\n")
	fmt.Fprintf(&buf, "| Ticker | Tech | Fund | Macro | Risk | Overall | Stance | Target |\n")
	fmt.Fprintf(&buf, "|---|---|---|---|---|---|---|---|\n")

	var unscored []string
	for _, ticker := range a.portfolio.Tickers() {
		latest, err := a.history.Latest(ticker)
		if err != nil {
			return fail(err)
		}
		if latest == nil {
			unscored = append(unscored, ticker)
			continue
		}
		fmt.Fprintf(&buf, "| %s | %.2f | %.2f | %.2f | %.2f | **%.2f** | %s | $%.2f |\n",
			latest.Ticker, latest.Tech, latest.Fund, latest.Macro, latest.Risk,
			latest.Overall, latest.Rec, latest.TargetPrice)
	}
	for _, ticker := range unscored {
		fmt.Fprintf(&buf, "| %s | - | - | - | - | - | not scored | - |\n", ticker)
	}

	if err := printMarkdown(buf.String(), c.raw); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
