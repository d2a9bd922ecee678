package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// portfolioCmd prints the configured portfolio.
type portfolioCmd struct {
	raw bool
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "Show the configured portfolio." }
func (*portfolioCmd) Usage() string {
	return `portfolio [-raw]
  Print the configured holdings, weights and sectors.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "print plain Markdown instead of styled output")
}

func (c *portfolioCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	defer a.close()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Portfolio\n\n")
	fmt.Fprintf(&buf, "| Ticker | Name | Sector | Weight |\n|---|---|---|---|\n")
	for _, ticker := range a.portfolio.Tickers() {
		h, _ := a.portfolio.Holding(ticker)
		fmt.Fprintf(&buf, "| %s | %s | %s | %.1f%% |\n", ticker, h.Name, h.Sector, h.Weight)
	}
	fmt.Fprintf(&buf, "\nTotal target allocation: %.1f%%\n", a.portfolio.TotalWeight())

	if err := printMarkdown(buf.String(), c.raw); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
