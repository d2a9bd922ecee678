package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/aristath/tiker/internal/modules/marketdata"
)

// exportCmd writes the indicator-augmented price history for a ticker to a
// CSV file.
type exportCmd struct {
	days int
	dir  string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "Export price history with indicators to CSV." }
func (*exportCmd) Usage() string {
	return `export [-days N] [-dir PATH] <ticker>
  Fetch price history, compute the indicator columns, and write them to a
  dated CSV file.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 0, "calendar days of history (default from config)")
	f.StringVar(&c.dir, "dir", ".", "directory to write the CSV into")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	ticker := f.Arg(0)

	a, err := newApp()
	if err != nil {
		return fail(err)
	}
	defer a.close()

	result, err := a.market.Fetch(ctx, ticker, c.days)
	if err != nil {
		return fail(err)
	}
	if !result.OK {
		fmt.Fprintln(os.Stderr, result.Message)
		return subcommands.ExitFailure
	}

	path, err := marketdata.ExportCSV(marketdata.AddIndicators(result.Series), c.dir)
	if err != nil {
		return fail(err)
	}
	fmt.Println(path)
	return subcommands.ExitSuccess
}
