package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/aristath/tiker/internal/modules/analysis"
)

// analyzeCmd runs the full pipeline for one ticker and renders the result
// in the terminal.
type analyzeCmd struct {
	days int
	raw  bool
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "Analyze one ticker and print its expert panel verdict." }
func (*analyzeCmd) Usage() string {
	return `analyze [-days N] [-raw] <ticker>
  Fetch price history, compute indicators, run the expert panel, and
  render the verdict.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 0, "calendar days of history (default from config)")
	f.BoolVar(&c.raw, "raw", false, "print plain Markdown instead of styled output")
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	result, err := a.analysis.AnalyzeTicker(ctx, ticker, c.days)
	if err != nil {
		return fail(err)
	}
	if !result.OK {
		fmt.Fprintln(os.Stderr, result.Message)
		return subcommands.ExitFailure
	}

	markdown := renderVerdict(result)
	if err := printMarkdown(markdown, c.raw); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// renderVerdict builds a compact Markdown verdict for terminal display.
func renderVerdict(result *analysis.TickerAnalysis) string {
	eval := result.Evaluation

	var buf bytes.Buffer
	name := result.Holding.Name
	if name == "" && result.Info != nil {
		name = result.Info.LongName
	}
	if name == "" {
		name = result.Ticker
	}

	fmt.Fprintf(&buf, "# %s (%s)\n\n", name, result.Ticker)
	fmt.Fprintf(&buf, "Last close **$%.2f** over %d trading days.\n\n", result.Series.LastClose(), result.Series.Len())
	fmt.Fprintf(&buf, "| Expert | Score |\n|---|---|\n")
	fmt.Fprintf(&buf, "| Technical | %.2f |\n", eval.Tech)
	fmt.Fprintf(&buf, "| Fundamental | %.2f |\n", eval.Fund)
	fmt.Fprintf(&buf, "| Macro | %.2f |\n", eval.Macro)
	fmt.Fprintf(&buf, "| Risk | %.2f |\n", eval.Risk)
	fmt.Fprintf(&buf, "| **Overall** | **%.2f** |\n\n", eval.Overall)
	fmt.Fprintf(&buf, "Recommendation: **%s**, target price **$%.2f**.\n", eval.Rec, eval.TargetPrice)

	for _, section := range []struct {
		title   string
		reasons []string
	}{
		{"Technical", eval.TechDetail.Reasons},
		{"Fundamental", eval.FundDetail.Reasons},
		{"Macro", eval.MacroDetail.Reasons},
		{"Risk", eval.RiskDetail.Reasons},
	} {
		if len(section.reasons) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "\n## %s\n\n", section.title)
		for _, reason := range section.reasons {
			fmt.Fprintf(&buf, "- %s\n", reason)
		}
	}

	return buf.String()
}

// printMarkdown renders Markdown for the terminal, falling back to the raw
// text when styling fails or is disabled.
func printMarkdown(markdown string, raw bool) error {
	if !raw {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if styled, err := renderer.Render(markdown); err == nil {
				fmt.Print(styled)
				return nil
			}
		}
	}
	fmt.Print(markdown)
	return nil
}
