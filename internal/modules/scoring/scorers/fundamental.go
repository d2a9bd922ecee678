package scorers

import (
	"fmt"

	"github.com/aristath/tiker/internal/domain"
)

// FundamentalScorer scores valuation and business quality from provider
// fundamentals plus a hand-maintained per-ticker adjustment.
type FundamentalScorer struct{}

// NewFundamentalScorer creates a fundamental scorer.
func NewFundamentalScorer() *FundamentalScorer {
	return &FundamentalScorer{}
}

// Calculate scores valuation (PE), profitability and revenue growth. A nil
// info (unknown symbol) scores neutral apart from the static bonus.
func (fs *FundamentalScorer) Calculate(info *domain.SecurityInfo, bonus float64) Result {
	b := newBuilder()

	if info != nil {
		pe := info.ForwardPE
		if pe == 0 {
			pe = info.TrailingPE
		}
		switch {
		case pe > 0 && pe < 20:
			b.add("valuation", 1.0, fmt.Sprintf("PE of %.1f is attractive", pe))
		case pe >= 20 && pe < 30:
			b.add("valuation", 0.5, fmt.Sprintf("PE of %.1f is reasonable", pe))
		case pe >= 30:
			b.add("valuation", -0.5, fmt.Sprintf("PE of %.1f is rich", pe))
		}

		switch {
		case info.ProfitMargin > 0.15:
			b.add("profitability", 1.0,
				fmt.Sprintf("Strong profit margin of %.0f%%", info.ProfitMargin*100))
		case info.ProfitMargin > 0.05:
			b.add("profitability", 0.5,
				fmt.Sprintf("Moderate profit margin of %.0f%%", info.ProfitMargin*100))
		}

		switch {
		case info.RevenueGrowth > 0.2:
			b.add("growth", 1.0,
				fmt.Sprintf("Revenue growing %.0f%% year over year", info.RevenueGrowth*100))
		case info.RevenueGrowth > 0.1:
			b.add("growth", 0.5,
				fmt.Sprintf("Revenue growing %.0f%% year over year", info.RevenueGrowth*100))
		}
	}

	if bonus != 0 {
		b.add("thesis_adjustment", bonus, "Hand-maintained fundamental thesis adjustment")
	}

	return b.result()
}
