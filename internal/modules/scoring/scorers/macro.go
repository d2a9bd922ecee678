package scorers

import (
	"fmt"

	"github.com/aristath/tiker/internal/domain"
)

// growthSectors are provider sector labels treated as secular-growth
// exposure in the current macro regime.
var growthSectors = map[string]bool{
	"Technology":             true,
	"Communication Services": true,
	"Consumer Discretionary": true,
}

// MacroScorer scores sector positioning and scale.
type MacroScorer struct{}

// NewMacroScorer creates a macro scorer.
func NewMacroScorer() *MacroScorer {
	return &MacroScorer{}
}

// Calculate scores the macro backdrop: growth-sector membership and market
// cap tier, plus the hand-maintained per-ticker adjustment.
func (ms *MacroScorer) Calculate(info *domain.SecurityInfo, bonus float64) Result {
	b := newBuilder()

	if info != nil {
		if growthSectors[info.Sector] {
			b.add("sector", 0.5, fmt.Sprintf("%s is a secular growth sector", info.Sector))
		}

		switch {
		case info.MarketCap > 100_000_000_000:
			b.add("scale", 0.5, "Mega-cap scale provides resilience")
		case info.MarketCap > 10_000_000_000:
			b.add("scale", 0.3, "Large-cap scale provides some resilience")
		}
	}

	if bonus != 0 {
		b.add("thesis_adjustment", bonus, "Hand-maintained macro thesis adjustment")
	}

	return b.result()
}
