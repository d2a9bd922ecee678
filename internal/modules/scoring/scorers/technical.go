package scorers

import (
	"fmt"

	"github.com/aristath/tiker/internal/domain"
	"github.com/aristath/tiker/pkg/formulas"
)

// TechnicalScorer scores short-horizon trend and momentum.
type TechnicalScorer struct{}

// NewTechnicalScorer creates a technical scorer.
func NewTechnicalScorer() *TechnicalScorer {
	return &TechnicalScorer{}
}

// Calculate scores trend strength from the price series:
// price above its 20d and 50d averages, a bullish average alignment, and
// contained annualized volatility each add half a point.
func (ts *TechnicalScorer) Calculate(series *domain.PriceSeries) Result {
	b := newBuilder()
	if series.Empty() {
		return b.result()
	}

	closes := series.Closes()
	price := series.LastClose()

	sma20 := formulas.CalculateSMA(closes, 20)
	sma50 := formulas.CalculateSMA(closes, 50)

	if sma20 != nil && price > *sma20 {
		b.add("above_sma20", 0.5, "Price is above its 20-day average")
	}
	if sma50 != nil && price > *sma50 {
		b.add("above_sma50", 0.5, "Price is above its 50-day average")
	}
	if sma20 != nil && sma50 != nil && *sma20 > *sma50 {
		b.add("sma_alignment", 0.5, "20-day average is above the 50-day average (uptrend)")
	}

	if vol := formulas.CalculateVolatility(closes); vol != nil && *vol < 0.3 {
		b.add("contained_volatility", 0.5,
			fmt.Sprintf("Annualized volatility %.0f%% is contained", *vol*100))
	}

	return b.result()
}
