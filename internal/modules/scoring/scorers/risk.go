package scorers

import (
	"fmt"

	"github.com/aristath/tiker/internal/domain"
	"github.com/aristath/tiker/pkg/formulas"
)

// RiskScorer scores downside characteristics: realized volatility, balance
// sheet leverage, and historical drawdown depth. Higher means safer.
type RiskScorer struct{}

// NewRiskScorer creates a risk scorer.
func NewRiskScorer() *RiskScorer {
	return &RiskScorer{}
}

// Calculate scores risk from the price series and fundamentals.
func (rs *RiskScorer) Calculate(series *domain.PriceSeries, info *domain.SecurityInfo) Result {
	b := newBuilder()

	if !series.Empty() {
		closes := series.Closes()

		if vol := formulas.CalculateVolatility(closes); vol != nil {
			switch {
			case *vol < 0.2:
				b.add("volatility", 1.0,
					fmt.Sprintf("Low annualized volatility of %.0f%%", *vol*100))
			case *vol < 0.4:
				b.add("volatility", 0.5,
					fmt.Sprintf("Moderate annualized volatility of %.0f%%", *vol*100))
			case *vol > 0.6:
				b.add("volatility", -1.0,
					fmt.Sprintf("High annualized volatility of %.0f%%", *vol*100))
			}
		}

		if dd := formulas.CalculateMaxDrawdown(closes); dd != nil {
			switch {
			case *dd < 0.2:
				b.add("drawdown", 0.5,
					fmt.Sprintf("Shallow maximum drawdown of %.0f%%", *dd*100))
			case *dd > 0.5:
				b.add("drawdown", -0.5,
					fmt.Sprintf("Deep maximum drawdown of %.0f%%", *dd*100))
			}
		}
	}

	if info != nil && info.DebtToEquity > 0 {
		switch {
		case info.DebtToEquity < 0.3:
			b.add("leverage", 1.0, "Low debt-to-equity")
		case info.DebtToEquity < 0.6:
			b.add("leverage", 0.5, "Moderate debt-to-equity")
		case info.DebtToEquity > 1.0:
			b.add("leverage", -1.0, "High debt-to-equity")
		}
	}

	return b.result()
}
