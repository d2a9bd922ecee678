package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of the values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// DailyReturns calculates simple day-over-day returns from a price series.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return returns
}

// CalculateVolatility calculates the annualized volatility of a daily price
// series (sample std deviation of daily returns × sqrt(252)).
// Returns nil if there are fewer than 2 prices.
func CalculateVolatility(closes []float64) *float64 {
	returns := DailyReturns(closes)
	if len(returns) < 2 {
		return nil
	}
	vol := stat.StdDev(returns, nil) * math.Sqrt(252)
	return &vol
}

// CalculateMaxDrawdown calculates the maximum peak-to-trough drawdown of a
// price series as a positive fraction (0.25 = 25% drawdown).
// Returns nil if there are fewer than 2 prices.
func CalculateMaxDrawdown(closes []float64) *float64 {
	if len(closes) < 2 {
		return nil
	}

	peak := closes[0]
	maxDD := 0.0
	for _, price := range closes {
		if price > peak {
			peak = price
		}
		if peak > 0 {
			dd := (peak - price) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return &maxDD
}
