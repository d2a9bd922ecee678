package formulas

import "math"

// RSISeries calculates the Relative Strength Index for every row.
//
// RSI Formula:
//
//	RSI = 100 - (100 / (1 + RS))
//	where RS = mean(gains, period) / mean(losses, period)
//
// Gains and losses are simple rolling means over the period, not
// Wilder-smoothed. Rows without a full lookback window are NaN.
//
// When the loss average is exactly zero (price only went up inside the
// window) RSI is clamped to 100. When the window is completely flat the
// ratio is undefined and the row stays NaN.
func RSISeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(closes) < period+1 {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	// First full window of deltas ends at index `period`.
	for i := period; i < len(closes); i++ {
		var gainSum, lossSum float64
		for j := i - period + 1; j <= i; j++ {
			gainSum += gains[j]
			lossSum += losses[j]
		}
		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)

		switch {
		case avgLoss == 0 && avgGain == 0:
			// Flat window, RS undefined
		case avgLoss == 0:
			out[i] = 100.0
		default:
			rs := avgGain / avgLoss
			out[i] = 100.0 - (100.0 / (1.0 + rs))
		}
	}
	return out
}

// CalculateRSI returns the latest RSI value, or nil if there is not enough data.
func CalculateRSI(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}
	series := RSISeries(closes, period)
	last := series[len(series)-1]
	if isNaN(last) {
		return nil
	}
	return &last
}
