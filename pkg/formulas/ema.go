// Package formulas implements the technical indicator math used by the
// analysis and scoring modules. All series functions return a slice aligned
// with the input, padded with NaN where the lookback window is not yet filled.
package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// EMASeries calculates the Exponential Moving Average for every row.
//
// EMA Formula (recursive weighting, no adjustment):
//
//	EMA_today = (Price_today × multiplier) + (EMA_yesterday × (1 - multiplier))
//	where multiplier = 2 / (span + 1)
//
// The series is seeded with the first close, so every row has a value.
func EMASeries(closes []float64, span int) []float64 {
	out := make([]float64, len(closes))
	if len(closes) == 0 || span <= 0 {
		return out
	}

	multiplier := 2.0 / float64(span+1)
	out[0] = closes[0]
	for i := 1; i < len(closes); i++ {
		out[i] = closes[i]*multiplier + out[i-1]*(1-multiplier)
	}
	return out
}

// SMASeries calculates the Simple Moving Average for every row.
// Rows before the window is filled are NaN.
func SMASeries(closes []float64, window int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 || len(closes) < window {
		return out
	}

	sma := talib.Sma(closes, window)
	// talib leaves zeros in the warm-up region; keep those rows NaN
	for i := window - 1; i < len(closes); i++ {
		out[i] = sma[i]
	}
	return out
}

// CalculateEMA returns the latest EMA value, or nil if there is no data.
func CalculateEMA(closes []float64, span int) *float64 {
	if len(closes) == 0 {
		return nil
	}
	series := EMASeries(closes, span)
	last := series[len(series)-1]
	if isNaN(last) {
		return nil
	}
	return &last
}

// CalculateSMA returns the latest SMA value, or nil if there is not enough data.
func CalculateSMA(closes []float64, window int) *float64 {
	if len(closes) < window || window <= 0 {
		return nil
	}
	series := SMASeries(closes, window)
	last := series[len(series)-1]
	if isNaN(last) {
		return nil
	}
	return &last
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
