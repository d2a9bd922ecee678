package formulas

import "math"

// TrueRangeSeries calculates the true range for every row:
//
//	TR = max(high - low, |high - prev_close|, |low - prev_close|)
//
// The first row has no previous close and is NaN.
func TrueRangeSeries(highs, lows, closes []float64) []float64 {
	n := len(closes)
	out := nanSlice(n)
	for i := 1; i < n; i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		out[i] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}

// ATRSeries calculates the Average True Range for every row as a simple
// rolling mean of the true range. Rows without a full window are NaN.
func ATRSeries(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	out := nanSlice(n)
	if period <= 0 || n < period+1 {
		return out
	}

	tr := TrueRangeSeries(highs, lows, closes)
	// TR starts at index 1, so the first full window ends at index `period`.
	for i := period; i < n; i++ {
		var sum float64
		for j := i - period + 1; j <= i; j++ {
			sum += tr[j]
		}
		out[i] = sum / float64(period)
	}
	return out
}

// CalculateATR returns the latest ATR value, or nil if there is not enough data.
func CalculateATR(highs, lows, closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}
	series := ATRSeries(highs, lows, closes, period)
	last := series[len(series)-1]
	if isNaN(last) {
		return nil
	}
	return &last
}
