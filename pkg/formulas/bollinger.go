package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// BollingerSeries holds per-row Bollinger Band values.
type BollingerSeries struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
	Std    []float64
}

// BollingerBandsSeries calculates Bollinger Bands for every row.
//
// Bollinger Bands Formula:
//
//	Middle Band = period-day SMA
//	Upper Band  = Middle + (stdDevMultiplier × rolling std deviation)
//	Lower Band  = Middle - (stdDevMultiplier × rolling std deviation)
//
// The rolling standard deviation is the sample deviation (n-1 denominator).
// Rows without a full window are NaN.
func BollingerBandsSeries(closes []float64, period int, stdDevMultiplier float64) BollingerSeries {
	n := len(closes)
	bs := BollingerSeries{
		Upper:  nanSlice(n),
		Middle: nanSlice(n),
		Lower:  nanSlice(n),
		Std:    nanSlice(n),
	}
	if period <= 1 || n < period {
		return bs
	}

	middle := SMASeries(closes, period)
	for i := period - 1; i < n; i++ {
		window := closes[i-period+1 : i+1]
		sd := stat.StdDev(window, nil)
		bs.Middle[i] = middle[i]
		bs.Std[i] = sd
		bs.Upper[i] = middle[i] + sd*stdDevMultiplier
		bs.Lower[i] = middle[i] - sd*stdDevMultiplier
	}
	return bs
}

// BollingerBands represents the latest Bollinger Bands values
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// CalculateBollingerBands returns the latest band values, or nil if there is
// not enough data.
func CalculateBollingerBands(closes []float64, period int, stdDevMultiplier float64) *BollingerBands {
	if len(closes) < period {
		return nil
	}
	series := BollingerBandsSeries(closes, period, stdDevMultiplier)
	last := len(closes) - 1
	if math.IsNaN(series.Middle[last]) {
		return nil
	}
	return &BollingerBands{
		Upper:  series.Upper[last],
		Middle: series.Middle[last],
		Lower:  series.Lower[last],
	}
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
