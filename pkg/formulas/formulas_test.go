package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMASeries_RecursiveWeighting(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14}
	series := EMASeries(closes, 3)

	require.Len(t, series, 5)
	// Seeded with the first close
	assert.Equal(t, 10.0, series[0])

	// Hand-computed recursion with multiplier 0.5
	expected := 10.0
	for i := 1; i < len(closes); i++ {
		expected = closes[i]*0.5 + expected*0.5
		assert.InDelta(t, expected, series[i], 1e-9)
	}
}

func TestSMASeries_NaNUntilWindowFilled(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 100.0 + float64(i)
	}

	series := SMASeries(closes, 200)
	require.Len(t, series, 250)

	for i := 0; i < 199; i++ {
		assert.True(t, math.IsNaN(series[i]), "row %d should be NaN", i)
	}
	for i := 199; i < 250; i++ {
		assert.False(t, math.IsNaN(series[i]), "row %d should be defined", i)
	}

	// SMA of a linear series is the mean of the window endpoints
	assert.InDelta(t, (closes[0]+closes[199])/2, series[199], 1e-9)
}

func TestRSISeries_BoundedAndNaNPadded(t *testing.T) {
	closes := []float64{
		100, 101, 99, 102, 103, 101, 104, 105, 103, 106,
		107, 105, 108, 109, 107, 110, 111, 109, 112, 113,
	}

	series := RSISeries(closes, 14)
	require.Len(t, series, len(closes))

	for i := 0; i < 14; i++ {
		assert.True(t, math.IsNaN(series[i]), "row %d should be NaN", i)
	}
	for i := 14; i < len(closes); i++ {
		require.False(t, math.IsNaN(series[i]), "row %d should be defined", i)
		assert.GreaterOrEqual(t, series[i], 0.0)
		assert.LessOrEqual(t, series[i], 100.0)
	}
}

func TestRSISeries_ClampsTo100WhenNoLosses(t *testing.T) {
	// Strictly rising prices: the loss average is exactly zero
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100.0 + float64(i)
	}

	series := RSISeries(closes, 14)
	assert.Equal(t, 100.0, series[len(series)-1])
}

func TestRSISeries_FlatWindowStaysNaN(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100.0
	}

	series := RSISeries(closes, 14)
	assert.True(t, math.IsNaN(series[len(series)-1]))
}

func TestBollingerBandsSeries_Ordering(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100.0 + 5.0*math.Sin(float64(i)/3.0)
	}

	series := BollingerBandsSeries(closes, 20, 2.0)
	for i := 19; i < len(closes); i++ {
		require.False(t, math.IsNaN(series.Middle[i]))
		assert.GreaterOrEqual(t, series.Upper[i], series.Middle[i], "row %d", i)
		assert.GreaterOrEqual(t, series.Middle[i], series.Lower[i], "row %d", i)
	}
}

func TestBollingerBandsSeries_CollapsesOnConstantPrices(t *testing.T) {
	// 20 identical closes: rolling std is 0, so both bands sit on the SMA
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 50.0
	}

	series := BollingerBandsSeries(closes, 20, 2.0)
	last := len(closes) - 1
	assert.InDelta(t, 50.0, series.Middle[last], 1e-9)
	assert.InDelta(t, series.Middle[last], series.Upper[last], 1e-9)
	assert.InDelta(t, series.Middle[last], series.Lower[last], 1e-9)
}

func TestATRSeries_RollingMeanOfTrueRange(t *testing.T) {
	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 102.0
		lows[i] = 100.0
		closes[i] = 101.0
	}

	series := ATRSeries(highs, lows, closes, 14)
	for i := 0; i < 14; i++ {
		assert.True(t, math.IsNaN(series[i]), "row %d should be NaN", i)
	}
	// Constant 2-point range with close inside: TR is always 2
	assert.InDelta(t, 2.0, series[n-1], 1e-9)
}

func TestATRSeries_GapUpUsesPreviousClose(t *testing.T) {
	highs := []float64{10, 20}
	lows := []float64{9, 19}
	closes := []float64{9.5, 19.5}

	tr := TrueRangeSeries(highs, lows, closes)
	assert.True(t, math.IsNaN(tr[0]))
	// |high - prev_close| = 10.5 dominates high-low = 1
	assert.InDelta(t, 10.5, tr[1], 1e-9)
}

func TestCalculateMaxDrawdown(t *testing.T) {
	closes := []float64{100, 120, 90, 110, 80, 100}
	dd := CalculateMaxDrawdown(closes)
	require.NotNil(t, dd)
	// Peak 120 to trough 80
	assert.InDelta(t, 1.0/3.0, *dd, 1e-9)
}

func TestCalculateVolatility_InsufficientData(t *testing.T) {
	assert.Nil(t, CalculateVolatility([]float64{100}))
	assert.Nil(t, CalculateVolatility(nil))
}

func TestLatestValueHelpers(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100.0 + float64(i%5)
	}

	assert.NotNil(t, CalculateEMA(closes, 20))
	assert.NotNil(t, CalculateSMA(closes, 20))
	assert.Nil(t, CalculateSMA(closes, 200))
	assert.NotNil(t, CalculateRSI(closes, 14))
	assert.Nil(t, CalculateRSI(closes[:10], 14))
}
