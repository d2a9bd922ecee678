package scorers

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/tiker/internal/domain"
)

func seriesFromCloses(closes []float64) *domain.PriceSeries {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]domain.Candle, len(closes))
	for i, c := range closes {
		candles[i] = domain.Candle{
			Date: start.AddDate(0, 0, i), Open: c, High: c * 1.01, Low: c * 0.99, Close: c,
		}
	}
	return &domain.PriceSeries{Ticker: "TEST", Candles: candles}
}

// steadyUptrend produces a calm rising series: every trend and volatility
// check passes.
func steadyUptrend(n int) *domain.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 * math.Pow(1.001, float64(i))
	}
	return seriesFromCloses(closes)
}

// choppyDowntrend produces a falling series with violent daily swings.
func choppyDowntrend(n int) *domain.PriceSeries {
	closes := make([]float64, n)
	price := 100.0
	for i := range closes {
		if i%2 == 0 {
			price *= 0.92
		} else {
			price *= 1.02
		}
		closes[i] = price
	}
	return seriesFromCloses(closes)
}

func TestTechnicalScorer_Uptrend(t *testing.T) {
	score := NewTechnicalScorer().Calculate(steadyUptrend(260))

	// All four half-point checks pass, clamped at the top of the scale
	assert.Equal(t, MaxScore, score.Score)
	assert.Len(t, score.Components, 4)
	assert.NotEmpty(t, score.Reasons)
}

func TestTechnicalScorer_ChoppyDowntrend(t *testing.T) {
	score := NewTechnicalScorer().Calculate(choppyDowntrend(260))

	// No trend checks pass and volatility is far above the threshold
	assert.Equal(t, BaseScore, score.Score)
	assert.Empty(t, score.Components)
}

func TestTechnicalScorer_EmptySeries(t *testing.T) {
	score := NewTechnicalScorer().Calculate(&domain.PriceSeries{Ticker: "TEST"})
	assert.Equal(t, BaseScore, score.Score)
}

func TestFundamentalScorer(t *testing.T) {
	info := &domain.SecurityInfo{
		ForwardPE:     15.0, // +1.0
		ProfitMargin:  0.20, // +1.0
		RevenueGrowth: 0.25, // +1.0
	}
	score := NewFundamentalScorer().Calculate(info, 0)

	// 3.0 + 3.0 clamps at 5.0
	assert.Equal(t, MaxScore, score.Score)
}

func TestFundamentalScorer_RichValuation(t *testing.T) {
	info := &domain.SecurityInfo{ForwardPE: 85.0}
	score := NewFundamentalScorer().Calculate(info, 0)
	assert.InDelta(t, 2.5, score.Score, 1e-9)
}

func TestFundamentalScorer_TrailingPEFallback(t *testing.T) {
	info := &domain.SecurityInfo{TrailingPE: 18.0}
	score := NewFundamentalScorer().Calculate(info, 0)
	assert.InDelta(t, 4.0, score.Score, 1e-9)
	assert.Contains(t, score.Components, "valuation")
}

func TestFundamentalScorer_MissingDataStaysNeutral(t *testing.T) {
	score := NewFundamentalScorer().Calculate(&domain.SecurityInfo{}, 0)
	assert.Equal(t, BaseScore, score.Score)

	score = NewFundamentalScorer().Calculate(nil, 0)
	assert.Equal(t, BaseScore, score.Score)
}

func TestFundamentalScorer_Bonus(t *testing.T) {
	score := NewFundamentalScorer().Calculate(nil, 0.5)
	assert.InDelta(t, 3.5, score.Score, 1e-9)
	assert.Contains(t, score.Components, "thesis_adjustment")
}

func TestMacroScorer(t *testing.T) {
	info := &domain.SecurityInfo{
		Sector:    "Technology",
		MarketCap: 1_300_000_000_000,
	}
	score := NewMacroScorer().Calculate(info, 0)
	assert.InDelta(t, 4.0, score.Score, 1e-9)
}

func TestMacroScorer_LargeCapTier(t *testing.T) {
	info := &domain.SecurityInfo{Sector: "Utilities", MarketCap: 20_000_000_000}
	score := NewMacroScorer().Calculate(info, 0)
	assert.InDelta(t, 3.3, score.Score, 1e-9)
	assert.NotContains(t, score.Components, "sector")
}

func TestMacroScorer_SmallCapNonGrowth(t *testing.T) {
	info := &domain.SecurityInfo{Sector: "Industrials", MarketCap: 2_000_000_000}
	score := NewMacroScorer().Calculate(info, 0)
	assert.Equal(t, BaseScore, score.Score)
}

func TestRiskScorer_CalmLowDebt(t *testing.T) {
	info := &domain.SecurityInfo{DebtToEquity: 0.1}
	score := NewRiskScorer().Calculate(steadyUptrend(260), info)

	// Low vol +1.0, shallow drawdown +0.5, low leverage +1.0 clamps at 5.0
	assert.Equal(t, MaxScore, score.Score)
	require.Contains(t, score.Components, "volatility")
	require.Contains(t, score.Components, "leverage")
}

func TestRiskScorer_VolatileLeveraged(t *testing.T) {
	info := &domain.SecurityInfo{DebtToEquity: 2.5}
	score := NewRiskScorer().Calculate(choppyDowntrend(260), info)

	// High vol -1.0, deep drawdown -0.5, high leverage -1.0 clamps at 1.0
	assert.Equal(t, MinScore, score.Score)
	assert.Equal(t, -1.0, score.Components["volatility"])
	assert.Equal(t, -1.0, score.Components["leverage"])
	assert.Equal(t, -0.5, score.Components["drawdown"])
}

func TestRiskScorer_NoDebtDataAdjustsNothing(t *testing.T) {
	score := NewRiskScorer().Calculate(steadyUptrend(260), &domain.SecurityInfo{})
	assert.NotContains(t, score.Components, "leverage")
}

func TestScoresAlwaysInRange(t *testing.T) {
	series := []*domain.PriceSeries{
		steadyUptrend(260), choppyDowntrend(260), seriesFromCloses([]float64{100}),
	}
	infos := []*domain.SecurityInfo{
		nil,
		{},
		{ForwardPE: 500, ProfitMargin: -0.9, DebtToEquity: 10},
		{ForwardPE: 5, ProfitMargin: 0.4, RevenueGrowth: 0.8, Sector: "Technology", MarketCap: 2e12, DebtToEquity: 0.05},
	}
	for _, s := range series {
		for _, info := range infos {
			for _, bonus := range []float64{-3, 0, 3} {
				for _, r := range []Result{
					NewTechnicalScorer().Calculate(s),
					NewFundamentalScorer().Calculate(info, bonus),
					NewMacroScorer().Calculate(info, bonus),
					NewRiskScorer().Calculate(s, info),
				} {
					assert.GreaterOrEqual(t, r.Score, MinScore)
					assert.LessOrEqual(t, r.Score, MaxScore)
				}
			}
		}
	}
}
