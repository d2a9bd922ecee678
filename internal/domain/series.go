// Package domain contains the core types shared across modules.
// It has no infrastructure dependencies.
package domain

import "time"

// Candle is a single daily OHLCV bar.
type Candle struct {
	Date   time.Time `json:"date" msgpack:"date"`
	Open   float64   `json:"open" msgpack:"open"`
	High   float64   `json:"high" msgpack:"high"`
	Low    float64   `json:"low" msgpack:"low"`
	Close  float64   `json:"close" msgpack:"close"`
	Volume int64     `json:"volume" msgpack:"volume"`
}

// IndicatorColumns holds derived per-row indicator values aligned with the
// candle rows. Rows without enough lookback are NaN.
type IndicatorColumns struct {
	EMA20    []float64 `json:"ema20" msgpack:"ema20"`
	EMA50    []float64 `json:"ema50" msgpack:"ema50"`
	SMA200   []float64 `json:"sma200" msgpack:"sma200"`
	RSI      []float64 `json:"rsi" msgpack:"rsi"`
	BBUpper  []float64 `json:"bb_upper" msgpack:"bb_upper"`
	BBMiddle []float64 `json:"bb_middle" msgpack:"bb_middle"`
	BBLower  []float64 `json:"bb_lower" msgpack:"bb_lower"`
	BBStd    []float64 `json:"bb_std" msgpack:"bb_std"`
	ATR      []float64 `json:"atr" msgpack:"atr"`
}

// PriceSeries is an ordered-by-date series of daily bars for one ticker,
// immutable once fetched, optionally augmented with indicator columns.
type PriceSeries struct {
	Ticker     string            `json:"ticker" msgpack:"ticker"`
	Candles    []Candle          `json:"candles" msgpack:"candles"`
	Indicators *IndicatorColumns `json:"indicators,omitempty" msgpack:"indicators,omitempty"`
}

// Len returns the number of rows.
func (s *PriceSeries) Len() int {
	return len(s.Candles)
}

// Empty reports whether the series has no rows.
func (s *PriceSeries) Empty() bool {
	return s == nil || len(s.Candles) == 0
}

// Closes extracts the close column.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

// Highs extracts the high column.
func (s *PriceSeries) Highs() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.High
	}
	return out
}

// Lows extracts the low column.
func (s *PriceSeries) Lows() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Low
	}
	return out
}

// LastClose returns the most recent closing price, or 0 for an empty series.
func (s *PriceSeries) LastClose() float64 {
	if s.Empty() {
		return 0
	}
	return s.Candles[len(s.Candles)-1].Close
}

// LastDate returns the date of the most recent bar.
func (s *PriceSeries) LastDate() time.Time {
	if s.Empty() {
		return time.Time{}
	}
	return s.Candles[len(s.Candles)-1].Date
}
