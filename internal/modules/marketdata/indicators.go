package marketdata

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aristath/tiker/internal/domain"
	"github.com/aristath/tiker/pkg/formulas"
)

// Standard indicator windows.
const (
	emaFastSpan     = 20
	emaSlowSpan     = 50
	smaLongWindow   = 200
	rsiPeriod       = 14
	bollingerWindow = 20
	bollingerK      = 2.0
	atrPeriod       = 14
)

// AddIndicators returns a copy of the series augmented with the standard
// indicator columns. The input is never mutated; any indicator columns on
// the input are recomputed from the raw candles, so the call is idempotent.
func AddIndicators(series *domain.PriceSeries) *domain.PriceSeries {
	if series.Empty() {
		return series
	}

	closes := series.Closes()
	bb := formulas.BollingerBandsSeries(closes, bollingerWindow, bollingerK)

	return &domain.PriceSeries{
		Ticker:  series.Ticker,
		Candles: series.Candles,
		Indicators: &domain.IndicatorColumns{
			EMA20:    formulas.EMASeries(closes, emaFastSpan),
			EMA50:    formulas.EMASeries(closes, emaSlowSpan),
			SMA200:   formulas.SMASeries(closes, smaLongWindow),
			RSI:      formulas.RSISeries(closes, rsiPeriod),
			BBUpper:  bb.Upper,
			BBMiddle: bb.Middle,
			BBLower:  bb.Lower,
			BBStd:    bb.Std,
			ATR:      formulas.ATRSeries(series.Highs(), series.Lows(), closes, atrPeriod),
		},
	}
}

// ExportCSV writes the series with its indicator columns to a dated CSV file
// in dir and returns the file path. Rows without enough lookback leave the
// indicator cells empty.
func ExportCSV(series *domain.PriceSeries, dir string) (string, error) {
	if series.Empty() {
		return "", fmt.Errorf("cannot export an empty series")
	}
	if series.Indicators == nil {
		series = AddIndicators(series)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	name := fmt.Sprintf("%s_analysis_data_%s.csv", series.Ticker, time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"date", "open", "high", "low", "close", "volume",
		"ema20", "ema50", "sma200", "rsi14",
		"bb_upper", "bb_middle", "bb_lower", "bb_std", "atr14",
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	ind := series.Indicators
	for i, c := range series.Candles {
		row := []string{
			c.Date.Format("2006-01-02"),
			formatPrice(c.Open),
			formatPrice(c.High),
			formatPrice(c.Low),
			formatPrice(c.Close),
			strconv.FormatInt(c.Volume, 10),
			formatCell(ind.EMA20[i]),
			formatCell(ind.EMA50[i]),
			formatCell(ind.SMA200[i]),
			formatCell(ind.RSI[i]),
			formatCell(ind.BBUpper[i]),
			formatCell(ind.BBMiddle[i]),
			formatCell(ind.BBLower[i]),
			formatCell(ind.BBStd[i]),
			formatCell(ind.ATR[i]),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return path, nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatCell renders an indicator value, with NaN as an empty cell.
func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
