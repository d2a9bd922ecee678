// Package yahoo is a client for the Yahoo Finance chart and quote endpoints.
// The provider's schema is not under our control: responses are decoded
// defensively and missing fields fall back to zero values.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/tiker/internal/domain"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client is a Yahoo Finance API client
type Client struct {
	client  *http.Client
	baseURL string
	log     zerolog.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: defaultBaseURL,
		log:     log.With().Str("client", "yahoo").Logger(),
	}
}

// chartResponse mirrors the subset of the v8 chart payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetDailyBars fetches daily OHLCV bars for a symbol between start and end.
// An empty slice with a nil error is a normal outcome (unknown symbol,
// delisted, no trading in the range) that callers must branch on.
func (c *Client) GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Candle, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build chart request: %w", err)
	}

	q := req.URL.Query()
	q.Set("period1", fmt.Sprintf("%d", start.Unix()))
	q.Set("period2", fmt.Sprintf("%d", end.Unix()))
	q.Set("interval", "1d")
	q.Set("events", "history")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; tiker/1.0)")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		// Unknown symbol: a normal miss, not an error
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart request returned status %d", resp.StatusCode)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}
	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s (%s)",
			parsed.Chart.Error.Description, parsed.Chart.Error.Code)
	}
	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := parsed.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	candles := make([]domain.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Rows with a missing close are non-trading placeholders
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		candle := domain.Candle{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			candle.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			candle.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			candle.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			candle.Volume = *quote.Volume[i]
		}
		candles = append(candles, candle)
	}

	c.log.Debug().
		Str("symbol", symbol).
		Int("bars", len(candles)).
		Msg("Fetched daily bars")

	return candles, nil
}

// quoteResponse represents the response from the Yahoo Finance quote API
type quoteResponse struct {
	QuoteResponse struct {
		Result []map[string]interface{} `json:"result"`
		Error  interface{}              `json:"error"`
	} `json:"quoteResponse"`
}

// GetSecurityInfo fetches the quote/info blob for a symbol and maps it onto
// the typed SecurityInfo struct. Missing keys become zero values.
func (c *Client) GetSecurityInfo(ctx context.Context, symbol string) (*domain.SecurityInfo, error) {
	endpoint := fmt.Sprintf("%s/v7/finance/quote", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}

	q := req.URL.Query()
	q.Set("symbols", symbol)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; tiker/1.0)")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote request returned status %d", resp.StatusCode)
	}

	var parsed quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}
	if len(parsed.QuoteResponse.Result) == 0 {
		return nil, nil
	}

	info := parsed.QuoteResponse.Result[0]
	return &domain.SecurityInfo{
		Symbol:             symbol,
		LongName:           getString(info, "longName"),
		Sector:             getString(info, "sector"),
		RegularMarketPrice: getFloat64(info, "regularMarketPrice"),
		MarketCap:          getInt64(info, "marketCap"),
		ForwardPE:          getFloat64(info, "forwardPE"),
		TrailingPE:         getFloat64(info, "trailingPE"),
		ProfitMargin:       getFloat64(info, "profitMargins"),
		RevenueGrowth:      getFloat64(info, "revenueGrowth"),
		DebtToEquity:       getFloat64(info, "debtToEquity"),
		DividendYield:      getFloat64(info, "dividendYield"),
		BusinessSummary:    getString(info, "longBusinessSummary"),
	}, nil
}

// getFloat64 safely extracts a float64 from the provider's info map
func getFloat64(info map[string]interface{}, key string) float64 {
	if v, ok := info[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return 0
}

// getInt64 safely extracts an int64 from the provider's info map
func getInt64(info map[string]interface{}, key string) int64 {
	if v, ok := info[key]; ok {
		if f, ok := v.(float64); ok {
			return int64(f)
		}
	}
	return 0
}

// getString safely extracts a string from the provider's info map
func getString(info map[string]interface{}, key string) string {
	if v, ok := info[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
