// Package marketdata fetches, caches, and enriches daily price history.
// It is the only module that talks to the market data provider; everything
// downstream works from the cached, indicator-augmented series it produces.
package marketdata

import "github.com/aristath/tiker/internal/domain"

// FetchResult is the tri-state outcome of a price history fetch. OK with a
// series means usable data; not-OK carries a human-readable message that
// distinguishes an invalid ticker from a valid one with no data in range.
type FetchResult struct {
	OK      bool                `json:"ok"`
	Series  *domain.PriceSeries `json:"series,omitempty"`
	Message string              `json:"message,omitempty"`
}

// RefreshSummary aggregates the outcome of a full-portfolio refresh.
type RefreshSummary struct {
	Refreshed []string          `json:"refreshed"`
	Failed    map[string]string `json:"failed,omitempty"`
}
