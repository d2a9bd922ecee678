package cache

import "github.com/aristath/tiker/internal/domain"

// Typed helpers for the two payloads cached on the hot path. Keeping the
// msgpack plumbing here means callers never touch raw keys.

// SetPriceSeries caches a fetched price series for a ticker and period.
func (m *Manager) SetPriceSeries(ticker string, periodDays int, series *domain.PriceSeries) bool {
	return m.Set(TypeMarketData, ticker, series, map[string]any{"period_days": periodDays})
}

// GetPriceSeries retrieves a cached price series, or nil on a miss.
func (m *Manager) GetPriceSeries(ticker string, periodDays int) *domain.PriceSeries {
	var series domain.PriceSeries
	if !m.Get(TypeMarketData, ticker, map[string]any{"period_days": periodDays}, &series) {
		return nil
	}
	return &series
}

// SetSecurityInfo caches provider fundamentals for a ticker.
func (m *Manager) SetSecurityInfo(ticker string, info *domain.SecurityInfo) bool {
	return m.Set(TypeFundamental, ticker, info, nil)
}

// GetSecurityInfo retrieves cached fundamentals, or nil on a miss.
func (m *Manager) GetSecurityInfo(ticker string) *domain.SecurityInfo {
	var info domain.SecurityInfo
	if !m.Get(TypeFundamental, ticker, nil, &info) {
		return nil
	}
	return &info
}
