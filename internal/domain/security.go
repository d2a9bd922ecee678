package domain

// SecurityInfo is the typed view of the provider's free-form quote/info blob.
// Every field defaults to its zero value when the provider omits the key;
// callers must treat zero as "unknown", not as a real reading.
type SecurityInfo struct {
	Symbol             string  `json:"symbol" msgpack:"symbol"`
	LongName           string  `json:"long_name" msgpack:"long_name"`
	Sector             string  `json:"sector" msgpack:"sector"`
	RegularMarketPrice float64 `json:"regular_market_price" msgpack:"regular_market_price"`
	MarketCap          int64   `json:"market_cap" msgpack:"market_cap"`
	ForwardPE          float64 `json:"forward_pe" msgpack:"forward_pe"`
	TrailingPE         float64 `json:"trailing_pe" msgpack:"trailing_pe"`
	ProfitMargin       float64 `json:"profit_margin" msgpack:"profit_margin"`
	RevenueGrowth      float64 `json:"revenue_growth" msgpack:"revenue_growth"`
	DebtToEquity       float64 `json:"debt_to_equity" msgpack:"debt_to_equity"`
	DividendYield      float64 `json:"dividend_yield" msgpack:"dividend_yield"`
	BusinessSummary    string  `json:"business_summary" msgpack:"business_summary"`
}

// Tradeable reports whether the provider knows a live market price for the
// symbol. Used to distinguish "invalid ticker" from "no data for the range".
func (i *SecurityInfo) Tradeable() bool {
	return i != nil && i.RegularMarketPrice > 0
}
