package cache

import "time"

// Data types recognized by the cache. Unknown types fall back to DefaultTTL.
const (
	TypeMarketData     = "market_data"
	TypeTechnical      = "technical"
	TypeFundamental    = "fundamental"
	TypePortfolio      = "portfolio"
	TypeExpertTemplate = "expert_template"
	TypeChart          = "chart"
)

// DefaultTTL applies to data types without an explicit TTL entry.
const DefaultTTL = 5 * time.Minute

// TTLByType maps each data type to its time-to-live.
// These are added to the entry timestamp to decide expiry on read.
var TTLByType = map[string]time.Duration{
	TypeMarketData:     5 * time.Minute,     // market data moves intraday
	TypeTechnical:      5 * time.Minute,     // derived from market data
	TypeFundamental:    24 * time.Hour,      // quarterly filings, daily is plenty
	TypePortfolio:      7 * 24 * time.Hour,  // static configuration
	TypeExpertTemplate: 30 * 24 * time.Hour, // hand-authored narrative content
	TypeChart:          time.Hour,
}

// TTLFor returns the TTL for a data type, falling back to DefaultTTL.
func TTLFor(dataType string) time.Duration {
	if ttl, ok := TTLByType[dataType]; ok {
		return ttl
	}
	return DefaultTTL
}
