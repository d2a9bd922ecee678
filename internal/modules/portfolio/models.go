// Package portfolio holds the portfolio configuration: which tickers are
// tracked, their target weights, and the per-ticker scoring and narrative
// content. The configuration is immutable after load; changing it means
// editing the YAML file and restarting.
package portfolio

import "sort"

// Holding describes one portfolio position.
type Holding struct {
	Weight float64 `yaml:"weight" json:"weight"` // Target allocation in percent
	Name   string  `yaml:"name" json:"name"`
	Sector string  `yaml:"sector" json:"sector"`
	Color  string  `yaml:"color" json:"color"` // Display color for dashboards

	// Static scoring content. The fundamental and macro experts lean on
	// hand-maintained per-ticker adjustments in addition to provider data.
	FundBonus  float64 `yaml:"fund_bonus" json:"fund_bonus"`
	MacroBonus float64 `yaml:"macro_bonus" json:"macro_bonus"`

	// Narrative fragments rendered into the per-ticker discussion report.
	Narrative []string `yaml:"narrative" json:"narrative,omitempty"`
}

// ExpertWeights are the weights applied when combining category scores into
// the overall score.
type ExpertWeights struct {
	Tech  float64 `yaml:"tech" json:"tech"`
	Fund  float64 `yaml:"fund" json:"fund"`
	Macro float64 `yaml:"macro" json:"macro"`
	Risk  float64 `yaml:"risk" json:"risk"`
}

// Portfolio is the full, immutable portfolio configuration.
type Portfolio struct {
	Holdings map[string]Holding `yaml:"holdings" json:"holdings"`
	Weights  ExpertWeights      `yaml:"expert_weights" json:"expert_weights"`
}

// Tickers returns the configured ticker symbols in deterministic order.
func (p *Portfolio) Tickers() []string {
	tickers := make([]string, 0, len(p.Holdings))
	for t := range p.Holdings {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// TotalWeight sums the holding weights. A healthy portfolio sums to 100.
func (p *Portfolio) TotalWeight() float64 {
	var total float64
	for _, h := range p.Holdings {
		total += h.Weight
	}
	return total
}

// Holding returns the configuration for a ticker, with ok=false for
// tickers outside the portfolio.
func (p *Portfolio) Holding(ticker string) (Holding, bool) {
	h, ok := p.Holdings[ticker]
	return h, ok
}
