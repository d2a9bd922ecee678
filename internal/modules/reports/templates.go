package reports

import (
	"fmt"
	"text/template"
)

var templateFuncs = template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	"usd": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	"score": func(v float64) string { return fmt.Sprintf("%.2f / 5", v) },
	"marketCap": func(v int64) string {
		switch {
		case v >= 1_000_000_000_000:
			return fmt.Sprintf("$%.2fT", float64(v)/1e12)
		case v >= 1_000_000_000:
			return fmt.Sprintf("$%.2fB", float64(v)/1e9)
		case v >= 1_000_000:
			return fmt.Sprintf("$%.2fM", float64(v)/1e6)
		case v > 0:
			return fmt.Sprintf("$%d", v)
		default:
			return "n/a"
		}
	},
}

const tickerReportTemplate = `# {{.Name}} ({{.Ticker}}) — Expert Panel Report

_Generated {{.Date}}_

## Snapshot

| | |
|---|---|
| Sector | {{.Sector}} |
| Last close | {{usd .Price}} |
| Market cap | {{marketCap .MarketCap}} |
| Recommendation | **{{.Recommendation}}** |
| Target price | {{usd .TargetPrice}} |

## Expert Scores

| Expert | Score |
|---|---|
| Technical | {{score .Tech}} |
| Fundamental | {{score .Fund}} |
| Macro | {{score .Macro}} |
| Risk | {{score .Risk}} |
| **Overall** | **{{score .Overall}}** |
{{range .Sections}}
### {{.Title}} — {{score .Score}}
{{if .Reasons}}{{range .Reasons}}
- {{.}}{{end}}
{{else}}
- No adjustments; neutral stance.
{{end}}{{end}}{{if .Narrative}}
## Thesis
{{range .Narrative}}
{{.}}
{{end}}{{end}}`

const portfolioSummaryTemplate = `# Portfolio Summary

_Generated {{.Date}}_

Total target allocation: {{printf "%.1f" .TotalWeight}}%

| Ticker | Name | Weight | Overall | Recommendation | Target |
|---|---|---|---|---|---|
{{- range .Rows}}
| {{.Ticker}} | {{.Name}} | {{printf "%.1f" .Weight}}% | {{printf "%.2f" .Overall}} | {{.Recommendation}} | {{usd .TargetPrice}} |
{{- end}}

## Stance Mix

| Recommendation | Tickers |
|---|---|
{{- range .Stances}}
| {{.Recommendation}} | {{.Tickers}} |
{{- end}}
`

var (
	tickerTmpl  = template.Must(template.New("ticker").Funcs(templateFuncs).Parse(tickerReportTemplate))
	summaryTmpl = template.Must(template.New("summary").Funcs(templateFuncs).Parse(portfolioSummaryTemplate))
)
