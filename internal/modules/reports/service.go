package reports

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/aristath/tiker/internal/domain"
	"github.com/aristath/tiker/internal/modules/portfolio"
	"github.com/aristath/tiker/internal/modules/scoring"
)

// Service renders reports to disk and records them in the manifest.
type Service struct {
	dir      string
	manifest *ManifestRepository
	md       goldmark.Markdown
	log      zerolog.Logger
}

// NewService creates a report service writing under dir. Markdown lands in
// dir/markdown and the HTML rendering in dir/html.
func NewService(dir string, manifest *ManifestRepository, log zerolog.Logger) *Service {
	return &Service{
		dir:      dir,
		manifest: manifest,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		log:      log.With().Str("component", "reports").Logger(),
	}
}

// NewRunID returns a fresh identifier tying together the files of one
// generation run.
func (s *Service) NewRunID() string {
	return uuid.NewString()
}

// expertSection feeds one expert block of the ticker template.
type expertSection struct {
	Title   string
	Score   float64
	Reasons []string
}

// tickerReportData feeds the ticker template.
type tickerReportData struct {
	Ticker         string
	Name           string
	Sector         string
	Date           string
	Price          float64
	MarketCap      int64
	Tech           float64
	Fund           float64
	Macro          float64
	Risk           float64
	Overall        float64
	Recommendation string
	TargetPrice    float64
	Sections       []expertSection
	Narrative      []string
}

// TickerReport renders the expert panel report for one ticker and returns
// the manifest entry of the Markdown file.
func (s *Service) TickerReport(runID string, eval scoring.Evaluation, series *domain.PriceSeries, info *domain.SecurityInfo, holding portfolio.Holding) (*ManifestEntry, error) {
	name := holding.Name
	sector := holding.Sector
	if info != nil {
		if name == "" {
			name = info.LongName
		}
		if sector == "" {
			sector = info.Sector
		}
	}
	if name == "" {
		name = eval.Ticker
	}

	data := tickerReportData{
		Ticker:         eval.Ticker,
		Name:           name,
		Sector:         sector,
		Date:           time.Now().Format("2006-01-02"),
		Price:          series.LastClose(),
		Tech:           eval.Tech,
		Fund:           eval.Fund,
		Macro:          eval.Macro,
		Risk:           eval.Risk,
		Overall:        eval.Overall,
		Recommendation: string(eval.Rec),
		TargetPrice:    eval.TargetPrice,
		Narrative:      holding.Narrative,
		Sections: []expertSection{
			{Title: "Technical", Score: eval.Tech, Reasons: eval.TechDetail.Reasons},
			{Title: "Fundamental", Score: eval.Fund, Reasons: eval.FundDetail.Reasons},
			{Title: "Macro", Score: eval.Macro, Reasons: eval.MacroDetail.Reasons},
			{Title: "Risk", Score: eval.Risk, Reasons: eval.RiskDetail.Reasons},
		},
	}
	if info != nil {
		data.MarketCap = info.MarketCap
	}

	var buf bytes.Buffer
	if err := tickerTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render report for %s: %w", eval.Ticker, err)
	}

	base := fmt.Sprintf("%s_expert_report_%s", eval.Ticker, data.Date)
	return s.write(runID, eval.Ticker, KindExpert, base, buf.Bytes())
}

// summaryRow feeds one table row of the portfolio summary template.
type summaryRow struct {
	Ticker         string
	Name           string
	Weight         float64
	Overall        float64
	Recommendation string
	TargetPrice    float64
}

type stanceRow struct {
	Recommendation string
	Tickers        string
}

type summaryData struct {
	Date        string
	TotalWeight float64
	Rows        []summaryRow
	Stances     []stanceRow
}

// PortfolioSummary renders the cross-ticker summary report.
func (s *Service) PortfolioSummary(runID string, evals []scoring.Evaluation, p *portfolio.Portfolio) (*ManifestEntry, error) {
	data := summaryData{
		Date:        time.Now().Format("2006-01-02"),
		TotalWeight: p.TotalWeight(),
	}

	byStance := make(map[string][]string)
	for _, eval := range evals {
		holding, _ := p.Holding(eval.Ticker)
		data.Rows = append(data.Rows, summaryRow{
			Ticker:         eval.Ticker,
			Name:           holding.Name,
			Weight:         holding.Weight,
			Overall:        eval.Overall,
			Recommendation: string(eval.Rec),
			TargetPrice:    eval.TargetPrice,
		})
		byStance[string(eval.Rec)] = append(byStance[string(eval.Rec)], eval.Ticker)
	}
	sort.Slice(data.Rows, func(i, j int) bool { return data.Rows[i].Ticker < data.Rows[j].Ticker })

	// Strongest stance first in the mix table
	for _, rec := range []domain.Recommendation{
		domain.StrongBuy, domain.Buy, domain.Hold, domain.Sell, domain.StrongSell,
	} {
		if tickers := byStance[string(rec)]; len(tickers) > 0 {
			sort.Strings(tickers)
			data.Stances = append(data.Stances, stanceRow{
				Recommendation: string(rec),
				Tickers:        strings.Join(tickers, ", "),
			})
		}
	}

	var buf bytes.Buffer
	if err := summaryTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render portfolio summary: %w", err)
	}

	base := fmt.Sprintf("portfolio_summary_%s", data.Date)
	return s.write(runID, PortfolioTicker, KindSummary, base, buf.Bytes())
}

// write stores the Markdown and its HTML rendering, records the Markdown
// file in the manifest, and returns its entry.
func (s *Service) write(runID, ticker, kind, base string, markdown []byte) (*ManifestEntry, error) {
	mdDir := filepath.Join(s.dir, "markdown")
	htmlDir := filepath.Join(s.dir, "html")
	for _, d := range []string{mdDir, htmlDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	mdPath := filepath.Join(mdDir, base+".md")
	if err := os.WriteFile(mdPath, markdown, 0644); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	html, err := s.renderHTML(markdown)
	if err != nil {
		return nil, err
	}
	htmlPath := filepath.Join(htmlDir, base+".html")
	if err := os.WriteFile(htmlPath, html, 0644); err != nil {
		return nil, fmt.Errorf("failed to write HTML report: %w", err)
	}

	entry := ManifestEntry{
		RunID:     runID,
		Ticker:    ticker,
		Kind:      kind,
		Path:      mdPath,
		CreatedAt: time.Now().UTC(),
	}
	if s.manifest != nil {
		if err := s.manifest.Record(entry); err != nil {
			return nil, err
		}
	}

	s.log.Info().
		Str("ticker", ticker).
		Str("kind", kind).
		Str("path", mdPath).
		Msg("Generated report")

	return &entry, nil
}

// renderHTML converts report Markdown to a standalone HTML document.
func (s *Service) renderHTML(markdown []byte) ([]byte, error) {
	var body bytes.Buffer
	if err := s.md.Convert(markdown, &body); err != nil {
		return nil, fmt.Errorf("failed to convert report to HTML: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<style>body{font-family:sans-serif;max-width:60rem;margin:2rem auto;padding:0 1rem}")
	page.WriteString("table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:0.3rem 0.6rem}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("\n</body>\n</html>\n")
	return page.Bytes(), nil
}
