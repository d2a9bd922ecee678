// Package analysis orchestrates a full analysis pass: fetch and enrich
// price data, run the expert panel, and generate reports. The HTTP server
// and the CLI both drive this service rather than wiring the modules
// themselves.
package analysis

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/tiker/internal/domain"
	"github.com/aristath/tiker/internal/events"
	"github.com/aristath/tiker/internal/modules/marketdata"
	"github.com/aristath/tiker/internal/modules/portfolio"
	"github.com/aristath/tiker/internal/modules/reports"
	"github.com/aristath/tiker/internal/modules/scoring"
)

// TickerAnalysis is the full result of analyzing one ticker.
type TickerAnalysis struct {
	Ticker     string               `json:"ticker"`
	OK         bool                 `json:"ok"`
	Message    string               `json:"message,omitempty"`
	Series     *domain.PriceSeries  `json:"-"`
	Info       *domain.SecurityInfo `json:"info,omitempty"`
	Holding    portfolio.Holding    `json:"holding"`
	Evaluation *scoring.Evaluation  `json:"evaluation,omitempty"`
}

// RunResult summarizes a portfolio-wide analysis run.
type RunResult struct {
	RunID       string                  `json:"run_id"`
	Evaluations []scoring.Evaluation    `json:"evaluations"`
	Reports     []reports.ManifestEntry `json:"reports"`
	Summary     *reports.ManifestEntry  `json:"summary,omitempty"`
	Skipped     map[string]string       `json:"skipped,omitempty"`
}

// Service orchestrates the analysis pipeline.
type Service struct {
	market    *marketdata.Service
	scoring   *scoring.Service
	reports   *reports.Service
	portfolio *portfolio.Portfolio
	bus       *events.Bus
	log       zerolog.Logger
}

// NewService creates the orchestrator. The bus may be nil when nothing
// listens for progress (CLI one-offs).
func NewService(
	market *marketdata.Service,
	scoringSvc *scoring.Service,
	reportsSvc *reports.Service,
	p *portfolio.Portfolio,
	bus *events.Bus,
	log zerolog.Logger,
) *Service {
	return &Service{
		market:    market,
		scoring:   scoringSvc,
		reports:   reportsSvc,
		portfolio: p,
		bus:       bus,
		log:       log.With().Str("component", "analysis").Logger(),
	}
}

// AnalyzeTicker runs the pipeline for one ticker. A not-OK result means
// the ticker had no usable price data; errors are transport failures.
func (s *Service) AnalyzeTicker(ctx context.Context, ticker string, days int) (*TickerAnalysis, error) {
	holding, _ := s.portfolio.Holding(ticker)

	fetch, err := s.market.Fetch(ctx, ticker, days)
	if err != nil {
		return nil, err
	}
	if !fetch.OK {
		return &TickerAnalysis{Ticker: ticker, Message: fetch.Message, Holding: holding}, nil
	}

	series := marketdata.AddIndicators(fetch.Series)

	info, err := s.market.SecurityInfo(ctx, ticker)
	if err != nil {
		// Fundamentals are an enrichment; score on price data alone
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("Proceeding without fundamentals")
		info = nil
	}

	eval := s.scoring.Evaluate(ticker, series, info, holding)
	s.emit(events.ScoreUpdated, map[string]interface{}{
		"ticker":  ticker,
		"overall": eval.Overall,
	})

	return &TickerAnalysis{
		Ticker:     ticker,
		OK:         true,
		Series:     series,
		Info:       info,
		Holding:    holding,
		Evaluation: &eval,
	}, nil
}

// RefreshPortfolio force-refreshes price data for every configured ticker
// using the market data worker pool, then runs the full analysis pass off
// the freshly warmed cache. This is what the scheduler and the refresh
// endpoint call; RunPortfolio alone is cache-first and never re-fetches.
func (s *Service) RefreshPortfolio(ctx context.Context, days int) (*RunResult, error) {
	tickers := s.portfolio.Tickers()
	summary := s.market.RefreshAll(ctx, tickers, days)
	for ticker, reason := range summary.Failed {
		s.log.Warn().Str("ticker", ticker).Str("reason", reason).Msg("Ticker refresh failed, analysis will retry")
	}
	return s.RunPortfolio(ctx, days)
}

// RunPortfolio analyzes every configured ticker and generates the full
// report set. Tickers without usable data are skipped with a message
// rather than failing the run.
func (s *Service) RunPortfolio(ctx context.Context, days int) (*RunResult, error) {
	runID := s.reports.NewRunID()
	tickers := s.portfolio.Tickers()

	s.emit(events.RefreshStarted, map[string]interface{}{
		"run_id":  runID,
		"tickers": len(tickers),
	})

	result := &RunResult{RunID: runID, Skipped: make(map[string]string)}

	for _, ticker := range tickers {
		analysis, err := s.AnalyzeTicker(ctx, ticker, days)
		if err != nil {
			s.emit(events.ErrorOccurred, map[string]interface{}{
				"ticker": ticker,
				"error":  err.Error(),
			})
			result.Skipped[ticker] = err.Error()
			continue
		}
		if !analysis.OK {
			result.Skipped[ticker] = analysis.Message
			continue
		}

		entry, err := s.reports.TickerReport(runID, *analysis.Evaluation, analysis.Series, analysis.Info, analysis.Holding)
		if err != nil {
			return nil, fmt.Errorf("failed to generate report for %s: %w", ticker, err)
		}
		s.emit(events.ReportGenerated, map[string]interface{}{
			"ticker": ticker,
			"path":   entry.Path,
		})

		result.Evaluations = append(result.Evaluations, *analysis.Evaluation)
		result.Reports = append(result.Reports, *entry)

		s.emit(events.TickerRefreshed, map[string]interface{}{
			"ticker": ticker,
			"run_id": runID,
		})
	}

	if len(result.Evaluations) > 0 {
		summary, err := s.reports.PortfolioSummary(runID, result.Evaluations, s.portfolio)
		if err != nil {
			return nil, fmt.Errorf("failed to generate portfolio summary: %w", err)
		}
		result.Summary = summary
	}

	s.emit(events.RefreshCompleted, map[string]interface{}{
		"run_id":   runID,
		"analyzed": len(result.Evaluations),
		"skipped":  len(result.Skipped),
	})

	s.log.Info().
		Str("run_id", runID).
		Int("analyzed", len(result.Evaluations)).
		Int("skipped", len(result.Skipped)).
		Msg("Portfolio analysis run complete")

	return result, nil
}

func (s *Service) emit(eventType events.EventType, data map[string]interface{}) {
	if s.bus != nil {
		s.bus.Emit(eventType, "analysis", data)
	}
}
