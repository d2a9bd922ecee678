// Package scoring combines the four expert scorers into an overall score,
// recommendation and target price for a ticker.
package scoring

import (
	"github.com/rs/zerolog"

	"github.com/aristath/tiker/internal/domain"
	"github.com/aristath/tiker/internal/modules/portfolio"
	"github.com/aristath/tiker/internal/modules/scoring/scorers"
)

// Evaluation is a full scoring result for one ticker: the combined ScoreSet
// plus each expert's detailed result for report narration.
type Evaluation struct {
	domain.ScoreSet
	TechDetail  scorers.Result `json:"tech_detail"`
	FundDetail  scorers.Result `json:"fund_detail"`
	MacroDetail scorers.Result `json:"macro_detail"`
	RiskDetail  scorers.Result `json:"risk_detail"`
}

// Service runs the expert panel.
type Service struct {
	tech    *scorers.TechnicalScorer
	fund    *scorers.FundamentalScorer
	macro   *scorers.MacroScorer
	risk    *scorers.RiskScorer
	weights portfolio.ExpertWeights
	history *HistoryRepository
	log     zerolog.Logger
}

// NewService creates a scoring service. The history repository may be nil
// when score recording is not wanted (CLI one-offs).
func NewService(weights portfolio.ExpertWeights, history *HistoryRepository, log zerolog.Logger) *Service {
	return &Service{
		tech:    scorers.NewTechnicalScorer(),
		fund:    scorers.NewFundamentalScorer(),
		macro:   scorers.NewMacroScorer(),
		risk:    scorers.NewRiskScorer(),
		weights: weights,
		history: history,
		log:     log.With().Str("component", "scoring").Logger(),
	}
}

// Evaluate scores one ticker from its price series, fundamentals, and the
// portfolio's static per-ticker adjustments.
func (s *Service) Evaluate(ticker string, series *domain.PriceSeries, info *domain.SecurityInfo, holding portfolio.Holding) Evaluation {
	tech := s.tech.Calculate(series)
	fund := s.fund.Calculate(info, holding.FundBonus)
	macro := s.macro.Calculate(info, holding.MacroBonus)
	risk := s.risk.Calculate(series, info)

	w := s.weights
	totalWeight := w.Tech + w.Fund + w.Macro + w.Risk
	overall := (tech.Score*w.Tech + fund.Score*w.Fund + macro.Score*w.Macro + risk.Score*w.Risk) / totalWeight

	price := series.LastClose()
	target := price * (1 + (overall-scorers.BaseScore)*0.15)

	eval := Evaluation{
		ScoreSet: domain.ScoreSet{
			Ticker:      ticker,
			Tech:        tech.Score,
			Fund:        fund.Score,
			Macro:       macro.Score,
			Risk:        risk.Score,
			Overall:     overall,
			Rec:         domain.RecommendationFor(overall),
			TargetPrice: target,
		},
		TechDetail:  tech,
		FundDetail:  fund,
		MacroDetail: macro,
		RiskDetail:  risk,
	}

	s.log.Debug().
		Str("ticker", ticker).
		Float64("overall", overall).
		Str("recommendation", string(eval.Rec)).
		Msg("Scored ticker")

	if s.history != nil {
		if err := s.history.Record(eval.ScoreSet); err != nil {
			s.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to record score history")
		}
	}

	return eval
}
