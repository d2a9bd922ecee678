package server

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aristath/tiker/internal/events"
	"github.com/aristath/tiker/internal/modules/reports"
	"github.com/aristath/tiker/internal/modules/scoring"
)

// handlePortfolio returns the configured portfolio.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"holdings":     s.portfolio.Holdings,
		"total_weight": s.portfolio.TotalWeight(),
		"tickers":      s.portfolio.Tickers(),
	})
}

// handleAnalysis runs the analysis pipeline for one ticker on demand.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	days := s.cfg.Analysis.DefaultPeriodDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.respondError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	result, err := s.analysis.AnalyzeTicker(r.Context(), ticker, days)
	if err != nil {
		s.log.Error().Err(err).Str("ticker", ticker).Msg("Analysis failed")
		s.respondError(w, http.StatusBadGateway, "data provider unavailable")
		return
	}
	if !result.OK {
		s.respondError(w, http.StatusNotFound, result.Message)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":     result.Ticker,
		"evaluation": result.Evaluation,
		"info":       result.Info,
		"holding":    result.Holding,
		"series": map[string]interface{}{
			"rows":       result.Series.Len(),
			"last_close": result.Series.LastClose(),
			"last_date":  result.Series.LastDate(),
		},
	})
}

// handleScores returns the latest recorded score for every portfolio ticker.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	scores := make([]scoring.HistoryEntry, 0)
	unscored := make([]string, 0)

	for _, ticker := range s.portfolio.Tickers() {
		latest, err := s.history.Latest(ticker)
		if err != nil {
			s.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to load latest score")
			s.respondError(w, http.StatusInternalServerError, "failed to load scores")
			return
		}
		if latest == nil {
			unscored = append(unscored, ticker)
			continue
		}
		scores = append(scores, *latest)
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"scores":   scores,
		"unscored": unscored,
	})
}

// handleScoreHistory returns recent scoring runs for one ticker.
func (s *Server) handleScoreHistory(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	limit := 30
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := s.history.History(ticker, limit)
	if err != nil {
		s.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to load score history")
		s.respondError(w, http.StatusInternalServerError, "failed to load score history")
		return
	}
	if entries == nil {
		entries = []scoring.HistoryEntry{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"ticker": ticker, "history": entries})
}

// handleReportsList returns the full report manifest.
func (s *Server) handleReportsList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.manifest.All()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list report manifest")
		s.respondError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if entries == nil {
		entries = []reports.ManifestEntry{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"reports": entries})
}

// handleLatestReport serves the most recent report of a kind for a ticker.
// Recency comes from the manifest, not from file timestamps.
func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = reports.KindExpert
	}

	entry, err := s.manifest.Latest(ticker, kind)
	if err != nil {
		s.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to query report manifest")
		s.respondError(w, http.StatusInternalServerError, "failed to query reports")
		return
	}
	if entry == nil {
		s.respondError(w, http.StatusNotFound, "no report generated for this ticker")
		return
	}

	content, err := os.ReadFile(entry.Path)
	if err != nil {
		s.log.Error().Err(err).Str("path", entry.Path).Msg("Manifest points at a missing file")
		s.respondError(w, http.StatusInternalServerError, "report file missing")
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("X-Report-Run-Id", entry.RunID)
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// handleCacheStats returns cache usage statistics.
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.cache.GetStats())
}

// handleCacheClearExpired removes expired cache entries.
func (s *Server) handleCacheClearExpired(w http.ResponseWriter, r *http.Request) {
	removed := s.cache.ClearExpired()
	if s.bus != nil {
		s.bus.Emit(events.CacheCleared, "server", map[string]interface{}{"removed": removed})
	}
	s.respondJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// handleCacheClear wipes the entire cache.
func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if err := s.cache.ClearAll(); err != nil {
		s.log.Error().Err(err).Msg("Failed to clear cache")
		s.respondError(w, http.StatusInternalServerError, "failed to clear cache")
		return
	}
	if s.bus != nil {
		s.bus.Emit(events.CacheCleared, "server", map[string]interface{}{"removed": -1})
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// handleRefresh kicks off a portfolio analysis run in the background.
// Progress streams over /api/events/stream.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !s.refreshRunning.CompareAndSwap(false, true) {
		s.respondError(w, http.StatusConflict, "a refresh is already running")
		return
	}

	go func() {
		defer s.refreshRunning.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()

		if _, err := s.analysis.RefreshPortfolio(ctx, s.cfg.Analysis.DefaultPeriodDays); err != nil {
			s.log.Error().Err(err).Msg("Background refresh failed")
		}
	}()

	s.respondJSON(w, http.StatusAccepted, map[string]string{"status": "refresh started"})
}
