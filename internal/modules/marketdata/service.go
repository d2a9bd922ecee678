package marketdata

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/tiker/internal/cache"
	"github.com/aristath/tiker/internal/config"
	"github.com/aristath/tiker/internal/domain"
)

// Provider is the market data source. *yahoo.Client satisfies it.
type Provider interface {
	GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Candle, error)
	GetSecurityInfo(ctx context.Context, symbol string) (*domain.SecurityInfo, error)
}

// Service coordinates fetching, caching and indicator enrichment.
type Service struct {
	provider Provider
	cache    *cache.Manager
	cfg      config.AnalysisConfig
	log      zerolog.Logger
}

// NewService creates a market data service.
func NewService(provider Provider, cacheManager *cache.Manager, cfg config.AnalysisConfig, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		cache:    cacheManager,
		cfg:      cfg,
		log:      log.With().Str("component", "marketdata").Logger(),
	}
}

// Fetch returns daily price history for a ticker covering roughly the last
// `days` calendar days. Cached data is served when fresh. A not-OK result is
// a data problem, not a transport failure: transport failures return an error.
func (s *Service) Fetch(ctx context.Context, ticker string, days int) (FetchResult, error) {
	if days <= 0 {
		days = s.cfg.DefaultPeriodDays
	}

	if cached := s.cache.GetPriceSeries(ticker, days); cached != nil {
		s.log.Debug().Str("ticker", ticker).Int("rows", cached.Len()).Msg("Serving cached price series")
		return FetchResult{OK: true, Series: cached}, nil
	}

	// Over-fetch so long-window indicators have lookback at the start of
	// the requested period.
	fetchDays := int(float64(days) * s.cfg.BufferMultiplier)
	end := time.Now()
	start := end.AddDate(0, 0, -fetchDays)

	bars, err := s.provider.GetDailyBars(ctx, ticker, start, end)
	if err != nil {
		return FetchResult{}, fmt.Errorf("failed to fetch price history for %s: %w", ticker, err)
	}

	if len(bars) == 0 {
		return s.classifyEmptyFetch(ctx, ticker, days)
	}

	if len(bars) < s.cfg.MinTradingDays {
		s.log.Warn().
			Str("ticker", ticker).
			Int("rows", len(bars)).
			Int("min", s.cfg.MinTradingDays).
			Msg("Price history shorter than expected, long-window indicators may be empty")
	}

	series := &domain.PriceSeries{Ticker: ticker, Candles: bars}
	s.cache.SetPriceSeries(ticker, days, series)

	return FetchResult{OK: true, Series: series}, nil
}

// classifyEmptyFetch distinguishes an invalid ticker from a valid one with
// no bars in the requested range, by probing the quote endpoint.
func (s *Service) classifyEmptyFetch(ctx context.Context, ticker string, days int) (FetchResult, error) {
	info, err := s.provider.GetSecurityInfo(ctx, ticker)
	if err != nil {
		return FetchResult{}, fmt.Errorf("failed to probe %s after empty fetch: %w", ticker, err)
	}
	if !info.Tradeable() {
		return FetchResult{
			Message: fmt.Sprintf("Invalid ticker %q: no such symbol at the data provider", ticker),
		}, nil
	}
	return FetchResult{
		Message: fmt.Sprintf("No price data for %s in the last %d days", ticker, days),
	}, nil
}

// SecurityInfo returns provider fundamentals for a ticker, cache-first.
// Unknown symbols yield (nil, nil).
func (s *Service) SecurityInfo(ctx context.Context, ticker string) (*domain.SecurityInfo, error) {
	if cached := s.cache.GetSecurityInfo(ticker); cached != nil {
		return cached, nil
	}

	info, err := s.provider.GetSecurityInfo(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if info != nil {
		s.cache.SetSecurityInfo(ticker, info)
	}
	return info, nil
}

// RefreshAll force-fetches price history for every ticker using a small
// worker pool. Cached entries for the tickers are dropped first so the
// refresh always hits the provider.
func (s *Service) RefreshAll(ctx context.Context, tickers []string, days int) RefreshSummary {
	if days <= 0 {
		days = s.cfg.DefaultPeriodDays
	}
	workers := s.cfg.RefreshWorkers
	if workers < 1 {
		workers = 1
	}

	var (
		mu      sync.Mutex
		summary = RefreshSummary{Failed: make(map[string]string)}
	)

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobs {
				s.cache.Delete(cache.TypeMarketData, ticker, map[string]any{"period_days": days})
				result, err := s.Fetch(ctx, ticker, days)

				mu.Lock()
				switch {
				case err != nil:
					summary.Failed[ticker] = err.Error()
				case !result.OK:
					summary.Failed[ticker] = result.Message
				default:
					summary.Refreshed = append(summary.Refreshed, ticker)
				}
				mu.Unlock()
			}
		}()
	}

	for _, ticker := range tickers {
		jobs <- ticker
	}
	close(jobs)
	wg.Wait()

	sort.Strings(summary.Refreshed)
	s.log.Info().
		Int("refreshed", len(summary.Refreshed)).
		Int("failed", len(summary.Failed)).
		Msg("Portfolio refresh complete")

	return summary
}
