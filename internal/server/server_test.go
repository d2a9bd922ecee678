package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/tiker/internal/cache"
	"github.com/aristath/tiker/internal/config"
	"github.com/aristath/tiker/internal/database"
	"github.com/aristath/tiker/internal/domain"
	"github.com/aristath/tiker/internal/events"
	"github.com/aristath/tiker/internal/modules/analysis"
	"github.com/aristath/tiker/internal/modules/marketdata"
	"github.com/aristath/tiker/internal/modules/portfolio"
	"github.com/aristath/tiker/internal/modules/reports"
	"github.com/aristath/tiker/internal/modules/scoring"
)

type stubProvider struct {
	bars map[string][]domain.Candle
	info map[string]*domain.SecurityInfo
}

func (p *stubProvider) GetDailyBars(_ context.Context, symbol string, _, _ time.Time) ([]domain.Candle, error) {
	return p.bars[symbol], nil
}

func (p *stubProvider) GetSecurityInfo(_ context.Context, symbol string) (*domain.SecurityInfo, error) {
	return p.info[symbol], nil
}

func risingBars(n int) []domain.Candle {
	bars := make([]domain.Candle, n)
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		price := 100 + float64(i)*0.1
		bars[i] = domain.Candle{
			Date: start.AddDate(0, 0, i), Open: price, High: price * 1.01,
			Low: price * 0.99, Close: price, Volume: 500_000,
		}
	}
	return bars
}

type testEnv struct {
	server   *Server
	history  *scoring.HistoryRepository
	analysis *analysis.Service
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(fmt.Sprintf("file:server_%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mgr, err := cache.NewManager(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	appCfg := &config.Config{
		DataDir:    t.TempDir(),
		ReportsDir: t.TempDir(),
		Port:       0,
		Analysis:   config.AnalysisConfig{DefaultPeriodDays: 365, BufferMultiplier: 1.5, MinTradingDays: 250, RefreshWorkers: 2},
	}

	provider := &stubProvider{
		bars: map[string][]domain.Candle{"TSLA": risingBars(300), "FSLR": risingBars(300)},
		info: map[string]*domain.SecurityInfo{
			"TSLA": {Symbol: "TSLA", Sector: "Technology", RegularMarketPrice: 130, MarketCap: 1.3e12},
		},
	}

	p := &portfolio.Portfolio{
		Weights: portfolio.DefaultWeights(),
		Holdings: map[string]portfolio.Holding{
			"TSLA": {Weight: 60, Name: "Tesla", Sector: "EV"},
			"FSLR": {Weight: 40, Name: "First Solar", Sector: "Solar"},
		},
	}

	market := marketdata.NewService(provider, mgr, appCfg.Analysis, zerolog.Nop())
	history := scoring.NewHistoryRepository(db.Conn())
	scoringSvc := scoring.NewService(p.Weights, history, zerolog.Nop())
	manifest := reports.NewManifestRepository(db.Conn())
	reportsSvc := reports.NewService(appCfg.ReportsDir, manifest, zerolog.Nop())
	bus := events.NewBus()
	analysisSvc := analysis.NewService(market, scoringSvc, reportsSvc, p, bus, zerolog.Nop())

	srv := New(Config{
		Log:       zerolog.Nop(),
		AppConfig: appCfg,
		Cache:     mgr,
		Analysis:  analysisSvc,
		History:   history,
		Manifest:  manifest,
		Portfolio: p,
		Bus:       bus,
	})

	return &testEnv{server: srv, history: history, analysis: analysisSvc}
}

func doRequest(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	env := newTestServer(t)
	rec := doRequest(t, env.server, http.MethodGet, "/api/health")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "cache")
}

func TestPortfolioEndpoint(t *testing.T) {
	env := newTestServer(t)
	rec := doRequest(t, env.server, http.MethodGet, "/api/portfolio")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.InDelta(t, 100.0, body["total_weight"], 0.001)
	tickers := body["tickers"].([]interface{})
	assert.Len(t, tickers, 2)
}

func TestAnalysisEndpoint(t *testing.T) {
	env := newTestServer(t)
	rec := doRequest(t, env.server, http.MethodGet, "/api/analysis/TSLA")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "TSLA", body["ticker"])
	require.Contains(t, body, "evaluation")

	eval := body["evaluation"].(map[string]interface{})
	assert.Contains(t, eval, "overall")
	assert.Contains(t, eval, "recommendation")
}

func TestAnalysisEndpoint_UnknownTicker(t *testing.T) {
	env := newTestServer(t)
	rec := doRequest(t, env.server, http.MethodGet, "/api/analysis/NOPE")

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "Invalid ticker")
}

func TestAnalysisEndpoint_BadDays(t *testing.T) {
	env := newTestServer(t)
	rec := doRequest(t, env.server, http.MethodGet, "/api/analysis/TSLA?days=banana")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoresEndpoint(t *testing.T) {
	env := newTestServer(t)

	// Nothing scored yet
	rec := doRequest(t, env.server, http.MethodGet, "/api/scores")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["unscored"], 2)
	assert.Empty(t, body["scores"])

	// Run the pipeline, then scores appear
	_, err := env.analysis.RunPortfolio(context.Background(), 365)
	require.NoError(t, err)

	rec = doRequest(t, env.server, http.MethodGet, "/api/scores")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Len(t, body["scores"], 2)
	assert.Empty(t, body["unscored"])
}

func TestScoreHistoryEndpoint(t *testing.T) {
	env := newTestServer(t)
	_, err := env.analysis.RunPortfolio(context.Background(), 365)
	require.NoError(t, err)

	rec := doRequest(t, env.server, http.MethodGet, "/api/scores/TSLA/history?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["history"], 1)
}

func TestLatestReportEndpoint(t *testing.T) {
	env := newTestServer(t)

	rec := doRequest(t, env.server, http.MethodGet, "/api/reports/TSLA/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err := env.analysis.RunPortfolio(context.Background(), 365)
	require.NoError(t, err)

	rec = doRequest(t, env.server, http.MethodGet, "/api/reports/TSLA/latest")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.NotEmpty(t, rec.Header().Get("X-Report-Run-Id"))
	assert.Contains(t, rec.Body.String(), "TSLA")

	rec = doRequest(t, env.server, http.MethodGet, "/api/reports/PORTFOLIO/latest?kind=summary")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Portfolio Summary")
}

func TestReportsListEndpoint(t *testing.T) {
	env := newTestServer(t)
	_, err := env.analysis.RunPortfolio(context.Background(), 365)
	require.NoError(t, err)

	rec := doRequest(t, env.server, http.MethodGet, "/api/reports")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	// Two ticker reports plus the portfolio summary
	assert.Len(t, body["reports"], 3)
}

func TestCacheEndpoints(t *testing.T) {
	env := newTestServer(t)
	_, err := env.analysis.RunPortfolio(context.Background(), 365)
	require.NoError(t, err)

	rec := doRequest(t, env.server, http.MethodGet, "/api/cache/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Greater(t, body["total_items"], 0.0)

	rec = doRequest(t, env.server, http.MethodPost, "/api/cache/clear-expired")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, env.server, http.MethodPost, "/api/cache/clear")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, env.server, http.MethodGet, "/api/cache/stats")
	body = decodeBody(t, rec)
	assert.Equal(t, 0.0, body["total_items"])
}

func TestRefreshEndpoint(t *testing.T) {
	env := newTestServer(t)

	rec := doRequest(t, env.server, http.MethodPost, "/api/refresh")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	// Scores eventually land once the background run finishes
	assert.Eventually(t, func() bool {
		latest, err := env.history.Latest("TSLA")
		return err == nil && latest != nil
	}, 5*time.Second, 50*time.Millisecond)
}
