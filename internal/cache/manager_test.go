package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/tiker/internal/domain"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return m
}

func TestKey_ParamsHashIsStable(t *testing.T) {
	a := Key("market_data", "TSLA", map[string]any{"period_days": 365, "interval": "1d"})
	b := Key("market_data", "TSLA", map[string]any{"interval": "1d", "period_days": 365})
	assert.Equal(t, a, b, "key must not depend on map iteration order")

	c := Key("market_data", "TSLA", map[string]any{"period_days": 90})
	assert.NotEqual(t, a, c)

	// No params: plain type_identifier key
	assert.Equal(t, "market_data_TSLA", Key("market_data", "TSLA", nil))
}

func TestSetGet_RoundTrip(t *testing.T) {
	m := newTestManager(t)

	series := &domain.PriceSeries{
		Ticker: "TSLA",
		Candles: []domain.Candle{
			{Date: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), Open: 100, High: 105, Low: 99, Close: 104, Volume: 1_000_000},
			{Date: time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), Open: 104, High: 108, Low: 103, Close: 107, Volume: 900_000},
		},
	}

	ok := m.SetPriceSeries("TSLA", 365, series)
	require.True(t, ok)

	got := m.GetPriceSeries("TSLA", 365)
	require.NotNil(t, got)
	assert.Equal(t, "TSLA", got.Ticker)
	require.Len(t, got.Candles, 2)
	assert.Equal(t, 104.0, got.Candles[0].Close)
	assert.Equal(t, int64(900_000), got.Candles[1].Volume)
}

func TestGet_MissIsNotAnError(t *testing.T) {
	m := newTestManager(t)

	var dest domain.PriceSeries
	assert.False(t, m.Get(TypeMarketData, "NEVER_SET", nil, &dest))
	assert.Nil(t, m.GetPriceSeries("NEVER_SET", 365))
}

func TestGet_DifferentParamsMiss(t *testing.T) {
	m := newTestManager(t)

	require.True(t, m.SetPriceSeries("TSLA", 365, &domain.PriceSeries{Ticker: "TSLA"}))
	assert.Nil(t, m.GetPriceSeries("TSLA", 90))
}

func TestGet_ExpiredEntryIsDeletedLazily(t *testing.T) {
	m := newTestManager(t)

	require.True(t, m.SetPriceSeries("TSLA", 365, &domain.PriceSeries{Ticker: "TSLA"}))

	// Backdate the entry past the market_data TTL
	key := Key(TypeMarketData, "TSLA", map[string]any{"period_days": 365})
	meta := m.metadata[key]
	meta.Timestamp = time.Now().Add(-10 * time.Minute)
	m.metadata[key] = meta

	assert.Nil(t, m.GetPriceSeries("TSLA", 365))

	// Lazy deletion removed both the index entry and the payload file
	_, inIndex := m.metadata[key]
	assert.False(t, inIndex)
	_, err := os.Stat(m.payloadPath(key))
	assert.True(t, os.IsNotExist(err))
}

func TestSet_OverwritesPreviousEntry(t *testing.T) {
	m := newTestManager(t)

	require.True(t, m.SetSecurityInfo("TSLA", &domain.SecurityInfo{Symbol: "TSLA", ForwardPE: 50}))
	require.True(t, m.SetSecurityInfo("TSLA", &domain.SecurityInfo{Symbol: "TSLA", ForwardPE: 42}))

	got := m.GetSecurityInfo("TSLA")
	require.NotNil(t, got)
	assert.Equal(t, 42.0, got.ForwardPE)
	assert.Equal(t, 1, m.GetStats().TotalItems)
}

func TestDelete(t *testing.T) {
	m := newTestManager(t)

	require.True(t, m.SetSecurityInfo("TSLA", &domain.SecurityInfo{Symbol: "TSLA"}))
	assert.True(t, m.Delete(TypeFundamental, "TSLA", nil))
	assert.Nil(t, m.GetSecurityInfo("TSLA"))

	// Deleting a missing entry is a no-op, not a failure
	assert.True(t, m.Delete(TypeFundamental, "MISSING", nil))
}

func TestClearExpired_RemovesExactlyExpiredEntries(t *testing.T) {
	m := newTestManager(t)

	require.True(t, m.SetPriceSeries("TSLA", 365, &domain.PriceSeries{Ticker: "TSLA"}))
	require.True(t, m.SetPriceSeries("FSLR", 365, &domain.PriceSeries{Ticker: "FSLR"}))
	require.True(t, m.SetSecurityInfo("TSLA", &domain.SecurityInfo{Symbol: "TSLA"}))

	// Expire only the FSLR market data entry (market_data TTL is 5 minutes,
	// fundamental is 24h, so 10 minutes only crosses the first threshold)
	key := Key(TypeMarketData, "FSLR", map[string]any{"period_days": 365})
	meta := m.metadata[key]
	meta.Timestamp = time.Now().Add(-10 * time.Minute)
	m.metadata[key] = meta

	before := m.GetStats().TotalItems
	deleted := m.ClearExpired()

	assert.Equal(t, 1, deleted)
	assert.Equal(t, before-deleted, m.GetStats().TotalItems)
	assert.NotNil(t, m.GetPriceSeries("TSLA", 365))
	assert.NotNil(t, m.GetSecurityInfo("TSLA"))
}

func TestClearAll(t *testing.T) {
	m := newTestManager(t)

	require.True(t, m.SetSecurityInfo("TSLA", &domain.SecurityInfo{Symbol: "TSLA"}))
	require.True(t, m.SetSecurityInfo("FSLR", &domain.SecurityInfo{Symbol: "FSLR"}))

	require.NoError(t, m.ClearAll())
	stats := m.GetStats()
	assert.Equal(t, 0, stats.TotalItems)
	assert.Nil(t, m.GetSecurityInfo("TSLA"))
}

func TestGetStats(t *testing.T) {
	m := newTestManager(t)

	require.True(t, m.SetPriceSeries("TSLA", 365, &domain.PriceSeries{Ticker: "TSLA"}))
	require.True(t, m.SetSecurityInfo("TSLA", &domain.SecurityInfo{Symbol: "TSLA"}))

	stats := m.GetStats()
	assert.Equal(t, 2, stats.TotalItems)
	assert.Equal(t, 1, stats.ByType[TypeMarketData])
	assert.Equal(t, 1, stats.ByType[TypeFundamental])
	assert.Greater(t, stats.TotalSizeMB, 0.0)
	require.NotNil(t, stats.OldestItem)
	require.NotNil(t, stats.NewestItem)
	assert.False(t, stats.NewestItem.Before(*stats.OldestItem))
}

func TestMetadataSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	m1, err := NewManager(dir, zerolog.Nop())
	require.NoError(t, err)
	require.True(t, m1.SetSecurityInfo("TSLA", &domain.SecurityInfo{Symbol: "TSLA", Sector: "Consumer Cyclical"}))

	m2, err := NewManager(dir, zerolog.Nop())
	require.NoError(t, err)
	got := m2.GetSecurityInfo("TSLA")
	require.NotNil(t, got)
	assert.Equal(t, "Consumer Cyclical", got.Sector)
}

func TestCorruptMetadataStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cache_metadata.json"), []byte("{not json"), 0644))

	m, err := NewManager(dir, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, m.GetStats().TotalItems)
}

func TestGet_OrphanedPayloadIsAMiss(t *testing.T) {
	dir := t.TempDir()

	m1, err := NewManager(dir, zerolog.Nop())
	require.NoError(t, err)
	require.True(t, m1.SetPriceSeries("TSLA", 365, &domain.PriceSeries{Ticker: "TSLA"}))

	// Wipe the index but leave the payload file behind, as a corrupt
	// metadata reset would. Without a timestamp the entry's age is
	// unknown, so it must not be served.
	require.NoError(t, os.Remove(filepath.Join(dir, "cache_metadata.json")))
	m2, err := NewManager(dir, zerolog.Nop())
	require.NoError(t, err)

	key := Key(TypeMarketData, "TSLA", map[string]any{"period_days": 365})
	_, err = os.Stat(m2.payloadPath(key))
	require.NoError(t, err, "payload file should still be on disk")
	assert.Nil(t, m2.GetPriceSeries("TSLA", 365))
}

func TestCleanupJob(t *testing.T) {
	m := newTestManager(t)
	job := NewCleanupJob(m, zerolog.Nop())

	assert.Equal(t, "cache_cleanup", job.Name())
	assert.NoError(t, job.Run())
}
