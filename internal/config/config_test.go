package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TIKER_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.DataDir))
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 365, cfg.Analysis.DefaultPeriodDays)
	assert.Equal(t, 1.5, cfg.Analysis.BufferMultiplier)
	assert.Equal(t, 5, cfg.Analysis.RefreshWorkers)

	assert.Equal(t, filepath.Join(cfg.DataDir, "cache"), cfg.CacheDir())
	assert.Equal(t, filepath.Join(cfg.DataDir, "tiker.db"), cfg.DatabasePath())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TIKER_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("TIKER_PERIOD_DAYS", "180")
	t.Setenv("TIKER_REFRESH_WORKERS", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 180, cfg.Analysis.DefaultPeriodDays)
	assert.Equal(t, 2, cfg.Analysis.RefreshWorkers)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Analysis: AnalysisConfig{DefaultPeriodDays: 365, BufferMultiplier: 1.5, RefreshWorkers: 5}}
	assert.NoError(t, cfg.Validate())

	cfg.Analysis.BufferMultiplier = 0.5
	assert.Error(t, cfg.Validate())

	cfg.Analysis.BufferMultiplier = 1.5
	cfg.Analysis.RefreshWorkers = 0
	assert.Error(t, cfg.Validate())
}
