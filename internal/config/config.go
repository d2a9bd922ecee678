// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir       string // Base directory for cache, databases and CSV exports (always absolute)
	ReportsDir    string // Directory for generated Markdown/HTML reports
	PortfolioFile string // YAML file with portfolio holdings and narrative content
	LogLevel      string
	Port          int
	DevMode       bool

	Analysis AnalysisConfig
}

// AnalysisConfig holds data-fetch and indicator parameters.
type AnalysisConfig struct {
	DefaultPeriodDays int     // Calendar days of history to analyze
	BufferMultiplier  float64 // Extra lookback requested so SMA200 has data
	MinTradingDays    int     // Below this row count a warning is logged
	RefreshWorkers    int     // Parallel fetches during a portfolio refresh
}

// Load reads configuration from environment variables, loading a .env file
// if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("TIKER_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	reportsDir := getEnv("TIKER_REPORTS_DIR", "./reports")
	absReportsDir, err := filepath.Abs(reportsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reports directory path: %w", err)
	}

	cfg := &Config{
		DataDir:       absDataDir,
		ReportsDir:    absReportsDir,
		PortfolioFile: getEnv("TIKER_PORTFOLIO_FILE", filepath.Join(absDataDir, "portfolio.yaml")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Port:          getEnvAsInt("PORT", 8080),
		DevMode:       getEnvAsBool("DEV_MODE", false),
		Analysis: AnalysisConfig{
			DefaultPeriodDays: getEnvAsInt("TIKER_PERIOD_DAYS", 365),
			BufferMultiplier:  getEnvAsFloat("TIKER_BUFFER_MULTIPLIER", 1.5),
			MinTradingDays:    getEnvAsInt("TIKER_MIN_TRADING_DAYS", 250),
			RefreshWorkers:    getEnvAsInt("TIKER_REFRESH_WORKERS", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// CacheDir returns the directory for the disk cache.
func (c *Config) CacheDir() string {
	return filepath.Join(c.DataDir, "cache")
}

// DatabasePath returns the path of the sqlite database holding the report
// manifest and signal history.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "tiker.db")
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Analysis.DefaultPeriodDays <= 0 {
		return fmt.Errorf("period days must be positive, got %d", c.Analysis.DefaultPeriodDays)
	}
	if c.Analysis.BufferMultiplier < 1.0 {
		return fmt.Errorf("buffer multiplier must be at least 1.0, got %v", c.Analysis.BufferMultiplier)
	}
	if c.Analysis.RefreshWorkers <= 0 {
		return fmt.Errorf("refresh workers must be positive, got %d", c.Analysis.RefreshWorkers)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
