package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/tiker/internal/modules/analysis"
)

// RefreshJob runs a full portfolio analysis pass on schedule so reports
// and scores stay current without anyone hitting the refresh endpoint.
type RefreshJob struct {
	analysis *analysis.Service
	days     int
	timeout  time.Duration
	log      zerolog.Logger
}

// NewRefreshJob creates a scheduled portfolio refresh job.
func NewRefreshJob(analysisSvc *analysis.Service, days int, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		analysis: analysisSvc,
		days:     days,
		timeout:  15 * time.Minute,
		log:      log.With().Str("job", "portfolio_refresh").Logger(),
	}
}

// Name returns the job name.
func (j *RefreshJob) Name() string {
	return "portfolio_refresh"
}

// Run executes one analysis pass over the whole portfolio.
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	result, err := j.analysis.RefreshPortfolio(ctx, j.days)
	if err != nil {
		return fmt.Errorf("portfolio refresh failed: %w", err)
	}

	j.log.Info().
		Str("run_id", result.RunID).
		Int("analyzed", len(result.Evaluations)).
		Int("skipped", len(result.Skipped)).
		Msg("Scheduled portfolio refresh complete")
	return nil
}
