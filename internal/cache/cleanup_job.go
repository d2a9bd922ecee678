package cache

import "github.com/rs/zerolog"

// CleanupJob removes expired entries from the disk cache.
// It should be scheduled to run daily.
type CleanupJob struct {
	manager *Manager
	log     zerolog.Logger
}

// NewCleanupJob creates a new cache cleanup job.
func NewCleanupJob(manager *Manager, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		manager: manager,
		log:     log.With().Str("job", "cache_cleanup").Logger(),
	}
}

// Run executes the cleanup job, removing all expired entries.
func (j *CleanupJob) Run() error {
	deleted := j.manager.ClearExpired()
	if deleted > 0 {
		j.log.Info().Int("deleted", deleted).Msg("Cleaned up expired cache entries")
	}
	return nil
}

// Name returns the job name for scheduling and logging.
func (j *CleanupJob) Name() string {
	return "cache_cleanup"
}
