package scoring

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aristath/tiker/internal/domain"
)

// HistoryRepository persists every scoring run so score drift can be
// reviewed over time.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a score history repository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record appends one score set to the history.
func (r *HistoryRepository) Record(s domain.ScoreSet) error {
	_, err := r.db.Exec(`
		INSERT INTO signal_history
			(ticker, tech, fund, macro, risk, overall, recommendation, target_price, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Ticker, s.Tech, s.Fund, s.Macro, s.Risk, s.Overall,
		string(s.Rec), s.TargetPrice, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record score for %s: %w", s.Ticker, err)
	}
	return nil
}

// HistoryEntry is one recorded scoring run.
type HistoryEntry struct {
	domain.ScoreSet
	RecordedAt time.Time `json:"recorded_at"`
}

// History returns the most recent scoring runs for a ticker, newest first.
func (r *HistoryRepository) History(ticker string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := r.db.Query(`
		SELECT ticker, tech, fund, macro, risk, overall, recommendation, target_price, recorded_at
		FROM signal_history
		WHERE ticker = ?
		ORDER BY recorded_at DESC
		LIMIT ?`, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query score history for %s: %w", ticker, err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var rec string
		if err := rows.Scan(&e.Ticker, &e.Tech, &e.Fund, &e.Macro, &e.Risk,
			&e.Overall, &rec, &e.TargetPrice, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score history row: %w", err)
		}
		e.Rec = domain.Recommendation(rec)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Latest returns the most recent recorded score for a ticker, or nil when
// the ticker has never been scored.
func (r *HistoryRepository) Latest(ticker string) (*HistoryEntry, error) {
	entries, err := r.History(ticker, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}
