// Package reports renders per-ticker expert reports and the portfolio
// summary, in Markdown and HTML, and tracks the latest generated file of
// each kind in a manifest table.
package reports

import (
	"database/sql"
	"fmt"
	"time"
)

// Report kinds tracked in the manifest. The portfolio summary uses the
// pseudo-ticker "PORTFOLIO".
const (
	KindExpert  = "expert"
	KindSummary = "summary"

	PortfolioTicker = "PORTFOLIO"
)

// ManifestEntry points at the most recently generated report of one kind
// for one ticker.
type ManifestEntry struct {
	RunID     string    `json:"run_id"`
	Ticker    string    `json:"ticker"`
	Kind      string    `json:"kind"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// ManifestRepository persists report manifest entries. Recency comes from
// the manifest, never from scanning file modification times.
type ManifestRepository struct {
	db *sql.DB
}

// NewManifestRepository creates a manifest repository.
func NewManifestRepository(db *sql.DB) *ManifestRepository {
	return &ManifestRepository{db: db}
}

// Record registers a generated report, replacing any previous entry for the
// same ticker and kind.
func (r *ManifestRepository) Record(entry ManifestEntry) error {
	_, err := r.db.Exec(`
		INSERT INTO report_manifest (run_id, ticker, kind, path, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(ticker, kind) DO UPDATE SET
			run_id = excluded.run_id,
			path = excluded.path,
			created_at = excluded.created_at`,
		entry.RunID, entry.Ticker, entry.Kind, entry.Path, entry.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record report manifest entry: %w", err)
	}
	return nil
}

// Latest returns the manifest entry for a ticker and kind, or nil when no
// report of that kind has been generated.
func (r *ManifestRepository) Latest(ticker, kind string) (*ManifestEntry, error) {
	row := r.db.QueryRow(`
		SELECT run_id, ticker, kind, path, created_at
		FROM report_manifest
		WHERE ticker = ? AND kind = ?`, ticker, kind)

	var e ManifestEntry
	if err := row.Scan(&e.RunID, &e.Ticker, &e.Kind, &e.Path, &e.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query report manifest: %w", err)
	}
	return &e, nil
}

// All returns every manifest entry, ordered by ticker then kind.
func (r *ManifestRepository) All() ([]ManifestEntry, error) {
	rows, err := r.db.Query(`
		SELECT run_id, ticker, kind, path, created_at
		FROM report_manifest
		ORDER BY ticker, kind`)
	if err != nil {
		return nil, fmt.Errorf("failed to list report manifest: %w", err)
	}
	defer rows.Close()

	var entries []ManifestEntry
	for rows.Next() {
		var e ManifestEntry
		if err := rows.Scan(&e.RunID, &e.Ticker, &e.Kind, &e.Path, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report manifest row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
