// Package database provides database connection and initialization functionality.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB wraps the database connection holding the report manifest and the
// signal history.
type DB struct {
	conn *sql.DB
	path string
}

// New opens (creating if needed) the sqlite database at path and applies
// the schema migrations.
func New(path string) (*DB, error) {
	// file: URIs are used for in-memory databases in tests; skip filepath
	// operations for those
	if !strings.HasPrefix(path, "file:") {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		path = absPath
	}

	conn, err := sql.Open("sqlite", buildConnectionString(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(24 * time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return db, nil
}

// buildConnectionString creates the SQLite connection string with PRAGMAs
func buildConnectionString(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	connStr := path + sep + "_pragma=journal_mode(WAL)"
	connStr += "&_pragma=synchronous(NORMAL)"
	connStr += "&_pragma=foreign_keys(1)"
	connStr += "&_pragma=temp_store(MEMORY)"
	return connStr
}

// migrate creates the tables if they do not exist.
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS report_manifest (
		run_id     TEXT NOT NULL,
		ticker     TEXT NOT NULL,
		kind       TEXT NOT NULL,
		path       TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (ticker, kind)
	);

	CREATE TABLE IF NOT EXISTS signal_history (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker      TEXT NOT NULL,
		tech        REAL NOT NULL,
		fund        REAL NOT NULL,
		macro       REAL NOT NULL,
		risk        REAL NOT NULL,
		overall     REAL NOT NULL,
		recommendation TEXT NOT NULL,
		target_price   REAL NOT NULL,
		recorded_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_signal_history_ticker
		ON signal_history(ticker, recorded_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Conn exposes the underlying connection for repositories.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
