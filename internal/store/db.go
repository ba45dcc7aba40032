// Package store records finished runs and milestone events to SQLite.
// Nothing here is ever loaded back into a running world.
package store

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// Run is one finished run
type Run struct {
	ID      int64     `json:"id"`
	Session string    `json:"sid"`
	Score   int       `json:"score"`
	Seconds int       `json:"secs"`
	Level   int       `json:"level"`
	Seed    uint32    `json:"seed"`
	EndedAt time.Time `json:"ended"`
}

// EventRow is a recorded milestone event
type EventRow struct {
	Session string
	Kind    string
	Value   int
	Tick    uint64
	At      time.Time
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL DEFAULT '',
		score INTEGER NOT NULL DEFAULT 0,
		seconds INTEGER NOT NULL DEFAULT 0,
		level INTEGER NOT NULL DEFAULT 1,
		seed INTEGER NOT NULL DEFAULT 0,
		ended_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL,
		value INTEGER NOT NULL DEFAULT 0,
		tick INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_score ON runs(score DESC);
	CREATE INDEX IF NOT EXISTS idx_run_events_session ON run_events(session_id);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("store: migration error: %v", err)
	}
	return err
}

// RecordRun inserts a finished run and returns its ID
func (db *DB) RecordRun(r Run) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO runs (session_id, score, seconds, level, seed, ended_at) VALUES (?, ?, ?, ?, ?, ?)",
		r.Session, r.Score, r.Seconds, r.Level, int64(r.Seed), r.EndedAt.UnixMilli(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// TopRuns returns the best runs by score, longest first on ties
func (db *DB) TopRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.conn.Query(`
		SELECT id, session_id, score, seconds, level, seed, ended_at FROM runs
		ORDER BY score DESC, seconds DESC, id ASC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Run
	for rows.Next() {
		var r Run
		var seed, ended int64
		if err := rows.Scan(&r.ID, &r.Session, &r.Score, &r.Seconds, &r.Level, &seed, &ended); err != nil {
			return nil, err
		}
		r.Seed = uint32(seed)
		r.EndedAt = time.UnixMilli(ended).UTC()
		result = append(result, r)
	}
	return result, rows.Err()
}

// EventCounts returns how often each event kind was recorded for a session,
// or across all sessions when sessionID is empty.
func (db *DB) EventCounts(sessionID string) (map[string]int, error) {
	rows, err := db.conn.Query(`
		SELECT kind, COUNT(*) FROM run_events
		WHERE ? = '' OR session_id = ?
		GROUP BY kind
	`, sessionID, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		result[kind] = count
	}
	return result, rows.Err()
}

// GetSetting returns a stored setting or "" when absent
func (db *DB) GetSetting(key string) string {
	var v string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("store: get setting %s: %v", key, err)
		}
		return ""
	}
	return v
}

// SetSetting upserts a setting
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
