// Package store provides the SQLite layer for local install tracking and
// build history. The catalog artifacts themselves are plain JSON; the
// database only holds state that must survive rebuilds.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps a SQLite connection.
type DB struct {
	conn *sql.DB
	mu   sync.Mutex // serialize writes
}

// Open opens or creates the database at the given path.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// OpenMemory opens an in-memory database for testing.
func OpenMemory() (*DB, error) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS installs (
		skill_id   TEXT PRIMARY KEY,
		count      INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS builds (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		ts       TEXT NOT NULL,
		total    INTEGER NOT NULL,
		failed   INTEGER NOT NULL,
		warnings INTEGER NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RecordInstall increments the local install count for a skill.
func (db *DB) RecordInstall(skillID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.conn.Exec(
		`INSERT INTO installs (skill_id, count, updated_at) VALUES (?, 1, unixepoch())
		 ON CONFLICT(skill_id) DO UPDATE SET count = count + 1, updated_at = unixepoch()`,
		skillID,
	)
	return err
}

// InstallCount returns the local install count for one skill.
func (db *DB) InstallCount(skillID string) (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT count FROM installs WHERE skill_id = ?`, skillID).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// InstallCounts returns all local install counts keyed by skill id.
func (db *DB) InstallCounts() (map[string]int, error) {
	rows, err := db.conn.Query(`SELECT skill_id, count FROM installs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		out[id] = count
	}
	return out, rows.Err()
}

// BuildRun is one row of build history.
type BuildRun struct {
	ID       int64  `json:"id"`
	Ts       string `json:"ts"`
	Total    int    `json:"total"`
	Failed   int    `json:"failed"`
	Warnings int    `json:"warnings"`
}

// RecordBuild appends one build run to the history.
func (db *DB) RecordBuild(total, failed, warnings int) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, err := db.conn.Exec(
		`INSERT INTO builds (ts, total, failed, warnings) VALUES (?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), total, failed, warnings,
	)
	return err
}

// LastBuild returns the most recent build run, or nil if none exist.
func (db *DB) LastBuild() (*BuildRun, error) {
	var run BuildRun
	err := db.conn.QueryRow(
		`SELECT id, ts, total, failed, warnings FROM builds ORDER BY id DESC LIMIT 1`,
	).Scan(&run.ID, &run.Ts, &run.Total, &run.Failed, &run.Warnings)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// BuildHistory returns up to limit recent build runs, newest first.
func (db *DB) BuildHistory(limit int) ([]BuildRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(
		`SELECT id, ts, total, failed, warnings FROM builds ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BuildRun
	for rows.Next() {
		var run BuildRun
		if err := rows.Scan(&run.ID, &run.Ts, &run.Total, &run.Failed, &run.Warnings); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
