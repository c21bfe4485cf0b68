// Package db persists the daemon's event history: lifecycle events of the
// daemon itself and inhibitor state transitions. History is best effort and
// never gates an inhibitor operation.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens or creates the SQLite database at the specified path.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL keeps history readers (the history command) from blocking the
	// daemon's writes.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	db := &DB{
		conn: conn,
		path: path,
	}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Close checkpoints the WAL and closes the connection.
func (db *DB) Close() error {
	if db.conn != nil {
		db.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		return db.conn.Close()
	}
	return nil
}

func (db *DB) initSchema() error {
	schema := `
	-- Daemon lifecycle events
	CREATE TABLE IF NOT EXISTS daemon_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		details TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Inhibitor state transitions
	CREATE TABLE IF NOT EXISTS inhibitor_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		details TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_daemon_events_timestamp ON daemon_events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_inhibitor_events_timestamp ON inhibitor_events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_inhibitor_events_type ON inhibitor_events(event_type);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// Event is one recorded daemon or inhibitor event.
type Event struct {
	ID        int64
	EventType string
	Details   string
	Timestamp time.Time
}

// LogDaemonEvent records a daemon lifecycle event.
func (db *DB) LogDaemonEvent(eventType, details string) error {
	_, err := db.conn.Exec(
		`INSERT INTO daemon_events (event_type, details, timestamp)
		 VALUES (?, ?, ?)`,
		eventType, details, time.Now(),
	)
	return err
}

// LogInhibitorEvent records an inhibitor transition. Retries briefly on a
// locked database; history must not block the control loop for long.
func (db *DB) LogInhibitorEvent(eventType, details string) error {
	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		_, err := db.conn.Exec(
			`INSERT INTO inhibitor_events (event_type, details, timestamp)
			 VALUES (?, ?, ?)`,
			eventType, details, time.Now(),
		)
		if err == nil {
			return nil
		}
		if strings.Contains(err.Error(), "database is locked") || strings.Contains(err.Error(), "SQLITE_BUSY") {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		return err
	}
	return fmt.Errorf("failed to log inhibitor event after %d retries: database locked", maxRetries)
}

// GetRecentDaemonEvents retrieves recent daemon lifecycle events, newest
// first.
func (db *DB) GetRecentDaemonEvents(limit int) ([]Event, error) {
	return db.queryEvents("daemon_events", limit)
}

// GetRecentInhibitorEvents retrieves recent inhibitor transitions, newest
// first.
func (db *DB) GetRecentInhibitorEvents(limit int) ([]Event, error) {
	return db.queryEvents("inhibitor_events", limit)
}

func (db *DB) queryEvents(table string, limit int) ([]Event, error) {
	rows, err := db.conn.Query(
		`SELECT id, event_type, details, timestamp
		 FROM `+table+`
		 ORDER BY timestamp DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.EventType, &e.Details, &e.Timestamp); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
