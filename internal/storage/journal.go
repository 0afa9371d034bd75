// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ACTIVITY JOURNAL
// =============================================================================

// Journal events recorded by the client. These describe local actions
// only; no server data is cached here.
const (
	EventLogin      = "login"
	EventLogout     = "logout"
	EventRegister   = "register"
	EventUpload     = "upload"
	EventRAGTrigger = "rag_trigger"
	EventQuery      = "query"
	EventRoleChange = "role_change"
)

// journalSchema is the SQLite schema for the activity journal.
const journalSchema = `
CREATE TABLE IF NOT EXISTS activity (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    event TEXT NOT NULL,
    detail TEXT NOT NULL DEFAULT '',
    ok INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL -- Unix timestamp
);

CREATE INDEX IF NOT EXISTS idx_activity_event ON activity(event);
CREATE INDEX IF NOT EXISTS idx_activity_created_at ON activity(created_at);
`

// ActivityEntry is one recorded client action.
type ActivityEntry struct {
	ID     int64
	Event  string
	Detail string
	OK     bool
	At     time.Time
}

// Journal records client actions in a local SQLite database so that
// `docvault status` can report recent activity. Recording is best
// effort: a failed write never blocks the action it describes.
type Journal struct {
	db *sql.DB
}

// OpenJournal opens (creating if needed) the journal database at path.
func OpenJournal(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// Single-writer local file, keep the connection count down.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(journalSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends an activity entry.
func (j *Journal) Record(ctx context.Context, event, detail string, ok bool) error {
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO activity (event, detail, ok, created_at) VALUES (?, ?, ?, ?)",
		event, detail, boolToInt(ok), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]ActivityEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		"SELECT id, event, detail, ok, created_at FROM activity ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	var entries []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		var ok int
		var ts int64
		if err := rows.Scan(&e.ID, &e.Event, &e.Detail, &ok, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		e.OK = ok != 0
		e.At = time.Unix(ts, 0)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activity rows: %w", err)
	}
	return entries, nil
}

// CountByEvent returns activity counts grouped by event type.
func (j *Journal) CountByEvent(ctx context.Context) (map[string]int, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT event, COUNT(*) FROM activity GROUP BY event")
	if err != nil {
		return nil, fmt.Errorf("failed to query activity counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var event string
		var n int
		if err := rows.Scan(&event, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[event] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read count rows: %w", err)
	}
	return counts, nil
}

// Prune deletes entries older than the retention window.
func (j *Journal) Prune(ctx context.Context, retain time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retain).Unix()
	res, err := j.db.ExecContext(ctx,
		"DELETE FROM activity WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune journal: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
