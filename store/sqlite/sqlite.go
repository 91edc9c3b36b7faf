/*
Package sqlite provides the SQLite-backed PunchStore.

PURPOSE:

	Persists recorded punches in a single punches table. The combined
	(date, time) key carries a UNIQUE constraint: inserting the same
	punch twice is detected by the database and surfaced to callers as
	the Duplicate result value, never as an error.

SCHEMA:

	punches(date, time, type) with UNIQUE(date, time) and an index on
	date for the range queries that back the calendar and list views.

CONCURRENCY:

	Uses sync.RWMutex for thread-safety, and SQLite WAL mode so readers
	do not block behind the single writer.

USAGE:

	store, err := sqlite.New("./data/punches.db")
	if err != nil {
	    log.Fatal(err)
	}
	defer store.Close()

SEE ALSO:
  - engine/store.go: Interface definition
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tempo/punch-engine/engine"
)

// Store implements engine.PunchStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS punches (
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'punch',
		created_at TEXT NOT NULL,
		UNIQUE(date, time)
	);

	CREATE INDEX IF NOT EXISTS idx_punches_date ON punches(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PUNCH STORE (engine.PunchStore interface)
// =============================================================================

// Load returns all punches in the period, keyed by ISO date, each
// day's list ordered chronologically.
func (s *Store) Load(ctx context.Context, p engine.Period) (map[string][]engine.Punch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT date, time, type
		FROM punches
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC, time ASC
	`

	rows, err := s.db.QueryContext(ctx, query, p.Start.String(), p.End.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query punches: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]engine.Punch)
	for rows.Next() {
		date, punch, err := scanPunch(rows)
		if err != nil {
			return nil, err
		}
		result[date] = append(result[date], punch)
	}
	return result, rows.Err()
}

// PunchesForDate returns the ordered punches for a single date.
func (s *Store) PunchesForDate(ctx context.Context, date engine.Date) ([]engine.Punch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT date, time, type
		FROM punches
		WHERE date = ?
		ORDER BY time ASC
	`

	rows, err := s.db.QueryContext(ctx, query, date.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query punches: %w", err)
	}
	defer rows.Close()

	var punches []engine.Punch
	for rows.Next() {
		_, punch, err := scanPunch(rows)
		if err != nil {
			return nil, err
		}
		punches = append(punches, punch)
	}
	return punches, rows.Err()
}

// Insert records a punch. The UNIQUE(date, time) constraint turns a
// repeated insert into the Duplicate result.
func (s *Store) Insert(ctx context.Context, date engine.Date, at engine.ClockTime, t engine.PunchType) (engine.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO punches (date, time, type, created_at) VALUES (?, ?, ?, ?)`,
		date.String(), at.String(), string(t),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return engine.Duplicate, nil
		}
		return "", fmt.Errorf("failed to insert punch: %w", err)
	}
	return engine.Inserted, nil
}

// Remove deletes the punch at (date, time). Missing rows are a no-op.
func (s *Store) Remove(ctx context.Context, date engine.Date, at engine.ClockTime) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM punches WHERE date = ? AND time = ?`,
		date.String(), at.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to remove punch: %w", err)
	}
	return nil
}

// Nuke deletes every recorded punch (settings screen, dev reset).
func (s *Store) Nuke(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM punches`)
	if err != nil {
		return fmt.Errorf("failed to nuke punches: %w", err)
	}
	return nil
}

// Helper functions

func scanPunch(rows *sql.Rows) (string, engine.Punch, error) {
	var date, timeStr, typeStr string
	if err := rows.Scan(&date, &timeStr, &typeStr); err != nil {
		return "", engine.Punch{}, fmt.Errorf("failed to scan punch: %w", err)
	}

	at, err := engine.ParseClock(timeStr)
	if err != nil {
		return "", engine.Punch{}, fmt.Errorf("corrupt punch row %s %s: %w", date, timeStr, err)
	}
	return date, engine.Punch{Type: engine.PunchType(typeStr), Time: at}, nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
