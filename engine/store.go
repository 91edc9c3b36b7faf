/*
store.go - Persistence interface for recorded punches

PURPOSE:

	Defines the contract between the engine and punch persistence.
	The engine only ever reads ordered per-day snapshots; writes go
	through a single insert/remove path owned by the store.

DUPLICATE HANDLING:

	Pressing the punch button twice in the same minute is an expected,
	frequent user action. A duplicate (date, time) insert is therefore a
	distinguishable result value, not an error: callers get Duplicate
	and decide how to surface it.

SNAPSHOTS:

	Load and PunchesForDate return snapshots ordered chronologically.
	Callers must treat them as immutable; the prediction and accounting
	engines never observe a half-updated list.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite store
  - engine/store/memory.go: In-memory store for testing

SEE ALSO:
  - predict.go: Consumes per-day snapshots
*/
package engine

import "context"

// =============================================================================
// INSERT RESULT - Duplicate inserts are values, not errors
// =============================================================================

type InsertResult string

const (
	Inserted  InsertResult = "inserted"
	Duplicate InsertResult = "duplicate"
)

// =============================================================================
// PUNCH STORE
// =============================================================================

// PunchStore persists recorded punches keyed by ISO date (yyyy-MM-dd).
// Within a date, punches are ordered chronologically.
type PunchStore interface {
	// Load returns all punches in the period, keyed by ISO date.
	// Dates without punches are absent from the map.
	Load(ctx context.Context, p Period) (map[string][]Punch, error)

	// PunchesForDate returns the ordered punches for one date, empty
	// if none were recorded.
	PunchesForDate(ctx context.Context, date Date) ([]Punch, error)

	// Insert records a punch. A (date, time) pair that already exists
	// yields (Duplicate, nil); the store is unchanged.
	Insert(ctx context.Context, date Date, at ClockTime, t PunchType) (InsertResult, error)

	// Remove deletes the punch at (date, time). Removing a punch that
	// does not exist is a no-op.
	Remove(ctx context.Context, date Date, at ClockTime) error

	// Nuke deletes every recorded punch.
	Nuke(ctx context.Context) error
}
