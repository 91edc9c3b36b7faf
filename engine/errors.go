/*
errors.go - Centralized error types for the punch engine

PURPOSE:

	All engine error types in one place. The engine errors only on
	contract violations by its caller (malformed dates, times, durations,
	invalid schedule shapes). Domain irregularities - duplicate punches,
	half-finished days, odd punch counts - are ordinary return values,
	never errors.

USAGE:

	if errors.Is(err, engine.ErrInvalidDate) {
	    // programming error upstream, not user data
	}

SEE ALSO:
  - store.go: InsertResult models the duplicate-punch outcome as a value
  - accounting.go: HasInconsistency models bad days as a flag
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a date string is not a valid
	// yyyy-MM-dd calendar date. All downstream arithmetic assumes a
	// valid date, so this is a fatal precondition violation.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidClock is returned when a time string is not a valid
	// 24-hour HH:mm value.
	ErrInvalidClock = errors.New("invalid clock time")

	// ErrInvalidDuration is returned when an ISO-8601 duration string
	// cannot be parsed.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidSchedule is returned when a schedule day violates the
	// durations/punches length invariant.
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrInvalidWeekday is returned for weekday values outside 1..7.
	ErrInvalidWeekday = errors.New("invalid weekday: must be 1 (Monday) to 7 (Sunday)")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ScheduleError describes an invalid schedule day for one weekday.
type ScheduleError struct {
	Weekday   Weekday
	Punches   int
	Durations int
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("schedule for weekday %d: %d punches require %d durations, got %d",
		e.Weekday, e.Punches, expectedDurations(e.Punches), e.Durations)
}

func (e *ScheduleError) Unwrap() error {
	return ErrInvalidSchedule
}

func expectedDurations(punches int) int {
	if punches == 0 {
		return 0
	}
	return punches - 1
}
