/*
Package engine provides the core punch-clock computation engine.

PURPOSE:

	This package contains the types and algorithms for turning a set of
	recorded clock punches and a weekly work schedule into a complete
	picture of a day: the predicted remainder of the day's punches, the
	worked and scheduled hours, overtime, and consistency flags.

KEY CONCEPTS IN THIS FILE (types.go):
  - Punch: A single clock event (recorded or predicted)
  - PunchType: What kind of event a punch is; only "punch" carries a
    meaningful wall-clock time, the rest are day-level status markers

DESIGN PRINCIPLES:
 1. Purity: Every engine function is a pure computation over its
    inputs. "Now" and "today" are always explicit parameters.
 2. Immutability: Punch slices handed to the engine are snapshots;
    the engine never mutates them.
 3. Values over exceptions: Incomplete days, duplicate punches and
    odd punch counts are expected states, modeled as return values
    and flags, never errors.

USAGE:

	day := engine.MustDate("2024-02-09")
	punches := store.PunchesForDate(ctx, day)
	full := engine.PredictDailyPunches(day, punches, schedule.ForWeekday(day.Weekday()))

SEE ALSO:
  - predict.go: Punch prediction algorithm
  - accounting.go: Worked time, overtime and inconsistency flags
  - schedule.go: Weekly schedule configuration model
*/
package engine

// =============================================================================
// PUNCH - A single clock event
// =============================================================================

// PunchType classifies a punch. Only TypePunch is a timestamped clock
// event; every other type marks the status of the whole day.
type PunchType string

const (
	TypePunch         PunchType = "punch"
	TypeWeekend       PunchType = "weekend"
	TypeHoliday       PunchType = "holiday"
	TypeDayOff        PunchType = "dayOff"
	TypeAbsence       PunchType = "absence"
	TypeVacation      PunchType = "vacation"
	TypeNonWorkingDay PunchType = "nonWorkingDay"
)

// Valid reports whether t is one of the known punch types.
func (t PunchType) Valid() bool {
	switch t {
	case TypePunch, TypeWeekend, TypeHoliday, TypeDayOff,
		TypeAbsence, TypeVacation, TypeNonWorkingDay:
		return true
	}
	return false
}

// Punch is a single clock event within a day. The date is carried by
// the containing collection, not by the punch itself.
//
// Invariant: when every punch of a day has Type == TypePunch, the
// sequence alternates clock-in/clock-out (even index in, odd index out).
type Punch struct {
	Type      PunchType `json:"type"`
	Time      ClockTime `json:"time"`
	Predicted bool      `json:"predicted,omitempty"`
}

// AllClockPunches reports whether every entry is a timestamped punch
// (no day-status markers).
func AllClockPunches(punches []Punch) bool {
	for _, p := range punches {
		if p.Type != TypePunch {
			return false
		}
	}
	return true
}

// splitPairs splits an alternating in/out sequence into start and end
// times. A trailing unpaired clock-in stays in starts.
func splitPairs(punches []Punch) (starts, ends []ClockTime) {
	for i, p := range punches {
		if i%2 == 0 {
			starts = append(starts, p.Time)
		} else {
			ends = append(ends, p.Time)
		}
	}
	return starts, ends
}
