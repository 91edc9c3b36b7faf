package engine

import "fmt"

// =============================================================================
// SCHEDULE DAY - Expected shape of one weekday
// =============================================================================

// ScheduleDay declares the expected punches for one weekday and the
// durations between consecutive punches. A typical working day has
// four punches (in, lunch out, lunch in, out) and three durations
// (first work period, lunch, second work period). Even-indexed
// durations are work periods, odd-indexed are breaks.
//
// An empty ScheduleDay is a valid non-working day.
type ScheduleDay struct {
	Punches   []ClockTime `json:"punches"`
	Durations []Duration  `json:"durations"`
}

// IsEmpty reports whether the weekday has no expected punches.
func (s ScheduleDay) IsEmpty() bool { return len(s.Punches) == 0 }

// validate checks the durations/punches length invariant:
// len(durations) == max(len(punches)-1, 0).
func (s ScheduleDay) validate(w Weekday) error {
	want := expectedDurations(len(s.Punches))
	if len(s.Durations) != want {
		return &ScheduleError{Weekday: w, Punches: len(s.Punches), Durations: len(s.Durations)}
	}
	return nil
}

// WorkDuration is the total time the schedule expects to be worked:
// the first work period plus the final one. The lunch gap is excluded.
func (s ScheduleDay) WorkDuration() Duration {
	if len(s.Durations) == 0 {
		return 0
	}
	if len(s.Durations) == 1 {
		return s.Durations[0]
	}
	return s.Durations[0].Add(s.Durations[len(s.Durations)-1])
}

// LunchDuration is the expected lunch gap (durations[1]), zero for
// schedules without a break.
func (s ScheduleDay) LunchDuration() Duration {
	if len(s.Durations) < 2 {
		return 0
	}
	return s.Durations[1]
}

// ScheduledTime is the sum of all even-indexed (work period)
// durations. For the canonical 4-punch shape this equals WorkDuration.
func (s ScheduleDay) ScheduledTime() Duration {
	var total Duration
	for i, d := range s.Durations {
		if i%2 == 0 {
			total = total.Add(d)
		}
	}
	return total
}

// =============================================================================
// WORK SCHEDULE - Exactly one ScheduleDay per weekday
// =============================================================================

// WorkSchedule holds the expected punches for every weekday. It is a
// fixed seven-entry structure, validated on construction: lookups
// never fail and never return a missing day.
type WorkSchedule struct {
	days [7]ScheduleDay
}

// NewWorkSchedule builds a schedule from a weekday-keyed map. Every
// weekday 1..7 must be present (an empty ScheduleDay marks a
// non-working day), and every day must satisfy the length invariant.
func NewWorkSchedule(days map[Weekday]ScheduleDay) (WorkSchedule, error) {
	var ws WorkSchedule
	for w := Monday; w <= Sunday; w++ {
		day, ok := days[w]
		if !ok {
			return WorkSchedule{}, fmt.Errorf("%w: missing weekday %d", ErrInvalidSchedule, w)
		}
		if err := day.validate(w); err != nil {
			return WorkSchedule{}, err
		}
		ws.days[w-1] = day
	}
	return ws, nil
}

// ForWeekday returns the schedule day for a weekday. The result is
// always defined; weekdays outside 1..7 yield an empty day.
func (ws WorkSchedule) ForWeekday(w Weekday) ScheduleDay {
	if !w.Valid() {
		return ScheduleDay{}
	}
	return ws.days[w-1]
}

// ForDate returns the schedule day for the weekday of a date.
func (ws WorkSchedule) ForDate(d Date) ScheduleDay {
	return ws.ForWeekday(d.Weekday())
}
