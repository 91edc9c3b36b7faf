/*
accounting.go - Worked time, overtime and consistency flags

PURPOSE:

	Turns a day's punch list and schedule into durations and advisory
	flags: hours worked, hours to be worked, overtime (possibly
	negative), and an inconsistency flag for past days whose punches
	need manual correction.

NOW AS AN INPUT:

	For the current day the caller may pass the frozen current wall
	clock; a currently-open shift (odd punch count) then counts up to
	"now" for accounting purposes only. The substituted clock-out is
	never persisted or returned as a punch. The engine itself never
	reads the wall clock.

FLAGS ARE ADVISORY:

	HasInconsistency exists to surface data the user must fix by hand.
	The engine never guesses which punch is wrong and never corrects
	anything automatically.

SEE ALSO:
  - predict.go: Produces the sequences this file accounts for
  - schedule.go: ScheduledTime (the hours-to-be-worked source)
*/
package engine

// AccountingInput is one day's worth of accounting context.
// Today and Now are frozen by the caller per invocation so the same
// input always produces the same report.
type AccountingInput struct {
	Date     Date
	Today    Date
	Punches  []Punch     // recorded punches, chronological
	Schedule ScheduleDay // schedule for Date's weekday
	Now      *ClockTime  // optional live clock, current day only
}

// DayReport is the combined accounting result for one day.
type DayReport struct {
	HoursToBeWorked  Duration `json:"hoursToBeWorked"`
	HoursWorked      Duration `json:"hoursWorked"`
	OvertimeWorked   Duration `json:"overtimeWorked"`
	HasOvertime      bool     `json:"hasOvertime"`
	HasUnworkedTime  bool     `json:"hasUnworkedTime"`
	HasInconsistency bool     `json:"hasInconsistency"`
}

// HoursToBeWorked is the schedule's total expected work time: the sum
// of the even-indexed (work period) durations.
func HoursToBeWorked(day ScheduleDay) Duration {
	return day.ScheduledTime()
}

// WorkedTimeFromPunches sums clock-out minus clock-in over all
// complete pairs. When now is non-nil and the list ends on an open
// clock-in, now stands in for the missing clock-out.
func WorkedTimeFromPunches(punches []Punch, now *ClockTime) Duration {
	starts, ends := splitPairs(punches)
	if now != nil && len(starts) != len(ends) {
		ends = append(ends, *now)
	}

	var total Duration
	for i := range ends {
		total = total.Add(ends[i].Sub(starts[i]))
	}
	return total
}

// Account computes the full day report.
func Account(in AccountingInput) DayReport {
	toBeWorked := HoursToBeWorked(in.Schedule)

	var now *ClockTime
	if in.Date == in.Today {
		now = in.Now
	}
	worked := WorkedTimeFromPunches(in.Punches, now)
	overtime := worked.Sub(toBeWorked)

	unworked := worked.IsPositive() &&
		worked.LessThan(toBeWorked) &&
		overtime.IsNegative()

	return DayReport{
		HoursToBeWorked:  toBeWorked,
		HoursWorked:      worked,
		OvertimeWorked:   overtime,
		HasOvertime:      overtime.IsPositive(),
		HasUnworkedTime:  unworked,
		HasInconsistency: hasInconsistency(in, unworked),
	}
}

// hasInconsistency flags a past day whose punches the user must
// correct by hand. The current day is never flagged: it is still in
// progress by definition.
func hasInconsistency(in AccountingInput, unworked bool) bool {
	if in.Date == in.Today {
		return false
	}
	if len(in.Punches) == 0 {
		return unworked
	}

	allClock := AllClockPunches(in.Punches)

	// Mixed punch/status entries with a count the schedule does not
	// expect: something was recorded halfway.
	if !allClock && len(in.Punches) != len(in.Schedule.Punches) {
		return true
	}

	// A shift that was never clocked out.
	if allClock && len(in.Punches)%2 != 0 {
		return true
	}

	return unworked
}
