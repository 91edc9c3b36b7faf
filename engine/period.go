package engine

// =============================================================================
// PERIOD - The rolling pay-period window
// =============================================================================

// Period is an inclusive date range.
type Period struct {
	Start Date
	End   Date
}

// Contains reports whether d falls within [Start, End].
func (p Period) Contains(d Date) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// Days enumerates every date in the period, inclusive on both ends.
func (p Period) Days() []Date {
	var days []Date
	for current := p.Start; !current.After(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// MonthRange computes the rolling pay-period window anchored to
// firstDay (1..31): when today's day-of-month has reached firstDay the
// window starts at firstDay of the current month, otherwise at
// firstDay of the previous month. The end is always start + 30 days,
// a fixed inclusive 31-day window.
func MonthRange(firstDay int, today Date) Period {
	var start Date
	if today.Day() >= firstDay {
		start = today.WithDay(firstDay)
	} else {
		start = today.AddMonths(-1).WithDay(firstDay)
	}
	return Period{Start: start, End: start.AddDays(30)}
}

// PeriodDays enumerates the ISO dates of the current pay period.
func PeriodDays(firstDay int, today Date) []string {
	days := MonthRange(firstDay, today).Days()
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.String()
	}
	return out
}

// IndexToday returns the zero-based offset of today within the current
// pay-period enumeration. Used by list views for the initial scroll
// position.
func IndexToday(firstDay int, today Date) int {
	return DaysBetween(MonthRange(firstDay, today).Start, today)
}
