/*
predict.go - Punch prediction algorithm

PURPOSE:

	Given the punches recorded so far for a day and that weekday's
	schedule, produce the complete ordered punch sequence for the day:
	recorded entries verbatim, gaps filled with predicted entries derived
	from the schedule.

THE INVARIANT:

	Predictions conserve the scheduled work total. Whatever actually
	happened in the morning, the predicted end of day keeps
	(first period + last period) equal to the schedule's work duration,
	with the lunch gap preserved or reconstructed.

PREDICTION STRATEGIES (4-punch schedule shape):

	slot 2 (lunch end), lunch start recorded:
	    time(1) + lunch
	slot 3 (shift end), lunch end recorded:
	    time(2) + (work - (time(1) - time(0)))
	    The afternoon absorbs a long or short morning.
	slot 3, only clock-in recorded:
	    time(0) + work + lunch
	    Pure schedule-template shift.
	anything else:
	    the schedule's literal expected time.

	Schedules with more or fewer than four punches only ever hit the
	literal-time branch; no attempt is made to conserve totals for
	shapes the algorithm was never designed for.

PURITY:

	The weekday is resolved from the date argument, never from an
	ambient "today". The same call answers for the live day, a calendar
	cell, or a list row.

SEE ALSO:
  - accounting.go: Consumes predicted or raw sequences
  - schedule.go: WorkDuration / LunchDuration derivation
*/
package engine

// PredictDailyPunches returns the complete ordered punch sequence for
// a day: recorded punches verbatim with schedule-derived predictions
// filling the remaining slots. It is a total, pure function over its
// inputs; recorded is never mutated.
func PredictDailyPunches(date Date, recorded []Punch, day ScheduleDay) []Punch {
	weekday := date.Weekday()

	// Nothing recorded, nothing scheduled: the day is a weekend or a
	// non-working weekday, marked with a single synthetic entry.
	if len(recorded) == 0 && day.IsEmpty() {
		t := TypeNonWorkingDay
		if weekday.IsWeekend() {
			t = TypeWeekend
		}
		return []Punch{{Type: t, Time: 0, Predicted: true}}
	}

	// A closed day (4+ punches) or a day carrying a status marker is
	// authoritative; no prediction is attempted.
	if len(recorded) >= 4 || !AllClockPunches(recorded) {
		return recorded
	}

	// Punches exist but there is no schedule to predict from.
	if day.IsEmpty() {
		return recorded
	}

	work := day.WorkDuration()
	lunch := day.LunchDuration()

	predicted := make([]Punch, 0, len(day.Punches))
	for index, expected := range day.Punches {
		if index < len(recorded) {
			predicted = append(predicted, recorded[index])
			continue
		}

		switch {
		case index == 2 && len(recorded) > 1:
			// Lunch end from recorded lunch start.
			predicted = append(predicted, Punch{
				Type:      TypePunch,
				Time:      recorded[1].Time.Add(lunch),
				Predicted: true,
			})

		case index == 3 && len(recorded) > 2:
			// Shift end that absorbs the actual morning length.
			morning := recorded[1].Time.Sub(recorded[0].Time)
			predicted = append(predicted, Punch{
				Type:      TypePunch,
				Time:      recorded[2].Time.Add(work.Sub(morning)),
				Predicted: true,
			})

		case index == 3 && len(recorded) > 0:
			// Only the clock-in exists: shift the whole template.
			predicted = append(predicted, Punch{
				Type:      TypePunch,
				Time:      recorded[0].Time.Add(work.Add(lunch)),
				Predicted: true,
			})

		default:
			predicted = append(predicted, Punch{
				Type:      TypePunch,
				Time:      expected,
				Predicted: true,
			})
		}
	}

	return predicted
}

// DailyPunches resolves the punch list to show for a calendar day:
// past and future days show their recorded punches verbatim, the
// current day shows the live predicted sequence. today is the caller's
// frozen "today", never sampled here.
func DailyPunches(date, today Date, punches map[string][]Punch, schedule WorkSchedule) []Punch {
	recorded := punches[date.String()]
	if date != today {
		return recorded
	}
	return PredictDailyPunches(date, recorded, schedule.ForDate(date))
}
