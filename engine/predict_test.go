package engine_test

import (
	"testing"

	"github.com/tempo/punch-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// canonicalDay is the default workday shape: in, lunch out, lunch in,
// out, with an eight hour work total and a 70 minute lunch.
func canonicalDay() engine.ScheduleDay {
	return engine.ScheduleDay{
		Punches: []engine.ClockTime{
			engine.MustClock("07:45"),
			engine.MustClock("12:00"),
			engine.MustClock("13:10"),
			engine.MustClock("16:55"),
		},
		Durations: []engine.Duration{
			engine.MustISO("PT4H15M"),
			engine.MustISO("PT1H10M"),
			engine.MustISO("PT3H45M"),
		},
	}
}

func recorded(times ...string) []engine.Punch {
	punches := make([]engine.Punch, len(times))
	for i, at := range times {
		punches[i] = engine.Punch{Type: engine.TypePunch, Time: engine.MustClock(at)}
	}
	return punches
}

func punchTimes(punches []engine.Punch) []string {
	out := make([]string, len(punches))
	for i, p := range punches {
		out[i] = p.Time.String()
	}
	return out
}

func assertTimes(t *testing.T, punches []engine.Punch, want ...string) {
	t.Helper()
	got := punchTimes(punches)
	if len(got) != len(want) {
		t.Fatalf("got %d punches %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("punch %d = %s, want %s", i, got[i], want[i])
		}
	}
}

// friday/saturday/monday fixtures; weekday resolved from the date.
var (
	friday   = engine.MustDate("2024-02-09")
	saturday = engine.MustDate("2024-02-10")
	sunday   = engine.MustDate("2024-02-11")
	monday   = engine.MustDate("2024-02-12")
)

// =============================================================================
// DEFAULT DAYS - No schedule, no punches
// =============================================================================

func TestPredict_EmptyWeekend_YieldsWeekendMarker(t *testing.T) {
	for _, day := range []engine.Date{saturday, sunday} {
		got := engine.PredictDailyPunches(day, nil, engine.ScheduleDay{})

		if len(got) != 1 {
			t.Fatalf("%s: got %d punches, want 1", day, len(got))
		}
		p := got[0]
		if p.Type != engine.TypeWeekend || !p.Predicted || p.Time.String() != "00:00" {
			t.Errorf("%s: got %+v, want predicted weekend at 00:00", day, p)
		}
	}
}

func TestPredict_EmptyWeekday_YieldsNonWorkingDayMarker(t *testing.T) {
	got := engine.PredictDailyPunches(monday, nil, engine.ScheduleDay{})

	if len(got) != 1 {
		t.Fatalf("got %d punches, want 1", len(got))
	}
	p := got[0]
	if p.Type != engine.TypeNonWorkingDay || !p.Predicted || p.Time.String() != "00:00" {
		t.Errorf("got %+v, want predicted nonWorkingDay at 00:00", p)
	}
}

// =============================================================================
// AUTHORITATIVE DAYS - Nothing to predict
// =============================================================================

func TestPredict_CompleteDay_ReturnedUnchanged(t *testing.T) {
	full := recorded("07:45", "12:00", "13:10", "16:55")

	got := engine.PredictDailyPunches(friday, full, canonicalDay())

	if len(got) != 4 {
		t.Fatalf("got %d punches, want 4", len(got))
	}
	for i := range full {
		if got[i] != full[i] {
			t.Errorf("punch %d changed: got %+v, want %+v", i, got[i], full[i])
		}
	}
}

func TestPredict_StatusDay_ReturnedUnchanged(t *testing.T) {
	vacation := []engine.Punch{{Type: engine.TypeVacation, Time: 0}}

	got := engine.PredictDailyPunches(friday, vacation, canonicalDay())

	if len(got) != 1 || got[0] != vacation[0] {
		t.Errorf("status day should be authoritative, got %v", got)
	}
}

func TestPredict_PunchesWithoutSchedule_ReturnedUnchanged(t *testing.T) {
	punches := recorded("09:00", "12:00")

	got := engine.PredictDailyPunches(saturday, punches, engine.ScheduleDay{})

	assertTimes(t, got, "09:00", "12:00")
	for _, p := range got {
		if p.Predicted {
			t.Errorf("no prediction possible without a schedule, got predicted %+v", p)
		}
	}
}

// =============================================================================
// PREDICTION STRATEGIES
// =============================================================================

func TestPredict_FirstPunchOnly_TemplateRoundTrip(t *testing.T) {
	// GIVEN: only the scheduled clock-in was recorded
	// THEN: the predicted day is the schedule verbatim

	got := engine.PredictDailyPunches(friday, recorded("07:45"), canonicalDay())

	assertTimes(t, got, "07:45", "12:00", "13:10", "16:55")
	if got[0].Predicted {
		t.Error("recorded punch must stay recorded")
	}
	for i := 1; i < 4; i++ {
		if !got[i].Predicted {
			t.Errorf("punch %d should be predicted", i)
		}
	}
}

func TestPredict_LateStart_ConservesTotalDuration(t *testing.T) {
	// GIVEN: clock-in 15 minutes late, nothing else recorded
	// THEN: predicted end = start + work + lunch, to the minute

	got := engine.PredictDailyPunches(friday, recorded("08:00"), canonicalDay())

	// slots 1 and 2 fall back to the literal schedule times
	assertTimes(t, got, "08:00", "12:00", "13:10", "17:10")
}

func TestPredict_LunchEnd_FromRecordedLunchStart(t *testing.T) {
	// GIVEN: clock-in and lunch-out recorded, lunch-out 30 late
	// THEN: lunch-in = lunch-out + lunch duration

	got := engine.PredictDailyPunches(friday, recorded("07:45", "12:30"), canonicalDay())

	assertTimes(t, got, "07:45", "12:30", "13:40", "16:55")
}

func TestPredict_ShiftEnd_AbsorbsMorningLength(t *testing.T) {
	// GIVEN: punches 0-2 recorded with a 4h45 morning (schedule says 4h15)
	// THEN: predicted end = lunch-in + (work - morning); the worked
	//       total equals the scheduled 8h regardless of the morning

	got := engine.PredictDailyPunches(friday, recorded("07:45", "12:30", "13:40"), canonicalDay())

	assertTimes(t, got, "07:45", "12:30", "13:40", "16:55")

	worked := engine.WorkedTimeFromPunches(got, nil)
	if worked != engine.Hours(8) {
		t.Errorf("worked total = %v, want PT8H", worked)
	}
}

func TestPredict_ShortMorning_AbsorbedByAfternoon(t *testing.T) {
	got := engine.PredictDailyPunches(friday, recorded("08:00", "11:00", "12:10"), canonicalDay())

	// morning was 3h, afternoon must supply the remaining 5h
	assertTimes(t, got, "08:00", "11:00", "12:10", "17:10")

	if worked := engine.WorkedTimeFromPunches(got, nil); worked != engine.Hours(8) {
		t.Errorf("worked total = %v, want PT8H", worked)
	}
}

// =============================================================================
// DAILY PUNCHES - today vs other days
// =============================================================================

func TestDailyPunches_OnlyTodayIsPredicted(t *testing.T) {
	schedule, err := engine.NewWorkSchedule(map[engine.Weekday]engine.ScheduleDay{
		engine.Monday: canonicalDay(), engine.Tuesday: canonicalDay(),
		engine.Wednesday: canonicalDay(), engine.Thursday: canonicalDay(),
		engine.Friday: canonicalDay(), engine.Saturday: {}, engine.Sunday: {},
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	punches := map[string][]engine.Punch{
		friday.String(): recorded("07:45"),
	}

	// a past day shows its single recorded punch, unpredicted
	got := engine.DailyPunches(friday, monday, punches, schedule)
	assertTimes(t, got, "07:45")

	// the same day as "today" shows the full predicted sequence
	got = engine.DailyPunches(friday, friday, punches, schedule)
	assertTimes(t, got, "07:45", "12:00", "13:10", "16:55")
}
