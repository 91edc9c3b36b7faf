/*
Package notify plans local notifications from predicted punches.

PURPOSE:

	Pure scheduling glue: given the complete (recorded + predicted)
	punch sequence for a day, produce the ordered list of notifications
	the device should fire. Delivery is someone else's job; this package
	never touches a notification API and never reads the clock.

RULES:
  - Only predicted clock punches get a notification; punches the user
    already made and day-status markers (weekend, vacation, ...) are
    skipped.
  - The final slot of a four-punch day gets two entries: a lead
    reminder shortly before the end of the shift and the end-of-day
    notification itself.
*/
package notify

import (
	"sort"

	"github.com/tempo/punch-engine/engine"
)

// Scheduled is one notification to be fired at a wall-clock time on
// the planned day.
type Scheduled struct {
	At    engine.ClockTime `json:"at"`
	Title string           `json:"title"`
	Body  string           `json:"body"`
}

// slotTexts maps the canonical 4-punch slots to their messages.
var slotTexts = [4]Scheduled{
	{
		Title: "Time to Start Work",
		Body:  "It's time to start your workday. Please clock in now to begin your shift.",
	},
	{
		Title: "Lunch Break",
		Body:  "It's time for your lunch break. Don't forget to clock out!",
	},
	{
		Title: "Back from Lunch",
		Body:  "Welcome back! Don't forget to clock in to resume your work.",
	},
	{
		Title: "End of Workday",
		Body:  "Congratulations, your workday is over! Remember to clock out.",
	},
}

var endOfDayReminder = Scheduled{
	Title: "End of Workday Reminder",
	Body:  "Your workday will end in 10 minutes. Please ensure all tasks are completed and remember to clock out on time.",
}

// Plan produces the notifications for one day's predicted punch
// sequence, ordered by time. lead is how far before the final punch
// the end-of-day reminder fires; zero disables the reminder.
func Plan(punches []engine.Punch, lead engine.Duration) []Scheduled {
	var planned []Scheduled

	for i, p := range punches {
		if p.Type != engine.TypePunch || !p.Predicted || i >= len(slotTexts) {
			continue
		}

		if i == len(slotTexts)-1 && lead.IsPositive() {
			planned = append(planned, Scheduled{
				At:    p.Time.Add(lead.Neg()),
				Title: endOfDayReminder.Title,
				Body:  endOfDayReminder.Body,
			})
		}

		planned = append(planned, Scheduled{
			At:    p.Time,
			Title: slotTexts[i].Title,
			Body:  slotTexts[i].Body,
		})
	}

	sort.SliceStable(planned, func(a, b int) bool {
		return planned[a].At.Before(planned[b].At)
	})
	return planned
}
