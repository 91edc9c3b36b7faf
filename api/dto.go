/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:

	Defines the JSON structures for API communication, decoupling the
	engine's internal model from the external contract. Durations cross
	the boundary twice: as ISO-8601 strings (the canonical serialized
	form) and as decimal hours for display.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - engine/duration.go: ISO / decimal-hours rendering
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/tempo/punch-engine/engine"
	"github.com/tempo/punch-engine/notify"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// PunchDTO is one punch in API responses.
type PunchDTO struct {
	Type      string `json:"type"`
	Time      string `json:"time"`
	Predicted bool   `json:"predicted,omitempty"`
}

// InsertPunchRequest records a punch. Date and Time default to the
// server's current day and minute when omitted.
type InsertPunchRequest struct {
	Date string `json:"date,omitempty"`
	Time string `json:"time,omitempty"`
	Type string `json:"type,omitempty"`
}

// InsertPunchResponse reports the insert outcome. Duplicate is an
// ordinary outcome, not an error. PortalError carries a failed portal
// forward; the local punch is recorded regardless.
type InsertPunchResponse struct {
	Result      string `json:"result"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	PortalError string `json:"portalError,omitempty"`
}

// RemovePunchRequest deletes a punch.
type RemovePunchRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// DurationDTO renders one duration in both boundary forms.
type DurationDTO struct {
	ISO   string          `json:"iso"`
	Clock string          `json:"clock"`
	Hours decimal.Decimal `json:"hours"`
}

// ReportDTO is the day accounting result.
type ReportDTO struct {
	HoursToBeWorked  DurationDTO `json:"hoursToBeWorked"`
	HoursWorked      DurationDTO `json:"hoursWorked"`
	OvertimeWorked   DurationDTO `json:"overtimeWorked"`
	HasOvertime      bool        `json:"hasOvertime"`
	HasUnworkedTime  bool        `json:"hasUnworkedTime"`
	HasInconsistency bool        `json:"hasInconsistency"`
}

// DayDTO bundles one calendar day: the complete punch sequence
// (recorded + predicted) and its accounting report.
type DayDTO struct {
	Date    string     `json:"date"`
	Punches []PunchDTO `json:"punches"`
	Report  ReportDTO  `json:"report"`
}

// PeriodDTO describes the current pay-period window.
type PeriodDTO struct {
	Start      string   `json:"start"`
	End        string   `json:"end"`
	Days       []string `json:"days"`
	IndexToday int      `json:"indexToday"`
}

// NotificationDTO is one planned notification.
type NotificationDTO struct {
	At    string `json:"at"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toPunchDTOs(punches []engine.Punch) []PunchDTO {
	out := make([]PunchDTO, len(punches))
	for i, p := range punches {
		out[i] = PunchDTO{
			Type:      string(p.Type),
			Time:      p.Time.String(),
			Predicted: p.Predicted,
		}
	}
	return out
}

func toDurationDTO(d engine.Duration) DurationDTO {
	return DurationDTO{
		ISO:   d.ISO(),
		Clock: d.HoursMinutes(),
		Hours: d.DecimalHours(),
	}
}

func toReportDTO(r engine.DayReport) ReportDTO {
	return ReportDTO{
		HoursToBeWorked:  toDurationDTO(r.HoursToBeWorked),
		HoursWorked:      toDurationDTO(r.HoursWorked),
		OvertimeWorked:   toDurationDTO(r.OvertimeWorked),
		HasOvertime:      r.HasOvertime,
		HasUnworkedTime:  r.HasUnworkedTime,
		HasInconsistency: r.HasInconsistency,
	}
}

func toNotificationDTOs(planned []notify.Scheduled) []NotificationDTO {
	out := make([]NotificationDTO, len(planned))
	for i, n := range planned {
		out[i] = NotificationDTO{At: n.At.String(), Title: n.Title, Body: n.Body}
	}
	return out
}
