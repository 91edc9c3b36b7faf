/*
handlers.go - HTTP API handlers for the punch engine

PURPOSE:

	Exposes the punch store and the prediction/accounting engines over
	REST. Handlers own HTTP parsing and JSON serialization and delegate
	every computation to the engine; they are the only layer that
	samples the wall clock.

ENDPOINTS:

	Punches:
	  POST   /api/punches          Record a punch (default: now)
	  DELETE /api/punches          Remove a punch
	  GET    /api/punches          Raw recorded punches for a range

	Days:
	  GET    /api/days/{date}               Predicted sequence + report
	  GET    /api/days/{date}/notifications Planned notifications

	Period:
	  GET    /api/period           Current pay-period window

	Config:
	  GET    /api/config           Current configuration
	  PUT    /api/config           Replace configuration (validated, persisted)

ERROR HANDLING:
  - 400: malformed dates/times/config (caller contract violations)
  - 500: store failures
    Duplicate punches are 200 responses with result "duplicate".

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tempo/punch-engine/config"
	"github.com/tempo/punch-engine/engine"
	"github.com/tempo/punch-engine/notify"
)

// Portal mirrors the portal client's punch call so handlers can be
// tested against a stub.
type Portal interface {
	Punch(ctx context.Context) error
}

// Handler holds the API dependencies. Now is injectable so tests run
// against a frozen clock.
type Handler struct {
	Store      engine.PunchStore
	ConfigPath string
	Now        func() time.Time
	Portal     Portal

	mu  sync.RWMutex
	cfg *config.Config
}

// NewHandler wires the handler with its dependencies.
func NewHandler(store engine.PunchStore, cfg *config.Config, configPath string) *Handler {
	return &Handler{
		Store:      store,
		ConfigPath: configPath,
		Now:        time.Now,
		cfg:        cfg,
	}
}

func (h *Handler) configSnapshot() *config.Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

// =============================================================================
// PUNCH HANDLERS
// =============================================================================

// InsertPunch records a punch. Omitted date/time default to the
// current day and minute; pressing punch twice yields "duplicate".
func (h *Handler) InsertPunch(w http.ResponseWriter, r *http.Request) {
	var req InsertPunchRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	now := h.Now()
	date := engine.DateOf(now)
	at := engine.ClockOf(now)
	var err error

	if req.Date != "" {
		if date, err = engine.ParseDate(req.Date); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Time != "" {
		if at, err = engine.ParseClock(req.Time); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	punchType := engine.TypePunch
	if req.Type != "" {
		punchType = engine.PunchType(req.Type)
		if !punchType.Valid() {
			writeError(w, http.StatusBadRequest, "unknown punch type "+req.Type)
			return
		}
	}

	result, err := h.Store.Insert(r.Context(), date, at, punchType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := InsertPunchResponse{
		Result: string(result),
		Date:   date.String(),
		Time:   at.String(),
	}

	// A live punch (no explicit date/time) is forwarded to the portal
	// when activated. The local record is kept either way; a portal
	// failure is reported, not rolled back.
	cfg := h.configSnapshot()
	live := req.Date == "" && req.Time == "" && punchType == engine.TypePunch
	if live && result == engine.Inserted && cfg.ADP.Activated && h.Portal != nil {
		if err := h.Portal.Punch(r.Context()); err != nil {
			resp.PortalError = err.Error()
		}
	}

	status := http.StatusCreated
	if result == engine.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

// RemovePunch deletes one recorded punch.
func (h *Handler) RemovePunch(w http.ResponseWriter, r *http.Request) {
	var req RemovePunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := engine.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	at, err := engine.ParseClock(req.Time)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Store.Remove(r.Context(), date, at); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPunches returns the raw recorded punches for a date range,
// defaulting to the current pay period.
func (h *Handler) ListPunches(w http.ResponseWriter, r *http.Request) {
	cfg := h.configSnapshot()
	today := engine.DateOf(h.Now())
	period := engine.MonthRange(cfg.FirstDayOfMonth, today)

	if from := r.URL.Query().Get("from"); from != "" {
		start, err := engine.ParseDate(from)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		period.Start = start
	}
	if to := r.URL.Query().Get("to"); to != "" {
		end, err := engine.ParseDate(to)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		period.End = end
	}

	punches, err := h.Store.Load(r.Context(), period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make(map[string][]PunchDTO, len(punches))
	for date, list := range punches {
		out[date] = toPunchDTOs(list)
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// DAY HANDLERS
// =============================================================================

// GetDay returns the complete punch sequence for a date (recorded
// plus predicted) together with its accounting report.
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date, err := engine.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	recorded, err := h.Store.PunchesForDate(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	cfg := h.configSnapshot()
	schedule := cfg.Schedule().ForDate(date)
	now := h.Now()
	today := engine.DateOf(now)

	predicted := engine.PredictDailyPunches(date, recorded, schedule)

	clock := engine.ClockOf(now)
	report := engine.Account(engine.AccountingInput{
		Date:     date,
		Today:    today,
		Punches:  recorded,
		Schedule: schedule,
		Now:      &clock,
	})

	writeJSON(w, http.StatusOK, DayDTO{
		Date:    date.String(),
		Punches: toPunchDTOs(predicted),
		Report:  toReportDTO(report),
	})
}

// GetDayNotifications returns the notification plan for a date's
// predicted punches.
func (h *Handler) GetDayNotifications(w http.ResponseWriter, r *http.Request) {
	date, err := engine.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg := h.configSnapshot()
	if !cfg.Notification.Enabled {
		writeJSON(w, http.StatusOK, []NotificationDTO{})
		return
	}

	recorded, err := h.Store.PunchesForDate(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	predicted := engine.PredictDailyPunches(date, recorded, cfg.Schedule().ForDate(date))
	planned := notify.Plan(predicted, cfg.Notification.EndOfDayLead)
	writeJSON(w, http.StatusOK, toNotificationDTOs(planned))
}

// =============================================================================
// PERIOD HANDLER
// =============================================================================

// GetPeriod returns the rolling pay-period window and today's offset
// within it.
func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	cfg := h.configSnapshot()
	today := engine.DateOf(h.Now())
	period := engine.MonthRange(cfg.FirstDayOfMonth, today)

	writeJSON(w, http.StatusOK, PeriodDTO{
		Start:      period.Start.String(),
		End:        period.End.String(),
		Days:       engine.PeriodDays(cfg.FirstDayOfMonth, today),
		IndexToday: engine.IndexToday(cfg.FirstDayOfMonth, today),
	})
}

// =============================================================================
// CONFIG HANDLERS
// =============================================================================

// GetConfig returns the current configuration.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.configSnapshot())
}

// PutConfig replaces the configuration. The new value is validated
// and persisted before it becomes visible.
func (h *Handler) PutConfig(w http.ResponseWriter, r *http.Request) {
	var cfg config.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := config.Save(h.ConfigPath, &cfg); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.mu.Lock()
	h.cfg = &cfg
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, &cfg)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
