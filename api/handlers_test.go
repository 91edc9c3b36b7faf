package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempo/punch-engine/config"
	"github.com/tempo/punch-engine/engine"
	"github.com/tempo/punch-engine/engine/store"
)

// Friday 2024-02-09, 09:30 local time.
var frozenNow = time.Date(2024, 2, 9, 9, 30, 0, 0, time.Local)

func newTestServer(t *testing.T) (*httptest.Server, *store.Memory) {
	t.Helper()

	mem := store.NewMemory()
	h := NewHandler(mem, config.Default(), filepath.Join(t.TempDir(), "config.json"))
	h.Now = func() time.Time { return frozenNow }

	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, mem
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// =============================================================================
// PUNCHES
// =============================================================================

func TestInsertPunch_DefaultsToNow(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/punches", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decode[InsertPunchResponse](t, resp)
	assert.Equal(t, "inserted", body.Result)
	assert.Equal(t, "2024-02-09", body.Date)
	assert.Equal(t, "09:30", body.Time)
}

func TestInsertPunch_DuplicateIs200(t *testing.T) {
	srv, _ := newTestServer(t)
	req := InsertPunchRequest{Date: "2024-02-09", Time: "07:45"}

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/punches", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "inserted", decode[InsertPunchResponse](t, resp).Result)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/punches", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "duplicate", decode[InsertPunchResponse](t, resp).Result)
}

func TestInsertPunch_RejectsMalformedInput(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, req := range []InsertPunchRequest{
		{Date: "2024-2-9"},
		{Time: "7:45"},
		{Time: "25:00"},
		{Type: "coffee"},
	} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/punches", req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "%+v", req)
		resp.Body.Close()
	}
}

func TestRemovePunch(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/punches",
		InsertPunchRequest{Date: "2024-02-09", Time: "07:45"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/punches",
		RemovePunchRequest{Date: "2024-02-09", Time: "07:45"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/punches")
	require.NoError(t, err)
	listing := decode[map[string][]PunchDTO](t, resp)
	assert.Empty(t, listing)
}

func TestListPunches_ExplicitRange(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, p := range []InsertPunchRequest{
		{Date: "2024-02-08", Time: "07:45"},
		{Date: "2024-02-09", Time: "07:45"},
		{Date: "2024-02-09", Time: "12:00"},
	} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/punches", p)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/api/punches?from=2024-02-09&to=2024-02-09")
	require.NoError(t, err)
	listing := decode[map[string][]PunchDTO](t, resp)

	require.Len(t, listing, 1)
	require.Len(t, listing["2024-02-09"], 2)
	assert.Equal(t, "07:45", listing["2024-02-09"][0].Time)
	assert.Equal(t, "12:00", listing["2024-02-09"][1].Time)
}

type stubPortal struct {
	punches int
	err     error
}

func (s *stubPortal) Punch(context.Context) error {
	s.punches++
	return s.err
}

func TestInsertPunch_ForwardsLivePunchToPortal(t *testing.T) {
	mem := store.NewMemory()
	cfg := config.Default()
	cfg.ADP.Activated = true
	portal := &stubPortal{}

	h := NewHandler(mem, cfg, filepath.Join(t.TempDir(), "config.json"))
	h.Now = func() time.Time { return frozenNow }
	h.Portal = portal

	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)

	// a live punch is forwarded
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/punches", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode[InsertPunchResponse](t, resp)
	assert.Empty(t, body.PortalError)
	assert.Equal(t, 1, portal.punches)

	// a backdated correction is not
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/punches",
		InsertPunchRequest{Date: "2024-02-08", Time: "07:45"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 1, portal.punches)
}

func TestInsertPunch_PortalFailureKeepsLocalRecord(t *testing.T) {
	mem := store.NewMemory()
	cfg := config.Default()
	cfg.ADP.Activated = true

	h := NewHandler(mem, cfg, filepath.Join(t.TempDir(), "config.json"))
	h.Now = func() time.Time { return frozenNow }
	h.Portal = &stubPortal{err: errors.New("portal down")}

	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/punches", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode[InsertPunchResponse](t, resp)
	assert.Equal(t, "portal down", body.PortalError)

	punches, err := mem.PunchesForDate(context.Background(), engine.MustDate("2024-02-09"))
	require.NoError(t, err)
	assert.Len(t, punches, 1)
}

// =============================================================================
// DAYS
// =============================================================================

func TestGetDay_PredictsFromFirstPunch(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/punches",
		InsertPunchRequest{Date: "2024-02-09", Time: "07:45"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/days/2024-02-09")
	require.NoError(t, err)
	day := decode[DayDTO](t, resp)

	require.Len(t, day.Punches, 4)
	assert.False(t, day.Punches[0].Predicted)
	for i, want := range []string{"07:45", "12:00", "13:10", "16:55"} {
		assert.Equal(t, want, day.Punches[i].Time, "slot %d", i)
		if i > 0 {
			assert.True(t, day.Punches[i].Predicted, "slot %d", i)
		}
	}

	// clocked in at 07:45, frozen clock at 09:30
	assert.Equal(t, "PT8H", day.Report.HoursToBeWorked.ISO)
	assert.Equal(t, "PT1H45M", day.Report.HoursWorked.ISO)
	assert.False(t, day.Report.HasInconsistency)
}

func TestGetDay_WeekendDefault(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/days/2024-02-10")
	require.NoError(t, err)
	day := decode[DayDTO](t, resp)

	require.Len(t, day.Punches, 1)
	assert.Equal(t, "weekend", day.Punches[0].Type)
	assert.Equal(t, "PT0S", day.Report.HoursToBeWorked.ISO)
}

func TestGetDayNotifications(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/punches",
		InsertPunchRequest{Date: "2024-02-09", Time: "07:45"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/days/2024-02-09/notifications")
	require.NoError(t, err)
	planned := decode[[]NotificationDTO](t, resp)

	// slots 1..3 predicted, plus the end-of-day lead reminder
	require.Len(t, planned, 4)
	assert.Equal(t, "Lunch Break", planned[0].Title)
	assert.Equal(t, "12:00", planned[0].At)
	assert.Equal(t, "End of Workday Reminder", planned[2].Title)
	assert.Equal(t, "16:45", planned[2].At)
	assert.Equal(t, "End of Workday", planned[3].Title)
}

// =============================================================================
// PERIOD
// =============================================================================

func TestGetPeriod(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/period")
	require.NoError(t, err)
	period := decode[PeriodDTO](t, resp)

	assert.Equal(t, "2024-01-16", period.Start)
	assert.Equal(t, "2024-02-15", period.End)
	assert.Len(t, period.Days, 31)
	assert.Equal(t, 24, period.IndexToday)
}

// =============================================================================
// CONFIG
// =============================================================================

func TestPutConfig_ValidatedAndVisible(t *testing.T) {
	srv, _ := newTestServer(t)

	cfg := config.Default()
	cfg.FirstDayOfMonth = 1
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/config", cfg)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// the new anchor shifts the reported period
	resp, err := http.Get(srv.URL + "/api/period")
	require.NoError(t, err)
	period := decode[PeriodDTO](t, resp)
	assert.Equal(t, "2024-02-01", period.Start)
}

func TestPutConfig_RejectsInvalid(t *testing.T) {
	srv, _ := newTestServer(t)

	cfg := config.Default()
	cfg.FirstDayOfMonth = 0
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/config", cfg)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/period")
	require.NoError(t, err)
	period := decode[PeriodDTO](t, resp)
	assert.Equal(t, "2024-01-16", period.Start, "rejected config must not take effect")
}
