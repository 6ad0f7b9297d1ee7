package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucSchedule "github.com/BruksfildServices01/barber-booking/internal/usecase/schedule"
)

const ownerEmail = "owner@headz.test"

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	r      *gin.Engine
	repo   *infraRepo.MemoryRepository
	token  string
	barber models.Barber
	svc    models.Service
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:   "test-secret",
		StaffEmails: []string{ownerEmail},
		Store: config.StoreConfig{
			Name:         "Headz",
			Phone:        "(718) 555-0100",
			Timezone:     timezone.DefaultTimezone,
			OpenMinutes:  9 * 60,
			CloseMinutes: 20 * 60,
		},
		Calendar: config.CalendarConfig{ProdID: "-//Headz//Test//EN", UIDDomain: "headz.test"},
		Limits:   config.LimitsConfig{PublicRPS: 1000, PublicBurst: 1000},
	}
}

func newHarness(t *testing.T, mutate ...func(*Deps)) *harness {
	t.Helper()

	cfg := testConfig()
	repo := infraRepo.NewMemoryRepository()
	limiter := middleware.NewRateLimiter(cfg.Limits.PublicRPS, cfg.Limits.PublicBurst)
	t.Cleanup(limiter.Close)

	prevPhone := httperr.StorePhone
	httperr.StorePhone = cfg.Store.Phone
	t.Cleanup(func() { httperr.StorePhone = prevPhone })

	d := Deps{
		Config:        cfg,
		Bookings:      repo,
		Catalog:       repo,
		Limiter:       limiter,
		EmailDomainOK: func(string) bool { return true },
		Now:           func() time.Time { return time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC) },
	}
	for _, m := range mutate {
		m(&d)
	}

	r := gin.New()
	require.NoError(t, RegisterRoutes(r, d))

	token, err := auth.NewTokens(cfg.JWTSecret).Issue(uuid.New(), ownerEmail)
	require.NoError(t, err)

	return &harness{
		r:      r,
		repo:   repo,
		token:  token,
		barber: repo.AddBarber(models.Barber{Name: "Johan", Slug: "johan", IsActive: true}),
		svc: repo.AddService(models.Service{
			Name: "Haircut Adult", Slug: "haircut-adult", DurationMinutes: 30, PriceCents: 4000, IsActive: true,
		}),
	}
}

func (h *harness) do(method, path string, body any, staff bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if staff {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	w := httptest.NewRecorder()
	h.r.ServeHTTP(w, req)
	return w
}

func (h *harness) slots(t *testing.T, date string) []string {
	t.Helper()
	w := h.do(http.MethodGet, "/api/appointments/slots?barberId="+h.barber.ID.String()+"&date="+date+"&durationMinutes=30", nil, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Slots []string `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.Slots
}

func (h *harness) book(startAt string) *httptest.ResponseRecorder {
	return h.do(http.MethodPost, "/api/appointments", map[string]any{
		"barberId":    h.barber.ID,
		"serviceId":   h.svc.ID,
		"clientName":  "Sam",
		"clientPhone": "555-0101",
		"startAt":     startAt,
	}, false)
}

type errorBody struct {
	Code     string            `json:"error_code"`
	Fields   map[string]string `json:"fields"`
	Fallback string            `json:"fallback"`
	Phone    string            `json:"phone"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var e errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

// --------------------------------------------------
// Public booking flow
// --------------------------------------------------

func TestPublicCatalog(t *testing.T) {
	h := newHarness(t)
	h.repo.AddBarber(models.Barber{Name: "Retired", Slug: "retired", IsActive: false})

	w := h.do(http.MethodGet, "/api/barbers", nil, false)
	require.Equal(t, http.StatusOK, w.Code)

	var barbers struct {
		Data  []models.Barber `json:"data"`
		Total int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &barbers))
	assert.Equal(t, 1, barbers.Total)
	assert.Equal(t, "johan", barbers.Data[0].Slug)

	w = h.do(http.MethodGet, "/api/services", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestBookingFlow(t *testing.T) {
	h := newHarness(t)

	// 09:00-20:00 in New York on a winter date is 14:00Z-01:00Z.
	before := h.slots(t, "2030-01-07")
	require.Len(t, before, 22)
	assert.Equal(t, "2030-01-07T14:00:00.000Z", before[0])
	assert.Equal(t, "2030-01-08T00:30:00.000Z", before[len(before)-1])

	w := h.book("2030-01-07T14:00:00Z")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data models.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "confirmed", created.Data.Status)
	assert.Equal(t, 30, created.Data.DurationMinutes)

	after := h.slots(t, "2030-01-07")
	assert.Len(t, after, 21)
	assert.NotContains(t, after, "2030-01-07T14:00:00.000Z")

	w = h.book("2030-01-07T09:00:00.000-05:00")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_taken", decodeError(t, w).Code)

	// Overlapping by fifteen minutes is still a conflict.
	w = h.book("2030-01-07T14:15:00Z")
	assert.Equal(t, http.StatusConflict, w.Code)

	// Back to back is fine.
	w = h.book("2030-01-07T14:30:00Z")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBookingValidation(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/appointments", map[string]any{
		"barberId":  "nope",
		"serviceId": h.svc.ID,
		"startAt":   "2030-01-07T14:00:00Z",
	}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_id", decodeError(t, w).Code)

	w = h.do(http.MethodPost, "/api/appointments", map[string]any{
		"barberId":  h.barber.ID,
		"serviceId": h.svc.ID,
		"startAt":   "2030-01-07T14:00:00Z",
	}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Fields, "clientName")

	w = h.do(http.MethodGet, "/api/appointments/slots?barberId="+h.barber.ID.String()+"&date=2030-01-07&durationMinutes=10", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_duration", decodeError(t, w).Code)

	w = h.do(http.MethodGet, "/api/appointments/slots?barberId="+h.barber.ID.String()+"&date=01/07/2030&durationMinutes=30", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date", decodeError(t, w).Code)

	w = h.do(http.MethodGet, "/api/appointments/slots?barberId="+uuid.NewString()+"&date=2030-01-07&durationMinutes=30", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStorageOutageFallsBackToPhone(t *testing.T) {
	h := newHarness(t)
	h.repo.SetFailure(errors.New("connection refused"))

	w := h.do(http.MethodGet, "/api/appointments/slots?barberId="+h.barber.ID.String()+"&date=2030-01-07&durationMinutes=30", nil, false)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	e := decodeError(t, w)
	assert.Equal(t, "call_us", e.Fallback)
	assert.Equal(t, "(718) 555-0100", e.Phone)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

// --------------------------------------------------
// Staff surface
// --------------------------------------------------

func TestStaffRoutesRequireToken(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{
		"/api/appointments?date=2030-01-07",
		"/api/schedule?date=2030-01-07",
		"/api/audit-logs",
		"/api/me",
		"/api/staff/barbers",
	} {
		w := h.do(http.MethodGet, path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestStaffManagesAppointments(t *testing.T) {
	h := newHarness(t)

	w := h.book("2030-01-07T15:00:00Z")
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data models.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.Data.ID.String()

	w = h.do(http.MethodGet, "/api/appointments?date=2030-01-07&barberId="+h.barber.ID.String(), nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
	assert.Contains(t, w.Body.String(), `"barber_name":"Johan"`)

	// Reschedule keeps the duration when only the start moves.
	w = h.do(http.MethodPatch, "/api/appointments/"+id, map[string]any{"startAt": "2030-01-07T16:00:00Z"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var moved struct {
		Data models.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &moved))
	assert.Equal(t, time.Date(2030, 1, 7, 16, 30, 0, 0, time.UTC), moved.Data.EndAt.UTC())

	w = h.do(http.MethodPatch, "/api/appointments/"+id+"/cancel", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"cancelled"`)

	// Cancelling twice is harmless.
	w = h.do(http.MethodPatch, "/api/appointments/"+id+"/cancel", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	// A cancelled appointment cannot be completed.
	w = h.do(http.MethodPatch, "/api/appointments/"+id+"/complete", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_state", decodeError(t, w).Code)

	assert.Len(t, h.slots(t, "2030-01-07"), 22)

	w = h.do(http.MethodPatch, "/api/appointments/"+uuid.NewString()+"/no-show", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaffWalkInIsRecordedAsStaff(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/appointments", map[string]any{
		"barberId":   h.barber.ID,
		"serviceId":  h.svc.ID,
		"clientName": "Walk-in",
		"startAt":    "2030-01-07T18:00:00Z",
		"isWalkIn":   true,
	}, true)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"is_walk_in":true`)

	w = h.do(http.MethodPost, "/api/appointments", map[string]any{
		"barberId":   h.barber.ID,
		"serviceId":  h.svc.ID,
		"clientName": "Sneaky",
		"startAt":    "2030-01-07T19:00:00Z",
		"isWalkIn":   true,
	}, false)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "not_staff", decodeError(t, w).Code)
}

func TestAvailabilityAndTimeOffShapeSlots(t *testing.T) {
	h := newHarness(t)
	base := "/api/barbers/" + h.barber.ID.String()

	// Monday 10:00-12:00 only.
	w := h.do(http.MethodPost, base+"/availability", map[string]any{
		"dayOfWeek": 1, "startMinutes": 600, "endMinutes": 720,
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var window struct {
		Data models.AvailabilityWindow `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &window))

	assert.Equal(t, []string{
		"2030-01-07T15:00:00.000Z",
		"2030-01-07T15:30:00.000Z",
		"2030-01-07T16:00:00.000Z",
		"2030-01-07T16:30:00.000Z",
	}, h.slots(t, "2030-01-07"))
	// Tuesday has no window once any window exists.
	assert.Empty(t, h.slots(t, "2030-01-08"))

	w = h.do(http.MethodPost, base+"/availability", map[string]any{
		"dayOfWeek": 9, "startMinutes": 600, "endMinutes": 500,
	}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, base+"/time-off", map[string]any{"startDate": "2030-01-07", "type": "sick"}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Empty(t, h.slots(t, "2030-01-07"))

	w = h.do(http.MethodGet, base+"/time-off", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = h.do(http.MethodDelete, base+"/availability/"+window.Data.ID.String(), nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = h.do(http.MethodDelete, base+"/availability/"+window.Data.ID.String(), nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogAdmin(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/barbers", map[string]any{"name": "King Rome"}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"slug":"king-rome"`)

	w = h.do(http.MethodPost, "/api/barbers", map[string]any{"name": "Johan"}, true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slug_taken", decodeError(t, w).Code)

	w = h.do(http.MethodPatch, "/api/barbers/"+h.barber.ID.String(), map[string]any{"isActive": false}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, h.slots(t, "2030-01-07"))

	w = h.do(http.MethodGet, "/api/staff/barbers", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)

	w = h.do(http.MethodPost, "/api/services", map[string]any{
		"name": "Braids", "durationMinutes": 200, "priceCents": 5000,
	}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/api/services", map[string]any{
		"name": "Braids", "durationMinutes": 60, "priceCents": 5000,
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(http.MethodPatch, "/api/services/"+h.svc.ID.String(), map[string]any{"isActive": false}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/api/services", nil, false)
	assert.Contains(t, w.Body.String(), `"total":1`)
	w = h.do(http.MethodGet, "/api/staff/services", nil, true)
	assert.Contains(t, w.Body.String(), `"total":2`)
}

func TestAvatarWithoutStorage(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/barbers/"+h.barber.ID.String()+"/avatar", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_file", decodeError(t, w).Code)
}

// --------------------------------------------------
// Schedule
// --------------------------------------------------

func TestScheduleExports(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, http.StatusCreated, h.book("2030-01-07T15:00:00Z").Code)

	w := h.do(http.MethodGet, "/api/schedule?date=2030-01-07", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"column_minutes":30`)

	w = h.do(http.MethodGet, "/api/appointments/calendar?date=2030-01-07", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "headz-schedule-2030-01-07.ics")
	assert.Contains(t, w.Body.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, w.Body.String(), "DTSTART:20300107T150000Z")

	w = h.do(http.MethodPost, "/api/schedule/publish?date=2030-01-07", nil, true)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "storage_not_configured", decodeError(t, w).Code)
}

type memStore struct {
	objects map[string][]byte
}

func (m *memStore) Put(_ context.Context, key, _ string, body []byte) (string, error) {
	m.objects[key] = body
	return "https://cdn.headz.test/" + key, nil
}

func TestSchedulePublishWithStorage(t *testing.T) {
	store := &memStore{objects: map[string][]byte{}}
	h := newHarness(t, func(d *Deps) { d.Objects = store })

	w := h.do(http.MethodPost, "/api/schedule/publish?date=2030-01-07", nil, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "https://cdn.headz.test/calendar/schedule-2030-01-07.ics")
	assert.Contains(t, string(store.objects["calendar/schedule-2030-01-07.ics"]), "BEGIN:VCALENDAR")
}

// --------------------------------------------------
// Auth, audit, health
// --------------------------------------------------

func TestRegisterLoginAndMe(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/auth/register", map[string]any{
		"name": "Stranger", "email": "stranger@else.test", "password": "long-enough",
	}, false)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(http.MethodPost, "/api/auth/register", map[string]any{
		"name": "Owner", "email": ownerEmail, "password": "long-enough",
	}, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")

	w = h.do(http.MethodPost, "/api/auth/login", map[string]any{"email": ownerEmail, "password": "wrong-one"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "OWNER@headz.test", "password": "long-enough"}, false)
	require.Equal(t, http.StatusOK, w.Code)
	var session struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	require.NotEmpty(t, session.Data.Token)

	h.token = session.Data.Token
	w = h.do(http.MethodGet, "/api/me", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ownerEmail)
}

func TestAuditLogs(t *testing.T) {
	h := newHarness(t)
	loc := timezone.Location(timezone.DefaultTimezone)

	h.repo.AddAuditLog(models.AuditLog{Action: "appointment_created", Entity: "appointment",
		CreatedAt: time.Date(2030, 1, 7, 23, 0, 0, 0, loc)})
	h.repo.AddAuditLog(models.AuditLog{Action: "barber_updated", Entity: "barber",
		CreatedAt: time.Date(2030, 1, 8, 10, 0, 0, 0, loc)})

	w := h.do(http.MethodGet, "/api/audit-logs?from=2030-01-07&to=2030-01-07", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Data struct {
			Page  int               `json:"page"`
			Limit int               `json:"limit"`
			Total int64             `json:"total"`
			Logs  []models.AuditLog `json:"logs"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Data.Total)
	assert.Equal(t, 50, page.Data.Limit)
	require.Len(t, page.Data.Logs, 1)
	assert.Equal(t, "appointment_created", page.Data.Logs[0].Action)

	w = h.do(http.MethodGet, "/api/audit-logs?entity=barber&limit=999", nil, true)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Data.Total)
	assert.Equal(t, 50, page.Data.Limit)

	w = h.do(http.MethodGet, "/api/audit-logs?from=yesterday", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/health", nil, false).Code)

	down := newHarness(t, func(d *Deps) {
		d.Ping = func(context.Context) error { return errors.New("db down") }
	})
	assert.Equal(t, http.StatusServiceUnavailable, down.do(http.MethodGet, "/health", nil, false).Code)
}

func TestRegisterRoutesNeedsLimiter(t *testing.T) {
	err := RegisterRoutes(gin.New(), Deps{Config: testConfig()})
	assert.ErrorIs(t, err, ErrNoLimiter)

	err = RegisterRoutes(gin.New(), Deps{})
	assert.ErrorIs(t, err, ErrNoConfig)
}

func TestScheduleDepsReadFromBookings(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, http.StatusCreated, h.book("2030-01-07T15:00:00Z").Code)

	date, err := timezone.ParseDate("2030-01-07")
	require.NoError(t, err)
	d := Deps{Config: testConfig(), Bookings: h.repo}
	view, err := ucSchedule.NewBuildDayView(ScheduleDeps(d)).Execute(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, view.Barbers, 1)
	assert.Equal(t, h.barber.ID, view.Barbers[0].BarberID)
	assert.Len(t, view.Barbers[0].Appointments, 1)
}
