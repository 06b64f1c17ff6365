package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier116/fashionweek-api/internal/middleware"
	"github.com/atelier116/fashionweek-api/internal/models"
	"github.com/atelier116/fashionweek-api/internal/scheduling"
)

type stubCalendarService struct {
	entries      []scheduling.CalendarEntry
	schedule     scheduling.Schedule
	result       models.BookingCheckResult
	err          error
	lastFilter   models.MeetingFilter
	lastSelected int64
	lastClear    bool
	lastActor    *models.JWTClaims
	lastRequest  models.BookingCheckRequest
}

func (s *stubCalendarService) Calendar(ctx context.Context, filter models.MeetingFilter) ([]scheduling.CalendarEntry, error) {
	s.lastFilter = filter
	return s.entries, s.err
}

func (s *stubCalendarService) DisabledHours(ctx context.Context, filter models.MeetingFilter, selectedAreaID int64, clear bool) (scheduling.Schedule, error) {
	s.lastFilter = filter
	s.lastSelected = selectedAreaID
	s.lastClear = clear
	return s.schedule, s.err
}

func (s *stubCalendarService) CheckBooking(actor *models.JWTClaims, req models.BookingCheckRequest) models.BookingCheckResult {
	s.lastActor = actor
	s.lastRequest = req
	return s.result
}

func newCalendarRouter(svc *stubCalendarService, claims *models.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.ContextUserKey, claims)
		}
	})
	h := NewCalendarHandler(svc)
	router.GET("/meetings/calendar", h.Calendar)
	router.GET("/meetings/disabled-hours", h.DisabledHours)
	router.POST("/meetings/booking-check", h.BookingCheck)
	return router
}

func TestCalendarHandlerCalendar(t *testing.T) {
	svc := &stubCalendarService{entries: []scheduling.CalendarEntry{
		{ID: 1, MeetingID: "m-1", Start: "2026-03-02 09:30", End: "2026-03-02 11:00", Class: "europe"},
	}}
	router := newCalendarRouter(svc, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/meetings/calendar?area_id=2&status=2", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastFilter.AreaID)
	assert.Equal(t, int64(2), *svc.lastFilter.AreaID)
	require.NotNil(t, svc.lastFilter.Status)

	var envelope struct {
		Data []scheduling.CalendarEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "m-1", envelope.Data[0].MeetingID)
	assert.Equal(t, "europe", envelope.Data[0].Class)
}

func TestCalendarHandlerCalendarRejectsBadDate(t *testing.T) {
	router := newCalendarRouter(&stubCalendarService{}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/meetings/calendar?from=not-a-date", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarHandlerDisabledHours(t *testing.T) {
	svc := &stubCalendarService{schedule: scheduling.Schedule{
		1: {{ID: 2, From: 570, To: 660, Class: "closed"}},
	}}
	router := newCalendarRouter(svc, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/meetings/disabled-hours?area_id=3", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), svc.lastSelected)
	assert.False(t, svc.lastClear)
	assert.Nil(t, svc.lastFilter.AreaID)

	var envelope struct {
		Data scheduling.Schedule `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data[1], 1)
	assert.Equal(t, "closed", envelope.Data[1][0].Class)
}

func TestCalendarHandlerDisabledHoursRequiresArea(t *testing.T) {
	router := newCalendarRouter(&stubCalendarService{}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/meetings/disabled-hours", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarHandlerDisabledHoursClear(t *testing.T) {
	svc := &stubCalendarService{schedule: scheduling.Schedule{}}
	router := newCalendarRouter(svc, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/meetings/disabled-hours?clear=true", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.lastClear)
}

func TestCalendarHandlerBookingCheck(t *testing.T) {
	svc := &stubCalendarService{result: models.BookingCheckResult{Allowed: false, Warning: "Warning: The max allowed duration is 60 min"}}
	claims := &models.JWTClaims{UserID: 11, RoleID: models.RoleSalesManager}
	router := newCalendarRouter(svc, claims)

	body := `{"area_id": 2, "start_hour": "09:00", "end_hour": "10:30", "guest_count": 2}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/meetings/booking-check", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastActor)
	assert.Equal(t, models.RoleSalesManager, svc.lastActor.RoleID)
	assert.Equal(t, "09:00", svc.lastRequest.StartHour)

	var envelope struct {
		Data models.BookingCheckResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Data.Allowed)
	assert.Equal(t, "Warning: The max allowed duration is 60 min", envelope.Data.Warning)
}

func TestCalendarHandlerBookingCheckRejectsBadBody(t *testing.T) {
	router := newCalendarRouter(&stubCalendarService{}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/meetings/booking-check", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
