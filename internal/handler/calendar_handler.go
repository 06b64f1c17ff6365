package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelier116/fashionweek-api/internal/middleware"
	"github.com/atelier116/fashionweek-api/internal/models"
	"github.com/atelier116/fashionweek-api/internal/scheduling"
	appErrors "github.com/atelier116/fashionweek-api/pkg/errors"
	"github.com/atelier116/fashionweek-api/pkg/response"
)

type calendarService interface {
	Calendar(ctx context.Context, filter models.MeetingFilter) ([]scheduling.CalendarEntry, error)
	DisabledHours(ctx context.Context, filter models.MeetingFilter, selectedAreaID int64, clear bool) (scheduling.Schedule, error)
	CheckBooking(actor *models.JWTClaims, req models.BookingCheckRequest) models.BookingCheckResult
}

// CalendarHandler exposes the calendar projection and booking-check
// endpoints the planner screen is built on.
type CalendarHandler struct {
	service calendarService
}

// NewCalendarHandler constructs a CalendarHandler.
func NewCalendarHandler(service calendarService) *CalendarHandler {
	return &CalendarHandler{service: service}
}

// Calendar godoc
// @Summary Project meetings into calendar entries
// @Tags calendar
// @Security BearerAuth
// @Produce json
// @Param area_id query int false "area filter"
// @Param market_id query int false "market filter"
// @Param status query int false "status filter"
// @Success 200 {object} response.Envelope{data=[]scheduling.CalendarEntry}
// @Router /meetings/calendar [get]
func (h *CalendarHandler) Calendar(c *gin.Context) {
	filter, err := meetingFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	entries, err := h.service.Calendar(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// DisabledHours godoc
// @Summary Build the blackout schedule for a target area
// @Tags calendar
// @Security BearerAuth
// @Produce json
// @Param area_id query int true "area being booked"
// @Param clear query bool false "reset the schedule"
// @Success 200 {object} response.Envelope{data=scheduling.Schedule}
// @Router /meetings/disabled-hours [get]
func (h *CalendarHandler) DisabledHours(c *gin.Context) {
	areaID := int64Query(c, "area_id")
	clear := c.Query("clear") == "true" || c.Query("clear") == "1"
	if areaID < 1 && !clear {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "area_id is required"))
		return
	}

	filter, err := meetingFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter.AreaID = nil

	schedule, err := h.service.DisabledHours(c.Request.Context(), filter, areaID, clear)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// BookingCheck godoc
// @Summary Evaluate a proposed booking against the area policy
// @Tags calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.BookingCheckRequest true "proposed booking"
// @Success 200 {object} response.Envelope{data=models.BookingCheckResult}
// @Router /meetings/booking-check [post]
func (h *CalendarHandler) BookingCheck(c *gin.Context) {
	var req models.BookingCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	result := h.service.CheckBooking(middleware.ClaimsFromContext(c), req)
	response.JSON(c, http.StatusOK, result, nil)
}
