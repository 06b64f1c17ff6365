package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atelier116/fashionweek-api/internal/middleware"
	"github.com/atelier116/fashionweek-api/internal/models"
	appErrors "github.com/atelier116/fashionweek-api/pkg/errors"
	"github.com/atelier116/fashionweek-api/pkg/response"
)

type meetingService interface {
	List(ctx context.Context, filter models.MeetingFilter) ([]models.Meeting, error)
	GetByCode(ctx context.Context, code string) (*models.Meeting, error)
	Create(ctx context.Context, actor *models.JWTClaims, req models.MeetingRequest) (*models.Meeting, error)
	Update(ctx context.Context, actor *models.JWTClaims, code string, req models.MeetingRequest) (*models.Meeting, error)
	Accept(ctx context.Context, actor *models.JWTClaims, code string) (*models.Meeting, error)
	Reject(ctx context.Context, actor *models.JWTClaims, code string) (*models.Meeting, error)
	Delete(ctx context.Context, actor *models.JWTClaims, code string) error
}

// MeetingHandler exposes the meeting lifecycle endpoints.
type MeetingHandler struct {
	service meetingService
}

// NewMeetingHandler constructs a MeetingHandler.
func NewMeetingHandler(service meetingService) *MeetingHandler {
	return &MeetingHandler{service: service}
}

// List godoc
// @Summary List meetings
// @Tags meetings
// @Security BearerAuth
// @Produce json
// @Param area_id query int false "area filter"
// @Param market_id query int false "market filter"
// @Param status query int false "status filter"
// @Param from query string false "start of window (YYYY-MM-DD)"
// @Param to query string false "end of window (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope{data=[]models.Meeting}
// @Router /meetings [get]
func (h *MeetingHandler) List(c *gin.Context) {
	filter, err := meetingFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	meetings, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meetings, nil)
}

// Get godoc
// @Summary Load a meeting by reference code
// @Tags meetings
// @Security BearerAuth
// @Produce json
// @Param code path string true "meeting code"
// @Success 200 {object} response.Envelope{data=models.Meeting}
// @Router /meetings/{code} [get]
func (h *MeetingHandler) Get(c *gin.Context) {
	meeting, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meeting, nil)
}

// Create godoc
// @Summary Book a meeting
// @Tags meetings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.MeetingRequest true "meeting"
// @Success 201 {object} response.Envelope{data=models.Meeting}
// @Router /meetings [post]
func (h *MeetingHandler) Create(c *gin.Context) {
	var req models.MeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	meeting, err := h.service.Create(c.Request.Context(), middleware.ClaimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, meeting)
}

// Update godoc
// @Summary Edit a meeting
// @Tags meetings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param code path string true "meeting code"
// @Param payload body models.MeetingRequest true "meeting"
// @Success 200 {object} response.Envelope{data=models.Meeting}
// @Router /meetings/{code} [put]
func (h *MeetingHandler) Update(c *gin.Context) {
	var req models.MeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	meeting, err := h.service.Update(c.Request.Context(), middleware.ClaimsFromContext(c), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meeting, nil)
}

// Accept godoc
// @Summary Approve a pending meeting
// @Tags meetings
// @Security BearerAuth
// @Produce json
// @Param code path string true "meeting code"
// @Success 200 {object} response.Envelope{data=models.Meeting}
// @Router /meetings/{code}/accept [post]
func (h *MeetingHandler) Accept(c *gin.Context) {
	meeting, err := h.service.Accept(c.Request.Context(), middleware.ClaimsFromContext(c), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meeting, nil)
}

// Reject godoc
// @Summary Decline a pending meeting
// @Tags meetings
// @Security BearerAuth
// @Produce json
// @Param code path string true "meeting code"
// @Success 200 {object} response.Envelope{data=models.Meeting}
// @Router /meetings/{code}/reject [post]
func (h *MeetingHandler) Reject(c *gin.Context) {
	meeting, err := h.service.Reject(c.Request.Context(), middleware.ClaimsFromContext(c), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meeting, nil)
}

// Delete godoc
// @Summary Remove a meeting
// @Tags meetings
// @Security BearerAuth
// @Produce json
// @Param code path string true "meeting code"
// @Success 200 {object} response.Envelope
// @Router /meetings/{code} [delete]
func (h *MeetingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.ClaimsFromContext(c), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "The meeting was deleted"}, nil)
}

func meetingFilterFromQuery(c *gin.Context) (models.MeetingFilter, error) {
	var filter models.MeetingFilter
	if area := int64Query(c, "area_id"); area > 0 {
		filter.AreaID = &area
	}
	if market := int64Query(c, "market_id"); market > 0 {
		filter.MarketID = &market
	}
	if raw := intQuery(c, "status"); raw > 0 {
		status := models.MeetingStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid from date")
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid to date")
		}
		filter.To = &to
	}
	return filter, nil
}
