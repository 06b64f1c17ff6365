package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelier116/fashionweek-api/internal/models"
	"github.com/atelier116/fashionweek-api/internal/service"
	appErrors "github.com/atelier116/fashionweek-api/pkg/errors"
	"github.com/atelier116/fashionweek-api/pkg/response"
)

type areaService interface {
	List(ctx context.Context) ([]models.Area, error)
	Get(ctx context.Context, id int64) (*models.Area, error)
	Policies(ctx context.Context) ([]service.AreaPolicy, error)
	Create(ctx context.Context, req models.AreaRequest) (*models.Area, error)
	Update(ctx context.Context, id int64, req models.AreaRequest) (*models.Area, error)
}

// AreaHandler exposes the bookable area endpoints.
type AreaHandler struct {
	service areaService
}

// NewAreaHandler constructs an AreaHandler.
func NewAreaHandler(service areaService) *AreaHandler {
	return &AreaHandler{service: service}
}

// List godoc
// @Summary List areas
// @Tags areas
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.Area}
// @Router /areas [get]
func (h *AreaHandler) List(c *gin.Context) {
	areas, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, areas, nil)
}

// Policies godoc
// @Summary List areas with their booking rules
// @Tags areas
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope{data=[]service.AreaPolicy}
// @Router /areas/policies [get]
func (h *AreaHandler) Policies(c *gin.Context) {
	policies, err := h.service.Policies(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, policies, nil)
}

// Get godoc
// @Summary Load an area
// @Tags areas
// @Security BearerAuth
// @Produce json
// @Param id path int true "area id"
// @Success 200 {object} response.Envelope{data=models.Area}
// @Router /areas/{id} [get]
func (h *AreaHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	area, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, area, nil)
}

// Create godoc
// @Summary Create an area
// @Tags areas
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.AreaRequest true "area"
// @Success 201 {object} response.Envelope{data=models.Area}
// @Router /areas [post]
func (h *AreaHandler) Create(c *gin.Context) {
	var req models.AreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	area, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, area)
}

// Update godoc
// @Summary Edit an area
// @Tags areas
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "area id"
// @Param payload body models.AreaRequest true "area"
// @Success 200 {object} response.Envelope{data=models.Area}
// @Router /areas/{id} [put]
func (h *AreaHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.AreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	area, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, area, nil)
}
