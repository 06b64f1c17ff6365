package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelier116/fashionweek-api/internal/models"
	appErrors "github.com/atelier116/fashionweek-api/pkg/errors"
	"github.com/atelier116/fashionweek-api/pkg/response"
)

type marketService interface {
	List(ctx context.Context) ([]models.Market, error)
	Get(ctx context.Context, id int64) (*models.Market, error)
	Create(ctx context.Context, req models.MarketRequest) (*models.Market, error)
}

// MarketHandler exposes the market reference endpoints.
type MarketHandler struct {
	service marketService
}

// NewMarketHandler constructs a MarketHandler.
func NewMarketHandler(service marketService) *MarketHandler {
	return &MarketHandler{service: service}
}

// List godoc
// @Summary List markets
// @Tags markets
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.Market}
// @Router /markets [get]
func (h *MarketHandler) List(c *gin.Context) {
	markets, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, markets, nil)
}

// Get godoc
// @Summary Load a market
// @Tags markets
// @Security BearerAuth
// @Produce json
// @Param id path int true "market id"
// @Success 200 {object} response.Envelope{data=models.Market}
// @Router /markets/{id} [get]
func (h *MarketHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	market, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, market, nil)
}

// Create godoc
// @Summary Create a market
// @Tags markets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.MarketRequest true "market"
// @Success 201 {object} response.Envelope{data=models.Market}
// @Router /markets [post]
func (h *MarketHandler) Create(c *gin.Context) {
	var req models.MarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	market, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, market)
}
