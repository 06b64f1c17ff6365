package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelier116/fashionweek-api/internal/models"
	appErrors "github.com/atelier116/fashionweek-api/pkg/errors"
	"github.com/atelier116/fashionweek-api/pkg/response"
)

type externalAccountService interface {
	List(ctx context.Context, filter models.ExternalAccountFilter) ([]models.ExternalAccount, *models.Pagination, error)
	ListSmall(ctx context.Context) ([]models.ExternalAccountSmall, error)
	Get(ctx context.Context, id int64) (*models.ExternalAccount, error)
	Create(ctx context.Context, req models.ExternalAccountRequest) (*models.ExternalAccount, error)
	Update(ctx context.Context, id int64, req models.ExternalAccountRequest) (*models.ExternalAccount, error)
	Delete(ctx context.Context, id int64) error
}

// ExternalAccountHandler exposes the client company endpoints.
type ExternalAccountHandler struct {
	service externalAccountService
}

// NewExternalAccountHandler constructs an ExternalAccountHandler.
func NewExternalAccountHandler(service externalAccountService) *ExternalAccountHandler {
	return &ExternalAccountHandler{service: service}
}

// List godoc
// @Summary List external accounts
// @Tags external-accounts
// @Security BearerAuth
// @Produce json
// @Param search query string false "label fragment"
// @Param market_id query int false "market filter"
// @Param page query int false "page number"
// @Param page_size query int false "page size"
// @Success 200 {object} response.Envelope{data=[]models.ExternalAccount}
// @Router /external-account [get]
func (h *ExternalAccountHandler) List(c *gin.Context) {
	filter := models.ExternalAccountFilter{
		Search:   c.Query("search"),
		Page:     intQuery(c, "page"),
		PageSize: intQuery(c, "page_size"),
	}
	if market := int64Query(c, "market_id"); market > 0 {
		filter.MarketID = &market
	}

	accounts, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, accounts, pagination)
}

// ListSmall godoc
// @Summary List external accounts in select-box shape
// @Tags external-accounts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.ExternalAccountSmall}
// @Router /external-account/small [get]
func (h *ExternalAccountHandler) ListSmall(c *gin.Context) {
	accounts, err := h.service.ListSmall(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, accounts, nil)
}

// Get godoc
// @Summary Load an external account
// @Tags external-accounts
// @Security BearerAuth
// @Produce json
// @Param id path int true "account id"
// @Success 200 {object} response.Envelope{data=models.ExternalAccount}
// @Router /external-account/{id} [get]
func (h *ExternalAccountHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	account, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, account, nil)
}

// Create godoc
// @Summary Create an external account
// @Tags external-accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body models.ExternalAccountRequest true "account"
// @Success 201 {object} response.Envelope{data=models.ExternalAccount}
// @Router /external-account [post]
func (h *ExternalAccountHandler) Create(c *gin.Context) {
	var req models.ExternalAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	account, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, account)
}

// Update godoc
// @Summary Edit an external account
// @Tags external-accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "account id"
// @Param payload body models.ExternalAccountRequest true "account"
// @Success 200 {object} response.Envelope{data=models.ExternalAccount}
// @Router /external-account/{id} [put]
func (h *ExternalAccountHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.ExternalAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	account, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, account, nil)
}

// Delete godoc
// @Summary Remove an external account
// @Tags external-accounts
// @Security BearerAuth
// @Param id path int true "account id"
// @Success 204
// @Router /external-account/{id} [delete]
func (h *ExternalAccountHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
