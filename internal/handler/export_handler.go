package handler

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atelier116/fashionweek-api/internal/service"
	appErrors "github.com/atelier116/fashionweek-api/pkg/errors"
	"github.com/atelier116/fashionweek-api/pkg/response"
)

type exportService interface {
	RequestDaySheet(day time.Time, format service.ExportFormat) (*service.ExportJob, error)
	Job(id string) (*service.ExportJob, error)
	OpenDownload(token string) (*os.File, string, error)
}

// ExportHandler exposes the day-sheet export endpoints.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Request godoc
// @Summary Queue a day-sheet export
// @Tags exports
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 202 {object} response.Envelope{data=service.ExportJob}
// @Router /exports/day-sheet [post]
func (h *ExportHandler) Request(c *gin.Context) {
	var req struct {
		Day    string `json:"day" binding:"required"`
		Format string `json:"format"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	day, err := time.Parse("2006-01-02", req.Day)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid day, expected YYYY-MM-DD"))
		return
	}
	format := service.ExportFormat(req.Format)
	if format == "" {
		format = service.FormatPDF
	}

	job, err := h.service.RequestDaySheet(day, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Status godoc
// @Summary Look up an export job
// @Tags exports
// @Security BearerAuth
// @Produce json
// @Param id path string true "job id"
// @Success 200 {object} response.Envelope{data=service.ExportJob}
// @Router /exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	job, err := h.service.Job(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a finished export with a signed token
// @Tags exports
// @Produce octet-stream
// @Param token query string true "signed download token"
// @Success 200
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	file, name, err := h.service.OpenDownload(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.DataFromReader(http.StatusOK, info.Size(), "application/octet-stream", file, nil)
}
