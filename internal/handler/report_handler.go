package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/theshortlist/shortlist-api/internal/models"
	"github.com/theshortlist/shortlist-api/internal/service"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
	"github.com/theshortlist/shortlist-api/pkg/response"
)

// ReportHandler exposes the asynchronous match report endpoints.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler constructs a report handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// QueueReportRequest selects the rendered format.
type QueueReportRequest struct {
	Format string `json:"format" binding:"required"`
}

// Queue godoc
// @Summary Queue a match report
// @Description Renders the match results as CSV or PDF in the background
// @Tags Host
// @Accept json
// @Produce json
// @Param date path string true "Event date"
// @Param payload body QueueReportRequest true "Report format"
// @Success 202 {object} response.Envelope
// @Router /host/events/{date}/reports [post]
func (h *ReportHandler) Queue(c *gin.Context) {
	var req QueueReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	job, err := h.service.Queue(c.Request.Context(), c.Param("date"), models.ReportFormat(strings.ToLower(req.Format)), hostActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Get godoc
// @Summary Get a report job
// @Description Returns job status; completed jobs carry a signed download URL
// @Tags Host
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /host/reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	job, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a rendered report
// @Description Streams the report file referenced by a signed token
// @Tags Host
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200
// @Router /reports/download [get]
func (h *ReportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token query parameter required"))
		return
	}
	file, reportID, err := h.service.Open(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	stat, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat report file"))
		return
	}
	filename := reportID + filepath.Ext(stat.Name())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.DataFromReader(http.StatusOK, stat.Size(), "application/octet-stream", file, nil)
}
