package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/theshortlist/shortlist-api/internal/service"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
	"github.com/theshortlist/shortlist-api/pkg/response"
)

// SelectionHandler exposes the two preference ledgers.
type SelectionHandler struct {
	service *service.SelectionService
	metrics *service.MetricsService
}

// NewSelectionHandler constructs a selection handler. metrics may be nil.
func NewSelectionHandler(svc *service.SelectionService, metrics *service.MetricsService) *SelectionHandler {
	return &SelectionHandler{service: svc, metrics: metrics}
}

// SubmitRound godoc
// @Summary Submit a round selection
// @Description Stores one write-once selection for sessions 1-4. Resubmission returns 409.
// @Tags Selections
// @Accept json
// @Produce json
// @Param date path string true "Event date"
// @Param payload body service.SubmitSelectionRequest true "Selection payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /events/{date}/selections [post]
func (h *SelectionHandler) SubmitRound(c *gin.Context) {
	var req service.SubmitSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidSelection.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.service.SubmitRound(c.Request.Context(), c.Param("date"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveSubmission("round")
	}
	response.Created(c, record)
}

// SubmitFinal godoc
// @Summary Submit the final selection
// @Description Stores the single write-once terminal selection. Resubmission returns 409.
// @Tags Selections
// @Accept json
// @Produce json
// @Param date path string true "Event date"
// @Param payload body service.SubmitFinalSelectionRequest true "Final selection payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /events/{date}/final-selection [post]
func (h *SelectionHandler) SubmitFinal(c *gin.Context) {
	var req service.SubmitFinalSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidSelection.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.service.SubmitFinal(c.Request.Context(), c.Param("date"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveSubmission("final")
	}
	response.Created(c, record)
}

// Submitted godoc
// @Summary Check a submission
// @Description Answers whether the selector already submitted for a session (1-4) or the final (5)
// @Tags Selections
// @Produce json
// @Param date path string true "Event date"
// @Param code path string true "Selector event code"
// @Param session query int true "Session number"
// @Success 200 {object} response.Envelope
// @Router /events/{date}/participants/{code}/submitted [get]
func (h *SelectionHandler) Submitted(c *gin.Context) {
	session, err := strconv.Atoi(c.Query("session"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "session query parameter required"))
		return
	}
	submitted, err := h.service.HasSubmitted(c.Request.Context(), c.Param("date"), c.Param("code"), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"submitted": submitted}, nil)
}

// MySelections godoc
// @Summary List own round selections
// @Tags Selections
// @Produce json
// @Param date path string true "Event date"
// @Param code path string true "Selector event code"
// @Success 200 {object} response.Envelope
// @Router /events/{date}/participants/{code}/selections [get]
func (h *SelectionHandler) MySelections(c *gin.Context) {
	records, err := h.service.MySelections(c.Request.Context(), c.Param("date"), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// MyFinalSelection godoc
// @Summary Get own final selection
// @Tags Selections
// @Produce json
// @Param date path string true "Event date"
// @Param code path string true "Selector event code"
// @Success 200 {object} response.Envelope
// @Router /events/{date}/participants/{code}/final-selection [get]
func (h *SelectionHandler) MyFinalSelection(c *gin.Context) {
	record, err := h.service.MyFinalSelection(c.Request.Context(), c.Param("date"), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// PickedBy godoc
// @Summary Who picked me
// @Description Lists the selections of one session naming this participant. Gated by the phase counter.
// @Tags Selections
// @Produce json
// @Param date path string true "Event date"
// @Param code path string true "Participant event code"
// @Param session query int true "Session number"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /events/{date}/participants/{code}/picked-by [get]
func (h *SelectionHandler) PickedBy(c *gin.Context) {
	session, err := strconv.Atoi(c.Query("session"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "session query parameter required"))
		return
	}
	records, err := h.service.PickedBy(c.Request.Context(), c.Param("date"), c.Param("code"), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// EventSelections godoc
// @Summary List every round selection of an event
// @Tags Host
// @Produce json
// @Param date path string true "Event date"
// @Success 200 {object} response.Envelope
// @Router /host/events/{date}/selections [get]
func (h *SelectionHandler) EventSelections(c *gin.Context) {
	records, err := h.service.EventSelections(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// EventFinalSelections godoc
// @Summary List every final selection of an event
// @Tags Host
// @Produce json
// @Param date path string true "Event date"
// @Success 200 {object} response.Envelope
// @Router /host/events/{date}/final-selections [get]
func (h *SelectionHandler) EventFinalSelections(c *gin.Context) {
	records, err := h.service.EventFinalSelections(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// SubmissionStatus godoc
// @Summary Per-participant submission status
// @Description Maps every participant code to whether they submitted for the given session
// @Tags Host
// @Produce json
// @Param date path string true "Event date"
// @Param session query int true "Session number"
// @Success 200 {object} response.Envelope
// @Router /host/events/{date}/submission-status [get]
func (h *SelectionHandler) SubmissionStatus(c *gin.Context) {
	session, err := strconv.Atoi(c.Query("session"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "session query parameter required"))
		return
	}
	status, err := h.service.SubmissionStatus(c.Request.Context(), c.Param("date"), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
