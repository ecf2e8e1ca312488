package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theshortlist/shortlist-api/internal/service"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
	"github.com/theshortlist/shortlist-api/pkg/response"
)

// PhaseHandler exposes the phase table and the host phase controls.
type PhaseHandler struct {
	service *service.PhaseService
}

// NewPhaseHandler constructs a phase handler.
func NewPhaseHandler(svc *service.PhaseService) *PhaseHandler {
	return &PhaseHandler{service: svc}
}

// SetPhaseRequest moves an event to an absolute phase.
type SetPhaseRequest struct {
	Phase *int `json:"phase" binding:"required"`
}

// StepPhaseRequest moves an event by a relative delta.
type StepPhaseRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

// Table godoc
// @Summary Phase table
// @Description Returns the fixed phase progression for an event day
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /phases [get]
func (h *PhaseHandler) Table(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Table(), nil)
}

// Set godoc
// @Summary Set event phase
// @Description Moves the event to an absolute phase. Reaching the last phase runs the match batch.
// @Tags Host
// @Accept json
// @Produce json
// @Param date path string true "Event date"
// @Param payload body SetPhaseRequest true "Target phase"
// @Success 200 {object} response.Envelope
// @Router /host/events/{date}/phase [put]
func (h *PhaseHandler) Set(c *gin.Context) {
	var req SetPhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	change, err := h.service.SetPhase(c.Request.Context(), c.Param("date"), *req.Phase, hostActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, change, nil)
}

// Step godoc
// @Summary Step event phase
// @Description Moves the event phase by a delta, clamped to the valid range
// @Tags Host
// @Accept json
// @Produce json
// @Param date path string true "Event date"
// @Param payload body StepPhaseRequest true "Phase delta"
// @Success 200 {object} response.Envelope
// @Router /host/events/{date}/phase/step [post]
func (h *PhaseHandler) Step(c *gin.Context) {
	var req StepPhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	change, err := h.service.StepPhase(c.Request.Context(), c.Param("date"), *req.Delta, hostActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, change, nil)
}
