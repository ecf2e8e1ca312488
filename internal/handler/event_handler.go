package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theshortlist/shortlist-api/internal/service"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
	"github.com/theshortlist/shortlist-api/pkg/response"
)

// EventHandler exposes event metadata endpoints.
type EventHandler struct {
	service *service.EventService
}

// NewEventHandler constructs an event handler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{service: svc}
}

// Active godoc
// @Summary Get the active event
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events/active [get]
func (h *EventHandler) Active(c *gin.Context) {
	event, err := h.service.Active(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Get godoc
// @Summary Get one event
// @Description Returns event metadata including the current phase counter
// @Tags Events
// @Produce json
// @Param date path string true "Event date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /events/{date} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.service.GetByDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// List godoc
// @Summary List events
// @Tags Host
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /host/events [get]
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Create godoc
// @Summary Create an event
// @Description Registers a new event at phase zero
// @Tags Host
// @Accept json
// @Produce json
// @Param payload body service.CreateEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /host/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	event, err := h.service.Create(c.Request.Context(), req, hostActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, event, nil)
}

// AuditTrail godoc
// @Summary List operator actions for an event
// @Tags Host
// @Produce json
// @Param date path string true "Event date"
// @Success 200 {object} response.Envelope
// @Router /host/events/{date}/audit [get]
func (h *EventHandler) AuditTrail(c *gin.Context) {
	logs, err := h.service.AuditTrail(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}

// UpdateMeta godoc
// @Summary Update event metadata
// @Description Updates title, venue, chat link and status. The phase counter is managed separately.
// @Tags Host
// @Accept json
// @Produce json
// @Param date path string true "Event date"
// @Param payload body service.UpdateEventMetaRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Router /host/events/{date} [put]
func (h *EventHandler) UpdateMeta(c *gin.Context) {
	var req service.UpdateEventMetaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	event, err := h.service.UpdateMeta(c.Request.Context(), c.Param("date"), req, hostActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}
