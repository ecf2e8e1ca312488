package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theshortlist/shortlist-api/internal/service"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
	"github.com/theshortlist/shortlist-api/pkg/response"
)

// ParticipantHandler exposes the participant directory.
type ParticipantHandler struct {
	service *service.ParticipantService
}

// NewParticipantHandler constructs a participant handler.
func NewParticipantHandler(svc *service.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{service: svc}
}

// Lookup godoc
// @Summary Look up a participant by name and phone
// @Tags Participants
// @Accept json
// @Produce json
// @Param payload body service.LookupRequest true "Registration identity"
// @Success 200 {object} response.Envelope
// @Router /participants/lookup [post]
func (h *ParticipantHandler) Lookup(c *gin.Context) {
	var req service.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	participant, err := h.service.Lookup(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, participant, nil)
}

// Create godoc
// @Summary Add a participant to an event
// @Description Seeds one attendee onto the roster (host import flow)
// @Tags Host
// @Accept json
// @Produce json
// @Param date path string true "Event date"
// @Param payload body service.CreateParticipantRequest true "Participant payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /host/events/{date}/participants [post]
func (h *ParticipantHandler) Create(c *gin.Context) {
	var req service.CreateParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	participant, err := h.service.Create(c.Request.Context(), c.Param("date"), req, hostActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, participant, nil)
}

// Get godoc
// @Summary Get one participant
// @Tags Participants
// @Produce json
// @Param date path string true "Event date"
// @Param code path string true "Event code"
// @Success 200 {object} response.Envelope
// @Router /events/{date}/participants/{code} [get]
func (h *ParticipantHandler) Get(c *gin.Context) {
	participant, err := h.service.GetByCode(c.Request.Context(), c.Param("date"), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, participant, nil)
}

// Candidates godoc
// @Summary List selectable candidates
// @Description Returns the opposite-gender roster for the given selector
// @Tags Participants
// @Produce json
// @Param date path string true "Event date"
// @Param code path string true "Selector event code"
// @Success 200 {object} response.Envelope
// @Router /events/{date}/participants/{code}/candidates [get]
func (h *ParticipantHandler) Candidates(c *gin.Context) {
	candidates, err := h.service.Candidates(c.Request.Context(), c.Param("date"), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidates, nil)
}

// UpdateProfile godoc
// @Summary Update a participant profile
// @Description Updates the self-editable profile fields. Identity fields are immutable.
// @Tags Participants
// @Accept json
// @Produce json
// @Param date path string true "Event date"
// @Param code path string true "Event code"
// @Param payload body service.UpdateProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Router /events/{date}/participants/{code}/profile [put]
func (h *ParticipantHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	participant, err := h.service.UpdateProfile(c.Request.Context(), c.Param("date"), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, participant, nil)
}
