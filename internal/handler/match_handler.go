package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/theshortlist/shortlist-api/internal/service"
	"github.com/theshortlist/shortlist-api/pkg/response"
)

// MatchHandler exposes match results to participants and the host.
type MatchHandler struct {
	matches  *service.MatchService
	matching *service.MatchingService
	metrics  *service.MetricsService
}

// NewMatchHandler constructs a match handler. metrics may be nil.
func NewMatchHandler(matches *service.MatchService, matching *service.MatchingService, metrics *service.MetricsService) *MatchHandler {
	return &MatchHandler{matches: matches, matching: matching, metrics: metrics}
}

// MyMatch godoc
// @Summary Get own match
// @Description Returns the viewer's match with the partner card revealed only on partner consent
// @Tags Matches
// @Produce json
// @Param date path string true "Event date"
// @Param code path string true "Viewer event code"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{date}/participants/{code}/match [get]
func (h *MatchHandler) MyMatch(c *gin.Context) {
	view, err := h.matches.MyMatch(c.Request.Context(), c.Param("date"), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Run godoc
// @Summary Run the match batch
// @Description Computes and stores matches for the event. Re-running replays the stored result.
// @Tags Host
// @Produce json
// @Param date path string true "Event date"
// @Success 200 {object} response.Envelope
// @Router /host/events/{date}/matches/run [post]
func (h *MatchHandler) Run(c *gin.Context) {
	start := time.Now()
	result, err := h.matching.Run(c.Request.Context(), c.Param("date"), hostActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveMatchRun(time.Since(start), len(result.Matches), result.Replayed)
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Results godoc
// @Summary Read the stored match results
// @Tags Host
// @Produce json
// @Param date path string true "Event date"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /host/events/{date}/matches [get]
func (h *MatchHandler) Results(c *gin.Context) {
	result, err := h.matching.Results(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
