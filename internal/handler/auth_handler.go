package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theshortlist/shortlist-api/internal/models"
	"github.com/theshortlist/shortlist-api/internal/service"
	appErrors "github.com/theshortlist/shortlist-api/pkg/errors"
	"github.com/theshortlist/shortlist-api/pkg/response"
)

// AuthHandler exposes the host login endpoint.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Host login
// @Description Exchange the shared host code for an access token
// @Tags Host
// @Accept json
// @Produce json
// @Param payload body models.HostLoginRequest true "Host code"
// @Success 200 {object} response.Envelope
// @Router /host/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.HostLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, token, nil)
}
