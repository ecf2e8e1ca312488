package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/theshortlist/shortlist-api/internal/middleware"
	"github.com/theshortlist/shortlist-api/internal/models"
)

func hostClaimsFromContext(c *gin.Context) *models.HostClaims {
	value, exists := c.Get(middleware.ContextHostKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.HostClaims)
	if !ok {
		return nil
	}
	return claims
}

// hostActor resolves the audit actor label for host routes.
func hostActor(c *gin.Context) string {
	if claims := hostClaimsFromContext(c); claims != nil && claims.Subject != "" {
		return claims.Subject
	}
	return "host"
}
