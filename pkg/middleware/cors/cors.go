package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// The API serves two browser frontends, the participant app and the host
// console, so the method and header lists stay fixed to what they use.
const (
	allowMethods = "GET, POST, PUT, OPTIONS"
	allowHeaders = "Authorization, Content-Type, X-Request-ID"
)

// New returns a CORS middleware restricted to the configured origins.
// An empty list allows any origin.
func New(allowedOrigins []string) gin.HandlerFunc {
	normalized := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		normalized[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Vary", "Origin")

		if origin := c.GetHeader("Origin"); origin != "" && allowed(normalized, origin) {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			h.Set("Access-Control-Max-Age", "600")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func allowed(origins map[string]struct{}, origin string) bool {
	if len(origins) == 0 {
		return true
	}
	_, ok := origins[strings.TrimRight(origin, "/")]
	return ok
}
