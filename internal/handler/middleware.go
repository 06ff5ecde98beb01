package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-API-Key"

// APIKeyAuth guards the /api group. An empty key turns auth off so local runs need no setup.
func APIKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		provided := strings.TrimSpace(c.GetHeader(apiKeyHeader))
		switch {
		case provided == "":
			AuthRejectionsTotal.WithLabelValues("missing").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing " + apiKeyHeader + " header"})
		case subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1:
			AuthRejectionsTotal.WithLabelValues("invalid").Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "invalid API key"})
		default:
			c.Next()
		}
	}
}
