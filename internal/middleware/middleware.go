package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/easepay/easepay/internal/app/models/dto"
)

// CORS allows the configured browser origins to use the API with
// credentials. Cookie-based sessions require an exact origin echo; a
// wildcard origin cannot be combined with Access-Control-Allow-Credentials.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowed[origin]; ok {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Accept, Origin")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// APIVersion rejects requests whose path names an unsupported API version so
// stale clients get an explicit signal instead of a generic 404.
func APIVersion(supported string) gin.HandlerFunc {
	prefix := "/api/"
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !strings.HasPrefix(path, prefix) {
			c.Next()
			return
		}

		rest := strings.TrimPrefix(path, prefix)
		version := rest
		if idx := strings.Index(rest, "/"); idx >= 0 {
			version = rest[:idx]
		}

		if version != supported {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unsupported API version: "+version)
			errorDetail = errorDetail.WithDetails("Supported version: " + supported)
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}
