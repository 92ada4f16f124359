package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const ServiceTokenHeader = "X-Internal-Token"

// RequireServiceToken guards routes called by other backend services.
func RequireServiceToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(ServiceTokenHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			abort(c, http.StatusUnauthorized, "unauthorized", "Invalid service token")
			return
		}
		c.Next()
	}
}
