package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"contracts-app/config"
	"contracts-app/internal/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware verifies the bearer token issued by the auth service and
// puts user_id (and role, when present) on the context.
func AuthMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		jwtKey := []byte(config.JWT_SECRET)
		if len(jwtKey) == 0 {
			abort(c, http.StatusInternalServerError, "internal", "JWT secret not configured")
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "Authorization header missing")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			abort(c, http.StatusUnauthorized, "unauthorized", "Bearer token malformed")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			log.Debug("rejected token", "path", c.FullPath(), "error", err)
			abort(c, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized", "Invalid token claims")
			return
		}
		userID, ok := claims["user_id"].(float64)
		if !ok || userID <= 0 {
			abort(c, http.StatusUnauthorized, "unauthorized", "Token has no user_id")
			return
		}
		c.Set("user_id", uint(userID))
		if role, ok := claims["role"].(string); ok {
			c.Set("role", role)
		}
		c.Next()
	}
}

// RequireRole gates platform-level routes on the token's role claim.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists {
			abort(c, http.StatusUnauthorized, "unauthorized", "Role not found in token")
			return
		}
		if value != role {
			abort(c, http.StatusForbidden, "forbidden", "Access denied")
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"message": msg, "code": code}})
}
