package middleware

import (
	"net/http"
	"strings"

	"room-booking-backend/internal/models"
	"room-booking-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ContextActor is the gin context key holding the authenticated actor.
const ContextActor = "actor"

// AuthMiddleware validates JWT access token from Authorization header
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		// Check Bearer prefix
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
			c.Abort()
			return
		}

		token := parts[1]

		// Validate token
		claims, err := utils.ValidateAccessToken(token)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		// Inject the acting identity into context
		c.Set(ContextActor, models.Actor{ID: claims.UserID, Staff: claims.IsStaff})

		c.Next()
	}
}

// RequireStaff checks that the authenticated user carries the staff flag
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := GetActor(c)
		if !exists {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		if !actor.Staff {
			utils.ErrorResponse(c, http.StatusForbidden, "Staff access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetActor extracts the authenticated actor from the gin context
func GetActor(c *gin.Context) (models.Actor, bool) {
	value, exists := c.Get(ContextActor)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := value.(models.Actor)
	return actor, ok
}
