package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/bugtracker-api/internal/constants"
	apierrors "github.com/yukikurage/bugtracker-api/internal/errors"
	"github.com/yukikurage/bugtracker-api/internal/utils"
)

// RequireAuth authenticates the request via the session cookie first, then
// via an Authorization: Bearer token. Either credential is sufficient.
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if userID := session.Get(constants.ContextKeyUserID); userID != nil {
			c.Set(constants.ContextKeyUserID, userID)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			claims, err := utils.ParseToken(strings.TrimPrefix(header, "Bearer "), jwtSecret)
			if err == nil {
				c.Set(constants.ContextKeyUserID, claims.UserID)
				c.Next()
				return
			}
		}

		apierrors.Unauthorized(c, "")
		c.Abort()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
