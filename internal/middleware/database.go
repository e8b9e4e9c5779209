package middleware

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/yukikurage/bugtracker-api/internal/errors"
)

// RequireDatabase rejects every data route with a uniform 500 when the server
// was started without database configuration. Health and static routes are
// mounted outside this middleware so the process still reports liveness.
func RequireDatabase(configured bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !configured {
			apierrors.InternalError(c, "Database not configured")
			c.Abort()
			return
		}
		c.Next()
	}
}
