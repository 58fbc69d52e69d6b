package middleware

import (
	apierrors "github.com/ardidw/studioflow-api/internal/errors"
	"github.com/ardidw/studioflow-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireRole admits only accounts holding one of the listed divisions.
func RequireRole(divisions ...models.Division) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		for _, d := range divisions {
			if user.Role == d {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "")
		c.Abort()
	}
}
