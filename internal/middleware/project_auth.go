package middleware

import (
	"github.com/ardidw/studioflow-api/internal/constants"
	"github.com/ardidw/studioflow-api/internal/database"
	apierrors "github.com/ardidw/studioflow-api/internal/errors"
	"github.com/ardidw/studioflow-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireProjectAccess loads the project named by the :id parameter into the
// context. Every authenticated account may view any project; the workflow
// capability rules gate actions, not visibility.
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Param("id")
		if projectID == "" {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().First(&project, "id = ?", projectID).Error; err != nil {
			apierrors.NotFoundCode(c, apierrors.ErrCodeProjectNotFound, "Project not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProject, &project)
		c.Next()
	}
}

// GetProject retrieves the project loaded by RequireProjectAccess
func GetProject(c *gin.Context) (*models.Project, bool) {
	v, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return nil, false
	}
	project, ok := v.(*models.Project)
	if !ok || project == nil {
		return nil, false
	}
	return project, true
}
