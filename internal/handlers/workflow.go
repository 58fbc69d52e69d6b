package handlers

import (
	"net/http"

	"github.com/ardidw/studioflow-api/internal/workflow"
	"github.com/gin-gonic/gin"
)

// WorkflowHandler exposes the static workflow metadata.
type WorkflowHandler struct{}

// NewWorkflowHandler creates a new WorkflowHandler.
func NewWorkflowHandler() *WorkflowHandler {
	return &WorkflowHandler{}
}

// ListStatuses returns the ordered stage list with progress, acting division
// and next-action text per status.
func (h *WorkflowHandler) ListStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"statuses": workflow.StageList(),
	})
}
