package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/ardidw/studioflow-api/internal/errors"
	"github.com/ardidw/studioflow-api/internal/services"
	"github.com/gin-gonic/gin"
)

// SettingsHandler serves office-wide preferences.
type SettingsHandler struct {
	settingsService *services.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// GetSettings returns every setting with defaults filled in.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.All()
	if err != nil {
		apierrors.InternalError(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": settings,
	})
}

// UpdateSettings writes the submitted settings.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if len(req) == 0 {
		apierrors.BadRequest(c, "No settings provided")
		return
	}

	for key, value := range req {
		if err := h.settingsService.Update(key, value); err != nil {
			respondSettingsError(c, key, err)
			return
		}
	}

	settings, err := h.settingsService.All()
	if err != nil {
		apierrors.InternalError(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": settings,
	})
}

func respondSettingsError(c *gin.Context, key string, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownSetting):
		apierrors.BadRequest(c, "Unknown setting: "+key)
	case errors.Is(err, services.ErrInvalidSettingValue):
		apierrors.BadRequest(c, "Invalid value for setting: "+key)
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
