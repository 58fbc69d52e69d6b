package handlers

import (
	"errors"
	"net/http"
	"strconv"

	apierrors "github.com/ardidw/studioflow-api/internal/errors"
	"github.com/ardidw/studioflow-api/internal/services"
	"github.com/gin-gonic/gin"
)

// CalendarHandler serves the office calendar and the holiday table behind it.
type CalendarHandler struct {
	calendarService *services.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService *services.CalendarService) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
	}
}

// GetCalendar returns the merged calendar entries for a date range.
func (h *CalendarHandler) GetCalendar(c *gin.Context) {
	entries, err := h.calendarService.Range(c.Query("from"), c.Query("to"))
	if err != nil {
		respondCalendarError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
	})
}

// ListHolidays returns the office holidays for a date range.
func (h *CalendarHandler) ListHolidays(c *gin.Context) {
	holidays, err := h.calendarService.ListHolidays(c.Query("from"), c.Query("to"))
	if err != nil {
		respondCalendarError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"holidays": holidays,
	})
}

// CreateHoliday records an office holiday.
func (h *CalendarHandler) CreateHoliday(c *gin.Context) {
	type CreateHolidayRequest struct {
		Date string `json:"date" binding:"required"`
		Name string `json:"name" binding:"required"`
	}

	var req CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	holiday, err := h.calendarService.CreateHoliday(services.CreateHolidayInput{
		Date: req.Date,
		Name: req.Name,
	})
	if err != nil {
		respondCalendarError(c, err)
		return
	}

	c.JSON(http.StatusCreated, holiday)
}

// DeleteHoliday removes an office holiday.
func (h *CalendarHandler) DeleteHoliday(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid holiday ID")
		return
	}

	if err := h.calendarService.DeleteHoliday(id); err != nil {
		respondCalendarError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Holiday deleted",
	})
}

func respondCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrHolidayNotFound):
		apierrors.NotFound(c, "Holiday not found")
	case errors.Is(err, services.ErrHolidayExists):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrHolidayNameRequired),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidDateRange):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
