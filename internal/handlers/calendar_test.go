package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ardidw/studioflow-api/internal/constants"
	"github.com/ardidw/studioflow-api/internal/models"
	"github.com/ardidw/studioflow-api/internal/repository"
	"github.com/ardidw/studioflow-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CalendarHandlerTestSuite tests the calendar and holiday handlers
type CalendarHandlerTestSuite struct {
	suite.Suite
	db              *gorm.DB
	calendarService *services.CalendarService
	handler         *CalendarHandler
}

// SetupTest runs before each test
func (suite *CalendarHandlerTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = db.AutoMigrate(&models.User{}, &models.Project{}, &models.Holiday{}, &models.LeaveRequest{})
	suite.Require().NoError(err)

	suite.db = db
	gin.SetMode(gin.TestMode)

	projectRepo := repository.NewProjectRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	leaveRepo := repository.NewLeaveRequestRepository(db)
	suite.calendarService = services.NewCalendarService(projectRepo, holidayRepo, leaveRepo)
	suite.handler = NewCalendarHandler(suite.calendarService)
}

// TearDownTest runs after each test
func (suite *CalendarHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// createUser creates a user directly in the database
func (suite *CalendarHandlerTestSuite) createUser(username, displayName string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
		DisplayName:  displayName,
		Role:         models.DivisionArsitek,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

// createProjectEvent seeds a project row carrying survey or sidang details
func (suite *CalendarHandlerTestSuite) createProjectEvent(title string, survey, sidang models.EventDetails) *models.Project {
	project := &models.Project{
		ID:               uuid.NewString(),
		Title:            title,
		Status:           models.StatusSurveyScheduled,
		Progress:         45,
		AssignedDivision: models.DivisionArsitek,
		Survey:           survey,
		Schedule:         sidang,
		CreatedBy:        "admin",
	}
	suite.Require().NoError(suite.db.Create(project).Error)
	return project
}

// createLeaveRow seeds a leave request with a fixed status
func (suite *CalendarHandlerTestSuite) createLeaveRow(user *models.User, from, to string, status models.LeaveStatus) *models.LeaveRequest {
	request := &models.LeaveRequest{
		UserID:    user.ID,
		Type:      models.LeaveAnnual,
		StartDate: from,
		EndDate:   to,
		Reason:    "family matters",
		Status:    status,
	}
	suite.Require().NoError(suite.db.Create(request).Error)
	return request
}

// createHoliday records a holiday through the service
func (suite *CalendarHandlerTestSuite) createHoliday(date, name string) *models.Holiday {
	holiday, err := suite.calendarService.CreateHoliday(services.CreateHolidayInput{
		Date: date,
		Name: name,
	})
	suite.Require().NoError(err)
	return holiday
}

// request builds a context and recorder for a handler call
func (suite *CalendarHandlerTestSuite) request(method, url string, payload interface{}, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = append(c.Params, params...)
	return c, w
}

// decodeEntries unwraps the calendar response payload
func (suite *CalendarHandlerTestSuite) decodeEntries(w *httptest.ResponseRecorder) []services.CalendarEntry {
	var resp struct {
		Entries []services.CalendarEntry `json:"entries"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Entries
}

// TestGetCalendar_MergesSources tests that holidays, project events and
// approved leave land in one date-sorted list
func (suite *CalendarHandlerTestSuite) TestGetCalendar_MergesSources() {
	citra := suite.createUser("citra", "Citra Ayu")
	suite.createHoliday("2026-08-17", "Hari Kemerdekaan")
	surveyed := suite.createProjectEvent("Rumah Tebet",
		models.EventDetails{Date: "2026-08-20", Time: "09:00", Location: "Tebet"},
		models.EventDetails{})
	suite.createProjectEvent("Gudang Cikarang",
		models.EventDetails{},
		models.EventDetails{Date: "2026-08-25", Time: "13:00", Location: "Kantor"})
	suite.createLeaveRow(citra, "2026-08-19", "2026-08-21", models.LeaveStatusApproved)
	suite.createLeaveRow(citra, "2026-08-10", "2026-08-11", models.LeaveStatusRejected)

	c, w := suite.request("GET", "/api/calendar?from=2026-08-01&to=2026-08-31", nil)
	suite.handler.GetCalendar(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	entries := suite.decodeEntries(w)
	suite.Require().Len(entries, 4)

	assert.Equal(suite.T(), "holiday", entries[0].Type)
	assert.Equal(suite.T(), "Hari Kemerdekaan", entries[0].Title)
	assert.Equal(suite.T(), "2026-08-17", entries[0].Date)

	assert.Equal(suite.T(), "leave", entries[1].Type)
	assert.Equal(suite.T(), "Leave: Citra Ayu", entries[1].Title)
	assert.Equal(suite.T(), "2026-08-21", entries[1].EndDate)
	suite.Require().NotNil(entries[1].UserID)
	assert.Equal(suite.T(), citra.ID, *entries[1].UserID)

	assert.Equal(suite.T(), "survey", entries[2].Type)
	assert.Equal(suite.T(), "Survey: Rumah Tebet", entries[2].Title)
	assert.Equal(suite.T(), "09:00", entries[2].Time)
	assert.Equal(suite.T(), "Tebet", entries[2].Location)
	suite.Require().NotNil(entries[2].ProjectID)
	assert.Equal(suite.T(), surveyed.ID, *entries[2].ProjectID)

	assert.Equal(suite.T(), "sidang", entries[3].Type)
	assert.Equal(suite.T(), "Sidang: Gudang Cikarang", entries[3].Title)
	assert.Equal(suite.T(), "2026-08-25", entries[3].Date)
}

// TestGetCalendar_SkipsEventsOutsideRange tests range filtering per source
func (suite *CalendarHandlerTestSuite) TestGetCalendar_SkipsEventsOutsideRange() {
	citra := suite.createUser("citra", "Citra Ayu")
	suite.createHoliday("2026-09-01", "Libur Kantor")
	suite.createProjectEvent("Rumah Tebet",
		models.EventDetails{Date: "2026-08-20", Time: "09:00", Location: "Tebet"},
		models.EventDetails{Date: "2026-09-10", Time: "13:00", Location: "Kantor"})
	suite.createLeaveRow(citra, "2026-07-20", "2026-07-25", models.LeaveStatusApproved)
	straddling := suite.createLeaveRow(citra, "2026-07-30", "2026-08-02", models.LeaveStatusApproved)

	c, w := suite.request("GET", "/api/calendar?from=2026-08-01&to=2026-08-31", nil)
	suite.handler.GetCalendar(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	entries := suite.decodeEntries(w)
	suite.Require().Len(entries, 2)

	// Leave that straddles the range start keeps its real dates.
	assert.Equal(suite.T(), "leave", entries[0].Type)
	assert.Equal(suite.T(), straddling.StartDate, entries[0].Date)
	assert.Equal(suite.T(), "survey", entries[1].Type)
	assert.Equal(suite.T(), "2026-08-20", entries[1].Date)
}

// TestGetCalendar_DefaultsToCurrentMonth tests the empty range fallback
func (suite *CalendarHandlerTestSuite) TestGetCalendar_DefaultsToCurrentMonth() {
	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	suite.createHoliday(first.Format(constants.DateLayout), "Rapat Tahunan")
	suite.createHoliday(first.AddDate(0, 2, 0).Format(constants.DateLayout), "Libur Kantor")

	c, w := suite.request("GET", "/api/calendar", nil)
	suite.handler.GetCalendar(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	entries := suite.decodeEntries(w)
	suite.Require().Len(entries, 1)
	assert.Equal(suite.T(), "Rapat Tahunan", entries[0].Title)
}

// TestGetCalendar_BadRange tests range validation
func (suite *CalendarHandlerTestSuite) TestGetCalendar_BadRange() {
	c, w := suite.request("GET", "/api/calendar?from=2026-08-31&to=2026-08-01", nil)
	suite.handler.GetCalendar(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	apiErr := decodeAPIError(suite.T(), w)
	assert.Equal(suite.T(), "end date precedes start date", apiErr.Message)

	c, w = suite.request("GET", "/api/calendar?from=17-08-2026&to=2026-08-31", nil)
	suite.handler.GetCalendar(c)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestListHolidays_Range tests the holiday list endpoint
func (suite *CalendarHandlerTestSuite) TestListHolidays_Range() {
	suite.createHoliday("2026-08-17", "Hari Kemerdekaan")
	suite.createHoliday("2026-09-07", "Maulid Nabi")
	suite.createHoliday("2026-12-25", "Natal")

	c, w := suite.request("GET", "/api/holidays?from=2026-08-01&to=2026-09-30", nil)
	suite.handler.ListHolidays(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp struct {
		Holidays []models.Holiday `json:"holidays"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Holidays, 2)
	assert.Equal(suite.T(), "Hari Kemerdekaan", resp.Holidays[0].Name)
	assert.Equal(suite.T(), "Maulid Nabi", resp.Holidays[1].Name)
}

// TestCreateHoliday_Success tests recording a holiday
func (suite *CalendarHandlerTestSuite) TestCreateHoliday_Success() {
	c, w := suite.request("POST", "/api/holidays", map[string]string{
		"date": "2026-08-17",
		"name": "Hari Kemerdekaan",
	})
	suite.handler.CreateHoliday(c)

	suite.Require().Equal(http.StatusCreated, w.Code)
	var holiday models.Holiday
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &holiday))
	assert.NotZero(suite.T(), holiday.ID)
	assert.Equal(suite.T(), "2026-08-17", holiday.Date)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Holiday{}).Count(&count).Error)
	assert.Equal(suite.T(), int64(1), count)
}

// TestCreateHoliday_DuplicateDate tests that holiday dates are unique
func (suite *CalendarHandlerTestSuite) TestCreateHoliday_DuplicateDate() {
	suite.createHoliday("2026-08-17", "Hari Kemerdekaan")

	c, w := suite.request("POST", "/api/holidays", map[string]string{
		"date": "2026-08-17",
		"name": "Upacara",
	})
	suite.handler.CreateHoliday(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	apiErr := decodeAPIError(suite.T(), w)
	assert.Equal(suite.T(), "a holiday already exists on this date", apiErr.Message)
}

// TestCreateHoliday_MissingName tests request validation
func (suite *CalendarHandlerTestSuite) TestCreateHoliday_MissingName() {
	c, w := suite.request("POST", "/api/holidays", map[string]string{
		"date": "2026-08-17",
	})
	suite.handler.CreateHoliday(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateHoliday_BadDate tests date format validation
func (suite *CalendarHandlerTestSuite) TestCreateHoliday_BadDate() {
	c, w := suite.request("POST", "/api/holidays", map[string]string{
		"date": "17-08-2026",
		"name": "Hari Kemerdekaan",
	})
	suite.handler.CreateHoliday(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	apiErr := decodeAPIError(suite.T(), w)
	assert.Equal(suite.T(), "dates must use the YYYY-MM-DD format", apiErr.Message)
}

// TestDeleteHoliday_Success tests removing a holiday
func (suite *CalendarHandlerTestSuite) TestDeleteHoliday_Success() {
	holiday := suite.createHoliday("2026-08-17", "Hari Kemerdekaan")

	c, w := suite.request("DELETE", "/api/holidays/"+formatID(holiday.ID), nil,
		gin.Param{Key: "id", Value: formatID(holiday.ID)})
	suite.handler.DeleteHoliday(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var count int64
	suite.Require().NoError(suite.db.Model(&models.Holiday{}).Count(&count).Error)
	assert.Equal(suite.T(), int64(0), count)
}

// TestDeleteHoliday_NotFound tests deleting a missing or malformed ID
func (suite *CalendarHandlerTestSuite) TestDeleteHoliday_NotFound() {
	c, w := suite.request("DELETE", "/api/holidays/999", nil,
		gin.Param{Key: "id", Value: "999"})
	suite.handler.DeleteHoliday(c)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	c, w = suite.request("DELETE", "/api/holidays/abc", nil,
		gin.Param{Key: "id", Value: "abc"})
	suite.handler.DeleteHoliday(c)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCalendarHandlerTestSuite runs the suite
func TestCalendarHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CalendarHandlerTestSuite))
}
