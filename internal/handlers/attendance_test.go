package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ardidw/studioflow-api/internal/constants"
	"github.com/ardidw/studioflow-api/internal/database"
	"github.com/ardidw/studioflow-api/internal/dto"
	apierrors "github.com/ardidw/studioflow-api/internal/errors"
	"github.com/ardidw/studioflow-api/internal/models"
	"github.com/ardidw/studioflow-api/internal/repository"
	"github.com/ardidw/studioflow-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AttendanceHandlerTestSuite tests the attendance handlers
type AttendanceHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *services.AttendanceService
	handler *AttendanceHandler
}

// SetupTest runs before each test
func (suite *AttendanceHandlerTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = db.AutoMigrate(&models.User{}, &models.Attendance{})
	suite.Require().NoError(err)

	suite.db = db
	database.SetDB(db)
	gin.SetMode(gin.TestMode)

	attendanceRepo := repository.NewAttendanceRepository(db)
	suite.service = services.NewAttendanceService(attendanceRepo)
	suite.handler = NewAttendanceHandler(suite.service)
}

// TearDownTest runs after each test
func (suite *AttendanceHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// createUser creates a user directly in the database
func (suite *AttendanceHandlerTestSuite) createUser(username string, role models.Division) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
		DisplayName:  username,
		Role:         role,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

// authContext builds a request context for the given user
func (suite *AttendanceHandlerTestSuite) authContext(method, url string, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, url, nil)
	c.Set(constants.ContextKeyUserID, user.ID)
	c.Set(constants.ContextKeyUser, user)
	return c, w
}

// TestCheckIn tests opening today's attendance row
func (suite *AttendanceHandlerTestSuite) TestCheckIn() {
	user := suite.createUser("arsitek", models.DivisionArsitek)

	c, w := suite.authContext("POST", "/api/attendance/check-in", user)
	suite.handler.CheckIn(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	var resp dto.AttendanceDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), time.Now().Format(constants.DateLayout), resp.Date)
	assert.Nil(suite.T(), resp.CheckOutAt)
}

// TestCheckIn_Twice tests that a second check-in on the same day conflicts
func (suite *AttendanceHandlerTestSuite) TestCheckIn_Twice() {
	user := suite.createUser("arsitek", models.DivisionArsitek)

	_, err := suite.service.CheckIn(user.ID, "")
	suite.Require().NoError(err)

	c, w := suite.authContext("POST", "/api/attendance/check-in", user)
	suite.handler.CheckIn(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	apiErr := decodeAPIError(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeAlreadyCheckedIn, apiErr.Code)
}

// TestCheckOut tests closing today's attendance row
func (suite *AttendanceHandlerTestSuite) TestCheckOut() {
	user := suite.createUser("arsitek", models.DivisionArsitek)

	_, err := suite.service.CheckIn(user.ID, "")
	suite.Require().NoError(err)

	c, w := suite.authContext("POST", "/api/attendance/check-out", user)
	suite.handler.CheckOut(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var resp dto.AttendanceDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(suite.T(), resp.CheckOutAt)
}

// TestCheckOut_WithoutCheckIn tests checking out with no open row
func (suite *AttendanceHandlerTestSuite) TestCheckOut_WithoutCheckIn() {
	user := suite.createUser("arsitek", models.DivisionArsitek)

	c, w := suite.authContext("POST", "/api/attendance/check-out", user)
	suite.handler.CheckOut(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	apiErr := decodeAPIError(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeNotCheckedIn, apiErr.Code)
}

// TestCheckOut_Twice tests that a second check-out conflicts
func (suite *AttendanceHandlerTestSuite) TestCheckOut_Twice() {
	user := suite.createUser("arsitek", models.DivisionArsitek)

	_, err := suite.service.CheckIn(user.ID, "")
	suite.Require().NoError(err)
	_, err = suite.service.CheckOut(user.ID)
	suite.Require().NoError(err)

	c, w := suite.authContext("POST", "/api/attendance/check-out", user)
	suite.handler.CheckOut(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestListAttendance_DefaultMonth tests that an empty range means the current month
func (suite *AttendanceHandlerTestSuite) TestListAttendance_DefaultMonth() {
	user := suite.createUser("arsitek", models.DivisionArsitek)

	_, err := suite.service.CheckIn(user.ID, "on site")
	suite.Require().NoError(err)

	c, w := suite.authContext("GET", "/api/attendance", user)
	suite.handler.ListAttendance(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var resp struct {
		Attendance []dto.AttendanceDTO `json:"attendance"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Attendance, 1)
	assert.Equal(suite.T(), "on site", resp.Attendance[0].Note)
}

// TestListAttendance_OtherUserForbidden tests that regular users cannot read
// another user's attendance
func (suite *AttendanceHandlerTestSuite) TestListAttendance_OtherUserForbidden() {
	arsitek := suite.createUser("arsitek", models.DivisionArsitek)
	struktur := suite.createUser("struktur", models.DivisionStruktur)

	c, w := suite.authContext("GET", "/api/attendance?user_id="+formatID(struktur.ID), arsitek)
	suite.handler.ListAttendance(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestListAttendance_PrivilegedRange tests reading another user's rows in a range
func (suite *AttendanceHandlerTestSuite) TestListAttendance_PrivilegedRange() {
	admin := suite.createUser("admin", models.DivisionAdminProyek)
	arsitek := suite.createUser("arsitek", models.DivisionArsitek)

	checkIn, err := time.Parse(constants.DateLayout, "2026-08-10")
	suite.Require().NoError(err)
	for _, date := range []string{"2026-08-10", "2026-08-11", "2026-09-01"} {
		row := &models.Attendance{UserID: arsitek.ID, Date: date, CheckInAt: checkIn}
		suite.Require().NoError(suite.db.Create(row).Error)
	}

	url := "/api/attendance?user_id=" + formatID(arsitek.ID) + "&from=2026-08-01&to=2026-08-31"
	c, w := suite.authContext("GET", url, admin)
	suite.handler.ListAttendance(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var resp struct {
		Attendance []dto.AttendanceDTO `json:"attendance"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Attendance, 2)
	assert.Equal(suite.T(), "2026-08-10", resp.Attendance[0].Date)
	assert.Equal(suite.T(), "2026-08-11", resp.Attendance[1].Date)
}

// TestListAttendance_BadRange tests a reversed date range
func (suite *AttendanceHandlerTestSuite) TestListAttendance_BadRange() {
	user := suite.createUser("arsitek", models.DivisionArsitek)

	c, w := suite.authContext("GET", "/api/attendance?from=2026-08-31&to=2026-08-01", user)
	suite.handler.ListAttendance(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestAttendanceHandlerTestSuite runs the test suite
func TestAttendanceHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AttendanceHandlerTestSuite))
}
