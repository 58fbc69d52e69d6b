package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

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

// UserHandlerTestSuite tests account administration handlers
type UserHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	userService *services.UserService
	handler     *UserHandler
}

// SetupTest runs before each test
func (suite *UserHandlerTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.User{}, &models.Notification{})
	suite.Require().NoError(err)

	suite.db = db
	database.SetDB(db)
	gin.SetMode(gin.TestMode)

	userRepo := repository.NewUserRepository(db)
	suite.userService = services.NewUserService(userRepo)
	suite.handler = NewUserHandler(suite.userService)
}

// TearDownTest runs after each test
func (suite *UserHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// createAccount creates an account through the service
func (suite *UserHandlerTestSuite) createAccount(username string, role models.Division) *models.User {
	user, err := suite.userService.CreateUser(services.CreateUserInput{
		Username:    username,
		Password:    "supersecret",
		Role:        role,
		DisplayName: username,
	})
	suite.Require().NoError(err)
	return user
}

// request builds an authenticated context and recorder for a handler call
func (suite *UserHandlerTestSuite) request(method, url string, payload interface{}, actor *models.User, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
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
	c.Set(constants.ContextKeyUserID, actor.ID)
	c.Set(constants.ContextKeyUser, actor)
	c.Params = append(c.Params, params...)
	return c, w
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// TestCreateUser_Success tests registering an account
func (suite *UserHandlerTestSuite) TestCreateUser_Success() {
	admin := suite.createAccount("admin", models.DivisionAdminProyek)

	c, w := suite.request("POST", "/api/users", map[string]string{
		"username":     "arsitek1",
		"password":     "supersecret",
		"role":         string(models.DivisionArsitek),
		"display_name": "Arsitek Satu",
	}, admin)
	suite.handler.CreateUser(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	var resp dto.UserDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), "arsitek1", resp.Username)
	assert.Equal(suite.T(), models.DivisionArsitek, resp.Role)
	assert.Equal(suite.T(), "Arsitek Satu", resp.DisplayName)
	assert.NotZero(suite.T(), resp.ID)
}

// TestCreateUser_DuplicateUsername tests the unique username constraint
func (suite *UserHandlerTestSuite) TestCreateUser_DuplicateUsername() {
	admin := suite.createAccount("admin", models.DivisionAdminProyek)
	suite.createAccount("arsitek1", models.DivisionArsitek)

	c, w := suite.request("POST", "/api/users", map[string]string{
		"username": "arsitek1",
		"password": "supersecret",
		"role":     string(models.DivisionArsitek),
	}, admin)
	suite.handler.CreateUser(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	apiErr := decodeAPIError(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeUsernameExists, apiErr.Code)
}

// TestCreateUser_ShortPassword tests the minimum password length
func (suite *UserHandlerTestSuite) TestCreateUser_ShortPassword() {
	admin := suite.createAccount("admin", models.DivisionAdminProyek)

	c, w := suite.request("POST", "/api/users", map[string]string{
		"username": "arsitek1",
		"password": "short",
		"role":     string(models.DivisionArsitek),
	}, admin)
	suite.handler.CreateUser(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateUser_UnknownRole tests role validation
func (suite *UserHandlerTestSuite) TestCreateUser_UnknownRole() {
	admin := suite.createAccount("admin", models.DivisionAdminProyek)

	c, w := suite.request("POST", "/api/users", map[string]string{
		"username": "arsitek1",
		"password": "supersecret",
		"role":     "Janitor",
	}, admin)
	suite.handler.CreateUser(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestListUsers_Filters tests the role and search filters
func (suite *UserHandlerTestSuite) TestListUsers_Filters() {
	admin := suite.createAccount("admin", models.DivisionAdminProyek)
	suite.createAccount("arsitek1", models.DivisionArsitek)
	suite.createAccount("struktur1", models.DivisionStruktur)

	c, w := suite.request("GET", "/api/users?role=Arsitek", nil, admin)
	suite.handler.ListUsers(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var resp dto.UserListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Users, 1)
	assert.Equal(suite.T(), "arsitek1", resp.Users[0].Username)
	assert.Equal(suite.T(), int64(1), resp.TotalCount)

	c, w = suite.request("GET", "/api/users?search=struktur", nil, admin)
	suite.handler.ListUsers(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Users, 1)
	assert.Equal(suite.T(), "struktur1", resp.Users[0].Username)
}

// TestListUsers_UnknownRole tests an invalid role filter
func (suite *UserHandlerTestSuite) TestListUsers_UnknownRole() {
	admin := suite.createAccount("admin", models.DivisionAdminProyek)

	c, w := suite.request("GET", "/api/users?role=Janitor", nil, admin)
	suite.handler.ListUsers(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestGetUser_NotFound tests fetching a missing account
func (suite *UserHandlerTestSuite) TestGetUser_NotFound() {
	admin := suite.createAccount("admin", models.DivisionAdminProyek)

	c, w := suite.request("GET", "/api/users/999", nil, admin, gin.Param{Key: "id", Value: "999"})
	suite.handler.GetUser(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	apiErr := decodeAPIError(suite.T(), w)
	assert.Equal(suite.T(), apierrors.ErrCodeUserNotFound, apiErr.Code)
}

// TestUpdateUser_ChangeRole tests reassigning an account to another division
func (suite *UserHandlerTestSuite) TestUpdateUser_ChangeRole() {
	admin := suite.createAccount("admin", models.DivisionAdminProyek)
	user := suite.createAccount("arsitek1", models.DivisionArsitek)

	c, w := suite.request("PATCH", "/api/users/1", map[string]string{
		"role": string(models.DivisionMEP),
	}, admin, gin.Param{Key: "id", Value: formatID(user.ID)})
	suite.handler.UpdateUser(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var resp dto.UserDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), models.DivisionMEP, resp.Role)
}

// TestUpdateUser_LastOwnerDemotion tests that the only Owner cannot be demoted
func (suite *UserHandlerTestSuite) TestUpdateUser_LastOwnerDemotion() {
	owner := suite.createAccount("owner", models.DivisionOwner)

	c, w := suite.request("PATCH", "/api/users/1", map[string]string{
		"role": string(models.DivisionArsitek),
	}, owner, gin.Param{Key: "id", Value: formatID(owner.ID)})
	suite.handler.UpdateUser(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestDeleteUser_Success tests removing an account
func (suite *UserHandlerTestSuite) TestDeleteUser_Success() {
	owner := suite.createAccount("owner", models.DivisionOwner)
	user := suite.createAccount("arsitek1", models.DivisionArsitek)

	c, w := suite.request("DELETE", "/api/users/2", nil, owner, gin.Param{Key: "id", Value: formatID(user.ID)})
	suite.handler.DeleteUser(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestDeleteUser_Self tests that accounts cannot remove themselves
func (suite *UserHandlerTestSuite) TestDeleteUser_Self() {
	owner := suite.createAccount("owner", models.DivisionOwner)

	c, w := suite.request("DELETE", "/api/users/1", nil, owner, gin.Param{Key: "id", Value: formatID(owner.ID)})
	suite.handler.DeleteUser(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestDeleteUser_LastOwner tests that the only Owner cannot be removed
func (suite *UserHandlerTestSuite) TestDeleteUser_LastOwner() {
	owner := suite.createAccount("owner", models.DivisionOwner)
	admin := suite.createAccount("admin", models.DivisionAdminProyek)

	c, w := suite.request("DELETE", "/api/users/1", nil, admin, gin.Param{Key: "id", Value: formatID(owner.ID)})
	suite.handler.DeleteUser(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestUserHandlerTestSuite runs the test suite
func TestUserHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}
