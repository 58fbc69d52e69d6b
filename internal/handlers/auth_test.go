package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ardidw/studioflow-api/internal/constants"
	"github.com/ardidw/studioflow-api/internal/database"
	"github.com/ardidw/studioflow-api/internal/dto"
	apierrors "github.com/ardidw/studioflow-api/internal/errors"
	"github.com/ardidw/studioflow-api/internal/middleware"
	"github.com/ardidw/studioflow-api/internal/models"
	"github.com/ardidw/studioflow-api/internal/repository"
	"github.com/ardidw/studioflow-api/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
	userService *services.UserService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err)

	database.SetDB(db)
	gin.SetMode(gin.TestMode)

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	handler := NewAuthHandler(authService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
		userService: userService,
	}
}

// createAccount creates an account with a real password hash
func (env authTestEnv) createAccount(t *testing.T, username, password string, role models.Division) *models.User {
	t.Helper()
	user, err := env.userService.CreateUser(services.CreateUserInput{
		Username:    username,
		Password:    password,
		Role:        role,
		DisplayName: username,
	})
	require.NoError(t, err)
	return user
}

// authRouter builds a gin engine with cookie sessions and the auth routes
func (env authTestEnv) authRouter() *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/auth/login", env.handler.Login)
	r.POST("/api/auth/logout", middleware.RequireAuth(), env.handler.Logout)
	r.GET("/api/auth/me", middleware.RequireAuth(), env.handler.GetCurrentUser)
	return r
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.createAccount(t, "admin", "supersecret", models.DivisionAdminProyek)

	r := env.authRouter()

	payload := map[string]string{
		"username": "admin",
		"password": "supersecret",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "admin", response.Username)
	require.Equal(t, models.DivisionAdminProyek, response.Role)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.createAccount(t, "admin", "supersecret", models.DivisionAdminProyek)

	r := env.authRouter()

	body, err := json.Marshal(map[string]string{
		"username": "admin",
		"password": "not-the-password",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	require.Equal(t, apierrors.ErrCodeInvalidCredentials, apiErr.Code)
}

func TestAuthHandler_Login_UnknownUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := env.authRouter()

	body, err := json.Marshal(map[string]string{
		"username": "ghost",
		"password": "whatever",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_SessionGrantsAccess(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.createAccount(t, "owner", "supersecret", models.DivisionOwner)

	r := env.authRouter()

	body, err := json.Marshal(map[string]string{
		"username": "owner",
		"password": "supersecret",
	})
	require.NoError(t, err)

	loginReq := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	loginReq.Header.Set("Content-Type", "application/json")
	loginW := httptest.NewRecorder()
	r.ServeHTTP(loginW, loginReq)
	require.Equal(t, http.StatusOK, loginW.Code)

	meReq := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, cookie := range loginW.Result().Cookies() {
		meReq.AddCookie(cookie)
	}
	meW := httptest.NewRecorder()
	r.ServeHTTP(meW, meReq)

	require.Equal(t, http.StatusOK, meW.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(meW.Body.Bytes(), &response))
	require.Equal(t, "owner", response.Username)
}

func TestAuthHandler_MeWithoutSession(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := env.authRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.createAccount(t, "owner", "supersecret", models.DivisionOwner)

	r := env.authRouter()

	body, err := json.Marshal(map[string]string{
		"username": "owner",
		"password": "supersecret",
	})
	require.NoError(t, err)

	loginReq := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	loginReq.Header.Set("Content-Type", "application/json")
	loginW := httptest.NewRecorder()
	r.ServeHTTP(loginW, loginReq)
	require.Equal(t, http.StatusOK, loginW.Code)

	logoutReq := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	for _, cookie := range loginW.Result().Cookies() {
		logoutReq.AddCookie(cookie)
	}
	logoutW := httptest.NewRecorder()
	r.ServeHTTP(logoutW, logoutReq)
	require.Equal(t, http.StatusOK, logoutW.Code)

	meReq := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, cookie := range logoutW.Result().Cookies() {
		meReq.AddCookie(cookie)
	}
	meW := httptest.NewRecorder()
	r.ServeHTTP(meW, meReq)

	require.Equal(t, http.StatusUnauthorized, meW.Code)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)
	user := env.createAccount(t, "current-user", "supersecret", models.DivisionArsitek)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.Username, response.Username)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	env := setupAuthTestEnv(t)
	user := env.createAccount(t, "owner", "supersecret", models.DivisionOwner)

	body, err := json.Marshal(map[string]string{
		"current_password": "supersecret",
		"new_password":     "evenmoresecret",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/change-password", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.ChangePassword(c)

	require.Equal(t, http.StatusOK, w.Code)

	_, err = env.authService.Login(services.LoginInput{Username: "owner", Password: "evenmoresecret"})
	require.NoError(t, err)

	_, err = env.authService.Login(services.LoginInput{Username: "owner", Password: "supersecret"})
	require.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthHandler_ChangePassword_WrongCurrent(t *testing.T) {
	env := setupAuthTestEnv(t)
	user := env.createAccount(t, "owner", "supersecret", models.DivisionOwner)

	body, err := json.Marshal(map[string]string{
		"current_password": "not-the-password",
		"new_password":     "evenmoresecret",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/change-password", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.ChangePassword(c)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	require.Equal(t, apierrors.ErrCodePasswordMismatch, apiErr.Code)
}
