package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/docuscan/docuscan/internal/handler"
	"github.com/docuscan/docuscan/internal/middleware"
	"github.com/docuscan/docuscan/internal/repository"
	"github.com/docuscan/docuscan/internal/service"
	"github.com/docuscan/docuscan/internal/testutil"
	"github.com/docuscan/docuscan/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// AuthHandlerIntegrationTestSuite defines test suite
type AuthHandlerIntegrationTestSuite struct {
	suite.Suite
	testDB *testutil.TestDatabase
	router *gin.Engine
}

// SetupSuite runs before all tests
func (s *AuthHandlerIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	logger.Init(false)

	s.testDB = testutil.SetupTestDatabase(s.T())

	userRepo := repository.NewUserRepository(s.testDB.DB)
	scanRepo := repository.NewScanRepository(s.testDB.DB)
	authService := service.NewAuthService(userRepo, scanRepo, "test-secret-key", 1*time.Hour, "development")
	authHandler := handler.NewAuthHandler(authService)

	s.router = gin.New()
	s.router.POST("/auth/register", authHandler.Register)
	s.router.POST("/auth/login", authHandler.Login)

	protected := s.router.Group("/")
	protected.Use(middleware.AuthMiddleware("test-secret-key", authService))
	protected.GET("/user/profile", authHandler.Profile)
}

// TearDownSuite runs after all tests
func (s *AuthHandlerIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

// SetupTest runs before each test (clean database)
func (s *AuthHandlerIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func (s *AuthHandlerIntegrationTestSuite) postJSON(path string, body map[string]interface{}) *httptest.ResponseRecorder {
	bodyBytes, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterSuccess() {
	w := s.postJSON("/auth/register", map[string]interface{}{
		"username": "alice",
		"password": "pw1",
	})

	assert.Equal(s.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(s.T(), "Registration Successful", response["message"])
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterMissingFields() {
	w := s.postJSON("/auth/register", map[string]interface{}{
		"username": "alice",
	})

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterDuplicateUsername() {
	s.postJSON("/auth/register", map[string]interface{}{
		"username": "alice", "password": "pw1",
	})

	w := s.postJSON("/auth/register", map[string]interface{}{
		"username": "alice", "password": "other",
	})

	// Duplicate usernames are a conflict, not a generic storage failure
	assert.Equal(s.T(), http.StatusConflict, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(s.T(), response["error"], "username already exists")
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterRejectsOverlongUsername() {
	w := s.postJSON("/auth/register", map[string]interface{}{
		"username": strings.Repeat("a", 51),
		"password": "pw1",
	})

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(s.T(), response["error"], "at most 50 characters")
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterStorageFailureIsServerError() {
	// Separate connection so closing it does not affect the suite database
	testDB := testutil.SetupTestDatabase(s.T())
	userRepo := repository.NewUserRepository(testDB.DB)
	scanRepo := repository.NewScanRepository(testDB.DB)
	authService := service.NewAuthService(userRepo, scanRepo, "test-secret-key", 1*time.Hour, "development")
	authHandler := handler.NewAuthHandler(authService)

	router := gin.New()
	router.POST("/auth/register", authHandler.Register)

	sqlDB, err := testDB.DB.DB()
	assert.NoError(s.T(), err)
	assert.NoError(s.T(), sqlDB.Close())

	bodyBytes, _ := json.Marshal(map[string]interface{}{
		"username": "alice", "password": "pw1",
	})
	req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusInternalServerError, w.Code)

	// The database error itself must not reach the client
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(s.T(), "Registration failed", response["error"])
}

func (s *AuthHandlerIntegrationTestSuite) TestLoginSetsSessionCookie() {
	s.postJSON("/auth/register", map[string]interface{}{
		"username": "alice", "password": "pw1",
	})

	w := s.postJSON("/auth/login", map[string]interface{}{
		"username": "alice", "password": "pw1",
	})

	assert.Equal(s.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(s.T(), "Login Successful", response["message"])
	assert.Equal(s.T(), "user", response["role"])

	var tokenCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "token" {
			tokenCookie = cookie
			break
		}
	}
	assert.NotNil(s.T(), tokenCookie)
	assert.True(s.T(), tokenCookie.HttpOnly)
	assert.Equal(s.T(), http.SameSiteLaxMode, tokenCookie.SameSite)
}

func (s *AuthHandlerIntegrationTestSuite) TestLoginInvalidCredentials() {
	s.postJSON("/auth/register", map[string]interface{}{
		"username": "alice", "password": "pw1",
	})

	w := s.postJSON("/auth/login", map[string]interface{}{
		"username": "alice", "password": "wrong",
	})

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *AuthHandlerIntegrationTestSuite) TestProfileRequiresSession() {
	req, _ := http.NewRequest(http.MethodGet, "/user/profile", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *AuthHandlerIntegrationTestSuite) TestProfileWithSessionCookie() {
	s.postJSON("/auth/register", map[string]interface{}{
		"username": "alice", "password": "pw1",
	})
	login := s.postJSON("/auth/login", map[string]interface{}{
		"username": "alice", "password": "pw1",
	})

	req, _ := http.NewRequest(http.MethodGet, "/user/profile", nil)
	for _, cookie := range login.Result().Cookies() {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	user := response["user"].(map[string]interface{})
	assert.Equal(s.T(), "alice", user["username"])
	assert.Equal(s.T(), float64(20), user["credits"])
	assert.Equal(s.T(), "user", user["role"])
	assert.NotNil(s.T(), response["scans"])
}

func TestAuthHandlerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerIntegrationTestSuite))
}
