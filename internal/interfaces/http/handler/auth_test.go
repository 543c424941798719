package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	identityapp "github.com/edulistas/backend/internal/application/identity"
	"github.com/edulistas/backend/internal/domain/identity"
	"github.com/edulistas/backend/internal/domain/shared"
	"github.com/edulistas/backend/internal/infrastructure/auth"
	"github.com/edulistas/backend/internal/infrastructure/config"
	"github.com/edulistas/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAdminRepository implements identity.AdminRepository for testing
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Save(ctx context.Context, user *identity.AdminUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AdminUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AdminUser), args.Error(1)
}

func (m *MockAdminRepository) FindByUsername(ctx context.Context, username string) (*identity.AdminUser, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AdminUser), args.Error(1)
}

func (m *MockAdminRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-at-least-32-characters!!",
		Expiration: time.Hour,
		Issuer:     "edulistas-test",
	})
}

func setupAuthHandler(repo *MockAdminRepository) *AuthHandler {
	return NewAuthHandler(identityapp.NewAuthService(repo, testJWTService(), nil))
}

func TestAuthHandler_Login_Success(t *testing.T) {
	repo := new(MockAdminRepository)
	handler := setupAuthHandler(repo)

	user, err := identity.NewAdminUser("admin", "correct-horse", "Administrador")
	assert.NoError(t, err)

	repo.On("FindByUsername", mock.Anything, "admin").Return(user, nil)
	repo.On("RecordLogin", mock.Anything, user.ID, mock.AnythingOfType("time.Time")).Return(nil)

	router := setupTestRouter()
	router.POST("/auth/login", handler.Login)

	body, _ := json.Marshal(identityapp.LoginRequest{Username: "admin", Password: "correct-horse"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data identityapp.LoginResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, "admin", resp.Data.User.Username)
	repo.AssertExpectations(t)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	repo := new(MockAdminRepository)
	handler := setupAuthHandler(repo)

	user, _ := identity.NewAdminUser("admin", "correct-horse", "")
	repo.On("FindByUsername", mock.Anything, "admin").Return(user, nil)

	router := setupTestRouter()
	router.POST("/auth/login", handler.Login)

	body, _ := json.Marshal(identityapp.LoginRequest{Username: "admin", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	repo.AssertNotCalled(t, "RecordLogin")
}

func TestAuthHandler_Login_UnknownUser(t *testing.T) {
	repo := new(MockAdminRepository)
	handler := setupAuthHandler(repo)

	repo.On("FindByUsername", mock.Anything, "ghost").Return(nil, shared.NewNotFoundError("admin user", "ghost"))

	router := setupTestRouter()
	router.POST("/auth/login", handler.Login)

	body, _ := json.Marshal(identityapp.LoginRequest{Username: "ghost", Password: "whatever1"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	handler := setupAuthHandler(new(MockAdminRepository))

	router := setupTestRouter()
	router.POST("/auth/login", handler.Login)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"username":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Me_Success(t *testing.T) {
	repo := new(MockAdminRepository)
	handler := setupAuthHandler(repo)

	user, _ := identity.NewAdminUser("admin", "correct-horse", "Administrador")
	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, user.ID.String())
		c.Next()
	})
	router.GET("/me", handler.Me)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data identityapp.UserInfo `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "admin", resp.Data.Username)
	repo.AssertExpectations(t)
}

func TestAuthHandler_Me_NoContext(t *testing.T) {
	handler := setupAuthHandler(new(MockAdminRepository))

	router := setupTestRouter()
	router.GET("/me", handler.Me)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
