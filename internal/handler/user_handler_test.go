package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ecopark/internal/apperror"
	"ecopark/internal/auth"
	"ecopark/internal/middleware"
	"ecopark/internal/model"
	"ecopark/internal/service"
	"ecopark/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) CreateUser(ctx context.Context, req service.CreateUserRequest) (*service.UserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserResponse), args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, req service.LoginUserRequest) (*service.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenResponse), args.Error(1)
}

func (m *mockUserService) Logout(ctx context.Context, claims *auth.Claims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

func (m *mockUserService) GetUserByID(ctx context.Context, id string) (*service.UserResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserResponse), args.Error(1)
}

func (m *mockUserService) ListUsers(ctx context.Context, role string, page, limit int) ([]service.UserResponse, int64, error) {
	args := m.Called(ctx, role, page, limit)
	return args.Get(0).([]service.UserResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserService) UpdateUser(ctx context.Context, id string, req service.UpdateUserRequest) (*service.UserResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserResponse), args.Error(1)
}

func (m *mockUserService) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newUserRouter(svc service.UserService, tokens *auth.TokenManager) *gin.Engine {
	r := gin.New()
	h := NewUserHandler(svc, false)
	h.RegisterPublicRoutes(r.Group(""), func(c *gin.Context) { c.Next() })
	protected := r.Group("")
	protected.Use(middleware.Authenticate(tokens, session.NewMemoryStore()))
	h.RegisterRoutes(protected)
	return r
}

func TestUserHandler_LoginSetsCookie(t *testing.T) {
	svc := new(mockUserService)
	svc.On("Login", mock.Anything, service.LoginUserRequest{Email: "gov@ecopark.com", Password: "password123"}).
		Return(&service.TokenResponse{Token: "tok", ExpiresIn: 3600}, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"gov@ecopark.com","password":"password123"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newUserRouter(svc, auth.NewTokenManager([]byte("s"), time.Hour)).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "access_token=tok")
	assert.Contains(t, cookie, "Max-Age=3600")
	assert.Contains(t, cookie, "HttpOnly")
}

func TestUserHandler_LoginRejected(t *testing.T) {
	svc := new(mockUserService)
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, apperror.ErrInvalidCredentials)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"gov@ecopark.com","password":"bad"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newUserRouter(svc, auth.NewTokenManager([]byte("s"), time.Hour)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}

func TestUserHandler_LogoutRevokesPresentedToken(t *testing.T) {
	tokens := auth.NewTokenManager([]byte("s"), time.Hour)
	token, claims, err := tokens.Issue(uuid.New(), model.RoleFinance, "")
	require.NoError(t, err)

	svc := new(mockUserService)
	svc.On("Logout", mock.Anything, mock.MatchedBy(func(c *auth.Claims) bool {
		return c.ID == claims.ID
	})).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newUserRouter(svc, tokens).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
	svc.AssertExpectations(t)
}

func TestUserHandler_UsersAdminOnly(t *testing.T) {
	tokens := auth.NewTokenManager([]byte("s"), time.Hour)
	token, _, err := tokens.Issue(uuid.New(), model.RoleAuditor, "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newUserRouter(new(mockUserService), tokens).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
