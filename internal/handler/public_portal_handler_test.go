package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecopark/internal/access"
	"ecopark/internal/apperror"
	"ecopark/internal/auth"
	"ecopark/internal/middleware"
	"ecopark/internal/model"
	"ecopark/internal/service"
	"ecopark/internal/session"
	"ecopark/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTourService struct {
	mock.Mock
}

func (m *mockTourService) BookTour(ctx context.Context, req service.BookTourRequestDTO) (*service.TourBookingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TourBookingResponse), args.Error(1)
}

func (m *mockTourService) ListTours(ctx context.Context, park string, page, limit int) ([]service.TourBookingResponse, int64, error) {
	args := m.Called(ctx, park, page, limit)
	return args.Get(0).([]service.TourBookingResponse), args.Get(1).(int64), args.Error(2)
}

type mockApplicationService struct {
	mock.Mock
}

func (m *mockApplicationService) Apply(ctx context.Context, req service.ApplyServiceRequestDTO) (*service.ServiceApplicationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ServiceApplicationResponse), args.Error(1)
}

func (m *mockApplicationService) List(ctx context.Context, actor access.Actor, status string, page, limit int) ([]service.ServiceApplicationResponse, int64, error) {
	args := m.Called(ctx, actor, status, page, limit)
	return args.Get(0).([]service.ServiceApplicationResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockApplicationService) Review(ctx context.Context, actor access.Actor, id string, req service.ReviewRequestDTO) (*service.ServiceApplicationResponse, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ServiceApplicationResponse), args.Error(1)
}

type mockLoginActivity struct {
	mock.Mock
}

func (m *mockLoginActivity) RecentLogins(ctx context.Context, limit int) ([]service.RecentLoginResponse, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]service.RecentLoginResponse), args.Error(1)
}

func (m *mockLoginActivity) LoginMetrics(ctx context.Context, months int) ([]service.MonthlyLogins, error) {
	args := m.Called(ctx, months)
	return args.Get(0).([]service.MonthlyLogins), args.Error(1)
}

type portalHarness struct {
	router       *gin.Engine
	tokens       *auth.TokenManager
	tours        *mockTourService
	applications *mockApplicationService
	activity     *mockLoginActivity
}

func newPortalHarness() *portalHarness {
	h := &portalHarness{
		router:       gin.New(),
		tokens:       auth.NewTokenManager([]byte("secret"), time.Hour),
		tours:        new(mockTourService),
		applications: new(mockApplicationService),
		activity:     new(mockLoginActivity),
	}
	noLimit := func(c *gin.Context) { c.Next() }

	public := h.router.Group("")
	NewTourHandler(h.tours).RegisterPublicRoutes(public, noLimit)
	NewServiceApplicationHandler(h.applications).RegisterPublicRoutes(public, noLimit)

	protected := h.router.Group("")
	protected.Use(middleware.Authenticate(h.tokens, session.NewMemoryStore()))
	NewTourHandler(h.tours).RegisterRoutes(protected)
	NewServiceApplicationHandler(h.applications).RegisterRoutes(protected)
	NewLoginActivityHandler(h.activity).RegisterRoutes(protected)
	return h
}

// do sends the request anonymously when role is empty.
func (h *portalHarness) do(t *testing.T, role, method, path, body string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, _, err := h.tokens.Issue(uuid.New(), role, "")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var res response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	return w, res
}

func TestBookTour_PublicAndCreated(t *testing.T) {
	h := newPortalHarness()
	h.tours.On("BookTour", mock.Anything, mock.MatchedBy(func(req service.BookTourRequestDTO) bool {
		return req.Guests == 2 && req.Amount.StringFixed(2) == "150.00"
	})).Return(&service.TourBookingResponse{ID: "b-1", Guests: 2, Amount: "150.00"}, nil)

	w, res := h.do(t, "", http.MethodPost, "/api/book-tour",
		`{"park_name":"Zion","tour_name":"Canyon Walk","date":"2026-05-02","time":"10:00","guests":2,"amount":150,"first_name":"A","last_name":"B","email":"a@b.io"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", res.Status)
}

func TestBookTour_ValidationIs400(t *testing.T) {
	h := newPortalHarness()
	h.tours.On("BookTour", mock.Anything, mock.Anything).
		Return(nil, apperror.Validation(map[string]string{"amount": "must be 150.00 for 2 guests"}))

	w, res := h.do(t, "", http.MethodPost, "/api/book-tour", `{"guests":2,"amount":1}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(apperror.ErrCodeValidation), res.Code)
	assert.Equal(t, "must be 150.00 for 2 guests", res.Fields["amount"])
}

func TestListTours_StaffOnly(t *testing.T) {
	h := newPortalHarness()
	h.tours.On("ListTours", mock.Anything, "Zion", 1, 20).Return([]service.TourBookingResponse{}, int64(0), nil)

	w, _ := h.do(t, model.RoleFinance, http.MethodGet, "/api/tours?park=Zion", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = h.do(t, model.RoleGovernment, http.MethodGet, "/api/tours", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = h.do(t, "", http.MethodGet, "/api/tours", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServiceApplication_ApplyIsPublic(t *testing.T) {
	h := newPortalHarness()
	h.applications.On("Apply", mock.Anything, mock.Anything).
		Return(&service.ServiceApplicationResponse{ID: "a-1", Status: model.StatusPending}, nil)

	w, res := h.do(t, "", http.MethodPost, "/api/services", `{"company_type":"LLC","company_name":"Trail Co","tax_id":"1"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", res.Status)
}

func TestServiceApplication_ReviewNeedsFinance(t *testing.T) {
	h := newPortalHarness()
	id := uuid.NewString()
	h.applications.On("Review", mock.Anything, mock.MatchedBy(func(a access.Actor) bool {
		return a.Role == model.RoleFinance
	}), id, service.ReviewRequestDTO{Decision: "approved"}).
		Return(&service.ServiceApplicationResponse{ID: id, Status: model.StatusApproved}, nil)

	w, _ := h.do(t, model.RoleGovernment, http.MethodPut, "/api/service-applications/"+id+"/review", `{"decision":"approved"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = h.do(t, model.RoleFinance, http.MethodPut, "/api/service-applications/"+id+"/review", `{"decision":"approved"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	h.applications.AssertNumberOfCalls(t, "Review", 1)
}

func TestLoginActivity_AdminOnly(t *testing.T) {
	h := newPortalHarness()
	h.activity.On("RecentLogins", mock.Anything, 3).
		Return([]service.RecentLoginResponse{{Email: "admin@ecopark.test"}}, nil)
	h.activity.On("LoginMetrics", mock.Anything, 0).
		Return([]service.MonthlyLogins{{Month: "2026-10", Label: "Oct", Logins: 4}}, nil)

	w, _ := h.do(t, model.RoleFinance, http.MethodGet, "/api/admin/recent-logins", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = h.do(t, model.RoleAdmin, http.MethodGet, "/api/admin/recent-logins?limit=3", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = h.do(t, model.RoleAdmin, http.MethodGet, "/api/admin/login-metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	h.activity.AssertExpectations(t)
}
