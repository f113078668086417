package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
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

func init() {
	gin.SetMode(gin.TestMode)
}

type mockFundingService struct {
	mock.Mock
}

func (m *mockFundingService) Submit(ctx context.Context, actor access.Actor, kind string, req service.SubmitRequestDTO) (*service.FundingRequestResponse, error) {
	args := m.Called(ctx, actor, kind, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FundingRequestResponse), args.Error(1)
}

func (m *mockFundingService) List(ctx context.Context, actor access.Actor, kind string, q service.ListFundingRequestsQuery) ([]service.FundingRequestResponse, int64, error) {
	args := m.Called(ctx, actor, kind, q)
	return args.Get(0).([]service.FundingRequestResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockFundingService) Get(ctx context.Context, actor access.Actor, kind, id string) (*service.FundingRequestResponse, error) {
	args := m.Called(ctx, actor, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FundingRequestResponse), args.Error(1)
}

func (m *mockFundingService) Review(ctx context.Context, actor access.Actor, kind, id string, req service.ReviewRequestDTO) (*service.FundingRequestResponse, error) {
	args := m.Called(ctx, actor, kind, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FundingRequestResponse), args.Error(1)
}

func (m *mockFundingService) Stats(ctx context.Context, actor access.Actor, kind string) (*service.RequestStatsResponse, error) {
	args := m.Called(ctx, actor, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RequestStatsResponse), args.Error(1)
}

type requestsHarness struct {
	router *gin.Engine
	tokens *auth.TokenManager
	svc    *mockFundingService
}

func newRequestsHarness(kind string) *requestsHarness {
	h := &requestsHarness{
		router: gin.New(),
		tokens: auth.NewTokenManager([]byte("secret"), time.Hour),
		svc:    new(mockFundingService),
	}
	protected := h.router.Group("")
	protected.Use(middleware.Authenticate(h.tokens, session.NewMemoryStore()))
	NewFundingRequestHandler(kind, h.svc).RegisterRoutes(protected)
	return h
}

func (h *requestsHarness) do(t *testing.T, role, method, path string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	token, _, err := h.tokens.Issue(uuid.New(), role, "")
	require.NoError(t, err)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var res response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	return w, res
}

func TestFundingRequestHandler_ListParsesFilters(t *testing.T) {
	h := newRequestsHarness(model.KindEmergency)
	h.svc.On("List", mock.Anything, mock.Anything, model.KindEmergency, mock.MatchedBy(func(q service.ListFundingRequestsQuery) bool {
		return q.Filter.Park == "Zion" && q.Filter.Status == "pending" && q.Filter.Search == "flood" &&
			q.Filter.From != nil && q.Filter.From.Day() == 1 && q.Filter.To == nil &&
			q.Page == 2 && q.Limit == 5
	})).Return([]service.FundingRequestResponse{{ID: "r-1", Title: "Flood Repair"}}, int64(6), nil)

	w, res := h.do(t, model.RoleAuditor, http.MethodGet,
		"/api/emergency-requests?park=Zion&status=pending&search=flood&from=2024-03-01&page=2&limit=5", nil)

	require.Equal(t, http.StatusOK, w.Code)
	page := res.Data.(map[string]interface{})
	assert.EqualValues(t, 6, page["total"])
	assert.EqualValues(t, 2, page["page"])
	assert.Len(t, page["items"], 1)
}

func TestFundingRequestHandler_ListBadDate(t *testing.T) {
	h := newRequestsHarness(model.KindFund)

	w, res := h.do(t, model.RoleFinance, http.MethodGet, "/api/fund-requests?to=03/01/2024", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", res.Code)
	h.svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFundingRequestHandler_GateRunsBeforeService(t *testing.T) {
	h := newRequestsHarness(model.KindExtraFunds)

	w, res := h.do(t, model.RoleParkStaff, http.MethodPost, "/api/extra-funds-requests", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", res.Code)

	w, _ = h.do(t, model.RoleVisitor, http.MethodGet, "/api/extra-funds-requests", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = h.do(t, model.RoleFinance, http.MethodPut, "/api/extra-funds-requests/abc/review", map[string]string{"decision": "approved"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	h.svc.AssertExpectations(t)
}

func TestFundingRequestHandler_SubmitValidationFields(t *testing.T) {
	h := newRequestsHarness(model.KindEmergency)
	h.svc.On("Submit", mock.Anything, mock.Anything, model.KindEmergency, mock.Anything).
		Return(nil, apperror.Validation(map[string]string{"amount": "must be greater than 0"}))

	w, res := h.do(t, model.RoleFinance, http.MethodPost, "/api/emergency-requests", map[string]interface{}{
		"title":  "Flood Repair",
		"amount": -5,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", res.Code)
	assert.Equal(t, "must be greater than 0", res.Fields["amount"])
}

func TestFundingRequestHandler_SubmitCreated(t *testing.T) {
	h := newRequestsHarness(model.KindFund)
	h.svc.On("Submit", mock.Anything, mock.MatchedBy(func(a access.Actor) bool {
		return a.Role == model.RoleParkStaff
	}), model.KindFund, mock.Anything).Return(&service.FundingRequestResponse{ID: "r-9", Status: model.StatusPending}, nil)

	w, _ := h.do(t, model.RoleParkStaff, http.MethodPost, "/api/fund-requests", map[string]interface{}{
		"title":  "Trail signs",
		"amount": "1200.50",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"r-9"`)
}

func TestFundingRequestHandler_ReviewConflict(t *testing.T) {
	h := newRequestsHarness(model.KindEmergency)
	h.svc.On("Review", mock.Anything, mock.Anything, model.KindEmergency, "r-1", service.ReviewRequestDTO{
		Decision: "rejected",
		Note:     "Funds not available",
	}).Return(nil, apperror.New(apperror.ErrCodeConflict, "request is already approved"))

	w, res := h.do(t, model.RoleGovernment, http.MethodPut, "/api/emergency-requests/r-1/review", map[string]string{
		"decision": "rejected",
		"note":     "Funds not available",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", res.Code)
}

func TestFundingRequestHandler_UnexpectedErrorIsHidden(t *testing.T) {
	h := newRequestsHarness(model.KindFund)
	h.svc.On("Stats", mock.Anything, mock.Anything, model.KindFund).Return(nil, errors.New("dial tcp: refused"))

	w, res := h.do(t, model.RoleAdmin, http.MethodGet, "/api/fund-requests/stats", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", res.Error)
	assert.NotContains(t, w.Body.String(), "dial tcp")
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.March, got.Month())

	got, err = parseDate("")
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseDate("yesterday")
	assert.Error(t, err)
}
