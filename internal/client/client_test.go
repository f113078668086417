package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ecopark/internal/auth"
	"ecopark/internal/model"
	"ecopark/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePortal answers the portal API with canned envelopes.
type fakePortal struct {
	t      *testing.T
	tokens *auth.TokenManager
	mux    *http.ServeMux
	calls  atomic.Int32
}

func newFakePortal(t *testing.T) (*fakePortal, *httptest.Server) {
	p := &fakePortal{
		t:      t,
		tokens: auth.NewTokenManager([]byte("secret"), time.Hour),
		mux:    http.NewServeMux(),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.calls.Add(1)
		p.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return p, srv
}

func writeEnvelope(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      "success",
		"status_code": status,
		"data":        data,
	})
}

func writeError(w http.ResponseWriter, status int, code, msg string, fields map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      "error",
		"status_code": status,
		"error":       msg,
		"code":        code,
		"fields":      fields,
	})
}

// loginAs registers POST /login answering with a token for role.
func (p *fakePortal) loginAs(role string) {
	p.mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := p.tokens.Issue(uuid.New(), role, "")
		require.NoError(p.t, err)
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"token":      token,
			"expires_at": claims.ExpiresAt.Time.Format(time.RFC3339),
			"expires_in": 3600,
			"user":       map[string]string{"id": claims.Subject, "email": role + "@ecopark.com", "role": role},
		})
	})
}

func loggedInClient(t *testing.T, p *fakePortal, srv *httptest.Server, role string) *Client {
	t.Helper()
	p.loginAs(role)
	c := New(srv.URL, NewMemoryTokenStore())
	_, err := c.Session().Login(context.Background(), role+"@ecopark.com", "password123")
	require.NoError(t, err)
	return c
}

func request(title, park, status string, created time.Time) model.FundingRequest {
	return model.FundingRequest{
		ID:        uuid.New(),
		Kind:      model.KindEmergency,
		Title:     title,
		ParkName:  park,
		Status:    status,
		Amount:    decimal.NewFromInt(1000),
		CreatedAt: created,
	}
}

func TestAuthSession_LoginPersists(t *testing.T) {
	p, srv := newFakePortal(t)
	p.loginAs(model.RoleFinance)
	store := NewMemoryTokenStore()
	c := New(srv.URL, store)

	s, err := c.Session().Login(context.Background(), "finance@ecopark.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, model.RoleFinance, s.Role)

	saved, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, s.Token, saved.Token)
}

func TestAuthSession_LoginFailureLeavesLoggedOut(t *testing.T) {
	p, srv := newFakePortal(t)
	p.mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid email or password", nil)
	})
	c := New(srv.URL, NewMemoryTokenStore())

	_, err := c.Session().Login(context.Background(), "finance@ecopark.com", "wrong")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid email or password", apiErr.Message)
	assert.Nil(t, c.Session().Current())
}

func TestAuthSession_InitDropsExpiredSession(t *testing.T) {
	store := NewMemoryTokenStore()
	require.NoError(t, store.Save(&Session{Token: "opaque", ExpiresAt: time.Now().Add(-time.Minute), Role: model.RoleAuditor}))

	s, err := NewAuthSession(nil, store).Init(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s)

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestAuthSession_InitTrustsEarlierTokenExpiry(t *testing.T) {
	token, _, err := auth.NewTokenManager([]byte("x"), -time.Minute).Issue(uuid.New(), model.RoleAuditor, "")
	require.NoError(t, err)
	store := NewMemoryTokenStore()
	require.NoError(t, store.Save(&Session{Token: token, ExpiresAt: time.Now().Add(time.Hour), Role: model.RoleAuditor}))

	s, err := NewAuthSession(nil, store).Init(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestAuthSession_InitRestoresLiveSession(t *testing.T) {
	store := NewMemoryTokenStore()
	require.NoError(t, store.Save(&Session{Token: "opaque", ExpiresAt: time.Now().Add(time.Hour), Role: model.RoleGovernment}))

	s, err := NewAuthSession(nil, store).Init(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, model.RoleGovernment, s.Role)
}

func TestAuthSession_LogoutClearsEvenWhenServerFails(t *testing.T) {
	p, srv := newFakePortal(t)
	c := loggedInClient(t, p, srv, model.RoleAdmin)
	p.mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "boom", nil)
	})

	err := c.Session().Logout(context.Background())

	assert.Error(t, err)
	assert.Nil(t, c.Session().Current())
	_, err = c.Session().Token()
	assert.ErrorIs(t, err, ErrLoginRequired)
}

func TestClient_SessionExpiredForcesLogin(t *testing.T) {
	p, srv := newFakePortal(t)
	store := NewMemoryTokenStore()
	p.loginAs(model.RoleFinance)
	c := New(srv.URL, store)
	_, err := c.Session().Login(context.Background(), "finance@ecopark.com", "password123")
	require.NoError(t, err)

	p.mux.HandleFunc("GET /api/fund-requests", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnauthorized, "SESSION_EXPIRED", "Session expired, please log in again", nil)
	})

	_, err = c.ListRequests(context.Background(), model.KindFund, ListQuery{})

	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Nil(t, c.Session().Current())
	stored, _ := store.Load()
	assert.Nil(t, stored)
}

func TestClient_ListSendsFiltersAndBearer(t *testing.T) {
	p, srv := newFakePortal(t)
	c := loggedInClient(t, p, srv, model.RoleAuditor)
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)

	p.mux.HandleFunc("GET /api/extra-funds-requests", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Zion", q.Get("park"))
		assert.Equal(t, "pending", q.Get("status"))
		assert.Equal(t, "2024-03-01", q.Get("from"))
		assert.Empty(t, q.Get("to"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Contains(t, r.Header.Get("Authorization"), "Bearer ")
		writeEnvelope(w, http.StatusOK, Page[model.FundingRequest]{Total: 0, Page: 2, Limit: 20})
	})

	page, err := c.ListRequests(context.Background(), model.KindExtraFunds, ListQuery{
		Filter: model.RequestFilter{Park: "Zion", Status: "pending", From: &from},
		Page:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
}

func TestClient_UnknownKind(t *testing.T) {
	_, srv := newFakePortal(t)
	c := New(srv.URL, NewMemoryTokenStore())

	_, err := c.RequestStats(context.Background(), "PAYROLL")
	assert.ErrorContains(t, err, "unknown request kind")
}

func TestBoard_GateDeniesBeforeNetwork(t *testing.T) {
	p, srv := newFakePortal(t)
	c := loggedInClient(t, p, srv, model.RoleParkStaff)
	before := p.calls.Load()

	_, err := NewBoard(c, model.KindEmergency).Submit(context.Background(), validation.Submission{Title: "Flood Repair"})
	assert.ErrorIs(t, err, ErrNotPermitted)

	_, err = NewBoard(c, model.KindFund).Review(context.Background(), uuid.NewString(), "approved", "fine")
	assert.ErrorIs(t, err, ErrNotPermitted)

	assert.Equal(t, before, p.calls.Load())
}

func TestBoard_LoggedOutNeedsLogin(t *testing.T) {
	_, srv := newFakePortal(t)
	c := New(srv.URL, NewMemoryTokenStore())

	_, err := NewBoard(c, model.KindFund).Stats(context.Background())
	assert.ErrorIs(t, err, ErrLoginRequired)
}

func TestBoard_LocalValidationSkipsNetwork(t *testing.T) {
	p, srv := newFakePortal(t)
	c := loggedInClient(t, p, srv, model.RoleFinance)
	before := p.calls.Load()

	in := validation.Submission{
		Title:         "Flood Repair",
		Description:   "Canyon road washed out after storms",
		Amount:        decimal.NewFromInt(-5),
		Category:      "Natural Disaster",
		ParkName:      "Yellowstone",
		Priority:      "immediate",
		Justification: "Road is the only access for rangers and visitors",
	}
	_, err := NewBoard(c, model.KindEmergency).Submit(context.Background(), in)

	assert.True(t, IsValidation(err))
	assert.Contains(t, FieldErrors(err), "amount")
	assert.Equal(t, before, p.calls.Load())
	assert.True(t, in.Amount.Equal(decimal.NewFromInt(-5)))
}

func TestBoard_SubmitMergesAndGuardsDuplicates(t *testing.T) {
	p, srv := newFakePortal(t)
	c := loggedInClient(t, p, srv, model.RoleFinance)

	release := make(chan struct{})
	entered := make(chan struct{})
	p.mux.HandleFunc("POST /api/emergency-requests", func(w http.ResponseWriter, r *http.Request) {
		var in validation.Submission
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		close(entered)
		<-release
		created := request(in.Title, in.ParkName, model.StatusPending, time.Now())
		created.Amount = in.Amount
		writeEnvelope(w, http.StatusCreated, created)
	})

	board := NewBoard(c, model.KindEmergency)
	in := validation.Submission{
		Title:         "Flood Repair",
		Description:   "Canyon road washed out after storms",
		Amount:        decimal.NewFromInt(75000),
		Category:      "Natural Disaster",
		ParkName:      "Yellowstone",
		Priority:      "immediate",
		Justification: "Road is the only access for rangers and visitors",
	}

	var wg sync.WaitGroup
	var created *model.FundingRequest
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		created, firstErr = board.Submit(context.Background(), in)
	}()

	<-entered
	_, err := board.Submit(context.Background(), in)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, model.StatusPending, created.Status)
	assert.True(t, created.Amount.Equal(decimal.NewFromInt(75000)))

	items := board.Items()
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
}

func TestBoard_LoadFilterAndReviewMerge(t *testing.T) {
	p, srv := newFakePortal(t)
	c := loggedInClient(t, p, srv, model.RoleGovernment)
	day := func(d int) time.Time { return time.Date(2024, 3, d, 10, 0, 0, 0, time.Local) }

	flood := request("Flood Repair", "Yellowstone", model.StatusPending, day(5))
	bison := request("Bison Fence", "Zion", model.StatusPending, day(2))
	trail := request("Trail Washout", "Zion", model.StatusApproved, day(1))

	var listCalls atomic.Int32
	p.mux.HandleFunc("GET /api/emergency-requests", func(w http.ResponseWriter, r *http.Request) {
		listCalls.Add(1)
		writeEnvelope(w, http.StatusOK, Page[model.FundingRequest]{
			Items: []model.FundingRequest{flood, bison, trail},
			Total: 3,
			Page:  1,
			Limit: 100,
		})
	})
	p.mux.HandleFunc("PUT /api/emergency-requests/{id}/review", func(w http.ResponseWriter, r *http.Request) {
		var in validation.Review
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, model.StatusRejected, in.Decision)
		updated := bison
		updated.Status = in.Decision
		updated.DecisionNote = in.Note
		writeEnvelope(w, http.StatusOK, updated)
	})

	board := NewBoard(c, model.KindEmergency)
	require.NoError(t, board.Load(context.Background()))
	require.NoError(t, board.Load(context.Background()))
	assert.Equal(t, int32(1), listCalls.Load())

	zionPending := model.RequestFilter{Park: "Zion", Status: "pending"}
	got := board.Filtered(zionPending)
	require.Len(t, got, 1)
	assert.Equal(t, "Bison Fence", got[0].Title)
	assert.True(t, board.IsEmpty(model.RequestFilter{Search: "wildfire"}))

	updated, err := board.Review(context.Background(), bison.ID.String(), "declined", "Fence budget is exhausted")
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, updated.Status)

	assert.True(t, board.IsEmpty(zionPending))
	items := board.Items()
	require.Len(t, items, 3)
	assert.Equal(t, model.StatusRejected, items[1].Status)
}

func TestBoard_ReviewConflict(t *testing.T) {
	p, srv := newFakePortal(t)
	c := loggedInClient(t, p, srv, model.RoleFinance)
	p.mux.HandleFunc("PUT /api/fund-requests/{id}/review", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusConflict, "CONFLICT", "request is already approved", nil)
	})

	_, err := NewBoard(c, model.KindFund).Review(context.Background(), uuid.NewString(), "approved", "ok")

	assert.True(t, IsConflict(err))
	assert.False(t, errors.Is(err, ErrLoginRequired))
	assert.NotNil(t, c.Session().Current())
}
