// Package client talks to the portal API on behalf of one logged-in user.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ecopark/internal/model"
	"ecopark/internal/validation"
)

// Client is a portal API client. Every authenticated call carries the
// session's bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *AuthSession
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, store TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.session = NewAuthSession(c, store)
	return c
}

// Session returns the client's login state.
func (c *Client) Session() *AuthSession {
	return c.session
}

// User is the account returned by /me and /login.
type User struct {
	ID          string  `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	ParkName    string  `json:"park_name"`
	LastLoginAt *string `json:"last_login_at"`
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Stats counts a collection's requests by status.
type Stats struct {
	Kind     string `json:"kind"`
	Pending  int64  `json:"pending"`
	Approved int64  `json:"approved"`
	Rejected int64  `json:"rejected"`
	Total    int64  `json:"total"`
}

// ListQuery selects a page of a collection.
type ListQuery struct {
	Filter model.RequestFilter
	Page   int
	Limit  int
}

type envelope struct {
	Status     string            `json:"status"`
	StatusCode int               `json:"status_code"`
	Data       json.RawMessage   `json:"data"`
	Error      string            `json:"error"`
	Code       string            `json:"code"`
	Fields     map[string]string `json:"fields"`
}

// Authenticate implements Authenticator against POST /login.
func (c *Client) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	var out struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expires_at"`
		User      User   `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.send(ctx, http.MethodPost, "/login", "", body, &out); err != nil {
		return nil, err
	}

	expiresAt, err := time.Parse(time.RFC3339, out.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("invalid expires_at in login response: %w", err)
	}

	return &Session{
		Token:     out.Token,
		ExpiresAt: expiresAt,
		UserID:    out.User.ID,
		Email:     out.User.Email,
		Role:      out.User.Role,
		ParkName:  out.User.ParkName,
	}, nil
}

// Revoke implements Authenticator against POST /logout.
func (c *Client) Revoke(ctx context.Context, token string) error {
	return c.send(ctx, http.MethodPost, "/logout", token, nil, nil)
}

// Me returns the logged-in account.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListRequests fetches one page of the kind's collection.
func (c *Client) ListRequests(ctx context.Context, kind string, q ListQuery) (*Page[model.FundingRequest], error) {
	path, err := collection(kind)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	if q.Filter.Search != "" {
		params.Set("search", q.Filter.Search)
	}
	if q.Filter.Status != "" {
		params.Set("status", q.Filter.Status)
	}
	if q.Filter.Park != "" {
		params.Set("park", q.Filter.Park)
	}
	if q.Filter.From != nil {
		params.Set("from", q.Filter.From.Format("2006-01-02"))
	}
	if q.Filter.To != nil {
		params.Set("to", q.Filter.To.Format("2006-01-02"))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page Page[model.FundingRequest]
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetRequest fetches a single request.
func (c *Client) GetRequest(ctx context.Context, kind, id string) (*model.FundingRequest, error) {
	path, err := collection(kind)
	if err != nil {
		return nil, err
	}

	var fr model.FundingRequest
	if err := c.do(ctx, http.MethodGet, path+"/"+url.PathEscape(id), nil, &fr); err != nil {
		return nil, err
	}
	return &fr, nil
}

// SubmitRequest creates a request and returns the stored entity.
func (c *Client) SubmitRequest(ctx context.Context, kind string, in validation.Submission) (*model.FundingRequest, error) {
	path, err := collection(kind)
	if err != nil {
		return nil, err
	}

	var fr model.FundingRequest
	if err := c.do(ctx, http.MethodPost, path, in, &fr); err != nil {
		return nil, err
	}
	return &fr, nil
}

// ReviewRequest records a decision and returns the updated entity.
func (c *Client) ReviewRequest(ctx context.Context, kind, id string, decision validation.Review) (*model.FundingRequest, error) {
	path, err := collection(kind)
	if err != nil {
		return nil, err
	}

	var fr model.FundingRequest
	if err := c.do(ctx, http.MethodPut, path+"/"+url.PathEscape(id)+"/review", decision, &fr); err != nil {
		return nil, err
	}
	return &fr, nil
}

// RequestStats fetches status counts for the kind.
func (c *Client) RequestStats(ctx context.Context, kind string) (*Stats, error) {
	path, err := collection(kind)
	if err != nil {
		return nil, err
	}

	var st Stats
	if err := c.do(ctx, http.MethodGet, path+"/stats", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// do sends an authenticated request. A 401 answering SESSION_EXPIRED or
// UNAUTHORIZED ends the session and yields ErrLoginRequired.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	token, err := c.session.Token()
	if err != nil {
		return err
	}

	err = c.send(ctx, method, path, token, body, out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.forcesLogin() {
		c.session.Expire()
		return fmt.Errorf("%w: %s", ErrLoginRequired, apiErr.Message)
	}
	return err
}

func (c *Client) send(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if decodeErr == nil {
			apiErr.Code = env.Code
			apiErr.Fields = env.Fields
			if env.Error != "" {
				apiErr.Message = env.Error
			}
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("invalid response from %s %s: %w", method, path, decodeErr)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("invalid response data from %s %s: %w", method, path, err)
		}
	}
	return nil
}

func collection(kind string) (string, error) {
	if !model.IsValidKind(kind) {
		return "", fmt.Errorf("unknown request kind %q", kind)
	}
	return "/api/" + model.CollectionPath(kind), nil
}
