package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"ecopark/internal/logger"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator performs the server half of login and logout.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*Session, error)
	Revoke(ctx context.Context, token string) error
}

// AuthSession owns the login state. The zero state is logged out; Init
// restores a persisted session, Login replaces it and Logout ends it.
type AuthSession struct {
	auth  Authenticator
	store TokenStore
	now   func() time.Time

	mu      sync.RWMutex
	current *Session
}

func NewAuthSession(auth Authenticator, store TokenStore) *AuthSession {
	return &AuthSession{auth: auth, store: store, now: time.Now}
}

// Init restores the persisted session. A session whose token has expired is
// discarded and nil is returned.
func (a *AuthSession) Init(_ context.Context) (*Session, error) {
	s, err := a.store.Load()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}

	if exp, ok := tokenExpiry(s.Token); ok && (s.ExpiresAt.IsZero() || exp.Before(s.ExpiresAt)) {
		s.ExpiresAt = exp
	}
	if s.Expired(a.now()) {
		a.Expire()
		return nil, nil
	}

	a.mu.Lock()
	a.current = s
	a.mu.Unlock()
	return a.Current(), nil
}

// Login authenticates and persists the new session.
func (a *AuthSession) Login(ctx context.Context, email, password string) (*Session, error) {
	s, err := a.auth.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := a.store.Save(s); err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.current = s
	a.mu.Unlock()
	return a.Current(), nil
}

// Logout revokes the token on the server and clears local state. Local state
// is cleared even when the server call fails.
func (a *AuthSession) Logout(ctx context.Context) error {
	a.mu.RLock()
	s := a.current
	a.mu.RUnlock()

	var revokeErr error
	if s != nil && !s.Expired(a.now()) {
		revokeErr = a.auth.Revoke(ctx, s.Token)
		if errors.Is(revokeErr, ErrLoginRequired) {
			revokeErr = nil
		}
	}

	a.Expire()
	return revokeErr
}

// Current returns a copy of the live session, or nil when logged out.
func (a *AuthSession) Current() *Session {
	a.mu.RLock()
	s := a.current
	a.mu.RUnlock()

	if s == nil {
		return nil
	}
	if s.Expired(a.now()) {
		a.Expire()
		return nil
	}
	cp := *s
	return &cp
}

// Token returns the bearer token, or ErrLoginRequired.
func (a *AuthSession) Token() (string, error) {
	s := a.Current()
	if s == nil {
		return "", ErrLoginRequired
	}
	return s.Token, nil
}

// Expire drops the session locally and from the store.
func (a *AuthSession) Expire() {
	a.mu.Lock()
	a.current = nil
	a.mu.Unlock()

	if err := a.store.Clear(); err != nil {
		logger.Log.WithError(err).Warn("failed to clear stored session")
	}
}

// tokenExpiry reads exp without verifying the signature; the server remains
// the authority on validity.
func tokenExpiry(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
