package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Session is the persisted login state.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ParkName  string    `json:"park_name,omitempty"`
}

// Expired reports whether the session's token has passed its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || s.Token == "" || !now.Before(s.ExpiresAt)
}

// TokenStore persists the session between runs.
type TokenStore interface {
	Load() (*Session, error)
	Save(s *Session) error
	Clear() error
}

// MemoryTokenStore keeps the session for the life of the process.
type MemoryTokenStore struct {
	mu      sync.Mutex
	session *Session
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (m *MemoryTokenStore) Load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	cp := *m.session
	return &cp, nil
}

func (m *MemoryTokenStore) Save(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.session = &cp
	return nil
}

func (m *MemoryTokenStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

// FileTokenStore keeps the session in a JSON file readable only by the user.
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// DefaultSessionPath returns <user config dir>/ecopark/session.json.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ecopark", "session.json"), nil
}

func (f *FileTokenStore) Load() (*Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("corrupt session file %s: %w", f.path, err)
	}
	return &s, nil
}

func (f *FileTokenStore) Save(s *Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *FileTokenStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
