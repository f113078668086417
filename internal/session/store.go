// Package session tracks revoked access tokens so a logged-out token stops
// working before it expires.
package session

import (
	"context"
	"sync"
	"time"
)

// Store records revoked token ids until the token would have expired anyway.
type Store interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryStore keeps revocations in process. Suitable for a single instance.
type MemoryStore struct {
	revoked sync.Map // tokenID -> expiresAt
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if !expiresAt.After(s.now()) {
		return nil
	}
	s.revoked.Store(tokenID, expiresAt)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	entry, ok := s.revoked.Load(tokenID)
	if !ok {
		return false, nil
	}
	if s.now().After(entry.(time.Time)) {
		s.revoked.Delete(tokenID)
		return false, nil
	}
	return true, nil
}

// Sweep drops revocations whose tokens have expired.
func (s *MemoryStore) Sweep() {
	now := s.now()
	s.revoked.Range(func(key, value interface{}) bool {
		if now.After(value.(time.Time)) {
			s.revoked.Delete(key)
		}
		return true
	})
}
