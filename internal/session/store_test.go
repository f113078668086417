package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RevokeUntilExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Revoke(ctx, "jti-1", now.Add(time.Hour)))

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = s.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryStore_IgnoresExpiredTokens(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Revoke(ctx, "old", time.Now().Add(-time.Minute)))
	revoked, err := s.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Revoke(ctx, "short", now.Add(time.Minute)))
	require.NoError(t, s.Revoke(ctx, "long", now.Add(time.Hour)))

	now = now.Add(10 * time.Minute)
	s.Sweep()

	_, ok := s.revoked.Load("short")
	assert.False(t, ok)
	_, ok = s.revoked.Load("long")
	assert.True(t, ok)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := NewRedisStore(rdb)
	require.NoError(t, s.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Greater(t, mr.TTL(revokedPrefix+"jti-1"), 59*time.Minute)

	mr.FastForward(2 * time.Hour)
	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := Connect(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	_ = rdb.Close()

	_, err = Connect(context.Background(), "http://nope")
	assert.ErrorContains(t, err, "invalid REDIS_URL")
}
