package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_Revoke(t *testing.T) {
	ctx := context.Background()
	b := NewInMemoryTokenBlacklist()
	now := time.Now()
	b.now = func() time.Time { return now }

	require.NoError(t, b.Revoke(ctx, "jti-1", time.Minute))
	require.NoError(t, b.Revoke(ctx, "jti-expired", 0))

	revoked, err := b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = b.IsRevoked(ctx, "jti-expired")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_RevokeUser(t *testing.T) {
	ctx := context.Background()
	b := NewInMemoryTokenBlacklist()
	now := time.Now()
	b.now = func() time.Time { return now }

	revoked, err := b.IsUserRevoked(ctx, "user-1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, b.RevokeUser(ctx, "user-1", time.Hour))

	revoked, err = b.IsUserRevoked(ctx, "user-1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = b.IsUserRevoked(ctx, "user-1", now.Add(2*time.Second))
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = b.IsUserRevoked(ctx, "user-2", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_RevokeUserWithinSameSecond(t *testing.T) {
	ctx := context.Background()
	b := NewInMemoryTokenBlacklist()
	cutoff := time.Date(2024, 5, 1, 10, 0, 0, 500*int(time.Millisecond), time.UTC)
	b.now = func() time.Time { return cutoff }

	require.NoError(t, b.RevokeUser(ctx, "user-1", time.Hour))

	tests := []struct {
		name     string
		issuedAt time.Time
		want     bool
	}{
		{"earlier in the same second", cutoff.Add(-400 * time.Millisecond), true},
		{"at the cut-off", cutoff, true},
		{"later in the same second", cutoff.Add(time.Millisecond), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			revoked, err := b.IsUserRevoked(ctx, "user-1", tt.issuedAt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, revoked)
		})
	}
}
