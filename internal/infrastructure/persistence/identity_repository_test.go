package persistence

import (
	"context"
	"testing"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUser(t *testing.T, email string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(email, "s3cret-password", "Test", "User")
	require.NoError(t, err)
	return u
}

func TestGormUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newTestDB(t))

	ana := mustUser(t, "ana@example.com")
	require.NoError(t, repo.Save(ctx, ana))
	bob := mustUser(t, "bob@example.com")
	bob.PromoteToSeller()
	require.NoError(t, repo.Save(ctx, bob))

	t.Run("finds by email case-insensitively", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "  ANA@example.com ")
		require.NoError(t, err)
		assert.Equal(t, ana.ID, found.ID)
	})

	t.Run("reports existence", func(t *testing.T) {
		ok, err := repo.ExistsByEmail(ctx, "Bob@Example.com")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsByEmail(ctx, "carol@example.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		err := repo.Save(ctx, mustUser(t, "ana@example.com"))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("filters by role and keyword", func(t *testing.T) {
		role := identity.RoleSeller
		users, total, err := repo.FindAll(ctx, identity.UserFilter{Role: &role, Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, users, 1)
		assert.Equal(t, bob.ID, users[0].ID)

		users, total, err = repo.FindAll(ctx, identity.UserFilter{Keyword: "ANA"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, ana.ID, users[0].ID)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormSellerRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormSellerRepository(db)

	owner := mustUser(t, "shop@example.com")
	require.NoError(t, NewGormUserRepository(db).Save(ctx, owner))

	s, err := seller.NewSeller(owner.ID, seller.Profile{StoreName: "Corner Books", ContactEmail: "shop@example.com"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, s))

	t.Run("finds by user and slug", func(t *testing.T) {
		byUser, err := repo.FindByUserID(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, s.ID, byUser.ID)

		bySlug, err := repo.FindBySlug(ctx, s.Slug)
		require.NoError(t, err)
		assert.Equal(t, "Corner Books", bySlug.StoreName)
		assert.True(t, bySlug.CommissionRate.Equal(s.CommissionRate))
	})

	t.Run("slug existence honours the exclusion", func(t *testing.T) {
		ok, err := repo.ExistsBySlug(ctx, s.Slug, nil)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ExistsBySlug(ctx, s.Slug, &s.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("filters by status", func(t *testing.T) {
		status := seller.StatusApproved
		_, total, err := repo.FindAll(ctx, seller.SellerFilter{Status: &status})
		require.NoError(t, err)
		assert.Zero(t, total)

		require.NoError(t, s.Approve())
		require.NoError(t, repo.Save(ctx, s))

		sellers, total, err := repo.FindAll(ctx, seller.SellerFilter{Status: &status, Keyword: "corner"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, seller.StatusApproved, sellers[0].Status)
	})
}
