package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := NewUserService(repo)

	u := existingUser(t, "ada@example.com", "s3cretpass")
	role := identity.RoleCustomer
	repo.On("FindAll", ctx, mock.MatchedBy(func(f identity.UserFilter) bool {
		return f.Keyword == "ada" && f.Role != nil && *f.Role == role && f.Status == nil && f.Page == 1 && f.PageSize == 20
	})).Return([]identity.User{*u}, int64(1), nil)

	page, err := svc.List(ctx, UserListFilter{Search: " ada ", Role: "customer"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ada@example.com", page.Items[0].Email)
	assert.Equal(t, int64(1), page.Total)
}

func TestUserService_SuspendActivate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := NewUserService(repo)
	u := existingUser(t, "ada@example.com", "s3cretpass")
	repo.On("FindByID", ctx, u.ID).Return(u, nil)
	repo.On("Save", ctx, u).Return(nil)

	resp, err := svc.Suspend(ctx, uuid.New(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, string(identity.UserStatusSuspended), resp.Status)

	resp, err = svc.Activate(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, string(identity.UserStatusActive), resp.Status)
}

func TestUserService_SuspendSelf(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)
	id := uuid.New()

	_, err := svc.Suspend(context.Background(), id, id)
	assert.Error(t, err)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
