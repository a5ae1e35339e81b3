package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
)

// UserService is the admin view over accounts
type UserService struct {
	userRepo identity.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// List returns accounts matching the filter
func (s *UserService) List(ctx context.Context, f UserListFilter) (*shared.Paginated[UserResponse], error) {
	norm := shared.Filter{Page: f.Page, PageSize: f.PageSize}.Normalize()
	filter := identity.UserFilter{
		Keyword:  strings.TrimSpace(f.Search),
		Page:     norm.Page,
		PageSize: norm.PageSize,
	}
	if f.Role != "" {
		role := identity.Role(f.Role)
		filter.Role = &role
	}
	if f.Status != "" {
		status := identity.UserStatus(f.Status)
		filter.Status = &status
	}

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Get returns one account
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Suspend blocks an account from logging in. Admins cannot suspend themselves.
func (s *UserService) Suspend(ctx context.Context, actorID, id uuid.UUID) (*UserResponse, error) {
	if actorID == id {
		return nil, shared.NewDomainError("INVALID_OPERATION", "You cannot suspend your own account")
	}
	return s.changeStatus(ctx, id, (*identity.User).Suspend)
}

// Activate re-enables a suspended account
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	return s.changeStatus(ctx, id, (*identity.User).Activate)
}

func (s *UserService) changeStatus(ctx context.Context, id uuid.UUID, apply func(*identity.User) error) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}
