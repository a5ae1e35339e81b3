package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindAll(ctx context.Context, filter UserFilter) ([]User, int64, error)
	Save(ctx context.Context, user *User) error
}

// UserFilter narrows user listings
type UserFilter struct {
	Keyword  string
	Role     *Role
	Status   *UserStatus
	Page     int
	PageSize int
}
