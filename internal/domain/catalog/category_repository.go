package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// FindAll returns categories ordered by level, sort order and name.
	// activeOnly restricts to active categories.
	FindAll(ctx context.Context, activeOnly bool) ([]Category, error)

	// FindDescendantIDs returns the ids of every category below id, using the materialized path
	FindDescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)

	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)
	HasProducts(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}
