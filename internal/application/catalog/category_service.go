package catalog

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create creates a root category, or a child when ParentID is set
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	var (
		category *catalog.Category
		err      error
	)
	if req.ParentID != nil {
		parent, findErr := s.categoryRepo.FindByID(ctx, *req.ParentID)
		if findErr != nil {
			if errors.Is(findErr, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent category not found")
			}
			return nil, findErr
		}
		category, err = catalog.NewChildCategory(req.Name, req.Description, parent)
	} else {
		category, err = catalog.NewCategory(req.Name, req.Description)
	}
	if err != nil {
		return nil, err
	}

	if err := s.ensureSlugFree(ctx, category.Slug, nil); err != nil {
		return nil, err
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

func (s *CategoryService) ensureSlugFree(ctx context.Context, slug string, excludeID *uuid.UUID) error {
	exists, err := s.categoryRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A category with this name already exists")
	}
	return nil
}

// Get retrieves a category by ID. Inactive categories are hidden unless
// includeInactive is set.
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID, includeInactive bool) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !includeInactive && !category.IsActive() {
		return nil, shared.ErrNotFound
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List returns categories ordered by level, sort order and name
func (s *CategoryService) List(ctx context.Context, includeInactive bool) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, !includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out, nil
}

// GetTree returns the active category hierarchy
func (s *CategoryService) GetTree(ctx context.Context) ([]CategoryTreeNode, error) {
	categories, err := s.categoryRepo.FindAll(ctx, true)
	if err != nil {
		return nil, err
	}
	return buildCategoryTree(categories), nil
}

// Update renames a category and changes its description and sort order
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, category.Slug, &category.ID); err != nil {
		return nil, err
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Activate activates a category
func (s *CategoryService) Activate(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	return s.changeStatus(ctx, id, (*catalog.Category).Activate)
}

// Deactivate deactivates a category
func (s *CategoryService) Deactivate(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	return s.changeStatus(ctx, id, (*catalog.Category).Deactivate)
}

func (s *CategoryService) changeStatus(ctx context.Context, id uuid.UUID, apply func(*catalog.Category) error) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(category); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category that has neither children nor products
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	hasChildren, err := s.categoryRepo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewDomainError("HAS_CHILDREN", "Cannot delete a category that has child categories")
	}

	hasProducts, err := s.categoryRepo.HasProducts(ctx, id)
	if err != nil {
		return err
	}
	if hasProducts {
		return shared.NewDomainError("HAS_PRODUCTS", "Cannot delete a category that has products")
	}

	return s.categoryRepo.Delete(ctx, id)
}

// buildCategoryTree nests categories under their parents. Categories whose
// parent is missing from the input (e.g. an inactive parent) are dropped
// along with their subtree.
func buildCategoryTree(categories []catalog.Category) []CategoryTreeNode {
	children := make(map[uuid.UUID][]catalog.Category)
	roots := make([]catalog.Category, 0)
	for _, c := range categories {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	var build func(list []catalog.Category) []CategoryTreeNode
	build = func(list []catalog.Category) []CategoryTreeNode {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].SortOrder != list[j].SortOrder {
				return list[i].SortOrder < list[j].SortOrder
			}
			return list[i].Name < list[j].Name
		})
		nodes := make([]CategoryTreeNode, 0, len(list))
		for i := range list {
			nodes = append(nodes, CategoryTreeNode{
				CategoryResponse: ToCategoryResponse(&list[i]),
				Children:         build(children[list[i].ID]),
			})
		}
		return nodes
	}
	return build(roots)
}
