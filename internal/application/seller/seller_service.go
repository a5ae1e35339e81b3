package seller

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	"github.com/marketplace/backend/internal/application/event"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ActiveProductLister lists a seller's purchasable catalog
type ActiveProductLister interface {
	ListActiveBySeller(ctx context.Context, sellerID uuid.UUID, page, pageSize int) (*shared.Paginated[catalogapp.ProductResponse], error)
}

// SellerService manages seller applications, profiles and moderation
type SellerService struct {
	sellerRepo seller.SellerRepository
	userRepo   identity.UserRepository
	products   ActiveProductLister
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewSellerService creates a new SellerService
func NewSellerService(
	sellerRepo seller.SellerRepository,
	userRepo identity.UserRepository,
	products ActiveProductLister,
	logger *zap.Logger,
) *SellerService {
	return &SellerService{
		sellerRepo: sellerRepo,
		userRepo:   userRepo,
		products:   products,
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher for seller events
func (s *SellerService) SetEventPublisher(p shared.EventPublisher) {
	s.publisher = p
}

// Apply registers a pending seller application; one per user
func (s *SellerService) Apply(ctx context.Context, userID uuid.UUID, req ApplyRequest) (*SellerResponse, error) {
	existing, err := s.sellerRepo.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "You have already applied as a seller")
	}

	sl, err := seller.NewSeller(userID, req.profile())
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, sl.Slug, nil); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sl); err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("Seller application submitted",
		zap.String("seller_id", sl.ID.String()),
		zap.String("slug", sl.Slug))
	resp := ToSellerResponse(sl)
	return &resp, nil
}

func (s *SellerService) ensureSlugFree(ctx context.Context, slug string, excludeID *uuid.UUID) error {
	taken, err := s.sellerRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return shared.NewDomainError("ALREADY_EXISTS", "A store with this name already exists")
	}
	return nil
}

func (s *SellerService) save(ctx context.Context, sl *seller.Seller) error {
	if err := s.sellerRepo.Save(ctx, sl); err != nil {
		return err
	}
	event.PublishPending(ctx, s.publisher, sl)
	return nil
}

// GetMine returns the caller's seller account
func (s *SellerService) GetMine(ctx context.Context, userID uuid.UUID) (*SellerResponse, error) {
	sl, err := s.sellerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToSellerResponse(sl)
	return &resp, nil
}

// Get returns a seller by ID
func (s *SellerService) Get(ctx context.Context, id uuid.UUID) (*SellerResponse, error) {
	sl, err := s.sellerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSellerResponse(sl)
	return &resp, nil
}

// GetBySlug returns a seller by slug
func (s *SellerService) GetBySlug(ctx context.Context, slug string) (*SellerResponse, error) {
	sl, err := s.sellerRepo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}
	resp := ToSellerResponse(sl)
	return &resp, nil
}

// List returns sellers for administration
func (s *SellerService) List(ctx context.Context, f SellerListFilter) (*shared.Paginated[SellerResponse], error) {
	norm := shared.Filter{Page: f.Page, PageSize: f.PageSize}.Normalize()
	filter := seller.SellerFilter{
		Keyword:  strings.TrimSpace(f.Search),
		Page:     norm.Page,
		PageSize: norm.PageSize,
	}
	if f.Status != "" {
		status := seller.Status(f.Status)
		filter.Status = &status
	}
	sellers, total, err := s.sellerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]SellerResponse, len(sellers))
	for i := range sellers {
		items[i] = ToSellerResponse(&sellers[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// UpdateProfile changes the caller's storefront details
func (s *SellerService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*SellerResponse, error) {
	sl, err := s.sellerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := sl.UpdateProfile(req.profile()); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, sl.Slug, &sl.ID); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sl); err != nil {
		return nil, err
	}
	resp := ToSellerResponse(sl)
	return &resp, nil
}

// Approve lets the seller list products and grants the user the seller role
func (s *SellerService) Approve(ctx context.Context, id uuid.UUID, req ApproveRequest) (*SellerResponse, error) {
	sl, err := s.sellerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, sl.UserID)
	if err != nil {
		return nil, err
	}
	if req.CommissionRate != nil {
		if err := sl.SetCommissionRate(decimal.NewFromFloat(*req.CommissionRate)); err != nil {
			return nil, err
		}
	}
	if err := sl.Approve(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sl); err != nil {
		return nil, err
	}

	user.PromoteToSeller()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	logger.For(ctx, s.logger).Info("Seller approved",
		zap.String("seller_id", sl.ID.String()),
		zap.String("user_id", user.ID.String()))
	resp := ToSellerResponse(sl)
	return &resp, nil
}

// Reject declines a pending application
func (s *SellerService) Reject(ctx context.Context, id uuid.UUID, req ReasonRequest) (*SellerResponse, error) {
	return s.moderate(ctx, id, "Seller rejected", func(sl *seller.Seller) error {
		return sl.Reject(req.Reason)
	})
}

// Suspend stops an approved seller from selling
func (s *SellerService) Suspend(ctx context.Context, id uuid.UUID, req ReasonRequest) (*SellerResponse, error) {
	return s.moderate(ctx, id, "Seller suspended", func(sl *seller.Seller) error {
		return sl.Suspend(req.Reason)
	})
}

// Reinstate lifts a suspension
func (s *SellerService) Reinstate(ctx context.Context, id uuid.UUID) (*SellerResponse, error) {
	return s.moderate(ctx, id, "Seller reinstated", (*seller.Seller).Reinstate)
}

func (s *SellerService) moderate(ctx context.Context, id uuid.UUID, msg string, apply func(*seller.Seller) error) (*SellerResponse, error) {
	sl, err := s.sellerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(sl); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sl); err != nil {
		return nil, err
	}
	logger.For(ctx, s.logger).Info(msg,
		zap.String("seller_id", sl.ID.String()),
		zap.String("reason", sl.StatusReason))
	resp := ToSellerResponse(sl)
	return &resp, nil
}

// Storefront returns the public page of an approved seller
func (s *SellerService) Storefront(ctx context.Context, slug string, page, pageSize int) (*StorefrontResponse, error) {
	sl, err := s.sellerRepo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}
	if !sl.CanSell() {
		return nil, shared.ErrNotFound
	}
	products, err := s.products.ListActiveBySeller(ctx, sl.ID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &StorefrontResponse{Seller: toPublicSeller(sl), Products: products}, nil
}
