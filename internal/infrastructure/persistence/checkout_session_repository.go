package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/checkout"
	"gorm.io/gorm"
)

var openSessionStatuses = []checkout.Status{
	checkout.StatusInitiated,
	checkout.StatusAddressProvided,
	checkout.StatusShippingSelected,
}

// GormCheckoutSessionRepository implements SessionRepository using GORM
type GormCheckoutSessionRepository struct {
	db *gorm.DB
}

// NewGormCheckoutSessionRepository creates a new GormCheckoutSessionRepository
func NewGormCheckoutSessionRepository(db *gorm.DB) *GormCheckoutSessionRepository {
	return &GormCheckoutSessionRepository{db: db}
}

// FindByID finds a checkout session by its ID
func (r *GormCheckoutSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Session, error) {
	var s checkout.Session
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &s, nil
}

// FindOpenByUser lists a user's non-terminal sessions, newest first
func (r *GormCheckoutSessionRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) ([]checkout.Session, error) {
	return r.findOpen(ctx, "user_id = ?", userID)
}

// FindOpenByGuest lists a guest's non-terminal sessions, newest first
func (r *GormCheckoutSessionRepository) FindOpenByGuest(ctx context.Context, guestID string) ([]checkout.Session, error) {
	return r.findOpen(ctx, "guest_id = ?", guestID)
}

func (r *GormCheckoutSessionRepository) findOpen(ctx context.Context, query string, arg any) ([]checkout.Session, error) {
	var sessions []checkout.Session
	if err := r.db.WithContext(ctx).
		Where(query, arg).
		Where("status IN ?", openSessionStatuses).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// Save creates or updates a checkout session
func (r *GormCheckoutSessionRepository) Save(ctx context.Context, s *checkout.Session) error {
	return translateError(r.db.WithContext(ctx).Save(s).Error)
}

// ExpireStale marks open sessions whose expiry passed before t as expired
func (r *GormCheckoutSessionRepository) ExpireStale(ctx context.Context, t time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&checkout.Session{}).
		Where("status IN ?", openSessionStatuses).
		Where("expires_at < ?", t).
		Updates(map[string]any{
			"status":     checkout.StatusExpired,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

var _ checkout.SessionRepository = (*GormCheckoutSessionRepository)(nil)
