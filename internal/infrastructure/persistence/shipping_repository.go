package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shipping"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormShippingZoneRepository implements ZoneRepository using GORM
type GormShippingZoneRepository struct {
	db *gorm.DB
}

// NewGormShippingZoneRepository creates a new GormShippingZoneRepository
func NewGormShippingZoneRepository(db *gorm.DB) *GormShippingZoneRepository {
	return &GormShippingZoneRepository{db: db}
}

// FindByID finds a zone with all its methods and rates
func (r *GormShippingZoneRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.Zone, error) {
	var zone shipping.Zone
	if err := r.db.WithContext(ctx).
		Preload("Methods", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, name ASC") }).
		Preload("Methods.Rates").
		First(&zone, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &zone, nil
}

// FindAll lists zones by priority without their methods
func (r *GormShippingZoneRepository) FindAll(ctx context.Context) ([]shipping.Zone, error) {
	var zones []shipping.Zone
	if err := r.db.WithContext(ctx).Order("priority DESC, created_at ASC").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

// FindActiveWithMethods loads the data the rate calculator needs in one go
func (r *GormShippingZoneRepository) FindActiveWithMethods(ctx context.Context) ([]shipping.Zone, error) {
	var zones []shipping.Zone
	if err := r.db.WithContext(ctx).
		Preload("Methods", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("sort_order ASC, name ASC")
		}).
		Preload("Methods.Rates", "is_active = ?", true).
		Where("is_active = ?", true).
		Order("priority DESC, created_at ASC").
		Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

// Save creates or updates the zone row only; methods are saved through
// the method repository
func (r *GormShippingZoneRepository) Save(ctx context.Context, zone *shipping.Zone) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(zone).Error)
}

// Delete removes a zone together with its methods and their rates
func (r *GormShippingZoneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		methodIDs := tx.Model(&shipping.Method{}).Select("id").Where("zone_id = ?", id)
		if err := tx.Where("method_id IN (?)", methodIDs).Delete(&shipping.Rate{}).Error; err != nil {
			return err
		}
		if err := tx.Where("method_id IN (?)", methodIDs).Delete(&shipping.HolidayRate{}).Error; err != nil {
			return err
		}
		if err := tx.Where("zone_id = ?", id).Delete(&shipping.Method{}).Error; err != nil {
			return err
		}
		return deleteResult(tx.Delete(&shipping.Zone{}, "id = ?", id))
	})
}

// GormShippingMethodRepository implements MethodRepository using GORM
type GormShippingMethodRepository struct {
	db *gorm.DB
}

// NewGormShippingMethodRepository creates a new GormShippingMethodRepository
func NewGormShippingMethodRepository(db *gorm.DB) *GormShippingMethodRepository {
	return &GormShippingMethodRepository{db: db}
}

// FindByID finds a method with its rates
func (r *GormShippingMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.Method, error) {
	var method shipping.Method
	if err := r.db.WithContext(ctx).Preload("Rates").First(&method, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &method, nil
}

// FindByZone lists the methods of a zone with their rates
func (r *GormShippingMethodRepository) FindByZone(ctx context.Context, zoneID uuid.UUID) ([]shipping.Method, error) {
	var methods []shipping.Method
	if err := r.db.WithContext(ctx).
		Preload("Rates").
		Where("zone_id = ?", zoneID).
		Order("sort_order ASC, name ASC").
		Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

// Save creates or updates the method row only
func (r *GormShippingMethodRepository) Save(ctx context.Context, method *shipping.Method) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(method).Error)
}

// Delete removes a method, its rates and any holiday rows scoped to it
func (r *GormShippingMethodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("method_id = ?", id).Delete(&shipping.Rate{}).Error; err != nil {
			return err
		}
		if err := tx.Where("method_id = ?", id).Delete(&shipping.HolidayRate{}).Error; err != nil {
			return err
		}
		return deleteResult(tx.Delete(&shipping.Method{}, "id = ?", id))
	})
}

// FindRate finds a single rate row
func (r *GormShippingMethodRepository) FindRate(ctx context.Context, id uuid.UUID) (*shipping.Rate, error) {
	var rate shipping.Rate
	if err := r.db.WithContext(ctx).First(&rate, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &rate, nil
}

// SaveRate creates or updates a rate
func (r *GormShippingMethodRepository) SaveRate(ctx context.Context, rate *shipping.Rate) error {
	return translateError(r.db.WithContext(ctx).Save(rate).Error)
}

// DeleteRate deletes a rate
func (r *GormShippingMethodRepository) DeleteRate(ctx context.Context, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&shipping.Rate{}, "id = ?", id))
}

// GormHolidayRateRepository implements HolidayRepository using GORM
type GormHolidayRateRepository struct {
	db *gorm.DB
}

// NewGormHolidayRateRepository creates a new GormHolidayRateRepository
func NewGormHolidayRateRepository(db *gorm.DB) *GormHolidayRateRepository {
	return &GormHolidayRateRepository{db: db}
}

// FindByID finds a holiday rate by its ID
func (r *GormHolidayRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.HolidayRate, error) {
	var h shipping.HolidayRate
	if err := r.db.WithContext(ctx).First(&h, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &h, nil
}

// FindAll lists holiday rates by start date
func (r *GormHolidayRateRepository) FindAll(ctx context.Context) ([]shipping.HolidayRate, error) {
	var holidays []shipping.HolidayRate
	if err := r.db.WithContext(ctx).Order("start_date DESC, name ASC").Find(&holidays).Error; err != nil {
		return nil, err
	}
	return holidays, nil
}

// FindActiveOn returns active holidays whose inclusive window covers date
func (r *GormHolidayRateRepository) FindActiveOn(ctx context.Context, date time.Time) ([]shipping.HolidayRate, error) {
	var active []shipping.HolidayRate
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("start_date DESC").
		Find(&active).Error; err != nil {
		return nil, err
	}
	holidays := make([]shipping.HolidayRate, 0, len(active))
	for _, h := range active {
		if h.CoversDate(date) {
			holidays = append(holidays, h)
		}
	}
	return holidays, nil
}

// Save creates or updates a holiday rate
func (r *GormHolidayRateRepository) Save(ctx context.Context, h *shipping.HolidayRate) error {
	return translateError(r.db.WithContext(ctx).Save(h).Error)
}

// Delete deletes a holiday rate
func (r *GormHolidayRateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&shipping.HolidayRate{}, "id = ?", id))
}

var (
	_ shipping.ZoneRepository    = (*GormShippingZoneRepository)(nil)
	_ shipping.MethodRepository  = (*GormShippingMethodRepository)(nil)
	_ shipping.HolidayRepository = (*GormHolidayRateRepository)(nil)
)
