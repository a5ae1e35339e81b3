package shipping

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ZoneRepository persists zones
type ZoneRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Zone, error)
	FindAll(ctx context.Context) ([]Zone, error)

	// FindActiveWithMethods loads active zones with their active methods and rates
	FindActiveWithMethods(ctx context.Context) ([]Zone, error)

	Save(ctx context.Context, zone *Zone) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MethodRepository persists methods together with their rates
type MethodRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Method, error)
	FindByZone(ctx context.Context, zoneID uuid.UUID) ([]Method, error)
	Save(ctx context.Context, method *Method) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindRate(ctx context.Context, id uuid.UUID) (*Rate, error)
	SaveRate(ctx context.Context, rate *Rate) error
	DeleteRate(ctx context.Context, id uuid.UUID) error
}

// HolidayRepository persists holiday rates
type HolidayRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*HolidayRate, error)
	FindAll(ctx context.Context) ([]HolidayRate, error)

	// FindActiveOn returns active holidays whose window covers date
	FindActiveOn(ctx context.Context, date time.Time) ([]HolidayRate, error)

	Save(ctx context.Context, h *HolidayRate) error
	Delete(ctx context.Context, id uuid.UUID) error
}
