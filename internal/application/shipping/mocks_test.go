package shipping

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/checkout"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/stretchr/testify/mock"
)

type MockZoneRepository struct {
	mock.Mock
}

func (m *MockZoneRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.Zone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Zone), args.Error(1)
}

func (m *MockZoneRepository) FindAll(ctx context.Context) ([]shipping.Zone, error) {
	args := m.Called(ctx)
	return args.Get(0).([]shipping.Zone), args.Error(1)
}

func (m *MockZoneRepository) FindActiveWithMethods(ctx context.Context) ([]shipping.Zone, error) {
	args := m.Called(ctx)
	return args.Get(0).([]shipping.Zone), args.Error(1)
}

func (m *MockZoneRepository) Save(ctx context.Context, zone *shipping.Zone) error {
	return m.Called(ctx, zone).Error(0)
}

func (m *MockZoneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockMethodRepository struct {
	mock.Mock
}

func (m *MockMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.Method, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Method), args.Error(1)
}

func (m *MockMethodRepository) FindByZone(ctx context.Context, zoneID uuid.UUID) ([]shipping.Method, error) {
	args := m.Called(ctx, zoneID)
	return args.Get(0).([]shipping.Method), args.Error(1)
}

func (m *MockMethodRepository) Save(ctx context.Context, method *shipping.Method) error {
	return m.Called(ctx, method).Error(0)
}

func (m *MockMethodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMethodRepository) FindRate(ctx context.Context, id uuid.UUID) (*shipping.Rate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Rate), args.Error(1)
}

func (m *MockMethodRepository) SaveRate(ctx context.Context, rate *shipping.Rate) error {
	return m.Called(ctx, rate).Error(0)
}

func (m *MockMethodRepository) DeleteRate(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockHolidayRepository struct {
	mock.Mock
}

func (m *MockHolidayRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.HolidayRate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.HolidayRate), args.Error(1)
}

func (m *MockHolidayRepository) FindAll(ctx context.Context) ([]shipping.HolidayRate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]shipping.HolidayRate), args.Error(1)
}

func (m *MockHolidayRepository) FindActiveOn(ctx context.Context, date time.Time) ([]shipping.HolidayRate, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]shipping.HolidayRate), args.Error(1)
}

func (m *MockHolidayRepository) Save(ctx context.Context, h *shipping.HolidayRate) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockHolidayRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Session), args.Error(1)
}

func (m *MockSessionRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) ([]checkout.Session, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]checkout.Session), args.Error(1)
}

func (m *MockSessionRepository) FindOpenByGuest(ctx context.Context, guestID string) ([]checkout.Session, error) {
	args := m.Called(ctx, guestID)
	return args.Get(0).([]checkout.Session), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, s *checkout.Session) error {
	return m.Called(ctx, s).Error(0)
}
