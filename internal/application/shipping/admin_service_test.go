package shipping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type adminFixture struct {
	zones    *MockZoneRepository
	methods  *MockMethodRepository
	holidays *MockHolidayRepository
	svc      *AdminService
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		zones:    new(MockZoneRepository),
		methods:  new(MockMethodRepository),
		holidays: new(MockHolidayRepository),
	}
	f.svc = NewAdminService(f.zones, f.methods, f.holidays, zap.NewNop())
	return f
}

func TestAdminService_CreateZone(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()
	f.zones.On("Save", ctx, mock.AnythingOfType("*shipping.Zone")).Return(nil)

	inactive := false
	resp, err := f.svc.CreateZone(ctx, ZoneRequest{
		Name: "West coast", Countries: []string{"us"}, States: []string{"CA", "OR"}, PostalCodes: []string{"9*"}, Priority: 5, IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"US"}, resp.Countries)
	assert.Equal(t, 5, resp.Priority)
	assert.False(t, resp.IsActive)
}

func TestAdminService_CreateMethod_UnknownZone(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()
	zoneID := uuid.New()
	f.zones.On("FindByID", ctx, zoneID).Return(nil, shared.ErrNotFound)

	_, err := f.svc.CreateMethod(ctx, zoneID, MethodRequest{Name: "Express"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.methods.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAdminService_RateLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()
	method, err := shipping.NewMethod(uuid.New(), shipping.MethodSpec{Name: "Standard"})
	require.NoError(t, err)
	f.methods.On("FindByID", ctx, method.ID).Return(method, nil)
	f.methods.On("SaveRate", ctx, mock.AnythingOfType("*shipping.Rate")).Return(nil)

	lo, hi := decimal.NewFromInt(0), decimal.NewFromInt(5)
	created, err := f.svc.CreateRate(ctx, method.ID, RateRequest{
		Type: "weight_based", MinValue: &lo, MaxValue: &hi, BaseAmount: decimal.NewFromInt(4), PerUnitAmount: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	assert.Equal(t, "weight_based", created.Type)
	assert.True(t, created.IsActive)

	_, err = f.svc.CreateRate(ctx, method.ID, RateRequest{Type: "flat", MinValue: &hi, MaxValue: &lo})
	assert.Error(t, err)
}

func TestAdminService_CreateHoliday(t *testing.T) {
	ctx := context.Background()

	t.Run("global holiday", func(t *testing.T) {
		f := newAdminFixture()
		f.holidays.On("Save", ctx, mock.AnythingOfType("*shipping.HolidayRate")).Return(nil)

		resp, err := f.svc.CreateHoliday(ctx, HolidayRequest{
			Name: "Peak season", StartDate: "2026-12-15", EndDate: "2026-12-31",
			AdjustmentType: "percentage", Amount: decimal.NewFromInt(20), ExtraDeliveryDays: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, "2026-12-15", resp.StartDate)
		assert.Nil(t, resp.MethodID)
	})

	t.Run("unknown method", func(t *testing.T) {
		f := newAdminFixture()
		methodID := uuid.New()
		f.methods.On("FindByID", ctx, methodID).Return(nil, shared.ErrNotFound)

		_, err := f.svc.CreateHoliday(ctx, HolidayRequest{
			MethodID: &methodID, Name: "Closure", StartDate: "2026-12-25", EndDate: "2026-12-25", AdjustmentType: "fixed",
		})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_METHOD", de.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		f := newAdminFixture()
		_, err := f.svc.CreateHoliday(ctx, HolidayRequest{
			Name: "Closure", StartDate: "25/12/2026", EndDate: "2026-12-25", AdjustmentType: "fixed",
		})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_HOLIDAY_DATES", de.Code)
	})
}
