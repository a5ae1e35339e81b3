package shipping

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/checkout"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

type quoteFixture struct {
	zones    *MockZoneRepository
	holidays *MockHolidayRepository
	sessions *MockSessionRepository
	svc      *QuoteService
}

func newQuoteFixture(t *testing.T, origin *Origin, zones ...shipping.Zone) *quoteFixture {
	t.Helper()
	f := &quoteFixture{
		zones:    new(MockZoneRepository),
		holidays: new(MockHolidayRepository),
		sessions: new(MockSessionRepository),
	}
	f.svc = NewQuoteService(f.zones, f.holidays, f.sessions, origin, valueobject.USD, zap.NewNop())
	f.svc.now = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }

	metrics, err := telemetry.NewMarketplaceMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	f.svc.SetBusinessMetrics(metrics)

	f.zones.On("FindActiveWithMethods", mock.Anything).Return(zones, nil)
	f.holidays.On("FindActiveOn", mock.Anything, mock.Anything).Return([]shipping.HolidayRate{}, nil)
	return f
}

func domesticZone(t *testing.T) shipping.Zone {
	t.Helper()
	z, err := shipping.NewZone("Domestic", shipping.ZoneRules{Countries: []string{"US"}}, 0)
	require.NoError(t, err)

	standard, err := shipping.NewMethod(z.ID, shipping.MethodSpec{Name: "Standard", MinDeliveryDays: 3, MaxDeliveryDays: 5})
	require.NoError(t, err)
	flat, err := shipping.NewRate(standard.ID, shipping.RateSpec{Type: shipping.RateTypeFlat, BaseAmount: decimal.NewFromInt(5)})
	require.NoError(t, err)
	standard.Rates = []shipping.Rate{*flat}

	local, err := shipping.NewMethod(z.ID, shipping.MethodSpec{Name: "Local courier"})
	require.NoError(t, err)
	perKm, err := shipping.NewRate(local.ID, shipping.RateSpec{
		Type: shipping.RateTypeDistance, BaseAmount: decimal.NewFromInt(2), PerUnitAmount: decimal.RequireFromString("0.5"),
	})
	require.NoError(t, err)
	local.Rates = []shipping.Rate{*perKm}

	z.Methods = []shipping.Method{*standard, *local}
	return *z
}

func address() *valueobject.Address {
	return &valueobject.Address{Line1: "1 Main St", City: "Austin", State: "TX", PostalCode: "73301", Country: "us"}
}

func TestQuoteService_ExplicitShipment(t *testing.T) {
	ctx := context.Background()
	f := newQuoteFixture(t, nil, domesticZone(t))

	resp, err := f.svc.CalculateOptions(ctx, nil, "", CalculateOptionsRequest{
		Address: address(), Subtotal: decimal.NewFromInt(30), Weight: decimal.NewFromInt(1), ItemCount: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Domestic", resp.ZoneName)
	assert.Equal(t, "USD", resp.Currency)
	// no origin and no explicit distance: the courier has no applicable rate
	require.Len(t, resp.Options, 1)
	assert.Equal(t, "Standard", resp.Options[0].Name)
	assert.Equal(t, "5", resp.Options[0].Cost.String())
}

func TestQuoteService_DistanceFromOrigin(t *testing.T) {
	ctx := context.Background()
	origin := OriginFromConfig(config.ShippingConfig{HasOrigin: true, OriginLatitude: 30.2672, OriginLongitude: -97.7431})
	f := newQuoteFixture(t, origin, domesticZone(t))

	dest := address()
	lat, lon := 30.2672, -97.7431
	dest.Latitude, dest.Longitude = &lat, &lon

	resp, err := f.svc.CalculateOptions(ctx, nil, "", CalculateOptionsRequest{Address: dest, Subtotal: decimal.NewFromInt(30)})
	require.NoError(t, err)
	require.Len(t, resp.Options, 2)
	// same point as the warehouse: base amount only, cheaper than flat
	assert.Equal(t, "Local courier", resp.Options[0].Name)
	assert.Equal(t, "2", resp.Options[0].Cost.String())
}

func TestQuoteService_Unavailable(t *testing.T) {
	ctx := context.Background()
	f := newQuoteFixture(t, nil, domesticZone(t))
	dest := address()
	dest.Country = "FR"

	_, err := f.svc.CalculateOptions(ctx, nil, "", CalculateOptionsRequest{Address: dest, Subtotal: decimal.NewFromInt(30)})
	assert.ErrorIs(t, err, shipping.ErrShippingUnavailable)
}

func TestQuoteService_RequiresAddressOrSession(t *testing.T) {
	f := newQuoteFixture(t, nil)
	_, err := f.svc.CalculateOptions(context.Background(), nil, "", CalculateOptionsRequest{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestQuoteService_Session(t *testing.T) {
	ctx := context.Background()
	f := newQuoteFixture(t, nil, domesticZone(t))
	at := f.svc.now()
	newSession := func(t *testing.T) *checkout.Session {
		t.Helper()
		session, err := checkout.NewSession(checkout.Owner{GuestID: "guest-1"}, uuid.New(), "USD", []checkout.Item{{
			ProductID: uuid.New(), SellerID: uuid.New(), ProductName: "Mug", UnitPrice: decimal.NewFromInt(10), Quantity: 2,
		}}, time.Hour, at.Add(-10*time.Minute))
		require.NoError(t, err)
		f.sessions.On("FindByID", ctx, session.ID).Return(session, nil)
		return session
	}
	quote := func(guestID string, id uuid.UUID) (*QuoteResponse, error) {
		return f.svc.CalculateOptions(ctx, nil, guestID, CalculateOptionsRequest{CheckoutSessionID: &id})
	}

	t.Run("open session with an address", func(t *testing.T) {
		session := newSession(t)
		_, err := quote("guest-1", session.ID)
		assert.ErrorIs(t, err, checkout.ErrAddressRequired)

		require.NoError(t, session.SetAddresses(*address(), nil, at.Add(-5*time.Minute)))
		resp, err := quote("guest-1", session.ID)
		require.NoError(t, err)
		assert.Len(t, resp.Options, 1)

		_, err = quote("someone-else", session.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("cancelled session is not quoted", func(t *testing.T) {
		session := newSession(t)
		require.NoError(t, session.SetAddresses(*address(), nil, at))
		require.NoError(t, session.Cancel())

		_, err := quote("guest-1", session.ID)
		assert.ErrorIs(t, err, checkout.ErrCheckoutClosed)
	})

	t.Run("session past its expiry is not quoted", func(t *testing.T) {
		session := newSession(t)
		require.NoError(t, session.SetAddresses(*address(), nil, at.Add(-2*time.Hour)))

		_, err := quote("guest-1", session.ID)
		assert.ErrorIs(t, err, checkout.ErrCheckoutExpired)
	})
}
