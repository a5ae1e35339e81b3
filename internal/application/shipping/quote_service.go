package shipping

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/checkout"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Origin is the warehouse location distance-based rates measure from
type Origin struct {
	Latitude  float64
	Longitude float64
}

// OriginFromConfig returns the configured warehouse origin, or nil
func OriginFromConfig(cfg config.ShippingConfig) *Origin {
	if !cfg.HasOrigin {
		return nil
	}
	return &Origin{Latitude: cfg.OriginLatitude, Longitude: cfg.OriginLongitude}
}

// QuoteService prices shipments with the rate calculator
type QuoteService struct {
	zoneRepo    shipping.ZoneRepository
	holidayRepo shipping.HolidayRepository
	sessionRepo checkout.SessionRepository
	calculator  *shipping.Calculator
	origin      *Origin
	currency    valueobject.Currency
	metrics     *telemetry.MarketplaceMetrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewQuoteService creates a new QuoteService. origin may be nil, in which
// case distance-based rates only apply when the caller supplies a distance.
func NewQuoteService(
	zoneRepo shipping.ZoneRepository,
	holidayRepo shipping.HolidayRepository,
	sessionRepo checkout.SessionRepository,
	origin *Origin,
	currency valueobject.Currency,
	logger *zap.Logger,
) *QuoteService {
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &QuoteService{
		zoneRepo:    zoneRepo,
		holidayRepo: holidayRepo,
		sessionRepo: sessionRepo,
		calculator:  shipping.NewCalculator(),
		origin:      origin,
		currency:    currency,
		logger:      logger,
		now:         time.Now,
	}
}

// SetBusinessMetrics sets the business metrics recorder
func (s *QuoteService) SetBusinessMetrics(m *telemetry.MarketplaceMetrics) {
	s.metrics = m
}

// DistanceTo returns the distance from the warehouse to dest, or nil when
// either end has no coordinates
func (s *QuoteService) DistanceTo(dest valueobject.Address) *decimal.Decimal {
	if s.origin == nil || !dest.HasCoordinates() {
		return nil
	}
	km := valueobject.DistanceKm(s.origin.Latitude, s.origin.Longitude, *dest.Latitude, *dest.Longitude)
	d := decimal.NewFromFloat(km).Round(2)
	return &d
}

// Quote runs the calculator over the active zones and today's holidays
func (s *QuoteService) Quote(ctx context.Context, in shipping.QuoteInput) (*shipping.Quote, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "shipping", "Quote")
	defer span.End()

	if in.Date.IsZero() {
		in.Date = s.now()
	}
	if in.DistanceKm == nil {
		in.DistanceKm = s.DistanceTo(in.Destination)
	}

	zones, err := s.zoneRepo.FindActiveWithMethods(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	holidays, err := s.holidayRepo.FindActiveOn(ctx, in.Date)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	quote, err := s.calculator.Calculate(zones, holidays, in)
	zoneName := ""
	if quote != nil && quote.Zone != nil {
		zoneName = quote.Zone.Name
		telemetry.SetAttributes(span,
			telemetry.AttrZoneID, quote.Zone.ID.String(),
			telemetry.AttrOptionCount, len(quote.Options))
	}
	if s.metrics != nil {
		options := 0
		if quote != nil {
			options = len(quote.Options)
		}
		s.metrics.RecordShippingQuote(ctx, zoneName, options, err)
	}
	if err != nil {
		logger.For(ctx, s.logger).Info("No shipping options for destination",
			zap.String("country", in.Destination.Country),
			zap.String("postal_code", in.Destination.PostalCode))
		return nil, err
	}
	return quote, nil
}

// CalculateOptions quotes either a checkout session owned by the caller or
// an explicit shipment
func (s *QuoteService) CalculateOptions(ctx context.Context, userID *uuid.UUID, guestID string, req CalculateOptionsRequest) (*QuoteResponse, error) {
	if req.CheckoutSessionID != nil {
		return s.quoteSession(ctx, *req.CheckoutSessionID, userID, guestID, req.DistanceKm)
	}
	if req.Address == nil || req.Address.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Either checkout_session_id or address is required")
	}
	dest := req.Address.Normalize()
	if err := dest.Validate(); err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}
	if req.Subtotal.IsNegative() || req.Weight.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Subtotal and weight cannot be negative")
	}
	currency, err := valueobject.ParseCurrency(req.Currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	if req.Currency == "" {
		currency = s.currency
	}

	quote, err := s.Quote(ctx, shipping.QuoteInput{
		Destination: dest,
		Subtotal:    req.Subtotal,
		Currency:    string(currency),
		Weight:      req.Weight,
		ItemCount:   req.ItemCount,
		DistanceKm:  req.DistanceKm,
	})
	if err != nil {
		return nil, err
	}
	return ToQuoteResponse(quote, string(currency)), nil
}

func (s *QuoteService) quoteSession(ctx context.Context, id uuid.UUID, userID *uuid.UUID, guestID string, distance *decimal.Decimal) (*QuoteResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Checkout session not found")
		}
		return nil, err
	}
	if !session.BelongsTo(userID, guestID) {
		return nil, shared.NewDomainError("NOT_FOUND", "Checkout session not found")
	}
	if err := session.EnsureOpen(s.now()); err != nil {
		return nil, err
	}
	if !session.HasAddress() {
		return nil, checkout.ErrAddressRequired
	}
	quote, err := s.Quote(ctx, session.QuoteInput(distance, time.Time{}))
	if err != nil {
		return nil, err
	}
	return ToQuoteResponse(quote, session.Currency), nil
}
