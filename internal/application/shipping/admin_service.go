package shipping

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AdminService maintains zones, methods, rates and holiday rates
type AdminService struct {
	zoneRepo    shipping.ZoneRepository
	methodRepo  shipping.MethodRepository
	holidayRepo shipping.HolidayRepository
	logger      *zap.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	zoneRepo shipping.ZoneRepository,
	methodRepo shipping.MethodRepository,
	holidayRepo shipping.HolidayRepository,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		zoneRepo:    zoneRepo,
		methodRepo:  methodRepo,
		holidayRepo: holidayRepo,
		logger:      logger,
	}
}

// ListZones lists every zone by priority
func (s *AdminService) ListZones(ctx context.Context) ([]ZoneResponse, error) {
	zones, err := s.zoneRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ZoneResponse, len(zones))
	for i := range zones {
		out[i] = ToZoneResponse(&zones[i])
	}
	return out, nil
}

// GetZone returns a zone with its methods and rates
func (s *AdminService) GetZone(ctx context.Context, id uuid.UUID) (*ZoneResponse, error) {
	zone, err := s.zoneRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToZoneResponse(zone)
	return &resp, nil
}

// CreateZone creates a zone
func (s *AdminService) CreateZone(ctx context.Context, req ZoneRequest) (*ZoneResponse, error) {
	zone, err := shipping.NewZone(req.Name, req.rules(), req.Priority)
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil && !*req.IsActive {
		zone.SetActive(false)
	}
	if err := s.zoneRepo.Save(ctx, zone); err != nil {
		return nil, err
	}
	logger.For(ctx, s.logger).Info("Shipping zone created",
		zap.String("zone_id", zone.ID.String()),
		zap.String("name", zone.Name))
	resp := ToZoneResponse(zone)
	return &resp, nil
}

// UpdateZone replaces a zone's rules
func (s *AdminService) UpdateZone(ctx context.Context, id uuid.UUID, req ZoneRequest) (*ZoneResponse, error) {
	zone, err := s.zoneRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := zone.Update(req.Name, req.rules(), req.Priority); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		zone.SetActive(*req.IsActive)
	}
	if err := s.zoneRepo.Save(ctx, zone); err != nil {
		return nil, err
	}
	resp := ToZoneResponse(zone)
	return &resp, nil
}

// DeleteZone removes a zone with its methods and rates
func (s *AdminService) DeleteZone(ctx context.Context, id uuid.UUID) error {
	if err := s.zoneRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.For(ctx, s.logger).Info("Shipping zone deleted", zap.String("zone_id", id.String()))
	return nil
}

// ListMethods lists the methods of a zone
func (s *AdminService) ListMethods(ctx context.Context, zoneID uuid.UUID) ([]MethodResponse, error) {
	methods, err := s.methodRepo.FindByZone(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	out := make([]MethodResponse, len(methods))
	for i := range methods {
		out[i] = ToMethodResponse(&methods[i])
	}
	return out, nil
}

// CreateMethod adds a method to a zone
func (s *AdminService) CreateMethod(ctx context.Context, zoneID uuid.UUID, req MethodRequest) (*MethodResponse, error) {
	if _, err := s.zoneRepo.FindByID(ctx, zoneID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Shipping zone not found")
		}
		return nil, err
	}
	method, err := shipping.NewMethod(zoneID, req.spec())
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil && !*req.IsActive {
		method.SetActive(false)
	}
	if err := s.methodRepo.Save(ctx, method); err != nil {
		return nil, err
	}
	resp := ToMethodResponse(method)
	return &resp, nil
}

// UpdateMethod replaces a method's fields
func (s *AdminService) UpdateMethod(ctx context.Context, id uuid.UUID, req MethodRequest) (*MethodResponse, error) {
	method, err := s.methodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := method.Update(req.spec()); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		method.SetActive(*req.IsActive)
	}
	if err := s.methodRepo.Save(ctx, method); err != nil {
		return nil, err
	}
	resp := ToMethodResponse(method)
	return &resp, nil
}

// DeleteMethod removes a method and its rates
func (s *AdminService) DeleteMethod(ctx context.Context, id uuid.UUID) error {
	return s.methodRepo.Delete(ctx, id)
}

// CreateRate adds a rate to a method
func (s *AdminService) CreateRate(ctx context.Context, methodID uuid.UUID, req RateRequest) (*RateResponse, error) {
	if _, err := s.methodRepo.FindByID(ctx, methodID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Shipping method not found")
		}
		return nil, err
	}
	rate, err := shipping.NewRate(methodID, req.spec())
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		rate.IsActive = *req.IsActive
	}
	if err := s.methodRepo.SaveRate(ctx, rate); err != nil {
		return nil, err
	}
	resp := ToRateResponse(rate)
	return &resp, nil
}

// UpdateRate replaces a rate's fields
func (s *AdminService) UpdateRate(ctx context.Context, id uuid.UUID, req RateRequest) (*RateResponse, error) {
	rate, err := s.methodRepo.FindRate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rate.Update(req.spec()); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		rate.IsActive = *req.IsActive
	}
	if err := s.methodRepo.SaveRate(ctx, rate); err != nil {
		return nil, err
	}
	resp := ToRateResponse(rate)
	return &resp, nil
}

// DeleteRate removes a rate
func (s *AdminService) DeleteRate(ctx context.Context, id uuid.UUID) error {
	return s.methodRepo.DeleteRate(ctx, id)
}

// ListHolidays lists holiday rates, latest first
func (s *AdminService) ListHolidays(ctx context.Context) ([]HolidayResponse, error) {
	holidays, err := s.holidayRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]HolidayResponse, len(holidays))
	for i := range holidays {
		out[i] = ToHolidayResponse(&holidays[i])
	}
	return out, nil
}

// CreateHoliday creates a holiday rate, optionally scoped to one method
func (s *AdminService) CreateHoliday(ctx context.Context, req HolidayRequest) (*HolidayResponse, error) {
	spec, err := s.holidaySpec(ctx, req)
	if err != nil {
		return nil, err
	}
	h, err := shipping.NewHolidayRate(spec)
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil && !*req.IsActive {
		h.SetActive(false)
	}
	if err := s.holidayRepo.Save(ctx, h); err != nil {
		return nil, err
	}
	resp := ToHolidayResponse(h)
	return &resp, nil
}

// UpdateHoliday replaces a holiday rate's fields
func (s *AdminService) UpdateHoliday(ctx context.Context, id uuid.UUID, req HolidayRequest) (*HolidayResponse, error) {
	h, err := s.holidayRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	spec, err := s.holidaySpec(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := h.Update(spec); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		h.SetActive(*req.IsActive)
	}
	if err := s.holidayRepo.Save(ctx, h); err != nil {
		return nil, err
	}
	resp := ToHolidayResponse(h)
	return &resp, nil
}

func (s *AdminService) holidaySpec(ctx context.Context, req HolidayRequest) (shipping.HolidaySpec, error) {
	spec, err := req.spec()
	if err != nil {
		return spec, shared.NewDomainError("INVALID_HOLIDAY_DATES", "Dates must use the YYYY-MM-DD format")
	}
	if spec.MethodID != nil {
		if _, err := s.methodRepo.FindByID(ctx, *spec.MethodID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return spec, shared.NewDomainError("INVALID_METHOD", "Shipping method not found")
			}
			return spec, err
		}
	}
	return spec, nil
}

// DeleteHoliday removes a holiday rate
func (s *AdminService) DeleteHoliday(ctx context.Context, id uuid.UUID) error {
	return s.holidayRepo.Delete(ctx, id)
}
