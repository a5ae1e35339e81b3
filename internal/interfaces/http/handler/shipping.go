package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	shippingapp "github.com/marketplace/backend/internal/application/shipping"
)

// ShippingHandler serves shipping quotes
type ShippingHandler struct {
	BaseHandler
	quoteService ShippingQuoteUseCases
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(quoteService ShippingQuoteUseCases) *ShippingHandler {
	return &ShippingHandler{quoteService: quoteService}
}

// CalculateOptions godoc
// @ID           calculateShippingOptions
// @Summary      Quote shipping options
// @Description  Quotes a checkout session of the caller, or an explicit address with subtotal, weight and item count
// @Tags         shipping
// @Accept       json
// @Produce      json
// @Param        X-Guest-ID header string false "Guest identity" format(uuid)
// @Param        request body shipping.CalculateOptionsRequest true "Shipment"
// @Success      200 {object} APIResponse[shipping.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /shipping/checkout/calculate-options [post]
func (h *ShippingHandler) CalculateOptions(c *gin.Context) {
	var req shippingapp.CalculateOptionsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	owner := getOwner(c)
	resp, err := h.quoteService.CalculateOptions(c.Request.Context(), owner.UserID, owner.GuestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ShippingAdminHandler manages zones, methods, rates and holiday adjustments
type ShippingAdminHandler struct {
	BaseHandler
	adminService ShippingAdminUseCases
}

// NewShippingAdminHandler creates a new ShippingAdminHandler
func NewShippingAdminHandler(adminService ShippingAdminUseCases) *ShippingAdminHandler {
	return &ShippingAdminHandler{adminService: adminService}
}

// ListZones godoc
// @ID           adminListShippingZones
// @Summary      List shipping zones
// @Tags         admin-shipping
// @Produce      json
// @Success      200 {object} APIResponse[[]shipping.ZoneResponse]
// @Security     BearerAuth
// @Router       /admin/shipping/zones [get]
func (h *ShippingAdminHandler) ListZones(c *gin.Context) {
	zones, err := h.adminService.ListZones(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if zones == nil {
		zones = []shippingapp.ZoneResponse{}
	}
	h.Success(c, zones)
}

// GetZone godoc
// @ID           adminGetShippingZone
// @Summary      Get a shipping zone
// @Tags         admin-shipping
// @Produce      json
// @Param        id path string true "Zone ID" format(uuid)
// @Success      200 {object} APIResponse[shipping.ZoneResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/shipping/zones/{id} [get]
func (h *ShippingAdminHandler) GetZone(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "zone")
	if !ok {
		return
	}

	zone, err := h.adminService.GetZone(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, zone)
}

// CreateZone godoc
// @ID           adminCreateShippingZone
// @Summary      Create a shipping zone
// @Tags         admin-shipping
// @Accept       json
// @Produce      json
// @Param        request body shipping.ZoneRequest true "Zone"
// @Success      201 {object} APIResponse[shipping.ZoneResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/shipping/zones [post]
func (h *ShippingAdminHandler) CreateZone(c *gin.Context) {
	var req shippingapp.ZoneRequest
	if !h.bindJSON(c, &req) {
		return
	}

	zone, err := h.adminService.CreateZone(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, zone)
}

// UpdateZone godoc
// @ID           adminUpdateShippingZone
// @Summary      Update a shipping zone
// @Tags         admin-shipping
// @Accept       json
// @Produce      json
// @Param        id path string true "Zone ID" format(uuid)
// @Param        request body shipping.ZoneRequest true "Zone"
// @Success      200 {object} APIResponse[shipping.ZoneResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/shipping/zones/{id} [put]
func (h *ShippingAdminHandler) UpdateZone(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "zone")
	if !ok {
		return
	}

	var req shippingapp.ZoneRequest
	if !h.bindJSON(c, &req) {
		return
	}

	zone, err := h.adminService.UpdateZone(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, zone)
}

// DeleteZone godoc
// @ID           adminDeleteShippingZone
// @Summary      Delete a shipping zone with its methods and rates
// @Tags         admin-shipping
// @Param        id path string true "Zone ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/shipping/zones/{id} [delete]
func (h *ShippingAdminHandler) DeleteZone(c *gin.Context) {
	h.delete(c, "zone", h.adminService.DeleteZone)
}

// ListMethods godoc
// @ID           adminListShippingMethods
// @Summary      List the methods of a zone
// @Tags         admin-shipping
// @Produce      json
// @Param        id path string true "Zone ID" format(uuid)
// @Success      200 {object} APIResponse[[]shipping.MethodResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/shipping/zones/{id}/methods [get]
func (h *ShippingAdminHandler) ListMethods(c *gin.Context) {
	zoneID, ok := h.parseUUIDParam(c, "id", "zone")
	if !ok {
		return
	}

	methods, err := h.adminService.ListMethods(c.Request.Context(), zoneID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if methods == nil {
		methods = []shippingapp.MethodResponse{}
	}
	h.Success(c, methods)
}

// CreateMethod godoc
// @ID           adminCreateShippingMethod
// @Summary      Add a method to a zone
// @Tags         admin-shipping
// @Accept       json
// @Produce      json
// @Param        id path string true "Zone ID" format(uuid)
// @Param        request body shipping.MethodRequest true "Method"
// @Success      201 {object} APIResponse[shipping.MethodResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/shipping/zones/{id}/methods [post]
func (h *ShippingAdminHandler) CreateMethod(c *gin.Context) {
	zoneID, ok := h.parseUUIDParam(c, "id", "zone")
	if !ok {
		return
	}

	var req shippingapp.MethodRequest
	if !h.bindJSON(c, &req) {
		return
	}

	method, err := h.adminService.CreateMethod(c.Request.Context(), zoneID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, method)
}

// UpdateMethod godoc
// @ID           adminUpdateShippingMethod
// @Summary      Update a shipping method
// @Tags         admin-shipping
// @Accept       json
// @Produce      json
// @Param        id path string true "Method ID" format(uuid)
// @Param        request body shipping.MethodRequest true "Method"
// @Success      200 {object} APIResponse[shipping.MethodResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/shipping/methods/{id} [put]
func (h *ShippingAdminHandler) UpdateMethod(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "method")
	if !ok {
		return
	}

	var req shippingapp.MethodRequest
	if !h.bindJSON(c, &req) {
		return
	}

	method, err := h.adminService.UpdateMethod(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, method)
}

// DeleteMethod godoc
// @ID           adminDeleteShippingMethod
// @Summary      Delete a shipping method
// @Tags         admin-shipping
// @Param        id path string true "Method ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/shipping/methods/{id} [delete]
func (h *ShippingAdminHandler) DeleteMethod(c *gin.Context) {
	h.delete(c, "method", h.adminService.DeleteMethod)
}

// CreateRate godoc
// @ID           adminCreateShippingRate
// @Summary      Add a rate to a method
// @Tags         admin-shipping
// @Accept       json
// @Produce      json
// @Param        id path string true "Method ID" format(uuid)
// @Param        request body shipping.RateRequest true "Rate"
// @Success      201 {object} APIResponse[shipping.RateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/shipping/methods/{id}/rates [post]
func (h *ShippingAdminHandler) CreateRate(c *gin.Context) {
	methodID, ok := h.parseUUIDParam(c, "id", "method")
	if !ok {
		return
	}

	var req shippingapp.RateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rate, err := h.adminService.CreateRate(c.Request.Context(), methodID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, rate)
}

// UpdateRate godoc
// @ID           adminUpdateShippingRate
// @Summary      Update a shipping rate
// @Tags         admin-shipping
// @Accept       json
// @Produce      json
// @Param        id path string true "Rate ID" format(uuid)
// @Param        request body shipping.RateRequest true "Rate"
// @Success      200 {object} APIResponse[shipping.RateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/shipping/rates/{id} [put]
func (h *ShippingAdminHandler) UpdateRate(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "rate")
	if !ok {
		return
	}

	var req shippingapp.RateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rate, err := h.adminService.UpdateRate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rate)
}

// DeleteRate godoc
// @ID           adminDeleteShippingRate
// @Summary      Delete a shipping rate
// @Tags         admin-shipping
// @Param        id path string true "Rate ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/shipping/rates/{id} [delete]
func (h *ShippingAdminHandler) DeleteRate(c *gin.Context) {
	h.delete(c, "rate", h.adminService.DeleteRate)
}

// ListHolidays godoc
// @ID           adminListHolidayRates
// @Summary      List holiday adjustments
// @Tags         admin-shipping
// @Produce      json
// @Success      200 {object} APIResponse[[]shipping.HolidayResponse]
// @Security     BearerAuth
// @Router       /admin/shipping/holidays [get]
func (h *ShippingAdminHandler) ListHolidays(c *gin.Context) {
	holidays, err := h.adminService.ListHolidays(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if holidays == nil {
		holidays = []shippingapp.HolidayResponse{}
	}
	h.Success(c, holidays)
}

// CreateHoliday godoc
// @ID           adminCreateHolidayRate
// @Summary      Create a holiday adjustment
// @Description  Applies to one method, or to every method when method_id is omitted
// @Tags         admin-shipping
// @Accept       json
// @Produce      json
// @Param        request body shipping.HolidayRequest true "Holiday"
// @Success      201 {object} APIResponse[shipping.HolidayResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/shipping/holidays [post]
func (h *ShippingAdminHandler) CreateHoliday(c *gin.Context) {
	var req shippingapp.HolidayRequest
	if !h.bindJSON(c, &req) {
		return
	}

	holiday, err := h.adminService.CreateHoliday(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, holiday)
}

// UpdateHoliday godoc
// @ID           adminUpdateHolidayRate
// @Summary      Update a holiday adjustment
// @Tags         admin-shipping
// @Accept       json
// @Produce      json
// @Param        id path string true "Holiday ID" format(uuid)
// @Param        request body shipping.HolidayRequest true "Holiday"
// @Success      200 {object} APIResponse[shipping.HolidayResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/shipping/holidays/{id} [put]
func (h *ShippingAdminHandler) UpdateHoliday(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "holiday")
	if !ok {
		return
	}

	var req shippingapp.HolidayRequest
	if !h.bindJSON(c, &req) {
		return
	}

	holiday, err := h.adminService.UpdateHoliday(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, holiday)
}

// DeleteHoliday godoc
// @ID           adminDeleteHolidayRate
// @Summary      Delete a holiday adjustment
// @Tags         admin-shipping
// @Param        id path string true "Holiday ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/shipping/holidays/{id} [delete]
func (h *ShippingAdminHandler) DeleteHoliday(c *gin.Context) {
	h.delete(c, "holiday", h.adminService.DeleteHoliday)
}

func (h *ShippingAdminHandler) delete(c *gin.Context, label string, remove func(context.Context, uuid.UUID) error) {
	id, ok := h.parseUUIDParam(c, "id", label)
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
