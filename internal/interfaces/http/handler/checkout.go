package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	checkoutapp "github.com/marketplace/backend/internal/application/checkout"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader deduplicates order placement retries
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// CheckoutHandler drives checkout sessions from cart to order
type CheckoutHandler struct {
	BaseHandler
	checkoutService CheckoutUseCases
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService CheckoutUseCases) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Initiate godoc
// @ID           initiateCheckout
// @Summary      Start a checkout
// @Description  Snapshots the cart into a new session. Earlier open sessions of the caller are cancelled.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        X-Guest-ID header string false "Guest identity" format(uuid)
// @Param        request body checkout.InitiateRequest false "Contact email"
// @Success      201 {object} APIResponse[checkout.SessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /checkout/initiate [post]
func (h *CheckoutHandler) Initiate(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req checkoutapp.InitiateRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.checkoutService.Initiate(c.Request.Context(), owner, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get godoc
// @ID           getCheckout
// @Summary      Get a checkout session
// @Tags         checkout
// @Produce      json
// @Param        X-Guest-ID header string false "Guest identity" format(uuid)
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} APIResponse[checkout.SessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /checkout/{id} [get]
func (h *CheckoutHandler) Get(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id", "session")
	if !ok {
		return
	}

	resp, err := h.checkoutService.Get(c.Request.Context(), owner, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetAddress godoc
// @ID           setCheckoutAddress
// @Summary      Set the destination
// @Description  Billing defaults to the shipping address. Changing the address clears a selected shipping method.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        X-Guest-ID header string false "Guest identity" format(uuid)
// @Param        request body checkout.AddressRequest true "Addresses"
// @Success      200 {object} APIResponse[checkout.SessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /checkout/address [post]
func (h *CheckoutHandler) SetAddress(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req checkoutapp.AddressRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.checkoutService.SetAddress(c.Request.Context(), owner, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ShippingOptions godoc
// @ID           getCheckoutShippingOptions
// @Summary      Quote shipping for a session
// @Description  Requires an address on the session
// @Tags         checkout
// @Produce      json
// @Param        X-Guest-ID header string false "Guest identity" format(uuid)
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} APIResponse[shipping.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /checkout/{id}/shipping-options [get]
func (h *CheckoutHandler) ShippingOptions(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id", "session")
	if !ok {
		return
	}

	resp, err := h.checkoutService.ShippingOptions(c.Request.Context(), owner, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// SelectShipping godoc
// @ID           selectCheckoutShipping
// @Summary      Choose a shipping method
// @Description  The method must be one of the current quote's options. Tax and totals are recomputed.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        X-Guest-ID header string false "Guest identity" format(uuid)
// @Param        request body checkout.SelectShippingRequest true "Method"
// @Success      200 {object} APIResponse[checkout.SessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /checkout/shipping [post]
func (h *CheckoutHandler) SelectShipping(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req checkoutapp.SelectShippingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.checkoutService.SelectShipping(c.Request.Context(), owner, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ConfirmOrder godoc
// @ID           confirmCheckoutOrder
// @Summary      Place the order
// @Description  Reserves stock and creates the order. Retrying with the same Idempotency-Key returns the original order with status 200.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        X-Guest-ID header string false "Guest identity" format(uuid)
// @Param        Idempotency-Key header string false "Client generated retry key"
// @Param        request body checkout.ConfirmRequest true "Session"
// @Success      201 {object} APIResponse[checkout.ConfirmResponse]
// @Success      200 {object} APIResponse[checkout.ConfirmResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /checkout/confirm-order [post]
func (h *CheckoutHandler) ConfirmOrder(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidationFormat, "Idempotency-Key is too long")
		return
	}

	var req checkoutapp.ConfirmRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.checkoutService.ConfirmOrder(c.Request.Context(), owner, req, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if resp.Replayed {
		h.Success(c, resp)
		return
	}
	h.Created(c, resp)
}

// Cancel godoc
// @ID           cancelCheckout
// @Summary      Abandon a checkout session
// @Tags         checkout
// @Produce      json
// @Param        X-Guest-ID header string false "Guest identity" format(uuid)
// @Param        id path string true "Session ID" format(uuid)
// @Success      200 {object} APIResponse[checkout.SessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /checkout/{id}/cancel [post]
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	owner, ok := h.requireOwner(c)
	if !ok {
		return
	}
	id, ok := h.parseUUIDParam(c, "id", "session")
	if !ok {
		return
	}

	resp, err := h.checkoutService.Cancel(c.Request.Context(), owner, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
