package handler

import (
	"github.com/gin-gonic/gin"

	taxapp "github.com/marketplace/backend/internal/application/tax"
)

// TaxHandler manages tax rates
type TaxHandler struct {
	BaseHandler
	taxService TaxUseCases
}

// NewTaxHandler creates a new TaxHandler
func NewTaxHandler(taxService TaxUseCases) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

// List godoc
// @ID           adminListTaxRates
// @Summary      List tax rates
// @Tags         admin-tax
// @Produce      json
// @Success      200 {object} APIResponse[[]tax.TaxRateResponse]
// @Security     BearerAuth
// @Router       /admin/tax-rates [get]
func (h *TaxHandler) List(c *gin.Context) {
	rates, err := h.taxService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if rates == nil {
		rates = []taxapp.TaxRateResponse{}
	}
	h.Success(c, rates)
}

// Get godoc
// @ID           adminGetTaxRate
// @Summary      Get a tax rate
// @Tags         admin-tax
// @Produce      json
// @Param        id path string true "Tax rate ID" format(uuid)
// @Success      200 {object} APIResponse[tax.TaxRateResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/tax-rates/{id} [get]
func (h *TaxHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "tax rate")
	if !ok {
		return
	}

	rate, err := h.taxService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rate)
}

// Create godoc
// @ID           adminCreateTaxRate
// @Summary      Create a tax rate
// @Description  A state-level rate takes precedence over the country rate
// @Tags         admin-tax
// @Accept       json
// @Produce      json
// @Param        request body tax.TaxRateRequest true "Tax rate"
// @Success      201 {object} APIResponse[tax.TaxRateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/tax-rates [post]
func (h *TaxHandler) Create(c *gin.Context) {
	var req taxapp.TaxRateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rate, err := h.taxService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, rate)
}

// Update godoc
// @ID           adminUpdateTaxRate
// @Summary      Update a tax rate
// @Tags         admin-tax
// @Accept       json
// @Produce      json
// @Param        id path string true "Tax rate ID" format(uuid)
// @Param        request body tax.TaxRateRequest true "Tax rate"
// @Success      200 {object} APIResponse[tax.TaxRateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/tax-rates/{id} [put]
func (h *TaxHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "tax rate")
	if !ok {
		return
	}

	var req taxapp.TaxRateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rate, err := h.taxService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rate)
}

// Delete godoc
// @ID           adminDeleteTaxRate
// @Summary      Delete a tax rate
// @Tags         admin-tax
// @Param        id path string true "Tax rate ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/tax-rates/{id} [delete]
func (h *TaxHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "tax rate")
	if !ok {
		return
	}

	if err := h.taxService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
