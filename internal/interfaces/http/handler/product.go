package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/marketplace/backend/internal/application/catalog"
)

// ProductHandler serves the public catalog and seller product management
type ProductHandler struct {
	BaseHandler
	productService ProductUseCases
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService ProductUseCases) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List godoc
// @ID           listProducts
// @Summary      Browse products
// @Description  Active products of approved sellers. Filtering by category includes its descendants.
// @Tags         products
// @Produce      json
// @Param        search query string false "Search in name, SKU and description"
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        seller_id query string false "Seller ID" format(uuid)
// @Param        min_price query number false "Minimum price"
// @Param        max_price query number false "Maximum price"
// @Param        in_stock query bool false "Only products with stock"
// @Param        order_by query string false "Sort field" Enums(price, name, created_at, stock)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]catalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	result, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paged(&h.BaseHandler, c, result)
}

// Get godoc
// @ID           getProduct
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// ListMine godoc
// @ID           listSellerProducts
// @Summary      List the caller's products
// @Description  Includes inactive products
// @Tags         seller-products
// @Produce      json
// @Param        search query string false "Search keyword"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]catalog.ProductResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /seller/products [get]
func (h *ProductHandler) ListMine(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	result, err := h.productService.ListMine(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paged(&h.BaseHandler, c, result)
}

// Create godoc
// @ID           createSellerProduct
// @Summary      Create a product
// @Description  Only approved sellers can list products
// @Tags         seller-products
// @Accept       json
// @Produce      json
// @Param        request body catalog.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /seller/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Update godoc
// @ID           updateSellerProduct
// @Summary      Update a product
// @Tags         seller-products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalog.UpdateProductRequest true "Product"
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /seller/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	userID, productID, ok := h.ownedProduct(c)
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// UpdatePrice godoc
// @ID           updateSellerProductPrice
// @Summary      Change a product's price
// @Tags         seller-products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalog.UpdatePriceRequest true "Price"
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /seller/products/{id}/price [put]
func (h *ProductHandler) UpdatePrice(c *gin.Context) {
	userID, productID, ok := h.ownedProduct(c)
	if !ok {
		return
	}

	var req catalogapp.UpdatePriceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdatePrice(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// UpdateStock godoc
// @ID           updateSellerProductStock
// @Summary      Set a product's stock level
// @Tags         seller-products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalog.UpdateStockRequest true "Stock"
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /seller/products/{id}/stock [put]
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	userID, productID, ok := h.ownedProduct(c)
	if !ok {
		return
	}

	var req catalogapp.UpdateStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateStock(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Activate godoc
// @ID           activateSellerProduct
// @Summary      Publish a product
// @Tags         seller-products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /seller/products/{id}/activate [post]
func (h *ProductHandler) Activate(c *gin.Context) {
	userID, productID, ok := h.ownedProduct(c)
	if !ok {
		return
	}

	product, err := h.productService.Activate(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Deactivate godoc
// @ID           deactivateSellerProduct
// @Summary      Unpublish a product
// @Tags         seller-products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /seller/products/{id}/deactivate [post]
func (h *ProductHandler) Deactivate(c *gin.Context) {
	userID, productID, ok := h.ownedProduct(c)
	if !ok {
		return
	}

	product, err := h.productService.Deactivate(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete godoc
// @ID           deleteSellerProduct
// @Summary      Delete a product
// @Tags         seller-products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /seller/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	userID, productID, ok := h.ownedProduct(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), userID, productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RequestImageUpload godoc
// @ID           requestSellerProductImageUpload
// @Summary      Presign an image upload
// @Description  Returns a presigned PUT URL. The client uploads the file directly to object storage.
// @Tags         seller-products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalog.ImageUploadRequest true "Image"
// @Success      201 {object} APIResponse[catalog.ImageUploadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /seller/products/{id}/images [post]
func (h *ProductHandler) RequestImageUpload(c *gin.Context) {
	userID, productID, ok := h.ownedProduct(c)
	if !ok {
		return
	}

	var req catalogapp.ImageUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	upload, err := h.productService.RequestImageUpload(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, upload)
}

// RemoveImage godoc
// @ID           removeSellerProductImage
// @Summary      Remove a product image
// @Tags         seller-products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalog.RemoveImageRequest true "Image key"
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /seller/products/{id}/images [delete]
func (h *ProductHandler) RemoveImage(c *gin.Context) {
	userID, productID, ok := h.ownedProduct(c)
	if !ok {
		return
	}

	var req catalogapp.RemoveImageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.RemoveImage(c.Request.Context(), userID, productID, req.Key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Export godoc
// @ID           exportSellerProducts
// @Summary      Export the caller's products
// @Description  Downloads every product of the seller account as a spreadsheet
// @Tags         seller-products
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200 {file} file
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /seller/products/export [get]
func (h *ProductHandler) Export(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	// Buffer so a failed export can still be reported as JSON
	var buf bytes.Buffer
	if err := h.productService.Export(c.Request.Context(), userID, &buf); err != nil {
		h.HandleError(c, err)
		return
	}

	contentType, ext := h.productService.ExportFormat()
	filename := fmt.Sprintf("products-%s%s", time.Now().UTC().Format("20060102"), ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// ownedProduct reads the caller and the product path parameter
func (h *ProductHandler) ownedProduct(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := h.requireUser(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	productID, ok := h.parseUUIDParam(c, "id", "product")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return userID, productID, true
}
