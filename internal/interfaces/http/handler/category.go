package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/marketplace/backend/internal/application/catalog"
)

// CategoryHandler handles category endpoints for shoppers and administrators
type CategoryHandler struct {
	BaseHandler
	categoryService CategoryUseCases
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService CategoryUseCases) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List godoc
// @ID           listCategories
// @Summary      List active categories
// @Tags         categories
// @Produce      json
// @Success      200 {object} APIResponse[[]catalog.CategoryResponse]
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	h.list(c, false)
}

// AdminList godoc
// @ID           adminListCategories
// @Summary      List all categories
// @Description  Includes inactive categories
// @Tags         admin-categories
// @Produce      json
// @Success      200 {object} APIResponse[[]catalog.CategoryResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories [get]
func (h *CategoryHandler) AdminList(c *gin.Context) {
	h.list(c, true)
}

func (h *CategoryHandler) list(c *gin.Context, includeInactive bool) {
	categories, err := h.categoryService.List(c.Request.Context(), includeInactive)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if categories == nil {
		categories = []catalogapp.CategoryResponse{}
	}
	h.Success(c, categories)
}

// Tree godoc
// @ID           getCategoryTree
// @Summary      Category tree
// @Description  Active categories nested under their parents
// @Tags         categories
// @Produce      json
// @Success      200 {object} APIResponse[[]catalog.CategoryTreeNode]
// @Router       /categories/tree [get]
func (h *CategoryHandler) Tree(c *gin.Context) {
	tree, err := h.categoryService.GetTree(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if tree == nil {
		tree = []catalogapp.CategoryTreeNode{}
	}
	h.Success(c, tree)
}

// Get godoc
// @ID           getCategory
// @Summary      Get category by ID
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	h.get(c, false)
}

// AdminGet godoc
// @ID           adminGetCategory
// @Summary      Get any category by ID
// @Tags         admin-categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.CategoryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories/{id} [get]
func (h *CategoryHandler) AdminGet(c *gin.Context) {
	h.get(c, true)
}

func (h *CategoryHandler) get(c *gin.Context, includeInactive bool) {
	id, ok := h.parseUUIDParam(c, "id", "category")
	if !ok {
		return
	}

	category, err := h.categoryService.Get(c.Request.Context(), id, includeInactive)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// Create godoc
// @ID           createCategory
// @Summary      Create a category
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Param        request body catalog.CreateCategoryRequest true "Category"
// @Success      201 {object} APIResponse[catalog.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, category)
}

// Update godoc
// @ID           updateCategory
// @Summary      Update a category
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body catalog.UpdateCategoryRequest true "Category"
// @Success      200 {object} APIResponse[catalog.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "category")
	if !ok {
		return
	}

	var req catalogapp.UpdateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// Activate godoc
// @ID           activateCategory
// @Summary      Activate a category
// @Tags         admin-categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.CategoryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories/{id}/activate [post]
func (h *CategoryHandler) Activate(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "category")
	if !ok {
		return
	}

	category, err := h.categoryService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// Deactivate godoc
// @ID           deactivateCategory
// @Summary      Deactivate a category
// @Tags         admin-categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.CategoryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories/{id}/deactivate [post]
func (h *CategoryHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "category")
	if !ok {
		return
	}

	category, err := h.categoryService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// Delete godoc
// @ID           deleteCategory
// @Summary      Delete a category
// @Description  Refused while the category has children or products
// @Tags         admin-categories
// @Param        id path string true "Category ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id", "category")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
