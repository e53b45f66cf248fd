package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ad-tracker/video-catalog-go/internal/models"
	"github.com/ad-tracker/video-catalog-go/internal/service"
)

// CategoryHandler serves the JSON category endpoints.
type CategoryHandler struct {
	catalog *service.CatalogService
}

// NewCategoryHandler creates a new CategoryHandler instance.
func NewCategoryHandler(catalog *service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

// ListCategories handles GET /category.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory handles POST /category.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var input models.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handleBindError(c, err)
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), &input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// GetCategory handles GET /category/:id.
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	category, err := h.catalog.GetCategory(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// UpdateCategory handles PUT /category/:id.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	var input models.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handleBindError(c, err)
		return
	}

	category, err := h.catalog.UpdateCategory(c.Request.Context(), id, &input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /category/:id.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if err := h.catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.DeletedResponse{Deleted: id})
}
