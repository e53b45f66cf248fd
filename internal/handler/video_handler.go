package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	dbmodels "github.com/ad-tracker/video-catalog-go/internal/db/models"
	"github.com/ad-tracker/video-catalog-go/internal/models"
	"github.com/ad-tracker/video-catalog-go/internal/service"
)

// VideoHandler serves the JSON video endpoints.
type VideoHandler struct {
	catalog *service.CatalogService
}

// NewVideoHandler creates a new VideoHandler instance.
func NewVideoHandler(catalog *service.CatalogService) *VideoHandler {
	return &VideoHandler{catalog: catalog}
}

// ListVideos handles GET /video.
func (h *VideoHandler) ListVideos(c *gin.Context) {
	videos, err := h.catalog.ListVideos(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

// GetVideo handles GET /video/:id.
func (h *VideoHandler) GetVideo(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	video, err := h.catalog.GetVideo(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// CreateVideo handles POST /video.
func (h *VideoHandler) CreateVideo(c *gin.Context) {
	var input models.VideoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handleBindError(c, err)
		return
	}

	video, err := h.catalog.CreateVideo(c.Request.Context(), &input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, video)
}

// UpdateVideo handles PUT /video/:id. Only the keys present in the body are
// applied.
func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	patch := dbmodels.NewVideoPatch()
	if err := c.ShouldBindJSON(patch); err != nil {
		handleBindError(c, err)
		return
	}

	video, err := h.catalog.UpdateVideo(c.Request.Context(), id, patch)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// DeleteVideo handles DELETE /video/:id.
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if err := h.catalog.DeleteVideo(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.DeletedResponse{Deleted: id})
}

// RestoreVideo handles DELETE /undelete/:id.
func (h *VideoHandler) RestoreVideo(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if err := h.catalog.RestoreVideo(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.RestoredResponse{Restored: id})
}

// ListCategorizedVideos handles GET /categorized_video.
func (h *VideoHandler) ListCategorizedVideos(c *gin.Context) {
	videos, err := h.catalog.ListCategorizedVideos(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}
