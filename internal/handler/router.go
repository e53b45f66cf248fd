package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ad-tracker/video-catalog-go/internal/middleware"
	"github.com/ad-tracker/video-catalog-go/internal/service"
	"github.com/ad-tracker/video-catalog-go/internal/validation"
	"github.com/ad-tracker/video-catalog-go/internal/web"
)

// RouterConfig carries the dependencies of NewRouter. A nil Metrics disables
// the metrics middleware and endpoint.
type RouterConfig struct {
	Catalog     *service.CatalogService
	DB          Pinger
	Metrics     *middleware.Metrics
	MetricsPath string
}

// NewRouter wires every route of the service onto a new gin engine.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	static, err := web.Static()
	if err != nil {
		return nil, fmt.Errorf("load static assets: %w", err)
	}

	// JSON binding resolves the youtube_code tag on gin's engine.
	validation.Default()

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.AccessLog(), middleware.Recovery())
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}
	router.SetHTMLTemplate(templates)

	videos := NewVideoHandler(cfg.Catalog)
	categories := NewCategoryHandler(cfg.Catalog)
	forms := NewFormHandler(cfg.Catalog)
	health := NewHealthHandler(cfg.DB)

	router.GET("/", forms.Home)
	router.StaticFS("/static", http.FS(static))

	router.GET("/video", videos.ListVideos)
	router.POST("/video", videos.CreateVideo)
	router.GET("/video/:id", videos.GetVideo)
	router.PUT("/video/:id", videos.UpdateVideo)
	router.DELETE("/video/:id", videos.DeleteVideo)
	router.DELETE("/undelete/:id", videos.RestoreVideo)

	router.GET("/category", categories.ListCategories)
	router.POST("/category", categories.CreateCategory)
	router.GET("/category/:id", categories.GetCategory)
	router.PUT("/category/:id", categories.UpdateCategory)
	router.DELETE("/category/:id", categories.DeleteCategory)

	router.GET("/categorized_video", videos.ListCategorizedVideos)

	router.GET(VideoListPath, forms.VideoList)
	router.GET("/get_form_video_add", forms.AddVideoForm)
	router.POST("/submit_form_video_add", forms.SubmitAddVideo)
	router.GET("/get_form_video_edit/:id", forms.EditVideoForm)
	router.POST("/get_form_video_edit/:id", forms.SubmitEditVideo)
	router.GET("/delete_form_video/:id", forms.DeleteVideo)
	router.POST("/delete_form_video/:id", forms.DeleteVideo)

	router.GET("/health/live", health.LivenessProbe)
	router.GET("/health/ready", health.ReadinessProbe)

	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(cfg.Metrics.Handler()))
	}

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "No route matches "+c.Request.Method+" "+c.Request.URL.Path, nil)
	})

	return router, nil
}
