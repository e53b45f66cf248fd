// Package handler provides HTTP request handlers for the application.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ad-tracker/video-catalog-go/internal/models"
	"github.com/ad-tracker/video-catalog-go/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger checks a dependency. *pgxpool.Pool implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// LivenessProbe checks if the application is running.
func (h *HealthHandler) LivenessProbe(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "UP"})
}

// ReadinessProbe checks if the database answers.
func (h *HealthHandler) ReadinessProbe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		logger.Log.Warn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, models.HealthResponse{
			Status:   "DOWN",
			Checks:   map[string]string{"database": "unhealthy"},
			Duration: time.Since(start).String(),
		})
		return
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:   "UP",
		Checks:   map[string]string{"database": "healthy"},
		Duration: time.Since(start).String(),
	})
}
