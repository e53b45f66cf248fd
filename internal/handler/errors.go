package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ad-tracker/video-catalog-go/internal/models"
	"github.com/ad-tracker/video-catalog-go/internal/service"
	"github.com/ad-tracker/video-catalog-go/internal/validation"
	"github.com/ad-tracker/video-catalog-go/pkg/logger"
)

// errInvalidID is returned by parseID for ids that are not integers. Any
// integer is passed on, so unknown ids answer 404 like any other miss.
var errInvalidID = errors.New("id must be an integer")

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errInvalidID
	}
	return id, nil
}

func respondError(c *gin.Context, status int, message string, details map[string]string) {
	c.JSON(status, models.ErrorResponse{
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
		Details:   details,
	})
}

// handleBindError answers a body that could not be bound: constraint
// failures get 422 with per-field details, anything else 400.
func handleBindError(c *gin.Context, err error) {
	if fields, ok := validation.AsFieldErrors(err); ok {
		logger.Log.Debug("Request validation failed",
			zap.String("path", c.Request.URL.Path),
			zap.Any("fields", fields),
		)
		respondError(c, http.StatusUnprocessableEntity, "Request validation failed", fields)
		return
	}

	logger.Log.Warn("Invalid request payload",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)
	respondError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error(), nil)
}

func handleServiceError(c *gin.Context, err error) {
	var (
		notFound *service.NotFoundError
		conflict *service.ConflictError
		invalid  *service.ValidationError
	)

	switch {
	case errors.As(err, &notFound):
		respondError(c, http.StatusNotFound, err.Error(), nil)
	case errors.As(err, &conflict):
		respondError(c, http.StatusForbidden, err.Error(), nil)
	case errors.As(err, &invalid):
		message := "Request validation failed"
		if len(invalid.Fields) == 0 {
			message = invalid.Error()
		}
		respondError(c, http.StatusUnprocessableEntity, message, invalid.Fields)
	case errors.Is(err, errInvalidID):
		respondError(c, http.StatusBadRequest, err.Error(), nil)
	default:
		logger.Log.Error("Unexpected error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "An unexpected error occurred", nil)
	}
}
