// Package models contains the request and response DTOs of the catalog HTTP API.
package models

import "time"

// VideoInput is the body of POST /video and of the add/edit video forms.
// CategoryID is a pointer so that a missing key is told apart from 0.
type VideoInput struct {
	Title       string `json:"title" form:"title" binding:"required,min=1,max=128"`
	YouTubeCode string `json:"youtube_code" form:"youtube_code" binding:"required,youtube_code"`
	CategoryID  *int64 `json:"category_id" form:"category_id" binding:"required"`
}

// Category returns the submitted category id, or 0 when none was sent.
func (in VideoInput) Category() int64 {
	if in.CategoryID == nil {
		return 0
	}
	return *in.CategoryID
}

// CategoryInput is the body of POST /category and PUT /category/:id.
type CategoryInput struct {
	Name string `json:"name" form:"name" binding:"required,min=3,max=15"`
}

// DeletedResponse confirms a delete.
type DeletedResponse struct {
	Deleted int64 `json:"Deleted"`
}

// RestoredResponse confirms a restore.
type RestoredResponse struct {
	Restored int64 `json:"Restored"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// ErrorResponse represents an error response.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Path      string            `json:"path"`
	Details   map[string]string `json:"details,omitempty"`
}
