package service

import (
	"fmt"
	"strings"
)

// NotFoundError reports a missing (or soft-deleted) resource.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ConflictError reports a write refused because of existing data.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// ValidationError represents a payload that breaks a field constraint.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed: " + strings.TrimSpace(fmt.Sprint(e.Fields))
}
