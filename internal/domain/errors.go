package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrCycle        = errors.New("cycle detected")
	ErrIntegrity    = errors.New("integrity violation")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Resource string
		Key      string
	}

	// ValidationError indicates invalid input, rejected before any write
	ValidationError struct {
		Field   string
		Message string
	}

	// CycleError indicates a move that would make a category its own ancestor
	CycleError struct {
		CategoryID int64
		TargetID   int64
	}

	// ConflictError represents a resource conflict with details about the blocking resource
	ConflictError struct {
		Message      string
		ResourceType string
		ResourceID   string
	}

	// IntegrityError reports stored data that breaks a structural invariant.
	// It is never repaired in place; a maintenance run is required.
	IntegrityError struct {
		Violations []string
	}
)

func NewNotFound(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

func NewValidation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *CycleError) Error() string {
	if e.CategoryID == e.TargetID {
		return fmt.Sprintf("category %d cannot be its own parent", e.CategoryID)
	}
	return fmt.Sprintf("category %d cannot move under its descendant %d", e.CategoryID, e.TargetID)
}

func (e *ConflictError) Error() string { return e.Message }

func (e *IntegrityError) Error() string {
	switch len(e.Violations) {
	case 0:
		return "integrity violation"
	case 1:
		return "integrity violation: " + e.Violations[0]
	default:
		return fmt.Sprintf("integrity violation: %s (and %d more)", e.Violations[0], len(e.Violations)-1)
	}
}

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *CycleError) StatusCode() int      { return http.StatusBadRequest }
func (e *ConflictError) StatusCode() int   { return http.StatusConflict }
func (e *IntegrityError) StatusCode() int  { return http.StatusInternalServerError }

// Is allows errors.Is() to match typed errors against their sentinels
func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *CycleError) Is(target error) bool      { return target == ErrCycle }
func (e *ConflictError) Is(target error) bool   { return target == ErrConflict }
func (e *IntegrityError) Is(target error) bool  { return target == ErrIntegrity }
