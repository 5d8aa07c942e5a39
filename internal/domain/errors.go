package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling (OCP compliance).
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

// Is implementations so errors.Is() matches the corresponding sentinel
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrStorage      = errors.New("content store failure")
)

// ConflictError represents a resource conflict with details about the existing resource
// Implements HTTPError interface for extensible error handling
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (document, folder)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// StorageError wraps a content-store failure with the operation and key
// that failed. Callers can tell these apart from metadata failures; they
// map to 502 rather than 500.
type StorageError struct {
	Op  string // put, exists, delete, stream
	Key string
	Err error
}

// Error implements the error interface
func (e *StorageError) Error() string {
	return fmt.Sprintf("content store %s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As chains
func (e *StorageError) Unwrap() error {
	return e.Err
}

// StatusCode implements the HTTPError interface
func (e *StorageError) StatusCode() int {
	return http.StatusBadGateway
}

// Is allows errors.Is() to match against ErrStorage
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
