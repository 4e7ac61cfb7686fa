package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthenticated      = errors.New("authentication required")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrInvalidTransition    = errors.New("invalid state transition")
	ErrConfirmationRequired = errors.New("destructive action requires confirmation")
	ErrInvalidTheme         = errors.New("unsupported theme")
)

// Error kinds. Adapters return plain errors; the lifecycle controller and
// auth service wrap them with one of these so the transport can pick a
// single user-facing message.
var (
	ErrValidation   = errors.New("validation failed")
	ErrAuth         = errors.New("authentication failed")
	ErrPersistence  = errors.New("persistence failed")
	ErrUpload       = errors.New("upload failed")
	ErrNotification = errors.New("notification failed")
)

// ValidationError carries per-field messages. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Persistence tags err as a store failure. Sentinel errors that callers
// branch on (ErrNotFound) stay reachable through errors.Is.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// Upload tags err as an object storage failure.
func Upload(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUpload, err)
}

// Auth tags err as an identity failure.
func Auth(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrAuth, err)
}

// NotificationFailed tags err as an email dispatch failure.
func NotificationFailed(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrNotification, err)
}
