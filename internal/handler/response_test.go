package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"lostfound/internal/domain"
	"lostfound/internal/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		message  string
		redirect string
	}{
		{"not found through persistence", domain.Persistence(fmt.Errorf("repo.GetByID: %w", domain.ErrNotFound)),
			http.StatusNotFound, "NOT_FOUND", "Report not found.", ""},
		{"unauthenticated", domain.ErrUnauthenticated,
			http.StatusUnauthorized, "UNAUTHENTICATED", "Please log in to continue.", "/login"},
		{"invalid credentials", domain.ErrInvalidCredentials,
			http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password.", ""},
		{"duplicate email", domain.ErrDuplicateEmail,
			http.StatusConflict, "DUPLICATE_EMAIL", "An account with this email already exists.", ""},
		{"too large", domain.ErrFileTooLarge,
			http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Image is too large.", ""},
		{"confirmation", domain.ErrConfirmationRequired,
			http.StatusBadRequest, "CONFIRMATION_REQUIRED", "Please confirm this action.", ""},
		{"transition", fmt.Errorf("%w: created -> draft", domain.ErrInvalidTransition),
			http.StatusConflict, "INVALID_TRANSITION", "This report cannot be changed that way.", ""},
		{"upload", domain.Upload(errors.New("s3: AccessDenied bucket=secret")),
			http.StatusBadGateway, "UPLOAD_FAILED", handler.MsgUploadFailed, ""},
		{"auth", domain.Auth(errors.New("pq: connection refused")),
			http.StatusBadGateway, "AUTH_FAILED", handler.MsgAuthFailed, ""},
		{"persistence", domain.Persistence(errors.New("pq: relation does not exist")),
			http.StatusInternalServerError, "PERSISTENCE_FAILED", handler.MsgPersistenceFailed, ""},
		{"unknown", errors.New("boom"),
			http.StatusInternalServerError, "INTERNAL_ERROR", handler.MsgInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, apiErr := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.redirect, apiErr.Redirect)
			assert.NotContains(t, apiErr.Message, "pq:")
		})
	}
}

func TestMapDomainError_ValidationCarriesFields(t *testing.T) {
	err := &domain.ValidationError{Fields: map[string]string{
		"name":    "Item name must be at least 3 characters",
		"contact": "",
	}}

	status, apiErr := handler.MapDomainError(err)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, "Item name must be at least 3 characters", apiErr.Fields["name"])
}
