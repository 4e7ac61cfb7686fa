package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lostfound/internal/domain"
	"lostfound/internal/guard"
	"lostfound/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *ListMeta   `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

// ListMeta holds listing metadata.
type ListMeta struct {
	Total int `json:"total"`
	Limit int `json:"limit,omitempty"`
}

// User-facing messages for the error kinds whose detail is only logged.
const (
	MsgAuthFailed        = "Authentication failed. Please try again."
	MsgPersistenceFailed = "Could not save your changes. Please try again."
	MsgUploadFailed      = "Image upload failed. Please try again."
	MsgInternal          = "Something went wrong. Please try again."
)

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondList sends a 200 success response with listing metadata.
func RespondList(c *gin.Context, data interface{}, meta ListMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, apiErr *APIError) {
	c.JSON(status, APIResponse{Success: false, Error: apiErr})
}

// MapDomainError translates an error into an HTTP status and a single
// user-facing message. ErrNotFound is checked before the kinds because
// repositories let it through a persistence wrap.
func MapDomainError(err error) (int, *APIError) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, &APIError{
			Code: "VALIDATION_ERROR", Message: "Please correct the highlighted fields.", Fields: verr.Fields,
		}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, &APIError{Code: "NOT_FOUND", Message: "Report not found."}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, &APIError{
			Code: "UNAUTHENTICATED", Message: "Please log in to continue.", Redirect: guard.LoginPath,
		}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, &APIError{Code: "FORBIDDEN", Message: "You do not have access to this page."}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, &APIError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password."}
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, &APIError{Code: "DUPLICATE_EMAIL", Message: "An account with this email already exists."}
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, &APIError{Code: "FILE_TOO_LARGE", Message: "Image is too large."}
	case errors.Is(err, domain.ErrConfirmationRequired):
		return http.StatusBadRequest, &APIError{Code: "CONFIRMATION_REQUIRED", Message: "Please confirm this action."}
	case errors.Is(err, domain.ErrInvalidTheme):
		return http.StatusBadRequest, &APIError{Code: "INVALID_THEME", Message: "Theme must be light or dark."}
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, &APIError{Code: "INVALID_TRANSITION", Message: "This report cannot be changed that way."}
	case errors.Is(err, domain.ErrUpload):
		return http.StatusBadGateway, &APIError{Code: "UPLOAD_FAILED", Message: MsgUploadFailed}
	case errors.Is(err, domain.ErrAuth):
		return http.StatusBadGateway, &APIError{Code: "AUTH_FAILED", Message: MsgAuthFailed}
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusInternalServerError, &APIError{Code: "PERSISTENCE_FAILED", Message: MsgPersistenceFailed}
	default:
		return http.StatusInternalServerError, &APIError{Code: "INTERNAL_ERROR", Message: MsgInternal}
	}
}

// HandleError maps an error and sends the matching error response. The
// underlying detail is logged, never sent.
func HandleError(c *gin.Context, logger *zap.Logger, err error) {
	status, apiErr := MapDomainError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("request_id", c.GetString(middleware.ContextKeyRequestID)),
			zap.String("code", apiErr.Code),
			zap.Error(err))
	}
	RespondError(c, status, apiErr)
}

// badRequest answers a malformed request body or query.
func badRequest(c *gin.Context, msg string) {
	RespondError(c, http.StatusBadRequest, &APIError{Code: "BAD_REQUEST", Message: msg})
}
