package utils

import (
	"errors"
	"net/http"
)

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	ErrNotFound             = errors.New("not_found")
	ErrEmailExists          = errors.New("email_exists")
	ErrInvalidCredentials   = errors.New("invalid_credentials")
	ErrEmailNotVerified     = errors.New("email_not_verified")
	ErrAlreadyVerified      = errors.New("already_verified")
	ErrInvalidToken         = errors.New("invalid_token")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidState         = errors.New("invalid_state")
	ErrUnsupportedMediaType = errors.New("unsupported_media_type")
	ErrFileTooLarge         = errors.New("file_too_large")
	ErrMissingConfiguration = errors.New("missing_configuration")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	// For rate limiting
	ErrRateLimitExceeded = errors.New("rate_limit_exceeded")

	// For external service failures (SendGrid, Twilio, TidyCal, Google Maps)
	ErrExternalServiceFailure = errors.New("external_service_failure")

	ErrNoRowsUpdated = errors.New("no_rows_updated")
)

// AppError carries an HTTP status and public message from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
	Details    any
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Code: ErrCodeNotFound, Message: message, Err: ErrNotFound}
}

func NewBadRequestError(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: ErrCodeInvalidPayload, Message: message, Err: err}
}

func NewConflictError(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusConflict, Code: ErrCodeConflict, Message: message, Err: err}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Code: ErrCodeInternal, Message: message, Err: err}
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Details, appErr.Err)
		return
	}
	switch {
	case errors.Is(err, ErrNotFound):
		RespondErrorWithCode(w, http.StatusNotFound, ErrCodeNotFound, "Resource not found", nil, err)
	case errors.Is(err, ErrRowVersionConflict):
		RespondErrorWithCode(w, http.StatusConflict, ErrCodeRowVersionConflict, "Resource was modified concurrently, retry", nil, err)
	case errors.Is(err, ErrExternalServiceFailure):
		RespondErrorWithCode(w, http.StatusBadGateway, ErrCodeExternalServiceFailure, "Upstream service failed", nil, err)
	default:
		// Fallback for unexpected error types
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
