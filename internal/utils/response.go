package utils

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

const (
	ErrCodeInvalidPayload         = "invalid_payload"
	ErrCodeValidation             = "validation_error"
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeForbidden              = "forbidden"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeInvalidCredentials     = "invalid_credentials"
	ErrCodeEmailNotVerified       = "email_not_verified"
	ErrCodeInternal               = "internal_server_error"
	ErrCodeNotFound               = "not_found"
	ErrCodeConflict               = "conflict"
	ErrCodeRowVersionConflict     = "row_version_conflict"
	ErrCodeRateLimitExceeded      = "rate_limit_exceeded"
	ErrCodeExternalServiceFailure = "external_service_failure"
)

// ErrorResponse carries an optional `Details` field for structured info
// such as validation failures.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// RespondErrorWithCode builds a JSON error response with a standard
// code and message. The optional `details` is included if non-nil.
func RespondErrorWithCode(
	w http.ResponseWriter,
	status int,
	errorCode string,
	publicMessage string,
	details any,
	devErrs ...error,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errBody := ErrorResponse{
		Code:    errorCode,
		Message: publicMessage,
	}
	if details != nil {
		errBody.Details = details
	}
	_ = json.NewEncoder(w).Encode(errBody)

	entry := Logger.WithField("status", status)
	if len(devErrs) > 0 && devErrs[0] != nil {
		entry = entry.WithField("error", devErrs[0].Error())
	}
	if status >= http.StatusInternalServerError {
		entry.Error(publicMessage)
	} else {
		entry.Warn(publicMessage)
	}
}

// RespondWithJSON for successful cases
func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// logFields is a small helper so callers can attach structured context
// without importing logrus directly.
func LogFields(fields map[string]any) *logrus.Entry {
	return Logger.WithFields(logrus.Fields(fields))
}
