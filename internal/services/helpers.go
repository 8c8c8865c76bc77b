package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/propnest/rental-backend/internal/utils"
)

const dateLayout = "2006-01-02"

// notFoundOr turns pgx.ErrNoRows from deletes and retried updates into a 404.
func notFoundOr(err error, message string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return utils.NewNotFoundError(message)
	}
	return err
}

// mediaError maps media processing failures onto a 400.
func mediaError(err error, what string) error {
	if errors.Is(err, utils.ErrUnsupportedMediaType) || errors.Is(err, utils.ErrFileTooLarge) {
		return utils.NewBadRequestError(fmt.Sprintf("%s processing failed: %v", what, err), err)
	}
	return err
}

func badRequest(message string) *utils.AppError {
	return &utils.AppError{StatusCode: http.StatusBadRequest, Code: utils.ErrCodeInvalidPayload, Message: message}
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*raw))
	if err != nil {
		return nil, utils.NewBadRequestError("Dates must use the YYYY-MM-DD format", err)
	}
	return &t, nil
}

// today is midnight UTC of now.
func today(now time.Time) time.Time {
	return now.UTC().Truncate(24 * time.Hour)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }
