package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/middleware"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

// AuditLogger records admin mutations. The actor is the authenticated user
// on ctx; anonymous calls are not recorded. A nil *AuditLogger is a no-op.
type AuditLogger struct {
	repo repositories.AdminAuditLogRepository
}

func NewAuditLogger(repo repositories.AdminAuditLogRepository) *AuditLogger {
	return &AuditLogger{repo: repo}
}

func (a *AuditLogger) Record(
	ctx context.Context,
	action models.AuditAction,
	targetType models.AuditTargetType,
	targetID uuid.UUID,
	details any,
) {
	if a == nil {
		return
	}
	adminID, err := uuid.Parse(middleware.UserIDFromContext(ctx))
	if err != nil {
		return
	}

	entry := &models.AdminAuditLog{
		ID:         uuid.New(),
		AdminID:    adminID,
		Action:     action,
		TargetID:   targetID,
		TargetType: targetType,
		CreatedAt:  time.Now().UTC(),
	}
	if details != nil {
		if raw, mErr := json.Marshal(details); mErr == nil {
			msg := json.RawMessage(raw)
			entry.Details = &msg
		}
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to write audit log for %s %s", targetType, targetID)
	}
}

// actorID returns the authenticated user id on ctx, if any.
func actorID(ctx context.Context) *uuid.UUID {
	id, err := uuid.Parse(middleware.UserIDFromContext(ctx))
	if err != nil {
		return nil
	}
	return &id
}
