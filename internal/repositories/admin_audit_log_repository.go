package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/propnest/rental-backend/internal/models"
)

type AdminAuditLogRepository interface {
	Create(ctx context.Context, logEntry *models.AdminAuditLog) error
	ListForTarget(ctx context.Context, targetID uuid.UUID) ([]*models.AdminAuditLog, error)
}

type adminAuditLogRepo struct {
	db DB
}

func NewAdminAuditLogRepository(db DB) AdminAuditLogRepository {
	return &adminAuditLogRepo{db: db}
}

func (r *adminAuditLogRepo) Create(ctx context.Context, logEntry *models.AdminAuditLog) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO admin_audit_logs (
            id, admin_id, action, target_id, target_type, details, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, NOW())
    `,
		logEntry.ID, logEntry.AdminID, logEntry.Action, logEntry.TargetID, logEntry.TargetType, logEntry.Details,
	)
	return err
}

func (r *adminAuditLogRepo) ListForTarget(ctx context.Context, targetID uuid.UUID) ([]*models.AdminAuditLog, error) {
	return queryAll(ctx, r.db, func(row pgx.Row) (*models.AdminAuditLog, error) {
		var l models.AdminAuditLog
		err := row.Scan(&l.ID, &l.AdminID, &l.Action, &l.TargetID, &l.TargetType, &l.Details, &l.CreatedAt)
		return &l, err
	}, `
        SELECT id, admin_id, action, target_id, target_type, details, created_at
        FROM admin_audit_logs WHERE target_id=$1 ORDER BY created_at DESC
    `, targetID)
}
