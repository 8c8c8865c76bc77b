package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/propnest/rental-backend/internal/models"
)

type MaintenanceRepository interface {
	Create(ctx context.Context, m *models.MaintenanceRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceRequest, error)
	List(ctx context.Context, status *models.MaintenanceStatus, limit, offset int) ([]*models.MaintenanceRequest, int64, error)
	CountByStatus(ctx context.Context, status models.MaintenanceStatus) (int64, error)
	UpdateIfVersion(ctx context.Context, m *models.MaintenanceRequest, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.MaintenanceRequest) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type maintenanceRepo struct {
	*BaseVersionedRepo[*models.MaintenanceRequest]
	db DB
}

func NewMaintenanceRepository(db DB) MaintenanceRepository {
	r := &maintenanceRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectMaintenance()+" WHERE id=$1", scanMaintenance)
	return r
}

func (r *maintenanceRepo) Create(ctx context.Context, m *models.MaintenanceRequest) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO maintenance_requests (
            id, tenant_name, tenant_phone, tenant_email, property_address, property_unit,
            issue_title, issue_description, priority, contractor_email, contractor_name,
            contractor_phone, photos, status, estimated_cost, notes, created_by_admin,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17, NOW(), NOW(), 1)
    `,
		m.ID, m.TenantName, m.TenantPhone, m.TenantEmail, m.PropertyAddress, m.PropertyUnit,
		m.IssueTitle, m.IssueDescription, m.Priority, m.ContractorEmail, m.ContractorName,
		m.ContractorPhone, nonNil(m.Photos), m.Status, m.EstimatedCost, m.Notes, m.CreatedByAdmin,
	)
	return err
}

func (r *maintenanceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceRequest, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *maintenanceRepo) List(ctx context.Context, status *models.MaintenanceStatus, limit, offset int) ([]*models.MaintenanceRequest, int64, error) {
	var w whereBuilder
	if status != nil {
		w.add("status=$%d", *status)
	}
	total, err := count(ctx, r.db, "SELECT COUNT(*) FROM maintenance_requests"+w.sql(), w.args...)
	if err != nil {
		return nil, 0, err
	}
	sql := baseSelectMaintenance() + w.sql() + " ORDER BY created_at DESC LIMIT " + w.next(limit) + " OFFSET " + w.next(offset)
	out, err := queryAll(ctx, r.db, scanMaintenance, sql, w.args...)
	return out, total, err
}

func (r *maintenanceRepo) CountByStatus(ctx context.Context, status models.MaintenanceStatus) (int64, error) {
	return count(ctx, r.db, "SELECT COUNT(*) FROM maintenance_requests WHERE status=$1", status)
}

func (r *maintenanceRepo) UpdateIfVersion(ctx context.Context, m *models.MaintenanceRequest, expected int64) (pgconn.CommandTag, error) {
	sql, args := versionedTail(`
        UPDATE maintenance_requests SET
            tenant_name=$1, tenant_phone=$2, tenant_email=$3, property_address=$4,
            property_unit=$5, issue_title=$6, issue_description=$7, priority=$8,
            contractor_email=$9, contractor_name=$10, contractor_phone=$11, photos=$12,
            status=$13, estimated_cost=$14, notes=$15, sent_at=$16, completed_at=$17,
            updated_at=NOW()`,
		[]any{
			m.TenantName, m.TenantPhone, m.TenantEmail, m.PropertyAddress,
			m.PropertyUnit, m.IssueTitle, m.IssueDescription, m.Priority,
			m.ContractorEmail, m.ContractorName, m.ContractorPhone, nonNil(m.Photos),
			m.Status, m.EstimatedCost, m.Notes, m.SentAt, m.CompletedAt,
		},
		m.ID, true, expected,
	)
	return r.db.Exec(ctx, sql, args...)
}

func (r *maintenanceRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.MaintenanceRequest) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *maintenanceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "maintenance_requests", id)
}

func baseSelectMaintenance() string {
	return `
        SELECT id, tenant_name, tenant_phone, tenant_email, property_address, property_unit,
               issue_title, issue_description, priority, contractor_email, contractor_name,
               contractor_phone, photos, status, estimated_cost, notes, created_by_admin,
               sent_at, completed_at, created_at, updated_at, row_version
        FROM maintenance_requests
    `
}

func scanMaintenance(row pgx.Row) (*models.MaintenanceRequest, error) {
	var m models.MaintenanceRequest
	err := row.Scan(
		&m.ID, &m.TenantName, &m.TenantPhone, &m.TenantEmail, &m.PropertyAddress, &m.PropertyUnit,
		&m.IssueTitle, &m.IssueDescription, &m.Priority, &m.ContractorEmail, &m.ContractorName,
		&m.ContractorPhone, &m.Photos, &m.Status, &m.EstimatedCost, &m.Notes, &m.CreatedByAdmin,
		&m.SentAt, &m.CompletedAt, &m.CreatedAt, &m.UpdatedAt, &m.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}
