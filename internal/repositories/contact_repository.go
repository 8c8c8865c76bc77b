package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/propnest/rental-backend/internal/models"
)

type ContactRepository interface {
	Create(ctx context.Context, c *models.ContactUs) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ContactUs, error)
	List(ctx context.Context, status *models.ContactStatus, limit, offset int) ([]*models.ContactUs, int64, error)
	CountByStatus(ctx context.Context, status models.ContactStatus) (int64, error)
	UpdateIfVersion(ctx context.Context, c *models.ContactUs, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ContactUs) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type contactRepo struct {
	*BaseVersionedRepo[*models.ContactUs]
	db DB
}

func NewContactRepository(db DB) ContactRepository {
	r := &contactRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectContact()+" WHERE id=$1", scanContact)
	return r
}

func (r *contactRepo) Create(ctx context.Context, c *models.ContactUs) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO contact_us (
            id, full_name, email, phone, message, status, created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6, NOW(), NOW(), 1)
    `, c.ID, c.FullName, c.Email, c.Phone, c.Message, c.Status)
	return err
}

func (r *contactRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactUs, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *contactRepo) List(ctx context.Context, status *models.ContactStatus, limit, offset int) ([]*models.ContactUs, int64, error) {
	var w whereBuilder
	if status != nil {
		w.add("status=$%d", *status)
	}
	total, err := count(ctx, r.db, "SELECT COUNT(*) FROM contact_us"+w.sql(), w.args...)
	if err != nil {
		return nil, 0, err
	}
	sql := baseSelectContact() + w.sql() + " ORDER BY created_at DESC LIMIT " + w.next(limit) + " OFFSET " + w.next(offset)
	out, err := queryAll(ctx, r.db, scanContact, sql, w.args...)
	return out, total, err
}

func (r *contactRepo) CountByStatus(ctx context.Context, status models.ContactStatus) (int64, error) {
	return count(ctx, r.db, "SELECT COUNT(*) FROM contact_us WHERE status=$1", status)
}

func (r *contactRepo) UpdateIfVersion(ctx context.Context, c *models.ContactUs, expected int64) (pgconn.CommandTag, error) {
	sql, args := versionedTail(`
        UPDATE contact_us SET
            status=$1, admin_reply=$2, admin_reply_date=$3, updated_at=NOW()`,
		[]any{c.Status, c.AdminReply, c.AdminReplyDate},
		c.ID, true, expected,
	)
	return r.db.Exec(ctx, sql, args...)
}

func (r *contactRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ContactUs) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *contactRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "contact_us", id)
}

func baseSelectContact() string {
	return `
        SELECT id, full_name, email, phone, message, status, admin_reply,
               admin_reply_date, created_at, updated_at, row_version
        FROM contact_us
    `
}

func scanContact(row pgx.Row) (*models.ContactUs, error) {
	var c models.ContactUs
	err := row.Scan(
		&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Message, &c.Status, &c.AdminReply,
		&c.AdminReplyDate, &c.CreatedAt, &c.UpdatedAt, &c.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
