package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/propnest/rental-backend/internal/models"
)

type NoticeRepository interface {
	Create(ctx context.Context, n *models.Notice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notice, error)
	List(ctx context.Context, activeOnly bool, search *string, limit, offset int) ([]*models.Notice, int64, error)
	UpdateIfVersion(ctx context.Context, n *models.Notice, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Notice) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type noticeRepo struct {
	*BaseVersionedRepo[*models.Notice]
	db DB
}

func NewNoticeRepository(db DB) NoticeRepository {
	r := &noticeRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectNotice()+" WHERE id=$1", scanNotice)
	return r
}

func (r *noticeRepo) Create(ctx context.Context, n *models.Notice) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO notices (
            id, title, description, notice_file, file_type, original_filename,
            is_active, created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7, NOW(), NOW(), 1)
    `, n.ID, n.Title, n.Description, n.NoticeFile, n.FileType, n.OriginalFilename, n.IsActive)
	return err
}

func (r *noticeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Notice, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *noticeRepo) List(ctx context.Context, activeOnly bool, search *string, limit, offset int) ([]*models.Notice, int64, error) {
	var w whereBuilder
	if activeOnly {
		w.addRaw("is_active")
	}
	if search != nil {
		w.add("(title ILIKE $%[1]d OR description ILIKE $%[1]d)", like(*search))
	}
	total, err := count(ctx, r.db, "SELECT COUNT(*) FROM notices"+w.sql(), w.args...)
	if err != nil {
		return nil, 0, err
	}
	sql := baseSelectNotice() + w.sql() + " ORDER BY created_at DESC LIMIT " + w.next(limit) + " OFFSET " + w.next(offset)
	out, err := queryAll(ctx, r.db, scanNotice, sql, w.args...)
	return out, total, err
}

func (r *noticeRepo) UpdateIfVersion(ctx context.Context, n *models.Notice, expected int64) (pgconn.CommandTag, error) {
	sql, args := versionedTail(`
        UPDATE notices SET
            title=$1, description=$2, notice_file=$3, file_type=$4,
            original_filename=$5, is_active=$6, updated_at=NOW()`,
		[]any{n.Title, n.Description, n.NoticeFile, n.FileType, n.OriginalFilename, n.IsActive},
		n.ID, true, expected,
	)
	return r.db.Exec(ctx, sql, args...)
}

func (r *noticeRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Notice) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *noticeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "notices", id)
}

func baseSelectNotice() string {
	return `
        SELECT id, title, description, notice_file, file_type, original_filename,
               is_active, created_at, updated_at, row_version
        FROM notices
    `
}

func scanNotice(row pgx.Row) (*models.Notice, error) {
	var n models.Notice
	err := row.Scan(
		&n.ID, &n.Title, &n.Description, &n.NoticeFile, &n.FileType, &n.OriginalFilename,
		&n.IsActive, &n.CreatedAt, &n.UpdatedAt, &n.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}
