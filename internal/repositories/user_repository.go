package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/propnest/rental-backend/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListAdmins(ctx context.Context) ([]*models.User, error)
	UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error
}

type userRepo struct {
	*BaseVersionedRepo[*models.User]
	db DB
}

func NewUserRepository(db DB) UserRepository {
	r := &userRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectUser()+" WHERE id=$1", scanUser)
	return r
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (
            id, full_name, email, password_hash, phone, role, is_verified,
            profile_photo, created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW(), NOW(), 1)
    `,
		u.ID, u.FullName, u.Email, u.PasswordHash, u.Phone, u.Role, u.IsVerified, u.ProfilePhoto,
	)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx, baseSelectUser()+" WHERE LOWER(email)=LOWER($1)", email))
}

func (r *userRepo) ListAdmins(ctx context.Context) ([]*models.User, error) {
	return queryAll(ctx, r.db, scanUser,
		baseSelectUser()+" WHERE role = ANY($1) ORDER BY created_at",
		models.AdminRoleNames(),
	)
}

func (r *userRepo) UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	sql, args := versionedTail(`
        UPDATE users SET
            full_name=$1, phone=$2, password_hash=$3, is_verified=$4,
            profile_photo=$5, role=$6, updated_at=NOW()`,
		[]any{u.FullName, u.Phone, u.PasswordHash, u.IsVerified, u.ProfilePhoto, u.Role},
		u.ID, true, expected,
	)
	return r.db.Exec(ctx, sql, args...)
}

func (r *userRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func baseSelectUser() string {
	return `
        SELECT
            id, full_name, email, password_hash, phone, role, is_verified,
            profile_photo, created_at, updated_at, row_version
        FROM users
    `
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.IsVerified,
		&u.ProfilePhoto, &u.CreatedAt, &u.UpdatedAt, &u.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
