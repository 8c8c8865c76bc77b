package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/propnest/rental-backend/internal/models"
)

type TeamRepository interface {
	Create(ctx context.Context, t *models.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	GetByEmail(ctx context.Context, email string) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	UpdateIfVersion(ctx context.Context, t *models.Team, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Team) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type teamRepo struct {
	*BaseVersionedRepo[*models.Team]
	db DB
}

func NewTeamRepository(db DB) TeamRepository {
	r := &teamRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectTeam()+" WHERE id=$1", scanTeam)
	return r
}

func (r *teamRepo) Create(ctx context.Context, t *models.Team) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO team (
            id, name, age, email, photo, description, phone, position_name,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW(), NOW(), 1)
    `, t.ID, t.Name, t.Age, t.Email, t.Photo, t.Description, t.Phone, t.PositionName)
	return err
}

func (r *teamRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *teamRepo) GetByEmail(ctx context.Context, email string) (*models.Team, error) {
	return scanTeam(r.db.QueryRow(ctx, baseSelectTeam()+" WHERE LOWER(email)=LOWER($1)", email))
}

func (r *teamRepo) List(ctx context.Context) ([]*models.Team, error) {
	return queryAll(ctx, r.db, scanTeam, baseSelectTeam()+" ORDER BY created_at")
}

func (r *teamRepo) UpdateIfVersion(ctx context.Context, t *models.Team, expected int64) (pgconn.CommandTag, error) {
	sql, args := versionedTail(`
        UPDATE team SET
            name=$1, age=$2, email=$3, photo=$4, description=$5, phone=$6,
            position_name=$7, updated_at=NOW()`,
		[]any{t.Name, t.Age, t.Email, t.Photo, t.Description, t.Phone, t.PositionName},
		t.ID, true, expected,
	)
	return r.db.Exec(ctx, sql, args...)
}

func (r *teamRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Team) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *teamRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "team", id)
}

func baseSelectTeam() string {
	return `
        SELECT id, name, age, email, photo, description, phone, position_name,
               created_at, updated_at, row_version
        FROM team
    `
}

func scanTeam(row pgx.Row) (*models.Team, error) {
	var t models.Team
	err := row.Scan(
		&t.ID, &t.Name, &t.Age, &t.Email, &t.Photo, &t.Description, &t.Phone, &t.PositionName,
		&t.CreatedAt, &t.UpdatedAt, &t.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
