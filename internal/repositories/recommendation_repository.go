package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/propnest/rental-backend/internal/models"
)

type RecommendationFilter struct {
	Status   *string
	Priority *string
	Limit    int
	Offset   int
}

type RecommendationRepository interface {
	Create(ctx context.Context, p *models.PropertyRecommendation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PropertyRecommendation, error)
	ListByEmail(ctx context.Context, email string) ([]*models.PropertyRecommendation, error)
	List(ctx context.Context, f RecommendationFilter) ([]*models.PropertyRecommendation, int64, error)
	UpdateIfVersion(ctx context.Context, p *models.PropertyRecommendation, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.PropertyRecommendation) error) error
}

type recommendationRepo struct {
	*BaseVersionedRepo[*models.PropertyRecommendation]
	db DB
}

func NewRecommendationRepository(db DB) RecommendationRepository {
	r := &recommendationRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectRecommendation()+" WHERE id=$1", scanRecommendation)
	return r
}

func (r *recommendationRepo) Create(ctx context.Context, p *models.PropertyRecommendation) error {
	props, err := jsonb(p.RecommendedProperties)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO property_recommendations (
            id, user_email, user_name, user_phone, screening_id, budget_min, budget_max,
            preferred_location, bedrooms_required, bathrooms_required,
            property_type_preference, move_in_date, recommended_properties, match_score,
            status, email_sent, admin_reviewed, priority_level,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12::date,$13,$14,$15,$16,$17,$18, NOW(), NOW(), 1)
    `,
		p.ID, p.UserEmail, p.UserName, p.UserPhone, p.ScreeningID, p.Criteria.BudgetMin, p.Criteria.BudgetMax,
		p.Criteria.Location, p.Criteria.Bedrooms, p.Criteria.Bathrooms,
		p.Criteria.PropertyType, p.Criteria.MoveInDate, props, p.MatchScore,
		p.Status, p.EmailSent, p.AdminReviewed, p.PriorityLevel,
	)
	return err
}

func (r *recommendationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PropertyRecommendation, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *recommendationRepo) ListByEmail(ctx context.Context, email string) ([]*models.PropertyRecommendation, error) {
	return queryAll(ctx, r.db, scanRecommendation,
		baseSelectRecommendation()+" WHERE LOWER(user_email)=LOWER($1) ORDER BY created_at DESC", email)
}

func (r *recommendationRepo) List(ctx context.Context, f RecommendationFilter) ([]*models.PropertyRecommendation, int64, error) {
	var w whereBuilder
	if f.Status != nil {
		w.add("status=$%d", *f.Status)
	}
	if f.Priority != nil {
		w.add("priority_level=$%d", *f.Priority)
	}
	total, err := count(ctx, r.db, "SELECT COUNT(*) FROM property_recommendations"+w.sql(), w.args...)
	if err != nil {
		return nil, 0, err
	}
	sql := baseSelectRecommendation() + w.sql() + " ORDER BY created_at DESC LIMIT " + w.next(f.Limit) + " OFFSET " + w.next(f.Offset)
	out, err := queryAll(ctx, r.db, scanRecommendation, sql, w.args...)
	return out, total, err
}

func (r *recommendationRepo) UpdateIfVersion(ctx context.Context, p *models.PropertyRecommendation, expected int64) (pgconn.CommandTag, error) {
	sql, args := versionedTail(`
        UPDATE property_recommendations SET
            status=$1, email_sent=$2, email_sent_at=$3, user_response=$4,
            user_responded_at=$5, admin_reviewed=$6, admin_notes=$7,
            priority_level=$8, updated_at=NOW()`,
		[]any{
			p.Status, p.EmailSent, p.EmailSentAt, p.UserResponse,
			p.UserRespondedAt, p.AdminReviewed, p.AdminNotes, p.PriorityLevel,
		},
		p.ID, true, expected,
	)
	return r.db.Exec(ctx, sql, args...)
}

func (r *recommendationRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.PropertyRecommendation) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func baseSelectRecommendation() string {
	return `
        SELECT id, user_email, user_name, user_phone, screening_id, budget_min, budget_max,
               preferred_location, bedrooms_required, bathrooms_required,
               property_type_preference, move_in_date::text, recommended_properties, match_score,
               status, email_sent, email_sent_at, user_response, user_responded_at,
               admin_reviewed, admin_notes, priority_level, created_at, updated_at, row_version
        FROM property_recommendations
    `
}

func scanRecommendation(row pgx.Row) (*models.PropertyRecommendation, error) {
	var p models.PropertyRecommendation
	var props []byte
	err := row.Scan(
		&p.ID, &p.UserEmail, &p.UserName, &p.UserPhone, &p.ScreeningID, &p.Criteria.BudgetMin, &p.Criteria.BudgetMax,
		&p.Criteria.Location, &p.Criteria.Bedrooms, &p.Criteria.Bathrooms,
		&p.Criteria.PropertyType, &p.Criteria.MoveInDate, &props, &p.MatchScore,
		&p.Status, &p.EmailSent, &p.EmailSentAt, &p.UserResponse, &p.UserRespondedAt,
		&p.AdminReviewed, &p.AdminNotes, &p.PriorityLevel, &p.CreatedAt, &p.UpdatedAt, &p.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := unjsonb(props, &p.RecommendedProperties); err != nil {
		return nil, err
	}
	return &p, nil
}
