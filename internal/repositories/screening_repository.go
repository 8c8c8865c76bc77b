package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/propnest/rental-backend/internal/models"
)

type ScreeningRepository interface {
	// InTx runs fn with a repository bound to a single transaction.
	InTx(ctx context.Context, fn func(ScreeningRepository) error) error

	CreateQuestion(ctx context.Context, q *models.ScreeningQuestion) error
	GetQuestion(ctx context.Context, id uuid.UUID) (*models.ScreeningQuestion, error)
	ListQuestions(ctx context.Context, activeOnly bool) ([]*models.ScreeningQuestion, error)
	MaxOrder(ctx context.Context) (int, error)
	ShiftOrdersFrom(ctx context.Context, order int) error
	CompactOrdersAfter(ctx context.Context, order int) error
	UpdateQuestionIfVersion(ctx context.Context, q *models.ScreeningQuestion, expected int64) (pgconn.CommandTag, error)
	UpdateQuestionWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ScreeningQuestion) error) error
	DeleteQuestion(ctx context.Context, id uuid.UUID) error

	CreateResponse(ctx context.Context, r *models.ScreeningResponse) error
	CreateAnswer(ctx context.Context, a *models.ScreeningAnswer) error
	GetResponse(ctx context.Context, id uuid.UUID) (*models.ScreeningResponse, error)
	ListResponses(ctx context.Context, search *string, limit, offset int) ([]*models.ScreeningResponse, int64, error)
	UpdateResponseIfVersion(ctx context.Context, r *models.ScreeningResponse, expected int64) (pgconn.CommandTag, error)
	UpdateResponseWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ScreeningResponse) error) error
	DeleteResponse(ctx context.Context, id uuid.UUID) error
}

type screeningRepo struct {
	questions *BaseVersionedRepo[*models.ScreeningQuestion]
	responses *BaseVersionedRepo[*models.ScreeningResponse]
	db        DB
}

func NewScreeningRepository(db DB) ScreeningRepository {
	return &screeningRepo{
		questions: NewBaseRepo(db, baseSelectQuestion()+" WHERE id=$1", scanQuestion),
		responses: NewBaseRepo(db, baseSelectResponse()+" WHERE id=$1", scanResponse),
		db:        db,
	}
}

func (r *screeningRepo) InTx(ctx context.Context, fn func(ScreeningRepository) error) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(NewScreeningRepository(tx))
	})
}

/* ---------------- questions ---------------- */

func (r *screeningRepo) CreateQuestion(ctx context.Context, q *models.ScreeningQuestion) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO screening_questions (
            id, question_text, question_type, is_required, "order", placeholder_text,
            is_active, created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7, NOW(), NOW(), 1)
    `, q.ID, q.QuestionText, q.QuestionType, q.IsRequired, q.Order, q.PlaceholderText, q.IsActive)
	return err
}

func (r *screeningRepo) GetQuestion(ctx context.Context, id uuid.UUID) (*models.ScreeningQuestion, error) {
	return r.questions.GetByID(ctx, id.String())
}

func (r *screeningRepo) ListQuestions(ctx context.Context, activeOnly bool) ([]*models.ScreeningQuestion, error) {
	sql := baseSelectQuestion()
	if activeOnly {
		sql += " WHERE is_active"
	}
	return queryAll(ctx, r.db, scanQuestion, sql+` ORDER BY "order", created_at`)
}

func (r *screeningRepo) MaxOrder(ctx context.Context) (int, error) {
	var max int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX("order"), 0) FROM screening_questions`).Scan(&max)
	return max, err
}

func (r *screeningRepo) ShiftOrdersFrom(ctx context.Context, order int) error {
	_, err := r.db.Exec(ctx, `
        UPDATE screening_questions SET "order"="order"+1, row_version=row_version+1, updated_at=NOW()
        WHERE "order" >= $1
    `, order)
	return err
}

func (r *screeningRepo) CompactOrdersAfter(ctx context.Context, order int) error {
	_, err := r.db.Exec(ctx, `
        UPDATE screening_questions SET "order"="order"-1, row_version=row_version+1, updated_at=NOW()
        WHERE "order" > $1
    `, order)
	return err
}

func (r *screeningRepo) UpdateQuestionIfVersion(ctx context.Context, q *models.ScreeningQuestion, expected int64) (pgconn.CommandTag, error) {
	sql, args := versionedTail(`
        UPDATE screening_questions SET
            question_text=$1, question_type=$2, is_required=$3, "order"=$4,
            placeholder_text=$5, is_active=$6, updated_at=NOW()`,
		[]any{q.QuestionText, q.QuestionType, q.IsRequired, q.Order, q.PlaceholderText, q.IsActive},
		q.ID, true, expected,
	)
	return r.db.Exec(ctx, sql, args...)
}

func (r *screeningRepo) UpdateQuestionWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ScreeningQuestion) error) error {
	return r.questions.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateQuestionIfVersion)
}

func (r *screeningRepo) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "screening_questions", id)
}

/* ---------------- responses ---------------- */

func (r *screeningRepo) CreateResponse(ctx context.Context, resp *models.ScreeningResponse) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO screening_responses (
            id, full_name, email, phone, message, created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5, NOW(), NOW(), 1)
    `, resp.ID, resp.FullName, resp.Email, resp.Phone, resp.Message)
	return err
}

func (r *screeningRepo) CreateAnswer(ctx context.Context, a *models.ScreeningAnswer) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO screening_answers (
            id, response_id, question_id, answer_text, answer_number, answer_date,
            answer_yesno, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7, NOW())
    `, a.ID, a.ResponseID, a.QuestionID, a.AnswerText, a.AnswerNumber, a.AnswerDate, a.AnswerYesNo)
	return err
}

// GetResponse loads the response together with its answers and their question text.
func (r *screeningRepo) GetResponse(ctx context.Context, id uuid.UUID) (*models.ScreeningResponse, error) {
	resp, err := r.responses.GetByID(ctx, id.String())
	if err != nil || resp == nil {
		return resp, err
	}
	answers, err := queryAll(ctx, r.db, scanAnswer, `
        SELECT a.id, a.response_id, a.question_id, a.answer_text, a.answer_number,
               a.answer_date, a.answer_yesno, a.created_at, q.question_text, q.question_type
        FROM screening_answers a JOIN screening_questions q ON q.id = a.question_id
        WHERE a.response_id=$1
        ORDER BY q."order", q.created_at
    `, id)
	if err != nil {
		return nil, err
	}
	resp.Answers = answers
	return resp, nil
}

func (r *screeningRepo) ListResponses(ctx context.Context, search *string, limit, offset int) ([]*models.ScreeningResponse, int64, error) {
	var w whereBuilder
	if search != nil {
		w.add("(full_name ILIKE $%[1]d OR email ILIKE $%[1]d)", like(*search))
	}
	total, err := count(ctx, r.db, "SELECT COUNT(*) FROM screening_responses"+w.sql(), w.args...)
	if err != nil {
		return nil, 0, err
	}
	sql := baseSelectResponse() + w.sql() + " ORDER BY created_at DESC LIMIT " + w.next(limit) + " OFFSET " + w.next(offset)
	out, err := queryAll(ctx, r.db, scanResponse, sql, w.args...)
	return out, total, err
}

func (r *screeningRepo) UpdateResponseIfVersion(ctx context.Context, resp *models.ScreeningResponse, expected int64) (pgconn.CommandTag, error) {
	sql, args := versionedTail(`
        UPDATE screening_responses SET admin_reply=$1, replied_at=$2, updated_at=NOW()`,
		[]any{resp.AdminReply, resp.RepliedAt},
		resp.ID, true, expected,
	)
	return r.db.Exec(ctx, sql, args...)
}

func (r *screeningRepo) UpdateResponseWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ScreeningResponse) error) error {
	return r.responses.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateResponseIfVersion)
}

// DeleteResponse removes the response; answers cascade.
func (r *screeningRepo) DeleteResponse(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "screening_responses", id)
}

func baseSelectQuestion() string {
	return `
        SELECT id, question_text, question_type, is_required, "order", placeholder_text,
               is_active, created_at, updated_at, row_version
        FROM screening_questions
    `
}

func scanQuestion(row pgx.Row) (*models.ScreeningQuestion, error) {
	var q models.ScreeningQuestion
	err := row.Scan(
		&q.ID, &q.QuestionText, &q.QuestionType, &q.IsRequired, &q.Order, &q.PlaceholderText,
		&q.IsActive, &q.CreatedAt, &q.UpdatedAt, &q.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func baseSelectResponse() string {
	return `
        SELECT id, full_name, email, phone, message, admin_reply, replied_at,
               created_at, updated_at, row_version
        FROM screening_responses
    `
}

func scanResponse(row pgx.Row) (*models.ScreeningResponse, error) {
	var s models.ScreeningResponse
	err := row.Scan(
		&s.ID, &s.FullName, &s.Email, &s.Phone, &s.Message, &s.AdminReply, &s.RepliedAt,
		&s.CreatedAt, &s.UpdatedAt, &s.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func scanAnswer(row pgx.Row) (*models.ScreeningAnswer, error) {
	var a models.ScreeningAnswer
	err := row.Scan(
		&a.ID, &a.ResponseID, &a.QuestionID, &a.AnswerText, &a.AnswerNumber,
		&a.AnswerDate, &a.AnswerYesNo, &a.CreatedAt, &a.QuestionText, &a.QuestionType,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
