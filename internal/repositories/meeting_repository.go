package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/propnest/rental-backend/internal/models"
)

type MeetingRepository interface {
	Create(ctx context.Context, m *models.ScheduleMeeting) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ScheduleMeeting, error)
	List(ctx context.Context, status *models.MeetingStatus, propertyID *uuid.UUID) ([]*models.ScheduleMeeting, error)
	CountByStatus(ctx context.Context, status models.MeetingStatus) (int64, error)
	UpdateIfVersion(ctx context.Context, m *models.ScheduleMeeting, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ScheduleMeeting) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type meetingRepo struct {
	*BaseVersionedRepo[*models.ScheduleMeeting]
	db DB
}

func NewMeetingRepository(db DB) MeetingRepository {
	r := &meetingRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectMeeting()+" WHERE id=$1", scanMeeting)
	return r
}

func (r *meetingRepo) Create(ctx context.Context, m *models.ScheduleMeeting) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO schedule_meetings (
            id, full_name, email, phone, meeting_date, meeting_time, property_id,
            user_id, message, status, created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6::time,$7,$8,$9,$10, NOW(), NOW(), 1)
    `,
		m.ID, m.FullName, m.Email, m.Phone, m.MeetingDate, m.MeetingTime, m.PropertyID,
		m.UserID, m.Message, m.Status,
	)
	return err
}

func (r *meetingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ScheduleMeeting, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *meetingRepo) List(ctx context.Context, status *models.MeetingStatus, propertyID *uuid.UUID) ([]*models.ScheduleMeeting, error) {
	var w whereBuilder
	if status != nil {
		w.add("status=$%d", *status)
	}
	if propertyID != nil {
		w.add("property_id=$%d", *propertyID)
	}
	return queryAll(ctx, r.db, scanMeeting, baseSelectMeeting()+w.sql()+" ORDER BY created_at DESC", w.args...)
}

func (r *meetingRepo) CountByStatus(ctx context.Context, status models.MeetingStatus) (int64, error) {
	return count(ctx, r.db, "SELECT COUNT(*) FROM schedule_meetings WHERE status=$1", status)
}

func (r *meetingRepo) UpdateIfVersion(ctx context.Context, m *models.ScheduleMeeting, expected int64) (pgconn.CommandTag, error) {
	sql, args := versionedTail(`
        UPDATE schedule_meetings SET
            status=$1, admin_message=$2, admin_reply_date=$3, approved_by=$4,
            replied_by=$5, approved_at=$6, rejected_at=$7, replied_at=$8,
            completed_at=$9, updated_at=NOW()`,
		[]any{
			m.Status, m.AdminMessage, m.AdminReplyDate, m.ApprovedBy,
			m.RepliedBy, m.ApprovedAt, m.RejectedAt, m.RepliedAt, m.CompletedAt,
		},
		m.ID, true, expected,
	)
	return r.db.Exec(ctx, sql, args...)
}

func (r *meetingRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ScheduleMeeting) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *meetingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "schedule_meetings", id)
}

func baseSelectMeeting() string {
	return `
        SELECT id, full_name, email, phone, meeting_date, to_char(meeting_time, 'HH24:MI'),
               property_id, user_id, message, status, admin_message, admin_reply_date,
               approved_by, replied_by, approved_at, rejected_at, replied_at, completed_at,
               created_at, updated_at, row_version
        FROM schedule_meetings
    `
}

func scanMeeting(row pgx.Row) (*models.ScheduleMeeting, error) {
	var m models.ScheduleMeeting
	err := row.Scan(
		&m.ID, &m.FullName, &m.Email, &m.Phone, &m.MeetingDate, &m.MeetingTime,
		&m.PropertyID, &m.UserID, &m.Message, &m.Status, &m.AdminMessage, &m.AdminReplyDate,
		&m.ApprovedBy, &m.RepliedBy, &m.ApprovedAt, &m.RejectedAt, &m.RepliedAt, &m.CompletedAt,
		&m.CreatedAt, &m.UpdatedAt, &m.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}
