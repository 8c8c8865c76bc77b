package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
)

type stubContactCounts struct {
	repositories.ContactRepository
	pending int64
	err     error
}

func (s stubContactCounts) CountByStatus(context.Context, models.ContactStatus) (int64, error) {
	return s.pending, s.err
}

type stubApplicationCounts struct {
	repositories.ApplicationRepository
	pending int64
}

func (s stubApplicationCounts) CountByStatus(context.Context, models.ApplicationStatus) (int64, error) {
	return s.pending, nil
}

type stubMaintenanceCounts struct {
	repositories.MaintenanceRepository
	pending int64
}

func (s stubMaintenanceCounts) CountByStatus(context.Context, models.MaintenanceStatus) (int64, error) {
	return s.pending, nil
}

func TestDigestService_SkipsEmptyDigest(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewDigestService(stubContactCounts{}, stubApplicationCounts{}, newMemMeetingRepo(),
		stubMaintenanceCounts{}, newMemChatbotRepo(), mailer)

	require.NoError(t, svc.SendDailyDigest(context.Background()))
	assert.Empty(t, mailer.admin)
}

func TestDigestService_SendsCounts(t *testing.T) {
	meetings := newMemMeetingRepo()
	for i := 0; i < 2; i++ {
		id := uuid.New()
		meetings.meetings[id] = &models.ScheduleMeeting{ID: id, Status: models.MeetingPending}
	}
	done := uuid.New()
	meetings.meetings[done] = &models.ScheduleMeeting{ID: done, Status: models.MeetingCompleted}

	chats := newMemChatbotRepo()
	chats.escalations = []*models.ChatbotEscalation{
		{ID: uuid.New(), Status: models.EscalationPending},
		{ID: uuid.New(), Status: models.EscalationResolved},
	}

	mailer := &fakeMailer{}
	svc := NewDigestService(stubContactCounts{pending: 3}, stubApplicationCounts{pending: 1}, meetings,
		stubMaintenanceCounts{pending: 4}, chats, mailer)

	d, err := svc.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Digest{
		PendingContacts:     3,
		PendingApplications: 1,
		PendingMeetings:     2,
		PendingMaintenance:  4,
		OpenEscalations:     1,
	}, d)

	require.NoError(t, svc.SendDailyDigest(context.Background()))
	require.Len(t, mailer.admin, 1)
	assert.Equal(t, "PropNest daily digest", mailer.admin[0].Subject)
	assert.Contains(t, mailer.admin[0].Body, "Visit requests pending:          2")
}

func TestDigestService_PropagatesCountErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := NewDigestService(stubContactCounts{err: boom}, stubApplicationCounts{}, newMemMeetingRepo(),
		stubMaintenanceCounts{}, newMemChatbotRepo(), &fakeMailer{})

	err := svc.SendDailyDigest(context.Background())
	assert.ErrorIs(t, err, boom)
}
