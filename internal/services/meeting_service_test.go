package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propnest/rental-backend/internal/chatbot"
	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/middleware"
	"github.com/propnest/rental-backend/internal/models"
)

var fixedNow = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func newTestMeetingService(props ...*models.Property) (*MeetingService, *memMeetingRepo, *fakeMailer, *fakeSMS) {
	repo := newMemMeetingRepo()
	mailer := &fakeMailer{}
	sms := &fakeSMS{}
	svc := NewMeetingService(repo, newMemPropertyRepo(props...), mailer, sms, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, mailer, sms
}

func testProperty(title string) *models.Property {
	return &models.Property{
		ID:      uuid.New(),
		Title:   title,
		Address: "12 MG Road",
		City:    "Pune",
		State:   "Maharashtra",
		Price:   25000,
		Status:  models.PropertyAvailable,
	}
}

func validSchedule(propertyID uuid.UUID) dtos.ScheduleMeetingRequest {
	return dtos.ScheduleMeetingRequest{
		FullName:    "Asha Verma",
		Email:       " Asha@Example.com ",
		Phone:       "+91 98765 43210",
		MeetingDate: "2026-03-12",
		MeetingTime: "14:00",
		PropertyID:  propertyID,
	}
}

func TestMeetingService_ScheduleValidation(t *testing.T) {
	prop := testProperty("Sunny 2BHK")
	svc, _, _, _ := newTestMeetingService(prop)

	tests := []struct {
		name   string
		mutate func(*dtos.ScheduleMeetingRequest)
		status int
	}{
		{"short name", func(r *dtos.ScheduleMeetingRequest) { r.FullName = " A " }, http.StatusBadRequest},
		{"too few digits", func(r *dtos.ScheduleMeetingRequest) { r.Phone = "98-76-54" }, http.StatusBadRequest},
		{"past date", func(r *dtos.ScheduleMeetingRequest) { r.MeetingDate = "2026-03-09" }, http.StatusBadRequest},
		{"bad date", func(r *dtos.ScheduleMeetingRequest) { r.MeetingDate = "12/03/2026" }, http.StatusBadRequest},
		{"unknown property", func(r *dtos.ScheduleMeetingRequest) { r.PropertyID = uuid.New() }, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSchedule(prop.ID)
			tt.mutate(&req)
			_, err := svc.Schedule(context.Background(), req)
			assert.Equal(t, tt.status, appErrStatus(t, err))
		})
	}
}

func TestMeetingService_ScheduleToday(t *testing.T) {
	prop := testProperty("Sunny 2BHK")
	svc, repo, mailer, _ := newTestMeetingService(prop)

	req := validSchedule(prop.ID)
	req.MeetingDate = "2026-03-10"
	m, err := svc.Schedule(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, models.MeetingPending, m.Status)
	assert.Equal(t, "asha@example.com", m.Email)
	assert.Nil(t, m.UserID)
	assert.Contains(t, repo.meetings, m.ID)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "asha@example.com", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Body, "Sunny 2BHK")
	require.Len(t, mailer.admin, 1)
	assert.Equal(t, "New visit request for Sunny 2BHK", mailer.admin[0].Subject)
}

func TestMeetingService_ScheduleLinksCaller(t *testing.T) {
	prop := testProperty("Loft")
	svc, _, _, _ := newTestMeetingService(prop)

	userID := uuid.New()
	ctx := context.WithValue(context.Background(), middleware.ContextKeyUserID, userID.String())
	m, err := svc.Schedule(ctx, validSchedule(prop.ID))
	require.NoError(t, err)
	require.NotNil(t, m.UserID)
	assert.Equal(t, userID, *m.UserID)
}

func TestMeetingService_BookFromChat(t *testing.T) {
	prop := testProperty("Beach House")
	svc, _, _, _ := newTestMeetingService(prop)

	m, err := svc.BookFromChat(context.Background(), chatbot.VisitRequest{
		PropertyID:    prop.ID,
		Name:          "Ravi",
		Phone:         "9876543210",
		Email:         "ravi@example.com",
		Date:          time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Time:          "10:00",
		PreferredTime: "Morning (9AM-12PM)",
	})
	require.NoError(t, err)
	assert.Equal(t, "10:00", m.MeetingTime)
	assert.Equal(t, "Meeting scheduled via chatbot. Preferred date: 2026-03-15, time: Morning (9AM-12PM)", *m.Message)
}

func TestMeetingService_Reply(t *testing.T) {
	prop := testProperty("Sunny 2BHK")
	svc, _, mailer, sms := newTestMeetingService(prop)
	sms.enabled = true
	ctx := context.Background()

	m, err := svc.Schedule(ctx, validSchedule(prop.ID))
	require.NoError(t, err)

	approved, err := svc.Reply(ctx, m.ID, dtos.MeetingReplyRequest{Message: " See you there ", Action: strPtr("approved")})
	require.NoError(t, err)
	assert.Equal(t, models.MeetingApproved, approved.Status)
	assert.Equal(t, fixedNow, *approved.ApprovedAt)
	assert.Equal(t, "See you there", *approved.AdminMessage)
	assert.Nil(t, approved.RejectedAt)

	last := mailer.sent[len(mailer.sent)-1]
	assert.Contains(t, last.Body, "is confirmed")
	require.Len(t, sms.sent, 1)
	assert.Equal(t, "+91 98765 43210", sms.sent[0].To)

	replied, err := svc.Reply(ctx, m.ID, dtos.MeetingReplyRequest{Message: "Please bring ID"})
	require.NoError(t, err)
	assert.Equal(t, models.MeetingReplied, replied.Status)
	assert.NotNil(t, replied.RepliedAt)

	_, err = svc.Reply(ctx, uuid.New(), dtos.MeetingReplyRequest{Message: "x"})
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, err))
}

func TestMeetingService_CompleteAndDelete(t *testing.T) {
	prop := testProperty("Sunny 2BHK")
	svc, repo, mailer, _ := newTestMeetingService(prop)
	ctx := context.Background()

	m, err := svc.Schedule(ctx, validSchedule(prop.ID))
	require.NoError(t, err)

	done, err := svc.Complete(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MeetingCompleted, done.Status)

	detail, err := svc.Get(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Property)
	assert.Equal(t, "Sunny 2BHK", detail.Property.Title)

	require.NoError(t, svc.Delete(ctx, m.ID))
	assert.NotContains(t, repo.meetings, m.ID)
	assert.Equal(t, "Property visit cancelled", mailer.sent[len(mailer.sent)-1].Subject)

	assert.Equal(t, http.StatusNotFound, appErrStatus(t, svc.Delete(ctx, m.ID)))
}

func TestMeetingService_ListRejectsUnknownStatus(t *testing.T) {
	svc, _, _, _ := newTestMeetingService()
	bogus := models.MeetingStatus("lost")
	_, err := svc.List(context.Background(), &bogus, nil)
	assert.Equal(t, http.StatusBadRequest, appErrStatus(t, err))

	res, err := svc.List(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Meetings)
	assert.NotNil(t, res.Meetings)
}
