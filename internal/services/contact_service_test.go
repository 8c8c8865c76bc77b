package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
)

type memContactRepo struct {
	repositories.ContactRepository
	contacts map[uuid.UUID]*models.ContactUs
}

func (r *memContactRepo) Create(_ context.Context, c *models.ContactUs) error {
	cp := *c
	r.contacts[c.ID] = &cp
	return nil
}

func (r *memContactRepo) GetByID(_ context.Context, id uuid.UUID) (*models.ContactUs, error) {
	c, ok := r.contacts[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memContactRepo) List(_ context.Context, status *models.ContactStatus, _, _ int) ([]*models.ContactUs, int64, error) {
	var out []*models.ContactUs
	for _, c := range r.contacts {
		if status == nil || c.Status == *status {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memContactRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.ContactUs) error) error {
	c, ok := r.contacts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	cp := *c
	if err := mutate(&cp); err != nil {
		return err
	}
	r.contacts[id] = &cp
	return nil
}

func newTestContactService() (*ContactService, *memContactRepo, *fakeMailer) {
	repo := &memContactRepo{contacts: map[uuid.UUID]*models.ContactUs{}}
	mailer := &fakeMailer{}
	return NewContactService(repo, mailer, nil), repo, mailer
}

func contactRequest() dtos.CreateContactRequest {
	return dtos.CreateContactRequest{
		FullName: " Meera Iyer ",
		Email:    "Meera@Example.com",
		Phone:    strPtr("9876543210"),
		Message:  "Is the Baner flat still available?",
	}
}

func TestContactService_CreateNotifies(t *testing.T) {
	svc, _, mailer := newTestContactService()

	c, err := svc.Create(context.Background(), contactRequest())
	require.NoError(t, err)
	assert.Equal(t, models.ContactPending, c.Status)
	assert.Equal(t, "Meera Iyer", c.FullName)
	assert.Equal(t, "meera@example.com", c.Email)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "meera@example.com", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Body, "Is the Baner flat still available?")
	require.Len(t, mailer.admin, 1)
	assert.Equal(t, "New contact message from Meera Iyer", mailer.admin[0].Subject)
}

func TestContactService_Reply(t *testing.T) {
	svc, repo, mailer := newTestContactService()
	ctx := context.Background()
	c, err := svc.Create(ctx, contactRequest())
	require.NoError(t, err)
	mailer.sent = nil

	before := time.Now().UTC()
	got, err := svc.Reply(ctx, c.ID, "  Yes, visits are open this weekend.  ")
	require.NoError(t, err)
	assert.Equal(t, models.ContactReplied, got.Status)
	assert.Equal(t, "Yes, visits are open this weekend.", *got.AdminReply)
	require.NotNil(t, got.AdminReplyDate)
	assert.False(t, got.AdminReplyDate.Before(before))

	stored := repo.contacts[c.ID]
	assert.Equal(t, models.ContactReplied, stored.Status)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "meera@example.com", mailer.sent[0].To)
	assert.Equal(t, "Re: your message to PropNest", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].Body, "Yes, visits are open this weekend.")
	assert.Contains(t, mailer.sent[0].Body, "Is the Baner flat still available?")
}

func TestContactService_UpdateStatus(t *testing.T) {
	svc, repo, _ := newTestContactService()
	ctx := context.Background()
	c, err := svc.Create(ctx, contactRequest())
	require.NoError(t, err)

	got, err := svc.UpdateStatus(ctx, c.ID, models.ContactResolved)
	require.NoError(t, err)
	assert.Equal(t, models.ContactResolved, got.Status)
	assert.Equal(t, models.ContactResolved, repo.contacts[c.ID].Status)

	_, err = svc.UpdateStatus(ctx, c.ID, models.ContactStatus("closed"))
	assert.Equal(t, http.StatusBadRequest, appErrStatus(t, err))

	_, err = svc.UpdateStatus(ctx, uuid.New(), models.ContactResolved)
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, err))
}

func TestContactService_ReplyAndGetMissing(t *testing.T) {
	svc, _, mailer := newTestContactService()
	ctx := context.Background()

	_, err := svc.Reply(ctx, uuid.New(), "hello")
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, err))
	assert.Empty(t, mailer.sent)

	_, err = svc.Get(ctx, uuid.New())
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, err))
}

func TestContactService_ListFiltersStatus(t *testing.T) {
	svc, _, _ := newTestContactService()
	ctx := context.Background()
	first, err := svc.Create(ctx, contactRequest())
	require.NoError(t, err)
	_, err = svc.Create(ctx, contactRequest())
	require.NoError(t, err)
	_, err = svc.Reply(ctx, first.ID, "Answered")
	require.NoError(t, err)

	pending := models.ContactPending
	res, err := svc.List(ctx, &pending, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)

	bogus := models.ContactStatus("archived")
	_, err = svc.List(ctx, &bogus, 10, 0)
	assert.Equal(t, http.StatusBadRequest, appErrStatus(t, err))
}
