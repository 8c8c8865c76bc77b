package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

type memRecommendationRepo struct {
	repositories.RecommendationRepository
	recs map[uuid.UUID]*models.PropertyRecommendation
}

func (r *memRecommendationRepo) Create(_ context.Context, p *models.PropertyRecommendation) error {
	cp := *p
	r.recs[p.ID] = &cp
	return nil
}

func (r *memRecommendationRepo) GetByID(_ context.Context, id uuid.UUID) (*models.PropertyRecommendation, error) {
	p, ok := r.recs[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memRecommendationRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.PropertyRecommendation) error) error {
	p, ok := r.recs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	cp := *p
	if err := mutate(&cp); err != nil {
		return err
	}
	r.recs[id] = &cp
	return nil
}

func listing(title, city string, bedrooms int) *models.Property {
	return &models.Property{
		ID:       uuid.New(),
		Title:    title,
		City:     city,
		Status:   models.PropertyAvailable,
		Price:    20000,
		Bedrooms: utils.Ptr(bedrooms),
	}
}

func newRecommendationFixture(t *testing.T) (*RecommendationService, *memRecommendationRepo, *fakeMailer, uuid.UUID) {
	t.Helper()
	screening := newMemScreeningRepo()
	resp := &models.ScreeningResponse{
		ID:       uuid.New(),
		FullName: "Tara",
		Email:    "tara@example.com",
		Answers: []*models.ScreeningAnswer{
			{QuestionText: "Which city do you prefer?", AnswerText: strPtr("Pune")},
			{QuestionText: "How many bedrooms do you need?", AnswerNumber: utils.Ptr(2.0)},
		},
	}
	require.NoError(t, screening.CreateResponse(context.Background(), resp))

	props := newMemPropertyRepo(
		listing("Pune Flat", "Pune", 2),
		listing("Goa Villa", "Goa", 3),
		listing("Mumbai Studio", "Mumbai", 1),
	)
	repo := &memRecommendationRepo{recs: map[uuid.UUID]*models.PropertyRecommendation{}}
	mailer := &fakeMailer{}
	return NewRecommendationService(repo, screening, props, mailer, nil), repo, mailer, resp.ID
}

func TestRecommendationService_Generate(t *testing.T) {
	svc, repo, _, screeningID := newRecommendationFixture(t)

	rec, err := svc.Generate(context.Background(), screeningID)
	require.NoError(t, err)
	assert.Equal(t, "tara@example.com", rec.UserEmail)
	assert.Equal(t, screeningID, *rec.ScreeningID)
	assert.Equal(t, "Pune", *rec.Criteria.Location)
	assert.Equal(t, 2, *rec.Criteria.Bedrooms)

	require.Len(t, rec.RecommendedProperties, 2)
	assert.Equal(t, "Pune Flat", rec.RecommendedProperties[0].Title)
	assert.Equal(t, 100.0, rec.RecommendedProperties[0].MatchScore)
	assert.Equal(t, "Goa Villa", rec.RecommendedProperties[1].Title)
	assert.Equal(t, 44.4, rec.RecommendedProperties[1].MatchScore)
	assert.Equal(t, 72.2, rec.MatchScore)
	assert.Equal(t, models.RecommendationPending, rec.Status)
	assert.Contains(t, repo.recs, rec.ID)

	_, err = svc.Generate(context.Background(), uuid.New())
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, err))
}

func TestRecommendationService_SendEmailOnce(t *testing.T) {
	svc, _, mailer, screeningID := newRecommendationFixture(t)
	ctx := context.Background()
	rec, err := svc.Generate(ctx, screeningID)
	require.NoError(t, err)

	sent, err := svc.SendEmail(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, sent.EmailSent)
	assert.Equal(t, models.RecommendationSent, sent.Status)
	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].Body, "1. Pune Flat - Pune")

	_, err = svc.SendEmail(ctx, rec.ID)
	assert.Equal(t, http.StatusBadRequest, appErrStatus(t, err))
}

func TestRecommendationService_SendEmailFailureLeavesUnsent(t *testing.T) {
	svc, repo, mailer, screeningID := newRecommendationFixture(t)
	ctx := context.Background()
	rec, err := svc.Generate(ctx, screeningID)
	require.NoError(t, err)

	mailer.sendErr = errors.New("sendgrid down")
	_, err = svc.SendEmail(ctx, rec.ID)
	require.Error(t, err)
	assert.False(t, repo.recs[rec.ID].EmailSent)
}

func TestRecommendationService_RespondAndReview(t *testing.T) {
	svc, _, mailer, screeningID := newRecommendationFixture(t)
	ctx := context.Background()
	rec, err := svc.Generate(ctx, screeningID)
	require.NoError(t, err)

	viewed, err := svc.Respond(ctx, rec.ID, dtos.RespondRecommendationRequest{Response: "Looks good"})
	require.NoError(t, err)
	assert.Equal(t, models.RecommendationViewed, viewed.Status)
	assert.Empty(t, mailer.admin)

	interested, err := svc.Respond(ctx, rec.ID, dtos.RespondRecommendationRequest{
		Response: "I'd like to visit the flat",
		Status:   strPtr(string(models.RecommendationInterested)),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RecommendationInterested, interested.Status)
	require.Len(t, mailer.admin, 1)

	reviewed, err := svc.Review(ctx, rec.ID, dtos.ReviewRecommendationRequest{
		AdminNotes:    strPtr(" call back Monday "),
		PriorityLevel: strPtr("high"),
	})
	require.NoError(t, err)
	assert.True(t, reviewed.AdminReviewed)
	assert.Equal(t, "call back Monday", *reviewed.AdminNotes)
	assert.Equal(t, "high", reviewed.PriorityLevel)

	_, err = svc.Review(ctx, uuid.New(), dtos.ReviewRecommendationRequest{})
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, err))
}
