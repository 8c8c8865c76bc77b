package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/utils"
)

func question(text string, qt models.QuestionType, order int, required bool) *models.ScreeningQuestion {
	return &models.ScreeningQuestion{
		ID:           uuid.New(),
		QuestionText: text,
		QuestionType: qt,
		Order:        order,
		IsRequired:   required,
		IsActive:     true,
	}
}

func TestScreeningService_CreateQuestionsPartialFailure(t *testing.T) {
	existing := question("What is your budget?", models.QuestionNumber, 1, true)
	repo := newMemScreeningRepo(existing)
	svc := NewScreeningService(repo, &fakeRecommender{}, &fakeMailer{}, nil)

	out, err := svc.CreateQuestions(context.Background(), []dtos.ScreeningQuestionInput{
		{QuestionText: "Do you have pets?", QuestionType: "yesno", Order: 1},
		{QuestionText: "x", QuestionType: "text"},
		{QuestionText: "Preferred move-in date?", QuestionType: "date"},
	})
	require.NoError(t, err)

	require.Len(t, out.Created, 2)
	require.Len(t, out.FailedQuestions, 1)
	assert.Equal(t, 1, out.FailedQuestions[0].Index)
	assert.Equal(t, "2 question(s) created, 1 failed", out.Message)

	// The explicit order pushes the existing question down; the unordered
	// one is appended after it.
	assert.Equal(t, 1, out.Created[0].Order)
	assert.Equal(t, 2, repo.questions[existing.ID].Order)
	assert.Equal(t, 3, out.Created[1].Order)
	assert.True(t, out.Created[1].IsActive)
}

func TestScreeningService_CreateQuestionsAllFailed(t *testing.T) {
	svc := NewScreeningService(newMemScreeningRepo(), &fakeRecommender{}, &fakeMailer{}, nil)

	_, err := svc.CreateQuestions(context.Background(), []dtos.ScreeningQuestionInput{
		{QuestionText: "ok?", QuestionType: "essay"},
	})
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	failed, ok := appErr.Details.([]dtos.FailedQuestion)
	require.True(t, ok)
	assert.Len(t, failed, 1)
}

func TestScreeningService_DeleteQuestionCompactsOrder(t *testing.T) {
	q1 := question("First question", models.QuestionText, 1, false)
	q2 := question("Second question", models.QuestionText, 2, false)
	q3 := question("Third question", models.QuestionText, 3, false)
	repo := newMemScreeningRepo(q1, q2, q3)
	svc := NewScreeningService(repo, &fakeRecommender{}, &fakeMailer{}, nil)

	require.NoError(t, svc.DeleteQuestion(context.Background(), q2.ID))
	assert.Equal(t, 1, repo.questions[q1.ID].Order)
	assert.Equal(t, 2, repo.questions[q3.ID].Order)

	err := svc.DeleteQuestion(context.Background(), q2.ID)
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, err))
}

func TestScreeningService_Submit(t *testing.T) {
	budget := question("Monthly budget?", models.QuestionNumber, 1, true)
	pets := question("Do you have pets?", models.QuestionYesNo, 2, false)
	repo := newMemScreeningRepo(budget, pets)
	recs := &fakeRecommender{}
	mailer := &fakeMailer{}
	svc := NewScreeningService(repo, recs, mailer, nil)

	amount := 30000.0
	yes := true
	out, err := svc.Submit(context.Background(), dtos.SubmitScreeningRequest{
		FullName: " Kabir ",
		Email:    "KABIR@example.com",
		Answers: []dtos.ScreeningAnswerInput{
			{QuestionID: budget.ID, AnswerNumber: &amount},
			{QuestionID: pets.ID, AnswerYesNo: &yes},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Kabir", out.Response.FullName)
	assert.Equal(t, "kabir@example.com", out.Response.Email)
	require.Len(t, out.Response.Answers, 2)
	assert.Equal(t, "Monthly budget?", out.Response.Answers[0].QuestionText)
	require.NotNil(t, out.RecommendationID)
	assert.Equal(t, []uuid.UUID{out.Response.ID}, recs.calls)
	assert.Len(t, repo.answers, 2)
	assert.Len(t, mailer.admin, 1)
}

func TestScreeningService_SubmitRejects(t *testing.T) {
	budget := question("Monthly budget?", models.QuestionNumber, 1, true)
	inactive := question("Retired question", models.QuestionText, 2, false)
	inactive.IsActive = false
	amount := 1.0

	tests := []struct {
		name    string
		answers []dtos.ScreeningAnswerInput
	}{
		{"duplicate answer", []dtos.ScreeningAnswerInput{
			{QuestionID: budget.ID, AnswerNumber: &amount},
			{QuestionID: budget.ID, AnswerNumber: &amount},
		}},
		{"missing required value", []dtos.ScreeningAnswerInput{
			{QuestionID: budget.ID, AnswerText: strPtr("a lot")},
		}},
		{"inactive question", []dtos.ScreeningAnswerInput{
			{QuestionID: inactive.ID, AnswerText: strPtr("hi")},
		}},
		{"unknown question", []dtos.ScreeningAnswerInput{
			{QuestionID: uuid.New(), AnswerText: strPtr("hi")},
		}},
		{"bad date", []dtos.ScreeningAnswerInput{
			{QuestionID: budget.ID, AnswerNumber: &amount, AnswerDate: strPtr("next week")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewScreeningService(newMemScreeningRepo(budget, inactive), &fakeRecommender{}, &fakeMailer{}, nil)
			_, err := svc.Submit(context.Background(), dtos.SubmitScreeningRequest{
				FullName: "Kabir",
				Email:    "kabir@example.com",
				Answers:  tt.answers,
			})
			assert.Equal(t, http.StatusBadRequest, appErrStatus(t, err))
		})
	}
}

func TestScreeningService_SubmitSurvivesGenerationFailure(t *testing.T) {
	q := question("Preferred city?", models.QuestionText, 1, true)
	recs := &fakeRecommender{err: errors.New("no listings")}
	svc := NewScreeningService(newMemScreeningRepo(q), recs, &fakeMailer{}, nil)

	out, err := svc.Submit(context.Background(), dtos.SubmitScreeningRequest{
		FullName: "Kabir",
		Email:    "kabir@example.com",
		Answers:  []dtos.ScreeningAnswerInput{{QuestionID: q.ID, AnswerText: strPtr("Pune")}},
	})
	require.NoError(t, err)
	assert.Nil(t, out.RecommendationID)
	assert.Len(t, recs.calls, 1)
}
