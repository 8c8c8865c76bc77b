package dtos

import (
	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/models"
)

type ScreeningQuestionInput struct {
	QuestionText    string  `json:"question_text" validate:"required,min=3,max=500"`
	QuestionType    string  `json:"question_type" validate:"required,oneof=text number date yesno"`
	IsRequired      *bool   `json:"is_required,omitempty"`
	Order           int     `json:"order" validate:"gte=0"`
	PlaceholderText *string `json:"placeholder_text,omitempty" validate:"omitempty,max=200"`
	IsActive        *bool   `json:"is_active,omitempty"`
}

type BulkQuestionsRequest struct {
	Questions []ScreeningQuestionInput `json:"questions" validate:"required,min=1,max=100"`
}

type FailedQuestion struct {
	Index        int    `json:"index"`
	QuestionText string `json:"question_text"`
	Error        string `json:"error"`
}

type BulkQuestionsResponse struct {
	Message         string                      `json:"message"`
	Created         []*models.ScreeningQuestion `json:"created_questions"`
	FailedQuestions []FailedQuestion            `json:"failed_questions"`
}

type ScreeningAnswerInput struct {
	QuestionID   uuid.UUID `json:"question_id" validate:"required"`
	AnswerText   *string   `json:"answer_text,omitempty"`
	AnswerNumber *float64  `json:"answer_number,omitempty"`
	AnswerDate   *string   `json:"answer_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AnswerYesNo  *bool     `json:"answer_yesno,omitempty"`
}

type SubmitScreeningRequest struct {
	FullName string                 `json:"full_name" validate:"required,min=2,max=100"`
	Email    string                 `json:"email" validate:"required,email"`
	Phone    *string                `json:"phone,omitempty" validate:"omitempty,min=10,max=20"`
	Message  *string                `json:"message,omitempty" validate:"omitempty,max=2000"`
	Answers  []ScreeningAnswerInput `json:"answers" validate:"required,min=1,dive"`
}

type SubmitScreeningResponse struct {
	Message          string                    `json:"message"`
	Response         *models.ScreeningResponse `json:"response"`
	RecommendationID *uuid.UUID                `json:"recommendation_id,omitempty"`
}

type ScreeningReplyRequest struct {
	Reply string `json:"reply" validate:"required,min=1,max=5000"`
}

type ScreeningResponseListResponse struct {
	Responses []*models.ScreeningResponse `json:"responses"`
	Total     int64                       `json:"total"`
	Limit     int                         `json:"limit"`
	Offset    int                         `json:"offset"`
}
