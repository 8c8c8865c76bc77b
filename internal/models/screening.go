package models

import (
	"time"

	"github.com/google/uuid"
)

type QuestionType string

const (
	QuestionText   QuestionType = "text"
	QuestionNumber QuestionType = "number"
	QuestionDate   QuestionType = "date"
	QuestionYesNo  QuestionType = "yesno"
)

type ScreeningQuestion struct {
	Versioned

	ID              uuid.UUID    `json:"id"`
	QuestionText    string       `json:"question_text"`
	QuestionType    QuestionType `json:"question_type"`
	IsRequired      bool         `json:"is_required"`
	Order           int          `json:"order"`
	PlaceholderText *string      `json:"placeholder_text,omitempty"`
	IsActive        bool         `json:"is_active"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (q *ScreeningQuestion) GetID() string { return q.ID.String() }

type ScreeningResponse struct {
	Versioned

	ID         uuid.UUID  `json:"id"`
	FullName   string     `json:"full_name"`
	Email      string     `json:"email"`
	Phone      *string    `json:"phone,omitempty"`
	Message    *string    `json:"message,omitempty"`
	AdminReply *string    `json:"admin_reply,omitempty"`
	RepliedAt  *time.Time `json:"replied_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Answers []*ScreeningAnswer `json:"answers,omitempty"`
}

func (r *ScreeningResponse) GetID() string { return r.ID.String() }

type ScreeningAnswer struct {
	ID           uuid.UUID  `json:"id"`
	ResponseID   uuid.UUID  `json:"response_id"`
	QuestionID   uuid.UUID  `json:"question_id"`
	AnswerText   *string    `json:"answer_text,omitempty"`
	AnswerNumber *float64   `json:"answer_number,omitempty"`
	AnswerDate   *time.Time `json:"answer_date,omitempty"`
	AnswerYesNo  *bool      `json:"answer_yesno,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`

	// filled on reads joined with screening_questions
	QuestionText string       `json:"question_text,omitempty"`
	QuestionType QuestionType `json:"question_type,omitempty"`
}
