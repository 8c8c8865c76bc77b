package dtos

import (
	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/models"
)

type ScheduleMeetingRequest struct {
	FullName    string    `json:"full_name" validate:"required,min=2,max=100"`
	Email       string    `json:"email" validate:"required,email"`
	Phone       string    `json:"phone" validate:"required,min=10,max=20"`
	MeetingDate string    `json:"meeting_date" validate:"required,datetime=2006-01-02"`
	MeetingTime string    `json:"meeting_time" validate:"required,datetime=15:04"`
	PropertyID  uuid.UUID `json:"property_id" validate:"required"`
	Message     *string   `json:"message,omitempty" validate:"omitempty,max=2000"`
}

type MeetingReplyRequest struct {
	Message string  `json:"message" validate:"required,min=1,max=5000"`
	Action  *string `json:"action,omitempty" validate:"omitempty,oneof=approved rejected"`
}

// PropertySummary is the slice of a property shown next to a meeting.
type PropertySummary struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Address string    `json:"address"`
	City    string    `json:"city"`
	State   string    `json:"state"`
	Price   float64   `json:"price"`
}

type MeetingDetailResponse struct {
	*models.ScheduleMeeting
	Property *PropertySummary `json:"property,omitempty"`
}

type MeetingResponse struct {
	Message string                  `json:"message"`
	Meeting *models.ScheduleMeeting `json:"meeting"`
}

type MeetingListResponse struct {
	Meetings []*models.ScheduleMeeting `json:"meetings"`
	Total    int                       `json:"total"`
}
