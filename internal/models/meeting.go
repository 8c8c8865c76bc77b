package models

import (
	"time"

	"github.com/google/uuid"
)

type MeetingStatus string

const (
	MeetingPending   MeetingStatus = "pending"
	MeetingReplied   MeetingStatus = "replied"
	MeetingApproved  MeetingStatus = "approved"
	MeetingRejected  MeetingStatus = "rejected"
	MeetingCompleted MeetingStatus = "completed"
	MeetingCancelled MeetingStatus = "cancelled"
)

func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingPending, MeetingReplied, MeetingApproved, MeetingRejected,
		MeetingCompleted, MeetingCancelled:
		return true
	}
	return false
}

type ScheduleMeeting struct {
	Versioned

	ID             uuid.UUID     `json:"id"`
	FullName       string        `json:"full_name"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	MeetingDate    time.Time     `json:"meeting_date"`
	MeetingTime    string        `json:"meeting_time"` // HH:MM
	PropertyID     uuid.UUID     `json:"property_id"`
	UserID         *uuid.UUID    `json:"user_id,omitempty"`
	Message        *string       `json:"message,omitempty"`
	Status         MeetingStatus `json:"status"`
	AdminMessage   *string       `json:"admin_message,omitempty"`
	AdminReplyDate *time.Time    `json:"admin_reply_date,omitempty"`
	ApprovedBy     *uuid.UUID    `json:"approved_by,omitempty"`
	RepliedBy      *uuid.UUID    `json:"replied_by,omitempty"`
	ApprovedAt     *time.Time    `json:"approved_at,omitempty"`
	RejectedAt     *time.Time    `json:"rejected_at,omitempty"`
	RepliedAt      *time.Time    `json:"replied_at,omitempty"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (m *ScheduleMeeting) GetID() string { return m.ID.String() }
