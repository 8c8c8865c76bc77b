package models

import (
	"time"

	"github.com/google/uuid"
)

type ContactStatus string

const (
	ContactPending  ContactStatus = "pending"
	ContactReplied  ContactStatus = "replied"
	ContactResolved ContactStatus = "resolved"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactPending, ContactReplied, ContactResolved:
		return true
	}
	return false
}

type ContactUs struct {
	Versioned

	ID             uuid.UUID     `json:"id"`
	FullName       string        `json:"full_name"`
	Email          string        `json:"email"`
	Phone          *string       `json:"phone,omitempty"`
	Message        string        `json:"message"`
	Status         ContactStatus `json:"status"`
	AdminReply     *string       `json:"admin_reply,omitempty"`
	AdminReplyDate *time.Time    `json:"admin_reply_date,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (c *ContactUs) GetID() string { return c.ID.String() }
