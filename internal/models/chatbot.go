package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ChatbotFlowType string

const (
	FlowPropertySearch ChatbotFlowType = "property_search"
	FlowRentInquiry    ChatbotFlowType = "rent_inquiry"
	FlowScheduleVisit  ChatbotFlowType = "schedule_visit"
	FlowBugReport      ChatbotFlowType = "bug_report"
	FlowFeedback       ChatbotFlowType = "feedback"
)

type ConversationStatus string

const (
	ConversationActive    ConversationStatus = "active"
	ConversationCompleted ConversationStatus = "completed"
	ConversationEscalated ConversationStatus = "escalated"
	ConversationAbandoned ConversationStatus = "abandoned"
)

type ChatbotConversation struct {
	Versioned

	ID          uuid.UUID          `json:"id"`
	SessionID   string             `json:"session_id"`
	FlowType    *ChatbotFlowType   `json:"flow_type"`
	UserID      *uuid.UUID         `json:"user_id,omitempty"`
	GuestEmail  *string            `json:"guest_email,omitempty"`
	GuestName   *string            `json:"guest_name,omitempty"`
	GuestPhone  *string            `json:"guest_phone,omitempty"`
	CurrentStep int                `json:"current_step"`
	Stage       string             `json:"current_stage"`
	FlowState   json.RawMessage    `json:"flow_state"`
	Status      ConversationStatus `json:"status"`
	IsSatisfied *bool              `json:"is_satisfied"`
	UserIP      *string            `json:"user_ip,omitempty"`
	UserAgent   *string            `json:"user_agent,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

func (c *ChatbotConversation) GetID() string { return c.ID.String() }

type ChatbotMessage struct {
	ID                  uuid.UUID  `json:"id"`
	ConversationID      uuid.UUID  `json:"conversation_id"`
	StepNumber          int        `json:"step_number"`
	QuestionText        string     `json:"question_text"`
	UserResponse        *string    `json:"user_response,omitempty"`
	ResponseTimeSeconds *int       `json:"response_time_seconds,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	RespondedAt         *time.Time `json:"responded_at,omitempty"`
}

type EscalationStatus string

const (
	EscalationPending    EscalationStatus = "pending"
	EscalationInProgress EscalationStatus = "in_progress"
	EscalationResolved   EscalationStatus = "resolved"
	EscalationClosed     EscalationStatus = "closed"
)

type ChatbotEscalation struct {
	ID             uuid.UUID        `json:"id"`
	ConversationID uuid.UUID        `json:"conversation_id"`
	Reason         string           `json:"reason"`
	Priority       string           `json:"priority"`
	AssignedTo     *uuid.UUID       `json:"assigned_to,omitempty"`
	Status         EscalationStatus `json:"status"`
	AdminNotes     *string          `json:"admin_notes,omitempty"`
	ContactEmail   string           `json:"contact_email"`
	ContactName    *string          `json:"contact_name,omitempty"`
	ContactPhone   *string          `json:"contact_phone,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	ResolvedAt     *time.Time       `json:"resolved_at,omitempty"`
}
