package chatbot

import (
	"time"

	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/models"
)

const (
	InputChoice   = "choice"
	InputText     = "text"
	InputEmail    = "email"
	InputPhone    = "phone"
	InputDate     = "date"
	InputYesNo    = "yes_no_question"
	InputComplete = "completion"
)

// PropertyOption is a property offered for selection inside the chat.
type PropertyOption struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Location     string `json:"location,omitempty"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	Price        string `json:"price"`
	PropertyType string `json:"property_type,omitempty"`
	Description  string `json:"description,omitempty"`
}

// AdditionalOption is a non-property choice shown next to a property list.
type AdditionalOption struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Reply is what the user sees after a transition.
type Reply struct {
	Message           string
	Question          string
	Options           []string
	InputType         string
	IsFinal           bool
	Properties        []PropertyOption
	AdditionalOptions []AdditionalOption
	Restart           bool
	Extras            map[string]any
}

// Contact carries guest details learned during a flow.
type Contact struct {
	Email *string
	Name  *string
	Phone *string
}

// Transition is the result of feeding one answer to the engine.
type Transition struct {
	Next      Snapshot
	Reply     Reply
	Completed bool
	Satisfied *bool
	Contact   Contact
	Effects   []Effect
}

// Effect is a side effect the caller must carry out after persisting.
type Effect interface{ effect() }

type PropertySearchLead struct {
	Email       string
	Preferences SearchPreferences
}

type VisitRequest struct {
	PropertyID    uuid.UUID
	Name          string
	Phone         string
	Email         string
	Date          time.Time
	Time          string
	PreferredTime string
}

type InquiryLead struct {
	PropertyID *uuid.UUID
	Method     string
	Value      string
}

type BugReport struct {
	IssueType string
	Details   string
	TechInfo  string
	Urgency   string
	Email     string
}

type FeedbackReceived struct {
	Category    string
	Rating      string
	Details     string
	Suggestions string
	Email       string
}

func (PropertySearchLead) effect() {}
func (VisitRequest) effect()       {}
func (InquiryLead) effect()        {}
func (BugReport) effect()          {}
func (FeedbackReceived) effect()   {}

func flowPtr(f models.ChatbotFlowType) *models.ChatbotFlowType { return &f }
