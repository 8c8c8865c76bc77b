// Package chatbot implements the rule-based assistant as a pure state
// machine. Storage and delivery live in the services package; the engine
// only reads properties through a Catalog.
package chatbot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/utils"
)

// MatchField selects the property column a keyword is matched against.
type MatchField string

const (
	MatchTitle       MatchField = "title"
	MatchDescription MatchField = "description"
	MatchCity        MatchField = "city"
	MatchAddress     MatchField = "address"
)

// Catalog is the engine's read-only view of the property listings.
type Catalog interface {
	Match(ctx context.Context, field MatchField, keyword string, limit int) ([]*models.Property, error)
	Available(ctx context.Context, limit int) ([]*models.Property, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Property, error)
}

type Engine struct {
	catalog  Catalog
	validate *validator.Validate
	now      func() time.Time
}

func NewEngine(catalog Catalog) *Engine {
	return &Engine{
		catalog:  catalog,
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

const (
	initialQuestion      = "Hi! I'm your property assistant. How can I help you today?"
	satisfactionQuestion = "Are you satisfied with the assistance provided?"
	optSatisfied         = "Yes, I'm satisfied"
	optNeedHelp          = "No, I need more help"
	journeyThanks        = "Thank you for using our property assistant! We're glad we could help you find what you were looking for. Have a great day! 😊"
)

var (
	initialOptions = []string{
		"Find a property to rent",
		"Ask about a specific property",
		"Schedule a property visit",
		"Report an issue",
		"Give feedback",
	}
	satisfactionOptions = []string{optSatisfied, optNeedHelp}

	flowByOption = map[string]models.ChatbotFlowType{
		"find a property to rent":       models.FlowPropertySearch,
		"ask about a specific property": models.FlowRentInquiry,
		"schedule a property visit":     models.FlowScheduleVisit,
		"report an issue":               models.FlowBugReport,
		"give feedback":                 models.FlowFeedback,
	}
)

// Start returns the opening position and question of a new conversation.
func (e *Engine) Start() (Snapshot, Reply) {
	return Snapshot{Stage: StageInitial}, initialReply("Chat started successfully")
}

func initialReply(message string) Reply {
	return Reply{
		Message:   message,
		Question:  initialQuestion,
		Options:   initialOptions,
		InputType: InputChoice,
	}
}

// FlowFor maps the answer to the opening question onto a flow. Anything
// unrecognised is routed to bug_report.
func FlowFor(answer string) models.ChatbotFlowType {
	if f, ok := flowByOption[strings.ToLower(strings.TrimSpace(answer))]; ok {
		return f
	}
	return models.FlowBugReport
}

// Advance feeds one user answer to the conversation at position s.
func (e *Engine) Advance(ctx context.Context, s Snapshot, input string) (*Transition, error) {
	input = strings.TrimSpace(input)

	switch s.Stage {
	case StageInitial:
		return e.startFlow(ctx, FlowFor(input))
	case StageSatisfaction, StageInquiryFollowup:
		return e.satisfaction(s, input), nil
	case StageDone:
		return nil, utils.ErrInvalidState
	}

	if s.Flow == nil {
		return e.askSatisfaction(s), nil
	}
	switch *s.Flow {
	case models.FlowPropertySearch:
		return e.advanceSearch(s, input)
	case models.FlowRentInquiry:
		return e.advanceInquiry(ctx, s, input)
	case models.FlowScheduleVisit:
		return e.advanceVisit(ctx, s, input)
	case models.FlowBugReport:
		return e.advanceBug(s, input)
	case models.FlowFeedback:
		return e.advanceFeedback(s, input)
	}
	return e.askSatisfaction(s), nil
}

func (e *Engine) startFlow(ctx context.Context, flow models.ChatbotFlowType) (*Transition, error) {
	s := Snapshot{Flow: flowPtr(flow)}
	switch flow {
	case models.FlowPropertySearch:
		s.State.Search = &SearchPreferences{}
		return ask(s, StageSearchType, "Next property search question", searchQuestions[StageSearchType]), nil
	case models.FlowRentInquiry:
		return ask(s, StageInquiryHasProperty, "Starting rent inquiry", hasPropertyReply()), nil
	case models.FlowScheduleVisit:
		return ask(s, StageVisitKeyword, "Starting visit scheduling", visitKeywordReply()), nil
	case models.FlowFeedback:
		return ask(s, StageFeedbackCategory, "Starting feedback", feedbackCategoryReply()), nil
	default:
		return ask(s, StageBugType, "Starting issue report", bugTypeReply()), nil
	}
}

// askSatisfaction ends the current flow with the generic satisfaction question.
func (e *Engine) askSatisfaction(s Snapshot) *Transition {
	return ask(s, StageSatisfaction, "Satisfaction question presented", Reply{
		Question:  satisfactionQuestion,
		Options:   satisfactionOptions,
		InputType: InputChoice,
		IsFinal:   true,
	})
}

// satisfaction handles an in-chat satisfaction answer. "No" starts over
// from the opening question.
func (e *Engine) satisfaction(s Snapshot, input string) *Transition {
	if strings.EqualFold(input, optSatisfied) {
		return &Transition{
			Next:      Snapshot{Flow: s.Flow, Stage: StageDone, State: s.State},
			Completed: true,
			Satisfied: utils.Ptr(true),
			Reply: Reply{
				Message:   "Thank you for the journey! 🎉",
				Question:  journeyThanks,
				InputType: InputComplete,
				IsFinal:   true,
				Extras: map[string]any{
					"conversation_completed": true,
					"escalated":              false,
					"restart":                false,
					"selected_property_id":   nilIfEmpty(s.State.PropertyID),
				},
			},
		}
	}

	r := initialReply("Let's start over! I'm here to help you.")
	r.Restart = true
	return &Transition{
		Next:      Snapshot{Stage: StageInitial},
		Satisfied: utils.Ptr(false),
		Reply:     r,
	}
}

func ask(s Snapshot, stage Stage, message string, r Reply) *Transition {
	s.Stage = stage
	r.Message = message
	return &Transition{Next: s, Reply: r}
}

func complete(s Snapshot, message, text, inputType string, extras map[string]any) *Transition {
	s.Stage = StageDone
	if extras == nil {
		extras = map[string]any{}
	}
	extras["conversation_completed"] = true
	return &Transition{
		Next:      s,
		Completed: true,
		Reply: Reply{
			Message:   message,
			Question:  text,
			InputType: inputType,
			IsFinal:   true,
			Extras:    extras,
		},
	}
}

// reask repeats the current stage with a hint prepended to the question.
func reask(s Snapshot, hint string, r Reply) *Transition {
	r.Question = hint + " " + r.Question
	return ask(s, s.Stage, "Please try again", r)
}

func (e *Engine) validEmail(v string) bool {
	return e.validate.Var(v, "required,email") == nil
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// searchProperties tries each field in turn and stops at the first hit.
func (e *Engine) searchProperties(ctx context.Context, keyword string, fields ...MatchField) ([]*models.Property, error) {
	for _, f := range fields {
		props, err := e.catalog.Match(ctx, f, keyword, 10)
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", f, err)
		}
		if len(props) > 0 {
			return props, nil
		}
	}
	return nil, nil
}

// lookup resolves a selected property id, returning nil for anything that
// is not a known listing.
func (e *Engine) lookup(ctx context.Context, raw string) (*models.Property, error) {
	id, err := parseID(raw)
	if err != nil {
		return nil, nil
	}
	return e.catalog.Get(ctx, id)
}

func parseID(raw string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(raw))
}
