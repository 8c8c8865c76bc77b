package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/chatbot"
	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/metrics"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

/*──────────── property catalog adapter ────────────*/

type propertyCatalog struct {
	repo repositories.PropertyRepository
}

// NewPropertyCatalog exposes available listings to the chatbot engine.
func NewPropertyCatalog(repo repositories.PropertyRepository) chatbot.Catalog {
	return &propertyCatalog{repo: repo}
}

func availableOnly() *models.PropertyStatus {
	st := models.PropertyAvailable
	return &st
}

func (c *propertyCatalog) Match(ctx context.Context, field chatbot.MatchField, keyword string, limit int) ([]*models.Property, error) {
	f := repositories.PropertyFilter{Status: availableOnly(), Limit: limit}
	kw := &keyword
	switch field {
	case chatbot.MatchTitle:
		f.TitleLike = kw
	case chatbot.MatchDescription:
		f.DescriptionLike = kw
	case chatbot.MatchCity:
		f.CityLike = kw
	case chatbot.MatchAddress:
		f.AddressLike = kw
	default:
		return nil, fmt.Errorf("unknown match field %q", field)
	}
	props, _, err := c.repo.List(ctx, f)
	return props, err
}

func (c *propertyCatalog) Available(ctx context.Context, limit int) ([]*models.Property, error) {
	props, _, err := c.repo.List(ctx, repositories.PropertyFilter{Status: availableOnly(), Limit: limit})
	return props, err
}

func (c *propertyCatalog) Get(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	return c.repo.GetByID(ctx, id)
}

/*──────────── service ────────────*/

// VisitBooker turns a chat visit request into a meeting.
type VisitBooker interface {
	BookFromChat(ctx context.Context, v chatbot.VisitRequest) (*models.ScheduleMeeting, error)
}

type ChatbotService struct {
	repo   repositories.ChatbotRepository
	engine *chatbot.Engine
	visits VisitBooker
	mailer Mailer
	now    func() time.Time
}

func NewChatbotService(
	repo repositories.ChatbotRepository,
	engine *chatbot.Engine,
	visits VisitBooker,
	mailer Mailer,
) *ChatbotService {
	return &ChatbotService{
		repo:   repo,
		engine: engine,
		visits: visits,
		mailer: mailer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var errConversationNotFound = utils.NewNotFoundError("Conversation not found")

// ClientInfo is the request metadata stored with a new conversation.
type ClientInfo struct {
	UserAgent string
	IP        string
	UserID    *uuid.UUID
}

// Start resumes an active conversation waiting on an unanswered question,
// otherwise opens a new one.
func (s *ChatbotService) Start(ctx context.Context, sessionID *string, client ClientInfo) (*dtos.ChatResponse, error) {
	sid := strings.TrimSpace(utils.Val(sessionID))
	if sid != "" {
		conv, err := s.repo.GetBySession(ctx, sid)
		if err != nil {
			return nil, err
		}
		if conv != nil && conv.Status == models.ConversationActive {
			last, err := s.repo.LastMessage(ctx, conv.ID)
			if err != nil {
				return nil, err
			}
			if last != nil && last.UserResponse == nil {
				return &dtos.ChatResponse{
					Success: true,
					Message: "Conversation resumed",
					Data: map[string]any{
						"session_id":  conv.SessionID,
						"question":    last.QuestionText,
						"step_number": last.StepNumber,
						"input_type":  chatbot.InputText,
						"is_final":    false,
						"flow_type":   conv.FlowType,
						"stage":       conv.Stage,
					},
				}, nil
			}
		}
		if conv != nil {
			// the session id is taken by a finished conversation
			sid = ""
		}
	}
	if sid == "" {
		sid = uuid.NewString()
	}

	snap, reply := s.engine.Start()
	conv := &models.ChatbotConversation{
		ID:        uuid.New(),
		SessionID: sid,
		UserID:    client.UserID,
		Status:    models.ConversationActive,
		UserIP:    nonEmpty(client.IP),
		UserAgent: nonEmpty(utils.Truncate(client.UserAgent, 500)),
	}
	if err := snap.Apply(conv); err != nil {
		return nil, utils.NewInternalError("Failed to start chat", err)
	}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	if err := s.recordQuestion(ctx, conv, reply); err != nil {
		return nil, err
	}
	metrics.ChatbotConversationsStarted.Inc()

	return &dtos.ChatResponse{Success: true, Message: reply.Message, Data: replyData(conv, reply)}, nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *ChatbotService) recordQuestion(ctx context.Context, conv *models.ChatbotConversation, reply chatbot.Reply) error {
	if reply.Question == "" {
		return nil
	}
	return s.repo.CreateMessage(ctx, &models.ChatbotMessage{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		StepNumber:     conv.CurrentStep,
		QuestionText:   reply.Question,
		CreatedAt:      s.now(),
	})
}

// Respond records the answer to the pending question and advances the flow.
func (s *ChatbotService) Respond(ctx context.Context, sessionID, response string) (*dtos.ChatResponse, error) {
	conv, err := s.repo.GetBySession(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, errConversationNotFound
	}
	if conv.Status != models.ConversationActive {
		return nil, badRequest("Conversation is not active")
	}

	snap, err := chatbot.SnapshotOf(conv)
	if err != nil {
		return nil, utils.NewInternalError("Conversation state is corrupt", err)
	}
	t, err := s.engine.Advance(ctx, snap, response)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidState) {
			return nil, badRequest("Conversation is already finished")
		}
		return nil, err
	}
	// The question stays open until the engine accepts an answer, so a retry
	// records the text that actually moved the flow.
	if err := s.answerPending(ctx, conv.ID, response); err != nil {
		return nil, err
	}

	now := s.now()
	err = s.repo.UpdateConversationWithRetry(ctx, conv.ID, func(c *models.ChatbotConversation) error {
		if err := t.Next.Apply(c); err != nil {
			return err
		}
		c.CurrentStep++
		if t.Contact.Email != nil {
			c.GuestEmail = t.Contact.Email
		}
		if t.Contact.Name != nil {
			c.GuestName = t.Contact.Name
		}
		if t.Contact.Phone != nil {
			c.GuestPhone = t.Contact.Phone
		}
		if t.Satisfied != nil {
			c.IsSatisfied = t.Satisfied
		}
		if t.Completed {
			c.Status = models.ConversationCompleted
			c.CompletedAt = &now
		}
		conv = c
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Conversation not found")
	}

	if err := s.recordQuestion(ctx, conv, t.Reply); err != nil {
		return nil, err
	}
	if t.Completed && conv.FlowType != nil {
		metrics.ChatbotFlowsCompleted.WithLabelValues(string(*conv.FlowType)).Inc()
	}
	s.runEffects(ctx, conv, t.Effects)

	return &dtos.ChatResponse{Success: true, Message: t.Reply.Message, Data: replyData(conv, t.Reply)}, nil
}

// answerPending stores the answer on the last question, if it is still open.
func (s *ChatbotService) answerPending(ctx context.Context, conversationID uuid.UUID, response string) error {
	last, err := s.repo.LastMessage(ctx, conversationID)
	if err != nil || last == nil || last.UserResponse != nil {
		return err
	}
	now := s.now()
	secs := int(now.Sub(last.CreatedAt).Seconds())
	if secs < 0 {
		secs = 0
	}
	last.UserResponse = &response
	last.RespondedAt = &now
	last.ResponseTimeSeconds = &secs
	return s.repo.AnswerMessage(ctx, last)
}

func replyData(conv *models.ChatbotConversation, r chatbot.Reply) map[string]any {
	data := map[string]any{
		"session_id":  conv.SessionID,
		"question":    r.Question,
		"options":     r.Options,
		"step_number": conv.CurrentStep,
		"input_type":  r.InputType,
		"is_final":    r.IsFinal,
		"flow_type":   conv.FlowType,
	}
	if len(r.Properties) > 0 {
		data["properties"] = r.Properties
	}
	if len(r.AdditionalOptions) > 0 {
		data["additional_options"] = r.AdditionalOptions
	}
	if r.Restart {
		data["restart"] = true
	}
	for k, v := range r.Extras {
		data[k] = v
	}
	return data
}

// runEffects carries out the side effects of a transition. Failures are
// logged; the chat itself has already moved on.
func (s *ChatbotService) runEffects(ctx context.Context, conv *models.ChatbotConversation, effects []chatbot.Effect) {
	for _, eff := range effects {
		switch e := eff.(type) {
		case chatbot.VisitRequest:
			m, err := s.visits.BookFromChat(ctx, e)
			if err != nil {
				utils.Logger.WithError(err).Warnf("Booking chat visit for session %s failed", conv.SessionID)
				continue
			}
			utils.Logger.Infof("Meeting %s created from chat session %s", m.ID, conv.SessionID)
		case chatbot.PropertySearchLead:
			var b strings.Builder
			fmt.Fprintf(&b, "Email: %s\nSession: %s\n\n", e.Email, conv.SessionID)
			prefs := e.Preferences.Display()
			labels := make([]string, 0, len(prefs))
			for k := range prefs {
				labels = append(labels, k)
			}
			sort.Strings(labels)
			for _, k := range labels {
				fmt.Fprintf(&b, "%s: %s\n", k, prefs[k])
			}
			s.mailer.NotifyAdmins(ctx, "New property search lead", b.String())
		case chatbot.InquiryLead:
			prop := "not specified"
			if e.PropertyID != nil {
				prop = e.PropertyID.String()
			}
			s.mailer.NotifyAdmins(ctx, "Rent inquiry follow-up requested",
				fmt.Sprintf("Property: %s\nContact via %s: %s\nSession: %s", prop, e.Method, e.Value, conv.SessionID))
		case chatbot.BugReport:
			s.mailer.NotifyAdmins(ctx, fmt.Sprintf("[%s] Issue reported via chat", strings.ToUpper(e.Urgency)),
				fmt.Sprintf("Type: %s\nUrgency: %s\nReporter: %s\n\n%s\n\nTechnical info: %s\nSession: %s",
					e.IssueType, e.Urgency, orUnknown(e.Email), e.Details, e.TechInfo, conv.SessionID))
		case chatbot.FeedbackReceived:
			s.mailer.NotifyAdmins(ctx, "New feedback: "+e.Category,
				fmt.Sprintf("Category: %s\nRating: %s\nFrom: %s\n\n%s\n\nSuggestions: %s\nSession: %s",
					e.Category, e.Rating, orUnknown(e.Email), e.Details, e.Suggestions, conv.SessionID))
		}
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "anonymous"
	}
	return s
}

const (
	fallbackEscalationEmail = "unknown@example.com"
	fallbackEscalationName  = "Anonymous User"
)

// Satisfaction closes a conversation. Unsatisfied users are escalated to staff.
func (s *ChatbotService) Satisfaction(ctx context.Context, req dtos.SatisfactionRequest) (*dtos.ChatResponse, error) {
	conv, err := s.repo.GetBySession(ctx, strings.TrimSpace(req.SessionID))
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, errConversationNotFound
	}
	satisfied := *req.IsSatisfied

	answer := "Yes, I'm satisfied"
	if !satisfied {
		answer = "No, I need more help"
	}
	if fb := strings.TrimSpace(utils.Val(req.Feedback)); fb != "" {
		answer += " - " + fb
	}
	if err := s.answerPending(ctx, conv.ID, answer); err != nil {
		return nil, err
	}

	now := s.now()
	err = s.repo.UpdateConversationWithRetry(ctx, conv.ID, func(c *models.ChatbotConversation) error {
		c.IsSatisfied = &satisfied
		c.CompletedAt = &now
		c.Stage = string(chatbot.StageDone)
		if satisfied {
			c.Status = models.ConversationCompleted
		} else {
			c.Status = models.ConversationEscalated
		}
		conv = c
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Conversation not found")
	}

	if !satisfied {
		esc := &models.ChatbotEscalation{
			ID:             uuid.New(),
			ConversationID: conv.ID,
			Reason:         "unsatisfied",
			Priority:       "medium",
			Status:         models.EscalationPending,
			ContactEmail:   utils.Val(conv.GuestEmail),
			ContactName:    conv.GuestName,
			ContactPhone:   conv.GuestPhone,
		}
		if esc.ContactEmail == "" {
			esc.ContactEmail = fallbackEscalationEmail
		}
		if esc.ContactName == nil {
			esc.ContactName = utils.StrPtr(fallbackEscalationName)
		}
		if err := s.repo.CreateEscalation(ctx, esc); err != nil {
			return nil, err
		}
		metrics.ChatbotEscalations.Inc()
	}
	s.notifySatisfaction(ctx, conv, satisfied, req.Feedback)

	msg := "Thank you for your feedback!"
	if !satisfied {
		msg = "We'll have someone contact you soon!"
	}
	return &dtos.ChatResponse{
		Success: true,
		Message: msg,
		Data: map[string]any{
			"conversation_completed": true,
			"escalated":              !satisfied,
			"session_id":             conv.SessionID,
		},
	}, nil
}

func (s *ChatbotService) notifySatisfaction(ctx context.Context, conv *models.ChatbotConversation, satisfied bool, feedback *string) {
	messages, err := s.repo.ListMessages(ctx, conv.ID)
	if err != nil {
		utils.Logger.WithError(err).Warnf("Loading transcript for %s failed", conv.SessionID)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nFlow: %s\nGuest: %s <%s>\nSatisfied: %t\n",
		conv.SessionID, flowName(conv.FlowType), utils.Val(conv.GuestName), utils.Val(conv.GuestEmail), satisfied)
	if feedback != nil && *feedback != "" {
		fmt.Fprintf(&b, "Feedback: %s\n", *feedback)
	}
	b.WriteString("\nTranscript:\n")
	for _, m := range messages {
		fmt.Fprintf(&b, "%d. Bot: %s\n", m.StepNumber, m.QuestionText)
		if m.UserResponse != nil {
			fmt.Fprintf(&b, "   User: %s\n", *m.UserResponse)
		}
	}

	subject := "Chat completed: user satisfied"
	if !satisfied {
		subject = "Chat escalation: user needs more help"
	}
	s.mailer.NotifyAdmins(ctx, subject, b.String())
}

func flowName(f *models.ChatbotFlowType) string {
	if f == nil {
		return "none"
	}
	return string(*f)
}

func (s *ChatbotService) ListConversations(ctx context.Context, status *models.ConversationStatus, page, limit int) (*dtos.ConversationListResponse, error) {
	convs, total, err := s.repo.ListConversations(ctx, status, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if convs == nil {
		convs = []*repositories.ConversationSummary{}
	}
	return &dtos.ConversationListResponse{
		Conversations: convs,
		Total:         total,
		Page:          page,
		Limit:         limit,
		Pages:         utils.Pages(total, limit),
	}, nil
}

func (s *ChatbotService) Conversation(ctx context.Context, id uuid.UUID) (*dtos.ConversationDetailResponse, error) {
	conv, err := s.repo.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, errConversationNotFound
	}
	messages, err := s.repo.ListMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	escalations, err := s.repo.ListEscalations(ctx, id)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*models.ChatbotMessage{}
	}
	if escalations == nil {
		escalations = []*models.ChatbotEscalation{}
	}
	return &dtos.ConversationDetailResponse{Conversation: conv, Messages: messages, Escalations: escalations}, nil
}

func (s *ChatbotService) Stats(ctx context.Context) (*dtos.ChatbotStatsResponse, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	var rate float64
	if st.Rated > 0 {
		rate = math.Round(float64(st.Satisfied)/float64(st.Rated)*1000) / 10
	}
	return &dtos.ChatbotStatsResponse{ChatbotStats: st, SatisfactionRate: rate}, nil
}

// AbandonIdle marks active conversations idle for longer than maxIdle as abandoned.
func (s *ChatbotService) AbandonIdle(ctx context.Context, maxIdle time.Duration) (int64, error) {
	n, err := s.repo.AbandonIdleSince(ctx, s.now().Add(-maxIdle))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.ChatbotAbandoned.Add(float64(n))
	}
	return n, nil
}
