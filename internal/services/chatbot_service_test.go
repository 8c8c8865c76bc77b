package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propnest/rental-backend/internal/chatbot"
	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/models"
)

type chatFixture struct {
	svc    *ChatbotService
	repo   *memChatbotRepo
	props  *memPropertyRepo
	booker *fakeBooker
	mailer *fakeMailer
}

func newChatFixture(props ...*models.Property) *chatFixture {
	repo := newMemChatbotRepo()
	booker := &fakeBooker{}
	mailer := &fakeMailer{}
	propRepo := newMemPropertyRepo(props...)
	engine := chatbot.NewEngine(NewPropertyCatalog(propRepo))
	return &chatFixture{
		svc:    NewChatbotService(repo, engine, booker, mailer),
		repo:   repo,
		props:  propRepo,
		booker: booker,
		mailer: mailer,
	}
}

func (f *chatFixture) start(t *testing.T) string {
	t.Helper()
	res, err := f.svc.Start(context.Background(), nil, ClientInfo{UserAgent: "test-agent", IP: "10.0.0.1"})
	require.NoError(t, err)
	sid, ok := res.Data["session_id"].(string)
	require.True(t, ok)
	return sid
}

func (f *chatFixture) say(t *testing.T, sid string, answers ...string) *dtos.ChatResponse {
	t.Helper()
	var res *dtos.ChatResponse
	for _, a := range answers {
		var err error
		res, err = f.svc.Respond(context.Background(), sid, a)
		require.NoError(t, err, "answer %q", a)
	}
	return res
}

func TestChatbotService_StartAndResume(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()

	res, err := f.svc.Start(ctx, strPtr("session-1"), ClientInfo{UserAgent: "ua", IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Chat started successfully", res.Message)
	assert.Equal(t, "session-1", res.Data["session_id"])
	assert.Equal(t, "Hi! I'm your property assistant. How can I help you today?", res.Data["question"])
	require.Len(t, f.repo.messages, 1)

	again, err := f.svc.Start(ctx, strPtr("session-1"), ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, "Conversation resumed", again.Message)
	assert.Equal(t, res.Data["question"], again.Data["question"])
	assert.Len(t, f.repo.convs, 1)
}

func TestChatbotService_RespondUnknownSession(t *testing.T) {
	f := newChatFixture()
	_, err := f.svc.Respond(context.Background(), "nope", "hello")
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, err))
}

func TestChatbotService_FailedAdvanceLeavesQuestionOpen(t *testing.T) {
	f := newChatFixture(testProperty("Lake View"))
	sid := f.start(t)
	f.say(t, sid, "Ask about a specific property")

	pending := func() *models.ChatbotMessage {
		for _, m := range f.repo.messages {
			if m.QuestionText == "Do you have a specific property in mind?" {
				return m
			}
		}
		t.Fatal("has-property question not recorded")
		return nil
	}

	f.props.listErr = errors.New("catalog offline")
	_, err := f.svc.Respond(context.Background(), sid, "no")
	require.Error(t, err)
	assert.Nil(t, pending().UserResponse)

	f.props.listErr = nil
	f.say(t, sid, "No")
	require.NotNil(t, pending().UserResponse)
	assert.Equal(t, "No", *pending().UserResponse)
}

func TestChatbotService_PropertySearchLead(t *testing.T) {
	f := newChatFixture()
	sid := f.start(t)

	res := f.say(t, sid,
		"Find a property to rent", "Apartment", "Pune", "₹10,000-₹25,000",
		"2 BHK", "No", "Within 1 month", "Parking", "tenant@example.com",
	)
	assert.Equal(t, true, res.Data["is_final"])

	conv, err := f.repo.GetBySession(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, models.ConversationCompleted, conv.Status)
	assert.Equal(t, "tenant@example.com", *conv.GuestEmail)
	assert.Equal(t, 9, conv.CurrentStep)

	require.Len(t, f.mailer.admin, 1)
	assert.Equal(t, "New property search lead", f.mailer.admin[0].Subject)
	assert.Contains(t, f.mailer.admin[0].Body, "tenant@example.com")

	// every question but the last was answered
	for _, m := range f.repo.messages[:len(f.repo.messages)-1] {
		assert.NotNil(t, m.UserResponse, m.QuestionText)
	}

	_, err = f.svc.Respond(context.Background(), sid, "more")
	assert.Equal(t, http.StatusBadRequest, appErrStatus(t, err))
}

func TestChatbotService_VisitBooksMeeting(t *testing.T) {
	prop := testProperty("Garden Villa")
	prop.City = "Goa"
	f := newChatFixture(prop)
	sid := f.start(t)

	date := time.Now().UTC().AddDate(0, 0, 7).Format(dateLayout)
	f.say(t, sid,
		"Schedule a property visit", "Goa", prop.ID.String(), date,
		"Afternoon (12PM-4PM)", "Asha Rao", "9876543210", "asha@example.com",
	)

	assert.Equal(t, []uuid.UUID{prop.ID}, f.booker.requests)
	conv, err := f.repo.GetBySession(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", *conv.GuestName)
	assert.Equal(t, "9876543210", *conv.GuestPhone)
}

func TestChatbotService_Satisfaction(t *testing.T) {
	t.Run("satisfied completes", func(t *testing.T) {
		f := newChatFixture()
		sid := f.start(t)
		res, err := f.svc.Satisfaction(context.Background(), dtos.SatisfactionRequest{SessionID: sid, IsSatisfied: boolPtr(true)})
		require.NoError(t, err)
		assert.Equal(t, "Thank you for your feedback!", res.Message)
		assert.Empty(t, f.repo.escalations)

		conv, _ := f.repo.GetBySession(context.Background(), sid)
		assert.Equal(t, models.ConversationCompleted, conv.Status)
		assert.Equal(t, "Chat completed: user satisfied", f.mailer.admin[0].Subject)
	})

	t.Run("unsatisfied escalates with fallbacks", func(t *testing.T) {
		f := newChatFixture()
		sid := f.start(t)
		res, err := f.svc.Satisfaction(context.Background(), dtos.SatisfactionRequest{
			SessionID:   sid,
			IsSatisfied: boolPtr(false),
			Feedback:    strPtr("Nobody answered my question"),
		})
		require.NoError(t, err)
		assert.Equal(t, true, res.Data["escalated"])

		require.Len(t, f.repo.escalations, 1)
		esc := f.repo.escalations[0]
		assert.Equal(t, fallbackEscalationEmail, esc.ContactEmail)
		assert.Equal(t, fallbackEscalationName, *esc.ContactName)
		assert.Equal(t, models.EscalationPending, esc.Status)

		conv, _ := f.repo.GetBySession(context.Background(), sid)
		assert.Equal(t, models.ConversationEscalated, conv.Status)
		assert.Equal(t, "No, I need more help - Nobody answered my question", *f.repo.messages[0].UserResponse)
		assert.Contains(t, f.mailer.admin[0].Body, "Feedback: Nobody answered my question")
	})

	t.Run("unknown session", func(t *testing.T) {
		f := newChatFixture()
		_, err := f.svc.Satisfaction(context.Background(), dtos.SatisfactionRequest{SessionID: "x", IsSatisfied: boolPtr(true)})
		assert.Equal(t, http.StatusNotFound, appErrStatus(t, err))
	})
}

func TestChatbotService_FinishedSessionGetsNewConversation(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	_, err := f.svc.Start(ctx, strPtr("reuse-me"), ClientInfo{})
	require.NoError(t, err)
	_, err = f.svc.Satisfaction(ctx, dtos.SatisfactionRequest{SessionID: "reuse-me", IsSatisfied: boolPtr(true)})
	require.NoError(t, err)

	res, err := f.svc.Start(ctx, strPtr("reuse-me"), ClientInfo{})
	require.NoError(t, err)
	assert.NotEqual(t, "reuse-me", res.Data["session_id"])
	assert.Len(t, f.repo.convs, 2)
}

func TestChatbotService_AbandonIdle(t *testing.T) {
	f := newChatFixture()
	stale := f.start(t)
	fresh := f.start(t)

	for _, c := range f.repo.convs {
		if c.SessionID == stale {
			c.UpdatedAt = time.Now().UTC().Add(-48 * time.Hour)
		}
	}

	n, err := f.svc.AbandonIdle(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	staleConv, _ := f.repo.GetBySession(context.Background(), stale)
	freshConv, _ := f.repo.GetBySession(context.Background(), fresh)
	assert.Equal(t, models.ConversationAbandoned, staleConv.Status)
	assert.Equal(t, models.ConversationActive, freshConv.Status)
}

func boolPtr(b bool) *bool { return &b }
