package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/propnest/rental-backend/internal/chatbot"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

/*──────────── messaging ────────────*/

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	admin   []sentMail
	sendErr error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) NotifyAdmins(_ context.Context, subject, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.admin = append(m.admin, sentMail{Subject: subject, Body: body})
}

type fakeSMS struct {
	enabled bool
	sent    []sentMail
}

func (s *fakeSMS) Enabled() bool { return s.enabled }

func (s *fakeSMS) SendSMS(_ context.Context, to, body string) error {
	s.sent = append(s.sent, sentMail{To: to, Body: body})
	return nil
}

/*──────────── properties ────────────*/

// memPropertyRepo implements the subset of PropertyRepository the services
// under test call; anything else panics through the nil embedded interface.
type memPropertyRepo struct {
	repositories.PropertyRepository
	props map[uuid.UUID]*models.Property
	media []*models.PropertyMedia
	stats repositories.PropertyStats

	addMediaErr error
	listErr     error
}

func newMemPropertyRepo(props ...*models.Property) *memPropertyRepo {
	r := &memPropertyRepo{props: map[uuid.UUID]*models.Property{}}
	for _, p := range props {
		r.props[p.ID] = p
	}
	return r
}

func (r *memPropertyRepo) Create(_ context.Context, p *models.Property) error {
	cp := *p
	r.props[p.ID] = &cp
	return nil
}

func (r *memPropertyRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Property, error) {
	p, ok := r.props[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.Media = []*models.PropertyMedia{}
	for _, m := range r.media {
		if m.PropertyID == id {
			mc := *m
			cp.Media = append(cp.Media, &mc)
		}
	}
	return &cp, nil
}

// InTx restores the previous state when fn fails.
func (r *memPropertyRepo) InTx(_ context.Context, fn func(repositories.PropertyRepository) error) error {
	props := make(map[uuid.UUID]*models.Property, len(r.props))
	for id, p := range r.props {
		cp := *p
		props[id] = &cp
	}
	media := make([]*models.PropertyMedia, len(r.media))
	for i, m := range r.media {
		mc := *m
		media[i] = &mc
	}
	if err := fn(r); err != nil {
		r.props, r.media = props, media
		return err
	}
	return nil
}

func (r *memPropertyRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	p, ok := r.props[id]
	if !ok {
		return pgx.ErrNoRows
	}
	cp := *p
	if err := mutate(&cp); err != nil {
		return err
	}
	cp.RowVersion++
	r.props[id] = &cp
	return nil
}

func (r *memPropertyRepo) RemoveMedia(_ context.Context, propertyID uuid.UUID, mediaIDs []uuid.UUID) error {
	drop := make(map[uuid.UUID]bool, len(mediaIDs))
	for _, id := range mediaIDs {
		drop[id] = true
	}
	kept := r.media[:0]
	for _, m := range r.media {
		if m.PropertyID == propertyID && drop[m.ID] {
			continue
		}
		kept = append(kept, m)
	}
	r.media = kept
	return nil
}

func (r *memPropertyRepo) SetCover(_ context.Context, propertyID, mediaID uuid.UUID) error {
	found := false
	for _, m := range r.media {
		if m.PropertyID == propertyID && m.ID == mediaID {
			found = true
		}
	}
	if !found {
		return pgx.ErrNoRows
	}
	for _, m := range r.media {
		if m.PropertyID == propertyID {
			m.IsCover = m.ID == mediaID
		}
	}
	return nil
}

func (r *memPropertyRepo) List(_ context.Context, f repositories.PropertyFilter) ([]*models.Property, int64, error) {
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	var out []*models.Property
	for _, p := range r.props {
		if f.Status != nil && p.Status != *f.Status {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	total := int64(len(out))
	if f.Limit > 0 {
		start := f.Offset
		if start > len(out) {
			start = len(out)
		}
		end := start + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (r *memPropertyRepo) Stats(context.Context) (repositories.PropertyStats, error) {
	return r.stats, nil
}

func (r *memPropertyRepo) AddMedia(_ context.Context, m *models.PropertyMedia) error {
	if r.addMediaErr != nil {
		return r.addMediaErr
	}
	r.media = append(r.media, m)
	return nil
}

/*──────────── meetings ────────────*/

type memMeetingRepo struct {
	repositories.MeetingRepository
	meetings map[uuid.UUID]*models.ScheduleMeeting
}

func newMemMeetingRepo() *memMeetingRepo {
	return &memMeetingRepo{meetings: map[uuid.UUID]*models.ScheduleMeeting{}}
}

func (r *memMeetingRepo) Create(_ context.Context, m *models.ScheduleMeeting) error {
	cp := *m
	r.meetings[m.ID] = &cp
	return nil
}

func (r *memMeetingRepo) GetByID(_ context.Context, id uuid.UUID) (*models.ScheduleMeeting, error) {
	m, ok := r.meetings[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *memMeetingRepo) List(_ context.Context, status *models.MeetingStatus, propertyID *uuid.UUID) ([]*models.ScheduleMeeting, error) {
	var out []*models.ScheduleMeeting
	for _, m := range r.meetings {
		if status != nil && m.Status != *status {
			continue
		}
		if propertyID != nil && m.PropertyID != *propertyID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *memMeetingRepo) CountByStatus(_ context.Context, status models.MeetingStatus) (int64, error) {
	var n int64
	for _, m := range r.meetings {
		if m.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *memMeetingRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.ScheduleMeeting) error) error {
	m, ok := r.meetings[id]
	if !ok {
		return pgx.ErrNoRows
	}
	cp := *m
	if err := mutate(&cp); err != nil {
		return err
	}
	cp.RowVersion++
	r.meetings[id] = &cp
	return nil
}

func (r *memMeetingRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.meetings[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.meetings, id)
	return nil
}

/*──────────── notices ────────────*/

type memNoticeRepo struct {
	repositories.NoticeRepository
	notices map[uuid.UUID]*models.Notice
}

func newMemNoticeRepo() *memNoticeRepo {
	return &memNoticeRepo{notices: map[uuid.UUID]*models.Notice{}}
}

func (r *memNoticeRepo) Create(_ context.Context, n *models.Notice) error {
	cp := *n
	r.notices[n.ID] = &cp
	return nil
}

func (r *memNoticeRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Notice, error) {
	n, ok := r.notices[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (r *memNoticeRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.Notice) error) error {
	n, ok := r.notices[id]
	if !ok {
		return pgx.ErrNoRows
	}
	cp := *n
	if err := mutate(&cp); err != nil {
		return err
	}
	r.notices[id] = &cp
	return nil
}

func (r *memNoticeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.notices[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.notices, id)
	return nil
}

/*──────────── applications ────────────*/

type memApplicationRepo struct {
	repositories.ApplicationRepository
	apps map[uuid.UUID]*models.RentalApplication
}

func newMemApplicationRepo() *memApplicationRepo {
	return &memApplicationRepo{apps: map[uuid.UUID]*models.RentalApplication{}}
}

func (r *memApplicationRepo) Create(_ context.Context, a *models.RentalApplication) error {
	cp := *a
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	*a = cp
	r.apps[a.ID] = &cp
	return nil
}

func (r *memApplicationRepo) GetByID(_ context.Context, id uuid.UUID) (*models.RentalApplication, error) {
	a, ok := r.apps[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memApplicationRepo) List(_ context.Context, _ *models.ApplicationStatus, _, _ int) ([]*models.RentalApplication, int64, error) {
	var out []*models.RentalApplication
	for _, a := range r.apps {
		cp := *a
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

/*──────────── screening ────────────*/

type memScreeningRepo struct {
	repositories.ScreeningRepository
	questions map[uuid.UUID]*models.ScreeningQuestion
	responses map[uuid.UUID]*models.ScreeningResponse
	answers   []*models.ScreeningAnswer
}

func newMemScreeningRepo(qs ...*models.ScreeningQuestion) *memScreeningRepo {
	r := &memScreeningRepo{
		questions: map[uuid.UUID]*models.ScreeningQuestion{},
		responses: map[uuid.UUID]*models.ScreeningResponse{},
	}
	for _, q := range qs {
		r.questions[q.ID] = q
	}
	return r
}

// InTx has no rollback; tests assert on state only after successful calls.
func (r *memScreeningRepo) InTx(_ context.Context, fn func(repositories.ScreeningRepository) error) error {
	return fn(r)
}

func (r *memScreeningRepo) CreateQuestion(_ context.Context, q *models.ScreeningQuestion) error {
	r.questions[q.ID] = q
	return nil
}

func (r *memScreeningRepo) GetQuestion(_ context.Context, id uuid.UUID) (*models.ScreeningQuestion, error) {
	return r.questions[id], nil
}

func (r *memScreeningRepo) ListQuestions(_ context.Context, activeOnly bool) ([]*models.ScreeningQuestion, error) {
	var out []*models.ScreeningQuestion
	for _, q := range r.questions {
		if activeOnly && !q.IsActive {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *memScreeningRepo) MaxOrder(context.Context) (int, error) {
	max := 0
	for _, q := range r.questions {
		if q.Order > max {
			max = q.Order
		}
	}
	return max, nil
}

func (r *memScreeningRepo) ShiftOrdersFrom(_ context.Context, order int) error {
	for _, q := range r.questions {
		if q.Order >= order {
			q.Order++
		}
	}
	return nil
}

func (r *memScreeningRepo) CompactOrdersAfter(_ context.Context, order int) error {
	for _, q := range r.questions {
		if q.Order > order {
			q.Order--
		}
	}
	return nil
}

func (r *memScreeningRepo) DeleteQuestion(_ context.Context, id uuid.UUID) error {
	if _, ok := r.questions[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.questions, id)
	return nil
}

func (r *memScreeningRepo) CreateResponse(_ context.Context, resp *models.ScreeningResponse) error {
	r.responses[resp.ID] = resp
	return nil
}

func (r *memScreeningRepo) CreateAnswer(_ context.Context, a *models.ScreeningAnswer) error {
	r.answers = append(r.answers, a)
	return nil
}

func (r *memScreeningRepo) GetResponse(_ context.Context, id uuid.UUID) (*models.ScreeningResponse, error) {
	return r.responses[id], nil
}

type fakeRecommender struct {
	calls []uuid.UUID
	err   error
}

func (f *fakeRecommender) Generate(_ context.Context, screeningID uuid.UUID) (*models.PropertyRecommendation, error) {
	f.calls = append(f.calls, screeningID)
	if f.err != nil {
		return nil, f.err
	}
	return &models.PropertyRecommendation{ID: uuid.New(), ScreeningID: &screeningID}, nil
}

/*──────────── chatbot ────────────*/

type memChatbotRepo struct {
	repositories.ChatbotRepository
	convs       map[uuid.UUID]*models.ChatbotConversation
	messages    []*models.ChatbotMessage
	escalations []*models.ChatbotEscalation
}

func newMemChatbotRepo() *memChatbotRepo {
	return &memChatbotRepo{convs: map[uuid.UUID]*models.ChatbotConversation{}}
}

func (r *memChatbotRepo) CreateConversation(_ context.Context, c *models.ChatbotConversation) error {
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.convs[c.ID] = &cp
	return nil
}

func (r *memChatbotRepo) GetConversation(_ context.Context, id uuid.UUID) (*models.ChatbotConversation, error) {
	c, ok := r.convs[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memChatbotRepo) GetBySession(_ context.Context, sessionID string) (*models.ChatbotConversation, error) {
	for _, c := range r.convs {
		if c.SessionID == sessionID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memChatbotRepo) UpdateConversationWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.ChatbotConversation) error) error {
	c, ok := r.convs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	cp := *c
	if err := mutate(&cp); err != nil {
		return err
	}
	cp.UpdatedAt = time.Now().UTC()
	r.convs[id] = &cp
	return nil
}

func (r *memChatbotRepo) AbandonIdleSince(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, c := range r.convs {
		if c.Status == models.ConversationActive && c.UpdatedAt.Before(cutoff) {
			c.Status = models.ConversationAbandoned
			n++
		}
	}
	return n, nil
}

func (r *memChatbotRepo) CreateMessage(_ context.Context, m *models.ChatbotMessage) error {
	r.messages = append(r.messages, m)
	return nil
}

func (r *memChatbotRepo) LastMessage(_ context.Context, conversationID uuid.UUID) (*models.ChatbotMessage, error) {
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].ConversationID == conversationID {
			return r.messages[i], nil
		}
	}
	return nil, nil
}

func (r *memChatbotRepo) AnswerMessage(context.Context, *models.ChatbotMessage) error {
	return nil
}

func (r *memChatbotRepo) ListMessages(_ context.Context, conversationID uuid.UUID) ([]*models.ChatbotMessage, error) {
	var out []*models.ChatbotMessage
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memChatbotRepo) CreateEscalation(_ context.Context, e *models.ChatbotEscalation) error {
	r.escalations = append(r.escalations, e)
	return nil
}

func (r *memChatbotRepo) CountOpenEscalations(context.Context) (int64, error) {
	var n int64
	for _, e := range r.escalations {
		if e.Status == models.EscalationPending || e.Status == models.EscalationInProgress {
			n++
		}
	}
	return n, nil
}

type fakeBooker struct {
	requests []uuid.UUID
}

func (b *fakeBooker) BookFromChat(_ context.Context, v chatbot.VisitRequest) (*models.ScheduleMeeting, error) {
	b.requests = append(b.requests, v.PropertyID)
	return &models.ScheduleMeeting{ID: uuid.New(), PropertyID: v.PropertyID}, nil
}

func strPtr(s string) *string { return utils.StrPtr(s) }
