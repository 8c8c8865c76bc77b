package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/propnest/rental-backend/internal/models"
)

// ConversationSummary is a conversation row enriched for the admin list.
type ConversationSummary struct {
	*models.ChatbotConversation
	MessagesCount int64 `json:"messages_count"`
	HasEscalation bool  `json:"has_escalation"`
}

type ChatbotStats struct {
	Total           int64            `json:"total_conversations"`
	ByStatus        map[string]int64 `json:"by_status"`
	ByFlow          map[string]int64 `json:"by_flow"`
	Satisfied       int64            `json:"satisfied"`
	Rated           int64            `json:"rated"`
	OpenEscalations int64            `json:"open_escalations"`
}

type ChatbotRepository interface {
	CreateConversation(ctx context.Context, c *models.ChatbotConversation) error
	GetConversation(ctx context.Context, id uuid.UUID) (*models.ChatbotConversation, error)
	GetBySession(ctx context.Context, sessionID string) (*models.ChatbotConversation, error)
	UpdateConversationIfVersion(ctx context.Context, c *models.ChatbotConversation, expected int64) (pgconn.CommandTag, error)
	UpdateConversationWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ChatbotConversation) error) error
	ListConversations(ctx context.Context, status *models.ConversationStatus, limit, offset int) ([]*ConversationSummary, int64, error)
	Stats(ctx context.Context) (*ChatbotStats, error)
	AbandonIdleSince(ctx context.Context, cutoff time.Time) (int64, error)

	CreateMessage(ctx context.Context, m *models.ChatbotMessage) error
	LastMessage(ctx context.Context, conversationID uuid.UUID) (*models.ChatbotMessage, error)
	AnswerMessage(ctx context.Context, m *models.ChatbotMessage) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.ChatbotMessage, error)

	CreateEscalation(ctx context.Context, e *models.ChatbotEscalation) error
	ListEscalations(ctx context.Context, conversationID uuid.UUID) ([]*models.ChatbotEscalation, error)
	CountOpenEscalations(ctx context.Context) (int64, error)
}

type chatbotRepo struct {
	*BaseVersionedRepo[*models.ChatbotConversation]
	db DB
}

func NewChatbotRepository(db DB) ChatbotRepository {
	r := &chatbotRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectConversation()+" WHERE id=$1", scanConversation)
	return r
}

func (r *chatbotRepo) CreateConversation(ctx context.Context, c *models.ChatbotConversation) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO chatbot_conversations (
            id, session_id, flow_type, user_id, guest_email, guest_name, guest_phone,
            current_step, current_stage, flow_state, status, user_ip, user_agent,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13, NOW(), NOW(), 1)
    `,
		c.ID, c.SessionID, c.FlowType, c.UserID, c.GuestEmail, c.GuestName, c.GuestPhone,
		c.CurrentStep, c.Stage, flowStateParam(c.FlowState), c.Status, c.UserIP, c.UserAgent,
	)
	return err
}

func (r *chatbotRepo) GetConversation(ctx context.Context, id uuid.UUID) (*models.ChatbotConversation, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *chatbotRepo) GetBySession(ctx context.Context, sessionID string) (*models.ChatbotConversation, error) {
	return scanConversation(r.db.QueryRow(ctx, baseSelectConversation()+" WHERE session_id=$1", sessionID))
}

func (r *chatbotRepo) UpdateConversationIfVersion(ctx context.Context, c *models.ChatbotConversation, expected int64) (pgconn.CommandTag, error) {
	sql, args := versionedTail(`
        UPDATE chatbot_conversations SET
            flow_type=$1, guest_email=$2, guest_name=$3, guest_phone=$4, current_step=$5,
            current_stage=$6, flow_state=$7, status=$8, is_satisfied=$9, completed_at=$10,
            updated_at=NOW()`,
		[]any{
			c.FlowType, c.GuestEmail, c.GuestName, c.GuestPhone, c.CurrentStep,
			c.Stage, flowStateParam(c.FlowState), c.Status, c.IsSatisfied, c.CompletedAt,
		},
		c.ID, true, expected,
	)
	return r.db.Exec(ctx, sql, args...)
}

func (r *chatbotRepo) UpdateConversationWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.ChatbotConversation) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateConversationIfVersion)
}

func (r *chatbotRepo) ListConversations(ctx context.Context, status *models.ConversationStatus, limit, offset int) ([]*ConversationSummary, int64, error) {
	var w whereBuilder
	if status != nil {
		w.add("c.status=$%d", *status)
	}
	total, err := count(ctx, r.db, "SELECT COUNT(*) FROM chatbot_conversations c"+w.sql(), w.args...)
	if err != nil {
		return nil, 0, err
	}
	sql := `
        SELECT ` + conversationColumns("c.") + `,
               (SELECT COUNT(*) FROM chatbot_messages m WHERE m.conversation_id = c.id),
               EXISTS (SELECT 1 FROM chatbot_escalations e WHERE e.conversation_id = c.id)
        FROM chatbot_conversations c` + w.sql() +
		" ORDER BY c.created_at DESC LIMIT " + w.next(limit) + " OFFSET " + w.next(offset)

	out, err := queryAll(ctx, r.db, func(row pgx.Row) (*ConversationSummary, error) {
		var s ConversationSummary
		var c models.ChatbotConversation
		var state []byte
		dst := append(conversationDest(&c, &state), &s.MessagesCount, &s.HasEscalation)
		if err := row.Scan(dst...); err != nil {
			return nil, err
		}
		c.FlowState = state
		s.ChatbotConversation = &c
		return &s, nil
	}, sql, w.args...)
	return out, total, err
}

func (r *chatbotRepo) Stats(ctx context.Context) (*ChatbotStats, error) {
	s := &ChatbotStats{ByStatus: map[string]int64{}, ByFlow: map[string]int64{}}

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM chatbot_conversations GROUP BY status`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var k string
		var n int64
		if err := rows.Scan(&k, &n); err != nil {
			rows.Close()
			return nil, err
		}
		s.ByStatus[k] = n
		s.Total += n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.db.Query(ctx, `
        SELECT COALESCE(flow_type, 'none'), COUNT(*) FROM chatbot_conversations GROUP BY 1
    `)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var k string
		var n int64
		if err := rows.Scan(&k, &n); err != nil {
			rows.Close()
			return nil, err
		}
		s.ByFlow[k] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `
        SELECT COUNT(*) FILTER (WHERE is_satisfied), COUNT(*) FILTER (WHERE is_satisfied IS NOT NULL)
        FROM chatbot_conversations
    `).Scan(&s.Satisfied, &s.Rated)
	if err != nil {
		return nil, err
	}

	s.OpenEscalations, err = r.CountOpenEscalations(ctx)
	return s, err
}

func (r *chatbotRepo) AbandonIdleSince(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE chatbot_conversations
        SET status='abandoned', updated_at=NOW(), row_version=row_version+1
        WHERE status='active' AND updated_at < $1
    `, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

/* ---------------- messages ---------------- */

func (r *chatbotRepo) CreateMessage(ctx context.Context, m *models.ChatbotMessage) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO chatbot_messages (
            id, conversation_id, step_number, question_text, user_response,
            response_time_seconds, created_at, responded_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `,
		m.ID, m.ConversationID, m.StepNumber, m.QuestionText, m.UserResponse,
		m.ResponseTimeSeconds, m.CreatedAt, m.RespondedAt,
	)
	return err
}

func (r *chatbotRepo) LastMessage(ctx context.Context, conversationID uuid.UUID) (*models.ChatbotMessage, error) {
	m, err := scanMessage(r.db.QueryRow(ctx, baseSelectMessage()+`
        WHERE conversation_id=$1 ORDER BY created_at DESC, step_number DESC LIMIT 1
    `, conversationID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func (r *chatbotRepo) AnswerMessage(ctx context.Context, m *models.ChatbotMessage) error {
	_, err := r.db.Exec(ctx, `
        UPDATE chatbot_messages SET user_response=$1, response_time_seconds=$2, responded_at=$3
        WHERE id=$4
    `, m.UserResponse, m.ResponseTimeSeconds, m.RespondedAt, m.ID)
	return err
}

func (r *chatbotRepo) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.ChatbotMessage, error) {
	return queryAll(ctx, r.db, scanMessage,
		baseSelectMessage()+" WHERE conversation_id=$1 ORDER BY created_at, step_number", conversationID)
}

/* ---------------- escalations ---------------- */

func (r *chatbotRepo) CreateEscalation(ctx context.Context, e *models.ChatbotEscalation) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO chatbot_escalations (
            id, conversation_id, reason, priority, status, contact_email, contact_name,
            contact_phone, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW())
    `,
		e.ID, e.ConversationID, e.Reason, e.Priority, e.Status, e.ContactEmail, e.ContactName, e.ContactPhone,
	)
	return err
}

func (r *chatbotRepo) ListEscalations(ctx context.Context, conversationID uuid.UUID) ([]*models.ChatbotEscalation, error) {
	return queryAll(ctx, r.db, func(row pgx.Row) (*models.ChatbotEscalation, error) {
		var e models.ChatbotEscalation
		err := row.Scan(
			&e.ID, &e.ConversationID, &e.Reason, &e.Priority, &e.AssignedTo, &e.Status,
			&e.AdminNotes, &e.ContactEmail, &e.ContactName, &e.ContactPhone, &e.CreatedAt, &e.ResolvedAt,
		)
		return &e, err
	}, `
        SELECT id, conversation_id, reason, priority, assigned_to, status, admin_notes,
               contact_email, contact_name, contact_phone, created_at, resolved_at
        FROM chatbot_escalations WHERE conversation_id=$1 ORDER BY created_at DESC
    `, conversationID)
}

func (r *chatbotRepo) CountOpenEscalations(ctx context.Context) (int64, error) {
	return count(ctx, r.db, `SELECT COUNT(*) FROM chatbot_escalations WHERE status IN ('pending','in_progress')`)
}

/* ---------------- scanning ---------------- */

func conversationColumns(prefix string) string {
	cols := []string{
		"id", "session_id", "flow_type", "user_id", "guest_email", "guest_name", "guest_phone",
		"current_step", "current_stage", "flow_state", "status", "is_satisfied", "user_ip",
		"user_agent", "created_at", "updated_at", "completed_at", "row_version",
	}
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ", "
		}
		out += prefix + c
	}
	return out
}

func conversationDest(c *models.ChatbotConversation, state *[]byte) []any {
	return []any{
		&c.ID, &c.SessionID, &c.FlowType, &c.UserID, &c.GuestEmail, &c.GuestName, &c.GuestPhone,
		&c.CurrentStep, &c.Stage, state, &c.Status, &c.IsSatisfied, &c.UserIP,
		&c.UserAgent, &c.CreatedAt, &c.UpdatedAt, &c.CompletedAt, &c.RowVersion,
	}
}

func baseSelectConversation() string {
	return "SELECT " + conversationColumns("") + " FROM chatbot_conversations"
}

func scanConversation(row pgx.Row) (*models.ChatbotConversation, error) {
	var c models.ChatbotConversation
	var state []byte
	if err := row.Scan(conversationDest(&c, &state)...); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	c.FlowState = state
	return &c, nil
}

func flowStateParam(raw []byte) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}

func baseSelectMessage() string {
	return `
        SELECT id, conversation_id, step_number, question_text, user_response,
               response_time_seconds, created_at, responded_at
        FROM chatbot_messages
    `
}

func scanMessage(row pgx.Row) (*models.ChatbotMessage, error) {
	var m models.ChatbotMessage
	err := row.Scan(
		&m.ID, &m.ConversationID, &m.StepNumber, &m.QuestionText, &m.UserResponse,
		&m.ResponseTimeSeconds, &m.CreatedAt, &m.RespondedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
