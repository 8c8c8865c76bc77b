package dtos

import (
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
)

type StartChatRequest struct {
	SessionID *string `json:"session_id,omitempty" validate:"omitempty,max=100"`
}

type RespondChatRequest struct {
	SessionID string `json:"session_id" validate:"required,max=100"`
	Response  string `json:"response" validate:"required,max=2000"`
}

type SatisfactionRequest struct {
	SessionID   string  `json:"session_id" validate:"required,max=100"`
	IsSatisfied *bool   `json:"is_satisfied" validate:"required"`
	Feedback    *string `json:"feedback,omitempty" validate:"omitempty,max=2000"`
}

// ChatResponse wraps every chatbot reply; Data carries session_id,
// question, options, step_number, input_type, is_final, flow_type and any
// flow-specific extras.
type ChatResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

type ConversationListResponse struct {
	Conversations []*repositories.ConversationSummary `json:"conversations"`
	Total         int64                               `json:"total"`
	Page          int                                 `json:"page"`
	Limit         int                                 `json:"limit"`
	Pages         int                                 `json:"pages"`
}

type ConversationDetailResponse struct {
	Conversation *models.ChatbotConversation `json:"conversation"`
	Messages     []*models.ChatbotMessage    `json:"messages"`
	Escalations  []*models.ChatbotEscalation `json:"escalations"`
}

type ChatbotStatsResponse struct {
	*repositories.ChatbotStats
	SatisfactionRate float64 `json:"satisfaction_rate"`
}
