package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/middleware"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/services"
	"github.com/propnest/rental-backend/internal/utils"
)

const (
	defaultConversationLimit = 20
	maxConversationLimit     = 100
)

type ChatbotController struct {
	chatbotService *services.ChatbotService
	validate       *validator.Validate
}

func NewChatbotController(chatbotService *services.ChatbotService) *ChatbotController {
	return &ChatbotController{chatbotService: chatbotService, validate: newValidator()}
}

func clientInfo(r *http.Request) services.ClientInfo {
	info := services.ClientInfo{
		UserAgent: r.UserAgent(),
		IP:        utils.ClientIP(r),
	}
	if id, err := uuid.Parse(middleware.UserIDFromContext(r.Context())); err == nil {
		info.UserID = &id
	}
	return info
}

// POST /api/chatbot/start
func (c *ChatbotController) StartHandler(w http.ResponseWriter, r *http.Request) {
	// an empty body starts a fresh session
	var req dtos.StartChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error",
			formatValidationErrors(err), err)
		return
	}
	resp, err := c.chatbotService.Start(r.Context(), req.SessionID, clientInfo(r))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/chatbot/respond
func (c *ChatbotController) RespondHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.RespondChatRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	resp, err := c.chatbotService.Respond(r.Context(), req.SessionID, req.Response)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/chatbot/satisfaction
func (c *ChatbotController) SatisfactionHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SatisfactionRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	resp, err := c.chatbotService.Satisfaction(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/admin/chatbot/conversations
func (c *ChatbotController) ListConversationsHandler(w http.ResponseWriter, r *http.Request) {
	var status *models.ConversationStatus
	if s := utils.QueryString(r, "status"); s != nil {
		st := models.ConversationStatus(*s)
		status = &st
	}
	page := utils.QueryInt(r, "page", 1, 1, 0)
	limit := utils.QueryInt(r, "limit", defaultConversationLimit, 1, maxConversationLimit)
	resp, err := c.chatbotService.ListConversations(r.Context(), status, page, limit)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/admin/chatbot/conversations/{id}
func (c *ChatbotController) ConversationHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	resp, err := c.chatbotService.Conversation(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/admin/chatbot/stats
func (c *ChatbotController) StatsHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := c.chatbotService.Stats(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
