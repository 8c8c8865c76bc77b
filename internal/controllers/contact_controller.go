package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/propnest/rental-backend/internal/constants"
	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/services"
	"github.com/propnest/rental-backend/internal/utils"
)

type ContactController struct {
	contactService *services.ContactService
	validate       *validator.Validate
}

func NewContactController(contactService *services.ContactService) *ContactController {
	return &ContactController{contactService: contactService, validate: newValidator()}
}

// POST /api/public/contact
func (c *ContactController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateContactRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	contact, err := c.contactService.Create(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, contact)
}

// GET /api/admin/contacts
func (c *ContactController) ListHandler(w http.ResponseWriter, r *http.Request) {
	var status *models.ContactStatus
	if s := utils.QueryString(r, "status"); s != nil {
		st := models.ContactStatus(*s)
		status = &st
	}
	limit := utils.QueryInt(r, "limit", constants.DefaultAdminListLimit, 1, constants.MaxPageLimit)
	offset := utils.QueryInt(r, "offset", 0, 0, 0)
	resp, err := c.contactService.List(r.Context(), status, limit, offset)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/admin/contacts/{id}
func (c *ContactController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	contact, err := c.contactService.Get(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, contact)
}

// POST /api/admin/contacts/{id}/reply
func (c *ContactController) ReplyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.ContactReplyRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	contact, err := c.contactService.Reply(r.Context(), id, req.Reply)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, contact)
}

// PUT /api/admin/contacts/{id}/status
func (c *ContactController) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.ContactStatusRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	contact, err := c.contactService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, contact)
}

// DELETE /api/admin/contacts/{id}
func (c *ContactController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.contactService.Delete(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Contact deleted successfully")
}
