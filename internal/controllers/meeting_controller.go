package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/services"
	"github.com/propnest/rental-backend/internal/utils"
)

type MeetingController struct {
	meetingService *services.MeetingService
	validate       *validator.Validate
}

func NewMeetingController(meetingService *services.MeetingService) *MeetingController {
	return &MeetingController{meetingService: meetingService, validate: newValidator()}
}

// POST /api/meetings/schedule (optional auth links the caller)
func (c *MeetingController) ScheduleHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.ScheduleMeetingRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	m, err := c.meetingService.Schedule(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.MeetingResponse{Message: "Meeting scheduled successfully", Meeting: m})
}

// GET /api/admin/meetings
func (c *MeetingController) ListHandler(w http.ResponseWriter, r *http.Request) {
	var status *models.MeetingStatus
	if s := utils.QueryString(r, "status"); s != nil {
		st := models.MeetingStatus(*s)
		status = &st
	}
	var propertyID *uuid.UUID
	if raw := utils.QueryString(r, "property_id"); raw != nil {
		id, err := uuid.Parse(*raw)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid property_id", nil, err)
			return
		}
		propertyID = &id
	}
	resp, err := c.meetingService.List(r.Context(), status, propertyID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/admin/meetings/{id}
func (c *MeetingController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	resp, err := c.meetingService.Get(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/admin/meetings/{id}/reply
func (c *MeetingController) ReplyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.MeetingReplyRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	m, err := c.meetingService.Reply(r.Context(), id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MeetingResponse{Message: "Reply sent successfully", Meeting: m})
}

// PUT /api/admin/meetings/{id}/complete
func (c *MeetingController) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	m, err := c.meetingService.Complete(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MeetingResponse{Message: "Meeting marked as completed", Meeting: m})
}

// DELETE /api/admin/meetings/{id}
func (c *MeetingController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.meetingService.Delete(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Meeting deleted successfully")
}
