package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/propnest/rental-backend/internal/constants"
	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/services"
	"github.com/propnest/rental-backend/internal/utils"
)

type ApplicationController struct {
	applicationService *services.ApplicationService
	validate           *validator.Validate
}

func NewApplicationController(applicationService *services.ApplicationService) *ApplicationController {
	return &ApplicationController{applicationService: applicationService, validate: newValidator()}
}

// POST /api/applications/submit
func (c *ApplicationController) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SubmitApplicationRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	a, err := c.applicationService.Submit(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.ApplicationResponse{
		Message:     "Application submitted successfully",
		Application: a,
	})
}

// GET /api/admin/applications
func (c *ApplicationController) ListHandler(w http.ResponseWriter, r *http.Request) {
	var status *models.ApplicationStatus
	if s := utils.QueryString(r, "status"); s != nil {
		st := models.ApplicationStatus(*s)
		status = &st
	}
	limit := utils.QueryInt(r, "limit", constants.DefaultAdminListLimit, 1, constants.MaxPageLimit)
	offset := utils.QueryInt(r, "offset", 0, 0, 0)
	resp, err := c.applicationService.List(r.Context(), status, limit, offset)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/admin/applications/{id}
func (c *ApplicationController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	a, err := c.applicationService.Get(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, a)
}

// POST /api/admin/applications/{id}/reply
func (c *ApplicationController) ReplyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.ApplicationReplyRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	a, err := c.applicationService.Reply(r.Context(), id, req.Message)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ApplicationResponse{Message: "Reply sent successfully", Application: a})
}

// PUT /api/admin/applications/{id}/status/{status}
func (c *ApplicationController) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	status := models.ApplicationStatus(mux.Vars(r)["status"])
	a, err := c.applicationService.UpdateStatus(r.Context(), id, status)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ApplicationResponse{
		Message:     "Application " + string(status),
		Application: a,
	})
}

// DELETE /api/admin/applications/{id}
func (c *ApplicationController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.applicationService.Delete(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Application deleted successfully")
}
