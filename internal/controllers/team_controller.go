package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/services"
	"github.com/propnest/rental-backend/internal/utils"
)

type TeamController struct {
	teamService *services.TeamService
	validate    *validator.Validate
}

func NewTeamController(teamService *services.TeamService) *TeamController {
	return &TeamController{teamService: teamService, validate: newValidator()}
}

// POST /api/admin/team/add
func (c *TeamController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateTeamMemberRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	member, err := c.teamService.Create(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, member)
}

// PUT /api/admin/team/{id}
func (c *TeamController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.UpdateTeamMemberRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	member, err := c.teamService.Update(r.Context(), id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, member)
}

// DELETE /api/admin/team/{id}
func (c *TeamController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.teamService.Delete(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Team member deleted successfully")
}

// GET /api/public/team
func (c *TeamController) ListHandler(w http.ResponseWriter, r *http.Request) {
	members, err := c.teamService.List(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, members)
}

// GET /api/public/team/{id}
func (c *TeamController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	member, err := c.teamService.Get(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, member)
}
