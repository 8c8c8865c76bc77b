package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/propnest/rental-backend/internal/constants"
	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/services"
	"github.com/propnest/rental-backend/internal/utils"
)

type ScreeningController struct {
	screeningService *services.ScreeningService
	validate         *validator.Validate
}

func NewScreeningController(screeningService *services.ScreeningService) *ScreeningController {
	return &ScreeningController{screeningService: screeningService, validate: newValidator()}
}

// POST /api/admin/screening/questions/bulk
//
// Items are validated one by one in the service so a bad entry does not
// reject the whole batch; only the envelope is validated here.
func (c *ScreeningController) CreateQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.BulkQuestionsRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	resp, err := c.screeningService.CreateQuestions(r.Context(), req.Questions)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// DELETE /api/admin/screening/questions/{id}
func (c *ScreeningController) DeleteQuestionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.screeningService.DeleteQuestion(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Question deleted successfully")
}

// GET /api/public/screening/questions
func (c *ScreeningController) ActiveQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	qs, err := c.screeningService.ActiveQuestions(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, qs)
}

// POST /api/public/screening/responses
func (c *ScreeningController) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SubmitScreeningRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	resp, err := c.screeningService.Submit(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// GET /api/admin/screening/responses
func (c *ScreeningController) ListResponsesHandler(w http.ResponseWriter, r *http.Request) {
	limit := utils.QueryInt(r, "limit", constants.DefaultAdminListLimit, 1, constants.MaxPageLimit)
	offset := utils.QueryInt(r, "offset", 0, 0, 0)
	resp, err := c.screeningService.ListResponses(r.Context(), utils.QueryString(r, "search"), limit, offset)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/admin/screening/responses/{id}
func (c *ScreeningController) GetResponseHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	resp, err := c.screeningService.GetResponse(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// PUT /api/admin/screening/responses/{id}/reply
func (c *ScreeningController) ReplyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.ScreeningReplyRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	resp, err := c.screeningService.Reply(r.Context(), id, req.Reply)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// DELETE /api/admin/screening/responses/{id}
func (c *ScreeningController) DeleteResponseHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.screeningService.DeleteResponse(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Screening response deleted successfully")
}
