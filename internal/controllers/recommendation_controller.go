package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/propnest/rental-backend/internal/constants"
	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/services"
	"github.com/propnest/rental-backend/internal/utils"
)

type RecommendationController struct {
	recommendationService *services.RecommendationService
	validate              *validator.Validate
}

func NewRecommendationController(recommendationService *services.RecommendationService) *RecommendationController {
	return &RecommendationController{recommendationService: recommendationService, validate: newValidator()}
}

// POST /api/recommendations/generate/{screening_id}
func (c *RecommendationController) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	screeningID, ok := pathUUID(w, r, "screening_id")
	if !ok {
		return
	}
	rec, err := c.recommendationService.Generate(r.Context(), screeningID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.RecommendationResponse{
		Message:        "Recommendations generated successfully",
		Recommendation: rec,
	})
}

// GET /api/recommendations/user/{email}
func (c *RecommendationController) ByEmailHandler(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]
	if err := c.validate.Var(email, "required,email"); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid email", nil, err)
		return
	}
	recs, err := c.recommendationService.ByEmail(r.Context(), email)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, recs)
}

// GET /api/recommendations/{id}
func (c *RecommendationController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	rec, err := c.recommendationService.Get(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rec)
}

// PUT /api/recommendations/{id}/respond
func (c *RecommendationController) RespondHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.RespondRecommendationRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	rec, err := c.recommendationService.Respond(r.Context(), id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.RecommendationResponse{Message: "Response recorded", Recommendation: rec})
}

// POST /api/recommendations/{id}/send-email
func (c *RecommendationController) SendEmailHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	rec, err := c.recommendationService.SendEmail(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.RecommendationResponse{
		Message:        "Recommendation email sent successfully",
		Recommendation: rec,
	})
}

// GET /api/admin/recommendations
func (c *RecommendationController) ListHandler(w http.ResponseWriter, r *http.Request) {
	f := repositories.RecommendationFilter{
		Status:   utils.QueryString(r, "status"),
		Priority: utils.QueryString(r, "priority"),
		Limit:    utils.QueryInt(r, "limit", constants.DefaultAdminListLimit, 1, constants.MaxPageLimit),
		Offset:   utils.QueryInt(r, "offset", 0, 0, 0),
	}
	resp, err := c.recommendationService.List(r.Context(), f)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// PUT /api/admin/recommendations/{id}/review
func (c *RecommendationController) ReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.ReviewRecommendationRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	rec, err := c.recommendationService.Review(r.Context(), id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.RecommendationResponse{Message: "Recommendation reviewed", Recommendation: rec})
}
