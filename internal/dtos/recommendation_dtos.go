package dtos

import "github.com/propnest/rental-backend/internal/models"

type RespondRecommendationRequest struct {
	Response string  `json:"response" validate:"required,min=1,max=2000"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=viewed interested rejected"`
}

type ReviewRecommendationRequest struct {
	AdminNotes    *string `json:"admin_notes,omitempty" validate:"omitempty,max=2000"`
	PriorityLevel *string `json:"priority_level,omitempty" validate:"omitempty,oneof=low medium high"`
}

type RecommendationResponse struct {
	Message        string                         `json:"message"`
	Recommendation *models.PropertyRecommendation `json:"recommendation"`
}

type RecommendationListResponse struct {
	Recommendations []*models.PropertyRecommendation `json:"recommendations"`
	Total           int64                            `json:"total"`
	Limit           int                              `json:"limit"`
	Offset          int                              `json:"offset"`
	HasNext         bool                             `json:"has_next"`
	HasPrev         bool                             `json:"has_prev"`
}
