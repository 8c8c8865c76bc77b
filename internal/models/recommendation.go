package models

import (
	"time"

	"github.com/google/uuid"
)

type RecommendationStatus string

const (
	RecommendationPending    RecommendationStatus = "pending"
	RecommendationSent       RecommendationStatus = "sent"
	RecommendationViewed     RecommendationStatus = "viewed"
	RecommendationInterested RecommendationStatus = "interested"
	RecommendationRejected   RecommendationStatus = "rejected"
)

// RecommendedProperty is one scored entry persisted in the recommendation's JSONB list.
type RecommendedProperty struct {
	PropertyID   uuid.UUID `json:"property_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PropertyType string    `json:"property_type"`
	Bedrooms     *int      `json:"bedrooms,omitempty"`
	Bathrooms    *int      `json:"bathrooms,omitempty"`
	CoverImage   *string   `json:"cover_image,omitempty"`
	MatchScore   float64   `json:"match_score"`
	MatchReasons []string  `json:"match_reasons"`
}

// MatchCriteria are the preferences a recommendation was computed from.
type MatchCriteria struct {
	BudgetMin    *float64 `json:"budget_min,omitempty"`
	BudgetMax    *float64 `json:"budget_max,omitempty"`
	Location     *string  `json:"preferred_location,omitempty"`
	Bedrooms     *int     `json:"bedrooms_required,omitempty"`
	Bathrooms    *int     `json:"bathrooms_required,omitempty"`
	PropertyType *string  `json:"property_type_preference,omitempty"`
	MoveInDate   *string  `json:"move_in_date,omitempty"`
}

type PropertyRecommendation struct {
	Versioned

	ID          uuid.UUID  `json:"id"`
	UserEmail   string     `json:"user_email"`
	UserName    *string    `json:"user_name,omitempty"`
	UserPhone   *string    `json:"user_phone,omitempty"`
	ScreeningID *uuid.UUID `json:"screening_id,omitempty"`

	Criteria MatchCriteria `json:"criteria"`

	RecommendedProperties []RecommendedProperty `json:"recommended_properties"`
	MatchScore            float64               `json:"match_score"`

	Status          RecommendationStatus `json:"status"`
	EmailSent       bool                 `json:"email_sent"`
	EmailSentAt     *time.Time           `json:"email_sent_at,omitempty"`
	UserResponse    *string              `json:"user_response,omitempty"`
	UserRespondedAt *time.Time           `json:"user_responded_at,omitempty"`
	AdminReviewed   bool                 `json:"admin_reviewed"`
	AdminNotes      *string              `json:"admin_notes,omitempty"`
	PriorityLevel   string               `json:"priority_level"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func (p *PropertyRecommendation) GetID() string { return p.ID.String() }
