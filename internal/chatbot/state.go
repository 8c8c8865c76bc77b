package chatbot

import (
	"encoding/json"
	"fmt"

	"github.com/propnest/rental-backend/internal/models"
)

// Stage identifies the question a conversation is waiting on.
type Stage string

const (
	StageInitial      Stage = "initial"
	StageSatisfaction Stage = "satisfaction"
	StageDone         Stage = "done"

	StageSearchType      Stage = "search.property_type"
	StageSearchCity      Stage = "search.city"
	StageSearchBudget    Stage = "search.budget"
	StageSearchBedrooms  Stage = "search.bedrooms"
	StageSearchPets      Stage = "search.pets"
	StageSearchMoveIn    Stage = "search.move_in"
	StageSearchAmenities Stage = "search.amenities"
	StageSearchEmail     Stage = "search.email"

	StageInquiryHasProperty   Stage = "inquiry.has_property"
	StageInquiryKeyword       Stage = "inquiry.keyword"
	StageInquirySelect        Stage = "inquiry.select"
	StageInquiryInfo          Stage = "inquiry.info"
	StageInquiryFollowup      Stage = "inquiry.followup"
	StageInquiryContactMethod Stage = "inquiry.contact_method"
	StageInquiryContactValue  Stage = "inquiry.contact_value"
	StageInquiryGeneralEmail  Stage = "inquiry.general_email"

	StageVisitKeyword   Stage = "visit.keyword"
	StageVisitNoResults Stage = "visit.no_results"
	StageVisitSelect    Stage = "visit.select"
	StageVisitDate      Stage = "visit.date"
	StageVisitTime      Stage = "visit.time"
	StageVisitName      Stage = "visit.name"
	StageVisitPhone     Stage = "visit.phone"
	StageVisitEmail     Stage = "visit.email"

	StageBugType    Stage = "bug.issue_type"
	StageBugDetails Stage = "bug.details"
	StageBugTech    Stage = "bug.technical"
	StageBugUrgency Stage = "bug.urgency"
	StageBugEmail   Stage = "bug.email"

	StageFeedbackCategory    Stage = "feedback.category"
	StageFeedbackRating      Stage = "feedback.rating"
	StageFeedbackDetails     Stage = "feedback.details"
	StageFeedbackSuggestions Stage = "feedback.suggestions"
	StageFeedbackFollowup    Stage = "feedback.followup"
	StageFeedbackEmail       Stage = "feedback.email"
)

// SearchPreferences are the answers collected by the property search flow.
type SearchPreferences struct {
	PropertyType string `json:"property_type,omitempty"`
	City         string `json:"city,omitempty"`
	Budget       string `json:"budget,omitempty"`
	Bedrooms     string `json:"bedrooms,omitempty"`
	Pets         string `json:"pets,omitempty"`
	MoveIn       string `json:"move_in,omitempty"`
	Amenities    string `json:"amenities,omitempty"`
}

// Display returns the preferences keyed by their human-readable labels.
func (p SearchPreferences) Display() map[string]string {
	out := make(map[string]string, 7)
	put := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	put("Property Type", p.PropertyType)
	put("City", p.City)
	put("Budget", p.Budget)
	put("Bedrooms", p.Bedrooms)
	put("Pets", p.Pets)
	put("Move-in Time", p.MoveIn)
	put("Amenities", p.Amenities)
	return out
}

// FlowState holds everything collected so far in the current flow.
type FlowState struct {
	Search *SearchPreferences `json:"search,omitempty"`

	Keyword        string `json:"keyword,omitempty"`
	PropertyID     string `json:"property_id,omitempty"`
	GeneralInquiry bool   `json:"general_inquiry,omitempty"`
	ContactMethod  string `json:"contact_method,omitempty"`

	VisitDate    string `json:"visit_date,omitempty"`
	VisitTime    string `json:"visit_time,omitempty"`
	VisitorName  string `json:"visitor_name,omitempty"`
	VisitorPhone string `json:"visitor_phone,omitempty"`

	IssueType    string `json:"issue_type,omitempty"`
	IssueDetails string `json:"issue_details,omitempty"`
	TechInfo     string `json:"tech_info,omitempty"`
	Urgency      string `json:"urgency,omitempty"`

	FeedbackCategory string `json:"feedback_category,omitempty"`
	Rating           string `json:"rating,omitempty"`
	RatingValue      int    `json:"rating_value,omitempty"`
	FeedbackDetails  string `json:"feedback_details,omitempty"`
	Suggestions      string `json:"suggestions,omitempty"`
	WantsFollowup    bool   `json:"wants_followup,omitempty"`
}

// Snapshot is the persisted position of a conversation.
type Snapshot struct {
	Flow  *models.ChatbotFlowType
	Stage Stage
	State FlowState
}

// SnapshotOf reads the engine position stored on a conversation row.
// An empty stage is treated as the initial question.
func SnapshotOf(c *models.ChatbotConversation) (Snapshot, error) {
	s := Snapshot{Flow: c.FlowType, Stage: Stage(c.Stage)}
	if s.Stage == "" {
		s.Stage = StageInitial
	}
	if len(c.FlowState) > 0 && string(c.FlowState) != "null" {
		if err := json.Unmarshal(c.FlowState, &s.State); err != nil {
			return s, fmt.Errorf("decode flow state: %w", err)
		}
	}
	return s, nil
}

// Apply writes the snapshot back onto the conversation row.
func (s Snapshot) Apply(c *models.ChatbotConversation) error {
	raw, err := json.Marshal(s.State)
	if err != nil {
		return fmt.Errorf("encode flow state: %w", err)
	}
	c.FlowType = s.Flow
	c.Stage = string(s.Stage)
	c.FlowState = raw
	return nil
}
