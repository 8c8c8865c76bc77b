package dtos

import (
	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/models"
)

// SubmitApplicationRequest flattens the application document groups into
// the top-level JSON object.
type SubmitApplicationRequest struct {
	PropertyID *uuid.UUID `json:"property_id,omitempty"`

	FullName    string  `json:"full_name" validate:"required,min=2,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       string  `json:"phone" validate:"required,min=10,max=20"`
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`

	SSN            *string `json:"ssn,omitempty"`
	DriversLicense *string `json:"drivers_license,omitempty"`
	BankName       *string `json:"bank_name,omitempty"`
	AccountType    *string `json:"account_type,omitempty"`
	AccountNumber  *string `json:"account_number,omitempty"`
	RoutingNumber  *string `json:"routing_number,omitempty"`
	SignatureName  *string `json:"signature_name,omitempty"`
	PaymentMethod  *string `json:"payment_method,omitempty"`

	models.ApplicationDocument

	SignatureDate            *string  `json:"signature_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AgreeToLeaseTerms        bool     `json:"agree_to_lease_terms"`
	AgreeToPrivacyPolicy     bool     `json:"agree_to_privacy_policy"`
	ConsentToBackgroundCheck bool     `json:"consent_to_background_check"`
	DesiredMoveIn            *string  `json:"desired_move_in,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LeaseTermMonths          *int     `json:"lease_term_months,omitempty" validate:"omitempty,gte=1,lte=60"`
	SecurityDepositAmount    *float64 `json:"security_deposit_amount,omitempty" validate:"omitempty,gte=0"`
	FirstMonthRentAmount     *float64 `json:"first_month_rent_amount,omitempty" validate:"omitempty,gte=0"`
}

type ApplicationReplyRequest struct {
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

type ApplicationResponse struct {
	Message     string                    `json:"message"`
	Application *models.RentalApplication `json:"application"`
}

type ApplicationListResponse struct {
	Applications []*models.RentalApplication `json:"applications"`
	Total        int64                       `json:"total"`
	Limit        int                         `json:"limit"`
	Offset       int                         `json:"offset"`
}
