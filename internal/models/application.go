package models

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationReviewed  ApplicationStatus = "reviewed"
	ApplicationApproved  ApplicationStatus = "approved"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationCompleted ApplicationStatus = "completed"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationReviewed, ApplicationApproved,
		ApplicationRejected, ApplicationCompleted:
		return true
	}
	return false
}

// Date is a calendar date carried as YYYY-MM-DD in JSON.
type Date = string

type EmergencyContact struct {
	Name         string `json:"name,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

type AddressHistory struct {
	StreetAddress  string   `json:"street_address,omitempty"`
	City           string   `json:"city,omitempty"`
	State          string   `json:"state,omitempty"`
	Zip            string   `json:"zip,omitempty"`
	MoveInDate     Date     `json:"move_in_date,omitempty"`
	MoveOutDate    Date     `json:"move_out_date,omitempty"`
	MonthlyRent    *float64 `json:"monthly_rent,omitempty"`
	ReasonForLeave string   `json:"reason_for_leaving,omitempty"`
}

type LandlordContact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type Employment struct {
	CompanyName    string   `json:"company_name,omitempty"`
	JobTitle       string   `json:"job_title,omitempty"`
	SupervisorName string   `json:"supervisor_name,omitempty"`
	StartDate      Date     `json:"start_date,omitempty"`
	MonthlyIncome  *float64 `json:"monthly_income,omitempty"`
}

type IncomeSource struct {
	Source string   `json:"source"`
	Amount *float64 `json:"amount,omitempty"`
}

type Background struct {
	EverEvicted            bool   `json:"ever_evicted"`
	EvictionDetails        string `json:"eviction_history_details,omitempty"`
	EverConvictedFelony    bool   `json:"ever_convicted_felony"`
	CriminalHistoryDetails string `json:"criminal_history_details,omitempty"`
	EverFiledBankruptcy    bool   `json:"ever_filed_bankruptcy"`
	BankruptcyExplanation  string `json:"bankruptcy_explanation,omitempty"`
}

type Reference struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Kind         string `json:"kind,omitempty"` // personal | professional
}

type Pet struct {
	Type   string   `json:"type"`
	Breed  string   `json:"breed,omitempty"`
	Age    *int     `json:"age,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
}

type Vehicle struct {
	Make         string `json:"make"`
	Model        string `json:"model,omitempty"`
	Year         *int   `json:"year,omitempty"`
	Color        string `json:"color,omitempty"`
	LicensePlate string `json:"license_plate,omitempty"`
}

type AdditionalApplicant struct {
	FullName     string `json:"full_name"`
	Relationship string `json:"relationship,omitempty"`
	DateOfBirth  Date   `json:"date_of_birth,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// ApplicationDocument holds the JSONB portion of an application.
type ApplicationDocument struct {
	EmergencyContact     EmergencyContact      `json:"emergency_contact"`
	CurrentAddress       AddressHistory        `json:"current_address"`
	PreviousAddress      AddressHistory        `json:"previous_address"`
	Landlord             LandlordContact       `json:"landlord"`
	Employment           Employment            `json:"employment"`
	AdditionalIncome     []IncomeSource        `json:"additional_income"`
	Background           Background            `json:"background"`
	References           []Reference           `json:"references"`
	Pets                 []Pet                 `json:"pets"`
	Vehicles             []Vehicle             `json:"vehicles"`
	AdditionalApplicants []AdditionalApplicant `json:"additional_applicants"`
}

type RentalApplication struct {
	Versioned

	ID         uuid.UUID         `json:"id"`
	PropertyID *uuid.UUID        `json:"property_id,omitempty"`
	Status     ApplicationStatus `json:"status"`

	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`

	// encrypted at rest
	SSN            *string `json:"ssn,omitempty"`
	DriversLicense *string `json:"drivers_license,omitempty"`
	BankName       *string `json:"bank_name,omitempty"`
	AccountType    *string `json:"account_type,omitempty"`
	AccountNumber  *string `json:"account_number,omitempty"`
	RoutingNumber  *string `json:"routing_number,omitempty"`
	SignatureName  *string `json:"signature_name,omitempty"`
	PaymentMethod  *string `json:"payment_method,omitempty"`

	Document ApplicationDocument `json:"details"`

	SignatureDate            *string  `json:"signature_date,omitempty"`
	AgreeToLeaseTerms        bool     `json:"agree_to_lease_terms"`
	AgreeToPrivacyPolicy     bool     `json:"agree_to_privacy_policy"`
	ConsentToBackgroundCheck bool     `json:"consent_to_background_check"`
	DesiredMoveIn            *string  `json:"desired_move_in,omitempty"`
	LeaseTermMonths          *int     `json:"lease_term_months,omitempty"`
	SecurityDepositAmount    *float64 `json:"security_deposit_amount,omitempty"`
	FirstMonthRentAmount     *float64 `json:"first_month_rent_amount,omitempty"`

	AdminReply     *string    `json:"admin_reply,omitempty"`
	AdminReplyDate *time.Time `json:"admin_reply_date,omitempty"`
	RepliedBy      *uuid.UUID `json:"replied_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (a *RentalApplication) GetID() string { return a.ID.String() }

// SensitiveFields lists pointers to every encrypted column, so callers can
// encrypt, decrypt or mask them uniformly.
func (a *RentalApplication) SensitiveFields() []**string {
	return []**string{
		&a.SSN, &a.DriversLicense, &a.BankName, &a.AccountType,
		&a.AccountNumber, &a.RoutingNumber, &a.SignatureName, &a.PaymentMethod,
	}
}
