package dtos

import "github.com/propnest/rental-backend/internal/models"

type CreateMaintenanceRequest struct {
	TenantName       string   `json:"tenant_name" validate:"required,min=2,max=100"`
	TenantPhone      string   `json:"tenant_phone" validate:"required,min=10,max=20"`
	TenantEmail      *string  `json:"tenant_email,omitempty" validate:"omitempty,email"`
	PropertyAddress  string   `json:"property_address" validate:"required"`
	PropertyUnit     *string  `json:"property_unit,omitempty"`
	IssueTitle       string   `json:"issue_title" validate:"required,min=3,max=200"`
	IssueDescription string   `json:"issue_description" validate:"required,min=5"`
	Priority         string   `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	ContractorEmail  string   `json:"contractor_email" validate:"required,email"`
	ContractorName   *string  `json:"contractor_name,omitempty"`
	ContractorPhone  *string  `json:"contractor_phone,omitempty" validate:"omitempty,min=10,max=20"`
	Photos           []string `json:"photos,omitempty"`
	EstimatedCost    *float64 `json:"estimated_cost,omitempty" validate:"omitempty,gte=0"`
	Notes            *string  `json:"notes,omitempty"`
}

type UpdateMaintenanceRequest struct {
	TenantName       *string   `json:"tenant_name,omitempty" validate:"omitempty,min=2,max=100"`
	TenantPhone      *string   `json:"tenant_phone,omitempty" validate:"omitempty,min=10,max=20"`
	TenantEmail      *string   `json:"tenant_email,omitempty" validate:"omitempty,email"`
	PropertyAddress  *string   `json:"property_address,omitempty"`
	PropertyUnit     *string   `json:"property_unit,omitempty"`
	IssueTitle       *string   `json:"issue_title,omitempty" validate:"omitempty,min=3,max=200"`
	IssueDescription *string   `json:"issue_description,omitempty" validate:"omitempty,min=5"`
	Priority         *string   `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	ContractorEmail  *string   `json:"contractor_email,omitempty" validate:"omitempty,email"`
	ContractorName   *string   `json:"contractor_name,omitempty"`
	ContractorPhone  *string   `json:"contractor_phone,omitempty" validate:"omitempty,min=10,max=20"`
	Photos           *[]string `json:"photos,omitempty"`
	Status           *string   `json:"status,omitempty" validate:"omitempty,oneof=pending sent_to_contractor in_progress completed cancelled"`
	EstimatedCost    *float64  `json:"estimated_cost,omitempty" validate:"omitempty,gte=0"`
	Notes            *string   `json:"notes,omitempty"`
}

type MaintenanceListResponse struct {
	Requests []*models.MaintenanceRequest `json:"requests"`
	Total    int64                        `json:"total"`
	Limit    int                          `json:"limit"`
	Offset   int                          `json:"offset"`
}

type MaintenanceResponse struct {
	Message string                     `json:"message"`
	Request *models.MaintenanceRequest `json:"request"`
}
