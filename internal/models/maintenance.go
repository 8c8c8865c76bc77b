package models

import (
	"time"

	"github.com/google/uuid"
)

type MaintenancePriority string

const (
	PriorityLow    MaintenancePriority = "low"
	PriorityMedium MaintenancePriority = "medium"
	PriorityHigh   MaintenancePriority = "high"
	PriorityUrgent MaintenancePriority = "urgent"
)

type MaintenanceStatus string

const (
	MaintenancePending          MaintenanceStatus = "pending"
	MaintenanceSentToContractor MaintenanceStatus = "sent_to_contractor"
	MaintenanceInProgress       MaintenanceStatus = "in_progress"
	MaintenanceCompleted        MaintenanceStatus = "completed"
	MaintenanceCancelled        MaintenanceStatus = "cancelled"
)

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenancePending, MaintenanceSentToContractor, MaintenanceInProgress,
		MaintenanceCompleted, MaintenanceCancelled:
		return true
	}
	return false
}

type MaintenanceRequest struct {
	Versioned

	ID               uuid.UUID           `json:"id"`
	TenantName       string              `json:"tenant_name"`
	TenantPhone      string              `json:"tenant_phone"`
	TenantEmail      *string             `json:"tenant_email,omitempty"`
	PropertyAddress  string              `json:"property_address"`
	PropertyUnit     *string             `json:"property_unit,omitempty"`
	IssueTitle       string              `json:"issue_title"`
	IssueDescription string              `json:"issue_description"`
	Priority         MaintenancePriority `json:"priority"`
	ContractorEmail  string              `json:"contractor_email"`
	ContractorName   *string             `json:"contractor_name,omitempty"`
	ContractorPhone  *string             `json:"contractor_phone,omitempty"`
	Photos           []string            `json:"photos"`
	Status           MaintenanceStatus   `json:"status"`
	EstimatedCost    *float64            `json:"estimated_cost,omitempty"`
	Notes            *string             `json:"notes,omitempty"`
	CreatedByAdmin   *uuid.UUID          `json:"created_by_admin,omitempty"`
	SentAt           *time.Time          `json:"sent_at,omitempty"`
	CompletedAt      *time.Time          `json:"completed_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

func (m *MaintenanceRequest) GetID() string { return m.ID.String() }
