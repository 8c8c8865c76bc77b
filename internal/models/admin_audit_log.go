package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
	AuditReply  AuditAction = "REPLY"
)

type AuditTargetType string

const (
	TargetProperty           AuditTargetType = "PROPERTY"
	TargetTeamMember         AuditTargetType = "TEAM_MEMBER"
	TargetContact            AuditTargetType = "CONTACT"
	TargetNotice             AuditTargetType = "NOTICE"
	TargetMaintenanceRequest AuditTargetType = "MAINTENANCE_REQUEST"
	TargetApplication        AuditTargetType = "RENTAL_APPLICATION"
	TargetMeeting            AuditTargetType = "MEETING"
	TargetScreeningQuestion  AuditTargetType = "SCREENING_QUESTION"
	TargetScreeningResponse  AuditTargetType = "SCREENING_RESPONSE"
	TargetRecommendation     AuditTargetType = "RECOMMENDATION"
)

// AdminAuditLog records who changed what from the admin surface.
type AdminAuditLog struct {
	ID         uuid.UUID        `json:"id"`
	AdminID    uuid.UUID        `json:"admin_id"`
	Action     AuditAction      `json:"action"`
	TargetID   uuid.UUID        `json:"target_id"`
	TargetType AuditTargetType  `json:"target_type"`
	Details    *json.RawMessage `json:"details,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}
