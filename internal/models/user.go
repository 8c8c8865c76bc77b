package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleAdmin      UserRole = "admin"
	RoleAdminPlus  UserRole = "admin+"
	RoleSuperAdmin UserRole = "superadmin"
)

// AdminRoles are the roles allowed on /api/admin routes.
var AdminRoles = []UserRole{RoleAdmin, RoleAdminPlus, RoleSuperAdmin}

func AdminRoleNames() []string {
	names := make([]string, len(AdminRoles))
	for i, r := range AdminRoles {
		names[i] = string(r)
	}
	return names
}

type User struct {
	Versioned

	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        *string   `json:"phone,omitempty"`
	Role         UserRole  `json:"role"`
	IsVerified   bool      `json:"is_verified"`
	ProfilePhoto *string   `json:"profile_photo,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) GetID() string { return u.ID.String() }
