package dtos

import "github.com/propnest/rental-backend/internal/models"

type SignupRequest struct {
	FullName string  `json:"full_name" validate:"required,min=2,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=10,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
}

// EmailRequest serves forgot-password and resend-verification.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

type UpdateProfileRequest struct {
	FullName     *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,min=10,max=20"`
	ProfilePhoto *string `json:"profile_photo,omitempty"`
}

type ProfileResponse struct {
	Message string       `json:"message,omitempty"`
	User    *models.User `json:"user"`
}
