package dtos

import "github.com/propnest/rental-backend/internal/models"

type CreateContactRequest struct {
	FullName string  `json:"full_name" validate:"required,min=2,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=10,max=20"`
	Message  string  `json:"message" validate:"required,min=5,max=5000"`
}

type ContactReplyRequest struct {
	Reply string `json:"reply" validate:"required,min=1,max=5000"`
}

type ContactStatusRequest struct {
	Status models.ContactStatus `json:"status" validate:"required,oneof=pending replied resolved"`
}

type ContactListResponse struct {
	Contacts []*models.ContactUs `json:"contacts"`
	Total    int64               `json:"total"`
	Limit    int                 `json:"limit"`
	Offset   int                 `json:"offset"`
}
