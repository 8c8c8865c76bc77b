package dtos

type CreateTeamMemberRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=100"`
	Age          *int    `json:"age,omitempty" validate:"omitempty,gte=16,lte=100"`
	Email        string  `json:"email" validate:"required,email"`
	Photo        *string `json:"photo,omitempty"`
	Description  *string `json:"description,omitempty"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,min=10,max=20"`
	PositionName *string `json:"position_name,omitempty"`
}

type UpdateTeamMemberRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Age          *int    `json:"age,omitempty" validate:"omitempty,gte=16,lte=100"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Photo        *string `json:"photo,omitempty"`
	Description  *string `json:"description,omitempty"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,min=10,max=20"`
	PositionName *string `json:"position_name,omitempty"`
}
