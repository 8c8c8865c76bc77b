package models

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	Versioned

	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Age          *int      `json:"age,omitempty"`
	Email        string    `json:"email"`
	Photo        *string   `json:"photo,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	PositionName *string   `json:"position_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (t *Team) GetID() string { return t.ID.String() }
