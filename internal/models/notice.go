package models

import (
	"time"

	"github.com/google/uuid"
)

type Notice struct {
	Versioned

	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Description      *string   `json:"description,omitempty"`
	NoticeFile       *string   `json:"notice_file,omitempty"`
	FileType         *string   `json:"file_type,omitempty"`
	OriginalFilename *string   `json:"original_filename,omitempty"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (n *Notice) GetID() string { return n.ID.String() }
