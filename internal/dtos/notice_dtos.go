package dtos

import "github.com/propnest/rental-backend/internal/models"

type CreateNoticeRequest struct {
	Title            string  `json:"title" validate:"required,min=1,max=200"`
	Description      *string `json:"description,omitempty"`
	NoticeFile       *string `json:"notice_file,omitempty"`
	OriginalFilename *string `json:"original_filename,omitempty"`
	IsActive         *bool   `json:"is_active,omitempty"`
}

type UpdateNoticeRequest struct {
	Title            *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description      *string `json:"description,omitempty"`
	NoticeFile       *string `json:"notice_file,omitempty"`
	OriginalFilename *string `json:"original_filename,omitempty"`
	IsActive         *bool   `json:"is_active,omitempty"`
}

// Empty reports whether the update carries no fields.
func (r UpdateNoticeRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.NoticeFile == nil &&
		r.OriginalFilename == nil && r.IsActive == nil
}

type SetNoticeActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type NoticeResponse struct {
	Message string         `json:"message"`
	Notice  *models.Notice `json:"notice,omitempty"`
}

type NoticeListResponse struct {
	Notices []*models.Notice `json:"notices"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// NoticeFile is a decoded attachment ready to be streamed.
type NoticeFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
