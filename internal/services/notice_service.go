package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/media"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

type NoticeService struct {
	repo  repositories.NoticeRepository
	audit *AuditLogger
}

func NewNoticeService(repo repositories.NoticeRepository, audit *AuditLogger) *NoticeService {
	return &NoticeService{repo: repo, audit: audit}
}

var errNoticeNotFound = utils.NewNotFoundError("Notice not found")

// attachFile validates an uploaded document and sets the file columns.
func attachFile(n *models.Notice, data, filename *string) error {
	if data == nil || strings.TrimSpace(*data) == "" {
		return nil
	}
	name := utils.Val(filename)
	doc, err := media.ProcessDocument(*data, name)
	if err != nil {
		return mediaError(err, "Notice file")
	}
	n.NoticeFile = &doc.Base64
	n.FileType = &doc.FileType
	if doc.Filename != "" {
		n.OriginalFilename = &doc.Filename
	}
	return nil
}

func (s *NoticeService) Create(ctx context.Context, req dtos.CreateNoticeRequest) (*models.Notice, error) {
	n := &models.Notice{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		IsActive:    utils.Val(req.IsActive),
	}
	if err := attachFile(n, req.NoticeFile, req.OriginalFilename); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, models.AuditCreate, models.TargetNotice, n.ID, map[string]any{"title": n.Title})
	return n, nil
}

func (s *NoticeService) Update(ctx context.Context, id uuid.UUID, req dtos.UpdateNoticeRequest) (*models.Notice, error) {
	if req.Empty() {
		return nil, badRequest("No fields to update")
	}
	var file models.Notice
	if err := attachFile(&file, req.NoticeFile, req.OriginalFilename); err != nil {
		return nil, err
	}

	var updated *models.Notice
	err := s.repo.UpdateWithRetry(ctx, id, func(n *models.Notice) error {
		if req.Title != nil {
			n.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			n.Description = req.Description
		}
		if file.NoticeFile != nil {
			n.NoticeFile = file.NoticeFile
			n.FileType = file.FileType
			n.OriginalFilename = file.OriginalFilename
		} else if req.OriginalFilename != nil {
			n.OriginalFilename = trimPtr(req.OriginalFilename)
		}
		if req.IsActive != nil {
			n.IsActive = *req.IsActive
		}
		updated = n
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Notice not found")
	}
	s.audit.Record(ctx, models.AuditUpdate, models.TargetNotice, id, nil)
	return updated, nil
}

func (s *NoticeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Notice not found")
	}
	s.audit.Record(ctx, models.AuditDelete, models.TargetNotice, id, nil)
	return nil
}

func (s *NoticeService) Get(ctx context.Context, id uuid.UUID) (*models.Notice, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, errNoticeNotFound
	}
	return n, nil
}

// List returns notices newest first; activeOnly restricts it to the public set.
func (s *NoticeService) List(ctx context.Context, activeOnly bool, search *string, limit, offset int) (*dtos.NoticeListResponse, error) {
	notices, total, err := s.repo.List(ctx, activeOnly, trimPtr(search), limit, offset)
	if err != nil {
		return nil, err
	}
	if notices == nil {
		notices = []*models.Notice{}
	}
	return &dtos.NoticeListResponse{Notices: notices, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *NoticeService) ToggleActive(ctx context.Context, id uuid.UUID) (*dtos.NoticeResponse, error) {
	var updated *models.Notice
	err := s.repo.UpdateWithRetry(ctx, id, func(n *models.Notice) error {
		n.IsActive = !n.IsActive
		updated = n
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Notice not found")
	}
	s.audit.Record(ctx, models.AuditUpdate, models.TargetNotice, id, map[string]any{"is_active": updated.IsActive})
	return &dtos.NoticeResponse{Message: activeMessage(updated.IsActive), Notice: updated}, nil
}

// SetActive is idempotent: an unchanged value returns the notice untouched.
func (s *NoticeService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*dtos.NoticeResponse, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.IsActive == active {
		state := "inactive"
		if active {
			state = "active"
		}
		return &dtos.NoticeResponse{Message: fmt.Sprintf("Notice is already %s", state), Notice: current}, nil
	}

	var updated *models.Notice
	err = s.repo.UpdateWithRetry(ctx, id, func(n *models.Notice) error {
		n.IsActive = active
		updated = n
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Notice not found")
	}
	s.audit.Record(ctx, models.AuditUpdate, models.TargetNotice, id, map[string]any{"is_active": active})
	return &dtos.NoticeResponse{Message: activeMessage(active), Notice: updated}, nil
}

func activeMessage(active bool) string {
	if active {
		return "Notice activated successfully"
	}
	return "Notice deactivated successfully"
}

// Download decodes the stored attachment.
func (s *NoticeService) Download(ctx context.Context, id uuid.UUID) (*dtos.NoticeFile, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.NoticeFile == nil || *n.NoticeFile == "" {
		return nil, utils.NewNotFoundError("No file attached to this notice")
	}
	data, err := media.Decode(*n.NoticeFile)
	if err != nil {
		return nil, utils.NewInternalError("Stored notice file is corrupt", err)
	}

	fileType := utils.Val(n.FileType)
	filename := utils.Val(n.OriginalFilename)
	if filename == "" {
		filename = fmt.Sprintf("notice_%s.%s", n.ID, media.ExtensionFor(fileType))
	}
	return &dtos.NoticeFile{
		Filename:    filename,
		ContentType: media.ContentTypeFor(filename, fileType),
		Data:        data,
	}, nil
}
