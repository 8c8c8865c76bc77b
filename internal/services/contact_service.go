package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

type ContactService struct {
	repo   repositories.ContactRepository
	mailer Mailer
	audit  *AuditLogger
}

func NewContactService(repo repositories.ContactRepository, mailer Mailer, audit *AuditLogger) *ContactService {
	return &ContactService{repo: repo, mailer: mailer, audit: audit}
}

func (s *ContactService) Create(ctx context.Context, req dtos.CreateContactRequest) (*models.ContactUs, error) {
	c := &models.ContactUs{
		ID:       uuid.New(),
		FullName: strings.TrimSpace(req.FullName),
		Email:    normalizeEmail(req.Email),
		Phone:    trimPtr(req.Phone),
		Message:  strings.TrimSpace(req.Message),
		Status:   models.ContactPending,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	sendBestEffort(ctx, s.mailer, c.Email, "We received your message",
		fmt.Sprintf("Hi %s,\n\nThanks for reaching out to %s. Our team will get back to you shortly.\n\nYour message:\n%s",
			c.FullName, organizationName, c.Message))
	s.mailer.NotifyAdmins(ctx, "New contact message from "+c.FullName,
		fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\n\n%s", c.FullName, c.Email, utils.Val(c.Phone), c.Message))
	return c, nil
}

func (s *ContactService) List(ctx context.Context, status *models.ContactStatus, limit, offset int) (*dtos.ContactListResponse, error) {
	if status != nil && !status.Valid() {
		return nil, badRequest("Invalid status. Must be one of: pending, replied, resolved")
	}
	contacts, total, err := s.repo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []*models.ContactUs{}
	}
	return &dtos.ContactListResponse{Contacts: contacts, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *ContactService) Get(ctx context.Context, id uuid.UUID) (*models.ContactUs, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, utils.NewNotFoundError("Contact not found")
	}
	return c, nil
}

// Reply stores the admin answer, marks the contact replied and emails the sender.
func (s *ContactService) Reply(ctx context.Context, id uuid.UUID, reply string) (*models.ContactUs, error) {
	now := time.Now().UTC()
	var updated *models.ContactUs
	err := s.repo.UpdateWithRetry(ctx, id, func(c *models.ContactUs) error {
		c.AdminReply = utils.StrPtr(strings.TrimSpace(reply))
		c.AdminReplyDate = &now
		c.Status = models.ContactReplied
		updated = c
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Contact not found")
	}

	sendBestEffort(ctx, s.mailer, updated.Email, "Re: your message to "+organizationName,
		fmt.Sprintf("Hi %s,\n\n%s\n\n---\nYou wrote:\n%s", updated.FullName, *updated.AdminReply, updated.Message))
	s.audit.Record(ctx, models.AuditReply, models.TargetContact, id, nil)
	return updated, nil
}

func (s *ContactService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContactStatus) (*models.ContactUs, error) {
	if !status.Valid() {
		return nil, badRequest("Invalid status. Must be one of: pending, replied, resolved")
	}
	var updated *models.ContactUs
	err := s.repo.UpdateWithRetry(ctx, id, func(c *models.ContactUs) error {
		c.Status = status
		updated = c
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Contact not found")
	}
	s.audit.Record(ctx, models.AuditUpdate, models.TargetContact, id, map[string]any{"status": status})
	return updated, nil
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Contact not found")
	}
	s.audit.Record(ctx, models.AuditDelete, models.TargetContact, id, nil)
	return nil
}
