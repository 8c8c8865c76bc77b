package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/media"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

type MaintenanceService struct {
	repo   repositories.MaintenanceRepository
	mailer Mailer
	sms    SMSSender
	audit  *AuditLogger
}

func NewMaintenanceService(
	repo repositories.MaintenanceRepository,
	mailer Mailer,
	sms SMSSender,
	audit *AuditLogger,
) *MaintenanceService {
	return &MaintenanceService{repo: repo, mailer: mailer, sms: sms, audit: audit}
}

const invalidMaintenanceStatus = "Invalid status. Must be one of: pending, sent_to_contractor, in_progress, completed, cancelled"

func processPhotos(photos []string) ([]string, error) {
	out := make([]string, 0, len(photos))
	for i, p := range photos {
		if strings.TrimSpace(p) == "" {
			continue
		}
		img, err := media.ProcessImage(p)
		if err != nil {
			return nil, mediaError(err, fmt.Sprintf("Photo #%d", i+1))
		}
		out = append(out, img)
	}
	return out, nil
}

func (s *MaintenanceService) Create(ctx context.Context, req dtos.CreateMaintenanceRequest) (*models.MaintenanceRequest, error) {
	photos, err := processPhotos(req.Photos)
	if err != nil {
		return nil, err
	}
	priority := models.PriorityMedium
	if req.Priority != "" {
		priority = models.MaintenancePriority(req.Priority)
	}

	m := &models.MaintenanceRequest{
		ID:               uuid.New(),
		TenantName:       strings.TrimSpace(req.TenantName),
		TenantPhone:      strings.TrimSpace(req.TenantPhone),
		TenantEmail:      trimPtr(req.TenantEmail),
		PropertyAddress:  strings.TrimSpace(req.PropertyAddress),
		PropertyUnit:     trimPtr(req.PropertyUnit),
		IssueTitle:       strings.TrimSpace(req.IssueTitle),
		IssueDescription: strings.TrimSpace(req.IssueDescription),
		Priority:         priority,
		ContractorEmail:  normalizeEmail(req.ContractorEmail),
		ContractorName:   trimPtr(req.ContractorName),
		ContractorPhone:  trimPtr(req.ContractorPhone),
		Photos:           photos,
		Status:           models.MaintenancePending,
		EstimatedCost:    req.EstimatedCost,
		Notes:            req.Notes,
		CreatedByAdmin:   actorID(ctx),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, models.AuditCreate, models.TargetMaintenanceRequest, m.ID, map[string]any{"issue_title": m.IssueTitle})
	return m, nil
}

func (s *MaintenanceService) List(ctx context.Context, status *models.MaintenanceStatus, limit, offset int) (*dtos.MaintenanceListResponse, error) {
	if status != nil && !status.Valid() {
		return nil, badRequest(invalidMaintenanceStatus)
	}
	reqs, total, err := s.repo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []*models.MaintenanceRequest{}
	}
	return &dtos.MaintenanceListResponse{Requests: reqs, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *MaintenanceService) Get(ctx context.Context, id uuid.UUID) (*models.MaintenanceRequest, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, utils.NewNotFoundError("Maintenance request not found")
	}
	return m, nil
}

func (s *MaintenanceService) Update(ctx context.Context, id uuid.UUID, req dtos.UpdateMaintenanceRequest) (*models.MaintenanceRequest, error) {
	var photos []string
	if req.Photos != nil {
		var err error
		if photos, err = processPhotos(*req.Photos); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	var updated *models.MaintenanceRequest
	err := s.repo.UpdateWithRetry(ctx, id, func(m *models.MaintenanceRequest) error {
		applyMaintenanceUpdate(m, req)
		if req.Photos != nil {
			m.Photos = photos
		}
		if req.Status != nil {
			m.Status = models.MaintenanceStatus(*req.Status)
			if m.Status == models.MaintenanceCompleted && m.CompletedAt == nil {
				m.CompletedAt = &now
			}
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Maintenance request not found")
	}
	s.audit.Record(ctx, models.AuditUpdate, models.TargetMaintenanceRequest, id, nil)
	return updated, nil
}

func applyMaintenanceUpdate(m *models.MaintenanceRequest, req dtos.UpdateMaintenanceRequest) {
	if req.TenantName != nil {
		m.TenantName = strings.TrimSpace(*req.TenantName)
	}
	if req.TenantPhone != nil {
		m.TenantPhone = strings.TrimSpace(*req.TenantPhone)
	}
	if req.TenantEmail != nil {
		m.TenantEmail = trimPtr(req.TenantEmail)
	}
	if req.PropertyAddress != nil {
		m.PropertyAddress = strings.TrimSpace(*req.PropertyAddress)
	}
	if req.PropertyUnit != nil {
		m.PropertyUnit = trimPtr(req.PropertyUnit)
	}
	if req.IssueTitle != nil {
		m.IssueTitle = strings.TrimSpace(*req.IssueTitle)
	}
	if req.IssueDescription != nil {
		m.IssueDescription = strings.TrimSpace(*req.IssueDescription)
	}
	if req.Priority != nil {
		m.Priority = models.MaintenancePriority(*req.Priority)
	}
	if req.ContractorEmail != nil {
		m.ContractorEmail = normalizeEmail(*req.ContractorEmail)
	}
	if req.ContractorName != nil {
		m.ContractorName = trimPtr(req.ContractorName)
	}
	if req.ContractorPhone != nil {
		m.ContractorPhone = trimPtr(req.ContractorPhone)
	}
	if req.EstimatedCost != nil {
		m.EstimatedCost = req.EstimatedCost
	}
	if req.Notes != nil {
		m.Notes = req.Notes
	}
}

func (s *MaintenanceService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Maintenance request not found")
	}
	s.audit.Record(ctx, models.AuditDelete, models.TargetMaintenanceRequest, id, nil)
	return nil
}

// SendToContractor emails the work order and texts the contractor when a
// phone number is on file. The email must succeed; SMS is best effort.
func (s *MaintenanceService) SendToContractor(ctx context.Context, id uuid.UUID) (*models.MaintenanceRequest, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status == models.MaintenanceCompleted || m.Status == models.MaintenanceCancelled {
		return nil, utils.NewBadRequestError(
			fmt.Sprintf("Cannot send a %s request to a contractor", m.Status), utils.ErrInvalidStatus)
	}

	subject := fmt.Sprintf("[%s] Maintenance request: %s", strings.ToUpper(string(m.Priority)), m.IssueTitle)
	if err := s.mailer.Send(ctx, m.ContractorEmail, subject, workOrderBody(m)); err != nil {
		return nil, err
	}
	if m.ContractorPhone != nil && s.sms.Enabled() {
		text := fmt.Sprintf("%s: new %s priority job at %s - %s. Details sent to %s.",
			organizationName, m.Priority, m.PropertyAddress, m.IssueTitle, m.ContractorEmail)
		if err := s.sms.SendSMS(ctx, *m.ContractorPhone, text); err != nil {
			utils.Logger.WithError(err).Warnf("Contractor SMS for maintenance %s failed", m.ID)
		}
	}

	now := time.Now().UTC()
	var updated *models.MaintenanceRequest
	err = s.repo.UpdateWithRetry(ctx, id, func(r *models.MaintenanceRequest) error {
		r.Status = models.MaintenanceSentToContractor
		r.SentAt = &now
		updated = r
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Maintenance request not found")
	}
	s.audit.Record(ctx, models.AuditUpdate, models.TargetMaintenanceRequest, id, map[string]any{"sent_to": m.ContractorEmail})
	return updated, nil
}

func workOrderBody(m *models.MaintenanceRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nA maintenance job needs your attention.\n\n", utils.Val(m.ContractorName))
	fmt.Fprintf(&b, "Issue: %s\nPriority: %s\n\n%s\n\n", m.IssueTitle, m.Priority, m.IssueDescription)
	fmt.Fprintf(&b, "Address: %s", m.PropertyAddress)
	if m.PropertyUnit != nil {
		fmt.Fprintf(&b, ", unit %s", *m.PropertyUnit)
	}
	fmt.Fprintf(&b, "\nTenant: %s (%s)\n", m.TenantName, m.TenantPhone)
	if m.EstimatedCost != nil {
		fmt.Fprintf(&b, "Estimated cost: %.2f\n", *m.EstimatedCost)
	}
	if m.Notes != nil {
		fmt.Fprintf(&b, "Notes: %s\n", *m.Notes)
	}
	if len(m.Photos) > 0 {
		fmt.Fprintf(&b, "\n%d photo(s) are attached to the request in the admin portal.\n", len(m.Photos))
	}
	return b.String()
}
