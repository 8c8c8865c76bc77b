package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/config"
	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

type ApplicationService struct {
	cfg    *config.Config
	repo   repositories.ApplicationRepository
	mailer Mailer
	audit  *AuditLogger
}

func NewApplicationService(
	cfg *config.Config,
	repo repositories.ApplicationRepository,
	mailer Mailer,
	audit *AuditLogger,
) *ApplicationService {
	return &ApplicationService{cfg: cfg, repo: repo, mailer: mailer, audit: audit}
}

var errApplicationNotFound = utils.NewNotFoundError("Application not found")

func (s *ApplicationService) Submit(ctx context.Context, req dtos.SubmitApplicationRequest) (*models.RentalApplication, error) {
	if !req.AgreeToLeaseTerms || !req.AgreeToPrivacyPolicy || !req.ConsentToBackgroundCheck {
		return nil, badRequest("You must agree to the lease terms, the privacy policy and the background check")
	}

	a := &models.RentalApplication{
		ID:                       uuid.New(),
		PropertyID:               req.PropertyID,
		Status:                   models.ApplicationPending,
		FullName:                 strings.TrimSpace(req.FullName),
		Email:                    normalizeEmail(req.Email),
		Phone:                    strings.TrimSpace(req.Phone),
		DateOfBirth:              req.DateOfBirth,
		SSN:                      trimPtr(req.SSN),
		DriversLicense:           trimPtr(req.DriversLicense),
		BankName:                 trimPtr(req.BankName),
		AccountType:              trimPtr(req.AccountType),
		AccountNumber:            trimPtr(req.AccountNumber),
		RoutingNumber:            trimPtr(req.RoutingNumber),
		SignatureName:            trimPtr(req.SignatureName),
		PaymentMethod:            trimPtr(req.PaymentMethod),
		Document:                 req.ApplicationDocument,
		SignatureDate:            req.SignatureDate,
		AgreeToLeaseTerms:        true,
		AgreeToPrivacyPolicy:     true,
		ConsentToBackgroundCheck: true,
		DesiredMoveIn:            req.DesiredMoveIn,
		LeaseTermMonths:          req.LeaseTermMonths,
		SecurityDepositAmount:    req.SecurityDepositAmount,
		FirstMonthRentAmount:     req.FirstMonthRentAmount,
	}

	stored := *a
	if err := s.encrypt(&stored); err != nil {
		return nil, utils.NewInternalError("Failed to secure application data", err)
	}
	if err := s.repo.Create(ctx, &stored); err != nil {
		return nil, err
	}
	a.CreatedAt, a.UpdatedAt = stored.CreatedAt, stored.UpdatedAt

	sendBestEffort(ctx, s.mailer, a.Email, "Your rental application was received",
		fmt.Sprintf("Hi %s,\n\nThank you for applying with %s. Your application reference is %s. "+
			"We will review it and get back to you soon.", a.FullName, organizationName, a.ID))
	s.mailer.NotifyAdmins(ctx, "New rental application from "+a.FullName,
		fmt.Sprintf("Applicant: %s\nEmail: %s\nPhone: %s\nDesired move-in: %s\nReference: %s",
			a.FullName, a.Email, a.Phone, utils.Val(a.DesiredMoveIn), a.ID))

	masked := *a
	maskApplication(&masked)
	return &masked, nil
}

func (s *ApplicationService) encrypt(a *models.RentalApplication) error {
	for _, f := range a.SensitiveFields() {
		enc, err := utils.EncryptOptional(s.cfg.DBEncryptionKey, *f)
		if err != nil {
			return err
		}
		*f = enc
	}
	return nil
}

func (s *ApplicationService) decrypt(a *models.RentalApplication) {
	for _, f := range a.SensitiveFields() {
		*f = utils.DecryptOptional(s.cfg.DBEncryptionKey, *f)
	}
}

func maskApplication(a *models.RentalApplication) {
	for _, f := range a.SensitiveFields() {
		*f = utils.Mask(*f)
	}
}

// List returns applications with sensitive fields masked.
func (s *ApplicationService) List(ctx context.Context, status *models.ApplicationStatus, limit, offset int) (*dtos.ApplicationListResponse, error) {
	if status != nil && !status.Valid() {
		return nil, badRequest("Invalid status. Must be one of: pending, reviewed, approved, rejected, completed")
	}
	apps, total, err := s.repo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []*models.RentalApplication{}
	}
	for _, a := range apps {
		s.decrypt(a)
		maskApplication(a)
	}
	return &dtos.ApplicationListResponse{Applications: apps, Total: total, Limit: limit, Offset: offset}, nil
}

// Get returns a single application with sensitive fields decrypted.
func (s *ApplicationService) Get(ctx context.Context, id uuid.UUID) (*models.RentalApplication, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errApplicationNotFound
	}
	s.decrypt(a)
	return a, nil
}

func (s *ApplicationService) Reply(ctx context.Context, id uuid.UUID, message string) (*models.RentalApplication, error) {
	now := time.Now().UTC()
	var updated *models.RentalApplication
	err := s.repo.UpdateWithRetry(ctx, id, func(a *models.RentalApplication) error {
		a.AdminReply = utils.StrPtr(strings.TrimSpace(message))
		a.AdminReplyDate = &now
		a.RepliedBy = actorID(ctx)
		if a.Status == models.ApplicationPending {
			a.Status = models.ApplicationReviewed
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Application not found")
	}

	sendBestEffort(ctx, s.mailer, updated.Email, "Update on your rental application",
		fmt.Sprintf("Hi %s,\n\n%s\n\nReference: %s", updated.FullName, *updated.AdminReply, updated.ID))
	s.audit.Record(ctx, models.AuditReply, models.TargetApplication, id, nil)
	s.decrypt(updated)
	return updated, nil
}

var statusEmailLines = map[models.ApplicationStatus]string{
	models.ApplicationReviewed:  "Your application is now under review.",
	models.ApplicationApproved:  "Congratulations! Your application has been approved. We will contact you with the next steps.",
	models.ApplicationRejected:  "We are sorry to let you know that your application was not approved.",
	models.ApplicationCompleted: "Your application process is complete. Welcome home!",
}

// UpdateStatus moves the application to one of the admin-settable states and
// emails the applicant.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.RentalApplication, error) {
	line, ok := statusEmailLines[status]
	if !ok {
		return nil, badRequest("Invalid status. Must be one of: reviewed, approved, rejected, completed")
	}

	var updated *models.RentalApplication
	err := s.repo.UpdateWithRetry(ctx, id, func(a *models.RentalApplication) error {
		a.Status = status
		updated = a
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Application not found")
	}

	sendBestEffort(ctx, s.mailer, updated.Email, "Rental application "+string(status),
		fmt.Sprintf("Hi %s,\n\n%s\n\nReference: %s", updated.FullName, line, updated.ID))
	s.audit.Record(ctx, models.AuditUpdate, models.TargetApplication, id, map[string]any{"status": status})
	s.decrypt(updated)
	return updated, nil
}

func (s *ApplicationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Application not found")
	}
	s.audit.Record(ctx, models.AuditDelete, models.TargetApplication, id, nil)
	return nil
}
