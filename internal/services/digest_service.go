package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

// Digest is the backlog snapshot mailed to admins each morning.
type Digest struct {
	PendingContacts     int64
	PendingApplications int64
	PendingMeetings     int64
	PendingMaintenance  int64
	OpenEscalations     int64
}

func (d Digest) Empty() bool {
	return d == Digest{}
}

type DigestService struct {
	contacts     repositories.ContactRepository
	applications repositories.ApplicationRepository
	meetings     repositories.MeetingRepository
	maintenance  repositories.MaintenanceRepository
	chatbot      repositories.ChatbotRepository
	mailer       Mailer
}

func NewDigestService(
	contacts repositories.ContactRepository,
	applications repositories.ApplicationRepository,
	meetings repositories.MeetingRepository,
	maintenance repositories.MaintenanceRepository,
	chatbot repositories.ChatbotRepository,
	mailer Mailer,
) *DigestService {
	return &DigestService{
		contacts:     contacts,
		applications: applications,
		meetings:     meetings,
		maintenance:  maintenance,
		chatbot:      chatbot,
		mailer:       mailer,
	}
}

func (s *DigestService) Collect(ctx context.Context) (Digest, error) {
	var (
		d   Digest
		err error
	)
	if d.PendingContacts, err = s.contacts.CountByStatus(ctx, models.ContactPending); err != nil {
		return d, fmt.Errorf("count contacts: %w", err)
	}
	if d.PendingApplications, err = s.applications.CountByStatus(ctx, models.ApplicationPending); err != nil {
		return d, fmt.Errorf("count applications: %w", err)
	}
	if d.PendingMeetings, err = s.meetings.CountByStatus(ctx, models.MeetingPending); err != nil {
		return d, fmt.Errorf("count meetings: %w", err)
	}
	if d.PendingMaintenance, err = s.maintenance.CountByStatus(ctx, models.MaintenancePending); err != nil {
		return d, fmt.Errorf("count maintenance: %w", err)
	}
	if d.OpenEscalations, err = s.chatbot.CountOpenEscalations(ctx); err != nil {
		return d, fmt.Errorf("count escalations: %w", err)
	}
	return d, nil
}

// SendDailyDigest mails the backlog to admins. Nothing is sent when every
// queue is empty.
func (s *DigestService) SendDailyDigest(ctx context.Context) error {
	d, err := s.Collect(ctx)
	if err != nil {
		return err
	}
	if d.Empty() {
		utils.Logger.Info("Daily digest: nothing pending, skipping email")
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Backlog as of %s UTC:\n\n", time.Now().UTC().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Contact messages awaiting reply: %d\n", d.PendingContacts)
	fmt.Fprintf(&b, "Rental applications pending:     %d\n", d.PendingApplications)
	fmt.Fprintf(&b, "Visit requests pending:          %d\n", d.PendingMeetings)
	fmt.Fprintf(&b, "Maintenance requests pending:    %d\n", d.PendingMaintenance)
	fmt.Fprintf(&b, "Open chatbot escalations:        %d\n", d.OpenEscalations)

	s.mailer.NotifyAdmins(ctx, organizationName+" daily digest", b.String())
	utils.LogFields(map[string]any{
		"contacts":     d.PendingContacts,
		"applications": d.PendingApplications,
		"meetings":     d.PendingMeetings,
		"maintenance":  d.PendingMaintenance,
		"escalations":  d.OpenEscalations,
	}).Info("Daily digest sent")
	return nil
}
