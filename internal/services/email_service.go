package services

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/propnest/rental-backend/internal/config"
	"github.com/propnest/rental-backend/internal/metrics"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

const organizationName = "PropNest"

// Mailer sends transactional email. Callers treat delivery as best effort
// unless the email is the point of the operation.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
	NotifyAdmins(ctx context.Context, subject, body string)
}

type EmailService struct {
	cfg            *config.Config
	userRepo       repositories.UserRepository
	sendgridClient *sendgrid.Client
}

func NewEmailService(cfg *config.Config, userRepo repositories.UserRepository) *EmailService {
	return &EmailService{
		cfg:            cfg,
		userRepo:       userRepo,
		sendgridClient: sendgrid.NewSendClient(cfg.SendGridAPIKey),
	}
}

// Send delivers a plain-text body, also rendered into the HTML layout.
func (s *EmailService) Send(ctx context.Context, to, subject, body string) error {
	if s.cfg.SendGridAPIKey == "" {
		utils.Logger.Warnf("SendGrid not configured; dropping email %q to %s", subject, to)
		metrics.OutboundMessages.WithLabelValues("email", "skipped").Inc()
		return nil
	}

	from := mail.NewEmail(organizationName, s.cfg.LDFlag_SendgridFromEmail)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), body, renderHTML(subject, body))

	if s.cfg.LDFlag_SendgridSandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		message.MailSettings = ms
	}

	resp, err := s.sendgridClient.SendWithContext(ctx, message)
	if err == nil && resp.StatusCode >= http.StatusBadRequest {
		err = fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	if err != nil {
		metrics.OutboundMessages.WithLabelValues("email", "failed").Inc()
		utils.Logger.WithError(err).Errorf("Failed to send email %q to %s via SendGrid", subject, to)
		return fmt.Errorf("%w: failed to send email via sendgrid: %v", utils.ErrExternalServiceFailure, err)
	}
	metrics.OutboundMessages.WithLabelValues("email", "sent").Inc()
	return nil
}

// NotifyAdmins emails every configured admin address, falling back to the
// admin accounts in the database. Failures are logged only.
func (s *EmailService) NotifyAdmins(ctx context.Context, subject, body string) {
	for _, to := range s.adminRecipients(ctx) {
		if err := s.Send(ctx, to, subject, body); err != nil {
			utils.Logger.WithError(err).Warnf("Admin notification to %s failed", to)
		}
	}
}

func (s *EmailService) adminRecipients(ctx context.Context) []string {
	if len(s.cfg.AdminNotificationEmails) > 0 {
		return s.cfg.AdminNotificationEmails
	}
	admins, err := s.userRepo.ListAdmins(ctx)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to list admins for notification")
		return nil
	}
	out := make([]string, 0, len(admins))
	for _, a := range admins {
		out = append(out, a.Email)
	}
	return out
}

func renderHTML(subject, body string) string {
	escaped := strings.ReplaceAll(html.EscapeString(body), "\n", "<br>")
	return fmt.Sprintf(baseEmailHTML, html.EscapeString(subject), escaped, time.Now().Year(), organizationName)
}

// sendBestEffort logs instead of failing the caller's operation.
func sendBestEffort(ctx context.Context, m Mailer, to, subject, body string) {
	if err := m.Send(ctx, to, subject, body); err != nil {
		utils.Logger.WithError(err).Warnf("Email %q to %s not delivered", subject, to)
	}
}
