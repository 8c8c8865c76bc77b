package services

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/propnest/rental-backend/internal/config"
	"github.com/propnest/rental-backend/internal/metrics"
	"github.com/propnest/rental-backend/internal/utils"
)

type SMSSender interface {
	Enabled() bool
	SendSMS(ctx context.Context, to, body string) error
}

type SMSService struct {
	cfg          *config.Config
	twilioClient *twilio.RestClient
}

func NewSMSService(cfg *config.Config) *SMSService {
	return &SMSService{
		cfg: cfg,
		twilioClient: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
	}
}

// Enabled reports whether Twilio credentials and a sender number exist.
func (s *SMSService) Enabled() bool {
	return s.cfg.TwilioAccountSID != "" && s.cfg.TwilioAuthToken != "" && s.cfg.LDFlag_TwilioFromPhone != ""
}

func (s *SMSService) SendSMS(_ context.Context, to, body string) error {
	if !s.Enabled() {
		metrics.OutboundMessages.WithLabelValues("sms", "skipped").Inc()
		return nil
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.cfg.LDFlag_TwilioFromPhone)
	params.SetBody(body)

	if _, err := s.twilioClient.Api.CreateMessage(params); err != nil {
		metrics.OutboundMessages.WithLabelValues("sms", "failed").Inc()
		utils.Logger.WithError(err).Errorf("Failed to send SMS to %s via Twilio", to)
		return fmt.Errorf("%w: failed to send sms via twilio: %v", utils.ErrExternalServiceFailure, err)
	}
	metrics.OutboundMessages.WithLabelValues("sms", "sent").Inc()
	return nil
}
