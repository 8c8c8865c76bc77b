package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/chatbot"
	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

type MeetingService struct {
	repo         repositories.MeetingRepository
	propertyRepo repositories.PropertyRepository
	mailer       Mailer
	sms          SMSSender
	audit        *AuditLogger
	now          func() time.Time
}

func NewMeetingService(
	repo repositories.MeetingRepository,
	propertyRepo repositories.PropertyRepository,
	mailer Mailer,
	sms SMSSender,
	audit *AuditLogger,
) *MeetingService {
	return &MeetingService{
		repo:         repo,
		propertyRepo: propertyRepo,
		mailer:       mailer,
		sms:          sms,
		audit:        audit,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

var errMeetingNotFound = utils.NewNotFoundError("Meeting not found")

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// Schedule books a property visit. The caller is linked when authenticated.
func (s *MeetingService) Schedule(ctx context.Context, req dtos.ScheduleMeetingRequest) (*models.ScheduleMeeting, error) {
	date, err := time.Parse(dateLayout, req.MeetingDate)
	if err != nil {
		return nil, utils.NewBadRequestError("Meeting date must use the YYYY-MM-DD format", err)
	}
	m := &models.ScheduleMeeting{
		FullName:    strings.TrimSpace(req.FullName),
		Email:       normalizeEmail(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		MeetingDate: date,
		MeetingTime: req.MeetingTime,
		PropertyID:  req.PropertyID,
		UserID:      actorID(ctx),
		Message:     trimPtr(req.Message),
	}
	return s.create(ctx, m)
}

// BookFromChat records a visit collected by the chatbot.
func (s *MeetingService) BookFromChat(ctx context.Context, v chatbot.VisitRequest) (*models.ScheduleMeeting, error) {
	return s.create(ctx, &models.ScheduleMeeting{
		FullName:    strings.TrimSpace(v.Name),
		Email:       normalizeEmail(v.Email),
		Phone:       strings.TrimSpace(v.Phone),
		MeetingDate: v.Date,
		MeetingTime: v.Time,
		PropertyID:  v.PropertyID,
		UserID:      actorID(ctx),
		Message: utils.StrPtr(fmt.Sprintf("Meeting scheduled via chatbot. Preferred date: %s, time: %s",
			v.Date.Format(dateLayout), v.PreferredTime)),
	})
}

func (s *MeetingService) create(ctx context.Context, m *models.ScheduleMeeting) (*models.ScheduleMeeting, error) {
	if len([]rune(m.FullName)) < 2 {
		return nil, badRequest("Name must be at least 2 characters")
	}
	if countDigits(m.Phone) < 10 {
		return nil, badRequest("Phone number must contain at least 10 digits")
	}
	if m.MeetingDate.Before(today(s.now())) {
		return nil, badRequest("Meeting date cannot be in the past")
	}

	prop, err := s.propertyRepo.GetByID(ctx, m.PropertyID)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, errPropertyNotFound
	}

	m.ID = uuid.New()
	m.Status = models.MeetingPending
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	sendBestEffort(ctx, s.mailer, m.Email, "Visit request received",
		fmt.Sprintf("Hi %s,\n\nWe received your request to visit %s (%s, %s) on %s at %s. "+
			"Our team will confirm the slot shortly.",
			m.FullName, prop.Title, prop.Address, prop.City, m.MeetingDate.Format(dateLayout), m.MeetingTime))
	s.mailer.NotifyAdmins(ctx, "New visit request for "+prop.Title,
		fmt.Sprintf("Visitor: %s\nEmail: %s\nPhone: %s\nWhen: %s %s\nMessage: %s",
			m.FullName, m.Email, m.Phone, m.MeetingDate.Format(dateLayout), m.MeetingTime, utils.Val(m.Message)))
	return m, nil
}

func (s *MeetingService) List(ctx context.Context, status *models.MeetingStatus, propertyID *uuid.UUID) (*dtos.MeetingListResponse, error) {
	if status != nil && !status.Valid() {
		return nil, badRequest("Invalid status. Must be one of: pending, replied, approved, rejected, completed, cancelled")
	}
	meetings, err := s.repo.List(ctx, status, propertyID)
	if err != nil {
		return nil, err
	}
	if meetings == nil {
		meetings = []*models.ScheduleMeeting{}
	}
	return &dtos.MeetingListResponse{Meetings: meetings, Total: len(meetings)}, nil
}

func (s *MeetingService) Get(ctx context.Context, id uuid.UUID) (*dtos.MeetingDetailResponse, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errMeetingNotFound
	}
	out := &dtos.MeetingDetailResponse{ScheduleMeeting: m}
	prop, err := s.propertyRepo.GetByID(ctx, m.PropertyID)
	if err != nil {
		return nil, err
	}
	if prop != nil {
		out.Property = &dtos.PropertySummary{
			ID:      prop.ID,
			Title:   prop.Title,
			Address: prop.Address,
			City:    prop.City,
			State:   prop.State,
			Price:   prop.Price,
		}
	}
	return out, nil
}

// Reply answers a visit request. An action approves or rejects it; without
// one the meeting is only marked replied.
func (s *MeetingService) Reply(ctx context.Context, id uuid.UUID, req dtos.MeetingReplyRequest) (*models.ScheduleMeeting, error) {
	now := s.now()
	actor := actorID(ctx)
	message := strings.TrimSpace(req.Message)

	var updated *models.ScheduleMeeting
	err := s.repo.UpdateWithRetry(ctx, id, func(m *models.ScheduleMeeting) error {
		m.AdminMessage = &message
		m.AdminReplyDate = &now
		m.RepliedBy = actor
		switch utils.Val(req.Action) {
		case string(models.MeetingApproved):
			m.Status = models.MeetingApproved
			m.ApprovedAt = &now
			m.ApprovedBy = actor
		case string(models.MeetingRejected):
			m.Status = models.MeetingRejected
			m.RejectedAt = &now
		default:
			m.Status = models.MeetingReplied
			m.RepliedAt = &now
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Meeting not found")
	}

	when := fmt.Sprintf("%s at %s", updated.MeetingDate.Format(dateLayout), updated.MeetingTime)
	var headline string
	switch updated.Status {
	case models.MeetingApproved:
		headline = "Your property visit on " + when + " is confirmed."
	case models.MeetingRejected:
		headline = "Unfortunately we cannot host your property visit on " + when + "."
	default:
		headline = "We have an update about your property visit on " + when + "."
	}
	sendBestEffort(ctx, s.mailer, updated.Email, "Property visit update",
		fmt.Sprintf("Hi %s,\n\n%s\n\n%s", updated.FullName, headline, message))
	if s.sms.Enabled() {
		if err := s.sms.SendSMS(ctx, updated.Phone, organizationName+": "+headline); err != nil {
			utils.Logger.WithError(err).Warnf("Meeting SMS for %s failed", updated.ID)
		}
	}
	s.audit.Record(ctx, models.AuditReply, models.TargetMeeting, id, map[string]any{"status": updated.Status})
	return updated, nil
}

func (s *MeetingService) Complete(ctx context.Context, id uuid.UUID) (*models.ScheduleMeeting, error) {
	now := s.now()
	var updated *models.ScheduleMeeting
	err := s.repo.UpdateWithRetry(ctx, id, func(m *models.ScheduleMeeting) error {
		m.Status = models.MeetingCompleted
		m.CompletedAt = &now
		updated = m
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Meeting not found")
	}
	s.audit.Record(ctx, models.AuditUpdate, models.TargetMeeting, id, map[string]any{"status": models.MeetingCompleted})
	return updated, nil
}

// Delete removes the meeting and tells the visitor it was cancelled.
func (s *MeetingService) Delete(ctx context.Context, id uuid.UUID) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return errMeetingNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Meeting not found")
	}
	sendBestEffort(ctx, s.mailer, m.Email, "Property visit cancelled",
		fmt.Sprintf("Hi %s,\n\nYour property visit scheduled for %s at %s has been cancelled. "+
			"Feel free to book another slot any time.", m.FullName, m.MeetingDate.Format(dateLayout), m.MeetingTime))
	s.audit.Record(ctx, models.AuditDelete, models.TargetMeeting, id, nil)
	return nil
}
