package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/matcher"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

type RecommendationService struct {
	repo          repositories.RecommendationRepository
	screeningRepo repositories.ScreeningRepository
	propertyRepo  repositories.PropertyRepository
	mailer        Mailer
	audit         *AuditLogger
}

func NewRecommendationService(
	repo repositories.RecommendationRepository,
	screeningRepo repositories.ScreeningRepository,
	propertyRepo repositories.PropertyRepository,
	mailer Mailer,
	audit *AuditLogger,
) *RecommendationService {
	return &RecommendationService{
		repo:          repo,
		screeningRepo: screeningRepo,
		propertyRepo:  propertyRepo,
		mailer:        mailer,
		audit:         audit,
	}
}

var errRecommendationNotFound = utils.NewNotFoundError("Recommendation not found")

// Generate scores the available listings against a screening response and
// stores the result.
func (s *RecommendationService) Generate(ctx context.Context, screeningID uuid.UUID) (*models.PropertyRecommendation, error) {
	resp, err := s.screeningRepo.GetResponse(ctx, screeningID)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, utils.NewNotFoundError("Screening response not found")
	}

	criteria := matcher.CriteriaFromAnswers(resp.Answers)
	candidates, _, err := s.propertyRepo.List(ctx, matcher.CandidateFilter(criteria, matcher.DefaultLimit))
	if err != nil {
		return nil, err
	}
	ranked := matcher.Rank(candidates, criteria, matcher.DefaultLimit)

	rec := &models.PropertyRecommendation{
		ID:                    uuid.New(),
		UserEmail:             resp.Email,
		UserName:              utils.StrPtr(resp.FullName),
		UserPhone:             resp.Phone,
		ScreeningID:           &resp.ID,
		Criteria:              criteria,
		RecommendedProperties: ranked,
		MatchScore:            matcher.Overall(ranked),
		Status:                models.RecommendationPending,
		PriorityLevel:         "medium",
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	utils.Logger.Infof("Generated %d recommendations for screening %s (overall %.1f%%)",
		len(ranked), screeningID, rec.MatchScore)
	return rec, nil
}

func (s *RecommendationService) ByEmail(ctx context.Context, email string) ([]*models.PropertyRecommendation, error) {
	recs, err := s.repo.ListByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []*models.PropertyRecommendation{}
	}
	return recs, nil
}

func (s *RecommendationService) Get(ctx context.Context, id uuid.UUID) (*models.PropertyRecommendation, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errRecommendationNotFound
	}
	return rec, nil
}

// Respond records the user's reaction. The status defaults to viewed.
func (s *RecommendationService) Respond(ctx context.Context, id uuid.UUID, req dtos.RespondRecommendationRequest) (*models.PropertyRecommendation, error) {
	status := models.RecommendationViewed
	if req.Status != nil {
		status = models.RecommendationStatus(*req.Status)
	}
	now := time.Now().UTC()

	var updated *models.PropertyRecommendation
	err := s.repo.UpdateWithRetry(ctx, id, func(r *models.PropertyRecommendation) error {
		r.UserResponse = utils.StrPtr(strings.TrimSpace(req.Response))
		r.UserRespondedAt = &now
		r.Status = status
		updated = r
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Recommendation not found")
	}
	if status == models.RecommendationInterested {
		s.mailer.NotifyAdmins(ctx, "Recommendation interest from "+updated.UserEmail,
			fmt.Sprintf("%s is interested in recommendation %s.\n\nResponse: %s",
				updated.UserEmail, updated.ID, *updated.UserResponse))
	}
	return updated, nil
}

func (s *RecommendationService) List(ctx context.Context, f repositories.RecommendationFilter) (*dtos.RecommendationListResponse, error) {
	recs, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []*models.PropertyRecommendation{}
	}
	return &dtos.RecommendationListResponse{
		Recommendations: recs,
		Total:           total,
		Limit:           f.Limit,
		Offset:          f.Offset,
		HasNext:         int64(f.Offset+f.Limit) < total,
		HasPrev:         f.Offset > 0,
	}, nil
}

func (s *RecommendationService) Review(ctx context.Context, id uuid.UUID, req dtos.ReviewRecommendationRequest) (*models.PropertyRecommendation, error) {
	var updated *models.PropertyRecommendation
	err := s.repo.UpdateWithRetry(ctx, id, func(r *models.PropertyRecommendation) error {
		if req.AdminNotes != nil {
			r.AdminNotes = trimPtr(req.AdminNotes)
		}
		if req.PriorityLevel != nil {
			r.PriorityLevel = *req.PriorityLevel
		}
		r.AdminReviewed = true
		updated = r
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Recommendation not found")
	}
	s.audit.Record(ctx, models.AuditUpdate, models.TargetRecommendation, id, map[string]any{"priority_level": updated.PriorityLevel})
	return updated, nil
}

// SendEmail mails the ranked list to the user once.
func (s *RecommendationService) SendEmail(ctx context.Context, id uuid.UUID) (*models.PropertyRecommendation, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.EmailSent {
		return nil, badRequest("Recommendation email has already been sent")
	}

	if err := s.mailer.Send(ctx, rec.UserEmail, "Properties picked for you", recommendationBody(rec)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var updated *models.PropertyRecommendation
	err = s.repo.UpdateWithRetry(ctx, id, func(r *models.PropertyRecommendation) error {
		r.EmailSent = true
		r.EmailSentAt = &now
		r.Status = models.RecommendationSent
		updated = r
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Recommendation not found")
	}
	s.mailer.NotifyAdmins(ctx, "Recommendations sent to "+rec.UserEmail,
		fmt.Sprintf("%d properties (overall match %.1f%%) were emailed to %s.",
			len(rec.RecommendedProperties), rec.MatchScore, rec.UserEmail))
	return updated, nil
}

func recommendationBody(rec *models.PropertyRecommendation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nBased on your screening answers, here are the properties that match you best:\n\n",
		utils.Val(rec.UserName))
	if len(rec.RecommendedProperties) == 0 {
		b.WriteString("We couldn't find a close match right now. Our team will reach out as new listings arrive.\n")
	}
	for i, p := range rec.RecommendedProperties {
		fmt.Fprintf(&b, "%d. %s - %s, %s - %.0f/month (%.1f%% match)\n", i+1, p.Title, p.City, p.State, p.Price, p.MatchScore)
		if len(p.MatchReasons) > 0 {
			fmt.Fprintf(&b, "   %s\n", strings.Join(p.MatchReasons, ", "))
		}
	}
	return b.String()
}
