package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

// RecommendationGenerator builds a recommendation from a stored screening response.
type RecommendationGenerator interface {
	Generate(ctx context.Context, screeningID uuid.UUID) (*models.PropertyRecommendation, error)
}

type ScreeningService struct {
	repo     repositories.ScreeningRepository
	recs     RecommendationGenerator
	mailer   Mailer
	audit    *AuditLogger
	validate *validator.Validate
}

func NewScreeningService(
	repo repositories.ScreeningRepository,
	recs RecommendationGenerator,
	mailer Mailer,
	audit *AuditLogger,
) *ScreeningService {
	return &ScreeningService{repo: repo, recs: recs, mailer: mailer, audit: audit, validate: validator.New()}
}

// CreateQuestions inserts a batch in one transaction. Items failing
// validation are reported instead of aborting the batch.
func (s *ScreeningService) CreateQuestions(ctx context.Context, inputs []dtos.ScreeningQuestionInput) (*dtos.BulkQuestionsResponse, error) {
	out := &dtos.BulkQuestionsResponse{
		Created:         []*models.ScreeningQuestion{},
		FailedQuestions: []dtos.FailedQuestion{},
	}

	err := s.repo.InTx(ctx, func(tx repositories.ScreeningRepository) error {
		for i, in := range inputs {
			if vErr := s.validate.Struct(in); vErr != nil {
				out.FailedQuestions = append(out.FailedQuestions, dtos.FailedQuestion{
					Index:        i,
					QuestionText: in.QuestionText,
					Error:        vErr.Error(),
				})
				continue
			}

			order := in.Order
			if order > 0 {
				if err := tx.ShiftOrdersFrom(ctx, order); err != nil {
					return err
				}
			} else {
				maxOrder, err := tx.MaxOrder(ctx)
				if err != nil {
					return err
				}
				order = maxOrder + 1
			}

			q := &models.ScreeningQuestion{
				ID:              uuid.New(),
				QuestionText:    strings.TrimSpace(in.QuestionText),
				QuestionType:    models.QuestionType(in.QuestionType),
				IsRequired:      utils.Val(in.IsRequired),
				Order:           order,
				PlaceholderText: trimPtr(in.PlaceholderText),
				IsActive:        in.IsActive == nil || *in.IsActive,
			}
			if err := tx.CreateQuestion(ctx, q); err != nil {
				return err
			}
			out.Created = append(out.Created, q)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(out.Created) == 0 {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    "No questions were created",
			Details:    out.FailedQuestions,
		}
	}
	for _, q := range out.Created {
		s.audit.Record(ctx, models.AuditCreate, models.TargetScreeningQuestion, q.ID, map[string]any{"order": q.Order})
	}
	out.Message = fmt.Sprintf("%d question(s) created, %d failed", len(out.Created), len(out.FailedQuestions))
	return out, nil
}

// DeleteQuestion removes a question and closes the gap in the ordering.
func (s *ScreeningService) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	err := s.repo.InTx(ctx, func(tx repositories.ScreeningRepository) error {
		q, err := tx.GetQuestion(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return utils.NewNotFoundError("Question not found")
		}
		if err := tx.DeleteQuestion(ctx, id); err != nil {
			return notFoundOr(err, "Question not found")
		}
		return tx.CompactOrdersAfter(ctx, q.Order)
	})
	if err != nil {
		return err
	}
	s.audit.Record(ctx, models.AuditDelete, models.TargetScreeningQuestion, id, nil)
	return nil
}

func (s *ScreeningService) ActiveQuestions(ctx context.Context) ([]*models.ScreeningQuestion, error) {
	qs, err := s.repo.ListQuestions(ctx, true)
	if err != nil {
		return nil, err
	}
	if qs == nil {
		qs = []*models.ScreeningQuestion{}
	}
	return qs, nil
}

// buildAnswer checks one answer against its question and converts it to a row.
func buildAnswer(q *models.ScreeningQuestion, in dtos.ScreeningAnswerInput, responseID uuid.UUID) (*models.ScreeningAnswer, error) {
	a := &models.ScreeningAnswer{
		ID:           uuid.New(),
		ResponseID:   responseID,
		QuestionID:   q.ID,
		AnswerText:   trimPtr(in.AnswerText),
		AnswerNumber: in.AnswerNumber,
		AnswerYesNo:  in.AnswerYesNo,
	}
	date, err := parseDate(in.AnswerDate)
	if err != nil {
		return nil, err
	}
	a.AnswerDate = date

	if !q.IsRequired {
		return a, nil
	}
	var present bool
	switch q.QuestionType {
	case models.QuestionNumber:
		present = a.AnswerNumber != nil
	case models.QuestionDate:
		present = a.AnswerDate != nil
	case models.QuestionYesNo:
		present = a.AnswerYesNo != nil
	default:
		present = a.AnswerText != nil
	}
	if !present {
		return nil, badRequest(fmt.Sprintf("An answer is required for %q", q.QuestionText))
	}
	return a, nil
}

// Submit stores a response with its answers and then tries to generate a
// recommendation. Generation failures are logged only.
func (s *ScreeningService) Submit(ctx context.Context, req dtos.SubmitScreeningRequest) (*dtos.SubmitScreeningResponse, error) {
	resp := &models.ScreeningResponse{
		ID:       uuid.New(),
		FullName: strings.TrimSpace(req.FullName),
		Email:    normalizeEmail(req.Email),
		Phone:    trimPtr(req.Phone),
		Message:  trimPtr(req.Message),
	}

	err := s.repo.InTx(ctx, func(tx repositories.ScreeningRepository) error {
		if err := tx.CreateResponse(ctx, resp); err != nil {
			return err
		}
		seen := make(map[uuid.UUID]bool, len(req.Answers))
		for _, in := range req.Answers {
			if seen[in.QuestionID] {
				return badRequest("Each question can only be answered once")
			}
			seen[in.QuestionID] = true

			q, err := tx.GetQuestion(ctx, in.QuestionID)
			if err != nil {
				return err
			}
			if q == nil || !q.IsActive {
				return badRequest(fmt.Sprintf("Question %s does not exist or is inactive", in.QuestionID))
			}
			a, err := buildAnswer(q, in, resp.ID)
			if err != nil {
				return err
			}
			if err := tx.CreateAnswer(ctx, a); err != nil {
				return err
			}
			a.QuestionText, a.QuestionType = q.QuestionText, q.QuestionType
			resp.Answers = append(resp.Answers, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := &dtos.SubmitScreeningResponse{Message: "Screening response submitted successfully", Response: resp}
	if rec, gErr := s.recs.Generate(ctx, resp.ID); gErr != nil {
		utils.Logger.WithError(gErr).Warnf("Recommendation generation for screening %s failed", resp.ID)
	} else {
		out.RecommendationID = &rec.ID
	}

	s.mailer.NotifyAdmins(ctx, "New screening response from "+resp.FullName,
		fmt.Sprintf("Name: %s\nEmail: %s\nAnswers: %d\nResponse id: %s", resp.FullName, resp.Email, len(resp.Answers), resp.ID))
	return out, nil
}

func (s *ScreeningService) ListResponses(ctx context.Context, search *string, limit, offset int) (*dtos.ScreeningResponseListResponse, error) {
	rs, total, err := s.repo.ListResponses(ctx, trimPtr(search), limit, offset)
	if err != nil {
		return nil, err
	}
	if rs == nil {
		rs = []*models.ScreeningResponse{}
	}
	return &dtos.ScreeningResponseListResponse{Responses: rs, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *ScreeningService) GetResponse(ctx context.Context, id uuid.UUID) (*models.ScreeningResponse, error) {
	r, err := s.repo.GetResponse(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, utils.NewNotFoundError("Screening response not found")
	}
	return r, nil
}

func (s *ScreeningService) Reply(ctx context.Context, id uuid.UUID, reply string) (*models.ScreeningResponse, error) {
	now := time.Now().UTC()
	var updated *models.ScreeningResponse
	err := s.repo.UpdateResponseWithRetry(ctx, id, func(r *models.ScreeningResponse) error {
		r.AdminReply = utils.StrPtr(strings.TrimSpace(reply))
		r.RepliedAt = &now
		updated = r
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "Screening response not found")
	}
	sendBestEffort(ctx, s.mailer, updated.Email, "About your property screening",
		fmt.Sprintf("Hi %s,\n\n%s", updated.FullName, *updated.AdminReply))
	s.audit.Record(ctx, models.AuditReply, models.TargetScreeningResponse, id, nil)
	return updated, nil
}

func (s *ScreeningService) DeleteResponse(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteResponse(ctx, id); err != nil {
		return notFoundOr(err, "Screening response not found")
	}
	s.audit.Record(ctx, models.AuditDelete, models.TargetScreeningResponse, id, nil)
	return nil
}
