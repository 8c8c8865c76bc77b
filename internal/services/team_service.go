package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/media"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

type TeamService struct {
	repo  repositories.TeamRepository
	audit *AuditLogger
}

func NewTeamService(repo repositories.TeamRepository, audit *AuditLogger) *TeamService {
	return &TeamService{repo: repo, audit: audit}
}

var errTeamEmailTaken = utils.NewConflictError("A team member with this email already exists", utils.ErrEmailExists)

func processPhoto(photo *string) (*string, error) {
	if photo == nil || strings.TrimSpace(*photo) == "" {
		return nil, nil
	}
	out, err := media.ProcessImage(*photo)
	if err != nil {
		return nil, mediaError(err, "Photo")
	}
	return &out, nil
}

func (s *TeamService) Create(ctx context.Context, req dtos.CreateTeamMemberRequest) (*models.Team, error) {
	email := normalizeEmail(req.Email)
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errTeamEmailTaken
	}
	photo, err := processPhoto(req.Photo)
	if err != nil {
		return nil, err
	}

	t := &models.Team{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Age:          req.Age,
		Email:        email,
		Photo:        photo,
		Description:  req.Description,
		Phone:        trimPtr(req.Phone),
		PositionName: trimPtr(req.PositionName),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, errTeamEmailTaken
		}
		return nil, err
	}
	s.audit.Record(ctx, models.AuditCreate, models.TargetTeamMember, t.ID, map[string]any{"email": t.Email})
	return t, nil
}

func (s *TeamService) Update(ctx context.Context, id uuid.UUID, req dtos.UpdateTeamMemberRequest) (*models.Team, error) {
	photo, err := processPhoto(req.Photo)
	if err != nil {
		return nil, err
	}
	if req.Email != nil {
		other, err := s.repo.GetByEmail(ctx, normalizeEmail(*req.Email))
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, errTeamEmailTaken
		}
	}

	var updated *models.Team
	err = s.repo.UpdateWithRetry(ctx, id, func(t *models.Team) error {
		if req.Name != nil {
			t.Name = strings.TrimSpace(*req.Name)
		}
		if req.Age != nil {
			t.Age = req.Age
		}
		if req.Email != nil {
			t.Email = normalizeEmail(*req.Email)
		}
		if photo != nil {
			t.Photo = photo
		}
		if req.Description != nil {
			t.Description = req.Description
		}
		if req.Phone != nil {
			t.Phone = trimPtr(req.Phone)
		}
		if req.PositionName != nil {
			t.PositionName = trimPtr(req.PositionName)
		}
		updated = t
		return nil
	})
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, errTeamEmailTaken
		}
		return nil, notFoundOr(err, "Team member not found")
	}
	s.audit.Record(ctx, models.AuditUpdate, models.TargetTeamMember, id, nil)
	return updated, nil
}

func (s *TeamService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Team member not found")
	}
	s.audit.Record(ctx, models.AuditDelete, models.TargetTeamMember, id, nil)
	return nil
}

func (s *TeamService) List(ctx context.Context) ([]*models.Team, error) {
	members, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []*models.Team{}
	}
	return members, nil
}

func (s *TeamService) Get(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, utils.NewNotFoundError("Team member not found")
	}
	return t, nil
}
