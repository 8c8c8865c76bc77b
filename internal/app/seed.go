package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/config"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

type seedQuestion struct {
	text        string
	qType       models.QuestionType
	required    bool
	placeholder string
}

// defaultScreeningQuestions are worded so the recommendation matcher can
// derive criteria from their answers.
var defaultScreeningQuestions = []seedQuestion{
	{"What is your minimum monthly budget?", models.QuestionNumber, false, "e.g. 15000"},
	{"What is your maximum monthly budget?", models.QuestionNumber, true, "e.g. 30000"},
	{"Which city or location do you prefer?", models.QuestionText, true, "e.g. Pune"},
	{"How many bedrooms do you need?", models.QuestionNumber, true, "e.g. 2"},
	{"How many bathrooms do you need?", models.QuestionNumber, false, "e.g. 1"},
	{"What type of property are you looking for?", models.QuestionText, false, "Apartment, Villa, Studio ..."},
	{"When do you plan to move in?", models.QuestionDate, false, "YYYY-MM-DD"},
	{"Do you have any pets?", models.QuestionYesNo, false, ""},
}

// SeedAllTestData creates the admin account and the default screening
// questionnaire. It is idempotent: existing rows are left alone.
func SeedAllTestData(
	ctx context.Context,
	cfg *config.Config,
	userRepo repositories.UserRepository,
	screeningRepo repositories.ScreeningRepository,
) error {
	if err := seedAdmin(ctx, cfg, userRepo); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := seedScreeningQuestions(ctx, screeningRepo); err != nil {
		return fmt.Errorf("seed screening questions: %w", err)
	}
	utils.Logger.Info("Seeding completed successfully.")
	return nil
}

func seedAdmin(ctx context.Context, cfg *config.Config, userRepo repositories.UserRepository) error {
	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if email == "" || cfg.SeedAdminPassword == "" {
		utils.Logger.Info("SEED_ADMIN_EMAIL/SEED_ADMIN_PASSWORD not set; skipping admin seed.")
		return nil
	}

	existing, err := userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		utils.Logger.Infof("Admin %s already present; skipping.", email)
		return nil
	}

	hash, err := utils.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	admin := &models.User{
		ID:           uuid.New(),
		FullName:     "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleSuperAdmin,
		IsVerified:   true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		if repositories.IsUniqueViolation(err) {
			utils.Logger.Infof("Admin %s created concurrently; skipping.", email)
			return nil
		}
		return err
	}
	utils.Logger.Infof("Seeded admin user %s", email)
	return nil
}

func seedScreeningQuestions(ctx context.Context, repo repositories.ScreeningRepository) error {
	existing, err := repo.ListQuestions(ctx, false)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		utils.Logger.Info("Screening questions already present; skipping.")
		return nil
	}

	return repo.InTx(ctx, func(tx repositories.ScreeningRepository) error {
		for i, sq := range defaultScreeningQuestions {
			q := &models.ScreeningQuestion{
				ID:           uuid.New(),
				QuestionText: sq.text,
				QuestionType: sq.qType,
				IsRequired:   sq.required,
				Order:        i + 1,
				IsActive:     true,
			}
			if sq.placeholder != "" {
				q.PlaceholderText = utils.StrPtr(sq.placeholder)
			}
			if err := tx.CreateQuestion(ctx, q); err != nil && !repositories.IsUniqueViolation(err) {
				return err
			}
		}
		utils.Logger.Infof("Seeded %d screening questions", len(defaultScreeningQuestions))
		return nil
	})
}
