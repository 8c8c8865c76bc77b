package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/config"
	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/media"
	"github.com/propnest/rental-backend/internal/middleware"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

type AuthService struct {
	cfg      *config.Config
	userRepo repositories.UserRepository
	mailer   Mailer
}

func NewAuthService(cfg *config.Config, userRepo repositories.UserRepository, mailer Mailer) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, mailer: mailer}
}

func invalidCredentials(message string) *utils.AppError {
	return &utils.AppError{
		StatusCode: http.StatusBadRequest,
		Code:       utils.ErrCodeInvalidCredentials,
		Message:    message,
		Err:        utils.ErrInvalidCredentials,
	}
}

var errInvalidLinkToken = utils.NewBadRequestError("Invalid or expired token", utils.ErrInvalidToken)

func (s *AuthService) Signup(ctx context.Context, req dtos.SignupRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewBadRequestError("User already exists, Please login", utils.ErrEmailExists)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, utils.NewInternalError("Failed to hash password", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		PasswordHash: hash,
		Phone:        trimPtr(req.Phone),
		Role:         models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.sendVerification(ctx, user); err != nil {
		utils.Logger.WithError(err).Warnf("Verification email to %s failed", user.Email)
	}
	return user, nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *models.User) error {
	token, err := middleware.GenerateToken(s.cfg.JWTSecret, user.ID, user.Email, "", middleware.PurposeVerify, middleware.VerifyTokenTTL)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s/verify-email/%s", s.cfg.FrontendURL, token)
	body := fmt.Sprintf(
		"Hi %s,\n\nPlease confirm your email address by opening the link below. It expires in 30 minutes.\n\n%s",
		user.FullName, link,
	)
	return s.mailer.Send(ctx, user.Email, organizationName+" - Verify your email", body)
}

// Login checks the credentials and returns the user plus a signed access token.
func (s *AuthService) Login(ctx context.Context, req dtos.LoginRequest) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", invalidCredentials("Invalid credentials")
	}
	if !user.IsVerified {
		return nil, "", &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeEmailNotVerified,
			Message:    "Please verify your email first",
			Err:        utils.ErrEmailNotVerified,
		}
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, "", invalidCredentials("Invalid password")
	}

	token, err := middleware.GenerateToken(
		s.cfg.JWTSecret, user.ID, user.Email, string(user.Role), middleware.PurposeAccess, middleware.AccessTokenTTL,
	)
	if err != nil {
		return nil, "", utils.NewInternalError("Failed to issue token", err)
	}
	return user, token, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return utils.NewBadRequestError("User not found", utils.ErrNotFound)
	}

	token, err := middleware.GenerateToken(s.cfg.JWTSecret, user.ID, user.Email, "", middleware.PurposeReset, middleware.ResetTokenTTL)
	if err != nil {
		return utils.NewInternalError("Failed to issue token", err)
	}
	link := fmt.Sprintf("%s/reset-password/%s", s.cfg.FrontendURL, token)
	body := fmt.Sprintf("Hi %s,\n\nUse the link below to choose a new password. It expires in 15 minutes.\n\n%s", user.FullName, link)
	return s.mailer.Send(ctx, user.Email, organizationName+" - Reset your password", body)
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := middleware.ValidateToken(s.cfg.JWTSecret, token, middleware.PurposeReset)
	if err != nil {
		return errInvalidLinkToken
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return utils.NewInternalError("Failed to hash password", err)
	}

	var user *models.User
	err = s.userRepo.UpdateWithRetry(ctx, uuid.MustParse(claims.ID), func(u *models.User) error {
		u.PasswordHash = hash
		user = u
		return nil
	})
	if err != nil {
		return notFoundOr(err, "Invalid or expired token")
	}
	sendBestEffort(ctx, s.mailer, user.Email, organizationName+" - Password changed",
		"Your password was reset successfully. If this wasn't you, contact support immediately.")
	return nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := middleware.ValidateToken(s.cfg.JWTSecret, token, middleware.PurposeVerify)
	if err != nil {
		return errInvalidLinkToken
	}

	var user *models.User
	err = s.userRepo.UpdateWithRetry(ctx, uuid.MustParse(claims.ID), func(u *models.User) error {
		if u.IsVerified {
			return utils.NewBadRequestError("User already verified", utils.ErrAlreadyVerified)
		}
		u.IsVerified = true
		user = u
		return nil
	})
	if err != nil {
		return notFoundOr(err, "Invalid or expired token")
	}
	sendBestEffort(ctx, s.mailer, user.Email, "Welcome to "+organizationName,
		fmt.Sprintf("Hi %s,\n\nYour email is verified. You can now log in.", user.FullName))
	return nil
}

func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return utils.NewBadRequestError("User not found", utils.ErrNotFound)
	}
	if user.IsVerified {
		return utils.NewBadRequestError("User already verified", utils.ErrAlreadyVerified)
	}
	return s.sendVerification(ctx, user)
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NewNotFoundError("User not found")
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req dtos.UpdateProfileRequest) (*models.User, error) {
	var photo *string
	if req.ProfilePhoto != nil && *req.ProfilePhoto != "" {
		processed, err := media.ProcessImage(*req.ProfilePhoto)
		if err != nil {
			return nil, mediaError(err, "Photo")
		}
		photo = &processed
	}

	var updated *models.User
	err := s.userRepo.UpdateWithRetry(ctx, userID, func(u *models.User) error {
		if req.FullName != nil {
			u.FullName = strings.TrimSpace(*req.FullName)
		}
		if req.Phone != nil {
			u.Phone = trimPtr(req.Phone)
		}
		if photo != nil {
			u.ProfilePhoto = photo
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return updated, nil
}
