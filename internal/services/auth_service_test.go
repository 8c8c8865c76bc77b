package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propnest/rental-backend/internal/config"
	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/middleware"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

type memUserRepo struct {
	repositories.UserRepository
	users map[uuid.UUID]*models.User
}

func (r *memUserRepo) Create(_ context.Context, u *models.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	u, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	cp := *u
	if err := mutate(&cp); err != nil {
		return err
	}
	r.users[id] = &cp
	return nil
}

func newTestAuthService() (*AuthService, *memUserRepo, *fakeMailer) {
	cfg := &config.Config{JWTSecret: []byte("test-secret"), FrontendURL: "https://rent.example.com"}
	repo := &memUserRepo{users: map[uuid.UUID]*models.User{}}
	mailer := &fakeMailer{}
	return NewAuthService(cfg, repo, mailer), repo, mailer
}

// linkToken pulls the token off the end of the link in an email body.
func linkToken(t *testing.T, body, prefix string) string {
	t.Helper()
	i := strings.Index(body, prefix)
	require.GreaterOrEqual(t, i, 0, "no %q link in %q", prefix, body)
	return strings.TrimSpace(body[i+len(prefix):])
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected *utils.AppError, got %v", err)
	return appErr.Code
}

func TestAuthService_SignupVerifyLogin(t *testing.T) {
	svc, _, mailer := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Signup(ctx, dtos.SignupRequest{FullName: "Nisha", Email: " Nisha@Example.com ", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, "nisha@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.False(t, user.IsVerified)

	_, err = svc.Signup(ctx, dtos.SignupRequest{FullName: "Nisha", Email: "nisha@example.com", Password: "supersecret"})
	assert.Equal(t, http.StatusBadRequest, appErrStatus(t, err))

	_, _, err = svc.Login(ctx, dtos.LoginRequest{Email: "nisha@example.com", Password: "supersecret"})
	assert.Equal(t, utils.ErrCodeEmailNotVerified, appErrCode(t, err))

	require.Len(t, mailer.sent, 1)
	token := linkToken(t, mailer.sent[0].Body, "https://rent.example.com/verify-email/")
	require.NoError(t, svc.VerifyEmail(ctx, token))
	assert.Equal(t, http.StatusBadRequest, appErrStatus(t, svc.VerifyEmail(ctx, token)))

	_, _, err = svc.Login(ctx, dtos.LoginRequest{Email: "nisha@example.com", Password: "wrong-password"})
	assert.Equal(t, utils.ErrCodeInvalidCredentials, appErrCode(t, err))

	got, access, err := svc.Login(ctx, dtos.LoginRequest{Email: "NISHA@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	claims, err := middleware.ValidateToken([]byte("test-secret"), access, middleware.PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.ID)
}

func TestAuthService_VerifyRejectsOtherPurposes(t *testing.T) {
	svc, _, _ := newTestAuthService()
	reset, err := middleware.GenerateToken([]byte("test-secret"), uuid.New(), "a@b.c", "", middleware.PurposeReset, middleware.ResetTokenTTL)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, appErrStatus(t, svc.VerifyEmail(context.Background(), reset)))
	assert.Equal(t, http.StatusBadRequest, appErrStatus(t, svc.VerifyEmail(context.Background(), "garbage")))
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	svc, repo, mailer := newTestAuthService()
	ctx := context.Background()

	hash, err := utils.HashPassword("old-password")
	require.NoError(t, err)
	u := &models.User{ID: uuid.New(), FullName: "Omar", Email: "omar@example.com", PasswordHash: hash, IsVerified: true}
	require.NoError(t, repo.Create(ctx, u))

	assert.Equal(t, http.StatusBadRequest, appErrStatus(t, svc.ForgotPassword(ctx, "ghost@example.com")))

	require.NoError(t, svc.ForgotPassword(ctx, "omar@example.com"))
	token := linkToken(t, mailer.sent[0].Body, "https://rent.example.com/reset-password/")
	require.NoError(t, svc.ResetPassword(ctx, token, "new-password-1"))

	_, _, err = svc.Login(ctx, dtos.LoginRequest{Email: "omar@example.com", Password: "old-password"})
	require.Error(t, err)
	_, _, err = svc.Login(ctx, dtos.LoginRequest{Email: "omar@example.com", Password: "new-password-1"})
	require.NoError(t, err)
}

func TestAuthService_Profile(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.GetProfile(ctx, uuid.New())
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, err))

	u := &models.User{ID: uuid.New(), FullName: "Omar", Email: "omar@example.com"}
	require.NoError(t, repo.Create(ctx, u))

	updated, err := svc.UpdateProfile(ctx, u.ID, dtos.UpdateProfileRequest{FullName: strPtr(" Omar K "), Phone: strPtr("  ")})
	require.NoError(t, err)
	assert.Equal(t, "Omar K", updated.FullName)
	assert.Nil(t, updated.Phone)

	_, err = svc.UpdateProfile(ctx, uuid.New(), dtos.UpdateProfileRequest{FullName: strPtr("x")})
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, err))
}
