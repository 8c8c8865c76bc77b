package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/middleware"
	"github.com/propnest/rental-backend/internal/services"
	"github.com/propnest/rental-backend/internal/utils"
)

type AuthController struct {
	authService *services.AuthService
	validate    *validator.Validate
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService, validate: newValidator()}
}

// POST /api/auth/signup
func (c *AuthController) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SignupRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	user, err := c.authService.Signup(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.ProfileResponse{
		Message: "Signup successful. Please check your email to verify your account.",
		User:    user,
	})
}

// POST /api/auth/login
func (c *AuthController) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	user, token, err := c.authService.Login(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	middleware.SetAuthCookies(w, token, middleware.AccessTokenTTL)
	utils.RespondWithJSON(w, http.StatusOK, dtos.LoginResponse{
		Message: "Login successful",
		User:    user,
		Token:   token,
	})
}

// POST /api/auth/logout
func (c *AuthController) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	middleware.ClearAuthCookies(w)
	respondMessage(w, http.StatusOK, "Logged out successfully")
}

// POST /api/auth/forgot-password
func (c *AuthController) ForgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.EmailRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	if err := c.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Password reset link sent to your email")
}

// POST /api/auth/reset-password/{token}
func (c *AuthController) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.ResetPasswordRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	if err := c.authService.ResetPassword(r.Context(), mux.Vars(r)["token"], req.NewPassword); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Password reset successful")
}

// GET /api/auth/verify-email/{token}
func (c *AuthController) VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.authService.VerifyEmail(r.Context(), mux.Vars(r)["token"]); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Email verified successfully")
}

// POST /api/auth/resend-verification
func (c *AuthController) ResendVerificationHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.EmailRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	if err := c.authService.ResendVerification(r.Context(), req.Email); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Verification email sent")
}

func (c *AuthController) currentUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid user in token", nil, err)
		return uuid.Nil, false
	}
	return id, true
}

// GET /api/user/profile
func (c *AuthController) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.currentUserID(w, r)
	if !ok {
		return
	}
	user, err := c.authService.GetProfile(r.Context(), userID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ProfileResponse{User: user})
}

// PUT /api/user/profile
func (c *AuthController) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.currentUserID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdateProfileRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	user, err := c.authService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ProfileResponse{Message: "Profile updated successfully", User: user})
}
