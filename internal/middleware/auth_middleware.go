package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/utils"
)

type contextKey string

const (
	ContextKeyUserID = contextKey("userID")
	ContextKeyEmail  = contextKey("email")
	ContextKeyRole   = contextKey("role")

	// AccessTokenCookieName is HttpOnly; MiddlewareTokenCookieName is
	// readable by the frontend router.
	AccessTokenCookieName     = "token"
	MiddlewareTokenCookieName = "token_middleware"
)

var errNoToken = errors.New("No token found. Please login.")

// AuthMiddleware rejects requests without a valid access token (401).
func AuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := authenticate(w, r, secret)
			if !ok {
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// AdminAuthMiddleware validates the token and requires one of the admin roles.
func AdminAuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return RoleMiddleware(secret, models.AdminRoles...)
}

// RoleMiddleware validates the token and requires one of roles (403 otherwise).
func RoleMiddleware(secret []byte, roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := authenticate(w, r, secret)
			if !ok {
				return
			}
			allowed := false
			for _, role := range roles {
				if claims.Role == string(role) {
					allowed = true
					break
				}
			}
			if !allowed {
				utils.RespondErrorWithCode(
					w, http.StatusForbidden, utils.ErrCodeForbidden, "Insufficient permissions", nil,
				)
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuthMiddleware attaches the caller when a valid access token is
// present and otherwise lets the request through anonymously.
func OptionalAuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractAccessToken(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			claims, vErr := ValidateToken(secret, tokenStr, PurposeAccess)
			if vErr != nil {
				utils.Logger.WithError(vErr).Debug("Ignoring invalid optional token")
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

func authenticate(w http.ResponseWriter, r *http.Request, secret []byte) (*Claims, bool) {
	tokenStr, err := extractAccessToken(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), nil)
		return nil, false
	}
	claims, vErr := ValidateToken(secret, tokenStr, PurposeAccess)
	if vErr != nil {
		code := utils.ErrCodeUnauthorized
		if errors.Is(vErr, jwt.ErrTokenExpired) {
			code = utils.ErrCodeTokenExpired
		}
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, code, "Invalid or expired token.", nil, vErr)
		return nil, false
	}
	return claims, true
}

func withClaims(ctx context.Context, c *Claims) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUserID, c.ID)
	ctx = context.WithValue(ctx, ContextKeyEmail, c.Email)
	return context.WithValue(ctx, ContextKeyRole, c.Role)
}

// extractAccessToken reads the HttpOnly cookie, then the readable cookie,
// then the Authorization header.
func extractAccessToken(r *http.Request) (string, error) {
	for _, name := range []string{AccessTokenCookieName, MiddlewareTokenCookieName} {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return c.Value, nil
		}
	}
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		if tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); tok != "" {
			return tok, nil
		}
	}
	return "", errNoToken
}

// UserIDFromContext returns the authenticated user id, or "" when anonymous.
func UserIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ContextKeyUserID).(string)
	return v
}
