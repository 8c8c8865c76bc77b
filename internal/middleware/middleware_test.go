package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propnest/rental-backend/internal/models"
)

var testSecret = []byte("test-secret-test-secret-test-secret")

func okHandler(t *testing.T, wantUser string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantUser, UserIDFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	})
}

func accessToken(t *testing.T, id uuid.UUID, role models.UserRole, ttl time.Duration) string {
	tok, err := GenerateToken(testSecret, id, "u@example.com", string(role), PurposeAccess, ttl)
	require.NoError(t, err)
	return tok
}

func TestValidateTokenRoundTrip(t *testing.T) {
	id := uuid.New()
	tok, err := GenerateToken(testSecret, id, "u@example.com", "user", PurposeVerify, time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(testSecret, tok, PurposeVerify)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.ID)
	assert.Equal(t, "u@example.com", claims.Email)

	_, err = ValidateToken(testSecret, tok, PurposeAccess)
	assert.Error(t, err, "purpose mismatch must be rejected")

	_, err = ValidateToken([]byte("other"), tok, PurposeVerify)
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	id := uuid.New()
	good := accessToken(t, id, models.RoleUser, time.Hour)
	expired := accessToken(t, id, models.RoleUser, -time.Hour)

	cases := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: good}) }, http.StatusNoContent},
		{"middleware cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: MiddlewareTokenCookieName, Value: good})
		}, http.StatusNoContent},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+good) }, http.StatusNoContent},
		{"expired", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expired) }, http.StatusUnauthorized},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
			tc.setup(r)
			w := httptest.NewRecorder()
			AuthMiddleware(testSecret)(okHandler(t, id.String())).ServeHTTP(w, r)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestAuthMiddlewareMessages(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	AuthMiddleware(testSecret)(okHandler(t, "")).ServeHTTP(w, r)
	assert.Contains(t, w.Body.String(), "No token found. Please login.")

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer bad")
	w = httptest.NewRecorder()
	AuthMiddleware(testSecret)(okHandler(t, "")).ServeHTTP(w, r)
	assert.Contains(t, w.Body.String(), "Invalid or expired token.")
}

func TestAdminAuthMiddlewareRoles(t *testing.T) {
	for role, want := range map[models.UserRole]int{
		models.RoleUser:       http.StatusForbidden,
		models.RoleAdmin:      http.StatusNoContent,
		models.RoleAdminPlus:  http.StatusNoContent,
		models.RoleSuperAdmin: http.StatusNoContent,
	} {
		id := uuid.New()
		r := httptest.NewRequest(http.MethodGet, "/api/admin/properties/stats", nil)
		r.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: accessToken(t, id, role, time.Hour)})
		w := httptest.NewRecorder()
		AdminAuthMiddleware(testSecret)(okHandler(t, id.String())).ServeHTTP(w, r)
		assert.Equal(t, want, w.Code, string(role))
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/meetings/schedule", nil)
	w := httptest.NewRecorder()
	OptionalAuthMiddleware(testSecret)(okHandler(t, "")).ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)

	r = httptest.NewRequest(http.MethodPost, "/api/meetings/schedule", nil)
	r.Header.Set("Authorization", "Bearer broken")
	w = httptest.NewRecorder()
	OptionalAuthMiddleware(testSecret)(okHandler(t, "")).ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)

	id := uuid.New()
	r = httptest.NewRequest(http.MethodPost, "/api/meetings/schedule", nil)
	r.Header.Set("Authorization", "Bearer "+accessToken(t, id, models.RoleUser, time.Hour))
	w = httptest.NewRecorder()
	OptionalAuthMiddleware(testSecret)(okHandler(t, id.String())).ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthCookies(t *testing.T) {
	w := httptest.NewRecorder()
	SetAuthCookies(w, "abc", AccessTokenTTL)
	cookies := w.Header().Values("Set-Cookie")
	require.Len(t, cookies, 2)
	assert.Contains(t, cookies[0], "token=abc")
	assert.Contains(t, cookies[0], "HttpOnly")
	assert.Contains(t, cookies[0], "SameSite=None; Secure")
	assert.Contains(t, cookies[1], "token_middleware=abc")
	assert.NotContains(t, cookies[1], "HttpOnly")

	w = httptest.NewRecorder()
	ClearAuthCookies(w)
	for _, c := range w.Header().Values("Set-Cookie") {
		assert.Contains(t, c, "Max-Age=0")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		r.RemoteAddr = "9.9.9.9:1000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// another client is unaffected
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	r.RemoteAddr = "8.8.8.8:1000"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	rl.Allow("1.2.3.4")
	rl.idleTTL = -time.Second
	rl.cleanup()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.limiters)
}
