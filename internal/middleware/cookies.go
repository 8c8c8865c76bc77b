package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/propnest/rental-backend/internal/utils"
)

// SetAuthCookies writes the HttpOnly access cookie and its readable twin.
// Both are SameSite=None so the separately hosted frontend can send them.
func SetAuthCookies(w http.ResponseWriter, token string, ttl time.Duration) {
	if token == "" {
		return
	}
	maxAge := int(ttl.Seconds())
	writeCookie(w, AccessTokenCookieName, token, maxAge, true)
	writeCookie(w, MiddlewareTokenCookieName, token, maxAge, false)
	addSecurityHeaders(w)
}

// ClearAuthCookies expires both auth cookies.
func ClearAuthCookies(w http.ResponseWriter) {
	writeCookie(w, AccessTokenCookieName, "", 0, true)
	writeCookie(w, MiddlewareTokenCookieName, "", 0, false)
	addSecurityHeaders(w)
}

func writeCookie(w http.ResponseWriter, name, value string, maxAge int, httpOnly bool) {
	expires := time.Now().Add(time.Duration(maxAge) * time.Second)
	if maxAge == 0 {
		expires = time.Now().Add(-1 * time.Hour)
	}

	line := fmt.Sprintf("%s=%s; Path=/; Max-Age=%d; Expires=%s; SameSite=None; Secure",
		name, value, maxAge, expires.UTC().Format(http.TimeFormat))
	if httpOnly {
		line += "; HttpOnly"
	}

	utils.Logger.Debugf("[cookies] writing cookie %s maxAge=%d httpOnly=%t", name, maxAge, httpOnly)
	w.Header().Add("Set-Cookie", line)
}

func addSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
}
