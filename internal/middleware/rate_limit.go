package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/propnest/rental-backend/internal/metrics"
	"github.com/propnest/rental-backend/internal/utils"
)

// RateLimiter implements per-IP token buckets with periodic cleanup.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rateLimiterEntry
	rate     rate.Limit
	burst    int
	idleTTL  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewRateLimiter allows `requests` per `window` per client IP.
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*rateLimiterEntry),
		rate:     rate.Every(window / time.Duration(requests)),
		burst:    requests,
		idleTTL:  time.Hour,
		stop:     make(chan struct{}),
	}
	go rl.startCleanup(10 * time.Minute)
	return rl
}

// Allow reports whether ip may make another request now.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	entry, exists := rl.limiters[ip]
	if !exists {
		entry = &rateLimiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = entry
	}
	entry.lastAccess = time.Now()
	limiter := entry.limiter
	rl.mu.Unlock()

	return limiter.Allow()
}

func (rl *RateLimiter) startCleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := time.Now().Add(-rl.idleTTL)
	for ip, entry := range rl.limiters {
		if entry.lastAccess.Before(cutoff) {
			delete(rl.limiters, ip)
		}
	}
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := utils.ClientIP(r)
		if !rl.Allow(ip) {
			metrics.RateLimitedTotal.WithLabelValues(routeTemplate(r)).Inc()
			w.Header().Set("Retry-After", "60")
			utils.RespondErrorWithCode(
				w, http.StatusTooManyRequests, utils.ErrCodeRateLimitExceeded,
				"Too many requests, please slow down", nil, utils.ErrRateLimitExceeded,
			)
			return
		}
		next.ServeHTTP(w, r)
	})
}
