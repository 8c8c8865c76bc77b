package constants

import "time"

// Cron schedules and job budgets
const (
	AbandonSweepCronSpec = "@every 30m"
	AbandonSweepTimeout  = 2 * time.Minute
	DigestJobTimeout     = 5 * time.Minute

	DefaultChatAbandonAfterHours = 24
)

// Pagination defaults
const (
	DefaultPropertyPageLimit = 20
	MaxPageLimit             = 100
	DefaultNoticeLimit       = 10
	DefaultAdminListLimit    = 20
	DefaultRecentProperties  = 3
	MaxRecentProperties      = 10
	DefaultBookingTypesLimit = 30
)

// Rate limits for unauthenticated POST endpoints, per client IP.
const (
	PublicPostRequests = 20
	PublicPostWindow   = time.Minute
)

const (
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"
	ShutdownTimeout                       = 15 * time.Second
)
