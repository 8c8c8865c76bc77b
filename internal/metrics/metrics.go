package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by route template, method and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration tracks handler latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rental_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_rate_limited_total",
			Help: "Requests rejected by the per-IP rate limiter",
		},
		[]string{"route"},
	)

	ChatbotConversationsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rental_chatbot_conversations_started_total",
			Help: "Chatbot conversations created",
		},
	)

	ChatbotFlowsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_chatbot_flows_completed_total",
			Help: "Chatbot flows that reached their completion step",
		},
		[]string{"flow"},
	)

	ChatbotEscalations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rental_chatbot_escalations_total",
			Help: "Chatbot conversations escalated to staff",
		},
	)

	ChatbotAbandoned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rental_chatbot_abandoned_total",
			Help: "Chatbot conversations marked abandoned by the idle sweeper",
		},
	)

	OutboundMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_outbound_messages_total",
			Help: "Emails and SMS sent, by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	ExternalCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_external_calls_total",
			Help: "Calls to third-party APIs, by service and outcome",
		},
		[]string{"service", "outcome"},
	)
)
