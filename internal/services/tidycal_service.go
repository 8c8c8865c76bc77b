package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/propnest/rental-backend/internal/config"
	"github.com/propnest/rental-backend/internal/metrics"
	"github.com/propnest/rental-backend/internal/utils"
)

const (
	tidyCalTimeout          = 10 * time.Second
	tidyCalFailureThreshold = 5
	tidyCalOpenTimeout      = 30 * time.Second
	tidyCalMaxBody          = 5 << 20
)

// ProxyResponse is an upstream reply relayed verbatim, including HTTP errors.
type ProxyResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

type TidyCalService struct {
	cfg     *config.Config
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*ProxyResponse]
}

func NewTidyCalService(cfg *config.Config) *TidyCalService {
	settings := gobreaker.Settings{
		Name:        "tidycal",
		MaxRequests: 1,
		Timeout:     tidyCalOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tidyCalFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			utils.Logger.Warnf("[%s] circuit breaker %s -> %s", name, from, to)
		},
	}
	return &TidyCalService{
		cfg:     cfg,
		client:  &http.Client{Timeout: tidyCalTimeout},
		breaker: gobreaker.NewCircuitBreaker[*ProxyResponse](settings),
	}
}

func badGateway(message string, err error) *utils.AppError {
	return &utils.AppError{
		StatusCode: http.StatusBadGateway,
		Code:       utils.ErrCodeExternalServiceFailure,
		Message:    message,
		Err:        fmt.Errorf("%w: %v", utils.ErrExternalServiceFailure, err),
	}
}

// BookingTypes relays GET /booking-types. Upstream 5xx replies count as
// breaker failures but are still passed through to the caller.
func (s *TidyCalService) BookingTypes(ctx context.Context, page, perPage int) (*ProxyResponse, error) {
	if s.cfg.TidyCalAPIKey == "" {
		return nil, utils.NewInternalError("TidyCal API key is not configured", utils.ErrMissingConfiguration)
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	endpoint := s.cfg.TidyCalBaseURL + "/booking-types?" + q.Encode()

	var relayed *ProxyResponse
	_, err := s.breaker.Execute(func() (*ProxyResponse, error) {
		resp, err := s.fetch(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		relayed = resp
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, fmt.Errorf("tidycal status %d", resp.StatusCode)
		}
		return resp, nil
	})

	switch {
	case relayed != nil:
		outcome := "ok"
		if relayed.StatusCode >= http.StatusBadRequest {
			outcome = "upstream_error"
		}
		metrics.ExternalCallsTotal.WithLabelValues("tidycal", outcome).Inc()
		return relayed, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.ExternalCallsTotal.WithLabelValues("tidycal", "circuit_open").Inc()
		return nil, badGateway("TidyCal is temporarily unavailable", err)
	default:
		metrics.ExternalCallsTotal.WithLabelValues("tidycal", "failed").Inc()
		utils.Logger.WithError(err).Error("TidyCal request failed")
		return nil, badGateway("Failed to reach TidyCal", err)
	}
}

func (s *TidyCalService) fetch(ctx context.Context, endpoint string) (*ProxyResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.TidyCalAPIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, tidyCalMaxBody))
	if err != nil {
		return nil, err
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/json"
	}
	return &ProxyResponse{StatusCode: resp.StatusCode, ContentType: ct, Body: body}, nil
}
