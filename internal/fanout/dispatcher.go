// Package fanout delivers one push notification to every qualifying
// subscriber through a multicast gateway and reports the outcome.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/newsline-radio/backend/internal/metrics"
	"github.com/anonto42/newsline-radio/backend/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrMissingContent   = errors.New("notification title and message are required")
	ErrNoRecipients     = errors.New("no subscribers with push notifications enabled")
	ErrGatewayTransport = errors.New("push gateway request failed")
)

const failureTokenPrefix = 20

// Multicast is a single notification addressed to many device tokens.
type Multicast struct {
	Tokens []string
	Title  string
	Body   string
}

// TokenResult is the gateway's answer for one token.
type TokenResult struct {
	Success bool
	Error   string
}

// BatchResult holds the per-token results in the order the tokens were sent.
type BatchResult struct {
	SuccessCount int
	FailureCount int
	Results      []TokenResult
}

// Gateway sends a multicast message. An error means the request as a
// whole failed; per-token failures are reported in the result.
type Gateway interface {
	SendMulticast(ctx context.Context, msg Multicast) (*BatchResult, error)
}

// Failure describes a token the gateway did not accept.
type Failure struct {
	Token string `json:"token"`
	Error string `json:"error"`
}

// Report summarizes one dispatch.
type Report struct {
	JobID        string    `json:"jobId"`
	Requested    int       `json:"requested"`
	SuccessCount int       `json:"successCount"`
	FailureCount int       `json:"failureCount"`
	Failures     []Failure `json:"failures,omitempty"`
}

// Dispatcher fans a notification out to push subscribers.
type Dispatcher struct {
	gateway Gateway
	logger  zerolog.Logger
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(gateway Gateway, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		gateway: gateway,
		logger:  logger.With().Str("component", "fanout").Logger(),
	}
}

// Recipients returns the push tokens of qualifying subscribers in order.
// Duplicates are kept.
func Recipients(subs []models.Subscriber) []string {
	tokens := make([]string, 0, len(subs))
	for i := range subs {
		if subs[i].IsPushTarget() {
			tokens = append(tokens, subs[i].FCMToken)
		}
	}
	return tokens
}

// Send validates the content, selects the recipients and sends a single
// multicast. Nothing is sent when validation fails. Per-token failures are
// counted in the report and are not errors.
func (d *Dispatcher) Send(ctx context.Context, subs []models.Subscriber, title, message string) (*Report, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(message) == "" {
		return nil, ErrMissingContent
	}
	tokens := Recipients(subs)
	if len(tokens) == 0 {
		return nil, ErrNoRecipients
	}

	report := &Report{JobID: uuid.NewString(), Requested: len(tokens)}
	log := d.logger.With().Str("job_id", report.JobID).Logger()
	log.Info().Int("tokens", len(tokens)).Msg("sending notification")

	result, err := d.gateway.SendMulticast(ctx, Multicast{Tokens: tokens, Title: title, Body: message})
	if err != nil {
		metrics.GatewayErrors.Inc()
		log.Error().Err(err).Msg("push gateway request failed")
		return nil, fmt.Errorf("%w: %v", ErrGatewayTransport, err)
	}

	var results []TokenResult
	if result != nil {
		results = result.Results
	}
	for i, token := range tokens {
		if i < len(results) && results[i].Success {
			report.SuccessCount++
			continue
		}
		reason := "no result from gateway"
		if i < len(results) {
			reason = results[i].Error
		}
		report.FailureCount++
		report.Failures = append(report.Failures, Failure{Token: truncateToken(token), Error: reason})
	}

	metrics.NotificationsDelivered.Add(float64(report.SuccessCount))
	metrics.NotificationsFailed.Add(float64(report.FailureCount))
	log.Info().
		Int("success", report.SuccessCount).
		Int("failure", report.FailureCount).
		Msg("notification sent")
	return report, nil
}

func truncateToken(token string) string {
	n := 0
	for pos := range token {
		if n == failureTokenPrefix {
			return token[:pos] + "..."
		}
		n++
	}
	return token + "..."
}
