// Package push delivers notifications through Firebase Cloud Messaging.
package push

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/anonto42/newsline-radio/backend/internal/fanout"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Sender is the part of messaging.Client the gateway needs.
type Sender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// Config holds the web push presentation settings.
type Config struct {
	Link             string
	Icon             string
	Badge            string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// DefaultConfig returns the settings used by the site.
func DefaultConfig() Config {
	return Config{
		Link:             "https://radio.kenlive.co.ke",
		Icon:             "/newsline-logo.png",
		Badge:            "/newsline-logo.png",
		FailureThreshold: 3,
		OpenTimeout:      30 * time.Second,
	}
}

// FCMGateway implements fanout.Gateway over FCM multicast.
type FCMGateway struct {
	sender  Sender
	cfg     Config
	breaker *gobreaker.CircuitBreaker[*messaging.BatchResponse]
	logger  zerolog.Logger
}

// NewFCMGateway creates an FCMGateway
func NewFCMGateway(sender Sender, cfg Config, logger zerolog.Logger) *FCMGateway {
	g := &FCMGateway{
		sender: sender,
		cfg:    cfg,
		logger: logger.With().Str("component", "fcm-gateway").Logger(),
	}
	g.breaker = gobreaker.NewCircuitBreaker[*messaging.BatchResponse](gobreaker.Settings{
		Name:        "fcm",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("push gateway circuit breaker state changed")
		},
	})
	return g
}

// SendMulticast sends msg to every token in one request.
func (g *FCMGateway) SendMulticast(ctx context.Context, msg fanout.Multicast) (*fanout.BatchResult, error) {
	resp, err := g.breaker.Execute(func() (*messaging.BatchResponse, error) {
		return g.sender.SendEachForMulticast(ctx, g.buildMessage(msg))
	})
	if err != nil {
		return nil, fmt.Errorf("fcm multicast: %w", err)
	}
	return toBatchResult(resp), nil
}

func (g *FCMGateway) buildMessage(msg fanout.Multicast) *messaging.MulticastMessage {
	return &messaging.MulticastMessage{
		Tokens: msg.Tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title:              msg.Title,
				Body:               msg.Body,
				Icon:               g.cfg.Icon,
				Badge:              g.cfg.Badge,
				Vibrate:            []int{200, 100, 200},
				RequireInteraction: true,
			},
			FCMOptions: &messaging.WebpushFCMOptions{
				Link: g.cfg.Link,
			},
		},
	}
}

func toBatchResult(resp *messaging.BatchResponse) *fanout.BatchResult {
	out := &fanout.BatchResult{
		SuccessCount: resp.SuccessCount,
		FailureCount: resp.FailureCount,
		Results:      make([]fanout.TokenResult, len(resp.Responses)),
	}
	for i, r := range resp.Responses {
		if r == nil {
			out.Results[i] = fanout.TokenResult{Error: "no response"}
			continue
		}
		out.Results[i].Success = r.Success
		if r.Error != nil {
			out.Results[i].Error = r.Error.Error()
		} else if !r.Success {
			out.Results[i].Error = "Unknown error"
		}
	}
	return out
}
