package subscribers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/newsline-radio/backend/internal/metrics"
	"github.com/anonto42/newsline-radio/backend/internal/models"
	"github.com/rs/zerolog"
)

// ErrMissingContact is returned when neither an email nor a token is given.
var ErrMissingContact = errors.New("subscriber needs an email or a push token")

// Repository is the storage the registry writes through. Reads return
// soft-deleted records as well.
type Repository interface {
	UpsertSubscriber(ctx context.Context, subscriber *models.Subscriber) error
	MarkSubscriberDeleted(ctx context.Context, id string) error
	ListSubscribers(ctx context.Context) ([]models.Subscriber, error)
}

// Registry creates, soft-deletes and lists subscribers.
type Registry struct {
	repo   Repository
	now    func() time.Time
	logger zerolog.Logger
}

// NewRegistry creates a Registry. A nil clock means time.Now.
func NewRegistry(repo Repository, now func() time.Time, logger zerolog.Logger) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		repo:   repo,
		now:    now,
		logger: logger.With().Str("component", "subscribers").Logger(),
	}
}

// Create stores the subscriber under its derived ID, replacing any
// previous record with that ID, and returns the ID.
func (r *Registry) Create(ctx context.Context, email, token string, typ models.SubscriberType) (string, error) {
	if email == "" && token == "" {
		return "", ErrMissingContact
	}
	sub := &models.Subscriber{
		ID:           SubscriberID(email, token),
		Type:         typ,
		SubscribedAt: r.now().UTC(),
	}
	if email != "" {
		sub.Email = email
	} else {
		sub.FCMToken = token
	}

	if err := r.repo.UpsertSubscriber(ctx, sub); err != nil {
		return "", fmt.Errorf("store subscriber: %w", err)
	}
	metrics.SubscriberWrites.WithLabelValues("create", string(typ)).Inc()
	r.logger.Info().Str("subscriber_id", sub.ID).Str("type", string(typ)).Msg("subscriber saved")
	return sub.ID, nil
}

// Delete marks the subscriber as deleted. The record is kept.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if err := r.repo.MarkSubscriberDeleted(ctx, id); err != nil {
		return fmt.Errorf("delete subscriber %s: %w", id, err)
	}
	metrics.SubscriberWrites.WithLabelValues("delete", "").Inc()
	r.logger.Info().Str("subscriber_id", id).Msg("subscriber deleted")
	return nil
}

// All returns every stored record, deleted ones included, newest first.
func (r *Registry) All(ctx context.Context) ([]models.Subscriber, error) {
	subs, err := r.repo.ListSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return subs, nil
}

// List returns the live subscribers, newest first.
func (r *Registry) List(ctx context.Context) ([]models.Subscriber, error) {
	subs, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	live := make([]models.Subscriber, 0, len(subs))
	for _, s := range subs {
		if !s.Deleted {
			live = append(live, s)
		}
	}
	return live, nil
}

// Emails returns the addresses of live email subscribers.
func (r *Registry) Emails(ctx context.Context) ([]string, error) {
	subs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(subs))
	for _, s := range subs {
		if s.Type == models.SubscriberTypeEmail && s.Email != "" {
			emails = append(emails, s.Email)
		}
	}
	return emails, nil
}
