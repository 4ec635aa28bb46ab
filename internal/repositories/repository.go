package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/newsline-radio/backend/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrSlugTaken is returned when a conditional slug write loses to
	// another article holding the same slug.
	ErrSlugTaken = errors.New("slug already assigned to another article")
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	// CreateArticle stores a new article and sets its ID. The slug write is
	// conditional: ErrSlugTaken when another article already holds it.
	CreateArticle(ctx context.Context, article *models.Article) error
	GetArticleByID(ctx context.Context, id string) (*models.Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// ListArticles returns the newest articles first.
	ListArticles(ctx context.Context, limit int) ([]models.Article, error)
	// UpdateArticle writes the editable fields; slug and dates are left alone.
	UpdateArticle(ctx context.Context, article *models.Article) error
	// AssignSlug gives a slug-less article its slug and date fields,
	// with the same conditional write as CreateArticle.
	AssignSlug(ctx context.Context, article *models.Article) error
	DeleteArticle(ctx context.Context, id string) error
}

// SubscriberRepository defines the interface for subscriber data operations.
// Reads are not filtered: soft-deleted records are returned too.
type SubscriberRepository interface {
	UpsertSubscriber(ctx context.Context, subscriber *models.Subscriber) error
	MarkSubscriberDeleted(ctx context.Context, id string) error
	// ListSubscribers returns every record, newest subscription first.
	ListSubscribers(ctx context.Context) ([]models.Subscriber, error)
}

// ContactRepository defines the interface for contact form messages
type ContactRepository interface {
	CreateContact(ctx context.Context, message *models.ContactMessage) error
	// ListContacts returns messages newest first, optionally only for date (YYYY-MM-DD).
	ListContacts(ctx context.Context, date string) ([]models.ContactMessage, error)
	MarkContactRead(ctx context.Context, id string, at time.Time) error
}

// StatsRepository defines the interface for live-stream listener counters
type StatsRepository interface {
	TrackListener(ctx context.Context, at time.Time) error
	DecrementListener(ctx context.Context, at time.Time) error
	GetStats(ctx context.Context) (*models.ListenerStats, error)
	// ToggleLike flips the listener's like and returns the new state.
	ToggleLike(ctx context.Context, userID string, at time.Time) (bool, error)
	HasLiked(ctx context.Context, userID string) (bool, error)
}
