package repositories

import (
	"context"

	"github.com/anonto42/newsline-radio/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresSubscriberRepository implements SubscriberRepository for PostgreSQL
type PostgresSubscriberRepository struct {
	db *gorm.DB
}

// NewPostgresSubscriberRepository creates a new PostgresSubscriberRepository
func NewPostgresSubscriberRepository(db *gorm.DB) *PostgresSubscriberRepository {
	return &PostgresSubscriberRepository{db: db}
}

// UpsertSubscriber writes the whole record, replacing any row with the same ID
func (r *PostgresSubscriberRepository) UpsertSubscriber(ctx context.Context, subscriber *models.Subscriber) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(subscriber).Error
}

// MarkSubscriberDeleted sets the deleted flag. Unknown IDs are not an error.
func (r *PostgresSubscriberRepository) MarkSubscriberDeleted(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.Subscriber{}).
		Where("id = ?", id).
		Update("deleted", true).Error
}

// ListSubscribers retrieves all subscribers from PostgreSQL, newest first
func (r *PostgresSubscriberRepository) ListSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	subscribers := []models.Subscriber{}
	if err := r.db.WithContext(ctx).Order("subscribed_at DESC").Find(&subscribers).Error; err != nil {
		return nil, err
	}
	return subscribers, nil
}
