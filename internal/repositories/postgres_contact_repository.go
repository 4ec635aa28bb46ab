package repositories

import (
	"context"
	"time"

	"github.com/anonto42/newsline-radio/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type postgresContactRepository struct {
	db *gorm.DB
}

func NewPostgresContactRepository(db *gorm.DB) ContactRepository {
	return &postgresContactRepository{db: db}
}

func (r *postgresContactRepository) CreateContact(ctx context.Context, message *models.ContactMessage) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *postgresContactRepository) ListContacts(ctx context.Context, date string) ([]models.ContactMessage, error) {
	messages := []models.ContactMessage{}
	q := r.db.WithContext(ctx).Order("timestamp DESC")
	if date != "" {
		q = q.Where("date = ?", date)
	}
	err := q.Find(&messages).Error
	return messages, err
}

func (r *postgresContactRepository) MarkContactRead(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.ContactMessage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": models.ContactStatusRead, "read_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
