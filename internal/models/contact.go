package models

import "time"

// ContactStatus values
const (
	ContactStatusUnread = "unread"
	ContactStatusRead   = "read"
)

// ContactMessage is a message left through the site's contact form
type ContactMessage struct {
	ID        string     `json:"id" firestore:"-" gorm:"primaryKey;size:36"`
	Email     string     `json:"email" firestore:"email" gorm:"size:320"`
	Message   string     `json:"message" firestore:"message" gorm:"type:text"`
	Date      string     `json:"date" firestore:"date" gorm:"size:10;index"` // YYYY-MM-DD, for filtering by day
	Status    string     `json:"status" firestore:"status" gorm:"size:10"`
	Timestamp time.Time  `json:"timestamp" firestore:"timestamp" gorm:"index"`
	ReadAt    *time.Time `json:"readAt,omitempty" firestore:"readAt,omitempty"`
}

// CreateContactRequest defines the request body for the contact form
type CreateContactRequest struct {
	Email   string `json:"email" validate:"required,email,max=320"`
	Message string `json:"message" validate:"required,notblank,max=5000"`
}
