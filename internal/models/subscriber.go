package models

import "time"

// SubscriberType is the channel a subscriber signed up through
type SubscriberType string

const (
	SubscriberTypeEmail        SubscriberType = "email"
	SubscriberTypeNotification SubscriberType = "notification"
)

// Subscriber is a newsletter or push-notification subscriber. The ID is
// derived from the email or token, so re-subscribing overwrites the record.
type Subscriber struct {
	ID           string         `json:"id" firestore:"-" gorm:"primaryKey;size:330"`
	Email        string         `json:"email,omitempty" firestore:"email" gorm:"size:320;index"`
	FCMToken     string         `json:"fcmToken,omitempty" firestore:"fcmToken" gorm:"column:fcm_token;type:text"`
	Type         SubscriberType `json:"type" firestore:"type" gorm:"size:20;index"`
	SubscribedAt time.Time      `json:"subscribedAt" firestore:"subscribedAt" gorm:"index"`
	Deleted      bool           `json:"deleted,omitempty" firestore:"deleted" gorm:"index"`
}

// IsPushTarget reports whether the subscriber can receive a push notification.
func (s *Subscriber) IsPushTarget() bool {
	return s.Type == SubscriberTypeNotification && s.FCMToken != "" && !s.Deleted
}

// CreateSubscriberRequest defines the request body for the public subscribe form
type CreateSubscriberRequest struct {
	Email    string         `json:"email,omitempty" validate:"required_if=Type email,omitempty,email,max=320"`
	FCMToken string         `json:"fcmToken,omitempty" validate:"required_if=Type notification,omitempty,max=4096"`
	Type     SubscriberType `json:"type" validate:"required,oneof=email notification"`
}

// SendNotificationRequest defines the request body for an admin broadcast
type SendNotificationRequest struct {
	Title   string `json:"title" validate:"required,notblank,max=200"`
	Message string `json:"message" validate:"required,notblank,max=1000"`
}
