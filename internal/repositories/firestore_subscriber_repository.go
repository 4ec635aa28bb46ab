package repositories

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/anonto42/newsline-radio/backend/internal/models"
)

const subscribersCollection = "subscribers"

// FirestoreSubscriberRepository implements SubscriberRepository for Firestore
type FirestoreSubscriberRepository struct {
	client *firestore.Client
}

// NewFirestoreSubscriberRepository creates a new FirestoreSubscriberRepository
func NewFirestoreSubscriberRepository(client *firestore.Client) *FirestoreSubscriberRepository {
	return &FirestoreSubscriberRepository{client: client}
}

// UpsertSubscriber overwrites the subscriber document, clearing a previous soft delete
func (r *FirestoreSubscriberRepository) UpsertSubscriber(ctx context.Context, subscriber *models.Subscriber) error {
	_, err := r.client.Collection(subscribersCollection).Doc(subscriber.ID).Set(ctx, subscriber)
	return err
}

// MarkSubscriberDeleted merges deleted=true into the document
func (r *FirestoreSubscriberRepository) MarkSubscriberDeleted(ctx context.Context, id string) error {
	_, err := r.client.Collection(subscribersCollection).Doc(id).
		Set(ctx, map[string]interface{}{"deleted": true}, firestore.MergeAll)
	return err
}

// ListSubscribers retrieves every subscriber, newest first
func (r *FirestoreSubscriberRepository) ListSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	docs, err := r.client.Collection(subscribersCollection).
		OrderBy("subscribedAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	subscribers := make([]models.Subscriber, 0, len(docs))
	for _, doc := range docs {
		var s models.Subscriber
		if err := doc.DataTo(&s); err != nil {
			return nil, err
		}
		s.ID = doc.Ref.ID
		subscribers = append(subscribers, s)
	}
	return subscribers, nil
}
