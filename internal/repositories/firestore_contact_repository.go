package repositories

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/anonto42/newsline-radio/backend/internal/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const contactsCollection = "contacts"

type firestoreContactRepository struct {
	client *firestore.Client
}

func NewFirestoreContactRepository(client *firestore.Client) ContactRepository {
	return &firestoreContactRepository{client: client}
}

func (r *firestoreContactRepository) CreateContact(ctx context.Context, message *models.ContactMessage) error {
	ref, _, err := r.client.Collection(contactsCollection).Add(ctx, message)
	if err != nil {
		return err
	}
	message.ID = ref.ID
	return nil
}

func (r *firestoreContactRepository) ListContacts(ctx context.Context, date string) ([]models.ContactMessage, error) {
	q := r.client.Collection(contactsCollection).OrderBy("timestamp", firestore.Desc)
	if date != "" {
		q = q.Where("date", "==", date)
	}
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	messages := make([]models.ContactMessage, 0, len(docs))
	for _, doc := range docs {
		var m models.ContactMessage
		if err := doc.DataTo(&m); err != nil {
			return nil, err
		}
		m.ID = doc.Ref.ID
		messages = append(messages, m)
	}
	return messages, nil
}

func (r *firestoreContactRepository) MarkContactRead(ctx context.Context, id string, at time.Time) error {
	_, err := r.client.Collection(contactsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: models.ContactStatusRead},
		{Path: "readAt", Value: at},
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}
