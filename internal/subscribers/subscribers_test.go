package subscribers

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/newsline-radio/backend/internal/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm/schema"
)

func TestSubscriberID(t *testing.T) {
	tests := []struct {
		name  string
		email string
		token string
		want  string
	}{
		{"email", "Jane.Doe+news@Example.com", "", "email_jane_doe_news_example_com"},
		{"email wins over token", "a@b.com", "tok", "email_a_b_com"},
		{"long token", "", "abcdefghijklmnopqrstuvwxyz", "fcm_abcdefghijklmnopqrst"},
		{"short token", "", "abc", "fcm_abc"},
		{"nothing", "", "", "fcm_unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SubscriberID(tt.email, tt.token); got != tt.want {
				t.Errorf("SubscriberID(%q, %q) = %q, want %q", tt.email, tt.token, got, tt.want)
			}
		})
	}
}

func TestSubscriberID_FitsPrimaryKeyColumn(t *testing.T) {
	sch, err := schema.Parse(&models.Subscriber{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("schema.Parse() error = %v", err)
	}
	size := sch.LookUpField("ID").Size

	// the longest address the subscribe form accepts
	email := strings.Repeat("é", 300) + "@example.com" + strings.Repeat("x", 8)
	id := SubscriberID(email, "")
	if n := len([]rune(id)); n > size {
		t.Errorf("id of %d characters does not fit column size %d", n, size)
	}
}

func TestSubscriberID_CaseInsensitiveEmail(t *testing.T) {
	if SubscriberID("A@B.com", "") != SubscriberID("a@b.com", "") {
		t.Error("differently cased emails produced different ids")
	}
}

// memRepo mimics the document store: upserts replace, deletes merge.
type memRepo struct {
	records map[string]models.Subscriber
	err     error
}

func newMemRepo() *memRepo {
	return &memRepo{records: map[string]models.Subscriber{}}
}

func (m *memRepo) UpsertSubscriber(_ context.Context, s *models.Subscriber) error {
	if m.err != nil {
		return m.err
	}
	m.records[s.ID] = *s
	return nil
}

func (m *memRepo) MarkSubscriberDeleted(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	s := m.records[id]
	s.ID = id
	s.Deleted = true
	m.records[id] = s
	return nil
}

func (m *memRepo) ListSubscribers(_ context.Context) ([]models.Subscriber, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Subscriber, 0, len(m.records))
	for _, s := range m.records {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubscribedAt.After(out[j].SubscribedAt) })
	return out, nil
}

func steppingClock() func() time.Time {
	t := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func TestRegistry_CreateOverwritesSameEmail(t *testing.T) {
	repo := newMemRepo()
	reg := NewRegistry(repo, steppingClock(), zerolog.Nop())
	ctx := context.Background()

	id1, err := reg.Create(ctx, "A@B.com", "", models.SubscriberTypeEmail)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	id2, err := reg.Create(ctx, "a@b.com", "", models.SubscriberTypeEmail)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id1 != id2 {
		t.Fatalf("ids differ: %q vs %q", id1, id2)
	}
	if len(repo.records) != 1 {
		t.Fatalf("records = %d, want 1", len(repo.records))
	}
	if got := repo.records[id1].Email; got != "a@b.com" {
		t.Errorf("stored email = %q, want the latest write", got)
	}
}

func TestRegistry_CreateStoresOneContact(t *testing.T) {
	repo := newMemRepo()
	reg := NewRegistry(repo, steppingClock(), zerolog.Nop())

	id, err := reg.Create(context.Background(), "fan@example.com", "token-1", models.SubscriberTypeEmail)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got := repo.records[id]
	if got.FCMToken != "" {
		t.Errorf("token stored alongside email: %q", got.FCMToken)
	}
	if got.Deleted {
		t.Error("new subscriber marked deleted")
	}
	if got.SubscribedAt.IsZero() {
		t.Error("subscribedAt not set")
	}
}

func TestRegistry_CreateRequiresContact(t *testing.T) {
	reg := NewRegistry(newMemRepo(), nil, zerolog.Nop())
	if _, err := reg.Create(context.Background(), "", "", models.SubscriberTypeEmail); !errors.Is(err, ErrMissingContact) {
		t.Errorf("Create() error = %v, want ErrMissingContact", err)
	}
}

func TestRegistry_DeleteListAndEmails(t *testing.T) {
	repo := newMemRepo()
	reg := NewRegistry(repo, steppingClock(), zerolog.Nop())
	ctx := context.Background()

	keep, _ := reg.Create(ctx, "keep@example.com", "", models.SubscriberTypeEmail)
	gone, _ := reg.Create(ctx, "gone@example.com", "", models.SubscriberTypeEmail)
	push, _ := reg.Create(ctx, "", "push-token-0001", models.SubscriberTypeNotification)

	if err := reg.Delete(ctx, gone); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !repo.records[gone].Deleted {
		t.Fatal("record not soft deleted")
	}

	live, err := reg.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(live) != 2 || live[0].ID != push || live[1].ID != keep {
		t.Errorf("List() = %+v, want [%s %s]", live, push, keep)
	}

	all, err := reg.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("All() returned %d records, want 3", len(all))
	}

	emails, err := reg.Emails(ctx)
	if err != nil {
		t.Fatalf("Emails() error = %v", err)
	}
	if len(emails) != 1 || emails[0] != "keep@example.com" {
		t.Errorf("Emails() = %v", emails)
	}
}

func TestRegistry_ResubscribeRevivesDeleted(t *testing.T) {
	repo := newMemRepo()
	reg := NewRegistry(repo, steppingClock(), zerolog.Nop())
	ctx := context.Background()

	id, _ := reg.Create(ctx, "back@example.com", "", models.SubscriberTypeEmail)
	_ = reg.Delete(ctx, id)
	if _, err := reg.Create(ctx, "back@example.com", "", models.SubscriberTypeEmail); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if repo.records[id].Deleted {
		t.Error("re-subscribing did not clear the deleted flag")
	}
}

func TestRegistry_StoreErrorsWrapped(t *testing.T) {
	boom := errors.New("unavailable")
	repo := newMemRepo()
	repo.err = boom
	reg := NewRegistry(repo, nil, zerolog.Nop())
	ctx := context.Background()

	if _, err := reg.Create(ctx, "x@example.com", "", models.SubscriberTypeEmail); !errors.Is(err, boom) {
		t.Errorf("Create() error = %v", err)
	}
	if err := reg.Delete(ctx, "email_x"); !errors.Is(err, boom) {
		t.Errorf("Delete() error = %v", err)
	}
	if _, err := reg.List(ctx); !errors.Is(err, boom) {
		t.Errorf("List() error = %v", err)
	}
}
