package validators

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/anonto42/newsline-radio/backend/internal/models"
	"github.com/labstack/echo/v4"
)

func TestValidate_Subscriber(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		req     models.CreateSubscriberRequest
		wantErr string
	}{
		{"email ok", models.CreateSubscriberRequest{Email: "fan@example.com", Type: "email"}, ""},
		{"token ok", models.CreateSubscriberRequest{FCMToken: "tok-123", Type: "notification"}, ""},
		{"email missing", models.CreateSubscriberRequest{Type: "email"}, "Email is required"},
		{"email malformed", models.CreateSubscriberRequest{Email: "not-an-email", Type: "email"}, "valid email"},
		{"token missing", models.CreateSubscriberRequest{Type: "notification"}, "FCMToken is required"},
		{"unknown type", models.CreateSubscriberRequest{Email: "fan@example.com", Type: "sms"}, "one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			var he *echo.HTTPError
			if !errors.As(err, &he) {
				t.Fatalf("Validate() error = %v, want *echo.HTTPError", err)
			}
			if he.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", he.Code)
			}
			if msg, _ := he.Message.(string); !strings.Contains(msg, tt.wantErr) {
				t.Errorf("message = %q, want it to contain %q", msg, tt.wantErr)
			}
		})
	}
}

func TestValidate_NotBlankAndISODate(t *testing.T) {
	v := NewValidator()

	blank := models.SendNotificationRequest{Title: "   ", Message: "Tune in"}
	if err := v.Validate(&blank); err == nil {
		t.Error("expected whitespace-only title to be rejected")
	}

	for _, date := range []string{"2024-03-05T10:00:00Z", "2024-03-05T10:00:00.123+03:00", "2024-03-05T10:00:00", "2024-03-05"} {
		ok := models.CreateArticleRequest{Title: "Live", Content: "<p>x</p>", PublishedAt: date}
		if err := v.Validate(&ok); err != nil {
			t.Errorf("unexpected error for publishedAt %q: %v", date, err)
		}
	}

	bad := models.CreateArticleRequest{Title: "Live", Content: "<p>x</p>", PublishedAt: "March 5th"}
	if err := v.Validate(&bad); err == nil {
		t.Error("expected non ISO publishedAt to be rejected")
	}
}
